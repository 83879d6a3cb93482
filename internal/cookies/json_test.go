package cookies

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `[
  {
    "domain": ".reddit.com",
    "expirationDate": 1999999999.123,
    "httpOnly": true,
    "name": "reddit_session",
    "path": "/",
    "sameSite": "no_restriction",
    "secure": true,
    "session": false,
    "value": "abc123"
  },
  {
    "domain": "www.reddit.com",
    "name": "session_tracker",
    "sameSite": "lax",
    "session": true,
    "value": "xyz"
  }
]`

func TestJSONParse(t *testing.T) {
	parsed, err := jsonFormat{}.Parse([]byte(sampleJSON))
	require.NoError(t, err)
	require.Len(t, parsed, 2)

	session := parsed[0]
	assert.Equal(t, "reddit_session", session.Name)
	assert.Equal(t, ".reddit.com", session.Domain)
	assert.True(t, session.Secure)
	assert.True(t, session.HTTPOnly)
	assert.Equal(t, "None", session.SameSite)
	assert.WithinDuration(t, time.Unix(1999999999, 0), session.Expires, 0)

	tracker := parsed[1]
	assert.Equal(t, "Lax", tracker.SameSite)
	assert.True(t, tracker.Expires.IsZero(), "session:true must not produce an expiry")
}

func TestJSONParseRejectsMissingName(t *testing.T) {
	_, err := jsonFormat{}.Parse([]byte(`[{"domain":".reddit.com","value":"v"}]`))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestJSONParseRejectsInvalidJSON(t *testing.T) {
	_, err := jsonFormat{}.Parse([]byte(`[{"name":`))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestJSONExpiryFallsBackToExpires(t *testing.T) {
	parsed, err := jsonFormat{}.Parse([]byte(`[{"name":"n","domain":"reddit.com","expires":1999999999}]`))
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	assert.WithinDuration(t, time.Unix(1999999999, 0), parsed[0].Expires, 0)
}

func TestNormalizeSameSite(t *testing.T) {
	cases := map[string]string{
		"no_restriction": "None",
		"None":           "None",
		"lax":            "Lax",
		"Strict":         "Strict",
		"unspecified":    "",
		"":               "",
	}
	for in, want := range cases {
		assert.Equal(t, want, normalizeSameSite(in), "input %q", in)
	}
}

func TestJSONSniff(t *testing.T) {
	assert.True(t, jsonFormat{}.Sniff([]byte(sampleJSON)))
	assert.True(t, jsonFormat{}.Sniff([]byte("  [\n]")))
	assert.False(t, jsonFormat{}.Sniff([]byte(sampleNetscape)))
	assert.False(t, jsonFormat{}.Sniff([]byte(`{"name":"a"}`)))
}
