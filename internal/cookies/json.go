package cookies

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// jsonFormat parses browser-extension exports (EditThisCookie and friends):
// a JSON array of cookie objects.
type jsonFormat struct{}

func (jsonFormat) Name() string { return "json" }

func (jsonFormat) Sniff(data []byte) bool {
	return strings.HasPrefix(strings.TrimSpace(string(data)), "[")
}

type jsonCookie struct {
	Name           string  `json:"name"`
	Value          string  `json:"value"`
	Domain         string  `json:"domain"`
	Path           string  `json:"path"`
	Secure         bool    `json:"secure"`
	HTTPOnly       bool    `json:"httpOnly"`
	Session        bool    `json:"session"`
	ExpirationDate float64 `json:"expirationDate"`
	Expires        float64 `json:"expires"`
	SameSite       string  `json:"sameSite"`
}

func (jsonFormat) Parse(data []byte) ([]Cookie, error) {
	var raw []jsonCookie
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var parsed []Cookie
	for i, jc := range raw {
		if jc.Name == "" || jc.Domain == "" {
			return nil, fmt.Errorf("%w: entry %d is missing name or domain", ErrMalformed, i)
		}
		parsed = append(parsed, Cookie{
			Name:     jc.Name,
			Value:    jc.Value,
			Domain:   jc.Domain,
			Path:     jc.Path,
			Secure:   jc.Secure,
			HTTPOnly: jc.HTTPOnly,
			SameSite: normalizeSameSite(jc.SameSite),
			Expires:  jc.expiry(),
		})
	}
	return parsed, nil
}

func (jc jsonCookie) expiry() time.Time {
	if jc.Session {
		return time.Time{}
	}
	secs := jc.ExpirationDate
	if secs <= 0 {
		secs = jc.Expires
	}
	if secs <= 0 {
		return time.Time{}
	}
	return time.Unix(int64(secs), 0)
}

// normalizeSameSite maps the export spellings onto the CDP ones. Unknown
// values are dropped rather than guessed.
func normalizeSameSite(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "no_restriction", "none":
		return "None"
	case "lax":
		return "Lax"
	case "strict":
		return "Strict"
	default:
		return ""
	}
}
