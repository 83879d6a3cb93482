package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *config {
	c := NewConfig()
	c.Subreddits = []string{"mildlyinteresting"}
	c.CookieFile = "/tmp/cookies.txt"
	return c
}

func TestValidateAcceptsDefaults(t *testing.T) {
	assert.NoError(t, validConfig().validate())
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(c *config)
		wantErr string
	}{
		{"no subreddits", func(c *config) { c.Subreddits = nil }, "at least one community"},
		{"blank subreddit", func(c *config) { c.Subreddits = []string{"golang", " "} }, "empty entries"},
		{"bad run_at", func(c *config) { c.RunAt = "25:00" }, "run_at"},
		{"zero wait min", func(c *config) { c.WaitSecondsMin = 0 }, "wait_seconds_min"},
		{"max below min", func(c *config) { c.WaitSecondsMax = c.WaitSecondsMin - 1 }, "wait_seconds_max"},
		{"unknown source", func(c *config) { c.CredentialSource = "keychain" }, "credential_source"},
		{"cookie file missing", func(c *config) { c.CookieFile = "" }, "cookie_file is required"},
		{"browser missing", func(c *config) {
			c.CredentialSource = SourceBrowserProfile
			c.Browser = ""
		}, "browser is required"},
		{"unknown policy", func(c *config) { c.SelectionPolicy = "newest" }, "selection_policy"},
		{"zero page timeout", func(c *config) { c.PageTimeout = 0 }, "page_timeout_seconds"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := validConfig()
			tc.mutate(c)
			err := c.validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestValidateAutomationProfileNeedsNoExtras(t *testing.T) {
	c := validConfig()
	c.CredentialSource = SourceAutomationProfile
	c.CookieFile = ""
	c.Browser = ""
	assert.NoError(t, c.validate())
}

func TestLoadAppliesDefaultsAndEnvPassword(t *testing.T) {
	t.Setenv(XdgConfigHome, t.TempDir())
	t.Setenv(SmtpPasswordEnvVar, "from-env")

	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	raw := `subreddits:
  - mildlyinteresting
run_at: "21:30"
credential_source: cookie-file
cookie_file: /tmp/cookies.txt
notify:
  smtp_server: smtp.example.com
  smtp_port: 587
  smtp_username: bot@example.com
  smtp_password: from-file
  to: me@example.com
`
	require.NoError(t, os.WriteFile(file, []byte(raw), 0644))

	c, err := Load(file)
	require.NoError(t, err)

	assert.Equal(t, []string{"mildlyinteresting"}, c.Subreddits)
	assert.Equal(t, "21:30", c.RunAt)
	assert.Equal(t, "from-env", c.Notify.Password, "the env var wins over the file")

	assert.Equal(t, 30, c.WaitSecondsMin, "absent keys keep their defaults")
	assert.Equal(t, 90, c.WaitSecondsMax)
	assert.Equal(t, PolicyRandom, c.SelectionPolicy)
	assert.True(t, c.Headless)
	assert.NotEmpty(t, c.LogPath, "runtime paths are filled in")
	assert.NotEmpty(t, c.PidFile)
	assert.NotEmpty(t, c.ProfileDir)
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	t.Setenv(XdgConfigHome, t.TempDir())

	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	raw := `subreddits: []
credential_source: cookie-file
cookie_file: /tmp/cookies.txt
`
	require.NoError(t, os.WriteFile(file, []byte(raw), 0644))

	_, err := Load(file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv(XdgConfigHome, t.TempDir())

	c := validConfig()
	c.Subreddits = []string{"golang", "programming"}
	c.RunAt = "07:45"
	c.TestMode = true

	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, Save(*c, file))

	loaded, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, c.Subreddits, loaded.Subreddits)
	assert.Equal(t, "07:45", loaded.RunAt)
	assert.True(t, loaded.TestMode)
	assert.Equal(t, SourceCookieFile, loaded.CredentialSource)
}

func TestNotifyEnabled(t *testing.T) {
	assert.False(t, Notify{}.Enabled())
	assert.False(t, Notify{Server: "smtp.example.com"}.Enabled())
	assert.False(t, Notify{To: "me@example.com"}.Enabled())
	assert.True(t, Notify{Server: "smtp.example.com", To: "me@example.com"}.Enabled())
}
