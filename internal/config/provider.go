package config

// ConfigProvider defines the interface for configuration access
type ConfigProvider interface {
	GetSubreddits() []string
	GetRedditUsername() string
	GetRunAt() string
	GetWaitSecondsMin() int
	GetWaitSecondsMax() int
	GetCredentialSource() string
	GetBrowser() string
	GetCookieFile() string
	GetProfileDir() string
	IsImmediateRun() bool
	IsTestMode() bool
	GetSelectionPolicy() string
	IsHeadless() bool
	GetChromePath() string
	GetPageTimeoutSeconds() int
	GetScreenshotDir() string
	GetNotify() Notify
	GetLogPath() string
	GetPidFile() string
}

// ConfigImpl implements ConfigProvider interface
type ConfigImpl struct {
	cfg *config
}

// NewConfigProvider creates a new ConfigProvider instance
func NewConfigProvider(cfg *config) ConfigProvider {
	return &ConfigImpl{cfg: cfg}
}

func (c *ConfigImpl) GetSubreddits() []string {
	return c.cfg.Subreddits
}

func (c *ConfigImpl) GetRedditUsername() string {
	return c.cfg.RedditUsername
}

func (c *ConfigImpl) GetRunAt() string {
	return c.cfg.RunAt
}

func (c *ConfigImpl) GetWaitSecondsMin() int {
	return c.cfg.WaitSecondsMin
}

func (c *ConfigImpl) GetWaitSecondsMax() int {
	return c.cfg.WaitSecondsMax
}

func (c *ConfigImpl) GetCredentialSource() string {
	return c.cfg.CredentialSource
}

func (c *ConfigImpl) GetBrowser() string {
	return c.cfg.Browser
}

func (c *ConfigImpl) GetCookieFile() string {
	return c.cfg.CookieFile
}

func (c *ConfigImpl) GetProfileDir() string {
	return c.cfg.ProfileDir
}

func (c *ConfigImpl) IsImmediateRun() bool {
	return c.cfg.ImmediateRun
}

func (c *ConfigImpl) IsTestMode() bool {
	return c.cfg.TestMode
}

func (c *ConfigImpl) GetSelectionPolicy() string {
	return c.cfg.SelectionPolicy
}

func (c *ConfigImpl) IsHeadless() bool {
	return c.cfg.Headless
}

func (c *ConfigImpl) GetChromePath() string {
	return c.cfg.ChromePath
}

func (c *ConfigImpl) GetPageTimeoutSeconds() int {
	return c.cfg.PageTimeout
}

func (c *ConfigImpl) GetScreenshotDir() string {
	return c.cfg.ScreenshotDir
}

func (c *ConfigImpl) GetNotify() Notify {
	return c.cfg.Notify
}

func (c *ConfigImpl) GetLogPath() string {
	return c.cfg.LogPath
}

func (c *ConfigImpl) GetPidFile() string {
	return c.cfg.PidFile
}
