package config

import (
	"fmt"
	"os"
	"os/user"
	"path"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jwiersema/streakd/internal/schedule"
	"github.com/jwiersema/streakd/internal/util"
)

// Credential sources, the three ways a run can appear logged in.
const (
	SourceBrowserProfile    = "browser-profile"
	SourceCookieFile        = "cookie-file"
	SourceAutomationProfile = "automation-profile"
)

// Selection policies for picking among the top posts.
const (
	PolicyRandom = "random"
	PolicyFirst  = "first"
)

const DefaultPageTimeoutSeconds = 25
const XdgConfigHome = "XDG_CONFIG_HOME"
const ConfigFolderName = "streakd"

// SmtpPasswordEnvVar overrides the notify block's password so the secret can
// stay out of the config file.
const SmtpPasswordEnvVar = "STREAKD_SMTP_PASSWORD"

// Notify holds the optional failure-notification mail settings. Notifications
// are enabled when both server and recipient are set.
type Notify struct {
	Server   string `yaml:"smtp_server"`
	Port     int    `yaml:"smtp_port"`
	Username string `yaml:"smtp_username"`
	Password string `yaml:"smtp_password"`
	To       string `yaml:"to"`
}

func (n Notify) Enabled() bool {
	return n.Server != "" && n.To != ""
}

type config struct {
	Subreddits       []string `yaml:"subreddits"`
	RedditUsername   string   `yaml:"reddit_username"`
	RunAt            string   `yaml:"run_at"`
	WaitSecondsMin   int      `yaml:"wait_seconds_min"`
	WaitSecondsMax   int      `yaml:"wait_seconds_max"`
	CredentialSource string   `yaml:"credential_source"`
	Browser          string   `yaml:"browser"`
	CookieFile       string   `yaml:"cookie_file"`
	ProfileDir       string   `yaml:"profile_dir"`
	ImmediateRun     bool     `yaml:"immediate_run"`
	TestMode         bool     `yaml:"test_mode"`
	SelectionPolicy  string   `yaml:"selection_policy"`
	Headless         bool     `yaml:"headless"`
	ChromePath       string   `yaml:"chrome_path"`
	PageTimeout      int      `yaml:"page_timeout_seconds"`
	ScreenshotDir    string   `yaml:"screenshot_dir"`
	Notify           Notify   `yaml:"notify"`

	LogPath string `yaml:"log_path"`
	PidFile string `yaml:"pid_file"`
}

var instance *config

func DefaultConfigPath() (string, error) {
	user, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("couldn't get current user: %w", err)
	}
	xdgConfigHome := os.Getenv(XdgConfigHome)
	var configFolder string
	if len(xdgConfigHome) == 0 {
		configFolder = path.Join(user.HomeDir, ".config")
		configFolder = path.Join(configFolder, ConfigFolderName)
	} else {
		configFolder = path.Join(xdgConfigHome, ConfigFolderName)
	}
	if err := os.MkdirAll(configFolder, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return path.Join(configFolder, "config.yaml"), nil
}

// SetRuntimeDefaults fills the paths derived from the config directory when
// the file leaves them empty.
func SetRuntimeDefaults(c *config) error {
	configPath, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	configDir := path.Dir(configPath)

	if c.LogPath == "" {
		c.LogPath = path.Join(configDir, "streakd.log")
	}
	if c.PidFile == "" {
		c.PidFile = path.Join(configDir, "streakd.pid")
	}
	if c.ProfileDir == "" {
		c.ProfileDir = path.Join(configDir, "profile")
	}
	return nil
}

func exists(filename string) bool {
	if _, err := os.Stat(filename); err != nil {
		util.Red.Println(err)
		return false
	}
	return true
}

func NewConfig() *config {
	config := config{}
	config.RunAt = "09:00"
	config.WaitSecondsMin = 30
	config.WaitSecondsMax = 90
	config.CredentialSource = SourceCookieFile
	config.Browser = "chrome"
	config.SelectionPolicy = PolicyRandom
	config.Headless = true
	config.PageTimeout = DefaultPageTimeoutSeconds
	config.Notify.Port = 587
	return &config
}

func (c *config) validate() error {
	if len(c.Subreddits) == 0 {
		return fmt.Errorf("subreddits must list at least one community")
	}
	for _, sub := range c.Subreddits {
		if strings.TrimSpace(sub) == "" {
			return fmt.Errorf("subreddits must not contain empty entries")
		}
	}
	if _, err := schedule.Parse(c.RunAt); err != nil {
		return fmt.Errorf("run_at: %w", err)
	}
	if c.WaitSecondsMin < 1 {
		return fmt.Errorf("wait_seconds_min must be at least 1, got %d", c.WaitSecondsMin)
	}
	if c.WaitSecondsMax < c.WaitSecondsMin {
		return fmt.Errorf("wait_seconds_max (%d) must be >= wait_seconds_min (%d)",
			c.WaitSecondsMax, c.WaitSecondsMin)
	}
	switch c.CredentialSource {
	case SourceBrowserProfile:
		if c.Browser == "" {
			return fmt.Errorf("browser is required when credential_source is %s", SourceBrowserProfile)
		}
	case SourceCookieFile:
		if c.CookieFile == "" {
			return fmt.Errorf("cookie_file is required when credential_source is %s", SourceCookieFile)
		}
	case SourceAutomationProfile:
	default:
		return fmt.Errorf("credential_source must be one of %s, %s, %s; got %q",
			SourceBrowserProfile, SourceCookieFile, SourceAutomationProfile, c.CredentialSource)
	}
	switch c.SelectionPolicy {
	case PolicyRandom, PolicyFirst:
	default:
		return fmt.Errorf("selection_policy must be %s or %s, got %q",
			PolicyRandom, PolicyFirst, c.SelectionPolicy)
	}
	if c.PageTimeout < 1 {
		return fmt.Errorf("page_timeout_seconds must be at least 1, got %d", c.PageTimeout)
	}
	return nil
}

func CreateConfig() (*config, error) {
	util.CyanBold.Println("CONFIGURE STREAKD")

	configuration := NewConfig()
	util.Cyan.Printf("Subreddits to keep the streak on, comma separated (eg. mildlyinteresting,pics) : ")
	subs := strings.Split(util.ScanlineTrim(), ",")
	configuration.Subreddits = configuration.Subreddits[:0]
	for _, sub := range subs {
		sub = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(sub), "r/"))
		if sub != "" {
			configuration.Subreddits = append(configuration.Subreddits, sub)
		}
	}

	util.Cyan.Printf("Reddit username, used to check the streak flame (empty to skip checks) : ")
	configuration.RedditUsername = strings.TrimPrefix(util.ScanlineTrim(), "u/")

	util.Cyan.Printf("Daily run time as HH:MM, 24h local time (default 09:00) : ")
	if runAt := util.ScanlineTrim(); runAt != "" {
		configuration.RunAt = runAt
	}

	util.CyanBold.Println("\nCREDENTIALS")
	util.Cyan.Println("How should streakd appear logged in?\n" +
		"  1. read cookies from your regular browser's profile (browser must be closed during runs)\n" +
		"  2. an exported cookie file (Netscape cookies.txt or a JSON export)\n" +
		"  3. a dedicated automation profile (log in once inside it, stays logged in)")
	for {
		util.Cyan.Printf("Pick 1, 2 or 3 : ")
		switch util.ScanlineTrim() {
		case "1":
			configuration.CredentialSource = SourceBrowserProfile
			util.Cyan.Printf("Browser to read cookies from (chrome, brave, edge, firefox; default chrome) : ")
			if browser := util.ScanlineTrim(); browser != "" {
				configuration.Browser = strings.ToLower(browser)
			}
		case "2":
			configuration.CredentialSource = SourceCookieFile
			util.Cyan.Printf("Path to the exported cookie file : ")
			configuration.CookieFile = util.ScanlineTrim()
		case "3":
			configuration.CredentialSource = SourceAutomationProfile
			util.Cyan.Printf("Profile directory (empty for the default under the config dir) : ")
			configuration.ProfileDir = util.ScanlineTrim()
		default:
			util.Red.Println("Please answer 1, 2 or 3")
			continue
		}
		break
	}

	for {
		util.Cyan.Printf("Random wait between upvote and un-vote, min seconds (default 30) : ")
		minStr := util.ScanlineTrim()
		if minStr == "" {
			break
		}
		minInt, err := strconv.Atoi(minStr)
		if err != nil || minInt < 1 {
			util.Red.Println("Entered wait is either invalid or not a positive integer, please try again")
			continue
		}
		configuration.WaitSecondsMin = minInt
		break
	}
	for {
		util.Cyan.Printf("Max seconds (default %d) : ", max(configuration.WaitSecondsMin, 90))
		maxStr := util.ScanlineTrim()
		if maxStr == "" {
			configuration.WaitSecondsMax = max(configuration.WaitSecondsMin, 90)
			break
		}
		maxInt, err := strconv.Atoi(maxStr)
		if err != nil || maxInt < configuration.WaitSecondsMin {
			util.Red.Println("Entered wait is either invalid or below the minimum, please try again")
			continue
		}
		configuration.WaitSecondsMax = maxInt
		break
	}

	util.CyanBold.Println("\nNOTIFICATIONS")
	util.Cyan.Printf("SMTP server for failure mails (empty to disable) : ")
	configuration.Notify.Server = util.ScanlineTrim()
	if configuration.Notify.Server != "" {
		for {
			util.Cyan.Printf("SMTP port (usually 587 or 465) : ")
			portStr := util.ScanlineTrim()
			portInt, err := strconv.Atoi(portStr)
			if err != nil {
				util.Red.Println("Entered port number is either invalid or not an integer, please try again")
				continue
			}
			configuration.Notify.Port = portInt
			break
		}
		util.Cyan.Printf("SMTP username : ")
		configuration.Notify.Username = util.ScanlineTrim()
		util.Cyan.Printf("SMTP password (stored as-is; prefer setting %s instead, empty is ok) : ", SmtpPasswordEnvVar)
		configuration.Notify.Password = util.ScanlineTrim()
		util.Cyan.Printf("Send failure mails to : ")
		configuration.Notify.To = util.ScanlineTrim()
	}

	return configuration, nil
}

func handleCreation(filename string) error {
	util.Red.Println("Configuration file doesn't exist\n Answer next few questions to create config file")
	configuration, err := CreateConfig()
	if err != nil {
		return fmt.Errorf("failed to create configuration: %w", err)
	}
	err = Save(*configuration, filename)
	if err != nil {
		util.Red.Println("Error while writing config to ", filename, err)
		return err
	}
	util.Green.Printf("Config created successfully and stored at %s, you can directly edit it later on \n", filename)
	return nil
}

func LoadProvider(filename string) (ConfigProvider, error) {
	cfg, err := Load(filename)
	if err != nil {
		return nil, err
	}
	return NewConfigProvider(&cfg), nil
}

func Load(filename string) (config, error) {
	if !exists(filename) {
		err := handleCreation(filename)
		if err != nil {
			return config{}, err
		}
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		util.Red.Println("Error reading config ", err)
		return config{}, err
	}
	c := *NewConfig()
	err = yaml.Unmarshal(data, &c)
	if err != nil {
		util.Red.Println("Error parsing config yaml ", err)
		return config{}, err
	}
	if pass := os.Getenv(SmtpPasswordEnvVar); pass != "" {
		c.Notify.Password = pass
	}

	if err := SetRuntimeDefaults(&c); err != nil {
		util.Red.Println("Error setting runtime defaults: ", err)
		return config{}, err
	}
	if err := c.validate(); err != nil {
		return config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	InitializeConfig(&c)
	return c, nil
}

func Save(c config, filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		util.Red.Println("Error parsing configuration for writing")
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

func InitializeConfig(c *config) {
	if instance == nil {
		instance = c
		util.Green.Println("Loaded configuration")
	}
}

func GetInstance() *config {
	return instance
}
