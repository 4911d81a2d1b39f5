package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "UTC"
	defaultSeed     = 42

	configPathEnv     = "CREDSCAN_CONFIG"
	logLevelEnv       = "CREDSCAN_LOG_LEVEL"
	modelPathEnv      = "CREDSCAN_MODEL_PATH"
	metricsPathEnv    = "CREDSCAN_METRICS_PATH"
	lowCSVEnv         = "CREDSCAN_LOW_CREDIBILITY_CSV"
	highCSVEnv        = "CREDSCAN_HIGH_CREDIBILITY_CSV"
	serverAddrEnv     = "CREDSCAN_ADDR"
	databaseDriverEnv = "DATABASE_DRIVER"
	databaseDSNEnv    = "DATABASE_DSN"
	redisAddrEnv      = "REDIS_ADDR"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging" toml:"logging"`
	Training      TrainingConfig     `yaml:"training" toml:"training"`
	Artifacts     ArtifactsConfig    `yaml:"artifacts" toml:"artifacts"`
	Extraction    ExtractionConfig   `yaml:"extraction" toml:"extraction"`
	Server        ServerConfig       `yaml:"server" toml:"server"`
	Database      DatabaseConfig     `yaml:"database" toml:"database"`
	Redis         RedisConfig        `yaml:"redis" toml:"redis"`
	Notifications NotificationConfig `yaml:"notifications" toml:"notifications"`
	Scheduler     SchedulerConfig    `yaml:"scheduler" toml:"scheduler"`
	Feeds         []FeedConfig       `yaml:"feeds" toml:"feeds"`
}

// LoggingConfig selects the slog level.
type LoggingConfig struct {
	Level string `yaml:"level" toml:"level"`
}

// TrainingConfig points at the two labeled CSV sources.
type TrainingConfig struct {
	LowCredibilityPath  string  `yaml:"lowCredibilityPath" toml:"lowCredibilityPath"`
	HighCredibilityPath string  `yaml:"highCredibilityPath" toml:"highCredibilityPath"`
	Seed                *uint64 `yaml:"seed" toml:"seed"`
	TestFraction        float64 `yaml:"testFraction" toml:"testFraction"`
}

// RandomSeed returns the configured shuffle seed; zero is a valid value.
func (t TrainingConfig) RandomSeed() uint64 {
	if t.Seed == nil {
		return defaultSeed
	}
	return *t.Seed
}

// ArtifactsConfig locates the persisted model and its metrics report.
type ArtifactsConfig struct {
	ModelPath   string `yaml:"modelPath" toml:"modelPath"`
	MetricsPath string `yaml:"metricsPath" toml:"metricsPath"`
}

// ExtractionConfig tunes the URL text extractor.
type ExtractionConfig struct {
	Timeout   Duration `yaml:"timeout" toml:"timeout"`
	UserAgent string   `yaml:"userAgent" toml:"userAgent"`
}

// ServerConfig is the HTTP listen address.
type ServerConfig struct {
	Addr string `yaml:"addr" toml:"addr"`
}

// DatabaseConfig describes the prediction history store. An empty DSN disables it.
type DatabaseConfig struct {
	Driver string `yaml:"driver" toml:"driver"`
	DSN    string `yaml:"dsn" toml:"dsn"`
}

// RedisConfig enables the prediction cache when Addr is set.
type RedisConfig struct {
	Addr string   `yaml:"addr" toml:"addr"`
	TTL  Duration `yaml:"ttl" toml:"ttl"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram" toml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken" toml:"botToken"`
	ChatID   string `yaml:"chatId" toml:"chatId"`
}

// SchedulerConfig defines how often feeds are scanned.
type SchedulerConfig struct {
	Interval Duration       `yaml:"interval" toml:"interval"`
	Timezone string         `yaml:"timezone" toml:"timezone"`
	location *time.Location `yaml:"-" toml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// FeedConfig is one RSS/Atom feed to scan.
type FeedConfig struct {
	Name string `yaml:"name" toml:"name"`
	URL  string `yaml:"url" toml:"url"`
}

// Duration accepts Go duration strings such as "10s" or "6h".
type Duration time.Duration

// Std returns the value as time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("parse duration: %w", err)
	}
	*d = Duration(parsed)
	return nil
}

// UnmarshalYAML parses a duration scalar.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

// MarshalText renders the duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Load reads YAML or TOML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		fileCfg, err := readFile(path)
		if err != nil {
			log.Printf("config: %v (falling back to defaults)", err)
		} else {
			cfg = mergeConfig(cfg, fileCfg)
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

func readFile(path string) (Config, error) {
	var fileCfg Config

	raw, err := os.ReadFile(path)
	if err != nil {
		return fileCfg, fmt.Errorf("cannot read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(raw, &fileCfg)
	default:
		err = yaml.Unmarshal(raw, &fileCfg)
	}
	if err != nil {
		return fileCfg, fmt.Errorf("cannot parse %s: %w", path, err)
	}
	return fileCfg, nil
}

func (c *Config) applyEnvOverrides() {
	overrides := []struct {
		env    string
		target *string
	}{
		{logLevelEnv, &c.Logging.Level},
		{modelPathEnv, &c.Artifacts.ModelPath},
		{metricsPathEnv, &c.Artifacts.MetricsPath},
		{lowCSVEnv, &c.Training.LowCredibilityPath},
		{highCSVEnv, &c.Training.HighCredibilityPath},
		{serverAddrEnv, &c.Server.Addr},
		{databaseDriverEnv, &c.Database.Driver},
		{databaseDSNEnv, &c.Database.DSN},
		{redisAddrEnv, &c.Redis.Addr},
		{telegramTokenEnv, &c.Notifications.Telegram.BotToken},
		{telegramChatIDEnv, &c.Notifications.Telegram.ChatID},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.target = v
		}
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	setString(&base.Logging.Level, override.Logging.Level)

	setString(&base.Training.LowCredibilityPath, override.Training.LowCredibilityPath)
	setString(&base.Training.HighCredibilityPath, override.Training.HighCredibilityPath)
	if override.Training.Seed != nil {
		seed := *override.Training.Seed
		base.Training.Seed = &seed
	}
	if override.Training.TestFraction > 0 {
		base.Training.TestFraction = override.Training.TestFraction
	}

	setString(&base.Artifacts.ModelPath, override.Artifacts.ModelPath)
	setString(&base.Artifacts.MetricsPath, override.Artifacts.MetricsPath)

	if override.Extraction.Timeout > 0 {
		base.Extraction.Timeout = override.Extraction.Timeout
	}
	setString(&base.Extraction.UserAgent, override.Extraction.UserAgent)

	setString(&base.Server.Addr, override.Server.Addr)

	setString(&base.Database.Driver, override.Database.Driver)
	setString(&base.Database.DSN, override.Database.DSN)

	setString(&base.Redis.Addr, override.Redis.Addr)
	if override.Redis.TTL > 0 {
		base.Redis.TTL = override.Redis.TTL
	}

	setString(&base.Notifications.Telegram.BotToken, override.Notifications.Telegram.BotToken)
	setString(&base.Notifications.Telegram.ChatID, override.Notifications.Telegram.ChatID)

	if override.Scheduler.Interval > 0 {
		base.Scheduler.Interval = override.Scheduler.Interval
	}
	setString(&base.Scheduler.Timezone, override.Scheduler.Timezone)

	if len(override.Feeds) > 0 {
		base.Feeds = override.Feeds
	}

	return base
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging: LoggingConfig{Level: "debug"},
		Training: TrainingConfig{
			LowCredibilityPath:  "data/Fake.csv",
			HighCredibilityPath: "data/True.csv",
			TestFraction:        0.2,
		},
		Artifacts: ArtifactsConfig{
			ModelPath:   "models/best_model.json",
			MetricsPath: "models/metrics.json",
		},
		Extraction: ExtractionConfig{Timeout: Duration(10 * time.Second)},
		Server:     ServerConfig{Addr: ":8080"},
		Database:   DatabaseConfig{Driver: "sqlite", DSN: ""},
		Redis:      RedisConfig{TTL: Duration(24 * time.Hour)},
		Scheduler:  SchedulerConfig{Interval: Duration(6 * time.Hour), Timezone: defaultTimezone, location: tz},
		Feeds: []FeedConfig{
			{Name: "bbc", URL: "https://feeds.bbci.co.uk/news/rss.xml"},
			{Name: "sky", URL: "https://feeds.skynews.com/feeds/rss/home.xml"},
		},
	}
}
