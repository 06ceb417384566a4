package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DateFormat is the layout of every date the scraper accepts or emits
const DateFormat = "2006-01-02"

// Config holds all configuration options for the crossword scraper
type Config struct {
	// NYT session and endpoint settings
	NYT NYTConfig `yaml:"nyt" json:"nyt"`

	// Default scrape request
	Scrape ScrapeConfig `yaml:"scrape" json:"scrape"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// NYTConfig holds the credential and service settings
type NYTConfig struct {
	Token          string        `yaml:"token" json:"token"`
	BaseURL        string        `yaml:"base_url" json:"base_url"`
	UserAgent      string        `yaml:"user_agent" json:"user_agent"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
}

// ScrapeConfig holds the default puzzle type and date range
type ScrapeConfig struct {
	PuzzleType string `yaml:"puzzle_type" json:"puzzle_type"`
	StartDate  string `yaml:"start_date" json:"start_date"`
	EndDate    string `yaml:"end_date" json:"end_date"`
}

// OutputConfig holds output location configuration
type OutputConfig struct {
	Path   string `yaml:"path" json:"path"`
	Format string `yaml:"format" json:"format"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults.
// The date range defaults to the last seven days through today.
func DefaultConfig() *Config {
	today := time.Now()
	return &Config{
		NYT: NYTConfig{
			BaseURL:   "https://www.nytimes.com",
			UserAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
		},
		Scrape: ScrapeConfig{
			PuzzleType: "daily",
			StartDate:  today.AddDate(0, 0, -7).Format(DateFormat),
			EndDate:    today.Format(DateFormat),
		},
		Output: OutputConfig{
			Path:   "./data/",
			Format: "json",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	// NYT_COOKIE is the historical name; the prefixed variable wins when both are set
	if token := os.Getenv("NYT_COOKIE"); token != "" {
		c.NYT.Token = token
	}
	if token := os.Getenv("XWSCRAPER_TOKEN"); token != "" {
		c.NYT.Token = token
	}
	if baseURL := os.Getenv("XWSCRAPER_BASE_URL"); baseURL != "" {
		c.NYT.BaseURL = baseURL
	}
	if userAgent := os.Getenv("XWSCRAPER_USER_AGENT"); userAgent != "" {
		c.NYT.UserAgent = userAgent
	}
	if timeout := os.Getenv("XWSCRAPER_REQUEST_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid XWSCRAPER_REQUEST_TIMEOUT: %w", err)
		}
		c.NYT.RequestTimeout = d
	}

	if puzzleType := os.Getenv("XWSCRAPER_PUZZLE_TYPE"); puzzleType != "" {
		c.Scrape.PuzzleType = strings.ToLower(puzzleType)
	}

	if outputPath := os.Getenv("XWSCRAPER_OUTPUT"); outputPath != "" {
		c.Output.Path = outputPath
	}
	if format := os.Getenv("XWSCRAPER_FORMAT"); format != "" {
		c.Output.Format = strings.ToLower(format)
	}

	if logLevel := os.Getenv("XWSCRAPER_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv("XWSCRAPER_LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file, then merges
// <name>.local.<ext> over it when that file exists.
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	localPath := LocalOverridePath(path)
	localData, err := os.ReadFile(localPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read local config file: %w", err)
	}

	var override Config
	if err := yaml.Unmarshal(localData, &override); err != nil {
		return fmt.Errorf("failed to parse local config file: %w", err)
	}
	if err := mergo.Merge(c, override, mergo.WithOverride); err != nil {
		return fmt.Errorf("failed to merge local config file: %w", err)
	}

	return nil
}

// LocalOverridePath returns the path of the local override file for a config file,
// e.g. xwscraper.yaml -> xwscraper.local.yaml
func LocalOverridePath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".local" + ext
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".xwscraper.yaml",
		".xwscraper.yml",
		"xwscraper.yaml",
		filepath.Join(home, ".config", "xwscraper", "config.yaml"),
		filepath.Join(home, ".config", "xwscraper", "config.yml"),
		filepath.Join(home, ".xwscraper.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// fillDefaults restores defaults for values a config file left empty
func (c *Config) fillDefaults() {
	def := DefaultConfig()
	if c.Scrape.PuzzleType == "" {
		c.Scrape.PuzzleType = def.Scrape.PuzzleType
	}
	if c.Scrape.StartDate == "" {
		c.Scrape.StartDate = def.Scrape.StartDate
	}
	if c.Scrape.EndDate == "" {
		c.Scrape.EndDate = def.Scrape.EndDate
	}
	if c.Output.Format == "" {
		c.Output.Format = def.Output.Format
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
}

// Validate checks if the configuration is valid.
// The token is not required here; commands that talk to the service check it themselves.
func (c *Config) Validate() error {
	var errs []error

	if c.NYT.BaseURL == "" {
		errs = append(errs, errors.New("base URL is required"))
	}
	if c.NYT.RequestTimeout < 0 {
		errs = append(errs, errors.New("request timeout cannot be negative"))
	}

	validPuzzleTypes := map[string]bool{
		"daily": true, "mini": true, "bonus": true,
	}
	if !validPuzzleTypes[c.Scrape.PuzzleType] {
		errs = append(errs, fmt.Errorf("invalid puzzle type %q", c.Scrape.PuzzleType))
	}

	start, startErr := time.Parse(DateFormat, c.Scrape.StartDate)
	if startErr != nil {
		errs = append(errs, fmt.Errorf("invalid start date %q", c.Scrape.StartDate))
	}
	end, endErr := time.Parse(DateFormat, c.Scrape.EndDate)
	if endErr != nil {
		errs = append(errs, fmt.Errorf("invalid end date %q", c.Scrape.EndDate))
	}
	if startErr == nil && endErr == nil && start.After(end) {
		errs = append(errs, errors.New("start date must not be after end date"))
	}

	if c.Output.Path == "" {
		errs = append(errs, errors.New("output path is required"))
	}
	validFormats := map[string]bool{
		"json": true, "csv": true,
	}
	if !validFormats[strings.ToLower(c.Output.Format)] {
		errs = append(errs, fmt.Errorf("file type %s not supported", c.Output.Format))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// 0600 because the file may carry the session token
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if token, ok := flags["token"].(string); ok && token != "" {
		c.NYT.Token = token
	}
	if baseURL, ok := flags["base-url"].(string); ok && baseURL != "" {
		c.NYT.BaseURL = baseURL
	}
	if puzzleType, ok := flags["puzzle-type"].(string); ok && puzzleType != "" {
		c.Scrape.PuzzleType = strings.ToLower(puzzleType)
	}
	if startDate, ok := flags["start-date"].(string); ok && startDate != "" {
		c.Scrape.StartDate = startDate
	}
	if endDate, ok := flags["end-date"].(string); ok && endDate != "" {
		c.Scrape.EndDate = endDate
	}
	if path, ok := flags["filepath"].(string); ok && path != "" {
		c.Output.Path = path
	}
	if format, ok := flags["filetype"].(string); ok && format != "" {
		c.Output.Format = strings.ToLower(format)
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".xwscraper.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)
	config.fillDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
