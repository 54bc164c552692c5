package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`

	Logging struct {
		Level      string `yaml:"level" default:"info"`
		Format     string `yaml:"format" default:"console" validate:"oneof=console json"`
		Output     string `yaml:"output" default:"stdout"`
		TimeFormat string `yaml:"time_format"`
	} `yaml:"logging"`

	Metrics struct {
		Enabled bool `yaml:"enabled" default:"true"`
	} `yaml:"metrics"`

	Data struct {
		BarsDir       string `yaml:"bars_dir" validate:"required"`
		SentimentFile string `yaml:"sentiment_file"`
	} `yaml:"data"`

	Pipeline struct {
		Workers int `yaml:"workers" default:"4" validate:"min=1"`
	} `yaml:"pipeline"`

	Profile struct {
		RiskTolerance    string   `yaml:"risk_tolerance" default:"moderate"`
		Horizon          string   `yaml:"horizon" default:"medium"`
		MaxLossTolerance float64  `yaml:"max_loss_tolerance" default:"10"`
		PreferredSectors []string `yaml:"preferred_sectors"`
	} `yaml:"profile"`

	Holdings []string `yaml:"holdings"`
}

var validate = validator.New()

// Load reads and parses a YAML configuration file, fills struct defaults,
// and validates required fields.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply config defaults: %w", err)
	}
	if err := validate.Struct(&c); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("STOCKPULSE_BARS_DIR"); v != "" {
		c.Data.BarsDir = v
	}
	if v := os.Getenv("STOCKPULSE_SENTIMENT_FILE"); v != "" {
		c.Data.SentimentFile = v
	}
	if v := os.Getenv("STOCKPULSE_HOLDINGS"); v != "" {
		c.Holdings = strings.Split(v, ",")
	}
	if v := os.Getenv("STOCKPULSE_RISK_TOLERANCE"); v != "" {
		c.Profile.RiskTolerance = v
	}
	if v := os.Getenv("STOCKPULSE_HORIZON"); v != "" {
		c.Profile.Horizon = v
	}
	if v := os.Getenv("STOCKPULSE_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Pipeline.Workers = n
		}
	}
	if v := os.Getenv("STOCKPULSE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}

	return c, nil
}
