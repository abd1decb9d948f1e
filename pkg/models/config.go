package models

import "time"

// APIConfig holds the backend connection settings.
type APIConfig struct {
	BaseURL   string            `yaml:"base_url" mapstructure:"base_url"`
	Timeout   time.Duration     `yaml:"timeout" mapstructure:"timeout"`
	Retries   int               `yaml:"retries" mapstructure:"retries"`
	LoginPath string            `yaml:"login_path" mapstructure:"login_path"`
	Headers   map[string]string `yaml:"headers,omitempty" mapstructure:"headers"`
}

// LogConfig controls the diagnostic logger.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DisplayConfig holds presentation defaults.
type DisplayConfig struct {
	Output string `yaml:"output" mapstructure:"output"`
}

// Config is the full client configuration read from .taskboard.yaml.
type Config struct {
	API     APIConfig     `yaml:"api" mapstructure:"api"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Display DisplayConfig `yaml:"display" mapstructure:"display"`
}
