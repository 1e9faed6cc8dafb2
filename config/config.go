package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PoolConfig stores worker pool settings.
type PoolConfig struct {
	Workers       int `yaml:"workers"`
	QueueCapacity int `yaml:"queue_capacity"`
}

// RenderConfig stores rendering defaults.
type RenderConfig struct {
	Width float64 `yaml:"width"`
}

// Config stores the application configuration.
type Config struct {
	Pool     PoolConfig   `yaml:"pool"`
	Render   RenderConfig `yaml:"render"`
	LogLevel string       `yaml:"log_level"`
}

// Default returns the built-in configuration: one worker, a small
// queue, medium band width.
func Default() *Config {
	return &Config{
		Pool:     PoolConfig{Workers: 1, QueueCapacity: 16},
		Render:   RenderConfig{Width: 50},
		LogLevel: "info",
	}
}

// LoadConfig loads the configuration from the given file path. Missing
// keys keep their defaults.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for usable values.
func (c *Config) Validate() error {
	if c.Pool.Workers <= 0 {
		return fmt.Errorf("config: pool workers must be > 0: %d", c.Pool.Workers)
	}

	if c.Pool.QueueCapacity <= 0 {
		return fmt.Errorf("config: queue capacity must be > 0: %d", c.Pool.QueueCapacity)
	}

	if c.Render.Width < 0 || c.Render.Width > 100 {
		return fmt.Errorf("config: render width must be in [0, 100]: %g", c.Render.Width)
	}

	return nil
}
