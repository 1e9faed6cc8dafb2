// Package config loads the application configuration from YAML.
package config
