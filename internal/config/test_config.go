package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	cfg := defaultConfig()
	cfg.API.Key = "test-key"
	cfg.API.HTTPTimeout = 5 * time.Second
	cfg.API.UserAgent = "pulse-test/1.0"
	cfg.UI.Article.FullTextTimeout = time.Second
	return cfg
}
