package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pders01/pulse/internal/validation"
)

type Config struct {
	API   APIConfig   `mapstructure:"api"`
	Feed  FeedConfig  `mapstructure:"feed"`
	Proxy ProxyConfig `mapstructure:"proxy"`
	UI    UIConfig    `mapstructure:"ui"`
	Keys  KeyConfig   `mapstructure:"keys"`
	Log   LogConfig   `mapstructure:"log"`
}

// APIConfig describes the upstream news API. Key is injected into the
// client at construction; nothing below the config layer reads the
// environment.
type APIConfig struct {
	Provider    string        `mapstructure:"provider"`
	BaseURL     string        `mapstructure:"base_url"`
	Key         string        `mapstructure:"key"`
	Language    string        `mapstructure:"language"`
	Country     string        `mapstructure:"country"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	UserAgent   string        `mapstructure:"user_agent"`
}

type FeedConfig struct {
	DefaultCategory string `mapstructure:"default_category"`
}

// ProxyConfig configures `pulse proxy`, which keeps the API key off the
// client by injecting it server side.
type ProxyConfig struct {
	Listen         string   `mapstructure:"listen"`
	PathPrefix     string   `mapstructure:"path_prefix"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type UIConfig struct {
	Colors  UIColors      `mapstructure:"colors"`
	Article ArticleConfig `mapstructure:"article"`
	Opener  string        `mapstructure:"opener"`
}

type UIColors struct {
	Primary    string `mapstructure:"primary"`
	Secondary  string `mapstructure:"secondary"`
	Accent     string `mapstructure:"accent"`
	Background string `mapstructure:"background"`
	Surface    string `mapstructure:"surface"`
	Text       string `mapstructure:"text"`
	Muted      string `mapstructure:"muted"`
	Error      string `mapstructure:"error"`
	Success    string `mapstructure:"success"`
}

type ArticleConfig struct {
	MaxDescriptionLength int           `mapstructure:"max_description_length"`
	WordWrapMaxWidth     int           `mapstructure:"word_wrap_max_width"`
	WordWrapMinWidth     int           `mapstructure:"word_wrap_min_width"`
	FullTextTimeout      time.Duration `mapstructure:"full_text_timeout"`
}

type KeyConfig struct {
	Modifier string      `mapstructure:"modifier"`
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	Quit     string `mapstructure:"quit"`
	Search   string `mapstructure:"search"`
	Reset    string `mapstructure:"reset"`
	Find     string `mapstructure:"find"`
	NextPage string `mapstructure:"next_page"`
	PrevPage string `mapstructure:"prev_page"`
	Open     string `mapstructure:"open"`
	FullText string `mapstructure:"full_text"`
	Back     string `mapstructure:"back"`
	Help     string `mapstructure:"help"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Default returns the built-in configuration used when no file is found.
func Default() *Config {
	return defaultConfig()
}

func defaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Provider:    "gnews",
			Language:    "en",
			Country:     "us",
			HTTPTimeout: 30 * time.Second,
			UserAgent:   "pulse/1.0 (https://github.com/pders01/pulse)",
		},
		Feed: FeedConfig{
			DefaultCategory: "general",
		},
		Proxy: ProxyConfig{
			Listen:         "127.0.0.1:5173",
			PathPrefix:     "/api/news",
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:    "#2563EB",
				Secondary:  "#4ECDC4",
				Accent:     "#95E1D3",
				Background: "#0F172A",
				Surface:    "#1E293B",
				Text:       "#EAEAEA",
				Muted:      "#94A3B8",
				Error:      "#F87171",
				Success:    "#4ADE80",
			},
			Article: ArticleConfig{
				MaxDescriptionLength: 150,
				WordWrapMaxWidth:     120,
				WordWrapMinWidth:     40,
				FullTextTimeout:      20 * time.Second,
			},
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
			Bindings: KeyBindings{
				Quit:     "q",
				Search:   "s",
				Reset:    "r",
				Find:     "f",
				NextPage: "n",
				PrevPage: "p",
				Open:     "o",
				FullText: "t",
				Back:     "esc",
				Help:     "?",
			},
		},
		Log: LogConfig{
			Level: "off",
		},
	}
}

// setDefaults registers every leaf key so AutomaticEnv can override any of
// them (PULSE_API_KEY, PULSE_API_PROVIDER, ...).
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("api.provider", cfg.API.Provider)
	v.SetDefault("api.base_url", cfg.API.BaseURL)
	v.SetDefault("api.key", cfg.API.Key)
	v.SetDefault("api.language", cfg.API.Language)
	v.SetDefault("api.country", cfg.API.Country)
	v.SetDefault("api.http_timeout", cfg.API.HTTPTimeout)
	v.SetDefault("api.user_agent", cfg.API.UserAgent)

	v.SetDefault("feed.default_category", cfg.Feed.DefaultCategory)

	v.SetDefault("proxy.listen", cfg.Proxy.Listen)
	v.SetDefault("proxy.path_prefix", cfg.Proxy.PathPrefix)
	v.SetDefault("proxy.allowed_origins", cfg.Proxy.AllowedOrigins)

	c := cfg.UI.Colors
	v.SetDefault("ui.colors.primary", c.Primary)
	v.SetDefault("ui.colors.secondary", c.Secondary)
	v.SetDefault("ui.colors.accent", c.Accent)
	v.SetDefault("ui.colors.background", c.Background)
	v.SetDefault("ui.colors.surface", c.Surface)
	v.SetDefault("ui.colors.text", c.Text)
	v.SetDefault("ui.colors.muted", c.Muted)
	v.SetDefault("ui.colors.error", c.Error)
	v.SetDefault("ui.colors.success", c.Success)
	v.SetDefault("ui.article.max_description_length", cfg.UI.Article.MaxDescriptionLength)
	v.SetDefault("ui.article.word_wrap_max_width", cfg.UI.Article.WordWrapMaxWidth)
	v.SetDefault("ui.article.word_wrap_min_width", cfg.UI.Article.WordWrapMinWidth)
	v.SetDefault("ui.article.full_text_timeout", cfg.UI.Article.FullTextTimeout)
	v.SetDefault("ui.opener", cfg.UI.Opener)

	b := cfg.Keys.Bindings
	v.SetDefault("keys.modifier", cfg.Keys.Modifier)
	v.SetDefault("keys.bindings.quit", b.Quit)
	v.SetDefault("keys.bindings.search", b.Search)
	v.SetDefault("keys.bindings.reset", b.Reset)
	v.SetDefault("keys.bindings.find", b.Find)
	v.SetDefault("keys.bindings.next_page", b.NextPage)
	v.SetDefault("keys.bindings.prev_page", b.PrevPage)
	v.SetDefault("keys.bindings.open", b.Open)
	v.SetDefault("keys.bindings.full_text", b.FullText)
	v.SetDefault("keys.bindings.back", b.Back)
	v.SetDefault("keys.bindings.help", b.Help)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file", cfg.Log.File)
}

// Load reads configuration from configPath, or from config.toml in
// $XDG_CONFIG_HOME/pulse or the working directory when configPath is empty.
// A .env file in the working directory is loaded first so keys kept there
// behave like real environment variables.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v, defaultConfig())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(filepath.Join(xdg.ConfigHome, "pulse"))
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("PULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("api.key", "PULSE_API_KEY", "GNEWS_API_KEY", "NEWS_API_KEY", "VITE_NEWS_API_KEY"); err != nil {
		return nil, fmt.Errorf("binding api key env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	config.Log.File = expandPath(config.Log.File)

	return &config, nil
}

// Validate checks values that would otherwise only fail at request time.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.Provider) == "" {
		return fmt.Errorf("api.provider must be set")
	}
	if len(c.API.Language) != 2 {
		return fmt.Errorf("api.language must be a two-letter code, got %q", c.API.Language)
	}
	if c.API.BaseURL != "" {
		if _, err := validation.NewBaseURLValidator().Validate(c.API.BaseURL); err != nil {
			return fmt.Errorf("api.base_url: %w", err)
		}
	}
	if c.API.HTTPTimeout < 0 {
		return fmt.Errorf("api.http_timeout must not be negative")
	}
	if strings.TrimSpace(c.Feed.DefaultCategory) == "" {
		return fmt.Errorf("feed.default_category must be set")
	}
	if !strings.HasPrefix(c.Proxy.PathPrefix, "/") {
		return fmt.Errorf("proxy.path_prefix must start with '/', got %q", c.Proxy.PathPrefix)
	}
	return nil
}

// expandPath expands ~ to the home directory.
func expandPath(path string) string {
	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

func Save(config *Config, path string) error {
	v := viper.New()

	// durations as strings for TOML readability
	v.Set("api", map[string]interface{}{
		"provider":     config.API.Provider,
		"base_url":     config.API.BaseURL,
		"key":          config.API.Key,
		"language":     config.API.Language,
		"country":      config.API.Country,
		"http_timeout": config.API.HTTPTimeout.String(),
		"user_agent":   config.API.UserAgent,
	})
	v.Set("feed", map[string]interface{}{
		"default_category": config.Feed.DefaultCategory,
	})
	v.Set("proxy", map[string]interface{}{
		"listen":          config.Proxy.Listen,
		"path_prefix":     config.Proxy.PathPrefix,
		"allowed_origins": config.Proxy.AllowedOrigins,
	})

	c := config.UI.Colors
	v.Set("ui", map[string]interface{}{
		"opener": config.UI.Opener,
		"colors": map[string]interface{}{
			"primary":    c.Primary,
			"secondary":  c.Secondary,
			"accent":     c.Accent,
			"background": c.Background,
			"surface":    c.Surface,
			"text":       c.Text,
			"muted":      c.Muted,
			"error":      c.Error,
			"success":    c.Success,
		},
		"article": map[string]interface{}{
			"max_description_length": config.UI.Article.MaxDescriptionLength,
			"word_wrap_max_width":    config.UI.Article.WordWrapMaxWidth,
			"word_wrap_min_width":    config.UI.Article.WordWrapMinWidth,
			"full_text_timeout":      config.UI.Article.FullTextTimeout.String(),
		},
	})

	b := config.Keys.Bindings
	v.Set("keys", map[string]interface{}{
		"modifier": config.Keys.Modifier,
		"bindings": map[string]interface{}{
			"quit":      b.Quit,
			"search":    b.Search,
			"reset":     b.Reset,
			"find":      b.Find,
			"next_page": b.NextPage,
			"prev_page": b.PrevPage,
			"open":      b.Open,
			"full_text": b.FullText,
			"back":      b.Back,
			"help":      b.Help,
		},
	})
	v.Set("log", map[string]interface{}{
		"level": config.Log.Level,
		"file":  config.Log.File,
	})

	target, err := validation.NewPermissivePathHandler().ConfigPath(path)
	if err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(target)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
