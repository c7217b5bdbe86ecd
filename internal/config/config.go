package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      App      `mapstructure:"app"`
	Gemini   Gemini   `mapstructure:"gemini"`
	Sources  Sources  `mapstructure:"sources"`
	Digest   Digest   `mapstructure:"digest"`
	Email    Email    `mapstructure:"email"`
	Telegram Telegram `mapstructure:"telegram"`
}

// App holds general application configuration
type App struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
	DataDir  string `mapstructure:"data_dir"`
}

// Gemini holds the Gemini API configuration
type Gemini struct {
	APIKey         string  `mapstructure:"api_key"`
	Model          string  `mapstructure:"model"`
	EmbeddingModel string  `mapstructure:"embedding_model"`
	Temperature    float32 `mapstructure:"temperature"`
	MaxTokens      int32   `mapstructure:"max_tokens"`
}

// Sources holds source adapter configuration
type Sources struct {
	HackerNewsQuery   string   `mapstructure:"hackernews_query"`
	RSSFeeds          []string `mapstructure:"rss_feeds"`
	TimeoutSeconds    int      `mapstructure:"timeout_seconds"`
	MaxItemsPerSource int      `mapstructure:"max_items_per_source"`
	WindowHours       int      `mapstructure:"window_hours"`
	RetryMaxAttempts  int      `mapstructure:"retry_max_attempts"`
	RetryBaseDelayMS  int      `mapstructure:"retry_base_delay_ms"`
}

// Digest holds digest generation configuration
type Digest struct {
	MinScore            float64 `mapstructure:"min_score"`
	MaxSections         int     `mapstructure:"max_sections"`
	MinClusterSize      int     `mapstructure:"min_cluster_size"`
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`
	WindowDays          int     `mapstructure:"window_days"`
}

// Email holds SMTP delivery configuration
type Email struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	UseTLS   bool   `mapstructure:"use_tls"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	To       string `mapstructure:"to"`
}

// Telegram holds Telegram bot delivery configuration
type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

// Load reads configuration from file, environment variables, and defaults.
// Priority order: explicit config file, then .dailybrief.yaml in the working
// directory or $HOME, then environment variables, then defaults.
func Load(configFile string) (*Config, error) {
	// Load .env if present so local development can keep secrets out of
	// the shell environment.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	setDefaults()

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".dailybrief")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("DAILYBRIEF")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Missing config file is fine, defaults and env cover everything.
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Get returns the current configuration, loading defaults if Load has not
// been called yet.
func Get() *Config {
	config := &Config{}
	setDefaults()
	if err := viper.Unmarshal(config); err != nil {
		return defaultConfig()
	}
	return config
}

// Validate rejects configuration defects eagerly, before any pipeline work.
func (c *Config) Validate() error {
	if c.Digest.MaxSections <= 0 {
		return fmt.Errorf("digest.max_sections must be positive, got %d", c.Digest.MaxSections)
	}
	if c.Digest.MinClusterSize < 1 {
		return fmt.Errorf("digest.min_cluster_size must be >= 1, got %d", c.Digest.MinClusterSize)
	}
	if c.Digest.SimilarityThreshold < 0 || c.Digest.SimilarityThreshold > 1 {
		return fmt.Errorf("digest.similarity_threshold must be in [0,1], got %f", c.Digest.SimilarityThreshold)
	}
	if c.Sources.WindowHours < 1 {
		return fmt.Errorf("sources.window_hours must be >= 1, got %d", c.Sources.WindowHours)
	}
	return nil
}

func setDefaults() {
	// App defaults
	viper.SetDefault("app.debug", false)
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.data_dir", ".dailybrief-cache")

	// Gemini defaults
	viper.SetDefault("gemini.model", "gemini-flash-lite-latest")
	viper.SetDefault("gemini.embedding_model", "gemini-embedding-001")
	viper.SetDefault("gemini.temperature", 0.7)
	viper.SetDefault("gemini.max_tokens", 8192)

	// Source adapter defaults
	viper.SetDefault("sources.hackernews_query", `ai OR "artificial intelligence" OR "llama"`)
	viper.SetDefault("sources.rss_feeds", []string{
		"https://bensbites.beehiiv.com/feed",
		"https://openai.com/blog/rss",
		"https://www.oreilly.com/radar/feed/index.xml",
	})
	viper.SetDefault("sources.timeout_seconds", 10)
	viper.SetDefault("sources.max_items_per_source", 75)
	viper.SetDefault("sources.window_hours", 24)
	viper.SetDefault("sources.retry_max_attempts", 3)
	viper.SetDefault("sources.retry_base_delay_ms", 500)

	// Digest defaults
	viper.SetDefault("digest.min_score", 0.6)
	viper.SetDefault("digest.max_sections", 5)
	viper.SetDefault("digest.min_cluster_size", 2)
	viper.SetDefault("digest.similarity_threshold", 0.6)
	viper.SetDefault("digest.window_days", 1)

	// Email defaults
	viper.SetDefault("email.host", "smtp.gmail.com")
	viper.SetDefault("email.port", 587)
	viper.SetDefault("email.use_tls", true)
}

func defaultConfig() *Config {
	return &Config{
		App: App{LogLevel: "info", DataDir: ".dailybrief-cache"},
		Gemini: Gemini{
			Model:          "gemini-flash-lite-latest",
			EmbeddingModel: "gemini-embedding-001",
			Temperature:    0.7,
			MaxTokens:      8192,
		},
		Sources: Sources{
			TimeoutSeconds:    10,
			MaxItemsPerSource: 75,
			WindowHours:       24,
			RetryMaxAttempts:  3,
			RetryBaseDelayMS:  500,
		},
		Digest: Digest{
			MinScore:            0.6,
			MaxSections:         5,
			MinClusterSize:      2,
			SimilarityThreshold: 0.6,
			WindowDays:          1,
		},
		Email: Email{Host: "smtp.gmail.com", Port: 587, UseTLS: true},
	}
}
