package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// Config holds all application configuration
type Config struct {
	// TMDB
	TMDBAccessToken  string
	TMDBAPIKey       string
	TMDBBaseURL      string
	TMDBImageBaseURL string
	TMDBLanguage     string  // BCP 47 tag sent with search requests (default: en-US)
	TMDBRateLimit    float64 // Requests per second (default: 20)
	TMDBTimeout      time.Duration

	// Browsing
	SuggestionDebounce  time.Duration // Caller inactivity before a suggestion fetch (default: 300ms)
	SliderInterval      time.Duration // Auto-advance period of the popular slider (default: 5s)
	SliderTransition    time.Duration // Duration of one slide transition (default: 300ms)
	ImagePlaceholderURL string

	// Server
	ServerPort string

	// Paths
	DatabaseFile string // $CONFIG_DIR/gocinema.db

	// Logging
	LogLevel  string
	LogFormat string // "text" or "json"
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	viper.SetDefault("TMDB_BASE_URL", "https://api.themoviedb.org/3")
	viper.SetDefault("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p")
	viper.SetDefault("TMDB_LANGUAGE", "en-US")
	viper.SetDefault("TMDB_RATE_LIMIT", 20)
	viper.SetDefault("TMDB_TIMEOUT_SECONDS", 30)
	viper.SetDefault("SUGGESTION_DEBOUNCE_MS", 300)
	viper.SetDefault("SLIDER_INTERVAL_SECONDS", 5)
	viper.SetDefault("SLIDER_TRANSITION_MS", 300)
	viper.SetDefault("IMAGE_PLACEHOLDER_URL", "https://via.placeholder.com/500x750?text=No+Image")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")

	configDir := viper.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "gocinema")
	} else {
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config := &Config{
		// TMDB
		TMDBAccessToken:  viper.GetString("TMDB_ACCESS_TOKEN"),
		TMDBAPIKey:       viper.GetString("TMDB_API_KEY"),
		TMDBBaseURL:      viper.GetString("TMDB_BASE_URL"),
		TMDBImageBaseURL: viper.GetString("TMDB_IMAGE_BASE_URL"),
		TMDBLanguage:     viper.GetString("TMDB_LANGUAGE"),
		TMDBRateLimit:    viper.GetFloat64("TMDB_RATE_LIMIT"),
		TMDBTimeout:      time.Duration(viper.GetInt("TMDB_TIMEOUT_SECONDS")) * time.Second,

		// Browsing
		SuggestionDebounce:  time.Duration(viper.GetInt("SUGGESTION_DEBOUNCE_MS")) * time.Millisecond,
		SliderInterval:      time.Duration(viper.GetInt("SLIDER_INTERVAL_SECONDS")) * time.Second,
		SliderTransition:    time.Duration(viper.GetInt("SLIDER_TRANSITION_MS")) * time.Millisecond,
		ImagePlaceholderURL: viper.GetString("IMAGE_PLACEHOLDER_URL"),

		// Server
		ServerPort: viper.GetString("SERVER_PORT"),

		// Paths
		DatabaseFile: filepath.Join(configDir, "gocinema.db"),

		// Logging
		LogLevel:  viper.GetString("LOG_LEVEL"),
		LogFormat: viper.GetString("LOG_FORMAT"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks required fields and normalizes the language tag
func (c *Config) Validate() error {
	if c.TMDBAccessToken == "" && c.TMDBAPIKey == "" {
		return fmt.Errorf("TMDB_ACCESS_TOKEN or TMDB_API_KEY is required")
	}
	if c.TMDBBaseURL == "" {
		return fmt.Errorf("TMDB_BASE_URL is required")
	}
	if c.TMDBRateLimit <= 0 {
		return fmt.Errorf("TMDB_RATE_LIMIT must be positive, got %v", c.TMDBRateLimit)
	}
	if c.SliderInterval <= 0 {
		return fmt.Errorf("SLIDER_INTERVAL_SECONDS must be positive")
	}

	tag, err := language.Parse(c.TMDBLanguage)
	if err != nil {
		return fmt.Errorf("invalid TMDB_LANGUAGE %q: %w", c.TMDBLanguage, err)
	}
	c.TMDBLanguage = tag.String()

	return nil
}
