package config

import (
	"errors"
	"fmt"
	"os"
)

const defaultAPIBaseURL = "https://api.pexels.com"

// Config holds runtime settings for the reel viewer.
type Config struct {
	APIKey     string
	APIBaseURL string
	DBPath     string
	Namespace  string
	Query      string
	ViewerID   string
	LogPath    string
}

func LoadFromEnv() (Config, error) {
	cfg := Config{
		APIKey:     os.Getenv("PEXELS_API_KEY"),
		APIBaseURL: os.Getenv("PEXELS_API_BASE_URL"),
		DBPath:     os.Getenv("REEL_DB_PATH"),
		Namespace:  os.Getenv("REEL_NAMESPACE"),
		Query:      os.Getenv("REEL_QUERY"),
		ViewerID:   os.Getenv("REEL_VIEWER_ID"),
		LogPath:    os.Getenv("REEL_LOG_PATH"),
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBaseURL
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "reel.db"
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "gigglegrid"
	}
	if cfg.Query == "" {
		cfg.Query = "funny memes"
	}
	if cfg.LogPath == "" {
		cfg.LogPath = "reel.log"
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return errors.New("PEXELS_API_KEY is required")
	}
	if c.APIBaseURL == "" {
		return errors.New("APIBaseURL is required")
	}
	if c.DBPath == "" {
		return errors.New("DBPath is required")
	}
	if c.Namespace == "" {
		return errors.New("Namespace is required")
	}
	if c.Query == "" {
		return errors.New("Query is required")
	}
	if c.APIBaseURL[len(c.APIBaseURL)-1] == '/' {
		return fmt.Errorf("APIBaseURL must not end with '/': %s", c.APIBaseURL)
	}
	return nil
}
