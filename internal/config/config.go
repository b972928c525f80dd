package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	API     APIConfig
	Storage StorageConfig
	Search  SearchConfig
	Toast   ToastConfig
}

type APIConfig struct {
	BaseURL     string
	GeocoderURL string
}

type StorageConfig struct {
	Dir string
}

type SearchConfig struct {
	Debounce  time.Duration
	MinLength int
	Limit     int
}

type ToastConfig struct {
	Limit       int
	RemoveDelay time.Duration
}

func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		API: APIConfig{
			BaseURL:     getEnv("API_BASE_URL", "http://127.0.0.1:5000"),
			GeocoderURL: getEnv("GEOCODER_URL", "https://nominatim.openstreetmap.org/search"),
		},
		Storage: StorageConfig{
			Dir: getEnv("STORAGE_DIR", defaultStorageDir()),
		},
		Search: SearchConfig{
			Debounce:  getEnvDuration("SEARCH_DEBOUNCE", 300*time.Millisecond),
			MinLength: getEnvInt("SEARCH_MIN_LENGTH", 3),
			Limit:     getEnvInt("SEARCH_LIMIT", 5),
		},
		Toast: ToastConfig{
			Limit:       getEnvInt("TOAST_LIMIT", 1),
			RemoveDelay: getEnvDuration("TOAST_REMOVE_DELAY", 5*time.Second),
		},
	}

	return cfg, nil
}

func defaultStorageDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".avento"
	}
	return filepath.Join(home, ".avento")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
