package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendFirestore = "firestore"
	BackendMemory    = "memory"
)

type Config struct {
	ServerPort      string
	Environment     string
	LogLevel        string
	FirebaseProject string
	// Service account credentials; JSON wins over the file path.
	CredentialsJSON string
	CredentialsPath string
	StorageBucket   string

	StoreBackend      string
	RedisURL          string
	CommunityCacheTTL time.Duration

	CheckRatePerMinute   int
	MessageRatePerMinute int
	// Per client IP across the whole API.
	RequestRatePerMinute int
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE_BACKEND", BackendFirestore)
	v.SetDefault("COMMUNITY_CACHE_TTL", "5m")
	v.SetDefault("CHECK_RATE_PER_MINUTE", 30)
	v.SetDefault("MESSAGE_RATE_PER_MINUTE", 10)
	v.SetDefault("REQUEST_RATE_PER_MINUTE", 300)

	ttl, err := time.ParseDuration(v.GetString("COMMUNITY_CACHE_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid COMMUNITY_CACHE_TTL: %w", err)
	}

	backend := strings.ToLower(v.GetString("STORE_BACKEND"))
	if backend != BackendFirestore && backend != BackendMemory {
		return nil, fmt.Errorf("invalid STORE_BACKEND %q: want %s or %s", backend, BackendFirestore, BackendMemory)
	}

	config := &Config{
		ServerPort:           v.GetString("SERVER_PORT"),
		Environment:          v.GetString("ENVIRONMENT"),
		LogLevel:             v.GetString("LOG_LEVEL"),
		FirebaseProject:      v.GetString("FIREBASE_PROJECT_ID"),
		CredentialsJSON:      v.GetString("FIREBASE_SERVICE_ACCOUNT_JSON"),
		CredentialsPath:      v.GetString("FIREBASE_SERVICE_ACCOUNT_PATH"),
		StorageBucket:        v.GetString("STORAGE_BUCKET"),
		StoreBackend:         backend,
		RedisURL:             v.GetString("REDIS_URL"),
		CommunityCacheTTL:    ttl,
		CheckRatePerMinute:   v.GetInt("CHECK_RATE_PER_MINUTE"),
		MessageRatePerMinute: v.GetInt("MESSAGE_RATE_PER_MINUTE"),
		RequestRatePerMinute: v.GetInt("REQUEST_RATE_PER_MINUTE"),
	}

	if config.StoreBackend == BackendFirestore && config.FirebaseProject == "" {
		return nil, fmt.Errorf("FIREBASE_PROJECT_ID is required for the firestore backend")
	}

	return config, nil
}
