package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	BackendURL     string
	SocketURL      string
	DataDir        string // Local store (tokens, theme) lives here
	Environment    string
	AppId          string
	DemoFallback   bool
	BackendTimeout time.Duration
	SessionIdle    time.Duration
	ExportDir      string
	ExportSchedule string // Empty disables scheduled exports
	AllowedOrigins string
	LogFile        string // Activity log (JSON lines)
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	backendURL := strings.TrimSuffix(getEnv("BACKEND_URL", "http://localhost:5000"), "/")
	env := getEnv("ENVIRONMENT", "development")

	return &Config{
		Port:           getEnv("PORT", "8090"),
		BackendURL:     backendURL,
		SocketURL:      getEnv("SOCKET_URL", socketURLFor(backendURL)),
		DataDir:        getEnv("DATA_DIR", "./.console"),
		Environment:    env,
		AppId:          getEnv("APP_ID", "ai-news-console"),
		DemoFallback:   getEnv("DEMO_FALLBACK", boolString(env != "production")) == "true",
		BackendTimeout: getDuration("BACKEND_TIMEOUT", 30*time.Second),
		SessionIdle:    getDuration("SESSION_IDLE", 30*time.Minute),
		ExportDir:      getEnv("EXPORT_DIR", "./exports"),
		ExportSchedule: getEnv("EXPORT_SCHEDULE", ""),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000, http://localhost:3001"),
		LogFile:        getEnv("LOG_FILE", ""),
	}, nil
}

// IsProduction reports whether the console runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid duration for %s (%q), using %s", key, value, fallback)
		return fallback
	}
	return d
}

// socketURLFor turns the backend base URL into its websocket endpoint.
func socketURLFor(backendURL string) string {
	switch {
	case strings.HasPrefix(backendURL, "https://"):
		return "wss://" + strings.TrimPrefix(backendURL, "https://") + "/ws"
	case strings.HasPrefix(backendURL, "http://"):
		return "ws://" + strings.TrimPrefix(backendURL, "http://") + "/ws"
	default:
		return backendURL + "/ws"
	}
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
