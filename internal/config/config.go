package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Supported values for DB_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverMongo    = "mongo"
)

type Config struct {
	Port            string
	GinMode         string
	DBDriver        string
	SQLitePath      string
	DBHost          string
	DBPort          string
	DBUser          string
	DBPassword      string
	DBName          string
	MongoURI        string
	MongoDatabase   string
	OpenAIAPIKey    string
	OpenAIModel     string
	CORSOrigin      string
	ShutdownTimeout time.Duration
}

// Load reads configuration from the environment. Values from a .env file in
// the working directory are applied first when the file exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Ignoring .env file: %v", err)
	}

	shutdownTimeout, err := time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		GinMode:         getEnv("GIN_MODE", "debug"),
		DBDriver:        getEnv("DB_DRIVER", DriverSQLite),
		SQLitePath:      getEnv("SQLITE_PATH", "task-tracker.db"),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBUser:          getEnv("DB_USER", "taskuser"),
		DBPassword:      getEnv("DB_PASSWORD", "taskpassword"),
		DBName:          getEnv("DB_NAME", "task_tracker"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGO_DATABASE", "task_tracker"),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4o"),
		CORSOrigin:      getEnv("CORS_ALLOWED_ORIGIN", "*"),
		ShutdownTimeout: shutdownTimeout,
	}

	switch cfg.DBDriver {
	case DriverSQLite, DriverPostgres, DriverMySQL, DriverMongo:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	return cfg, nil
}

// UsesMongo reports whether the document backend is selected.
func (c *Config) UsesMongo() bool {
	return c.DBDriver == DriverMongo
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
