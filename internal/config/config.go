package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	MongoURI    string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDBName string `env:"MONGO_DB_NAME" envDefault:"cinemadb"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	Postgres Postgres `envPrefix:"POSTGRES_"`

	CatalogBaseURL      string `env:"CATALOG_BASE_URL" envDefault:"http://localhost:9090/api"`
	PaymentBaseURL      string `env:"PAYMENT_BASE_URL" envDefault:"http://localhost:9090/api"`
	CompletionBaseURL   string `env:"COMPLETION_BASE_URL" envDefault:"http://localhost:9090/api"`
	CollaboratorTimeout time.Duration `env:"COLLABORATOR_TIMEOUT" envDefault:"15s"`

	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type Postgres struct {
	Host              string `env:"HOST" envDefault:"localhost"`
	Port              int    `env:"PORT" envDefault:"5432"`
	User              string `env:"USER" envDefault:"postgres"`
	Password          string `env:"PASSWORD" envDefault:"postgres"`
	DBName            string `env:"DB" envDefault:"receipts"`
	MigrationsDirPath string `env:"MIGRATIONS_DIR" envDefault:"migrations/receipts"`
}

type SimulatorConfig struct {
	HTTPPort          string `env:"SIM_HTTP_PORT" envDefault:"9090"`
	LogLevel          string `env:"LOG_LEVEL" envDefault:"info"`
	SQLitePath        string `env:"SIM_SQLITE_PATH" envDefault:"catalog.db"`
	MigrationsDirPath string `env:"SIM_MIGRATIONS_DIR" envDefault:"migrations/catalog"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func LoadSimulator() (*SimulatorConfig, error) {
	cfg := &SimulatorConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
