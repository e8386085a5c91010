package confs

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config contains server configuration parameters.
type Config struct {
	Port            string        `env:"PORT" envDefault:"3000"`
	LogLevel        int           `env:"LOG_LEVEL" envDefault:"0"`
	GinMode         string        `env:"GIN_MODE" envDefault:"release"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	BcryptCost      int           `env:"BCRYPT_COST" envDefault:"12"`
	PaletteCacheTTL time.Duration `env:"PALETTE_CACHE_TTL" envDefault:"5m"`
	Database        Database      `envPrefix:"DB_"`
}

// Database contains connection and pool parameters. URL, when set,
// takes precedence over the individual host/port/user fields.
type Database struct {
	Driver          string        `env:"DRIVER" envDefault:"mysql"`
	URL             string        `env:"URL"`
	Host            string        `env:"HOST" envDefault:"localhost"`
	Port            string        `env:"PORT" envDefault:"3001"`
	User            string        `env:"USER" envDefault:"root"`
	Password        string        `env:"PASSWORD"`
	Name            string        `env:"DATABASE" envDefault:"ecoWattch_db"`
	SSLMode         string        `env:"SSLMODE"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"10"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"0s"`
	ConnectTimeout  time.Duration `env:"CONNECT_TIMEOUT" envDefault:"10s"`
}

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// LoadConfig loads environment variables from a .env file if present
// and parses them into a Config.
func LoadConfig() (*Config, error) {
	// Load .env if it exists; ignore error if file not found
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("warning: could not load .env: %v", err)
		}
	}
	return Parse()
}

// Parse builds a Config from the current environment and validates it.
func Parse() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverMySQL, DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want %s, %s or %s)", c.Database.Driver, DriverMySQL, DriverPostgres, DriverMemory)
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be positive, got %d", c.Database.MaxOpenConns)
	}
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return "0.0.0.0:" + c.Port
}
