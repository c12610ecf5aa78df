package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"loanflow-backend/internal/domain/stats"
)

const (
	DriverMemory = "memory"
	DriverMySQL  = "mysql"
)

type Config struct {
	AppPort string

	// memory (default) or mysql
	StoreDriver string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	// Idempotency middleware is enabled only when RedisAddr is set.
	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	// Optional JSON file with the baseline dashboard seed; compiled-in
	// defaults are used when empty.
	StatsSeedFile string
	// Seed the store with deterministic demo loans on boot.
	DemoSeed bool
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func Load() *Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	c := &Config{
		AppPort:     getenv("APP_PORT", "8080"),
		StoreDriver: getenv("STORE_DRIVER", DriverMemory),

		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "loanflow"),
		MySQLUser: getenv("MYSQL_USER", "loanflow"),
		MySQLPass: getenv("MYSQL_PASS", "loanflow"),

		RedisAddr:    os.Getenv("REDIS_ADDR"),
		IdempTTLSecs: 300,

		StatsSeedFile: os.Getenv("STATS_SEED_FILE"),
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RedisDB = n
		}
	}
	if v := os.Getenv("IDEMPOTENCY_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.IdempTTLSecs = n
		}
	}
	if v := os.Getenv("DEMO_SEED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.DemoSeed = b
		}
	}
	return c
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.StoreDriver {
	case DriverMemory:
	case DriverMySQL:
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

// Baseline loads the dashboard seed. Ingestion validation happens in the
// aggregator; this only reads and decodes.
func (c *Config) Baseline() (stats.Baseline, error) {
	if c.StatsSeedFile == "" {
		return stats.DefaultBaseline(), nil
	}
	raw, err := os.ReadFile(c.StatsSeedFile)
	if err != nil {
		return stats.Baseline{}, fmt.Errorf("read stats seed: %w", err)
	}
	var b stats.Baseline
	if err := json.Unmarshal(raw, &b); err != nil {
		return stats.Baseline{}, fmt.Errorf("decode stats seed: %w", err)
	}
	return b, nil
}
