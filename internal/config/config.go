package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type DatabaseConfig struct {
	Driver          string
	DSN             string
	User            string
	Password        string
	Host            string
	Port            string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// ConnString returns DSN when set, otherwise assembles one for Driver from the parts.
func (c DatabaseConfig) ConnString() string {
	if c.DSN != "" {
		return c.DSN
	}
	if c.Driver == "postgres" {
		return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", c.User, c.Password, c.Host, c.Port, c.Name)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local", c.User, c.Password, c.Host, c.Port, c.Name)
}

type Config struct {
	Port string
	DB   DatabaseConfig

	RedisAddr     string
	RabbitMQURL   string
	OrderExchange string

	JWTSecret string
	TokenTTL  time.Duration

	LoginRateLimit  int
	LoginRatePeriod time.Duration

	SeedCatalog   bool
	CatalogFile   string
	AdminUserID   string
	AdminPassword string
}

// Load reads the process environment, after merging a .env file when one is present.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: loading env file: %v", err)
	}

	cfg := &Config{
		Port: getenv("PORT", "8080"),
		DB: DatabaseConfig{
			Driver:          getenv("DB_DRIVER", "mysql"),
			DSN:             os.Getenv("DATABASE_DSN"),
			User:            os.Getenv("MYSQL_USER"),
			Password:        os.Getenv("MYSQL_PASSWORD"),
			Host:            getenv("MYSQL_HOST", "127.0.0.1"),
			Port:            getenv("MYSQL_PORT", "3306"),
			Name:            getenv("MYSQL_DATABASE", "pharmacy"),
			ConnMaxLifetime: 5 * time.Minute,
			ConnMaxIdleTime: time.Minute,
		},
		RedisAddr:     os.Getenv("REDIS_HOST"),
		RabbitMQURL:   os.Getenv("RABBITMQ_URL"),
		OrderExchange: getenv("ORDER_EXCHANGE", "order.exchange"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		CatalogFile:   os.Getenv("CATALOG_FILE"),
		AdminUserID:   os.Getenv("ADMIN_USER_ID"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		LoginRatePeriod: time.Minute,
	}

	var err error
	if cfg.DB.MaxOpenConns, err = getInt("DB_MAX_OPEN_CONNS", 50); err != nil {
		return nil, err
	}
	if cfg.DB.MaxIdleConns, err = getInt("DB_MAX_IDLE_CONNS", 10); err != nil {
		return nil, err
	}
	if cfg.LoginRateLimit, err = getInt("LOGIN_RATE_LIMIT", 5); err != nil {
		return nil, err
	}
	if cfg.SeedCatalog, err = getBool("SEED_CATALOG", true); err != nil {
		return nil, err
	}
	if cfg.TokenTTL, err = getDuration("TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.DB.Driver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	if (c.AdminUserID == "") != (c.AdminPassword == "") {
		return errors.New("config: ADMIN_USER_ID and ADMIN_PASSWORD must be set together")
	}
	return nil
}

func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s: %w", key, err)
	}
	return b, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}
