package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StoreBackendDB   = "db"
	StoreBackendFile = "file"
)

type HTTPConfig struct {
	Host        string
	Port        int
	CORSOrigins []string
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type StoreConfig struct {
	Backend   string
	Namespace string
	FileDir   string
	SeedDemo  bool
}

type AuthConfig struct {
	AccessSecret string
	AccessTTL    time.Duration
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Store       StoreConfig
	Auth        AuthConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("HTTP_PORT", 7090)
	v.SetDefault("HTTP_CORS_ORIGINS", "*")
	v.SetDefault("DB_DSN", "contracts.db")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("STORE_BACKEND", StoreBackendDB)
	v.SetDefault("STORE_NAMESPACE", "contract-storage")
	v.SetDefault("STORE_FILE_DIR", "./data")
	v.SetDefault("STORE_SEED_DEMO", false)
	v.SetDefault("JWT_ACCESS_TTL", "24h")

	_ = v.ReadInConfig()

	connLifetime, err := parseDuration("DB_CONN_MAX_LIFETIME", v.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		return nil, err
	}
	accessTTL, err := parseDuration("JWT_ACCESS_TTL", v.GetString("JWT_ACCESS_TTL"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host:        v.GetString("HTTP_HOST"),
			Port:        v.GetInt("HTTP_PORT"),
			CORSOrigins: parseList(v.GetString("HTTP_CORS_ORIGINS")),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connLifetime,
		},
		Store: StoreConfig{
			Backend:   strings.ToLower(strings.TrimSpace(v.GetString("STORE_BACKEND"))),
			Namespace: strings.TrimSpace(v.GetString("STORE_NAMESPACE")),
			FileDir:   v.GetString("STORE_FILE_DIR"),
			SeedDemo:  v.GetBool("STORE_SEED_DEMO"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
			AccessTTL:    accessTTL,
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.Auth.AccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be positive")
	}
	if cfg.Store.Namespace == "" {
		return fmt.Errorf("STORE_NAMESPACE is required")
	}
	switch cfg.Store.Backend {
	case StoreBackendDB:
	case StoreBackendFile:
		if strings.TrimSpace(cfg.Store.FileDir) == "" {
			return fmt.Errorf("STORE_FILE_DIR is required for the file backend")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", StoreBackendDB, StoreBackendFile, cfg.Store.Backend)
	}
	return nil
}

func parseDuration(key, raw string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	items := strings.Split(raw, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
