package config

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type DBConfig struct {
	// postgres в бою, sqlite для локального запуска без сервера БД.
	Driver     string `envconfig:"DB_DRIVER" default:"postgres"`
	SQLitePath string `envconfig:"DB_SQLITE_PATH" default:"consultation.db"`

	Host            string `envconfig:"DB_HOST" default:"postgres"`
	Port            int    `envconfig:"DB_PORT" default:"5432"`
	User            string `envconfig:"DB_USER" default:"consultation"`
	Password        string `envconfig:"DB_PASSWORD" default:"consultation"`
	Name            string `envconfig:"DB_NAME" default:"consultation_db"`
	SSLMode         string `envconfig:"DB_SSLMODE" default:"disable"`
	TimeZone        string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxOpenConns    int    `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int    `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifeTime int    `envconfig:"DB_CONN_MAX_LIFETIME_MIN" default:"30"` // минут

	// Уровень изоляции транзакции подтверждения консультации.
	TxIsolation string `envconfig:"DB_TX_ISOLATION" default:"repeatable_read"`
}

func LoadDBConfig() (*DBConfig, error) {
	var cfg DBConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process db env: %w", err)
	}

	// минимальная валидация
	switch cfg.Driver {
	case DriverPostgres:
		if cfg.Host == "" || cfg.User == "" || cfg.Name == "" {
			return nil, fmt.Errorf("invalid DB config: host/user/name must not be empty")
		}
	case DriverSQLite:
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("invalid DB config: sqlite path must not be empty")
		}
	default:
		return nil, fmt.Errorf("invalid DB config: unsupported driver %q", cfg.Driver)
	}
	if _, err := cfg.Isolation(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Isolation переводит DB_TX_ISOLATION в sql.IsolationLevel.
func (c *DBConfig) Isolation() (sql.IsolationLevel, error) {
	switch strings.ToLower(strings.TrimSpace(c.TxIsolation)) {
	case "", "default":
		return sql.LevelDefault, nil
	case "read_committed":
		return sql.LevelReadCommitted, nil
	case "repeatable_read":
		return sql.LevelRepeatableRead, nil
	case "serializable":
		return sql.LevelSerializable, nil
	default:
		return sql.LevelDefault, fmt.Errorf("invalid DB config: unsupported tx isolation %q", c.TxIsolation)
	}
}
