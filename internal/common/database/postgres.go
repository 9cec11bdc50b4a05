package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/nerufirm/appneruf/internal/common/config"
)

// NewPostgresDB 打开连接池并 Ping；失败时 main 回退到内存 repo
func NewPostgresDB(cfg *config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// DB_MAX_CONNS / DB_MAX_IDLE 为 0 时沿用驱动默认值
	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
	}
	if cfg.MaxIdle > 0 {
		db.SetMaxIdleConns(cfg.MaxIdle)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Close 允许 nil
func Close(db *sqlx.DB) error {
	if db != nil {
		return db.Close()
	}
	return nil
}
