// Package database owns the MySQL connection pool and the idempotent
// schema bootstrap run at startup.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/quicktickets/backend/internal/config"
)

// dsn builds the driver connection string. parseTime maps DATETIME
// columns onto time.Time and loc pins them to UTC, so every timestamp
// in the repositories round-trips without zone drift.
func dsn(cfg config.Config) string {
	auth := cfg.DBUser
	if cfg.DBPass != "" {
		auth += ":" + cfg.DBPass
	}
	addr := net.JoinHostPort(cfg.DBHost, cfg.DBPort)
	return fmt.Sprintf("%s@tcp(%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC", auth, addr, cfg.DBName)
}

// Open connects to MySQL, applies the configured pool limits and
// verifies the connection with a bounded ping so a wrong address fails
// startup instead of the first request.
func Open(cfg config.Config) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifeMin) * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql at %s: %w", cfg.DBHost, err)
	}
	return db, nil
}
