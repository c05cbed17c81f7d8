package database

import (
	"context"
	"database/sql"
)

// schema holds the DDL for every table the service owns. Statements are
// idempotent so Bootstrap can run on every startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            CHAR(36)     NOT NULL PRIMARY KEY,
		first_name    VARCHAR(100) NOT NULL,
		last_name     VARCHAR(100) NOT NULL,
		email         VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		phone         VARCHAR(32)  NOT NULL DEFAULT '',
		state         VARCHAR(100) NOT NULL DEFAULT '',
		country       VARCHAR(100) NOT NULL DEFAULT '',
		role          VARCHAR(16)  NOT NULL DEFAULT 'CUSTOMER',
		is_subscribed TINYINT(1)   NOT NULL DEFAULT 0,
		is_active     TINYINT(1)   NOT NULL DEFAULT 1,
		created_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id          CHAR(36)     NOT NULL PRIMARY KEY,
		name        VARCHAR(100) NOT NULL UNIQUE,
		description TEXT         NOT NULL,
		image_url   VARCHAR(512) NOT NULL DEFAULT '',
		created_at  DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id           CHAR(36)     NOT NULL PRIMARY KEY,
		name         VARCHAR(255) NOT NULL,
		description  TEXT         NOT NULL,
		image_url    VARCHAR(512) NOT NULL DEFAULT '',
		starts_at    DATETIME     NOT NULL,
		price_cents  BIGINT       NOT NULL,
		capacity     INT          NOT NULL,
		availability INT          NOT NULL,
		category     VARCHAR(100) NOT NULL DEFAULT '',
		location     VARCHAR(255) NOT NULL DEFAULT '',
		latitude     DOUBLE       NOT NULL DEFAULT 0,
		longitude    DOUBLE       NOT NULL DEFAULT 0,
		creator_id   CHAR(36)     NOT NULL,
		is_active    TINYINT(1)   NOT NULL DEFAULT 1,
		created_at   DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at   DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_events_creator (creator_id),
		INDEX idx_events_starts_at (starts_at),
		CONSTRAINT chk_availability CHECK (availability >= 0 AND availability <= capacity)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id         CHAR(36) NOT NULL PRIMARY KEY,
		event_id   CHAR(36) NOT NULL,
		buyer_id   CHAR(36) NOT NULL,
		quantity   INT      NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_orders_buyer (buyer_id),
		INDEX idx_orders_event (event_id)
	)`,
	`CREATE TABLE IF NOT EXISTS tickets (
		id           CHAR(36)     NOT NULL PRIMARY KEY,
		event_id     CHAR(36)     NOT NULL,
		buyer_id     CHAR(36)     NOT NULL,
		qr_payload   VARCHAR(512) NOT NULL,
		used         TINYINT(1)   NOT NULL DEFAULT 0,
		purchased_at DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_tickets_buyer (buyer_id),
		INDEX idx_tickets_event (event_id)
	)`,
	`CREATE TABLE IF NOT EXISTS reminder_jobs (
		id         CHAR(36)     NOT NULL PRIMARY KEY,
		order_id   CHAR(36)     NOT NULL,
		email      VARCHAR(255) NOT NULL,
		full_name  VARCHAR(255) NOT NULL,
		event_id   CHAR(36)     NOT NULL,
		event_name VARCHAR(255) NOT NULL,
		starts_at  DATETIME     NOT NULL,
		quantity   INT          NOT NULL,
		fire_at    DATETIME     NOT NULL,
		sent       TINYINT(1)   NOT NULL DEFAULT 0,
		created_at DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_reminder_pending (sent, fire_at)
	)`,
}

// Bootstrap creates any missing tables. It is safe to call on every
// startup; existing tables are left untouched.
func Bootstrap(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
