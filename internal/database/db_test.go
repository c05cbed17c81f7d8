package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quicktickets/backend/internal/config"
)

func TestDSN(t *testing.T) {
	cfg := config.Config{
		DBUser: "qt",
		DBPass: "s3cret",
		DBHost: "db.internal",
		DBPort: "3306",
		DBName: "quicktickets",
	}
	got := dsn(cfg)
	assert.Equal(t, "qt:s3cret@tcp(db.internal:3306)/quicktickets?charset=utf8mb4&parseTime=true&loc=UTC", got)
}

func TestDSNWithoutPassword(t *testing.T) {
	cfg := config.Config{
		DBUser: "qt",
		DBHost: "localhost",
		DBPort: "3306",
		DBName: "quicktickets",
	}
	got := dsn(cfg)
	assert.Equal(t, "qt@tcp(localhost:3306)/quicktickets?charset=utf8mb4&parseTime=true&loc=UTC", got)
}
