package db

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/contracts-service/internal/config"
)

func TestDialect(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"postgres://u:p@localhost:5432/contracts?sslmode=disable", DialectPostgres},
		{"postgresql://localhost/contracts", DialectPostgres},
		{"host=localhost user=postgres dbname=contracts sslmode=disable", DialectPostgres},
		{"contracts.db", DialectSQLite},
		{"file::memory:?cache=shared", DialectSQLite},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			assert.Equal(t, tt.want, Dialect(tt.dsn))
		})
	}
}

func TestNewRunsMigrationsIdempotently(t *testing.T) {
	cfg := &config.Config{
		Environment: "test",
		DB: config.DBConfig{
			DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
			MaxOpenConns: 1,
		},
	}

	database, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, runMigrations(database))

	for _, table := range []string{"kv_entries", "users"} {
		assert.True(t, database.Migrator().HasTable(table), table)
	}
	assert.True(t, database.Migrator().HasIndex("users", "uq_users_email"))
}
