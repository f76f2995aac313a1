package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_DSN", "")
	t.Setenv("MYSQL_DSN", "")
	t.Setenv("JWT_TTL", "")

	cfg := New()

	assert.Equal(t, "production", cfg.App.ENV)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "mysql", cfg.DB.Driver)
	assert.Contains(t, cfg.DB.DSN, "@tcp(localhost:3306)/sportly")
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "UTC", cfg.Quota.Timezone)
	assert.Equal(t, "50051", cfg.GRPC.Port)
}

func TestNew_PostgresDSN(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("MYSQL_DSN", "")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_HOST", "db")

	cfg := New()

	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Contains(t, cfg.DB.DSN, "host=db port=5432")
}

func TestNew_ExplicitDSNWins(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", "file::memory:")

	cfg := New()

	assert.Equal(t, "file::memory:", cfg.DB.DSN)
}

func TestNew_DevelopmentOnlyWhenAsked(t *testing.T) {
	t.Setenv("APP_ENV", "Development")

	cfg := New()

	assert.True(t, cfg.IsDevelopment())
}

func TestNew_ProductionIsNotDevelopment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("AI_TIMEOUT", "not-a-duration")

	cfg := New()

	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 60*time.Second, cfg.AI.Timeout)
}
