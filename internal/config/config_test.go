package config

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "PORT", "SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT", "SERVER_IDLE_TIMEOUT", "SHUTDOWN_TIMEOUT",
		"DB_DRIVER", "DATABASE_URL", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
		"DB_MAX_CONNS", "DB_MIN_CONNS", "DB_CONNECT_RETRIES",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "CACHE_TTL",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := FromEnv()

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "postgres", cfg.Database.User)
	assert.Equal(t, "", cfg.Database.Password)
	assert.Equal(t, "booking_db", cfg.Database.Name)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, int32(20), cfg.Database.MaxConns)
	assert.Equal(t, int32(2), cfg.Database.MinConns)
	assert.Equal(t, 5, cfg.Database.ConnectRetries)

	assert.False(t, cfg.Redis.CacheEnabled())
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL)

	assert.Equal(t, 100.0, cfg.RateLimit.RPS)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
}

func TestFromEnv_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("SERVER_READ_TIMEOUT", "5s")
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_USER", "booking")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_MAX_CONNS", "50")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CACHE_TTL", "2m")
	t.Setenv("RATE_LIMIT_RPS", "12.5")
	t.Setenv("RATE_LIMIT_BURST", "25")

	cfg := FromEnv()

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "booking", cfg.Database.User)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, int32(50), cfg.Database.MaxConns)
	assert.True(t, cfg.Redis.CacheEnabled())
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 2*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, 12.5, cfg.RateLimit.RPS)
	assert.Equal(t, 25, cfg.RateLimit.Burst)
}

func TestFromEnv_InvalidNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_MAX_CONNS", "many")
	t.Setenv("CACHE_TTL", "soon")
	t.Setenv("RATE_LIMIT_RPS", "fast")

	cfg := FromEnv()

	assert.Equal(t, int32(20), cfg.Database.MaxConns)
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
	assert.Equal(t, 100.0, cfg.RateLimit.RPS)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  DatabaseConfig
		want string
	}{
		{
			name: "keyword form without password",
			cfg:  DatabaseConfig{Host: "localhost", Port: "5432", User: "postgres", Name: "booking_db", SSLMode: "disable"},
			want: "host=localhost port=5432 user=postgres dbname=booking_db sslmode=disable",
		},
		{
			name: "keyword form with password",
			cfg:  DatabaseConfig{Host: "db", Port: "5433", User: "app", Password: "pw", Name: "bookings", SSLMode: "require"},
			want: "host=db port=5433 user=app dbname=bookings sslmode=require password=pw",
		},
		{
			name: "url wins",
			cfg:  DatabaseConfig{URL: "postgres://u:p@h:5432/d?sslmode=require", Host: "ignored"},
			want: "postgres://u:p@h:5432/d?sslmode=require",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.DSN())
		})
	}
}

func TestDatabaseConfig_DSNQuotesValues(t *testing.T) {
	passwords := []string{"pa ss", "it's", `back\slash`, "a=b", "' OR 1=1"}

	for _, pw := range passwords {
		t.Run(pw, func(t *testing.T) {
			cfg := DatabaseConfig{Host: "localhost", Port: "5432", User: "app user", Password: pw, Name: "booking_db", SSLMode: "disable"}

			parsed, err := pgconn.ParseConfig(cfg.DSN())
			require.NoError(t, err)
			assert.Equal(t, pw, parsed.Password)
			assert.Equal(t, "app user", parsed.User)
			assert.Equal(t, "booking_db", parsed.Database)
		})
	}
}
