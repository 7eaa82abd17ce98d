package config

import (
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestLoad_Defaults(t *testing.T) {
	is := is.New(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_PASSWORD", "pw")

	cfg, err := Load()
	is.NoErr(err)
	is.Equal(cfg.Storage.Driver, DriverPostgres)
	is.Equal(cfg.Workspace.DefaultName, "Personal")
	is.Equal(cfg.Workspace.CookieName, "active_workspace_id")
	is.Equal(cfg.Workspace.CookieMaxAge, 365*24*time.Hour)
	is.True(!cfg.Workspace.CookieSecure)
	is.Equal(cfg.Invite.TTL, 7*24*time.Hour)
	is.Equal(cfg.Invite.PurgeSchedule, "@hourly")
	is.Equal(cfg.JWT.Cookie, "access_token")
	is.Equal(cfg.Database.URL, "postgres://taskboard:pw@localhost:5432/taskboard?sslmode=disable")
	is.Equal(cfg.Address(), "0.0.0.0:8080")
}

func TestLoad_Overrides(t *testing.T) {
	is := is.New(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORAGE_DRIVER", "BOLT")
	t.Setenv("INVITE_TTL", "48h")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "3")
	t.Setenv("DATABASE_URL", "postgres://elsewhere/db")

	cfg, err := Load()
	is.NoErr(err)
	is.True(cfg.IsProduction())
	is.True(cfg.Workspace.CookieSecure) // secure by default in production
	is.Equal(cfg.Storage.Driver, DriverBolt)
	is.Equal(cfg.Invite.TTL, 48*time.Hour)
	is.Equal(cfg.Context.RequestTimeout, 3*time.Second)
	is.Equal(cfg.Database.URL, "postgres://elsewhere/db")
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		is := is.New(t)
		t.Setenv("JWT_SECRET", "")
		_, err := Load()
		is.True(err != nil)
	})

	t.Run("unknown driver", func(t *testing.T) {
		is := is.New(t)
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("STORAGE_DRIVER", "sqlite")
		_, err := Load()
		is.True(err != nil)
	})
}
