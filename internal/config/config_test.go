package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("PORT", "")
	t.Setenv("SHUTDOWN_TIMEOUT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.UsesMongo())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", DriverMongo)
	t.Setenv("MONGO_DATABASE", "tracker_test")
	t.Setenv("SHUTDOWN_TIMEOUT", "250ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.UsesMongo())
	assert.Equal(t, "tracker_test", cfg.MongoDatabase)
	assert.Equal(t, 250*time.Millisecond, cfg.ShutdownTimeout)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsBadShutdownTimeout(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")

	_, err := Load()
	assert.Error(t, err)
}
