package postgres

import (
	"testing"
	"time"

	"simple-atm/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDatabaseConfig() config.DatabaseConfig {
	return config.DatabaseConfig{
		Enabled:  true,
		Host:     "localhost",
		Port:     5432,
		User:     "atm",
		Password: "atm-pass",
		DBName:   "simple_atm",
		SSLMode:  "disable",
	}
}

func TestPoolConfig_AppliesLimits(t *testing.T) {
	cfg := testDatabaseConfig()
	cfg.MaxConns = 20
	cfg.MinConns = 5
	cfg.ConnMaxLifetime = 30 * time.Minute

	poolCfg, err := poolConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, int32(20), poolCfg.MaxConns)
	assert.Equal(t, int32(5), poolCfg.MinConns)
	assert.Equal(t, 30*time.Minute, poolCfg.MaxConnLifetime)
	assert.Equal(t, "localhost", poolCfg.ConnConfig.Host)
	assert.Equal(t, uint16(5432), poolCfg.ConnConfig.Port)
	assert.Equal(t, "simple_atm", poolCfg.ConnConfig.Database)
	assert.Equal(t, "atm", poolCfg.ConnConfig.User)
}

func TestPoolConfig_ZeroLimitsKeepDefaults(t *testing.T) {
	poolCfg, err := poolConfig(testDatabaseConfig())
	require.NoError(t, err)

	assert.Positive(t, poolCfg.MaxConns)
}

func TestPoolConfig_InvalidDSN(t *testing.T) {
	cfg := testDatabaseConfig()
	cfg.SSLMode = "bogus"

	_, err := poolConfig(cfg)
	assert.Error(t, err)
}
