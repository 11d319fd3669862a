package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reminderd/pkg/config"
)

type serverTestConfig struct {
	Addr    string        `env:"TEST_SERVER_ADDR" envDefault:":9090"`
	Timeout time.Duration `env:"TEST_SERVER_TIMEOUT" envDefault:"15s"`
}

type requiredTestConfig struct {
	Secret string `env:"TEST_REQUIRED_SECRET,required"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg serverTestConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
}

func TestLoad_CachesPerType(t *testing.T) {
	var first serverTestConfig
	require.NoError(t, config.Load(&first))

	// Changing the environment after the first load must not change the
	// cached value other packages already observed.
	t.Setenv("TEST_SERVER_ADDR", ":7777")

	var second serverTestConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, first, second)
}

func TestLoad_RequiredMissing(t *testing.T) {
	var cfg requiredTestConfig
	err := config.Load(&cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrParsingConfig)
}

func TestLoad_NilPointer(t *testing.T) {
	err := config.Load[serverTestConfig](nil)
	assert.ErrorIs(t, err, config.ErrNilPointer)
}
