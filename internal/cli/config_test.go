package cli

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)
	require.Equal(t, "ETH/BTC", cfg.Symbol)
	require.Equal(t, 10, cfg.Depth)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "", cfg.Address)
}

func TestLoad_EnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("BOOKWATCH_SYMBOL", "BTC/USDT")
	t.Setenv("BOOKWATCH_DEPTH", "25")

	cfg, err := Load(viper.New())
	require.NoError(t, err)
	require.Equal(t, "BTC/USDT", cfg.Symbol)
	require.Equal(t, 25, cfg.Depth)
}
