package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds every flag/env-tunable setting for the bookwatch server
// and client commands.
type Config struct {
	Address  string `mapstructure:"address"`
	Symbol   string `mapstructure:"symbol"`
	Depth    int    `mapstructure:"depth"`
	LogLevel string `mapstructure:"log_level"`
}

// Load reads configuration from flags already bound to v, falling back
// to defaults and BOOKWATCH_-prefixed environment variables.
func Load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix("BOOKWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// setDefaults sets the defaults shared by both subcommands. "address"
// is left unset here: each subcommand fills in its own default
// ([::1]:50501 for both) after Load returns an empty string.
func setDefaults(v *viper.Viper) {
	v.SetDefault("symbol", "ETH/BTC")
	v.SetDefault("depth", 10)
	v.SetDefault("log_level", "info")
}
