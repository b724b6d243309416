// Package config loads the swapd process's layered configuration: defaults,
// an optional config file, and environment/flag overrides, via viper.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is every setting swapd needs to start the ABCI application and its
// RPC facade.
type Config struct {
	Home string `mapstructure:"home"`

	ABCIAddr      string `mapstructure:"abci_addr"`
	ABCITransport string `mapstructure:"abci_transport"`

	RPCAddr string `mapstructure:"rpc_addr"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// Load builds a *viper.Viper pre-populated with defaults, reads home/config.yaml
// if present, and binds the SWAPD_* environment namespace, then decodes the
// result into a Config.
func Load(home string, v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.New()
	}

	v.SetDefault("home", home)
	v.SetDefault("abci_addr", "tcp://127.0.0.1:26658")
	v.SetDefault("abci_transport", "socket")
	v.SetDefault("rpc_addr", "127.0.0.1:8645")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(home)

	v.SetEnvPrefix("swapd")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}
