package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/GoSim-25-26J-441/projectdash/internal/projects/client"
)

const (
	envPrefix      = "PROJECTDASH"
	configFileName = ".projectdash"
	configFileType = "yaml"

	cfgKeyServer   = "server"
	cfgKeyToken    = "token"
	cfgKeyTimeout  = "timeout"
	cfgKeyCacheTTL = "cache_ttl"

	defaultServer = "http://localhost:8080"
)

type cliConfig struct {
	Server   string
	Token    string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// loadConfig reads ~/.projectdash.yaml, or configFile when set, under
// PROJECTDASH_* env vars and whatever flags were bound to v. A missing
// default file is not an error.
func loadConfig(v *viper.Viper, configFile string) (cliConfig, error) {
	v.SetDefault(cfgKeyServer, defaultServer)
	v.SetDefault(cfgKeyTimeout, client.DefaultTimeout)
	v.SetDefault(cfgKeyCacheTTL, client.DefaultTTL)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return cliConfig{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := cliConfig{
		Server:   strings.TrimSpace(v.GetString(cfgKeyServer)),
		Token:    strings.TrimSpace(v.GetString(cfgKeyToken)),
		Timeout:  v.GetDuration(cfgKeyTimeout),
		CacheTTL: v.GetDuration(cfgKeyCacheTTL),
	}
	if cfg.Server == "" {
		return cliConfig{}, errors.New("server must not be empty")
	}
	if cfg.Timeout <= 0 {
		return cliConfig{}, fmt.Errorf("timeout must be positive, got %s", cfg.Timeout)
	}
	if cfg.CacheTTL < 0 {
		return cliConfig{}, fmt.Errorf("cache_ttl must not be negative, got %s", cfg.CacheTTL)
	}
	return cfg, nil
}
