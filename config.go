package main

import (
	"fmt"

	"github.com/spf13/viper"
)

// worldConfig is the immutable runtime configuration consumed at startup.
// Species and weapon stat tables are embedded JSON (species.go, weapon.go);
// this covers the knobs an operator tunes per deployment.
type worldConfig struct {
	Seed          string  `mapstructure:"seed"`
	ListenAddr    string  `mapstructure:"listenAddr"`
	DeerCount     int     `mapstructure:"deerCount"`
	RabbitCount   int     `mapstructure:"rabbitCount"`
	WindX         float64 `mapstructure:"windX"`
	WindZ         float64 `mapstructure:"windZ"`
	RainIntensity float64 `mapstructure:"rainIntensity"`
	RequiredKills int     `mapstructure:"requiredKills"`
	LogLevel      string  `mapstructure:"logLevel"`
	EventLogPath  string  `mapstructure:"eventLogPath"`
}

func defaultWorldConfig() worldConfig {
	return worldConfig{
		Seed:          defaultSeed,
		ListenAddr:    ":8080",
		DeerCount:     10,
		RabbitCount:   15,
		WindX:         3.0,
		WindZ:         -1.5,
		RainIntensity: 0.0,
		RequiredKills: 5,
		LogLevel:      "info",
	}
}

// loadConfig reads an optional JSON config file from configDir, falling back
// to defaults for anything unset. A missing file is not an error.
func loadConfig(configDir string) (worldConfig, error) {
	defaults := defaultWorldConfig()

	viper.SetDefault("seed", defaults.Seed)
	viper.SetDefault("listenAddr", defaults.ListenAddr)
	viper.SetDefault("deerCount", defaults.DeerCount)
	viper.SetDefault("rabbitCount", defaults.RabbitCount)
	viper.SetDefault("windX", defaults.WindX)
	viper.SetDefault("windZ", defaults.WindZ)
	viper.SetDefault("rainIntensity", defaults.RainIntensity)
	viper.SetDefault("requiredKills", defaults.RequiredKills)
	viper.SetDefault("logLevel", defaults.LogLevel)
	viper.SetDefault("eventLogPath", "")

	viper.SetConfigName("stagfall.cfg")
	viper.SetConfigType("json")
	viper.AddConfigPath(configDir)

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return worldConfig{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg worldConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return worldConfig{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg.normalized(), nil
}

func (c worldConfig) normalized() worldConfig {
	if c.Seed == "" {
		c.Seed = defaultSeed
	}
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
	if c.DeerCount < 0 {
		c.DeerCount = 0
	}
	if c.RabbitCount < 0 {
		c.RabbitCount = 0
	}
	c.RainIntensity = clamp(c.RainIntensity, 0, 1)
	if c.RequiredKills <= 0 {
		c.RequiredKills = 1
	}
	return c
}

func (c worldConfig) environment() environmentState {
	return environmentState{
		Wind:          vec3{X: c.WindX, Z: c.WindZ},
		RainIntensity: c.RainIntensity,
	}
}
