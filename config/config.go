package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "GOSM"

type Config struct {
	MapFile         string        `mapstructure:"map_file"`
	IncludeFootways bool          `mapstructure:"include_footways"`
	SearchTimeout   time.Duration `mapstructure:"search_timeout"`
	CacheSize       int           `mapstructure:"cache_size"`
	Workers         int           `mapstructure:"workers"`
	GeoJSONOut      string        `mapstructure:"geojson_out"`
	HTTPAddr        string        `mapstructure:"http_addr"`
	LogDevelopment  bool          `mapstructure:"log_development"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("map_file", "./data/map.osm")
	v.SetDefault("include_footways", false)
	v.SetDefault("search_timeout", "30s")
	v.SetDefault("cache_size", 1024)
	v.SetDefault("workers", 0)
	v.SetDefault("geojson_out", "")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("log_development", false)
}

// Load reads configuration from path, or from ./data/config.* when path is
// empty. A missing default config file is not an error. Environment variables
// prefixed GOSM_ override file values.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./data/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("fatal error config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}
