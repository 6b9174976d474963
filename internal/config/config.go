// Package config loads server settings from defaults, an optional config
// file, a .env file and MICROCITY_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. MICROCITY_HTTP_ADDR.
const EnvPrefix = "MICROCITY"

// Config is the full server configuration.
type Config struct {
	SSH   SSHConfig   `mapstructure:"ssh"`
	HTTP  HTTPConfig  `mapstructure:"http"`
	City  CityConfig  `mapstructure:"city"`
	Atlas AtlasConfig `mapstructure:"atlas"`
	Log   LogConfig   `mapstructure:"log"`
	Game  GameConfig  `mapstructure:"game"`
	Cache CacheConfig `mapstructure:"cache"`
}

// SSHConfig configures the SSH listener.
type SSHConfig struct {
	Addr    string `mapstructure:"addr"`
	HostKey string `mapstructure:"host_key"`
}

// HTTPConfig configures the HTTP API.
type HTTPConfig struct {
	Addr string `mapstructure:"addr"` // empty disables the HTTP API
}

// CityConfig locates the city file.
type CityConfig struct {
	Path string `mapstructure:"path"` // JSON city; the built-in town when missing
}

// AtlasConfig locates the tile atlas.
type AtlasConfig struct {
	Path string `mapstructure:"path"` // PNG tile sheet; the built-in atlas when empty
}

// LogConfig sets the log level and optional rotating log file.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// GameConfig tunes the game loop.
type GameConfig struct {
	TickRate    int `mapstructure:"tick_rate"`
	ScrollSpeed int `mapstructure:"scroll_speed"`
}

// CacheConfig sizes the rendered frame cache.
type CacheConfig struct {
	MaxCost int64         `mapstructure:"max_cost"` // bytes of encoded frames
	TTL     time.Duration `mapstructure:"ttl"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ssh.addr", ":2222")
	v.SetDefault("ssh.host_key", "host_key")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("city.path", "assets/city.json")
	v.SetDefault("atlas.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("game.tick_rate", 20)
	v.SetDefault("game.scroll_speed", 4)
	v.SetDefault("cache.max_cost", 8<<20)
	v.SetDefault("cache.ttl", 30*time.Second)
}

// Load reads the configuration. path names an explicit config file; when
// empty, microcity.yaml is looked up in the working directory and ignored
// if absent. A .env file in the working directory is loaded first.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("microcity")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	// Hosting platforms hand out the SSH port this way.
	if port := os.Getenv("PORT"); port != "" && os.Getenv(EnvPrefix+"_SSH_ADDR") == "" {
		v.Set("ssh.addr", ":"+port)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.SSH.Addr == "" {
		return errors.New("config: ssh.addr is required")
	}
	if c.Game.TickRate <= 0 || c.Game.TickRate > 1000 {
		return fmt.Errorf("config: game.tick_rate %d out of range", c.Game.TickRate)
	}
	if c.Game.ScrollSpeed <= 0 {
		return fmt.Errorf("config: game.scroll_speed %d must be positive", c.Game.ScrollSpeed)
	}
	if c.Cache.MaxCost < 0 {
		return fmt.Errorf("config: cache.max_cost %d must not be negative", c.Cache.MaxCost)
	}
	return nil
}
