// Application configuration loaded from config.yaml, IMGTX_* environment variables and defaults
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"image-transformer/internal/algorithms"
)

const EnvPrefix = "IMGTX"

type Config struct {
	Engine EngineConfig `mapstructure:"engine"`
	IO     IOConfig     `mapstructure:"io"`
	UI     UIConfig     `mapstructure:"ui"`
	Log    LogConfig    `mapstructure:"log"`
}

type EngineConfig struct {
	Backend string `mapstructure:"backend"`
}

type IOConfig struct {
	JPEGQuality     int    `mapstructure:"jpeg_quality"`
	DefaultSaveName string `mapstructure:"default_save_name"`
}

type UIConfig struct {
	Title  string  `mapstructure:"title"`
	Width  float32 `mapstructure:"width"`
	Height float32 `mapstructure:"height"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	Debug bool   `mapstructure:"debug"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("engine.backend", algorithms.BackendOpenCV)
	v.SetDefault("io.jpeg_quality", 95)
	v.SetDefault("io.default_save_name", "transformed.jpg")
	v.SetDefault("ui.title", "Image Transformer")
	v.SetDefault("ui.width", 1000)
	v.SetDefault("ui.height", 700)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.debug", false)
}

// LoadConfig builds a viper instance searching dir (when set) and ./config
// for config.yaml. A missing file is not an error.
func LoadConfig(dir string) (*viper.Viper, error) {
	viperInstance := viper.New()
	setDefaults(viperInstance)

	if dir != "" {
		viperInstance.AddConfigPath(dir)
	}
	viperInstance.AddConfigPath("./config")
	viperInstance.SetConfigName("config")
	viperInstance.SetConfigType("yaml")

	viperInstance.SetEnvPrefix(EnvPrefix)
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperInstance.AutomaticEnv()

	if err := viperInstance.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return viperInstance, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config

	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load is LoadConfig followed by ParseConfig
func Load(dir string) (*Config, error) {
	v, err := LoadConfig(dir)
	if err != nil {
		return nil, err
	}
	return ParseConfig(v)
}

func (c *Config) Validate() error {
	if !algorithms.IsValidBackend(c.Engine.Backend) {
		return fmt.Errorf("engine.backend: unknown backend %q (available: %s)",
			c.Engine.Backend, strings.Join(algorithms.Names(), ", "))
	}
	if c.IO.JPEGQuality < 1 || c.IO.JPEGQuality > 100 {
		return fmt.Errorf("io.jpeg_quality must be within 1-100, got %d", c.IO.JPEGQuality)
	}
	if c.IO.DefaultSaveName == "" {
		return errors.New("io.default_save_name must not be empty")
	}
	if c.UI.Width <= 0 || c.UI.Height <= 0 {
		return fmt.Errorf("ui window size must be positive, got %gx%g", c.UI.Width, c.UI.Height)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}
