package config

import (
	"fmt"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/weiawesome/wes-io-live/snowflake/internal/generator"
	pkgconfig "github.com/weiawesome/wes-io-live/snowflake/pkg/config"
	pkglog "github.com/weiawesome/wes-io-live/snowflake/pkg/log"
	"github.com/weiawesome/wes-io-live/snowflake/pkg/snowflake"
)

type Config struct {
	Snowflake SnowflakeConfig
	NanoID    NanoIDConfig `mapstructure:"nanoid"`
	CUID2     CUID2Config  `mapstructure:"cuid2"`
	Log       pkglog.Config
}

type SnowflakeConfig struct {
	MachineID int64  `mapstructure:"machine_id"`
	Epoch     string `mapstructure:"epoch"`
}

type NanoIDConfig struct {
	Size     int    `mapstructure:"size"`
	Alphabet string `mapstructure:"alphabet"`
}

type CUID2Config struct {
	Length int `mapstructure:"length"`
}

// Load reads ./config/config.yaml (optional) and the environment.
func Load() (*Config, error) {
	v, err := pkgconfig.Load("./config", "config")
	if err != nil {
		return nil, err
	}
	return build(v)
}

// LoadFile reads the given file and the environment.
func LoadFile(path string) (*Config, error) {
	v, err := pkgconfig.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return build(v)
}

func build(v *viper.Viper) (*Config, error) {
	v.SetDefault("snowflake.machine_id", 1)
	v.SetDefault("snowflake.epoch", "unix")
	v.SetDefault("nanoid.size", generator.DefaultNanoIDSize)
	v.SetDefault("nanoid.alphabet", generator.DefaultNanoIDAlphabet)
	v.SetDefault("cuid2.length", generator.DefaultCUID2Length)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("log.service_name", "snowflake")

	v.BindEnv("snowflake.machine_id", "SNOWFLAKE_MACHINE_ID")
	v.BindEnv("snowflake.epoch", "SNOWFLAKE_EPOCH")
	v.BindEnv("nanoid.size", "NANOID_SIZE")
	v.BindEnv("nanoid.alphabet", "NANOID_ALPHABET")
	v.BindEnv("cuid2.length", "CUID2_LENGTH")
	v.BindEnv("log.level", "LOG_LEVEL")
	v.BindEnv("log.pretty", "LOG_PRETTY")

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		timeToStringHook(),
	))); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// timeToStringHook turns YAML timestamps (an unquoted epoch such as
// 2020-01-01T00:00:00Z) back into RFC 3339 text for string fields.
func timeToStringHook() mapstructure.DecodeHookFuncType {
	return func(from, to reflect.Type, data interface{}) (interface{}, error) {
		t, ok := data.(time.Time)
		if !ok || to.Kind() != reflect.String {
			return data, nil
		}
		return t.Format(time.RFC3339Nano), nil
	}
}

// Validate rejects values the snowflake package would otherwise mask silently.
func (c *Config) Validate() error {
	if c.Snowflake.MachineID < 0 || c.Snowflake.MachineID > snowflake.MaxMachineID {
		return fmt.Errorf("snowflake.machine_id must be between 0 and %d, got %d", snowflake.MaxMachineID, c.Snowflake.MachineID)
	}
	if _, err := snowflake.ParseEpoch(c.Snowflake.Epoch); err != nil {
		return fmt.Errorf("snowflake.epoch: %w", err)
	}
	return nil
}

// Epoch returns the parsed snowflake epoch. Validate must have passed.
func (c *Config) Epoch() snowflake.Epoch {
	e, _ := snowflake.ParseEpoch(c.Snowflake.Epoch)
	return e
}
