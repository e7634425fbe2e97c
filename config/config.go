package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/linlinbupt123-crypto/hdwallet_service/chain"
	"github.com/linlinbupt123-crypto/hdwallet_service/request"
	"github.com/linlinbupt123-crypto/hdwallet_service/utils"
)

const (
	// EnvPrefix is prepended to every key when read from the environment,
	// e.g. HDWALLET_NETWORK.
	EnvPrefix = "HDWALLET"

	PortKey               = "port"
	NetworkKey            = "network"
	LogLevelKey           = "log_level"
	GinModeKey            = "gin_mode"
	BatchSizeKey          = "batch_size"
	SeedTimeoutKey        = "seed_timeout"
	MnemonicValidationKey = "mnemonic_validation"
	MetricsEnabledKey     = "metrics_enabled"
	CORSOriginsKey        = "cors_origins"
)

type Config struct {
	Port               int           `mapstructure:"port"`
	Network            string        `mapstructure:"network"`
	LogLevel           string        `mapstructure:"log_level"`
	GinMode            string        `mapstructure:"gin_mode"`
	BatchSize          int           `mapstructure:"batch_size"`
	SeedTimeout        time.Duration `mapstructure:"seed_timeout"`
	MnemonicValidation string        `mapstructure:"mnemonic_validation"`
	MetricsEnabled     bool          `mapstructure:"metrics_enabled"`
	// CORSOrigins empty means any origin; from the environment it is a
	// comma separated list.
	CORSOrigins []string `mapstructure:"cors_origins"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(PortKey, 3000)
	v.SetDefault(NetworkKey, chain.TestNet)
	v.SetDefault(LogLevelKey, "info")
	v.SetDefault(GinModeKey, "release")
	v.SetDefault(BatchSizeKey, utils.DefaultBatchSize)
	v.SetDefault(SeedTimeoutKey, 5*time.Second)
	v.SetDefault(MnemonicValidationKey, request.ModeBIP39)
	v.SetDefault(MetricsEnabledKey, true)
	v.SetDefault(CORSOriginsKey, []string{})
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	cfg, _ := Load("", nil)
	return cfg
}

// Load reads path (YAML, optional when empty), then lets ENV and finally
// any changed flags override it.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// ENV 覆盖 YAML
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, err
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if _, err := chain.NetParams(c.Network); err != nil {
		return err
	}
	if c.BatchSize < 1 || c.BatchSize > utils.MaxBatchSize {
		return fmt.Errorf("batch_size must be in range [1, %d], got %d", utils.MaxBatchSize, c.BatchSize)
	}
	if c.SeedTimeout < 0 {
		return fmt.Errorf("seed_timeout must not be negative")
	}
	switch c.MnemonicValidation {
	case request.ModeBIP39, request.ModeWhitelist:
	default:
		return fmt.Errorf("mnemonic_validation must be %q or %q, got %q",
			request.ModeBIP39, request.ModeWhitelist, c.MnemonicValidation)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
