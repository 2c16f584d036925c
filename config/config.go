// Package config loads the govsync configuration.
//
// Values are layered: built-in defaults, then an optional YAML file, then a
// .env file, then GOVSYNC_ prefixed environment variables. The result is
// validated before use.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/govkit/govsync/logfetch"
	"github.com/govkit/govsync/roles"
	"github.com/govkit/govsync/types"
)

const envPrefix = "govsync"

// DefaultEnvFile is read when present.
const DefaultEnvFile = ".env"

// Config is the govsync runtime configuration.
type Config struct {
	RPCURL  string `yaml:"rpcUrl"  envconfig:"RPC_URL"  validate:"required,url"`
	ChainID uint64 `yaml:"chainId" split_words:"true"   validate:"required"`
	// PrivateKey is only read from the environment. PRIVATE_KEY is accepted
	// without the prefix.
	PrivateKey string `yaml:"-" envconfig:"PRIVATE_KEY"`

	LogLevel            string        `yaml:"logLevel"            split_words:"true" validate:"oneof=debug info warn error"`
	LogChunkSize        uint64        `yaml:"logChunkSize"        split_words:"true" validate:"gt=0"`
	ChunkDelay          time.Duration `yaml:"chunkDelay"          split_words:"true" validate:"gte=0"`
	RateLimit           float64       `yaml:"rateLimit"           split_words:"true" validate:"gte=0"`
	RateBurst           int           `yaml:"rateBurst"           split_words:"true" validate:"gte=1"`
	ReceiptPollInterval time.Duration `yaml:"receiptPollInterval" split_words:"true" validate:"gt=0"`
	RefreshInterval     time.Duration `yaml:"refreshInterval"     split_words:"true" validate:"gt=0"`
	MetricsAddr         string        `yaml:"metricsAddr"         split_words:"true"`
	MaxVestingCaps      uint64        `yaml:"maxVestingCaps"      split_words:"true"`

	Targets []Target `yaml:"targets" ignored:"true" validate:"dive"`
}

// Target locates one governed contract.
type Target struct {
	Name         string `yaml:"name"         validate:"required,govsync_target"`
	Address      string `yaml:"address"      validate:"required,eth_addr"`
	FromBlock    uint64 `yaml:"fromBlock"`
	ApproverRole string `yaml:"approverRole" validate:"omitempty,govsync_role"`
	// ABIPath points to a JSON ABI merged over the default one.
	ABIPath string `yaml:"abiPath"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:            "info",
		LogChunkSize:        logfetch.DefaultChunkSize,
		ChunkDelay:          logfetch.DefaultChunkDelay,
		RateLimit:           10,
		RateBurst:           1,
		ReceiptPollInterval: 2 * time.Second,
		RefreshInterval:     time.Minute,
		MetricsAddr:         ":9464",
	}
}

// Load builds the configuration from path, which may be empty, and the
// environment. envFiles default to DefaultEnvFile; missing env files are
// ignored.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		buf, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(buf))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{DefaultEnvFile}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("govsync_target", func(fl validator.FieldLevel) bool {
		_, err := types.ParseTarget(fl.Field().String())
		return err == nil
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("govsync_role", func(fl validator.FieldLevel) bool {
		_, err := roles.Hash(fl.Field().String())
		return err == nil
	}); err != nil {
		return err
	}

	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	seen := map[string]bool{}
	for _, t := range c.Targets {
		if seen[t.Name] {
			return fmt.Errorf("invalid configuration: target %s configured twice", t.Name)
		}
		seen[t.Name] = true
	}

	return nil
}

// Target returns the configuration of the named target.
func (c *Config) Target(name string) (Target, error) {
	for _, t := range c.Targets {
		if t.Name == name {
			return t, nil
		}
	}

	return Target{}, fmt.Errorf("target %s is not configured", name)
}

// ContractAddress returns the parsed address of the target.
func (t Target) ContractAddress() common.Address {
	return common.HexToAddress(t.Address)
}

// Role returns the approver role hash, or the zero hash when unset.
func (t Target) Role() (common.Hash, error) {
	if t.ApproverRole == "" {
		return common.Hash{}, nil
	}

	return roles.Hash(t.ApproverRole)
}
