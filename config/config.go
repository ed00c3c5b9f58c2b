// Package config provides YAML configuration of the contracts environment and
// the executor daemon.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/core/storage/dbconfig"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Default values.
const (
	DefaultSocketPath   = "/tmp/executor.sock"
	DefaultPidPath      = "/tmp/executor.pid"
	DefaultPythonRunner = "python3"
	DefaultTimeout      = time.Minute
	DefaultMaxPayload   = 10 << 20
)

// Config is the root configuration.
type Config struct {
	Logger    Logger                   `yaml:"Logger"`
	Storage   dbconfig.DBConfiguration `yaml:"Storage"`
	EventLog  EventLog                 `yaml:"EventLog"`
	Contracts Contracts                `yaml:"Contracts"`
	Executor  Executor                 `yaml:"Executor"`
}

// Logger configures zap logger.
type Logger struct {
	// One of zap levels, "info" by default.
	Level string `yaml:"Level"`
	// "console" or "json".
	Encoding string `yaml:"Encoding"`
}

// EventLog configures the public event log. Empty path keeps the log in
// memory.
type EventLog struct {
	Path string `yaml:"Path"`
}

// Contracts configures the admin bundle.
type Contracts struct {
	// Neo address of the registry owner deploying the bundle.
	Admin string `yaml:"Admin"`
	// Enforce request references in the Reputation contract.
	StrictReferences bool `yaml:"StrictReferences"`
	// Initial role members, Neo addresses.
	Members Members `yaml:"Members"`
}

// Members lists initial role members.
type Members struct {
	Admins  []string `yaml:"Admins"`
	Buyers  []string `yaml:"Buyers"`
	Sellers []string `yaml:"Sellers"`
}

// Executor configures the executor daemon.
type Executor struct {
	SocketPath   string        `yaml:"SocketPath"`
	PidPath      string        `yaml:"PidPath"`
	PythonRunner string        `yaml:"PythonRunner"`
	Timeout      time.Duration `yaml:"Timeout"`
	MaxPayload   uint32        `yaml:"MaxPayload"`

	// Prometheus endpoint address, metrics are not served if empty.
	MetricsAddress string `yaml:"MetricsAddress"`
}

// Default returns configuration with in-memory storage and default executor
// settings.
func Default() *Config {
	return &Config{
		Logger: Logger{
			Level:    "info",
			Encoding: "console",
		},
		Storage: dbconfig.DBConfiguration{
			Type: dbconfig.InMemoryDB,
		},
		Executor: Executor{
			SocketPath:   DefaultSocketPath,
			PidPath:      DefaultPidPath,
			PythonRunner: DefaultPythonRunner,
			Timeout:      DefaultTimeout,
			MaxPayload:   DefaultMaxPayload,
		},
	}
}

// Load reads configuration from the YAML file at the given path. Missing
// fields keep default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Logger.Level); err != nil {
		return fmt.Errorf("logger level: %w", err)
	}

	switch c.Storage.Type {
	case dbconfig.InMemoryDB:
	case dbconfig.LevelDB:
		if c.Storage.LevelDBOptions.DataDirectoryPath == "" {
			return errors.New("missing LevelDB data directory")
		}
	case dbconfig.BoltDB:
		if c.Storage.BoltDBOptions.FilePath == "" {
			return errors.New("missing BoltDB file path")
		}
	default:
		return fmt.Errorf("unsupported storage type %q", c.Storage.Type)
	}

	if c.Contracts.Admin != "" {
		if _, err := c.Contracts.AdminAccount(); err != nil {
			return err
		}
		if _, err := c.Contracts.Members.Accounts(); err != nil {
			return err
		}
	}

	if c.Executor.Timeout <= 0 {
		return errors.New("non-positive executor timeout")
	}
	if c.Executor.MaxPayload == 0 {
		return errors.New("zero executor payload limit")
	}

	return nil
}

// AdminAccount decodes the registry owner address.
func (c Contracts) AdminAccount() (util.Uint160, error) {
	if c.Admin == "" {
		return util.Uint160{}, errors.New("missing admin address")
	}

	u, err := address.StringToUint160(c.Admin)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("invalid admin address %q: %w", c.Admin, err)
	}

	return u, nil
}

// MemberAccounts groups decoded role members.
type MemberAccounts struct {
	Admins  []util.Uint160
	Buyers  []util.Uint160
	Sellers []util.Uint160
}

// Accounts decodes member addresses.
func (m Members) Accounts() (MemberAccounts, error) {
	var (
		res MemberAccounts
		err error
	)

	if res.Admins, err = decodeAddresses(m.Admins); err != nil {
		return res, fmt.Errorf("admins: %w", err)
	}
	if res.Buyers, err = decodeAddresses(m.Buyers); err != nil {
		return res, fmt.Errorf("buyers: %w", err)
	}
	if res.Sellers, err = decodeAddresses(m.Sellers); err != nil {
		return res, fmt.Errorf("sellers: %w", err)
	}

	return res, nil
}

func decodeAddresses(ss []string) ([]util.Uint160, error) {
	res := make([]util.Uint160, 0, len(ss))
	for i := range ss {
		u, err := address.StringToUint160(ss[i])
		if err != nil {
			return nil, fmt.Errorf("invalid address %q: %w", ss[i], err)
		}
		res = append(res, u)
	}
	return res, nil
}

// Build returns zap logger configured accordingly.
func (l Logger) Build() (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		return nil, fmt.Errorf("logger level: %w", err)
	}

	c := zap.NewProductionConfig()
	c.Level = zap.NewAtomicLevelAt(lvl)
	c.Sampling = nil
	if l.Encoding != "" {
		c.Encoding = l.Encoding
	}
	c.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return c.Build()
}
