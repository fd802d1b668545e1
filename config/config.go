package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Execution ExecutionConfig `yaml:"execution"`
	Cache     CacheConfig     `yaml:"cache"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ExecutionConfig struct {
	// BatchSize is the window of left rows sent in one batched join query.
	BatchSize      int           `yaml:"batchSize"`
	Timeout        time.Duration `yaml:"timeout"`
	AssertOrdering bool          `yaml:"assertOrdering"`
	Silent         bool          `yaml:"silent"`
	QueueCapacity  int           `yaml:"queueCapacity"`
}

type CacheConfig struct {
	// ExistenceCheckEntries bounds the statement existence cache. Zero
	// disables it.
	ExistenceCheckEntries int64 `yaml:"existenceCheckEntries"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   bool   `yaml:"file"`
}

func Default() *Config {
	return &Config{
		Execution: ExecutionConfig{
			BatchSize:     200,
			QueueCapacity: 64,
		},
		Cache: CacheConfig{
			ExistenceCheckEntries: 10000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

var ShaclplanDir = func() string {
	dir, err := homedir.Dir()
	if err != nil {
		return ".shaclplan"
	}
	return filepath.Join(dir, ".shaclplan")
}()

var DefaultPath = filepath.Join(ShaclplanDir, "config.yaml")

// Read loads the configuration at path on top of the defaults. A missing
// file at the default path yields the defaults.
func Read(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't expand config path %s", path)
	}

	cfg := Default()
	data, err := os.ReadFile(expanded)
	if os.IsNotExist(err) && !explicit {
		return cfg, nil
	} else if err != nil {
		return nil, errors.Wrap(err, "couldn't read config file")
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "couldn't decode yaml configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid configuration in %s", expanded)
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	if cfg.Execution.BatchSize <= 0 {
		return errors.Errorf("execution.batchSize must be positive, got %d", cfg.Execution.BatchSize)
	}
	if cfg.Execution.Timeout < 0 {
		return errors.Errorf("execution.timeout can't be negative, got %s", cfg.Execution.Timeout)
	}
	if cfg.Execution.QueueCapacity <= 0 {
		return errors.Errorf("execution.queueCapacity must be positive, got %d", cfg.Execution.QueueCapacity)
	}
	if cfg.Cache.ExistenceCheckEntries < 0 {
		return errors.Errorf("cache.existenceCheckEntries can't be negative, got %d", cfg.Cache.ExistenceCheckEntries)
	}
	switch cfg.Logging.Format {
	case "console", "json":
	default:
		return errors.Errorf("logging.format must be console or json, got '%s'", cfg.Logging.Format)
	}
	return nil
}
