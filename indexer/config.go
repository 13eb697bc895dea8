package indexer

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultWorkers   = 4
	DefaultNamespace = "strategy"
)

// Config holds the indexer settings.
type Config struct {
	// Workers bounds the number of strategies read concurrently in a sweep.
	Workers int `yaml:"workers"`
	// DBPath is the badger directory. Ignored when InMemory is set.
	DBPath     string `yaml:"db_path"`
	InMemory   bool   `yaml:"in_memory"`
	SyncWrites bool   `yaml:"sync_writes"`
	// Namespace prefixes every exported metric.
	Namespace string `yaml:"namespace"`
}

// DefaultConfig returns a persistent config rooted at path.
func DefaultConfig(path string) Config {
	return Config{
		Workers:    DefaultWorkers,
		DBPath:     path,
		SyncWrites: true,
		Namespace:  DefaultNamespace,
	}
}

// InMemoryConfig returns a config that keeps snapshots in memory only.
func InMemoryConfig() Config {
	return Config{
		Workers:   DefaultWorkers,
		InMemory:  true,
		Namespace: DefaultNamespace,
	}
}

func (c Config) Validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if !c.InMemory && c.DBPath == "" {
		return errors.New("db_path is required unless in_memory is set")
	}
	if c.Namespace == "" {
		return errors.New("namespace cannot be empty")
	}
	return nil
}

// LoadConfig reads and validates a YAML indexer config.
func LoadConfig(path string) (Config, error) {
	bz, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read indexer config: %w", err)
	}
	return ParseConfig(bz)
}

// ParseConfig decodes a YAML indexer config, filling unset fields with defaults.
func ParseConfig(bz []byte) (Config, error) {
	cfg := Config{Workers: DefaultWorkers, Namespace: DefaultNamespace, SyncWrites: true}
	if err := yaml.Unmarshal(bz, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse indexer config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
