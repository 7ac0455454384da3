package ecs

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

const (
	DefaultMaxEntities       = 2048
	DefaultMaxComponentTypes = 64
	DefaultMaxSystems        = 128

	// maxEntityIndex bounds MaxEntities to what a dense position can address.
	maxEntityIndex = 1<<31 - 1
	// maxComponentSlots bounds MaxComponentTypes to the ComponentType range.
	maxComponentSlots = 1 << 16
)

// Config holds the startup limits of a registry and every World built on it.
// Limits are fixed for the lifetime of the registry.
type Config struct {
	MaxEntities       int `toml:"max_entities"`
	MaxComponentTypes int `toml:"max_component_types"`
	MaxSystems        int `toml:"max_systems"`
}

type configFile struct {
	ECS Config `toml:"ecs"`
}

// DefaultConfig returns the stock limits.
func DefaultConfig() Config {
	return Config{
		MaxEntities:       DefaultMaxEntities,
		MaxComponentTypes: DefaultMaxComponentTypes,
		MaxSystems:        DefaultMaxSystems,
	}
}

// Validate reports whether every limit is usable.
func (c Config) Validate() error {
	if c.MaxEntities <= 0 || c.MaxEntities > maxEntityIndex {
		return errors.Wrapf(ErrInvalidConfig, "max_entities must be in (0, %d], got %d", maxEntityIndex, c.MaxEntities)
	}
	if c.MaxComponentTypes <= 0 || c.MaxComponentTypes > maxComponentSlots {
		return errors.Wrapf(ErrInvalidConfig, "max_component_types must be in (0, %d], got %d", maxComponentSlots, c.MaxComponentTypes)
	}
	if c.MaxSystems <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "max_systems must be positive, got %d", c.MaxSystems)
	}
	return nil
}

// LoadConfig reads the [ecs] table of a toml file over the defaults.
// Keys missing from the file keep their default value.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read config %s", path)
	}
	return ParseConfig(string(data))
}

// ParseConfig decodes toml text the same way LoadConfig does.
func ParseConfig(text string) (Config, error) {
	file := configFile{ECS: DefaultConfig()}
	if _, err := toml.Decode(text, &file); err != nil {
		return Config{}, errors.Wrap(err, "parse config")
	}
	if err := file.ECS.Validate(); err != nil {
		return Config{}, err
	}
	return file.ECS, nil
}
