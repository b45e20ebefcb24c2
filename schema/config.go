package schema

import "fmt"

type Config struct {
	// Dialect names in fallback order. Empty means PostgreSQL, MySQL, SQLite.
	Dialects []string `yaml:"dialects"`
	// Parse each CREATE TABLE on its own instead of as one fail-closed batch.
	PerStatement bool `yaml:"per_statement"`
	// Statements parsed in parallel in per-statement mode. 0 is sequential, negative is unlimited.
	Concurrency   int    `yaml:"concurrency"`
	IDs           string `yaml:"ids"`
	DefaultEngine Engine `yaml:"default_engine"`

	// IDGenerator overrides IDs. It is used as is, so it should not be shared between calls.
	IDGenerator IDGenerator `yaml:"-"`
}

func (c Config) Validate() error {
	if c.DefaultEngine != "" {
		if _, ok := ParseEngine(string(c.DefaultEngine)); !ok {
			return fmt.Errorf("unknown default_engine %q", c.DefaultEngine)
		}
	}
	if c.IDGenerator == nil {
		if _, err := NewIDGenerator(c.IDs); err != nil {
			return err
		}
	}
	return nil
}

func (c Config) idGenerator() IDGenerator {
	if c.IDGenerator != nil {
		return c.IDGenerator
	}
	ids, err := NewIDGenerator(c.IDs)
	if err != nil {
		return &SequentialIDs{}
	}
	return ids
}

func (c Config) defaultEngine() Engine {
	if engine, ok := ParseEngine(string(c.DefaultEngine)); ok {
		return engine
	}
	return DefaultEngine
}
