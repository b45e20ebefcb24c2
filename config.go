package ddlschema

import (
	"bytes"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/sqldef/ddlschema/schema"
)

// ParseConfig loads a YAML configuration file. An empty path yields the default configuration.
func ParseConfig(configFile string) (schema.Config, error) {
	if configFile == "" {
		return schema.Config{}, nil
	}
	buf, err := os.ReadFile(configFile)
	if err != nil {
		return schema.Config{}, err
	}
	config, err := ParseConfigYAML(buf)
	if err != nil {
		return schema.Config{}, fmt.Errorf("%s: %w", configFile, err)
	}
	return config, nil
}

func ParseConfigYAML(buf []byte) (schema.Config, error) {
	var config schema.Config
	dec := yaml.NewDecoder(bytes.NewReader(buf), yaml.DisallowUnknownField())
	if err := dec.Decode(&config); err != nil && len(bytes.TrimSpace(buf)) > 0 {
		return schema.Config{}, err
	}
	if err := config.Validate(); err != nil {
		return schema.Config{}, err
	}
	if _, err := DialectsByName(config.Dialects); err != nil {
		return schema.Config{}, err
	}
	return config, nil
}
