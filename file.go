package relmap

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk shape of a declarative adapter file:
//
//	adapters:
//	  - name: postgres
//	    kind: sql
//	    uri: ${DATABASE_URL:-sqlite://./app.db}
//	    default: true
type fileConfig struct {
	Adapters []fileAdapter `yaml:"adapters"`
}

type fileAdapter struct {
	Name    string `yaml:"name"`
	Kind    string `yaml:"kind"`
	URI     string `yaml:"uri"`
	Default bool   `yaml:"default"`
}

// LoadFile registers every adapter declared in a YAML file. Each entry goes
// through Adapter, so the same validation applies as for programmatic
// registration; the first invalid entry aborts with its position in the file.
func (c *Configuration) LoadFile(path string) error {
	if path == "" {
		return fmt.Errorf("config file path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	return c.LoadBytes(data)
}

// LoadBytes parses adapter declarations from raw YAML bytes. Supports
// ${VAR:-default} env var expansion in every field.
func (c *Configuration) LoadBytes(data []byte) error {
	expanded := expandEnvWithDefaults(string(data))

	var fc fileConfig
	if err := yaml.Unmarshal([]byte(expanded), &fc); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	for i, entry := range fc.Adapters {
		spec := Spec{
			Name:    entry.Name,
			Kind:    entry.Kind,
			URI:     entry.URI,
			Default: entry.Default,
		}
		if err := c.Adapter(spec); err != nil {
			return fmt.Errorf("adapters[%d]: %w", i, err)
		}
	}
	return nil
}

// expandEnvWithDefaults expands environment variables with support for
// default values. Supports both ${VAR} and ${VAR:-default} syntax.
func expandEnvWithDefaults(s string) string {
	re := regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		defaultValue := ""
		if len(parts) > 2 {
			defaultValue = parts[2]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}
		return defaultValue
	})
}

// ExpandEnvWithDefaults expands environment variables with support for
// default values. Exported for hosts that pre-process their own files.
func ExpandEnvWithDefaults(s string) string {
	return expandEnvWithDefaults(s)
}
