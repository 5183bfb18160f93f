package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"ptxgen/internal/errors"
	schemafs "ptxgen/schema"
)

var (
	configSchema *jsonschema.Schema
	compileOnce  sync.Once
	compileErr   error
)

// compileSchema compiles the embedded config schema once.
func compileSchema() error {
	compileOnce.Do(func() {
		data, err := schemafs.FS.ReadFile("config.schema.json")
		if err != nil {
			compileErr = fmt.Errorf("read config schema: %w", err)
			return
		}

		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			compileErr = fmt.Errorf("unmarshal config schema: %w", err)
			return
		}

		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("config.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("add config schema resource: %w", err)
			return
		}

		configSchema, compileErr = compiler.Compile("config.schema.json")
	})
	return compileErr
}

// ValidateSchema validates raw YAML config data against the embedded JSON
// schema. The YAML document is round-tripped through JSON so that the schema
// library sees canonical JSON value types.
func ValidateSchema(data []byte) error {
	if err := compileSchema(); err != nil {
		return err
	}

	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return errors.Configf("failed to parse config file: %v", err)
	}
	if raw == nil {
		// Empty file: everything defaults.
		return nil
	}

	jsonData, err := json.Marshal(raw)
	if err != nil {
		return errors.Configf("config is not schema-checkable: %v", err)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return errors.Configf("config is not schema-checkable: %v", err)
	}

	if err := configSchema.Validate(doc); err != nil {
		return errors.Configf("invalid config: %v", err)
	}
	return nil
}

// Validate performs semantic checks that the schema cannot express.
func Validate(cfg *Config) error {
	if cfg.TimeoutSeconds < 1 {
		return errors.Configf("timeout_seconds must be positive, got %d", cfg.TimeoutSeconds)
	}

	found := false
	for _, a := range cfg.Architectures {
		if a == cfg.DefaultArch {
			found = true
			break
		}
	}
	if !found {
		return errors.Configf("default_arch %q is not in architectures", cfg.DefaultArch)
	}

	return nil
}
