// Package schema generates JSON Schema documents for the bridge's
// configuration types.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/mexbridge/mexbridge/domain/entities"
)

// GenerateSchema creates a JSON schema (Draft 2020-12) from a Go struct.
func GenerateSchema(v any) ([]byte, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true,
	}
	schema := reflector.Reflect(v)

	jsonBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	return jsonBytes, nil
}

// RuntimeConfigSchema returns the schema of the runtime configuration file.
func RuntimeConfigSchema() ([]byte, error) {
	return GenerateSchema(&entities.RuntimeConfig{})
}
