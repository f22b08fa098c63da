package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// LineItemSchema is the shape check applied to the first document of every
// upload: string identifiers stay strings even when they look numeric, and
// the derived aggregate columns are numbers.
var LineItemSchema = map[string]any{
	"type":     "object",
	"required": []any{"chNfe", "nNf", "unique"},
	"properties": map[string]any{
		"chNfe":                 map[string]any{"type": "string"},
		"nNf":                   map[string]any{"type": "string"},
		"unique":                map[string]any{"type": "string"},
		"emitCnpj":              map[string]any{"type": "string"},
		"destCnpj":              map[string]any{"type": "string"},
		"cfop":                  map[string]any{"type": "string"},
		"categoria":             map[string]any{"type": "string"},
		"my_categoria":          map[string]any{"type": "string"},
		"total_invoices_per_po": map[string]any{"type": "number"},
		"total_itens_nf":        map[string]any{"type": "number"},
		"total_itens_po":        map[string]any{"type": "number"},
		"valor_recebido_po":     map[string]any{"type": "number"},
		"vlNf":                  map[string]any{"type": "number"},
	},
}

// ValidateDocument validates doc against a JSON-schema map.
func ValidateDocument(schemaMap map[string]any, doc map[string]any) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal document: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("document does not match schema: %w", err)
	}
	return nil
}
