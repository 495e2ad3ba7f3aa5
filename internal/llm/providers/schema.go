package providers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// maxSchemaIssues caps how many schema violations are joined into a failure reason.
const maxSchemaIssues = 5

// compileSchema loads a decoded JSON Schema document.
func compileSchema(doc map[string]any) (*gojsonschema.Schema, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return schema, nil
}

// validateAgainst checks a decoded value against schema and joins the first
// few violations into one error.
func validateAgainst(schema *gojsonschema.Schema, value any) error {
	result, err := schema.Validate(gojsonschema.NewGoLoader(value))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	issues := result.Errors()
	msgs := make([]string, 0, min(len(issues), maxSchemaIssues))
	for i, issue := range issues {
		if i == maxSchemaIssues {
			msgs = append(msgs, fmt.Sprintf("and %d more", len(issues)-maxSchemaIssues))
			break
		}
		msgs = append(msgs, issue.String())
	}
	return fmt.Errorf("%w: %s", ErrSchemaMismatch, strings.Join(msgs, "; "))
}

// schemaText renders a schema for embedding in a prompt.
func schemaText(doc map[string]any) string {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}
