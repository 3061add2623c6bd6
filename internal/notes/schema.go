package notes

import (
	"sync"

	"github.com/invopop/jsonschema"
)

// SchemaName names the Notes schema in structured-output requests.
const SchemaName = "exam_notes"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
)

// JSONSchema returns the JSON schema of Notes, suitable for a strict
// json_schema response format.
func JSONSchema() *jsonschema.Schema {
	schemaOnce.Do(func() {
		r := jsonschema.Reflector{
			AllowAdditionalProperties: false,
			DoNotReference:            true,
		}
		schema = r.Reflect(&Notes{})
		// Strict structured-output endpoints reject the $schema keyword.
		schema.Version = ""
	})
	return schema
}
