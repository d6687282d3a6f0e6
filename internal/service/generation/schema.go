package generation

import (
	"github.com/invopop/jsonschema"

	"testforge/internal/domain/models/testcase"
)

// testCasesSchemaName is the response format name sent to the provider
const testCasesSchemaName = "test_cases"

// testCasesSchema is the strict structured-output schema for GeneratedTestCases
var testCasesSchema = newTestCasesSchema()

func newTestCasesSchema() *jsonschema.Schema {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		ExpandedStruct:            true,
	}

	schema := reflector.Reflect(&testcase.GeneratedTestCases{})
	schema.Version = ""
	schema.ID = ""
	return schema
}
