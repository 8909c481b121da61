package snapshot

import (
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"

	"github.com/roach88/corkboard/internal/engine"
)

// snapshotSchema is the CUE schema for the export document. The three
// top-level keys are required and array-typed; per-row schemas pin the
// field types external tooling depends on. update_reason and metadata
// tolerate null and absence (older exporters leave them out), and rows
// stay open so newer exporters can add fields without breaking import.
const snapshotSchema = `
{
	boards!: [...{
		id!:                string
		name!:              string
		goal?:              string
		landing_column_id?: null | string
		created_at?:        string
		updated_at?:        string
		...
	}]
	columns!: [...{
		id!:             string
		board_id!:       string
		name!:           string
		position!:       int & >=0
		wip_limit?:      int & >=0
		is_done_column?: bool
		...
	}]
	tasks!: [...{
		id!:            string
		column_id!:     string
		title!:         string
		content?:       string
		position!:      int & >=0
		update_reason?: null | string
		metadata?:      null | {...}
		created_at?:    string
		updated_at?:    string
		...
	}]
}
`

var (
	schemaOnce sync.Once
	schemaVal  cue.Value
)

// compiledSchema compiles the snapshot schema once. The cue.Context
// and the compiled value are immutable after construction and safe to
// share across validations.
func compiledSchema() cue.Value {
	schemaOnce.Do(func() {
		schemaVal = cuecontext.New().CompileString(snapshotSchema)
	})
	return schemaVal
}

// validateShape checks the raw payload against the snapshot schema.
// Returns a structural import error describing the first violation.
func validateShape(data []byte) error {
	schema := compiledSchema()

	expr, err := cuejson.Extract("snapshot", data)
	if err != nil {
		return engine.NewStructuralImportError("payload is not valid JSON", err)
	}

	val := schema.Context().BuildExpr(expr)
	if err := val.Err(); err != nil {
		return engine.NewStructuralImportError("payload is not a JSON object", err)
	}

	unified := schema.Unify(val)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return engine.NewStructuralImportError("payload does not match the snapshot schema", err)
	}
	return nil
}
