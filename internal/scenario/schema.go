package scenario

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaSource string

// compileSchema builds the #Scenario schema value once per process.
var compileSchema = sync.OnceValues(func() (cue.Value, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := v.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("compile scenario schema: %w", err)
	}
	schema := v.LookupPath(cue.ParsePath("#Scenario"))
	if err := schema.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("lookup #Scenario: %w", err)
	}
	return schema, nil
})

// validateSchema checks a raw scenario document against the embedded CUE
// schema. Definitions are closed, so unknown fields are rejected along
// with wrong types and out-of-range values.
func validateSchema(doc []byte) error {
	schema, err := compileSchema()
	if err != nil {
		return err
	}

	var raw any
	if err := yaml.Unmarshal(doc, &raw); err != nil {
		return fmt.Errorf("decode scenario: %w", err)
	}
	if raw == nil {
		return fmt.Errorf("scenario document is empty")
	}

	val := schema.Context().Encode(raw)
	if err := val.Err(); err != nil {
		return fmt.Errorf("encode scenario: %w", err)
	}

	if err := schema.Unify(val).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("scenario schema: %w", err)
	}
	return nil
}
