package catalog

import (
	"embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schemas/*.cue
var schemaFS embed.FS

// FieldError is one schema violation of a record.
type FieldError struct {
	Field   string
	Message string
}

// Validator checks catalog records against the embedded CUE schema.
type Validator struct {
	ctx    *cue.Context
	schema cue.Value
}

// NewValidator compiles the embedded schema.
func NewValidator() (*Validator, error) {
	content, err := schemaFS.ReadFile("schemas/catalog.cue")
	if err != nil {
		return nil, fmt.Errorf("read catalog schema: %w", err)
	}
	ctx := cuecontext.New()
	schema := ctx.CompileBytes(content, cue.Filename("catalog.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile catalog schema: %w", err)
	}
	return &Validator{ctx: ctx, schema: schema}, nil
}

// Validate checks one record of the given kind. A nil result means the
// record conforms.
func (v *Validator) Validate(kind Kind, data map[string]any) ([]FieldError, error) {
	def := v.schema.LookupPath(cue.ParsePath(kind.definition()))
	if !def.Exists() {
		return nil, fmt.Errorf("no schema for kind %q", kind)
	}

	value := v.ctx.Encode(data)
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("error encoding data: %w", err)
	}

	unified := def.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fieldErrors(err), nil
	}
	return nil, nil
}

// fieldErrors flattens a CUE error into per-field messages, one per field.
func fieldErrors(err error) []FieldError {
	seen := make(map[string]bool)
	var out []FieldError
	for _, e := range cueerrors.Errors(err) {
		field := strings.Join(e.Path(), ".")
		if seen[field] {
			continue
		}
		seen[field] = true
		format, args := e.Msg()
		out = append(out, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	}
	if len(out) == 0 {
		out = append(out, FieldError{Message: err.Error()})
	}
	return out
}
