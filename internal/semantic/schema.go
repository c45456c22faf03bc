package semantic

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"
)

//go:embed schema.cue
var schemaSource string

// Error codes attached to ValidationError so callers can react to a
// class of failure without parsing the message text.
const (
	// ErrCodeSyntax reports a payload that is not valid JSON.
	ErrCodeSyntax = "E001"
	// ErrCodeSchema reports a payload that violates the view schema.
	ErrCodeSchema = "E002"
	// ErrCodeInternal reports a broken embedded schema.
	ErrCodeInternal = "E003"
)

// ValidationError describes one schema violation in a view definition
// payload.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidateJSON checks a serialized view definition against the embedded
// schema. An empty result means the payload is well formed. Violations
// are itemized, one entry per offending field, rather than stopping at
// the first.
func ValidateJSON(payload string) []ValidationError {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource)
	if err := schema.Err(); err != nil {
		return []ValidationError{internalError(err)}
	}
	spec := schema.LookupPath(cue.ParsePath("#ViewSpec"))
	if err := spec.Err(); err != nil {
		return []ValidationError{internalError(err)}
	}

	expr, err := cuejson.Extract("view.json", []byte(payload))
	if err != nil {
		return []ValidationError{{
			Field:   "view",
			Message: err.Error(),
			Code:    ErrCodeSyntax,
		}}
	}
	value := ctx.BuildExpr(expr)
	if err := value.Err(); err != nil {
		return []ValidationError{{
			Field:   "view",
			Message: err.Error(),
			Code:    ErrCodeSyntax,
		}}
	}

	// Concrete(true) turns missing required fields into errors instead
	// of leaving them as unresolved constraints.
	if err := spec.Unify(value).Validate(cue.Concrete(true)); err != nil {
		errs := cueerrors.Errors(err)
		out := make([]ValidationError, 0, len(errs))
		for _, e := range errs {
			field := strings.Join(e.Path(), ".")
			if field == "" {
				field = "view"
			}
			format, args := e.Msg()
			out = append(out, ValidationError{
				Field:   field,
				Message: fmt.Sprintf(format, args...),
				Code:    ErrCodeSchema,
			})
		}
		return out
	}
	return nil
}

func internalError(err error) ValidationError {
	return ValidationError{
		Field:   "schema",
		Message: err.Error(),
		Code:    ErrCodeInternal,
	}
}
