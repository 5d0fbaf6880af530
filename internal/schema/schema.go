// Package schema validates the structure of raw submission bodies against
// embedded CUE definitions before they are decoded into typed submissions.
package schema

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/nyashahama/ai-readiness-assessments/internal/assessment"
)

//go:embed schemas/*.cue
var schemaFS embed.FS

const schemaFile = "schemas/submissions.cue"

// ErrInvalid is matched by every *Error.
var ErrInvalid = errors.New("schema: submission does not match schema")

// FieldError is one structural problem, keyed by the JSON field it concerns.
// Field is empty for problems with the document as a whole.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error lists every structural problem found in one submission.
type Error struct {
	Kind   assessment.Kind
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Field == "" {
			parts = append(parts, f.Message)
			continue
		}
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("schema: invalid %s submission: %s", e.Kind, strings.Join(parts, "; "))
}

func (e *Error) Is(target error) bool { return target == ErrInvalid }

// Validator holds the compiled definitions. It is safe for concurrent use
// once built: CUE values are immutable and each call builds its own.
type Validator struct {
	ctx  *cue.Context
	defs map[assessment.Kind]cue.Value
}

var definitions = map[assessment.Kind]string{
	assessment.KindShadowAI:          "#ShadowAI",
	assessment.KindBusinessReadiness: "#BusinessReadiness",
	assessment.KindBoardGovernance:   "#BoardGovernance",
	assessment.KindPersonalReadiness: "#PersonalReadiness",
}

// NewValidator compiles the embedded schema and resolves one definition per
// assessment kind.
func NewValidator() (*Validator, error) {
	content, err := schemaFS.ReadFile(schemaFile)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", schemaFile, err)
	}

	ctx := cuecontext.New()
	root := ctx.CompileBytes(content, cue.Filename(schemaFile))
	if err := root.Err(); err != nil {
		return nil, fmt.Errorf("schema: compile %s: %w", schemaFile, err)
	}

	v := &Validator{ctx: ctx, defs: make(map[assessment.Kind]cue.Value, len(definitions))}
	for kind, name := range definitions {
		def := root.LookupPath(cue.ParsePath(name))
		if !def.Exists() {
			return nil, fmt.Errorf("schema: definition %s missing", name)
		}
		v.defs[kind] = def
	}
	return v, nil
}

// Validate checks raw against the definition for kind. It returns an *Error
// (matching ErrInvalid) for structural problems and assessment.ErrUnknownKind
// for an unknown kind.
func (v *Validator) Validate(kind assessment.Kind, raw []byte) error {
	def, ok := v.defs[kind]
	if !ok {
		return fmt.Errorf("%w: %q", assessment.ErrUnknownKind, kind)
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil || doc == nil {
		return &Error{Kind: kind, Fields: []FieldError{{Message: "body must be a JSON object"}}}
	}

	data := v.ctx.Encode(doc)
	if err := data.Err(); err != nil {
		return fmt.Errorf("schema: encode submission: %w", err)
	}

	unified := def.Unify(data)
	if err := unified.Err(); err != nil {
		return toError(kind, err)
	}
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return toError(kind, err)
	}
	return nil
}

func toError(kind assessment.Kind, err error) *Error {
	seen := make(map[FieldError]struct{})
	out := &Error{Kind: kind}
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		fe := FieldError{
			Field:   fieldPath(e.Path()),
			Message: fmt.Sprintf(format, args...),
		}
		if _, dup := seen[fe]; dup {
			continue
		}
		seen[fe] = struct{}{}
		out.Fields = append(out.Fields, fe)
	}
	if len(out.Fields) == 0 {
		out.Fields = append(out.Fields, FieldError{Message: err.Error()})
	}
	sort.SliceStable(out.Fields, func(a, b int) bool { return out.Fields[a].Field < out.Fields[b].Field })
	return out
}

// fieldPath drops definition selectors so callers see JSON field names only.
func fieldPath(path []string) string {
	kept := make([]string, 0, len(path))
	for _, p := range path {
		if strings.HasPrefix(p, "#") {
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, ".")
}
