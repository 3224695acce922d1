package editor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/roadmaplab/cardkit/pkg/card"
	"github.com/roadmaplab/cardkit/pkg/schema"
)

// maxVisibleErrors caps how many issues a report lists verbatim; the rest
// collapse into a single overflow line.
const maxVisibleErrors = 5

// Issue is one validation finding at a dotted record path.
type Issue struct {
	Path    string
	Message string
}

// Report summarizes a validation run.
type Report struct {
	Valid  bool
	Issues []Issue
	Total  int
}

// Messages renders the report for display, listing at most
// maxVisibleErrors findings.
func (r Report) Messages() []string {
	if r.Valid {
		return nil
	}
	shown := r.Issues
	if len(shown) > maxVisibleErrors {
		shown = shown[:maxVisibleErrors]
	}
	out := make([]string, 0, len(shown)+1)
	for _, issue := range shown {
		out = append(out, fmt.Sprintf("%s: %s", issue.Path, issue.Message))
	}
	if r.Total > maxVisibleErrors {
		out = append(out, fmt.Sprintf("... and %d more errors", r.Total-maxVisibleErrors))
	}
	return out
}

// Validator checks records against the raw (unresolved) schema document.
type Validator struct {
	doc      schema.Document
	compiled *jsonschema.Schema
}

// NewValidator wraps a schema document for repeated validation.
func NewValidator(doc schema.Document) *Validator {
	return &Validator{doc: doc}
}

// Validate checks a record wrapped under its kind key against the schema.
// A schema that fails to compile is an error; record findings are not.
func (v *Validator) Validate(kind card.Kind, record map[string]any) (Report, error) {
	compiled, err := v.compile()
	if err != nil {
		return Report{}, err
	}

	// Round-trip through JSON so validation sees the same value shapes a
	// decoded upload would have.
	payload, err := json.Marshal(map[string]any{string(kind): record})
	if err != nil {
		return Report{}, fmt.Errorf("editor: encode record: %w", err)
	}
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()
	var instance any
	if err := decoder.Decode(&instance); err != nil {
		return Report{}, fmt.Errorf("editor: decode record: %w", err)
	}

	err = compiled.Validate(instance)
	if err == nil {
		return Report{Valid: true}, nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return Report{}, fmt.Errorf("editor: validate: %w", err)
	}

	issues := flattenIssues(ve)
	return Report{Valid: false, Issues: issues, Total: len(issues)}, nil
}

func (v *Validator) compile() (*jsonschema.Schema, error) {
	if v.compiled != nil {
		return v.compiled, nil
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	url := v.doc.Location()
	if url == "" {
		url = "schema.json"
	}
	if err := compiler.AddResource(url, bytes.NewReader(v.doc.Raw())); err != nil {
		return nil, fmt.Errorf("editor: register schema: %w", err)
	}
	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("editor: compile schema: %w", err)
	}
	v.compiled = compiled
	return compiled, nil
}

// Validate runs the session's record against its schema document.
func (s *Session) Validate() (Report, error) {
	if s.validator == nil {
		s.validator = NewValidator(s.doc)
	}
	return s.validator.Validate(s.kind, s.record)
}

var missingProperty = regexp.MustCompile(`'([^']+)'`)

// flattenIssues walks the cause tree down to leaf findings and converts
// JSON-pointer locations into dotted record paths. A "missing properties"
// finding is expanded into one issue per missing field.
func flattenIssues(ve *jsonschema.ValidationError) []Issue {
	var out []Issue
	var walk func(err *jsonschema.ValidationError)
	walk = func(err *jsonschema.ValidationError) {
		if len(err.Causes) > 0 {
			for _, cause := range err.Causes {
				walk(cause)
			}
			return
		}
		base := pointerToPath(err.InstanceLocation)
		if strings.HasPrefix(err.Message, "missing properties") {
			for _, match := range missingProperty.FindAllStringSubmatch(err.Message, -1) {
				out = append(out, Issue{
					Path:    joinPath(base, match[1]),
					Message: "required field is missing",
				})
			}
			return
		}
		out = append(out, Issue{Path: base, Message: err.Message})
	}
	walk(ve)
	return out
}

func pointerToPath(pointer string) string {
	trimmed := strings.TrimPrefix(pointer, "/")
	if trimmed == "" {
		return ""
	}
	parts := strings.Split(trimmed, "/")
	for i, part := range parts {
		part = strings.ReplaceAll(part, "~1", "/")
		parts[i] = strings.ReplaceAll(part, "~0", "~")
	}
	return strings.Join(parts, ".")
}

func joinPath(base, field string) string {
	if base == "" {
		return field
	}
	return base + "." + field
}
