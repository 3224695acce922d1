// Package convert maps between the canonical nested ROADMAP record shape
// and the flat legacy key-value interchange shape. Conversion is total and
// never errors: missing or malformed source fields resolve to the target
// type's zero value and are reported as non-fatal warnings.
package convert

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/roadmaplab/cardkit/pkg/card"
)

// Warning records a single non-fatal conversion anomaly.
type Warning struct {
	Field   string
	Message string
}

func (w Warning) String() string {
	return w.Field + ": " + w.Message
}

type warnings struct {
	list []Warning
}

func (w *warnings) add(field, format string, args ...any) {
	w.list = append(w.list, Warning{Field: field, Message: fmt.Sprintf(format, args...)})
}

// ToCanonical converts a flat legacy record into the canonical nested
// shape for the given kind. Unknown kinds return the input unchanged.
func ToCanonical(legacy map[string]any, kind card.Kind) (map[string]any, []Warning) {
	w := &warnings{}
	var out map[string]any
	switch kind {
	case card.KindModel:
		out = modelToCanonical(legacy, w)
	case card.KindDataset:
		out = datasetToCanonical(legacy, w)
	default:
		return legacy, nil
	}
	return out, w.list
}

// ToLegacy converts a canonical record back into the flat legacy shape.
// The free-text decomposition is heuristic: labeled sections are recovered
// by pattern, everything else resolves to the declared default.
func ToLegacy(canonical map[string]any, kind card.Kind) (map[string]any, []Warning) {
	w := &warnings{}
	var out map[string]any
	switch kind {
	case card.KindModel:
		out = modelToLegacy(canonical, w)
	case card.KindDataset:
		out = datasetToLegacy(canonical, w)
	default:
		return canonical, nil
	}
	return out, w.list
}

// section describes one paragraph of a consolidated free-text field.
// An empty label means the source value is carried as a raw paragraph.
type section struct {
	source string
	label  string
}

// consolidate joins the non-empty sections as labeled paragraphs separated
// by a blank line, in declared order.
func consolidate(src map[string]any, sections []section) string {
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		value := str(src[s.source])
		if value == "" {
			continue
		}
		if s.label == "" {
			parts = append(parts, value)
		} else {
			parts = append(parts, s.label+": "+value)
		}
	}
	return strings.Join(parts, "\n\n")
}

// extractLabeled pulls `Label: <text>` out of consolidated free text,
// case-insensitively. Capture stops at the first newline. Returns missing
// when the label is absent.
func extractLabeled(text, label, missing string) string {
	if text == "" {
		return missing
	}
	pattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label) + `:\s*([^\n]+)`)
	match := pattern.FindStringSubmatch(text)
	if match == nil {
		return missing
	}
	return strings.TrimSpace(match[1])
}

// firstParagraph returns the text before the first blank line.
func firstParagraph(text string) string {
	if idx := strings.Index(text, "\n\n"); idx >= 0 {
		return text[:idx]
	}
	return text
}

// str renders a scalar as a string; nil and non-scalars become "".
func str(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int:
		return strconv.Itoa(typed)
	case bool:
		return strconv.FormatBool(typed)
	default:
		return ""
	}
}

// strOr returns the first non-empty string rendering of the values.
func strOr(values ...any) string {
	for _, value := range values {
		if s := str(value); s != "" {
			return s
		}
	}
	return ""
}

// list coerces a value to a []any, wrapping scalars and dropping nil.
func list(value any) []any {
	switch typed := value.(type) {
	case nil:
		return []any{}
	case []any:
		return typed
	case []string:
		out := make([]any, len(typed))
		for i, entry := range typed {
			out[i] = entry
		}
		return out
	default:
		return []any{typed}
	}
}

// wrapList ensures a single-element list around a scalar, preserving an
// existing list as-is. Empty scalars become a one-element list of "".
func wrapList(value any) []any {
	if existing, ok := value.([]any); ok {
		return existing
	}
	return []any{str(value)}
}

// firstOf returns the first element of a list, or the value itself when
// it is a scalar.
func firstOf(value any) string {
	if entries, ok := value.([]any); ok {
		if len(entries) == 0 {
			return ""
		}
		return str(entries[0])
	}
	return str(value)
}

// intOrZero parses an integer, warning and defaulting to 0 on failure.
func intOrZero(value any, field string, w *warnings) int {
	switch typed := value.(type) {
	case nil:
		return 0
	case float64:
		return int(typed)
	case int:
		return typed
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" {
			return 0
		}
		parsed, err := strconv.Atoi(trimmed)
		if err != nil {
			w.add(field, "unparsable integer %q, defaulting to 0", typed)
			return 0
		}
		return parsed
	default:
		w.add(field, "unexpected type %T, defaulting to 0", value)
		return 0
	}
}

// get walks a dotted path through nested maps, returning nil when any hop
// is missing.
func get(record map[string]any, path string) any {
	current := any(record)
	for _, key := range strings.Split(path, ".") {
		node, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = node[key]
	}
	return current
}

// objects coerces a value into a list of maps, skipping non-map entries.
func objects(value any) []map[string]any {
	entries, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		if obj, ok := entry.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}
