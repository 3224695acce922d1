// Package editor hosts interactive authoring sessions: a mutable record
// bound to a resolved schema, with live preview, validation, and export.
package editor

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/roadmaplab/cardkit/pkg/card"
	"github.com/roadmaplab/cardkit/pkg/convert"
	"github.com/roadmaplab/cardkit/pkg/form"
	"github.com/roadmaplab/cardkit/pkg/schema"
)

// Session is a single authoring run over one card.
type Session struct {
	id     string
	kind   card.Kind
	doc    schema.Document
	tree   *schema.Object
	fields []form.Field
	record map[string]any
	log    *slog.Logger

	validator *Validator
}

// NewSession binds a resolved, simplified schema tree to a record. When
// initial is nil the record is seeded from the schema defaults; otherwise
// the initial record is copied in as-is.
func NewSession(kind card.Kind, doc schema.Document, tree *schema.Object, initial map[string]any, log *slog.Logger) (*Session, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("editor: invalid kind %q", string(kind))
	}
	if tree == nil {
		return nil, errors.New("editor: schema tree is nil")
	}
	if log == nil {
		log = slog.Default()
	}

	fields, err := form.Build(tree)
	if err != nil {
		return nil, err
	}

	s := &Session{
		id:     uuid.New().String(),
		kind:   kind,
		doc:    doc,
		tree:   tree,
		fields: fields,
		log:    log,
	}
	if initial == nil {
		s.record = seedDefaults(fields)
	} else {
		s.record = cloneRecord(initial)
	}

	s.log.Info("editor.session_started",
		"session_id", s.id,
		"kind", string(kind),
		"fields", len(fields),
	)
	return s, nil
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string { return s.id }

// Kind returns the card kind being authored.
func (s *Session) Kind() card.Kind { return s.kind }

// Fields returns the form fields in schema declaration order.
func (s *Session) Fields() []form.Field { return s.fields }

// Record returns a copy of the current record.
func (s *Session) Record() map[string]any { return cloneRecord(s.record) }

// Set writes a value at a dotted path, creating intermediate objects as
// needed. An empty path is rejected.
func (s *Session) Set(path string, value any) error {
	parts := strings.Split(path, ".")
	if path == "" || len(parts) == 0 {
		return errors.New("editor: empty field path")
	}

	node := s.record
	for _, part := range parts[:len(parts)-1] {
		child, ok := node[part].(map[string]any)
		if !ok {
			child = map[string]any{}
			node[part] = child
		}
		node = child
	}
	node[parts[len(parts)-1]] = value

	s.log.Debug("editor.field_set", "session_id", s.id, "path", path)
	return nil
}

// Replace swaps the whole record, keeping the session's schema binding.
func (s *Session) Replace(record map[string]any) {
	s.record = cloneRecord(record)
	s.log.Info("editor.record_replaced", "session_id", s.id)
}

// Reset discards all edits and reseeds the record from schema defaults.
func (s *Session) Reset() {
	s.record = seedDefaults(s.fields)
	s.log.Info("editor.session_reset", "session_id", s.id)
}

// Preview renders the current record as indented JSON.
func (s *Session) Preview() (string, error) {
	out, err := json.MarshalIndent(s.record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("editor: render preview: %w", err)
	}
	return string(out), nil
}

// Export wraps the record in the versioned envelope and names the file
// after the kind and export date.
type Export struct {
	Filename string
	Payload  map[string]any
}

// Export produces the download artifact for the current record.
func (s *Session) Export(now time.Time) Export {
	return Export{
		Filename: fmt.Sprintf("roadmap-%s-%s.json",
			strings.ToLower(string(s.kind)), now.Format("2006-01-02")),
		Payload: card.Envelope(s.kind, cloneRecord(s.record)),
	}
}

// ExportJSON renders the export payload as indented JSON.
func (s *Session) ExportJSON(now time.Time) (string, []byte, error) {
	export := s.Export(now)
	data, err := json.MarshalIndent(export.Payload, "", "  ")
	if err != nil {
		return "", nil, fmt.Errorf("editor: render export: %w", err)
	}
	return export.Filename, data, nil
}

// ExportLegacy renders the record in the flat legacy interchange shape,
// named with a .txt extension. Conversion warnings are returned alongside.
func (s *Session) ExportLegacy(now time.Time) (string, []byte, []convert.Warning, error) {
	legacy, warns := convert.ToLegacy(cloneRecord(s.record), s.kind)
	data, err := json.MarshalIndent(legacy, "", "  ")
	if err != nil {
		return "", nil, warns, fmt.Errorf("editor: render legacy export: %w", err)
	}
	name := fmt.Sprintf("roadmap-%s-%s.txt",
		strings.ToLower(string(s.kind)), now.Format("2006-01-02"))
	return name, data, warns, nil
}

// seedDefaults builds a fresh record from the simplified schema defaults.
func seedDefaults(fields []form.Field) map[string]any {
	out := make(map[string]any, len(fields))
	for _, field := range fields {
		out[field.Name] = defaultValue(field)
	}
	return out
}

func defaultValue(field form.Field) any {
	if field.Default != nil {
		return cloneValue(field.Default)
	}
	switch field.Type {
	case form.FieldTypeArray:
		return []any{}
	case form.FieldTypeObject:
		return seedDefaults(field.Nested)
	default:
		return ""
	}
}

func cloneRecord(record map[string]any) map[string]any {
	out := make(map[string]any, len(record))
	for key, value := range record {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return cloneRecord(v)
	case []any:
		out := make([]any, len(v))
		for i, entry := range v {
			out[i] = cloneValue(entry)
		}
		return out
	case *schema.Object:
		// simplified-schema defaults arrive as ordered objects
		out := make(map[string]any, v.Len())
		for _, key := range v.Keys() {
			out[key] = cloneValue(v.Value(key))
		}
		return out
	default:
		return v
	}
}
