package form

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/roadmaplab/cardkit/pkg/schema"
)

func decode(t *testing.T, raw string) *schema.Object {
	t.Helper()
	obj, err := schema.DecodeObject([]byte(raw))
	if err != nil {
		t.Fatalf("DecodeObject returned error: %v", err)
	}
	return obj
}

func TestBuildRejectsNonObjectRoots(t *testing.T) {
	if _, err := Build(nil); err == nil {
		t.Fatalf("Build(nil) succeeded")
	}
	if _, err := Build(decode(t, `{"type": "string"}`)); err == nil {
		t.Fatalf("Build on string root succeeded")
	}
}

func TestBuildFlattensPropertiesInOrder(t *testing.T) {
	fields, err := Build(decode(t, `{
		"type": "object",
		"properties": {
			"Zulu": {"type": "string", "title": "Z Field"},
			"Alpha": {"type": "integer"},
			"Mike": {"type": "boolean"}
		},
		"required": ["Alpha"]
	}`))
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	var names []string
	for _, field := range fields {
		names = append(names, field.Name)
	}
	if diff := cmp.Diff([]string{"Zulu", "Alpha", "Mike"}, names); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	if fields[0].Type != FieldTypeString || fields[1].Type != FieldTypeInteger || fields[2].Type != FieldTypeBoolean {
		t.Fatalf("field types = %v %v %v", fields[0].Type, fields[1].Type, fields[2].Type)
	}
	if fields[0].Required || !fields[1].Required {
		t.Fatalf("required flags wrong: %v %v", fields[0].Required, fields[1].Required)
	}
	if got := fields[0].Label(); got != "Z Field" {
		t.Fatalf("Label = %q, want title", got)
	}
	if got := fields[1].Label(); got != "Alpha" {
		t.Fatalf("Label = %q, want name fallback", got)
	}
}

func TestBuildNestedObjectsAndArrays(t *testing.T) {
	fields, err := Build(decode(t, `{
		"type": "object",
		"properties": {
			"Use": {
				"type": "object",
				"properties": {
					"Intended": {"type": "array", "items": {"type": "string"}}
				}
			},
			"Tags": {
				"type": "array",
				"format": "checkbox",
				"items": {"type": "string", "enum": ["a", "b"]}
			}
		}
	}`))
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	use := fields[0]
	if use.Type != FieldTypeObject || len(use.Nested) != 1 {
		t.Fatalf("Use field = %+v", use)
	}
	if use.Nested[0].Type != FieldTypeArray || use.Nested[0].Items == nil {
		t.Fatalf("Intended field = %+v", use.Nested[0])
	}

	tags := fields[1]
	if !tags.MultiSelect {
		t.Fatalf("checkbox array not flagged multi-select: %+v", tags)
	}
	if diff := cmp.Diff([]any{"a", "b"}, tags.Items.Enum); diff != "" {
		t.Fatalf("item enum mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildUnknownTypeDefaultsToString(t *testing.T) {
	fields, err := Build(decode(t, `{
		"type": "object",
		"properties": {"Mystery": {}}
	}`))
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if fields[0].Type != FieldTypeString {
		t.Fatalf("type = %q, want string default", fields[0].Type)
	}
}
