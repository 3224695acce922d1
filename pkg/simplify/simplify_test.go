package simplify

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

func TestIsComplex(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want bool
	}{
		{name: "anyOf", raw: `{"anyOf": []}`, want: true},
		{name: "oneOf", raw: `{"oneOf": []}`, want: true},
		{name: "allOf", raw: `{"allOf": []}`, want: true},
		{name: "if", raw: `{"if": {}}`, want: true},
		{name: "then", raw: `{"then": {}}`, want: true},
		{name: "else", raw: `{"else": {}}`, want: true},
		{name: "patternProperties", raw: `{"patternProperties": {}}`, want: true},
		{name: "schema additionalProperties", raw: `{"type": "object", "additionalProperties": {"type": "string"}}`, want: true},
		{name: "boolean additionalProperties", raw: `{"type": "object", "additionalProperties": false}`, want: false},
		{name: "plain string", raw: `{"type": "string"}`, want: false},
		{name: "plain object", raw: `{"type": "object", "properties": {}}`, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsComplex(decode(t, tc.raw)); got != tc.want {
				t.Fatalf("IsComplex = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestApplyReplacesComplexNodeWithStringLeaf(t *testing.T) {
	node := decode(t, `{
		"oneOf": [{"type": "string"}, {"type": "number"}],
		"title": "Flexible Value",
		"description": "Either shape works"
	}`)

	out := Apply(node)
	if got := out.GetString("type"); got != "string" {
		t.Fatalf("type = %q, want string", got)
	}
	if got := out.GetString("title"); got != "Flexible Value" {
		t.Fatalf("title = %q, original title should survive", got)
	}
	if got := out.GetString("description"); got != "Either shape works" {
		t.Fatalf("description = %q, original description should survive", got)
	}
	if _, ok := out.Get("oneOf"); ok {
		t.Fatalf("oneOf survived simplification")
	}
	if got := out.Value("default"); got != "" {
		t.Fatalf("default = %v, want empty string", got)
	}
}

func TestApplyFallbackLeafPlaceholders(t *testing.T) {
	out := Apply(decode(t, `{"anyOf": []}`))
	if got := out.GetString("title"); got != "Complex Field" {
		t.Fatalf("title = %q", got)
	}
	if got := out.GetString("description"); got != "This field has been simplified for form display" {
		t.Fatalf("description = %q", got)
	}
}

func TestApplyMarksLargeEnumArraysAsCheckbox(t *testing.T) {
	node := decode(t, `{
		"type": "array",
		"items": {"type": "string", "enum": ["a", "b", "c", "d", "e", "f"]}
	}`)

	out := Apply(node)
	if got := out.GetString("format"); got != "checkbox" {
		t.Fatalf("format = %q, want checkbox", got)
	}
	if got := out.Value("uniqueItems"); got != true {
		t.Fatalf("uniqueItems = %v, want true", got)
	}
}

func TestApplyLeavesSmallEnumArraysAlone(t *testing.T) {
	node := decode(t, `{
		"type": "array",
		"items": {"type": "string", "enum": ["a", "b", "c", "d", "e"]}
	}`)

	out := Apply(node)
	if got := out.GetString("format"); got != "" {
		t.Fatalf("format = %q, want unset for enum at the threshold", got)
	}
}

func TestApplyFillsTypeDefaults(t *testing.T) {
	node := decode(t, `{
		"type": "object",
		"properties": {
			"Text": {"type": "string"},
			"List": {"type": "array"},
			"Nested": {"type": "object"},
			"Preset": {"type": "string", "default": "keep me"}
		}
	}`)

	out := Apply(node)
	props, _ := out.GetObject("properties")

	text, _ := props.GetObject("Text")
	if got := text.Value("default"); got != "" {
		t.Fatalf("string default = %v, want \"\"", got)
	}
	list, _ := props.GetObject("List")
	if diff := cmp.Diff([]any{}, list.Value("default")); diff != "" {
		t.Fatalf("array default mismatch (-want +got):\n%s", diff)
	}
	nested, _ := props.GetObject("Nested")
	if obj, ok := nested.Value("default").(*schema.Object); !ok || obj.Len() != 0 {
		t.Fatalf("object default = %#v, want empty object", nested.Value("default"))
	}
	preset, _ := props.GetObject("Preset")
	if got := preset.Value("default"); got != "keep me" {
		t.Fatalf("existing default was overwritten: %v", got)
	}
}

func TestApplyPreservesPropertyOrderAndInput(t *testing.T) {
	node := decode(t, `{
		"type": "object",
		"properties": {
			"Zulu": {"type": "string"},
			"Alpha": {"oneOf": []},
			"Mike": {"type": "string"}
		}
	}`)

	out := Apply(node)
	props, _ := out.GetObject("properties")
	if diff := cmp.Diff([]string{"Zulu", "Alpha", "Mike"}, props.Keys()); diff != "" {
		t.Fatalf("property order mismatch (-want +got):\n%s", diff)
	}

	// input must stay untouched
	originalProps, _ := node.GetObject("properties")
	alpha, _ := originalProps.GetObject("Alpha")
	if _, ok := alpha.Get("oneOf"); !ok {
		t.Fatalf("input tree was mutated: oneOf removed")
	}
	zulu, _ := originalProps.GetObject("Zulu")
	if _, ok := zulu.Get("default"); ok {
		t.Fatalf("input tree was mutated: default injected")
	}
}

func TestApplyNil(t *testing.T) {
	if Apply(nil) != nil {
		t.Fatalf("Apply(nil) != nil")
	}
}
