package resolver

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/roadmaplab/cardkit/pkg/card"
	"github.com/roadmaplab/cardkit/pkg/schema"
)

func mustDocument(t *testing.T, raw string) schema.Document {
	t.Helper()
	doc, err := schema.NewDocument(schema.SourceFromFile("test-schema.json"), []byte(raw))
	if err != nil {
		t.Fatalf("NewDocument returned error: %v", err)
	}
	return doc
}

func TestResolveInlinesReferences(t *testing.T) {
	doc := mustDocument(t, `{
		"$defs": {
			"model": {
				"properties": {
					"Name": {"type": "string", "title": "Model Name"},
					"License": {"$ref": "#/$defs/license", "title": "Licensing"}
				},
				"required": ["Name"]
			},
			"license": {
				"type": "object",
				"properties": {"Text": {"type": "string"}}
			}
		}
	}`)

	out, err := New(Options{}).Resolve(doc, card.KindModel)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	if got := out.GetString("title"); got != "Model Information" {
		t.Fatalf("title = %q", got)
	}
	props, ok := out.GetObject("properties")
	if !ok {
		t.Fatalf("resolved tree has no properties")
	}
	if diff := cmp.Diff([]string{"Name", "License"}, props.Keys()); diff != "" {
		t.Fatalf("property order mismatch (-want +got):\n%s", diff)
	}

	license, ok := props.GetObject("License")
	if !ok {
		t.Fatalf("License missing from resolved tree")
	}
	if got := license.GetString("type"); got != "object" {
		t.Fatalf("License type = %q, want object (inlined)", got)
	}
	if got := license.GetString("title"); got != "Licensing" {
		t.Fatalf("ref-site title was not carried over: %q", got)
	}
	if got := license.GetString("$ref"); got != "" {
		t.Fatalf("resolved tree still carries $ref %q", got)
	}

	if diff := cmp.Diff([]any{"Name"}, out.Value("required")); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveAllowsSiblingReuseOfDefinition(t *testing.T) {
	doc := mustDocument(t, `{
		"$defs": {
			"model": {
				"properties": {
					"Use": {"$ref": "#/$defs/audience"},
					"User": {"$ref": "#/$defs/audience"}
				}
			},
			"audience": {
				"type": "object",
				"properties": {"Intended": {"type": "array"}}
			}
		}
	}`)

	out, err := New(Options{}).Resolve(doc, card.KindModel)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	props, _ := out.GetObject("properties")
	for _, name := range []string{"Use", "User"} {
		node, ok := props.GetObject(name)
		if !ok {
			t.Fatalf("%s missing from resolved tree", name)
		}
		if got := node.GetString("type"); got != "object" {
			t.Fatalf("%s resolved to %q, want full object on both reuse sites", name, got)
		}
	}
}

func TestResolveBreaksCyclesWithStringLeaf(t *testing.T) {
	doc := mustDocument(t, `{
		"$defs": {
			"model": {
				"properties": {"Parent": {"$ref": "#/$defs/node"}}
			},
			"node": {
				"type": "object",
				"properties": {"Child": {"$ref": "#/$defs/node"}}
			}
		}
	}`)

	out, err := New(Options{}).Resolve(doc, card.KindModel)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	props, _ := out.GetObject("properties")
	parent, _ := props.GetObject("Parent")
	nested, _ := parent.GetObject("properties")
	child, ok := nested.GetObject("Child")
	if !ok {
		t.Fatalf("Child missing from resolved tree")
	}
	if got := child.GetString("type"); got != "string" {
		t.Fatalf("cycle leaf type = %q, want string", got)
	}
	if got := child.GetString("description"); got != "Reference to node (circular reference avoided)" {
		t.Fatalf("cycle leaf description = %q", got)
	}
}

func TestResolveMissingDefinitionBecomesLeaf(t *testing.T) {
	doc := mustDocument(t, `{
		"$defs": {
			"model": {
				"properties": {"Ghost": {"$ref": "#/$defs/nowhere"}}
			}
		}
	}`)

	out, err := New(Options{}).Resolve(doc, card.KindModel)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	props, _ := out.GetObject("properties")
	ghost, ok := props.GetObject("Ghost")
	if !ok {
		t.Fatalf("Ghost missing from resolved tree")
	}
	if got := ghost.GetString("type"); got != "string" {
		t.Fatalf("missing-ref leaf type = %q, want string", got)
	}
}

func TestResolveTruncatesBeyondMaxDepth(t *testing.T) {
	doc := mustDocument(t, `{
		"$defs": {
			"model": {
				"properties": {
					"L1": {"type": "object", "properties": {
						"L2": {"type": "object", "properties": {
							"L3": {"type": "string"}
						}}
					}}
				}
			}
		}
	}`)

	out, err := New(Options{MaxDepth: 1}).Resolve(doc, card.KindModel)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	props, _ := out.GetObject("properties")
	l1, _ := props.GetObject("L1")
	l1props, ok := l1.GetObject("properties")
	if !ok {
		t.Fatalf("L1 lost its properties entirely")
	}
	l2, ok := l1props.GetObject("L2")
	if !ok {
		t.Fatalf("L2 missing from resolved tree")
	}
	l2props, ok := l2.GetObject("properties")
	if !ok {
		t.Fatalf("L2 lost its properties entirely")
	}
	if l2props.Len() != 0 {
		t.Fatalf("expected truncation to empty object beyond depth cap, got keys %v", l2props.Keys())
	}
}

func TestResolveSectionMissing(t *testing.T) {
	doc := mustDocument(t, `{"$defs": {"model": {"properties": {}}}}`)

	_, err := New(Options{}).Resolve(doc, card.KindDataset)
	var missing *SectionMissingError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v, want SectionMissingError", err)
	}
	if missing.Kind != card.KindDataset {
		t.Fatalf("missing.Kind = %q", missing.Kind)
	}
}

func TestResolveAcceptsDefinitionsTable(t *testing.T) {
	doc := mustDocument(t, `{
		"definitions": {
			"dataset": {"properties": {"Name": {"type": "string"}}}
		}
	}`)

	out, err := New(Options{}).Resolve(doc, card.KindDataset)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	props, _ := out.GetObject("properties")
	if _, ok := props.Get("Name"); !ok {
		t.Fatalf("Name missing when resolving via definitions table")
	}
}

func TestFallbackShape(t *testing.T) {
	out := Fallback(card.KindDataset)

	if got := out.GetString("title"); got != "Dataset Information" {
		t.Fatalf("title = %q", got)
	}
	if diff := cmp.Diff([]any{"Name"}, out.Value("required")); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
	props, _ := out.GetObject("properties")
	name, ok := props.GetObject("Name")
	if !ok {
		t.Fatalf("fallback has no Name property")
	}
	if got := name.GetString("description"); got != "Enter the name of your dataset" {
		t.Fatalf("Name description = %q", got)
	}
}

func TestSectionFieldsOrder(t *testing.T) {
	doc := mustDocument(t, `{
		"$defs": {
			"model": {
				"properties": {
					"Name": {}, "Comments": {}, "Use": {}, "Results": {}
				}
			}
		}
	}`)

	fields, err := SectionFields(doc, card.KindModel)
	if err != nil {
		t.Fatalf("SectionFields returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"Name", "Comments", "Use", "Results"}, fields); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
}
