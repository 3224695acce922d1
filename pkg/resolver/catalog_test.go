package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/roadmaplab/cardkit/pkg/card"
	"github.com/roadmaplab/cardkit/pkg/schema"
)

// memoryLoader serves canned payloads by source location.
type memoryLoader struct {
	payloads map[string][]byte
}

func (l *memoryLoader) Load(_ context.Context, src schema.Source) (schema.Document, error) {
	data, ok := l.payloads[src.Location()]
	if !ok {
		return schema.Document{}, errors.New("memory loader: not found")
	}
	return schema.NewDocument(src, data)
}

const baseModelSchema = `{
	"$id": "https://example.org/roadmap/model/v3",
	"description": "Base model card schema",
	"properties": {"Model": {"$ref": "#/$defs/model"}},
	"$defs": {
		"model": {
			"properties": {
				"Name": {"type": "string"},
				"Comments": {"type": "string"}
			}
		}
	}
}`

const customModelSchema = `{
	"$id": "https://example.org/custom/v1",
	"properties": {"Model": {"$ref": "#/$defs/model"}},
	"$defs": {
		"model": {
			"properties": {"Name": {"type": "string"}}
		}
	}
}`

func newTestCatalog(t *testing.T, payloads map[string][]byte) *Catalog {
	t.Helper()
	catalog, err := NewCatalog(&memoryLoader{payloads: payloads}, nil, map[card.Kind]schema.Source{
		card.KindModel: schema.SourceFromFile("base-model.json"),
	}, nil)
	if err != nil {
		t.Fatalf("NewCatalog returned error: %v", err)
	}
	return catalog
}

func TestCatalogLoadsBaseSchema(t *testing.T) {
	catalog := newTestCatalog(t, map[string][]byte{
		"base-model.json": []byte(baseModelSchema),
	})

	loaded, err := catalog.Load(context.Background(), card.KindModel, "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.FellBack {
		t.Fatalf("base schema load reported fallback")
	}
	props, _ := loaded.Resolved.GetObject("properties")
	if diff := cmp.Diff([]string{"Name", "Comments"}, props.Keys()); diff != "" {
		t.Fatalf("resolved property order mismatch (-want +got):\n%s", diff)
	}

	info, ok := catalog.Info(card.KindModel)
	if !ok {
		t.Fatalf("Info reported no active schema")
	}
	if info.Source != "Base Schema" || info.Custom {
		t.Fatalf("info = %+v, want base source", info)
	}
	if info.Version != "https://example.org/roadmap/model/v3" {
		t.Fatalf("info.Version = %q", info.Version)
	}
}

func TestCatalogUsesValidCustomSchema(t *testing.T) {
	catalog := newTestCatalog(t, map[string][]byte{
		"base-model.json":                 []byte(baseModelSchema),
		"https://example.org/custom.json": []byte(customModelSchema),
	})

	loaded, err := catalog.Load(context.Background(), card.KindModel, "https://example.org/custom.json")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	props, _ := loaded.Resolved.GetObject("properties")
	if diff := cmp.Diff([]string{"Name"}, props.Keys()); diff != "" {
		t.Fatalf("expected custom schema fields (-want +got):\n%s", diff)
	}

	info, _ := catalog.Info(card.KindModel)
	if !info.Custom || info.Source != "https://example.org/custom.json" {
		t.Fatalf("info = %+v, want custom source", info)
	}
}

func TestCatalogFallsBackWhenCustomUnreachable(t *testing.T) {
	catalog := newTestCatalog(t, map[string][]byte{
		"base-model.json": []byte(baseModelSchema),
	})

	loaded, err := catalog.Load(context.Background(), card.KindModel, "https://example.org/missing.json")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	props, _ := loaded.Resolved.GetObject("properties")
	if diff := cmp.Diff([]string{"Name", "Comments"}, props.Keys()); diff != "" {
		t.Fatalf("expected base schema after fallback (-want +got):\n%s", diff)
	}
	info, _ := catalog.Info(card.KindModel)
	if info.Custom {
		t.Fatalf("info reports custom after fallback: %+v", info)
	}
}

func TestCatalogFallsBackWhenCustomURLMalformed(t *testing.T) {
	catalog := newTestCatalog(t, map[string][]byte{
		"base-model.json": []byte(baseModelSchema),
	})

	loaded, err := catalog.Load(context.Background(), card.KindModel, "not a valid url")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	props, _ := loaded.Resolved.GetObject("properties")
	if diff := cmp.Diff([]string{"Name", "Comments"}, props.Keys()); diff != "" {
		t.Fatalf("expected base schema after URL rejection (-want +got):\n%s", diff)
	}
	info, _ := catalog.Info(card.KindModel)
	if info.Custom {
		t.Fatalf("info reports custom after URL rejection: %+v", info)
	}
}

func TestCatalogFallsBackWhenCustomShapeInvalid(t *testing.T) {
	catalog := newTestCatalog(t, map[string][]byte{
		"base-model.json":                  []byte(baseModelSchema),
		"https://example.org/invalid.json": []byte(`{"title": "no defs here"}`),
	})

	loaded, err := catalog.Load(context.Background(), card.KindModel, "https://example.org/invalid.json")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	props, _ := loaded.Resolved.GetObject("properties")
	if diff := cmp.Diff([]string{"Name", "Comments"}, props.Keys()); diff != "" {
		t.Fatalf("expected base schema after shape rejection (-want +got):\n%s", diff)
	}
}

func TestCatalogDegradesToFallbackSchema(t *testing.T) {
	catalog := newTestCatalog(t, map[string][]byte{
		"base-model.json": []byte(`{"title": "no definitions table"}`),
	})

	loaded, err := catalog.Load(context.Background(), card.KindModel, "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !loaded.FellBack {
		t.Fatalf("expected FellBack for an unresolvable document")
	}
	props, _ := loaded.Resolved.GetObject("properties")
	if diff := cmp.Diff([]string{"Name"}, props.Keys()); diff != "" {
		t.Fatalf("fallback schema shape mismatch (-want +got):\n%s", diff)
	}
}

func TestCatalogFieldsLazyLoads(t *testing.T) {
	catalog := newTestCatalog(t, map[string][]byte{
		"base-model.json": []byte(baseModelSchema),
	})

	fields, err := catalog.Fields(context.Background(), card.KindModel)
	if err != nil {
		t.Fatalf("Fields returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"Name", "Comments"}, fields); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
}

func TestCatalogReset(t *testing.T) {
	catalog := newTestCatalog(t, map[string][]byte{
		"base-model.json":                 []byte(baseModelSchema),
		"https://example.org/custom.json": []byte(customModelSchema),
	})

	if _, err := catalog.Load(context.Background(), card.KindModel, "https://example.org/custom.json"); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	catalog.Reset(card.KindModel)
	if _, ok := catalog.Info(card.KindModel); ok {
		t.Fatalf("Info still reports active schema after reset")
	}
}
