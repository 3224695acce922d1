package schemaloader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/roadmaplab/cardkit/pkg/schema"
)

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.json")
	if err := os.WriteFile(path, []byte(`{"type": "object"}`), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	doc, err := New(Options{}).Load(context.Background(), schema.SourceFromFile(path))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if string(doc.Raw()) != `{"type": "object"}` {
		t.Fatalf("raw = %s", doc.Raw())
	}
}

func TestLoadFromFS(t *testing.T) {
	files := fstest.MapFS{
		"schemas/model.json": &fstest.MapFile{Data: []byte(`{"$defs": {}}`)},
	}

	loader := New(Options{FileSystem: files})
	doc, err := loader.Load(context.Background(), schema.SourceFromFS("schemas/model.json"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if string(doc.Raw()) != `{"$defs": {}}` {
		t.Fatalf("raw = %s", doc.Raw())
	}
}

func TestLoadFromFSWithoutFilesystem(t *testing.T) {
	if _, err := New(Options{}).Load(context.Background(), schema.SourceFromFS("x.json")); err == nil {
		t.Fatalf("Load succeeded without a backing filesystem")
	}
}

func urlSource(t *testing.T, raw string) schema.Source {
	t.Helper()
	src, err := schema.SourceFromURL(raw)
	if err != nil {
		t.Fatalf("SourceFromURL returned error: %v", err)
	}
	return src
}

func TestLoadHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte(`{"title": "remote"}`)); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
	defer server.Close()

	loader := New(Options{AllowHTTP: true})
	doc, err := loader.Load(context.Background(), urlSource(t, server.URL))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if string(doc.Raw()) != `{"title": "remote"}` {
		t.Fatalf("raw = %s", doc.Raw())
	}
}

func TestLoadHTTPDisabledByDefault(t *testing.T) {
	_, err := New(Options{}).Load(context.Background(), urlSource(t, "https://example.org/schema.json"))
	if err == nil {
		t.Fatalf("Load succeeded with HTTP disabled")
	}
}

func TestLoadHTTPNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := New(Options{AllowHTTP: true}).Load(context.Background(), urlSource(t, server.URL))
	if err == nil {
		t.Fatalf("Load succeeded on a 404")
	}
}

func TestLoadNilSource(t *testing.T) {
	if _, err := New(Options{}).Load(context.Background(), nil); err == nil {
		t.Fatalf("Load succeeded with nil source")
	}
}

func TestLoadCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New(Options{}).Load(ctx, schema.SourceFromFile("whatever.json")); err == nil {
		t.Fatalf("Load succeeded with cancelled context")
	}
}
