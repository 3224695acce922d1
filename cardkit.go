// Package cardkit is the authoring core for ROADMAP model and dataset
// cards: schema resolution and simplification, format conversion between
// the canonical and legacy interchange shapes, staged document extraction,
// and interactive editing sessions.
package cardkit

import (
	"context"
	"errors"
	"log/slog"

	"github.com/roadmaplab/cardkit/internal/schemaloader"
	"github.com/roadmaplab/cardkit/pkg/card"
	"github.com/roadmaplab/cardkit/pkg/editor"
	"github.com/roadmaplab/cardkit/pkg/extract"
	"github.com/roadmaplab/cardkit/pkg/genai"
	"github.com/roadmaplab/cardkit/pkg/resolver"
	"github.com/roadmaplab/cardkit/pkg/schema"
	"github.com/roadmaplab/cardkit/pkg/simplify"
)

// Kind discriminates model and dataset cards; alias exported via the root
// package for convenience.
type Kind = card.Kind

const (
	KindModel   = card.KindModel
	KindDataset = card.KindDataset
)

// Session aliases the interactive editing session.
type Session = editor.Session

// LoaderOptions configures the schema document loader.
type LoaderOptions = schemaloader.Options

// NewLoader constructs the file/fs/HTTP schema loader.
func NewLoader(options LoaderOptions) schema.Loader {
	return schemaloader.New(options)
}

// LoadSchema loads a schema document, resolves the section for the kind,
// and simplifies it for form use. A document without the requested
// section degrades to the minimal fallback schema instead of failing.
func LoadSchema(ctx context.Context, loader schema.Loader, src schema.Source, kind Kind, log *slog.Logger) (schema.Document, *schema.Object, error) {
	if log == nil {
		log = slog.Default()
	}
	doc, err := loader.Load(ctx, src)
	if err != nil {
		return schema.Document{}, nil, err
	}

	res := resolver.New(resolver.Options{Logger: log})
	resolved, err := res.Resolve(doc, kind)
	if err != nil {
		var missing *resolver.SectionMissingError
		if !errors.As(err, &missing) {
			return schema.Document{}, nil, err
		}
		log.Warn("cardkit.fallback_schema", "kind", kind.Section(), "error", err)
		resolved = resolver.Fallback(kind)
	}
	return doc, simplify.Apply(resolved), nil
}

// NewSession opens an editing session over a loaded schema. Passing a nil
// initial record seeds the session from schema defaults.
func NewSession(kind Kind, doc schema.Document, tree *schema.Object, initial map[string]any, log *slog.Logger) (*Session, error) {
	return editor.NewSession(kind, doc, tree, initial, log)
}

// NewExtractionPipeline wires a generation client and schema catalog into
// the staged document extraction pipeline.
func NewExtractionPipeline(cfg genai.Config, catalog *resolver.Catalog, log *slog.Logger) (*extract.Pipeline, error) {
	client := genai.NewClient(cfg, log)
	var lister extract.FieldLister
	if catalog != nil {
		lister = catalog
	}
	return extract.New(client, lister, extract.Options{Logger: log})
}
