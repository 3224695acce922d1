package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/roadmaplab/cardkit/pkg/card"
	"github.com/roadmaplab/cardkit/pkg/schema"
)

// Catalog manages the schema documents for both card kinds: a base source
// per kind plus an optional custom URL override that falls back to the
// base schema when the custom document cannot be loaded or fails shape
// validation.
type Catalog struct {
	loader   schema.Loader
	resolver *Resolver
	log      *slog.Logger

	mu     sync.Mutex
	base   map[card.Kind]schema.Source
	active map[card.Kind]*activeSchema
}

type activeSchema struct {
	sourceLabel string
	custom      bool
	doc         schema.Document
	root        *schema.Object
}

// Info describes the schema currently active for a kind.
type Info struct {
	Source      string
	Version     string
	Description string
	Custom      bool
}

// Loaded is the result of a catalog load: the document that was used plus
// its resolved tree. FellBack is set when resolution degraded to the
// minimal fallback schema.
type Loaded struct {
	Kind     card.Kind
	Document schema.Document
	Resolved *schema.Object
	FellBack bool
}

// NewCatalog constructs a catalog over the supplied base sources.
func NewCatalog(loader schema.Loader, res *Resolver, base map[card.Kind]schema.Source, log *slog.Logger) (*Catalog, error) {
	if loader == nil {
		return nil, fmt.Errorf("resolver: catalog loader is nil")
	}
	if res == nil {
		res = New(Options{Logger: log})
	}
	if log == nil {
		log = slog.Default()
	}
	sources := make(map[card.Kind]schema.Source, len(base))
	for kind, src := range base {
		if !kind.Valid() {
			return nil, fmt.Errorf("resolver: invalid catalog kind %q", string(kind))
		}
		sources[kind] = src
	}
	return &Catalog{
		loader:   loader,
		resolver: res,
		log:      log,
		base:     sources,
		active:   make(map[card.Kind]*activeSchema),
	}, nil
}

// Load fetches and resolves the schema for a kind. A non-empty customURL
// is tried first; load or shape failures fall back to the base schema
// with a logged warning, never an error. Resolution failures degrade to
// the minimal fallback schema.
func (c *Catalog) Load(ctx context.Context, kind card.Kind, customURL string) (Loaded, error) {
	if !kind.Valid() {
		return Loaded{}, fmt.Errorf("resolver: invalid card kind %q", string(kind))
	}

	doc, label, custom, err := c.fetch(ctx, kind, customURL)
	if err != nil {
		return Loaded{}, err
	}

	loaded := Loaded{Kind: kind, Document: doc}
	resolved, err := c.resolver.Resolve(doc, kind)
	if err != nil {
		c.log.Warn("resolver.catalog.fallback_schema", "kind", kind.Section(), "error", err)
		resolved = Fallback(kind)
		loaded.FellBack = true
	}
	loaded.Resolved = resolved

	root, decodeErr := schema.DecodeObject(doc.Raw())
	if decodeErr != nil {
		root = nil
	}
	c.mu.Lock()
	c.active[kind] = &activeSchema{sourceLabel: label, custom: custom, doc: doc, root: root}
	c.mu.Unlock()

	return loaded, nil
}

func (c *Catalog) fetch(ctx context.Context, kind card.Kind, customURL string) (schema.Document, string, bool, error) {
	if customURL != "" {
		src, err := schema.SourceFromURL(customURL)
		if err == nil {
			var doc schema.Document
			doc, err = c.loader.Load(ctx, src)
			if err == nil {
				if root, decodeErr := schema.DecodeObject(doc.Raw()); decodeErr == nil && ValidShape(root, kind) {
					return doc, customURL, true, nil
				}
				err = fmt.Errorf("resolver: custom schema failed shape validation")
			}
		}
		c.log.Warn("resolver.catalog.custom_fallback", "kind", kind.Section(), "url", customURL, "error", err)
	}

	src, ok := c.base[kind]
	if !ok {
		return schema.Document{}, "", false, fmt.Errorf("resolver: no base schema registered for kind %q", kind.Section())
	}
	doc, err := c.loader.Load(ctx, src)
	if err != nil {
		return schema.Document{}, "", false, fmt.Errorf("resolver: load base schema: %w", err)
	}
	return doc, "base", false, nil
}

// Info reports the active schema source for a kind.
func (c *Catalog) Info(kind card.Kind) (Info, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	active, ok := c.active[kind]
	if !ok {
		return Info{}, false
	}
	info := Info{Source: "Base Schema", Custom: active.custom}
	if active.custom {
		info.Source = active.sourceLabel
	}
	if active.root != nil {
		info.Version = active.root.GetString("$id")
		info.Description = active.root.GetString("description")
	}
	if info.Version == "" {
		info.Version = "Unknown"
	}
	return info, true
}

// Document returns the raw document currently active for a kind.
func (c *Catalog) Document(kind card.Kind) (schema.Document, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	active, ok := c.active[kind]
	if !ok {
		return schema.Document{}, false
	}
	return active.doc, true
}

// Fields returns the declaration-ordered top-level field names for the
// kind's active schema. Satisfies the extraction pipeline's field lister.
func (c *Catalog) Fields(ctx context.Context, kind card.Kind) ([]string, error) {
	c.mu.Lock()
	active, ok := c.active[kind]
	c.mu.Unlock()
	if !ok {
		loaded, err := c.Load(ctx, kind, "")
		if err != nil {
			return nil, err
		}
		return SectionFields(loaded.Document, kind)
	}
	return SectionFields(active.doc, kind)
}

// Reset drops the custom override for a kind so the next load uses the
// base schema again.
func (c *Catalog) Reset(kind card.Kind) {
	c.mu.Lock()
	delete(c.active, kind)
	c.mu.Unlock()
}

// ResetAll drops every custom override.
func (c *Catalog) ResetAll() {
	c.mu.Lock()
	c.active = make(map[card.Kind]*activeSchema)
	c.mu.Unlock()
}
