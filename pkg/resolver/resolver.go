package resolver

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/roadmaplab/cardkit/pkg/card"
	"github.com/roadmaplab/cardkit/pkg/schema"
)

// DefaultMaxDepth bounds recursion from the section root to any node.
// Exceeding it truncates the subtree to an empty object node.
const DefaultMaxDepth = 10

// Options configures reference resolution.
type Options struct {
	// MaxDepth overrides the recursion ceiling. Zero means DefaultMaxDepth.
	MaxDepth int
	// Logger receives warning events for cycles, depth truncation, and
	// missing definitions. Nil means slog.Default().
	Logger *slog.Logger
}

// SectionMissingError reports that the definitions table has no entry for
// the requested card kind. Callers typically fall back to Fallback(kind).
type SectionMissingError struct {
	Kind card.Kind
}

func (e *SectionMissingError) Error() string {
	return fmt.Sprintf("resolver: schema section %q missing", e.Kind.Section())
}

// Resolver inlines $ref pointers against a document's local definitions
// table, producing a form-renderable tree with no remaining references.
type Resolver struct {
	maxDepth int
	log      *slog.Logger
}

// New constructs a Resolver with defaults applied.
func New(opts Options) *Resolver {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Resolver{maxDepth: opts.MaxDepth, log: opts.Logger}
}

// Resolve looks up $defs.<kind> in the raw document and returns a fully
// inlined, depth-bounded schema tree. The definitions table is treated as
// read-only for the duration of the call; resolved output is always a
// fresh tree.
func (r *Resolver) Resolve(doc schema.Document, kind card.Kind) (*schema.Object, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("resolver: invalid card kind %q", string(kind))
	}
	root, err := schema.DecodeObject(doc.Raw())
	if err != nil {
		return nil, fmt.Errorf("resolver: parse schema: %w", err)
	}

	defs := definitionTable(root)
	if defs == nil {
		return nil, &SectionMissingError{Kind: kind}
	}
	section, ok := defs.GetObject(kind.Section())
	if !ok {
		return nil, &SectionMissingError{Kind: kind}
	}

	out := schema.NewObject()
	out.Set("type", "object")
	out.Set("title", string(kind)+" Information")

	props, _ := section.GetObject("properties")
	out.Set("properties", r.resolveProperties(props, defs, nil, 0))

	if required, ok := section.Get("required"); ok {
		out.Set("required", required)
	} else {
		out.Set("required", []any{})
	}
	return out, nil
}

// Fallback returns the minimal one-field schema used when a document
// cannot be resolved for the requested kind.
func Fallback(kind card.Kind) *schema.Object {
	name := schema.NewObject()
	name.Set("type", "string")
	name.Set("title", string(kind)+" Name")
	name.Set("description", fmt.Sprintf("Enter the name of your %s", kind.Section()))
	name.Set("default", "")

	props := schema.NewObject()
	props.Set("Name", name)

	out := schema.NewObject()
	out.Set("type", "object")
	out.Set("title", string(kind)+" Information")
	out.Set("properties", props)
	out.Set("required", []any{"Name"})
	return out
}

// ValidShape reports whether the document carries the structure the
// resolver requires: a definitions entry for the kind plus a top-level
// property named after the capitalized kind.
func ValidShape(root *schema.Object, kind card.Kind) bool {
	if root == nil {
		return false
	}
	defs := definitionTable(root)
	if defs == nil {
		return false
	}
	if _, ok := defs.GetObject(kind.Section()); !ok {
		return false
	}
	props, ok := root.GetObject("properties")
	if !ok {
		return false
	}
	_, ok = props.Get(string(kind))
	return ok
}

// SectionFields returns the top-level property names of $defs.<kind> in
// declaration order. The extraction pipeline uses these to bias prompts
// toward schema vocabulary.
func SectionFields(doc schema.Document, kind card.Kind) ([]string, error) {
	root, err := schema.DecodeObject(doc.Raw())
	if err != nil {
		return nil, fmt.Errorf("resolver: parse schema: %w", err)
	}
	defs := definitionTable(root)
	if defs == nil {
		return nil, &SectionMissingError{Kind: kind}
	}
	section, ok := defs.GetObject(kind.Section())
	if !ok {
		return nil, &SectionMissingError{Kind: kind}
	}
	props, ok := section.GetObject("properties")
	if !ok {
		return nil, nil
	}
	return props.Keys(), nil
}

func definitionTable(root *schema.Object) *schema.Object {
	if defs, ok := root.GetObject("$defs"); ok {
		return defs
	}
	if defs, ok := root.GetObject("definitions"); ok {
		return defs
	}
	return nil
}

func (r *Resolver) resolveProperties(props *schema.Object, defs *schema.Object, visited map[string]struct{}, depth int) *schema.Object {
	out := schema.NewObject()
	if depth > r.maxDepth {
		r.log.Warn("resolver.depth_exceeded", "depth", depth, "max_depth", r.maxDepth)
		return out
	}
	if props == nil {
		return out
	}
	for _, name := range props.Keys() {
		child, ok := props.GetObject(name)
		if !ok {
			out.Set(name, props.Value(name))
			continue
		}
		out.Set(name, r.resolveProperty(child, defs, visited, depth+1))
	}
	return out
}

func (r *Resolver) resolveProperty(prop *schema.Object, defs *schema.Object, visited map[string]struct{}, depth int) *schema.Object {
	if ref := strings.TrimSpace(prop.GetString("$ref")); ref != "" {
		name := definitionName(ref)
		if _, seen := visited[name]; seen {
			r.log.Warn("resolver.cycle_avoided", "ref", name)
			return cycleNode(name)
		}
		target, ok := defs.GetObject(name)
		if !ok {
			r.log.Warn("resolver.ref_missing", "ref", name)
			return missingRefNode(name)
		}
		next := make(map[string]struct{}, len(visited)+1)
		for key := range visited {
			next[key] = struct{}{}
		}
		next[name] = struct{}{}
		resolved := r.resolveProperty(target, defs, next, depth+1)
		mergeRefSiblings(resolved, prop)
		return resolved
	}

	node := prop.Clone()
	switch node.GetString("type") {
	case "array":
		if items, ok := node.GetObject("items"); ok {
			node.Set("items", r.resolveProperty(items, defs, visited, depth))
		}
	case "object":
		if nested, ok := node.GetObject("properties"); ok {
			node.Set("properties", r.resolveProperties(nested, defs, visited, depth))
		}
	}
	return node
}

func definitionName(ref string) string {
	name := strings.TrimPrefix(ref, "#/$defs/")
	name = strings.TrimPrefix(name, "#/definitions/")
	return name
}

// mergeRefSiblings carries title/description/default annotations declared
// alongside a $ref over the resolved target.
func mergeRefSiblings(target *schema.Object, refSite *schema.Object) {
	for _, key := range []string{"title", "description", "default"} {
		if value, ok := refSite.Get(key); ok {
			target.Set(key, value)
		}
	}
}

func cycleNode(name string) *schema.Object {
	node := schema.NewObject()
	node.Set("type", "string")
	node.Set("title", name)
	node.Set("description", fmt.Sprintf("Reference to %s (circular reference avoided)", name))
	node.Set("default", "")
	return node
}

func missingRefNode(name string) *schema.Object {
	node := schema.NewObject()
	node.Set("type", "string")
	node.Set("title", name)
	node.Set("description", fmt.Sprintf("Reference to %s (definition not found)", name))
	node.Set("default", "")
	return node
}
