// Package simplify rewrites resolved schema trees so every node is
// presentable by the form renderer. Constructs outside the supported
// subset are replaced by string fallback leaves; the original tree is
// left untouched for collaborators that still need it.
package simplify

import "github.com/roadmaplab/cardkit/pkg/schema"

// checkboxThreshold is the enum size above which array items switch to
// multi-select presentation.
const checkboxThreshold = 5

// Apply returns a simplified copy of a resolved schema tree. The pass is
// pure: no I/O, input never mutated. Tree depth and branching match the
// input exactly except where complexity substitution occurred.
func Apply(node *schema.Object) *schema.Object {
	if node == nil {
		return nil
	}
	if IsComplex(node) {
		return fallbackLeaf(node)
	}

	out := node.Clone()
	switch out.GetString("type") {
	case "array":
		if items, ok := out.GetObject("items"); ok {
			out.Set("items", Apply(items))
			if enum, ok := items.Get("enum"); ok {
				if values, ok := enum.([]any); ok && len(values) > checkboxThreshold {
					out.Set("format", "checkbox")
					out.Set("uniqueItems", true)
				}
			}
		}
	case "object":
		if props, ok := out.GetObject("properties"); ok {
			next := schema.NewObject()
			for _, name := range props.Keys() {
				child, ok := props.GetObject(name)
				if !ok {
					next.Set(name, props.Value(name))
					continue
				}
				next.Set(name, Apply(child))
			}
			out.Set("properties", next)
		}
	}

	fillDefault(out)
	return out
}

// IsComplex reports whether a node uses a construct the form renderer
// cannot safely present: union composition, conditional branching,
// pattern-keyed dictionaries, or a schema-valued additionalProperties.
func IsComplex(node *schema.Object) bool {
	for _, key := range []string{"anyOf", "oneOf", "allOf", "if", "then", "else", "patternProperties"} {
		if _, ok := node.Get(key); ok {
			return true
		}
	}
	if extra, ok := node.Get("additionalProperties"); ok {
		if _, isSchema := extra.(*schema.Object); isSchema {
			return true
		}
	}
	return false
}

// fallbackLeaf keeps title/description and drops everything else. The
// information loss is deliberate; callers that need enums or examples
// consult the unsimplified tree.
func fallbackLeaf(node *schema.Object) *schema.Object {
	out := schema.NewObject()
	out.Set("type", "string")
	if title := node.GetString("title"); title != "" {
		out.Set("title", title)
	} else {
		out.Set("title", "Complex Field")
	}
	if desc := node.GetString("description"); desc != "" {
		out.Set("description", desc)
	} else {
		out.Set("description", "This field has been simplified for form display")
	}
	out.Set("default", "")
	return out
}

func fillDefault(node *schema.Object) {
	if value, ok := node.Get("default"); ok && value != nil {
		return
	}
	switch node.GetString("type") {
	case "string":
		node.Set("default", "")
	case "array":
		node.Set("default", []any{})
	case "object":
		node.Set("default", schema.NewObject())
	}
}
