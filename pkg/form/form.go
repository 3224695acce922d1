// Package form flattens a simplified schema tree into the render model
// consumed by interactive editors: one field per schema property, in
// declaration order.
package form

import (
	"errors"
	"fmt"

	"github.com/roadmaplab/cardkit/pkg/schema"
)

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeInteger FieldType = "integer"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeArray   FieldType = "array"
	FieldTypeObject  FieldType = "object"
)

// Field models an individual input inside a generated form.
type Field struct {
	Name        string    `json:"name"`
	Type        FieldType `json:"type"`
	Format      string    `json:"format,omitempty"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	Required    bool      `json:"required"`
	Default     any       `json:"default,omitempty"`
	Enum        []any     `json:"enum,omitempty"`
	Nested      []Field   `json:"nested,omitempty"`
	Items       *Field    `json:"items,omitempty"`
	MultiSelect bool      `json:"multiSelect,omitempty"`
}

// Label returns the display name for the field.
func (f Field) Label() string {
	if f.Title != "" {
		return f.Title
	}
	return f.Name
}

// Build converts a simplified object schema into the flat field list. The
// tree must already be resolved and simplified: any $ref or composition
// construct left in the input is a programming error upstream.
func Build(node *schema.Object) ([]Field, error) {
	if node == nil {
		return nil, errors.New("form: schema is nil")
	}
	if node.GetString("type") != "object" {
		return nil, fmt.Errorf("form: root schema type %q, want object", node.GetString("type"))
	}
	return fieldsFromObject(node), nil
}

func fieldsFromObject(node *schema.Object) []Field {
	props, ok := node.GetObject("properties")
	if !ok {
		return nil
	}
	required := requiredSet(node)

	fields := make([]Field, 0, props.Len())
	for _, name := range props.Keys() {
		child, ok := props.GetObject(name)
		if !ok {
			continue
		}
		_, isRequired := required[name]
		fields = append(fields, fieldFrom(name, child, isRequired))
	}
	return fields
}

func fieldFrom(name string, node *schema.Object, required bool) Field {
	field := Field{
		Name:        name,
		Type:        mapType(node.GetString("type")),
		Format:      node.GetString("format"),
		Title:       node.GetString("title"),
		Description: node.GetString("description"),
		Required:    required,
		Default:     node.Value("default"),
	}
	if enum, ok := node.Get("enum"); ok {
		if values, ok := enum.([]any); ok {
			field.Enum = append([]any(nil), values...)
		}
	}

	switch field.Type {
	case FieldTypeArray:
		if items, ok := node.GetObject("items"); ok {
			item := fieldFrom(name, items, false)
			field.Items = &item
		}
		field.MultiSelect = field.Format == "checkbox"
	case FieldTypeObject:
		field.Nested = fieldsFromObject(node)
	}
	return field
}

func mapType(schemaType string) FieldType {
	switch schemaType {
	case "integer":
		return FieldTypeInteger
	case "number":
		return FieldTypeNumber
	case "boolean":
		return FieldTypeBoolean
	case "array":
		return FieldTypeArray
	case "object":
		return FieldTypeObject
	default:
		return FieldTypeString
	}
}

func requiredSet(node *schema.Object) map[string]struct{} {
	out := make(map[string]struct{})
	raw, ok := node.Get("required")
	if !ok {
		return out
	}
	entries, ok := raw.([]any)
	if !ok {
		return out
	}
	for _, entry := range entries {
		if name, ok := entry.(string); ok {
			out[name] = struct{}{}
		}
	}
	return out
}
