package editor

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/roadmaplab/cardkit/pkg/form"
)

// Fill walks the session's form fields in order, prompting for each value
// and writing answers back into the record. Aborting a prompt stops the
// walk with ErrAborted; values already answered stay set.
func Fill(ctx context.Context, driver PromptDriver, s *Session) error {
	for _, field := range s.Fields() {
		if err := fillField(ctx, driver, s, "", field); err != nil {
			return err
		}
	}
	return nil
}

func fillField(ctx context.Context, driver PromptDriver, s *Session, prefix string, field form.Field) error {
	path := field.Name
	if prefix != "" {
		path = prefix + "." + field.Name
	}

	switch {
	case len(field.Enum) > 0:
		return fillEnum(ctx, driver, s, path, field)
	case field.Type == form.FieldTypeObject:
		if err := driver.Info(ctx, fmt.Sprintf("-- %s --", field.Label())); err != nil {
			return err
		}
		for _, nested := range field.Nested {
			if err := fillField(ctx, driver, s, path, nested); err != nil {
				return err
			}
		}
		return nil
	case field.Type == form.FieldTypeArray:
		return fillArray(ctx, driver, s, path, field)
	case field.Type == form.FieldTypeBoolean:
		value, err := driver.Confirm(ctx, ConfirmConfig{
			Message: field.Label() + "?",
			Help:    field.Description,
		})
		if err != nil {
			return err
		}
		return s.Set(path, value)
	case field.Type == form.FieldTypeInteger:
		return fillNumber(ctx, driver, s, path, field, true)
	case field.Type == form.FieldTypeNumber:
		return fillNumber(ctx, driver, s, path, field, false)
	case field.Format == "textarea":
		value, err := driver.TextArea(ctx, TextAreaConfig{
			Message: field.Label(),
			Help:    field.Description,
			Default: stringDefault(field),
		})
		if err != nil {
			return err
		}
		return s.Set(path, value)
	default:
		value, err := driver.Input(ctx, InputConfig{
			Message:   field.Label(),
			Help:      field.Description,
			Default:   stringDefault(field),
			Validator: requiredValidator(field),
		})
		if err != nil {
			return err
		}
		return s.Set(path, value)
	}
}

func fillEnum(ctx context.Context, driver PromptDriver, s *Session, path string, field form.Field) error {
	options := make([]string, 0, len(field.Enum))
	for _, option := range field.Enum {
		options = append(options, fmt.Sprint(option))
	}
	idx, err := driver.Select(ctx, SelectConfig{
		Message:      field.Label(),
		Options:      options,
		Help:         field.Description,
		DefaultIndex: indexOf(options, stringDefault(field)),
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(field.Enum) {
		return s.Set(path, "")
	}
	return s.Set(path, field.Enum[idx])
}

func fillArray(ctx context.Context, driver PromptDriver, s *Session, path string, field form.Field) error {
	// checkbox arrays carry the option list on the item schema
	if field.MultiSelect && field.Items != nil && len(field.Items.Enum) > 0 {
		options := make([]string, 0, len(field.Items.Enum))
		for _, option := range field.Items.Enum {
			options = append(options, fmt.Sprint(option))
		}
		indices, err := driver.MultiSelect(ctx, SelectConfig{
			Message: field.Label(),
			Options: options,
			Help:    field.Description,
		})
		if err != nil {
			return err
		}
		values := make([]any, 0, len(indices))
		for _, idx := range indices {
			values = append(values, field.Items.Enum[idx])
		}
		return s.Set(path, values)
	}

	if field.Items != nil && field.Items.Type == form.FieldTypeObject {
		return fillObjectList(ctx, driver, s, path, field)
	}

	// free-form string lists: one value per line
	value, err := driver.TextArea(ctx, TextAreaConfig{
		Message: field.Label() + " (one per line)",
		Help:    field.Description,
	})
	if err != nil {
		return err
	}
	entries := []any{}
	for _, line := range strings.Split(value, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			entries = append(entries, trimmed)
		}
	}
	return s.Set(path, entries)
}

func fillObjectList(ctx context.Context, driver PromptDriver, s *Session, path string, field form.Field) error {
	entries := []any{}
	for {
		add, err := driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("Add %s entry #%d?", field.Label(), len(entries)+1),
			Default: len(entries) == 0,
		})
		if err != nil {
			return err
		}
		if !add {
			break
		}
		entry := map[string]any{}
		for _, nested := range field.Items.Nested {
			value, err := driver.Input(ctx, InputConfig{
				Message: nested.Label(),
				Help:    nested.Description,
			})
			if err != nil {
				return err
			}
			entry[nested.Name] = value
		}
		entries = append(entries, entry)
	}
	return s.Set(path, entries)
}

func fillNumber(ctx context.Context, driver PromptDriver, s *Session, path string, field form.Field, integer bool) error {
	value, err := driver.Input(ctx, InputConfig{
		Message: field.Label(),
		Help:    field.Description,
		Default: stringDefault(field),
		Validator: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return nil
			}
			if integer {
				_, err := strconv.Atoi(strings.TrimSpace(input))
				return err
			}
			_, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
			return err
		},
	})
	if err != nil {
		return err
	}
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return s.Set(path, 0)
	}
	if integer {
		parsed, err := strconv.Atoi(trimmed)
		if err != nil {
			return s.Set(path, 0)
		}
		return s.Set(path, parsed)
	}
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return s.Set(path, 0.0)
	}
	return s.Set(path, parsed)
}

func stringDefault(field form.Field) string {
	if field.Default == nil {
		return ""
	}
	if s, ok := field.Default.(string); ok {
		return s
	}
	return fmt.Sprint(field.Default)
}

func requiredValidator(field form.Field) func(string) error {
	if !field.Required {
		return nil
	}
	label := field.Label()
	return func(input string) error {
		if strings.TrimSpace(input) == "" {
			return fmt.Errorf("%s is required", label)
		}
		return nil
	}
}
