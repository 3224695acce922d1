package card

import "strings"

// Format classifies an imported payload.
type Format string

const (
	// FormatCanonical marks the nested, schema-validated record shape.
	FormatCanonical Format = "json"
	// FormatLegacy marks the flat key-value interchange shape.
	FormatLegacy Format = "txt"
)

// DetectFormat inspects a file name and parsed payload and decides which
// interchange shape the content carries. The extension wins when present;
// otherwise the discriminating key names decide, defaulting to canonical.
func DetectFormat(name string, payload map[string]any) Format {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".txt"):
		return FormatLegacy
	case strings.HasSuffix(lower, ".json"):
		return FormatCanonical
	}

	if _, ok := payload["model_name"]; ok {
		return FormatLegacy
	}
	if _, ok := payload["dataset_name"]; ok {
		return FormatLegacy
	}
	if _, ok := payload[string(KindModel)]; ok {
		return FormatCanonical
	}
	if _, ok := payload[string(KindDataset)]; ok {
		return FormatCanonical
	}
	return FormatCanonical
}

// DetectKind infers the card kind from either interchange shape.
func DetectKind(payload map[string]any) (Kind, bool) {
	if _, ok := payload[string(KindModel)]; ok {
		return KindModel, true
	}
	if _, ok := payload[string(KindDataset)]; ok {
		return KindDataset, true
	}
	if _, ok := payload["model_name"]; ok {
		return KindModel, true
	}
	if _, ok := payload["dataset_name"]; ok {
		return KindDataset, true
	}
	return "", false
}
