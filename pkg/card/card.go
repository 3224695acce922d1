package card

import (
	"fmt"
	"strings"
)

// Kind discriminates the two card types a ROADMAP record can describe.
type Kind string

const (
	KindModel   Kind = "Model"
	KindDataset Kind = "Dataset"
)

// SchemaVersionTag is the release token embedded in export envelopes.
const SchemaVersionTag = "2025-05"

// MaxUploadBytes caps uploaded documents. Larger payloads are rejected
// before any downstream processing runs.
const MaxUploadBytes = int64(10 << 20)

// ParseKind normalizes a user-supplied kind string.
func ParseKind(raw string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "model":
		return KindModel, nil
	case "dataset":
		return KindDataset, nil
	default:
		return "", fmt.Errorf("card: unknown kind %q", raw)
	}
}

// Valid reports whether the kind is one of the two supported values.
func (k Kind) Valid() bool {
	return k == KindModel || k == KindDataset
}

// Section returns the lower-cased definition-table key for the kind.
func (k Kind) Section() string {
	return strings.ToLower(string(k))
}

// EnvelopeSchemaID returns the $schema tag written into export envelopes.
// The tag carries the lower-cased card type, unlike the section key.
func EnvelopeSchemaID(k Kind) string {
	return fmt.Sprintf("ROADMAP-%s-%s.json", k.Section(), SchemaVersionTag)
}

// Envelope wraps a canonical record in the export envelope. Exactly one of
// the Model/Dataset keys is present, matching the kind.
func Envelope(k Kind, record map[string]any) map[string]any {
	return map[string]any{
		"$schema": EnvelopeSchemaID(k),
		string(k): record,
	}
}

// RecordFromEnvelope unwraps a canonical payload. It accepts both bare
// records and full export envelopes.
func RecordFromEnvelope(payload map[string]any) (Kind, map[string]any, bool) {
	for _, kind := range []Kind{KindModel, KindDataset} {
		if raw, ok := payload[string(kind)]; ok {
			if record, ok := raw.(map[string]any); ok {
				return kind, record, true
			}
		}
	}
	return "", nil, false
}
