package editor

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roadmaplab/cardkit/pkg/card"
	"github.com/roadmaplab/cardkit/pkg/convert"
)

// ErrUploadTooLarge is returned when an imported payload exceeds the
// upload cap.
var ErrUploadTooLarge = errors.New("editor: payload exceeds upload size limit")

// Import is a parsed upload normalized to the canonical record shape.
type Import struct {
	Kind     card.Kind
	Format   card.Format
	Record   map[string]any
	Warnings []convert.Warning
}

// ImportRecord parses an uploaded payload in either interchange shape and
// normalizes it to a canonical record. Legacy payloads are converted; the
// conversion warnings are carried on the result.
func ImportRecord(name string, data []byte) (*Import, error) {
	if int64(len(data)) > card.MaxUploadBytes {
		return nil, ErrUploadTooLarge
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("editor: parse %s: %w", name, err)
	}

	format := card.DetectFormat(name, payload)
	kind, ok := card.DetectKind(payload)
	if !ok {
		return nil, fmt.Errorf("editor: cannot determine card kind of %s", name)
	}

	if format == card.FormatLegacy {
		record, warns := convert.ToCanonical(payload, kind)
		return &Import{Kind: kind, Format: format, Record: record, Warnings: warns}, nil
	}

	if _, record, ok := card.RecordFromEnvelope(payload); ok {
		return &Import{Kind: kind, Format: format, Record: record}, nil
	}
	// canonical payload without an envelope wrapper
	return &Import{Kind: kind, Format: format, Record: payload}, nil
}
