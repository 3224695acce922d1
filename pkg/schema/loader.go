package schema

import "context"

// Loader fetches schema documents from a source. Implementations decide
// which source kinds they support.
type Loader interface {
	Load(ctx context.Context, src Source) (Document, error)
}
