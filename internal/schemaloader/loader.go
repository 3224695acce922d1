// Package schemaloader fetches schema documents from files, embedded
// filesystems, or HTTP endpoints behind the schema.Loader interface.
package schemaloader

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/roadmaplab/cardkit/pkg/schema"
)

// Options configures a Loader.
type Options struct {
	// FileSystem backs fs-kind sources; required when those are used.
	FileSystem fs.FS
	// HTTPClient backs url-kind sources. Supplying one implies HTTP
	// support even when AllowHTTP is false.
	HTTPClient *http.Client
	// AllowHTTP enables url-kind sources with a default client.
	AllowHTTP bool
	// RequestTimeout bounds each HTTP fetch.
	RequestTimeout time.Duration
}

// Loader implements schema.Loader by delegating to file, fs.FS, or HTTP
// strategies.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
}

var _ schema.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options Options) *Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTP:
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Loader{
		fs:        options.FileSystem,
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
	}
}

// Load fetches a document from the provided source and wraps it in a
// schema.Document.
func (l *Loader) Load(ctx context.Context, src schema.Source) (schema.Document, error) {
	if src == nil {
		return schema.Document{}, errors.New("schemaloader: source is nil")
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case schema.SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case schema.SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	case schema.SourceKindURL:
		if !l.allowHTTP {
			return schema.Document{}, errors.New("schemaloader: http support disabled")
		}
		data, err = loadHTTP(ctx, l.http, src.Location(), l.timeout)
	default:
		err = errors.New("schemaloader: unsupported source kind")
	}
	if err != nil {
		return schema.Document{}, err
	}

	return schema.NewDocument(src, data)
}
