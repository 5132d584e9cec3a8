package interfaces

import "context"

// ContentSource supplies locale-scoped content values. Sources are consulted
// in priority order; the first one reporting existence wins.
//
// Load returns (value, true, nil) when the source has an entry for the
// key/locale pair, (nil, false, nil) when it does not, and a non-nil error
// for infrastructure failures. Callers treat errors as "does not have this
// key" so a broken source never aborts the lookup chain.
type ContentSource interface {
	Load(ctx context.Context, key, locale string) (any, bool, error)
}

// MetadataSink consumes a derived page-head metadata document. Implementations
// typically render <head> tags; the engine only produces the document.
type MetadataSink interface {
	Consume(ctx context.Context, doc map[string]any) error
}
