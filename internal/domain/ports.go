package domain

import "context"

type PropertyRepository interface {
	// Read paths
	FindAll(ctx context.Context, f PropertyFilter, skip, limit int) (PropertyPage, error)
	Count(ctx context.Context) (int64, error)

	// Write paths (full-replace ingestion only)
	DeleteAll(ctx context.Context) error
	InsertMany(ctx context.Context, props []Property) error
}

// SourceFetcher retrieves one object from the remote store and returns the
// decoded JSON value. Shape validation happens in the normalizer stage.
type SourceFetcher interface {
	GetObject(ctx context.Context, key string) (any, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	// Flush drops every cached entry. Ingestion replaces the whole dataset,
	// so per-key invalidation has nothing to pin to.
	Flush(ctx context.Context) error
}
