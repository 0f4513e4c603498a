package domain

import "errors"

// Ingestion-side failures. Everything below ErrIngestFailed is internal
// detail; the orchestrator boundary wraps it before callers see it.
var (
	ErrMissingConfig   = errors.New("missing required source configuration")
	ErrFetch           = errors.New("source fetch failed")
	ErrParse           = errors.New("source payload is not valid JSON")
	ErrSourceShape     = errors.New("source payload is not an array")
	ErrMalformedRecord = errors.New("malformed source record")
	ErrStoreWrite      = errors.New("store write failed")
)

// Generic failures surfaced to callers of the two public paths.
var (
	ErrIngestFailed = errors.New("failed to ingest property data")
	ErrQueryFailed  = errors.New("failed to fetch properties")
)
