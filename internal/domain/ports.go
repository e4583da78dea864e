package domain

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

type ListingRepository interface {
	// Write paths (syncer)
	UpsertListing(ctx context.Context, l Listing) error
	LogSyncMiss(ctx context.Context, t ItemType, status int, reason string) error

	// Read paths (feed)
	ListByType(ctx context.Context, t ItemType, limit int) ([]Listing, error)
	GetBySlug(ctx context.Context, t ItemType, slug string) (Listing, error)
}

// DirectoryClient reads raw listing payloads from the hosted backend.
type DirectoryClient interface {
	ListListings(ctx context.Context, t ItemType, limit int) ([]map[string]any, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
