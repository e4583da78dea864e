package app

import (
	"context"
	"errors"
	"fmt"

	"waypoint/internal/domain"
)

type SyncService struct {
	client domain.DirectoryClient
	repo   domain.ListingRepository
	cache  domain.Cache
}

func NewSyncService(c domain.DirectoryClient, r domain.ListingRepository, cache domain.Cache) *SyncService {
	return &SyncService{client: c, repo: r, cache: cache}
}

// SyncType pulls one listing kind from the hosted backend and upserts it.
// Known 404/401/403 responses are recorded as misses and end the run
// gracefully; anything else bubbles up. A successful run bumps the feed
// cache generation so no stale combination survives.
func (s *SyncService) SyncType(ctx context.Context, t domain.ItemType, limit int) (int, error) {
	payloads, err := s.client.ListListings(ctx, t, limit)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			_ = s.repo.LogSyncMiss(ctx, t, 404, "not found")
			return 0, nil
		case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrForbidden):
			_ = s.repo.LogSyncMiss(ctx, t, 403, "denied")
			return 0, nil
		}
		return 0, err
	}

	listings := mapListings(t, payloads)
	for _, l := range listings {
		if err := s.repo.UpsertListing(ctx, l); err != nil {
			return 0, fmt.Errorf("upsert %s %s: %w", t, l.ID, err)
		}
	}

	if s.cache != nil {
		if err := BumpFeedGeneration(ctx, s.cache); err != nil {
			// stale pages expire on TTL anyway
			return len(listings), nil
		}
	}
	return len(listings), nil
}
