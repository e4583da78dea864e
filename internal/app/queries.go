package app

import (
	"context"
	"fmt"
	"time"

	"waypoint/internal/domain"
)

const (
	genKey = "discover:gen"
	// typeFetchLimit bounds how many listings of one kind feed a single
	// combination. Matches the backend page cap.
	typeFetchLimit = 500
)

type QueryService struct {
	repo     domain.ListingRepository
	cache    domain.Cache
	cacheTTL time.Duration
	intn     func(int) int // surprise picker, nil = uniform math/rand
}

func NewQueryService(r domain.ListingRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

// DiscoverFeed runs the combine + filter pipeline for one position and page.
// Results are cached per rounded position, filters and sync generation; a
// nil position short-circuits to an empty page per the combination contract.
func (s *QueryService) DiscoverFeed(ctx context.Context, pos *domain.Coords, f domain.Filters, pg domain.PageQuery) (domain.FeedPage, error) {
	if pos == nil {
		return domain.FeedPage{Items: []domain.DiscoverItem{}}, nil
	}
	f = f.Normalize()

	key := s.feedKey(ctx, *pos, f, pg)
	var cached domain.FeedPage
	if ok, _ := s.cache.Get(ctx, key, &cached); ok {
		return cached, nil
	}

	items, err := s.combined(ctx, pos, f)
	if err != nil {
		return domain.FeedPage{}, err
	}
	page := paginate(items, pg)
	_ = s.cache.Set(ctx, key, page, int(s.cacheTTL.Seconds()))
	return page, nil
}

// SurpriseItem draws one quality item for the current position and filters.
// ok is false when nothing is eligible.
func (s *QueryService) SurpriseItem(ctx context.Context, pos *domain.Coords, f domain.Filters) (domain.DiscoverItem, bool, error) {
	if pos == nil {
		return domain.DiscoverItem{}, false, nil
	}
	items, err := s.combined(ctx, pos, f)
	if err != nil {
		return domain.DiscoverItem{}, false, err
	}
	it, ok := Surprise(items, s.intn)
	return it, ok, nil
}

func (s *QueryService) combined(ctx context.Context, pos *domain.Coords, f domain.Filters) ([]domain.DiscoverItem, error) {
	sets := make(map[domain.ItemType][]domain.Listing, len(domain.AllItemTypes))
	for _, t := range domain.AllItemTypes {
		ls, err := s.repo.ListByType(ctx, t, typeFetchLimit)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", t, err)
		}
		sets[t] = ls
	}
	return ApplyFilters(Combine(pos, sets), f), nil
}

// feedKey buckets coordinates to 3 decimals (~110 m) so nearby requests share
// cache entries without surviving a real position change. The sync generation
// prefix retires every variant at once after a sync.
func (s *QueryService) feedKey(ctx context.Context, pos domain.Coords, f domain.Filters, pg domain.PageQuery) string {
	var gen int64
	_, _ = s.cache.Get(ctx, genKey, &gen)
	cursor := ""
	if pg.Cursor != nil {
		cursor = *pg.Cursor
	}
	return fmt.Sprintf("discover:%d:%.3f:%.3f:%s:%g:%s:%d:%s",
		gen, pos.Lat, pos.Lng, f.Type, f.RadiusKm, f.Sort, pg.Limit, cursor)
}

// BumpFeedGeneration retires all cached feed pages. Called after a sync run.
func BumpFeedGeneration(ctx context.Context, cache domain.Cache) error {
	return cache.Set(ctx, genKey, time.Now().UnixNano(), 0)
}
