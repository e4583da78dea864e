package app

import (
	"math/rand"
	"sort"
	"strconv"

	"waypoint/internal/domain"
	"waypoint/internal/geo"
)

// Combine normalizes the four raw listing sets against the caller's position
// and returns one collection sorted ascending by distance. A nil position
// yields an empty collection; the caller owns prompting for location, the
// core never guesses one. Listings without coordinates get the infinite
// sentinel and stay in — only a radius filter drops them later.
func Combine(pos *domain.Coords, sets map[domain.ItemType][]domain.Listing) []domain.DiscoverItem {
	if pos == nil {
		return []domain.DiscoverItem{}
	}
	var out []domain.DiscoverItem
	for _, t := range domain.AllItemTypes {
		for _, l := range sets[t] {
			out = append(out, normalize(*pos, l))
		}
	}
	// Stable keeps the concatenation order for equal distances.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceMeters < out[j].DistanceMeters
	})
	return out
}

func normalize(pos domain.Coords, l domain.Listing) domain.DiscoverItem {
	d := domain.DistanceUnknown
	if l.HasCoords() {
		d = geo.Distance(pos.Lat, pos.Lng, *l.Lat, *l.Lng)
	}
	return domain.DiscoverItem{
		Listing:        l,
		DistanceMeters: d,
		DistanceLabel:  geo.FormatDistance(d),
		DistanceTier:   geo.TierFor(d),
	}
}

// ApplyFilters derives the visible list from the combined collection:
// type filter, then radius filter, then sort. Pure; identical inputs give
// an identical ordered list.
func ApplyFilters(items []domain.DiscoverItem, f domain.Filters) []domain.DiscoverItem {
	f = f.Normalize()

	filtered := items
	if f.Type != "" {
		filtered = make([]domain.DiscoverItem, 0, len(items))
		for _, it := range items {
			if it.Type == f.Type {
				filtered = append(filtered, it)
			}
		}
	}

	filtered = geo.FilterByRadius(filtered, f.RadiusKm)

	switch f.Sort {
	case domain.SortRating:
		sort.SliceStable(filtered, func(i, j int) bool {
			return ratingOrZero(filtered[i]) > ratingOrZero(filtered[j])
		})
	case domain.SortPopular:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].ReviewCount > filtered[j].ReviewCount
		})
	default:
		// distance: the combined collection is already base-sorted.
	}
	return filtered
}

func ratingOrZero(it domain.DiscoverItem) float64 {
	if it.Rating == nil {
		return 0
	}
	return *it.Rating
}

// qualityEligible gates the surprise-me pool: featured, verified, highly
// rated, or at least reviewed.
func qualityEligible(it domain.DiscoverItem) bool {
	return it.Featured || it.Verified || ratingOrZero(it) >= 3.5 || it.ReviewCount > 0
}

// Surprise draws one item uniformly from the quality subset of items.
// ok is false when the subset is empty; callers treat that as a no-op.
// intn may be nil, in which case math/rand/v2 is used; tests inject a
// deterministic picker.
func Surprise(items []domain.DiscoverItem, intn func(int) int) (domain.DiscoverItem, bool) {
	pool := make([]domain.DiscoverItem, 0, len(items))
	for _, it := range items {
		if qualityEligible(it) {
			pool = append(pool, it)
		}
	}
	if len(pool) == 0 {
		return domain.DiscoverItem{}, false
	}
	if intn == nil {
		intn = rand.Intn
	}
	return pool[intn(len(pool))], true
}

// paginate slices one page out of the filtered list using a numeric-offset
// cursor. An unparseable cursor reads as offset 0.
func paginate(items []domain.DiscoverItem, pg domain.PageQuery) domain.FeedPage {
	offset := 0
	if pg.Cursor != nil {
		if n, err := strconv.Atoi(*pg.Cursor); err == nil && n > 0 {
			offset = n
		}
	}
	limit := pg.Limit
	if limit <= 0 {
		limit = 20
	}
	if offset >= len(items) {
		return domain.FeedPage{Items: []domain.DiscoverItem{}}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	page := domain.FeedPage{Items: items[offset:end]}
	if end < len(items) {
		next := strconv.Itoa(end)
		page.NextCursor = &next
	}
	return page
}
