package domain

import "math"

// DistanceUnknown is the sentinel distance for listings without coordinates.
// They are never dropped at normalization time; they sort last and only fall
// out when a finite radius filter is applied.
var DistanceUnknown = math.Inf(1)

// Tier is a discrete proximity bucket derived from distance.
type Tier string

const (
	TierWalking     Tier = "walking"
	TierBiking      Tier = "biking"
	TierShortDrive  Tier = "short-drive"
	TierMediumDrive Tier = "medium-drive"
	TierLongDrive   Tier = "long-drive"
)

// DiscoverItem is the normalized, distance-annotated projection of a Listing
// used by the combined feed. Type is fixed at creation.
type DiscoverItem struct {
	Listing
	DistanceMeters float64
	DistanceLabel  string
	DistanceTier   Tier
}

// HasDistance reports whether the item carries a finite distance.
func (d DiscoverItem) HasDistance() bool { return !math.IsInf(d.DistanceMeters, 1) }

// DetailPath is the navigation target for the item's detail page.
func (d DiscoverItem) DetailPath() string { return d.Type.PathPrefix() + "/" + d.Slug }

type SortMode string

const (
	SortDistance SortMode = "distance"
	SortRating   SortMode = "rating"
	SortPopular  SortMode = "popular"
)

func (s SortMode) Valid() bool {
	switch s {
	case SortDistance, SortRating, SortPopular:
		return true
	}
	return false
}

// Radius bounds for the discover feed, kilometers. The slider presets on the
// client side consume the same values.
const (
	MinRadiusKm     = 1.0
	DefaultRadiusKm = 25.0
	MaxRadiusKm     = 100.0
)

// Filters is the user-controlled feed state. Zero Type means "all".
type Filters struct {
	Type     ItemType
	RadiusKm float64
	Sort     SortMode
}

// DefaultFilters returns the initial feed state.
func DefaultFilters() Filters {
	return Filters{RadiusKm: DefaultRadiusKm, Sort: SortDistance}
}

// Normalize clamps the radius into [MinRadiusKm, MaxRadiusKm] and fills in
// the default sort. It never rejects; bad values degrade to defaults.
func (f Filters) Normalize() Filters {
	if f.RadiusKm == 0 {
		f.RadiusKm = DefaultRadiusKm
	}
	f.RadiusKm = math.Min(math.Max(f.RadiusKm, MinRadiusKm), MaxRadiusKm)
	if !f.Sort.Valid() {
		f.Sort = SortDistance
	}
	if !f.Type.Valid() {
		f.Type = ""
	}
	return f
}

type PageQuery struct {
	Limit  int
	Cursor *string
}

type FeedPage struct {
	Items      []DiscoverItem
	NextCursor *string
}
