// Package geo holds the pure geolocation helpers behind the discover feed:
// great-circle distance, human labels, proximity tiers, radius filtering.
// Everything here is side-effect free.
package geo

import (
	"fmt"
	"math"

	"waypoint/internal/domain"
)

const earthRadiusMeters = 6371000.0 // mean Earth radius

// Distance returns the haversine distance in meters between two WGS-84
// coordinate pairs. Symmetric; zero for identical points.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	lat1Rad := toRadians(lat1)
	lat2Rad := toRadians(lat2)
	deltaLat := toRadians(lat2 - lat1)
	deltaLng := toRadians(lng2 - lng1)

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}

// FormatDistance renders meters for display: whole meters below 1 km, one
// decimal of kilometers at or above, "Unknown" for the infinite sentinel.
func FormatDistance(meters float64) string {
	if math.IsInf(meters, 1) {
		return "Unknown"
	}
	if meters < 1000 {
		return fmt.Sprintf("%.0f m", meters)
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}

// Tier thresholds, kilometers, inclusive at the upper bound of each tier.
const (
	walkingMaxKm     = 2.0
	bikingMaxKm      = 5.0
	shortDriveMaxKm  = 15.0
	mediumDriveMaxKm = 30.0
)

// TierFor buckets a distance into one of the five ordered proximity tiers.
// The infinite sentinel lands in the outermost tier.
func TierFor(meters float64) domain.Tier {
	km := meters / 1000
	switch {
	case km <= walkingMaxKm:
		return domain.TierWalking
	case km <= bikingMaxKm:
		return domain.TierBiking
	case km <= shortDriveMaxKm:
		return domain.TierShortDrive
	case km <= mediumDriveMaxKm:
		return domain.TierMediumDrive
	default:
		return domain.TierLongDrive
	}
}

// FilterByRadius keeps items whose distance is finite and at most radiusKm.
// Listings without coordinates cannot be confirmed inside any finite radius,
// so the sentinel always falls out here.
func FilterByRadius(items []domain.DiscoverItem, radiusKm float64) []domain.DiscoverItem {
	out := make([]domain.DiscoverItem, 0, len(items))
	for _, it := range items {
		if it.HasDistance() && it.DistanceMeters/1000 <= radiusKm {
			out = append(out, it)
		}
	}
	return out
}

// TierStyles holds the badge colors for a proximity tier.
type TierStyle struct {
	Background string
	Text       string
}

var tierStyles = map[domain.Tier]TierStyle{
	domain.TierWalking:     {Background: "#dcfce7", Text: "#166534"},
	domain.TierBiking:      {Background: "#dbeafe", Text: "#1e40af"},
	domain.TierShortDrive:  {Background: "#fef9c3", Text: "#854d0e"},
	domain.TierMediumDrive: {Background: "#ffedd5", Text: "#9a3412"},
	domain.TierLongDrive:   {Background: "#fee2e2", Text: "#991b1b"},
}

// TierStyles is a total lookup; unknown tiers get the outermost styling.
func TierStyles(t domain.Tier) TierStyle {
	if s, ok := tierStyles[t]; ok {
		return s
	}
	return tierStyles[domain.TierLongDrive]
}

// TierCopy is the travel-mode wording shown next to the badge.
func TierCopy(t domain.Tier) string {
	switch t {
	case domain.TierWalking:
		return "Walking distance"
	case domain.TierBiking:
		return "Short bike ride"
	case domain.TierShortDrive:
		return "Short drive"
	case domain.TierMediumDrive:
		return "Medium drive"
	default:
		return "Long drive"
	}
}
