package app

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"waypoint/internal/domain"
)

/********** alias registry (single source of truth) **********/

var listingAliases = map[string][]string{
	"id":          {"id", "listing_id", "uuid"},
	"name":        {"name", "title", "business_name"},
	"slug":        {"slug", "url_slug", "seo.slug"},
	"description": {"description", "summary", "about", "details"},
	"image":       {"image_url", "cover_image", "image", "photos.0", "thumbnail"},
	"category":    {"category", "category_name", "categories.0.name", "category.name"},
	"phone":       {"phone", "phone_number", "contact.phone"},
	"email":       {"email", "contact.email"},
	"whatsapp":    {"whatsapp", "whatsapp_number", "contact.whatsapp"},
	"address":     {"address", "full_address", "location.address", "street_address"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps; a numeric segment
// indexes into a JSON array.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		switch obj := cur.(type) {
		case map[string]any:
			v, ok := obj[part]
			if !ok {
				return nil
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(obj) {
				return nil
			}
			cur = obj[i]
		default:
			return nil
		}
	}
	return cur
}

func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, key string) *string {
	for _, p := range listingAliases[key] {
		if s := lookupStr(m, p); s != "" {
			return &s
		}
	}
	return nil
}

// getFloatFlexible: number from several paths (float64/int/string like "4,5").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

func getBool(m map[string]any, paths ...string) bool {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case bool:
			return v
		case string:
			if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
				return b
			}
		}
	}
	return false
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// slugify falls back to a URL slug derived from the name when the backend
// record carries none.
func slugify(name string) string {
	s := slugStrip.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

/********** listing mapper **********/

// mapListing projects one loosely-shaped backend payload onto a Listing.
// Backend exports are not stable across content types, hence the alias
// registry; unknown shapes degrade to nil optionals, never to an error.
func mapListing(t domain.ItemType, p map[string]any) domain.Listing {
	raw, err := json.Marshal(p)
	if err != nil {
		log.Error().Err(err).Str("context", "mapListing").Msg("marshal payload failed")
	}

	l := domain.Listing{
		Type:        t,
		Description: firstNonEmptyAlias(p, "description"),
		ImageURL:    firstNonEmptyAlias(p, "image"),
		Category:    firstNonEmptyAlias(p, "category"),
		Phone:       firstNonEmptyAlias(p, "phone"),
		Email:       firstNonEmptyAlias(p, "email"),
		WhatsApp:    firstNonEmptyAlias(p, "whatsapp"),
		Address:     firstNonEmptyAlias(p, "address"),
		Lat:         getFloatFlexible(p, "latitude", "lat", "location.lat"),
		Lng:         getFloatFlexible(p, "longitude", "lng", "lon", "location.lng", "location.lon"),
		PriceFrom:   getFloatFlexible(p, "price_from", "starting_price", "price.from"),
		Featured:    getBool(p, "featured", "is_featured"),
		Verified:    getBool(p, "verified", "is_verified"),
		RawJSON:     raw,
	}

	if s := firstNonEmptyAlias(p, "id"); s != nil {
		l.ID = *s
	} else if f := getFloatFlexible(p, "id", "listing_id"); f != nil {
		l.ID = strconv.FormatInt(int64(*f), 10)
	}

	if s := firstNonEmptyAlias(p, "name"); s != nil {
		l.Name = *s
	}
	if s := firstNonEmptyAlias(p, "slug"); s != nil {
		l.Slug = *s
	} else if l.Name != "" {
		l.Slug = slugify(l.Name)
	}

	// Rating clamped to the 0..5 scale the directory uses.
	if f := getFloatFlexible(p, "average_rating", "rating", "rating.value"); f != nil {
		r := *f
		if r < 0 {
			r = 0
		}
		if r > 5 {
			r = 5
		}
		l.Rating = &r
	}
	if f := getFloatFlexible(p, "review_count", "reviews_count", "total_reviews"); f != nil && *f > 0 {
		l.ReviewCount = int(*f)
	}

	return l
}

func mapListings(t domain.ItemType, in []map[string]any) []domain.Listing {
	out := make([]domain.Listing, 0, len(in))
	for _, p := range in {
		l := mapListing(t, p)
		if l.ID == "" || l.Name == "" {
			log.Warn().Str("type", string(t)).Msg("skipping payload without id/name")
			continue
		}
		out = append(out, l)
	}
	return out
}
