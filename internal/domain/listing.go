package domain

// ItemType tags one of the four listing kinds served by the directory.
type ItemType string

const (
	TypeBusiness ItemType = "business"
	TypeTourism  ItemType = "tourism"
	TypeRental   ItemType = "rental"
	TypeEvent    ItemType = "event"
)

// AllItemTypes is the canonical combination order for the discover feed.
var AllItemTypes = []ItemType{TypeBusiness, TypeTourism, TypeRental, TypeEvent}

// Valid reports whether t is one of the four known kinds.
func (t ItemType) Valid() bool {
	switch t {
	case TypeBusiness, TypeTourism, TypeRental, TypeEvent:
		return true
	}
	return false
}

// PathPrefix maps a type to its detail-page navigation prefix.
// Adding a kind without a prefix is a compile-visible gap here.
func (t ItemType) PathPrefix() string {
	switch t {
	case TypeBusiness:
		return "/businesses"
	case TypeTourism:
		return "/tourism"
	case TypeRental:
		return "/rentals"
	case TypeEvent:
		return "/events"
	}
	return "/listings"
}

type Listing struct {
	ID          string
	Type        ItemType
	Name        string
	Slug        string
	Description *string
	ImageURL    *string
	Category    *string
	Rating      *float64 // 0..5, nil when the listing has no reviews score
	ReviewCount int
	Lat, Lng    *float64 // both nil => distance undefined
	Featured    bool
	Verified    bool
	Phone       *string
	Email       *string
	WhatsApp    *string
	PriceFrom   *float64
	Address     *string
	RawJSON     []byte // full backend payload
}

// HasCoords reports whether the listing carries a usable coordinate pair.
func (l Listing) HasCoords() bool { return l.Lat != nil && l.Lng != nil }

type Coords struct{ Lat, Lng float64 }
