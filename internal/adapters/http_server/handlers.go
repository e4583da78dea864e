package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"waypoint/internal/adapters/observability"
	"waypoint/internal/app"
	"waypoint/internal/domain"
	"waypoint/internal/geo"
)

type Handlers struct{ Q *app.QueryService }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/discover", h.discoverFeed)
	s.mux.Get("/v1/discover/surprise", h.surprise)
}

// ---- response shapes ----

// feedItem flattens a DiscoverItem for the wire. DistanceMeters is null when
// the listing has no coordinates; +Inf does not survive JSON.
type feedItem struct {
	ID             string   `json:"id"`
	Type           string   `json:"type"`
	Name           string   `json:"name"`
	Slug           string   `json:"slug"`
	Description    *string  `json:"description,omitempty"`
	ImageURL       *string  `json:"image_url,omitempty"`
	Category       *string  `json:"category,omitempty"`
	Rating         *float64 `json:"rating,omitempty"`
	ReviewCount    int      `json:"review_count"`
	Featured       bool     `json:"featured"`
	Verified       bool     `json:"verified"`
	PriceFrom      *float64 `json:"price_from,omitempty"`
	Address        *string  `json:"address,omitempty"`
	DistanceMeters *float64 `json:"distance_meters"`
	DistanceLabel  string   `json:"distance_label"`
	DistanceTier   string   `json:"distance_tier"`
	TierBackground string   `json:"tier_background"`
	TierText       string   `json:"tier_text"`
	Path           string   `json:"path"`
}

type feedResponse struct {
	Items            []feedItem `json:"items"`
	NextCursor       *string    `json:"next_cursor,omitempty"`
	LocationRequired bool       `json:"location_required,omitempty"`
}

func toFeedItem(it domain.DiscoverItem) feedItem {
	var meters *float64
	if it.HasDistance() {
		m := it.DistanceMeters
		meters = &m
	}
	style := geo.TierStyles(it.DistanceTier)
	return feedItem{
		ID:             it.ID,
		Type:           string(it.Type),
		Name:           it.Name,
		Slug:           it.Slug,
		Description:    it.Description,
		ImageURL:       it.ImageURL,
		Category:       it.Category,
		Rating:         it.Rating,
		ReviewCount:    it.ReviewCount,
		Featured:       it.Featured,
		Verified:       it.Verified,
		PriceFrom:      it.PriceFrom,
		Address:        it.Address,
		DistanceMeters: meters,
		DistanceLabel:  it.DistanceLabel,
		DistanceTier:   string(it.DistanceTier),
		TierBackground: style.Background,
		TierText:       style.Text,
		Path:           it.DetailPath(),
	}
}

// ---- helpers ----

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// parseCoords reads lat/lng query params. Absent or half-present coordinates
// are not an error: the feed contract says no position means an empty
// collection and the client owns prompting.
func parseCoords(r *http.Request) (*domain.Coords, bool) {
	latS, lngS := r.URL.Query().Get("lat"), r.URL.Query().Get("lng")
	if latS == "" || lngS == "" {
		return nil, true
	}
	lat, err1 := strconv.ParseFloat(latS, 64)
	lng, err2 := strconv.ParseFloat(lngS, 64)
	if err1 != nil || err2 != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, false
	}
	return &domain.Coords{Lat: lat, Lng: lng}, true
}

func parseFilters(r *http.Request) (domain.Filters, string) {
	f := domain.DefaultFilters()
	q := r.URL.Query()
	if t := q.Get("type"); t != "" {
		it := domain.ItemType(t)
		if !it.Valid() {
			return f, "type must be one of business, tourism, rental, event"
		}
		f.Type = it
	}
	if rs := q.Get("radius_km"); rs != "" {
		v, err := strconv.ParseFloat(rs, 64)
		if err != nil || v <= 0 {
			return f, "radius_km must be a positive number"
		}
		f.RadiusKm = v
	}
	if s := q.Get("sort"); s != "" {
		sm := domain.SortMode(s)
		if !sm.Valid() {
			return f, "sort must be one of distance, rating, popular"
		}
		f.Sort = sm
	}
	return f, ""
}

// ---- handlers ----

func (h *Handlers) discoverFeed(w http.ResponseWriter, r *http.Request) {
	pos, ok := parseCoords(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid coordinates", "lat must be in [-90,90], lng in [-180,180]")
		return
	}

	filters, msg := parseFilters(r)
	if msg != "" {
		writeProblem(w, http.StatusBadRequest, "Invalid filter", msg)
		return
	}

	limit := 20
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 100 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 100")
			return
		}
		limit = l
	}
	var cursor *string
	if cs := r.URL.Query().Get("cursor"); cs != "" {
		cursor = &cs
	}

	page, err := h.Q.DiscoverFeed(r.Context(), pos, filters, domain.PageQuery{Limit: limit, Cursor: cursor})
	if err != nil {
		log.Error().Err(err).Msg("discover feed failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "could not build the discover feed")
		return
	}

	resp := feedResponse{Items: make([]feedItem, 0, len(page.Items)), NextCursor: page.NextCursor, LocationRequired: pos == nil}
	for _, it := range page.Items {
		resp.Items = append(resp.Items, toFeedItem(it))
	}
	observability.ObserveFeed(string(filters.Sort), len(resp.Items))

	etag, body := calcETagAndBody(resp)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write discover feed body")
	}
}

// surprise draws one quality item and returns it with its detail path.
// An empty quality subset answers 204: nothing to retry.
func (h *Handlers) surprise(w http.ResponseWriter, r *http.Request) {
	pos, ok := parseCoords(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid coordinates", "lat must be in [-90,90], lng in [-180,180]")
		return
	}

	filters, msg := parseFilters(r)
	if msg != "" {
		writeProblem(w, http.StatusBadRequest, "Invalid filter", msg)
		return
	}

	it, found, err := h.Q.SurpriseItem(r.Context(), pos, filters)
	if err != nil {
		log.Error().Err(err).Msg("surprise selection failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "could not pick a listing")
		return
	}
	if !found {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	resp := struct {
		Item feedItem `json:"item"`
		Path string   `json:"path"`
	}{Item: toFeedItem(it), Path: it.DetailPath()}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("failed to write surprise body")
	}
}
