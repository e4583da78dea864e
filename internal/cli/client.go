package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"waypoint/internal/domain"
)

// FeedItem is the wire shape served by the discover API.
type FeedItem struct {
	ID             string   `json:"id"`
	Type           string   `json:"type"`
	Name           string   `json:"name"`
	Slug           string   `json:"slug"`
	Category       *string  `json:"category,omitempty"`
	Rating         *float64 `json:"rating,omitempty"`
	ReviewCount    int      `json:"review_count"`
	Featured       bool     `json:"featured"`
	Verified       bool     `json:"verified"`
	DistanceMeters *float64 `json:"distance_meters"`
	DistanceLabel  string   `json:"distance_label"`
	DistanceTier   string   `json:"distance_tier"`
	Path           string   `json:"path"`
}

type FeedPage struct {
	Items      []FeedItem `json:"items"`
	NextCursor *string    `json:"next_cursor,omitempty"`
}

type SurprisePick struct {
	Item FeedItem `json:"item"`
	Path string   `json:"path"`
}

// FeedAPI reads the discover endpoints.
type FeedAPI interface {
	Feed(ctx context.Context, pos domain.Coords, f domain.Filters, limit int, cursor *string) (FeedPage, error)
	Surprise(ctx context.Context, pos domain.Coords, f domain.Filters) (*SurprisePick, error)
}

type apiClient struct {
	base string
	hc   *http.Client
}

// NewAPIClient builds a FeedAPI against one Waypoint API base URL.
func NewAPIClient(base string) FeedAPI {
	return &apiClient{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *apiClient) Feed(ctx context.Context, pos domain.Coords, f domain.Filters, limit int, cursor *string) (FeedPage, error) {
	q := feedQuery(pos, f)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if cursor != nil {
		q.Set("cursor", *cursor)
	}

	var page FeedPage
	if err := c.get(ctx, "/v1/discover?"+q.Encode(), &page); err != nil {
		return FeedPage{}, err
	}
	return page, nil
}

func (c *apiClient) Surprise(ctx context.Context, pos domain.Coords, f domain.Filters) (*SurprisePick, error) {
	q := feedQuery(pos, f)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/v1/discover/surprise?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var pick SurprisePick
		if err := json.NewDecoder(resp.Body).Decode(&pick); err != nil {
			return nil, err
		}
		return &pick, nil
	case http.StatusNoContent:
		// nothing in the quality pool
		return nil, nil
	default:
		return nil, apiError(resp)
	}
}

func feedQuery(pos domain.Coords, f domain.Filters) url.Values {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(pos.Lat, 'f', -1, 64))
	q.Set("lng", strconv.FormatFloat(pos.Lng, 'f', -1, 64))
	if f.Type != "" {
		q.Set("type", string(f.Type))
	}
	if f.RadiusKm > 0 {
		q.Set("radius_km", strconv.FormatFloat(f.RadiusKm, 'f', -1, 64))
	}
	if f.Sort != "" {
		q.Set("sort", string(f.Sort))
	}
	return q
}

func (c *apiClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// apiError surfaces the problem+json detail when the API sends one.
func apiError(resp *http.Response) error {
	var p struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err := json.Unmarshal(b, &p); err == nil && p.Title != "" {
		if p.Detail != "" {
			return fmt.Errorf("%s: %s", p.Title, p.Detail)
		}
		return fmt.Errorf("%s", p.Title)
	}
	return fmt.Errorf("api status %d", resp.StatusCode)
}
