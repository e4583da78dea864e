package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"waypoint/internal/domain"
)

func TestAPIClient_FeedQuery(t *testing.T) {
	var gotQuery map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		_ = json.NewEncoder(w).Encode(FeedPage{Items: []FeedItem{{ID: "b1", Name: "One"}}})
	}))
	defer ts.Close()

	c := NewAPIClient(ts.URL)
	cursor := "20"
	page, err := c.Feed(context.Background(),
		domain.Coords{Lat: 6.8013, Lng: -58.1551},
		domain.Filters{Type: domain.TypeBusiness, RadiusKm: 10, Sort: domain.SortPopular},
		5, &cursor)
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != "b1" {
		t.Fatalf("page: %+v", page)
	}

	want := map[string]string{
		"lat": "6.8013", "lng": "-58.1551",
		"type": "business", "radius_km": "10", "sort": "popular",
		"limit": "5", "cursor": "20",
	}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Errorf("query %s = %q, want %q", k, gotQuery[k], v)
		}
	}
}

func TestAPIClient_SurpriseNoContent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	pick, err := NewAPIClient(ts.URL).Surprise(context.Background(), domain.Coords{Lat: 1, Lng: 2}, domain.Filters{})
	if err != nil {
		t.Fatalf("surprise: %v", err)
	}
	if pick != nil {
		t.Fatalf("204 must map to no pick, got %+v", pick)
	}
}

func TestAPIClient_ProblemDetailSurfaces(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"title":  "Invalid filter",
			"detail": "sort must be one of distance, rating, popular",
		})
	}))
	defer ts.Close()

	_, err := NewAPIClient(ts.URL).Feed(context.Background(), domain.Coords{Lat: 1, Lng: 2}, domain.Filters{}, 0, nil)
	if err == nil || err.Error() != "Invalid filter: sort must be one of distance, rating, popular" {
		t.Fatalf("error = %v", err)
	}
}
