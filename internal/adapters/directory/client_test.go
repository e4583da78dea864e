package directory_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"waypoint/internal/adapters/directory"
	"waypoint/internal/domain"
)

func TestClient_ListListings_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			// two transient failures
			w.WriteHeader(500)
		default:
			w.WriteHeader(200)
			_ = json.NewEncoder(w).Encode([]map[string]any{{"id": "b1", "name": "One"}})
		}
	}))
	defer ts.Close()

	cl, err := directory.New(ts.URL, "test-key", 100) // high RPS for tests
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	got, err := cl.ListListings(ctx, domain.TypeBusiness, 50)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 1 || got[0]["id"] != "b1" {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if atomic.LoadInt32(&hits) < 3 {
		t.Fatalf("expected at least 3 calls due to retries, got %d", hits)
	}
}

func TestClient_ListListings_WrappedPayload(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"id": "ev-1", "name": "Mash"}},
		})
	}))
	defer ts.Close()

	cl, _ := directory.New(ts.URL, "test-key", 100)
	got, err := cl.ListListings(context.Background(), domain.TypeEvent, 50)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 1 || got[0]["name"] != "Mash" {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestClient_ListListings_Sentinels(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, domain.ErrNotFound},
		{http.StatusUnauthorized, domain.ErrUnauthorized},
		{http.StatusForbidden, domain.ErrForbidden},
	}
	for _, c := range cases {
		c := c
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(c.status)
		}))
		cl, _ := directory.New(ts.URL, "test-key", 100)
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		_, err := cl.ListListings(ctx, domain.TypeRental, 10)
		cancel()
		ts.Close()
		if !errors.Is(err, c.want) {
			t.Fatalf("status %d: got %v, want %v", c.status, err, c.want)
		}
	}
}

func TestClient_RequiresKey(t *testing.T) {
	if _, err := directory.New("http://localhost", "", 5); err == nil {
		t.Fatal("expected error for empty API key")
	}
}

func TestClient_SendsAuthHeaders(t *testing.T) {
	var apikey, bearer string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apikey = r.Header.Get("apikey")
		bearer = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode([]map[string]any{})
	}))
	defer ts.Close()

	cl, _ := directory.New(ts.URL, "secret", 100)
	if _, err := cl.ListListings(context.Background(), domain.TypeTourism, 10); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if apikey != "secret" || bearer != "Bearer secret" {
		t.Fatalf("auth headers: apikey=%q authorization=%q", apikey, bearer)
	}
}
