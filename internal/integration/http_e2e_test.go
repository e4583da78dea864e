//go:build integration || !unit

package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"

	httpserver "waypoint/internal/adapters/http_server"
	redisad "waypoint/internal/adapters/redis"
	"waypoint/internal/app"
	"waypoint/internal/domain"
	mysqlrepo "waypoint/internal/storage/mysql"
)

// ---------- helpers ----------
func pstr(s string) *string     { return &s }
func pfloat(f float64) *float64 { return &f }

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/sql)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)
	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

// ---------- the test ----------
func TestHTTP_EndToEnd_DiscoverFeed(t *testing.T) {
	// Start isolated MySQL container
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=waypoint",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "waypoint")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	// Apply the real migrations
	applyMigrations(t, db)

	repo := mysqlrepo.New(db)
	ctx := context.Background()

	// Seed around Georgetown: one cafe in town, one far, one without coords.
	seed := []domain.Listing{
		{
			ID: "b-1", Type: domain.TypeBusiness, Name: "Oasis Cafe", Slug: "oasis-cafe",
			Rating: pfloat(4.5), ReviewCount: 12, Featured: true,
			Lat: pfloat(6.8050), Lng: pfloat(-58.1551),
			Category: pstr("Restaurant"), RawJSON: []byte(`{}`),
		},
		{
			ID: "t-1", Type: domain.TypeTourism, Name: "Kaieteur Falls Tour", Slug: "kaieteur-falls-tour",
			Rating: pfloat(4.9), Verified: true,
			Lat: pfloat(5.1753), Lng: pfloat(-59.4810),
			RawJSON: []byte(`{}`),
		},
		{
			ID: "e-1", Type: domain.TypeEvent, Name: "Mystery Night", Slug: "mystery-night",
			RawJSON: []byte(`{}`),
		},
	}
	for _, l := range seed {
		if err := repo.UpsertListing(ctx, l); err != nil {
			t.Fatalf("seed %s: %v", l.ID, err)
		}
	}

	// Real cache and real router, miniredis in place of a second container.
	mr := miniredis.RunT(t)
	cache := redisad.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	svc := app.NewQueryService(repo, cache, 5*time.Minute)
	srv := httpserver.New()
	srv.MountHandlers(&httpserver.Handlers{Q: svc})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	// Default 25 km radius keeps the in-town cafe and drops the falls
	// and the coordinate-less event.
	res, err := http.Get(ts.URL + "/v1/discover?lat=6.8013&lng=-58.1551")
	if err != nil {
		t.Fatalf("GET feed: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("feed status %d", res.StatusCode)
	}

	var feed struct {
		Items []struct {
			ID             string   `json:"id"`
			DistanceMeters *float64 `json:"distance_meters"`
			DistanceTier   string   `json:"distance_tier"`
			Path           string   `json:"path"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&feed); err != nil {
		t.Fatalf("decode feed: %v", err)
	}
	if len(feed.Items) != 1 || feed.Items[0].ID != "b-1" {
		t.Fatalf("feed items: %+v", feed.Items)
	}
	got := feed.Items[0]
	if got.DistanceMeters == nil || *got.DistanceMeters > 2000 {
		t.Fatalf("distance: %+v", got.DistanceMeters)
	}
	if got.DistanceTier != "walking" || got.Path != "/businesses/oasis-cafe" {
		t.Fatalf("tier %q path %q", got.DistanceTier, got.Path)
	}

	// Surprise over the default radius: the cafe is the only listing that
	// both clears the quality bar and sits inside the circle.
	resS, err := http.Get(ts.URL + "/v1/discover/surprise?lat=6.8013&lng=-58.1551")
	if err != nil {
		t.Fatalf("GET surprise: %v", err)
	}
	defer resS.Body.Close()
	if resS.StatusCode != http.StatusOK {
		t.Fatalf("surprise status %d", resS.StatusCode)
	}
	var pick struct {
		Item struct {
			ID string `json:"id"`
		} `json:"item"`
		Path string `json:"path"`
	}
	if err := json.NewDecoder(resS.Body).Decode(&pick); err != nil {
		t.Fatalf("decode surprise: %v", err)
	}
	if pick.Item.ID != "b-1" || pick.Path != "/businesses/oasis-cafe" {
		t.Fatalf("surprise pick: %+v", pick)
	}

	// The second identical feed request must ride the cache, not MySQL;
	// closing the pool proves no query reaches the database.
	if err := db.Close(); err != nil {
		t.Fatalf("close db: %v", err)
	}
	res2, err := http.Get(ts.URL + "/v1/discover?lat=6.8013&lng=-58.1551")
	if err != nil {
		t.Fatalf("GET cached feed: %v", err)
	}
	defer res2.Body.Close()
	if res2.StatusCode != http.StatusOK {
		t.Fatalf("cached feed status %d", res2.StatusCode)
	}
}
