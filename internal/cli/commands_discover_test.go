package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"waypoint/internal/domain"
)

type fakeAPI struct {
	page     FeedPage
	pick     *SurprisePick
	lastPos  domain.Coords
	lastFilt domain.Filters
	calls    int
}

func (f *fakeAPI) Feed(ctx context.Context, pos domain.Coords, filt domain.Filters, limit int, cursor *string) (FeedPage, error) {
	f.calls++
	f.lastPos = pos
	f.lastFilt = filt
	return f.page, nil
}

func (f *fakeAPI) Surprise(ctx context.Context, pos domain.Coords, filt domain.Filters) (*SurprisePick, error) {
	f.calls++
	f.lastPos = pos
	f.lastFilt = filt
	return f.pick, nil
}

func run(t *testing.T, deps Dependencies, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), args, deps, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func testDeps(t *testing.T, api FeedAPI) Dependencies {
	t.Helper()
	return Dependencies{API: api, Config: tempStore(t), Version: "test"}
}

func meters(v float64) *float64 { return &v }

func TestFeedCommand_RendersTable(t *testing.T) {
	api := &fakeAPI{page: FeedPage{Items: []FeedItem{
		{ID: "b1", Type: "business", Name: "Oasis Cafe", Slug: "oasis-cafe",
			DistanceMeters: meters(350), DistanceLabel: "350 m", DistanceTier: "walking", ReviewCount: 12},
	}}}

	stdout, stderr, code := run(t, testDeps(t, api),
		"discover", "feed", "--lat", "6.8013", "--lng", "-58.1551", "--sort", "rating", "--radius", "10")
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, stderr)
	}
	if !strings.Contains(stdout, "Oasis Cafe") || !strings.Contains(stdout, "walking") {
		t.Fatalf("table missing fields:\n%s", stdout)
	}
	if api.lastPos.Lat != 6.8013 || api.lastPos.Lng != -58.1551 {
		t.Fatalf("position not forwarded: %+v", api.lastPos)
	}
	if api.lastFilt.Sort != domain.SortRating || api.lastFilt.RadiusKm != 10 {
		t.Fatalf("filters not forwarded: %+v", api.lastFilt)
	}
}

func TestFeedCommand_EmptyFeedSuggestsWidening(t *testing.T) {
	stdout, _, code := run(t, testDeps(t, &fakeAPI{}),
		"discover", "feed", "--lat", "1", "--lng", "2")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	if !strings.Contains(stdout, "Widen --radius") {
		t.Fatalf("empty state hint missing:\n%s", stdout)
	}
}

func TestFeedCommand_NoLocationIsDeniedWithHint(t *testing.T) {
	api := &fakeAPI{}
	_, stderr, code := run(t, testDeps(t, api), "discover", "feed")
	if code == 0 {
		t.Fatal("expected failure without a location")
	}
	if !strings.Contains(stderr, "location unavailable") || !strings.Contains(stderr, "configure") {
		t.Fatalf("denied message missing retry hint: %s", stderr)
	}
	if api.calls != 0 {
		t.Fatal("API must not be called without coordinates")
	}
}

func TestFeedCommand_FallsBackToSavedLocation(t *testing.T) {
	api := &fakeAPI{}
	deps := testDeps(t, api)
	lat, lng := 6.8013, -58.1551
	if err := deps.Config.Save(Config{Lat: &lat, Lng: &lng}); err != nil {
		t.Fatal(err)
	}

	_, stderr, code := run(t, deps, "discover", "feed")
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, stderr)
	}
	if api.lastPos.Lat != lat || api.lastPos.Lng != lng {
		t.Fatalf("saved location not used: %+v", api.lastPos)
	}
}

func TestFeedCommand_UsesSavedRadiusWhenFlagAbsent(t *testing.T) {
	api := &fakeAPI{}
	deps := testDeps(t, api)
	lat, lng := 6.8013, -58.1551
	if err := deps.Config.Save(Config{Lat: &lat, Lng: &lng, RadiusKm: 12}); err != nil {
		t.Fatal(err)
	}

	if _, stderr, code := run(t, deps, "discover", "feed"); code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, stderr)
	}
	if api.lastFilt.RadiusKm != 12 {
		t.Fatalf("saved radius not applied: %+v", api.lastFilt)
	}

	// An explicit flag still wins over the saved default.
	if _, stderr, code := run(t, deps, "discover", "feed", "--radius", "3"); code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, stderr)
	}
	if api.lastFilt.RadiusKm != 3 {
		t.Fatalf("flag radius not applied: %+v", api.lastFilt)
	}
}

func TestFeedCommand_RejectsHalfCoordinates(t *testing.T) {
	api := &fakeAPI{}
	_, stderr, code := run(t, testDeps(t, api), "discover", "feed", "--lat", "6.8")
	if code == 0 {
		t.Fatal("expected failure for half a coordinate pair")
	}
	if !strings.Contains(stderr, "--lat and --lng") {
		t.Fatalf("stderr: %s", stderr)
	}
}

func TestSurpriseCommand_PrintsPath(t *testing.T) {
	api := &fakeAPI{pick: &SurprisePick{
		Item: FeedItem{Name: "Kaieteur Day Tour", Type: "tourism", DistanceLabel: "2.1 km", Verified: true},
		Path: "/tourism/kaieteur-day-tour",
	}}

	stdout, _, code := run(t, testDeps(t, api),
		"discover", "surprise", "--lat", "6.8013", "--lng", "-58.1551")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	if !strings.Contains(stdout, "/tourism/kaieteur-day-tour") || !strings.Contains(stdout, "verified") {
		t.Fatalf("output:\n%s", stdout)
	}
}

func TestSurpriseCommand_EmptyPoolIsNoop(t *testing.T) {
	stdout, _, code := run(t, testDeps(t, &fakeAPI{}),
		"discover", "surprise", "--lat", "1", "--lng", "2")
	if code != 0 {
		t.Fatal("empty pool must not be an error")
	}
	if !strings.Contains(stdout, "Nothing to surprise") {
		t.Fatalf("output:\n%s", stdout)
	}
}

func TestConfigureCommand_SavesCoordinates(t *testing.T) {
	deps := testDeps(t, &fakeAPI{})
	_, stderr, code := run(t, deps, "configure", "--lat", "6.8013", "--lng", "-58.1551", "--radius", "15")
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, stderr)
	}

	cfg, err := deps.Config.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Lat == nil || *cfg.Lat != 6.8013 || cfg.RadiusKm != 15 {
		t.Fatalf("saved config: %+v", cfg)
	}
}

func TestConfigureCommand_RejectsBadRadius(t *testing.T) {
	_, _, code := run(t, testDeps(t, &fakeAPI{}), "configure", "--radius", "9999")
	if code == 0 {
		t.Fatal("radius beyond the maximum must be rejected")
	}
}
