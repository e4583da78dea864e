package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"waypoint/internal/app"
	"waypoint/internal/domain"
)

func newDiscoverCommand(deps Dependencies) *cobra.Command {
	discover := &cobra.Command{
		Use:   "discover",
		Short: "Read the combined discover feed.",
	}
	discover.AddCommand(newDiscoverFeedCommand(deps))
	discover.AddCommand(newDiscoverSurpriseCommand(deps))
	return discover
}

// resolveLocation drives the permission flow: flags grant immediately, saved
// config grants as a fallback, and having neither denies with a retry hint.
// All transitions are user-initiated; there is no automatic retry.
func resolveLocation(cmd *cobra.Command, deps Dependencies, lat, lng float64) (*domain.Coords, error) {
	sess := app.NewLocationSession()

	var granted *domain.Coords
	sess.Observe(func(st app.LocationState, c *domain.Coords) {
		if st == app.LocationGranted {
			granted = c
		}
	})

	if err := sess.Request(); err != nil {
		return nil, err
	}

	latSet := cmd.Flags().Changed("lat")
	lngSet := cmd.Flags().Changed("lng")
	switch {
	case latSet && lngSet:
		if err := sess.Grant(domain.Coords{Lat: lat, Lng: lng}); err != nil {
			return nil, err
		}
	case latSet || lngSet:
		_ = sess.Deny("both --lat and --lng are required")
	default:
		cfg, err := deps.Config.Load()
		if err == nil && cfg.Lat != nil && cfg.Lng != nil {
			if err := sess.Grant(domain.Coords{Lat: *cfg.Lat, Lng: *cfg.Lng}); err != nil {
				return nil, err
			}
		} else {
			_ = sess.Deny("no saved location; pass --lat/--lng or run: waypointctl configure --lat <lat> --lng <lng>")
		}
	}

	if sess.State() == app.LocationDenied {
		return nil, fmt.Errorf("location unavailable: %s", sess.Reason())
	}
	return granted, nil
}

// savedRadius reads the configured default radius; 0 when none is saved.
func savedRadius(deps Dependencies) float64 {
	cfg, err := deps.Config.Load()
	if err != nil {
		return 0
	}
	return cfg.RadiusKm
}

func buildFilters(typeValue string, radius float64, sortValue string) (domain.Filters, error) {
	f := domain.DefaultFilters()
	if typeValue != "" && typeValue != "all" {
		it := domain.ItemType(typeValue)
		if !it.Valid() {
			return f, fmt.Errorf("--type must be one of business, tourism, rental, event, all")
		}
		f.Type = it
	}
	if radius > 0 {
		f.RadiusKm = radius
	}
	if sortValue != "" {
		sm := domain.SortMode(sortValue)
		if !sm.Valid() {
			return f, fmt.Errorf("--sort must be one of distance, rating, popular")
		}
		f.Sort = sm
	}
	return f, nil
}

func newDiscoverFeedCommand(deps Dependencies) *cobra.Command {
	var lat, lng, radius float64
	var typeValue, sortValue, cursor string
	var limit int

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Show nearby listings across all four content types.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pos, err := resolveLocation(cmd, deps, lat, lng)
			if err != nil {
				return err
			}
			if radius == 0 {
				radius = savedRadius(deps)
			}
			filters, err := buildFilters(typeValue, radius, sortValue)
			if err != nil {
				return err
			}

			var cur *string
			if cursor != "" {
				cur = &cursor
			}
			page, err := deps.API.Feed(cmd.Context(), *pos, filters, limit, cur)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(page.Items) == 0 {
				_, _ = fmt.Fprintln(out, "No listings in range. Widen --radius or clear --type.")
				return nil
			}
			w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "NAME\tTYPE\tDISTANCE\tTIER\tRATING\tREVIEWS")
			for _, it := range page.Items {
				rating := "-"
				if it.Rating != nil {
					rating = fmt.Sprintf("%.1f", *it.Rating)
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n",
					it.Name, it.Type, it.DistanceLabel, it.DistanceTier, rating, it.ReviewCount)
			}
			_ = w.Flush()
			if page.NextCursor != nil {
				_, _ = fmt.Fprintf(out, "\nMore results: --cursor %s\n", *page.NextCursor)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude of your position.")
	cmd.Flags().Float64Var(&lng, "lng", 0, "Longitude of your position.")
	cmd.Flags().StringVar(&typeValue, "type", "all", "Listing type: business, tourism, rental, event, all.")
	cmd.Flags().Float64Var(&radius, "radius", 0, "Search radius in km.")
	cmd.Flags().StringVar(&sortValue, "sort", "", "Sort mode: distance, rating, popular.")
	cmd.Flags().IntVar(&limit, "limit", 20, "Page size.")
	cmd.Flags().StringVar(&cursor, "cursor", "", "Continue from a previous page.")
	return cmd
}

func newDiscoverSurpriseCommand(deps Dependencies) *cobra.Command {
	var lat, lng, radius float64
	var typeValue string

	cmd := &cobra.Command{
		Use:   "surprise",
		Short: "Pick one quality listing at random and print its page.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pos, err := resolveLocation(cmd, deps, lat, lng)
			if err != nil {
				return err
			}
			if radius == 0 {
				radius = savedRadius(deps)
			}
			filters, err := buildFilters(typeValue, radius, "")
			if err != nil {
				return err
			}

			pick, err := deps.API.Surprise(cmd.Context(), *pos, filters)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if pick == nil {
				_, _ = fmt.Fprintln(out, "Nothing to surprise you with here yet.")
				return nil
			}
			badges := badgeLine(pick.Item)
			_, _ = fmt.Fprintf(out, "%s (%s, %s away)%s\n%s\n",
				pick.Item.Name, pick.Item.Type, pick.Item.DistanceLabel, badges, pick.Path)
			return nil
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude of your position.")
	cmd.Flags().Float64Var(&lng, "lng", 0, "Longitude of your position.")
	cmd.Flags().StringVar(&typeValue, "type", "all", "Listing type: business, tourism, rental, event, all.")
	cmd.Flags().Float64Var(&radius, "radius", 0, "Search radius in km.")
	return cmd
}

func badgeLine(it FeedItem) string {
	var badges []string
	if it.Featured {
		badges = append(badges, "featured")
	}
	if it.Verified {
		badges = append(badges, "verified")
	}
	if len(badges) == 0 {
		return ""
	}
	return " [" + strings.Join(badges, ", ") + "]"
}
