package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"waypoint/internal/domain"
)

func newConfigureCommand(deps Dependencies) *cobra.Command {
	var lat, lng, radius float64
	var apiBase string

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Save your home coordinates and API endpoint.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := deps.Config.Load()
			if err != nil && !errors.Is(err, ErrConfigNotFound) {
				return err
			}

			if cmd.Flags().Changed("lat") != cmd.Flags().Changed("lng") {
				return fmt.Errorf("--lat and --lng must be set together")
			}
			if cmd.Flags().Changed("lat") {
				if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
					return fmt.Errorf("coordinates out of range")
				}
				cfg.Lat = &lat
				cfg.Lng = &lng
			}
			if cmd.Flags().Changed("radius") {
				if radius < domain.MinRadiusKm || radius > domain.MaxRadiusKm {
					return fmt.Errorf("--radius must be between %g and %g km", domain.MinRadiusKm, domain.MaxRadiusKm)
				}
				cfg.RadiusKm = radius
			}
			if apiBase != "" {
				cfg.APIBase = apiBase
			}

			if err := deps.Config.Save(cfg); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", deps.Config.Path())
			return nil
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude to save as your position.")
	cmd.Flags().Float64Var(&lng, "lng", 0, "Longitude to save as your position.")
	cmd.Flags().Float64Var(&radius, "radius", 0, "Default search radius in km.")
	cmd.Flags().StringVar(&apiBase, "api-base", "", "Waypoint API base URL.")
	return cmd
}
