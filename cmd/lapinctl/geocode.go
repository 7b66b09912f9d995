package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/geocode"
)

func newGeocodeCmd() *cobra.Command {
	var baseURL, userAgent string
	cmd := &cobra.Command{
		Use:   "geocode <address>",
		Short: "Look up the coordinates the customer map would use",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base := envOr(baseURL, "GEOCODER_URL")
			if base == "" {
				base = "https://nominatim.openstreetmap.org"
			}
			ua := envOr(userAgent, "GEOCODER_USER_AGENT")
			if ua == "" {
				ua = "lapin-pc-app/1.0"
			}
			g := geocode.NewNominatim(base, ua, nil)
			p, err := g.Lookup(cmd.Context(), strings.Join(args, " "))
			if errors.Is(err, geocode.ErrNoResult) {
				return fmt.Errorf("no match for %q", strings.Join(args, " "))
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.6f,%.6f\n", p.Lat, p.Lng)
			return nil
		},
	}
	cmd.Flags().StringVar(&baseURL, "url", "", "search endpoint (default $GEOCODER_URL)")
	cmd.Flags().StringVar(&userAgent, "user-agent", "", "User-Agent header (default $GEOCODER_USER_AGENT)")
	return cmd
}
