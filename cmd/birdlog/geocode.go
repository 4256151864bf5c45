package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newGeocodeCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "geocode",
		Short: "Resolve observation places",
	}
	command.AddCommand(newGeocodeSearchCommand(), newGeocodeReverseCommand())
	return command
}

func newGeocodeSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search places by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			components, err := loadComponents()
			if err != nil {
				return err
			}
			defer func() { _ = components.Close() }()

			query := strings.Join(args, " ")
			places, err := components.Geocoder.Search(cmd.Context(), query)
			if err != nil {
				return fmt.Errorf("Geocoder.Search(%s) > %w", query, err)
			}
			if len(places) == 0 {
				_, _ = notFoundColor.Fprintf(cmd.ErrOrStderr(), "No place found for %q\n", query)
				return fmt.Errorf("place %q > %w", query, errNotFound)
			}

			return render(cmd.OutOrStdout(), places, func(w io.Writer) error {
				for _, p := range places {
					_, _ = fmt.Fprintf(w, "%s, %s  %s\n", p.Lat, p.Lon, p.DisplayName)
				}
				return nil
			})
		},
	}
}

func newGeocodeReverseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reverse <lat> <lng>",
		Short: "Name the place at a coordinate",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid latitude %q > %w", args[0], err)
			}
			lng, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid longitude %q > %w", args[1], err)
			}

			components, err := loadComponents()
			if err != nil {
				return err
			}
			defer func() { _ = components.Close() }()

			location, err := components.Geocoder.Reverse(cmd.Context(), lat, lng)
			if err != nil {
				return fmt.Errorf("Geocoder.Reverse(%v, %v) > %w", lat, lng, err)
			}
			return render(cmd.OutOrStdout(), location, func(w io.Writer) error {
				printField(w, "Place", location.Name)
				printField(w, "Lat", strconv.FormatFloat(location.Lat, 'f', -1, 64))
				printField(w, "Lng", strconv.FormatFloat(location.Lng, 'f', -1, 64))
				return nil
			})
		},
	}
}
