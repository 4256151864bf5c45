package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/birdlog/internal/app"
	"github.com/at-ishikawa/birdlog/internal/assets"
	"github.com/at-ishikawa/birdlog/internal/pdf"
	"github.com/at-ishikawa/birdlog/internal/species"
	"github.com/at-ishikawa/birdlog/internal/statistics"
	"github.com/at-ishikawa/birdlog/internal/taxon"
)

func newSpeciesCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "species",
		Short: "Manage the species list and observations",
	}
	command.AddCommand(
		newSpeciesAddCommand(),
		newSpeciesListCommand(),
		newSpeciesObserveCommand(),
		newSpeciesObservationsCommand(),
		newSpeciesStatsCommand(),
		newSpeciesReportCommand(),
	)
	return command
}

func newSpeciesAddCommand() *cobra.Command {
	var (
		name     string
		latin    string
		noLookup bool
	)

	command := &cobra.Command{
		Use:   "add <term>",
		Short: "Look up a bird and add it to the species list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			components, err := loadComponents()
			if err != nil {
				return err
			}
			defer func() { _ = components.Close() }()

			term := strings.Join(args, " ")
			var found *taxon.Name
			if !noLookup {
				found = components.Lookup.LookupBird(cmd.Context(), term)
			}
			draft := species.Draft(term, found)
			if name != "" {
				draft.Swedish = name
			}
			if latin != "" {
				draft.Latin = latin
			}
			if draft.Latin != "" && !taxon.IsValidLatinName(draft.Latin) {
				return fmt.Errorf("invalid latin name %q", draft.Latin)
			}

			s, err := species.New(draft.Swedish, draft.Latin)
			if err != nil {
				return fmt.Errorf("species.New() > %w", err)
			}

			ctx := cmd.Context()
			existing, err := components.Species.FindByID(ctx, s.ID)
			if err != nil {
				return fmt.Errorf("FindByID(%s) > %w", s.ID, err)
			}
			if existing != nil && *existing == s {
				_, _ = notFoundColor.Fprintf(cmd.OutOrStdout(), "%s (%s) is already on the list\n", s.Name, s.LatinName)
				return nil
			}
			if err := components.Species.Save(ctx, s); err != nil {
				return fmt.Errorf("Save(%s) > %w", s.ID, err)
			}

			return render(cmd.OutOrStdout(), s, func(w io.Writer) error {
				_, _ = foundColor.Fprintf(w, "Added %s\n", s.ID)
				printField(w, "Swedish", s.Name)
				printField(w, "Latin", s.LatinName)
				return nil
			})
		},
	}
	command.Flags().StringVar(&name, "name", "", "Swedish name, overriding the lookup")
	command.Flags().StringVar(&latin, "latin", "", "Latin name, overriding the lookup")
	command.Flags().BoolVar(&noLookup, "no-lookup", false, "Add the term as typed without a lookup")
	return command
}

func newSpeciesListCommand() *cobra.Command {
	var filter string

	command := &cobra.Command{
		Use:   "list",
		Short: "List species sorted by Swedish name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			components, err := loadComponents()
			if err != nil {
				return err
			}
			defer func() { _ = components.Close() }()

			list, err := components.Species.FindAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("FindAll() > %w", err)
			}
			list = species.Filter(list, filter)

			return render(cmd.OutOrStdout(), list, func(w io.Writer) error {
				for _, s := range list {
					_, _ = fmt.Fprintf(w, "%-30s %s\n", s.Name, s.LatinName)
				}
				return nil
			})
		},
	}
	command.Flags().StringVar(&filter, "filter", "", "Only species whose Swedish or Latin name contains this")
	return command
}

func newSpeciesObserveCommand() *cobra.Command {
	var (
		observation species.Observation
		place       string
		lat, lng    float64
	)

	command := &cobra.Command{
		Use:   "observe <species id>",
		Short: "Record an observation of a species on the list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			components, err := loadComponents()
			if err != nil {
				return err
			}
			defer func() { _ = components.Close() }()

			ctx := cmd.Context()
			s, err := components.Species.FindByID(ctx, args[0])
			if err != nil {
				return fmt.Errorf("FindByID(%s) > %w", args[0], err)
			}
			if s == nil {
				return fmt.Errorf("species %q > %w", args[0], errNotFound)
			}

			observation.SpeciesID = s.ID
			if observation.Date == "" {
				observation.Date = time.Now().Format(species.DateLayout)
			}
			hasCoordinates := cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng")
			location, err := resolveLocation(cmd, components, place, lat, lng, hasCoordinates)
			if err != nil {
				return err
			}
			observation.Location = location

			if err := components.Species.AddObservation(ctx, observation); err != nil {
				return fmt.Errorf("AddObservation() > %w", err)
			}
			_, _ = foundColor.Fprintf(cmd.OutOrStdout(), "Recorded %s on %s\n", s.Name, observation.Date)
			return nil
		},
	}
	flags := command.Flags()
	flags.BoolVar(&observation.SeenSwe, "seen-swe", false, "Seen in Sweden")
	flags.BoolVar(&observation.SeenInt, "seen-int", false, "Seen abroad")
	flags.BoolVar(&observation.HeardSwe, "heard-swe", false, "Heard in Sweden")
	flags.BoolVar(&observation.HeardInt, "heard-int", false, "Heard abroad")
	flags.BoolVar(&observation.RingedSwe, "ringed-swe", false, "Ringed in Sweden")
	flags.BoolVar(&observation.RingedInt, "ringed-int", false, "Ringed abroad")
	flags.StringVar(&observation.Date, "date", "", "Observation date as YYYY-MM-DD, today when empty")
	flags.StringVar(&observation.Comment, "comment", "", "Free-text comment")
	flags.StringVar(&place, "place", "", "Place name to geocode")
	flags.Float64Var(&lat, "lat", 0, "Latitude")
	flags.Float64Var(&lng, "lng", 0, "Longitude")
	command.MarkFlagsMutuallyExclusive("place", "lat")
	command.MarkFlagsMutuallyExclusive("place", "lng")
	command.MarkFlagsRequiredTogether("lat", "lng")
	return command
}

// resolveLocation geocodes place, or names the coordinates. A failed reverse lookup keeps the bare coordinates.
func resolveLocation(cmd *cobra.Command, components *app.Components, place string, lat, lng float64, hasCoordinates bool) (*species.Location, error) {
	ctx := cmd.Context()
	switch {
	case place != "":
		places, err := components.Geocoder.Search(ctx, place)
		if err != nil {
			return nil, fmt.Errorf("Geocoder.Search(%s) > %w", place, err)
		}
		if len(places) == 0 {
			return nil, fmt.Errorf("place %q > %w", place, errNotFound)
		}
		location, err := places[0].Location()
		if err != nil {
			return nil, err
		}
		return &location, nil
	case hasCoordinates:
		location, err := components.Geocoder.Reverse(ctx, lat, lng)
		if err != nil {
			slog.Default().Warn("reverse geocoding failed", "lat", lat, "lng", lng, "error", err)
		}
		return &location, nil
	default:
		return nil, nil
	}
}

func newSpeciesObservationsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "observations",
		Short: "List observations, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			components, err := loadComponents()
			if err != nil {
				return err
			}
			defer func() { _ = components.Close() }()

			ctx := cmd.Context()
			observations, err := components.Species.FindObservations(ctx)
			if err != nil {
				return fmt.Errorf("FindObservations() > %w", err)
			}
			list, err := components.Species.FindAll(ctx)
			if err != nil {
				return fmt.Errorf("FindAll() > %w", err)
			}
			enriched := species.Enrich(observations, list)

			return render(cmd.OutOrStdout(), enriched, func(w io.Writer) error {
				for _, o := range enriched {
					name := o.SpeciesID
					if o.Species != nil {
						name = o.Species.Name
					}
					place := ""
					if o.Location != nil {
						place = o.Location.Name
					}
					_, _ = fmt.Fprintf(w, "%-10s %-30s %-20s %s\n", o.Date, name, observationKinds(o.Observation), place)
				}
				return nil
			})
		},
	}
}

func observationKinds(o species.Observation) string {
	var kinds []string
	for _, kind := range []struct {
		label string
		set   bool
	}{
		{"seen-swe", o.SeenSwe},
		{"seen-int", o.SeenInt},
		{"heard-swe", o.HeardSwe},
		{"heard-int", o.HeardInt},
		{"ringed-swe", o.RingedSwe},
		{"ringed-int", o.RingedInt},
	} {
		if kind.set {
			kinds = append(kinds, kind.label)
		}
	}
	return strings.Join(kinds, ",")
}

func newSpeciesStatsCommand() *cobra.Command {
	var year, month int

	command := &cobra.Command{
		Use:   "stats",
		Short: "Show observations, species and lifers per month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if month != 0 && year == 0 {
				return fmt.Errorf("--month requires --year")
			}

			components, err := loadComponents()
			if err != nil {
				return err
			}
			defer func() { _ = components.Close() }()

			observations, err := components.Species.FindObservations(cmd.Context())
			if err != nil {
				return fmt.Errorf("FindObservations() > %w", err)
			}
			result := statistics.CalculateStatistics(observations, year, month)

			return render(cmd.OutOrStdout(), result, func(w io.Writer) error {
				_, _ = labelColor.Fprintf(w, "%-8s %12s %8s %8s %7s\n", "Period", "Observations", "Species", "Sweden", "Lifers")
				for _, p := range result.Periods {
					_, _ = fmt.Fprintf(w, "%-8s %12d %8d %8d %7d\n", p.Period, p.Observations, p.Species, p.SpeciesSweden, p.Lifers)
				}
				a := result.Aggregate
				_, _ = fmt.Fprintf(w, "%-8s %12d %8d %8d %7d\n", "Total", a.Observations, a.Species, a.SpeciesSweden, a.Lifers)
				return nil
			})
		},
	}
	command.Flags().IntVar(&year, "year", 0, "Only this year")
	command.Flags().IntVar(&month, "month", 0, "Only this month of --year")
	return command
}

func newSpeciesReportCommand() *cobra.Command {
	var (
		year         int
		templatePath string
		toPDF        bool
	)

	command := &cobra.Command{
		Use:   "report <output.md>",
		Short: "Write the species list as a markdown report, optionally also as PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			components, err := loadComponents()
			if err != nil {
				return err
			}
			defer func() { _ = components.Close() }()

			ctx := cmd.Context()
			list, err := components.Species.FindAll(ctx)
			if err != nil {
				return fmt.Errorf("FindAll() > %w", err)
			}
			observations, err := components.Species.FindObservations(ctx)
			if err != nil {
				return fmt.Errorf("FindObservations() > %w", err)
			}

			var buf bytes.Buffer
			if err := assets.WriteSpeciesReport(&buf, templatePath, assets.NewSpeciesReport(list, observations, year)); err != nil {
				return fmt.Errorf("assets.WriteSpeciesReport() > %w", err)
			}

			outputPath := args[0]
			if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
				return fmt.Errorf("os.WriteFile(%s) > %w", outputPath, err)
			}
			_, _ = foundColor.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outputPath)

			if !toPDF {
				return nil
			}
			pdfPath := pdf.PathFor(outputPath)
			if err := pdf.Render(buf.Bytes(), pdfPath); err != nil {
				return fmt.Errorf("pdf.Render() > %w", err)
			}
			_, _ = foundColor.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", pdfPath)
			return nil
		},
	}
	command.Flags().IntVar(&year, "year", 0, "Only species observed this year")
	command.Flags().StringVar(&templatePath, "template", "", "Go text/template file replacing the built-in report layout")
	command.Flags().BoolVar(&toPDF, "pdf", false, "Also write a PDF next to the markdown file")
	return command
}
