package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/birdlog/internal/datasync"
)

func newCacheCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "cache",
		Short: "Export and import the media cache and species list",
	}
	command.AddCommand(newCacheExportCommand(), newCacheImportCommand())
	return command
}

func newCacheExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write the media cache and species list to a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			components, err := loadComponents()
			if err != nil {
				return err
			}
			defer func() { _ = components.Close() }()

			data, err := datasync.NewExporter(components.MediaStore, components.Species).Export(cmd.Context())
			if err != nil {
				return fmt.Errorf("Export() > %w", err)
			}
			if err := datasync.WriteYAML(args[0], data); err != nil {
				return fmt.Errorf("datasync.WriteYAML(%s) > %w", args[0], err)
			}
			_, _ = foundColor.Fprintf(cmd.OutOrStdout(), "Exported %d media entries and %d species to %s\n", len(data.Media), len(data.Species), args[0])
			return nil
		},
	}
}

func newCacheImportCommand() *cobra.Command {
	var opts datasync.ImportOptions

	command := &cobra.Command{
		Use:   "import <file>",
		Short: "Load a YAML export into the configured storage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := datasync.ReadYAML(args[0])
			if err != nil {
				return fmt.Errorf("datasync.ReadYAML(%s) > %w", args[0], err)
			}

			components, err := loadComponents()
			if err != nil {
				return err
			}
			defer func() { _ = components.Close() }()

			w := cmd.OutOrStdout()
			result, err := datasync.NewImporter(components.MediaStore, components.Species, w).Import(cmd.Context(), data, opts)
			if err != nil {
				return fmt.Errorf("Import() > %w", err)
			}

			if opts.DryRun {
				_, _ = notFoundColor.Fprintln(w, "Dry run: nothing was written")
			}
			_, _ = fmt.Fprintf(w, "Media:   %d new, %d updated, %d skipped\n", result.MediaNew, result.MediaUpdated, result.MediaSkipped)
			_, _ = fmt.Fprintf(w, "Species: %d new, %d updated, %d skipped\n", result.SpeciesNew, result.SpeciesUpdated, result.SpeciesSkipped)
			return nil
		},
	}
	command.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Report what would change without writing")
	command.Flags().BoolVar(&opts.UpdateExisting, "update-existing", false, "Overwrite entries that differ")
	return command
}
