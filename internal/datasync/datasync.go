// Package datasync moves the media cache and species list between a store and a YAML file.
package datasync

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/birdlog/internal/media"
	"github.com/at-ishikawa/birdlog/internal/species"
)

// ExportData is the YAML document written by Export and read by Import.
type ExportData struct {
	Media   []media.Entry     `yaml:"media,omitempty"`
	Species []species.Species `yaml:"species,omitempty"`
}

// ImportResult tracks counts for each import operation.
type ImportResult struct {
	MediaNew       int
	MediaSkipped   int
	MediaUpdated   int
	SpeciesNew     int
	SpeciesSkipped int
	SpeciesUpdated int
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun         bool
	UpdateExisting bool
}

// Importer writes exported data into a store.
type Importer struct {
	mediaStore  media.Store
	speciesRepo species.Repository
	writer      io.Writer
}

func NewImporter(mediaStore media.Store, speciesRepo species.Repository, writer io.Writer) *Importer {
	return &Importer{
		mediaStore:  mediaStore,
		speciesRepo: speciesRepo,
		writer:      writer,
	}
}

func (imp *Importer) Import(ctx context.Context, data *ExportData, opts ImportOptions) (*ImportResult, error) {
	var result ImportResult
	if err := imp.importMedia(ctx, data.Media, opts, &result); err != nil {
		return nil, err
	}
	if err := imp.importSpecies(ctx, data.Species, opts, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (imp *Importer) importMedia(ctx context.Context, entries []media.Entry, opts ImportOptions, result *ImportResult) error {
	for _, entry := range entries {
		if entry.Key == "" || !entry.Info().Found() {
			fmt.Fprintf(imp.writer, "  [SKIP]  media entry %q has no media\n", entry.Key)
			result.MediaSkipped++
			continue
		}

		existing, err := imp.mediaStore.FindByKey(ctx, entry.Key)
		if err != nil {
			return fmt.Errorf("FindByKey(%s) > %w", entry.Key, err)
		}
		if existing != nil && !opts.UpdateExisting {
			result.MediaSkipped++
			continue
		}

		if !opts.DryRun {
			if err := imp.mediaStore.Upsert(ctx, &entry); err != nil {
				return fmt.Errorf("Upsert(%s) > %w", entry.Key, err)
			}
		}
		if existing != nil {
			fmt.Fprintf(imp.writer, "  [UPDATE]  media %q\n", entry.Key)
			result.MediaUpdated++
			continue
		}
		fmt.Fprintf(imp.writer, "  [NEW]  media %q\n", entry.Key)
		result.MediaNew++
	}
	return nil
}

func (imp *Importer) importSpecies(ctx context.Context, list []species.Species, opts ImportOptions, result *ImportResult) error {
	for _, s := range list {
		if s.ID == "" || s.Name == "" {
			fmt.Fprintf(imp.writer, "  [SKIP]  species %q (%s) has no id or name\n", s.Name, s.ID)
			result.SpeciesSkipped++
			continue
		}

		existing, err := imp.speciesRepo.FindByID(ctx, s.ID)
		if err != nil {
			return fmt.Errorf("FindByID(%s) > %w", s.ID, err)
		}
		if existing != nil && (!opts.UpdateExisting || *existing == s) {
			result.SpeciesSkipped++
			continue
		}

		if !opts.DryRun {
			if err := imp.speciesRepo.Save(ctx, s); err != nil {
				return fmt.Errorf("Save(%s) > %w", s.ID, err)
			}
		}
		if existing != nil {
			fmt.Fprintf(imp.writer, "  [UPDATE]  species %q (%s)\n", s.Name, s.LatinName)
			result.SpeciesUpdated++
			continue
		}
		fmt.Fprintf(imp.writer, "  [NEW]  species %q (%s)\n", s.Name, s.LatinName)
		result.SpeciesNew++
	}
	return nil
}

// Exporter reads everything from a store.
type Exporter struct {
	mediaStore  media.Store
	speciesRepo species.Repository
}

func NewExporter(mediaStore media.Store, speciesRepo species.Repository) *Exporter {
	return &Exporter{
		mediaStore:  mediaStore,
		speciesRepo: speciesRepo,
	}
}

func (e *Exporter) Export(ctx context.Context) (*ExportData, error) {
	entries, err := e.mediaStore.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("mediaStore.FindAll() > %w", err)
	}

	list, err := e.speciesRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("speciesRepo.FindAll() > %w", err)
	}

	return &ExportData{
		Media:   entries,
		Species: list,
	}, nil
}

func WriteYAML(path string, data *ExportData) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("os.Create(%s) > %w", path, err)
	}
	defer func() { _ = f.Close() }()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("yaml.Encoder.Encode > %w", err)
	}
	return enc.Close()
}

func ReadYAML(path string) (*ExportData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os.Open(%s) > %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var data ExportData
	if err := yaml.NewDecoder(f).Decode(&data); err != nil {
		return nil, fmt.Errorf("yaml.Decoder.Decode(%s) > %w", path, err)
	}
	return &data, nil
}
