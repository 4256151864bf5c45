// Package app assembles birdlog's components from configuration.
package app

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/birdlog/internal/commons"
	"github.com/at-ishikawa/birdlog/internal/config"
	"github.com/at-ishikawa/birdlog/internal/database"
	"github.com/at-ishikawa/birdlog/internal/fetch"
	"github.com/at-ishikawa/birdlog/internal/geocode"
	"github.com/at-ishikawa/birdlog/internal/lookup"
	"github.com/at-ishikawa/birdlog/internal/media"
	"github.com/at-ishikawa/birdlog/internal/ratelimit"
	"github.com/at-ishikawa/birdlog/internal/species"
	"github.com/at-ishikawa/birdlog/internal/wikidata"
	"github.com/at-ishikawa/birdlog/internal/wikipedia"
)

// Components is everything a command or the server needs. Close releases the fetchers and the database.
type Components struct {
	Lookup     *lookup.Orchestrator
	Media      *media.Service
	MediaStore media.Store
	Species    species.Repository
	Geocoder   *geocode.Nominatim

	fetchers []*fetch.Fetcher
	db       *sqlx.DB
}

func New(cfg *config.Config) (*Components, error) {
	c := &Components{}

	newFetcher := func(name string, baseURL string, gate ratelimit.Gate) *fetch.Fetcher {
		f := fetch.New(fetchOptions(name, baseURL, gate, cfg.Fetch))
		c.fetchers = append(c.fetchers, f)
		return f
	}

	// one gate per API family, shared by every client of that family
	wikipediaGate := ratelimit.NewLimiter(cfg.Sources.Wikipedia.MinInterval)
	wikidataGate := ratelimit.NewLimiter(cfg.Sources.Wikidata.MinInterval)
	commonsGate := ratelimit.NewLimiter(cfg.Sources.Commons.MinInterval)
	nominatimGate := ratelimit.NewLimiter(cfg.Sources.Nominatim.MinInterval)

	graph := wikidata.NewClient(newFetcher("wikidata", cfg.Sources.Wikidata.BaseURL, wikidataGate))
	swedish := wikipedia.NewClient("sv",
		newFetcher("wikipedia-sv", cfg.Sources.Wikipedia.URLFor("sv"), wikipediaGate), graph)
	english := wikipedia.NewClient("en",
		newFetcher("wikipedia-en", cfg.Sources.Wikipedia.URLFor("en"), wikipediaGate), graph)
	c.Lookup = lookup.New(graph, swedish, english)

	thumbnails := commons.NewClient(newFetcher("commons", cfg.Sources.Commons.BaseURL, commonsGate))
	resolver := media.NewResolver(graph, thumbnails, cfg.Media.ThumbnailWidth, cfg.Media.FullImageWidth)

	c.Geocoder = geocode.NewNominatim(newFetcher("nominatim", cfg.Sources.Nominatim.BaseURL, nominatimGate))

	switch cfg.Storage.Type {
	case config.StorageDatabase:
		db, err := database.Open(cfg.Database)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("database.Open() > %w", err)
		}
		c.db = db
		c.MediaStore = media.NewDBStore(db)
		c.Species = species.NewDBRepository(db)
	default:
		c.MediaStore = media.NewFileStore(cfg.Storage.MediaDirectory())
		c.Species = species.NewFileRepository(cfg.Storage.SpeciesFile())
	}
	slog.Default().Debug("storage configured", "type", cfg.Storage.Type)

	c.Media = media.NewService(resolver, media.WithStore(c.MediaStore))
	return c, nil
}

func fetchOptions(name, baseURL string, gate ratelimit.Gate, cfg config.FetchConfig) fetch.Options {
	return fetch.Options{
		Name:        name,
		BaseURL:     baseURL,
		UserAgent:   cfg.UserAgent,
		Timeout:     cfg.Timeout,
		Gate:        gate,
		MaxAttempts: cfg.MaxAttempts,
		BaseDelay:   cfg.BaseDelay,
		MaxDelay:    cfg.MaxDelay,
		Breaker: fetch.BreakerSettings{
			Disabled:            !cfg.Breaker.Enabled,
			ConsecutiveFailures: cfg.Breaker.ConsecutiveFailures,
			Timeout:             cfg.Breaker.Timeout,
		},
	}
}

func (c *Components) Close() error {
	var errs []error
	for _, f := range c.fetchers {
		if err := f.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s > %w", f.Name(), err))
		}
	}
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("db.Close() > %w", err))
		}
	}
	return errors.Join(errs...)
}
