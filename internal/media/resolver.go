// Package media finds a photo and an encyclopedia link for a species and memoizes the result.
package media

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/at-ishikawa/birdlog/internal/taxon"
	"github.com/at-ishikawa/birdlog/internal/wikidata"
	"github.com/at-ishikawa/birdlog/internal/wikipedia"
)

const (
	DefaultThumbnailWidth = 100
	DefaultFullImageWidth = 800

	searchLanguage = "en"
	searchLimit    = 5
)

// Info is the media found for a species. Empty fields mean not found.
type Info struct {
	ImageURL     string `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	FullImageURL string `json:"full_image_url,omitempty" yaml:"full_image_url,omitempty"`
	WikiURL      string `json:"wiki_url,omitempty" yaml:"wiki_url,omitempty"`
}

// Found reports whether an image or an article link is present.
func (i Info) Found() bool {
	return i.ImageURL != "" || i.WikiURL != ""
}

type EntitySource interface {
	Search(ctx context.Context, term, language string, limit int) ([]string, error)
	MediaEntity(ctx context.Context, id string) (*wikidata.Entity, error)
}

type Thumbnailer interface {
	ThumbnailURL(ctx context.Context, fileName string, width int) (string, error)
}

// Resolver looks up media for a single name without caching.
type Resolver struct {
	entities       EntitySource
	thumbnails     Thumbnailer
	thumbnailWidth int
	fullImageWidth int
}

func NewResolver(entities EntitySource, thumbnails Thumbnailer, thumbnailWidth, fullImageWidth int) *Resolver {
	if thumbnailWidth <= 0 {
		thumbnailWidth = DefaultThumbnailWidth
	}
	if fullImageWidth <= 0 {
		fullImageWidth = DefaultFullImageWidth
	}
	return &Resolver{
		entities:       entities,
		thumbnails:     thumbnails,
		thumbnailWidth: thumbnailWidth,
		fullImageWidth: fullImageWidth,
	}
}

// Resolve searches Wikidata for name and returns the media of the first ranked entity that has any.
// Entities whose P225 disagrees with name are skipped; entities without P225 are considered.
func (r *Resolver) Resolve(ctx context.Context, name string) (Info, error) {
	ids, err := r.entities.Search(ctx, name, searchLanguage, searchLimit)
	if err != nil {
		return Info{}, err
	}

	for _, id := range ids {
		entity, err := r.entities.MediaEntity(ctx, id)
		if err != nil {
			slog.Default().Debug("skipping media candidate",
				"id", id,
				"name", name,
				"error", err,
			)
			continue
		}
		if entity == nil {
			continue
		}
		if taxonName := entity.TaxonName(); taxonName != "" && !taxon.EqualLatin(taxonName, name) {
			continue
		}

		info := Info{
			WikiURL: wikiURL(entity),
		}
		if file := entity.ImageFile(); file != "" {
			info.ImageURL, info.FullImageURL = r.imageURLs(ctx, file)
		}
		if info.Found() {
			return info, nil
		}
	}
	return Info{}, nil
}

// imageURLs resolves both sizes concurrently. A size that cannot be resolved is left empty.
func (r *Resolver) imageURLs(ctx context.Context, file string) (string, string) {
	var thumbnail, full string
	var eg errgroup.Group
	eg.Go(func() error {
		url, err := r.thumbnails.ThumbnailURL(ctx, file, r.thumbnailWidth)
		if err != nil {
			return fmt.Errorf("thumbnails.ThumbnailURL(%d) > %w", r.thumbnailWidth, err)
		}
		thumbnail = url
		return nil
	})
	eg.Go(func() error {
		url, err := r.thumbnails.ThumbnailURL(ctx, file, r.fullImageWidth)
		if err != nil {
			return fmt.Errorf("thumbnails.ThumbnailURL(%d) > %w", r.fullImageWidth, err)
		}
		full = url
		return nil
	})
	if err := eg.Wait(); err != nil {
		slog.Default().Debug("failed to resolve the thumbnail",
			"file", file,
			"error", err,
		)
	}
	return thumbnail, full
}

func wikiURL(entity *wikidata.Entity) string {
	if title := entity.SitelinkTitle("svwiki"); title != "" {
		return wikipedia.ArticleURL("sv", title)
	}
	if title := entity.SitelinkTitle("enwiki"); title != "" {
		return wikipedia.ArticleURL("en", title)
	}
	return ""
}
