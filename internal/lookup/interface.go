package lookup

import (
	"context"

	"github.com/at-ishikawa/birdlog/internal/taxon"
)

//go:generate mockgen -source=interface.go -destination=../mocks/lookup/mock_resolver.go -package=mock_lookup

// Resolver resolves a free-text bird name. nil means the name could not be resolved.
type Resolver interface {
	LookupBird(ctx context.Context, term string) *taxon.Name
}

var _ Resolver = (*Orchestrator)(nil)
