// Package lookup resolves a free-text bird name to its Swedish and Latin names.
package lookup

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/at-ishikawa/birdlog/internal/metrics"
	"github.com/at-ishikawa/birdlog/internal/taxon"
)

// Strategy is one way of resolving a term. Strategies are tried in order and the first accepted
// result wins.
type Strategy struct {
	Name string
	// Applies reports whether the strategy should run for term. nil means always.
	Applies func(term string) bool
	Resolve func(ctx context.Context, term string) (taxon.Name, bool, error)
	// Accept reports whether a found name is good enough to stop. nil accepts any non-empty name.
	Accept func(name taxon.Name) bool
}

func (s Strategy) applies(term string) bool {
	return s.Applies == nil || s.Applies(term)
}

func (s Strategy) accept(name taxon.Name) bool {
	if s.Accept == nil {
		return !name.Empty()
	}
	return s.Accept(name)
}

type Orchestrator struct {
	strategies []Strategy
}

func NewOrchestrator(strategies []Strategy) *Orchestrator {
	return &Orchestrator{strategies: strategies}
}

func (o *Orchestrator) Strategies() []Strategy {
	return o.strategies
}

// LookupBird returns the first accepted name, or nil when no strategy could resolve term.
// Strategy errors are logged and treated as not found. Nothing is cached.
func (o *Orchestrator) LookupBird(ctx context.Context, term string) *taxon.Name {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}

	start := time.Now()
	for _, strategy := range o.strategies {
		if ctx.Err() != nil {
			break
		}
		if !strategy.applies(term) {
			continue
		}

		name, ok, err := strategy.Resolve(ctx, term)
		if err != nil {
			slog.Default().Warn("lookup strategy failed",
				"strategy", strategy.Name,
				"term", term,
				"error", err,
			)
			continue
		}
		if !ok || !strategy.accept(name) {
			slog.Default().Debug("lookup strategy found nothing",
				"strategy", strategy.Name,
				"term", term,
			)
			continue
		}

		metrics.Lookups.WithLabelValues(strategy.Name).Inc()
		slog.Default().Debug("resolved bird name",
			"strategy", strategy.Name,
			"term", term,
			"swedish", name.Swedish,
			"latin", name.Latin,
			"duration", time.Since(start),
		)
		return &name
	}

	metrics.Lookups.WithLabelValues(metrics.StrategyNone).Inc()
	return nil
}
