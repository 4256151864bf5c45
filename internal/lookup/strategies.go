package lookup

import (
	"context"

	"github.com/at-ishikawa/birdlog/internal/taxon"
)

// Strategy names, also used as metric labels.
const (
	StrategyWikidataLatin       = "wikidata-latin"
	StrategyWikipediaSwedish    = "wikipedia-sv"
	StrategyWikipediaEnglish    = "wikipedia-en"
	StrategyWikidataSearch      = "wikidata-search"
	StrategyWikipediaSvByLatin  = "wikipedia-sv-by-latin"
	StrategyWikipediaEnLangLink = "wikipedia-en-langlink"
)

type KnowledgeGraph interface {
	SearchByLatinName(ctx context.Context, latin string) (taxon.Name, bool, error)
	SearchAndFetch(ctx context.Context, term string) (taxon.Name, bool, error)
}

type Encyclopedia interface {
	SearchAndExtractLatinName(ctx context.Context, term string) (taxon.Name, bool, error)
	SearchByLatinNameForSwedishLabel(ctx context.Context, latin string) (taxon.Name, bool, error)
	SearchThenFollowLangLink(ctx context.Context, latin, language string) (taxon.Name, bool, error)
}

func hasSwedish(name taxon.Name) bool {
	return name.Swedish != ""
}

func hasLatin(name taxon.Name) bool {
	return name.Latin != ""
}

// DefaultStrategies returns the resolution order for a Swedish birder:
//  1. a Latin-looking term is cross-checked against Wikidata for its Swedish label
//  2. Swedish Wikipedia
//  3. English Wikipedia, only when it yields a Latin name
//  4. a free-text Wikidata search
//  5. for Latin-looking terms, Swedish Wikipedia searched by the Latin name
//  6. for Latin-looking terms, the Swedish link of the top English article
func DefaultStrategies(graph KnowledgeGraph, swedish, english Encyclopedia) []Strategy {
	return []Strategy{
		{
			Name:    StrategyWikidataLatin,
			Applies: taxon.LooksLatin,
			Resolve: graph.SearchByLatinName,
			Accept:  hasSwedish,
		},
		{
			Name:    StrategyWikipediaSwedish,
			Resolve: swedish.SearchAndExtractLatinName,
		},
		{
			Name:    StrategyWikipediaEnglish,
			Resolve: english.SearchAndExtractLatinName,
			Accept:  hasLatin,
		},
		{
			Name:    StrategyWikidataSearch,
			Resolve: graph.SearchAndFetch,
		},
		{
			Name:    StrategyWikipediaSvByLatin,
			Applies: taxon.LooksLatin,
			Resolve: swedish.SearchByLatinNameForSwedishLabel,
		},
		{
			Name:    StrategyWikipediaEnLangLink,
			Applies: taxon.LooksLatin,
			Resolve: func(ctx context.Context, term string) (taxon.Name, bool, error) {
				return english.SearchThenFollowLangLink(ctx, term, "sv")
			},
		},
	}
}

// New builds an Orchestrator with DefaultStrategies.
func New(graph KnowledgeGraph, swedish, english Encyclopedia) *Orchestrator {
	return NewOrchestrator(DefaultStrategies(graph, swedish, english))
}
