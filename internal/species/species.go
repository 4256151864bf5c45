// Package species holds the birder's species list and observations.
package species

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/at-ishikawa/birdlog/internal/taxon"
)

const DateLayout = "2006-01-02"

var (
	ErrNameRequired      = errors.New("species name is required")
	ErrSpeciesIDRequired = errors.New("species id is required")
	ErrNoObservationKind = errors.New("an observation must be seen, heard or ringed")
)

// Species is a bird on the list. Both names are stored lower-cased.
type Species struct {
	ID        string `db:"id" yaml:"id" json:"id"`
	LatinName string `db:"latin_name" yaml:"latin_name,omitempty" json:"latinName,omitempty"`
	Name      string `db:"name" yaml:"name" json:"name"`
}

// New builds a Species from its Swedish and Latin names.
// The ID is derived from the Latin name when present, otherwise from the Swedish name.
func New(name, latinName string) (Species, error) {
	n := taxon.NewName(name, latinName)
	if n.Swedish == "" {
		return Species{}, ErrNameRequired
	}
	id := n.Latin
	if id == "" {
		id = n.Swedish
	}
	return Species{
		ID:        strings.Join(strings.Fields(id), "-"),
		LatinName: n.Latin,
		Name:      n.Swedish,
	}, nil
}

// Draft prefills a new species from what the user typed and what a lookup found.
// The typed term stays the name unless the lookup found a different Swedish name,
// which happens when the user typed a Latin name.
func Draft(term string, found *taxon.Name) taxon.Name {
	draft := taxon.NewName(term, "")
	if found == nil {
		return draft
	}
	if found.Latin != "" {
		draft.Latin = found.Latin
	}
	if found.Swedish != "" && found.Swedish != draft.Swedish {
		draft.Swedish = found.Swedish
	}
	return draft
}

// Filter keeps species whose name or Latin name contains term, case-insensitively.
// A blank term keeps everything.
func Filter(list []Species, term string) []Species {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return list
	}

	var filtered []Species
	for _, s := range list {
		if strings.Contains(strings.ToLower(s.Name), term) || strings.Contains(strings.ToLower(s.LatinName), term) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// SortByName sorts by Swedish name in Swedish collation order, so å, ä and ö come after z.
func SortByName(list []Species) {
	c := collate.New(language.Swedish)
	sort.SliceStable(list, func(i, j int) bool {
		return c.CompareString(list[i].Name, list[j].Name) < 0
	})
}

type Location struct {
	Lat  float64 `db:"lat" yaml:"lat" json:"lat"`
	Lng  float64 `db:"lng" yaml:"lng" json:"lng"`
	Name string  `db:"location_name" yaml:"name,omitempty" json:"name,omitempty"`
}

// Observation records how a species was observed.
// The Swe flags mean observed in Sweden, the Int flags observed abroad.
type Observation struct {
	ID        int64     `db:"id" yaml:"-" json:"id,omitempty"`
	SpeciesID string    `db:"species_id" yaml:"species_id" json:"speciesId"`
	SeenSwe   bool      `db:"seen_swe" yaml:"seen_swe,omitempty" json:"seenSwe,omitempty"`
	SeenInt   bool      `db:"seen_int" yaml:"seen_int,omitempty" json:"seenInt,omitempty"`
	HeardSwe  bool      `db:"heard_swe" yaml:"heard_swe,omitempty" json:"heardSwe,omitempty"`
	HeardInt  bool      `db:"heard_int" yaml:"heard_int,omitempty" json:"heardInt,omitempty"`
	RingedSwe bool      `db:"ringed_swe" yaml:"ringed_swe,omitempty" json:"ringedSwe,omitempty"`
	RingedInt bool      `db:"ringed_int" yaml:"ringed_int,omitempty" json:"ringedInt,omitempty"`
	Date      string    `db:"date" yaml:"date,omitempty" json:"date,omitempty"`
	Comment   string    `db:"comment" yaml:"comment,omitempty" json:"comment,omitempty"`
	Location  *Location `db:"-" yaml:"location,omitempty" json:"location,omitempty"`
}

func (o Observation) Validate() error {
	if o.SpeciesID == "" {
		return ErrSpeciesIDRequired
	}
	if !o.SeenSwe && !o.SeenInt && !o.HeardSwe && !o.HeardInt && !o.RingedSwe && !o.RingedInt {
		return ErrNoObservationKind
	}
	if o.Date != "" {
		if _, err := time.Parse(DateLayout, o.Date); err != nil {
			return fmt.Errorf("invalid date %q > %w", o.Date, err)
		}
	}
	return nil
}

// EnrichedObservation joins an observation with its species, which is nil when the species is unknown.
type EnrichedObservation struct {
	Observation `yaml:",inline"`
	Species     *Species `yaml:"species,omitempty" json:"species,omitempty"`
}

// Enrich joins observations to species by ID.
func Enrich(observations []Observation, list []Species) []EnrichedObservation {
	byID := make(map[string]Species, len(list))
	for _, s := range list {
		byID[s.ID] = s
	}

	enriched := make([]EnrichedObservation, 0, len(observations))
	for _, o := range observations {
		e := EnrichedObservation{Observation: o}
		if s, ok := byID[o.SpeciesID]; ok {
			e.Species = &s
		}
		enriched = append(enriched, e)
	}
	return enriched
}

func sortByDateDesc(observations []Observation) {
	sort.SliceStable(observations, func(i, j int) bool {
		return observations[i].Date > observations[j].Date
	})
}
