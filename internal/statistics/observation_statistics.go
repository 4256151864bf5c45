// Package statistics summarises observations into year and month lists.
package statistics

import (
	"sort"
	"time"

	"github.com/at-ishikawa/birdlog/internal/species"
)

// PeriodStatistics holds statistics for one month such as "2025-01".
type PeriodStatistics struct {
	Period       string `yaml:"period"`
	Observations int    `yaml:"observations"`
	// Species counts distinct species observed in the period.
	Species int `yaml:"species"`
	// SpeciesSweden counts distinct species seen, heard or ringed in Sweden in the period.
	SpeciesSweden int `yaml:"species_sweden"`
	// Lifers counts species observed for the first time ever in the period.
	Lifers int `yaml:"lifers"`
}

// AggregateStatistics holds totals across the selected periods. Species counts are deduplicated across periods.
type AggregateStatistics struct {
	Observations  int `yaml:"observations"`
	Species       int `yaml:"species"`
	SpeciesSweden int `yaml:"species_sweden"`
	Lifers        int `yaml:"lifers"`
}

type StatisticsResult struct {
	Periods   []PeriodStatistics  `yaml:"periods"`
	Aggregate AggregateStatistics `yaml:"aggregate"`
}

type periodData struct {
	observations  int
	species       map[string]struct{}
	speciesSweden map[string]struct{}
	lifers        int
}

type datedObservation struct {
	species.Observation
	date time.Time
}

// CalculateStatistics groups observations by month.
// year and month filter the periods, 0 means no filter. Lifers are decided over all observations
// so a species first seen before the filtered range is never a lifer inside it.
// Observations without a parseable date are ignored.
func CalculateStatistics(observations []species.Observation, year, month int) StatisticsResult {
	dated := make([]datedObservation, 0, len(observations))
	for _, o := range observations {
		date, err := time.Parse(species.DateLayout, o.Date)
		if err != nil {
			continue
		}
		dated = append(dated, datedObservation{Observation: o, date: date})
	}
	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].date.Before(dated[j].date)
	})

	stats := make(map[string]*periodData)
	globalSpecies := make(map[string]struct{})
	globalSpeciesSweden := make(map[string]struct{})
	seen := make(map[string]struct{})
	var totalLifers int

	for _, o := range dated {
		_, seenBefore := seen[o.SpeciesID]
		seen[o.SpeciesID] = struct{}{}

		if !matchesFilter(o.date.Year(), int(o.date.Month()), year, month) {
			continue
		}

		period := o.date.Format("2006-01")
		data := ensurePeriodExists(stats, period)
		data.observations++
		data.species[o.SpeciesID] = struct{}{}
		globalSpecies[o.SpeciesID] = struct{}{}
		if inSweden(o.Observation) {
			data.speciesSweden[o.SpeciesID] = struct{}{}
			globalSpeciesSweden[o.SpeciesID] = struct{}{}
		}
		if !seenBefore {
			data.lifers++
			totalLifers++
		}
	}

	return buildResult(stats, AggregateStatistics{
		Species:       len(globalSpecies),
		SpeciesSweden: len(globalSpeciesSweden),
		Lifers:        totalLifers,
	})
}

func inSweden(o species.Observation) bool {
	return o.SeenSwe || o.HeardSwe || o.RingedSwe
}

func ensurePeriodExists(stats map[string]*periodData, period string) *periodData {
	if stats[period] == nil {
		stats[period] = &periodData{
			species:       make(map[string]struct{}),
			speciesSweden: make(map[string]struct{}),
		}
	}
	return stats[period]
}

func matchesFilter(logYear, logMonth, filterYear, filterMonth int) bool {
	if filterYear == 0 {
		return true
	}
	if logYear != filterYear {
		return false
	}
	if filterMonth == 0 {
		return true
	}
	return logMonth == filterMonth
}

func buildResult(stats map[string]*periodData, aggregate AggregateStatistics) StatisticsResult {
	periods := make([]PeriodStatistics, 0, len(stats))
	for period, data := range stats {
		periods = append(periods, PeriodStatistics{
			Period:        period,
			Observations:  data.observations,
			Species:       len(data.species),
			SpeciesSweden: len(data.speciesSweden),
			Lifers:        data.lifers,
		})
		aggregate.Observations += data.observations
	}

	// Newest first
	sort.Slice(periods, func(i, j int) bool {
		return periods[i].Period > periods[j].Period
	})

	return StatisticsResult{
		Periods:   periods,
		Aggregate: aggregate,
	}
}
