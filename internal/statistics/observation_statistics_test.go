package statistics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/at-ishikawa/birdlog/internal/species"
)

func TestCalculateStatistics(t *testing.T) {
	observations := []species.Observation{
		{SpeciesID: "cygnus-olor", SeenSwe: true, Date: "2024-05-01"},
		{SpeciesID: "sula-nebouxii", SeenInt: true, Date: "2024-06-12"},
		{SpeciesID: "cygnus-olor", HeardSwe: true, Date: "2024-06-20"},
		{SpeciesID: "pica-pica", RingedSwe: true, Date: "2025-01-03"},
		{SpeciesID: "cygnus-olor", SeenInt: true, Date: "2025-01-04"},
		{SpeciesID: "anas-platyrhynchos", SeenSwe: true, Date: "not a date"},
	}

	tests := []struct {
		name         string
		observations []species.Observation
		year         int
		month        int
		want         StatisticsResult
	}{
		{
			name:         "no observations",
			observations: nil,
			want: StatisticsResult{
				Periods: []PeriodStatistics{},
			},
		},
		{
			name:         "all periods",
			observations: observations,
			want: StatisticsResult{
				Periods: []PeriodStatistics{
					{Period: "2025-01", Observations: 2, Species: 2, SpeciesSweden: 1, Lifers: 1},
					{Period: "2024-06", Observations: 2, Species: 2, SpeciesSweden: 1, Lifers: 1},
					{Period: "2024-05", Observations: 1, Species: 1, SpeciesSweden: 1, Lifers: 1},
				},
				Aggregate: AggregateStatistics{Observations: 5, Species: 3, SpeciesSweden: 2, Lifers: 3},
			},
		},
		{
			name:         "year filter keeps earlier lifers out",
			observations: observations,
			year:         2025,
			want: StatisticsResult{
				Periods: []PeriodStatistics{
					{Period: "2025-01", Observations: 2, Species: 2, SpeciesSweden: 1, Lifers: 1},
				},
				Aggregate: AggregateStatistics{Observations: 2, Species: 2, SpeciesSweden: 1, Lifers: 1},
			},
		},
		{
			name:         "month filter",
			observations: observations,
			year:         2024,
			month:        6,
			want: StatisticsResult{
				Periods: []PeriodStatistics{
					{Period: "2024-06", Observations: 2, Species: 2, SpeciesSweden: 1, Lifers: 1},
				},
				Aggregate: AggregateStatistics{Observations: 2, Species: 2, SpeciesSweden: 1, Lifers: 1},
			},
		},
		{
			name: "input order does not decide lifers",
			observations: []species.Observation{
				{SpeciesID: "cygnus-olor", SeenSwe: true, Date: "2024-07-01"},
				{SpeciesID: "cygnus-olor", SeenSwe: true, Date: "2024-03-01"},
			},
			want: StatisticsResult{
				Periods: []PeriodStatistics{
					{Period: "2024-07", Observations: 1, Species: 1, SpeciesSweden: 1, Lifers: 0},
					{Period: "2024-03", Observations: 1, Species: 1, SpeciesSweden: 1, Lifers: 1},
				},
				Aggregate: AggregateStatistics{Observations: 2, Species: 1, SpeciesSweden: 1, Lifers: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateStatistics(tt.observations, tt.year, tt.month)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchesFilter(t *testing.T) {
	tests := []struct {
		name                    string
		logYear, logMonth       int
		filterYear, filterMonth int
		want                    bool
	}{
		{name: "no filter", logYear: 2024, logMonth: 5, want: true},
		{name: "year matches", logYear: 2024, logMonth: 5, filterYear: 2024, want: true},
		{name: "year differs", logYear: 2023, logMonth: 5, filterYear: 2024, want: false},
		{name: "month matches", logYear: 2024, logMonth: 5, filterYear: 2024, filterMonth: 5, want: true},
		{name: "month differs", logYear: 2024, logMonth: 6, filterYear: 2024, filterMonth: 5, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchesFilter(tt.logYear, tt.logMonth, tt.filterYear, tt.filterMonth))
		})
	}
}
