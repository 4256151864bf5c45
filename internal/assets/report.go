package assets

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/at-ishikawa/birdlog/internal/species"
	"github.com/at-ishikawa/birdlog/internal/statistics"
)

// SpeciesReport is the data passed to the species report template.
type SpeciesReport struct {
	Title string
	// Year limits the report to one year. 0 covers all observations.
	Year       int
	Species    []ReportSpecies
	Statistics statistics.StatisticsResult
}

// ReportSpecies is one row of the report. Dates are YYYY-MM-DD and empty when the species was never observed.
type ReportSpecies struct {
	ID            string
	Name          string
	LatinName     string
	Observations  int
	Sweden        bool
	FirstObserved string
	LastObserved  string
}

// NewSpeciesReport builds a report in Swedish name order.
// An all-time report lists every species on the list, a yearly report only the species observed that year.
func NewSpeciesReport(list []species.Species, observations []species.Observation, year int) SpeciesReport {
	title := "Species list"
	var yearPrefix string
	if year != 0 {
		yearPrefix = strconv.Itoa(year) + "-"
		title = fmt.Sprintf("Species list %d", year)
	}

	rows := make(map[string]*ReportSpecies, len(list))
	for _, o := range observations {
		if !strings.HasPrefix(o.Date, yearPrefix) {
			continue
		}
		row, ok := rows[o.SpeciesID]
		if !ok {
			row = &ReportSpecies{ID: o.SpeciesID}
			rows[o.SpeciesID] = row
		}
		row.Observations++
		if o.SeenSwe || o.HeardSwe || o.RingedSwe {
			row.Sweden = true
		}
		if o.Date != "" && (row.FirstObserved == "" || o.Date < row.FirstObserved) {
			row.FirstObserved = o.Date
		}
		if o.Date > row.LastObserved {
			row.LastObserved = o.Date
		}
	}

	sorted := append([]species.Species(nil), list...)
	species.SortByName(sorted)

	report := SpeciesReport{
		Title:      title,
		Year:       year,
		Species:    make([]ReportSpecies, 0, len(sorted)),
		Statistics: statistics.CalculateStatistics(observations, year, 0),
	}
	for _, s := range sorted {
		row, ok := rows[s.ID]
		if !ok {
			if year != 0 {
				continue
			}
			row = &ReportSpecies{ID: s.ID}
		}
		row.Name = s.Name
		row.LatinName = s.LatinName
		report.Species = append(report.Species, *row)
	}
	return report
}

// WriteSpeciesReport renders report as markdown with the template at templatePath, or the embedded one.
func WriteSpeciesReport(output io.Writer, templatePath string, report SpeciesReport) error {
	tmpl, err := ParseSpeciesReportTemplate(templatePath)
	if err != nil {
		return fmt.Errorf("ParseSpeciesReportTemplate(%s) > %w", templatePath, err)
	}
	if err := tmpl.Execute(output, report); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}
