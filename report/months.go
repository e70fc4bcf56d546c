package report

import (
	"strings"
	"time"

	"github.com/padraicbc/f1report/dataset"
	"github.com/padraicbc/f1report/models"
	"github.com/padraicbc/f1report/reduce"
)

// dateLayouts are tried in order when reading a race date.
var dateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	"2006/01/02",
}

// MonthlySummary is the races-per-month report. Races whose date is absent
// or unparseable are not counted in Months; they are listed in
// SkippedRaceIDs instead.
type MonthlySummary struct {
	Months         []models.MonthlyRaceCount `json:"months"`
	Skipped        int                       `json:"skipped"`
	SkippedRaceIDs []int                     `json:"skippedRaceIDs,omitempty"`
}

// RacesPerMonth counts the races of year per calendar month, in month order.
// Months without a race are omitted.
func RacesPerMonth(ds *dataset.Dataset, year int) (MonthlySummary, error) {
	races, err := reduce.SeasonRaces(ds.Races, year)
	if err != nil {
		return MonthlySummary{}, err
	}

	var counts [13]int
	var sum MonthlySummary
	for _, r := range races {
		t, ok := parseDate(r.Date)
		if !ok {
			sum.Skipped++
			sum.SkippedRaceIDs = append(sum.SkippedRaceIDs, r.RaceID)
			continue
		}
		counts[t.Month()]++
	}

	sum.Months = []models.MonthlyRaceCount{}
	for m := time.January; m <= time.December; m++ {
		if counts[m] == 0 {
			continue
		}
		sum.Months = append(sum.Months, models.MonthlyRaceCount{
			Month: int(m),
			Label: m.String()[:3],
			Races: counts[m],
		})
	}
	return sum, nil
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
