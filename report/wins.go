// Package report joins the reduced tables into season summaries and drives
// batch rendering of them.
package report

import (
	"sort"

	"github.com/padraicbc/f1report/dataset"
	"github.com/padraicbc/f1report/models"
	"github.com/padraicbc/f1report/reduce"
)

// ErrYearNotFound is returned by every pipeline for a season with no races.
// It only aborts the report it was returned for.
var ErrYearNotFound = reduce.ErrYearNotFound

// WinsPerDriver counts race wins per driver for year, most wins first.
// Races without a recorded winner and winners missing from the drivers table
// are left out. Equal win counts are ordered by driverId.
func WinsPerDriver(ds *dataset.Dataset, year int) ([]models.WinRecord, error) {
	races, err := reduce.SeasonRaces(ds.Races, year)
	if err != nil {
		return nil, err
	}

	byRace := make(map[int][]int)
	for _, w := range reduce.Winners(ds.Results) {
		byRace[w.RaceID] = append(byRace[w.RaceID], w.DriverID)
	}
	names := reduce.DriverNames(ds.Drivers)

	out := []models.WinRecord{}
	idx := make(map[int]int)
	for _, r := range races {
		for _, id := range byRace[r.RaceID] {
			n, ok := names[id]
			if !ok {
				continue
			}
			i, seen := idx[id]
			if !seen {
				i = len(out)
				idx[id] = i
				out = append(out, models.WinRecord{
					DriverID: id,
					Forename: n.Forename,
					Surname:  n.Surname,
					Name:     n.Forename + " " + n.Surname,
				})
			}
			out[i].Wins++
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Wins != out[j].Wins {
			return out[i].Wins > out[j].Wins
		}
		return out[i].DriverID < out[j].DriverID
	})
	return out, nil
}
