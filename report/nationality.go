package report

import (
	"sort"

	"github.com/padraicbc/f1report/dataset"
	"github.com/padraicbc/f1report/models"
	"github.com/padraicbc/f1report/reduce"
)

// NationalityDistribution counts the distinct drivers with at least one
// result in year per nationality. Larger groups come first; equal groups are
// ordered by nationality.
func NationalityDistribution(ds *dataset.Dataset, year int) ([]models.NationalityCount, error) {
	races, err := reduce.SeasonRaces(ds.Races, year)
	if err != nil {
		return nil, err
	}
	season := make(map[int]struct{}, len(races))
	for _, r := range races {
		season[r.RaceID] = struct{}{}
	}

	active := make(map[int]struct{})
	for _, e := range reduce.Entrants(ds.Results) {
		if _, ok := season[e.RaceID]; ok {
			active[e.DriverID] = struct{}{}
		}
	}

	counts := make(map[string]int)
	for id, nat := range reduce.DriverNationalities(ds.Drivers) {
		if _, ok := active[id]; ok {
			counts[nat]++
		}
	}

	out := make([]models.NationalityCount, 0, len(counts))
	for nat, n := range counts {
		out = append(out, models.NationalityCount{Nationality: nat, Drivers: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Drivers != out[j].Drivers {
			return out[i].Drivers > out[j].Drivers
		}
		return out[i].Nationality < out[j].Nationality
	})
	return out, nil
}
