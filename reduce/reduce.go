// Package reduce projects the source tables down to the columns a report
// needs and filters them by season.
package reduce

import (
	"errors"
	"fmt"
	"sort"

	"github.com/padraicbc/f1report/models"
)

// ErrYearNotFound means the races table has no race in the requested season.
var ErrYearNotFound = errors.New("year not found")

// RaceRef is a race reduced to its key and scheduled date.
type RaceRef struct {
	RaceID int
	Date   string
}

// Entry links a driver to a race they were classified in.
type Entry struct {
	RaceID   int
	DriverID int
}

// Name is a driver reduced to its name fields.
type Name struct {
	Forename string
	Surname  string
}

// SeasonRaces returns the races of year in source order. It fails with
// ErrYearNotFound when no race carries that year.
func SeasonRaces(races []models.Race, year int) ([]RaceRef, error) {
	var out []RaceRef
	for _, r := range races {
		if r.Year == year {
			out = append(out, RaceRef{RaceID: r.RaceID, Date: r.Date})
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %d", ErrYearNotFound, year)
	}
	return out, nil
}

// Winners keeps the results with positionOrder 1. Results without a
// recorded position did not win.
func Winners(results []models.Result) []Entry {
	var out []Entry
	for _, r := range results {
		if r.Won() {
			out = append(out, Entry{RaceID: r.RaceID, DriverID: r.DriverID})
		}
	}
	return out
}

// Entrants projects every result to its race and driver keys.
func Entrants(results []models.Result) []Entry {
	out := make([]Entry, len(results))
	for i, r := range results {
		out[i] = Entry{RaceID: r.RaceID, DriverID: r.DriverID}
	}
	return out
}

// DriverNames indexes driver names by driverId.
func DriverNames(drivers []models.Driver) map[int]Name {
	out := make(map[int]Name, len(drivers))
	for _, d := range drivers {
		out[d.DriverID] = Name{Forename: d.Forename, Surname: d.Surname}
	}
	return out
}

// DriverNationalities indexes nationality by driverId.
func DriverNationalities(drivers []models.Driver) map[int]string {
	out := make(map[int]string, len(drivers))
	for _, d := range drivers {
		out[d.DriverID] = d.Nationality
	}
	return out
}

// Years lists the distinct seasons present, ascending.
func Years(races []models.Race) []int {
	seen := make(map[int]struct{})
	var out []int
	for _, r := range races {
		if _, ok := seen[r.Year]; ok {
			continue
		}
		seen[r.Year] = struct{}{}
		out = append(out, r.Year)
	}
	sort.Ints(out)
	return out
}
