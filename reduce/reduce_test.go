package reduce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padraicbc/f1report/models"
)

func ptr(n int) *int { return &n }

func TestSeasonRaces(t *testing.T) {
	races := []models.Race{
		{RaceID: 1, Year: 2022, Date: "2022-03-20", Name: "Bahrain"},
		{RaceID: 7, Year: 2021, Date: "2021-03-28"},
		{RaceID: 2, Year: 2022, Date: "2022-03-27"},
	}

	got, err := SeasonRaces(races, 2022)
	require.NoError(t, err)
	assert.Equal(t, []RaceRef{{1, "2022-03-20"}, {2, "2022-03-27"}}, got)

	_, err = SeasonRaces(races, 1899)
	require.ErrorIs(t, err, ErrYearNotFound)
	assert.EqualError(t, err, "year not found: 1899")

	_, err = SeasonRaces(nil, 2022)
	assert.ErrorIs(t, err, ErrYearNotFound)
}

func TestWinnersAndEntrants(t *testing.T) {
	results := []models.Result{
		{RaceID: 1, DriverID: 10, PositionOrder: ptr(1)},
		{RaceID: 1, DriverID: 11, PositionOrder: ptr(2)},
		{RaceID: 2, DriverID: 11},
		{RaceID: 2, DriverID: 12, PositionOrder: ptr(1)},
	}

	assert.Equal(t, []Entry{{1, 10}, {2, 12}}, Winners(results))
	assert.Len(t, Entrants(results), 4)
	assert.Empty(t, Winners(nil))
}

func TestDriverIndexes(t *testing.T) {
	drivers := []models.Driver{
		{DriverID: 10, Forename: "Max", Surname: "Verstappen", Nationality: "Dutch"},
		{DriverID: 11, Forename: "Lewis", Surname: "Hamilton", Nationality: "British"},
	}
	assert.Equal(t, Name{"Max", "Verstappen"}, DriverNames(drivers)[10])
	assert.Equal(t, "British", DriverNationalities(drivers)[11])
}

func TestYears(t *testing.T) {
	races := []models.Race{{Year: 2022}, {Year: 1950}, {Year: 2022}, {Year: 2018}}
	assert.Equal(t, []int{1950, 2018, 2022}, Years(races))
	assert.Empty(t, Years(nil))
}
