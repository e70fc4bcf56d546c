package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	racesCSV = `raceId,year,round,circuitId,name,date,time,url,fp1_date,fp1_time
1,2022,1,3,Bahrain Grand Prix,2022-03-20,15:00:00,http://x/1,\N,\N
2,2022,2,77,Saudi Arabian Grand Prix,2022-03-27,17:00:00,http://x/2,\N,\N
3,1950,1,9,British Grand Prix,\N,\N,http://x/3,\N,\N
`
	driversCSV = `driverId,driverRef,number,code,forename,surname,dob,nationality,url
10,max_verstappen,33,VER,Max,Verstappen,1997-09-30,Dutch,http://x/v
11,hamilton,44,HAM,Lewis,Hamilton,1985-01-07,British,http://x/h
12,raikkonen,\N,RAI,Kimi,Räikkönen,1979-10-17,Finnish,http://x/r
`
	resultsCSV = `resultId,raceId,driverId,constructorId,number,grid,position,positionText,positionOrder,points,laps,time,milliseconds,fastestLap,rank,fastestLapTime,fastestLapSpeed,statusId
100,1,10,9,1,1,1,1,1,25,57,\N,\N,\N,\N,\N,\N,1
101,1,11,131,44,2,\N,R,\N,0,30,\N,\N,\N,\N,\N,\N,5
102,2,10,9,1,1,1,1,1,25,50,\N,\N,\N,\N,\N,\N,1
`
)

func writeFixture(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func fullFixture(t *testing.T) string {
	return writeFixture(t, map[string]string{
		RacesFile:   racesCSV,
		DriversFile: driversCSV,
		ResultsFile: resultsCSV,
	})
}

func TestCSVLoad(t *testing.T) {
	ds, err := NewCSV(fullFixture(t), nil).Load(context.Background())
	require.NoError(t, err)

	require.Len(t, ds.Races, 3)
	assert.Equal(t, 2022, ds.Races[0].Year)
	assert.Equal(t, "2022-03-20", ds.Races[0].Date)
	assert.Equal(t, "", ds.Races[2].Date, `\N reads as empty`)

	require.Len(t, ds.Drivers, 3)
	assert.Equal(t, "Max Verstappen", ds.Drivers[0].FullName())
	assert.Nil(t, ds.Drivers[2].Number)
	assert.Equal(t, "Räikkönen", ds.Drivers[2].Surname)

	require.Len(t, ds.Results, 3)
	assert.True(t, ds.Results[0].Won())
	assert.Nil(t, ds.Results[1].PositionOrder)
	assert.False(t, ds.Results[1].Won())
	assert.Equal(t, 101, ds.Results[1].ResultID)

	assert.Equal(t, map[string]int{"races": 3, "drivers": 3, "results": 3}, ds.Sizes())
}

func TestCSVLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		dir := writeFixture(t, map[string]string{RacesFile: racesCSV, DriversFile: driversCSV})
		_, err := NewCSV(dir, nil).Load(context.Background())
		require.ErrorIs(t, err, ErrSourceMissing)
		assert.Contains(t, err.Error(), ResultsFile)
	})

	t.Run("missing column", func(t *testing.T) {
		dir := writeFixture(t, map[string]string{
			RacesFile:   "raceId,round\n1,1\n",
			DriversFile: driversCSV,
			ResultsFile: resultsCSV,
		})
		_, err := NewCSV(dir, nil).Load(context.Background())
		require.ErrorIs(t, err, ErrSourceMalformed)
		assert.Contains(t, err.Error(), `"year"`)
	})

	t.Run("non numeric key", func(t *testing.T) {
		dir := writeFixture(t, map[string]string{
			RacesFile:   racesCSV,
			DriversFile: driversCSV,
			ResultsFile: "raceId,driverId,positionOrder\n1,ten,1\n",
		})
		_, err := NewCSV(dir, nil).Load(context.Background())
		require.ErrorIs(t, err, ErrSourceMalformed)
		assert.Contains(t, err.Error(), ":2:")
	})

	t.Run("line after multi-line field", func(t *testing.T) {
		dir := writeFixture(t, map[string]string{
			RacesFile: racesCSV,
			DriversFile: "driverId,forename,surname,nationality,url\n" +
				"1,Max,Verstappen,Dutch,\"http://x/max\nsecond line\"\n" +
				"x,Kimi,Räikkönen,Finnish,\n",
			ResultsFile: resultsCSV,
		})
		_, err := NewCSV(dir, nil).Load(context.Background())
		require.ErrorIs(t, err, ErrSourceMalformed)
		assert.Contains(t, err.Error(), DriversFile+":4:")
	})

	t.Run("ragged row", func(t *testing.T) {
		dir := writeFixture(t, map[string]string{
			RacesFile:   "raceId,year,date\n1,2022\n",
			DriversFile: driversCSV,
			ResultsFile: resultsCSV,
		})
		_, err := NewCSV(dir, nil).Load(context.Background())
		require.ErrorIs(t, err, ErrSourceMalformed)
	})

	t.Run("empty file", func(t *testing.T) {
		dir := writeFixture(t, map[string]string{
			RacesFile:   "",
			DriversFile: driversCSV,
			ResultsFile: resultsCSV,
		})
		_, err := NewCSV(dir, nil).Load(context.Background())
		require.ErrorIs(t, err, ErrSourceMalformed)
	})
}

func TestCSVLoadWithoutResultID(t *testing.T) {
	dir := writeFixture(t, map[string]string{
		RacesFile:   "\uFEFFraceId,year,date\n1,2022,2022-03-20\n",
		DriversFile: driversCSV,
		ResultsFile: "raceId,driverId,positionOrder\n1,10,1\n1,11,2\n",
	})
	ds, err := NewCSV(dir, nil).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, ds.Races, 1, "BOM is stripped from the first header")
	assert.Equal(t, []int{1, 2}, []int{ds.Results[0].ResultID, ds.Results[1].ResultID})
}

func TestCSVLoadCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewCSV(fullFixture(t), nil).Load(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
