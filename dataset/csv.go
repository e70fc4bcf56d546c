package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/padraicbc/f1report/models"
)

// nullSentinel marks an absent value in the Ergast exports.
const nullSentinel = `\N`

const utf8BOM = "\uFEFF"

// CSV loads the tables from a directory of extracted CSV files.
type CSV struct {
	dir string
	log *zap.Logger
}

// NewCSV returns a loader reading races.csv, drivers.csv and results.csv
// from dir.
func NewCSV(dir string, log *zap.Logger) *CSV {
	if log == nil {
		log = zap.NewNop()
	}
	return &CSV{dir: dir, log: log}
}

// Load reads and parses all three files. A missing file yields
// ErrSourceMissing, a bad header or unparsable key column ErrSourceMalformed.
func (c *CSV) Load(ctx context.Context) (*Dataset, error) {
	ds := &Dataset{}
	steps := []struct {
		file string
		fn   func(*table) error
	}{
		{RacesFile, func(t *table) (err error) { ds.Races, err = parseRaces(t); return }},
		{DriversFile, func(t *table) (err error) { ds.Drivers, err = parseDrivers(t); return }},
		{ResultsFile, func(t *table) (err error) { ds.Results, err = parseResults(t); return }},
	}
	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(c.dir, s.file)
		t, err := readTable(path)
		if err != nil {
			return nil, err
		}
		if err := s.fn(t); err != nil {
			return nil, err
		}
		c.log.Debug("table loaded", zap.String("file", path), zap.Int("rows", len(t.rows)))
	}
	return ds, nil
}

// table is a header-indexed view over raw CSV rows.
type table struct {
	path   string
	header map[string]int
	rows   [][]string
	// lines holds the line each row starts on; quoted fields may span lines.
	lines []int
}

func readTable(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceMissing, path)
		}
		return nil, fmt.Errorf("%w: %w", ErrSourceMissing, err)
	}
	defer f.Close()
	return parseTable(path, f)
}

func parseTable(path string, r io.Reader) (*table, error) {
	cr := csv.NewReader(r)
	head, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: read header: %v", ErrSourceMalformed, path, err)
	}
	if len(head) > 0 {
		head[0] = strings.TrimPrefix(head[0], utf8BOM)
	}
	idx := make(map[string]int, len(head))
	for i, h := range head {
		idx[strings.TrimSpace(h)] = i
	}
	t := &table{path: path, header: idx}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrSourceMalformed, path, err)
		}
		ln, _ := cr.FieldPos(0)
		t.rows = append(t.rows, row)
		t.lines = append(t.lines, ln)
	}
	return t, nil
}

func (t *table) require(cols ...string) error {
	for _, c := range cols {
		if _, ok := t.header[c]; !ok {
			return fmt.Errorf("%w: %s: missing column %q", ErrSourceMalformed, t.path, c)
		}
	}
	return nil
}

// str returns the trimmed, NFC-normalised cell, or "" for absent values.
func (t *table) str(row []string, col string) string {
	i, ok := t.header[col]
	if !ok || i >= len(row) {
		return ""
	}
	v := strings.TrimSpace(row[i])
	if v == nullSentinel {
		return ""
	}
	return norm.NFC.String(v)
}

// key parses a required integer column.
func (t *table) key(row []string, line int, col string) (int, error) {
	v := t.str(row, col)
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s:%d: column %s: %q is not an integer", ErrSourceMalformed, t.path, line, col, v)
	}
	return n, nil
}

// optKey parses a nullable integer column that the reports depend on.
func (t *table) optKey(row []string, line int, col string) (*int, error) {
	v := t.str(row, col)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s:%d: column %s: %q is not an integer", ErrSourceMalformed, t.path, line, col, v)
	}
	return &n, nil
}

// num parses an informational integer column; bad values read as zero.
func (t *table) num(row []string, col string) int {
	n, _ := strconv.Atoi(t.str(row, col))
	return n
}

func (t *table) optNum(row []string, col string) *int {
	n, err := strconv.Atoi(t.str(row, col))
	if err != nil {
		return nil
	}
	return &n
}

func (t *table) optFloat(row []string, col string) *float64 {
	f, err := strconv.ParseFloat(t.str(row, col), 64)
	if err != nil {
		return nil
	}
	return &f
}

// line returns the 1-based line number row i starts on.
func (t *table) line(i int) int { return t.lines[i] }

func parseRaces(t *table) ([]models.Race, error) {
	if err := t.require("raceId", "year", "date"); err != nil {
		return nil, err
	}
	out := make([]models.Race, 0, len(t.rows))
	for i, row := range t.rows {
		id, err := t.key(row, t.line(i), "raceId")
		if err != nil {
			return nil, err
		}
		year, err := t.key(row, t.line(i), "year")
		if err != nil {
			return nil, err
		}
		out = append(out, models.Race{
			RaceID:    id,
			Year:      year,
			Round:     t.num(row, "round"),
			CircuitID: t.num(row, "circuitId"),
			Name:      t.str(row, "name"),
			Date:      t.str(row, "date"),
			Time:      t.str(row, "time"),
			URL:       t.str(row, "url"),
		})
	}
	return out, nil
}

func parseDrivers(t *table) ([]models.Driver, error) {
	if err := t.require("driverId", "forename", "surname", "nationality"); err != nil {
		return nil, err
	}
	out := make([]models.Driver, 0, len(t.rows))
	for i, row := range t.rows {
		id, err := t.key(row, t.line(i), "driverId")
		if err != nil {
			return nil, err
		}
		out = append(out, models.Driver{
			DriverID:    id,
			DriverRef:   t.str(row, "driverRef"),
			Number:      t.optNum(row, "number"),
			Code:        t.str(row, "code"),
			Forename:    t.str(row, "forename"),
			Surname:     t.str(row, "surname"),
			DOB:         t.str(row, "dob"),
			Nationality: t.str(row, "nationality"),
			URL:         t.str(row, "url"),
		})
	}
	return out, nil
}

func parseResults(t *table) ([]models.Result, error) {
	if err := t.require("raceId", "driverId", "positionOrder"); err != nil {
		return nil, err
	}
	_, hasID := t.header["resultId"]
	out := make([]models.Result, 0, len(t.rows))
	for i, row := range t.rows {
		ln := t.line(i)
		raceID, err := t.key(row, ln, "raceId")
		if err != nil {
			return nil, err
		}
		driverID, err := t.key(row, ln, "driverId")
		if err != nil {
			return nil, err
		}
		order, err := t.optKey(row, ln, "positionOrder")
		if err != nil {
			return nil, err
		}
		id := i + 1
		if hasID {
			if id, err = t.key(row, ln, "resultId"); err != nil {
				return nil, err
			}
		}
		out = append(out, models.Result{
			ResultID:      id,
			RaceID:        raceID,
			DriverID:      driverID,
			ConstructorID: t.num(row, "constructorId"),
			Grid:          t.num(row, "grid"),
			Position:      t.optNum(row, "position"),
			PositionText:  t.str(row, "positionText"),
			PositionOrder: order,
			Points:        t.optFloat(row, "points"),
			Laps:          t.num(row, "laps"),
			StatusID:      t.num(row, "statusId"),
		})
	}
	return out, nil
}
