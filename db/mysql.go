package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"

	"github.com/padraicbc/f1report/dataset"
	"github.com/padraicbc/f1report/models"
)

// OpenMySQL connects to an Ergast MySQL database, e.g.
// user:pass@tcp(host:3306)/f1db.
func OpenMySQL(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("MYSQL_DSN required, e.g.: user:pass@tcp(host:3306)/f1db")
	}
	myDB, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	myDB.SetMaxOpenConns(4)
	if err := myDB.PingContext(ctx); err != nil {
		myDB.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return myDB, nil
}

// MySQLSource reads the races, drivers and results tables of the Ergast
// schema (camelCase columns) through database/sql.
type MySQLSource struct {
	db *sql.DB
}

// NewMySQLSource returns a dataset.Loader over an open Ergast database.
func NewMySQLSource(db *sql.DB) *MySQLSource {
	return &MySQLSource{db: db}
}

// Load reads all three tables.
func (s *MySQLSource) Load(ctx context.Context) (*dataset.Dataset, error) {
	ds := &dataset.Dataset{}
	var err error
	if ds.Races, err = s.races(ctx); err != nil {
		return nil, fmt.Errorf("%w: races: %w", dataset.ErrSourceMalformed, err)
	}
	if len(ds.Races) == 0 {
		return nil, fmt.Errorf("%w: races table is empty", dataset.ErrSourceMissing)
	}
	if ds.Drivers, err = s.drivers(ctx); err != nil {
		return nil, fmt.Errorf("%w: drivers: %w", dataset.ErrSourceMalformed, err)
	}
	if ds.Results, err = s.results(ctx); err != nil {
		return nil, fmt.Errorf("%w: results: %w", dataset.ErrSourceMalformed, err)
	}
	return ds, nil
}

// --- helpers ---

func nullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nullFloat(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	return &n.Float64
}

// str maps NULL and the \N sentinel of CSV derived dumps to "".
func str(n sql.NullString) string {
	if !n.Valid || n.String == `\N` {
		return ""
	}
	return strings.TrimSpace(n.String)
}

// --- per-table reads ---

func (s *MySQLSource) races(ctx context.Context) ([]models.Race, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT raceId, year, round, circuitId, name,
		        CAST(date AS CHAR), CAST(time AS CHAR), url
		 FROM races ORDER BY raceId`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Race
	for rows.Next() {
		var (
			r              models.Race
			round, circuit sql.NullInt64
			name, date, tm sql.NullString
			url            sql.NullString
		)
		if err := rows.Scan(&r.RaceID, &r.Year, &round, &circuit, &name, &date, &tm, &url); err != nil {
			return nil, err
		}
		r.Round = int(round.Int64)
		r.CircuitID = int(circuit.Int64)
		r.Name = str(name)
		r.Date = str(date)
		r.Time = str(tm)
		r.URL = str(url)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *MySQLSource) drivers(ctx context.Context) ([]models.Driver, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT driverId, driverRef, number, code, forename, surname,
		        CAST(dob AS CHAR), nationality, url
		 FROM drivers ORDER BY driverId`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Driver
	for rows.Next() {
		var (
			d                        models.Driver
			number                   sql.NullInt64
			ref, code, dob, nat, url sql.NullString
			forename, surname        sql.NullString
		)
		if err := rows.Scan(&d.DriverID, &ref, &number, &code, &forename, &surname, &dob, &nat, &url); err != nil {
			return nil, err
		}
		d.DriverRef = str(ref)
		d.Number = nullInt(number)
		d.Code = str(code)
		d.Forename = str(forename)
		d.Surname = str(surname)
		d.DOB = str(dob)
		d.Nationality = str(nat)
		d.URL = str(url)
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *MySQLSource) results(ctx context.Context) ([]models.Result, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT resultId, raceId, driverId, constructorId, grid, position,
		        positionText, positionOrder, points, laps, statusId
		 FROM results ORDER BY resultId`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Result
	for rows.Next() {
		var (
			r                               models.Result
			constructor, grid, laps, status sql.NullInt64
			position, order                 sql.NullInt64
			posText                         sql.NullString
			points                          sql.NullFloat64
		)
		if err := rows.Scan(&r.ResultID, &r.RaceID, &r.DriverID, &constructor, &grid, &position,
			&posText, &order, &points, &laps, &status); err != nil {
			return nil, err
		}
		r.ConstructorID = int(constructor.Int64)
		r.Grid = int(grid.Int64)
		r.Position = nullInt(position)
		r.PositionText = str(posText)
		r.PositionOrder = nullInt(order)
		r.Points = nullFloat(points)
		r.Laps = int(laps.Int64)
		r.StatusID = int(status.Int64)
		out = append(out, r)
	}
	return out, rows.Err()
}
