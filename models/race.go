package models

import "github.com/uptrace/bun"

// Race is one championship round from races.csv.
type Race struct {
	bun.BaseModel `bun:"table:races,alias:rc"`

	RaceID    int    `bun:"race_id,pk" json:"raceID"`
	Year      int    `bun:"year,notnull" json:"year"`
	Round     int    `bun:"round,notnull,default:0" json:"round"`
	CircuitID int    `bun:"circuit_id,notnull,default:0" json:"circuitID"`
	Name      string `bun:"name,notnull" json:"name"`
	// Date is kept as the source text; older rows can be empty or malformed.
	Date string `bun:"date,notnull" json:"date"`
	Time string `bun:"time,notnull" json:"time,omitempty"`
	URL  string `bun:"url,notnull" json:"url,omitempty"`
}
