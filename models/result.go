package models

import "github.com/uptrace/bun"

// Result is one driver's classification in one race.
type Result struct {
	bun.BaseModel `bun:"table:results,alias:r"`

	ResultID      int      `bun:"result_id,pk" json:"resultID"`
	RaceID        int      `bun:"race_id,notnull" json:"raceID"`
	DriverID      int      `bun:"driver_id,notnull" json:"driverID"`
	ConstructorID int      `bun:"constructor_id,notnull,default:0" json:"constructorID"`
	Grid          int      `bun:"grid,notnull,default:0" json:"grid"`
	Position      *int     `bun:"position" json:"position,omitempty"`
	PositionText  string   `bun:"position_text,notnull" json:"positionText"`
	PositionOrder *int     `bun:"position_order" json:"positionOrder,omitempty"`
	Points        *float64 `bun:"points" json:"points,omitempty"`
	Laps          int      `bun:"laps,notnull,default:0" json:"laps"`
	StatusID      int      `bun:"status_id,notnull,default:0" json:"statusID"`
}

// Won reports whether the result is a race win (positionOrder 1).
func (r Result) Won() bool {
	return r.PositionOrder != nil && *r.PositionOrder == 1
}
