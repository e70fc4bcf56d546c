package models

import "github.com/uptrace/bun"

// Driver is a row of drivers.csv.
type Driver struct {
	bun.BaseModel `bun:"table:drivers,alias:d"`

	DriverID    int    `bun:"driver_id,pk" json:"driverID"`
	DriverRef   string `bun:"driver_ref,notnull" json:"driverRef"`
	Number      *int   `bun:"number" json:"number,omitempty"`
	Code        string `bun:"code,notnull" json:"code,omitempty"`
	Forename    string `bun:"forename,notnull" json:"forename"`
	Surname     string `bun:"surname,notnull" json:"surname"`
	DOB         string `bun:"dob,notnull" json:"dob,omitempty"`
	Nationality string `bun:"nationality,notnull" json:"nationality"`
	URL         string `bun:"url,notnull" json:"url,omitempty"`
}

// FullName joins forename and surname the way charts label drivers.
func (d Driver) FullName() string {
	return d.Forename + " " + d.Surname
}
