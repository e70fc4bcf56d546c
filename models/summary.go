package models

// WinRecord is one row of the wins-per-driver report.
type WinRecord struct {
	DriverID int    `json:"driverID"`
	Forename string `json:"forename"`
	Surname  string `json:"surname"`
	Name     string `json:"name"`
	Wins     int    `json:"wins"`
}

// MonthlyRaceCount is one row of the races-per-month report.
type MonthlyRaceCount struct {
	Month int    `json:"month"`
	Label string `json:"label"`
	Races int    `json:"races"`
}

// NationalityCount is one slice of the nationality distribution.
type NationalityCount struct {
	Nationality string `json:"nationality"`
	Drivers     int    `json:"drivers"`
}
