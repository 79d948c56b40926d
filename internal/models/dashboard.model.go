package models

// UnassignedLocation labels incidents without a location in breakdowns.
const UnassignedLocation = "Unassigned"

type DashboardSummary struct {
	TotalIncidents        int      `json:"totalIncidents"`
	OpenIncidents         int      `json:"openIncidents"`
	TotalRecordable       int      `json:"totalRecordable"`
	DaysSinceLastIncident *int     `json:"daysSinceLastIncident"`
	Rate                  *float64 `json:"rate"`
}

type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type CorrectiveActionTallies struct {
	Open       int `json:"open"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
	Overdue    int `json:"overdue"`
}

type Dashboard struct {
	EstablishmentID   int                     `json:"establishmentId"`
	Year              int                     `json:"year"`
	Summary           DashboardSummary        `json:"summary"`
	ByMonth           []MonthCount            `json:"byMonth"`
	BySeverity        []CategoryCount         `json:"bySeverity"`
	ByLocation        []CategoryCount         `json:"byLocation"`
	ByType            []CategoryCount         `json:"byType"`
	CorrectiveActions CorrectiveActionTallies `json:"correctiveActions"`
}
