package models

const ImportedDescription = "Imported incident"

// ColumnMapping maps incident fields to source CSV header names. A nil or
// empty entry means the field is not provided.
type ColumnMapping struct {
	EmployeeName        *string `json:"employeeName"`
	EmployeeJobTitle    *string `json:"employeeJobTitle"`
	IncidentDate        *string `json:"incidentDate"`
	Description         *string `json:"description"`
	WhereOccurred       *string `json:"whereOccurred"`
	OutcomeSeverity     *string `json:"outcomeSeverity"`
	DaysAwayCount       *string `json:"daysAwayCount"`
	DaysRestrictedCount *string `json:"daysRestrictedCount"`
	InjuryIllnessType   *string `json:"injuryIllnessType"`
	EmployeeGender      *string `json:"employeeGender"`
}

type ImportRequest struct {
	EstablishmentID int           `json:"establishmentId"`
	LocationID      *int          `json:"locationId"`
	Mapping         ColumnMapping `json:"mapping"`
}

type CSVPreview struct {
	Headers    []string   `json:"headers"`
	SampleRows [][]string `json:"sampleRows"`
	TotalRows  int        `json:"totalRows"`
}

type ImportResult struct {
	Imported int      `json:"imported"`
	Errors   []string `json:"errors"`
}
