package models

type AnnualStats struct {
	BaseModel
	EstablishmentID   int     `gorm:"not null;uniqueIndex:idx_annual_stats_establishment_year" json:"establishmentId"`
	Year              int     `gorm:"not null;uniqueIndex:idx_annual_stats_establishment_year" json:"year"`
	AverageEmployees  *int    `json:"averageEmployees"`
	TotalHoursWorked  *int64  `json:"totalHoursWorked"`
	CertifierName     *string `json:"certifierName"`
	CertifierTitle    *string `json:"certifierTitle"`
	CertifierPhone    *string `json:"certifierPhone"`
	CertificationDate *string `json:"certificationDate"`
}

func (AnnualStats) TableName() string { return "annual_stats" }

type UpsertAnnualStatsRequest struct {
	EstablishmentID   int     `json:"establishmentId"`
	Year              int     `json:"year"`
	AverageEmployees  *int    `json:"averageEmployees"`
	TotalHoursWorked  *int64  `json:"totalHoursWorked"`
	CertifierName     *string `json:"certifierName"`
	CertifierTitle    *string `json:"certifierTitle"`
	CertifierPhone    *string `json:"certifierPhone"`
	CertificationDate *string `json:"certificationDate"`
}
