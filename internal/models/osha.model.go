package models

// AnnualLogRow is one line of the OSHA 300 log.
type AnnualLogRow struct {
	CaseNumber          int     `json:"caseNumber"`
	EmployeeName        string  `json:"employeeName"`
	JobTitle            *string `json:"jobTitle"`
	IncidentDate        string  `json:"incidentDate"`
	WhereOccurred       *string `json:"whereOccurred"`
	Description         string  `json:"description"`
	Death               bool    `json:"death"`
	DaysAway            bool    `json:"daysAway"`
	JobTransfer         bool    `json:"jobTransfer"`
	OtherRecordable     bool    `json:"otherRecordable"`
	DaysAwayCount       *int    `json:"daysAwayCount"`
	DaysRestrictedCount *int    `json:"daysRestrictedCount"`
	Injury              bool    `json:"injury"`
	SkinDisorder        bool    `json:"skinDisorder"`
	Respiratory         bool    `json:"respiratory"`
	Poisoning           bool    `json:"poisoning"`
	HearingLoss         bool    `json:"hearingLoss"`
	OtherIllness        bool    `json:"otherIllness"`
}

// AnnualTotals holds the conditional counts and sums of the OSHA 300A.
type AnnualTotals struct {
	TotalCases          int `json:"totalCases"`
	TotalDeaths         int `json:"totalDeaths"`
	TotalDaysAwayCases  int `json:"totalDaysAwayCases"`
	TotalTransferCases  int `json:"totalTransferCases"`
	TotalOtherCases     int `json:"totalOtherCases"`
	TotalDaysAway       int `json:"totalDaysAway"`
	TotalDaysRestricted int `json:"totalDaysRestricted"`
	TotalInjuries       int `json:"totalInjuries"`
	TotalSkinDisorders  int `json:"totalSkinDisorders"`
	TotalRespiratory    int `json:"totalRespiratory"`
	TotalPoisonings     int `json:"totalPoisonings"`
	TotalHearingLoss    int `json:"totalHearingLoss"`
	TotalOtherIllnesses int `json:"totalOtherIllnesses"`
}

// AnnualSummary is the OSHA 300A. Stats fields stay nil when no annual
// stats were recorded for the year.
type AnnualSummary struct {
	EstablishmentID     int     `json:"establishmentId"`
	EstablishmentName   string  `json:"establishmentName"`
	StreetAddress       *string `json:"streetAddress"`
	City                *string `json:"city"`
	State               *string `json:"state"`
	ZipCode             *string `json:"zipCode"`
	IndustryDescription *string `json:"industryDescription"`
	NaicsCode           *string `json:"naicsCode"`
	Year                int     `json:"year"`

	AnnualTotals

	AverageEmployees  *int    `json:"averageEmployees"`
	TotalHoursWorked  *int64  `json:"totalHoursWorked"`
	CertifierName     *string `json:"certifierName"`
	CertifierTitle    *string `json:"certifierTitle"`
	CertifierPhone    *string `json:"certifierPhone"`
	CertificationDate *string `json:"certificationDate"`
}

// PerCaseReport is the OSHA 301 detail for a single incident.
type PerCaseReport struct {
	IncidentID    int    `json:"incidentId"`
	CaseNumber    int    `json:"caseNumber"`
	IsRecordable  bool   `json:"isRecordable"`
	IsPrivacyCase bool   `json:"isPrivacyCase"`
	Establishment string `json:"establishment"`

	Employee      EmployeeSection      `json:"employee"`
	Treatment     TreatmentSection     `json:"treatment"`
	Case          CaseSection          `json:"case"`
	Certification CertificationSection `json:"certification"`
}

type EmployeeSection struct {
	Name     string  `json:"name"`
	JobTitle *string `json:"jobTitle"`
	Address  *string `json:"address"`
	City     *string `json:"city"`
	State    *string `json:"state"`
	Zip      *string `json:"zip"`
	DOB      *string `json:"dob"`
	HireDate *string `json:"hireDate"`
	Gender   *string `json:"gender"`
}

type TreatmentSection struct {
	PhysicianName         *string `json:"physicianName"`
	Facility              *string `json:"facility"`
	FacilityAddress       *string `json:"facilityAddress"`
	FacilityCityStateZip  *string `json:"facilityCityStateZip"`
	TreatedInER           *bool   `json:"treatedInEr"`
	HospitalizedOvernight *bool   `json:"hospitalizedOvernight"`
}

type CaseSection struct {
	IncidentDate           string            `json:"incidentDate"`
	IncidentTime           *string           `json:"incidentTime"`
	WorkStartTime          *string           `json:"workStartTime"`
	WhereOccurred          *string           `json:"whereOccurred"`
	Description            string            `json:"description"`
	ActivityBeforeIncident *string           `json:"activityBeforeIncident"`
	HowInjuryOccurred      *string           `json:"howInjuryOccurred"`
	InjuryDescription      *string           `json:"injuryDescription"`
	ObjectSubstance        *string           `json:"objectSubstance"`
	OutcomeSeverity        OutcomeSeverity   `json:"outcomeSeverity"`
	InjuryIllnessType      InjuryIllnessType `json:"injuryIllnessType"`
	DaysAwayCount          *int              `json:"daysAwayCount"`
	DaysRestrictedCount    *int              `json:"daysRestrictedCount"`
	DateOfDeath            *string           `json:"dateOfDeath"`
}

type CertificationSection struct {
	CompletedBy      *string `json:"completedBy"`
	CompletedByTitle *string `json:"completedByTitle"`
	CompletedByPhone *string `json:"completedByPhone"`
	CompletedDate    *string `json:"completedDate"`
}
