package models

const PrivacyCaseName = "Privacy Case"

type Incident struct {
	BaseModel
	CaseNumber      int  `gorm:"not null"       json:"caseNumber"`
	EstablishmentID int  `gorm:"not null;index" json:"establishmentId"`
	LocationID      *int `json:"locationId"`

	EmployeeName     string  `gorm:"not null"                   json:"employeeName"`
	EmployeeJobTitle *string `json:"employeeJobTitle"`
	EmployeeAddress  *string `json:"employeeAddress"`
	EmployeeCity     *string `json:"employeeCity"`
	EmployeeState    *string `json:"employeeState"`
	EmployeeZip      *string `gorm:"column:employee_zip"        json:"employeeZip"`
	EmployeeDOB      *string `gorm:"column:employee_dob"        json:"employeeDob"`
	EmployeeHireDate *string `gorm:"column:employee_hire_date"  json:"employeeHireDate"`
	EmployeeGender   *string `json:"employeeGender"`
	IsPrivacyCase    bool    `gorm:"not null"                   json:"isPrivacyCase"`

	IncidentDate           string  `gorm:"not null;index" json:"incidentDate"`
	IncidentTime           *string `json:"incidentTime"`
	WorkStartTime          *string `json:"workStartTime"`
	WhereOccurred          *string `json:"whereOccurred"`
	Description            string  `gorm:"not null"       json:"description"`
	ActivityBeforeIncident *string `json:"activityBeforeIncident"`
	HowInjuryOccurred      *string `json:"howInjuryOccurred"`
	InjuryDescription      *string `json:"injuryDescription"`
	ObjectSubstance        *string `json:"objectSubstance"`

	PhysicianName         *string `json:"physicianName"`
	TreatmentFacility     *string `json:"treatmentFacility"`
	FacilityAddress       *string `json:"facilityAddress"`
	FacilityCityStateZip  *string `gorm:"column:facility_city_state_zip" json:"facilityCityStateZip"`
	TreatedInER           *bool   `gorm:"column:treated_in_er"           json:"treatedInEr"`
	HospitalizedOvernight *bool   `json:"hospitalizedOvernight"`

	OutcomeSeverity     OutcomeSeverity   `gorm:"not null" json:"outcomeSeverity"`
	DaysAwayCount       *int              `json:"daysAwayCount"`
	DaysRestrictedCount *int              `json:"daysRestrictedCount"`
	DateOfDeath         *string           `json:"dateOfDeath"`
	InjuryIllnessType   InjuryIllnessType `gorm:"not null" json:"injuryIllnessType"`
	IsRecordable        bool              `gorm:"not null" json:"isRecordable"`
	Status              IncidentStatus    `gorm:"not null" json:"status"`

	CompletedBy      *string `json:"completedBy"`
	CompletedByTitle *string `json:"completedByTitle"`
	CompletedByPhone *string `json:"completedByPhone"`
	CompletedDate    *string `json:"completedDate"`
}

func (Incident) TableName() string { return "incidents" }

// ReportName is the employee name as it may appear in any statutory report.
func (i Incident) ReportName() string {
	if i.IsPrivacyCase {
		return PrivacyCaseName
	}
	return i.EmployeeName
}

type CreateIncidentRequest struct {
	EstablishmentID int  `json:"establishmentId"`
	LocationID      *int `json:"locationId"`

	EmployeeName     string  `json:"employeeName"`
	EmployeeJobTitle *string `json:"employeeJobTitle"`
	EmployeeAddress  *string `json:"employeeAddress"`
	EmployeeCity     *string `json:"employeeCity"`
	EmployeeState    *string `json:"employeeState"`
	EmployeeZip      *string `json:"employeeZip"`
	EmployeeDOB      *string `json:"employeeDob"`
	EmployeeHireDate *string `json:"employeeHireDate"`
	EmployeeGender   *string `json:"employeeGender"`
	IsPrivacyCase    *bool   `json:"isPrivacyCase"`

	IncidentDate           string  `json:"incidentDate"`
	IncidentTime           *string `json:"incidentTime"`
	WorkStartTime          *string `json:"workStartTime"`
	WhereOccurred          *string `json:"whereOccurred"`
	Description            string  `json:"description"`
	ActivityBeforeIncident *string `json:"activityBeforeIncident"`
	HowInjuryOccurred      *string `json:"howInjuryOccurred"`
	InjuryDescription      *string `json:"injuryDescription"`
	ObjectSubstance        *string `json:"objectSubstance"`

	PhysicianName         *string `json:"physicianName"`
	TreatmentFacility     *string `json:"treatmentFacility"`
	FacilityAddress       *string `json:"facilityAddress"`
	FacilityCityStateZip  *string `json:"facilityCityStateZip"`
	TreatedInER           *bool   `json:"treatedInEr"`
	HospitalizedOvernight *bool   `json:"hospitalizedOvernight"`

	OutcomeSeverity     *OutcomeSeverity   `json:"outcomeSeverity"`
	DaysAwayCount       Nullable[int]      `json:"daysAwayCount"`
	DaysRestrictedCount Nullable[int]      `json:"daysRestrictedCount"`
	DateOfDeath         *string            `json:"dateOfDeath"`
	InjuryIllnessType   *InjuryIllnessType `json:"injuryIllnessType"`
	IsRecordable        *bool              `json:"isRecordable"`

	CompletedBy      *string `json:"completedBy"`
	CompletedByTitle *string `json:"completedByTitle"`
	CompletedByPhone *string `json:"completedByPhone"`
	CompletedDate    *string `json:"completedDate"`
}

// IncidentPatch carries only the fields to change. Pointer fields left nil
// and Nullable fields left unset are not touched.
type IncidentPatch struct {
	LocationID Nullable[int] `json:"locationId"`

	EmployeeName     *string `json:"employeeName"`
	EmployeeJobTitle *string `json:"employeeJobTitle"`
	EmployeeAddress  *string `json:"employeeAddress"`
	EmployeeCity     *string `json:"employeeCity"`
	EmployeeState    *string `json:"employeeState"`
	EmployeeZip      *string `json:"employeeZip"`
	EmployeeDOB      *string `json:"employeeDob"`
	EmployeeHireDate *string `json:"employeeHireDate"`
	EmployeeGender   *string `json:"employeeGender"`
	IsPrivacyCase    *bool   `json:"isPrivacyCase"`

	IncidentDate           *string `json:"incidentDate"`
	IncidentTime           *string `json:"incidentTime"`
	WorkStartTime          *string `json:"workStartTime"`
	WhereOccurred          *string `json:"whereOccurred"`
	Description            *string `json:"description"`
	ActivityBeforeIncident *string `json:"activityBeforeIncident"`
	HowInjuryOccurred      *string `json:"howInjuryOccurred"`
	InjuryDescription      *string `json:"injuryDescription"`
	ObjectSubstance        *string `json:"objectSubstance"`

	PhysicianName         *string        `json:"physicianName"`
	TreatmentFacility     *string        `json:"treatmentFacility"`
	FacilityAddress       *string        `json:"facilityAddress"`
	FacilityCityStateZip  *string        `json:"facilityCityStateZip"`
	TreatedInER           Nullable[bool] `json:"treatedInEr"`
	HospitalizedOvernight Nullable[bool] `json:"hospitalizedOvernight"`

	OutcomeSeverity     *OutcomeSeverity   `json:"outcomeSeverity"`
	DaysAwayCount       Nullable[int]      `json:"daysAwayCount"`
	DaysRestrictedCount Nullable[int]      `json:"daysRestrictedCount"`
	DateOfDeath         *string            `json:"dateOfDeath"`
	InjuryIllnessType   *InjuryIllnessType `json:"injuryIllnessType"`
	IsRecordable        *bool              `json:"isRecordable"`
	Status              *IncidentStatus    `json:"status"`

	CompletedBy      *string `json:"completedBy"`
	CompletedByTitle *string `json:"completedByTitle"`
	CompletedByPhone *string `json:"completedByPhone"`
	CompletedDate    *string `json:"completedDate"`
}

type IncidentFilter struct {
	EstablishmentID int              `json:"establishmentId"`
	LocationID      *int             `json:"locationId"`
	Status          *IncidentStatus  `json:"status"`
	OutcomeSeverity *OutcomeSeverity `json:"outcomeSeverity"`
	DateFrom        *string          `json:"dateFrom"`
	DateTo          *string          `json:"dateTo"`
	Search          *string          `json:"search"`
}
