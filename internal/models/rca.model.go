package models

import "fmt"

type RcaMethod string

const (
	RcaFiveWhys RcaMethod = "five_whys"
	RcaFishbone RcaMethod = "fishbone"
)

var RcaMethods = []RcaMethod{RcaFiveWhys, RcaFishbone}

func (m RcaMethod) Valid() bool {
	for _, v := range RcaMethods {
		if m == v {
			return true
		}
	}
	return false
}

func ParseRcaMethod(value string) (RcaMethod, error) {
	key := normalizeVariant(value)
	for _, v := range RcaMethods {
		if key == string(v) {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid RCA method %q", value)
}

func (m *RcaMethod) UnmarshalText(text []byte) error {
	v, err := ParseRcaMethod(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

type RcaStatus string

const (
	RcaInProgress RcaStatus = "in_progress"
	RcaCompleted  RcaStatus = "completed"
)

// FishboneCategoryName is one of the six classic Ishikawa bones.
type FishboneCategoryName string

const (
	BoneManpower    FishboneCategoryName = "manpower"
	BoneMethods     FishboneCategoryName = "methods"
	BoneMaterials   FishboneCategoryName = "materials"
	BoneMachinery   FishboneCategoryName = "machinery"
	BoneEnvironment FishboneCategoryName = "environment"
	BoneManagement  FishboneCategoryName = "management"
)

var FishboneCategoryNames = []FishboneCategoryName{
	BoneManpower,
	BoneMethods,
	BoneMaterials,
	BoneMachinery,
	BoneEnvironment,
	BoneManagement,
}

func (c FishboneCategoryName) Valid() bool {
	for _, v := range FishboneCategoryNames {
		if c == v {
			return true
		}
	}
	return false
}

func ParseFishboneCategoryName(value string) (FishboneCategoryName, error) {
	key := normalizeVariant(value)
	for _, v := range FishboneCategoryNames {
		if key == string(v) {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid fishbone category %q", value)
}

func (c *FishboneCategoryName) UnmarshalText(text []byte) error {
	v, err := ParseFishboneCategoryName(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

type RcaSession struct {
	BaseModel
	IncidentID       int       `gorm:"not null;index" json:"incidentId"`
	Method           RcaMethod `gorm:"not null"       json:"method"`
	Status           RcaStatus `gorm:"not null"       json:"status"`
	RootCauseSummary *string   `json:"rootCauseSummary"`
}

func (RcaSession) TableName() string { return "rca_sessions" }

type FiveWhysStep struct {
	BaseModel
	RcaSessionID int     `gorm:"not null;index" json:"rcaSessionId"`
	StepNumber   int     `gorm:"not null"       json:"stepNumber"`
	Question     string  `gorm:"not null"       json:"question"`
	Answer       *string `json:"answer"`
}

func (FiveWhysStep) TableName() string { return "five_whys_steps" }

type FishboneCategory struct {
	BaseModel
	RcaSessionID int                  `gorm:"not null;index" json:"rcaSessionId"`
	Category     FishboneCategoryName `gorm:"not null"       json:"category"`
	SortOrder    int                  `gorm:"not null"       json:"sortOrder"`
	Causes       []*FishboneCause     `gorm:"-"              json:"causes"`
}

func (FishboneCategory) TableName() string { return "fishbone_categories" }

type FishboneCause struct {
	BaseModel
	CategoryID  int    `gorm:"not null;index" json:"categoryId"`
	CauseText   string `gorm:"not null"       json:"causeText"`
	IsRootCause bool   `gorm:"not null"       json:"isRootCause"`
	SortOrder   int    `gorm:"not null"       json:"sortOrder"`
}

func (FishboneCause) TableName() string { return "fishbone_causes" }

// RcaAnalysis is a session with whichever worksheet its method uses.
type RcaAnalysis struct {
	*RcaSession
	Steps      []*FiveWhysStep     `json:"steps,omitempty"`
	Categories []*FishboneCategory `json:"categories,omitempty"`
}

type CreateRcaSessionRequest struct {
	IncidentID int       `json:"incidentId"`
	Method     RcaMethod `json:"method"`
}

type CompleteRcaSessionRequest struct {
	RootCauseSummary string `json:"rootCauseSummary"`
}

type AddFiveWhysStepRequest struct {
	StepNumber int     `json:"stepNumber"`
	Question   string  `json:"question"`
	Answer     *string `json:"answer"`
}

type FiveWhysStepPatch struct {
	Question *string          `json:"question"`
	Answer   Nullable[string] `json:"answer"`
}

type AddFishboneCategoryRequest struct {
	Category  FishboneCategoryName `json:"category"`
	SortOrder *int                 `json:"sortOrder"`
}

type AddFishboneCauseRequest struct {
	CauseText   string `json:"causeText"`
	IsRootCause bool   `json:"isRootCause"`
	SortOrder   *int   `json:"sortOrder"`
}

type FishboneCausePatch struct {
	CauseText   *string `json:"causeText"`
	IsRootCause *bool   `json:"isRootCause"`
	SortOrder   *int    `json:"sortOrder"`
}
