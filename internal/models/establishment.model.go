package models

type Establishment struct {
	BaseModel
	Name                string  `gorm:"not null"               json:"name"`
	StreetAddress       *string `json:"streetAddress"`
	City                *string `json:"city"`
	State               *string `json:"state"`
	ZipCode             *string `json:"zipCode"`
	IndustryDescription *string `json:"industryDescription"`
	NaicsCode           *string `gorm:"column:naics_code"      json:"naicsCode"`
}

func (Establishment) TableName() string { return "establishments" }

type CreateEstablishmentRequest struct {
	Name                string  `json:"name"`
	StreetAddress       *string `json:"streetAddress"`
	City                *string `json:"city"`
	State               *string `json:"state"`
	ZipCode             *string `json:"zipCode"`
	IndustryDescription *string `json:"industryDescription"`
	NaicsCode           *string `json:"naicsCode"`
}

type EstablishmentPatch struct {
	Name                *string `json:"name"`
	StreetAddress       *string `json:"streetAddress"`
	City                *string `json:"city"`
	State               *string `json:"state"`
	ZipCode             *string `json:"zipCode"`
	IndustryDescription *string `json:"industryDescription"`
	NaicsCode           *string `json:"naicsCode"`
}
