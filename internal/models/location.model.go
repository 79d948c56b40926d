package models

type Location struct {
	BaseModel
	EstablishmentID int     `gorm:"not null;index" json:"establishmentId"`
	Name            string  `gorm:"not null"       json:"name"`
	Address         *string `json:"address"`
	City            *string `json:"city"`
	State           *string `json:"state"`
	IsActive        bool    `gorm:"not null"       json:"isActive"`
}

func (Location) TableName() string { return "locations" }

type CreateLocationRequest struct {
	EstablishmentID int     `json:"establishmentId"`
	Name            string  `json:"name"`
	Address         *string `json:"address"`
	City            *string `json:"city"`
	State           *string `json:"state"`
	IsActive        *bool   `json:"isActive"`
}

type LocationPatch struct {
	Name     *string `json:"name"`
	Address  *string `json:"address"`
	City     *string `json:"city"`
	State    *string `json:"state"`
	IsActive *bool   `json:"isActive"`
}
