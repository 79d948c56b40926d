package models

import (
	"time"
)

// BaseModel rows are hard deleted: a removed incident must not keep
// occupying its case number.
type BaseModel struct {
	ID        int       `gorm:"type:integer;primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime"                        json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"                        json:"updatedAt"`
}
