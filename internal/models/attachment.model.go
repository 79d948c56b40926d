package models

import "time"

type Attachment struct {
	ID         int            `gorm:"type:integer;primaryKey;autoIncrement" json:"id"`
	IncidentID int            `gorm:"not null;index"                        json:"incidentId"`
	FileName   string         `gorm:"not null"                              json:"fileName"`
	FilePath   string         `gorm:"not null"                              json:"filePath"`
	FileType   AttachmentType `gorm:"not null"                              json:"fileType"`
	FileSize   *int64         `json:"fileSize"`
	Checksum   *string        `json:"checksum"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"                        json:"createdAt"`
}

func (Attachment) TableName() string { return "attachments" }

type CreateAttachmentRequest struct {
	IncidentID int            `json:"incidentId"`
	FileName   string         `json:"fileName"`
	FilePath   string         `json:"filePath"`
	FileType   AttachmentType `json:"fileType"`
	FileSize   *int64         `json:"fileSize"`
	Checksum   *string        `json:"checksum"`
}
