package models

type CorrectiveAction struct {
	BaseModel
	IncidentID    int                    `gorm:"not null;index" json:"incidentId"`
	RcaSessionID  *int                   `json:"rcaSessionId"`
	Description   string                 `gorm:"not null"       json:"description"`
	AssignedTo    *string                `json:"assignedTo"`
	DueDate       *string                `json:"dueDate"`
	Status        CorrectiveActionStatus `gorm:"not null"       json:"status"`
	CompletedDate *string                `json:"completedDate"`
	Notes         *string                `json:"notes"`
}

func (CorrectiveAction) TableName() string { return "corrective_actions" }

type CreateCorrectiveActionRequest struct {
	IncidentID   int                     `json:"incidentId"`
	RcaSessionID *int                    `json:"rcaSessionId"`
	Description  string                  `json:"description"`
	AssignedTo   *string                 `json:"assignedTo"`
	DueDate      *string                 `json:"dueDate"`
	Status       *CorrectiveActionStatus `json:"status"`
	Notes        *string                 `json:"notes"`
}

type CorrectiveActionPatch struct {
	RcaSessionID  Nullable[int]           `json:"rcaSessionId"`
	Description   *string                 `json:"description"`
	AssignedTo    *string                 `json:"assignedTo"`
	DueDate       *string                 `json:"dueDate"`
	Status        *CorrectiveActionStatus `json:"status"`
	CompletedDate *string                 `json:"completedDate"`
	Notes         *string                 `json:"notes"`
}
