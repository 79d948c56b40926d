package models

import (
	"fmt"
	"strings"
)

type OutcomeSeverity string

const (
	SeverityDeath                  OutcomeSeverity = "death"
	SeverityDaysAway               OutcomeSeverity = "days_away"
	SeverityJobTransferRestriction OutcomeSeverity = "job_transfer_restriction"
	SeverityOtherRecordable        OutcomeSeverity = "other_recordable"
)

var OutcomeSeverities = []OutcomeSeverity{
	SeverityDeath,
	SeverityDaysAway,
	SeverityJobTransferRestriction,
	SeverityOtherRecordable,
}

var severityAliases = map[string]OutcomeSeverity{
	"days_away_from_work":         SeverityDaysAway,
	"job_transfer_or_restriction": SeverityJobTransferRestriction,
	"job_transfer":                SeverityJobTransferRestriction,
	"restriction":                 SeverityJobTransferRestriction,
	"other_recordable_cases":      SeverityOtherRecordable,
	"other":                       SeverityOtherRecordable,
}

func (s OutcomeSeverity) Valid() bool {
	for _, v := range OutcomeSeverities {
		if s == v {
			return true
		}
	}
	return false
}

func (s OutcomeSeverity) Label() string {
	switch s {
	case SeverityDeath:
		return "Death"
	case SeverityDaysAway:
		return "Days Away From Work"
	case SeverityJobTransferRestriction:
		return "Job Transfer or Restriction"
	case SeverityOtherRecordable:
		return "Other Recordable Cases"
	}
	return string(s)
}

// ParseOutcomeSeverity accepts the stored value, its label, or a loose
// spelling of either ("Days Away", "days-away").
func ParseOutcomeSeverity(value string) (OutcomeSeverity, error) {
	key := normalizeVariant(value)
	for _, v := range OutcomeSeverities {
		if key == string(v) || key == normalizeVariant(v.Label()) {
			return v, nil
		}
	}
	if v, ok := severityAliases[key]; ok {
		return v, nil
	}
	return "", fmt.Errorf("invalid outcome severity %q", value)
}

func (s *OutcomeSeverity) UnmarshalText(text []byte) error {
	v, err := ParseOutcomeSeverity(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

type InjuryIllnessType string

const (
	TypeInjury       InjuryIllnessType = "injury"
	TypeSkinDisorder InjuryIllnessType = "skin_disorder"
	TypeRespiratory  InjuryIllnessType = "respiratory"
	TypePoisoning    InjuryIllnessType = "poisoning"
	TypeHearingLoss  InjuryIllnessType = "hearing_loss"
	TypeOtherIllness InjuryIllnessType = "other_illness"
)

var InjuryIllnessTypes = []InjuryIllnessType{
	TypeInjury,
	TypeSkinDisorder,
	TypeRespiratory,
	TypePoisoning,
	TypeHearingLoss,
	TypeOtherIllness,
}

var typeAliases = map[string]InjuryIllnessType{
	"respiratory_condition": TypeRespiratory,
	"all_other_illnesses":   TypeOtherIllness,
	"other":                 TypeOtherIllness,
	"illness":               TypeOtherIllness,
}

func (t InjuryIllnessType) Valid() bool {
	for _, v := range InjuryIllnessTypes {
		if t == v {
			return true
		}
	}
	return false
}

func (t InjuryIllnessType) Label() string {
	switch t {
	case TypeInjury:
		return "Injury"
	case TypeSkinDisorder:
		return "Skin Disorder"
	case TypeRespiratory:
		return "Respiratory Condition"
	case TypePoisoning:
		return "Poisoning"
	case TypeHearingLoss:
		return "Hearing Loss"
	case TypeOtherIllness:
		return "All Other Illnesses"
	}
	return string(t)
}

func ParseInjuryIllnessType(value string) (InjuryIllnessType, error) {
	key := normalizeVariant(value)
	for _, v := range InjuryIllnessTypes {
		if key == string(v) || key == normalizeVariant(v.Label()) {
			return v, nil
		}
	}
	if v, ok := typeAliases[key]; ok {
		return v, nil
	}
	return "", fmt.Errorf("invalid injury/illness type %q", value)
}

func (t *InjuryIllnessType) UnmarshalText(text []byte) error {
	v, err := ParseInjuryIllnessType(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

type IncidentStatus string

const (
	StatusOpen     IncidentStatus = "open"
	StatusInReview IncidentStatus = "in_review"
	StatusClosed   IncidentStatus = "closed"
)

var IncidentStatuses = []IncidentStatus{StatusOpen, StatusInReview, StatusClosed}

func (s IncidentStatus) Valid() bool {
	for _, v := range IncidentStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func ParseIncidentStatus(value string) (IncidentStatus, error) {
	key := normalizeVariant(value)
	for _, v := range IncidentStatuses {
		if key == string(v) {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid incident status %q", value)
}

func (s *IncidentStatus) UnmarshalText(text []byte) error {
	v, err := ParseIncidentStatus(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

type CorrectiveActionStatus string

const (
	ActionOpen       CorrectiveActionStatus = "open"
	ActionInProgress CorrectiveActionStatus = "in_progress"
	ActionCompleted  CorrectiveActionStatus = "completed"
)

var CorrectiveActionStatuses = []CorrectiveActionStatus{ActionOpen, ActionInProgress, ActionCompleted}

func (s CorrectiveActionStatus) Valid() bool {
	for _, v := range CorrectiveActionStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func ParseCorrectiveActionStatus(value string) (CorrectiveActionStatus, error) {
	key := normalizeVariant(value)
	for _, v := range CorrectiveActionStatuses {
		if key == string(v) {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid corrective action status %q", value)
}

func (s *CorrectiveActionStatus) UnmarshalText(text []byte) error {
	v, err := ParseCorrectiveActionStatus(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

type AttachmentType string

const (
	AttachmentPhoto    AttachmentType = "photo"
	AttachmentAudio    AttachmentType = "audio"
	AttachmentDocument AttachmentType = "document"
)

func ParseAttachmentType(value string) (AttachmentType, error) {
	switch t := AttachmentType(normalizeVariant(value)); t {
	case AttachmentPhoto, AttachmentAudio, AttachmentDocument:
		return t, nil
	}
	return "", fmt.Errorf("invalid file type %q", value)
}

func normalizeVariant(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	return strings.NewReplacer(" ", "_", "-", "_", "/", "_").Replace(value)
}
