package incidentController

import (
	"oshalog/internal/apperrors"
	. "oshalog/internal/models"
	"oshalog/internal/utils"
)

type textField struct {
	name  string
	value *string
	max   int
}

func short(name string, value *string) textField {
	return textField{name: name, value: value, max: utils.MaxNameLength}
}

func narrative(name string, value *string) textField {
	return textField{name: name, value: value, max: utils.MaxDescriptionLength}
}

func validateText(fields ...textField) error {
	for _, field := range fields {
		if err := utils.ValidateOptionalLength(field.value, field.name, field.max); err != nil {
			return err
		}
	}
	return nil
}

func validateDates(fields map[string]*string) error {
	for _, name := range []string{"date of birth", "hire date", "date of death", "completed date"} {
		if err := utils.ValidateOptionalDate(fields[name], name); err != nil {
			return err
		}
	}
	return nil
}

func validateEmployeeName(name string) error {
	if err := utils.ValidateNotEmpty(name, "employee name"); err != nil {
		return err
	}
	return utils.ValidateLength(name, "employee name", utils.MaxNameLength)
}

func validateDescription(description string) error {
	if err := utils.ValidateNotEmpty(description, "description"); err != nil {
		return err
	}
	return utils.ValidateLength(description, "description", utils.MaxDescriptionLength)
}

func validateSeverity(severity *OutcomeSeverity) error {
	if severity != nil && !severity.Valid() {
		return apperrors.Validation("invalid outcome severity %q", string(*severity))
	}
	return nil
}

func validateType(injuryType *InjuryIllnessType) error {
	if injuryType != nil && !injuryType.Valid() {
		return apperrors.Validation("invalid injury/illness type %q", string(*injuryType))
	}
	return nil
}

func validateCreate(req *CreateIncidentRequest) error {
	if err := validateEmployeeName(req.EmployeeName); err != nil {
		return err
	}
	if err := utils.ValidateDate(req.IncidentDate, "incident date"); err != nil {
		return err
	}
	if err := validateDescription(req.Description); err != nil {
		return err
	}

	err := validateText(
		short("job title", req.EmployeeJobTitle),
		short("employee address", req.EmployeeAddress),
		short("employee city", req.EmployeeCity),
		short("employee state", req.EmployeeState),
		short("employee zip", req.EmployeeZip),
		short("employee gender", req.EmployeeGender),
		short("incident time", req.IncidentTime),
		short("work start time", req.WorkStartTime),
		short("where occurred", req.WhereOccurred),
		narrative("activity before incident", req.ActivityBeforeIncident),
		narrative("how injury occurred", req.HowInjuryOccurred),
		narrative("injury description", req.InjuryDescription),
		narrative("object or substance", req.ObjectSubstance),
		short("physician name", req.PhysicianName),
		short("treatment facility", req.TreatmentFacility),
		short("facility address", req.FacilityAddress),
		short("facility city/state/zip", req.FacilityCityStateZip),
		short("completed by", req.CompletedBy),
		short("completed by title", req.CompletedByTitle),
		short("completed by phone", req.CompletedByPhone),
	)
	if err != nil {
		return err
	}

	err = validateDates(map[string]*string{
		"date of birth":  req.EmployeeDOB,
		"hire date":      req.EmployeeHireDate,
		"date of death":  req.DateOfDeath,
		"completed date": req.CompletedDate,
	})
	if err != nil {
		return err
	}

	if err := utils.ValidateDays(req.DaysAwayCount.Ptr(), "days away"); err != nil {
		return err
	}
	if err := utils.ValidateDays(req.DaysRestrictedCount.Ptr(), "days restricted"); err != nil {
		return err
	}
	if err := validateSeverity(req.OutcomeSeverity); err != nil {
		return err
	}
	return validateType(req.InjuryIllnessType)
}

func validatePatch(patch *IncidentPatch) error {
	if patch.EmployeeName != nil {
		if err := validateEmployeeName(*patch.EmployeeName); err != nil {
			return err
		}
	}
	if patch.IncidentDate != nil {
		if err := utils.ValidateDate(*patch.IncidentDate, "incident date"); err != nil {
			return err
		}
	}
	if patch.Description != nil {
		if err := validateDescription(*patch.Description); err != nil {
			return err
		}
	}

	err := validateText(
		short("job title", patch.EmployeeJobTitle),
		short("employee address", patch.EmployeeAddress),
		short("employee city", patch.EmployeeCity),
		short("employee state", patch.EmployeeState),
		short("employee zip", patch.EmployeeZip),
		short("employee gender", patch.EmployeeGender),
		short("incident time", patch.IncidentTime),
		short("work start time", patch.WorkStartTime),
		short("where occurred", patch.WhereOccurred),
		narrative("activity before incident", patch.ActivityBeforeIncident),
		narrative("how injury occurred", patch.HowInjuryOccurred),
		narrative("injury description", patch.InjuryDescription),
		narrative("object or substance", patch.ObjectSubstance),
		short("physician name", patch.PhysicianName),
		short("treatment facility", patch.TreatmentFacility),
		short("facility address", patch.FacilityAddress),
		short("facility city/state/zip", patch.FacilityCityStateZip),
		short("completed by", patch.CompletedBy),
		short("completed by title", patch.CompletedByTitle),
		short("completed by phone", patch.CompletedByPhone),
	)
	if err != nil {
		return err
	}

	err = validateDates(map[string]*string{
		"date of birth":  patch.EmployeeDOB,
		"hire date":      patch.EmployeeHireDate,
		"date of death":  patch.DateOfDeath,
		"completed date": patch.CompletedDate,
	})
	if err != nil {
		return err
	}

	if err := utils.ValidateDays(patch.DaysAwayCount.Ptr(), "days away"); err != nil {
		return err
	}
	if err := utils.ValidateDays(patch.DaysRestrictedCount.Ptr(), "days restricted"); err != nil {
		return err
	}
	if err := validateSeverity(patch.OutcomeSeverity); err != nil {
		return err
	}
	if err := validateType(patch.InjuryIllnessType); err != nil {
		return err
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return apperrors.Validation("invalid status %q", string(*patch.Status))
	}
	return nil
}

func validateFilter(filter *IncidentFilter) error {
	if err := utils.ValidateOptionalDate(filter.DateFrom, "date from"); err != nil {
		return err
	}
	if err := utils.ValidateOptionalDate(filter.DateTo, "date to"); err != nil {
		return err
	}
	if err := validateSeverity(filter.OutcomeSeverity); err != nil {
		return err
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return apperrors.Validation("invalid status %q", string(*filter.Status))
	}
	return nil
}
