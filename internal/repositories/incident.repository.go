package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"oshalog/internal/apperrors"
	"oshalog/internal/database"
	"oshalog/internal/logger"
	. "oshalog/internal/models"
	"oshalog/internal/services"

	"gorm.io/gorm"
)

type IncidentRepository interface {
	Create(ctx context.Context, incident *Incident) error
	GetByID(ctx context.Context, id int) (*Incident, error)
	List(ctx context.Context, filter IncidentFilter) ([]*Incident, error)
	Update(ctx context.Context, id int, patch *IncidentPatch) (*Incident, error)
	Delete(ctx context.Context, id int) error
	ListRecordableForYear(ctx context.Context, establishmentID, year int) ([]*Incident, error)
}

type incidentRepository struct {
	db  database.DB
	log logger.Logger
	now func() time.Time
}

func NewIncident(db database.DB) IncidentRepository {
	return &incidentRepository{
		db:  db,
		log: logger.New("incidentRepository"),
		now: time.Now,
	}
}

func (r *incidentRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func yearPrefix(year int) string {
	return fmt.Sprintf("%04d%%", year)
}

// Create assigns the next case number for the establishment and the year of
// IncidentDate, then inserts. Both statements must share one transaction
// under the store lock, so Create refuses to run outside one.
func (r *incidentRepository) Create(ctx context.Context, incident *Incident) error {
	log := r.log.Function("Create")

	tx, ok := services.GetTransaction(ctx)
	if !ok {
		return log.ErrMsg("incident creation requires a transaction")
	}

	if len(incident.IncidentDate) < 4 {
		return apperrors.Validation("incident date must be in YYYY-MM-DD format")
	}

	var maxCase int
	err := tx.Model(&Incident{}).
		Select("COALESCE(MAX(case_number), 0)").
		Where("establishment_id = ? AND incident_date LIKE ?", incident.EstablishmentID, incident.IncidentDate[:4]+"%").
		Scan(&maxCase).Error
	if err != nil {
		return log.Err("failed to read last case number", apperrors.Storage(err),
			"establishmentID", incident.EstablishmentID)
	}

	now := r.now().UTC()
	incident.ID = 0
	incident.CaseNumber = maxCase + 1
	incident.CreatedAt = now
	incident.UpdatedAt = now

	if err := tx.Create(incident).Error; err != nil {
		return log.Err("failed to create incident", apperrors.Storage(err),
			"establishmentID", incident.EstablishmentID)
	}

	log.Info("Created incident",
		"id", incident.ID,
		"establishmentID", incident.EstablishmentID,
		"caseNumber", incident.CaseNumber)
	return nil
}

func (r *incidentRepository) GetByID(ctx context.Context, id int) (*Incident, error) {
	log := r.log.Function("GetByID")

	var incident Incident
	err := r.getDB(ctx).First(&incident, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Incident", id)
	}
	if err != nil {
		return nil, log.Err("failed to get incident", apperrors.Storage(err), "id", id)
	}

	return &incident, nil
}

func (r *incidentRepository) List(ctx context.Context, filter IncidentFilter) ([]*Incident, error) {
	log := r.log.Function("List")

	var incidents []*Incident
	err := incidentFilterQuery(filter).
		apply(r.getDB(ctx).Model(&Incident{})).
		Order("incident_date DESC").
		Order("id DESC").
		Find(&incidents).Error
	if err != nil {
		return nil, log.Err("failed to list incidents", apperrors.Storage(err),
			"establishmentID", filter.EstablishmentID)
	}

	return incidents, nil
}

func incidentFilterQuery(filter IncidentFilter) *queryBuilder {
	q := &queryBuilder{}
	q.where("establishment_id = ?", filter.EstablishmentID)

	if filter.LocationID != nil {
		q.where("location_id = ?", *filter.LocationID)
	}
	if filter.Status != nil {
		q.where("status = ?", *filter.Status)
	}
	if filter.OutcomeSeverity != nil {
		q.where("outcome_severity = ?", *filter.OutcomeSeverity)
	}
	if filter.DateFrom != nil && *filter.DateFrom != "" {
		q.where("incident_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil && *filter.DateTo != "" {
		q.where("incident_date <= ?", *filter.DateTo)
	}
	if filter.Search != nil {
		if term := strings.TrimSpace(*filter.Search); term != "" {
			pattern := containsPattern(term)
			q.where(
				`(unicode_lower(employee_name) LIKE ? ESCAPE '\' OR unicode_lower(description) LIKE ? ESCAPE '\')`,
				pattern, pattern,
			)
		}
	}

	return q
}

// Update writes only the supplied fields that differ from the stored row.
// updated_at moves only when something was written.
func (r *incidentRepository) Update(ctx context.Context, id int, patch *IncidentPatch) (*Incident, error) {
	log := r.log.Function("Update")

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := incidentChanges(current, patch)
	if changes.empty() {
		return current, nil
	}

	err = r.getDB(ctx).Model(&Incident{}).
		Where("id = ?", id).
		Updates(changes.assignments(r.now().UTC())).Error
	if err != nil {
		return nil, log.Err("failed to update incident", apperrors.Storage(err),
			"id", id, "columns", changes.columns)
	}

	return r.GetByID(ctx, id)
}

func incidentChanges(current *Incident, patch *IncidentPatch) *patchBuilder {
	p := newPatchBuilder()
	if patch == nil {
		return p
	}

	patchNullable(p, "location_id", patch.LocationID, current.LocationID)

	patchValue(p, "employee_name", patch.EmployeeName, current.EmployeeName)
	patchOptional(p, "employee_job_title", patch.EmployeeJobTitle, current.EmployeeJobTitle)
	patchOptional(p, "employee_address", patch.EmployeeAddress, current.EmployeeAddress)
	patchOptional(p, "employee_city", patch.EmployeeCity, current.EmployeeCity)
	patchOptional(p, "employee_state", patch.EmployeeState, current.EmployeeState)
	patchOptional(p, "employee_zip", patch.EmployeeZip, current.EmployeeZip)
	patchOptional(p, "employee_dob", patch.EmployeeDOB, current.EmployeeDOB)
	patchOptional(p, "employee_hire_date", patch.EmployeeHireDate, current.EmployeeHireDate)
	patchOptional(p, "employee_gender", patch.EmployeeGender, current.EmployeeGender)
	patchValue(p, "is_privacy_case", patch.IsPrivacyCase, current.IsPrivacyCase)

	patchValue(p, "incident_date", patch.IncidentDate, current.IncidentDate)
	patchOptional(p, "incident_time", patch.IncidentTime, current.IncidentTime)
	patchOptional(p, "work_start_time", patch.WorkStartTime, current.WorkStartTime)
	patchOptional(p, "where_occurred", patch.WhereOccurred, current.WhereOccurred)
	patchValue(p, "description", patch.Description, current.Description)
	patchOptional(p, "activity_before_incident", patch.ActivityBeforeIncident, current.ActivityBeforeIncident)
	patchOptional(p, "how_injury_occurred", patch.HowInjuryOccurred, current.HowInjuryOccurred)
	patchOptional(p, "injury_description", patch.InjuryDescription, current.InjuryDescription)
	patchOptional(p, "object_substance", patch.ObjectSubstance, current.ObjectSubstance)

	patchOptional(p, "physician_name", patch.PhysicianName, current.PhysicianName)
	patchOptional(p, "treatment_facility", patch.TreatmentFacility, current.TreatmentFacility)
	patchOptional(p, "facility_address", patch.FacilityAddress, current.FacilityAddress)
	patchOptional(p, "facility_city_state_zip", patch.FacilityCityStateZip, current.FacilityCityStateZip)
	patchNullable(p, "treated_in_er", patch.TreatedInER, current.TreatedInER)
	patchNullable(p, "hospitalized_overnight", patch.HospitalizedOvernight, current.HospitalizedOvernight)

	patchValue(p, "outcome_severity", patch.OutcomeSeverity, current.OutcomeSeverity)
	patchNullable(p, "days_away_count", patch.DaysAwayCount, current.DaysAwayCount)
	patchNullable(p, "days_restricted_count", patch.DaysRestrictedCount, current.DaysRestrictedCount)
	patchOptional(p, "date_of_death", patch.DateOfDeath, current.DateOfDeath)
	patchValue(p, "injury_illness_type", patch.InjuryIllnessType, current.InjuryIllnessType)
	patchValue(p, "is_recordable", patch.IsRecordable, current.IsRecordable)
	patchValue(p, "status", patch.Status, current.Status)

	patchOptional(p, "completed_by", patch.CompletedBy, current.CompletedBy)
	patchOptional(p, "completed_by_title", patch.CompletedByTitle, current.CompletedByTitle)
	patchOptional(p, "completed_by_phone", patch.CompletedByPhone, current.CompletedByPhone)
	patchOptional(p, "completed_date", patch.CompletedDate, current.CompletedDate)

	return p
}

func (r *incidentRepository) Delete(ctx context.Context, id int) error {
	log := r.log.Function("Delete")

	result := r.getDB(ctx).Delete(&Incident{}, "id = ?", id)
	if result.Error != nil {
		return log.Err("failed to delete incident", apperrors.Storage(result.Error), "id", id)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("Incident", id)
	}

	return nil
}

func (r *incidentRepository) ListRecordableForYear(
	ctx context.Context,
	establishmentID, year int,
) ([]*Incident, error) {
	log := r.log.Function("ListRecordableForYear")

	var incidents []*Incident
	err := r.getDB(ctx).
		Where("establishment_id = ? AND incident_date LIKE ? AND is_recordable = ?",
			establishmentID, yearPrefix(year), true).
		Order("case_number ASC").
		Order("id ASC").
		Find(&incidents).Error
	if err != nil {
		return nil, log.Err("failed to list recordable incidents", apperrors.Storage(err),
			"establishmentID", establishmentID, "year", year)
	}

	return incidents, nil
}
