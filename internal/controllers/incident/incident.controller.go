package incidentController

import (
	"context"

	"oshalog/internal/apperrors"
	"oshalog/internal/blob"
	"oshalog/internal/logger"
	. "oshalog/internal/models"
	"oshalog/internal/repositories"
	"oshalog/internal/services"
)

type IncidentController struct {
	establishmentRepo  repositories.EstablishmentRepository
	locationRepo       repositories.LocationRepository
	incidentRepo       repositories.IncidentRepository
	attachmentRepo     repositories.AttachmentRepository
	blobs              blob.Store
	transactionService *services.TransactionService
	cacheInvalidation  *services.CacheInvalidationService
	log                logger.Logger
}

func New(
	establishmentRepo repositories.EstablishmentRepository,
	locationRepo repositories.LocationRepository,
	incidentRepo repositories.IncidentRepository,
	attachmentRepo repositories.AttachmentRepository,
	blobs blob.Store,
	transactionService *services.TransactionService,
	cacheInvalidation *services.CacheInvalidationService,
) *IncidentController {
	return &IncidentController{
		establishmentRepo:  establishmentRepo,
		locationRepo:       locationRepo,
		incidentRepo:       incidentRepo,
		attachmentRepo:     attachmentRepo,
		blobs:              blobs,
		transactionService: transactionService,
		cacheInvalidation:  cacheInvalidation,
		log:                logger.New("IncidentController"),
	}
}

func intOrZero(value Nullable[int]) *int {
	if !value.Set {
		zero := 0
		return &zero
	}
	return value.Ptr()
}

func boolOr(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}

func newIncidentFromRequest(req *CreateIncidentRequest) *Incident {
	incident := &Incident{
		EstablishmentID: req.EstablishmentID,
		LocationID:      req.LocationID,

		EmployeeName:     req.EmployeeName,
		EmployeeJobTitle: req.EmployeeJobTitle,
		EmployeeAddress:  req.EmployeeAddress,
		EmployeeCity:     req.EmployeeCity,
		EmployeeState:    req.EmployeeState,
		EmployeeZip:      req.EmployeeZip,
		EmployeeDOB:      req.EmployeeDOB,
		EmployeeHireDate: req.EmployeeHireDate,
		EmployeeGender:   req.EmployeeGender,
		IsPrivacyCase:    boolOr(req.IsPrivacyCase, false),

		IncidentDate:           req.IncidentDate,
		IncidentTime:           req.IncidentTime,
		WorkStartTime:          req.WorkStartTime,
		WhereOccurred:          req.WhereOccurred,
		Description:            req.Description,
		ActivityBeforeIncident: req.ActivityBeforeIncident,
		HowInjuryOccurred:      req.HowInjuryOccurred,
		InjuryDescription:      req.InjuryDescription,
		ObjectSubstance:        req.ObjectSubstance,

		PhysicianName:         req.PhysicianName,
		TreatmentFacility:     req.TreatmentFacility,
		FacilityAddress:       req.FacilityAddress,
		FacilityCityStateZip:  req.FacilityCityStateZip,
		TreatedInER:           req.TreatedInER,
		HospitalizedOvernight: req.HospitalizedOvernight,

		OutcomeSeverity:     SeverityOtherRecordable,
		DaysAwayCount:       intOrZero(req.DaysAwayCount),
		DaysRestrictedCount: intOrZero(req.DaysRestrictedCount),
		DateOfDeath:         req.DateOfDeath,
		InjuryIllnessType:   TypeInjury,
		IsRecordable:        boolOr(req.IsRecordable, true),
		Status:              StatusOpen,

		CompletedBy:      req.CompletedBy,
		CompletedByTitle: req.CompletedByTitle,
		CompletedByPhone: req.CompletedByPhone,
		CompletedDate:    req.CompletedDate,
	}

	if req.OutcomeSeverity != nil {
		incident.OutcomeSeverity = *req.OutcomeSeverity
	}
	if req.InjuryIllnessType != nil {
		incident.InjuryIllnessType = *req.InjuryIllnessType
	}

	return incident
}

// checkLocation verifies that locationID names a location of the
// establishment.
func (ic *IncidentController) checkLocation(ctx context.Context, establishmentID int, locationID *int) error {
	if locationID == nil {
		return nil
	}

	location, err := ic.locationRepo.GetByID(ctx, *locationID)
	if err != nil {
		return err
	}
	if location.EstablishmentID != establishmentID {
		return apperrors.Validation("location %d does not belong to establishment %d", *locationID, establishmentID)
	}
	return nil
}

// Create validates the request, applies defaults and assigns the next case
// number for the establishment and incident year.
func (ic *IncidentController) Create(ctx context.Context, req CreateIncidentRequest) (*Incident, error) {
	log := ic.log.Function("Create")

	if err := validateCreate(&req); err != nil {
		return nil, err
	}

	incident := newIncidentFromRequest(&req)

	err := ic.transactionService.Execute(ctx, "incident.create", func(ctx context.Context) error {
		if _, err := ic.establishmentRepo.GetByID(ctx, req.EstablishmentID); err != nil {
			return err
		}
		if err := ic.checkLocation(ctx, req.EstablishmentID, req.LocationID); err != nil {
			return err
		}
		if err := ic.incidentRepo.Create(ctx, incident); err != nil {
			return err
		}
		return ic.cacheInvalidation.InvalidateEstablishment(ctx, incident.EstablishmentID)
	})
	if err != nil {
		return nil, log.Err("failed to create incident", err, "establishmentID", req.EstablishmentID)
	}

	return incident, nil
}

func (ic *IncidentController) Get(ctx context.Context, id int) (*Incident, error) {
	var incident *Incident
	err := ic.transactionService.Read(ctx, "incident.get", func(ctx context.Context) error {
		var err error
		incident, err = ic.incidentRepo.GetByID(ctx, id)
		return err
	})
	return incident, err
}

func (ic *IncidentController) List(ctx context.Context, filter IncidentFilter) ([]*Incident, error) {
	if err := validateFilter(&filter); err != nil {
		return nil, err
	}

	var incidents []*Incident
	err := ic.transactionService.Read(ctx, "incident.list", func(ctx context.Context) error {
		var err error
		incidents, err = ic.incidentRepo.List(ctx, filter)
		return err
	})
	return incidents, err
}

// Update never touches the case number, even when the incident date moves
// to another year.
func (ic *IncidentController) Update(ctx context.Context, id int, patch IncidentPatch) (*Incident, error) {
	if err := validatePatch(&patch); err != nil {
		return nil, err
	}

	var incident *Incident
	err := ic.transactionService.Execute(ctx, "incident.update", func(ctx context.Context) error {
		current, err := ic.incidentRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if patch.LocationID.Set && !patch.LocationID.Null {
			if err := ic.checkLocation(ctx, current.EstablishmentID, &patch.LocationID.Value); err != nil {
				return err
			}
		}

		incident, err = ic.incidentRepo.Update(ctx, id, &patch)
		if err != nil {
			return err
		}
		return ic.cacheInvalidation.InvalidateEstablishment(ctx, incident.EstablishmentID)
	})
	if err != nil {
		return nil, err
	}

	return incident, nil
}

// Delete cascades to the incident's attachment rows. Their bytes are
// removed only after the commit; a blob that cannot be removed is logged.
func (ic *IncidentController) Delete(ctx context.Context, id int) error {
	log := ic.log.Function("Delete")

	var keys []string
	err := ic.transactionService.Execute(ctx, "incident.delete", func(ctx context.Context) error {
		incident, err := ic.incidentRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		attachments, err := ic.attachmentRepo.ListByIncident(ctx, id)
		if err != nil {
			return err
		}
		keys = keys[:0]
		for _, attachment := range attachments {
			keys = append(keys, attachment.FilePath)
		}
		if err := ic.incidentRepo.Delete(ctx, id); err != nil {
			return err
		}
		return ic.cacheInvalidation.InvalidateEstablishment(ctx, incident.EstablishmentID)
	})
	if err != nil {
		return err
	}

	for _, key := range keys {
		if err := ic.blobs.Delete(ctx, key); err != nil {
			log.Warn("failed to remove attachment bytes", "id", id, "key", key, "error", err)
		}
	}

	log.Info("Deleted incident", "id", id, "attachments", len(keys))
	return nil
}
