package oshaController

import (
	"context"

	"oshalog/internal/logger"
	. "oshalog/internal/models"
	"oshalog/internal/repositories"
	"oshalog/internal/services"
	"oshalog/internal/utils"
)

// OshaController builds the OSHA 300 log, the 300A summary and the 301
// per-case report, and keeps the annual stats they draw on.
type OshaController struct {
	establishmentRepo  repositories.EstablishmentRepository
	incidentRepo       repositories.IncidentRepository
	annualStatsRepo    repositories.AnnualStatsRepository
	reportRepo         repositories.ReportRepository
	transactionService *services.TransactionService
	cacheInvalidation  *services.CacheInvalidationService
	log                logger.Logger
}

func New(
	establishmentRepo repositories.EstablishmentRepository,
	incidentRepo repositories.IncidentRepository,
	annualStatsRepo repositories.AnnualStatsRepository,
	reportRepo repositories.ReportRepository,
	transactionService *services.TransactionService,
	cacheInvalidation *services.CacheInvalidationService,
) *OshaController {
	return &OshaController{
		establishmentRepo:  establishmentRepo,
		incidentRepo:       incidentRepo,
		annualStatsRepo:    annualStatsRepo,
		reportRepo:         reportRepo,
		transactionService: transactionService,
		cacheInvalidation:  cacheInvalidation,
		log:                logger.New("OshaController"),
	}
}

func toLogRow(incident *Incident) AnnualLogRow {
	return AnnualLogRow{
		CaseNumber:          incident.CaseNumber,
		EmployeeName:        incident.ReportName(),
		JobTitle:            incident.EmployeeJobTitle,
		IncidentDate:        incident.IncidentDate,
		WhereOccurred:       incident.WhereOccurred,
		Description:         incident.Description,
		Death:               incident.OutcomeSeverity == SeverityDeath,
		DaysAway:            incident.OutcomeSeverity == SeverityDaysAway,
		JobTransfer:         incident.OutcomeSeverity == SeverityJobTransferRestriction,
		OtherRecordable:     incident.OutcomeSeverity == SeverityOtherRecordable,
		DaysAwayCount:       incident.DaysAwayCount,
		DaysRestrictedCount: incident.DaysRestrictedCount,
		Injury:              incident.InjuryIllnessType == TypeInjury,
		SkinDisorder:        incident.InjuryIllnessType == TypeSkinDisorder,
		Respiratory:         incident.InjuryIllnessType == TypeRespiratory,
		Poisoning:           incident.InjuryIllnessType == TypePoisoning,
		HearingLoss:         incident.InjuryIllnessType == TypeHearingLoss,
		OtherIllness:        incident.InjuryIllnessType == TypeOtherIllness,
	}
}

func (oc *OshaController) annualLog(ctx context.Context, establishmentID, year int) ([]AnnualLogRow, error) {
	incidents, err := oc.incidentRepo.ListRecordableForYear(ctx, establishmentID, year)
	if err != nil {
		return nil, err
	}

	rows := make([]AnnualLogRow, 0, len(incidents))
	for _, incident := range incidents {
		rows = append(rows, toLogRow(incident))
	}
	return rows, nil
}

// AnnualLog returns the OSHA 300 rows: recordable incidents of the year in
// case number order.
func (oc *OshaController) AnnualLog(ctx context.Context, establishmentID, year int) ([]AnnualLogRow, error) {
	if err := utils.ValidateYear(year); err != nil {
		return nil, err
	}

	var rows []AnnualLogRow
	err := oc.transactionService.Read(ctx, "osha.annualLog", func(ctx context.Context) error {
		var err error
		rows, err = oc.annualLog(ctx, establishmentID, year)
		return err
	})
	return rows, err
}

func (oc *OshaController) annualSummary(ctx context.Context, establishmentID, year int) (*AnnualSummary, error) {
	var cached AnnualSummary
	if oc.cacheInvalidation.CachedAnnualSummary(ctx, establishmentID, year, &cached) {
		return &cached, nil
	}

	establishment, err := oc.establishmentRepo.GetByID(ctx, establishmentID)
	if err != nil {
		return nil, err
	}

	totals, err := oc.reportRepo.AnnualTotals(ctx, establishmentID, year)
	if err != nil {
		return nil, err
	}

	stats, err := oc.annualStatsRepo.Get(ctx, establishmentID, year)
	if err != nil {
		return nil, err
	}

	summary := &AnnualSummary{
		EstablishmentID:     establishment.ID,
		EstablishmentName:   establishment.Name,
		StreetAddress:       establishment.StreetAddress,
		City:                establishment.City,
		State:               establishment.State,
		ZipCode:             establishment.ZipCode,
		IndustryDescription: establishment.IndustryDescription,
		NaicsCode:           establishment.NaicsCode,
		Year:                year,
		AnnualTotals:        totals,
	}
	if stats != nil {
		summary.AverageEmployees = stats.AverageEmployees
		summary.TotalHoursWorked = stats.TotalHoursWorked
		summary.CertifierName = stats.CertifierName
		summary.CertifierTitle = stats.CertifierTitle
		summary.CertifierPhone = stats.CertifierPhone
		summary.CertificationDate = stats.CertificationDate
	}

	oc.cacheInvalidation.StoreAnnualSummary(ctx, establishmentID, year, summary)
	return summary, nil
}

// AnnualSummary returns the OSHA 300A. It reads through the report cache
// under the same lock hold that mutations invalidate it in.
func (oc *OshaController) AnnualSummary(ctx context.Context, establishmentID, year int) (*AnnualSummary, error) {
	if err := utils.ValidateYear(year); err != nil {
		return nil, err
	}

	var summary *AnnualSummary
	err := oc.transactionService.Read(ctx, "osha.annualSummary", func(ctx context.Context) error {
		var err error
		summary, err = oc.annualSummary(ctx, establishmentID, year)
		return err
	})
	return summary, err
}

// PerCaseReport covers every incident, recordable or not.
func (oc *OshaController) PerCaseReport(ctx context.Context, incidentID int) (*PerCaseReport, error) {
	var report *PerCaseReport
	err := oc.transactionService.Read(ctx, "osha.perCaseReport", func(ctx context.Context) error {
		incident, err := oc.incidentRepo.GetByID(ctx, incidentID)
		if err != nil {
			return err
		}
		establishment, err := oc.establishmentRepo.GetByID(ctx, incident.EstablishmentID)
		if err != nil {
			return err
		}
		report = toPerCaseReport(incident, establishment.Name)
		return nil
	})
	return report, err
}

func toPerCaseReport(incident *Incident, establishmentName string) *PerCaseReport {
	return &PerCaseReport{
		IncidentID:    incident.ID,
		CaseNumber:    incident.CaseNumber,
		IsRecordable:  incident.IsRecordable,
		IsPrivacyCase: incident.IsPrivacyCase,
		Establishment: establishmentName,
		Employee: EmployeeSection{
			Name:     incident.ReportName(),
			JobTitle: incident.EmployeeJobTitle,
			Address:  incident.EmployeeAddress,
			City:     incident.EmployeeCity,
			State:    incident.EmployeeState,
			Zip:      incident.EmployeeZip,
			DOB:      incident.EmployeeDOB,
			HireDate: incident.EmployeeHireDate,
			Gender:   incident.EmployeeGender,
		},
		Treatment: TreatmentSection{
			PhysicianName:         incident.PhysicianName,
			Facility:              incident.TreatmentFacility,
			FacilityAddress:       incident.FacilityAddress,
			FacilityCityStateZip:  incident.FacilityCityStateZip,
			TreatedInER:           incident.TreatedInER,
			HospitalizedOvernight: incident.HospitalizedOvernight,
		},
		Case: CaseSection{
			IncidentDate:           incident.IncidentDate,
			IncidentTime:           incident.IncidentTime,
			WorkStartTime:          incident.WorkStartTime,
			WhereOccurred:          incident.WhereOccurred,
			Description:            incident.Description,
			ActivityBeforeIncident: incident.ActivityBeforeIncident,
			HowInjuryOccurred:      incident.HowInjuryOccurred,
			InjuryDescription:      incident.InjuryDescription,
			ObjectSubstance:        incident.ObjectSubstance,
			OutcomeSeverity:        incident.OutcomeSeverity,
			InjuryIllnessType:      incident.InjuryIllnessType,
			DaysAwayCount:          incident.DaysAwayCount,
			DaysRestrictedCount:    incident.DaysRestrictedCount,
			DateOfDeath:            incident.DateOfDeath,
		},
		Certification: CertificationSection{
			CompletedBy:      incident.CompletedBy,
			CompletedByTitle: incident.CompletedByTitle,
			CompletedByPhone: incident.CompletedByPhone,
			CompletedDate:    incident.CompletedDate,
		},
	}
}

func validateStats(req *UpsertAnnualStatsRequest) error {
	if err := utils.ValidateYear(req.Year); err != nil {
		return err
	}
	if err := utils.ValidateEmployeeCount(req.AverageEmployees); err != nil {
		return err
	}
	if err := utils.ValidateHours(req.TotalHoursWorked); err != nil {
		return err
	}
	if err := utils.ValidateOptionalLength(req.CertifierName, "certifier name", utils.MaxNameLength); err != nil {
		return err
	}
	if err := utils.ValidateOptionalLength(req.CertifierTitle, "certifier title", utils.MaxNameLength); err != nil {
		return err
	}
	if err := utils.ValidateOptionalLength(req.CertifierPhone, "certifier phone", utils.MaxNameLength); err != nil {
		return err
	}
	return utils.ValidateOptionalDate(req.CertificationDate, "certification date")
}

func (oc *OshaController) UpsertAnnualStats(ctx context.Context, req UpsertAnnualStatsRequest) (*AnnualStats, error) {
	log := oc.log.Function("UpsertAnnualStats")

	if err := validateStats(&req); err != nil {
		return nil, err
	}

	var stats *AnnualStats
	err := oc.transactionService.Execute(ctx, "osha.upsertAnnualStats", func(ctx context.Context) error {
		if _, err := oc.establishmentRepo.GetByID(ctx, req.EstablishmentID); err != nil {
			return err
		}

		var err error
		stats, err = oc.annualStatsRepo.Upsert(ctx, &AnnualStats{
			EstablishmentID:   req.EstablishmentID,
			Year:              req.Year,
			AverageEmployees:  req.AverageEmployees,
			TotalHoursWorked:  req.TotalHoursWorked,
			CertifierName:     req.CertifierName,
			CertifierTitle:    req.CertifierTitle,
			CertifierPhone:    req.CertifierPhone,
			CertificationDate: req.CertificationDate,
		})
		if err != nil {
			return err
		}
		return oc.cacheInvalidation.InvalidateEstablishment(ctx, req.EstablishmentID)
	})
	if err != nil {
		return nil, log.Err("failed to upsert annual stats", err,
			"establishmentID", req.EstablishmentID, "year", req.Year)
	}

	return stats, nil
}

// GetAnnualStats returns nil without error when nothing was recorded.
func (oc *OshaController) GetAnnualStats(ctx context.Context, establishmentID, year int) (*AnnualStats, error) {
	if err := utils.ValidateYear(year); err != nil {
		return nil, err
	}

	var stats *AnnualStats
	err := oc.transactionService.Read(ctx, "osha.getAnnualStats", func(ctx context.Context) error {
		var err error
		stats, err = oc.annualStatsRepo.Get(ctx, establishmentID, year)
		return err
	})
	return stats, err
}
