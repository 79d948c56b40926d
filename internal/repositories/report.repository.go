package repositories

import (
	"context"
	"database/sql"

	"oshalog/internal/apperrors"
	"oshalog/internal/database"
	"oshalog/internal/logger"
	. "oshalog/internal/models"
	"oshalog/internal/services"

	"gorm.io/gorm"
)

// ReportRepository runs the aggregate queries behind the OSHA summary and
// the dashboard. Every query scopes to one establishment and, where a year
// applies, to incident_date LIKE 'YYYY%'.
type ReportRepository interface {
	AnnualTotals(ctx context.Context, establishmentID, year int) (AnnualTotals, error)
	IncidentCounts(ctx context.Context, establishmentID, year int) (IncidentCounts, error)
	LastIncidentDate(ctx context.Context, establishmentID int) (*string, error)
	CountByMonth(ctx context.Context, establishmentID, year int) ([]MonthCount, error)
	CountBySeverity(ctx context.Context, establishmentID, year int) ([]CategoryCount, error)
	CountByLocation(ctx context.Context, establishmentID, year int) ([]CategoryCount, error)
	CountByType(ctx context.Context, establishmentID, year int) ([]CategoryCount, error)
	CorrectiveActionTallies(ctx context.Context, establishmentID int, today string) (CorrectiveActionTallies, error)
}

type IncidentCounts struct {
	Total      int
	Open       int
	Recordable int
}

type reportRepository struct {
	db  database.DB
	log logger.Logger
}

func NewReport(db database.DB) ReportRepository {
	return &reportRepository{
		db:  db,
		log: logger.New("reportRepository"),
	}
}

func (r *reportRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

const annualTotalsQuery = `
SELECT
	COUNT(*) AS total_cases,
	COALESCE(SUM(CASE WHEN outcome_severity = ? THEN 1 ELSE 0 END), 0) AS total_deaths,
	COALESCE(SUM(CASE WHEN outcome_severity = ? THEN 1 ELSE 0 END), 0) AS total_days_away_cases,
	COALESCE(SUM(CASE WHEN outcome_severity = ? THEN 1 ELSE 0 END), 0) AS total_transfer_cases,
	COALESCE(SUM(CASE WHEN outcome_severity = ? THEN 1 ELSE 0 END), 0) AS total_other_cases,
	COALESCE(SUM(COALESCE(days_away_count, 0)), 0) AS total_days_away,
	COALESCE(SUM(COALESCE(days_restricted_count, 0)), 0) AS total_days_restricted,
	COALESCE(SUM(CASE WHEN injury_illness_type = ? THEN 1 ELSE 0 END), 0) AS total_injuries,
	COALESCE(SUM(CASE WHEN injury_illness_type = ? THEN 1 ELSE 0 END), 0) AS total_skin_disorders,
	COALESCE(SUM(CASE WHEN injury_illness_type = ? THEN 1 ELSE 0 END), 0) AS total_respiratory,
	COALESCE(SUM(CASE WHEN injury_illness_type = ? THEN 1 ELSE 0 END), 0) AS total_poisonings,
	COALESCE(SUM(CASE WHEN injury_illness_type = ? THEN 1 ELSE 0 END), 0) AS total_hearing_loss,
	COALESCE(SUM(CASE WHEN injury_illness_type = ? THEN 1 ELSE 0 END), 0) AS total_other_illnesses
FROM incidents
WHERE establishment_id = ? AND incident_date LIKE ? AND is_recordable = ?`

// AnnualTotals aggregates exactly the rows of the annual log.
func (r *reportRepository) AnnualTotals(ctx context.Context, establishmentID, year int) (AnnualTotals, error) {
	log := r.log.Function("AnnualTotals")

	var totals AnnualTotals
	err := r.getDB(ctx).Raw(annualTotalsQuery,
		SeverityDeath, SeverityDaysAway, SeverityJobTransferRestriction, SeverityOtherRecordable,
		TypeInjury, TypeSkinDisorder, TypeRespiratory, TypePoisoning, TypeHearingLoss, TypeOtherIllness,
		establishmentID, yearPrefix(year), true,
	).Scan(&totals).Error
	if err != nil {
		return AnnualTotals{}, log.Err("failed to aggregate annual totals", apperrors.Storage(err),
			"establishmentID", establishmentID, "year", year)
	}

	return totals, nil
}

func (r *reportRepository) IncidentCounts(ctx context.Context, establishmentID, year int) (IncidentCounts, error) {
	log := r.log.Function("IncidentCounts")

	var counts IncidentCounts
	err := r.getDB(ctx).Raw(`
SELECT
	COUNT(*) AS total,
	COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS open,
	COALESCE(SUM(CASE WHEN is_recordable = ? THEN 1 ELSE 0 END), 0) AS recordable
FROM incidents
WHERE establishment_id = ? AND incident_date LIKE ?`,
		StatusOpen, true, establishmentID, yearPrefix(year),
	).Scan(&counts).Error
	if err != nil {
		return IncidentCounts{}, log.Err("failed to count incidents", apperrors.Storage(err),
			"establishmentID", establishmentID, "year", year)
	}

	return counts, nil
}

// LastIncidentDate looks across every year; nil when the establishment has
// no incidents.
func (r *reportRepository) LastIncidentDate(ctx context.Context, establishmentID int) (*string, error) {
	log := r.log.Function("LastIncidentDate")

	var last sql.NullString
	err := r.getDB(ctx).Raw(
		"SELECT MAX(incident_date) FROM incidents WHERE establishment_id = ?",
		establishmentID,
	).Row().Scan(&last)
	if err != nil {
		return nil, log.Err("failed to read last incident date", apperrors.Storage(err),
			"establishmentID", establishmentID)
	}
	if !last.Valid {
		return nil, nil
	}

	return &last.String, nil
}

func (r *reportRepository) CountByMonth(ctx context.Context, establishmentID, year int) ([]MonthCount, error) {
	log := r.log.Function("CountByMonth")

	counts := []MonthCount{}
	err := r.getDB(ctx).Raw(`
SELECT SUBSTR(incident_date, 1, 7) AS month, COUNT(*) AS count
FROM incidents
WHERE establishment_id = ? AND incident_date LIKE ?
GROUP BY month
ORDER BY month ASC`,
		establishmentID, yearPrefix(year),
	).Scan(&counts).Error
	if err != nil {
		return nil, log.Err("failed to count incidents by month", apperrors.Storage(err),
			"establishmentID", establishmentID, "year", year)
	}

	return counts, nil
}

func (r *reportRepository) CountBySeverity(ctx context.Context, establishmentID, year int) ([]CategoryCount, error) {
	return r.countRecordableBy(ctx, "CountBySeverity", "outcome_severity", establishmentID, year)
}

func (r *reportRepository) CountByType(ctx context.Context, establishmentID, year int) ([]CategoryCount, error) {
	return r.countRecordableBy(ctx, "CountByType", "injury_illness_type", establishmentID, year)
}

// countRecordableBy groups recordable incidents by one of the category
// columns. column is always a literal from this file.
func (r *reportRepository) countRecordableBy(
	ctx context.Context,
	function, column string,
	establishmentID, year int,
) ([]CategoryCount, error) {
	log := r.log.Function(function)

	counts := []CategoryCount{}
	err := r.getDB(ctx).Raw(`
SELECT `+column+` AS category, COUNT(*) AS count
FROM incidents
WHERE establishment_id = ? AND incident_date LIKE ? AND is_recordable = ?
GROUP BY category
ORDER BY category ASC`,
		establishmentID, yearPrefix(year), true,
	).Scan(&counts).Error
	if err != nil {
		return nil, log.Err("failed to count recordable incidents", apperrors.Storage(err),
			"column", column, "establishmentID", establishmentID, "year", year)
	}

	return counts, nil
}

func (r *reportRepository) CountByLocation(ctx context.Context, establishmentID, year int) ([]CategoryCount, error) {
	log := r.log.Function("CountByLocation")

	counts := []CategoryCount{}
	err := r.getDB(ctx).Raw(`
SELECT COALESCE(l.name, ?) AS category, COUNT(*) AS count
FROM incidents i
LEFT JOIN locations l ON i.location_id = l.id
WHERE i.establishment_id = ? AND i.incident_date LIKE ?
GROUP BY category
ORDER BY category ASC`,
		UnassignedLocation, establishmentID, yearPrefix(year),
	).Scan(&counts).Error
	if err != nil {
		return nil, log.Err("failed to count incidents by location", apperrors.Storage(err),
			"establishmentID", establishmentID, "year", year)
	}

	return counts, nil
}

// CorrectiveActionTallies counts actions on every incident of the
// establishment, all years. An action is overdue when it is not completed
// and its due date is before today (YYYY-MM-DD).
func (r *reportRepository) CorrectiveActionTallies(
	ctx context.Context,
	establishmentID int,
	today string,
) (CorrectiveActionTallies, error) {
	log := r.log.Function("CorrectiveActionTallies")

	var tallies CorrectiveActionTallies
	err := r.getDB(ctx).Raw(`
SELECT
	COALESCE(SUM(CASE WHEN ca.status = ? THEN 1 ELSE 0 END), 0) AS open,
	COALESCE(SUM(CASE WHEN ca.status = ? THEN 1 ELSE 0 END), 0) AS in_progress,
	COALESCE(SUM(CASE WHEN ca.status = ? THEN 1 ELSE 0 END), 0) AS completed,
	COALESCE(SUM(CASE WHEN ca.status != ? AND ca.due_date IS NOT NULL AND ca.due_date < ? THEN 1 ELSE 0 END), 0) AS overdue
FROM corrective_actions ca
JOIN incidents i ON ca.incident_id = i.id
WHERE i.establishment_id = ?`,
		ActionOpen, ActionInProgress, ActionCompleted, ActionCompleted, today, establishmentID,
	).Scan(&tallies).Error
	if err != nil {
		return CorrectiveActionTallies{}, log.Err("failed to tally corrective actions", apperrors.Storage(err),
			"establishmentID", establishmentID)
	}

	return tallies, nil
}
