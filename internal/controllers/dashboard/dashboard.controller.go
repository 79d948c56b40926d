package dashboardController

import (
	"context"
	"time"

	"oshalog/internal/logger"
	. "oshalog/internal/models"
	"oshalog/internal/repositories"
	"oshalog/internal/services"
	"oshalog/internal/utils"
)

// hoursBase is 100 full-time workers at 40 hours a week for 50 weeks.
const hoursBase = 200000

type DashboardController struct {
	establishmentRepo  repositories.EstablishmentRepository
	annualStatsRepo    repositories.AnnualStatsRepository
	reportRepo         repositories.ReportRepository
	transactionService *services.TransactionService
	log                logger.Logger
	now                func() time.Time
}

func New(
	establishmentRepo repositories.EstablishmentRepository,
	annualStatsRepo repositories.AnnualStatsRepository,
	reportRepo repositories.ReportRepository,
	transactionService *services.TransactionService,
) *DashboardController {
	return &DashboardController{
		establishmentRepo:  establishmentRepo,
		annualStatsRepo:    annualStatsRepo,
		reportRepo:         reportRepo,
		transactionService: transactionService,
		log:                logger.New("DashboardController"),
		now:                time.Now,
	}
}

// daysSince truncates toward zero, so an incident dated in the future
// yields zero or a negative count.
func daysSince(last string, now time.Time) (*int, bool) {
	date, err := time.Parse(time.DateOnly, last)
	if err != nil {
		return nil, false
	}
	days := int(now.UTC().Sub(date).Hours() / 24)
	return &days, true
}

func rate(recordable int, stats *AnnualStats) *float64 {
	if stats == nil || stats.TotalHoursWorked == nil || *stats.TotalHoursWorked <= 0 {
		return nil
	}
	value := float64(recordable) * hoursBase / float64(*stats.TotalHoursWorked)
	return &value
}

func (dc *DashboardController) summary(ctx context.Context, establishmentID, year int) (DashboardSummary, error) {
	log := dc.log.Function("summary")

	counts, err := dc.reportRepo.IncidentCounts(ctx, establishmentID, year)
	if err != nil {
		return DashboardSummary{}, err
	}

	last, err := dc.reportRepo.LastIncidentDate(ctx, establishmentID)
	if err != nil {
		return DashboardSummary{}, err
	}

	stats, err := dc.annualStatsRepo.Get(ctx, establishmentID, year)
	if err != nil {
		return DashboardSummary{}, err
	}

	summary := DashboardSummary{
		TotalIncidents:  counts.Total,
		OpenIncidents:   counts.Open,
		TotalRecordable: counts.Recordable,
		Rate:            rate(counts.Recordable, stats),
	}
	if last != nil {
		days, ok := daysSince(*last, dc.now())
		if !ok {
			log.Warn("unparseable incident date", "establishmentID", establishmentID, "date", *last)
		}
		summary.DaysSinceLastIncident = days
	}

	return summary, nil
}

// Get assembles the whole dashboard for an establishment and year under one
// lock hold.
func (dc *DashboardController) Get(ctx context.Context, establishmentID, year int) (*Dashboard, error) {
	if err := utils.ValidateYear(year); err != nil {
		return nil, err
	}

	dashboard := &Dashboard{EstablishmentID: establishmentID, Year: year}
	err := dc.transactionService.Read(ctx, "dashboard.get", func(ctx context.Context) error {
		if _, err := dc.establishmentRepo.GetByID(ctx, establishmentID); err != nil {
			return err
		}

		var err error
		if dashboard.Summary, err = dc.summary(ctx, establishmentID, year); err != nil {
			return err
		}
		if dashboard.ByMonth, err = dc.reportRepo.CountByMonth(ctx, establishmentID, year); err != nil {
			return err
		}
		if dashboard.BySeverity, err = dc.reportRepo.CountBySeverity(ctx, establishmentID, year); err != nil {
			return err
		}
		if dashboard.ByLocation, err = dc.reportRepo.CountByLocation(ctx, establishmentID, year); err != nil {
			return err
		}
		if dashboard.ByType, err = dc.reportRepo.CountByType(ctx, establishmentID, year); err != nil {
			return err
		}

		today := dc.now().UTC().Format(time.DateOnly)
		dashboard.CorrectiveActions, err = dc.reportRepo.CorrectiveActionTallies(ctx, establishmentID, today)
		return err
	})
	if err != nil {
		return nil, err
	}

	return dashboard, nil
}
