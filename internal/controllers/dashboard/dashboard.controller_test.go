package dashboardController

import (
	"context"
	"testing"
	"time"

	"oshalog/config"
	"oshalog/internal/apperrors"
	"oshalog/internal/blob"
	incidentController "oshalog/internal/controllers/incident"
	"oshalog/internal/database"
	. "oshalog/internal/models"
	"oshalog/internal/repositories"
	"oshalog/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	dashboard     *DashboardController
	incidents     *incidentController.IncidentController
	establishment repositories.EstablishmentRepository
	location      repositories.LocationRepository
	annualStats   repositories.AnnualStatsRepository
	actions       repositories.CorrectiveActionRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.New(config.Config{DatabaseDbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	tx := services.NewTransactionService(db, nil)
	establishmentRepo := repositories.NewEstablishment(db)
	locationRepo := repositories.NewLocation(db)
	incidentRepo := repositories.NewIncident(db)
	annualStatsRepo := repositories.NewAnnualStats(db)

	dashboard := New(establishmentRepo, annualStatsRepo, repositories.NewReport(db), tx)
	dashboard.now = func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }

	return &fixture{
		dashboard: dashboard,
		incidents: incidentController.New(
			establishmentRepo, locationRepo, incidentRepo, repositories.NewAttachment(db), blob.NewMemory(),
			tx, services.NewCacheInvalidationService(db),
		),
		establishment: establishmentRepo,
		location:      locationRepo,
		annualStats:   annualStatsRepo,
		actions:       repositories.NewCorrectiveAction(db),
	}
}

func (f *fixture) addEstablishment(t *testing.T) *Establishment {
	t.Helper()
	establishment := &Establishment{Name: "Acme Plant"}
	require.NoError(t, f.establishment.Create(context.Background(), establishment))
	return establishment
}

func (f *fixture) addIncident(t *testing.T, req CreateIncidentRequest) *Incident {
	t.Helper()
	if req.Description == "" {
		req.Description = "Strained back lifting boxes"
	}
	incident, err := f.incidents.Create(context.Background(), req)
	require.NoError(t, err)
	return incident
}

func (f *fixture) setHours(t *testing.T, establishmentID, year int, hours int64) {
	t.Helper()
	_, err := f.annualStats.Upsert(context.Background(), &AnnualStats{
		EstablishmentID:  establishmentID,
		Year:             year,
		TotalHoursWorked: &hours,
	})
	require.NoError(t, err)
}

func TestDashboard_Rate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		hours *int64
		want  *float64
	}{
		{"no stats", nil, nil},
		{"zero hours", ptr(int64(0)), nil},
		{"three recordable over 300000 hours", ptr(int64(300000)), ptr(2.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			establishment := f.addEstablishment(t)
			for _, name := range []string{"A", "B", "C"} {
				f.addIncident(t, CreateIncidentRequest{
					EstablishmentID: establishment.ID,
					EmployeeName:    name,
					IncidentDate:    "2024-02-01",
				})
			}
			f.addIncident(t, CreateIncidentRequest{
				EstablishmentID: establishment.ID,
				EmployeeName:    "First Aid",
				IncidentDate:    "2024-02-02",
				IsRecordable:    ptr(false),
			})
			if tt.hours != nil {
				f.setHours(t, establishment.ID, 2024, *tt.hours)
			}

			dashboard, err := f.dashboard.Get(ctx, establishment.ID, 2024)
			require.NoError(t, err)
			assert.Equal(t, 4, dashboard.Summary.TotalIncidents)
			assert.Equal(t, 3, dashboard.Summary.TotalRecordable)

			if tt.want == nil {
				assert.Nil(t, dashboard.Summary.Rate)
				return
			}
			require.NotNil(t, dashboard.Summary.Rate)
			assert.InDelta(t, *tt.want, *dashboard.Summary.Rate, 1e-9)
		})
	}
}

func TestDashboard_DaysSinceLastIncident(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	establishment := f.addEstablishment(t)

	dashboard, err := f.dashboard.Get(ctx, establishment.ID, 2024)
	require.NoError(t, err)
	assert.Nil(t, dashboard.Summary.DaysSinceLastIncident)

	f.addIncident(t, CreateIncidentRequest{
		EstablishmentID: establishment.ID,
		EmployeeName:    "Last Year",
		IncidentDate:    "2023-12-31",
	})

	// The most recent incident counts even when it falls outside the year.
	dashboard, err = f.dashboard.Get(ctx, establishment.ID, 2024)
	require.NoError(t, err)
	require.NotNil(t, dashboard.Summary.DaysSinceLastIncident)
	assert.Equal(t, 167, *dashboard.Summary.DaysSinceLastIncident)
	assert.Equal(t, 0, dashboard.Summary.TotalIncidents)

	f.addIncident(t, CreateIncidentRequest{
		EstablishmentID: establishment.ID,
		EmployeeName:    "This Month",
		IncidentDate:    "2024-06-10",
	})

	dashboard, err = f.dashboard.Get(ctx, establishment.ID, 2024)
	require.NoError(t, err)
	assert.Equal(t, 5, *dashboard.Summary.DaysSinceLastIncident)
}

func TestDashboard_Breakdowns(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	establishment := f.addEstablishment(t)

	warehouse := &Location{EstablishmentID: establishment.ID, Name: "Warehouse", IsActive: true}
	require.NoError(t, f.location.Create(ctx, warehouse))

	daysAway := SeverityDaysAway
	hearing := TypeHearingLoss

	f.addIncident(t, CreateIncidentRequest{
		EstablishmentID: establishment.ID,
		LocationID:      &warehouse.ID,
		EmployeeName:    "A",
		IncidentDate:    "2024-01-05",
		OutcomeSeverity: &daysAway,
	})
	f.addIncident(t, CreateIncidentRequest{
		EstablishmentID:   establishment.ID,
		EmployeeName:      "B",
		IncidentDate:      "2024-01-20",
		InjuryIllnessType: &hearing,
	})
	incident := f.addIncident(t, CreateIncidentRequest{
		EstablishmentID: establishment.ID,
		LocationID:      &warehouse.ID,
		EmployeeName:    "C",
		IncidentDate:    "2024-03-02",
		IsRecordable:    ptr(false),
	})

	closed := StatusClosed
	_, err := f.incidents.Update(ctx, incident.ID, IncidentPatch{Status: &closed})
	require.NoError(t, err)

	dashboard, err := f.dashboard.Get(ctx, establishment.ID, 2024)
	require.NoError(t, err)

	assert.Equal(t, 2, dashboard.Summary.OpenIncidents)
	assert.Equal(t, []MonthCount{{Month: "2024-01", Count: 2}, {Month: "2024-03", Count: 1}}, dashboard.ByMonth)
	assert.Equal(t, []CategoryCount{
		{Category: string(SeverityDaysAway), Count: 1},
		{Category: string(SeverityOtherRecordable), Count: 1},
	}, dashboard.BySeverity)
	assert.Equal(t, []CategoryCount{
		{Category: string(TypeHearingLoss), Count: 1},
		{Category: string(TypeInjury), Count: 1},
	}, dashboard.ByType)
	assert.ElementsMatch(t, []CategoryCount{
		{Category: "Warehouse", Count: 2},
		{Category: UnassignedLocation, Count: 1},
	}, dashboard.ByLocation)
}

func TestDashboard_CorrectiveActionTallies(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	establishment := f.addEstablishment(t)

	incident := f.addIncident(t, CreateIncidentRequest{
		EstablishmentID: establishment.ID,
		EmployeeName:    "A",
		IncidentDate:    "2023-08-01",
	})

	actions := []*CorrectiveAction{
		{IncidentID: incident.ID, Description: "Install guard", Status: ActionOpen, DueDate: ptr("2024-06-01")},
		{IncidentID: incident.ID, Description: "Retrain staff", Status: ActionInProgress, DueDate: ptr("2024-07-01")},
		{IncidentID: incident.ID, Description: "Replace ladder", Status: ActionCompleted, DueDate: ptr("2024-01-01")},
		{IncidentID: incident.ID, Description: "Review procedure", Status: ActionOpen},
	}
	for _, action := range actions {
		require.NoError(t, f.actions.Create(ctx, action))
	}

	dashboard, err := f.dashboard.Get(ctx, establishment.ID, 2024)
	require.NoError(t, err)
	assert.Equal(t, CorrectiveActionTallies{Open: 2, InProgress: 1, Completed: 1, Overdue: 1}, dashboard.CorrectiveActions)
}

func TestDashboard_Errors(t *testing.T) {
	f := newFixture(t)

	_, err := f.dashboard.Get(context.Background(), 7, 2024)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.dashboard.Get(context.Background(), 7, 3000)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func ptr[T any](v T) *T {
	return &v
}
