package repositories

import (
	"context"
	"testing"

	. "oshalog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportRepository_AnnualTotalsMatchLog(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	establishment := s.addEstablishment(t, "Acme Plant")

	days := func(n int) *int { return &n }

	away := newIncident(establishment.ID, "Jane Doe", "2024-01-10")
	away.OutcomeSeverity = SeverityDaysAway
	away.DaysAwayCount = days(5)
	s.addIncident(t, away)

	restricted := newIncident(establishment.ID, "John Roe", "2024-02-10")
	restricted.OutcomeSeverity = SeverityJobTransferRestriction
	restricted.InjuryIllnessType = TypeSkinDisorder
	restricted.DaysRestrictedCount = days(3)
	s.addIncident(t, restricted)

	death := newIncident(establishment.ID, "Ann Poe", "2024-03-10")
	death.OutcomeSeverity = SeverityDeath
	death.InjuryIllnessType = TypeRespiratory
	s.addIncident(t, death)

	notRecordable := newIncident(establishment.ID, "First Aid", "2024-04-10")
	notRecordable.IsRecordable = false
	notRecordable.DaysAwayCount = days(9)
	s.addIncident(t, notRecordable)

	s.addIncident(t, newIncident(establishment.ID, "Other Year", "2023-12-31"))

	totals, err := s.report.AnnualTotals(ctx, establishment.ID, 2024)
	require.NoError(t, err)

	assert.Equal(t, AnnualTotals{
		TotalCases:          3,
		TotalDeaths:         1,
		TotalDaysAwayCases:  1,
		TotalTransferCases:  1,
		TotalOtherCases:     0,
		TotalDaysAway:       5,
		TotalDaysRestricted: 3,
		TotalInjuries:       1,
		TotalSkinDisorders:  1,
		TotalRespiratory:    1,
	}, totals)

	rows, err := s.incident.ListRecordableForYear(ctx, establishment.ID, 2024)
	require.NoError(t, err)
	outcomes := totals.TotalDeaths + totals.TotalDaysAwayCases + totals.TotalTransferCases + totals.TotalOtherCases
	types := totals.TotalInjuries + totals.TotalSkinDisorders + totals.TotalRespiratory +
		totals.TotalPoisonings + totals.TotalHearingLoss + totals.TotalOtherIllnesses
	assert.Equal(t, len(rows), outcomes)
	assert.Equal(t, len(rows), types)
}

func TestReportRepository_AnnualTotalsEmptyYear(t *testing.T) {
	s := newTestStore(t)
	establishment := s.addEstablishment(t, "Acme Plant")

	totals, err := s.report.AnnualTotals(context.Background(), establishment.ID, 2024)
	require.NoError(t, err)
	assert.Equal(t, AnnualTotals{}, totals)
}

func TestReportRepository_DashboardQueries(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	establishment := s.addEstablishment(t, "Acme Plant")
	dock := s.addLocation(t, establishment.ID, "Dock")

	atDock := newIncident(establishment.ID, "Jane Doe", "2024-01-10")
	atDock.LocationID = &dock.ID
	s.addIncident(t, atDock)

	closed := newIncident(establishment.ID, "John Roe", "2024-01-20")
	closed.Status = StatusClosed
	closed.OutcomeSeverity = SeverityDaysAway
	s.addIncident(t, closed)

	firstAid := newIncident(establishment.ID, "First Aid", "2024-03-02")
	firstAid.IsRecordable = false
	firstAid.InjuryIllnessType = TypeHearingLoss
	s.addIncident(t, firstAid)

	s.addIncident(t, newIncident(establishment.ID, "Later", "2025-02-01"))

	counts, err := s.report.IncidentCounts(ctx, establishment.ID, 2024)
	require.NoError(t, err)
	assert.Equal(t, IncidentCounts{Total: 3, Open: 2, Recordable: 2}, counts)

	byMonth, err := s.report.CountByMonth(ctx, establishment.ID, 2024)
	require.NoError(t, err)
	assert.Equal(t, []MonthCount{{Month: "2024-01", Count: 2}, {Month: "2024-03", Count: 1}}, byMonth)

	bySeverity, err := s.report.CountBySeverity(ctx, establishment.ID, 2024)
	require.NoError(t, err)
	assert.Equal(t, []CategoryCount{
		{Category: string(SeverityDaysAway), Count: 1},
		{Category: string(SeverityOtherRecordable), Count: 1},
	}, bySeverity)

	byType, err := s.report.CountByType(ctx, establishment.ID, 2024)
	require.NoError(t, err)
	assert.Equal(t, []CategoryCount{{Category: string(TypeInjury), Count: 2}}, byType)

	byLocation, err := s.report.CountByLocation(ctx, establishment.ID, 2024)
	require.NoError(t, err)
	assert.Equal(t, []CategoryCount{
		{Category: "Dock", Count: 1},
		{Category: UnassignedLocation, Count: 2},
	}, byLocation)

	last, err := s.report.LastIncidentDate(ctx, establishment.ID)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "2025-02-01", *last)

	none, err := s.report.LastIncidentDate(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestReportRepository_CorrectiveActionTallies(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	establishment := s.addEstablishment(t, "Acme Plant")
	incident := s.addIncident(t, newIncident(establishment.ID, "Jane Doe", "2023-06-01"))

	date := func(d string) *string { return &d }
	actions := []*CorrectiveAction{
		{IncidentID: incident.ID, Description: "overdue open", Status: ActionOpen, DueDate: date("2024-01-01")},
		{IncidentID: incident.ID, Description: "open no due date", Status: ActionOpen},
		{IncidentID: incident.ID, Description: "overdue in progress", Status: ActionInProgress, DueDate: date("2024-02-29")},
		{IncidentID: incident.ID, Description: "due today", Status: ActionInProgress, DueDate: date("2024-03-01")},
		{IncidentID: incident.ID, Description: "late but done", Status: ActionCompleted, DueDate: date("2023-01-01")},
	}
	for _, action := range actions {
		require.NoError(t, s.action.Create(ctx, action))
	}

	tallies, err := s.report.CorrectiveActionTallies(ctx, establishment.ID, "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, CorrectiveActionTallies{Open: 2, InProgress: 2, Completed: 1, Overdue: 2}, tallies)
}
