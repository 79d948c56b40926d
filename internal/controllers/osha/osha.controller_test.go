package oshaController

import (
	"context"
	"testing"

	"oshalog/internal/apperrors"
	. "oshalog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnualLog_OrderAndFlags(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	establishment := f.addEstablishment(t, "Acme Plant")

	f.addIncident(t, establishment.ID, "Jane Doe", "2024-05-01",
		withSeverity(SeverityDaysAway), withDaysAway(4), withType(TypeHearingLoss))
	f.addIncident(t, establishment.ID, "John Roe", "2024-01-15")
	f.addIncident(t, establishment.ID, "First Aid Only", "2024-02-01", notRecordable())
	f.addIncident(t, establishment.ID, "Last Year", "2023-11-30")

	rows, err := f.osha.AnnualLog(ctx, establishment.ID, 2024)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Case numbers follow creation order, not incident date.
	assert.Equal(t, 1, rows[0].CaseNumber)
	assert.Equal(t, "Jane Doe", rows[0].EmployeeName)
	assert.True(t, rows[0].DaysAway)
	assert.False(t, rows[0].OtherRecordable)
	assert.True(t, rows[0].HearingLoss)
	assert.False(t, rows[0].Injury)
	require.NotNil(t, rows[0].DaysAwayCount)
	assert.Equal(t, 4, *rows[0].DaysAwayCount)

	assert.Equal(t, 2, rows[1].CaseNumber)
	assert.True(t, rows[1].OtherRecordable)
	assert.True(t, rows[1].Injury)
}

func TestAnnualLog_PrivacyCaseMasksName(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	establishment := f.addEstablishment(t, "Acme Plant")

	incident := f.addIncident(t, establishment.ID, "Jane Doe", "2024-05-01", withPrivacy())

	rows, err := f.osha.AnnualLog(ctx, establishment.ID, 2024)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, PrivacyCaseName, rows[0].EmployeeName)

	report, err := f.osha.PerCaseReport(ctx, incident.ID)
	require.NoError(t, err)
	assert.Equal(t, PrivacyCaseName, report.Employee.Name)
	assert.Equal(t, "Acme Plant", report.Establishment)

	stored, err := f.incidents.Get(ctx, incident.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", stored.EmployeeName)
}

func TestAnnualLog_InvalidYear(t *testing.T) {
	f := newFixture(t)

	_, err := f.osha.AnnualLog(context.Background(), 1, 1900)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestAnnualSummary_TotalsMatchLog(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	establishment := f.addEstablishment(t, "Acme Plant")

	f.addIncident(t, establishment.ID, "A", "2024-01-10", withSeverity(SeverityDaysAway), withDaysAway(5))
	f.addIncident(t, establishment.ID, "B", "2024-02-10",
		withSeverity(SeverityJobTransferRestriction), withDaysRestricted(3), withType(TypeSkinDisorder))
	f.addIncident(t, establishment.ID, "C", "2024-03-10", withSeverity(SeverityDeath), withType(TypePoisoning))
	f.addIncident(t, establishment.ID, "D", "2024-04-10")
	f.addIncident(t, establishment.ID, "E", "2024-05-10", notRecordable(), withDaysAway(30))

	rows, err := f.osha.AnnualLog(ctx, establishment.ID, 2024)
	require.NoError(t, err)

	summary, err := f.osha.AnnualSummary(ctx, establishment.ID, 2024)
	require.NoError(t, err)

	var deaths, daysAway int
	for _, row := range rows {
		if row.Death {
			deaths++
		}
		if row.DaysAwayCount != nil {
			daysAway += *row.DaysAwayCount
		}
	}

	assert.Equal(t, len(rows), summary.TotalCases)
	assert.Equal(t, deaths, summary.TotalDeaths)
	assert.Equal(t, daysAway, summary.TotalDaysAway)
	assert.Equal(t, 3, summary.TotalDaysRestricted)
	assert.Equal(t, 1, summary.TotalOtherCases)
	assert.Equal(t, 2, summary.TotalInjuries)
	assert.Equal(t, 1, summary.TotalSkinDisorders)
	assert.Equal(t, 1, summary.TotalPoisonings)
	assert.Equal(t, "Acme Plant", summary.EstablishmentName)
	assert.Nil(t, summary.AverageEmployees)
}

func TestAnnualSummary_ReflectsMutations(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	establishment := f.addEstablishment(t, "Acme Plant")

	incident := f.addIncident(t, establishment.ID, "A", "2024-01-10")

	summary, err := f.osha.AnnualSummary(ctx, establishment.ID, 2024)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalCases)

	severity := SeverityDeath
	_, err = f.incidents.Update(ctx, incident.ID, IncidentPatch{OutcomeSeverity: &severity})
	require.NoError(t, err)

	summary, err = f.osha.AnnualSummary(ctx, establishment.ID, 2024)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalDeaths)

	require.NoError(t, f.incidents.Delete(ctx, incident.ID))

	summary, err = f.osha.AnnualSummary(ctx, establishment.ID, 2024)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalCases)
}

func TestAnnualSummary_UnknownEstablishment(t *testing.T) {
	f := newFixture(t)

	_, err := f.osha.AnnualSummary(context.Background(), 42, 2024)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpsertAnnualStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	establishment := f.addEstablishment(t, "Acme Plant")

	employees := 150
	hours := int64(300000)
	name := "Pat Safety"

	stats, err := f.osha.UpsertAnnualStats(ctx, UpsertAnnualStatsRequest{
		EstablishmentID:  establishment.ID,
		Year:             2024,
		AverageEmployees: &employees,
		TotalHoursWorked: &hours,
		CertifierName:    &name,
	})
	require.NoError(t, err)
	assert.Equal(t, 150, *stats.AverageEmployees)

	summary, err := f.osha.AnnualSummary(ctx, establishment.ID, 2024)
	require.NoError(t, err)
	require.NotNil(t, summary.TotalHoursWorked)
	assert.Equal(t, int64(300000), *summary.TotalHoursWorked)
	assert.Equal(t, "Pat Safety", *summary.CertifierName)

	missing, err := f.osha.GetAnnualStats(ctx, establishment.ID, 2023)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUpsertAnnualStats_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	establishment := f.addEstablishment(t, "Acme Plant")

	negative := -1
	negativeHours := int64(-5)
	badDate := "2024/01/01"

	tests := []struct {
		name string
		req  UpsertAnnualStatsRequest
		want error
	}{
		{"year out of range", UpsertAnnualStatsRequest{EstablishmentID: establishment.ID, Year: 1800}, apperrors.ErrValidation},
		{"negative employees", UpsertAnnualStatsRequest{EstablishmentID: establishment.ID, Year: 2024, AverageEmployees: &negative}, apperrors.ErrValidation},
		{"negative hours", UpsertAnnualStatsRequest{EstablishmentID: establishment.ID, Year: 2024, TotalHoursWorked: &negativeHours}, apperrors.ErrValidation},
		{"bad certification date", UpsertAnnualStatsRequest{EstablishmentID: establishment.ID, Year: 2024, CertificationDate: &badDate}, apperrors.ErrValidation},
		{"unknown establishment", UpsertAnnualStatsRequest{EstablishmentID: 999, Year: 2024}, apperrors.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.osha.UpsertAnnualStats(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPerCaseReport_NonRecordable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	establishment := f.addEstablishment(t, "Acme Plant")

	incident := f.addIncident(t, establishment.ID, "Jane Doe", "2024-05-01", notRecordable())

	report, err := f.osha.PerCaseReport(ctx, incident.ID)
	require.NoError(t, err)
	assert.False(t, report.IsRecordable)
	assert.Equal(t, "Jane Doe", report.Employee.Name)
	assert.Equal(t, "2024-05-01", report.Case.IncidentDate)

	_, err = f.osha.PerCaseReport(ctx, incident.ID+100)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
