package oshaController

import (
	"context"
	"testing"

	"oshalog/config"
	"oshalog/internal/blob"
	incidentController "oshalog/internal/controllers/incident"
	"oshalog/internal/database"
	. "oshalog/internal/models"
	"oshalog/internal/repositories"
	"oshalog/internal/services"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	osha          *OshaController
	incidents     *incidentController.IncidentController
	establishment repositories.EstablishmentRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.New(config.Config{DatabaseDbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	tx := services.NewTransactionService(db, nil)
	cache := services.NewCacheInvalidationService(db)

	establishmentRepo := repositories.NewEstablishment(db)
	incidentRepo := repositories.NewIncident(db)

	return &fixture{
		osha: New(
			establishmentRepo,
			incidentRepo,
			repositories.NewAnnualStats(db),
			repositories.NewReport(db),
			tx,
			cache,
		),
		incidents: incidentController.New(
			establishmentRepo,
			repositories.NewLocation(db),
			incidentRepo,
			repositories.NewAttachment(db),
			blob.NewMemory(),
			tx,
			cache,
		),
		establishment: establishmentRepo,
	}
}

func (f *fixture) addEstablishment(t *testing.T, name string) *Establishment {
	t.Helper()
	establishment := &Establishment{Name: name}
	require.NoError(t, f.establishment.Create(context.Background(), establishment))
	return establishment
}

type incidentOption func(*CreateIncidentRequest)

func withSeverity(severity OutcomeSeverity) incidentOption {
	return func(req *CreateIncidentRequest) { req.OutcomeSeverity = &severity }
}

func withType(injuryType InjuryIllnessType) incidentOption {
	return func(req *CreateIncidentRequest) { req.InjuryIllnessType = &injuryType }
}

func withDaysAway(days int) incidentOption {
	return func(req *CreateIncidentRequest) { req.DaysAwayCount = Some(days) }
}

func withDaysRestricted(days int) incidentOption {
	return func(req *CreateIncidentRequest) { req.DaysRestrictedCount = Some(days) }
}

func withPrivacy() incidentOption {
	return func(req *CreateIncidentRequest) {
		privacy := true
		req.IsPrivacyCase = &privacy
	}
}

func notRecordable() incidentOption {
	return func(req *CreateIncidentRequest) {
		recordable := false
		req.IsRecordable = &recordable
	}
}

func (f *fixture) addIncident(t *testing.T, establishmentID int, name, date string, opts ...incidentOption) *Incident {
	t.Helper()
	req := CreateIncidentRequest{
		EstablishmentID: establishmentID,
		EmployeeName:    name,
		IncidentDate:    date,
		Description:     "Cut hand on sheet metal",
	}
	for _, opt := range opts {
		opt(&req)
	}

	incident, err := f.incidents.Create(context.Background(), req)
	require.NoError(t, err)
	return incident
}
