package repositories

import (
	"context"
	"testing"
	"time"

	"oshalog/config"
	"oshalog/internal/database"
	"oshalog/internal/logger"
	. "oshalog/internal/models"
	"oshalog/internal/services"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	current time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{current: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time {
	return c.current
}

func (c *fakeClock) advance(d time.Duration) {
	c.current = c.current.Add(d)
}

type testStore struct {
	db            database.DB
	tx            *services.TransactionService
	clock         *fakeClock
	establishment *establishmentRepository
	location      *locationRepository
	incident      *incidentRepository
	attachment    *attachmentRepository
	annualStats   *annualStatsRepository
	action        *correctiveActionRepository
	rcaSession    *rcaSessionRepository
	fiveWhys      *fiveWhysRepository
	fishbone      *fishboneRepository
	report        *reportRepository
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()
	db, err := database.New(config.Config{DatabaseDbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	clock := newFakeClock()
	log := logger.New("repositoryTest")

	return &testStore{
		db:            db,
		tx:            services.NewTransactionService(db, nil),
		clock:         clock,
		establishment: &establishmentRepository{db: db, log: log, now: clock.now},
		location:      &locationRepository{db: db, log: log, now: clock.now},
		incident:      &incidentRepository{db: db, log: log, now: clock.now},
		attachment:    &attachmentRepository{db: db, log: log, now: clock.now},
		annualStats:   &annualStatsRepository{db: db, log: log, now: clock.now},
		action:        &correctiveActionRepository{db: db, log: log, now: clock.now},
		rcaSession:    &rcaSessionRepository{db: db, log: log, now: clock.now},
		fiveWhys:      &fiveWhysRepository{db: db, log: log, now: clock.now},
		fishbone:      &fishboneRepository{db: db, log: log, now: clock.now},
		report:        &reportRepository{db: db, log: log},
	}
}

func (s *testStore) addEstablishment(t *testing.T, name string) *Establishment {
	t.Helper()
	establishment := &Establishment{Name: name}
	require.NoError(t, s.establishment.Create(context.Background(), establishment))
	return establishment
}

func (s *testStore) addLocation(t *testing.T, establishmentID int, name string) *Location {
	t.Helper()
	location := &Location{EstablishmentID: establishmentID, Name: name, IsActive: true}
	require.NoError(t, s.location.Create(context.Background(), location))
	return location
}

func newIncident(establishmentID int, name, date string) *Incident {
	return &Incident{
		EstablishmentID:   establishmentID,
		EmployeeName:      name,
		IncidentDate:      date,
		Description:       "Slipped on wet floor",
		OutcomeSeverity:   SeverityOtherRecordable,
		InjuryIllnessType: TypeInjury,
		IsRecordable:      true,
		Status:            StatusOpen,
	}
}

func (s *testStore) addIncident(t *testing.T, incident *Incident) *Incident {
	t.Helper()
	err := s.tx.Execute(context.Background(), "test.createIncident", func(ctx context.Context) error {
		return s.incident.Create(ctx, incident)
	})
	require.NoError(t, err)
	return incident
}
