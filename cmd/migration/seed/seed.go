package seed

import (
	"context"
	"fmt"

	"oshalog/internal/app"
	"oshalog/internal/logger"
	. "oshalog/internal/models"
)

func stringPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}

const demoEstablishment = "Riverside Fabrication"

type demoIncident struct {
	name        string
	jobTitle    string
	date        string
	description string
	severity    OutcomeSeverity
	injuryType  InjuryIllnessType
	daysAway    int
	restricted  int
	location    int
	privacy     bool
}

// Seed loads a demo establishment with locations, a year of incidents and
// its annual stats. It does nothing when the demo establishment exists.
func Seed(ctx context.Context, app *app.App, year int, log logger.Logger) error {
	log = log.Function("Seed")
	log.Info("Seeding development data", "year", year)

	existing, err := app.EstablishmentController.List(ctx)
	if err != nil {
		return log.Err("failed to list establishments", err)
	}
	for _, establishment := range existing {
		if establishment.Name == demoEstablishment {
			log.Info("Establishment already exists", "establishmentID", establishment.ID)
			return nil
		}
	}

	establishment, err := app.EstablishmentController.Create(ctx, CreateEstablishmentRequest{
		Name:                demoEstablishment,
		StreetAddress:       stringPtr("1200 Industrial Pkwy"),
		City:                stringPtr("Dayton"),
		State:               stringPtr("OH"),
		ZipCode:             stringPtr("45402"),
		IndustryDescription: stringPtr("Structural metal fabrication"),
		NaicsCode:           stringPtr("332312"),
	})
	if err != nil {
		return log.Err("failed to create establishment", err)
	}

	locationIDs := []int{}
	for _, name := range []string{"Weld Shop", "Paint Line", "Shipping Dock"} {
		location, err := app.LocationController.Create(ctx, CreateLocationRequest{
			EstablishmentID: establishment.ID,
			Name:            name,
		})
		if err != nil {
			return log.Err("failed to create location", err, "location", name)
		}
		locationIDs = append(locationIDs, location.ID)
	}

	incidents := []demoIncident{
		{
			name: "Maria Lopez", jobTitle: "Welder", date: "-02-14",
			description: "Flash burn to eyes while grinding without face shield",
			severity:    SeverityDaysAway, injuryType: TypeInjury, daysAway: 3, location: 0,
		},
		{
			name: "Tom Baker", jobTitle: "Painter", date: "-04-02",
			description: "Dermatitis on forearms from solvent exposure",
			severity:    SeverityOtherRecordable, injuryType: TypeSkinDisorder, location: 1,
		},
		{
			name: "Dana White", jobTitle: "Forklift Operator", date: "-06-20",
			description: "Strained lower back lifting pallet",
			severity:    SeverityJobTransferRestriction, injuryType: TypeInjury, restricted: 10, location: 2,
		},
		{
			name: "Chris Young", jobTitle: "Custodian", date: "-09-08",
			description: "Needlestick from discarded sharp in trash bin",
			severity:    SeverityOtherRecordable, injuryType: TypeInjury, location: 2, privacy: true,
		},
	}

	for i, demo := range incidents {
		severity, injuryType, privacy := demo.severity, demo.injuryType, demo.privacy
		incident, err := app.IncidentController.Create(ctx, CreateIncidentRequest{
			EstablishmentID:     establishment.ID,
			LocationID:          &locationIDs[demo.location],
			EmployeeName:        demo.name,
			EmployeeJobTitle:    stringPtr(demo.jobTitle),
			IsPrivacyCase:       &privacy,
			IncidentDate:        yearDate(year, demo.date),
			Description:         demo.description,
			OutcomeSeverity:     &severity,
			InjuryIllnessType:   &injuryType,
			DaysAwayCount:       Some(demo.daysAway),
			DaysRestrictedCount: Some(demo.restricted),
		})
		if err != nil {
			log.Er("failed to create incident", err, "employee", demo.name)
			continue
		}
		log.Info("Seeded incident", "incidentID", incident.ID, "caseNumber", incident.CaseNumber)

		var sessionID *int
		if i == 0 {
			sessionID = seedFiveWhys(ctx, app, incident.ID, log)
		}

		if _, err := app.CorrectiveActionController.Create(ctx, CreateCorrectiveActionRequest{
			IncidentID:   incident.ID,
			RcaSessionID: sessionID,
			Description:  "Review procedure with " + demo.jobTitle + " crew",
			AssignedTo:   stringPtr("Safety Manager"),
			DueDate:      stringPtr(yearDate(year, "-12-15")),
		}); err != nil {
			log.Er("failed to create corrective action", err, "incidentID", incident.ID)
		}
	}

	hours := int64(412000)
	if _, err := app.OshaController.UpsertAnnualStats(ctx, UpsertAnnualStatsRequest{
		EstablishmentID:  establishment.ID,
		Year:             year,
		AverageEmployees: intPtr(210),
		TotalHoursWorked: &hours,
		CertifierName:    stringPtr("Pat Morgan"),
		CertifierTitle:   stringPtr("Plant Manager"),
	}); err != nil {
		return log.Err("failed to save annual stats", err)
	}

	log.Info("Seeding complete", "establishmentID", establishment.ID)
	return nil
}

var demoWhys = []struct{ question, answer string }{
	{"Why was the employee injured?", "A pallet shifted off the forks"},
	{"Why did the pallet shift?", "The load was not wrapped"},
	{"Why was the load not wrapped?", "The wrapper was out of service"},
	{"Why was the wrapper out of service?", "No spare film rolls were stocked"},
	{"Why were no spares stocked?", "Consumables had no reorder point"},
}

// seedFiveWhys records a completed analysis and returns its ID, or nil when
// any step fails.
func seedFiveWhys(ctx context.Context, app *app.App, incidentID int, log logger.Logger) *int {
	session, err := app.RcaController.CreateSession(ctx, CreateRcaSessionRequest{
		IncidentID: incidentID,
		Method:     RcaFiveWhys,
	})
	if err != nil {
		log.Er("failed to create RCA session", err, "incidentID", incidentID)
		return nil
	}

	for i, why := range demoWhys {
		if _, err := app.RcaController.AddStep(ctx, session.ID, AddFiveWhysStepRequest{
			StepNumber: i + 1,
			Question:   why.question,
			Answer:     stringPtr(why.answer),
		}); err != nil {
			log.Er("failed to add five whys step", err, "sessionID", session.ID)
			return nil
		}
	}

	if _, err := app.RcaController.CompleteSession(ctx, session.ID, "Consumables had no reorder point"); err != nil {
		log.Er("failed to complete RCA session", err, "sessionID", session.ID)
		return nil
	}

	return &session.ID
}

func yearDate(year int, monthDay string) string {
	return fmt.Sprintf("%d%s", year, monthDay)
}
