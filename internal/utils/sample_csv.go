package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"strconv"
)

// SampleCSVHeaders deliberately differ from the internal field names so the
// file exercises a real column mapping on import.
var SampleCSVHeaders = []string{
	"Employee",
	"Job Title",
	"Date",
	"What Happened",
	"Where",
	"Outcome",
	"Days Away",
	"Days Restricted",
	"Type",
	"Gender",
}

var sampleDataSets = struct {
	FirstNames   []string
	LastNames    []string
	JobTitles    []string
	Locations    []string
	Descriptions []string
	Outcomes     []string
	Types        []string
	Genders      []string
}{
	FirstNames: []string{
		"John", "Jane", "Michael", "Sarah", "David", "Lisa", "Robert", "Mary", "James", "Jennifer",
	},
	LastNames: []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez", "Martinez",
	},
	JobTitles: []string{
		"Forklift Operator", "Welder", "Machinist", "Warehouse Associate", "Electrician",
		"Maintenance Technician", "Line Supervisor", "Assembler",
	},
	Locations: []string{
		"Loading dock", "Assembly line 2", "Paint booth", "Warehouse aisle 14", "Break room", "Parking lot",
	},
	Descriptions: []string{
		"Laceration to left hand from sheet metal edge",
		"Strained lower back lifting boxes",
		"Chemical splash to forearm",
		"Slipped on wet floor, sprained ankle",
		"Hearing threshold shift found in annual test",
		"Contact dermatitis from cutting fluid",
	},
	Outcomes: []string{"Other Recordable Cases", "Days Away", "Job Transfer or Restriction"},
	Types:    []string{"Injury", "Injury", "Injury", "Skin Disorder", "Respiratory Condition", "Hearing Loss"},
	Genders:  []string{"M", "F", ""},
}

type SampleCSVConfig struct {
	Rows int
	Year int
	Seed int64
}

// WriteSampleIncidentCSV writes a deterministic incident spreadsheet in US
// date format for demos and import smoke tests.
func WriteSampleIncidentCSV(w io.Writer, config SampleCSVConfig) error {
	if config.Rows < 0 {
		return fmt.Errorf("rows must not be negative")
	}
	if err := ValidateYear(config.Year); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(config.Seed))
	data := sampleDataSets

	writer := csv.NewWriter(w)
	if err := writer.Write(SampleCSVHeaders); err != nil {
		return fmt.Errorf("failed to write sample headers: %w", err)
	}

	for i := 0; i < config.Rows; i++ {
		outcome := data.Outcomes[rng.Intn(len(data.Outcomes))]
		daysAway, daysRestricted := "", ""
		switch outcome {
		case "Days Away":
			daysAway = strconv.Itoa(1 + rng.Intn(30))
		case "Job Transfer or Restriction":
			daysRestricted = strconv.Itoa(1 + rng.Intn(30))
		}

		record := []string{
			data.FirstNames[rng.Intn(len(data.FirstNames))] + " " + data.LastNames[rng.Intn(len(data.LastNames))],
			data.JobTitles[rng.Intn(len(data.JobTitles))],
			fmt.Sprintf("%02d/%02d/%04d", 1+rng.Intn(12), 1+rng.Intn(28), config.Year),
			data.Descriptions[rng.Intn(len(data.Descriptions))],
			data.Locations[rng.Intn(len(data.Locations))],
			outcome,
			daysAway,
			daysRestricted,
			data.Types[rng.Intn(len(data.Types))],
			data.Genders[rng.Intn(len(data.Genders))],
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write sample row %d: %w", i+1, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
