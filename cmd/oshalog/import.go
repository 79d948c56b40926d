package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"oshalog/internal/app"
	"oshalog/internal/logger"
	. "oshalog/internal/models"
	"oshalog/internal/utils"

	"github.com/spf13/cobra"
)

func currentYear() int {
	return time.Now().UTC().Year()
}

func printJSON(cmd *cobra.Command, value any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func newPreviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preview <file.csv>",
		Short: "Show the headers and first rows of a CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(application *app.App) error {
				preview, err := application.ImporterController.PreviewFile(args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd, preview)
			})
		},
	}
}

type importOptions struct {
	establishmentID int
	locationID      int
	mappingFile     string
	mapping         map[string]string
}

// mappingFields binds the --map keys to the column mapping fields.
func mappingFields(mapping *ColumnMapping) map[string]**string {
	return map[string]**string{
		"employeeName":        &mapping.EmployeeName,
		"employeeJobTitle":    &mapping.EmployeeJobTitle,
		"incidentDate":        &mapping.IncidentDate,
		"description":         &mapping.Description,
		"whereOccurred":       &mapping.WhereOccurred,
		"outcomeSeverity":     &mapping.OutcomeSeverity,
		"daysAwayCount":       &mapping.DaysAwayCount,
		"daysRestrictedCount": &mapping.DaysRestrictedCount,
		"injuryIllnessType":   &mapping.InjuryIllnessType,
		"employeeGender":      &mapping.EmployeeGender,
	}
}

func (opts importOptions) request() (ImportRequest, error) {
	request := ImportRequest{EstablishmentID: opts.establishmentID}
	if opts.locationID > 0 {
		locationID := opts.locationID
		request.LocationID = &locationID
	}

	if opts.mappingFile != "" {
		raw, err := os.ReadFile(opts.mappingFile)
		if err != nil {
			return ImportRequest{}, fmt.Errorf("failed to read mapping file: %w", err)
		}
		if err := json.Unmarshal(raw, &request.Mapping); err != nil {
			return ImportRequest{}, fmt.Errorf("invalid mapping file: %w", err)
		}
	}

	fields := mappingFields(&request.Mapping)
	for key, column := range opts.mapping {
		field, ok := fields[key]
		if !ok {
			return ImportRequest{}, fmt.Errorf("unknown mapping field %q", key)
		}
		column := column
		*field = &column
	}

	return request, nil
}

func newImportCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import incidents from a CSV using a column mapping",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New("main").Function("import")

			request, err := opts.request()
			if err != nil {
				return log.Err("invalid import options", err)
			}

			return withApp(cmd.Context(), func(application *app.App) error {
				result, err := application.ImporterController.ImportFile(cmd.Context(), args[0], request)
				if err != nil {
					return err
				}
				return printJSON(cmd, result)
			})
		},
	}

	cmd.Flags().IntVar(&opts.establishmentID, "establishment", 0, "Target establishment ID (required)")
	cmd.Flags().IntVar(&opts.locationID, "location", 0, "Target location ID")
	cmd.Flags().StringVar(&opts.mappingFile, "mapping", "", "JSON file with the column mapping")
	cmd.Flags().StringToStringVar(&opts.mapping, "map", nil,
		"Column mapping entries, e.g. --map employeeName=Employee,incidentDate=Date")
	_ = cmd.MarkFlagRequired("establishment")

	return cmd
}

func newSampleCmd() *cobra.Command {
	var (
		config utils.SampleCSVConfig
		output string
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write a sample incident CSV for import testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return err
				}
				defer file.Close()
				out = file
			}
			return utils.WriteSampleIncidentCSV(out, config)
		},
	}

	cmd.Flags().IntVar(&config.Rows, "rows", 25, "Number of incident rows")
	cmd.Flags().IntVar(&config.Year, "year", currentYear(), "Year of the incident dates")
	cmd.Flags().Int64Var(&config.Seed, "seed", 1, "Random seed")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")

	return cmd
}
