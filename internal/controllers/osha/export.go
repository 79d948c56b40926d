package oshaController

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"oshalog/internal/apperrors"
	. "oshalog/internal/models"
	"oshalog/internal/utils"

	"github.com/xuri/excelize/v2"
)

type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatXLSX ExportFormat = "xlsx"
)

const (
	logSheet     = "OSHA 300"
	summarySheet = "OSHA 300A"
)

// AnnualLogHeader is the column header of the exported OSHA 300 log.
var AnnualLogHeader = []string{
	"Case No.",
	"Employee Name",
	"Job Title",
	"Date of Injury/Illness",
	"Where Event Occurred",
	"Description of Injury/Illness",
	"Death",
	"Days Away From Work",
	"Job Transfer or Restriction",
	"Other Recordable Cases",
	"Days Away From Work (Count)",
	"Days of Restricted Work (Count)",
	"Injury",
	"Skin Disorder",
	"Respiratory Condition",
	"Poisoning",
	"Hearing Loss",
	"All Other Illnesses",
}

func flag(set bool) string {
	if set {
		return "X"
	}
	return ""
}

func text(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func count(value *int) string {
	if value == nil {
		return "0"
	}
	return strconv.Itoa(*value)
}

func logRecord(row AnnualLogRow) []string {
	return []string{
		strconv.Itoa(row.CaseNumber),
		row.EmployeeName,
		text(row.JobTitle),
		row.IncidentDate,
		text(row.WhereOccurred),
		row.Description,
		flag(row.Death),
		flag(row.DaysAway),
		flag(row.JobTransfer),
		flag(row.OtherRecordable),
		count(row.DaysAwayCount),
		count(row.DaysRestrictedCount),
		flag(row.Injury),
		flag(row.SkinDisorder),
		flag(row.Respiratory),
		flag(row.Poisoning),
		flag(row.HearingLoss),
		flag(row.OtherIllness),
	}
}

func writeLogCSV(w io.Writer, rows []AnnualLogRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(AnnualLogHeader); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write(logRecord(row)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ExportAnnualLogCSV writes the OSHA 300 log as CSV: the fixed header, then
// one record per log row with flags rendered as X.
func (oc *OshaController) ExportAnnualLogCSV(ctx context.Context, w io.Writer, establishmentID, year int) error {
	log := oc.log.Function("ExportAnnualLogCSV")

	rows, err := oc.AnnualLog(ctx, establishmentID, year)
	if err != nil {
		return err
	}

	if err := writeLogCSV(w, rows); err != nil {
		return log.Err("failed to write annual log csv", apperrors.Storage(err),
			"establishmentID", establishmentID, "year", year)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func optionalInt(value *int) any {
	if value == nil {
		return ""
	}
	return *value
}

func optionalInt64(value *int64) any {
	if value == nil {
		return ""
	}
	return *value
}

func buildWorkbook(rows []AnnualLogRow, summary *AnnualSummary) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", logSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name log sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	header := make([]any, len(AnnualLogHeader))
	for i, title := range AnnualLogHeader {
		header[i] = title
	}
	if err := setRow(f, logSheet, 1, header); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write log header: %w", err)
	}
	lastColumn, _ := excelize.ColumnNumberToName(len(AnnualLogHeader))
	if err := f.SetCellStyle(logSheet, "A1", lastColumn+"1", headerStyle); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to style log header: %w", err)
	}

	for i, row := range rows {
		record := logRecord(row)
		values := make([]any, len(record))
		for j, value := range record {
			values[j] = value
		}
		values[0] = row.CaseNumber
		values[10] = optionalIntOrZero(row.DaysAwayCount)
		values[11] = optionalIntOrZero(row.DaysRestrictedCount)
		if err := setRow(f, logSheet, i+2, values); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write log row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(logSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to freeze log header: %w", err)
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}

	summaryRows := [][]any{
		{"Establishment", summary.EstablishmentName},
		{"Street Address", text(summary.StreetAddress)},
		{"City", text(summary.City)},
		{"State", text(summary.State)},
		{"ZIP", text(summary.ZipCode)},
		{"Industry Description", text(summary.IndustryDescription)},
		{"NAICS", text(summary.NaicsCode)},
		{"Year", summary.Year},
		{"Total Cases", summary.TotalCases},
		{"Total Deaths", summary.TotalDeaths},
		{"Cases With Days Away From Work", summary.TotalDaysAwayCases},
		{"Cases With Job Transfer or Restriction", summary.TotalTransferCases},
		{"Other Recordable Cases", summary.TotalOtherCases},
		{"Total Days Away From Work", summary.TotalDaysAway},
		{"Total Days of Job Transfer or Restriction", summary.TotalDaysRestricted},
		{"Injuries", summary.TotalInjuries},
		{"Skin Disorders", summary.TotalSkinDisorders},
		{"Respiratory Conditions", summary.TotalRespiratory},
		{"Poisonings", summary.TotalPoisonings},
		{"Hearing Loss", summary.TotalHearingLoss},
		{"All Other Illnesses", summary.TotalOtherIllnesses},
		{"Annual Average Number of Employees", optionalInt(summary.AverageEmployees)},
		{"Total Hours Worked", optionalInt64(summary.TotalHoursWorked)},
		{"Certified By", text(summary.CertifierName)},
		{"Title", text(summary.CertifierTitle)},
		{"Phone", text(summary.CertifierPhone)},
		{"Date", text(summary.CertificationDate)},
	}
	for i, values := range summaryRows {
		if err := setRow(f, summarySheet, i+1, values); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write summary row %d: %w", i+1, err)
		}
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 42); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to size summary sheet: %w", err)
	}

	return f, nil
}

func optionalIntOrZero(value *int) int {
	if value == nil {
		return 0
	}
	return *value
}

// ExportAnnualLogXLSX writes a workbook with the log on the "OSHA 300" sheet
// and the summary on "OSHA 300A".
func (oc *OshaController) ExportAnnualLogXLSX(ctx context.Context, w io.Writer, establishmentID, year int) error {
	log := oc.log.Function("ExportAnnualLogXLSX")

	if err := utils.ValidateYear(year); err != nil {
		return err
	}

	var (
		rows    []AnnualLogRow
		summary *AnnualSummary
	)
	err := oc.transactionService.Read(ctx, "osha.exportXLSX", func(ctx context.Context) error {
		var err error
		if summary, err = oc.annualSummary(ctx, establishmentID, year); err != nil {
			return err
		}
		rows, err = oc.annualLog(ctx, establishmentID, year)
		return err
	})
	if err != nil {
		return err
	}

	f, err := buildWorkbook(rows, summary)
	if err != nil {
		return log.Err("failed to build workbook", apperrors.Storage(err), "establishmentID", establishmentID)
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return log.Err("failed to write workbook", apperrors.Storage(err), "establishmentID", establishmentID)
	}
	return nil
}

// ExportFileBase names an export of the establishment's log for the year,
// before sanitization.
func (oc *OshaController) ExportFileBase(ctx context.Context, establishmentID, year int) (string, error) {
	var base string
	err := oc.transactionService.Read(ctx, "osha.exportFileBase", func(ctx context.Context) error {
		establishment, err := oc.establishmentRepo.GetByID(ctx, establishmentID)
		if err != nil {
			return err
		}
		base = fmt.Sprintf("OSHA_300_%s_%d", establishment.Name, year)
		return nil
	})
	return base, err
}

// ExportToDir writes the export into dir under a sanitized file name and
// returns the path written.
func (oc *OshaController) ExportToDir(
	ctx context.Context,
	dir string,
	format ExportFormat,
	establishmentID, year int,
) (string, error) {
	log := oc.log.Function("ExportToDir")

	if format != FormatCSV && format != FormatXLSX {
		return "", apperrors.Validation("unsupported export format %q", string(format))
	}
	if err := utils.ValidateYear(year); err != nil {
		return "", err
	}

	base, err := oc.ExportFileBase(ctx, establishmentID, year)
	if err != nil {
		return "", err
	}

	path, err := utils.SafeExportPath(dir, base, string(format))
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", log.Err("failed to create export directory", apperrors.Storage(err), "dir", dir)
	}

	file, err := os.Create(path)
	if err != nil {
		return "", log.Err("failed to create export file", apperrors.Storage(err), "path", path)
	}
	defer file.Close()

	switch format {
	case FormatCSV:
		err = oc.ExportAnnualLogCSV(ctx, file, establishmentID, year)
	case FormatXLSX:
		err = oc.ExportAnnualLogXLSX(ctx, file, establishmentID, year)
	}
	if err != nil {
		_ = os.Remove(path)
		return "", err
	}

	log.Info("Exported annual log", "path", path, "format", format)
	return path, nil
}
