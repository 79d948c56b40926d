package importerController

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"oshalog/internal/apperrors"
	"oshalog/internal/logger"
	"oshalog/internal/metrics"
	. "oshalog/internal/models"
	"oshalog/internal/repositories"
	"oshalog/internal/services"
	"oshalog/internal/utils"

	"github.com/google/uuid"
)

const previewSampleRows = 5

var (
	errMissingName = errors.New("Missing employee name")
	errMissingDate = errors.New("Missing incident date")
)

// IncidentCreator is the standard incident create path every imported row
// goes through.
type IncidentCreator interface {
	Create(ctx context.Context, req CreateIncidentRequest) (*Incident, error)
}

type ImporterController struct {
	establishmentRepo  repositories.EstablishmentRepository
	locationRepo       repositories.LocationRepository
	incidents          IncidentCreator
	transactionService *services.TransactionService
	recorder           *metrics.Recorder
	dates              *utils.DateValidator
	log                logger.Logger
}

func New(
	establishmentRepo repositories.EstablishmentRepository,
	locationRepo repositories.LocationRepository,
	incidents IncidentCreator,
	transactionService *services.TransactionService,
	recorder *metrics.Recorder,
) *ImporterController {
	return &ImporterController{
		establishmentRepo:  establishmentRepo,
		locationRepo:       locationRepo,
		incidents:          incidents,
		transactionService: transactionService,
		recorder:           recorder,
		dates:              utils.NewDateValidator(),
		log:                logger.New("ImporterController"),
	}
}

func newReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	return reader
}

// readHeader returns no headers and no error for an empty input.
func readHeader(reader *csv.Reader) ([]string, error) {
	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []string{}, nil
	}
	if err != nil {
		return nil, apperrors.Parse(fmt.Errorf("failed to read CSV headers: %w", err))
	}
	return headers, nil
}

// Preview reads the whole input: any malformed row fails the preview.
func (ic *ImporterController) Preview(r io.Reader) (*CSVPreview, error) {
	log := ic.log.Function("Preview")

	reader := newReader(r)
	headers, err := readHeader(reader)
	if err != nil {
		return nil, log.Err("failed to preview CSV", err)
	}

	preview := &CSVPreview{Headers: headers, SampleRows: [][]string{}}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, log.Err("failed to preview CSV", apperrors.Parse(fmt.Errorf("CSV parse error: %w", err)),
				"row", preview.TotalRows+2)
		}

		preview.TotalRows++
		if len(preview.SampleRows) < previewSampleRows {
			preview.SampleRows = append(preview.SampleRows, record)
		}
	}

	return preview, nil
}

func (ic *ImporterController) PreviewFile(path string) (*CSVPreview, error) {
	log := ic.log.Function("PreviewFile")

	file, err := os.Open(path)
	if err != nil {
		return nil, log.Err("failed to open CSV", apperrors.Parse(err), "path", path)
	}
	defer file.Close()

	return ic.Preview(file)
}

// rowReader resolves mapped columns against one record. A mapping whose
// column is missing from the header, or whose cell is blank, yields nil.
type rowReader struct {
	index  map[string]int
	record []string
}

func (rr rowReader) get(column *string) *string {
	if column == nil || *column == "" {
		return nil
	}
	idx, ok := rr.index[*column]
	if !ok || idx >= len(rr.record) {
		return nil
	}
	value := strings.TrimSpace(rr.record[idx])
	if value == "" {
		return nil
	}
	return &value
}

// days stores NULL rather than the create default of 0 when the cell is
// absent or not a whole number.
func (rr rowReader) days(column *string) Nullable[int] {
	value := rr.get(column)
	if value == nil {
		return Null[int]()
	}
	days, err := strconv.Atoi(*value)
	if err != nil {
		return Null[int]()
	}
	return Some(days)
}

func (ic *ImporterController) buildRequest(rr rowReader, req ImportRequest) (CreateIncidentRequest, error) {
	mapping := req.Mapping

	name := rr.get(mapping.EmployeeName)
	if name == nil {
		return CreateIncidentRequest{}, errMissingName
	}
	date := rr.get(mapping.IncidentDate)
	if date == nil {
		return CreateIncidentRequest{}, errMissingDate
	}

	incidentDate := *date
	if normalized, ok := ic.dates.Normalize(incidentDate); ok {
		incidentDate = normalized
	}

	description := ImportedDescription
	if value := rr.get(mapping.Description); value != nil {
		description = *value
	}

	create := CreateIncidentRequest{
		EstablishmentID:     req.EstablishmentID,
		LocationID:          req.LocationID,
		EmployeeName:        *name,
		EmployeeJobTitle:    rr.get(mapping.EmployeeJobTitle),
		EmployeeGender:      rr.get(mapping.EmployeeGender),
		IncidentDate:        incidentDate,
		Description:         description,
		WhereOccurred:       rr.get(mapping.WhereOccurred),
		DaysAwayCount:       rr.days(mapping.DaysAwayCount),
		DaysRestrictedCount: rr.days(mapping.DaysRestrictedCount),
	}

	if value := rr.get(mapping.OutcomeSeverity); value != nil {
		severity, err := ParseOutcomeSeverity(*value)
		if err != nil {
			return CreateIncidentRequest{}, err
		}
		create.OutcomeSeverity = &severity
	}
	if value := rr.get(mapping.InjuryIllnessType); value != nil {
		injuryType, err := ParseInjuryIllnessType(*value)
		if err != nil {
			return CreateIncidentRequest{}, err
		}
		create.InjuryIllnessType = &injuryType
	}

	return create, nil
}

func (ic *ImporterController) checkTarget(ctx context.Context, req ImportRequest) error {
	return ic.transactionService.Read(ctx, "import.checkTarget", func(ctx context.Context) error {
		if _, err := ic.establishmentRepo.GetByID(ctx, req.EstablishmentID); err != nil {
			return err
		}
		if req.LocationID == nil {
			return nil
		}
		location, err := ic.locationRepo.GetByID(ctx, *req.LocationID)
		if err != nil {
			return err
		}
		if location.EstablishmentID != req.EstablishmentID {
			return apperrors.Validation("location %d does not belong to establishment %d",
				location.ID, req.EstablishmentID)
		}
		return nil
	})
}

// Import creates one incident per data row. Row failures are collected as
// "Row N: <reason>" where N counts the header as row 1; they never stop the
// import. Only an unreadable header or an unknown target aborts it.
func (ic *ImporterController) Import(ctx context.Context, r io.Reader, req ImportRequest) (*ImportResult, error) {
	log := ic.log.Function("Import").With("batchID", uuid.New().String())

	if err := ic.checkTarget(ctx, req); err != nil {
		return nil, err
	}

	reader := newReader(r)
	reader.FieldsPerRecord = -1

	headers, err := readHeader(reader)
	if err != nil {
		return nil, log.Err("failed to import CSV", err, "establishmentID", req.EstablishmentID)
	}

	index := make(map[string]int, len(headers))
	for i, header := range headers {
		if _, seen := index[header]; !seen {
			index[header] = i
		}
	}

	start := time.Now()
	result := &ImportResult{Errors: []string{}}
	for row := 2; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %s", row, err))
			continue
		}
		if len(record) != len(headers) {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Row %d: expected %d fields, found %d", row, len(headers), len(record)))
			continue
		}

		create, err := ic.buildRequest(rowReader{index: index, record: record}, req)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %s", row, err))
			continue
		}

		if _, err := ic.incidents.Create(ctx, create); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %s", row, apperrors.Message(err)))
			continue
		}
		result.Imported++
	}

	ic.recorder.ImportRows(result.Imported, len(result.Errors))
	log.Info("CSV import finished",
		"establishmentID", req.EstablishmentID,
		"imported", result.Imported,
		"failed", len(result.Errors),
		"duration", time.Since(start),
	)

	return result, nil
}

func (ic *ImporterController) ImportFile(ctx context.Context, path string, req ImportRequest) (*ImportResult, error) {
	log := ic.log.Function("ImportFile")

	file, err := os.Open(path)
	if err != nil {
		return nil, log.Err("failed to open CSV", apperrors.Parse(err), "path", path)
	}
	defer file.Close()

	return ic.Import(ctx, file, req)
}
