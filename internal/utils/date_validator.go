package utils

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

type DateFormat string

const (
	FormatISO8601Date DateFormat = "2006-01-02"
	FormatISO8601     DateFormat = "2006-01-02T15:04:05Z07:00"
	FormatRFC3339     DateFormat = "2006-01-02T15:04:05Z"
	FormatUSDate      DateFormat = "01/02/2006"
	FormatUSDateTime  DateFormat = "01/02/2006 15:04:05"
	FormatSlashISO    DateFormat = "2006/01/02"
	FormatDotDate     DateFormat = "02.01.2006"
	FormatMonthDay    DateFormat = "January 2, 2006"
	FormatShortMonth  DateFormat = "Jan 2, 2006"
)

var usDatePattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})`)

// DateValidator normalizes the date spellings found in spreadsheets exported
// by other systems to the YYYY-MM-DD form stored on incidents. Day-first
// slash dates are not accepted because they cannot be told apart from US
// dates.
type DateValidator struct {
	supportedFormats []DateFormat
	standardFormat   DateFormat
}

type ValidationResult struct {
	IsValid        bool
	DetectedFormat DateFormat
	ParsedTime     time.Time
	StandardFormat string
	OriginalValue  string
}

func NewDateValidator() *DateValidator {
	return &DateValidator{
		supportedFormats: []DateFormat{
			FormatISO8601Date,
			FormatISO8601,
			FormatRFC3339,
			FormatUSDate,
			FormatUSDateTime,
			FormatSlashISO,
			FormatDotDate,
			FormatMonthDay,
			FormatShortMonth,
		},
		standardFormat: FormatISO8601Date,
	}
}

func (dv *DateValidator) ValidateAndConvert(input string) ValidationResult {
	result := ValidationResult{
		IsValid:       false,
		OriginalValue: input,
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return result
	}

	for _, format := range dv.supportedFormats {
		parsedTime, err := time.Parse(string(format), input)
		if err != nil || !dv.isValidForFormat(input, format) {
			continue
		}
		result.DetectedFormat = format
		result.ParsedTime = parsedTime
		result.StandardFormat = parsedTime.Format(string(dv.standardFormat))
		result.IsValid = ValidateDate(result.StandardFormat, "date") == nil
		return result
	}

	if parsedTime, format := dv.tryFlexibleParsing(input); !parsedTime.IsZero() {
		result.DetectedFormat = format
		result.ParsedTime = parsedTime
		result.StandardFormat = parsedTime.Format(string(dv.standardFormat))
		result.IsValid = ValidateDate(result.StandardFormat, "date") == nil
	}

	return result
}

// Normalize returns input as YYYY-MM-DD, or false when no supported format
// matches.
func (dv *DateValidator) Normalize(input string) (string, bool) {
	result := dv.ValidateAndConvert(input)
	return result.StandardFormat, result.IsValid
}

func (dv *DateValidator) isValidForFormat(input string, format DateFormat) bool {
	switch format {
	case FormatUSDate, FormatUSDateTime:
		return dv.validateUSDateFormat(input)
	default:
		return true
	}
}

func (dv *DateValidator) validateUSDateFormat(input string) bool {
	matches := usDatePattern.FindStringSubmatch(input)
	if len(matches) < 4 {
		return false
	}

	month, _ := strconv.Atoi(matches[1])
	day, _ := strconv.Atoi(matches[2])

	return month >= 1 && month <= 12 && day >= 1 && day <= 31
}

func (dv *DateValidator) tryFlexibleParsing(input string) (time.Time, DateFormat) {
	flexibleFormats := []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006/01/02 15:04:05",
		"1/2/2006",
		"1/2/06",
		"01/02/2006 15:04",
		"Jan 02, 2006 15:04:05",
		"January 02, 2006 15:04:05",
	}

	for _, format := range flexibleFormats {
		if parsedTime, err := time.Parse(format, input); err == nil {
			return parsedTime, DateFormat(format)
		}
	}

	return time.Time{}, ""
}

func (dv *DateValidator) GetSupportedFormats() []DateFormat {
	return dv.supportedFormats
}
