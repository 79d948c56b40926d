package utils

import (
	"path/filepath"
	"strconv"
	"strings"

	"oshalog/internal/apperrors"
)

const (
	MaxNameLength        = 255
	MaxDescriptionLength = 5000
	MaxOSHADays          = 180
	MinYear              = 1970
	MaxYear              = 2100
	MaxEmployeeCount     = 1_000_000
	MaxHoursWorked       = 2_100_000_000
)

func ValidateNotEmpty(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return apperrors.Validation("%s cannot be empty", field)
	}
	return nil
}

func ValidateLength(value, field string, max int) error {
	if len(value) > max {
		return apperrors.Validation("%s exceeds maximum length of %d characters", field, max)
	}
	return nil
}

// ValidateOptionalLength is ValidateLength for nullable columns.
func ValidateOptionalLength(value *string, field string, max int) error {
	if value == nil {
		return nil
	}
	return ValidateLength(*value, field, max)
}

// ValidateDate accepts only YYYY-MM-DD with a real calendar day.
func ValidateDate(value, field string) error {
	if len(value) != 10 {
		return apperrors.Validation("%s must be in YYYY-MM-DD format", field)
	}

	parts := strings.Split(value, "-")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return apperrors.Validation("%s must be in YYYY-MM-DD format", field)
	}

	year, errY := strconv.Atoi(parts[0])
	month, errM := strconv.Atoi(parts[1])
	day, errD := strconv.Atoi(parts[2])
	if errY != nil || errM != nil || errD != nil {
		return apperrors.Validation("%s must be in YYYY-MM-DD format", field)
	}

	if year < MinYear || year > MaxYear {
		return apperrors.Validation("%s year must be between %d and %d", field, MinYear, MaxYear)
	}
	if month < 1 || month > 12 {
		return apperrors.Validation("%s month must be between 1 and 12", field)
	}
	if day < 1 || day > daysInMonth(year, month) {
		return apperrors.Validation("%s has an invalid day for the month", field)
	}

	return nil
}

func ValidateOptionalDate(value *string, field string) error {
	if value == nil || *value == "" {
		return nil
	}
	return ValidateDate(*value, field)
}

func daysInMonth(year, month int) int {
	switch month {
	case 2:
		if isLeapYear(year) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}

func isLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

func ValidateDays(days *int, field string) error {
	if days == nil {
		return nil
	}
	if *days < 0 || *days > MaxOSHADays {
		return apperrors.Validation("%s must be between 0 and %d", field, MaxOSHADays)
	}
	return nil
}

func ValidateYear(year int) error {
	if year < MinYear || year > MaxYear {
		return apperrors.Validation("year must be between %d and %d", MinYear, MaxYear)
	}
	return nil
}

func ValidateEmployeeCount(count *int) error {
	if count == nil {
		return nil
	}
	if *count < 0 || *count > MaxEmployeeCount {
		return apperrors.Validation("average employees must be between 0 and %d", MaxEmployeeCount)
	}
	return nil
}

func ValidateHours(hours *int64) error {
	if hours == nil {
		return nil
	}
	if *hours < 0 || *hours > MaxHoursWorked {
		return apperrors.Validation("total hours worked must be between 0 and %d", MaxHoursWorked)
	}
	return nil
}

// SanitizeFilename strips path separators, reserved characters and ".."
// so the result can only name a file inside the directory it is joined to.
func SanitizeFilename(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0, ':', '*', '?', '"', '<', '>', '|':
			return -1
		}
		return r
	}, name)

	if runes := []rune(cleaned); len(runes) > MaxNameLength {
		cleaned = string(runes[:MaxNameLength])
	}

	cleaned = strings.ReplaceAll(cleaned, "..", "")
	return strings.TrimSpace(cleaned)
}

// SafeExportPath resolves base+ext inside dir after sanitizing base.
func SafeExportPath(dir, base, ext string) (string, error) {
	safe := SanitizeFilename(base)
	if safe == "" {
		return "", apperrors.Validation("export file name is empty after sanitization")
	}

	ext = strings.TrimPrefix(SanitizeFilename(ext), ".")
	if ext != "" {
		safe = safe + "." + ext
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", apperrors.Storage(err)
	}

	path := filepath.Join(absDir, safe)
	if filepath.Dir(path) != absDir {
		return "", apperrors.Validation("export path escapes export directory")
	}

	return path, nil
}
