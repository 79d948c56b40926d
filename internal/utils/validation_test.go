package utils

import (
	"path/filepath"
	"strings"
	"testing"

	"oshalog/internal/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		isValid bool
	}{
		{"leap day in leap year", "2024-02-29", true},
		{"leap day in common year", "2023-02-29", false},
		{"century leap year", "2000-02-29", true},
		{"century common year", "2100-02-29", false},
		{"month thirteen", "2024-13-01", false},
		{"month zero", "2024-00-10", false},
		{"slash separators", "2024/01/15", false},
		{"day thirty one in april", "2024-04-31", false},
		{"last day of april", "2024-04-30", true},
		{"year before range", "1969-12-31", false},
		{"year after range", "2101-01-01", false},
		{"short form", "2024-1-5", false},
		{"trailing characters", "2024-01-150", false},
		{"letters", "abcd-ef-gh", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDate(tt.input, "incident date")
			if tt.isValid {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestValidateNotEmpty(t *testing.T) {
	assert.NoError(t, ValidateNotEmpty("Jane", "employee name"))
	assert.ErrorIs(t, ValidateNotEmpty("   ", "employee name"), apperrors.ErrValidation)
	assert.ErrorIs(t, ValidateNotEmpty("", "employee name"), apperrors.ErrValidation)
}

func TestValidateLength(t *testing.T) {
	assert.NoError(t, ValidateLength(strings.Repeat("a", MaxNameLength), "name", MaxNameLength))
	assert.Error(t, ValidateLength(strings.Repeat("a", MaxNameLength+1), "name", MaxNameLength))
	assert.NoError(t, ValidateOptionalLength(nil, "name", 1))
}

func TestValidateRanges(t *testing.T) {
	days := func(v int) *int { return &v }
	hours := func(v int64) *int64 { return &v }

	tests := []struct {
		name    string
		err     error
		isValid bool
	}{
		{"days nil", ValidateDays(nil, "days away"), true},
		{"days zero", ValidateDays(days(0), "days away"), true},
		{"days at cap", ValidateDays(days(MaxOSHADays), "days away"), true},
		{"days over cap", ValidateDays(days(MaxOSHADays+1), "days away"), false},
		{"days negative", ValidateDays(days(-1), "days away"), false},
		{"year low", ValidateYear(1969), false},
		{"year ok", ValidateYear(2024), true},
		{"year high", ValidateYear(2101), false},
		{"employees ok", ValidateEmployeeCount(days(MaxEmployeeCount)), true},
		{"employees over", ValidateEmployeeCount(days(MaxEmployeeCount + 1)), false},
		{"employees negative", ValidateEmployeeCount(days(-5)), false},
		{"hours ok", ValidateHours(hours(MaxHoursWorked)), true},
		{"hours over", ValidateHours(hours(MaxHoursWorked + 1)), false},
		{"hours negative", ValidateHours(hours(-1)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.isValid {
				assert.NoError(t, tt.err)
			} else {
				assert.ErrorIs(t, tt.err, apperrors.ErrValidation)
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"report.pdf", "report.pdf"},
		{"../../etc/passwd", "etcpasswd"},
		{`C:\Windows\system32`, "CWindowssystem32"},
		{"what?<is>|this*", "whatisthis"},
		{"  spaced name.txt  ", "spaced name.txt"},
		{"OSHA_300_Acme \"Plant\"_2024", "OSHA_300_Acme Plant_2024"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}

	long := SanitizeFilename(strings.Repeat("é", 300))
	assert.Equal(t, MaxNameLength, len([]rune(long)))
}

func TestSafeExportPath(t *testing.T) {
	dir := t.TempDir()

	path, err := SafeExportPath(dir, "OSHA_300_Acme/../../x_2024", ".csv")
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Equal(t, "OSHA_300_Acmex_2024.csv", filepath.Base(path))

	_, err = SafeExportPath(dir, "../..", "csv")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
