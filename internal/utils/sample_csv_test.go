package utils

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSampleIncidentCSV(t *testing.T) {
	var first, second bytes.Buffer
	config := SampleCSVConfig{Rows: 25, Year: 2024, Seed: 7}

	require.NoError(t, WriteSampleIncidentCSV(&first, config))
	require.NoError(t, WriteSampleIncidentCSV(&second, config))
	assert.Equal(t, first.String(), second.String(), "same seed must give the same file")

	records, err := csv.NewReader(&first).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 26)
	assert.Equal(t, SampleCSVHeaders, records[0])

	validator := NewDateValidator()
	for _, record := range records[1:] {
		assert.NotEmpty(t, record[0])
		date, ok := validator.Normalize(record[2])
		assert.True(t, ok, record[2])
		assert.Equal(t, "2024", date[:4])
	}
}

func TestWriteSampleIncidentCSV_InvalidConfig(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteSampleIncidentCSV(&buf, SampleCSVConfig{Rows: -1, Year: 2024}))
	assert.Error(t, WriteSampleIncidentCSV(&buf, SampleCSVConfig{Rows: 1, Year: 1900}))
}
