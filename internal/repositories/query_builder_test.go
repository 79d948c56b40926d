package repositories

import (
	"testing"
	"time"

	. "oshalog/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestContainsPattern(t *testing.T) {
	tests := []struct {
		term     string
		expected string
	}{
		{"Jane", "%jane%"},
		{"50%", `%50\%%`},
		{"a_b", `%a\_b%`},
		{`back\slash`, `%back\\slash%`},
		{"Émile", "%émile%"},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			assert.Equal(t, tt.expected, containsPattern(tt.term))
		})
	}
}

func TestQueryBuilder_Render(t *testing.T) {
	q := &queryBuilder{}
	clause, args := q.render()
	assert.Equal(t, "1 = 1", clause)
	assert.Empty(t, args)

	q.where("establishment_id = ?", 3).where("incident_date >= ?", "2024-01-01")
	clause, args = q.render()
	assert.Equal(t, "establishment_id = ? AND incident_date >= ?", clause)
	assert.Equal(t, []any{3, "2024-01-01"}, args)
}

func TestPatchBuilder(t *testing.T) {
	name := "Jane"
	other := "John"
	current := 4

	p := newPatchBuilder()
	patchValue(p, "employee_name", &name, "Jane")
	patchOptional(p, "employee_city", nil, &other)
	patchNullable(p, "days_away_count", Nullable[int]{}, &current)
	assert.True(t, p.empty())

	patchValue(p, "employee_name", &other, "Jane")
	patchOptional(p, "employee_job_title", &name, nil)
	patchNullable(p, "days_away_count", Null[int](), &current)
	patchNullable(p, "days_restricted_count", Some(2), nil)

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, map[string]any{
		"employee_name":         "John",
		"employee_job_title":    "Jane",
		"days_away_count":       nil,
		"days_restricted_count": 2,
		"updated_at":            at,
	}, p.assignments(at))
	assert.Equal(t, []string{"employee_name", "employee_job_title", "days_away_count", "days_restricted_count"}, p.columns)
}
