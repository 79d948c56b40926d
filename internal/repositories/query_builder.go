package repositories

import (
	"strings"
	"time"

	. "oshalog/internal/models"

	"gorm.io/gorm"
)

// queryBuilder accumulates conjunctive predicates. Clause text only ever
// comes from this package; caller values travel as bound arguments.
type queryBuilder struct {
	clauses []string
	args    []any
}

func (q *queryBuilder) where(clause string, args ...any) *queryBuilder {
	q.clauses = append(q.clauses, clause)
	q.args = append(q.args, args...)
	return q
}

func (q *queryBuilder) render() (string, []any) {
	if len(q.clauses) == 0 {
		return "1 = 1", nil
	}
	return strings.Join(q.clauses, " AND "), q.args
}

func (q *queryBuilder) apply(db *gorm.DB) *gorm.DB {
	clause, args := q.render()
	return db.Where(clause, args...)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

// patchBuilder collects the columns that actually change.
type patchBuilder struct {
	columns []string
	values  map[string]any
}

func newPatchBuilder() *patchBuilder {
	return &patchBuilder{values: map[string]any{}}
}

func (p *patchBuilder) set(column string, value any) {
	if _, exists := p.values[column]; !exists {
		p.columns = append(p.columns, column)
	}
	p.values[column] = value
}

func (p *patchBuilder) empty() bool {
	return len(p.columns) == 0
}

func (p *patchBuilder) assignments(updatedAt time.Time) map[string]any {
	out := make(map[string]any, len(p.values)+1)
	for column, value := range p.values {
		out[column] = value
	}
	out["updated_at"] = updatedAt
	return out
}

// patchValue handles NOT NULL columns.
func patchValue[T comparable](p *patchBuilder, column string, next *T, current T) {
	if next != nil && *next != current {
		p.set(column, *next)
	}
}

// patchOptional handles nullable columns that a patch can set but not clear.
func patchOptional[T comparable](p *patchBuilder, column string, next *T, current *T) {
	if next == nil {
		return
	}
	if current == nil || *current != *next {
		p.set(column, *next)
	}
}

// patchNullable handles nullable columns with explicit clear support.
func patchNullable[T comparable](p *patchBuilder, column string, next Nullable[T], current *T) {
	switch {
	case !next.Set:
	case next.Null:
		if current != nil {
			p.set(column, nil)
		}
	case current == nil || *current != next.Value:
		p.set(column, next.Value)
	}
}
