package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		name       string
		page       string
		limit      string
		wantNumber int
		wantLimit  int
	}{
		{"defaults", "", "", 1, 10},
		{"explicit", "3", "25", 3, 25},
		{"zero coerced", "0", "0", 1, 10},
		{"negative coerced", "-2", "-5", 1, 10},
		{"garbage coerced", "abc", "xyz", 1, 10},
		{"limit capped", "1", "5000", 1, MaxLimit},
		{"whitespace tolerated", " 2 ", " 20 ", 2, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ParsePage(tt.page, tt.limit)
			assert.Equal(t, tt.wantNumber, p.Number)
			assert.Equal(t, tt.wantLimit, p.Limit)
		})
	}
}

func TestPage_Offset(t *testing.T) {
	assert.Equal(t, 0, Page{Number: 1, Limit: 10}.Offset())
	assert.Equal(t, 40, Page{Number: 5, Limit: 10}.Offset())
	assert.Equal(t, 50, Page{Number: 3, Limit: 25}.Offset())
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int
		limit int
		want  int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{100, 7, 15},
		{5, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.total, tt.limit),
			"TotalPages(%d, %d)", tt.total, tt.limit)
	}
}

func TestParseSort(t *testing.T) {
	s := ParseSort("title", "asc", JobSortColumns, "created_at")
	assert.Equal(t, Sort{Column: "title", Order: "ASC"}, s)

	// Unknown fields fall back to the default column.
	s = ParseSort("'; DROP TABLE jobs;--", "desc", JobSortColumns, "created_at")
	assert.Equal(t, Sort{Column: "created_at", Order: "DESC"}, s)

	// Order defaults to descending for anything but asc.
	s = ParseSort("company", "sideways", JobSortColumns, "created_at")
	assert.Equal(t, "DESC", s.Order)

	// Application field names map to their columns.
	s = ParseSort("appliedAt", "desc", ApplicationSortColumns, "created_at")
	assert.Equal(t, "created_at", s.Column)
}

func TestSort_OrderClause(t *testing.T) {
	s := Sort{Column: "created_at", Order: "DESC"}
	assert.Equal(t, " ORDER BY created_at DESC", s.OrderClause())
}

func TestJobFilter_Where_Empty(t *testing.T) {
	clause, args := JobFilter{}.Where()
	assert.Empty(t, clause)
	assert.Empty(t, args)
}

func TestJobFilter_Where_Search(t *testing.T) {
	clause, args := JobFilter{Search: "engineer"}.Where()
	assert.Equal(t, " AND (title ILIKE $1 OR company ILIKE $1 OR location ILIKE $1)", clause)
	assert.Equal(t, []any{"%engineer%"}, args)

	clause, _ = JobFilter{Search: "engineer", SearchDescription: true}.Where()
	assert.Contains(t, clause, "description ILIKE $1")
}

func TestJobFilter_Where_Composition(t *testing.T) {
	f := JobFilter{
		Search:   "backend",
		Status:   "active",
		Type:     "Contract",
		Location: "NY",
		Company:  "Acme",
	}
	clause, args := f.Where()

	assert.Equal(t,
		" AND (title ILIKE $1 OR company ILIKE $1 OR location ILIKE $1)"+
			" AND status = $2 AND type = $3 AND location ILIKE $4 AND company ILIKE $5",
		clause)
	assert.Equal(t, []any{"%backend%", "active", "Contract", "%NY%", "%Acme%"}, args)
}

func TestApplicationFilter_Where(t *testing.T) {
	clause, args := ApplicationFilter{}.Where()
	assert.Empty(t, clause)
	assert.Empty(t, args)

	f := ApplicationFilter{JobID: "job-1", Status: "pending", Search: "jane"}
	clause, args = f.Where()
	assert.Equal(t,
		" AND job_id = $1 AND status = $2 AND (applicant_name ILIKE $3 OR email ILIKE $3)",
		clause)
	assert.Equal(t, []any{"job-1", "pending", "%jane%"}, args)
}
