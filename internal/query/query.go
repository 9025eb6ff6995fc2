// Package query translates request parameters into parameterized SQL
// predicates, validated sort directives, and pagination for the job and
// application collections.
package query

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultPage is used when the page parameter is missing or not a
	// positive integer.
	DefaultPage = 1
	// DefaultLimit is used when the limit parameter is missing or not a
	// positive integer.
	DefaultLimit = 10
	// MaxLimit caps the page size a client can request.
	MaxLimit = 100
)

// Page is a coerced pagination directive. Number and Limit are always
// positive.
type Page struct {
	Number int
	Limit  int
}

// ParsePage coerces raw page/limit parameters to positive integers, applying
// defaults for anything missing or malformed.
func ParsePage(pageParam, limitParam string) Page {
	p := Page{Number: DefaultPage, Limit: DefaultLimit}

	if n, err := strconv.Atoi(strings.TrimSpace(pageParam)); err == nil && n > 0 {
		p.Number = n
	}
	if n, err := strconv.Atoi(strings.TrimSpace(limitParam)); err == nil && n > 0 {
		p.Limit = n
		if p.Limit > MaxLimit {
			p.Limit = MaxLimit
		}
	}
	return p
}

// Offset returns the row offset for the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// TotalPages returns ceil(total/limit). A zero total yields zero pages;
// requesting a page beyond the last yields an empty result, not an error.
func TotalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// Sort is a validated sort directive. Column is a real database column and
// Order is "ASC" or "DESC".
type Sort struct {
	Column string
	Order  string
}

// JobSortColumns is the allowlist of sortable job fields, keyed by the API
// parameter name.
var JobSortColumns = map[string]string{
	"createdAt":        "created_at",
	"updatedAt":        "updated_at",
	"title":            "title",
	"company":          "company",
	"location":         "location",
	"type":             "type",
	"status":           "status",
	"salary":           "salary",
	"applicationCount": "application_count",
}

// ApplicationSortColumns is the allowlist of sortable application fields.
var ApplicationSortColumns = map[string]string{
	"appliedAt":     "created_at",
	"createdAt":     "created_at",
	"applicantName": "applicant_name",
	"email":         "email",
	"status":        "status",
	"jobTitle":      "job_title",
	"company":       "company",
}

// ParseSort resolves sortBy against an allowlist, falling back to the default
// column for unknown fields. sortOrder defaults to descending.
func ParseSort(sortBy, sortOrder string, allowed map[string]string, defaultColumn string) Sort {
	column, ok := allowed[sortBy]
	if !ok {
		column = defaultColumn
	}

	order := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		order = "ASC"
	}
	return Sort{Column: column, Order: order}
}

// OrderClause renders the sort as an ORDER BY fragment. Column comes from an
// allowlist, never from raw input.
func (s Sort) OrderClause() string {
	return fmt.Sprintf(" ORDER BY %s %s", s.Column, s.Order)
}

// JobFilter holds the optional filters for job listings. An empty filter
// matches the whole collection. Status is forced to "active" for the public
// listing by the handler.
type JobFilter struct {
	Search            string
	SearchDescription bool
	Status            string
	Type              string
	Location          string
	Company           string
}

// Where builds the filter's WHERE fragment. The returned clause is either
// empty or starts with " AND ", for appending to a "WHERE 1=1" query; args
// are the matching positional parameters starting at $1.
func (f JobFilter) Where() (whereClause string, args []any) {
	var clauses []string
	args = make([]any, 0)
	pos := 1

	if f.Search != "" {
		fields := []string{"title", "company", "location"}
		if f.SearchDescription {
			fields = append(fields, "description")
		}
		ors := make([]string, len(fields))
		for i, field := range fields {
			ors[i] = fmt.Sprintf("%s ILIKE $%d", field, pos)
		}
		clauses = append(clauses, "("+strings.Join(ors, " OR ")+")")
		args = append(args, "%"+f.Search+"%")
		pos++
	}
	if f.Status != "" {
		clauses = append(clauses, fmt.Sprintf("status = $%d", pos))
		args = append(args, f.Status)
		pos++
	}
	if f.Type != "" {
		clauses = append(clauses, fmt.Sprintf("type = $%d", pos))
		args = append(args, f.Type)
		pos++
	}
	if f.Location != "" {
		clauses = append(clauses, fmt.Sprintf("location ILIKE $%d", pos))
		args = append(args, "%"+f.Location+"%")
		pos++
	}
	if f.Company != "" {
		clauses = append(clauses, fmt.Sprintf("company ILIKE $%d", pos))
		args = append(args, "%"+f.Company+"%")
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " AND " + strings.Join(clauses, " AND "), args
}

// ApplicationFilter holds the optional filters for application listings.
type ApplicationFilter struct {
	JobID  string
	Status string
	Search string
}

// Where builds the filter's WHERE fragment, same contract as JobFilter.Where.
func (f ApplicationFilter) Where() (whereClause string, args []any) {
	var clauses []string
	args = make([]any, 0)
	pos := 1

	if f.JobID != "" {
		clauses = append(clauses, fmt.Sprintf("job_id = $%d", pos))
		args = append(args, f.JobID)
		pos++
	}
	if f.Status != "" {
		clauses = append(clauses, fmt.Sprintf("status = $%d", pos))
		args = append(args, f.Status)
		pos++
	}
	if f.Search != "" {
		clauses = append(clauses, fmt.Sprintf("(applicant_name ILIKE $%d OR email ILIKE $%d)", pos, pos))
		args = append(args, "%"+f.Search+"%")
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " AND " + strings.Join(clauses, " AND "), args
}
