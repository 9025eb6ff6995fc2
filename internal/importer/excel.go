// Package importer parses Excel workbooks of job postings for bulk upload.
package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jonesrussell/gojobs/internal/models"
)

const (
	maxTitleLen       = 100
	maxCompanyLen     = 50
	maxLocationLen    = 100
	maxSalaryLen      = 50
	maxDescriptionLen = 2000
	maxListItemLen    = 200

	// listSeparator splits the Requirements and Benefits cells.
	listSeparator = ";"
)

// ImportError reports a validation failure for one spreadsheet row.
type ImportError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// columnMap holds the 0-based index of each recognized header, -1 when the
// column is absent.
type columnMap struct {
	title        int
	company      int
	location     int
	jobType      int
	salary       int
	description  int
	requirements int
	benefits     int
	status       int
}

// ParseJobs reads an Excel workbook and returns the valid job rows plus
// per-row errors for the rest. The first sheet is used; row 1 must be a
// header row naming at least Title, Company, Location and Type.
func ParseJobs(r io.Reader) ([]*models.Job, []ImportError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	cols := mapColumns(rows[0])
	if err := validateRequiredColumns(cols); err != nil {
		return nil, nil, err
	}

	jobs := make([]*models.Job, 0, len(rows)-1)
	importErrors := make([]ImportError, 0)

	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after the header
		if rowIsEmpty(row) {
			continue
		}

		job, rowErr := parseRow(row, cols)
		if rowErr != "" {
			importErrors = append(importErrors, ImportError{Row: rowNum, Error: rowErr})
			continue
		}
		jobs = append(jobs, job)
	}

	return jobs, importErrors, nil
}

func mapColumns(header []string) columnMap {
	cols := columnMap{
		title: -1, company: -1, location: -1, jobType: -1, salary: -1,
		description: -1, requirements: -1, benefits: -1, status: -1,
	}

	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "title":
			cols.title = i
		case "company":
			cols.company = i
		case "location":
			cols.location = i
		case "type":
			cols.jobType = i
		case "salary":
			cols.salary = i
		case "description":
			cols.description = i
		case "requirements":
			cols.requirements = i
		case "benefits":
			cols.benefits = i
		case "status":
			cols.status = i
		}
	}

	return cols
}

func validateRequiredColumns(cols columnMap) error {
	missing := make([]string, 0)
	if cols.title < 0 {
		missing = append(missing, "Title")
	}
	if cols.company < 0 {
		missing = append(missing, "Company")
	}
	if cols.location < 0 {
		missing = append(missing, "Location")
	}
	if cols.jobType < 0 {
		missing = append(missing, "Type")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

func rowIsEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// parseRow builds a job from one data row, returning an error message when
// the row fails validation.
func parseRow(row []string, cols columnMap) (*models.Job, string) {
	job := &models.Job{
		Title:        cell(row, cols.title),
		Company:      cell(row, cols.company),
		Location:     cell(row, cols.location),
		Type:         models.JobType(cell(row, cols.jobType)),
		Salary:       cell(row, cols.salary),
		Description:  cell(row, cols.description),
		Requirements: splitList(cell(row, cols.requirements)),
		Benefits:     splitList(cell(row, cols.benefits)),
	}

	if status := cell(row, cols.status); status != "" {
		job.Status = models.JobStatus(status)
		if !job.Status.Valid() {
			return nil, fmt.Sprintf("invalid status %q", status)
		}
	}

	switch {
	case job.Title == "":
		return nil, "title is required"
	case len(job.Title) > maxTitleLen:
		return nil, fmt.Sprintf("title exceeds %d characters", maxTitleLen)
	case job.Company == "":
		return nil, "company is required"
	case len(job.Company) > maxCompanyLen:
		return nil, fmt.Sprintf("company exceeds %d characters", maxCompanyLen)
	case job.Location == "":
		return nil, "location is required"
	case len(job.Location) > maxLocationLen:
		return nil, fmt.Sprintf("location exceeds %d characters", maxLocationLen)
	case !job.Type.Valid():
		return nil, fmt.Sprintf("invalid type %q", string(job.Type))
	case len(job.Salary) > maxSalaryLen:
		return nil, fmt.Sprintf("salary exceeds %d characters", maxSalaryLen)
	case len(job.Description) > maxDescriptionLen:
		return nil, fmt.Sprintf("description exceeds %d characters", maxDescriptionLen)
	}

	for _, item := range append(append(models.StringArray{}, job.Requirements...), job.Benefits...) {
		if len(item) > maxListItemLen {
			return nil, fmt.Sprintf("list item exceeds %d characters", maxListItemLen)
		}
	}

	return job, ""
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// splitList turns a semicolon-separated cell into a list, dropping empty
// entries.
func splitList(raw string) models.StringArray {
	if raw == "" {
		return models.StringArray{}
	}

	parts := strings.Split(raw, listSeparator)
	out := make(models.StringArray, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
