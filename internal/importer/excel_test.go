package importer_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jonesrussell/gojobs/internal/importer"
	"github.com/jonesrussell/gojobs/internal/models"
)

func buildWorkbook(t *testing.T, header []string, rows [][]string) *bytes.Reader {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, name := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, cell, name))
	}

	for rowIdx, row := range rows {
		for colIdx, value := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, value))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return bytes.NewReader(buf.Bytes())
}

var jobHeader = []string{
	"Title", "Company", "Location", "Type", "Salary",
	"Description", "Requirements", "Benefits", "Status",
}

func TestParseJobs(t *testing.T) {
	reader := buildWorkbook(t, jobHeader, [][]string{
		{
			"Backend Engineer", "Acme", "Remote", "Full-time", "$100k",
			"Build APIs", "Go; SQL", "Health insurance", "active",
		},
		{
			"Designer", "Globex", "Toronto", "Contract", "",
			"", "", "", "",
		},
	})

	jobs, importErrors, err := importer.ParseJobs(reader)
	require.NoError(t, err)
	assert.Empty(t, importErrors)
	require.Len(t, jobs, 2)

	assert.Equal(t, "Backend Engineer", jobs[0].Title)
	assert.Equal(t, models.JobTypeFullTime, jobs[0].Type)
	assert.Equal(t, models.StringArray{"Go", "SQL"}, jobs[0].Requirements)
	assert.Equal(t, models.JobStatusActive, jobs[0].Status)

	assert.Equal(t, "Designer", jobs[1].Title)
	assert.Empty(t, jobs[1].Requirements)
}

func TestParseJobs_RowErrors(t *testing.T) {
	reader := buildWorkbook(t, jobHeader, [][]string{
		{"", "Acme", "Remote", "Full-time"},
		{"Engineer", "Acme", "Remote", "Freelance"},
		{"Engineer", "Acme", "Remote", "Full-time", strings.Repeat("x", 60)},
		{"Engineer", "Acme", "Remote", "Full-time", "$90k"},
	})

	jobs, importErrors, err := importer.ParseJobs(reader)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	require.Len(t, importErrors, 3)

	assert.Equal(t, 2, importErrors[0].Row)
	assert.Contains(t, importErrors[0].Error, "title is required")
	assert.Equal(t, 3, importErrors[1].Row)
	assert.Contains(t, importErrors[1].Error, "invalid type")
	assert.Equal(t, 4, importErrors[2].Row)
	assert.Contains(t, importErrors[2].Error, "salary exceeds")
}

func TestParseJobs_SkipsEmptyRows(t *testing.T) {
	reader := buildWorkbook(t, jobHeader, [][]string{
		{"Engineer", "Acme", "Remote", "Full-time"},
		{"", "", "", ""},
		{"Designer", "Globex", "Toronto", "Part-time"},
	})

	jobs, importErrors, err := importer.ParseJobs(reader)
	require.NoError(t, err)
	assert.Empty(t, importErrors)
	assert.Len(t, jobs, 2)
}

func TestParseJobs_MissingRequiredColumns(t *testing.T) {
	reader := buildWorkbook(t, []string{"Title", "Company"}, nil)

	_, _, err := importer.ParseJobs(reader)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required columns")
	assert.Contains(t, err.Error(), "Location")
	assert.Contains(t, err.Error(), "Type")
}

func TestParseJobs_NotAWorkbook(t *testing.T) {
	_, _, err := importer.ParseJobs(bytes.NewReader([]byte("not excel")))
	require.Error(t, err)
}
