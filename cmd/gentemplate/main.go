// Command gentemplate generates the Excel import template for job postings.
// Usage: go run cmd/gentemplate/main.go
package main

import (
	"log"
	"os"

	"github.com/xuri/excelize/v2"
)

func main() {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", "Jobs"); err != nil {
		log.Fatal(err)
	}

	headers := []string{
		"Title", "Company", "Location", "Type", "Salary",
		"Description", "Requirements", "Benefits", "Status",
	}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			log.Fatal(err)
		}
		if err := f.SetCellValue("Jobs", cell, h); err != nil {
			log.Fatal(err)
		}
	}

	rows := [][]string{
		{
			"Backend Engineer",
			"Acme",
			"Remote",
			"Full-time",
			"$100k - $130k",
			"Build and operate our public APIs.",
			"Go; PostgreSQL; 3+ years experience",
			"Health insurance; Remote work",
			"active",
		},
		{
			"Marketing Intern",
			"Globex",
			"Toronto, ON",
			"Internship",
			"",
			"",
			"",
			"",
			"inactive",
		},
	}
	for rowIdx, row := range rows {
		for colIdx, v := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				log.Fatal(err)
			}
			if err := f.SetCellValue("Jobs", cell, v); err != nil {
				log.Fatal(err)
			}
		}
	}

	if _, err := f.NewSheet("Instructions"); err != nil {
		log.Fatal(err)
	}
	instructions := []string{
		"Column Descriptions:",
		"",
		"Title - Required. Up to 100 characters",
		"Company - Required. Up to 50 characters",
		"Location - Required. Up to 100 characters",
		"Type - Required. One of: Full-time, Part-time, Contract, Internship",
		"Salary - Optional. Free text up to 50 characters",
		"Description - Optional. Up to 2000 characters",
		"Requirements - Optional. Semicolon-separated list, each item up to 200 characters",
		"Benefits - Optional. Semicolon-separated list, each item up to 200 characters",
		"Status - Optional. One of: active, inactive, closed (default: active)",
	}
	for i, line := range instructions {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			log.Fatal(err)
		}
		if err := f.SetCellValue("Instructions", cell, line); err != nil {
			log.Fatal(err)
		}
	}

	if err := os.MkdirAll("examples", 0o755); err != nil {
		log.Fatal(err)
	}

	if err := f.SaveAs("examples/job-import-template.xlsx"); err != nil {
		log.Fatal(err)
	}
	log.Println("Created examples/job-import-template.xlsx")
}
