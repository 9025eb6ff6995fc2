package repository

import (
	"context"
	"fmt"

	"github.com/jonesrussell/gojobs/internal/models"
)

// Overview aggregates job counts by status and the running application total.
func (r *JobRepository) Overview(ctx context.Context) (*models.JobOverview, error) {
	var overview models.JobOverview
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'active'),
		       COUNT(*) FILTER (WHERE status = 'inactive'),
		       COUNT(*) FILTER (WHERE status = 'closed'),
		       COALESCE(SUM(application_count), 0)
		FROM jobs
	`).Scan(
		&overview.TotalJobs,
		&overview.ActiveJobs,
		&overview.InactiveJobs,
		&overview.ClosedJobs,
		&overview.TotalApplications,
	)
	if err != nil {
		return nil, fmt.Errorf("query job overview: %w", err)
	}
	return &overview, nil
}

// TypeCounts returns the number of active jobs per employment type.
func (r *JobRepository) TypeCounts(ctx context.Context) ([]models.TypeCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT type, COUNT(*)
		FROM jobs
		WHERE status = 'active'
		GROUP BY type
		ORDER BY type
	`)
	if err != nil {
		return nil, fmt.Errorf("query type counts: %w", err)
	}
	defer rows.Close()

	counts := make([]models.TypeCount, 0)
	for rows.Next() {
		var tc models.TypeCount
		if scanErr := rows.Scan(&tc.Type, &tc.Count); scanErr != nil {
			return nil, fmt.Errorf("scan type count: %w", scanErr)
		}
		counts = append(counts, tc)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate type counts: %w", rowsErr)
	}
	return counts, nil
}

// TopCompanies ranks companies by number of active postings.
func (r *JobRepository) TopCompanies(ctx context.Context, limit int) ([]models.CompanyCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT company, COUNT(*), COALESCE(SUM(application_count), 0)
		FROM jobs
		WHERE status = 'active'
		GROUP BY company
		ORDER BY COUNT(*) DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query top companies: %w", err)
	}
	defer rows.Close()

	companies := make([]models.CompanyCount, 0, limit)
	for rows.Next() {
		var cc models.CompanyCount
		if scanErr := rows.Scan(&cc.Company, &cc.JobCount, &cc.ApplicationCount); scanErr != nil {
			return nil, fmt.Errorf("scan company count: %w", scanErr)
		}
		companies = append(companies, cc)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate company counts: %w", rowsErr)
	}
	return companies, nil
}
