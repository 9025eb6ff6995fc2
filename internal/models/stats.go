package models

// JobOverview aggregates job counts by status plus the running application
// total (the sum of applicationCount across jobs).
type JobOverview struct {
	TotalJobs         int `json:"totalJobs"`
	ActiveJobs        int `json:"activeJobs"`
	InactiveJobs      int `json:"inactiveJobs"`
	ClosedJobs        int `json:"closedJobs"`
	TotalApplications int `json:"totalApplications"`
}

// TypeCount is a job count for a single employment type.
type TypeCount struct {
	Type  JobType `json:"type"`
	Count int     `json:"count"`
}

// StatusCount is an application count for a single review status.
type StatusCount struct {
	Status ApplicationStatus `json:"status"`
	Count  int               `json:"count"`
}

// CompanyCount ranks a company by number of active postings.
type CompanyCount struct {
	Company          string `json:"company"`
	JobCount         int    `json:"jobCount"`
	ApplicationCount int    `json:"applicationCount"`
}

// JobStats is the public statistics payload.
type JobStats struct {
	Overview JobOverview `json:"overview"`
	JobTypes []TypeCount `json:"jobTypes"`
}

// DashboardStats is the admin dashboard payload.
type DashboardStats struct {
	Overview             JobOverview    `json:"overview"`
	ApplicationsByStatus []StatusCount  `json:"applicationsByStatus"`
	RecentApplications   int            `json:"recentApplications"`
	JobTypes             []TypeCount    `json:"jobTypes"`
	TopCompanies         []CompanyCount `json:"topCompanies"`
}
