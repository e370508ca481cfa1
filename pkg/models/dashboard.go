package models

// DashboardSummary is the aggregate view shown on the admin dashboard.
type DashboardSummary struct {
	TotalJobs          int            `json:"total_jobs"`
	OpenJobs           int            `json:"open_jobs"`
	TotalInterviews    int            `json:"total_interviews"`
	InterviewsByStatus map[string]int `json:"interviews_by_status"`
	AverageScore       *float64       `json:"average_score,omitempty"`
}
