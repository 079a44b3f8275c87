package crew

type WorkerResponse struct {
	ID               string `json:"id"`
	FullName         string `json:"full_name"`
	Position         string `json:"position,omitempty"`
	DailyRate        string `json:"daily_rate"`
	EmploymentStatus string `json:"employment_status"`
	IsArchived       bool   `json:"is_archived"`
}
