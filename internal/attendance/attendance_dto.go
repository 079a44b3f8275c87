package attendance

type RecordResponse struct {
	ID             string  `json:"id"`
	WorkerID       string  `json:"worker_id"`
	AttendanceDate string  `json:"attendance_date"`
	TimeIn         *string `json:"time_in,omitempty"`
	TimeOut        *string `json:"time_out,omitempty"`
	Status         string  `json:"status"`
	HoursWorked    string  `json:"hours_worked"`
	OvertimeHours  string  `json:"overtime_hours"`
	IsArchived     bool    `json:"is_archived"`
}
