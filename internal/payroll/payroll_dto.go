package payroll

import "time"

type GeneratePayrollRequest struct {
	PeriodStart string `json:"period_start" binding:"required"`
	PeriodEnd   string `json:"period_end" binding:"required"`
}

type MarkPaidRequest struct {
	WorkerID    string `json:"worker_id" binding:"required"`
	PeriodStart string `json:"period_start" binding:"required"`
	PeriodEnd   string `json:"period_end" binding:"required"`
}

type PreviewResponse struct {
	WorkerID        string `json:"worker_id"`
	PeriodStart     string `json:"period_start"`
	PeriodEnd       string `json:"period_end"`
	DaysWorked      int    `json:"days_worked"`
	TotalHours      string `json:"total_hours"`
	OvertimeHours   string `json:"overtime_hours"`
	HourlyRate      string `json:"hourly_rate"`
	GrossPay        string `json:"gross_pay"`
	TotalDeductions string `json:"total_deductions"`
	NetPay          string `json:"net_pay"`
	PaymentStatus   string `json:"payment_status"`
}

type PayrollResponse struct {
	ID              string  `json:"id"`
	WorkerID        string  `json:"worker_id"`
	PeriodStart     string  `json:"period_start"`
	PeriodEnd       string  `json:"period_end"`
	BatchRef        string  `json:"batch_ref"`
	DaysWorked      int     `json:"days_worked"`
	TotalHours      string  `json:"total_hours"`
	OvertimeHours   string  `json:"overtime_hours"`
	HourlyRate      string  `json:"hourly_rate"`
	GrossPay        string  `json:"gross_pay"`
	TotalDeductions string  `json:"total_deductions"`
	NetPay          string  `json:"net_pay"`
	PaymentStatus   string  `json:"payment_status"`
	PaymentDate     *string `json:"payment_date,omitempty"`
	IsArchived      bool    `json:"is_archived"`
}

type GenerateResultResponse struct {
	BatchRef string `json:"batch_ref"`
	Created  int    `json:"created"`
	Updated  int    `json:"updated"`
	Skipped  int    `json:"skipped"`
	Failed   int    `json:"failed"`
}

func mapToResponse(rec PayrollRecord) PayrollResponse {
	resp := PayrollResponse{
		ID:              rec.ID.String(),
		WorkerID:        rec.WorkerID.String(),
		PeriodStart:     rec.PeriodStart.Format("2006-01-02"),
		PeriodEnd:       rec.PeriodEnd.Format("2006-01-02"),
		BatchRef:        rec.BatchRef,
		DaysWorked:      rec.DaysWorked,
		TotalHours:      rec.TotalHours.StringFixed(2),
		OvertimeHours:   rec.OvertimeHours.StringFixed(2),
		HourlyRate:      rec.HourlyRate.StringFixed(4),
		GrossPay:        rec.GrossPay.StringFixed(2),
		TotalDeductions: rec.TotalDeductions.StringFixed(2),
		NetPay:          rec.NetPay.StringFixed(2),
		PaymentStatus:   rec.PaymentStatus,
		IsArchived:      rec.IsArchived,
	}
	if rec.PaymentDate != nil {
		v := rec.PaymentDate.Format(time.RFC3339)
		resp.PaymentDate = &v
	}
	return resp
}

func mapToListResponse(rows []PayrollRecord) []PayrollResponse {
	resp := make([]PayrollResponse, len(rows))
	for i, rec := range rows {
		resp[i] = mapToResponse(rec)
	}
	return resp
}
