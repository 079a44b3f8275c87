package cashadvance

import (
	"time"

	"github.com/shopspring/decimal"
)

type RequestAdvanceRequest struct {
	WorkerID string          `json:"worker_id" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Reason   string          `json:"reason" binding:"required"`
}

type ApproveAdvanceRequest struct {
	Installments int `json:"installments" binding:"required"`
}

type RejectAdvanceRequest struct {
	Notes string `json:"notes" binding:"required"`
}

type RecordPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod string          `json:"payment_method" binding:"required"`
	PaymentDate   string          `json:"payment_date"`
}

type CashAdvanceResponse struct {
	ID                string  `json:"id"`
	WorkerID          string  `json:"worker_id"`
	Amount            string  `json:"amount"`
	Reason            string  `json:"reason,omitempty"`
	Status            string  `json:"status"`
	Installments      int     `json:"installments"`
	InstallmentAmount string  `json:"installment_amount"`
	Balance           string  `json:"balance"`
	RepaymentAmount   string  `json:"repayment_amount"`
	DeductionID       *string `json:"deduction_id,omitempty"`
	ApprovedBy        *string `json:"approved_by,omitempty"`
	ApprovalDate      *string `json:"approval_date,omitempty"`
	Notes             *string `json:"notes,omitempty"`
	CompletedAt       *string `json:"completed_at,omitempty"`
}

type RepaymentResponse struct {
	ID            string `json:"id"`
	CashAdvanceID string `json:"cash_advance_id"`
	RepaymentDate string `json:"repayment_date"`
	Amount        string `json:"amount"`
	PaymentMethod string `json:"payment_method"`
	ProcessedBy   string `json:"processed_by"`
}

type PaymentResultResponse struct {
	CashAdvanceID string `json:"cash_advance_id"`
	NewBalance    string `json:"new_balance"`
	NewStatus     string `json:"new_status"`
}

func mapToResponse(a CashAdvance) CashAdvanceResponse {
	resp := CashAdvanceResponse{
		ID:                a.ID.String(),
		WorkerID:          a.WorkerID.String(),
		Amount:            a.Amount.StringFixed(2),
		Reason:            a.Reason,
		Status:            a.Status,
		Installments:      a.Installments,
		InstallmentAmount: a.InstallmentAmount.StringFixed(2),
		Balance:           a.Balance.StringFixed(2),
		RepaymentAmount:   a.RepaymentAmount.StringFixed(2),
		Notes:             a.Notes,
	}
	if a.DeductionID != nil {
		v := a.DeductionID.String()
		resp.DeductionID = &v
	}
	if a.ApprovedBy != nil {
		v := a.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if a.ApprovalDate != nil {
		v := a.ApprovalDate.Format(time.RFC3339)
		resp.ApprovalDate = &v
	}
	if a.CompletedAt != nil {
		v := a.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &v
	}
	return resp
}

func mapToListResponse(rows []CashAdvance) []CashAdvanceResponse {
	resp := make([]CashAdvanceResponse, len(rows))
	for i, a := range rows {
		resp[i] = mapToResponse(a)
	}
	return resp
}

func mapRepaymentToResponse(p Repayment) RepaymentResponse {
	return RepaymentResponse{
		ID:            p.ID.String(),
		CashAdvanceID: p.CashAdvanceID.String(),
		RepaymentDate: p.RepaymentDate.Format("2006-01-02"),
		Amount:        p.Amount.StringFixed(2),
		PaymentMethod: p.PaymentMethod,
		ProcessedBy:   p.ProcessedBy.String(),
	}
}
