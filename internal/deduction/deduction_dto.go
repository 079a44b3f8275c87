package deduction

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type CreateDeductionRequest struct {
	WorkerID      string          `json:"worker_id" binding:"required"`
	DeductionType string          `json:"deduction_type" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Description   string          `json:"description"`
	Frequency     string          `json:"frequency" binding:"required"`
}

type DeductionResponse struct {
	ID                  string  `json:"id"`
	WorkerID            string  `json:"worker_id"`
	CashAdvanceID       *string `json:"cash_advance_id,omitempty"`
	DeductionType       string  `json:"deduction_type"`
	TypeLabel           string  `json:"type_label"`
	Amount              string  `json:"amount"`
	Description         string  `json:"description,omitempty"`
	Frequency           string  `json:"frequency"`
	Status              string  `json:"status"`
	IsActive            bool    `json:"is_active"`
	AppliedCount        int     `json:"applied_count"`
	ConsumedPeriodStart *string `json:"consumed_period_start,omitempty"`
	ConsumedPeriodEnd   *string `json:"consumed_period_end,omitempty"`
}

func mapToResponse(d Deduction) DeductionResponse {
	resp := DeductionResponse{
		ID:            d.ID.String(),
		WorkerID:      d.WorkerID.String(),
		DeductionType: d.DeductionType,
		TypeLabel:     typeLabel(d.DeductionType),
		Amount:        d.Amount.StringFixed(2),
		Description:   d.Description,
		Frequency:     d.Frequency,
		Status:        d.Status,
		IsActive:      d.IsActive,
		AppliedCount:  d.AppliedCount,
	}
	if d.CashAdvanceID != nil {
		v := d.CashAdvanceID.String()
		resp.CashAdvanceID = &v
	}
	if d.ConsumedPeriodStart != nil {
		v := d.ConsumedPeriodStart.Format("2006-01-02")
		resp.ConsumedPeriodStart = &v
	}
	if d.ConsumedPeriodEnd != nil {
		v := d.ConsumedPeriodEnd.Format("2006-01-02")
		resp.ConsumedPeriodEnd = &v
	}
	return resp
}

var labelCaser = cases.Title(language.English)

// typeLabel renders the enum for the portal's deduction list, e.g.
// CASH_ADVANCE becomes "Cash Advance". Statutory acronyms stay as-is.
func typeLabel(deductionType string) string {
	switch deductionType {
	case TypeSSS, TypePhilHealth, TypePagIbig, TypeTax:
		return deductionType
	}
	return labelCaser.String(strings.ToLower(strings.ReplaceAll(deductionType, "_", " ")))
}

func mapToListResponse(rows []Deduction) []DeductionResponse {
	resp := make([]DeductionResponse, len(rows))
	for i, d := range rows {
		resp[i] = mapToResponse(d)
	}
	return resp
}
