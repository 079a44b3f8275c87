package attendance

import (
	"net/http"
	"time"

	"crewpay/internal/shared/apperror"
	"crewpay/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func parsePeriodQuery(c *gin.Context) (time.Time, time.Time, bool) {
	start, err := time.Parse("2006-01-02", c.Query("period_start"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "invalid period_start, expected YYYY-MM-DD", nil)
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse("2006-01-02", c.Query("period_end"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "invalid period_end, expected YYYY-MM-DD", nil)
		return time.Time{}, time.Time{}, false
	}
	if start.After(end) {
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "period_start must be before or equal period_end", nil)
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func (h *Handler) GetByWorker(c *gin.Context) {
	start, end, ok := parsePeriodQuery(c)
	if !ok {
		return
	}

	resp, err := h.service.GetAllByWorker(c.Request.Context(), c.Param("worker_id"), start, end)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetSummary(c *gin.Context) {
	start, end, ok := parsePeriodQuery(c)
	if !ok {
		return
	}

	agg, err := h.service.Aggregate(c.Request.Context(), c.Param("worker_id"), start, end)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"days_worked":    agg.DaysWorked,
		"total_hours":    agg.TotalHours.StringFixed(2),
		"overtime_hours": agg.OvertimeHours.StringFixed(2),
	}, nil)
}
