package payroll

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

func parsePeriod(c *gin.Context, startRaw, endRaw string) (time.Time, time.Time, bool) {
	start, err := time.Parse("2006-01-02", startRaw)
	if err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "invalid period_start, expected YYYY-MM-DD", nil)
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse("2006-01-02", endRaw)
	if err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "invalid period_end, expected YYYY-MM-DD", nil)
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func (h *Handler) Preview(c *gin.Context) {
	start, end, ok := parsePeriod(c, c.Query("period_start"), c.Query("period_end"))
	if !ok {
		return
	}

	resp, err := h.service.Preview(c.Request.Context(), c.Param("worker_id"), start, end)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Generate(c *gin.Context) {
	actorID := c.GetString("actor_id")

	var req GeneratePayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	start, end, ok := parsePeriod(c, req.PeriodStart, req.PeriodEnd)
	if !ok {
		return
	}

	resp, err := h.service.Generate(c.Request.Context(), actorID, start, end)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) MarkPaid(c *gin.Context) {
	actorID := c.GetString("actor_id")

	var req MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	start, end, ok := parsePeriod(c, req.PeriodStart, req.PeriodEnd)
	if !ok {
		return
	}

	resp, err := h.service.MarkPaid(c.Request.Context(), actorID, req.WorkerID, start, end)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Archive(c *gin.Context) {
	actorID := c.GetString("actor_id")

	resp, err := h.service.Archive(c.Request.Context(), actorID, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Restore(c *gin.Context) {
	actorID := c.GetString("actor_id")

	resp, err := h.service.Restore(c.Request.Context(), actorID, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByPeriod(c *gin.Context) {
	start, end, ok := parsePeriod(c, c.Query("period_start"), c.Query("period_end"))
	if !ok {
		return
	}

	resp, err := h.service.GetByPeriod(c.Request.Context(), start, end)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
