package deduction

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

func (h *Handler) Create(c *gin.Context) {
	actorID := c.GetString("actor_id")

	var req CreateDeductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetByWorker(c *gin.Context) {
	resp, err := h.service.GetAllByWorker(c.Request.Context(), c.Param("worker_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetApplicable(c *gin.Context) {
	start, err := time.Parse("2006-01-02", c.Query("period_start"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "invalid period_start, expected YYYY-MM-DD", nil)
		return
	}
	end, err := time.Parse("2006-01-02", c.Query("period_end"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "invalid period_end, expected YYYY-MM-DD", nil)
		return
	}

	resp, err := h.service.ActiveForPayroll(c.Request.Context(), c.Param("worker_id"), start, end)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	total, err := h.service.TotalFor(c.Request.Context(), c.Param("worker_id"), start, end)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"deductions": resp,
		"total":      total.StringFixed(2),
	}, nil)
}

func (h *Handler) ToggleActive(c *gin.Context) {
	actorID := c.GetString("actor_id")

	resp, err := h.service.ToggleActive(c.Request.Context(), actorID, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	actorID := c.GetString("actor_id")

	if err := h.service.Delete(c.Request.Context(), actorID, c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
