package cashadvance_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"crewpay/internal/cashadvance"
	cashadvanceerrors "crewpay/internal/cashadvance/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeAdvanceService struct {
	requestFn       func(ctx context.Context, actorID string, req cashadvance.RequestAdvanceRequest) (cashadvance.CashAdvanceResponse, error)
	approveFn       func(ctx context.Context, actorID, id string, req cashadvance.ApproveAdvanceRequest) (cashadvance.CashAdvanceResponse, error)
	rejectFn        func(ctx context.Context, actorID, id string, req cashadvance.RejectAdvanceRequest) (cashadvance.CashAdvanceResponse, error)
	recordPaymentFn func(ctx context.Context, actorID, id string, req cashadvance.RecordPaymentRequest) (cashadvance.PaymentResultResponse, error)
	getAllFn        func(ctx context.Context) ([]cashadvance.CashAdvanceResponse, error)
	getByWorkerFn   func(ctx context.Context, workerID string) ([]cashadvance.CashAdvanceResponse, error)
	getByIDFn       func(ctx context.Context, id string) (cashadvance.CashAdvanceResponse, []cashadvance.RepaymentResponse, error)
}

func (f *fakeAdvanceService) Request(ctx context.Context, actorID string, req cashadvance.RequestAdvanceRequest) (cashadvance.CashAdvanceResponse, error) {
	return f.requestFn(ctx, actorID, req)
}

func (f *fakeAdvanceService) Approve(ctx context.Context, actorID, id string, req cashadvance.ApproveAdvanceRequest) (cashadvance.CashAdvanceResponse, error) {
	return f.approveFn(ctx, actorID, id, req)
}

func (f *fakeAdvanceService) Reject(ctx context.Context, actorID, id string, req cashadvance.RejectAdvanceRequest) (cashadvance.CashAdvanceResponse, error) {
	return f.rejectFn(ctx, actorID, id, req)
}

func (f *fakeAdvanceService) RecordPayment(ctx context.Context, actorID, id string, req cashadvance.RecordPaymentRequest) (cashadvance.PaymentResultResponse, error) {
	return f.recordPaymentFn(ctx, actorID, id, req)
}

func (f *fakeAdvanceService) GetAll(ctx context.Context) ([]cashadvance.CashAdvanceResponse, error) {
	return f.getAllFn(ctx)
}

func (f *fakeAdvanceService) GetAllByWorker(ctx context.Context, workerID string) ([]cashadvance.CashAdvanceResponse, error) {
	return f.getByWorkerFn(ctx, workerID)
}

func (f *fakeAdvanceService) GetByID(ctx context.Context, id string) (cashadvance.CashAdvanceResponse, []cashadvance.RepaymentResponse, error) {
	return f.getByIDFn(ctx, id)
}

func TestCashAdvanceHandler_Request(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		actorID := uuid.New().String()
		workerID := uuid.New().String()

		svc := &fakeAdvanceService{
			requestFn: func(ctx context.Context, aid string, req cashadvance.RequestAdvanceRequest) (cashadvance.CashAdvanceResponse, error) {
				assert.Equal(t, actorID, aid)
				assert.Equal(t, workerID, req.WorkerID)
				assert.True(t, req.Amount.Equal(decimal.NewFromInt(4000)))
				return cashadvance.CashAdvanceResponse{
					ID:       uuid.New().String(),
					WorkerID: req.WorkerID,
					Amount:   "4000.00",
					Status:   cashadvance.StatusPending,
					Balance:  "4000.00",
				}, nil
			},
		}

		h := cashadvance.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"worker_id":"` + workerID + `","amount":4000,"reason":"Medical emergency"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/cash-advances", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("actor_id", actorID)

		h.Request(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got cashadvance.CashAdvanceResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, cashadvance.StatusPending, got.Status)
	})

	t.Run("missing fields rejected by binding", func(t *testing.T) {
		h := cashadvance.NewHandler(&fakeAdvanceService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/cash-advances", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Request(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.NotNil(t, env.Error)
	})
}

func TestCashAdvanceHandler_Approve(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("invalid state maps to conflict", func(t *testing.T) {
		svc := &fakeAdvanceService{
			approveFn: func(ctx context.Context, actorID, id string, req cashadvance.ApproveAdvanceRequest) (cashadvance.CashAdvanceResponse, error) {
				return cashadvance.CashAdvanceResponse{}, cashadvanceerrors.ErrNotPending
			},
		}

		h := cashadvance.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/cash-advances/x/approve", strings.NewReader(`{"installments":4}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
		c.Set("actor_id", uuid.New().String())

		h.Approve(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "INVALID_STATE", env.Error.Code)
	})
}

func TestCashAdvanceHandler_RecordPayment(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("overpayment maps to bad request", func(t *testing.T) {
		svc := &fakeAdvanceService{
			recordPaymentFn: func(ctx context.Context, actorID, id string, req cashadvance.RecordPaymentRequest) (cashadvance.PaymentResultResponse, error) {
				return cashadvance.PaymentResultResponse{}, cashadvanceerrors.ErrPaymentExceedsBalance
			},
		}

		h := cashadvance.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/cash-advances/x/payments", strings.NewReader(`{"amount":5000,"payment_method":"CASH"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
		c.Set("actor_id", uuid.New().String())

		h.RecordPayment(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})

	t.Run("success", func(t *testing.T) {
		advanceID := uuid.New().String()
		svc := &fakeAdvanceService{
			recordPaymentFn: func(ctx context.Context, actorID, id string, req cashadvance.RecordPaymentRequest) (cashadvance.PaymentResultResponse, error) {
				assert.Equal(t, advanceID, id)
				return cashadvance.PaymentResultResponse{
					CashAdvanceID: id,
					NewBalance:    "3000.00",
					NewStatus:     cashadvance.StatusRepaying,
				}, nil
			},
		}

		h := cashadvance.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/cash-advances/x/payments", strings.NewReader(`{"amount":1000,"payment_method":"CASH"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: advanceID}}
		c.Set("actor_id", uuid.New().String())

		h.RecordPayment(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		var got cashadvance.PaymentResultResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, cashadvance.StatusRepaying, got.NewStatus)
		assert.Equal(t, "3000.00", got.NewBalance)
	})
}
