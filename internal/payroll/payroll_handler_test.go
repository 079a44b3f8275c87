package payroll_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"crewpay/internal/payroll"
	payrollerrors "crewpay/internal/payroll/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
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

type fakePayrollService struct {
	previewFn     func(ctx context.Context, workerID string, periodStart, periodEnd time.Time) (payroll.PreviewResponse, error)
	generateFn    func(ctx context.Context, actorID string, periodStart, periodEnd time.Time) (payroll.GenerateResultResponse, error)
	markPaidFn    func(ctx context.Context, actorID, workerID string, periodStart, periodEnd time.Time) (payroll.PayrollResponse, error)
	archiveFn     func(ctx context.Context, actorID, id string) (payroll.PayrollResponse, error)
	restoreFn     func(ctx context.Context, actorID, id string) (payroll.PayrollResponse, error)
	getByPeriodFn func(ctx context.Context, periodStart, periodEnd time.Time) ([]payroll.PayrollResponse, error)
	getByIDFn     func(ctx context.Context, id string) (payroll.PayrollResponse, error)
}

func (f *fakePayrollService) Preview(ctx context.Context, workerID string, periodStart, periodEnd time.Time) (payroll.PreviewResponse, error) {
	return f.previewFn(ctx, workerID, periodStart, periodEnd)
}

func (f *fakePayrollService) Generate(ctx context.Context, actorID string, periodStart, periodEnd time.Time) (payroll.GenerateResultResponse, error) {
	return f.generateFn(ctx, actorID, periodStart, periodEnd)
}

func (f *fakePayrollService) MarkPaid(ctx context.Context, actorID, workerID string, periodStart, periodEnd time.Time) (payroll.PayrollResponse, error) {
	return f.markPaidFn(ctx, actorID, workerID, periodStart, periodEnd)
}

func (f *fakePayrollService) Archive(ctx context.Context, actorID, id string) (payroll.PayrollResponse, error) {
	return f.archiveFn(ctx, actorID, id)
}

func (f *fakePayrollService) Restore(ctx context.Context, actorID, id string) (payroll.PayrollResponse, error) {
	return f.restoreFn(ctx, actorID, id)
}

func (f *fakePayrollService) GetByPeriod(ctx context.Context, periodStart, periodEnd time.Time) ([]payroll.PayrollResponse, error) {
	return f.getByPeriodFn(ctx, periodStart, periodEnd)
}

func (f *fakePayrollService) GetByID(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	return f.getByIDFn(ctx, id)
}

func TestPayrollHandler_Generate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		actorID := uuid.New().String()

		svc := &fakePayrollService{
			generateFn: func(ctx context.Context, aid string, periodStart, periodEnd time.Time) (payroll.GenerateResultResponse, error) {
				assert.Equal(t, actorID, aid)
				assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), periodStart)
				assert.Equal(t, time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC), periodEnd)
				return payroll.GenerateResultResponse{
					BatchRef: "PAY-202608-0001",
					Created:  3,
					Updated:  1,
				}, nil
			},
		}

		h := payroll.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"period_start":"2026-08-01","period_end":"2026-08-15"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/payrolls/generate", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("actor_id", actorID)

		h.Generate(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got payroll.GenerateResultResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, "PAY-202608-0001", got.BatchRef)
		assert.Equal(t, 3, got.Created)
		assert.Equal(t, 1, got.Updated)
	})

	t.Run("malformed period", func(t *testing.T) {
		h := payroll.NewHandler(&fakePayrollService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"period_start":"08/01/2026","period_end":"2026-08-15"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/payrolls/generate", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("actor_id", uuid.New().String())

		h.Generate(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})
}

func TestPayrollHandler_Preview(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		workerID := uuid.New().String()

		svc := &fakePayrollService{
			previewFn: func(ctx context.Context, wid string, periodStart, periodEnd time.Time) (payroll.PreviewResponse, error) {
				assert.Equal(t, workerID, wid)
				return payroll.PreviewResponse{
					WorkerID:        wid,
					HourlyRate:      "100.0000",
					GrossPay:        "8000.00",
					TotalDeductions: "500.00",
					NetPay:          "7500.00",
					PaymentStatus:   payroll.PaymentStatusUnpaid,
				}, nil
			},
		}

		h := payroll.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/payrolls/workers/"+workerID+"/preview?period_start=2026-08-01&period_end=2026-08-15", nil)
		c.Params = gin.Params{{Key: "worker_id", Value: workerID}}

		h.Preview(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got payroll.PreviewResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, "7500.00", got.NetPay)
		assert.Equal(t, payroll.PaymentStatusUnpaid, got.PaymentStatus)
	})

	t.Run("missing period query", func(t *testing.T) {
		h := payroll.NewHandler(&fakePayrollService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/payrolls/workers/x/preview", nil)
		c.Params = gin.Params{{Key: "worker_id", Value: uuid.New().String()}}

		h.Preview(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPayrollHandler_MarkPaid(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("record not found", func(t *testing.T) {
		svc := &fakePayrollService{
			markPaidFn: func(ctx context.Context, actorID, workerID string, periodStart, periodEnd time.Time) (payroll.PayrollResponse, error) {
				return payroll.PayrollResponse{}, payrollerrors.ErrRecordNotFound
			},
		}

		h := payroll.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"worker_id":"` + uuid.New().String() + `","period_start":"2026-08-01","period_end":"2026-08-15"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/payrolls/mark-paid", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("actor_id", uuid.New().String())

		h.MarkPaid(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "NOT_FOUND", env.Error.Code)
	})
}
