package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"crewpay/internal/attendance"
	"crewpay/internal/audit"
	"crewpay/internal/crew"
	crewerrors "crewpay/internal/crew/errors"
	"crewpay/internal/deduction"
	"crewpay/internal/events"
	"crewpay/internal/messaging/kafka"
	payrollerrors "crewpay/internal/payroll/errors"
	"crewpay/internal/shared/clock"
	"crewpay/internal/shared/contextutil"
	"crewpay/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const batchCounterType = "payroll_batch"

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	Preview(ctx context.Context, workerID string, periodStart, periodEnd time.Time) (PreviewResponse, error)
	Generate(ctx context.Context, actorID string, periodStart, periodEnd time.Time) (GenerateResultResponse, error)
	MarkPaid(ctx context.Context, actorID, workerID string, periodStart, periodEnd time.Time) (PayrollResponse, error)
	Archive(ctx context.Context, actorID, id string) (PayrollResponse, error)
	Restore(ctx context.Context, actorID, id string) (PayrollResponse, error)
	GetByPeriod(ctx context.Context, periodStart, periodEnd time.Time) ([]PayrollResponse, error)
	GetByID(ctx context.Context, id string) (PayrollResponse, error)
}

type service struct {
	db             *sql.DB
	repo           Repository
	rates          RateResolver
	attendanceRepo attendance.Repository
	deductionRepo  deduction.Repository
	crewRepo       crew.Repository
	counterRepo    counter.Repository
	sink           audit.Sink
	outboxRepo     kafka.OutboxRepository
	clk            clock.Clock
	logger         *zap.Logger

	// previews collapses identical concurrent preview computations.
	previews singleflight.Group
}

func NewService(
	db *sql.DB,
	repo Repository,
	rates RateResolver,
	attendanceRepo attendance.Repository,
	deductionRepo deduction.Repository,
	crewRepo crew.Repository,
	counterRepo counter.Repository,
	sink audit.Sink,
	outboxRepo kafka.OutboxRepository,
	clk clock.Clock,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{
		db:             db,
		repo:           repo,
		rates:          rates,
		attendanceRepo: attendanceRepo,
		deductionRepo:  deductionRepo,
		crewRepo:       crewRepo,
		counterRepo:    counterRepo,
		sink:           sink,
		outboxRepo:     outboxRepo,
		clk:            clk,
		logger:         l,
	}
}

// settlement is one worker's computed pay for a period before it is
// persisted.
type settlement struct {
	HourlyRate      decimal.Decimal
	DaysWorked      int
	TotalHours      decimal.Decimal
	OvertimeHours   decimal.Decimal
	GrossPay        decimal.Decimal
	TotalDeductions decimal.Decimal
	NetPay          decimal.Decimal
	Deductions      []deduction.Deduction
}

func (s *service) compute(ctx context.Context, workerID string, periodStart, periodEnd time.Time) (settlement, error) {
	hourlyRate, err := s.rates.HourlyRate(ctx, workerID)
	if err != nil {
		return settlement{}, err
	}

	agg, err := s.attendanceRepo.Aggregate(ctx, workerID, periodStart, periodEnd)
	if err != nil {
		return settlement{}, err
	}

	deductions, err := s.deductionRepo.ActiveForPayroll(ctx, workerID, periodStart, periodEnd)
	if err != nil {
		return settlement{}, err
	}

	totalDeductions := decimal.Zero
	for _, d := range deductions {
		totalDeductions = totalDeductions.Add(d.Amount)
	}

	grossPay := hourlyRate.Mul(agg.TotalHours).Round(2)
	return settlement{
		HourlyRate:      hourlyRate,
		DaysWorked:      agg.DaysWorked,
		TotalHours:      agg.TotalHours,
		OvertimeHours:   agg.OvertimeHours,
		GrossPay:        grossPay,
		TotalDeductions: totalDeductions.Round(2),
		NetPay:          grossPay.Sub(totalDeductions).Round(2),
		Deductions:      deductions,
	}, nil
}

// Preview is a pure read; it never mutates payroll, deduction or
// attendance state, so identical concurrent calls share one
// computation.
func (s *service) Preview(ctx context.Context, workerID string, periodStart, periodEnd time.Time) (PreviewResponse, error) {
	if _, err := uuid.Parse(workerID); err != nil {
		return PreviewResponse{}, crewerrors.ErrInvalidWorkerID
	}
	if periodStart.After(periodEnd) {
		return PreviewResponse{}, payrollerrors.ErrInvalidPeriod
	}

	key := fmt.Sprintf("%s|%s|%s", workerID, periodStart.Format("2006-01-02"), periodEnd.Format("2006-01-02"))
	v, err, _ := s.previews.Do(key, func() (any, error) {
		return s.preview(ctx, workerID, periodStart, periodEnd)
	})
	if err != nil {
		return PreviewResponse{}, err
	}
	return v.(PreviewResponse), nil
}

func (s *service) preview(ctx context.Context, workerID string, periodStart, periodEnd time.Time) (PreviewResponse, error) {
	sett, err := s.compute(ctx, workerID, periodStart, periodEnd)
	if err != nil {
		return PreviewResponse{}, err
	}

	paymentStatus := PaymentStatusUnpaid
	existing, err := s.repo.FindByWorkerAndPeriod(ctx, workerID, periodStart, periodEnd)
	switch {
	case err == nil:
		if !existing.IsArchived {
			paymentStatus = existing.PaymentStatus
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// No generated record yet.
	default:
		return PreviewResponse{}, err
	}

	return PreviewResponse{
		WorkerID:        workerID,
		PeriodStart:     periodStart.Format("2006-01-02"),
		PeriodEnd:       periodEnd.Format("2006-01-02"),
		DaysWorked:      sett.DaysWorked,
		TotalHours:      sett.TotalHours.StringFixed(2),
		OvertimeHours:   sett.OvertimeHours.StringFixed(2),
		HourlyRate:      sett.HourlyRate.StringFixed(4),
		GrossPay:        sett.GrossPay.StringFixed(2),
		TotalDeductions: sett.TotalDeductions.StringFixed(2),
		NetPay:          sett.NetPay.StringFixed(2),
		PaymentStatus:   paymentStatus,
	}, nil
}

// Generate upserts one payroll record per active worker for the
// period. Each worker runs in its own transaction so one failure does
// not abort the batch; re-running the same period overwrites computed
// values without creating duplicate rows.
func (s *service) Generate(ctx context.Context, actorID string, periodStart, periodEnd time.Time) (GenerateResultResponse, error) {
	s.logger.Debug("generate payroll",
		zap.String("actor_id", actorID),
		zap.String("period_start", periodStart.Format("2006-01-02")),
		zap.String("period_end", periodEnd.Format("2006-01-02")),
	)

	if periodStart.After(periodEnd) {
		return GenerateResultResponse{}, payrollerrors.ErrInvalidPeriod
	}

	batchNum, err := s.counterRepo.GetNextValue(ctx, batchCounterType)
	if err != nil {
		s.logger.Error("generate payroll batch ref failed", zap.Error(err))
		return GenerateResultResponse{}, err
	}
	batchRef := fmt.Sprintf("PAY-%s-%04d", periodStart.Format("200601"), batchNum)

	workers, err := s.crewRepo.FindActive(ctx)
	if err != nil {
		return GenerateResultResponse{}, err
	}

	result := GenerateResultResponse{BatchRef: batchRef}
	for _, w := range workers {
		outcome, err := s.generateForWorker(ctx, w, periodStart, periodEnd, batchRef)
		if err != nil {
			s.logger.Error("generate payroll worker failed",
				zap.String("worker_id", w.ID.String()),
				zap.Error(err),
			)
			result.Failed++
			continue
		}
		switch outcome {
		case outcomeCreated:
			result.Created++
		case outcomeUpdated:
			result.Updated++
		case outcomeSkipped:
			result.Skipped++
		}
	}

	if err := s.finishGeneration(ctx, actorID, batchRef, periodStart, periodEnd, result); err != nil {
		return GenerateResultResponse{}, err
	}

	s.logger.Info("generate payroll success",
		zap.String("batch_ref", batchRef),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

type generateOutcome int

const (
	outcomeCreated generateOutcome = iota
	outcomeUpdated
	outcomeSkipped
)

func (s *service) generateForWorker(ctx context.Context, w crew.Worker, periodStart, periodEnd time.Time, batchRef string) (generateOutcome, error) {
	sett, err := s.compute(ctx, w.ID.String(), periodStart, periodEnd)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	dtx := s.deductionRepo.WithTx(tx)

	outcome := outcomeCreated
	recordID := uuid.New()

	existing, err := qtx.LockByWorkerAndPeriod(ctx, w.ID.String(), periodStart, periodEnd)
	switch {
	case err == nil:
		if existing.IsArchived {
			// Archived records are out of generation scope; restoring
			// them is an explicit admin action.
			return outcomeSkipped, nil
		}
		outcome = outcomeUpdated
		recordID = existing.ID
	case errors.Is(err, sql.ErrNoRows):
		// First generation for this (worker, period).
	default:
		return 0, err
	}

	for _, d := range sett.Deductions {
		if d.Frequency != deduction.FrequencyOneTime || d.AppliedCount > 0 {
			continue
		}
		consumed, err := dtx.ConsumeOneTime(ctx, d.ID.String(), periodStart, periodEnd)
		if err != nil {
			return 0, err
		}
		if consumed {
			continue
		}
		// Lost the applied_count guard to a concurrent run. The amount
		// stays only when that run consumed the row for this same
		// period; a different period owns it now, so drop it from the
		// totals instead of charging the deduction twice.
		row, err := dtx.FindByID(ctx, d.ID.String())
		if err == nil && consumedBy(row, periodStart, periodEnd) {
			continue
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, err
		}
		sett.TotalDeductions = sett.TotalDeductions.Sub(d.Amount).Round(2)
		sett.NetPay = sett.NetPay.Add(d.Amount).Round(2)
	}

	rec := &PayrollRecord{
		ID:              recordID,
		WorkerID:        w.ID,
		PeriodStart:     periodStart,
		PeriodEnd:       periodEnd,
		BatchRef:        batchRef,
		DaysWorked:      sett.DaysWorked,
		TotalHours:      sett.TotalHours,
		OvertimeHours:   sett.OvertimeHours,
		HourlyRate:      sett.HourlyRate,
		GrossPay:        sett.GrossPay,
		TotalDeductions: sett.TotalDeductions,
		NetPay:          sett.NetPay,
		PaymentStatus:   PaymentStatusPending,
	}
	if err := qtx.Upsert(ctx, rec); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return outcome, nil
}

// consumedBy reports whether the one-time deduction was consumed by
// exactly this period.
func consumedBy(d *deduction.Deduction, periodStart, periodEnd time.Time) bool {
	if d.ConsumedPeriodStart == nil || d.ConsumedPeriodEnd == nil {
		return false
	}
	return d.ConsumedPeriodStart.Format("2006-01-02") == periodStart.Format("2006-01-02") &&
		d.ConsumedPeriodEnd.Format("2006-01-02") == periodEnd.Format("2006-01-02")
}

// finishGeneration writes the batch audit entry and outbox event in one
// transaction after the per-worker upserts are done.
func (s *service) finishGeneration(ctx context.Context, actorID, batchRef string, periodStart, periodEnd time.Time, result GenerateResultResponse) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if s.outboxRepo != nil {
		event := events.PayrollGeneratedEvent{
			EventType:   "payroll_generated",
			BatchRef:    batchRef,
			PeriodStart: periodStart.Format("2006-01-02"),
			PeriodEnd:   periodEnd.Format("2006-01-02"),
			Created:     result.Created,
			Updated:     result.Updated,
			Failed:      result.Failed,
			GeneratedBy: actorID,
			OccurredAt:  s.clk.Now(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}

		if err := s.outboxRepo.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.New().String(),
			RequestID:     contextutil.GetRequestID(ctx),
			AggregateType: "payroll_batch",
			AggregateID:   batchRef,
			EventType:     "payroll_generated",
			Topic:         events.PayrollGeneratedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			return err
		}
	}

	if err := s.sink.WithTx(tx).Record(ctx, audit.Entry{
		ActorID:    actorID,
		Action:     "payroll.generate",
		EntityType: "payroll_batch",
		EntityID:   batchRef,
		Summary: fmt.Sprintf("generated payroll %s to %s: %d created, %d updated, %d skipped, %d failed",
			periodStart.Format("2006-01-02"), periodEnd.Format("2006-01-02"),
			result.Created, result.Updated, result.Skipped, result.Failed),
	}); err != nil {
		return err
	}

	return tx.Commit()
}

// MarkPaid is monotonic. Marking an already paid record again is a
// no-op that returns the current state.
func (s *service) MarkPaid(ctx context.Context, actorID, workerID string, periodStart, periodEnd time.Time) (PayrollResponse, error) {
	s.logger.Debug("mark payroll paid",
		zap.String("actor_id", actorID),
		zap.String("worker_id", workerID),
	)

	if _, err := uuid.Parse(workerID); err != nil {
		return PayrollResponse{}, crewerrors.ErrInvalidWorkerID
	}
	if periodStart.After(periodEnd) {
		return PayrollResponse{}, payrollerrors.ErrInvalidPeriod
	}

	rec, err := s.repo.FindByWorkerAndPeriod(ctx, workerID, periodStart, periodEnd)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollResponse{}, payrollerrors.ErrRecordNotFound
		}
		return PayrollResponse{}, err
	}
	if rec.IsArchived {
		return PayrollResponse{}, payrollerrors.ErrRecordArchived
	}
	if rec.PaymentStatus == PaymentStatusPaid {
		return mapToResponse(*rec), nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	paymentDate := s.clk.Now()
	marked, err := qtx.MarkPaidIfUnpaid(ctx, rec.ID.String(), paymentDate)
	if err != nil {
		s.logger.Error("mark paid persist failed", zap.Error(err))
		return PayrollResponse{}, err
	}
	if marked {
		if err := s.sink.WithTx(tx).Record(ctx, audit.Entry{
			ActorID:    actorID,
			Action:     "payroll.mark_paid",
			EntityType: "payroll_record",
			EntityID:   rec.ID.String(),
			Summary:    fmt.Sprintf("marked paid for period %s to %s", periodStart.Format("2006-01-02"), periodEnd.Format("2006-01-02")),
		}); err != nil {
			return PayrollResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return PayrollResponse{}, err
	}

	if !marked {
		// A concurrent call won the guarded update; report the stored
		// payment date, not this call's clock.
		fresh, err := s.repo.FindByID(ctx, rec.ID.String())
		if err != nil {
			return PayrollResponse{}, err
		}
		return mapToResponse(*fresh), nil
	}

	rec.PaymentStatus = PaymentStatusPaid
	rec.PaymentDate = &paymentDate
	s.logger.Info("mark paid success", zap.String("payroll_id", rec.ID.String()))
	return mapToResponse(*rec), nil
}

func (s *service) Archive(ctx context.Context, actorID, id string) (PayrollResponse, error) {
	return s.setArchived(ctx, actorID, id, true)
}

func (s *service) Restore(ctx context.Context, actorID, id string) (PayrollResponse, error) {
	return s.setArchived(ctx, actorID, id, false)
}

func (s *service) setArchived(ctx context.Context, actorID, id string, archived bool) (PayrollResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidRecordID
	}

	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollResponse{}, payrollerrors.ErrRecordNotFound
		}
		return PayrollResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	action := "payroll.archive"
	if !archived {
		action = "payroll.restore"
	}

	changed, err := qtx.SetArchived(ctx, id, archived)
	if err != nil {
		s.logger.Error("set archived persist failed", zap.Error(err))
		return PayrollResponse{}, err
	}
	if changed {
		if err := s.sink.WithTx(tx).Record(ctx, audit.Entry{
			ActorID:    actorID,
			Action:     action,
			EntityType: "payroll_record",
			EntityID:   id,
			Summary:    fmt.Sprintf("archived=%t", archived),
		}); err != nil {
			return PayrollResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return PayrollResponse{}, err
	}

	rec.IsArchived = archived
	return mapToResponse(*rec), nil
}

func (s *service) GetByPeriod(ctx context.Context, periodStart, periodEnd time.Time) ([]PayrollResponse, error) {
	if periodStart.After(periodEnd) {
		return nil, payrollerrors.ErrInvalidPeriod
	}

	rows, err := s.repo.FindAllByPeriod(ctx, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetByID(ctx context.Context, id string) (PayrollResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidRecordID
	}

	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollResponse{}, payrollerrors.ErrRecordNotFound
		}
		return PayrollResponse{}, err
	}
	return mapToResponse(*rec), nil
}
