package cashadvance

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"crewpay/internal/audit"
	cashadvanceerrors "crewpay/internal/cashadvance/errors"
	"crewpay/internal/crew"
	crewerrors "crewpay/internal/crew/errors"
	"crewpay/internal/deduction"
	"crewpay/internal/events"
	"crewpay/internal/messaging/kafka"
	"crewpay/internal/shared/clock"
	"crewpay/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=cashadvance_service.go -destination=mock/cashadvance_service_mock.go -package=mock
type Service interface {
	Request(ctx context.Context, actorID string, req RequestAdvanceRequest) (CashAdvanceResponse, error)
	Approve(ctx context.Context, actorID, id string, req ApproveAdvanceRequest) (CashAdvanceResponse, error)
	Reject(ctx context.Context, actorID, id string, req RejectAdvanceRequest) (CashAdvanceResponse, error)
	RecordPayment(ctx context.Context, actorID, id string, req RecordPaymentRequest) (PaymentResultResponse, error)
	GetAll(ctx context.Context) ([]CashAdvanceResponse, error)
	GetAllByWorker(ctx context.Context, workerID string) ([]CashAdvanceResponse, error)
	GetByID(ctx context.Context, id string) (CashAdvanceResponse, []RepaymentResponse, error)
}

type service struct {
	db            *sql.DB
	repo          Repository
	deductionRepo deduction.Repository
	crewRepo      crew.Repository
	sink          audit.Sink
	outboxRepo    kafka.OutboxRepository
	clk           clock.Clock
	logger        *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	deductionRepo deduction.Repository,
	crewRepo crew.Repository,
	sink audit.Sink,
	clk clock.Clock,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(db, repo, deductionRepo, crewRepo, sink, nil, clk, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	deductionRepo deduction.Repository,
	crewRepo crew.Repository,
	sink audit.Sink,
	outboxRepo kafka.OutboxRepository,
	clk clock.Clock,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("cashadvance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("cashadvance.service")
	}
	return &service{
		db:            db,
		repo:          repo,
		deductionRepo: deductionRepo,
		crewRepo:      crewRepo,
		sink:          sink,
		outboxRepo:    outboxRepo,
		clk:           clk,
		logger:        l,
	}
}

func (s *service) Request(ctx context.Context, actorID string, req RequestAdvanceRequest) (CashAdvanceResponse, error) {
	s.logger.Debug("request cash advance",
		zap.String("actor_id", actorID),
		zap.String("worker_id", req.WorkerID),
	)

	workerUUID, err := uuid.Parse(req.WorkerID)
	if err != nil {
		return CashAdvanceResponse{}, crewerrors.ErrInvalidWorkerID
	}
	if !req.Amount.IsPositive() {
		return CashAdvanceResponse{}, cashadvanceerrors.ErrNonPositiveAmount
	}

	exists, err := s.crewRepo.Exists(ctx, req.WorkerID)
	if err != nil {
		return CashAdvanceResponse{}, err
	}
	if !exists {
		return CashAdvanceResponse{}, crewerrors.ErrWorkerNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("request advance begin tx failed", zap.Error(err))
		return CashAdvanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	amount := req.Amount.Round(2)
	a := &CashAdvance{
		ID:                uuid.New(),
		WorkerID:          workerUUID,
		Amount:            amount,
		Reason:            req.Reason,
		Status:            StatusPending,
		Installments:      1,
		InstallmentAmount: decimal.Zero,
		Balance:           amount,
		RepaymentAmount:   decimal.Zero,
	}

	if err := qtx.Create(ctx, a); err != nil {
		s.logger.Error("request advance persist failed", zap.Error(err))
		return CashAdvanceResponse{}, mapRepositoryError(err)
	}

	if err := s.sink.WithTx(tx).Record(ctx, audit.Entry{
		ActorID:    actorID,
		Action:     "cashadvance.request",
		EntityType: "cash_advance",
		EntityID:   a.ID.String(),
		Summary:    fmt.Sprintf("advance of %s requested", amount.StringFixed(2)),
	}); err != nil {
		return CashAdvanceResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("request advance commit failed", zap.Error(err))
		return CashAdvanceResponse{}, err
	}

	s.logger.Info("request advance success",
		zap.String("cash_advance_id", a.ID.String()),
		zap.String("worker_id", req.WorkerID),
	)
	return mapToResponse(*a), nil
}

// Approve transitions PENDING -> APPROVED and creates the recurring
// repayment deduction in the same transaction. An approved advance
// without its deduction must never be observable.
func (s *service) Approve(ctx context.Context, actorID, id string, req ApproveAdvanceRequest) (CashAdvanceResponse, error) {
	s.logger.Debug("approve cash advance",
		zap.String("cash_advance_id", id),
		zap.String("actor_id", actorID),
		zap.Int("installments", req.Installments),
	)

	if _, err := uuid.Parse(id); err != nil {
		return CashAdvanceResponse{}, cashadvanceerrors.ErrInvalidAdvanceID
	}
	approverUUID, err := uuid.Parse(actorID)
	if err != nil {
		return CashAdvanceResponse{}, cashadvanceerrors.ErrInvalidActorID
	}
	if req.Installments < 1 {
		return CashAdvanceResponse{}, cashadvanceerrors.ErrInvalidInstallments
	}

	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CashAdvanceResponse{}, cashadvanceerrors.ErrAdvanceNotFound
		}
		return CashAdvanceResponse{}, err
	}
	if a.Status != StatusPending {
		return CashAdvanceResponse{}, cashadvanceerrors.ErrNotPending
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("approve advance begin tx failed", zap.Error(err))
		return CashAdvanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	installmentAmount := a.Amount.DivRound(decimal.NewFromInt(int64(req.Installments)), 2)
	now := s.clk.Now()

	d := &deduction.Deduction{
		ID:            uuid.New(),
		WorkerID:      a.WorkerID,
		CashAdvanceID: &a.ID,
		DeductionType: deduction.TypeCashAdvance,
		Amount:        installmentAmount,
		Description:   fmt.Sprintf("Cash advance repayment (%d installments)", req.Installments),
		Frequency:     deduction.FrequencyPerPayroll,
		Status:        deduction.StatusApplied,
		IsActive:      true,
	}
	if err := s.deductionRepo.WithTx(tx).Create(ctx, d); err != nil {
		s.logger.Error("approve advance create deduction failed", zap.Error(err))
		return CashAdvanceResponse{}, err
	}

	a.Status = StatusApproved
	a.Installments = req.Installments
	a.InstallmentAmount = installmentAmount
	a.DeductionID = &d.ID
	a.ApprovedBy = &approverUUID
	a.ApprovalDate = &now

	approved, err := qtx.ApproveIfPending(ctx, a)
	if err != nil {
		s.logger.Error("approve advance persist failed", zap.Error(err))
		return CashAdvanceResponse{}, err
	}
	if !approved {
		// Lost the race to another approval or rejection; the deduction
		// insert above rolls back with the transaction.
		s.logger.Warn("approve advance no longer pending", zap.String("cash_advance_id", id))
		return CashAdvanceResponse{}, cashadvanceerrors.ErrNotPending
	}

	if err := s.sink.WithTx(tx).Record(ctx, audit.Entry{
		ActorID:    actorID,
		Action:     "cashadvance.approve",
		EntityType: "cash_advance",
		EntityID:   a.ID.String(),
		Summary: fmt.Sprintf("approved for %d installments of %s",
			req.Installments, installmentAmount.StringFixed(2)),
	}); err != nil {
		return CashAdvanceResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("approve advance commit failed", zap.Error(err))
		return CashAdvanceResponse{}, err
	}

	s.logger.Info("approve advance success",
		zap.String("cash_advance_id", a.ID.String()),
		zap.String("deduction_id", d.ID.String()),
	)
	return mapToResponse(*a), nil
}

func (s *service) Reject(ctx context.Context, actorID, id string, req RejectAdvanceRequest) (CashAdvanceResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return CashAdvanceResponse{}, cashadvanceerrors.ErrInvalidAdvanceID
	}
	if req.Notes == "" {
		return CashAdvanceResponse{}, cashadvanceerrors.ErrNotesRequired
	}

	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CashAdvanceResponse{}, cashadvanceerrors.ErrAdvanceNotFound
		}
		return CashAdvanceResponse{}, err
	}
	if a.Status != StatusPending {
		return CashAdvanceResponse{}, cashadvanceerrors.ErrNotPending
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return CashAdvanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rejected, err := qtx.RejectIfPending(ctx, id, req.Notes)
	if err != nil {
		s.logger.Error("reject advance persist failed", zap.Error(err))
		return CashAdvanceResponse{}, err
	}
	if !rejected {
		return CashAdvanceResponse{}, cashadvanceerrors.ErrNotPending
	}

	if err := s.sink.WithTx(tx).Record(ctx, audit.Entry{
		ActorID:    actorID,
		Action:     "cashadvance.reject",
		EntityType: "cash_advance",
		EntityID:   id,
		Summary:    "advance rejected",
	}); err != nil {
		return CashAdvanceResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return CashAdvanceResponse{}, err
	}

	a.Status = StatusRejected
	a.Notes = &req.Notes
	s.logger.Info("reject advance success", zap.String("cash_advance_id", id))
	return mapToResponse(*a), nil
}

// RecordPayment appends a repayment row and moves the balance. The
// advance row is read under FOR UPDATE so two concurrent payments
// cannot both pass the balance check.
func (s *service) RecordPayment(ctx context.Context, actorID, id string, req RecordPaymentRequest) (PaymentResultResponse, error) {
	s.logger.Debug("record advance payment",
		zap.String("cash_advance_id", id),
		zap.String("actor_id", actorID),
	)

	if _, err := uuid.Parse(id); err != nil {
		return PaymentResultResponse{}, cashadvanceerrors.ErrInvalidAdvanceID
	}
	processorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return PaymentResultResponse{}, cashadvanceerrors.ErrInvalidActorID
	}
	if !req.Amount.IsPositive() {
		return PaymentResultResponse{}, cashadvanceerrors.ErrNonPositiveAmount
	}

	paymentDate := s.clk.Now()
	if req.PaymentDate != "" {
		parsed, err := time.Parse("2006-01-02", req.PaymentDate)
		if err != nil {
			return PaymentResultResponse{}, cashadvanceerrors.ErrInvalidPaymentDate
		}
		paymentDate = parsed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("record payment begin tx failed", zap.Error(err))
		return PaymentResultResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	a, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return PaymentResultResponse{}, cashadvanceerrors.ErrAdvanceNotFound
		}
		return PaymentResultResponse{}, err
	}

	if a.Status != StatusApproved && a.Status != StatusRepaying {
		return PaymentResultResponse{}, cashadvanceerrors.ErrNotRepayable
	}

	amount := req.Amount.Round(2)
	if amount.GreaterThan(a.Balance) {
		return PaymentResultResponse{}, cashadvanceerrors.ErrPaymentExceedsBalance
	}

	repayment := &Repayment{
		ID:            uuid.New(),
		CashAdvanceID: a.ID,
		RepaymentDate: paymentDate,
		Amount:        amount,
		PaymentMethod: req.PaymentMethod,
		ProcessedBy:   processorUUID,
	}
	if err := qtx.CreateRepayment(ctx, repayment); err != nil {
		s.logger.Error("record payment insert repayment failed", zap.Error(err))
		return PaymentResultResponse{}, mapRepositoryError(err)
	}

	a.Balance = a.Balance.Sub(amount)
	a.RepaymentAmount = a.RepaymentAmount.Add(amount)

	completed := a.Balance.LessThanOrEqual(CompletionTolerance)
	if completed {
		now := s.clk.Now()
		a.Status = StatusCompleted
		a.CompletedAt = &now

		if a.DeductionID != nil {
			if _, err := s.deductionRepo.WithTx(tx).SetActive(ctx, a.DeductionID.String(), false); err != nil {
				s.logger.Error("record payment deactivate deduction failed", zap.Error(err))
				return PaymentResultResponse{}, err
			}
		}

		if err := s.enqueueCompletedEvent(ctx, tx, a, actorID); err != nil {
			return PaymentResultResponse{}, err
		}
	} else {
		a.Status = StatusRepaying
	}

	if err := qtx.UpdateRepaymentState(ctx, a); err != nil {
		s.logger.Error("record payment persist failed", zap.Error(err))
		return PaymentResultResponse{}, err
	}

	if err := s.sink.WithTx(tx).Record(ctx, audit.Entry{
		ActorID:    actorID,
		Action:     "cashadvance.record_payment",
		EntityType: "cash_advance",
		EntityID:   a.ID.String(),
		Summary: fmt.Sprintf("payment of %s recorded, balance %s",
			amount.StringFixed(2), a.Balance.StringFixed(2)),
	}); err != nil {
		return PaymentResultResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("record payment commit failed", zap.Error(err))
		return PaymentResultResponse{}, err
	}

	s.logger.Info("record payment success",
		zap.String("cash_advance_id", a.ID.String()),
		zap.String("new_status", a.Status),
		zap.String("new_balance", a.Balance.StringFixed(2)),
	)
	return PaymentResultResponse{
		CashAdvanceID: a.ID.String(),
		NewBalance:    a.Balance.StringFixed(2),
		NewStatus:     a.Status,
	}, nil
}

func (s *service) enqueueCompletedEvent(ctx context.Context, tx *sql.Tx, a *CashAdvance, actorID string) error {
	if s.outboxRepo == nil {
		return nil
	}

	event := events.CashAdvanceCompletedEvent{
		EventType:     "cashadvance_completed",
		CashAdvanceID: a.ID.String(),
		WorkerID:      a.WorkerID.String(),
		Amount:        a.Amount.StringFixed(2),
		ProcessedBy:   actorID,
		OccurredAt:    s.clk.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outboxRepo.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "cash_advance",
		AggregateID:   a.ID.String(),
		EventType:     "cashadvance_completed",
		Topic:         events.CashAdvanceCompletedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) GetAll(ctx context.Context) ([]CashAdvanceResponse, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetAllByWorker(ctx context.Context, workerID string) ([]CashAdvanceResponse, error) {
	if _, err := uuid.Parse(workerID); err != nil {
		return nil, crewerrors.ErrInvalidWorkerID
	}

	rows, err := s.repo.FindAllByWorker(ctx, workerID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetByID(ctx context.Context, id string) (CashAdvanceResponse, []RepaymentResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return CashAdvanceResponse{}, nil, cashadvanceerrors.ErrInvalidAdvanceID
	}

	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CashAdvanceResponse{}, nil, cashadvanceerrors.ErrAdvanceNotFound
		}
		return CashAdvanceResponse{}, nil, err
	}

	repayments, err := s.repo.ListRepayments(ctx, id)
	if err != nil {
		return CashAdvanceResponse{}, nil, err
	}

	history := make([]RepaymentResponse, len(repayments))
	for i, p := range repayments {
		history[i] = mapRepaymentToResponse(p)
	}
	return mapToResponse(*a), history, nil
}
