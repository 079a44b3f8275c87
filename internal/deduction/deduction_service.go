package deduction

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"crewpay/internal/audit"
	"crewpay/internal/crew"
	crewerrors "crewpay/internal/crew/errors"
	deductionerrors "crewpay/internal/deduction/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=deduction_service.go -destination=mock/deduction_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateDeductionRequest) (DeductionResponse, error)
	GetAllByWorker(ctx context.Context, workerID string) ([]DeductionResponse, error)
	ActiveForPayroll(ctx context.Context, workerID string, periodStart, periodEnd time.Time) ([]DeductionResponse, error)
	TotalFor(ctx context.Context, workerID string, periodStart, periodEnd time.Time) (decimal.Decimal, error)
	ToggleActive(ctx context.Context, actorID, id string) (DeductionResponse, error)
	Delete(ctx context.Context, actorID, id string) error
}

type service struct {
	db       *sql.DB
	repo     Repository
	crewRepo crew.Repository
	sink     audit.Sink
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, crewRepo crew.Repository, sink audit.Sink, logger ...*zap.Logger) Service {
	l := zap.L().Named("deduction.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("deduction.service")
	}
	return &service{db: db, repo: repo, crewRepo: crewRepo, sink: sink, logger: l}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateDeductionRequest) (DeductionResponse, error) {
	s.logger.Debug("create deduction requested",
		zap.String("actor_id", actorID),
		zap.String("worker_id", req.WorkerID),
		zap.String("deduction_type", req.DeductionType),
	)

	workerUUID, err := uuid.Parse(req.WorkerID)
	if err != nil {
		return DeductionResponse{}, crewerrors.ErrInvalidWorkerID
	}
	if !IsValidType(req.DeductionType) {
		return DeductionResponse{}, deductionerrors.ErrInvalidDeductionType
	}
	if req.Frequency != FrequencyPerPayroll && req.Frequency != FrequencyOneTime {
		return DeductionResponse{}, deductionerrors.ErrInvalidFrequency
	}
	if !req.Amount.IsPositive() {
		return DeductionResponse{}, deductionerrors.ErrNonPositiveAmount
	}

	exists, err := s.crewRepo.Exists(ctx, req.WorkerID)
	if err != nil {
		return DeductionResponse{}, err
	}
	if !exists {
		return DeductionResponse{}, crewerrors.ErrWorkerNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create deduction begin tx failed", zap.Error(err))
		return DeductionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	d := &Deduction{
		ID:            uuid.New(),
		WorkerID:      workerUUID,
		DeductionType: req.DeductionType,
		Amount:        req.Amount.Round(2),
		Description:   req.Description,
		Frequency:     req.Frequency,
		Status:        StatusApplied,
		IsActive:      true,
	}

	if err := qtx.Create(ctx, d); err != nil {
		s.logger.Error("create deduction persist failed", zap.Error(err))
		return DeductionResponse{}, mapRepositoryError(err)
	}

	if err := s.sink.WithTx(tx).Record(ctx, audit.Entry{
		ActorID:    actorID,
		Action:     "deduction.create",
		EntityType: "deduction",
		EntityID:   d.ID.String(),
		Summary:    fmt.Sprintf("%s deduction of %s (%s)", d.DeductionType, d.Amount.StringFixed(2), d.Frequency),
	}); err != nil {
		return DeductionResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create deduction commit failed", zap.Error(err))
		return DeductionResponse{}, err
	}

	s.logger.Info("create deduction success",
		zap.String("deduction_id", d.ID.String()),
		zap.String("worker_id", req.WorkerID),
	)
	return mapToResponse(*d), nil
}

func (s *service) GetAllByWorker(ctx context.Context, workerID string) ([]DeductionResponse, error) {
	if _, err := uuid.Parse(workerID); err != nil {
		return nil, crewerrors.ErrInvalidWorkerID
	}

	rows, err := s.repo.FindAllByWorker(ctx, workerID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) ActiveForPayroll(ctx context.Context, workerID string, periodStart, periodEnd time.Time) ([]DeductionResponse, error) {
	if _, err := uuid.Parse(workerID); err != nil {
		return nil, crewerrors.ErrInvalidWorkerID
	}

	rows, err := s.repo.ActiveForPayroll(ctx, workerID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) TotalFor(ctx context.Context, workerID string, periodStart, periodEnd time.Time) (decimal.Decimal, error) {
	if _, err := uuid.Parse(workerID); err != nil {
		return decimal.Zero, crewerrors.ErrInvalidWorkerID
	}

	rows, err := s.repo.ActiveForPayroll(ctx, workerID, periodStart, periodEnd)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, d := range rows {
		total = total.Add(d.Amount)
	}
	return total, nil
}

func (s *service) ToggleActive(ctx context.Context, actorID, id string) (DeductionResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return DeductionResponse{}, deductionerrors.ErrInvalidDeductionID
	}

	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DeductionResponse{}, deductionerrors.ErrDeductionNotFound
		}
		return DeductionResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DeductionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	target := !d.IsActive

	updated, err := qtx.SetActive(ctx, id, target)
	if err != nil {
		s.logger.Error("toggle deduction persist failed", zap.String("deduction_id", id), zap.Error(err))
		return DeductionResponse{}, err
	}
	if !updated {
		return DeductionResponse{}, deductionerrors.ErrDeductionNotFound
	}

	if err := s.sink.WithTx(tx).Record(ctx, audit.Entry{
		ActorID:    actorID,
		Action:     "deduction.toggle_active",
		EntityType: "deduction",
		EntityID:   id,
		Summary:    fmt.Sprintf("is_active set to %t", target),
	}); err != nil {
		return DeductionResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return DeductionResponse{}, err
	}

	d.IsActive = target
	s.logger.Info("toggle deduction success",
		zap.String("deduction_id", id),
		zap.Bool("is_active", target),
	)
	return mapToResponse(*d), nil
}

// Delete refuses rows generated by a cash advance; those are retired by
// the advance completing, not by hand.
func (s *service) Delete(ctx context.Context, actorID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return deductionerrors.ErrInvalidDeductionID
	}

	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return deductionerrors.ErrDeductionNotFound
		}
		return err
	}
	if d.CashAdvanceID != nil {
		return deductionerrors.ErrLinkedToCashAdvance
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.SoftDelete(ctx, id); err != nil {
		s.logger.Error("delete deduction persist failed", zap.String("deduction_id", id), zap.Error(err))
		return err
	}

	if err := s.sink.WithTx(tx).Record(ctx, audit.Entry{
		ActorID:    actorID,
		Action:     "deduction.delete",
		EntityType: "deduction",
		EntityID:   id,
		Summary:    fmt.Sprintf("%s deduction removed", d.DeductionType),
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("delete deduction success", zap.String("deduction_id", id))
	return nil
}
