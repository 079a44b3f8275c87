package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TrailRow is the materialized audit trail written by the consumer.
type TrailRow struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ActorID    string    `gorm:"column:actor_id;type:varchar(64);index"`
	Action     string    `gorm:"column:action;type:varchar(64);not null"`
	EntityType string    `gorm:"column:entity_type;type:varchar(64);not null"`
	EntityID   string    `gorm:"column:entity_id;type:varchar(64);index"`
	Summary    string    `gorm:"column:summary;type:text"`
	OccurredAt time.Time `gorm:"column:occurred_at;type:timestamptz;not null"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (TrailRow) TableName() string {
	return "audit_trail"
}

//go:generate mockgen -source=log_repo.go -destination=mock/log_repo_mock.go -package=mock
type TrailRepository interface {
	Insert(ctx context.Context, row *TrailRow) error
}

type trailRepository struct {
	db *gorm.DB
}

func NewTrailRepository(db *gorm.DB) TrailRepository {
	return &trailRepository{db: db}
}

func (r *trailRepository) Insert(ctx context.Context, row *TrailRow) error {
	// ON CONFLICT DO NOTHING keeps redelivered events idempotent.
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO audit_trail (id, actor_id, action, entity_type, entity_id, summary, occurred_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, now())
		ON CONFLICT (id) DO NOTHING
	`, row.ID, row.ActorID, row.Action, row.EntityType, row.EntityID, row.Summary, row.OccurredAt).Error
}
