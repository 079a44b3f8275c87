package crew

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=crew_repo.go -destination=mock/crew_repo_mock.go -package=mock
type Repository interface {
	FindByID(ctx context.Context, id string) (*Worker, error)
	FindAll(ctx context.Context) ([]Worker, error)
	FindActive(ctx context.Context) ([]Worker, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id string) (*Worker, error) {
	var w Worker
	err := r.db.WithContext(ctx).First(&w, "id = ?", id).Error
	return &w, err
}

func (r *repository) FindAll(ctx context.Context) ([]Worker, error) {
	var workers []Worker
	err := r.db.WithContext(ctx).
		Order("full_name ASC").
		Find(&workers).Error
	return workers, err
}

// FindActive returns the workers payroll generation iterates: active
// employment and not archived.
func (r *repository) FindActive(ctx context.Context) ([]Worker, error) {
	var workers []Worker
	err := r.db.WithContext(ctx).
		Where("employment_status = ?", EmploymentActive).
		Where("is_archived = false").
		Order("full_name ASC").
		Find(&workers).Error
	return workers, err
}

func (r *repository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Worker{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}
