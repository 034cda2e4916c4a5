package report

import (
	"context"

	"leavedesk/internal/auth"
	"leavedesk/internal/domain"
	"leavedesk/internal/leave"

	"gorm.io/gorm"
)

type Repository interface {
	CountEmployees(ctx context.Context) (int64, error)
	CountLeavesByStatus(ctx context.Context) (map[string]int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) CountEmployees(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&auth.User{}).
		Where("role = ?", domain.RoleEmployee).
		Count(&count).Error
	return count, err
}

func (r *gormRepository) CountLeavesByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Total  int64
	}

	var rows []row
	err := r.db.WithContext(ctx).
		Model(&leave.Leave{}).
		Select("status, count(*) as total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Status] = rw.Total
	}
	return counts, nil
}
