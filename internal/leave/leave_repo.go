package leave

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// WithTx returns a repository whose conditional writes run on tx, so a
	// status transition can commit together with an outbox insert.
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *Leave) error
	FindByID(ctx context.Context, id string) (*Leave, error)
	FindByEmployee(ctx context.Context, employeeID, status string) ([]Leave, error)
	FindAll(ctx context.Context, f ListFilter) ([]Leave, error)
	// UpdatePendingFields applies field edits only while the record is still
	// pending. Returns false when the conditional write matched no row.
	UpdatePendingFields(ctx context.Context, id string, fields map[string]any) (bool, error)
	// TransitionStatus moves a record from one of the given statuses to the
	// target status in a single conditional write. Returns false when the
	// record was not in an eligible status at write time.
	TransitionStatus(ctx context.Context, id string, from []string, to string, reviewedBy *uuid.UUID, reviewedAt *time.Time) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, l *Leave) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Leave, error) {
	var l Leave
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Reviewer").
		First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID, status string) ([]Leave, error) {
	db := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Reviewer").
		Where("employee_id = ?", employeeID).
		Order("created_at DESC")

	if status != "" {
		db = db.Where("status = ?", status)
	}

	var leaves []Leave
	err := db.Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindAll(ctx context.Context, f ListFilter) ([]Leave, error) {
	db := r.db.WithContext(ctx).
		Model(&Leave{}).
		Preload("Employee").
		Preload("Reviewer").
		Order("leaves.created_at DESC")

	if f.Status != "" {
		db = db.Where("leaves.status = ?", f.Status)
	}
	if f.LeaveType != "" {
		db = db.Where("leaves.leave_type = ?", f.LeaveType)
	}
	if f.EmployeeName != "" {
		db = db.
			Joins("JOIN users ON users.id = leaves.employee_id").
			Where("users.name ILIKE ?", "%"+f.EmployeeName+"%")
	}

	var leaves []Leave
	err := db.Find(&leaves).Error
	return leaves, err
}

func (r *repository) UpdatePendingFields(ctx context.Context, id string, fields map[string]any) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Leave{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) TransitionStatus(ctx context.Context, id string, from []string, to string, reviewedBy *uuid.UUID, reviewedAt *time.Time) (bool, error) {
	if r.tx != nil {
		return r.transitionStatusTx(ctx, id, from, to, reviewedBy, reviewedAt)
	}

	updates := map[string]any{"status": to}
	if reviewedBy != nil {
		updates["reviewed_by"] = *reviewedBy
		updates["reviewed_at"] = *reviewedAt
	}

	res := r.db.WithContext(ctx).
		Model(&Leave{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) transitionStatusTx(ctx context.Context, id string, from []string, to string, reviewedBy *uuid.UUID, reviewedAt *time.Time) (bool, error) {
	args := []any{id, to}
	set := "status = $2, updated_at = NOW()"
	if reviewedBy != nil {
		args = append(args, *reviewedBy, *reviewedAt)
		set += ", reviewed_by = $3, reviewed_at = $4"
	}

	in := make([]string, len(from))
	for i, status := range from {
		args = append(args, status)
		in[i] = fmt.Sprintf("$%d", len(args))
	}

	query := fmt.Sprintf(
		"UPDATE leaves SET %s WHERE id = $1 AND status IN (%s)",
		set, strings.Join(in, ", "),
	)
	res, err := r.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
