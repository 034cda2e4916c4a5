package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"leavedesk/internal/auth"
	"leavedesk/internal/domain"
	"leavedesk/internal/events"
	leaveerrors "leavedesk/internal/leave/errors"
	"leavedesk/internal/messaging/kafka"
	"leavedesk/internal/shared/apperror"
	"leavedesk/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

const (
	TypeSick     = "sick"
	TypeVacation = "vacation"
	TypePersonal = "personal"
	TypeOther    = "other"
)

const (
	dateLayout          = "2006-01-02"
	minReasonLen        = 10
	maxReasonLen        = 500
	defaultStoreTimeout = 5 * time.Second
)

func ValidLeaveType(t string) bool {
	switch t {
	case TypeSick, TypeVacation, TypePersonal, TypeOther:
		return true
	}
	return false
}

type Service interface {
	Apply(ctx context.Context, actor domain.Identity, req ApplyLeaveRequest) (LeaveResponse, error)
	GetMine(ctx context.Context, actor domain.Identity, status string) ([]LeaveResponse, error)
	GetAll(ctx context.Context, f ListFilter) ([]LeaveResponse, error)
	GetByID(ctx context.Context, actor domain.Identity, id string) (LeaveResponse, error)
	Update(ctx context.Context, actor domain.Identity, id string, req UpdateLeaveRequest) (LeaveResponse, error)
	Cancel(ctx context.Context, actor domain.Identity, id string) (LeaveResponse, error)
	Approve(ctx context.Context, actor domain.Identity, id string) (LeaveResponse, error)
	Reject(ctx context.Context, actor domain.Identity, id string) (LeaveResponse, error)
}

type service struct {
	db           *sql.DB
	repo         Repository
	outbox       kafka.OutboxRepository
	storeTimeout time.Duration
	logger       *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, nil, logger...)
}

func NewServiceWithOutbox(db *sql.DB, repo Repository, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, outbox: outbox, storeTimeout: defaultStoreTimeout, logger: l}
}

func (s *service) Apply(ctx context.Context, actor domain.Identity, req ApplyLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("apply leave requested",
		zap.String("employee_id", actor.ID.String()),
		zap.String("leave_type", req.LeaveType),
		zap.String("from_date", req.FromDate),
		zap.String("to_date", req.ToDate),
	)

	fromDate, toDate, reason, err := validateLeaveFields(req.LeaveType, req.FromDate, req.ToDate, req.Reason)
	if err != nil {
		s.logger.Warn("apply leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	// The past-date rule is enforced only when a request is first filed.
	if fromDate.Before(today()) {
		return LeaveResponse{}, leaveerrors.ErrFromDateInPast
	}

	l := &Leave{
		ID:         uuid.New(),
		EmployeeID: actor.ID,
		LeaveType:  req.LeaveType,
		FromDate:   fromDate,
		ToDate:     toDate,
		Reason:     reason,
		Status:     StatusPending,
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	if err := s.repo.Create(ctx, l); err != nil {
		s.logger.Error("apply leave persist failed", zap.Error(err))
		return LeaveResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("apply leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", actor.ID.String()),
	)

	// The caller is the owner, so the denormalized identity fields come
	// straight from the resolved actor without a second read.
	l.Employee = ownerStub(actor)
	return mapToResponse(*l), nil
}

func (s *service) GetMine(ctx context.Context, actor domain.Identity, status string) ([]LeaveResponse, error) {
	if status == "all" {
		status = ""
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	leaves, err := s.repo.FindByEmployee(ctx, actor.ID.String(), status)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetAll(ctx context.Context, f ListFilter) ([]LeaveResponse, error) {
	if f.Status == "all" {
		f.Status = ""
	}
	if f.LeaveType == "all" {
		f.LeaveType = ""
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	leaves, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetByID(ctx context.Context, actor domain.Identity, id string) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}

	if !actor.IsAdmin() && l.EmployeeID != actor.ID {
		return LeaveResponse{}, leaveerrors.ErrNotOwner
	}
	return mapToResponse(*l), nil
}

func (s *service) Update(ctx context.Context, actor domain.Identity, id string, req UpdateLeaveRequest) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}

	// Ownership is checked before the status gate; an admin editing someone
	// else's request is denied the same way any other caller is.
	if l.EmployeeID != actor.ID {
		return LeaveResponse{}, leaveerrors.ErrNotOwner
	}
	if l.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrIllegalTransition
	}

	leaveType := l.LeaveType
	if req.LeaveType != "" {
		leaveType = req.LeaveType
	}
	fromRaw := l.FromDate.Format(dateLayout)
	if req.FromDate != "" {
		fromRaw = req.FromDate
	}
	toRaw := l.ToDate.Format(dateLayout)
	if req.ToDate != "" {
		toRaw = req.ToDate
	}
	reasonRaw := l.Reason
	if req.Reason != "" {
		reasonRaw = req.Reason
	}

	fromDate, toDate, reason, err := validateLeaveFields(leaveType, fromRaw, toRaw, reasonRaw)
	if err != nil {
		s.logger.Warn("update leave validation failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	ok, err := s.repo.UpdatePendingFields(ctx, id, map[string]any{
		"leave_type": leaveType,
		"from_date":  fromDate,
		"to_date":    toDate,
		"reason":     reason,
	})
	if err != nil {
		s.logger.Error("update leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, mapRepositoryError(err)
	}
	if !ok {
		// The record left pending between the read and the conditional write.
		return LeaveResponse{}, leaveerrors.ErrIllegalTransition
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("update leave success", zap.String("leave_id", id))
	return mapToResponse(*updated), nil
}

func (s *service) Cancel(ctx context.Context, actor domain.Identity, id string) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}

	if l.EmployeeID != actor.ID {
		return LeaveResponse{}, leaveerrors.ErrNotOwner
	}
	if l.Status != StatusPending && l.Status != StatusApproved {
		return LeaveResponse{}, leaveerrors.ErrIllegalTransition
	}

	ok, err := s.repo.TransitionStatus(ctx, id, []string{StatusPending, StatusApproved}, StatusCancelled, nil, nil)
	if err != nil {
		s.logger.Error("cancel leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, mapRepositoryError(err)
	}
	if !ok {
		return LeaveResponse{}, leaveerrors.ErrIllegalTransition
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("cancel leave success",
		zap.String("leave_id", id),
		zap.String("from_status", l.Status),
	)
	return mapToResponse(*updated), nil
}

func (s *service) Approve(ctx context.Context, actor domain.Identity, id string) (LeaveResponse, error) {
	return s.decide(ctx, actor, id, StatusApproved)
}

func (s *service) Reject(ctx context.Context, actor domain.Identity, id string) (LeaveResponse, error) {
	return s.decide(ctx, actor, id, StatusRejected)
}

// decide performs the admin approve/reject transition. The status check and
// the reviewer stamp happen in one conditional write, so of two concurrent
// decisions on the same pending record exactly one wins.
func (s *service) decide(ctx context.Context, actor domain.Identity, id, targetStatus string) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}
	if l.Status != StatusPending {
		s.logger.Warn("decide leave invalid status",
			zap.String("leave_id", id),
			zap.String("from_status", l.Status),
			zap.String("to_status", targetStatus),
		)
		return LeaveResponse{}, leaveerrors.ErrIllegalTransition
	}

	if l.EmployeeID == actor.ID {
		// Nothing forbids an admin deciding their own request; surfaced in
		// the logs so the gap stays visible.
		s.logger.Warn("admin deciding own leave request",
			zap.String("leave_id", id),
			zap.String("admin_id", actor.ID.String()),
		)
	}

	now := time.Now().UTC()
	if s.outbox != nil && s.db != nil {
		if err := s.decideWithOutbox(ctx, *l, actor, targetStatus, now); err != nil {
			return LeaveResponse{}, err
		}
	} else {
		ok, err := s.repo.TransitionStatus(ctx, id, []string{StatusPending}, targetStatus, &actor.ID, &now)
		if err != nil {
			s.logger.Error("decide leave persist failed",
				zap.String("leave_id", id),
				zap.String("target_status", targetStatus),
				zap.Error(err),
			)
			return LeaveResponse{}, mapRepositoryError(err)
		}
		if !ok {
			// A concurrent decision committed first.
			return LeaveResponse{}, leaveerrors.ErrIllegalTransition
		}
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("decide leave success",
		zap.String("leave_id", id),
		zap.String("status", targetStatus),
		zap.String("reviewed_by", actor.ID.String()),
	)
	return mapToResponse(*updated), nil
}

// decideWithOutbox commits the status transition and the outbox row in one
// transaction, so a decision never lands without its event or vice versa.
func (s *service) decideWithOutbox(ctx context.Context, l Leave, actor domain.Identity, targetStatus string, now time.Time) error {
	eventType := events.EventLeaveApproved
	if targetStatus == StatusRejected {
		eventType = events.EventLeaveRejected
	}

	rid := contextutil.GetRequestID(ctx)
	payload, err := json.Marshal(events.LeaveDecidedEvent{
		EventType:  eventType,
		RequestID:  rid,
		LeaveID:    l.ID.String(),
		EmployeeID: l.EmployeeID.String(),
		ReviewedBy: actor.ID.String(),
		LeaveType:  l.LeaveType,
		FromDate:   l.FromDate.Format(dateLayout),
		ToDate:     l.ToDate.Format(dateLayout),
		OccurredAt: now,
	})
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapRepositoryError(err)
	}
	defer tx.Rollback()

	ok, err := s.repo.WithTx(tx).TransitionStatus(ctx, l.ID.String(), []string{StatusPending}, targetStatus, &actor.ID, &now)
	if err != nil {
		s.logger.Error("decide leave persist failed",
			zap.String("leave_id", l.ID.String()),
			zap.String("target_status", targetStatus),
			zap.Error(err),
		)
		return mapRepositoryError(err)
	}
	if !ok {
		// A concurrent decision committed first.
		return leaveerrors.ErrIllegalTransition
	}

	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "leave",
		AggregateID:   l.ID.String(),
		EventType:     eventType,
		Topic:         events.LeaveDecidedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("decide leave outbox persist failed",
			zap.String("leave_id", l.ID.String()),
			zap.Error(err),
		)
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return mapRepositoryError(err)
	}
	return nil
}

func validateLeaveFields(leaveType, fromRaw, toRaw, reasonRaw string) (time.Time, time.Time, string, error) {
	if !ValidLeaveType(leaveType) {
		return time.Time{}, time.Time{}, "", leaveerrors.ErrInvalidLeaveType
	}

	fromDate, err := parseDate(fromRaw)
	if err != nil {
		return time.Time{}, time.Time{}, "", err
	}
	toDate, err := parseDate(toRaw)
	if err != nil {
		return time.Time{}, time.Time{}, "", err
	}
	if toDate.Before(fromDate) {
		return time.Time{}, time.Time{}, "", leaveerrors.ErrInvalidDateRange
	}

	// Length bounds are in characters, not bytes.
	reason := strings.TrimSpace(reasonRaw)
	if n := utf8.RuneCountInString(reason); n < minReasonLen || n > maxReasonLen {
		return time.Time{}, time.Time{}, "", leaveerrors.ErrReasonLength
	}

	return fromDate, toDate, reason, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

// today returns midnight UTC of the current day, matching the date-only
// semantics of from/to dates.
func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func ownerStub(actor domain.Identity) *auth.User {
	return &auth.User{ID: actor.ID, Name: actor.Name, Email: actor.Email}
}

func mapRepositoryError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return leaveerrors.ErrLeaveNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return apperror.ErrStoreUnavailable
	default:
		return apperror.Wrap(err, apperror.CodeInternalError, "Leave storage error", http.StatusInternalServerError)
	}
}

func mapToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:         l.ID.String(),
		EmployeeID: l.EmployeeID.String(),
		LeaveType:  l.LeaveType,
		FromDate:   l.FromDate.Format(dateLayout),
		ToDate:     l.ToDate.Format(dateLayout),
		Reason:     l.Reason,
		Status:     l.Status,
		CreatedAt:  l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  l.UpdatedAt.Format(time.RFC3339),
	}
	if l.Employee != nil {
		resp.EmployeeName = l.Employee.Name
		resp.EmployeeEmail = l.Employee.Email
	}
	if l.ReviewedBy != nil {
		v := l.ReviewedBy.String()
		resp.ReviewedBy = &v
	}
	if l.Reviewer != nil {
		name := l.Reviewer.Name
		email := l.Reviewer.Email
		resp.ReviewerName = &name
		resp.ReviewerEmail = &email
	}
	if l.ReviewedAt != nil {
		v := l.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	return resp
}

func mapToListResponse(leaves []Leave) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
