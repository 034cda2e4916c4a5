package notification

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"leavedesk/internal/domain"
	"leavedesk/internal/events"
	"leavedesk/internal/shared/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultListLimit    = 50
	defaultStoreTimeout = 5 * time.Second
)

type Service interface {
	RecordDecision(ctx context.Context, event events.LeaveDecidedEvent) error
	ListMine(ctx context.Context, actor domain.Identity) ([]NotificationResponse, error)
}

type service struct {
	repo         Repository
	storeTimeout time.Duration
	logger       *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{repo: repo, storeTimeout: defaultStoreTimeout, logger: l}
}

// RecordDecision materializes a notification row for a decided leave request.
func (s *service) RecordDecision(ctx context.Context, event events.LeaveDecidedEvent) error {
	employeeID, err := uuid.Parse(event.EmployeeID)
	if err != nil {
		return fmt.Errorf("parse employee id %q: %w", event.EmployeeID, err)
	}
	leaveID, err := uuid.Parse(event.LeaveID)
	if err != nil {
		return fmt.Errorf("parse leave id %q: %w", event.LeaveID, err)
	}

	verb := "approved"
	if event.EventType == events.EventLeaveRejected {
		verb = "rejected"
	}

	n := &Notification{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		LeaveID:    leaveID,
		EventType:  event.EventType,
		Message: fmt.Sprintf("Your %s leave request from %s to %s was %s.",
			event.LeaveType, event.FromDate, event.ToDate, verb),
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error("record decision failed",
			zap.String("leave_id", event.LeaveID),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("notification recorded",
		zap.String("notification_id", n.ID.String()),
		zap.String("employee_id", event.EmployeeID),
		zap.String("event_type", event.EventType),
	)
	return nil
}

func (s *service) ListMine(ctx context.Context, actor domain.Identity) ([]NotificationResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	notifications, err := s.repo.FindByEmployee(ctx, actor.ID.String(), defaultListLimit)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperror.ErrStoreUnavailable
		}
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "Notification storage error", http.StatusInternalServerError)
	}

	resp := make([]NotificationResponse, len(notifications))
	for i, n := range notifications {
		resp[i] = NotificationResponse{
			ID:        n.ID.String(),
			LeaveID:   n.LeaveID.String(),
			EventType: n.EventType,
			Message:   n.Message,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		}
	}
	return resp, nil
}
