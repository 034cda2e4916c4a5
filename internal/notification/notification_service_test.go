package notification

import (
	"context"
	"testing"
	"time"

	"leavedesk/internal/domain"
	"leavedesk/internal/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeRepo struct {
	createFn         func(ctx context.Context, n *Notification) error
	findByEmployeeFn func(ctx context.Context, employeeID string, limit int) ([]Notification, error)
}

func (f *fakeRepo) Create(ctx context.Context, n *Notification) error { return f.createFn(ctx, n) }
func (f *fakeRepo) FindByEmployee(ctx context.Context, employeeID string, limit int) ([]Notification, error) {
	return f.findByEmployeeFn(ctx, employeeID, limit)
}

func TestService_RecordDecision(t *testing.T) {
	employeeID := uuid.New()
	leaveID := uuid.New()

	var saved Notification
	repo := &fakeRepo{
		createFn: func(ctx context.Context, n *Notification) error { saved = *n; return nil },
	}
	svc := NewService(repo)

	err := svc.RecordDecision(context.Background(), events.LeaveDecidedEvent{
		EventType:  events.EventLeaveApproved,
		LeaveID:    leaveID.String(),
		EmployeeID: employeeID.String(),
		LeaveType:  "vacation",
		FromDate:   "2027-03-01",
		ToDate:     "2027-03-05",
		OccurredAt: time.Now().UTC(),
	})
	assert.NoError(t, err)
	assert.Equal(t, employeeID, saved.EmployeeID)
	assert.Equal(t, leaveID, saved.LeaveID)
	assert.Equal(t, events.EventLeaveApproved, saved.EventType)
	assert.Contains(t, saved.Message, "approved")
	assert.Contains(t, saved.Message, "2027-03-01")
}

func TestService_RecordDecision_Rejected(t *testing.T) {
	var saved Notification
	repo := &fakeRepo{
		createFn: func(ctx context.Context, n *Notification) error { saved = *n; return nil },
	}
	svc := NewService(repo)

	err := svc.RecordDecision(context.Background(), events.LeaveDecidedEvent{
		EventType:  events.EventLeaveRejected,
		LeaveID:    uuid.NewString(),
		EmployeeID: uuid.NewString(),
		LeaveType:  "sick",
		FromDate:   "2027-03-01",
		ToDate:     "2027-03-02",
	})
	assert.NoError(t, err)
	assert.Contains(t, saved.Message, "rejected")
}

func TestService_RecordDecision_BadIDs(t *testing.T) {
	repo := &fakeRepo{
		createFn: func(ctx context.Context, n *Notification) error {
			t.Fatal("create must not be called for a malformed event")
			return nil
		},
	}
	svc := NewService(repo)

	err := svc.RecordDecision(context.Background(), events.LeaveDecidedEvent{
		EventType:  events.EventLeaveApproved,
		LeaveID:    "not-a-uuid",
		EmployeeID: uuid.NewString(),
	})
	assert.Error(t, err)
}

func TestService_ListMine(t *testing.T) {
	actor := domain.Identity{ID: uuid.New(), Role: domain.RoleEmployee}

	repo := &fakeRepo{
		findByEmployeeFn: func(ctx context.Context, employeeID string, limit int) ([]Notification, error) {
			assert.Equal(t, actor.ID.String(), employeeID)
			return []Notification{
				{ID: uuid.New(), LeaveID: uuid.New(), EventType: events.EventLeaveApproved,
					Message: "Your vacation leave request from 2027-03-01 to 2027-03-05 was approved.", CreatedAt: time.Now()},
			}, nil
		},
	}
	svc := NewService(repo)

	resp, err := svc.ListMine(context.Background(), actor)
	assert.NoError(t, err)
	if assert.Len(t, resp, 1) {
		assert.Equal(t, events.EventLeaveApproved, resp[0].EventType)
	}
}
