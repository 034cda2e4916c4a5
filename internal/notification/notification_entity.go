package notification

import (
	"time"

	"github.com/google/uuid"
)

// Notification is materialized by the leave decision consumer; rows are
// append-only.
type Notification struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_notifications_employee_created"`
	LeaveID    uuid.UUID `gorm:"type:uuid;not null"`
	EventType  string    `gorm:"type:varchar(50);not null"`
	Message    string    `gorm:"type:text;not null"`
	CreatedAt  time.Time `gorm:"index:idx_notifications_employee_created"`
}
