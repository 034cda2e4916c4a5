package leave

import (
	"time"

	"leavedesk/internal/auth"

	"github.com/google/uuid"
)

type Leave struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID  `gorm:"type:uuid;not null;index:idx_leaves_employee_created"`
	Employee   *auth.User `gorm:"foreignKey:EmployeeID"`

	LeaveType string    `gorm:"type:varchar(20);not null;index"`
	FromDate  time.Time `gorm:"type:date;not null"`
	ToDate    time.Time `gorm:"type:date;not null"`
	Reason    string    `gorm:"type:text;not null"`

	Status string `gorm:"type:varchar(20);not null;default:'pending';index"`

	// ReviewedBy/ReviewedAt are set together on approve or reject and are
	// never cleared afterward.
	ReviewedBy *uuid.UUID `gorm:"type:uuid"`
	Reviewer   *auth.User `gorm:"foreignKey:ReviewedBy"`
	ReviewedAt *time.Time

	CreatedAt time.Time `gorm:"index:idx_leaves_employee_created"`
	UpdatedAt time.Time
}
