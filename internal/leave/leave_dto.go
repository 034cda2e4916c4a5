package leave

type ApplyLeaveRequest struct {
	LeaveType string `json:"leave_type" binding:"required,oneof=sick vacation personal other"`
	FromDate  string `json:"from_date" binding:"required"`
	ToDate    string `json:"to_date" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
}

// UpdateLeaveRequest supports partial edits: empty fields keep the stored
// value, the merged result passes the same validation gate as Apply.
type UpdateLeaveRequest struct {
	LeaveType string `json:"leave_type" binding:"omitempty,oneof=sick vacation personal other"`
	FromDate  string `json:"from_date"`
	ToDate    string `json:"to_date"`
	Reason    string `json:"reason"`
}

type LeaveResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  string  `json:"employee_name,omitempty"`
	EmployeeEmail string  `json:"employee_email,omitempty"`
	LeaveType     string  `json:"leave_type"`
	FromDate      string  `json:"from_date"`
	ToDate        string  `json:"to_date"`
	Reason        string  `json:"reason"`
	Status        string  `json:"status"`
	ReviewedBy    *string `json:"reviewed_by,omitempty"`
	ReviewerName  *string `json:"reviewer_name,omitempty"`
	ReviewerEmail *string `json:"reviewer_email,omitempty"`
	ReviewedAt    *string `json:"reviewed_at,omitempty"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

// ListFilter narrows the admin listing. Empty or "all" disables a filter.
type ListFilter struct {
	EmployeeName string
	LeaveType    string
	Status       string
}
