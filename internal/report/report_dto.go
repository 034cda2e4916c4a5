package report

// DashboardStats aggregates the counters shown on the admin dashboard.
type DashboardStats struct {
	TotalEmployees int64 `json:"total_employees"`
	TotalLeaves    int64 `json:"total_leaves"`
	Pending        int64 `json:"pending"`
	Approved       int64 `json:"approved"`
	Rejected       int64 `json:"rejected"`
	Cancelled      int64 `json:"cancelled"`
}
