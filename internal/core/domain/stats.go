package domain

// CategoryCount is one slice of the per-category request breakdown.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// DashboardStats is the read-only aggregation served to the staff
// dashboard. All sums default to zero over empty inputs.
type DashboardStats struct {
	TotalRequests      int             `json:"total_requests"`
	Pending            int             `json:"pending"`
	Validated          int             `json:"validated"`
	Refused            int             `json:"refused"`
	Paid               int             `json:"paid"`
	Students           int             `json:"students"`
	StudentsPending    int             `json:"students_pending"`
	TotalRevenue       float64         `json:"total_revenue"`
	RequestsThisMonth  int             `json:"requests_this_month"`
	ValidatedThisMonth int             `json:"validated_this_month"`
	ByCategory         []CategoryCount `json:"by_category"`
}
