package domain

// SystemStats is the aggregate view served to administrators.
type SystemStats struct {
	Users         int     `json:"users"`
	ActiveUsers   int     `json:"active_users"`
	EnrolledUsers int     `json:"enrolled_users"`
	Faces         int     `json:"faces"`
	AvgQuality    float64 `json:"avg_quality"`
	Events24h     int     `json:"events_24h"`
	Success24h    int     `json:"success_24h"`
	AvgLatencyMs  float64 `json:"avg_latency_ms"`
}
