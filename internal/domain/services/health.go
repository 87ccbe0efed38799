package services

import "context"

// HealthReport is the /api/health body. Cache is present only when a cache
// is configured.
type HealthReport struct {
	Status    string `json:"status"`
	DB        string `json:"db"`
	Cache     string `json:"cache,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// Healthy reports whether the database check passed.
func (r *HealthReport) Healthy() bool { return r.Status == "ok" }

type HealthService interface {
	Check(ctx context.Context) *HealthReport
}
