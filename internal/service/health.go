package service

import (
	"context"
	"time"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/repositories"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/services"
)

const healthCheckTimeout = 3 * time.Second

type HealthService struct {
	db    repositories.Pinger
	cache repositories.Pinger // nil when no cache is configured
	now   func() time.Time
}

func NewHealthService(db, cache repositories.Pinger) *HealthService {
	return &HealthService{db: db, cache: cache, now: time.Now}
}

var _ services.HealthService = (*HealthService)(nil)

// Check pings the database (and cache, if any). Only the database decides
// the overall status.
func (s *HealthService) Check(ctx context.Context) *services.HealthReport {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	report := &services.HealthReport{Status: "ok", DB: "ok", Timestamp: s.now().UnixMilli()}
	if err := s.db.Ping(ctx); err != nil {
		report.Status = "error"
		report.DB = err.Error()
	}
	if s.cache != nil {
		report.Cache = "ok"
		if err := s.cache.Ping(ctx); err != nil {
			report.Cache = err.Error()
		}
	}
	return report
}
