package report

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"leavedesk/internal/leave"
	"leavedesk/internal/shared/apperror"
	"leavedesk/internal/shared/contextutil"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	dashboardCacheKey = "reports:dashboard"
	dashboardCacheTTL = 30 * time.Second
	storeTimeout      = 5 * time.Second
)

type Service interface {
	Dashboard(ctx context.Context) (DashboardStats, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	group  singleflight.Group
	logger *zap.Logger
}

// NewService builds the dashboard service. rdb may be nil, in which case
// every call hits the database directly.
func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("report.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.service")
	}
	return &service{repo: repo, rdb: rdb, logger: l}
}

func (s *service) Dashboard(ctx context.Context) (DashboardStats, error) {
	s.logger.Debug("dashboard requested", zap.String("user_id", contextutil.GetUserID(ctx)))

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if stats, ok := s.fromCache(ctx); ok {
		return stats, nil
	}

	// Concurrent cache misses collapse into one database round trip.
	v, err, _ := s.group.Do(dashboardCacheKey, func() (any, error) {
		return s.loadStats(ctx)
	})
	if err != nil {
		return DashboardStats{}, err
	}

	stats := v.(DashboardStats)
	s.storeCache(ctx, stats)
	return stats, nil
}

func (s *service) loadStats(ctx context.Context) (DashboardStats, error) {
	employees, err := s.repo.CountEmployees(ctx)
	if err != nil {
		return DashboardStats{}, s.mapStoreError(err)
	}

	byStatus, err := s.repo.CountLeavesByStatus(ctx)
	if err != nil {
		return DashboardStats{}, s.mapStoreError(err)
	}

	stats := DashboardStats{
		TotalEmployees: employees,
		Pending:        byStatus[leave.StatusPending],
		Approved:       byStatus[leave.StatusApproved],
		Rejected:       byStatus[leave.StatusRejected],
		Cancelled:      byStatus[leave.StatusCancelled],
	}
	for _, n := range byStatus {
		stats.TotalLeaves += n
	}
	return stats, nil
}

func (s *service) fromCache(ctx context.Context) (DashboardStats, bool) {
	if s.rdb == nil {
		return DashboardStats{}, false
	}

	raw, err := s.rdb.Get(ctx, dashboardCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		}
		return DashboardStats{}, false
	}

	var stats DashboardStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		s.logger.Warn("dashboard cache entry corrupt", zap.Error(err))
		return DashboardStats{}, false
	}
	return stats, true
}

func (s *service) storeCache(ctx context.Context, stats DashboardStats) {
	if s.rdb == nil {
		return
	}

	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, dashboardCacheKey, raw, dashboardCacheTTL).Err(); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.Error(err))
	}
}

func (s *service) mapStoreError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperror.ErrStoreUnavailable
	}
	return apperror.Wrap(err, apperror.CodeInternalError, "Report storage error", http.StatusInternalServerError)
}
