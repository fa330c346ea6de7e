package services

import (
	"context"
	"time"

	"github.com/NomadCrew/feedback-board/logger"
	"github.com/NomadCrew/feedback-board/types"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Pinger is anything whose connectivity can be checked, such as the
// PostgreSQL client or a SQLite handle.
type Pinger interface {
	Ping(ctx context.Context) error
}

// poolStatter is implemented by pooled database clients that expose pgxpool stats.
type poolStatter interface {
	Stat() *pgxpool.Stat
}

const dbPingAttempts = 3

type HealthService struct {
	db          Pinger
	dbName      string
	redisClient redis.UniversalClient
	version     string
	startTime   time.Time
	retryDelay  time.Duration
	log         *zap.SugaredLogger
}

// NewHealthService creates a health service. db may be nil for the in-memory
// store and redisClient may be nil when events are disabled.
func NewHealthService(db Pinger, dbName string, redisClient redis.UniversalClient, version string) *HealthService {
	return &HealthService{
		db:          db,
		dbName:      dbName,
		redisClient: redisClient,
		version:     version,
		startTime:   time.Now(),
		retryDelay:  100 * time.Millisecond,
		log:         logger.GetLogger(),
	}
}

func (h *HealthService) CheckHealth(ctx context.Context) types.HealthCheck {
	components := make(map[string]types.HealthComponent)
	overallStatus := types.HealthStatusUp

	dbStatus := h.checkDatabase(ctx)
	components["database"] = dbStatus
	overallStatus = worse(overallStatus, dbStatus.Status)

	if h.redisClient != nil {
		redisStatus := h.checkRedis(ctx)
		components["redis"] = redisStatus
		overallStatus = worse(overallStatus, redisStatus.Status)
	}

	return types.HealthCheck{
		Status:     overallStatus,
		Components: components,
		Version:    h.version,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
	}
}

func (h *HealthService) checkDatabase(ctx context.Context) types.HealthComponent {
	if h.db == nil {
		return types.HealthComponent{
			Status:  types.HealthStatusUp,
			Details: "in-memory store",
		}
	}

	var err error
	for attempt := 0; attempt < dbPingAttempts; attempt++ {
		if err = h.db.Ping(ctx); err == nil {
			break
		}
		if attempt < dbPingAttempts-1 {
			select {
			case <-ctx.Done():
				attempt = dbPingAttempts
			case <-time.After(h.retryDelay):
			}
		}
	}
	if err != nil {
		h.log.Errorw("Database health check failed", "error", err, "driver", h.dbName)
		return types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: "Database connection failed",
		}
	}

	if ps, ok := h.db.(poolStatter); ok {
		stat := ps.Stat()
		if stat != nil && stat.MaxConns() > 0 && float64(stat.AcquiredConns())/float64(stat.MaxConns()) > 0.8 {
			return types.HealthComponent{
				Status:  types.HealthStatusDegraded,
				Details: "Connection pool near capacity",
			}
		}
	}

	return types.HealthComponent{
		Status:  types.HealthStatusUp,
		Details: h.dbName,
	}
}

func (h *HealthService) checkRedis(ctx context.Context) types.HealthComponent {
	if err := h.redisClient.Ping(ctx).Err(); err != nil {
		h.log.Errorw("Redis health check failed", "error", err)
		return types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: "Redis connection failed",
		}
	}

	return types.HealthComponent{
		Status: types.HealthStatusUp,
	}
}

func worse(a, b types.HealthStatus) types.HealthStatus {
	if a == types.HealthStatusDown || b == types.HealthStatusDown {
		return types.HealthStatusDown
	}
	if a == types.HealthStatusDegraded || b == types.HealthStatusDegraded {
		return types.HealthStatusDegraded
	}
	return types.HealthStatusUp
}
