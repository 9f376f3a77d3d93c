// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/templates/catalog-backend/internal/core"
)

// Counter reports how many rows a store holds.
type Counter func(ctx context.Context) (int64, error)

type Handler struct {
	dbStats    func() sql.DBStats
	redisStats func() *redis.PoolStats
	redisPing  func(ctx context.Context) error
	dbPing     func(ctx context.Context) error
	counters   map[string]Counter
}

type HandlerConfig struct {
	DBStats    func() sql.DBStats
	RedisStats func() *redis.PoolStats
	RedisPing  func(ctx context.Context) error
	DBPing     func(ctx context.Context) error

	Users        Counter
	Categories   Counter
	Products     Counter
	ActiveTokens Counter
}

func NewHandler(cfg HandlerConfig) *Handler {
	counters := map[string]Counter{}
	for name, c := range map[string]Counter{
		"users":         cfg.Users,
		"categories":    cfg.Categories,
		"products":      cfg.Products,
		"active_tokens": cfg.ActiveTokens,
	} {
		if c != nil {
			counters[name] = c
		}
	}

	return &Handler{
		dbStats:    cfg.DBStats,
		redisStats: cfg.RedisStats,
		redisPing:  cfg.RedisPing,
		dbPing:     cfg.DBPing,
		counters:   counters,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, canWrite func(http.Handler) http.Handler,
) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(canWrite)

		r.Get("/stats", h.GetSystemStats)
	})
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	core.OK(w, SystemStatsResponse{
		Status:  true,
		Catalog: h.catalogCounts(ctx),
		Database: DatabaseStatus{
			Healthy: ping(ctx, h.dbPing),
			Stats:   h.getDBStats(),
		},
		Redis: RedisStatus{
			Healthy: ping(ctx, h.redisPing),
			Stats:   h.getRedisStats(),
		},
		Runtime: runtimeStats(),
	})
}

// catalogCounts leaves out any counter that fails.
func (h *Handler) catalogCounts(ctx context.Context) map[string]int64 {
	out := make(map[string]int64, len(h.counters))
	for name, count := range h.counters {
		n, err := count(ctx)
		if err != nil {
			slog.Warn("admin stats counter failed", "counter", name, "error", err)
			continue
		}
		out[name] = n
	}
	return out
}

func ping(ctx context.Context, fn func(context.Context) error) bool {
	if fn == nil {
		return true
	}
	return fn(ctx) == nil
}

var startedAt = time.Now()

func runtimeStats() ProcessStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return ProcessStats{
		Go:         runtime.Version(),
		Goroutines: runtime.NumGoroutine(),
		CPUs:       runtime.NumCPU(),
		HeapBytes:  mem.HeapAlloc,
		SysBytes:   mem.Sys,
		GCRuns:     mem.NumGC,
		Uptime:     time.Since(startedAt).Truncate(time.Second).String(),
	}
}

func (h *Handler) getDBStats() *PoolStats {
	if h.dbStats == nil {
		return nil
	}

	s := h.dbStats()
	return &PoolStats{
		MaxOpen:  s.MaxOpenConnections,
		Open:     s.OpenConnections,
		InUse:    s.InUse,
		Idle:     s.Idle,
		Waits:    s.WaitCount,
		WaitTime: s.WaitDuration.String(),
	}
}

func (h *Handler) getRedisStats() *CacheStats {
	if h.redisStats == nil {
		return nil
	}

	s := h.redisStats()
	if s == nil {
		return nil
	}
	return &CacheStats{
		Hits:       s.Hits,
		Misses:     s.Misses,
		Timeouts:   s.Timeouts,
		Conns:      s.TotalConns,
		IdleConns:  s.IdleConns,
		StaleConns: s.StaleConns,
	}
}

type SystemStatsResponse struct {
	Status   bool             `json:"status"`
	Catalog  map[string]int64 `json:"catalog"`
	Database DatabaseStatus   `json:"database"`
	Redis    RedisStatus      `json:"redis"`
	Runtime  ProcessStats     `json:"runtime"`
}

type DatabaseStatus struct {
	Healthy bool       `json:"healthy"`
	Stats   *PoolStats `json:"pool,omitempty"`
}

type RedisStatus struct {
	Healthy bool        `json:"healthy"`
	Stats   *CacheStats `json:"pool,omitempty"`
}

type PoolStats struct {
	MaxOpen  int    `json:"max_open"`
	Open     int    `json:"open"`
	InUse    int    `json:"in_use"`
	Idle     int    `json:"idle"`
	Waits    int64  `json:"waits"`
	WaitTime string `json:"wait_time"`
}

type CacheStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	Conns      uint32 `json:"conns"`
	IdleConns  uint32 `json:"idle_conns"`
	StaleConns uint32 `json:"stale_conns"`
}

type ProcessStats struct {
	Go         string `json:"go"`
	Goroutines int    `json:"goroutines"`
	CPUs       int    `json:"cpus"`
	HeapBytes  uint64 `json:"heap_bytes"`
	SysBytes   uint64 `json:"sys_bytes"`
	GCRuns     uint32 `json:"gc_runs"`
	Uptime     string `json:"uptime"`
}
