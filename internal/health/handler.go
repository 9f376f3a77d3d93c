// AngelaMos | 2026
// handler.go

package health

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/templates/catalog-backend/internal/core"
)

const probeTimeout = 3 * time.Second

type Checker interface {
	Ping(ctx context.Context) error
}

// Probe is a named dependency checked by readiness.
type Probe struct {
	Name    string
	Checker Checker
}

type Handler struct {
	probes   []Probe
	shutdown atomic.Bool
}

func NewHandler(probes ...Probe) *Handler {
	return &Handler{probes: probes}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Liveness)
	r.Get("/livez", h.Liveness)
	r.Get("/readyz", h.Readiness)
}

// SetShutdown makes every probe fail so load balancers drain the instance.
func (h *Handler) SetShutdown(shutdown bool) {
	h.shutdown.Store(shutdown)
}

func (h *Handler) Liveness(w http.ResponseWriter, _ *http.Request) {
	if h.shutdown.Load() {
		writeProbe(w, http.StatusServiceUnavailable, StatusResponse{Status: "shutting_down"})
		return
	}
	writeProbe(w, http.StatusOK, StatusResponse{Status: "ok"})
}

func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.shutdown.Load() {
		writeProbe(w, http.StatusServiceUnavailable, StatusResponse{Status: "shutting_down"})
		return
	}

	resp := ReadinessResponse{Status: "ok", Checks: h.checkAll(r.Context())}
	code := http.StatusOK
	for _, c := range resp.Checks {
		if !c.Healthy {
			resp.Status = "degraded"
			code = http.StatusServiceUnavailable
		}
	}

	writeProbe(w, code, resp)
}

// checkAll pings every probe concurrently. Results keep probe order.
func (h *Handler) checkAll(ctx context.Context) []HealthCheck {
	results := make([]HealthCheck, len(h.probes))

	var wg sync.WaitGroup
	for i, p := range h.probes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = p.run(ctx)
		}()
	}
	wg.Wait()

	return results
}

func (p Probe) run(ctx context.Context) HealthCheck {
	if p.Checker == nil {
		return HealthCheck{Name: p.Name, Message: p.Name + " checker not configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	started := time.Now()
	err := p.Checker.Ping(ctx)
	result := HealthCheck{
		Name:    p.Name,
		Healthy: err == nil,
		Latency: time.Since(started).String(),
	}
	if err != nil {
		result.Message = "ping failed"
	}
	return result
}

func writeProbe(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Cache-Control", "no-store")
	core.JSON(w, status, body)
}

type StatusResponse struct {
	Status string `json:"status"`
}

type ReadinessResponse struct {
	Status string        `json:"status"`
	Checks []HealthCheck `json:"checks"`
}

type HealthCheck struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}
