package handler

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/pathway-planner/internal/repository"
	"github.com/stemsi/pathway-planner/internal/response"
	"github.com/stemsi/pathway-planner/internal/service"
)

// Pinger is satisfied by the Redis client and the Postgres pool wrappers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// SystemHandler reports liveness and operational counters.
type SystemHandler struct {
	deps      map[string]Pinger
	plans     repository.PlanRepository
	queue     repository.SnapshotQueue
	catalog   service.CatalogService
	startTime time.Time
	log       zerolog.Logger
}

// NewSystemHandler creates a SystemHandler. deps are pinged by Health;
// queue may be nil when snapshots are disabled.
func NewSystemHandler(
	deps map[string]Pinger,
	plans repository.PlanRepository,
	queue repository.SnapshotQueue,
	catalog service.CatalogService,
	log zerolog.Logger,
) *SystemHandler {
	return &SystemHandler{
		deps:      deps,
		plans:     plans,
		queue:     queue,
		catalog:   catalog,
		startTime: time.Now(),
		log:       log.With().Str("component", "system_handler").Logger(),
	}
}

type systemStats struct {
	Uptime    string `json:"uptime"`
	GoVersion string `json:"go_version"`
	NumCPU    int    `json:"num_cpu"`

	// Go Application
	Goroutines int    `json:"goroutines"`
	HeapAlloc  uint64 `json:"heap_alloc"`
	HeapSys    uint64 `json:"heap_sys"`
	NumGC      uint32 `json:"num_gc"`

	// Planner
	CatalogVersion string `json:"catalog_version"`
	StoredPlans    int64  `json:"stored_plans"`
	QueueSnapshots int64  `json:"queue_snapshots"`
}

// Health godoc
// GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(h.deps))
	for name, dep := range h.deps {
		if err := dep.Ping(ctx); err != nil {
			h.log.Warn().Err(err).Str("dependency", name).Msg("Health check failed")
			checks[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "up"
	}

	state := "ok"
	if status != http.StatusOK {
		state = "degraded"
	}
	c.JSON(status, gin.H{"status": state, "checks": checks})
}

// Stats godoc
// GET /api/v1/system/stats
func (h *SystemHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	m := systemStats{
		Uptime:         formatDuration(time.Since(h.startTime)),
		GoVersion:      runtime.Version(),
		NumCPU:         runtime.NumCPU(),
		Goroutines:     runtime.NumGoroutine(),
		CatalogVersion: h.catalog.Version(),
	}

	// ── Go Runtime ──
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m.HeapAlloc = ms.HeapAlloc
	m.HeapSys = ms.Sys
	m.NumGC = ms.NumGC

	// ── Plans ──
	if n, err := h.plans.Count(ctx); err == nil {
		m.StoredPlans = n
	} else {
		h.log.Warn().Err(err).Msg("Plan count failed")
	}

	// ── Worker Queue ──
	if h.queue != nil {
		m.QueueSnapshots, _ = h.queue.Len(ctx)
	}

	response.Success(c, http.StatusOK, m)
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
