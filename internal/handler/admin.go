package handler

import (
	"net/http"
	"runtime"
	"time"

	"vintelli-api/internal/repository"
	"vintelli-api/internal/service"
	"vintelli-api/pkg/apierror"
	"vintelli-api/pkg/response"
)

// AdminInfo describes how the service was configured at start-up.
type AdminInfo struct {
	ReferenceSource string
	CacheType       string
	CacheTTL        time.Duration
	LLMModel        string
}

// AdminHandler handles admin-related HTTP requests.
type AdminHandler struct {
	analyzer      *service.AnalyzerService
	referenceRepo repository.ReferenceRepository // nil for the built-in set
	info          AdminInfo
	startTime     time.Time
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(
	analyzer *service.AnalyzerService,
	referenceRepo repository.ReferenceRepository,
	info AdminInfo,
) *AdminHandler {
	return &AdminHandler{
		analyzer:      analyzer,
		referenceRepo: referenceRepo,
		info:          info,
		startTime:     time.Now(),
	}
}

// GetStats handles GET /api/v1/admin/stats
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats := make(map[string]interface{})

	// System info
	stats["uptime_seconds"] = int64(time.Since(h.startTime).Seconds())
	stats["uptime_human"] = time.Since(h.startTime).Round(time.Second).String()
	stats["server_time"] = time.Now().Format(time.RFC3339)

	// Memory stats
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	stats["memory"] = map[string]interface{}{
		"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
		"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
		"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
		"heap_alloc_mb":  float64(memStats.HeapAlloc) / 1024 / 1024,
		"heap_inuse_mb":  float64(memStats.HeapInuse) / 1024 / 1024,
		"num_gc":         memStats.NumGC,
		"goroutines":     runtime.NumGoroutine(),
	}

	stats["analyzer"] = h.analyzer.Stats()

	// Reference store
	reference := map[string]interface{}{
		"source":  h.info.ReferenceSource,
		"entries": len(h.analyzer.ReferenceEntries()),
	}
	if h.referenceRepo != nil {
		storeStats, err := h.referenceRepo.GetStats(ctx)
		if err == nil {
			storeStats["status"] = "connected"
			reference["store"] = storeStats
		} else {
			reference["store"] = map[string]interface{}{
				"status": "error",
				"error":  err.Error(),
			}
		}
	}
	stats["reference"] = reference

	stats["cache"] = map[string]interface{}{
		"type":        h.info.CacheType,
		"enabled":     h.analyzer.CacheEnabled(),
		"ttl_seconds": int64(h.info.CacheTTL.Seconds()),
	}

	llm := map[string]interface{}{
		"enabled": h.analyzer.RemoteEnabled(),
	}
	if h.analyzer.RemoteEnabled() {
		llm["model"] = h.info.LLMModel
	}
	stats["llm"] = llm

	// Runtime info
	stats["runtime"] = map[string]interface{}{
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"cpus":       runtime.NumCPU(),
	}

	response.OK(w, stats)
}

// GetHealth handles GET /api/v1/admin/health
func (h *AdminHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// ClearCache handles POST /api/v1/admin/cache/clear
func (h *AdminHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	if !h.analyzer.CacheEnabled() {
		response.Error(w, apierror.NotFound("Result cache is not enabled"))
		return
	}
	if err := h.analyzer.ClearCache(r.Context()); err != nil {
		response.Error(w, apierror.ServiceUnavailable("Failed to clear cache: "+err.Error()))
		return
	}
	response.OK(w, map[string]interface{}{"cleared": true})
}
