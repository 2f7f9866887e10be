package prerouter

import (
	"log/slog"
	"net/http"

	"github.com/caasmo/alabaster/core"
	"github.com/caasmo/alabaster/topk"
)

// sketchLevels defines the parameter presets for different traffic levels.
// These presets balance memory usage against accuracy of the ranking.
// - "low":    a few KB. Low-traffic sites (< 50 RPS).
// - "medium": ~120 KB. Balanced profile for most deployments (50-500 RPS).
// - "high":   ~640 KB. High-traffic sites (> 500 RPS) with many assets.
var sketchLevels = map[string]topk.SketchParams{
	"low": {
		K:          5,
		WindowSize: 5,
		Width:      256,
		Depth:      2,
		TickSize:   100,
	},
	"medium": {
		K:          10,
		WindowSize: 10,
		Width:      1024,
		Depth:      3,
		TickSize:   1000,
	},
	"high": {
		K:          20,
		WindowSize: 10,
		Width:      4096,
		Depth:      4,
		TickSize:   2000,
	},
}

// HotAssets tracks the most requested asset paths in a sliding window and
// periodically reports them through the app logger. The sketch keeps memory
// constant however many distinct paths pass through, so it is safe to leave
// on in production. The report is the input for deciding which assets are
// worth precompressing or pushing to a CDN.
type HotAssets struct {
	app    *core.App
	sketch *topk.Sketch
}

func NewHotAssets(app *core.App) *HotAssets {
	level := app.Config().HotAssets.Level
	params, ok := sketchLevels[level]
	if !ok {
		// Level is only validated when the middleware is activated; a
		// deactivated instance still needs working params.
		level = "medium"
		params = sketchLevels[level]
	}

	sketch := topk.New(params)
	app.Logger().Info("hot assets sketch initialized",
		"level", level, "bytes", sketch.SizeBytes())

	return &HotAssets{app: app, sketch: sketch}
}

// Execute wraps the next handler with hot path tracking.
func (h *HotAssets) Execute(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.app.Config().HotAssets.Activated {
			if report := h.sketch.Observe(r.URL.Path); report != nil {
				h.log(report)
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (h *HotAssets) log(report []topk.Item) {
	// A fixed attribute key keeps the log schema stable; the ranked items
	// land as a value, not as per-path keys.
	h.app.Logger().Info("hot_assets", slog.Any("report", report))
}
