package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event as a debug line to a charmbracelet logger.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks writing to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{Logger: logger}
}

// Register installs h as the render, cache and server hooks.
func (h *LogHooks) Register() {
	SetRenderHooks(h)
	SetCacheHooks(h)
	SetServerHooks(h)
}

func (h *LogHooks) OnRenderStart(_ context.Context, chartID, format string) {
	h.Logger.Debug("render", "chart", chartID, "format", format)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, chartID, format string, size int, cached bool, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("render failed", "chart", chartID, "format", format, "err", err)
		return
	}
	h.Logger.Debug("rendered", "chart", chartID, "format", format, "bytes", size, "cached", cached, "took", d.Round(time.Microsecond))
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string, status int, d time.Duration) {
	h.Logger.Debug("request", "method", method, "route", route, "status", status, "took", d.Round(time.Microsecond))
}

func (h *LogHooks) OnReload(_ context.Context, charts int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Error("reload failed", "err", err)
		return
	}
	h.Logger.Info("reloaded", "charts", charts, "took", d.Round(time.Millisecond))
}

func (h *LogHooks) OnClients(_ context.Context, clients int) {
	h.Logger.Debug("live reload clients", "count", clients)
}

var (
	_ RenderHooks = (*LogHooks)(nil)
	_ CacheHooks  = (*LogHooks)(nil)
	_ ServerHooks = (*LogHooks)(nil)
)
