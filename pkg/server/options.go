package server

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/milan604/netservice/pkg/logger"
)

// EngineOption configures NewEngine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	logger      logger.LogManager
	recovery    bool
	gatherer    prometheus.Gatherer
	metricsPath string
	health      func() map[string]any
}

// WithLogger sets the logger used for access and panic logs.
func WithLogger(l logger.LogManager) EngineOption {
	return func(e *engineOptions) { e.logger = l }
}

// WithRecovery turns handler panics into 500 responses.
func WithRecovery(enabled bool) EngineOption {
	return func(e *engineOptions) { e.recovery = enabled }
}

// WithMetrics exposes g on path ("/metrics" when empty).
func WithMetrics(g prometheus.Gatherer, path string) EngineOption {
	return func(e *engineOptions) {
		e.gatherer = g
		e.metricsPath = path
	}
}

// WithHealth serves the map returned by fn on /healthz.
func WithHealth(fn func() map[string]any) EngineOption {
	return func(e *engineOptions) { e.health = fn }
}
