package observe

import (
	"context"
	"sync/atomic"
	"time"
)

// TraceGateConfig holds the settings for a TraceGate.
type TraceGateConfig struct {
	// FlushTimeout bounds how long Stop waits for buffered telemetry
	// to reach the exporters. Default: 2 seconds.
	FlushTimeout time.Duration
}

// TraceGate pauses telemetry export across the deepest part of a sleep
// transition. Stop drains pending spans and metrics so nothing is lost
// when the machine goes down; Start re-arms the gate after wake.
type TraceGate struct {
	config  TraceGateConfig
	obs     Observer
	stopped atomic.Bool
}

// NewTraceGate creates a TraceGate in front of the given observer.
func NewTraceGate(obs Observer, config ...TraceGateConfig) *TraceGate {
	cfg := TraceGateConfig{
		FlushTimeout: 2 * time.Second,
	}
	if len(config) > 0 {
		cfg = config[0]
		if cfg.FlushTimeout <= 0 {
			cfg.FlushTimeout = 2 * time.Second
		}
	}
	return &TraceGate{
		config: cfg,
		obs:    obs,
	}
}

// Stop flushes buffered telemetry and marks the gate stopped. The
// flush is best-effort: a slow exporter must not keep the machine
// awake past the timeout. Stopping twice is a no-op.
func (g *TraceGate) Stop() {
	if g.stopped.Swap(true) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), g.config.FlushTimeout)
	defer cancel()
	_ = g.obs.ForceFlush(ctx)
}

// Start re-arms the gate after wake.
func (g *TraceGate) Start() {
	g.stopped.Store(false)
}

// Stopped reports whether the gate is currently stopped.
func (g *TraceGate) Stopped() bool {
	return g.stopped.Load()
}
