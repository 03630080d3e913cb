// Package metrics exposes frame, input and pacing counters through a private
// prometheus registry. A nil *Metrics is valid and records nothing.
package metrics

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-errors/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	Registry *prometheus.Registry

	// Frame metrics
	Frames       prometheus.Counter
	FrameBytes   prometheus.Counter
	ColorChanges prometheus.Counter

	// Loop metrics
	WaitingTicks prometheus.Counter
	LoopState    prometheus.Gauge

	// Input metrics
	KeyEvents *prometheus.CounterVec

	// Pacing metrics
	PacerOverruns prometheus.Counter
	PacerLag      prometheus.Histogram
}

// New creates the collectors on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		Frames: factory.NewCounter(prometheus.CounterOpts{
			Name: "halfblock_frames_total",
			Help: "Total number of frames presented",
		}),
		FrameBytes: factory.NewCounter(prometheus.CounterOpts{
			Name: "halfblock_frame_bytes_total",
			Help: "Total bytes handed to the terminal",
		}),
		ColorChanges: factory.NewCounter(prometheus.CounterOpts{
			Name: "halfblock_color_changes_total",
			Help: "Total color switches emitted",
		}),

		WaitingTicks: factory.NewCounter(prometheus.CounterOpts{
			Name: "halfblock_waiting_ticks_total",
			Help: "Ticks skipped because the terminal was too small or unavailable",
		}),
		LoopState: factory.NewGauge(prometheus.GaugeOpts{
			Name: "halfblock_loop_state",
			Help: "Current loop state (0 running, 1 waiting, 2 exiting)",
		}),

		KeyEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "halfblock_key_events_total",
				Help: "Total decoded key events",
			},
			[]string{"key"},
		),

		PacerOverruns: factory.NewCounter(prometheus.CounterOpts{
			Name: "halfblock_pacer_overruns_total",
			Help: "Frames whose work ran past the pacing deadline",
		}),
		PacerLag: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "halfblock_pacer_lag_seconds",
			Help:    "How far behind the deadline an overrunning frame was",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
	}
}

// Frame records one presented frame
func (m *Metrics) Frame(bytes, colorChanges int) {
	if m == nil {
		return
	}
	m.Frames.Inc()
	m.FrameBytes.Add(float64(bytes))
	m.ColorChanges.Add(float64(colorChanges))
}

// WaitingTick records a tick that presented nothing
func (m *Metrics) WaitingTick() {
	if m == nil {
		return
	}
	m.WaitingTicks.Inc()
}

// SetState records the loop state
func (m *Metrics) SetState(state int) {
	if m == nil {
		return
	}
	m.LoopState.Set(float64(state))
}

// Key records one decoded key event by name
func (m *Metrics) Key(name string) {
	if m == nil {
		return
	}
	m.KeyEvents.WithLabelValues(name).Inc()
}

// PacerOverrun records a frame that finished lag past its deadline
func (m *Metrics) PacerOverrun(lag time.Duration) {
	if m == nil {
		return
	}
	m.PacerOverruns.Inc()
	m.PacerLag.Observe(lag.Seconds())
}

// Handler serves the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Server exposes /metrics on a listener of its own
type Server struct {
	srv *http.Server
	ln  net.Listener
	log *zap.Logger
}

// Serve starts the /metrics endpoint on addr in a background goroutine
func (m *Metrics) Serve(addr string, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.WrapPrefix(err, "listen on metrics address", 0)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	s := &Server{
		srv: &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		ln:  ln,
		log: log,
	}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server stopped", zap.Error(err))
		}
	}()
	log.Info("metrics server listening", zap.String("addr", ln.Addr().String()))
	return s, nil
}

// Addr returns the bound address
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Shutdown stops the server, waiting for in-flight scrapes until ctx expires
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
