package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/halfblock/canvas"
	"github.com/lixenwraith/halfblock/config"
	"github.com/lixenwraith/halfblock/engine"
	"github.com/lixenwraith/halfblock/logging"
	"github.com/lixenwraith/halfblock/metrics"
	"github.com/lixenwraith/halfblock/render"
	"github.com/lixenwraith/halfblock/terminal"
)

func run(cfg *config.Config) error {
	logger, err := logging.New(logging.Config{
		Enabled: cfg.Debug,
		Dir:     cfg.LogDir,
		Level:   cfg.LogLevel,
	})
	if err != nil {
		return err
	}
	defer logger.Sync()

	c, err := canvas.New(cfg.CanvasWidth, cfg.CanvasHeight)
	if err != nil {
		return err
	}
	scene := newDemo(c)
	scene.reset()

	pacer, err := engine.NewPacer(cfg.FPS)
	if err != nil {
		return err
	}

	m := metrics.New()
	if cfg.MetricsAddr != "" {
		srv, err := m.Serve(cfg.MetricsAddr, logger)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
	}

	// Restore runs on every return path below, including a partial Enable
	session := terminal.NewSession(cfg.EscapeTimeout, logger)
	defer session.Restore()
	if err := session.Enable(); err != nil {
		return err
	}

	backend, err := render.Select(cfg.Backend, os.Stdout, session.Size)
	if err != nil {
		return err
	}
	if err := backend.Begin(); err != nil {
		return err
	}
	defer backend.End()

	logger.Info("starting",
		zap.String("backend", backend.Name()),
		zap.Int("fps", cfg.FPS),
		zap.Duration("frame_interval", pacer.Interval()),
		zap.Int("width", c.Width()),
		zap.Int("height", c.Height()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loop := engine.NewLoop(engine.LoopConfig{
		Terminal: session,
		Backend:  backend,
		Pacer:    pacer,
		Canvas:   c,
		Logger:   logger,
		Metrics:  m,
		OnKey:    scene.handleKey,
	})
	return loop.Run(ctx)
}
