package backend

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Mode is the connector's externally visible state.
type Mode string

const (
	ModeDisabled    Mode = "disabled"    // no URL configured; mock data only
	ModePending     Mode = "pending"     // attempt not started or still running
	ModeConnected   Mode = "connected"   // driver open and pinged
	ModeUnavailable Mode = "unavailable" // the single attempt failed
)

const defaultConnectTimeout = 10 * time.Second

// Connector lazily opens one shared Driver. The first Connect starts a
// single attempt; every caller waits on its completion, and the outcome,
// success or failure, is kept for the life of the process.
type Connector struct {
	cfg    Config
	logger *slog.Logger
	open   OpenFunc

	once    sync.Once
	started atomic.Bool
	done    chan struct{}

	// Written once by attempt before done is closed.
	driver Driver
	err    error
}

// ConnectorOption configures a Connector.
type ConnectorOption func(*Connector)

// WithOpenFunc replaces the scheme registry lookup, mainly for tests.
func WithOpenFunc(open OpenFunc) ConnectorOption {
	return func(c *Connector) { c.open = open }
}

// NewConnector creates a connector for cfg. Nothing is dialed until the
// first Connect or Start.
func NewConnector(cfg Config, logger *slog.Logger, opts ...ConnectorOption) *Connector {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Connector{
		cfg:    cfg,
		logger: logger,
		open:   Open,
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled reports whether a backend URL is configured.
func (c *Connector) Enabled() bool {
	return c.cfg.URL != ""
}

// Start begins the connection attempt without waiting for it.
func (c *Connector) Start() {
	if !c.Enabled() {
		return
	}
	c.once.Do(func() {
		c.started.Store(true)
		go c.attempt()
	})
}

// Connect returns the shared driver, or nil when the backend is disabled,
// unavailable, or ctx ends before the attempt completes. It never returns
// an error; use Mode and Err to inspect why nil came back.
func (c *Connector) Connect(ctx context.Context) Driver {
	if !c.Enabled() {
		return nil
	}
	c.Start()

	select {
	case <-c.done:
		return c.driver
	case <-ctx.Done():
		return nil
	}
}

func (c *Connector) attempt() {
	defer close(c.done)

	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.ConnectTimeout)
	defer cancel()

	start := time.Now()
	drv, err := c.open(ctx, c.cfg, c.logger)
	if err == nil && drv == nil {
		err = errors.New("driver constructor returned nil")
	}
	if err == nil {
		if err = drv.Ping(ctx); err != nil {
			_ = drv.Close()
		}
	}
	if err != nil {
		c.err = err
		c.logger.Warn("backend unavailable, serving mock data",
			"error", err,
			"elapsed", time.Since(start),
		)
		return
	}

	c.driver = drv
	c.logger.Info("backend connected",
		"driver", drv.Name(),
		"elapsed", time.Since(start),
	)
}

// Mode reports the connector state without blocking.
func (c *Connector) Mode() Mode {
	if !c.Enabled() {
		return ModeDisabled
	}
	if !c.started.Load() {
		return ModePending
	}
	select {
	case <-c.done:
		if c.driver != nil {
			return ModeConnected
		}
		return ModeUnavailable
	default:
		return ModePending
	}
}

// Err returns the connection failure, if the attempt has failed.
func (c *Connector) Err() error {
	select {
	case <-c.done:
		return c.err
	default:
		return nil
	}
}

// DriverName returns the connected driver's name, or "" when not connected.
func (c *Connector) DriverName() string {
	if c.Mode() != ModeConnected {
		return ""
	}
	return c.driver.Name()
}

// Close waits for a running attempt and closes the driver if it connected.
func (c *Connector) Close() error {
	if !c.started.Load() {
		return nil
	}
	<-c.done
	if c.driver == nil {
		return nil
	}
	return c.driver.Close()
}
