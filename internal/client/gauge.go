package client

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

const (
	// DefaultSpendingLimit is the limit a new Gauge starts with.
	DefaultSpendingLimit = 1200
	// DefaultPollInterval is how often a Gauge refetches transactions.
	DefaultPollInterval = 500 * time.Millisecond
)

// Fetcher returns the full transaction list.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]domain.Transaction, error)
}

// Reading is one gauge sample.
type Reading struct {
	Limit     decimal.Decimal
	Spent     decimal.Decimal
	Percent   float64
	Severity  domain.Severity
	UpdatedAt time.Time
	Err       error // last poll error, nil once a poll succeeds
}

// Gauge polls the backend and tracks spending against a limit.
type Gauge struct {
	fetcher  Fetcher
	interval time.Duration
	onUpdate func(Reading)
	logger   *slog.Logger

	mu        sync.Mutex
	limit     decimal.Decimal
	spent     decimal.Decimal
	updatedAt time.Time
	lastErr   error
	cancel    context.CancelFunc
	done      chan struct{}
}

// GaugeOption configures a Gauge.
type GaugeOption func(*Gauge)

// WithLimit sets the initial limit.
func WithLimit(limit decimal.Decimal) GaugeOption {
	return func(g *Gauge) { g.limit = clampLimit(limit) }
}

// WithPollInterval sets the polling interval.
func WithPollInterval(d time.Duration) GaugeOption {
	return func(g *Gauge) {
		if d > 0 {
			g.interval = d
		}
	}
}

// WithOnUpdate registers fn to receive a Reading after every poll and limit change.
func WithOnUpdate(fn func(Reading)) GaugeOption {
	return func(g *Gauge) { g.onUpdate = fn }
}

// WithGaugeLogger sets the logger used for poll failures.
func WithGaugeLogger(logger *slog.Logger) GaugeOption {
	return func(g *Gauge) { g.logger = logger }
}

// NewGauge creates a stopped Gauge.
func NewGauge(fetcher Fetcher, opts ...GaugeOption) *Gauge {
	g := &Gauge{
		fetcher:  fetcher,
		interval: DefaultPollInterval,
		limit:    decimal.NewFromInt(DefaultSpendingLimit),
		spent:    decimal.Zero,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SetLimit changes the limit. Negative values are clamped to zero.
func (g *Gauge) SetLimit(limit decimal.Decimal) {
	g.mu.Lock()
	g.limit = clampLimit(limit)
	r := g.readingLocked()
	g.mu.Unlock()
	g.notify(r)
}

// Reading returns the latest sample.
func (g *Gauge) Reading() Reading {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.readingLocked()
}

// Start begins polling until ctx is done or Stop is called. It polls once
// immediately. Starting a running gauge is a no-op.
func (g *Gauge) Start(ctx context.Context) {
	g.mu.Lock()
	if g.cancel != nil {
		g.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	g.cancel, g.done = cancel, done
	g.mu.Unlock()

	go g.run(ctx, done)
}

// Stop cancels polling and waits for the poller to exit.
func (g *Gauge) Stop() {
	g.mu.Lock()
	cancel, done := g.cancel, g.done
	g.cancel, g.done = nil, nil
	g.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the poller is active.
func (g *Gauge) Running() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cancel != nil
}

func (g *Gauge) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	g.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.poll(ctx)
		}
	}
}

func (g *Gauge) poll(ctx context.Context) {
	txns, err := g.fetcher.FetchAll(ctx)
	if ctx.Err() != nil {
		return
	}

	g.mu.Lock()
	if err != nil {
		g.lastErr = err
	} else {
		g.spent = domain.TotalSpent(txns)
		g.lastErr = nil
	}
	g.updatedAt = time.Now()
	r := g.readingLocked()
	g.mu.Unlock()

	if err != nil {
		g.logger.Warn("Gauge poll failed", slog.String("error", err.Error()))
	}
	g.notify(r)
}

func (g *Gauge) readingLocked() Reading {
	pct := domain.SpendingPercent(g.spent, g.limit)
	return Reading{
		Limit:     g.limit,
		Spent:     g.spent,
		Percent:   pct,
		Severity:  domain.SeverityFor(pct),
		UpdatedAt: g.updatedAt,
		Err:       g.lastErr,
	}
}

func (g *Gauge) notify(r Reading) {
	if g.onUpdate != nil {
		g.onUpdate(r)
	}
}

func clampLimit(limit decimal.Decimal) decimal.Decimal {
	if limit.IsNegative() {
		return decimal.Zero
	}
	return limit
}
