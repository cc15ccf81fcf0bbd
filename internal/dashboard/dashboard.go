// Package dashboard holds the expense collection cache and the
// analytics report, and orchestrates their refresh cycle around
// mutations.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"outlay/internal/core"
	"outlay/internal/log"
)

// ErrBusy is returned when an expense submission is already in flight.
// The backend aggregates would race with a concurrent second submit, so
// the trigger stays disabled until the first cycle resolves.
var ErrBusy = errors.New("expense submission already in flight")

// Gateway is the slice of the API client the dashboard uses.
type Gateway interface {
	Expenses(ctx context.Context) ([]core.Expense, error)
	AddExpense(ctx context.Context, d core.Draft) error
	Analytics(ctx context.Context) (core.AnalyticsReport, error)
}

// Dashboard caches the current-user expense list and analytics report.
// The cache is replaced wholesale on every refresh: the server owns the
// aggregates, and an optimistic local append would drift from them.
type Dashboard struct {
	gw     Gateway
	logger *log.Logger

	mu       sync.Mutex
	expenses []core.Expense
	report   core.AnalyticsReport
	loading  bool
	busy     bool
}

func New(gw Gateway, logger *log.Logger) *Dashboard {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentDashboard)
	}
	return &Dashboard{gw: gw, logger: logger}
}

// Load fetches the expense list and the analytics report. The two
// requests run independently and both must settle, success or failure,
// before the loading flag clears; no relative completion order is
// assumed. On any failure the previous cache is kept.
func (d *Dashboard) Load(ctx context.Context) error {
	d.mu.Lock()
	d.loading = true
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		d.loading = false
		d.mu.Unlock()
	}()

	var (
		expenses []core.Expense
		report   core.AnalyticsReport
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = d.gw.Expenses(gctx)
		if err != nil {
			return fmt.Errorf("fetch expenses: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		report, err = d.gw.Analytics(gctx)
		if err != nil {
			return fmt.Errorf("fetch analytics: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		d.logger.ErrorContext(ctx, "Dashboard load failed", log.FieldError, err)
		return err
	}

	d.mu.Lock()
	d.expenses = expenses
	d.report = report
	d.mu.Unlock()

	d.logger.InfoContext(ctx, "Dashboard loaded",
		log.FieldOperation, log.OpRefresh,
		log.FieldCount, len(expenses))
	return nil
}

// Add validates the draft locally, posts it, and on acceptance reloads
// both the expense cache and the analytics report before reporting
// success. The add call completes before any refresh is issued. On
// rejection the cache is left untouched.
func (d *Dashboard) Add(ctx context.Context, draft core.Draft) error {
	if err := draft.Validate(); err != nil {
		return err
	}

	d.mu.Lock()
	if d.busy {
		d.mu.Unlock()
		return ErrBusy
	}
	d.busy = true
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		d.busy = false
		d.mu.Unlock()
	}()

	if err := d.gw.AddExpense(ctx, draft); err != nil {
		d.logger.WarnContext(ctx, "Expense rejected",
			log.FieldOperation, log.OpAdd,
			log.FieldCategory, draft.Category,
			log.FieldError, err)
		return err
	}

	d.logger.InfoContext(ctx, "Expense added",
		log.FieldOperation, log.OpAdd,
		log.FieldCategory, draft.Category,
		log.FieldAmount, draft.Amount.String())

	if err := d.Load(ctx); err != nil {
		return fmt.Errorf("refresh after add: %w", err)
	}
	return nil
}

// Expenses returns a copy of the cached records.
func (d *Dashboard) Expenses() []core.Expense {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]core.Expense, len(d.expenses))
	copy(out, d.expenses)
	return out
}

// Report returns the cached analytics report.
func (d *Dashboard) Report() core.AnalyticsReport {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.report
}

// Loading reports whether a refresh cycle is in progress.
func (d *Dashboard) Loading() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loading
}
