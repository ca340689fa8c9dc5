package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"smartbudget/internal/amqp"
	"smartbudget/internal/chart"
	"smartbudget/internal/core"
	"smartbudget/internal/ledger"
	applog "smartbudget/internal/log"
)

// TopCategoryLimit is the number of categories shown on the admin view.
const TopCategoryLimit = 5

// Publisher ships audit events. *amqp.Client satisfies it.
type Publisher interface {
	PublishEvent(ctx context.Context, ev *amqp.Event) error
}

// Dashboard is everything the dashboard page renders for one filter.
type Dashboard struct {
	Filter     core.Filter
	Entries    []core.Entry
	Categories []core.Category
	Summary    core.Summary
	Tips       []string
	Monthly    []core.CategoryAmount
	ByCategory []core.CategoryAmount
	Chart      chart.Breakdown
}

// AdminStats backs the admin overview.
type AdminStats struct {
	Stats         ledger.Stats
	Summary       core.Summary
	TopCategories []core.CategoryCount
}

// BudgetService orchestrates ledger changes and their audit events.
type BudgetService struct {
	store       ledger.Store
	publisher   Publisher
	logger      *applog.Logger
	chartMonths int
	onChange    []func()
}

// Option configures a BudgetService.
type Option func(*BudgetService)

// WithChartMonths sets how many months the breakdown chart keeps.
func WithChartMonths(n int) Option {
	return func(s *BudgetService) {
		if n > 0 {
			s.chartMonths = n
		}
	}
}

// OnChange registers fn to run after every successful write, e.g. to drop
// cached chart fragments.
func OnChange(fn func()) Option {
	return func(s *BudgetService) { s.onChange = append(s.onChange, fn) }
}

// NewBudgetService wires store and an optional publisher. A nil publisher
// disables audit events.
func NewBudgetService(store ledger.Store, publisher Publisher, logger *applog.Logger, opts ...Option) *BudgetService {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	s := &BudgetService{
		store:       store,
		publisher:   publisher,
		logger:      logger.WithComponent(applog.ComponentLedger),
		chartMonths: core.DefaultChartMonths,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateEntry validates and stores e, then publishes entry.created.
func (s *BudgetService) CreateEntry(ctx context.Context, e core.Entry) (core.Entry, error) {
	if err := s.validate(ctx, &e); err != nil {
		return core.Entry{}, err
	}
	created, err := s.store.Create(ctx, e)
	if err != nil {
		return core.Entry{}, fmt.Errorf("save entry: %w", err)
	}
	s.logEntry(ctx, "Entry created", applog.OpCreate, created)
	s.changed(ctx, amqp.NewEntryEvent(amqp.EventEntryCreated, created))
	return created, nil
}

// UpdateEntry replaces the stored entry with e.ID.
func (s *BudgetService) UpdateEntry(ctx context.Context, e core.Entry) (core.Entry, error) {
	if err := s.validate(ctx, &e); err != nil {
		return core.Entry{}, err
	}
	updated, err := s.store.Update(ctx, e)
	if err != nil {
		return core.Entry{}, fmt.Errorf("update entry %d: %w", e.ID, err)
	}
	s.logEntry(ctx, "Entry updated", applog.OpUpdate, updated)
	s.changed(ctx, amqp.NewEntryEvent(amqp.EventEntryUpdated, updated))
	return updated, nil
}

// validate checks e and resolves its category against the stored ones,
// rewriting it to the stored spelling. Unknown names fail with
// core.ErrUnknownCategory.
func (s *BudgetService) validate(ctx context.Context, e *core.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	cats, err := s.store.Categories(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	name := strings.TrimSpace(e.Category)
	for _, c := range cats {
		if strings.EqualFold(c.Name, name) {
			e.Category = c.Name
			return nil
		}
	}
	return fmt.Errorf("%w: %q", core.ErrUnknownCategory, name)
}

// DeleteEntry removes the entry with id. The event carries the deleted values.
func (s *BudgetService) DeleteEntry(ctx context.Context, id int64) error {
	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("load entry %d: %w", id, err)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete entry %d: %w", id, err)
	}
	s.logEntry(ctx, "Entry deleted", applog.OpDelete, existing)
	s.changed(ctx, amqp.NewEntryEvent(amqp.EventEntryDeleted, existing))
	return nil
}

// Entry returns a single entry.
func (s *BudgetService) Entry(ctx context.Context, id int64) (core.Entry, error) {
	return s.store.Get(ctx, id)
}

// Entries lists the entries matching f, newest first.
func (s *BudgetService) Entries(ctx context.Context, f core.Filter) ([]core.Entry, error) {
	return s.store.List(ctx, f)
}

// Categories lists categories by name.
func (s *BudgetService) Categories(ctx context.Context) ([]core.Category, error) {
	return s.store.Categories(ctx)
}

// AddCategory stores a new category and publishes category.added.
func (s *BudgetService) AddCategory(ctx context.Context, name string) (core.Category, error) {
	c, err := s.store.AddCategory(ctx, name)
	if err != nil {
		return core.Category{}, err
	}
	s.logger.InfoContext(ctx, "Category added",
		applog.FieldOperation, applog.OpCreate,
		applog.FieldCategory, c.Name)
	s.changed(ctx, amqp.NewCategoryEvent(c.Name))
	return c, nil
}

// Dashboard loads entries and categories concurrently and aggregates them.
func (s *BudgetService) Dashboard(ctx context.Context, f core.Filter, now time.Time) (Dashboard, error) {
	var (
		entries []core.Entry
		cats    []core.Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, err = s.store.List(gctx, f)
		if err != nil {
			return fmt.Errorf("list entries: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		cats, err = s.store.Categories(gctx)
		if err != nil {
			return fmt.Errorf("list categories: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	monthly := core.MonthlyBreakdown(entries, s.chartMonths)
	return Dashboard{
		Filter:     f,
		Entries:    entries,
		Categories: cats,
		Summary:    core.Totals(entries),
		Tips:       core.Tips(entries, now),
		Monthly:    monthly,
		ByCategory: core.CategoryBreakdown(entries),
		Chart:      chart.NewBreakdown(monthly),
	}, nil
}

// Breakdown returns only the chart data for f.
func (s *BudgetService) Breakdown(ctx context.Context, f core.Filter) (chart.Breakdown, error) {
	entries, err := s.store.List(ctx, f)
	if err != nil {
		return chart.Breakdown{}, fmt.Errorf("list entries: %w", err)
	}
	return chart.NewBreakdown(core.MonthlyBreakdown(entries, s.chartMonths)), nil
}

// AdminStats reports storage counts, overall totals and the most used categories.
func (s *BudgetService) AdminStats(ctx context.Context) (AdminStats, error) {
	var (
		stats   ledger.Stats
		entries []core.Entry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = s.store.Stats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = s.store.List(gctx, core.Filter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return AdminStats{}, fmt.Errorf("load admin stats: %w", err)
	}

	return AdminStats{
		Stats:         stats,
		Summary:       core.Totals(entries),
		TopCategories: core.TopCategories(entries, TopCategoryLimit),
	}, nil
}

func (s *BudgetService) logEntry(ctx context.Context, msg, op string, e core.Entry) {
	fields := applog.NewFields().
		WithRequestID(applog.RequestIDFromContext(ctx)).
		WithOperation(op).
		WithEntry(e.ID, e.Date.String(), e.Category, e.Amount.Cents, string(e.Type))
	s.logger.InfoContext(ctx, msg, fields.ToSlice()...)
}

// changed runs the change hooks and publishes ev. A publish failure is
// logged and never fails the caller: the write already happened.
func (s *BudgetService) changed(ctx context.Context, ev *amqp.Event) {
	for _, fn := range s.onChange {
		fn()
	}

	if s.publisher == nil {
		return
	}
	ev.RequestID = applog.RequestIDFromContext(ctx)
	if err := s.publisher.PublishEvent(ctx, ev); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish audit event",
			applog.FieldEventType, ev.Type,
			applog.FieldEntryID, ev.EntryID,
			applog.FieldError, err)
	}
}
