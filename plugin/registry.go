package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"
)

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery for O(1) dispatch performance.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	// Type-cached plugin lists for efficient dispatch
	onInit                []OnInit
	onShutdown            []OnShutdown
	onBoarderCreated      []OnBoarderCreated
	onBoarderUpdated      []OnBoarderUpdated
	onBoarderDeleted      []OnBoarderDeleted
	onMealRecorded        []OnMealRecorded
	onExpenseRecorded     []OnExpenseRecorded
	onPaymentRecorded     []OnPaymentRecorded
	onLockedWriteRejected []OnLockedWriteRejected
	onStatementsGenerated []OnStatementsGenerated
	onMonthLocked         []OnMonthLocked
	onMonthUnlocked       []OnMonthUnlocked
	reportFormatters      map[string]ReportFormatter
	noticeSenders         map[string]NoticeSender
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger:           slog.Default(),
		reportFormatters: make(map[string]ReportFormatter),
		noticeSenders:    make(map[string]NoticeSender),
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check for duplicate
	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	// Type-switch to cache interfaces
	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnBoarderCreated); ok {
		r.onBoarderCreated = append(r.onBoarderCreated, v)
	}
	if v, ok := p.(OnBoarderUpdated); ok {
		r.onBoarderUpdated = append(r.onBoarderUpdated, v)
	}
	if v, ok := p.(OnBoarderDeleted); ok {
		r.onBoarderDeleted = append(r.onBoarderDeleted, v)
	}
	if v, ok := p.(OnMealRecorded); ok {
		r.onMealRecorded = append(r.onMealRecorded, v)
	}
	if v, ok := p.(OnExpenseRecorded); ok {
		r.onExpenseRecorded = append(r.onExpenseRecorded, v)
	}
	if v, ok := p.(OnPaymentRecorded); ok {
		r.onPaymentRecorded = append(r.onPaymentRecorded, v)
	}
	if v, ok := p.(OnLockedWriteRejected); ok {
		r.onLockedWriteRejected = append(r.onLockedWriteRejected, v)
	}
	if v, ok := p.(OnStatementsGenerated); ok {
		r.onStatementsGenerated = append(r.onStatementsGenerated, v)
	}
	if v, ok := p.(OnMonthLocked); ok {
		r.onMonthLocked = append(r.onMonthLocked, v)
	}
	if v, ok := p.(OnMonthUnlocked); ok {
		r.onMonthUnlocked = append(r.onMonthUnlocked, v)
	}
	if v, ok := p.(ReportFormatter); ok {
		r.reportFormatters[v.Format()] = v
	}
	if v, ok := p.(NoticeSender); ok {
		r.noticeSenders[v.Channel()] = v
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", r.getImplementedInterfaces(p),
	)

	return nil
}

// getImplementedInterfaces returns a list of interfaces implemented by the plugin.
func (r *Registry) getImplementedInterfaces(p Plugin) []string {
	var interfaces []string
	v := reflect.TypeOf(p)

	// Check each interface
	checkInterface := func(iface reflect.Type, name string) {
		if v.Implements(iface) {
			interfaces = append(interfaces, name)
		}
	}

	// List all interfaces to check
	checkInterface(reflect.TypeOf((*OnInit)(nil)).Elem(), "OnInit")
	checkInterface(reflect.TypeOf((*OnShutdown)(nil)).Elem(), "OnShutdown")
	checkInterface(reflect.TypeOf((*OnBoarderCreated)(nil)).Elem(), "OnBoarderCreated")
	checkInterface(reflect.TypeOf((*OnMealRecorded)(nil)).Elem(), "OnMealRecorded")
	checkInterface(reflect.TypeOf((*OnExpenseRecorded)(nil)).Elem(), "OnExpenseRecorded")
	checkInterface(reflect.TypeOf((*OnPaymentRecorded)(nil)).Elem(), "OnPaymentRecorded")
	checkInterface(reflect.TypeOf((*OnLockedWriteRejected)(nil)).Elem(), "OnLockedWriteRejected")
	checkInterface(reflect.TypeOf((*OnStatementsGenerated)(nil)).Elem(), "OnStatementsGenerated")
	checkInterface(reflect.TypeOf((*OnMonthLocked)(nil)).Elem(), "OnMonthLocked")
	checkInterface(reflect.TypeOf((*OnMonthUnlocked)(nil)).Elem(), "OnMonthUnlocked")
	checkInterface(reflect.TypeOf((*ReportFormatter)(nil)).Elem(), "ReportFormatter")
	checkInterface(reflect.TypeOf((*NoticeSender)(nil)).Elem(), "NoticeSender")

	return interfaces
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, engine interface{}) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInit(ctx, engine)
		}); err != nil {
			r.logger.Warn("plugin OnInit failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnShutdown(ctx)
		}); err != nil {
			r.logger.Warn("plugin OnShutdown failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitBoarderCreated emits a boarder created event.
func (r *Registry) EmitBoarderCreated(ctx context.Context, b interface{}) {
	r.mu.RLock()
	plugins := r.onBoarderCreated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnBoarderCreated(ctx, b)
		}); err != nil {
			r.logger.Warn("plugin OnBoarderCreated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitBoarderUpdated emits a boarder updated event.
func (r *Registry) EmitBoarderUpdated(ctx context.Context, oldBoarder, newBoarder interface{}) {
	r.mu.RLock()
	plugins := r.onBoarderUpdated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnBoarderUpdated(ctx, oldBoarder, newBoarder)
		}); err != nil {
			r.logger.Warn("plugin OnBoarderUpdated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitBoarderDeleted emits a boarder deleted event.
func (r *Registry) EmitBoarderDeleted(ctx context.Context, boarderID string) {
	r.mu.RLock()
	plugins := r.onBoarderDeleted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnBoarderDeleted(ctx, boarderID)
		}); err != nil {
			r.logger.Warn("plugin OnBoarderDeleted failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitMealRecorded emits a meal recorded event.
func (r *Registry) EmitMealRecorded(ctx context.Context, entry interface{}) {
	r.mu.RLock()
	plugins := r.onMealRecorded
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnMealRecorded(ctx, entry)
		}); err != nil {
			r.logger.Warn("plugin OnMealRecorded failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitExpenseRecorded emits an expense recorded event.
func (r *Registry) EmitExpenseRecorded(ctx context.Context, exp interface{}) {
	r.mu.RLock()
	plugins := r.onExpenseRecorded
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnExpenseRecorded(ctx, exp)
		}); err != nil {
			r.logger.Warn("plugin OnExpenseRecorded failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitPaymentRecorded emits a payment recorded event.
func (r *Registry) EmitPaymentRecorded(ctx context.Context, pay interface{}) {
	r.mu.RLock()
	plugins := r.onPaymentRecorded
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnPaymentRecorded(ctx, pay)
		}); err != nil {
			r.logger.Warn("plugin OnPaymentRecorded failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitLockedWriteRejected emits a locked write rejected event.
func (r *Registry) EmitLockedWriteRejected(ctx context.Context, hostelID, period, kind string) {
	r.mu.RLock()
	plugins := r.onLockedWriteRejected
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnLockedWriteRejected(ctx, hostelID, period, kind)
		}); err != nil {
			r.logger.Warn("plugin OnLockedWriteRejected failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitStatementsGenerated emits a statements generated event.
func (r *Registry) EmitStatementsGenerated(ctx context.Context, report interface{}) {
	r.mu.RLock()
	plugins := r.onStatementsGenerated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnStatementsGenerated(ctx, report)
		}); err != nil {
			r.logger.Warn("plugin OnStatementsGenerated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitMonthLocked emits a month locked event.
func (r *Registry) EmitMonthLocked(ctx context.Context, c interface{}) {
	r.mu.RLock()
	plugins := r.onMonthLocked
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnMonthLocked(ctx, c)
		}); err != nil {
			r.logger.Warn("plugin OnMonthLocked failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitMonthUnlocked emits a month unlocked event.
func (r *Registry) EmitMonthUnlocked(ctx context.Context, c interface{}) {
	r.mu.RLock()
	plugins := r.onMonthUnlocked
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnMonthUnlocked(ctx, c)
		}); err != nil {
			r.logger.Warn("plugin OnMonthUnlocked failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// GetReportFormatter returns a report formatter by format name.
func (r *Registry) GetReportFormatter(format string) ReportFormatter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.reportFormatters[format]
}

// GetNoticeSender returns a notice sender by channel name.
func (r *Registry) GetNoticeSender(channel string) NoticeSender {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.noticeSenders[channel]
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins should never block the billing pipeline.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
