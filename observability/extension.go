// Package observability provides a metrics extension for Messbill that records
// lifecycle event counts via go-utils MetricFactory.
package observability

import (
	"context"

	"github.com/xraph/messbill/bill"
	"github.com/xraph/messbill/plugin"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin                = (*MetricsExtension)(nil)
	_ plugin.OnInit                = (*MetricsExtension)(nil)
	_ plugin.OnBoarderCreated      = (*MetricsExtension)(nil)
	_ plugin.OnBoarderUpdated      = (*MetricsExtension)(nil)
	_ plugin.OnBoarderDeleted      = (*MetricsExtension)(nil)
	_ plugin.OnMealRecorded        = (*MetricsExtension)(nil)
	_ plugin.OnExpenseRecorded     = (*MetricsExtension)(nil)
	_ plugin.OnPaymentRecorded     = (*MetricsExtension)(nil)
	_ plugin.OnLockedWriteRejected = (*MetricsExtension)(nil)
	_ plugin.OnStatementsGenerated = (*MetricsExtension)(nil)
	_ plugin.OnMonthLocked         = (*MetricsExtension)(nil)
	_ plugin.OnMonthUnlocked       = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide lifecycle metrics.
// Register it as a Messbill plugin to automatically track billing metrics.
type MetricsExtension struct {
	factory MetricFactory

	// Boarder metrics
	BoarderCreated Counter
	BoarderUpdated Counter
	BoarderDeleted Counter

	// Fact metrics
	MealsRecorded    Counter
	ExpensesRecorded Counter
	PaymentsRecorded Counter
	WritesRejected   Counter

	// Billing metrics
	StatementsGenerated Counter
	StatementBatchSize  Histogram
	ReportTotalDue      Histogram

	// Closing metrics
	MonthsLocked   Counter
	MonthsUnlocked Counter

	// Error metrics
	StoreErrors  Counter
	PluginErrors Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Boarder metrics
		BoarderCreated: factory.Counter("messbill.boarder.created"),
		BoarderUpdated: factory.Counter("messbill.boarder.updated"),
		BoarderDeleted: factory.Counter("messbill.boarder.deleted"),

		// Fact metrics
		MealsRecorded:    factory.Counter("messbill.meal.recorded"),
		ExpensesRecorded: factory.Counter("messbill.expense.recorded"),
		PaymentsRecorded: factory.Counter("messbill.payment.recorded"),
		WritesRejected:   factory.Counter("messbill.write.rejected"),

		// Billing metrics
		StatementsGenerated: factory.Counter("messbill.statements.generated"),
		StatementBatchSize:  factory.Histogram("messbill.statements.batch.size"),
		ReportTotalDue:      factory.Histogram("messbill.report.total_due"),

		// Closing metrics
		MonthsLocked:   factory.Counter("messbill.month.locked"),
		MonthsUnlocked: factory.Counter("messbill.month.unlocked"),

		// Error metrics
		StoreErrors:  factory.Counter("messbill.store.errors"),
		PluginErrors: factory.Counter("messbill.plugin.errors"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	// No initialization needed
	return nil
}

// ──────────────────────────────────────────────────
// Boarder lifecycle hooks
// ──────────────────────────────────────────────────

// OnBoarderCreated implements plugin.OnBoarderCreated.
func (m *MetricsExtension) OnBoarderCreated(_ context.Context, _ interface{}) error {
	m.BoarderCreated.Inc()
	return nil
}

// OnBoarderUpdated implements plugin.OnBoarderUpdated.
func (m *MetricsExtension) OnBoarderUpdated(_ context.Context, _, _ interface{}) error {
	m.BoarderUpdated.Inc()
	return nil
}

// OnBoarderDeleted implements plugin.OnBoarderDeleted.
func (m *MetricsExtension) OnBoarderDeleted(_ context.Context, _ string) error {
	m.BoarderDeleted.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Fact recording hooks
// ──────────────────────────────────────────────────

// OnMealRecorded implements plugin.OnMealRecorded.
func (m *MetricsExtension) OnMealRecorded(_ context.Context, _ interface{}) error {
	m.MealsRecorded.Inc()
	return nil
}

// OnExpenseRecorded implements plugin.OnExpenseRecorded.
func (m *MetricsExtension) OnExpenseRecorded(_ context.Context, _ interface{}) error {
	m.ExpensesRecorded.Inc()
	return nil
}

// OnPaymentRecorded implements plugin.OnPaymentRecorded.
func (m *MetricsExtension) OnPaymentRecorded(_ context.Context, _ interface{}) error {
	m.PaymentsRecorded.Inc()
	return nil
}

// OnLockedWriteRejected implements plugin.OnLockedWriteRejected.
func (m *MetricsExtension) OnLockedWriteRejected(_ context.Context, _, _, _ string) error {
	m.WritesRejected.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Billing hooks
// ──────────────────────────────────────────────────

// OnStatementsGenerated implements plugin.OnStatementsGenerated.
func (m *MetricsExtension) OnStatementsGenerated(_ context.Context, report interface{}) error {
	m.StatementsGenerated.Inc()
	if r, ok := report.(*bill.MonthlyReport); ok {
		m.StatementBatchSize.Observe(float64(len(r.Statements)))
		m.ReportTotalDue.Observe(r.TotalDue().Float64())
	}
	return nil
}

// OnMonthLocked implements plugin.OnMonthLocked.
func (m *MetricsExtension) OnMonthLocked(_ context.Context, _ interface{}) error {
	m.MonthsLocked.Inc()
	return nil
}

// OnMonthUnlocked implements plugin.OnMonthUnlocked.
func (m *MetricsExtension) OnMonthUnlocked(_ context.Context, _ interface{}) error {
	m.MonthsUnlocked.Inc()
	return nil
}
