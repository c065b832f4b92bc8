// Package audithook bridges Messbill lifecycle events to an audit trail backend.
//
// It defines a local Recorder interface so the package does not import
// Chronicle directly. Callers inject a RecorderFunc adapter that bridges
// to Chronicle at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xraph/messbill/plugin"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin                = (*Extension)(nil)
	_ plugin.OnBoarderCreated      = (*Extension)(nil)
	_ plugin.OnBoarderUpdated      = (*Extension)(nil)
	_ plugin.OnBoarderDeleted      = (*Extension)(nil)
	_ plugin.OnMealRecorded        = (*Extension)(nil)
	_ plugin.OnExpenseRecorded     = (*Extension)(nil)
	_ plugin.OnPaymentRecorded     = (*Extension)(nil)
	_ plugin.OnLockedWriteRejected = (*Extension)(nil)
	_ plugin.OnStatementsGenerated = (*Extension)(nil)
	_ plugin.OnMonthLocked         = (*Extension)(nil)
	_ plugin.OnMonthUnlocked       = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
// This matches chronicle.Emitter but is defined locally so that the
// audit_hook package does not import Chronicle directly — callers inject
// the concrete *chronicle.Chronicle at wiring time.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
// It mirrors chronicle/audit.Event but avoids a module dependency.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges Messbill lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Boarder lifecycle hooks
// ──────────────────────────────────────────────────

// OnBoarderCreated implements plugin.OnBoarderCreated.
func (e *Extension) OnBoarderCreated(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionBoarderCreated, SeverityInfo, OutcomeSuccess,
		ResourceBoarder, "", CategoryBoarder, nil,
		"event", "boarder_created",
	)
}

// OnBoarderUpdated implements plugin.OnBoarderUpdated.
func (e *Extension) OnBoarderUpdated(ctx context.Context, _, _ interface{}) error {
	return e.record(ctx, ActionBoarderUpdated, SeverityInfo, OutcomeSuccess,
		ResourceBoarder, "", CategoryBoarder, nil,
		"event", "boarder_updated",
	)
}

// OnBoarderDeleted implements plugin.OnBoarderDeleted.
func (e *Extension) OnBoarderDeleted(ctx context.Context, boarderID string) error {
	return e.record(ctx, ActionBoarderDeleted, SeverityInfo, OutcomeSuccess,
		ResourceBoarder, boarderID, CategoryBoarder, nil,
		"boarder_id", boarderID,
	)
}

// ──────────────────────────────────────────────────
// Fact recording hooks
// ──────────────────────────────────────────────────

// OnMealRecorded implements plugin.OnMealRecorded.
func (e *Extension) OnMealRecorded(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionMealRecorded, SeverityInfo, OutcomeSuccess,
		ResourceMeal, "", CategoryFact, nil,
		"event", "meal_recorded",
	)
}

// OnExpenseRecorded implements plugin.OnExpenseRecorded.
func (e *Extension) OnExpenseRecorded(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionExpenseRecorded, SeverityInfo, OutcomeSuccess,
		ResourceExpense, "", CategoryFact, nil,
		"event", "expense_recorded",
	)
}

// OnPaymentRecorded implements plugin.OnPaymentRecorded.
func (e *Extension) OnPaymentRecorded(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionPaymentRecorded, SeverityInfo, OutcomeSuccess,
		ResourcePayment, "", CategoryFact, nil,
		"event", "payment_recorded",
	)
}

// OnLockedWriteRejected implements plugin.OnLockedWriteRejected.
func (e *Extension) OnLockedWriteRejected(ctx context.Context, hostelID, period, kind string) error {
	return e.record(ctx, ActionWriteRejected, SeverityWarning, OutcomeFailure,
		ResourceClosing, hostelID, CategoryClosing, nil,
		"hostel_id", hostelID,
		"period", period,
		"kind", kind,
	)
}

// ──────────────────────────────────────────────────
// Billing hooks
// ──────────────────────────────────────────────────

// OnStatementsGenerated implements plugin.OnStatementsGenerated.
func (e *Extension) OnStatementsGenerated(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionStatementsGenerated, SeverityInfo, OutcomeSuccess,
		ResourceStatement, "", CategoryBilling, nil,
		"event", "statements_generated",
	)
}

// OnMonthLocked implements plugin.OnMonthLocked.
func (e *Extension) OnMonthLocked(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionMonthLocked, SeverityInfo, OutcomeSuccess,
		ResourceClosing, "", CategoryClosing, nil,
		"event", "month_locked",
	)
}

// OnMonthUnlocked implements plugin.OnMonthUnlocked.
func (e *Extension) OnMonthUnlocked(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionMonthUnlocked, SeverityWarning, OutcomeSuccess,
		ResourceClosing, "", CategoryClosing, nil,
		"event", "month_unlocked",
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
