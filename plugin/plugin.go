// Package plugin provides an extensible plugin system for Messbill.
// Plugins can hook into various lifecycle events to extend functionality.
package plugin

import (
	"context"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the plugin is initialized.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, engine interface{}) error
}

// OnShutdown is called when the plugin is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Boarder lifecycle hooks
// ──────────────────────────────────────────────────

// OnBoarderCreated is called when a new boarder is registered.
type OnBoarderCreated interface {
	Plugin
	OnBoarderCreated(ctx context.Context, b interface{}) error
}

// OnBoarderUpdated is called when a boarder's profile changes.
type OnBoarderUpdated interface {
	Plugin
	OnBoarderUpdated(ctx context.Context, oldBoarder, newBoarder interface{}) error
}

// OnBoarderDeleted is called when a boarder is soft-deleted.
type OnBoarderDeleted interface {
	Plugin
	OnBoarderDeleted(ctx context.Context, boarderID string) error
}

// ──────────────────────────────────────────────────
// Fact recording hooks
// ──────────────────────────────────────────────────

// OnMealRecorded is called when a day's meal entry is recorded or replaced.
type OnMealRecorded interface {
	Plugin
	OnMealRecorded(ctx context.Context, entry interface{}) error
}

// OnExpenseRecorded is called when an expense is recorded.
type OnExpenseRecorded interface {
	Plugin
	OnExpenseRecorded(ctx context.Context, exp interface{}) error
}

// OnPaymentRecorded is called when a payment is recorded.
type OnPaymentRecorded interface {
	Plugin
	OnPaymentRecorded(ctx context.Context, pay interface{}) error
}

// OnLockedWriteRejected is called when a fact write is refused because
// its billing month is locked.
type OnLockedWriteRejected interface {
	Plugin
	OnLockedWriteRejected(ctx context.Context, hostelID, period, kind string) error
}

// ──────────────────────────────────────────────────
// Billing hooks
// ──────────────────────────────────────────────────

// OnStatementsGenerated is called when a monthly report is built.
type OnStatementsGenerated interface {
	Plugin
	OnStatementsGenerated(ctx context.Context, report interface{}) error
}

// OnMonthLocked is called when a billing month is locked.
type OnMonthLocked interface {
	Plugin
	OnMonthLocked(ctx context.Context, c interface{}) error
}

// OnMonthUnlocked is called when a billing month is unlocked.
type OnMonthUnlocked interface {
	Plugin
	OnMonthUnlocked(ctx context.Context, c interface{}) error
}

// ──────────────────────────────────────────────────
// Report formatters
// ──────────────────────────────────────────────────

// ReportFormatter formats monthly reports for export.
type ReportFormatter interface {
	Plugin
	Format() string                                                      // "pdf", "html", "csv", etc.
	Render(ctx context.Context, report interface{}, w interface{}) error // w is io.Writer
}

// ──────────────────────────────────────────────────
// Notice senders
// ──────────────────────────────────────────────────

// NoticeSender delivers due notices to boarders (SMS, email, etc).
type NoticeSender interface {
	Plugin
	Channel() string
	SendDueNotice(ctx context.Context, statement interface{}) error
}
