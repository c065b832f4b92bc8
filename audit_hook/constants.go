package audithook

// Action constants for audit events.
const (
	// Boarder actions
	ActionBoarderCreated = "boarder.created"
	ActionBoarderUpdated = "boarder.updated"
	ActionBoarderDeleted = "boarder.deleted"

	// Fact actions
	ActionMealRecorded    = "meal.recorded"
	ActionExpenseRecorded = "expense.recorded"
	ActionPaymentRecorded = "payment.recorded"
	ActionWriteRejected   = "write.rejected"

	// Billing actions
	ActionStatementsGenerated = "statements.generated"
	ActionMonthLocked         = "month.locked"
	ActionMonthUnlocked       = "month.unlocked"
)

// Resource constants for audit events.
const (
	ResourceBoarder   = "boarder"
	ResourceMeal      = "meal"
	ResourceExpense   = "expense"
	ResourcePayment   = "payment"
	ResourceStatement = "statement"
	ResourceClosing   = "closing"
)

// Category constants for audit events.
const (
	CategoryBoarder = "boarder"
	CategoryFact    = "fact"
	CategoryBilling = "billing"
	CategoryClosing = "closing"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomePartial = "partial"
)
