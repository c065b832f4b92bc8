package memory

import (
	"context"
	"sync"
	"time"

	"github.com/xraph/messbill"
	"github.com/xraph/messbill/boarder"
	"github.com/xraph/messbill/closing"
	"github.com/xraph/messbill/expense"
	"github.com/xraph/messbill/id"
	"github.com/xraph/messbill/meal"
	"github.com/xraph/messbill/payment"
	"github.com/xraph/messbill/types"
)

type Store struct {
	mu sync.RWMutex

	// Boarder storage
	boarders map[string]*boarder.Boarder

	// Meal storage, reachable both by ID and by (hostel, boarder, day)
	meals    map[string]*meal.Entry
	mealDays map[string]string // day key -> entry ID

	// Expense storage
	expenses map[string]*expense.Expense

	// Payment storage
	payments map[string]*payment.Payment

	// Closing storage, keyed by (hostel, period)
	closings map[string]*closing.MonthlyClosing
}

func New() *Store {
	return &Store{
		boarders: make(map[string]*boarder.Boarder),
		meals:    make(map[string]*meal.Entry),
		mealDays: make(map[string]string),
		expenses: make(map[string]*expense.Expense),
		payments: make(map[string]*payment.Payment),
		closings: make(map[string]*closing.MonthlyClosing),
	}
}

// Boarder Store implementation
func (s *Store) CreateBoarder(_ context.Context, b *boarder.Boarder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.boarders[b.ID.String()]; exists {
		return messbill.ErrAlreadyExists
	}
	s.boarders[b.ID.String()] = b
	return nil
}

func (s *Store) GetBoarder(_ context.Context, boarderID id.BoarderID) (*boarder.Boarder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if b, ok := s.boarders[boarderID.String()]; ok {
		return b, nil
	}
	return nil, messbill.ErrBoarderNotFound
}

func (s *Store) ListBoarders(_ context.Context, hostelID id.HostelID, filter boarder.Filter, opts boarder.ListOpts) ([]*boarder.Boarder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*boarder.Boarder, 0)
	for _, b := range s.boarders {
		if b.HostelID == hostelID && filter.Matches(b) {
			result = append(result, b)
		}
	}

	// Apply limit/offset
	start := opts.Offset
	if start > len(result) {
		start = len(result)
	}
	end := start + opts.Limit
	if opts.Limit == 0 || end > len(result) {
		end = len(result)
	}

	return result[start:end], nil
}

func (s *Store) UpdateBoarder(_ context.Context, b *boarder.Boarder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.boarders[b.ID.String()]; !exists {
		return messbill.ErrBoarderNotFound
	}
	s.boarders[b.ID.String()] = b
	return nil
}

func (s *Store) SoftDeleteBoarder(_ context.Context, boarderID id.BoarderID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, exists := s.boarders[boarderID.String()]; exists {
		now := time.Now()
		b.Deleted = true
		b.Status = boarder.StatusInactive
		b.DeletedAt = &now
		return nil
	}
	return messbill.ErrBoarderNotFound
}

// Meal Store implementation
func (s *Store) UpsertMeal(_ context.Context, e *meal.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dayKey := mealDayKey(e.HostelID, e.BoarderID, e.Date)
	if existingID, ok := s.mealDays[dayKey]; ok {
		// Replace the day's entry, keeping its identity.
		e.ID = s.meals[existingID].ID
	}

	s.meals[e.ID.String()] = e
	s.mealDays[dayKey] = e.ID.String()
	return nil
}

func (s *Store) GetMeal(_ context.Context, mealID id.MealID) (*meal.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, ok := s.meals[mealID.String()]; ok {
		return e, nil
	}
	return nil, messbill.ErrMealNotFound
}

func (s *Store) GetMealByDay(_ context.Context, hostelID id.HostelID, boarderID id.BoarderID, day time.Time) (*meal.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if entryID, ok := s.mealDays[mealDayKey(hostelID, boarderID, day)]; ok {
		return s.meals[entryID], nil
	}
	return nil, messbill.ErrMealNotFound
}

func (s *Store) ListMeals(_ context.Context, hostelID id.HostelID, opts meal.ListOpts) ([]*meal.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*meal.Entry, 0)
	for _, e := range s.meals {
		if e.HostelID != hostelID {
			continue
		}
		if !opts.BoarderID.IsNil() && e.BoarderID != opts.BoarderID {
			continue
		}
		if inWindow(e.Date, opts.Start, opts.End) {
			result = append(result, e)
		}
	}
	return result, nil
}

func (s *Store) DeleteMeal(_ context.Context, mealID id.MealID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.meals[mealID.String()]
	if !ok {
		return messbill.ErrMealNotFound
	}
	delete(s.meals, mealID.String())
	delete(s.mealDays, mealDayKey(e.HostelID, e.BoarderID, e.Date))
	return nil
}

func (s *Store) TotalMealsForBoarder(_ context.Context, hostelID id.HostelID, boarderID id.BoarderID, start, end time.Time) (types.Amount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := types.AmountZero
	for _, e := range s.meals {
		if e.HostelID == hostelID && e.BoarderID == boarderID && inWindow(e.Date, start, end) {
			total = total.Add(e.Total())
		}
	}
	return total, nil
}

func (s *Store) TotalMealsForHostel(_ context.Context, hostelID id.HostelID, start, end time.Time) (types.Amount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := types.AmountZero
	for _, e := range s.meals {
		if e.HostelID == hostelID && inWindow(e.Date, start, end) {
			total = total.Add(e.Total())
		}
	}
	return total, nil
}

// Expense Store implementation
func (s *Store) CreateExpense(_ context.Context, e *expense.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.expenses[e.ID.String()]; exists {
		return messbill.ErrAlreadyExists
	}
	s.expenses[e.ID.String()] = e
	return nil
}

func (s *Store) GetExpense(_ context.Context, expenseID id.ExpenseID) (*expense.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, ok := s.expenses[expenseID.String()]; ok {
		return e, nil
	}
	return nil, messbill.ErrExpenseNotFound
}

func (s *Store) ListExpenses(_ context.Context, hostelID id.HostelID, opts expense.ListOpts) ([]*expense.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*expense.Expense, 0)
	for _, e := range s.expenses {
		if e.HostelID != hostelID || e.Deleted {
			continue
		}
		if opts.Category != "" && e.Category != opts.Category {
			continue
		}
		if inWindow(e.Date, opts.Start, opts.End) {
			result = append(result, e)
		}
	}
	return result, nil
}

func (s *Store) UpdateExpense(_ context.Context, e *expense.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.expenses[e.ID.String()]; !exists {
		return messbill.ErrExpenseNotFound
	}
	s.expenses[e.ID.String()] = e
	return nil
}

func (s *Store) SoftDeleteExpense(_ context.Context, expenseID id.ExpenseID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, exists := s.expenses[expenseID.String()]; exists {
		now := time.Now()
		e.Deleted = true
		e.DeletedAt = &now
		return nil
	}
	return messbill.ErrExpenseNotFound
}

func (s *Store) TotalExpenseForPeriod(_ context.Context, hostelID id.HostelID, start, end time.Time) (types.Amount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := types.AmountZero
	for _, e := range s.expenses {
		if e.HostelID == hostelID && !e.Deleted && inWindow(e.Date, start, end) {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

func (s *Store) ExpenseTotalsByCategory(_ context.Context, hostelID id.HostelID, start, end time.Time) (map[expense.Category]types.Amount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[expense.Category]types.Amount)
	for _, e := range s.expenses {
		if e.HostelID == hostelID && !e.Deleted && inWindow(e.Date, start, end) {
			result[e.Category] = result[e.Category].Add(e.Amount)
		}
	}
	return result, nil
}

// Payment Store implementation
func (s *Store) CreatePayment(_ context.Context, p *payment.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.payments[p.ID.String()]; exists {
		return messbill.ErrAlreadyExists
	}
	s.payments[p.ID.String()] = p
	return nil
}

func (s *Store) GetPayment(_ context.Context, paymentID id.PaymentID) (*payment.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.payments[paymentID.String()]; ok {
		return p, nil
	}
	return nil, messbill.ErrPaymentNotFound
}

func (s *Store) ListPayments(_ context.Context, hostelID id.HostelID, opts payment.ListOpts) ([]*payment.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*payment.Payment, 0)
	for _, p := range s.payments {
		if p.HostelID != hostelID {
			continue
		}
		if !opts.BoarderID.IsNil() && p.BoarderID != opts.BoarderID {
			continue
		}
		if opts.Method != "" && p.Method != opts.Method {
			continue
		}
		if inWindow(p.Date, opts.Start, opts.End) {
			result = append(result, p)
		}
	}
	return result, nil
}

func (s *Store) UpdatePayment(_ context.Context, p *payment.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.payments[p.ID.String()]; !exists {
		return messbill.ErrPaymentNotFound
	}
	s.payments[p.ID.String()] = p
	return nil
}

func (s *Store) DeletePayment(_ context.Context, paymentID id.PaymentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.payments[paymentID.String()]; !exists {
		return messbill.ErrPaymentNotFound
	}
	delete(s.payments, paymentID.String())
	return nil
}

func (s *Store) TotalPaymentsForBoarder(_ context.Context, hostelID id.HostelID, boarderID id.BoarderID, start, end time.Time) (types.Amount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := types.AmountZero
	for _, p := range s.payments {
		if p.HostelID == hostelID && p.BoarderID == boarderID && inWindow(p.Date, start, end) {
			total = total.Add(p.Amount)
		}
	}
	return total, nil
}

func (s *Store) TotalPaymentsForHostel(_ context.Context, hostelID id.HostelID, start, end time.Time) (types.Amount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := types.AmountZero
	for _, p := range s.payments {
		if p.HostelID == hostelID && inWindow(p.Date, start, end) {
			total = total.Add(p.Amount)
		}
	}
	return total, nil
}

// Closing Store implementation
func (s *Store) SaveClosing(_ context.Context, c *closing.MonthlyClosing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closings[closingKey(c.HostelID, c.Period)] = c
	return nil
}

func (s *Store) GetClosing(_ context.Context, hostelID id.HostelID, period types.Period) (*closing.MonthlyClosing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.closings[closingKey(hostelID, period)]; ok {
		return c, nil
	}
	return nil, messbill.ErrClosingNotFound
}

func (s *Store) ListClosings(_ context.Context, hostelID id.HostelID, opts closing.ListOpts) ([]*closing.MonthlyClosing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*closing.MonthlyClosing, 0)
	for _, c := range s.closings {
		if c.HostelID != hostelID {
			continue
		}
		if opts.LockedOnly && !c.Locked {
			continue
		}
		result = append(result, c)
	}
	return result, nil
}

func (s *Store) IsMonthLocked(_ context.Context, hostelID id.HostelID, period types.Period) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.closings[closingKey(hostelID, period)]; ok {
		return c.Locked, nil
	}
	return false, nil
}

// Store management
func (s *Store) Migrate(_ context.Context) error {
	return nil // No migration needed for memory store
}

func (s *Store) Ping(_ context.Context) error {
	return nil // Always available
}

func (s *Store) Close() error {
	return nil // Nothing to close
}

// Helper functions
func mealDayKey(hostelID id.HostelID, boarderID id.BoarderID, day time.Time) string {
	return hostelID.String() + "|" + boarderID.String() + "|" + day.Format("2006-01-02")
}

func closingKey(hostelID id.HostelID, period types.Period) string {
	return hostelID.String() + "|" + period.String()
}

// inWindow reports whether t falls inside the inclusive [start, end]
// window. Zero bounds are open.
func inWindow(t, start, end time.Time) bool {
	if !start.IsZero() && t.Before(start) {
		return false
	}
	if !end.IsZero() && t.After(end) {
		return false
	}
	return true
}
