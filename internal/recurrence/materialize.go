package recurrence

import (
	"sync"
	"time"

	"github.com/castlemilk/pfinance/automation/internal/model"
)

// Materialize builds the transaction for an occurrence of rule due on today.
// The caller persists it and then advances rule.LastGenerated to today.
func Materialize(rule *model.RecurrenceRule, today time.Time, id string) model.Transaction {
	return model.Transaction{
		ID:                     id,
		UserID:                 rule.UserID,
		Type:                   rule.Type,
		Amount:                 rule.Amount,
		Category:               rule.Category,
		CategoryName:           rule.CategoryName,
		Date:                   today,
		Description:            rule.Description,
		IsRecurring:            true,
		RecurringTransactionID: rule.ID,
		CreatedAt:              today,
	}
}

// KeyedMutex serializes work per key. The scheduler locks a rule id for the
// whole check-materialize-persist sequence so overlapping passes (a UI refresh
// racing a background poll) cannot both see the rule as due.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

// NewKeyedMutex creates an empty KeyedMutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyedLock)}
}

// Lock acquires the lock for key and returns the function that releases it.
func (k *KeyedMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
