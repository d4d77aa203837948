package recurrence

import (
	"sync"
	"testing"
	"time"

	"github.com/castlemilk/pfinance/automation/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestMaterialize(t *testing.T) {
	rule := baseRule(model.FrequencyMonthly)
	rule.CategoryName = "Entertainment"
	today := day(2026, time.October, 19)

	txn := Materialize(rule, today, "txn-1")

	assert.Equal(t, "txn-1", txn.ID)
	assert.Equal(t, "user-1", txn.UserID)
	assert.Equal(t, model.TransactionTypeExpense, txn.Type)
	assert.Equal(t, 15.99, txn.Amount)
	assert.Equal(t, "entertainment", txn.Category)
	assert.Equal(t, "Entertainment", txn.CategoryName)
	assert.Equal(t, "Netflix", txn.Description)
	assert.True(t, txn.IsRecurring)
	assert.Equal(t, "rule-1", txn.RecurringTransactionID)
	assert.True(t, today.Equal(txn.Date))
}

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	km := NewKeyedMutex()
	var wg sync.WaitGroup
	counter := 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("rule-1")
			defer unlock()
			v := counter
			time.Sleep(time.Microsecond)
			counter = v + 1
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Empty(t, km.locks, "released keys should be removed")
}

func TestKeyedMutex_IndependentKeys(t *testing.T) {
	km := NewKeyedMutex()
	unlockA := km.Lock("a")
	done := make(chan struct{})

	go func() {
		unlockB := km.Lock("b")
		unlockB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different key should not block")
	}
	unlockA()
}
