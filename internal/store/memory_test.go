package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/castlemilk/pfinance/automation/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMemoryStore_Transactions(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	for i := 1; i <= 5; i++ {
		require.NoError(t, s.CreateTransaction(ctx, &model.Transaction{
			ID:     fmt.Sprintf("t%d", i),
			UserID: "user-1",
			Type:   model.TransactionTypeExpense,
			Amount: float64(i * 10),
			Date:   date(2025, 3, i),
		}))
	}
	require.NoError(t, s.CreateTransaction(ctx, &model.Transaction{ID: "other", UserID: "user-2", Date: date(2025, 3, 2)}))

	got, err := s.GetTransaction(ctx, "t3")
	require.NoError(t, err)
	assert.Equal(t, 30.0, got.Amount)

	got.Amount = 999
	again, _ := s.GetTransaction(ctx, "t3")
	assert.Equal(t, 30.0, again.Amount, "returned values must not alias stored state")

	_, err = s.GetTransaction(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	start, end := date(2025, 3, 2), date(2025, 3, 4)
	ranged, next, err := s.ListTransactions(ctx, "user-1", &start, &end, 0, "")
	require.NoError(t, err)
	assert.Empty(t, next)
	assert.Len(t, ranged, 3)

	all, _, err := s.ListTransactions(ctx, "", nil, nil, 0, "")
	require.NoError(t, err)
	assert.Len(t, all, 6)
}

func TestMemoryStore_CreateAssignsID(t *testing.T) {
	s := NewMemoryStore()
	txn := &model.Transaction{UserID: "user-1"}
	require.NoError(t, s.CreateTransaction(context.Background(), txn))
	assert.NotEmpty(t, txn.ID)
}

func TestMemoryStore_Pagination(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	for i := 0; i < 7; i++ {
		require.NoError(t, s.CreateRecurrenceRule(ctx, &model.RecurrenceRule{ID: fmt.Sprintf("r%d", i), UserID: "user-1", Active: true}))
	}

	var seen []string
	token := ""
	pages := 0
	for {
		rules, next, err := s.ListRecurrenceRules(ctx, "user-1", true, 3, token)
		require.NoError(t, err)
		pages++
		for _, r := range rules {
			seen = append(seen, r.ID)
		}
		if next == "" {
			break
		}
		token = next
	}

	assert.Equal(t, 3, pages)
	assert.Equal(t, []string{"r0", "r1", "r2", "r3", "r4", "r5", "r6"}, seen)

	_, _, err := s.ListRecurrenceRules(ctx, "user-1", true, 3, "%%%")
	assert.Error(t, err)
}

func TestMemoryStore_ListRecurrenceRulesFilters(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.CreateRecurrenceRule(ctx, &model.RecurrenceRule{ID: "a", UserID: "user-1", Active: true}))
	require.NoError(t, s.CreateRecurrenceRule(ctx, &model.RecurrenceRule{ID: "b", UserID: "user-1", Active: false}))
	require.NoError(t, s.CreateRecurrenceRule(ctx, &model.RecurrenceRule{ID: "c", UserID: "user-2", Active: true}))

	active, _, err := s.ListRecurrenceRules(ctx, "", true, 0, "")
	require.NoError(t, err)
	assert.Len(t, active, 2)

	mine, _, err := s.ListRecurrenceRules(ctx, "user-1", false, 0, "")
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestMemoryStore_UpdateRecurrenceRule(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	err := s.UpdateRecurrenceRule(ctx, &model.RecurrenceRule{ID: "missing"})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.CreateRecurrenceRule(ctx, &model.RecurrenceRule{ID: "r", Active: true}))
	require.NoError(t, s.UpdateRecurrenceRule(ctx, &model.RecurrenceRule{ID: "r", Active: false}))
	got, err := s.GetRecurrenceRule(ctx, "r")
	require.NoError(t, err)
	assert.False(t, got.Active)
}

func TestMemoryStore_Categories(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.UpsertCategory(ctx, &model.Category{ID: "food", UserID: "user-1", Name: "Food", Budget: 100}))
	require.NoError(t, s.UpsertCategory(ctx, &model.Category{ID: "food", UserID: "user-2", Name: "Food", Budget: 50}))
	require.NoError(t, s.UpsertCategory(ctx, &model.Category{ID: "food", UserID: "user-1", Name: "Food", Budget: 250}))
	assert.Error(t, s.UpsertCategory(ctx, &model.Category{UserID: "user-1"}))

	cats, err := s.ListCategories(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, 250.0, cats[0].Budget)
}

func TestMemoryStore_MaterializeRecurrence(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.CreateRecurrenceRule(ctx, &model.RecurrenceRule{ID: "rule", UserID: "user-1", Active: true}))

	today := date(2025, 3, 15)
	require.NoError(t, s.MaterializeRecurrence(ctx, "rule", nil, &model.Transaction{ID: "occ-1", UserID: "user-1"}, today))

	rule, err := s.GetRecurrenceRule(ctx, "rule")
	require.NoError(t, err)
	require.NotNil(t, rule.LastGenerated)
	assert.True(t, rule.LastGenerated.Equal(today))

	// A second writer that read the rule before the first one committed.
	err = s.MaterializeRecurrence(ctx, "rule", nil, &model.Transaction{ID: "occ-2", UserID: "user-1"}, today)
	assert.ErrorIs(t, err, ErrConflict)
	_, err = s.GetTransaction(ctx, "occ-2")
	assert.ErrorIs(t, err, ErrNotFound, "a conflicting materialization writes nothing")

	next := date(2025, 4, 15)
	require.NoError(t, s.MaterializeRecurrence(ctx, "rule", rule.LastGenerated, &model.Transaction{ID: "occ-3"}, next))

	err = s.MaterializeRecurrence(ctx, "missing", nil, &model.Transaction{}, today)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_MaterializeRecurrenceConcurrent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.CreateRecurrenceRule(ctx, &model.RecurrenceRule{ID: "rule", Active: true}))

	today := date(2025, 3, 15)
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := s.MaterializeRecurrence(ctx, "rule", nil, &model.Transaction{ID: fmt.Sprintf("occ-%d", i)}, today)
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	txns, _, err := s.ListTransactions(ctx, "", nil, nil, 0, "")
	require.NoError(t, err)
	assert.Len(t, txns, 1)
}

func TestPageTokens(t *testing.T) {
	assert.Empty(t, EncodePageToken(""))
	id, err := DecodePageToken(EncodePageToken("doc-42"))
	require.NoError(t, err)
	assert.Equal(t, "doc-42", id)

	_, err = DecodePageToken("not base64!")
	assert.Error(t, err)
}
