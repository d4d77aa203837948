package duplicates

import (
	"testing"
	"time"

	"github.com/castlemilk/pfinance/automation/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)

func txn(id string, amount float64, desc string, daysAgo int) model.Transaction {
	return model.Transaction{
		ID:          id,
		Type:        model.TransactionTypeExpense,
		Amount:      amount,
		Category:    "food",
		Description: desc,
		Date:        base.AddDate(0, 0, -daysAgo),
	}
}

func TestFindDuplicate_Exact(t *testing.T) {
	candidate := txn("new", 42.50, "Whole Foods Market", 0)
	recent := []model.Transaction{txn("t1", 42.50, "Whole Foods Market", 2)}

	m := FindDuplicate(candidate, recent, 3)
	require.NotNil(t, m)
	assert.Equal(t, "t1", m.Transaction.ID)
	assert.Equal(t, ConfidenceExact, m.Confidence)
}

func TestFindDuplicate_ExactCaseInsensitiveAndContains(t *testing.T) {
	candidate := txn("new", 12.00, "STARBUCKS", 0)

	m := FindDuplicate(candidate, []model.Transaction{txn("t1", 12.004, "starbucks", 1)}, 3)
	require.NotNil(t, m)
	assert.Equal(t, ConfidenceExact, m.Confidence)

	m = FindDuplicate(candidate, []model.Transaction{txn("t2", 12.00, "Starbucks Coffee #42", 1)}, 3)
	require.NotNil(t, m)
	assert.Equal(t, ConfidenceExact, m.Confidence)
}

func TestFindDuplicate_ShortDescriptionsNeedEquality(t *testing.T) {
	candidate := txn("new", 5, "Bus", 0)

	assert.Nil(t, FindDuplicate(candidate, []model.Transaction{txn("t1", 5, "Bus pass", 0)}, 3))
	m := FindDuplicate(candidate, []model.Transaction{txn("t2", 5, "bus", 0)}, 3)
	require.NotNil(t, m)
	assert.Equal(t, ConfidenceExact, m.Confidence)
}

func TestFindDuplicate_Close(t *testing.T) {
	candidate := txn("new", 100, "Shell Station", 0)

	tests := []struct {
		name   string
		amount float64
		desc   string
		want   bool
	}{
		{"within five percent", 104, "shell station 123", true},
		{"within one unit", 100.9, "Shell", true},
		{"too far apart", 110, "Shell Station", false},
		{"description too short", 102, "She", false},
		{"unrelated description", 101, "Texaco", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := FindDuplicate(candidate, []model.Transaction{txn("t1", tt.amount, tt.desc, 1)}, 3)
			if !tt.want {
				assert.Nil(t, m)
				return
			}
			require.NotNil(t, m)
			assert.Equal(t, ConfidenceClose, m.Confidence)
		})
	}
}

func TestFindDuplicate_ExactPreferredOverEarlierClose(t *testing.T) {
	candidate := txn("new", 20, "Uber Eats", 0)
	recent := []model.Transaction{
		txn("close", 20.5, "uber eats order", 1),
		txn("exact", 20, "Uber Eats", 2),
	}

	m := FindDuplicate(candidate, recent, 3)
	require.NotNil(t, m)
	assert.Equal(t, "exact", m.Transaction.ID)
	assert.Equal(t, ConfidenceExact, m.Confidence)
}

func TestFindDuplicate_Filters(t *testing.T) {
	candidate := txn("new", 42.50, "Whole Foods", 0)

	otherCategory := txn("t1", 42.50, "Whole Foods", 0)
	otherCategory.Category = "shopping"

	otherType := txn("t2", 42.50, "Whole Foods", 0)
	otherType.Type = model.TransactionTypeRevenue

	outside := txn("t3", 42.50, "Whole Foods", 4)
	future := txn("t4", 42.50, "Whole Foods", -4)
	self := txn("new", 42.50, "Whole Foods", 0)

	assert.Nil(t, FindDuplicate(candidate, []model.Transaction{otherCategory, otherType, outside, future, self}, 3))
}

func TestFindDuplicate_WindowBoundsAreInclusive(t *testing.T) {
	candidate := txn("new", 42.50, "Whole Foods", 0)
	edge := txn("t1", 42.50, "Whole Foods", 3)

	assert.NotNil(t, FindDuplicate(candidate, []model.Transaction{edge}, 3))
	assert.NotNil(t, FindDuplicate(candidate, []model.Transaction{edge}, 0), "zero window uses the default")
	assert.Nil(t, FindDuplicate(candidate, []model.Transaction{edge}, 2))
}

func TestFindDuplicate_DifferentCategoriesNeverMatch(t *testing.T) {
	candidate := txn("new", 10, "Amazon", 0)
	for _, cat := range []string{"shopping", "entertainment", "other", ""} {
		other := txn("t1", 10, "Amazon", 0)
		other.Category = cat
		assert.Nil(t, FindDuplicate(candidate, []model.Transaction{other}, 30), cat)
	}
}

func TestFindDuplicate_NewTransactionWithoutID(t *testing.T) {
	candidate := txn("", 9.99, "Spotify", 0)
	m := FindDuplicate(candidate, []model.Transaction{txn("t1", 9.99, "Spotify", 0)}, 3)
	require.NotNil(t, m)
	assert.Equal(t, "t1", m.Transaction.ID)
}
