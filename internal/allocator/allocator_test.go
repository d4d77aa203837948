package allocator

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/castlemilk/pfinance/automation/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expense(category string, amount float64) model.Transaction {
	return model.Transaction{Type: model.TransactionTypeExpense, Category: category, Amount: amount}
}

func cats(ids ...string) []model.Category {
	out := make([]model.Category, len(ids))
	for i, id := range ids {
		out[i] = model.Category{ID: id, Name: id}
	}
	return out
}

func TestAllocate_EndToEndScenario(t *testing.T) {
	categories := cats("food", "entertainment", "savings")
	history := []model.Transaction{
		expense("food", 400),
		expense("entertainment", 56),
	}

	alloc, err := Default().Allocate(decimal.NewFromInt(3000), categories, history)
	require.NoError(t, err)

	assert.Equal(t, int64(1500), alloc["food"])
	assert.Equal(t, int64(900), alloc["entertainment"])
	assert.Equal(t, int64(600), alloc["savings"])
	assert.Equal(t, int64(3000), alloc.Total())
}

func TestAllocate_ProportionalWithinBucket(t *testing.T) {
	categories := cats("food", "transport", "entertainment", "savings")
	history := []model.Transaction{
		expense("food", 300),
		expense("transport", 100),
		expense("entertainment", 10),
		{Type: model.TransactionTypeRevenue, Category: "transport", Amount: 10000},
	}

	alloc, err := Default().Allocate(decimal.NewFromInt(1000), categories, history)
	require.NoError(t, err)

	assert.Equal(t, int64(375), alloc["food"])
	assert.Equal(t, int64(125), alloc["transport"])
	assert.Equal(t, int64(300), alloc["entertainment"])
	assert.Equal(t, int64(200), alloc["savings"])
}

func TestAllocate_RemainderGoesToLargestFraction(t *testing.T) {
	categories := cats("food", "transport", "utilities")
	alloc, err := Default().Allocate(decimal.NewFromInt(100), categories, nil)
	require.NoError(t, err)

	// needs target is 50 split three ways; wants/savings are empty and their 50
	// spreads over the needs categories.
	assert.Equal(t, int64(100), alloc.Total())
	for _, id := range []string{"food", "transport", "utilities"} {
		assert.InDelta(t, 33, alloc[id], 1)
	}
}

func TestAllocate_EmptyBucketGoesToLeftover(t *testing.T) {
	categories := cats("food", "entertainment", "housing", "education")
	history := []model.Transaction{expense("housing", 900), expense("education", 100)}

	alloc, err := Default().Allocate(decimal.NewFromInt(2000), categories, history)
	require.NoError(t, err)

	assert.Equal(t, int64(1000), alloc["food"])
	assert.Equal(t, int64(600), alloc["entertainment"])
	assert.Equal(t, int64(360), alloc["housing"])
	assert.Equal(t, int64(40), alloc["education"])
	assert.Equal(t, int64(2000), alloc.Total())
}

func TestAllocate_LeftoverUnusedWhenBucketsFull(t *testing.T) {
	categories := cats("food", "shopping", "investments", "housing")
	alloc, err := Default().Allocate(decimal.NewFromInt(1000), categories, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(0), alloc["housing"])
	assert.Equal(t, int64(500), alloc["food"])
	assert.Equal(t, int64(300), alloc["shopping"])
	assert.Equal(t, int64(200), alloc["investments"])
}

func TestAllocate_MatchesByName(t *testing.T) {
	categories := []model.Category{
		{ID: "c1", Name: "Food"},
		{ID: "c2", Name: "Entertainment"},
		{ID: "c3", Name: "Savings"},
	}
	alloc, err := Default().Allocate(decimal.NewFromInt(3000), categories, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(1500), alloc["c1"])
	assert.Equal(t, int64(900), alloc["c2"])
	assert.Equal(t, int64(600), alloc["c3"])
}

func TestAllocate_FractionalIncomeIsFloored(t *testing.T) {
	alloc, err := Default().Allocate(decimal.RequireFromString("3001.75"), cats("food", "shopping", "savings"), nil)
	require.NoError(t, err)

	assert.Equal(t, int64(3001), alloc.Total())
	assert.Equal(t, int64(1501), alloc["food"])
}

func TestAllocate_ZeroIncome(t *testing.T) {
	alloc, err := Default().Allocate(decimal.Zero, cats("food", "savings"), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), alloc["food"])
	assert.Equal(t, int64(0), alloc["savings"])
}

func TestAllocate_NegativeIncome(t *testing.T) {
	_, err := Default().Allocate(decimal.NewFromInt(-1), cats("food"), nil)
	var vErr *model.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "income", vErr.Field)
}

func TestAllocate_EvenWithinBucketWithoutHistory(t *testing.T) {
	categories := cats("food", "transport", "utilities", "healthcare", "entertainment", "shopping", "other", "savings", "investments")
	alloc, err := Default().Allocate(decimal.NewFromInt(9999), categories, nil)
	require.NoError(t, err)

	buckets := [][]string{
		{"food", "transport", "utilities", "healthcare"},
		{"entertainment", "shopping", "other"},
		{"savings", "investments"},
	}
	for _, ids := range buckets {
		lo, hi := alloc[ids[0]], alloc[ids[0]]
		for _, id := range ids {
			lo = min(lo, alloc[id])
			hi = max(hi, alloc[id])
		}
		assert.LessOrEqual(t, hi-lo, int64(1), "bucket %v", ids)
	}
	assert.Equal(t, int64(9999), alloc.Total())
}

func TestAllocate_CustomBuckets(t *testing.T) {
	cfg, err := ParseBucketConfig([]byte(`{"buckets":[
		{"name":"essentials","share":"0.7","members":["rent","groceries"]},
		{"name":"fun","share":0.3,"members":["games"]}
	]}`))
	require.NoError(t, err)

	alloc, err := New(cfg).Allocate(decimal.NewFromInt(1000), cats("rent", "groceries", "games"), []model.Transaction{
		expense("rent", 600), expense("groceries", 100),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(600), alloc["rent"])
	assert.Equal(t, int64(100), alloc["groceries"])
	assert.Equal(t, int64(300), alloc["games"])
}

func TestParseBucketConfig_Invalid(t *testing.T) {
	_, err := ParseBucketConfig([]byte(`{"buckets":[]}`))
	assert.Error(t, err)

	_, err = ParseBucketConfig([]byte(`{"buckets":[{"name":"a","share":"-0.1"}]}`))
	assert.Error(t, err)

	_, err = ParseBucketConfig([]byte(`not json`))
	assert.Error(t, err)

	_, err = ParseBucketConfig([]byte(`{"buckets":[
		{"name":"a","share":"0.7","members":["x"]},
		{"name":"b","share":"0.4","members":["y"]}
	]}`))
	assert.Error(t, err)
}

func TestAllocate_PartialSharesFundLeftover(t *testing.T) {
	cfg, err := ParseBucketConfig([]byte(`{"buckets":[
		{"name":"needs","share":"0.5","members":["food"]},
		{"name":"wants","share":"0.3","members":["fun"]}
	]}`))
	require.NoError(t, err)

	alloc, err := New(cfg).Allocate(decimal.NewFromInt(1000), cats("food", "fun", "rent"), nil)
	require.NoError(t, err)

	assert.Equal(t, int64(500), alloc["food"])
	assert.Equal(t, int64(300), alloc["fun"])
	assert.Equal(t, int64(200), alloc["rent"])
	assert.Equal(t, int64(1000), alloc.Total())
}

func TestZeroBased(t *testing.T) {
	alloc, err := ZeroBased(decimal.NewFromInt(1000), cats("a", "b", "c"))
	require.NoError(t, err)

	assert.Equal(t, int64(1000), alloc.Total())
	assert.Equal(t, int64(334), alloc["a"])
	assert.Equal(t, int64(333), alloc["b"])
	assert.Equal(t, int64(333), alloc["c"])
}

func TestSpendingBased(t *testing.T) {
	history := []model.Transaction{expense("a", 50), expense("b", 150)}
	alloc, err := SpendingBased(decimal.NewFromInt(1000), cats("a", "b", "c"), history)
	require.NoError(t, err)

	assert.Equal(t, int64(250), alloc["a"])
	assert.Equal(t, int64(750), alloc["b"])
	assert.Equal(t, int64(0), alloc["c"])

	alloc, err = SpendingBased(decimal.NewFromInt(10), cats("a", "b"), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), alloc["a"])
	assert.Equal(t, int64(5), alloc["b"])
}

func TestAllocateWith(t *testing.T) {
	a := Default()
	categories := cats("food", "savings")

	for _, tmpl := range []Template{TemplateAuto, TemplateZeroBased, TemplateSpendingBased} {
		alloc, err := a.AllocateWith(tmpl, decimal.NewFromInt(777), categories, nil)
		require.NoError(t, err, tmpl)
		assert.Equal(t, int64(777), alloc.Total(), tmpl)
	}

	_, err := a.AllocateWith("envelope", decimal.NewFromInt(1), categories, nil)
	assert.Error(t, err)
}

func TestAllocators_Conservation(t *testing.T) {
	ids := []string{"food", "transport", "utilities", "healthcare", "entertainment", "shopping", "other", "savings", "investments", "housing", "education", "travel"}
	rng := rand.New(rand.NewSource(42))
	a := Default()

	for i := 0; i < 500; i++ {
		n := 1 + rng.Intn(len(ids))
		perm := rng.Perm(len(ids))[:n]
		var categories []model.Category
		for _, p := range perm {
			categories = append(categories, model.Category{ID: ids[p], Name: ids[p]})
		}
		var history []model.Transaction
		for j := 0; j < rng.Intn(20); j++ {
			history = append(history, expense(ids[rng.Intn(len(ids))], float64(rng.Intn(50000))/100))
		}
		income := decimal.NewFromInt(rng.Int63n(1_000_000))

		name := fmt.Sprintf("case %d income %s", i, income)

		auto, err := a.Allocate(income, categories, history)
		require.NoError(t, err, name)
		assert.NoError(t, CheckConservation(auto, income), name)

		zero, err := ZeroBased(income, categories)
		require.NoError(t, err, name)
		assert.NoError(t, CheckConservation(zero, income), name)

		spending, err := SpendingBased(income, categories, history)
		require.NoError(t, err, name)
		assert.NoError(t, CheckConservation(spending, income), name)

		for _, alloc := range []model.BudgetAllocation{auto, zero, spending} {
			for id, v := range alloc {
				assert.GreaterOrEqual(t, v, int64(0), "%s: %s", name, id)
			}
		}
	}
}

func TestApply(t *testing.T) {
	categories := []model.Category{{ID: "food", Budget: 10}, {ID: "rent", Budget: 900}}
	out := Apply(categories, model.BudgetAllocation{"food": 450})

	assert.Equal(t, 450.0, out[0].Budget)
	assert.Equal(t, 900.0, out[1].Budget)
	assert.Equal(t, 10.0, categories[0].Budget, "input must not be modified")
}

func TestDistribute(t *testing.T) {
	got := distribute(10, []decimal.Decimal{decimal.NewFromInt(1), decimal.NewFromInt(1), decimal.NewFromInt(1)})
	assert.Equal(t, []int64{4, 3, 3}, got)

	got = distribute(7, []decimal.Decimal{decimal.Zero, decimal.NewFromInt(2), decimal.NewFromInt(5)})
	assert.Equal(t, []int64{0, 2, 5}, got)

	assert.Empty(t, distribute(5, nil))
	assert.Equal(t, []int64{0, 0}, distribute(0, make([]decimal.Decimal, 2)))
}
