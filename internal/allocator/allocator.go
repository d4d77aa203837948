// Package allocator splits a monthly income across spending categories.
//
// All allocators share one contract: each category receives a non-negative
// whole-unit amount and, for a non-empty category list, the amounts sum to the
// income floored to whole units.
package allocator

import (
	"fmt"

	"github.com/castlemilk/pfinance/automation/internal/model"
	"github.com/shopspring/decimal"
)

// Template selects the allocation strategy.
type Template string

const (
	TemplateAuto          Template = "auto"
	TemplateZeroBased     Template = "zero_based"
	TemplateSpendingBased Template = "spending_based"
)

// Allocator performs the proportional needs/wants/savings allocation.
type Allocator struct {
	buckets BucketConfig
}

// New creates an Allocator with the given bucket table.
func New(buckets BucketConfig) *Allocator {
	return &Allocator{buckets: buckets}
}

// Default creates an Allocator with DefaultBuckets.
func Default() *Allocator {
	return New(DefaultBuckets())
}

// Buckets returns the allocator's bucket table.
func (a *Allocator) Buckets() BucketConfig {
	return a.buckets
}

// AllocateWith dispatches to the allocator for template.
func (a *Allocator) AllocateWith(template Template, income decimal.Decimal, categories []model.Category, history []model.Transaction) (model.BudgetAllocation, error) {
	switch template {
	case TemplateAuto, "":
		return a.Allocate(income, categories, history)
	case TemplateZeroBased:
		return ZeroBased(income, categories)
	case TemplateSpendingBased:
		return SpendingBased(income, categories, history)
	default:
		return nil, model.NewValidationError("template", "unknown template", string(template))
	}
}

// Allocate gives each bucket share x income, then splits it within the bucket in
// proportion to historical expense per category (evenly when a bucket has no
// history). Income not covered by the shares, plus the targets of empty
// buckets, goes to the leftover categories; when there are none it is spread
// over every allocated category so nothing is lost.
func (a *Allocator) Allocate(income decimal.Decimal, categories []model.Category, history []model.Transaction) (model.BudgetAllocation, error) {
	if err := checkIncome(income); err != nil {
		return nil, err
	}
	alloc := make(model.BudgetAllocation, len(categories))
	if len(categories) == 0 {
		return alloc, nil
	}
	units := wholeUnits(income)
	spend := SpendByCategory(history)

	members := make([][]int, len(a.buckets.Buckets))
	var leftover []int
	for i, cat := range categories {
		alloc[cat.ID] = 0
		if b := a.buckets.bucketOf(cat); b >= 0 {
			members[b] = append(members[b], i)
		} else {
			leftover = append(leftover, i)
		}
	}

	shares := make([]decimal.Decimal, len(a.buckets.Buckets))
	covered := decimal.Zero
	for i, b := range a.buckets.Buckets {
		shares[i] = b.Share
		covered = covered.Add(b.Share)
	}
	if covered.GreaterThan(decimal.NewFromInt(1)) {
		covered = decimal.NewFromInt(1)
	}
	bucketed := decimal.NewFromInt(units).Mul(covered).Floor().IntPart()
	targets := distribute(bucketed, shares)

	unassigned := units - bucketed
	for b, idxs := range members {
		if len(idxs) == 0 {
			unassigned += targets[b]
			continue
		}
		assignProportional(alloc, categories, idxs, targets[b], spend)
	}

	if unassigned > 0 {
		if len(leftover) > 0 {
			assignProportional(alloc, categories, leftover, unassigned, spend)
		} else {
			spreadOverAllocated(alloc, categories, unassigned)
		}
	}

	reconcile(alloc, units)
	return alloc, nil
}

// ZeroBased divides income evenly across all categories.
func ZeroBased(income decimal.Decimal, categories []model.Category) (model.BudgetAllocation, error) {
	if err := checkIncome(income); err != nil {
		return nil, err
	}
	alloc := make(model.BudgetAllocation, len(categories))
	weights := make([]decimal.Decimal, len(categories))
	for i, amount := range distribute(wholeUnits(income), weights) {
		alloc[categories[i].ID] += amount
	}
	return alloc, nil
}

// SpendingBased divides income in proportion to each category's share of total
// historical expense, or evenly when there is no history.
func SpendingBased(income decimal.Decimal, categories []model.Category, history []model.Transaction) (model.BudgetAllocation, error) {
	if err := checkIncome(income); err != nil {
		return nil, err
	}
	spend := SpendByCategory(history)
	alloc := make(model.BudgetAllocation, len(categories))
	weights := make([]decimal.Decimal, len(categories))
	for i, cat := range categories {
		weights[i] = spend[cat.ID]
	}
	for i, amount := range distribute(wholeUnits(income), weights) {
		alloc[categories[i].ID] += amount
	}
	return alloc, nil
}

// SpendByCategory sums expense amounts per category id.
func SpendByCategory(history []model.Transaction) map[string]decimal.Decimal {
	spend := make(map[string]decimal.Decimal)
	for _, t := range history {
		if !t.IsExpense() || t.Amount <= 0 {
			continue
		}
		spend[t.Category] = spend[t.Category].Add(decimal.NewFromFloat(t.Amount))
	}
	return spend
}

// Apply returns a copy of categories with budgets set from alloc. Categories
// missing from alloc keep their existing budget.
func Apply(categories []model.Category, alloc model.BudgetAllocation) []model.Category {
	out := make([]model.Category, len(categories))
	for i, cat := range categories {
		if v, ok := alloc[cat.ID]; ok {
			cat.Budget = float64(v)
		}
		out[i] = cat
	}
	return out
}

func assignProportional(alloc model.BudgetAllocation, categories []model.Category, idxs []int, target int64, spend map[string]decimal.Decimal) {
	weights := make([]decimal.Decimal, len(idxs))
	for i, idx := range idxs {
		weights[i] = spend[categories[idx].ID]
	}
	for i, amount := range distribute(target, weights) {
		alloc[categories[idxs[i]].ID] += amount
	}
}

// spreadOverAllocated adds amount across categories in proportion to what they
// already hold.
func spreadOverAllocated(alloc model.BudgetAllocation, categories []model.Category, amount int64) {
	weights := make([]decimal.Decimal, len(categories))
	for i, cat := range categories {
		weights[i] = decimal.NewFromInt(alloc[cat.ID])
	}
	for i, extra := range distribute(amount, weights) {
		alloc[categories[i].ID] += extra
	}
}

// reconcile removes any overshoot from the single largest allocation.
func reconcile(alloc model.BudgetAllocation, units int64) {
	excess := alloc.Total() - units
	if excess <= 0 {
		return
	}
	var largest string
	for id, v := range alloc {
		if largest == "" || v > alloc[largest] || (v == alloc[largest] && id < largest) {
			largest = id
		}
	}
	alloc[largest] -= excess
	if alloc[largest] < 0 {
		alloc[largest] = 0
	}
}

func checkIncome(income decimal.Decimal) error {
	if income.IsNegative() {
		return model.NewValidationError("income", "must not be negative", income.String())
	}
	return nil
}

// CheckConservation reports an allocation whose total differs from income in
// whole units. A non-nil result is a logic bug, not a user error.
func CheckConservation(alloc model.BudgetAllocation, income decimal.Decimal) error {
	if got, want := alloc.Total(), wholeUnits(income); got != want {
		return fmt.Errorf("allocation total %d does not match income %d", got, want)
	}
	return nil
}
