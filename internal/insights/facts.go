package insights

import (
	"strings"

	"github.com/castlemilk/pfinance/automation/internal/model"
)

// Inputs are the independently computed figures insights are checked against.
type Inputs struct {
	Budgets       []model.Category
	History       []model.Transaction
	TotalSpending float64
	MonthlyIncome float64
	MonthlyBudget float64
}

// CategoryFact is the recomputed spend for one budgeted category.
type CategoryFact struct {
	ID     string
	Name   string
	Spent  float64
	Budget float64
}

// Ratio returns spent/budget, or 0 when the category has no budget.
func (c CategoryFact) Ratio() float64 {
	if c.Budget <= 0 {
		return 0
	}
	return c.Spent / c.Budget
}

// Facts are the ground-truth numbers derived from Inputs.
type Facts struct {
	Categories    []CategoryFact
	TotalSpending float64
	MonthlyIncome float64
	MonthlyBudget float64
	// Unallocated is income not assigned to any budget; negative when the
	// budget exceeds income.
	Unallocated float64
	// Savings is the budget set aside in savings categories.
	Savings float64
}

// ComputeFacts recomputes per-category spend from the expense history.
func ComputeFacts(in Inputs) Facts {
	spent := make(map[string]float64)
	var total float64
	for _, t := range in.History {
		if !t.IsExpense() {
			continue
		}
		spent[t.Category] += t.Amount
		total += t.Amount
	}

	f := Facts{
		TotalSpending: in.TotalSpending,
		MonthlyIncome: in.MonthlyIncome,
		MonthlyBudget: in.MonthlyBudget,
		Unallocated:   in.MonthlyIncome - in.MonthlyBudget,
	}
	if f.TotalSpending == 0 {
		f.TotalSpending = total
	}

	for _, c := range in.Budgets {
		f.Categories = append(f.Categories, CategoryFact{
			ID:     c.ID,
			Name:   displayName(c),
			Spent:  spent[c.ID],
			Budget: c.Budget,
		})
		if c.IsSavings() {
			f.Savings += c.Budget
		}
	}
	return f
}

// Category finds a category by id or case-insensitive name.
func (f Facts) Category(key string) (CategoryFact, bool) {
	for _, c := range f.Categories {
		if strings.EqualFold(c.ID, key) || strings.EqualFold(c.Name, key) {
			return c, true
		}
	}
	return CategoryFact{}, false
}

func displayName(c model.Category) string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}
