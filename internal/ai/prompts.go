package ai

import (
	"fmt"
	"sort"
	"strings"

	"github.com/castlemilk/pfinance/automation/internal/model"
)

// BudgetPrompt is the input for a budget suggestion.
type BudgetPrompt struct {
	Income     float64
	Categories []model.Category
	// Spend is recent expense totals keyed by category id.
	Spend map[string]float64
}

// CategorySummary is one line of the insight prompt.
type CategorySummary struct {
	Name   string
	Budget float64
	Spent  float64
}

// InsightPrompt is the input for insight generation.
type InsightPrompt struct {
	Month         string
	MonthlyIncome float64
	MonthlyBudget float64
	TotalSpending float64
	Categories    []CategorySummary
}

func (p BudgetPrompt) render() string {
	var b strings.Builder
	b.WriteString("You are a personal budgeting assistant.\n\n")
	fmt.Fprintf(&b, "Monthly income: %.2f\n\n", p.Income)
	b.WriteString("Categories (id, name, spent over recent months):\n")
	for _, c := range p.Categories {
		fmt.Fprintf(&b, "- %s, %s, %.2f\n", c.ID, c.Name, p.Spend[c.ID])
	}
	b.WriteString("\nRules:\n" +
		"- Assign a whole-number monthly budget to every category id listed above.\n" +
		"- The budgets must add up to exactly the monthly income, rounded down to a whole number.\n" +
		"- Do not invent categories.\n\n" +
		"Return ONLY valid raw JSON of the form {\"categoryBudgets\": {\"<category id>\": <amount>}}.\n" +
		"Do NOT wrap the response in code fences.\n")
	return b.String()
}

func (p InsightPrompt) render() string {
	cats := append([]CategorySummary(nil), p.Categories...)
	sort.SliceStable(cats, func(i, j int) bool { return cats[i].Spent > cats[j].Spent })

	var b strings.Builder
	b.WriteString("You are a personal finance coach.\n\n")
	fmt.Fprintf(&b, "Month: %s\n", p.Month)
	fmt.Fprintf(&b, "Monthly income: %.2f\n", p.MonthlyIncome)
	fmt.Fprintf(&b, "Monthly budget: %.2f\n", p.MonthlyBudget)
	fmt.Fprintf(&b, "Total spending: %.2f\n\n", p.TotalSpending)
	b.WriteString("Categories (name, budget, spent):\n")
	for _, c := range cats {
		fmt.Fprintf(&b, "- %s, %.2f, %.2f\n", c.Name, c.Budget, c.Spent)
	}
	fmt.Fprintf(&b, "\nWrite exactly %d short insights about this month. ", 3)
	b.WriteString("Each insight has a \"type\" (one of pattern, alert, opportunity, achievement, forecast, education), " +
		"a \"title\" and a \"description\". Only state figures that follow from the numbers above.\n\n" +
		"Return ONLY valid raw JSON of the form {\"insights\": [{\"type\": \"...\", \"title\": \"...\", \"description\": \"...\"}]}.\n" +
		"Do NOT wrap the response in code fences.\n")
	return b.String()
}
