package insights

import (
	"strings"
	"testing"

	"github.com/castlemilk/pfinance/automation/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expense(category string, amount float64) model.Transaction {
	return model.Transaction{Type: model.TransactionTypeExpense, Category: category, Amount: amount}
}

func baseInputs() Inputs {
	return Inputs{
		Budgets: []model.Category{
			{ID: "food", Name: "Food", Budget: 1500},
			{ID: "entertainment", Name: "Entertainment", Budget: 300},
			{ID: "savings", Name: "Savings", Budget: 600},
		},
		History: []model.Transaction{
			expense("food", 200),
			expense("entertainment", 56),
			{Type: model.TransactionTypeRevenue, Category: "food", Amount: 5000},
		},
		MonthlyIncome: 3000,
		MonthlyBudget: 3000,
	}
}

func insight(title, desc string) model.Insight {
	return model.Insight{Type: model.InsightTypeAlert, Title: title, Description: desc}
}

func TestValidate_OverspendCorrection(t *testing.T) {
	in := baseInputs()
	claim := insight("Entertainment Alert", "You are overspending on Entertainment")

	out := NewValidator().Validate([]model.Insight{claim}, in)
	require.Len(t, out, 1)

	got := out[0]
	text := got.Title + " " + got.Description
	assert.Contains(t, text, "$56")
	assert.Contains(t, text, "$300")
	assert.Contains(t, text, "19%")
	assert.Contains(t, text, "Entertainment")
	assert.NotContains(t, strings.ToLower(text), "overspending")
	assert.Equal(t, model.InsightTypeAlert, got.Type)
}

func TestValidate_OverspendTrueClaimPassesThrough(t *testing.T) {
	in := baseInputs()
	in.History = append(in.History, expense("food", 1400))
	claim := insight("Over Budget", "Food spending exceeded its budget this month.")

	out := NewValidator().Validate([]model.Insight{claim}, in)
	assert.Equal(t, claim, out[0])
}

func TestValidate_OverspendWithoutBudgets(t *testing.T) {
	in := baseInputs()
	for i := range in.Budgets {
		in.Budgets[i].Budget = 0
	}

	out := NewValidator().Validate([]model.Insight{insight("Budget exceeded", "Watch out")}, in)
	assert.Equal(t, "Spending Within Budgets", out[0].Title)
	assert.NotContains(t, strings.ToLower(out[0].Description), "exceeded")
}

func TestValidate_Unallocated(t *testing.T) {
	in := baseInputs()
	in.MonthlyIncome = 3500

	tests := []struct {
		name        string
		claim       model.Insight
		rewritten   bool
		wantContain string
	}{
		{"wrong figure", insight("Unallocated funds", "You have $800 unallocated this month."), true, "$500"},
		{"correct figure", insight("Unallocated funds", "You have $500 unallocated this month."), false, ""},
		{"remaining budget wrong", insight("Budget check", "There is $1,200 remaining in your budget."), true, "$500"},
		{"category remaining is a different claim", insight("Food", "You have $244 remaining in your Food budget."), false, ""},
		{"no figure stated", insight("Unallocated funds", "Consider assigning your unallocated money."), false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := NewValidator().Validate([]model.Insight{tt.claim}, in)
			if !tt.rewritten {
				assert.Equal(t, tt.claim, out[0])
				return
			}
			assert.Equal(t, "Unallocated Income", out[0].Title)
			assert.Contains(t, out[0].Description, tt.wantContain)
			assert.Contains(t, out[0].Description, "$3,500")
		})
	}
}

func TestValidate_UnallocatedBudgetOverIncome(t *testing.T) {
	in := baseInputs()
	in.MonthlyBudget = 3400

	out := NewValidator().Validate([]model.Insight{insight("Unallocated", "You have $100 unallocated.")}, in)
	assert.Equal(t, "Budget Exceeds Income", out[0].Title)
	assert.Contains(t, out[0].Description, "$400")
}

func TestValidate_SavingsPercentConfusion(t *testing.T) {
	in := baseInputs()
	in.MonthlyIncome = 4000

	wrong := insight("Great saving", "You're saving 20% of your income every month.")
	out := NewValidator().Validate([]model.Insight{wrong}, in)
	assert.Equal(t, "Savings Rate", out[0].Title)
	assert.Contains(t, out[0].Description, "15% of your $4,000 monthly income")
	assert.Contains(t, out[0].Description, "20% of your $3,000 monthly budget")

	right := insight("Great saving", "Your savings are 15% of your income.")
	out = NewValidator().Validate([]model.Insight{right}, in)
	assert.Equal(t, right, out[0])

	budgetBased := insight("Savings", "Savings make up 20% of your budget.")
	out = NewValidator().Validate([]model.Insight{budgetBased}, in)
	assert.Equal(t, budgetBased, out[0])
}

func TestValidate_Entertainment19Percent(t *testing.T) {
	in := baseInputs()
	claim := insight("Entertainment", "Entertainment takes 19% of your budget.")

	out := NewValidator().Validate([]model.Insight{claim}, in)
	assert.Equal(t, "Entertainment Budget", out[0].Title)
	assert.Contains(t, out[0].Description, "10% of your $3,000 monthly budget")
	assert.Contains(t, out[0].Description, "$56 of your $300 entertainment budget, 19%")
}

func TestValidate_EntertainmentOtherPercentUntouched(t *testing.T) {
	in := baseInputs()
	for _, text := range []string{
		"Entertainment spending is 119% of last month.",
		"Entertainment fees rose 0.19% this month.",
	} {
		out := NewValidator().Validate([]model.Insight{insight("Entertainment", text)}, in)
		assert.NotEqual(t, "Entertainment Budget", out[0].Title, text)
	}
}

func TestValidate_NoSavings(t *testing.T) {
	in := baseInputs()
	claim := insight("No savings", "You have no savings set aside this month.")

	out := NewValidator().Validate([]model.Insight{claim}, in)
	assert.Equal(t, "Savings On Track", out[0].Title)
	assert.Contains(t, out[0].Description, "$600")
	assert.Contains(t, out[0].Description, "20%")

	in.Budgets = in.Budgets[:2]
	out = NewValidator().Validate([]model.Insight{claim}, in)
	assert.Equal(t, claim, out[0], "claim is true when nothing is budgeted for savings")
}

func TestCheck_PreservesOrderAndReportsCorrections(t *testing.T) {
	in := baseInputs()
	insights := []model.Insight{
		{Type: model.InsightTypePattern, Title: "Groceries", Description: "Food is your largest category."},
		insight("Overspending", "You are overspending on Entertainment"),
		{Type: model.InsightTypeEducation, Title: "Emergency fund", Description: "Aim for three months of expenses."},
	}

	out, corrections := NewValidator().Check(insights, in)
	require.Len(t, out, 3)
	assert.Equal(t, insights[0], out[0])
	assert.NotEqual(t, insights[1], out[1])
	assert.Equal(t, insights[2], out[2])

	require.Len(t, corrections, 1)
	assert.Equal(t, 1, corrections[0].Index)
	assert.Equal(t, "overspend", corrections[0].Checker)
	assert.Equal(t, insights[1], corrections[0].Original)
}

func TestNewValidator_ExtraChecker(t *testing.T) {
	custom := Checker{
		Name:    "debt-free",
		Trigger: func(ins model.Insight) bool { return mentions(claimText(ins), "debt-free") },
		Fix: func(f Facts, ins model.Insight) (model.Insight, bool) {
			return model.Insight{Type: ins.Type, Title: "Debt", Description: "Debt status unknown."}, true
		},
	}

	out := NewValidator(custom).Validate([]model.Insight{insight("Congrats", "You are debt-free!")}, baseInputs())
	assert.Equal(t, "Debt", out[0].Title)
}

func TestComputeFacts(t *testing.T) {
	f := ComputeFacts(baseInputs())

	assert.Equal(t, 256.0, f.TotalSpending)
	assert.Equal(t, 600.0, f.Savings)
	assert.Equal(t, 0.0, f.Unallocated)

	ent, ok := f.Category("Entertainment")
	require.True(t, ok)
	assert.Equal(t, 56.0, ent.Spent)
	assert.InDelta(t, 0.1867, ent.Ratio(), 0.001)

	_, ok = f.Category("travel")
	assert.False(t, ok)
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$1,500", money(1500))
	assert.Equal(t, "$56.50", money(56.5))
	assert.Equal(t, "$0", money(0))
	assert.Equal(t, "19%", percent(56.0/300.0))
}
