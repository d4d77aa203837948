package insights

import (
	"fmt"
	"math"
	"regexp"

	"github.com/castlemilk/pfinance/automation/internal/model"
)

// Checker verifies one kind of claim. Trigger decides from the insight text
// whether the claim is present; Fix recomputes the truth and returns a
// replacement insight with rewritten=true when the claim is wrong.
type Checker struct {
	Name    string
	Trigger func(model.Insight) bool
	Fix     func(Facts, model.Insight) (replacement model.Insight, rewritten bool)
}

// DefaultCheckers returns the built-in claim checkers in evaluation order.
func DefaultCheckers() []Checker {
	return []Checker{
		overspendChecker(),
		unallocatedChecker(),
		savingsPercentChecker(),
		entertainmentChecker(),
		noSavingsChecker(),
	}
}

// percentTolerance is how far a stated percentage may be from the truth, in
// percentage points, before it is treated as wrong.
const percentTolerance = 1.0

// amountTolerance is how far a stated amount may be from the truth.
const amountTolerance = 1.0

func overspendChecker() Checker {
	return Checker{
		Name: "overspend",
		Trigger: func(ins model.Insight) bool {
			return mentions(claimText(ins), "overspending", "over budget", "budget exceeded", "exceeding budget")
		},
		Fix: func(f Facts, ins model.Insight) (model.Insight, bool) {
			var top *CategoryFact
			for i := range f.Categories {
				c := &f.Categories[i]
				if c.Budget <= 0 {
					continue
				}
				if c.Spent > c.Budget {
					return ins, false
				}
				if top == nil || c.Ratio() > top.Ratio() {
					top = c
				}
			}

			if top == nil {
				return model.Insight{
					Type:        ins.Type,
					Title:       "Spending Within Budgets",
					Description: "Your spending is within your budgets this month. Set category budgets to get alerts before you go over.",
				}, true
			}

			return model.Insight{
				Type:  ins.Type,
				Title: fmt.Sprintf("%s Spending On Track", top.Name),
				Description: fmt.Sprintf(
					"You've spent %s of your %s %s budget (%s used). That's your highest budget utilization this month, and it's still within budget.",
					money(top.Spent), money(top.Budget), top.Name, percent(top.Ratio())),
			}, true
		},
	}
}

func unallocatedChecker() Checker {
	return Checker{
		Name: "unallocated",
		Trigger: func(ins model.Insight) bool {
			text := claimText(ins)
			return mentions(text, "unallocated") || (mentions(text, "remaining") && mentions(text, "budget"))
		},
		Fix: func(f Facts, ins model.Insight) (model.Insight, bool) {
			text := claimText(ins)
			if !mentions(text, "unallocated") {
				// "remaining" in a single category's budget is a different claim.
				for _, c := range f.Categories {
					if c.Name != "" && mentions(text, lower(c.Name)) {
						return ins, false
					}
				}
			}

			stated := amounts(text)
			if len(stated) == 0 {
				return ins, false
			}
			for _, v := range stated {
				if approxEqual(v, math.Abs(f.Unallocated), amountTolerance) {
					return ins, false
				}
			}

			if f.Unallocated < 0 {
				return model.Insight{
					Type:  ins.Type,
					Title: "Budget Exceeds Income",
					Description: fmt.Sprintf(
						"Your monthly budget of %s is %s more than your monthly income of %s. Trim category budgets to match your income.",
						money(f.MonthlyBudget), money(-f.Unallocated), money(f.MonthlyIncome)),
				}, true
			}
			return model.Insight{
				Type:  ins.Type,
				Title: "Unallocated Income",
				Description: fmt.Sprintf(
					"You have %s of your %s monthly income not yet assigned to a budget (%s budgeted).",
					money(f.Unallocated), money(f.MonthlyIncome), money(f.MonthlyBudget)),
			}, true
		},
	}
}

// savingsPercentChecker catches savings percentages stated against the wrong
// base, e.g. a share of budget presented as a share of income.
func savingsPercentChecker() Checker {
	return Checker{
		Name: "savings-percent",
		Trigger: func(ins model.Insight) bool {
			text := claimText(ins)
			return mentions(text, "saving") && mentions(text, "%") && mentions(text, "income", "budget")
		},
		Fix: func(f Facts, ins model.Insight) (model.Insight, bool) {
			if f.Savings <= 0 {
				return ins, false
			}
			text := claimText(ins)
			incomePct, budgetPct := pct(f.Savings, f.MonthlyIncome), pct(f.Savings, f.MonthlyBudget)

			defaultBase := ""
			switch {
			case mentions(text, "income") && !mentions(text, "budget"):
				defaultBase = "income"
			case mentions(text, "budget") && !mentions(text, "income"):
				defaultBase = "budget"
			}

			wrong := false
			for _, claim := range percentages(text) {
				base := claim.of
				if base == "" {
					base = defaultBase
				}
				switch base {
				case "income":
					wrong = wrong || f.MonthlyIncome <= 0 || !approxEqual(claim.value, incomePct, percentTolerance)
				case "budget":
					wrong = wrong || f.MonthlyBudget <= 0 || !approxEqual(claim.value, budgetPct, percentTolerance)
				}
			}
			if !wrong {
				return ins, false
			}

			desc := fmt.Sprintf("You're setting aside %s for savings", money(f.Savings))
			switch {
			case f.MonthlyIncome > 0 && f.MonthlyBudget > 0:
				desc += fmt.Sprintf(": %s of your %s monthly income and %s of your %s monthly budget.",
					percent(f.Savings/f.MonthlyIncome), money(f.MonthlyIncome),
					percent(f.Savings/f.MonthlyBudget), money(f.MonthlyBudget))
			case f.MonthlyIncome > 0:
				desc += fmt.Sprintf(", %s of your %s monthly income.", percent(f.Savings/f.MonthlyIncome), money(f.MonthlyIncome))
			case f.MonthlyBudget > 0:
				desc += fmt.Sprintf(", %s of your %s monthly budget.", percent(f.Savings/f.MonthlyBudget), money(f.MonthlyBudget))
			default:
				desc += "."
			}
			return model.Insight{Type: ins.Type, Title: "Savings Rate", Description: desc}, true
		},
	}
}

// nineteenPercentRe matches a standalone "19%", not "119%" or "0.19%".
var nineteenPercentRe = regexp.MustCompile(`(^|[^\d.])19\s*%`)

func entertainmentChecker() Checker {
	return Checker{
		Name: "entertainment-share",
		Trigger: func(ins model.Insight) bool {
			text := claimText(ins)
			return mentions(text, "entertainment") && nineteenPercentRe.MatchString(text)
		},
		Fix: func(f Facts, ins model.Insight) (model.Insight, bool) {
			ent, ok := f.Category("entertainment")
			if !ok || ent.Budget <= 0 {
				return ins, false
			}

			desc := fmt.Sprintf("You've spent %s of your %s entertainment budget, %s of it.",
				money(ent.Spent), money(ent.Budget), percent(ent.Ratio()))
			if f.MonthlyBudget > 0 {
				desc = fmt.Sprintf("Entertainment is %s of your %s monthly budget (%s). ",
					percent(ent.Budget/f.MonthlyBudget), money(f.MonthlyBudget), money(ent.Budget)) + desc
			}
			return model.Insight{Type: ins.Type, Title: "Entertainment Budget", Description: desc}, true
		},
	}
}

func noSavingsChecker() Checker {
	return Checker{
		Name: "no-savings",
		Trigger: func(ins model.Insight) bool {
			return mentions(claimText(ins), "no savings")
		},
		Fix: func(f Facts, ins model.Insight) (model.Insight, bool) {
			if f.Savings <= 0 {
				return ins, false
			}
			desc := fmt.Sprintf("You've set aside %s for savings", money(f.Savings))
			if f.MonthlyBudget > 0 {
				desc += fmt.Sprintf(", %s of your monthly budget", percent(f.Savings/f.MonthlyBudget))
			}
			desc += ". Keep it up."
			return model.Insight{Type: ins.Type, Title: "Savings On Track", Description: desc}, true
		},
	}
}

// pct returns part/whole as a percentage, or 0 when whole is not positive.
func pct(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}
