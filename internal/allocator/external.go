package allocator

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/castlemilk/pfinance/automation/internal/model"
	"github.com/shopspring/decimal"
)

// ValidateExternal turns an untrusted category->amount map (as produced by the
// AI text service) into an allocation that satisfies the allocator contract.
//
// Values are matched by category id, then by name. Unparseable, negative or
// non-finite values become 0 and are reported. An overshoot is scaled down by
// income/total and floored; any shortfall is then handed out one unit at a time
// across the non-zero categories (or all categories when every value is zero).
func ValidateExternal(income decimal.Decimal, categories []model.Category, raw map[string]any) (model.BudgetAllocation, []*model.ValidationError) {
	var issues []*model.ValidationError
	if err := checkIncome(income); err != nil {
		return model.BudgetAllocation{}, []*model.ValidationError{err.(*model.ValidationError)}
	}

	alloc := make(model.BudgetAllocation, len(categories))
	if len(categories) == 0 {
		return alloc, issues
	}
	units := wholeUnits(income)

	known := make(map[string]bool, len(categories)*2)
	values := make([]decimal.Decimal, len(categories))
	for i, cat := range categories {
		known[cat.ID] = true
		known[cat.Name] = true

		v, ok := raw[cat.ID]
		if !ok && cat.Name != "" {
			v, ok = raw[cat.Name]
		}
		if !ok {
			continue
		}
		amount, err := parseAmount(v)
		if err != nil {
			issues = append(issues, model.NewValidationError("categoryBudgets."+cat.ID, err.Error(), v))
			continue
		}
		values[i] = amount.Floor()
	}
	for key, v := range raw {
		if !known[key] {
			issues = append(issues, model.NewValidationError("categoryBudgets."+key, "unknown category", v))
		}
	}

	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}

	unitsDec := decimal.NewFromInt(units)
	if total.GreaterThan(unitsDec) {
		for i, v := range values {
			values[i] = v.Mul(unitsDec).Div(total).Floor()
		}
	}

	var assigned int64
	for i, v := range values {
		alloc[categories[i].ID] += v.IntPart()
		assigned += v.IntPart()
	}

	if shortfall := units - assigned; shortfall > 0 {
		var targets []string
		for i, v := range values {
			if v.IsPositive() {
				targets = append(targets, categories[i].ID)
			}
		}
		if len(targets) == 0 {
			for _, cat := range categories {
				targets = append(targets, cat.ID)
			}
		}
		fillRoundRobin(alloc, targets, shortfall)
	}

	return alloc, issues
}

// fillRoundRobin adds amount to targets one unit at a time in order, which is
// the same as adding amount/len to each and handing the rest to the first few.
func fillRoundRobin(alloc model.BudgetAllocation, targets []string, amount int64) {
	n := int64(len(targets))
	each, rest := amount/n, amount%n
	for i, id := range targets {
		alloc[id] += each
		if int64(i) < rest {
			alloc[id]++
		}
	}
}

type amountError string

func (e amountError) Error() string { return string(e) }

const (
	errUnparseable amountError = "not a number"
	errNegative    amountError = "must not be negative"
	errNotFinite   amountError = "must be finite"
)

// parseAmount accepts JSON numbers and numeric strings such as "$1,200.50".
func parseAmount(v any) (decimal.Decimal, error) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		if err != nil {
			return decimal.Zero, errUnparseable
		}
		return nonNegative(d)
	case string:
		s := strings.TrimSpace(n)
		s = strings.TrimPrefix(s, "$")
		s = strings.ReplaceAll(s, ",", "")
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return decimal.Zero, errUnparseable
		}
		f = parsed
	default:
		return decimal.Zero, errUnparseable
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, errNotFinite
	}
	return nonNegative(decimal.NewFromFloat(f))
}

func nonNegative(d decimal.Decimal) (decimal.Decimal, error) {
	if d.IsNegative() {
		return decimal.Zero, errNegative
	}
	return d, nil
}
