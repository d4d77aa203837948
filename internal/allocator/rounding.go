package allocator

import (
	"sort"

	"github.com/shopspring/decimal"
)

// distribute splits total whole units across weights. Each slot gets the floor
// of its proportional share, then the units lost to flooring go one at a time
// to the slots with the largest fractional remainders, so the result always
// sums to total. All-zero (or empty-sum) weights split evenly.
func distribute(total int64, weights []decimal.Decimal) []int64 {
	out := make([]int64, len(weights))
	if len(weights) == 0 || total <= 0 {
		return out
	}

	sum := decimal.Zero
	for _, w := range weights {
		if w.IsPositive() {
			sum = sum.Add(w)
		}
	}
	even := sum.IsZero()
	if even {
		sum = decimal.NewFromInt(int64(len(weights)))
	}

	type slot struct {
		idx  int
		frac decimal.Decimal
	}
	slots := make([]slot, 0, len(weights))
	totalDec := decimal.NewFromInt(total)
	var assigned int64

	for i, w := range weights {
		switch {
		case even:
			w = decimal.NewFromInt(1)
		case !w.IsPositive():
			w = decimal.Zero
		}
		share := totalDec.Mul(w).Div(sum)
		floor := share.Floor()
		out[i] = floor.IntPart()
		assigned += out[i]
		slots = append(slots, slot{idx: i, frac: share.Sub(floor)})
	}

	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].frac.GreaterThan(slots[j].frac)
	})
	for r := int64(0); r < total-assigned; r++ {
		out[slots[r%int64(len(slots))].idx]++
	}

	return out
}

// wholeUnits floors a non-negative amount to whole currency units.
func wholeUnits(d decimal.Decimal) int64 {
	if !d.IsPositive() {
		return 0
	}
	return d.Floor().IntPart()
}
