package insights

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/castlemilk/pfinance/automation/internal/model"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	numberRe  = regexp.MustCompile(`(\$?)\s?(\d[\d,]*(?:\.\d+)?)(\s*%)?`)
	percentRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%(?:\s+of\s+(?:your\s+)?(?:total\s+|monthly\s+|overall\s+)*(income|budget))?`)
)

// claimText is the lower-cased title and description of an insight.
func claimText(ins model.Insight) string {
	return strings.ToLower(ins.Title + " " + ins.Description)
}

// mentions reports whether text contains any of phrases. text must already be
// lower-cased.
func mentions(text string, phrases ...string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// amounts extracts the non-percentage numbers stated in text.
func amounts(text string) []float64 {
	var out []float64
	for _, m := range numberRe.FindAllStringSubmatch(text, -1) {
		if m[3] != "" {
			continue
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(m[2], ",", ""), 64)
		if err == nil {
			out = append(out, v)
		}
	}
	return out
}

// percentClaim is a stated percentage and, when the text says so, what it is a
// percentage of ("income" or "budget").
type percentClaim struct {
	value float64
	of    string
}

func percentages(text string) []percentClaim {
	var out []percentClaim
	for _, m := range percentRe.FindAllStringSubmatch(text, -1) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		out = append(out, percentClaim{value: v, of: m[2]})
	}
	return out
}

func approxEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

// money formats an amount with grouping, dropping cents for whole values:
// 1500 -> "$1,500", 56.5 -> "$56.50".
func money(v float64) string {
	p := message.NewPrinter(language.English)
	if v == math.Trunc(v) {
		return p.Sprintf("$%d", int64(v))
	}
	return p.Sprintf("$%.2f", v)
}

// percent formats a ratio as a whole percentage: 0.1867 -> "19%".
func percent(ratio float64) string {
	return strconv.FormatInt(int64(math.Round(ratio*100)), 10) + "%"
}

func lower(s string) string {
	return strings.ToLower(s)
}
