package insights

import (
	"encoding/json"
	"strings"

	"github.com/castlemilk/pfinance/automation/internal/model"
)

// ExpectedCount is the number of insights the generator must return.
const ExpectedCount = 3

// Parse decodes an insight payload, either {"insights":[...]} or a bare array.
// Anything other than exactly three well-formed insights is a ValidationError;
// callers then fall back to Fallback().
func Parse(data []byte) ([]model.Insight, error) {
	var items []model.Insight

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
			return nil, model.NewValidationError("insights", "malformed JSON array", err.Error())
		}
	} else {
		var payload struct {
			Insights []model.Insight `json:"insights"`
		}
		if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
			return nil, model.NewValidationError("insights", "malformed JSON object", err.Error())
		}
		items = payload.Insights
	}

	if len(items) != ExpectedCount {
		return nil, model.NewValidationError("insights", "expected exactly 3 insights", len(items))
	}
	for i, ins := range items {
		ins.Type = model.InsightType(strings.ToLower(strings.TrimSpace(string(ins.Type))))
		if !ins.Type.Valid() {
			return nil, model.NewValidationError("insights.type", "unknown insight type", string(ins.Type))
		}
		if strings.TrimSpace(ins.Title) == "" || strings.TrimSpace(ins.Description) == "" {
			return nil, model.NewValidationError("insights", "title and description are required", i)
		}
		items[i] = ins
	}
	return items, nil
}

// Fallback returns the static insights shown when generation fails or returns
// an unusable payload.
func Fallback() []model.Insight {
	return []model.Insight{
		{
			Type:        model.InsightTypeEducation,
			Title:       "Track Every Transaction",
			Description: "Recording all of your expenses, even small ones, gives you an accurate picture of where your money goes each month.",
		},
		{
			Type:        model.InsightTypePattern,
			Title:       "Review Your Categories",
			Description: "Compare this month's spending in each category with its budget to spot where you can adjust.",
		},
		{
			Type:        model.InsightTypeOpportunity,
			Title:       "Pay Yourself First",
			Description: "Moving a fixed amount into savings as soon as income arrives makes saving automatic. A common target is 20% of income.",
		},
	}
}
