package allocator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/castlemilk/pfinance/automation/internal/model"
	"github.com/shopspring/decimal"
)

// Bucket is a group of categories that shares a fixed fraction of income.
type Bucket struct {
	Name    string          `json:"name"`
	Share   decimal.Decimal `json:"share"`
	Members []string        `json:"members"`
}

// BucketConfig maps canonical category ids/names to buckets. Categories that
// match no bucket fall into the leftover group.
type BucketConfig struct {
	Buckets []Bucket `json:"buckets"`
}

// DefaultBuckets returns the 50/30/20 needs/wants/savings table.
func DefaultBuckets() BucketConfig {
	return BucketConfig{
		Buckets: []Bucket{
			{Name: "needs", Share: decimal.RequireFromString("0.50"), Members: []string{"food", "transport", "utilities", "healthcare"}},
			{Name: "wants", Share: decimal.RequireFromString("0.30"), Members: []string{"entertainment", "shopping", "other"}},
			{Name: "savings", Share: decimal.RequireFromString("0.20"), Members: []string{"savings", "investments"}},
		},
	}
}

// ParseBucketConfig decodes a JSON bucket table, e.g.
//
//	{"buckets":[{"name":"needs","share":"0.5","members":["food","rent"]}]}
func ParseBucketConfig(data []byte) (BucketConfig, error) {
	var cfg BucketConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return BucketConfig{}, fmt.Errorf("decode bucket config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return BucketConfig{}, err
	}
	return cfg, nil
}

// Validate checks that shares are non-negative, at least one is positive and
// together they cover no more than the whole income.
func (c BucketConfig) Validate() error {
	if len(c.Buckets) == 0 {
		return model.NewValidationError("buckets", "at least one bucket is required", nil)
	}
	total := decimal.Zero
	for _, b := range c.Buckets {
		if b.Share.IsNegative() {
			return model.NewValidationError("buckets."+b.Name+".share", "must not be negative", b.Share.String())
		}
		total = total.Add(b.Share)
	}
	if !total.IsPositive() {
		return model.NewValidationError("buckets", "shares must sum to a positive value", total.String())
	}
	if total.GreaterThan(decimal.NewFromInt(1)) {
		return model.NewValidationError("buckets", "shares must not sum to more than 1", total.String())
	}
	return nil
}

// bucketOf returns the index of the bucket a category belongs to, or -1.
func (c BucketConfig) bucketOf(cat model.Category) int {
	id := strings.ToLower(strings.TrimSpace(cat.ID))
	name := strings.ToLower(strings.TrimSpace(cat.Name))
	for i, b := range c.Buckets {
		for _, m := range b.Members {
			m = strings.ToLower(m)
			if m == id || m == name {
				return i
			}
		}
	}
	return -1
}
