package rpc

import (
	"time"

	"github.com/castlemilk/pfinance/automation/internal/model"
)

type ProcessRecurringTransactionsRequest struct {
	// Today overrides the evaluation date; defaults to the server's current day.
	Today *time.Time `json:"today,omitempty"`
}

type ProcessRecurringTransactionsResponse struct {
	ProcessedCount int32 `json:"processedCount"`
	SkippedCount   int32 `json:"skippedCount"`
	EndedCount     int32 `json:"endedCount"`
	InvalidCount   int32 `json:"invalidCount"`
	ConflictCount  int32 `json:"conflictCount"`
	ErrorCount     int32 `json:"errorCount"`
}

type CreateRecurrenceRuleRequest struct {
	UserID       string                `json:"userId"`
	Type         model.TransactionType `json:"type"`
	Amount       float64               `json:"amount"`
	Category     string                `json:"category"`
	CategoryName string                `json:"categoryName,omitempty"`
	Description  string                `json:"description"`
	Frequency    model.Frequency       `json:"frequency"`
	StartDate    time.Time             `json:"startDate"`
	EndDate      *time.Time            `json:"endDate,omitempty"`
	DayOfMonth   *int                  `json:"dayOfMonth,omitempty"`
	DayOfWeek    *int                  `json:"dayOfWeek,omitempty"`
}

// ScheduledRule is a rule with its projected next occurrence.
type ScheduledRule struct {
	Rule           *model.RecurrenceRule `json:"rule"`
	NextOccurrence *time.Time            `json:"nextOccurrence,omitempty"`
	// Completed is set when the rule has no occurrence left before its end date.
	Completed bool `json:"completed"`
}

type CreateRecurrenceRuleResponse struct {
	Rule ScheduledRule `json:"rule"`
}

type ListRecurrenceRulesRequest struct {
	UserID     string `json:"userId"`
	ActiveOnly bool   `json:"activeOnly"`
	PageSize   int32  `json:"pageSize"`
	PageToken  string `json:"pageToken"`
}

type ListRecurrenceRulesResponse struct {
	Rules         []ScheduledRule `json:"rules"`
	NextPageToken string          `json:"nextPageToken,omitempty"`
}

type CreateTransactionRequest struct {
	UserID       string                `json:"userId"`
	Type         model.TransactionType `json:"type"`
	Amount       float64               `json:"amount"`
	Category     string                `json:"category"`
	CategoryName string                `json:"categoryName,omitempty"`
	Date         time.Time             `json:"date"`
	Description  string                `json:"description"`
	Notes        string                `json:"notes,omitempty"`
}

// DuplicateWarning points at an existing transaction the new one resembles.
type DuplicateWarning struct {
	Transaction *model.Transaction `json:"transaction"`
	Confidence  string             `json:"confidence"`
}

type CreateTransactionResponse struct {
	Transaction *model.Transaction `json:"transaction"`
	Duplicate   *DuplicateWarning  `json:"duplicate,omitempty"`
}

type ListTransactionsRequest struct {
	UserID    string     `json:"userId"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	PageSize  int32      `json:"pageSize"`
	PageToken string     `json:"pageToken"`
}

type ListTransactionsResponse struct {
	Transactions  []*model.Transaction `json:"transactions"`
	NextPageToken string               `json:"nextPageToken,omitempty"`
}

type CheckDuplicateRequest struct {
	UserID string `json:"userId"`
	// ID identifies the transaction being edited so it is not matched
	// against its own stored copy.
	ID          string                `json:"id,omitempty"`
	Type        model.TransactionType `json:"type"`
	Amount      float64               `json:"amount"`
	Category    string                `json:"category"`
	Date        time.Time             `json:"date"`
	Description string                `json:"description"`
	// WindowDays overrides the server's duplicate window when positive.
	WindowDays int32 `json:"windowDays,omitempty"`
}

type CheckDuplicateResponse struct {
	Duplicate *DuplicateWarning `json:"duplicate,omitempty"`
}

type AutoBudgetRequest struct {
	UserID string  `json:"userId"`
	Income float64 `json:"income"`
	// Template is auto, zero_based or spending_based; empty means auto.
	Template string `json:"template,omitempty"`
	// Apply writes the allocation to the user's category budgets.
	Apply bool `json:"apply"`
}

type AutoBudgetResponse struct {
	Template   string                 `json:"template"`
	Allocation model.BudgetAllocation `json:"allocation"`
	Applied    bool                   `json:"applied"`
}

type SuggestBudgetRequest struct {
	UserID string  `json:"userId"`
	Income float64 `json:"income"`
	Apply  bool    `json:"apply"`
}

type SuggestBudgetResponse struct {
	Allocation model.BudgetAllocation `json:"allocation"`
	// Issues lists what had to be corrected in the suggested figures.
	Issues  []string `json:"issues,omitempty"`
	Applied bool     `json:"applied"`
}

type GenerateInsightsRequest struct {
	UserID string `json:"userId"`
	// Month is YYYY-MM; defaults to the current month.
	Month string `json:"month,omitempty"`
	// MonthlyIncome overrides the income summed from the month's revenue.
	MonthlyIncome float64 `json:"monthlyIncome,omitempty"`
}

type GenerateInsightsResponse struct {
	Insights        []model.Insight `json:"insights"`
	CorrectionCount int32           `json:"correctionCount"`
	// Fallback is set when the static insights were returned.
	Fallback bool `json:"fallback"`
}

type ListCategoriesRequest struct {
	UserID string `json:"userId"`
}

type ListCategoriesResponse struct {
	Categories []*model.Category `json:"categories"`
}

type UpsertCategoryRequest struct {
	UserID string  `json:"userId"`
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Budget float64 `json:"budget"`
}

type UpsertCategoryResponse struct {
	Category *model.Category `json:"category"`
}
