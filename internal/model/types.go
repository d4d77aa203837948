// Package model defines the data shapes shared by the automation engine, the
// stores and the RPC surface.
package model

import (
	"strings"
	"time"
)

// TransactionType carries the sign of a transaction; amounts are always non-negative.
type TransactionType string

const (
	TransactionTypeExpense TransactionType = "expense"
	TransactionTypeRevenue TransactionType = "revenue"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeExpense || t == TransactionTypeRevenue
}

// Transaction is a single expense or revenue entry.
type Transaction struct {
	ID                     string          `json:"id" firestore:"Id" bson:"_id"`
	UserID                 string          `json:"userId" firestore:"UserId" bson:"userId"`
	Type                   TransactionType `json:"type" firestore:"Type" bson:"type"`
	Amount                 float64         `json:"amount" firestore:"Amount" bson:"amount"`
	Category               string          `json:"category" firestore:"Category" bson:"category"`
	CategoryName           string          `json:"categoryName" firestore:"CategoryName" bson:"categoryName"`
	Date                   time.Time       `json:"date" firestore:"Date" bson:"date"`
	Description            string          `json:"description" firestore:"Description" bson:"description"`
	IsRecurring            bool            `json:"isRecurring" firestore:"IsRecurring" bson:"isRecurring"`
	RecurringTransactionID string          `json:"recurringTransactionId,omitempty" firestore:"RecurringTransactionId,omitempty" bson:"recurringTransactionId,omitempty"`
	Notes                  string          `json:"notes,omitempty" firestore:"Notes,omitempty" bson:"notes,omitempty"`
	CreatedAt              time.Time       `json:"createdAt" firestore:"CreatedAt" bson:"createdAt"`
}

// IsExpense reports whether the transaction is an expense.
func (t Transaction) IsExpense() bool {
	return t.Type == TransactionTypeExpense
}

// Frequency is the cadence of a recurrence rule.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// RecurrenceRule describes a transaction that repeats on a fixed cadence.
// LastGenerated is the only field the scheduler mutates.
type RecurrenceRule struct {
	ID            string          `json:"id" firestore:"Id" bson:"_id"`
	UserID        string          `json:"userId" firestore:"UserId" bson:"userId"`
	Type          TransactionType `json:"type" firestore:"Type" bson:"type"`
	Amount        float64         `json:"amount" firestore:"Amount" bson:"amount"`
	Category      string          `json:"category" firestore:"Category" bson:"category"`
	CategoryName  string          `json:"categoryName,omitempty" firestore:"CategoryName" bson:"categoryName,omitempty"`
	Description   string          `json:"description" firestore:"Description" bson:"description"`
	Frequency     Frequency       `json:"frequency" firestore:"Frequency" bson:"frequency"`
	StartDate     time.Time       `json:"startDate" firestore:"StartDate" bson:"startDate"`
	EndDate       *time.Time      `json:"endDate,omitempty" firestore:"EndDate" bson:"endDate,omitempty"`
	DayOfMonth    *int            `json:"dayOfMonth,omitempty" firestore:"DayOfMonth" bson:"dayOfMonth,omitempty"`
	DayOfWeek     *int            `json:"dayOfWeek,omitempty" firestore:"DayOfWeek" bson:"dayOfWeek,omitempty"`
	Active        bool            `json:"active" firestore:"Active" bson:"active"`
	LastGenerated *time.Time      `json:"lastGenerated,omitempty" firestore:"LastGenerated" bson:"lastGenerated,omitempty"`
	CreatedAt     time.Time       `json:"createdAt" firestore:"CreatedAt" bson:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt" firestore:"UpdatedAt" bson:"updatedAt"`
}

// SavingsCategoryID is the canonical id of the savings bucket category.
const SavingsCategoryID = "savings"

// Category is a spending category with an optional monthly budget.
type Category struct {
	ID     string  `json:"id" firestore:"Id" bson:"_id"`
	UserID string  `json:"userId" firestore:"UserId" bson:"userId"`
	Name   string  `json:"name" firestore:"Name" bson:"name"`
	Budget float64 `json:"budget" firestore:"Budget" bson:"budget"`
}

// IsSavings reports whether the category is the savings bucket.
func (c Category) IsSavings() bool {
	return strings.EqualFold(c.ID, SavingsCategoryID) || strings.EqualFold(c.Name, SavingsCategoryID)
}

// BudgetAllocation maps category id to a whole-unit budget amount.
type BudgetAllocation map[string]int64

// Total returns the sum of all allocated amounts.
func (a BudgetAllocation) Total() int64 {
	var total int64
	for _, v := range a {
		total += v
	}
	return total
}

// InsightType classifies a narrative insight.
type InsightType string

const (
	InsightTypePattern     InsightType = "pattern"
	InsightTypeAlert       InsightType = "alert"
	InsightTypeOpportunity InsightType = "opportunity"
	InsightTypeAchievement InsightType = "achievement"
	InsightTypeForecast    InsightType = "forecast"
	InsightTypeEducation   InsightType = "education"
)

// Valid reports whether t is a known insight type.
func (t InsightType) Valid() bool {
	switch t {
	case InsightTypePattern, InsightTypeAlert, InsightTypeOpportunity,
		InsightTypeAchievement, InsightTypeForecast, InsightTypeEducation:
		return true
	}
	return false
}

// Insight is a short narrative statement about the user's finances.
type Insight struct {
	Type        InsightType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
}
