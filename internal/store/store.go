// Package store persists transactions, categories and recurrence rules.
package store

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	"github.com/castlemilk/pfinance/automation/internal/model"
)

//go:generate mockgen -source=store.go -destination=store_mock.go -package=store

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned by MaterializeRecurrence when the rule's
	// LastGenerated changed since it was read.
	ErrConflict = errors.New("recurrence rule was modified concurrently")
)

// DefaultPageSize applies when a caller passes a non-positive page size.
const DefaultPageSize = 100

// Store defines the interface for all database operations used by the service
type Store interface {
	// Transaction operations
	CreateTransaction(ctx context.Context, txn *model.Transaction) error
	GetTransaction(ctx context.Context, txnID string) (*model.Transaction, error)
	// ListTransactions returns a user's transactions, optionally bounded by an
	// inclusive date range. An empty userID lists every user.
	ListTransactions(ctx context.Context, userID string, startDate, endDate *time.Time, pageSize int32, pageToken string) ([]*model.Transaction, string, error)

	// Category operations
	ListCategories(ctx context.Context, userID string) ([]*model.Category, error)
	UpsertCategory(ctx context.Context, category *model.Category) error

	// Recurrence rule operations
	CreateRecurrenceRule(ctx context.Context, rule *model.RecurrenceRule) error
	GetRecurrenceRule(ctx context.Context, ruleID string) (*model.RecurrenceRule, error)
	UpdateRecurrenceRule(ctx context.Context, rule *model.RecurrenceRule) error
	// ListRecurrenceRules lists rules for a user, or for every user when
	// userID is empty.
	ListRecurrenceRules(ctx context.Context, userID string, activeOnly bool, pageSize int32, pageToken string) ([]*model.RecurrenceRule, string, error)

	// MaterializeRecurrence stores txn and sets the rule's LastGenerated to
	// generatedAt as one unit. It returns ErrConflict, writing nothing, when
	// the stored LastGenerated no longer equals expectedLast.
	MaterializeRecurrence(ctx context.Context, ruleID string, expectedLast *time.Time, txn *model.Transaction, generatedAt time.Time) error
}

// EncodePageToken encodes a document ID into a page token.
func EncodePageToken(docID string) string {
	if docID == "" {
		return ""
	}
	return base64.URLEncoding.EncodeToString([]byte(docID))
}

// DecodePageToken decodes a page token back to a document ID.
func DecodePageToken(token string) (string, error) {
	if token == "" {
		return "", nil
	}
	b, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func normalizePageSize(pageSize int32) int32 {
	if pageSize <= 0 {
		return DefaultPageSize
	}
	return pageSize
}

// sameInstant compares two optional timestamps.
func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// categoryKey scopes a category id to its owner.
func categoryKey(userID, categoryID string) string {
	return userID + "_" + categoryID
}
