package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/castlemilk/pfinance/automation/internal/model"
	"github.com/google/uuid"
)

// MemoryStore implements Store interface with in-memory storage. Values are
// copied in and out so callers never share state with the store.
type MemoryStore struct {
	mu sync.RWMutex

	transactions map[string]*model.Transaction
	categories   map[string]*model.Category
	rules        map[string]*model.RecurrenceRule
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		transactions: make(map[string]*model.Transaction),
		categories:   make(map[string]*model.Category),
		rules:        make(map[string]*model.RecurrenceRule),
	}
}

// paginateIDs applies cursor-based pagination to a sorted slice of IDs.
// Returns the paginated IDs and the next page token (empty if no more pages).
func paginateIDs(ids []string, pageSize int32, pageToken string) ([]string, string, error) {
	pageSize = normalizePageSize(pageSize)
	sort.Strings(ids)

	if pageToken != "" {
		cursorID, err := DecodePageToken(pageToken)
		if err != nil {
			return nil, "", fmt.Errorf("invalid page token: %w", err)
		}
		start := sort.Search(len(ids), func(i int) bool { return ids[i] > cursorID })
		ids = ids[start:]
	}

	var nextToken string
	if int32(len(ids)) > pageSize {
		nextToken = EncodePageToken(ids[pageSize-1])
		ids = ids[:pageSize]
	}
	return ids, nextToken, nil
}

func cloneTransaction(t *model.Transaction) *model.Transaction {
	c := *t
	return &c
}

func cloneRule(r *model.RecurrenceRule) *model.RecurrenceRule {
	c := *r
	return &c
}

// Transaction operations

func (m *MemoryStore) CreateTransaction(ctx context.Context, txn *model.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	m.transactions[txn.ID] = cloneTransaction(txn)
	return nil
}

func (m *MemoryStore) GetTransaction(ctx context.Context, txnID string) (*model.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	txn, ok := m.transactions[txnID]
	if !ok {
		return nil, fmt.Errorf("transaction %s: %w", txnID, ErrNotFound)
	}
	return cloneTransaction(txn), nil
}

func (m *MemoryStore) ListTransactions(ctx context.Context, userID string, startDate, endDate *time.Time, pageSize int32, pageToken string) ([]*model.Transaction, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []string
	for id, txn := range m.transactions {
		if userID != "" && txn.UserID != userID {
			continue
		}
		if startDate != nil && txn.Date.Before(*startDate) {
			continue
		}
		if endDate != nil && txn.Date.After(*endDate) {
			continue
		}
		ids = append(ids, id)
	}

	page, next, err := paginateIDs(ids, pageSize, pageToken)
	if err != nil {
		return nil, "", err
	}
	out := make([]*model.Transaction, 0, len(page))
	for _, id := range page {
		out = append(out, cloneTransaction(m.transactions[id]))
	}
	return out, next, nil
}

// Category operations

func (m *MemoryStore) ListCategories(ctx context.Context, userID string) ([]*model.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*model.Category
	for _, c := range m.categories {
		if c.UserID != userID {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) UpsertCategory(ctx context.Context, category *model.Category) error {
	if category.ID == "" {
		return fmt.Errorf("category id is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *category
	m.categories[categoryKey(category.UserID, category.ID)] = &cp
	return nil
}

// Recurrence rule operations

func (m *MemoryStore) CreateRecurrenceRule(ctx context.Context, rule *model.RecurrenceRule) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rule.ID == "" {
		rule.ID = uuid.New().String()
	}
	m.rules[rule.ID] = cloneRule(rule)
	return nil
}

func (m *MemoryStore) GetRecurrenceRule(ctx context.Context, ruleID string) (*model.RecurrenceRule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rule, ok := m.rules[ruleID]
	if !ok {
		return nil, fmt.Errorf("recurrence rule %s: %w", ruleID, ErrNotFound)
	}
	return cloneRule(rule), nil
}

func (m *MemoryStore) UpdateRecurrenceRule(ctx context.Context, rule *model.RecurrenceRule) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rules[rule.ID]; !ok {
		return fmt.Errorf("recurrence rule %s: %w", rule.ID, ErrNotFound)
	}
	m.rules[rule.ID] = cloneRule(rule)
	return nil
}

func (m *MemoryStore) ListRecurrenceRules(ctx context.Context, userID string, activeOnly bool, pageSize int32, pageToken string) ([]*model.RecurrenceRule, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []string
	for id, rule := range m.rules {
		if userID != "" && rule.UserID != userID {
			continue
		}
		if activeOnly && !rule.Active {
			continue
		}
		ids = append(ids, id)
	}

	page, next, err := paginateIDs(ids, pageSize, pageToken)
	if err != nil {
		return nil, "", err
	}
	out := make([]*model.RecurrenceRule, 0, len(page))
	for _, id := range page {
		out = append(out, cloneRule(m.rules[id]))
	}
	return out, next, nil
}

func (m *MemoryStore) MaterializeRecurrence(ctx context.Context, ruleID string, expectedLast *time.Time, txn *model.Transaction, generatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rule, ok := m.rules[ruleID]
	if !ok {
		return fmt.Errorf("recurrence rule %s: %w", ruleID, ErrNotFound)
	}
	if !sameInstant(rule.LastGenerated, expectedLast) {
		return fmt.Errorf("recurrence rule %s: %w", ruleID, ErrConflict)
	}

	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	m.transactions[txn.ID] = cloneTransaction(txn)

	updated := cloneRule(rule)
	at := generatedAt
	updated.LastGenerated = &at
	updated.UpdatedAt = generatedAt
	m.rules[ruleID] = updated
	return nil
}
