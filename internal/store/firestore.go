package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/castlemilk/pfinance/automation/internal/model"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	transactionsCollection = "transactions"
	categoriesCollection   = "categories"
	rulesCollection        = "recurrenceRules"
)

// FirestoreStore implements the Store interface using Firestore
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new Firestore-backed store
func NewFirestoreStore(client *firestore.Client) Store {
	return &FirestoreStore{
		client: client,
	}
}

func notFound(kind, id string, err error) error {
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return fmt.Errorf("failed to get %s %s: %w", kind, id, err)
}

// applyDateAwarePagination handles pagination for queries with date range filters.
// Firestore requires OrderBy on inequality fields first, so we use OrderBy("Date") + OrderBy(__name__).
// The cursor must include both the Date value and the document ID.
func (s *FirestoreStore) applyDateAwarePagination(ctx context.Context, query firestore.Query, collection string, pageSize int32, pageToken string) (firestore.Query, error) {
	query = query.OrderBy("Date", firestore.Asc).OrderBy(firestore.DocumentID, firestore.Asc)

	if pageToken != "" {
		docID, err := DecodePageToken(pageToken)
		if err != nil {
			return query, fmt.Errorf("invalid page token: %w", err)
		}
		cursorDoc, err := s.client.Collection(collection).Doc(docID).Get(ctx)
		if err != nil {
			return query, fmt.Errorf("failed to fetch cursor document: %w", err)
		}
		query = query.StartAfter(cursorDoc.Data()["Date"], docID)
	}

	return query.Limit(int(normalizePageSize(pageSize)) + 1), nil
}

// applyCursorPagination adds OrderBy + StartAfter + Limit to a query for cursor-based pagination.
// It fetches pageSize+1 docs so the caller can detect whether a next page exists.
func (s *FirestoreStore) applyCursorPagination(query firestore.Query, pageSize int32, pageToken string) (firestore.Query, error) {
	query = query.OrderBy(firestore.DocumentID, firestore.Asc)

	if pageToken != "" {
		docID, err := DecodePageToken(pageToken)
		if err != nil {
			return query, fmt.Errorf("invalid page token: %w", err)
		}
		query = query.StartAfter(docID)
	}

	return query.Limit(int(normalizePageSize(pageSize)) + 1), nil
}

// trimPage drops the lookahead document and returns the next page token.
func trimPage(docs []*firestore.DocumentSnapshot, pageSize int32) ([]*firestore.DocumentSnapshot, string) {
	pageSize = normalizePageSize(pageSize)
	if len(docs) > int(pageSize) {
		docs = docs[:pageSize]
		return docs, EncodePageToken(docs[pageSize-1].Ref.ID)
	}
	return docs, ""
}

// CreateTransaction creates a new transaction in Firestore
func (s *FirestoreStore) CreateTransaction(ctx context.Context, txn *model.Transaction) error {
	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	_, err := s.client.Collection(transactionsCollection).Doc(txn.ID).Set(ctx, txn)
	return err
}

// GetTransaction retrieves a transaction from Firestore
func (s *FirestoreStore) GetTransaction(ctx context.Context, txnID string) (*model.Transaction, error) {
	doc, err := s.client.Collection(transactionsCollection).Doc(txnID).Get(ctx)
	if err != nil {
		return nil, notFound("transaction", txnID, err)
	}

	var txn model.Transaction
	if err := doc.DataTo(&txn); err != nil {
		return nil, fmt.Errorf("failed to parse transaction: %w", err)
	}
	return &txn, nil
}

// ListTransactions lists transactions from Firestore
func (s *FirestoreStore) ListTransactions(ctx context.Context, userID string, startDate, endDate *time.Time, pageSize int32, pageToken string) ([]*model.Transaction, string, error) {
	query := s.client.Collection(transactionsCollection).Query

	// NOTE: Field names must match the firestore struct tags (PascalCase)
	if userID != "" {
		query = query.Where("UserId", "==", userID)
	}
	if startDate != nil {
		query = query.Where("Date", ">=", *startDate)
	}
	if endDate != nil {
		query = query.Where("Date", "<=", *endDate)
	}

	var err error
	if startDate != nil || endDate != nil {
		query, err = s.applyDateAwarePagination(ctx, query, transactionsCollection, pageSize, pageToken)
	} else {
		query, err = s.applyCursorPagination(query, pageSize, pageToken)
	}
	if err != nil {
		return nil, "", err
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, "", fmt.Errorf("failed to list transactions: %w", err)
	}
	docs, nextPageToken := trimPage(docs, pageSize)

	txns := make([]*model.Transaction, 0, len(docs))
	for _, doc := range docs {
		var txn model.Transaction
		if err := doc.DataTo(&txn); err != nil {
			return nil, "", fmt.Errorf("failed to parse transaction: %w", err)
		}
		txns = append(txns, &txn)
	}
	return txns, nextPageToken, nil
}

// ListCategories lists a user's categories from Firestore
func (s *FirestoreStore) ListCategories(ctx context.Context, userID string) ([]*model.Category, error) {
	docs, err := s.client.Collection(categoriesCollection).
		Where("UserId", "==", userID).
		OrderBy("Id", firestore.Asc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	categories := make([]*model.Category, 0, len(docs))
	for _, doc := range docs {
		var c model.Category
		if err := doc.DataTo(&c); err != nil {
			return nil, fmt.Errorf("failed to parse category: %w", err)
		}
		categories = append(categories, &c)
	}
	return categories, nil
}

// UpsertCategory creates or replaces a category in Firestore
func (s *FirestoreStore) UpsertCategory(ctx context.Context, category *model.Category) error {
	if category.ID == "" {
		return fmt.Errorf("category id is required")
	}
	_, err := s.client.Collection(categoriesCollection).Doc(categoryKey(category.UserID, category.ID)).Set(ctx, category)
	return err
}

// CreateRecurrenceRule creates a new recurrence rule in Firestore
func (s *FirestoreStore) CreateRecurrenceRule(ctx context.Context, rule *model.RecurrenceRule) error {
	if rule.ID == "" {
		rule.ID = uuid.New().String()
	}
	_, err := s.client.Collection(rulesCollection).Doc(rule.ID).Set(ctx, rule)
	return err
}

// GetRecurrenceRule retrieves a recurrence rule from Firestore
func (s *FirestoreStore) GetRecurrenceRule(ctx context.Context, ruleID string) (*model.RecurrenceRule, error) {
	doc, err := s.client.Collection(rulesCollection).Doc(ruleID).Get(ctx)
	if err != nil {
		return nil, notFound("recurrence rule", ruleID, err)
	}

	var rule model.RecurrenceRule
	if err := doc.DataTo(&rule); err != nil {
		return nil, fmt.Errorf("failed to parse recurrence rule: %w", err)
	}
	return &rule, nil
}

// UpdateRecurrenceRule replaces an existing recurrence rule in Firestore
func (s *FirestoreStore) UpdateRecurrenceRule(ctx context.Context, rule *model.RecurrenceRule) error {
	ref := s.client.Collection(rulesCollection).Doc(rule.ID)
	if _, err := ref.Get(ctx); err != nil {
		return notFound("recurrence rule", rule.ID, err)
	}
	_, err := ref.Set(ctx, rule)
	return err
}

// ListRecurrenceRules lists recurrence rules from Firestore
func (s *FirestoreStore) ListRecurrenceRules(ctx context.Context, userID string, activeOnly bool, pageSize int32, pageToken string) ([]*model.RecurrenceRule, string, error) {
	query := s.client.Collection(rulesCollection).Query
	if userID != "" {
		query = query.Where("UserId", "==", userID)
	}
	if activeOnly {
		query = query.Where("Active", "==", true)
	}

	query, err := s.applyCursorPagination(query, pageSize, pageToken)
	if err != nil {
		return nil, "", err
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, "", fmt.Errorf("failed to list recurrence rules: %w", err)
	}
	docs, nextPageToken := trimPage(docs, pageSize)

	rules := make([]*model.RecurrenceRule, 0, len(docs))
	for _, doc := range docs {
		var rule model.RecurrenceRule
		if err := doc.DataTo(&rule); err != nil {
			return nil, "", fmt.Errorf("failed to parse recurrence rule: %w", err)
		}
		rules = append(rules, &rule)
	}
	return rules, nextPageToken, nil
}

// MaterializeRecurrence writes the occurrence and advances LastGenerated in a
// single Firestore transaction.
func (s *FirestoreStore) MaterializeRecurrence(ctx context.Context, ruleID string, expectedLast *time.Time, txn *model.Transaction, generatedAt time.Time) error {
	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	ruleRef := s.client.Collection(rulesCollection).Doc(ruleID)
	txnRef := s.client.Collection(transactionsCollection).Doc(txn.ID)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ruleRef)
		if err != nil {
			return notFound("recurrence rule", ruleID, err)
		}
		var rule model.RecurrenceRule
		if err := doc.DataTo(&rule); err != nil {
			return fmt.Errorf("failed to parse recurrence rule: %w", err)
		}
		if !sameInstant(rule.LastGenerated, expectedLast) {
			return fmt.Errorf("recurrence rule %s: %w", ruleID, ErrConflict)
		}

		if err := tx.Create(txnRef, txn); err != nil {
			return err
		}
		return tx.Update(ruleRef, []firestore.Update{
			{Path: "LastGenerated", Value: generatedAt},
			{Path: "UpdatedAt", Value: generatedAt},
		})
	})
	if err != nil && !errors.Is(err, ErrConflict) && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to materialize recurrence %s: %w", ruleID, err)
	}
	return err
}
