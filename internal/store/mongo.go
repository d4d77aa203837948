package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/castlemilk/pfinance/automation/internal/logging"
	"github.com/castlemilk/pfinance/automation/internal/model"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultMongoDatabase is used when no database name is configured.
const DefaultMongoDatabase = "pfinance"

// MongoStore implements the Store interface using MongoDB.
type MongoStore struct {
	transactions *mongo.Collection
	categories   *mongo.Collection
	rules        *mongo.Collection
}

// NewMongoStore creates a MongoDB-backed store in the named database.
func NewMongoStore(client *mongo.Client, database string) Store {
	if database == "" {
		database = DefaultMongoDatabase
	}
	db := client.Database(database)
	return &MongoStore{
		transactions: db.Collection(transactionsCollection),
		categories:   db.Collection(categoriesCollection),
		rules:        db.Collection(rulesCollection),
	}
}

// ConnectToMongoDB establishes a connection to MongoDB.
func ConnectToMongoDB(ctx context.Context, uri string) (*mongo.Client, error) {
	logger := logging.FromContext(ctx)
	logger.Debug().Str("component", "store").Msg("connecting to MongoDB")

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.Info().Str("component", "store").Msg("connected to MongoDB")
	return client, nil
}

// categoryDoc keys categories by owner so ids can repeat across users.
type categoryDoc struct {
	Key        string  `bson:"_id"`
	UserID     string  `bson:"userId"`
	CategoryID string  `bson:"categoryId"`
	Name       string  `bson:"name"`
	Budget     float64 `bson:"budget"`
}

// findPage runs filter sorted by _id after the page token cursor, fetching one
// document past pageSize so trimMongoPage can detect a next page.
func findPage[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, pageSize int32, pageToken string) ([]*T, error) {
	pageSize = normalizePageSize(pageSize)
	if pageToken != "" {
		cursorID, err := DecodePageToken(pageToken)
		if err != nil {
			return nil, fmt.Errorf("invalid page token: %w", err)
		}
		filter["_id"] = bson.M{"$gt": cursorID}
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}).SetLimit(int64(pageSize) + 1)
	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", coll.Name(), err)
	}

	var docs []*T
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", coll.Name(), err)
	}
	return docs, nil
}

func (s *MongoStore) CreateTransaction(ctx context.Context, txn *model.Transaction) error {
	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	if _, err := s.transactions.InsertOne(ctx, txn); err != nil {
		return fmt.Errorf("failed to perform InsertOne: %w", err)
	}
	return nil
}

func (s *MongoStore) GetTransaction(ctx context.Context, txnID string) (*model.Transaction, error) {
	var txn model.Transaction
	err := s.transactions.FindOne(ctx, bson.M{"_id": txnID}).Decode(&txn)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("transaction %s: %w", txnID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction %s: %w", txnID, err)
	}
	return &txn, nil
}

func (s *MongoStore) ListTransactions(ctx context.Context, userID string, startDate, endDate *time.Time, pageSize int32, pageToken string) ([]*model.Transaction, string, error) {
	filter := bson.M{}
	if userID != "" {
		filter["userId"] = userID
	}
	dateRange := bson.M{}
	if startDate != nil {
		dateRange["$gte"] = *startDate
	}
	if endDate != nil {
		dateRange["$lte"] = *endDate
	}
	if len(dateRange) > 0 {
		filter["date"] = dateRange
	}

	txns, err := findPage[model.Transaction](ctx, s.transactions, filter, pageSize, pageToken)
	if err != nil {
		return nil, "", err
	}
	txns, next := trimMongoPage(txns, pageSize, func(t *model.Transaction) string { return t.ID })
	return txns, next, nil
}

func (s *MongoStore) ListCategories(ctx context.Context, userID string) ([]*model.Category, error) {
	cur, err := s.categories.Find(ctx, bson.M{"userId": userID}, options.Find().SetSort(bson.D{{Key: "categoryId", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	var docs []categoryDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}

	out := make([]*model.Category, 0, len(docs))
	for _, d := range docs {
		out = append(out, &model.Category{ID: d.CategoryID, UserID: d.UserID, Name: d.Name, Budget: d.Budget})
	}
	return out, nil
}

func (s *MongoStore) UpsertCategory(ctx context.Context, category *model.Category) error {
	if category.ID == "" {
		return fmt.Errorf("category id is required")
	}
	doc := categoryDoc{
		Key:        categoryKey(category.UserID, category.ID),
		UserID:     category.UserID,
		CategoryID: category.ID,
		Name:       category.Name,
		Budget:     category.Budget,
	}
	_, err := s.categories.ReplaceOne(ctx, bson.M{"_id": doc.Key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert category: %w", err)
	}
	return nil
}

func (s *MongoStore) CreateRecurrenceRule(ctx context.Context, rule *model.RecurrenceRule) error {
	if rule.ID == "" {
		rule.ID = uuid.New().String()
	}
	if _, err := s.rules.InsertOne(ctx, rule); err != nil {
		return fmt.Errorf("failed to perform InsertOne: %w", err)
	}
	return nil
}

func (s *MongoStore) GetRecurrenceRule(ctx context.Context, ruleID string) (*model.RecurrenceRule, error) {
	var rule model.RecurrenceRule
	err := s.rules.FindOne(ctx, bson.M{"_id": ruleID}).Decode(&rule)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("recurrence rule %s: %w", ruleID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recurrence rule %s: %w", ruleID, err)
	}
	return &rule, nil
}

func (s *MongoStore) UpdateRecurrenceRule(ctx context.Context, rule *model.RecurrenceRule) error {
	res, err := s.rules.ReplaceOne(ctx, bson.M{"_id": rule.ID}, rule)
	if err != nil {
		return fmt.Errorf("failed to update recurrence rule %s: %w", rule.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("recurrence rule %s: %w", rule.ID, ErrNotFound)
	}
	return nil
}

func (s *MongoStore) ListRecurrenceRules(ctx context.Context, userID string, activeOnly bool, pageSize int32, pageToken string) ([]*model.RecurrenceRule, string, error) {
	filter := bson.M{}
	if userID != "" {
		filter["userId"] = userID
	}
	if activeOnly {
		filter["active"] = true
	}

	rules, err := findPage[model.RecurrenceRule](ctx, s.rules, filter, pageSize, pageToken)
	if err != nil {
		return nil, "", err
	}
	rules, next := trimMongoPage(rules, pageSize, func(r *model.RecurrenceRule) string { return r.ID })
	return rules, next, nil
}

// MaterializeRecurrence claims the occurrence with a conditional update on
// lastGenerated, then inserts the transaction. A failed insert releases the
// claim so the next run retries.
func (s *MongoStore) MaterializeRecurrence(ctx context.Context, ruleID string, expectedLast *time.Time, txn *model.Transaction, generatedAt time.Time) error {
	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}

	claim := bson.M{"_id": ruleID, "lastGenerated": nil}
	if expectedLast != nil {
		claim["lastGenerated"] = *expectedLast
	}
	res, err := s.rules.UpdateOne(ctx, claim, bson.M{"$set": bson.M{"lastGenerated": generatedAt, "updatedAt": generatedAt}})
	if err != nil {
		return fmt.Errorf("failed to claim recurrence %s: %w", ruleID, err)
	}
	if res.MatchedCount == 0 {
		n, err := s.rules.CountDocuments(ctx, bson.M{"_id": ruleID})
		if err != nil {
			return fmt.Errorf("failed to look up recurrence rule %s: %w", ruleID, err)
		}
		if n == 0 {
			return fmt.Errorf("recurrence rule %s: %w", ruleID, ErrNotFound)
		}
		return fmt.Errorf("recurrence rule %s: %w", ruleID, ErrConflict)
	}

	if _, err := s.transactions.InsertOne(ctx, txn); err != nil {
		var restore bson.M
		if expectedLast != nil {
			restore = bson.M{"$set": bson.M{"lastGenerated": *expectedLast}}
		} else {
			restore = bson.M{"$unset": bson.M{"lastGenerated": ""}}
		}
		if _, rbErr := s.rules.UpdateOne(ctx, bson.M{"_id": ruleID, "lastGenerated": generatedAt}, restore); rbErr != nil {
			log := logging.FromContext(ctx)
			log.Error().Str("component", "store").Err(rbErr).
				Str("rule_id", ruleID).Msg("failed to release recurrence claim")
		}
		return fmt.Errorf("failed to insert occurrence for %s: %w", ruleID, err)
	}
	return nil
}

func trimMongoPage[T any](docs []*T, pageSize int32, id func(*T) string) ([]*T, string) {
	pageSize = normalizePageSize(pageSize)
	if len(docs) > int(pageSize) {
		docs = docs[:pageSize]
		return docs, EncodePageToken(id(docs[pageSize-1]))
	}
	return docs, ""
}
