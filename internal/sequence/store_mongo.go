package sequence

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"kitchensink/pkg/platform/sentinel"
)

// counterDocument is the persisted shape of a sequence counter.
type counterDocument struct {
	Name string `bson:"_id"`
	Seq  int64  `bson:"seq"`
}

// MongoGenerator issues values from the counters collection using
// findAndModify.
type MongoGenerator struct {
	counters *mongo.Collection
}

// NewMongo constructs a generator over db's counters collection.
func NewMongo(db *mongo.Database) *MongoGenerator {
	return &MongoGenerator{counters: db.Collection(CountersCollection)}
}

// incrementPipeline sets seq to ifNull(seq, MissingCounterValue) + 1, which
// lets a single upserting findAndModify both create and increment a counter.
var incrementPipeline = mongo.Pipeline{
	{{Key: "$set", Value: bson.D{{Key: seqField, Value: bson.D{{Key: "$add", Value: bson.A{
		bson.D{{Key: "$ifNull", Value: bson.A{"$" + seqField, MissingCounterValue}}},
		int64(1),
	}}}}}}},
}

// Next atomically increments the named counter and returns the new value.
func (g *MongoGenerator) Next(ctx context.Context, name string) (int64, error) {
	filter := bson.D{{Key: "_id", Value: name}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc counterDocument
	err := g.counters.FindOneAndUpdate(ctx, filter, incrementPipeline, opts).Decode(&doc)
	if mongo.IsDuplicateKeyError(err) {
		// Two upserts raced to create the counter; the loser's retry finds the
		// winner's document and increments it.
		err = g.counters.FindOneAndUpdate(ctx, filter, incrementPipeline, opts).Decode(&doc)
	}
	if err != nil {
		return 0, fmt.Errorf("increment sequence %q: %w: %w", name, sentinel.ErrUnavailable, err)
	}
	return doc.Seq, nil
}

// Initialize seeds the counter with initialValue only if it does not exist.
// Calling it on a sequence already in use never rewinds it.
func (g *MongoGenerator) Initialize(ctx context.Context, name string, initialValue int64) error {
	filter := bson.D{{Key: "_id", Value: name}}
	update := bson.D{{Key: "$setOnInsert", Value: bson.D{{Key: seqField, Value: initialValue}}}}
	_, err := g.counters.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("initialize sequence %q: %w: %w", name, sentinel.ErrUnavailable, err)
	}
	return nil
}

// Current returns the stored counter value. ok is false when the counter
// does not exist.
func (g *MongoGenerator) Current(ctx context.Context, name string) (int64, bool, error) {
	var doc counterDocument
	err := g.counters.FindOne(ctx, bson.D{{Key: "_id", Value: name}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read sequence %q: %w: %w", name, sentinel.ErrUnavailable, err)
	}
	return doc.Seq, true, nil
}
