package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"kitchensink/internal/member/models"
	"kitchensink/pkg/platform/sentinel"
)

const duplicateKeyCode = 11000

// MongoStore persists members in the members collection.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongo creates a store over db.
func NewMongo(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(Collection)}
}

// EnsureIndexes creates the unique email index. Creating an index that
// already exists with the same definition succeeds.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName(EmailIndexName).SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create index %s: %w", EmailIndexName, err)
	}
	return nil
}

// Insert stores member. A duplicate email maps to sentinel.ErrAlreadyUsed and
// a duplicate _id to sentinel.ErrKeyCollision.
func (s *MongoStore) Insert(ctx context.Context, member *models.Member) error {
	if _, err := s.coll.InsertOne(ctx, member); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			if violatesIndex(err, EmailIndexName) {
				return fmt.Errorf("insert member %d: %w", member.ID, sentinel.ErrAlreadyUsed)
			}
			return fmt.Errorf("insert member %d: %w: %w", member.ID, sentinel.ErrKeyCollision, err)
		}
		return fmt.Errorf("insert member %d: %w: %w", member.ID, sentinel.ErrUnavailable, err)
	}
	return nil
}

// violatesIndex reports whether a duplicate key error names index. The server
// reports the index as "index: <name> dup key" in the write error message.
func violatesIndex(err error, index string) bool {
	var we mongo.WriteException
	if !errors.As(err, &we) {
		return false
	}
	for _, e := range we.WriteErrors {
		if e.HasErrorCodeWithMessage(duplicateKeyCode, "index: "+index+" ") {
			return true
		}
	}
	return false
}

// FindByID returns the member with id or sentinel.ErrNotFound.
func (s *MongoStore) FindByID(ctx context.Context, id int64) (*models.Member, error) {
	return s.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

// FindByEmail returns the member with exactly this email or sentinel.ErrNotFound.
func (s *MongoStore) FindByEmail(ctx context.Context, email string) (*models.Member, error) {
	return s.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.D) (*models.Member, error) {
	var m models.Member
	if err := s.coll.FindOne(ctx, filter).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find member: %w: %w", sentinel.ErrUnavailable, err)
	}
	return &m, nil
}

// ListOrderedByName returns every member sorted by name, then id.
func (s *MongoStore) ListOrderedByName(ctx context.Context) ([]*models.Member, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list members: %w: %w", sentinel.ErrUnavailable, err)
	}
	members := make([]*models.Member, 0)
	if err := cur.All(ctx, &members); err != nil {
		return nil, fmt.Errorf("decode members: %w: %w", sentinel.ErrUnavailable, err)
	}
	return members, nil
}

// Count returns the number of stored members.
func (s *MongoStore) Count(ctx context.Context) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count members: %w: %w", sentinel.ErrUnavailable, err)
	}
	return n, nil
}
