package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Sequence hands out increasing int64 values from a counters document.
type Sequence struct {
	counters *mongo.Collection
	name     string
}

func NewSequence(db *mongo.Database, name string) *Sequence {
	return &Sequence{
		counters: db.Collection(countersCollection),
		name:     name,
	}
}

func (s *Sequence) Next(ctx context.Context) (int64, error) {
	var counter struct {
		Value int64 `bson:"value"`
	}
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": s.name},
		bson.M{"$inc": bson.M{"value": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next %s sequence value: %w", s.name, err)
	}
	return counter.Value, nil
}
