package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/EternisAI/agent-portal/internal/agents"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AgentStore struct {
	coll *mongo.Collection
	seq  *Sequence
}

func NewAgentStore(db *mongo.Database) *AgentStore {
	return &AgentStore{
		coll: db.Collection(agentsCollection),
		seq:  NewSequence(db, agentsCollection),
	}
}

func (s *AgentStore) Create(ctx context.Context, a *agents.Agent) (int64, error) {
	id, err := s.seq.Next(ctx)
	if err != nil {
		return 0, err
	}

	doc := *a
	doc.ID = id
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return 0, agents.ErrLoginNameExists
		}
		return 0, fmt.Errorf("insert agent: %w", err)
	}

	a.ID, a.CreatedAt, a.UpdatedAt = doc.ID, doc.CreatedAt, doc.UpdatedAt
	return id, nil
}

func (s *AgentStore) GetByID(ctx context.Context, id int64) (*agents.Agent, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *AgentStore) GetByLoginName(ctx context.Context, loginName string) (*agents.Agent, error) {
	return s.findOne(ctx, bson.M{"login_name": loginName})
}

// RecordLogin uses a pipeline update so last_logon_* copy the values from
// before this update.
func (s *AgentStore) RecordLogin(ctx context.Context, id int64, rec agents.LoginRecord) (*agents.Agent, error) {
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "last_logon_time", Value: "$last_login_time"},
			{Key: "last_logon_ip", Value: "$last_login_ip"},
			{Key: "last_login_time", Value: rec.At.UTC()},
			{Key: "last_login_ip", Value: rec.IP},
			{Key: "login_times", Value: bson.D{{Key: "$add", Value: bson.A{
				bson.D{{Key: "$ifNull", Value: bson.A{"$login_times", 0}}}, 1,
			}}}},
			{Key: "updated_at", Value: rec.At.UTC()},
		}}},
	}

	var a agents.Agent
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, agents.ErrAgentNotFound
		}
		return nil, fmt.Errorf("record login: %w", err)
	}
	return &a, nil
}

func (s *AgentStore) UpdateBalance(ctx context.Context, id int64, balance float64) (float64, error) {
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"balance":    balance,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return 0, fmt.Errorf("update balance: %w", err)
	}
	if res.MatchedCount == 0 {
		return 0, agents.ErrAgentNotFound
	}
	return balance, nil
}

func (s *AgentStore) findOne(ctx context.Context, filter bson.M) (*agents.Agent, error) {
	var a agents.Agent
	if err := s.coll.FindOne(ctx, filter).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, agents.ErrAgentNotFound
		}
		return nil, fmt.Errorf("find agent: %w", err)
	}
	return &a, nil
}
