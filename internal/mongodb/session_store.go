package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/EternisAI/agent-portal/internal/session"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// sessionDoc stores CAPTCHA entries as an array because correlation tokens
// come from the client and may contain '.' or '$'.
type sessionDoc struct {
	ID        string       `bson:"_id"`
	Captchas  []captchaDoc `bson:"captchas"`
	CreatedAt time.Time    `bson:"created_at"`
	ExpiresAt time.Time    `bson:"expires_at"`
}

type captchaDoc struct {
	Token     string    `bson:"token"`
	Code      string    `bson:"code"`
	IssuedAt  time.Time `bson:"issued_at"`
	ExpiresAt time.Time `bson:"expires_at"`
}

func toSessionDoc(s *session.Session) sessionDoc {
	doc := sessionDoc{
		ID:        s.ID,
		Captchas:  make([]captchaDoc, 0, len(s.Captchas)),
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
	}
	for token, c := range s.Captchas {
		doc.Captchas = append(doc.Captchas, captchaDoc{
			Token:     token,
			Code:      c.Code,
			IssuedAt:  c.IssuedAt,
			ExpiresAt: c.ExpiresAt,
		})
	}
	return doc
}

func (d sessionDoc) session() *session.Session {
	s := &session.Session{
		ID:        d.ID,
		Captchas:  make(map[string]session.Captcha, len(d.Captchas)),
		CreatedAt: d.CreatedAt,
		ExpiresAt: d.ExpiresAt,
	}
	for _, c := range d.Captchas {
		s.Captchas[c.Token] = session.Captcha{Code: c.Code, IssuedAt: c.IssuedAt, ExpiresAt: c.ExpiresAt}
	}
	return s
}

// SessionStore keeps sessions in the sessions collection. The TTL index from
// EnsureIndexes removes expired documents; Get also filters them since the
// TTL monitor only runs about once a minute.
type SessionStore struct {
	coll *mongo.Collection
}

func NewSessionStore(db *mongo.Database) *SessionStore {
	return &SessionStore{coll: db.Collection(sessionsCollection)}
}

func (s *SessionStore) Get(ctx context.Context, id string) (*session.Session, error) {
	var doc sessionDoc
	err := s.coll.FindOne(ctx, bson.M{
		"_id":        id,
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, session.ErrSessionNotFound
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	return doc.session(), nil
}

func (s *SessionStore) Save(ctx context.Context, sess *session.Session) error {
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": sess.ID}, toSessionDoc(sess), options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
