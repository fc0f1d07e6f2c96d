package auth

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"ledgerdash/storage"
)

type mongoSession struct {
	Token     string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	ExpiresAt time.Time `bson:"expires_at"`
}

type mongoSessionStore struct {
	clock
	coll *mongo.Collection
}

func newMongoSessionStore(db *mongo.Database, ttl time.Duration) *mongoSessionStore {
	return &mongoSessionStore{
		clock: clock{ttl: ttl, now: time.Now},
		coll:  db.Collection(storage.SessionsCollection),
	}
}

func (s *mongoSessionStore) Create(ctx context.Context, userID string) (Session, error) {
	sess := s.newSession(userID)
	doc := mongoSession{Token: sess.Token, UserID: sess.UserID, ExpiresAt: sess.ExpiresAt.UTC()}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Get checks expiry itself: the TTL monitor only sweeps about once a minute.
func (s *mongoSessionStore) Get(ctx context.Context, token string) (Session, bool, error) {
	var doc mongoSession
	err := s.coll.FindOne(ctx, bson.M{"_id": token, "expires_at": bson.M{"$gt": s.now().UTC()}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, err
	}
	return Session{Token: doc.Token, UserID: doc.UserID, ExpiresAt: doc.ExpiresAt}, true, nil
}

func (s *mongoSessionStore) Delete(ctx context.Context, token string) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": token})
	return err
}
