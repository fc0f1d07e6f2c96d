package auth

import (
	"context"
	"time"

	"ledgerdash/query"
	"ledgerdash/storage"
)

type sqlSessionStore struct {
	clock
	c *query.Client
}

func newSQLSessionStore(s storage.Store, ttl time.Duration) *sqlSessionStore {
	return &sqlSessionStore{clock: clock{ttl: ttl, now: time.Now}, c: query.NewClient(s)}
}

func (s *sqlSessionStore) Create(ctx context.Context, userID string) (Session, error) {
	sess := s.newSession(userID)
	_, err := s.c.Query(`INSERT INTO sessions (token, user_id, expires_at) VALUES (${}, ${}, ${})`,
		sess.Token, sess.UserID, sess.ExpiresAt.Unix()).Run(ctx)
	if err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *sqlSessionStore) Get(ctx context.Context, token string) (Session, bool, error) {
	row, ok, err := s.c.Query(`SELECT token, user_id, expires_at FROM sessions WHERE token = ${} AND expires_at > ${}`,
		token, s.now().Unix()).First(ctx)
	if err != nil || !ok {
		return Session{}, false, err
	}
	rec, err := query.DecodeOne[struct {
		Token     string `db:"token"`
		UserID    string `db:"user_id"`
		ExpiresAt int64  `db:"expires_at"`
	}](row)
	if err != nil {
		return Session{}, false, err
	}
	return Session{Token: rec.Token, UserID: rec.UserID, ExpiresAt: time.Unix(rec.ExpiresAt, 0)}, true, nil
}

func (s *sqlSessionStore) Delete(ctx context.Context, token string) error {
	_, err := s.c.Query(`DELETE FROM sessions WHERE token = ${}`, token).Run(ctx)
	return err
}
