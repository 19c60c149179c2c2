package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/linegroup/authcore/internal/domain/service"
	"github.com/linegroup/authcore/pkg/constants"
)

var _ service.RefreshStore = (*refreshStore)(nil)

// refreshStore keeps refresh credential records server-side: key = refresh
// id, value = subject, lifetime = configured refresh TTL. A record is
// consumed atomically on use, which makes every refresh credential
// single-use and forces rotation.
type refreshStore struct {
	rdb     *redis.Client
	prefix  string
	timeout time.Duration
}

// NewRefreshStore builds the refresh credential adapter.
func NewRefreshStore(rdb *redis.Client, prefix string, timeout time.Duration) service.RefreshStore {
	if prefix == "" {
		prefix = constants.DefaultRefreshKeyPrefix
	}
	if timeout <= 0 {
		timeout = constants.DefaultStoreTimeout
	}
	return &refreshStore{rdb: rdb, prefix: prefix, timeout: timeout}
}

func (s *refreshStore) key(id string) string { return s.prefix + id }

// Save records a fresh refresh id for the subject.
func (s *refreshStore) Save(ctx context.Context, id, subject string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.rdb.Set(ctx, s.key(id), subject, ttl).Err()
}

// Consume atomically retrieves and deletes the record. A missing or already
// consumed id yields ErrRefreshNotFound.
func (s *refreshStore) Consume(ctx context.Context, id string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	subject, err := s.rdb.GetDel(ctx, s.key(id)).Result()
	if err == redis.Nil {
		return "", service.ErrRefreshNotFound
	}
	if err != nil {
		return "", err
	}
	return subject, nil
}

// Delete removes a record without consuming it, used at logout.
func (s *refreshStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.rdb.Del(ctx, s.key(id)).Err()
}
