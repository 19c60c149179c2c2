package redis

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"github.com/linegroup/authcore/internal/domain/service"
	"github.com/linegroup/authcore/pkg/constants"
	"github.com/linegroup/authcore/pkg/logger"
)

var _ service.RevocationStore = (*revocationStore)(nil)

// revocationStore records revoked token ids in the shared Redis instance.
// Each entry carries a TTL equal to the remaining validity of the token it
// revokes, so the list self-expires no later than the tokens would have.
//
// A local in-process cache mirrors positive answers only. Revoked is a
// terminal state, so a cached "revoked" can never go stale; negative answers
// are never cached because another replica may revoke at any moment.
type revocationStore struct {
	rdb     *redis.Client
	prefix  string
	timeout time.Duration
	local   *gocache.Cache
	log     logger.Logger
}

// NewRevocationStore builds the revocation adapter. An empty prefix falls
// back to the default namespace; a zero timeout falls back to the default
// per-call bound.
func NewRevocationStore(rdb *redis.Client, prefix string, timeout time.Duration, log logger.Logger) service.RevocationStore {
	if prefix == "" {
		prefix = constants.DefaultRevocationKeyPrefix
	}
	if timeout <= 0 {
		timeout = constants.DefaultStoreTimeout
	}
	return &revocationStore{
		rdb:     rdb,
		prefix:  prefix,
		timeout: timeout,
		local:   gocache.New(gocache.NoExpiration, 10*time.Minute),
		log:     log.WithComponent("revocation_store"),
	}
}

func (s *revocationStore) key(tokenID string) string { return s.prefix + tokenID }

// MarkRevoked writes the revocation entry. Writing the same id twice is safe
// and leaves the token revoked; a non-positive TTL means the token is already
// expired and nothing needs recording.
func (s *revocationStore) MarkRevoked(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.rdb.Set(ctx, s.key(tokenID), "1", ttl).Err(); err != nil {
		return err
	}
	s.local.Set(tokenID, struct{}{}, ttl)
	return nil
}

// IsRevoked reports whether the token id is on the revocation list. Store
// failures propagate to the caller, which treats them as revoked (fail
// closed) rather than active.
func (s *revocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if _, hit := s.local.Get(tokenID); hit {
		return true, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	n, err := s.rdb.Exists(ctx, s.key(tokenID)).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		// Backfill the local cache with the key's remaining lifetime.
		if ttl, ttlErr := s.rdb.TTL(ctx, s.key(tokenID)).Result(); ttlErr == nil && ttl > 0 {
			s.local.Set(tokenID, struct{}{}, ttl)
		}
		return true, nil
	}
	return false, nil
}
