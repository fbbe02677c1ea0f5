package redis

import (
	"context"
	"time"

	"github.com/mintfolio/go-marketplace/service/auth"
	"github.com/mintfolio/go-marketplace/service/persist"
)

// nonceTTL bounds how long a preflight nonce stays valid before the wallet
// must request a new one
const nonceTTL = 10 * time.Minute

// NonceStore is a redis-backed auth.NonceStore, so any node can complete a
// login started on another
type NonceStore struct {
	cache *Cache
}

// NewNonceStore creates a nonce store on the auth nonce cache
func NewNonceStore() *NonceStore {
	return &NonceStore{cache: NewCache(AuthNonceCache)}
}

// Set stores the outstanding nonce for an address
func (s *NonceStore) Set(ctx context.Context, address persist.Address, nonce string) error {
	return s.cache.Set(ctx, address.String(), []byte(nonce), nonceTTL)
}

// Get returns the outstanding nonce for an address
func (s *NonceStore) Get(ctx context.Context, address persist.Address) (string, error) {
	bs, err := s.cache.Get(ctx, address.String())
	if err != nil {
		if _, ok := err.(ErrKeyNotFound); ok {
			return "", auth.ErrNonceNotFound{Address: address}
		}
		return "", err
	}
	return string(bs), nil
}

// Delete consumes the outstanding nonce for an address
func (s *NonceStore) Delete(ctx context.Context, address persist.Address) error {
	return s.cache.Delete(ctx, address.String())
}
