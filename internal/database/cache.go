package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"
)

const defaultCacheTimeout = 5 * time.Second

// CacheBuilder is a small fluent wrapper over a valkey client for the
// marshal/set, get/unmarshal, and delete patterns the repositories use.
type CacheBuilder struct {
	client CacheClient
	key    string
	ctx    context.Context
	value  any
	expiry time.Duration
}

func NewCacheBuilder(client CacheClient, key string) *CacheBuilder {
	return &CacheBuilder{
		client: client,
		key:    key,
	}
}

func (b *CacheBuilder) WithContext(ctx context.Context) *CacheBuilder {
	b.ctx = ctx
	return b
}

func (b *CacheBuilder) WithStruct(value any) *CacheBuilder {
	b.value = value
	return b
}

func (b *CacheBuilder) WithExpiry(expiry time.Duration) *CacheBuilder {
	b.expiry = expiry
	return b
}

func (b *CacheBuilder) context() (context.Context, context.CancelFunc) {
	if b.ctx != nil {
		return b.ctx, func() {}
	}
	return context.WithTimeout(context.Background(), defaultCacheTimeout)
}

func (b *CacheBuilder) Set() error {
	ctx, cancel := b.context()
	defer cancel()

	raw, err := json.Marshal(b.value)
	if err != nil {
		return err
	}

	cmd := b.client.B().Set().Key(b.key).Value(string(raw))
	if b.expiry > 0 {
		return b.client.Do(ctx, cmd.Ex(b.expiry).Build()).Error()
	}
	return b.client.Do(ctx, cmd.Build()).Error()
}

// Get unmarshals the cached value into dest. The bool reports whether the
// key was present; a miss is not an error.
func (b *CacheBuilder) Get(dest any) (bool, error) {
	ctx, cancel := b.context()
	defer cancel()

	raw, err := b.client.Do(ctx, b.client.B().Get().Key(b.key).Build()).AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return false, nil
		}
		return false, err
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}

	return true, nil
}

func (b *CacheBuilder) Delete() error {
	ctx, cancel := b.context()
	defer cancel()

	return b.client.Do(ctx, b.client.B().Del().Key(b.key).Build()).Error()
}
