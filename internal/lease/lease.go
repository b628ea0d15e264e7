// Package lease hands out short-lived exclusive leases stored in Redis, so that only one
// API instance or worker evicts from a namespace at a time.
package lease

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

var ErrNotAcquired = errors.New("lease held by another owner")

// releaseScript deletes the key only if it still holds our token, so an expired lease
// re-taken by someone else is left alone.
var releaseScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// Manager acquires leases with SET NX PX. A lease that is never released expires after ttl.
type Manager struct {
	redis *redis.Client
	ttl   time.Duration
	wait  time.Duration
	poll  time.Duration
}

// NewManager returns a Manager whose Acquire retries for up to wait before giving up.
// A zero wait makes a single attempt.
func NewManager(redisClient *redis.Client, ttl, wait time.Duration) *Manager {
	return &Manager{
		redis: redisClient,
		ttl:   ttl,
		wait:  wait,
		poll:  100 * time.Millisecond,
	}
}

// Acquire takes the named lease and returns the func that releases it.
func (m *Manager) Acquire(ctx context.Context, name string) (func(context.Context) error, error) {
	token := uuid.NewString()
	deadline := time.Now().Add(m.wait)

	for {
		ok, err := m.redis.SetNX(ctx, name, token, m.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lease %s: %w", name, err)
		}
		if ok {
			return m.releaser(name, token), nil
		}

		if !time.Now().Add(m.poll).Before(deadline) {
			return nil, fmt.Errorf("%w: %s", ErrNotAcquired, name)
		}

		timer := time.NewTimer(m.poll)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (m *Manager) releaser(name, token string) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, m.redis, []string{name}, token).Err(); err != nil {
			return fmt.Errorf("release lease %s: %w", name, err)
		}
		return nil
	}
}
