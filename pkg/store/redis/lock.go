package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"assetpulse/pkg/logger"
)

const (
	defaultLockKey      = "telemetry:global-lock"
	lockTTL             = 30 * time.Second // lock TTL, guards against deadlock
	lockAcquireTimeout  = 5 * time.Second
	lockExtendInterval  = 10 * time.Second
	maxLockHoldDuration = 2 * time.Minute
)

// DistributedLock coordinates background work across replicas.
type DistributedLock interface {
	TryLock(ctx context.Context) (bool, error)
	Unlock(ctx context.Context) error
	IsHeld() bool
}

// RedisDistributedLock is a Redis SET NX lock with automatic renewal.
type RedisDistributedLock struct {
	client       *redis.Client
	lockKey      string
	lockValue    string // unique per instance so one replica cannot release another's lock
	ttl          time.Duration
	isHeld       bool
	acquiredAt   time.Time
	stopRenew    chan struct{}
	renewStopped bool
	mu           sync.Mutex
}

// NewDistributedLock creates a Redis distributed lock for the given key.
func NewDistributedLock(client *redis.Client, lockKey string) *RedisDistributedLock {
	if lockKey == "" {
		lockKey = defaultLockKey
	}
	return &RedisDistributedLock{
		client:    client,
		lockKey:   lockKey,
		lockValue: fmt.Sprintf("%s-%d", lockKey, time.Now().UnixNano()),
		ttl:       lockTTL,
		stopRenew: make(chan struct{}),
	}
}

// TryLock attempts to acquire the lock. A nil client degrades to
// single-instance mode and always succeeds.
func (l *RedisDistributedLock) TryLock(ctx context.Context) (bool, error) {
	if l.client == nil {
		l.isHeld = true
		return true, nil
	}

	acquireCtx, cancel := context.WithTimeout(ctx, lockAcquireTimeout)
	defer cancel()

	acquired, err := l.client.SetNX(acquireCtx, l.lockKey, l.lockValue, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !acquired {
		logger.DebugCtx(ctx, "lock %s already held by another instance", l.lockKey)
		return false, nil
	}

	l.mu.Lock()
	l.isHeld = true
	l.acquiredAt = time.Now()
	// Fresh channel per acquisition so TryLock/Unlock cycles are safe
	l.stopRenew = make(chan struct{})
	l.renewStopped = false
	l.mu.Unlock()

	go l.renewLock(ctx)

	logger.DebugCtx(ctx, "lock %s acquired", l.lockKey)
	return true, nil
}

// Unlock releases the lock if this instance holds it
func (l *RedisDistributedLock) Unlock(ctx context.Context) error {
	l.mu.Lock()
	if !l.isHeld {
		l.mu.Unlock()
		return nil
	}

	if l.client == nil {
		l.isHeld = false
		l.mu.Unlock()
		return nil
	}

	if !l.renewStopped {
		l.renewStopped = true
		close(l.stopRenew)
	}
	l.mu.Unlock()

	// Delete only our own lock value
	luaScript := `
		if redis.call("get", KEYS[1]) == ARGV[1] then
			return redis.call("del", KEYS[1])
		else
			return 0
		end
	`

	result, err := l.client.Eval(ctx, luaScript, []string{l.lockKey}, l.lockValue).Result()
	if err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}

	l.mu.Lock()
	l.isHeld = false
	l.mu.Unlock()

	if result.(int64) != 1 {
		logger.WarnCtx(ctx, "lock %s was already released or held by another instance", l.lockKey)
	}

	return nil
}

// IsHeld reports whether this instance currently holds the lock
func (l *RedisDistributedLock) IsHeld() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.isHeld
}

// renewLock extends the lock TTL while held
func (l *RedisDistributedLock) renewLock(ctx context.Context) {
	ticker := time.NewTicker(lockExtendInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopRenew:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.mu.Lock()
			holdDuration := time.Since(l.acquiredAt)
			l.mu.Unlock()

			if holdDuration > maxLockHoldDuration {
				logger.WarnCtx(ctx, "lock %s held for %.0fs, abandoning renewal", l.lockKey, holdDuration.Seconds())
				l.mu.Lock()
				l.isHeld = false
				l.mu.Unlock()
				return
			}

			// Extend only our own lock value
			luaScript := `
				if redis.call("get", KEYS[1]) == ARGV[1] then
					return redis.call("expire", KEYS[1], ARGV[2])
				else
					return 0
				end
			`

			result, err := l.client.Eval(ctx, luaScript,
				[]string{l.lockKey},
				l.lockValue,
				int(l.ttl.Seconds())).Result()

			if err != nil || result.(int64) == 0 {
				logger.WarnCtx(ctx, "lock %s renewal failed, lock lost", l.lockKey)
				l.mu.Lock()
				l.isHeld = false
				l.mu.Unlock()
				return
			}
		}
	}
}
