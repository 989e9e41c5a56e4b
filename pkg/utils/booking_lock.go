package utils

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrBookingLocked = errors.New("booking is being modified by another request")
	ErrLockExpired   = errors.New("booking lock expired before release")
)

// only the owner that took the lock may release it
var unlockScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		redis.call("DEL", KEYS[1])
		return 1
	end
	return 0
`)

// Locker serialises status transitions of a single booking.
type Locker interface {
	Lock(ctx context.Context, bookingId string) (unlock func() error, err error)
}

type RedisLocker struct {
	RedisCli *redis.Client
	TTL      time.Duration
}

func (l *RedisLocker) Lock(ctx context.Context, bookingId string) (func() error, error) {

	key := "bookinglock:" + bookingId
	owner := uuid.New().String()

	ok, err := l.RedisCli.SetNX(ctx, key, owner, l.TTL).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrBookingLocked
	}

	return func() error {
		// release even if the request context is gone, the ttl is the fallback
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		released, err := unlockScript.Run(cleanupCtx, l.RedisCli, []string{key}, owner).Int()
		if err != nil {
			return err
		}
		if released == 0 {
			return ErrLockExpired
		}
		return nil
	}, nil

}
