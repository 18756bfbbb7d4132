package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// consumeScript deletes KEYS[1] only when it holds ARGV[1], so a code can be
// redeemed exactly once even under concurrent verification.
var consumeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// OTPStore keeps one pending OTP digest per phone number.
// Key format: otp:<phone_number>
type OTPStore struct {
	client *redis.Client
}

// NewOTPStore creates an OTPStore wrapping the given Redis client.
func NewOTPStore(client *redis.Client) *OTPStore {
	return &OTPStore{client: client}
}

// Save stores digest for phone, replacing any earlier pending code.
func (s *OTPStore) Save(ctx context.Context, phone, digest string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(phone), digest, ttl).Err(); err != nil {
		return fmt.Errorf("otp save: %w", err)
	}
	return nil
}

// Consume reports whether digest matched the pending code and removes it if so.
func (s *OTPStore) Consume(ctx context.Context, phone, digest string) (bool, error) {
	n, err := consumeScript.Run(ctx, s.client, []string{s.key(phone)}, digest).Int()
	if err != nil {
		return false, fmt.Errorf("otp consume: %w", err)
	}
	return n == 1, nil
}

func (s *OTPStore) key(phone string) string {
	return "otp:" + phone
}
