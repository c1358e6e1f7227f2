package core

import "github.com/google/uuid"

// NewIdempotencyKey returns a fresh random key for X-SP-IDEMPOTENCY-KEY.
// The client never remembers keys: to resubmit a call safely, persist the key and pass it again.
func NewIdempotencyKey() string {
	return uuid.NewString()
}
