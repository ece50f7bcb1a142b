package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key for a classification request. The graph size is
// part of the key: the same text classified against a grown graph is a
// different question.
func Key(text string, team string, graphSize int) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d", text, team, graphSize)))
	return "bpflow:v1:" + hex.EncodeToString(hash[:])
}
