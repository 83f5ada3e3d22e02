package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// RateLimitKey returns the counter key for a limiter bucket and client IP.
func (r *CacheKeyStruct) RateLimitKey(bucket, ip string) string {
	return fmt.Sprintf("ratelimit:%s:%s", bucket, ip)
}

// MessageFeedChannel returns the Redis PubSub channel carrying triage events.
func (r *CacheKeyStruct) MessageFeedChannel() string {
	return "messages:feed"
}

var CacheKey = NewCacheKeyStruct()
