package utils

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

const defaultCacheTTL = time.Hour

// In-process fallback when redis is unreachable. Entries expire lazily on read.
var (
	memMu    sync.Mutex
	memCache = map[string]memEntry{}
)

type memEntry struct {
	data    []byte
	expires time.Time
}

// CacheGetBytes returns cached bytes for a key, from Redis when available and
// the in-process map otherwise.
func CacheGetBytes(key string) ([]byte, bool) {
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		b, err := rc.Get(ctx, key).Bytes()
		if err != nil {
			if Sugar != nil {
				Sugar.Debugf("cache get miss key=%s err=%v", key, err)
			}
			return nil, false
		}
		return b, true
	}

	memMu.Lock()
	defer memMu.Unlock()
	entry, ok := memCache[key]
	if !ok || time.Now().After(entry.expires) {
		delete(memCache, key)
		return nil, false
	}
	return entry.data, true
}

// CacheSetBytes stores bytes with the given TTL.
func CacheSetBytes(key string, b []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rc.Set(ctx, key, b, ttl).Err(); err != nil {
			if Sugar != nil {
				Sugar.Warnf("cache set failed key=%s err=%v", key, err)
			}
		}
		return
	}

	memMu.Lock()
	defer memMu.Unlock()
	memCache[key] = memEntry{data: b, expires: time.Now().Add(ttl)}
}

// CacheDelete removes a key from whichever cache backend is active.
func CacheDelete(key string) {
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rc.Del(ctx, key).Err(); err != nil && Sugar != nil {
			Sugar.Debugf("cache delete failed key=%s err=%v", key, err)
		}
		return
	}

	memMu.Lock()
	defer memMu.Unlock()
	delete(memCache, key)
}

// CacheSetJSON marshals v and stores JSON bytes.
func CacheSetJSON(key string, v interface{}, ttl time.Duration) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	CacheSetBytes(key, b, ttl)
}
