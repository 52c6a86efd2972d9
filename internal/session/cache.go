// Package session persists the authenticated tenant and its menu snapshot
// across reloads, so an admin does not re-enter the access code every time.
// The cache is defensive about its own contents: anything structurally off
// is purged and reported as "no session", never repaired and never surfaced
// as an error to the user.
package session

import (
    "context"
    "encoding/json"
    "errors"
    "log"
    "time"

    "github.com/iliyamo/palate-sommelier/internal/model"
)

// ErrNoSession means there is nothing usable in the cache: either nothing
// was stored, or what was stored failed the shape check and has been purged.
var ErrNoSession = errors.New("no session")

// ErrKeyNotFound is the KV-level miss. Implementations must return it (not
// a driver-specific value) so the cache can tell a miss from an outage.
var ErrKeyNotFound = errors.New("session key not found")

// ErrUnavailable is returned by writes when no KV backend is configured.
// The service keeps working without a cache; logins just don't survive
// reloads.
var ErrUnavailable = errors.New("session store unavailable")

// KV is the minimal byte store the cache runs on: one value per key, full
// overwrite on write. Backed by Redis in production and by an in-memory map
// in tests.
type KV interface {
    Get(ctx context.Context, key string) ([]byte, error)
    Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
    Del(ctx context.Context, key string) error
}

// Cache stores one serialized Session per tenant under a fixed key scheme.
type Cache struct {
    kv  KV
    ttl time.Duration
}

// NewCache builds a cache over the given KV. kv may be nil, in which case
// every read reports "no session" and every write reports ErrUnavailable.
// ttl bounds how long an untouched session survives; sessions are refreshed
// on every save.
func NewCache(kv KV, ttl time.Duration) *Cache {
    return &Cache{kv: kv, ttl: ttl}
}

func sessionKey(tenantID string) string { return "session:" + tenantID }

// Save serializes the session and overwrites whatever was stored before.
func (c *Cache) Save(ctx context.Context, s model.Session) error {
    if c.kv == nil {
        return ErrUnavailable
    }
    raw, err := json.Marshal(s)
    if err != nil {
        return err
    }
    return c.kv.Set(ctx, sessionKey(s.TenantID), raw, c.ttl)
}

// Load reads the stored session back. Before the bytes are trusted their
// shape is checked: menuData.menu must be a sequence. A stored value that
// fails the check (an old format, a truncated write) is deleted on the spot
// and the caller simply sees "no session" — corruption degrades, it never
// propagates.
func (c *Cache) Load(ctx context.Context, tenantID string) (model.Session, error) {
    if c.kv == nil {
        return model.Session{}, ErrNoSession
    }
    raw, err := c.kv.Get(ctx, sessionKey(tenantID))
    if err != nil {
        if err != ErrKeyNotFound {
            log.Printf("session: read for tenant %s failed: %v", tenantID, err)
        }
        return model.Session{}, ErrNoSession
    }
    if !wellFormed(raw) {
        log.Printf("session: purging malformed session for tenant %s", tenantID)
        _ = c.kv.Del(ctx, sessionKey(tenantID))
        return model.Session{}, ErrNoSession
    }
    var s model.Session
    if err := json.Unmarshal(raw, &s); err != nil {
        _ = c.kv.Del(ctx, sessionKey(tenantID))
        return model.Session{}, ErrNoSession
    }
    return s, nil
}

// Clear removes the stored session. Used on logout and by the purge path.
func (c *Cache) Clear(ctx context.Context, tenantID string) error {
    if c.kv == nil {
        return ErrUnavailable
    }
    return c.kv.Del(ctx, sessionKey(tenantID))
}

// wellFormed checks the structural invariant without decoding into typed
// structs: a typed decode would zero-fill a missing or mistyped menu and
// hide the corruption instead of exposing it.
func wellFormed(raw []byte) bool {
    var probe map[string]any
    if err := json.Unmarshal(raw, &probe); err != nil {
        return false
    }
    menuData, ok := probe["menuData"].(map[string]any)
    if !ok {
        return false
    }
    _, ok = menuData["menu"].([]any)
    return ok
}
