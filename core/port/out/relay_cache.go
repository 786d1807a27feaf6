package out

import (
	"context"
	"time"
)

// Cache is the outbound port for JSON caching. Backed by Redis in
// production; a miss is reported as (false, nil), not an error.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
