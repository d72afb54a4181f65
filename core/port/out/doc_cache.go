package out

import (
	"context"
	"time"
)

// ResultCache caches classification results keyed by document content.
type ResultCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}
