package responseformat

import (
	"context"
	"fmt"
	"reflect"
)

const cacheSchemaVersion = "v1"

// Resolver fronts Resolve with a DocumentCache, so repeated calls for the
// same output type across goroutines or process restarts (with a shared
// Redis cache) skip the reflection walk.
type Resolver struct {
	cache DocumentCache
	ttl   int64 // nanoseconds; 0 means the cache's own default
}

func NewResolver(cache DocumentCache) *Resolver {
	if cache == nil {
		cache = NewMemoryCache(0, 0)
	}
	return &Resolver{cache: cache}
}

func cacheKey(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return fmt.Sprintf("%s.%s@%s", t.PkgPath(), t.Name(), cacheSchemaVersion)
}

// Resolve returns the derived schema for outputType, consulting the
// cache first and populating it on a miss.
func (r *Resolver) Resolve(ctx context.Context, outputType any) (*Document, string, bool, error) {
	t := reflect.TypeOf(outputType)
	if t == nil {
		return nil, "", false, fmt.Errorf("responseformat: outputType must not be nil")
	}
	key := cacheKey(t)

	if doc, name, strict, found, err := r.cache.Get(ctx, key); err != nil {
		return nil, "", false, err
	} else if found {
		return doc, name, strict, nil
	}

	doc, name, strict, err := Resolve(outputType)
	if err != nil {
		return nil, "", false, err
	}
	if err := r.cache.Set(ctx, key, doc, name, strict, 0); err != nil {
		return nil, "", false, err
	}
	return doc, name, strict, nil
}
