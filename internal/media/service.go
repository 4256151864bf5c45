package media

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/at-ishikawa/birdlog/internal/metrics"
)

// resolveTimeout bounds a shared resolution that no caller waits for anymore.
const resolveTimeout = time.Minute

//go:generate mockgen -source=service.go -destination=../mocks/media/mock_service.go -package=mock_media

// Looker is what callers outside this package use to get media for a species.
type Looker interface {
	Lookup(ctx context.Context, latinName, swedishName string) Info
}

// NameResolver resolves one name without caching.
type NameResolver interface {
	Resolve(ctx context.Context, name string) (Info, error)
}

// Service memoizes media lookups. Only found results are remembered, so a miss or a failure is
// retried on the next call.
type Service struct {
	resolver NameResolver
	cache    Cache
	store    Store
	group    singleflight.Group
}

type ServiceOption func(*Service)

func WithCache(cache Cache) ServiceOption {
	return func(s *Service) {
		s.cache = cache
	}
}

// WithStore adds a persistent layer behind the in-process cache.
func WithStore(store Store) ServiceOption {
	return func(s *Service) {
		s.store = store
	}
}

func NewService(resolver NameResolver, opts ...ServiceOption) *Service {
	s := &Service{
		resolver: resolver,
		cache:    NewMemoryCache(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lookup tries latinName first and falls back to swedishName when nothing is found.
// Failures are logged and reported as an empty Info, as is ctx ending before the result is ready.
func (s *Service) Lookup(ctx context.Context, latinName, swedishName string) Info {
	key := CacheKey(latinName, swedishName)
	if key == "" {
		return Info{}
	}

	if info, ok := s.cache.Get(key); ok {
		metrics.MediaCacheHits.Inc()
		return info
	}

	// Concurrent callers with the same key share one resolution, detached from the caller that
	// started it. A caller whose ctx ends gets an empty Info while the others still get the result.
	ch := s.group.DoChan(key, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), resolveTimeout)
		defer cancel()

		if info, ok := s.cache.Get(key); ok {
			return info, nil
		}
		if info, ok := s.fromStore(ctx, key); ok {
			s.cache.Set(key, info)
			return info, nil
		}

		metrics.MediaCacheMisses.Inc()
		info := s.resolve(ctx, latinName, swedishName)
		if info.Found() {
			s.cache.Set(key, info)
			s.save(ctx, key, info)
		}
		return info, nil
	})

	select {
	case <-ctx.Done():
		return Info{}
	case result := <-ch:
		return result.Val.(Info)
	}
}

func (s *Service) resolve(ctx context.Context, latinName, swedishName string) Info {
	var info Info
	if latinName != "" {
		info = s.resolveName(ctx, latinName)
	}
	if !info.Found() && swedishName != "" {
		info = s.resolveName(ctx, swedishName)
	}
	return info
}

func (s *Service) resolveName(ctx context.Context, name string) Info {
	info, err := s.resolver.Resolve(ctx, name)
	if err != nil {
		slog.Default().Warn("failed to resolve media",
			"name", name,
			"error", err,
		)
		return Info{}
	}
	return info
}

func (s *Service) fromStore(ctx context.Context, key string) (Info, bool) {
	if s.store == nil {
		return Info{}, false
	}
	entry, err := s.store.FindByKey(ctx, key)
	if err != nil {
		slog.Default().Warn("failed to read the media store",
			"key", key,
			"error", err,
		)
		return Info{}, false
	}
	if entry == nil || !entry.Info().Found() {
		return Info{}, false
	}
	return entry.Info(), true
}

func (s *Service) save(ctx context.Context, key string, info Info) {
	if s.store == nil {
		return
	}
	if err := s.store.Upsert(ctx, NewEntry(key, info)); err != nil {
		slog.Default().Warn("failed to save to the media store",
			"key", key,
			"error", err,
		)
	}
}
