package cool

import (
	"slices"
	"sync"

	"github.com/katalvlaran/sungear/internal/metrics"
	"github.com/rs/zerolog"
)

// Source produces the scorer's input on a cache miss.
type Source func() ([]Tally, Totals, error)

// Options configures a Scorer.
type Options struct {
	Logger  zerolog.Logger
	Metrics *metrics.Collector
}

// Option is a functional option for NewScorer.
type Option func(*Options)

// WithLogger routes cache debug output to l.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithMetrics records cache hits, misses and invalidations on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(o *Options) { o.Metrics = c }
}

// DefaultOptions returns a silent, unmetered configuration.
func DefaultOptions() Options {
	return Options{Logger: zerolog.Nop()}
}

type cacheEntry struct {
	revision uint64
	ranked   []Ranked
}

// Scorer memoizes RankVessels per (scope, method). Each pair keeps at most
// one entry; a request with a different revision recomputes and replaces it.
// Callers sharing a Scorer must use distinct scopes for distinct inputs.
// Scorer is safe for concurrent use.
type Scorer struct {
	mu    sync.Mutex
	cache map[string]cacheEntry
	opts  Options
}

// NewScorer creates an empty Scorer.
func NewScorer(opts ...Option) *Scorer {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return &Scorer{cache: make(map[string]cacheEntry), opts: o}
}

// Rank returns the ranking of m at revision within scope, calling src only
// when no entry for (scope, m.Key(), revision) exists. Failed computations
// are not cached. The returned slice is the caller's to modify.
func (s *Scorer) Rank(scope string, m Method, revision uint64, src Source) ([]Ranked, error) {
	key := scope + "\x00" + m.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.cache[key]; ok && e.revision == revision {
		s.opts.Metrics.RankCacheHit()
		return slices.Clone(e.ranked), nil
	}
	s.opts.Metrics.RankCacheMiss()

	tallies, totals, err := src()
	if err != nil {
		return nil, err
	}
	ranked, err := RankVessels(tallies, totals, m)
	if err != nil {
		return nil, err
	}
	s.cache[key] = cacheEntry{revision: revision, ranked: ranked}
	s.opts.Logger.Debug().
		Str("scope", scope).
		Str("method", m.Name).
		Uint64("revision", revision).
		Int("vessels", len(tallies)).
		Int("ranked", len(ranked)).
		Msg("cool ranking computed")

	return slices.Clone(ranked), nil
}

// Invalidate drops every cached ranking.
func (s *Scorer) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.cache) == 0 {
		return
	}
	clear(s.cache)
	s.opts.Metrics.RankCacheInvalidated()
	s.opts.Logger.Debug().Msg("cool cache invalidated")
}

// Len reports the number of cached rankings.
func (s *Scorer) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cache)
}
