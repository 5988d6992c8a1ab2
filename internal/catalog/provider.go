package catalog

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultMaxAttempts is the number of fetch attempts made per load.
	DefaultMaxAttempts = 3
	// DefaultRetryInterval is the initial wait between fetch attempts.
	DefaultRetryInterval = 200 * time.Millisecond

	loadKey = "catalog"
)

// Fetcher retrieves the raw collection export.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// LoadObserver is notified after every load attempt cycle.
// status is "success" or the DataErrorKind of the failure.
type LoadObserver interface {
	ObserveLoad(status string, duration time.Duration, records int)
}

// ProviderStatus describes the provider's cached state.
type ProviderStatus struct {
	Loaded    bool
	LoadedAt  time.Time
	Records   int
	LastError error
}

// Provider loads the collection at most once per process and hands out the
// cached Engine afterwards. Concurrent first callers share a single load and
// all receive its result.
type Provider struct {
	fetcher       Fetcher
	maxAttempts   uint
	retryInterval time.Duration
	observer      LoadObserver
	logger        *slog.Logger

	group singleflight.Group

	mu       sync.RWMutex
	engine   *Engine
	loadedAt time.Time
	lastErr  error
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithMaxAttempts sets how many fetch attempts a load makes before failing.
func WithMaxAttempts(n int) ProviderOption {
	return func(p *Provider) {
		if n > 0 {
			p.maxAttempts = uint(n)
		}
	}
}

// WithRetryInterval sets the initial backoff between fetch attempts.
func WithRetryInterval(d time.Duration) ProviderOption {
	return func(p *Provider) {
		if d > 0 {
			p.retryInterval = d
		}
	}
}

// WithLoadObserver registers an observer for load outcomes.
func WithLoadObserver(o LoadObserver) ProviderOption {
	return func(p *Provider) {
		p.observer = o
	}
}

// WithLogger sets the provider's logger.
func WithLogger(l *slog.Logger) ProviderOption {
	return func(p *Provider) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewProvider creates a Provider reading from fetcher.
func NewProvider(fetcher Fetcher, opts ...ProviderOption) *Provider {
	p := &Provider{
		fetcher:       fetcher,
		maxAttempts:   DefaultMaxAttempts,
		retryInterval: DefaultRetryInterval,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Engine returns the cached engine, loading the collection on first use.
func (p *Provider) Engine(ctx context.Context) (*Engine, error) {
	p.mu.RLock()
	engine := p.engine
	p.mu.RUnlock()
	if engine != nil {
		return engine, nil
	}
	return p.load(ctx, false)
}

// Reload fetches the collection again and replaces the cached engine on success.
// Callers holding the previous engine keep using it.
func (p *Provider) Reload(ctx context.Context) (*Engine, error) {
	return p.load(ctx, true)
}

// Status reports whether a collection is cached and the outcome of the last load.
func (p *Provider) Status() ProviderStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()

	status := ProviderStatus{
		Loaded:    p.engine != nil,
		LoadedAt:  p.loadedAt,
		LastError: p.lastErr,
	}
	if p.engine != nil {
		status.Records = p.engine.Store().Len()
	}
	return status
}

// load runs one shared fetch. Unless force is set, a flight started after
// another flight already cached an engine returns that engine without fetching.
func (p *Provider) load(ctx context.Context, force bool) (*Engine, error) {
	ch := p.group.DoChan(loadKey, func() (any, error) {
		if !force {
			p.mu.RLock()
			engine := p.engine
			p.mu.RUnlock()
			if engine != nil {
				return engine, nil
			}
		}
		// The load outlives any single caller's cancellation since its
		// result is shared by every waiter.
		return p.fetchAndParse(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Engine), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *Provider) fetchAndParse(ctx context.Context) (*Engine, error) {
	start := time.Now()

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = p.retryInterval

	attempt := 0
	raw, err := backoff.Retry(ctx, func() ([]byte, error) {
		attempt++
		data, err := p.fetcher.Fetch(ctx)
		if err != nil {
			p.logger.WarnContext(ctx, "collection fetch failed", "attempt", attempt, "error", err)
			return nil, err
		}
		return data, nil
	}, backoff.WithBackOff(policy), backoff.WithMaxTries(p.maxAttempts))
	if err != nil {
		dataErr := &DataError{Kind: KindUnavailable, Err: err}
		p.fail(ctx, dataErr, start)
		return nil, dataErr
	}

	store, err := Load(raw)
	if err != nil {
		var dataErr *DataError
		if !errors.As(err, &dataErr) {
			dataErr = &DataError{Kind: KindMalformed, Err: err}
		}
		p.fail(ctx, dataErr, start)
		return nil, dataErr
	}

	if missing := store.MissingColumns(); len(missing) > 0 {
		p.logger.WarnContext(ctx, "collection is missing expected columns", "columns", missing)
	}
	if skipped := store.SkippedRows(); skipped > 0 {
		p.logger.WarnContext(ctx, "skipped unparseable collection rows", "rows", skipped)
	}

	engine := NewEngine(store)

	p.mu.Lock()
	p.engine = engine
	p.loadedAt = time.Now()
	p.lastErr = nil
	p.mu.Unlock()

	if p.observer != nil {
		p.observer.ObserveLoad("success", time.Since(start), store.Len())
	}
	p.logger.InfoContext(ctx, "collection loaded", "records", store.Len(), "attempts", attempt, "duration", time.Since(start))
	return engine, nil
}

func (p *Provider) fail(ctx context.Context, err *DataError, start time.Time) {
	p.mu.Lock()
	p.lastErr = err
	p.mu.Unlock()

	if p.observer != nil {
		p.observer.ObserveLoad(string(err.Kind), time.Since(start), 0)
	}
	p.logger.ErrorContext(ctx, "collection load failed", "kind", err.Kind, "error", err.Err)
}
