package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"assetview/internal/view"
	tickerScheduler "assetview/pkg/integrations/scheduler"
	"assetview/pkg/types/assets"
	"assetview/pkg/types/cache"
	"assetview/pkg/types/pubsub"
	"assetview/pkg/types/scheduler"

	"github.com/pkg/errors"
)

var ErrInvalidAssetDetailConfig = errors.New("invalid asset detail service config")

const (
	invalidatedMessage = "query invalidated"
	stoppedMessage     = "asset detail service stopped"
)

// StateEvent is published on every query transition.
type StateEvent struct {
	ID     string      `json:"id"`
	Status view.Status `json:"status"`
	Error  string      `json:"error,omitempty"`
}

// Query is the cached lifecycle of one asset id. Every fetch gets a new
// generation; a result whose generation is no longer current is dropped.
type Query struct {
	mu          sync.Mutex
	id          string
	generation  uint64
	state       view.LoadState
	done        chan struct{}
	cancel      context.CancelFunc
	settledAt   time.Time
	lastAccess  time.Time
	invalidated bool
}

func (q *Query) inFlight() bool {
	return q.cancel != nil
}

type AssetDetailService struct {
	ctx          context.Context
	cancel       context.CancelFunc
	logger       *slog.Logger
	fetcher      assets.DetailFetcher
	cache        cache.Cache[string, *Query]
	publisher    pubsub.Publisher
	scheduler    scheduler.Scheduler
	staleTime    time.Duration
	gcTime       time.Duration
	gcInterval   time.Duration
	fetchTimeout time.Duration
	generation   atomic.Uint64
	now          func() time.Time
}

type AssetDetailOption func(*AssetDetailService)

func WithAssetDetailContext(ctx context.Context) AssetDetailOption {
	return func(s *AssetDetailService) {
		s.ctx = ctx
	}
}

func WithAssetDetailLogger(l *slog.Logger) AssetDetailOption {
	return func(s *AssetDetailService) {
		s.logger = l
	}
}

func WithAssetDetailFetcher(f assets.DetailFetcher) AssetDetailOption {
	return func(s *AssetDetailService) {
		s.fetcher = f
	}
}

func WithAssetDetailCache(c cache.Cache[string, *Query]) AssetDetailOption {
	return func(s *AssetDetailService) {
		s.cache = c
	}
}

func WithAssetDetailPublisher(p pubsub.Publisher) AssetDetailOption {
	return func(s *AssetDetailService) {
		s.publisher = p
	}
}

// WithAssetDetailStaleTime sets how long a loaded result is served before
// the next query fetches again. Zero refetches on every query.
func WithAssetDetailStaleTime(d time.Duration) AssetDetailOption {
	return func(s *AssetDetailService) {
		s.staleTime = d
	}
}

// WithAssetDetailGCTime sets how long a settled query may go unused before
// it is evicted.
func WithAssetDetailGCTime(d time.Duration) AssetDetailOption {
	return func(s *AssetDetailService) {
		s.gcTime = d
	}
}

func WithAssetDetailGCInterval(d time.Duration) AssetDetailOption {
	return func(s *AssetDetailService) {
		s.gcInterval = d
	}
}

func WithAssetDetailFetchTimeout(d time.Duration) AssetDetailOption {
	return func(s *AssetDetailService) {
		s.fetchTimeout = d
	}
}

func (s *AssetDetailService) IsValid() error {
	switch {
	case s.ctx == nil:
		return errors.Wrap(ErrInvalidAssetDetailConfig, "ctx cannot be nil")
	case s.logger == nil:
		return errors.Wrap(ErrInvalidAssetDetailConfig, "logger cannot be nil")
	case s.fetcher == nil:
		return errors.Wrap(ErrInvalidAssetDetailConfig, "fetcher cannot be nil")
	case s.cache == nil:
		return errors.Wrap(ErrInvalidAssetDetailConfig, "cache cannot be nil")
	case s.publisher == nil:
		return errors.Wrap(ErrInvalidAssetDetailConfig, "publisher cannot be nil")
	case s.staleTime < 0:
		return errors.Wrap(ErrInvalidAssetDetailConfig, "stale time cannot be negative")
	case s.gcTime <= 0:
		return errors.Wrap(ErrInvalidAssetDetailConfig, "gc time must be positive")
	default:
		return nil
	}
}

func NewAssetDetailService(opts ...AssetDetailOption) (*AssetDetailService, error) {
	s := &AssetDetailService{
		staleTime: 30 * time.Second,
		gcTime:    5 * time.Minute,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if err := s.IsValid(); err != nil {
		return nil, err
	}

	s.ctx, s.cancel = context.WithCancel(s.ctx)

	if s.gcInterval <= 0 {
		s.gcInterval = min(s.gcTime, scheduler.IntervalMinute)
	}

	sched, err := tickerScheduler.New(
		tickerScheduler.WithName("asset-detail-gc"),
		tickerScheduler.WithContext(s.ctx),
		tickerScheduler.WithLogger(s.logger),
		tickerScheduler.WithInterval(s.gcInterval),
		tickerScheduler.WithHandler(s.collect),
	)
	if err != nil {
		s.cancel()
		return nil, errors.Wrap(err, "failed to create scheduler")
	}
	s.scheduler = sched

	return s, nil
}

func (s *AssetDetailService) Start() error {
	return s.scheduler.Start()
}

// Stop halts eviction and aborts every in-flight fetch. Queries made after
// Stop fail without fetching.
func (s *AssetDetailService) Stop() {
	s.cancel()
	s.scheduler.Stop()
	for _, id := range s.cache.Keys() {
		s.Invalidate(id)
	}
}

// Query returns the current state for id, starting a fetch when there is no
// usable entry: none cached, the last attempt failed, or the loaded result
// is older than the stale time. Callers for the same id share one fetch.
func (s *AssetDetailService) Query(id string) view.LoadState {
	if err := assets.ValidateIdentifier(id); err != nil {
		return view.Failed(err)
	}
	if s.stopped() {
		return view.FailedMessage(stoppedMessage)
	}
	q := s.acquire(id)
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// Load is Query followed by waiting for the fetch to settle. When ctx ends
// first the current, still loading, state is returned.
func (s *AssetDetailService) Load(ctx context.Context, id string) view.LoadState {
	if err := assets.ValidateIdentifier(id); err != nil {
		return view.Failed(err)
	}

	for {
		if s.stopped() {
			return view.FailedMessage(stoppedMessage)
		}
		q := s.acquire(id)

		q.mu.Lock()
		state, done, invalidated := q.state, q.done, q.invalidated
		q.mu.Unlock()

		if invalidated || done == nil {
			continue
		}
		if state.IsSettled() {
			return state
		}

		select {
		case <-done:
		case <-ctx.Done():
			return state
		}

		q.mu.Lock()
		state, invalidated = q.state, q.invalidated
		q.mu.Unlock()

		if !invalidated {
			return state
		}
	}
}

// State reports the cached state for id without starting a fetch.
func (s *AssetDetailService) State(id string) view.LoadState {
	q, ok := s.cache.Get(id)
	if !ok {
		return view.Loading()
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// Invalidate drops the entry for id and aborts its fetch. Waiters start over
// on a fresh entry and a late result for the old fetch is discarded.
func (s *AssetDetailService) Invalidate(id string) bool {
	q, ok := s.cache.Get(id)
	if !ok {
		return false
	}
	s.cache.Delete(id)

	q.mu.Lock()
	q.invalidated = true
	q.generation = 0
	wasInFlight := q.inFlight()
	if wasInFlight {
		q.cancel()
		q.cancel = nil
		q.state = view.FailedMessage(invalidatedMessage)
		close(q.done)
	}
	q.mu.Unlock()

	s.logger.Debug("asset query invalidated", "id", id, "in_flight", wasInFlight)
	return true
}

func (s *AssetDetailService) stopped() bool {
	return s.ctx.Err() != nil
}

// newQuery starts the entry's idle clock at creation so collect cannot evict
// it before acquire has touched it.
func (s *AssetDetailService) newQuery(id string) *Query {
	return &Query{id: id, state: view.Loading(), lastAccess: s.now()}
}

func (s *AssetDetailService) acquire(id string) *Query {
	q, _ := s.cache.GetOrSet(id, func() *Query { return s.newQuery(id) })

	q.mu.Lock()
	defer q.mu.Unlock()

	now := s.now()
	q.lastAccess = now
	if s.needsFetch(q, now) {
		s.launch(q, now)
	}
	return q
}

// needsFetch must be called with q.mu held.
func (s *AssetDetailService) needsFetch(q *Query, now time.Time) bool {
	switch {
	case q.invalidated, q.inFlight(), s.stopped():
		return false
	case q.state.IsLoading(), q.state.IsFailed():
		return true
	default:
		return now.Sub(q.settledAt) >= s.staleTime
	}
}

// launch must be called with q.mu held.
func (s *AssetDetailService) launch(q *Query, now time.Time) {
	gen := s.generation.Add(1)

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if s.fetchTimeout > 0 {
		ctx, cancel = context.WithTimeout(s.ctx, s.fetchTimeout)
	} else {
		ctx, cancel = context.WithCancel(s.ctx)
	}

	q.generation = gen
	q.cancel = cancel
	q.done = make(chan struct{})
	// A stale loaded result keeps being served while it refreshes.
	if !q.state.IsLoaded() {
		q.state = view.Loading()
	}

	s.logger.Debug("fetching asset detail", "id", q.id, "generation", gen)
	s.publish(q.id, view.Loading())

	go s.run(ctx, cancel, q, gen, q.done, now)
}

func (s *AssetDetailService) run(ctx context.Context, cancel context.CancelFunc, q *Query, gen uint64, done chan struct{}, started time.Time) {
	defer cancel()

	var state view.LoadState
	vm, err := s.fetcher.FetchDetail(ctx, q.id)
	if err != nil {
		state = view.Failed(err)
	} else {
		state = view.Loaded(vm)
	}

	q.mu.Lock()
	if q.generation != gen {
		q.mu.Unlock()
		s.logger.Debug("discarding stale asset detail result", "id", q.id, "generation", gen)
		return
	}
	q.state = state
	q.cancel = nil
	q.settledAt = s.now()
	close(done)
	q.mu.Unlock()

	if state.IsFailed() {
		s.logger.Warn("asset detail fetch failed", "id", q.id, "error", state.Message())
	} else {
		s.logger.Info("asset detail loaded", "id", q.id, "elapsed", time.Since(started))
	}
	s.publish(q.id, state)
}

func (s *AssetDetailService) publish(id string, state view.LoadState) {
	data, err := json.Marshal(StateEvent{ID: id, Status: state.Status(), Error: state.Message()})
	if err != nil {
		s.logger.Error("failed to marshal state event", "id", id, "error", err)
		return
	}
	if err := s.publisher.Publish(data); err != nil {
		s.logger.Warn("failed to publish state event", "id", id, "error", err)
	}
}

// collect evicts settled queries nobody has asked for within gcTime.
func (s *AssetDetailService) collect(_ context.Context) error {
	cutoff := s.now().Add(-s.gcTime)
	removed := s.cache.DeleteFunc(func(_ string, q *Query) bool {
		q.mu.Lock()
		defer q.mu.Unlock()
		return !q.inFlight() && q.lastAccess.Before(cutoff)
	})
	if removed > 0 {
		s.logger.Debug("evicted idle asset queries", "count", removed)
	}
	return nil
}
