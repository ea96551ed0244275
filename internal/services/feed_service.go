package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Blackfireoff/Incident-Factory/internal/logger"
	"github.com/Blackfireoff/Incident-Factory/internal/models"
)

// IncidentFeed holds one session's view of the incident list: the aggregated
// record set, the active search and filters, and the pager. Every query
// change triggers a fresh aggregation; only the newest fetch may publish its
// result, so a slow earlier response can never overwrite a newer one.
type IncidentFeed struct {
	mu     sync.Mutex
	source EventSource

	search  string
	filters Filters

	records []models.Incident // full aggregated set, unfiltered
	visible []models.Incident // records after search + filters
	pager   Pager
	err     error

	started  bool
	loading  bool
	gen      uint64
	cancel   context.CancelFunc
	done     chan struct{}
	lastUsed time.Time
}

// Snapshot is one consistent render of the feed: the current page of visible
// records plus the pagination frame around it.
type Snapshot struct {
	Records    []models.Incident
	Total      int
	Page       int
	TotalPages int
	RangeStart int
	RangeEnd   int
}

func NewIncidentFeed(source EventSource) *IncidentFeed {
	return &IncidentFeed{
		source:   source,
		pager:    NewPager(),
		lastUsed: time.Now(),
	}
}

// EnsureQuery installs the search term and filter set for this render. A
// changed query resets the pager to page one and starts a fresh aggregation;
// an unchanged query reuses the already-fetched set, so moving between pages
// never refetches. The first call always fetches, and force triggers a fresh
// aggregation even for an unchanged query (explicit re-submission).
func (f *IncidentFeed) EnsureQuery(search string, filters Filters, force bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lastUsed = time.Now()
	changed := search != f.search || !filters.Equal(f.filters)
	if f.started && !changed && !force {
		return
	}
	if changed {
		f.pager.Reset()
	}
	f.search = search
	f.filters = filters
	f.reloadLocked()
}

// SetPage moves within the already-fetched visible set. Page changes never
// refetch.
func (f *IncidentFeed) SetPage(page int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pager.SetPage(page)
	f.lastUsed = time.Now()
}

// WaitSnapshot blocks until the in-flight aggregation (if any) settles, then
// returns the current page. If the caller's context ends first, it returns
// the context error; the fetch itself keeps running for the next caller.
func (f *IncidentFeed) WaitSnapshot(ctx context.Context) (*Snapshot, error) {
	for {
		f.mu.Lock()
		if !f.loading {
			snap, err := f.snapshotLocked()
			f.mu.Unlock()
			return snap, err
		}
		done := f.done
		f.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-done:
		}
	}
}

func (f *IncidentFeed) snapshotLocked() (*Snapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	start, end := f.pager.Range()
	return &Snapshot{
		Records:    f.pager.Slice(f.visible),
		Total:      f.pager.Total,
		Page:       f.pager.Current,
		TotalPages: f.pager.TotalPages(),
		RangeStart: start,
		RangeEnd:   end,
	}, nil
}

// reloadLocked supersedes any in-flight fetch and starts a new one. The old
// fetch's context is cancelled and its completion channel closed so waiters
// re-check and latch onto the new generation. A completed fetch has already
// closed its channel, so only an in-flight one is closed here.
func (f *IncidentFeed) reloadLocked() {
	if f.cancel != nil {
		f.cancel()
	}
	if f.loading && f.done != nil {
		close(f.done)
	}

	f.gen++
	f.started = true
	f.loading = true
	f.done = make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel

	go f.fetch(ctx, f.gen, f.done)
}

func (f *IncidentFeed) fetch(ctx context.Context, gen uint64, done chan struct{}) {
	records, _, err := FetchAllEvents(ctx, f.source, ServerFilters{})

	f.mu.Lock()
	defer f.mu.Unlock()

	if gen != f.gen {
		// A newer query superseded this fetch; reloadLocked already closed
		// its channel and its result is discarded without surfacing anything.
		return
	}

	// This fetch owns the current generation: settle the feed state so
	// waiters wake and the next reload finds no in-flight channel.
	f.loading = false
	close(done)

	if errors.Is(err, context.Canceled) {
		// Cancelled without being superseded (feed shut down); keep the
		// last published state.
		return
	}

	if err != nil {
		logger.WithError(err, "feed").Error("Incident aggregation failed")
		f.records = nil
		f.visible = nil
		f.pager.SetTotal(0)
		f.err = err
		return
	}

	f.err = nil
	f.records = records
	f.applyQueryLocked()
}

// applyQueryLocked re-derives the visible set from the aggregated records
// and the active search and filters.
func (f *IncidentFeed) applyQueryLocked() {
	f.visible = Evaluate(f.records, f.search, f.filters)
	f.pager.SetTotal(len(f.visible))
}

// Close cancels any in-flight fetch.
func (f *IncidentFeed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancel != nil {
		f.cancel()
	}
}

func (f *IncidentFeed) idleSince() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastUsed
}

// FeedRegistry hands out one IncidentFeed per session and evicts feeds that
// have gone unused.
type FeedRegistry struct {
	mu     sync.Mutex
	source EventSource
	feeds  map[string]*IncidentFeed

	maxIdle time.Duration
	stop    chan struct{}
	once    sync.Once
}

const defaultFeedIdle = 30 * time.Minute

func NewFeedRegistry(source EventSource) *FeedRegistry {
	fr := &FeedRegistry{
		source:  source,
		feeds:   make(map[string]*IncidentFeed),
		maxIdle: defaultFeedIdle,
		stop:    make(chan struct{}),
	}
	go fr.janitor()
	return fr
}

// Get returns the feed bound to the session, creating it on first use.
func (fr *FeedRegistry) Get(sessionID string) *IncidentFeed {
	fr.mu.Lock()
	defer fr.mu.Unlock()

	feed, ok := fr.feeds[sessionID]
	if !ok {
		feed = NewIncidentFeed(fr.source)
		fr.feeds[sessionID] = feed
		logger.WithSession(sessionID).Debug("Created incident feed for new session")
	}
	return feed
}

func (fr *FeedRegistry) janitor() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-fr.stop:
			return
		case <-ticker.C:
			fr.evictIdle()
		}
	}
}

func (fr *FeedRegistry) evictIdle() {
	cutoff := time.Now().Add(-fr.maxIdle)

	fr.mu.Lock()
	defer fr.mu.Unlock()
	for id, feed := range fr.feeds {
		if feed.idleSince().Before(cutoff) {
			feed.Close()
			delete(fr.feeds, id)
		}
	}
}

// Shutdown stops the janitor and closes every live feed.
func (fr *FeedRegistry) Shutdown() {
	fr.once.Do(func() { close(fr.stop) })

	fr.mu.Lock()
	defer fr.mu.Unlock()
	for id, feed := range fr.feeds {
		feed.Close()
		delete(fr.feeds, id)
	}
}
