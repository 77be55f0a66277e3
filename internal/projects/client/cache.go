package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/GoSim-25-26J-441/projectdash/internal/projects/domain"
)

const DefaultTTL = 5 * time.Minute

// Query names what Fetch should load: the caller's current project or a
// specific id.
type Query struct {
	id      string
	current bool
}

// Current selects the caller's most recently created project.
func Current() Query { return Query{current: true} }

func ByID(id string) Query { return Query{id: id} }

func (q Query) String() string {
	if q.current {
		return "current"
	}
	return "id:" + q.id
}

// API is the part of Client the cache needs.
type API interface {
	GetCurrent(ctx context.Context) (*domain.Project, error)
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	Create(ctx context.Context, fields CreateFields) (*domain.Project, error)
	Update(ctx context.Context, id string, fields UpdateFields) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
}

type entry struct {
	project   *domain.Project
	fetchedAt time.Time
}

// stamp identifies the cache state a fetch started from. A fetch only
// stores its result if no write or invalidation touched its key since.
type stamp struct {
	epoch uint64
	gen   uint64
}

// Cache fronts an API with a per-query TTL cache. Entries are overwritten
// on every confirmed write, so a read issued after a write returns that
// write. Projects returned by the cache are shared and must not be
// modified. A Cache is safe for concurrent use.
type Cache struct {
	api    API
	ttl    time.Duration
	now    func() time.Time
	log    *zap.Logger
	dedupe bool

	group singleflight.Group

	mu      sync.Mutex
	entries map[Query]*entry
	gens    map[Query]uint64
	epoch   uint64
}

type CacheOption func(*Cache)

func WithTTL(d time.Duration) CacheOption {
	return func(c *Cache) { c.ttl = d }
}

// WithClock replaces time.Now for freshness checks.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) { c.now = now }
}

func WithLogger(log *zap.Logger) CacheOption {
	return func(c *Cache) { c.log = log }
}

// WithSingleFlight controls whether concurrent misses for the same query
// share one network call. It is on by default.
func WithSingleFlight(enabled bool) CacheOption {
	return func(c *Cache) { c.dedupe = enabled }
}

func NewCache(api API, opts ...CacheOption) *Cache {
	c := &Cache{
		api:     api,
		ttl:     DefaultTTL,
		now:     time.Now,
		log:     zap.NewNop(),
		dedupe:  true,
		entries: make(map[Query]*entry),
		gens:    make(map[Query]uint64),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the project q selects, from cache while the entry is no
// older than the TTL and from the API otherwise. A failed fetch leaves any
// existing entry as it was.
func (c *Cache) Fetch(ctx context.Context, q Query) (*domain.Project, error) {
	if !q.current && q.id == "" {
		return nil, ErrMissingID
	}

	c.mu.Lock()
	if e, ok := c.entries[q]; ok && c.fresh(e) {
		c.mu.Unlock()
		c.log.Debug("project cache hit", zap.Stringer("query", q))
		return e.project, nil
	}
	st := c.stampLocked(q)
	c.mu.Unlock()

	c.log.Debug("project cache miss", zap.Stringer("query", q))
	if !c.dedupe {
		return c.load(ctx, q, st)
	}

	// The shared load must not die with whichever caller started it; the
	// HTTP client timeout still bounds it.
	key := fmt.Sprintf("%s#%d.%d", q, st.epoch, st.gen)
	ch := c.group.DoChan(key, func() (any, error) {
		return c.load(context.WithoutCancel(ctx), q, st)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domain.Project), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Cache) load(ctx context.Context, q Query, st stamp) (*domain.Project, error) {
	var (
		p   *domain.Project
		err error
	)
	if q.current {
		p, err = c.api.GetCurrent(ctx)
	} else {
		p, err = c.api.GetByID(ctx, q.id)
	}
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stampLocked(q) == st {
		c.entries[q] = &entry{project: p, fetchedAt: c.now()}
	}
	return p, nil
}

// Update sends fields for project id and, once the server confirms, replaces
// the cached entry with the server's copy. On failure the cache is left as
// it was.
func (c *Cache) Update(ctx context.Context, id string, fields UpdateFields) (*domain.Project, error) {
	p, err := c.api.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	c.bumpLocked(ByID(id))
	c.entries[ByID(id)] = &entry{project: p, fetchedAt: now}

	cur := Current()
	if e, ok := c.entries[cur]; ok && e.project.ID == p.ID {
		c.entries[cur] = &entry{project: p, fetchedAt: now}
	}
	c.bumpLocked(cur)
	return p, nil
}

// Create stores a new project. The new project is also the caller's
// current one.
func (c *Cache) Create(ctx context.Context, fields CreateFields) (*domain.Project, error) {
	p, err := c.api.Create(ctx, fields)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for _, q := range []Query{ByID(p.ID), Current()} {
		c.bumpLocked(q)
		c.entries[q] = &entry{project: p, fetchedAt: now}
	}
	return p, nil
}

// Delete removes project id and evicts it from the cache.
func (c *Cache) Delete(ctx context.Context, id string) error {
	if err := c.api.Delete(ctx, id); err != nil {
		return err
	}
	c.Invalidate(id)

	// Whatever the server now calls current has to be asked for again.
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, Current())
	c.bumpLocked(Current())
	return nil
}

// Invalidate evicts the given project ids, or everything when called
// without arguments. In-flight fetches for evicted entries will not
// repopulate them.
func (c *Cache) Invalidate(ids ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(ids) == 0 {
		c.entries = make(map[Query]*entry)
		c.gens = make(map[Query]uint64)
		c.epoch++
		return
	}

	cur := Current()
	for _, id := range ids {
		q := ByID(id)
		delete(c.entries, q)
		c.bumpLocked(q)
		if e, ok := c.entries[cur]; ok && e.project.ID == id {
			delete(c.entries, cur)
			c.bumpLocked(cur)
		}
	}
}

// Close clears the cache. It is safe to call more than once.
func (c *Cache) Close() {
	c.Invalidate()
}

// Len reports the number of cached entries, fresh or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) fresh(e *entry) bool {
	return c.now().Sub(e.fetchedAt) <= c.ttl
}

func (c *Cache) stampLocked(q Query) stamp {
	return stamp{epoch: c.epoch, gen: c.gens[q]}
}

func (c *Cache) bumpLocked(q Query) {
	c.gens[q]++
}
