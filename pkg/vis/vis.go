// Package vis is the process-wide cache facade over pkg/gmod, pkg/location,
// and pkg/versioning: one Gmod and one Locations per VisVersion, one
// GmodVersioning overall, all lazily constructed from pkg/resource on first
// use and kept until the cache policy evicts them (GmodVersioning is never
// evicted).
//
// Grounded on dnv/vista/sdk/VIS.cpp's singleton cache (one map per resource
// kind, a mutex guarding construction, LRU eviction over an idle-timeout
// window) realized in Go idiom: an explicit *vis.VIS value rather than a
// bare package-level singleton, constructed via New(); a package-level
// default instance (Default()) is offered for callers that want one anyway.
package vis

import (
	"sync"
	"time"

	"github.com/333fps/vista-sdk/internal/logger"
	"github.com/333fps/vista-sdk/internal/metrics"
	"github.com/333fps/vista-sdk/pkg/gmod"
	"github.com/333fps/vista-sdk/pkg/location"
	"github.com/333fps/vista-sdk/pkg/resource"
	"github.com/333fps/vista-sdk/pkg/versioning"
	"github.com/333fps/vista-sdk/pkg/viserr"
	"golang.org/x/sync/singleflight"
)

// CachePolicy controls how cache entries are evicted. The LRU policy
// matches the upstream cache's default; LoadOnce never evicts, trading
// memory for the certainty that a VisVersion is only ever constructed once
// per process — both are correct, since Gmod/Locations are immutable and
// cheap to reconstruct if evicted.
type CachePolicy int

const (
	// PolicyLRU evicts the least-recently-used entry once the cache holds
	// more than maxEntries, and evicts any entry idle for more than
	// idleTimeout regardless of size.
	PolicyLRU CachePolicy = iota
	// PolicyLoadOnce never evicts; every VisVersion loaded in the life of
	// the VIS value stays cached.
	PolicyLoadOnce
)

const (
	defaultMaxEntries  = 10
	defaultIdleTimeout = time.Hour
)

type cacheEntry[T any] struct {
	value    T
	lastUsed time.Time
}

// VIS is the process-wide cache of GMOD graphs, location alphabets, and the
// cross-version conversion engine. A VIS value is safe for concurrent use.
type VIS struct {
	loader  *resource.Loader
	log     *logger.Logger
	metrics *metrics.Metrics

	policy      CachePolicy
	maxEntries  int
	idleTimeout time.Duration

	mu         sync.Mutex
	gmods      map[versioning.VisVersion]*cacheEntry[*gmod.Gmod]
	locations  map[versioning.VisVersion]*cacheEntry[*location.Locations]
	versioning *versioning.GmodVersioning

	gmodGroup      singleflight.Group
	locationsGroup singleflight.Group
	versioningOnce sync.Once
	versioningErr  error
}

// Option configures a VIS value at construction.
type Option func(*VIS)

// WithCachePolicy overrides the default LRU eviction policy.
func WithCachePolicy(p CachePolicy) Option {
	return func(v *VIS) { v.policy = p }
}

// WithMaxEntries overrides the default LRU size bound (10).
func WithMaxEntries(n int) Option {
	return func(v *VIS) { v.maxEntries = n }
}

// WithIdleTimeout overrides the default one-hour LRU idle timeout.
func WithIdleTimeout(d time.Duration) Option {
	return func(v *VIS) { v.idleTimeout = d }
}

// WithLogger attaches a logger for cache and resource-load events.
func WithLogger(l *logger.Logger) Option {
	return func(v *VIS) { v.log = l }
}

// WithMetrics attaches a metrics recorder for cache and resource-load events.
func WithMetrics(m *metrics.Metrics) Option {
	return func(v *VIS) { v.metrics = m }
}

// New constructs a VIS cache backed by source, e.g. a resource.DirSource or
// any other resource.Source implementation.
func New(source resource.Source, opts ...Option) *VIS {
	v := &VIS{
		policy:      PolicyLRU,
		maxEntries:  defaultMaxEntries,
		idleTimeout: defaultIdleTimeout,
		gmods:       make(map[versioning.VisVersion]*cacheEntry[*gmod.Gmod]),
		locations:   make(map[versioning.VisVersion]*cacheEntry[*location.Locations]),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.loader = resource.NewLoader(source, v.log, v.metrics)
	return v
}

var (
	defaultOnce sync.Once
	defaultVIS  *VIS
)

// Default lazily constructs a package-level VIS backed by source on first
// call and returns the same instance on every subsequent call, regardless of
// the arguments passed after the first. Most callers should prefer New and
// hold their own *VIS; Default exists for callers happy with one
// process-wide cache and no explicit wiring.
func Default(source resource.Source, opts ...Option) *VIS {
	defaultOnce.Do(func() {
		defaultVIS = New(source, opts...)
	})
	return defaultVIS
}

func (v *VIS) evictLocked(now time.Time) {
	if v.policy == PolicyLoadOnce {
		return
	}
	for ver, e := range v.gmods {
		if now.Sub(e.lastUsed) > v.idleTimeout {
			delete(v.gmods, ver)
			v.recordEviction("idle", string(ver))
		}
	}
	for ver, e := range v.locations {
		if now.Sub(e.lastUsed) > v.idleTimeout {
			delete(v.locations, ver)
			v.recordEviction("idle", string(ver))
		}
	}
	v.evictLRULocked()
}

func (v *VIS) evictLRULocked() {
	for len(v.gmods) > v.maxEntries {
		var oldest versioning.VisVersion
		var oldestTime time.Time
		first := true
		for ver, e := range v.gmods {
			if first || e.lastUsed.Before(oldestTime) {
				oldest, oldestTime, first = ver, e.lastUsed, false
			}
		}
		delete(v.gmods, oldest)
		v.recordEviction("lru", string(oldest))
	}
	for len(v.locations) > v.maxEntries {
		var oldest versioning.VisVersion
		var oldestTime time.Time
		first := true
		for ver, e := range v.locations {
			if first || e.lastUsed.Before(oldestTime) {
				oldest, oldestTime, first = ver, e.lastUsed, false
			}
		}
		delete(v.locations, oldest)
		v.recordEviction("lru", string(oldest))
	}
}

func (v *VIS) recordEviction(reason, visVersion string) {
	if v.log != nil {
		v.log.LogCacheEvent("evict:"+reason, visVersion)
	}
	if v.metrics != nil {
		v.metrics.RecordCacheEviction(reason, len(v.gmods)+len(v.locations))
	}
}

// Gmod returns the GMOD graph for version, constructing and caching it on
// first use. Concurrent callers requesting the same version while it is
// being constructed collapse into a single construction.
//
// This method alone is what makes *VIS satisfy versioning.GmodProvider, so
// ConvertNode/ConvertPath/ConvertLocalId can be driven straight off a *VIS
// value without any adapter.
func (v *VIS) Gmod(version versioning.VisVersion) (*gmod.Gmod, error) {
	v.mu.Lock()
	now := time.Now()
	v.evictLocked(now)
	if e, ok := v.gmods[version]; ok {
		e.lastUsed = now
		v.mu.Unlock()
		v.recordHit("gmod", string(version))
		return e.value, nil
	}
	v.mu.Unlock()
	v.recordMiss("gmod", string(version))

	result, err, _ := v.gmodGroup.Do(string(version), func() (interface{}, error) {
		return v.loader.LoadGmod(string(version))
	})
	if err != nil {
		return nil, err
	}
	g := result.(*gmod.Gmod)

	v.mu.Lock()
	v.gmods[version] = &cacheEntry[*gmod.Gmod]{value: g, lastUsed: time.Now()}
	v.recordEntryCount()
	v.mu.Unlock()

	return g, nil
}

// Locations returns the location alphabet for version, constructing and
// caching it on first use under the same singleflight discipline as Gmod.
func (v *VIS) Locations(version versioning.VisVersion) (*location.Locations, error) {
	v.mu.Lock()
	now := time.Now()
	v.evictLocked(now)
	if e, ok := v.locations[version]; ok {
		e.lastUsed = now
		v.mu.Unlock()
		v.recordHit("locations", string(version))
		return e.value, nil
	}
	v.mu.Unlock()
	v.recordMiss("locations", string(version))

	result, err, _ := v.locationsGroup.Do(string(version), func() (interface{}, error) {
		return v.loader.LoadLocations(string(version))
	})
	if err != nil {
		return nil, err
	}
	locs := result.(*location.Locations)

	v.mu.Lock()
	v.locations[version] = &cacheEntry[*location.Locations]{value: locs, lastUsed: time.Now()}
	v.recordEntryCount()
	v.mu.Unlock()

	return locs, nil
}

// GmodVersioning returns the cross-version conversion engine, constructing
// it once on first use. Unlike Gmod/Locations it is never evicted: it is a
// single, version-independent value cheap enough to keep for the life of
// the VIS value.
func (v *VIS) GmodVersioning() (*versioning.GmodVersioning, error) {
	v.versioningOnce.Do(func() {
		v.versioning, v.versioningErr = v.loader.LoadVersioning()
	})
	if v.versioningErr != nil {
		return nil, v.versioningErr
	}
	if v.versioning == nil {
		return nil, viserr.New(viserr.ResourceMissing, "vis: versioning rules not loaded")
	}
	return v.versioning, nil
}

func (v *VIS) recordHit(kind, visVersion string) {
	if v.log != nil {
		v.log.LogCacheEvent("hit", visVersion)
	}
	if v.metrics != nil {
		v.metrics.RecordCacheHit(kind)
	}
}

func (v *VIS) recordMiss(kind, visVersion string) {
	if v.log != nil {
		v.log.LogCacheEvent("miss", visVersion)
	}
	if v.metrics != nil {
		v.metrics.RecordCacheMiss(kind)
	}
}

// recordEntryCount publishes the current entry count; callers hold v.mu.
func (v *VIS) recordEntryCount() {
	if v.metrics == nil {
		return
	}
	v.metrics.SetCacheEntries(len(v.gmods) + len(v.locations))
}
