package schema

import (
	"crypto/sha256"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru"
)

// DefaultCacheSize is the number of parsed definitions the registry
// keeps when no explicit size is given.
const DefaultCacheSize = 128

// Registry resolves functions and events from ABI text, caching parsed
// definitions by text hash. Lookups are lock-free on the happy path,
// concurrent first parses of the same text are collapsed into one, while
// parses of different texts proceed independently. Safe for concurrent
// use.
type Registry struct {
	cache *lru.Cache

	mtx      sync.Mutex
	inflight map[[sha256.Size]byte]*parseCall
}

type parseCall struct {
	done chan struct{}
	def  *Definition
	err  error
}

// NewRegistry creates a Registry with the given parse cache size,
// DefaultCacheSize when non-positive.
func NewRegistry(size int) *Registry {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, _ := lru.New(size)
	return &Registry{
		cache:    cache,
		inflight: make(map[[sha256.Size]byte]*parseCall),
	}
}

// Definition returns the parsed definition of the given ABI text, from
// cache when possible.
func (r *Registry) Definition(abiText []byte) (*Definition, error) {
	key := sha256.Sum256(abiText)
	if d, ok := r.cache.Get(key); ok {
		cacheHits.Inc()
		return d.(*Definition), nil
	}
	cacheMisses.Inc()

	r.mtx.Lock()
	if d, ok := r.cache.Get(key); ok { // Lost the race to another parse.
		r.mtx.Unlock()
		return d.(*Definition), nil
	}
	call, ok := r.inflight[key]
	if !ok {
		call = &parseCall{done: make(chan struct{})}
		r.inflight[key] = call
		r.mtx.Unlock()

		call.def, call.err = ParseDefinition(abiText)
		close(call.done)

		r.mtx.Lock()
		delete(r.inflight, key)
		if call.err == nil {
			r.cache.Add(key, call.def)
		} else {
			parseFailures.Inc()
		}
		r.mtx.Unlock()
		return call.def, call.err
	}
	r.mtx.Unlock()

	<-call.done
	return call.def, call.err
}

// Resolve returns the function identified by id in the given ABI text.
func (r *Registry) Resolve(abiText []byte, id MethodID) (*Function, error) {
	d, err := r.Definition(abiText)
	if err != nil {
		return nil, err
	}
	f := id.find(d)
	if f == nil {
		return nil, fmt.Errorf("%w: %s", ErrMethodNotFound, id)
	}
	return f, nil
}

// ResolveEvent returns the named event in the given ABI text.
func (r *Registry) ResolveEvent(abiText []byte, name string) (*Event, error) {
	d, err := r.Definition(abiText)
	if err != nil {
		return nil, err
	}
	e := d.GetEvent(name)
	if e == nil {
		return nil, fmt.Errorf("%w: event %s", ErrMethodNotFound, name)
	}
	return e, nil
}
