// Package cache is the tag-invalidation registry the API layer stores query
// results in. Every cached query lives under a resource tag; every mutation
// names the tags it invalidates. Invalidating a tag drops all entries stored
// under it and notifies subscribers, so the next render of a dependent view
// refetches from the server.
package cache

import "sync"

type Tag string

const (
	TagOrder         Tag = "Order"
	TagCart          Tag = "Cart"
	TagFlowerColor   Tag = "FlowerColor"
	TagRecipientInfo Tag = "RecipientInfo"
	TagColor         Tag = "Color"
)

type Registry struct {
	mu      sync.RWMutex
	entries map[Tag]map[string]any
	gens    map[Tag]uint64
	subs    map[Tag][]func(Tag)
}

func New() *Registry {
	return &Registry{
		entries: make(map[Tag]map[string]any),
		gens:    make(map[Tag]uint64),
		subs:    make(map[Tag][]func(Tag)),
	}
}

func (r *Registry) Get(tag Tag, key string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.entries[tag][key]
	return v, ok
}

// Generation is the tag's invalidation counter. A fetch that misses records
// it before going upstream and hands it back to Put.
func (r *Registry) Generation(tag Tag) uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.gens[tag]
}

// Put stores v under (tag, key) unless the tag was invalidated after gen was
// read. A fetch racing a mutation would otherwise re-seed the registry with
// the pre-mutation response.
func (r *Registry) Put(tag Tag, key string, v any, gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gens[tag] != gen {
		return
	}
	if r.entries[tag] == nil {
		r.entries[tag] = make(map[string]any)
	}
	r.entries[tag][key] = v
}

// Subscribe registers fn to run whenever tag is invalidated. Subscribers are
// called outside the registry lock.
func (r *Registry) Subscribe(tag Tag, fn func(Tag)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs[tag] = append(r.subs[tag], fn)
}

// Invalidate drops every entry stored under each tag, bumps its generation
// and fires that tag's subscribers.
func (r *Registry) Invalidate(tags ...Tag) {
	var fire []func()
	r.mu.Lock()
	for _, tag := range tags {
		delete(r.entries, tag)
		r.gens[tag]++
		for _, fn := range r.subs[tag] {
			fn := fn
			tag := tag
			fire = append(fire, func() { fn(tag) })
		}
	}
	r.mu.Unlock()

	for _, fn := range fire {
		fn()
	}
}

// Len reports the number of live entries under tag.
func (r *Registry) Len(tag Tag) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries[tag])
}
