package fdw

import (
	"sort"
	"sync"

	"golang.org/x/exp/maps"
)

// Handle is an opaque token identifying a session held by a Routine.
// Hosts which cannot hold Go pointers pass handles back and forth instead.
type Handle uint64

// sessionRegistry maps handles to live sessions. Handles are never reused.
type sessionRegistry[T any] struct {
	mu   sync.RWMutex
	last Handle
	sess map[Handle]T
}

func newSessionRegistry[T any]() *sessionRegistry[T] {
	return &sessionRegistry[T]{sess: make(map[Handle]T)}
}

func (r *sessionRegistry[T]) save(s T) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last++
	r.sess[r.last] = s
	return r.last
}

func (r *sessionRegistry[T]) get(h Handle) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sess[h]
	return s, ok
}

func (r *sessionRegistry[T]) clear(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sess, h)
}

// handles returns the live handles in ascending order
func (r *sessionRegistry[T]) handles() []Handle {
	r.mu.RLock()
	res := maps.Keys(r.sess)
	r.mu.RUnlock()
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}
