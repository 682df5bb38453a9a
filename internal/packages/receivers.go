package packages

import (
	"sync"

	"smartspace/pkg/logging"
)

type receiver struct {
	filter  Filter
	handler Handler
}

// receivers dispatches notifications to registered handlers.
type receivers struct {
	mu     sync.RWMutex
	nextID int
	byID   map[int]receiver
}

func newReceivers() *receivers {
	return &receivers{byID: make(map[int]receiver)}
}

func (r *receivers) register(filter Filter, handler Handler) func() {
	r.mu.Lock()
	r.nextID++
	id := r.nextID
	r.byID[id] = receiver{filter: filter, handler: handler}
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.byID, id)
			r.mu.Unlock()
		})
	}
}

func (r *receivers) dispatch(ev Event) {
	r.mu.RLock()
	matched := make([]Handler, 0, len(r.byID))
	for _, rc := range r.byID {
		if rc.filter.Matches(ev) {
			matched = append(matched, rc.handler)
		}
	}
	r.mu.RUnlock()

	logging.Debug("Packages", "%s %s: %d receivers", ev.Action, ev.Package, len(matched))
	for _, h := range matched {
		h(ev)
	}
}
