package smartspace

import (
	"sync"

	"smartspace/internal/metrics"
)

// Publisher holds the latest published row set and hands it to subscribers.
// New subscribers receive the latest set immediately if one was published.
// Each subscriber channel buffers one set; a slow reader skips to the
// newest.
type Publisher struct {
	mu        sync.Mutex
	latest    []Row
	published bool
	nextID    int
	subs      map[int]chan []Row
}

// NewPublisher returns a Publisher with nothing published.
func NewPublisher() *Publisher {
	return &Publisher{subs: make(map[int]chan []Row)}
}

// Publish replaces the latest row set and delivers it to every subscriber.
func (p *Publisher) Publish(rows []Row) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.latest = cloneRows(rows)
	p.published = true
	metrics.RowsPublished.Inc()

	for _, ch := range p.subs {
		deliver(ch, cloneRows(p.latest))
	}
}

// Latest returns the last published row set. ok is false before the first
// Publish.
func (p *Publisher) Latest() (rows []Row, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.published {
		return nil, false
	}
	return cloneRows(p.latest), true
}

// Subscribe returns a channel of row sets and a function that ends the
// subscription and closes the channel.
func (p *Publisher) Subscribe() (<-chan []Row, func()) {
	ch := make(chan []Row, 1)

	p.mu.Lock()
	p.nextID++
	id := p.nextID
	p.subs[id] = ch
	if p.published {
		ch <- cloneRows(p.latest)
	}
	p.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subs, id)
			close(ch)
			p.mu.Unlock()
		})
	}
	return ch, cancel
}

// deliver replaces whatever is buffered in ch with rows. Only called with
// the publisher lock held, so ch has no other sender.
func deliver(ch chan []Row, rows []Row) {
	select {
	case ch <- rows:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	ch <- rows
}
