package widgethost

import (
	"sort"
	"sync"

	"smartspace/pkg/logging"
)

// BindPolicy decides whether a bind request is allowed. It stands in for the
// user-facing permission prompt.
type BindPolicy func(profile UserID, provider ComponentName) bool

// AllowAll is a BindPolicy that accepts every request.
func AllowAll(UserID, ComponentName) bool { return true }

type allocation struct {
	provider ComponentName
	profile  UserID
	bound    bool
	view     *memoryView
}

// MemoryHost is an in-process Host and Binder.
//
// Widget ids are unique for the lifetime of the process, even across
// DeleteHost. Provider content pushed with Render is delivered to bound views
// while the host is listening; content pushed while not listening is held and
// delivered by the next StartListening.
type MemoryHost struct {
	mu sync.Mutex

	hostID      int
	nextID      int
	allocations map[int]*allocation
	listening   bool
	policy      BindPolicy

	// content is the latest tree each provider rendered
	content map[ComponentName]*Node

	// pending tracks ids whose views missed an update while not listening
	pending map[int]bool
}

// NewMemoryHost creates an empty host that allows every bind.
func NewMemoryHost(hostID int) *MemoryHost {
	return &MemoryHost{
		hostID:      hostID,
		allocations: make(map[int]*allocation),
		policy:      AllowAll,
		content:     make(map[ComponentName]*Node),
		pending:     make(map[int]bool),
	}
}

// HostID returns the identifier this host was created with.
func (h *MemoryHost) HostID() int {
	return h.hostID
}

// SetBindPolicy replaces the bind policy. A nil policy allows everything.
func (h *MemoryHost) SetBindPolicy(policy BindPolicy) {
	if policy == nil {
		policy = AllowAll
	}
	h.mu.Lock()
	h.policy = policy
	h.mu.Unlock()
}

// AllocateWidgetID implements Host.
func (h *MemoryHost) AllocateWidgetID() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	h.allocations[h.nextID] = &allocation{}
	return h.nextID
}

// DeleteWidgetID implements Host.
func (h *MemoryHost) DeleteWidgetID(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.allocations, id)
	delete(h.pending, id)
}

// CreateView implements Host. The view starts out with the provider's
// current content if id is bound to it.
func (h *MemoryHost) CreateView(id int, info ProviderInfo) View {
	h.mu.Lock()
	defer h.mu.Unlock()

	view := &memoryView{id: id}
	if alloc, ok := h.allocations[id]; ok {
		alloc.view = view
		if alloc.bound && alloc.provider == info.Provider {
			view.tree = h.content[info.Provider]
		}
	}
	return view
}

// StartListening implements Host.
func (h *MemoryHost) StartListening() {
	h.mu.Lock()
	if h.listening {
		h.mu.Unlock()
		return
	}
	h.listening = true
	deliveries := h.collectPendingLocked()
	h.mu.Unlock()

	logging.Debug("WidgetHost", "host %d listening, %d pending updates", h.hostID, len(deliveries))
	for _, d := range deliveries {
		d.view.update(d.tree)
	}
}

// StopListening implements Host.
func (h *MemoryHost) StopListening() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.listening = false
}

// DeleteHost implements Host.
func (h *MemoryHost) DeleteHost() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.allocations = make(map[int]*allocation)
	h.pending = make(map[int]bool)
}

// BindIfAllowed implements Binder.
func (h *MemoryHost) BindIfAllowed(id int, profile UserID, provider ComponentName) bool {
	h.mu.Lock()
	alloc, ok := h.allocations[id]
	if !ok || !h.policy(profile, provider) {
		h.mu.Unlock()
		return false
	}
	alloc.provider = provider
	alloc.profile = profile
	alloc.bound = true

	var deliveries []delivery
	if tree, ok := h.content[provider]; ok && alloc.view != nil {
		if h.listening {
			deliveries = append(deliveries, delivery{view: alloc.view, tree: tree})
		} else {
			h.pending[id] = true
		}
	}
	h.mu.Unlock()

	for _, d := range deliveries {
		d.view.update(d.tree)
	}
	return true
}

// BoundProvider implements Binder.
func (h *MemoryHost) BoundProvider(id int) (ComponentName, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	alloc, ok := h.allocations[id]
	if !ok || !alloc.bound {
		return ComponentName{}, false
	}
	return alloc.provider, true
}

// Revoke drops the binding of id while keeping the id allocated, as happens
// when the user withdraws the permission.
func (h *MemoryHost) Revoke(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if alloc, ok := h.allocations[id]; ok {
		alloc.bound = false
	}
}

// Render publishes new content for provider and redraws every view bound
// to it.
func (h *MemoryHost) Render(provider ComponentName, tree *Node) {
	h.mu.Lock()
	h.content[provider] = tree

	var deliveries []delivery
	for id, alloc := range h.allocations {
		if !alloc.bound || alloc.provider != provider || alloc.view == nil {
			continue
		}
		if h.listening {
			deliveries = append(deliveries, delivery{view: alloc.view, tree: tree})
		} else {
			h.pending[id] = true
		}
	}
	h.mu.Unlock()

	for _, d := range deliveries {
		d.view.update(d.tree)
	}
}

// Listening reports whether the host is in listening mode.
func (h *MemoryHost) Listening() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.listening
}

// AllocatedIDs returns the currently allocated ids in ascending order.
func (h *MemoryHost) AllocatedIDs() []int {
	h.mu.Lock()
	defer h.mu.Unlock()

	ids := make([]int, 0, len(h.allocations))
	for id := range h.allocations {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

type delivery struct {
	view *memoryView
	tree *Node
}

func (h *MemoryHost) collectPendingLocked() []delivery {
	var deliveries []delivery
	for id := range h.pending {
		alloc, ok := h.allocations[id]
		if !ok || !alloc.bound || alloc.view == nil {
			continue
		}
		if tree, ok := h.content[alloc.provider]; ok {
			deliveries = append(deliveries, delivery{view: alloc.view, tree: tree})
		}
	}
	h.pending = make(map[int]bool)
	return deliveries
}

// memoryView is the View handed out by MemoryHost.
type memoryView struct {
	id int

	// deliverMu serializes redraws so callbacks observe them in order
	deliverMu sync.Mutex

	mu       sync.Mutex
	tree     *Node
	callback func(View, *Node)
}

func (v *memoryView) WidgetID() int {
	return v.id
}

func (v *memoryView) Tree() *Node {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.tree
}

func (v *memoryView) SetUpdateCallback(fn func(View, *Node)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.callback = fn
}

func (v *memoryView) update(tree *Node) {
	v.deliverMu.Lock()
	defer v.deliverMu.Unlock()

	v.mu.Lock()
	v.tree = tree
	callback := v.callback
	v.mu.Unlock()

	if callback != nil {
		callback(v, tree)
	}
}
