package headless

import (
	"fmt"
	"sync"

	"smartspace/internal/api"
	"smartspace/internal/metrics"
	"smartspace/internal/widgethost"
	"smartspace/pkg/logging"
)

// RenderEvent is one redraw of a headless widget. Tree is the content as it
// was when the redraw happened.
type RenderEvent struct {
	View     widgethost.View
	Tree     *widgethost.Node
	Sequence uint64
}

// Widget is a headless widget record. Its provider never changes.
type Widget struct {
	host   widgethost.Host
	binder widgethost.Binder
	key    string
	info   widgethost.ProviderInfo

	mu   sync.Mutex
	id   int
	view widgethost.View
	seq  uint64
	subs map[*Subscription]struct{}
}

func newWidget(host widgethost.Host, binder widgethost.Binder, key string, info widgethost.ProviderInfo) *Widget {
	w := &Widget{
		host:   host,
		binder: binder,
		key:    key,
		info:   info,
		id:     widgethost.InvalidWidgetID,
		subs:   make(map[*Subscription]struct{}),
	}
	w.Bind()
	return w
}

// Key returns the key the widget is tracked under.
func (w *Widget) Key() string {
	return w.key
}

// Info returns the provider the widget was created for.
func (w *Widget) Info() widgethost.ProviderInfo {
	return w.info
}

// ID returns the allocated widget id, or widgethost.InvalidWidgetID.
func (w *Widget) ID() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.id
}

// IsBound asks the binder whether the widget id still maps to the provider.
func (w *Widget) IsBound() bool {
	return w.isBound(w.ID())
}

func (w *Widget) isBound(id int) bool {
	if id <= widgethost.InvalidWidgetID {
		return false
	}
	provider, ok := w.binder.BoundProvider(id)
	return ok && provider == w.info.Provider
}

// Bind allocates a fresh id and binds the provider to it, unless the widget
// is already bound. The bind request may be declined without an error; that
// shows up as IsBound returning false.
//
// A view inflated for a previous id is dropped together with its
// subscriptions, which end with api.ErrWidgetNotBound.
func (w *Widget) Bind() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isBound(w.id) {
		return
	}

	logging.Info(subsystem, "binding %s", w.describeLocked())
	if w.id > widgethost.InvalidWidgetID {
		w.host.DeleteWidgetID(w.id)
		w.dropViewLocked()
	}
	w.id = w.host.AllocateWidgetID()
	allowed := w.binder.BindIfAllowed(w.id, w.info.Profile, w.info.Provider)
	logging.Debug(subsystem, "bind request for id %d allowed=%t", w.id, allowed)
}

// Unbind releases the widget id if the widget is bound.
func (w *Widget) Unbind() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isBound(w.id) && w.id > widgethost.InvalidWidgetID {
		w.host.DeleteWidgetID(w.id)
	}
}

// release gives back the allocated id whether or not the bind took effect,
// and drops the view. The record is unusable afterwards.
func (w *Widget) release() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.id > widgethost.InvalidWidgetID {
		w.host.DeleteWidgetID(w.id)
		w.id = widgethost.InvalidWidgetID
	}
	w.view = nil
}

// String describes the widget for log output.
func (w *Widget) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.describeLocked()
}

func (w *Widget) describeLocked() string {
	return fmt.Sprintf("Widget{key=%s widgetId=%d isBound=%t provider=%s}",
		w.key, w.id, w.isBound(w.id), w.info.Provider)
}

// subscribe attaches a new subscription to the widget's view, inflating the
// view on first use. If the view already has content it is queued as the
// first event.
func (w *Widget) subscribe() *Subscription {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.view == nil {
		logging.Debug(subsystem, "creating view for %s", w.describeLocked())
		w.view = w.host.CreateView(w.id, w.info)
	}

	sub := newSubscription(w.key, w.IsBound, w.detach)
	if len(w.subs) == 0 {
		w.view.SetUpdateCallback(w.onUpdate)
	}
	w.subs[sub] = struct{}{}

	if tree := w.view.Tree(); tree != nil {
		w.seq++
		sub.offer(RenderEvent{View: w.view, Tree: tree, Sequence: w.seq})
	}
	return sub
}

func (w *Widget) onUpdate(view widgethost.View, tree *widgethost.Node) {
	w.mu.Lock()
	if view != w.view {
		w.mu.Unlock()
		return
	}
	w.seq++
	event := RenderEvent{View: view, Tree: tree, Sequence: w.seq}
	subs := make([]*Subscription, 0, len(w.subs))
	for sub := range w.subs {
		subs = append(subs, sub)
	}
	w.mu.Unlock()

	logging.Debug(subsystem, "widget view updated: key=%s seq=%d", w.key, event.Sequence)
	metrics.RenderEvents.Inc()
	for _, sub := range subs {
		sub.offer(event)
	}
}

// detach removes sub and releases the view callback when no subscription
// is left.
func (w *Widget) detach(sub *Subscription) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.subs[sub]; !ok {
		return
	}
	delete(w.subs, sub)
	if len(w.subs) == 0 && w.view != nil {
		w.view.SetUpdateCallback(nil)
	}
}

func (w *Widget) closeSubscriptions(err error) {
	w.mu.Lock()
	subs := w.releaseSubscriptionsLocked()
	w.mu.Unlock()

	for _, sub := range subs {
		sub.closeDetached(err)
	}
}

func (w *Widget) dropViewLocked() {
	subs := w.releaseSubscriptionsLocked()
	w.view = nil
	for _, sub := range subs {
		sub.closeDetached(api.ErrWidgetNotBound)
	}
}

// releaseSubscriptionsLocked empties the subscription set and detaches the
// view callback. The returned subscriptions still need closing.
func (w *Widget) releaseSubscriptionsLocked() []*Subscription {
	subs := make([]*Subscription, 0, len(w.subs))
	for sub := range w.subs {
		subs = append(subs, sub)
	}
	w.subs = make(map[*Subscription]struct{})
	if w.view != nil {
		w.view.SetUpdateCallback(nil)
	}
	return subs
}
