package headless

import (
	"sort"
	"sync"

	"smartspace/internal/api"
	"smartspace/internal/metrics"
	"smartspace/internal/widgethost"
	"smartspace/pkg/logging"
)

const subsystem = "HeadlessWidgets"

// Manager tracks headless widgets by key.
type Manager struct {
	host   widgethost.Host
	binder widgethost.Binder

	mu        sync.Mutex
	widgets   map[string]*Widget
	listening bool
}

// NewManager creates a manager. Any ids the host still holds from an earlier
// run are released before the first bind.
func NewManager(host widgethost.Host, binder widgethost.Binder) *Manager {
	logging.Debug(subsystem, "init")
	host.DeleteHost()

	return &Manager{
		host:    host,
		binder:  binder,
		widgets: make(map[string]*Widget),
	}
}

// Close cancels every subscription, stops listening and releases all host
// state. The manager can be used again afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	logging.Debug(subsystem, "destroying")
	for key, w := range m.widgets {
		w.closeSubscriptions(api.ErrSubscriptionClosed)
		delete(m.widgets, key)
	}
	metrics.WidgetsTracked.Set(0)

	m.host.StopListening()
	m.listening = false
	metrics.SetBool(metrics.HostListening, false)

	m.host.DeleteHost()
}

// GetWidget returns the record for key, creating and binding it if needed.
// Requesting a key with a provider other than the one it was created with
// returns a *api.ProviderMismatchError.
func (m *Manager) GetWidget(info widgethost.ProviderInfo, key string) (*Widget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getWidgetLocked(info, key)
}

func (m *Manager) getWidgetLocked(info widgethost.ProviderInfo, key string) (*Widget, error) {
	w, ok := m.widgets[key]
	if !ok {
		w = newWidget(m.host, m.binder, key, info)
		m.widgets[key] = w
		metrics.WidgetsTracked.Set(float64(len(m.widgets)))
		m.setListeningLocked(true)
	}

	if w.info.Provider != info.Provider {
		return nil, &api.ProviderMismatchError{
			Key:       key,
			Existing:  w.info.Provider.String(),
			Requested: info.Provider.String(),
		}
	}
	return w, nil
}

// RemoveWidget releases the id of the record for key, forgets the record
// and ends its subscriptions. Removing an unknown key is logged and reported as a
// *api.NotFoundError; it is not fatal.
func (m *Manager) RemoveWidget(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var err error
	if w, ok := m.widgets[key]; ok {
		delete(m.widgets, key)
		w.closeSubscriptions(api.ErrSubscriptionClosed)
		w.release()
		metrics.WidgetsTracked.Set(float64(len(m.widgets)))
	} else {
		err = api.NewWidgetNotFoundError(key)
		logging.Error(subsystem, err, "cannot removeWidget: %s not found in widgets map", key)
	}

	if len(m.widgets) == 0 {
		m.setListeningLocked(false)
	}
	return err
}

// Subscribe returns a subscription to the redraws of the widget for key.
//
// If the widget is not bound, the returned subscription is void: it is
// already closed and its Next returns api.ErrSubscriptionClosed. Callers may
// retry after a later bind.
func (m *Manager) Subscribe(info widgethost.ProviderInfo, key string) (*Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, err := m.getWidgetLocked(info, key)
	if err != nil {
		return nil, err
	}
	logging.Debug(subsystem, "subscribeUpdates: key=%s widget=%s", key, w)

	if !w.IsBound() {
		logging.Error(subsystem, api.ErrWidgetNotBound, "cannot subscribeUpdates: key=%s", key)
		return newVoidSubscription(key), nil
	}

	m.setListeningLocked(true)
	return w.subscribe(), nil
}

// Listening reports whether the manager has the host in listening mode.
func (m *Manager) Listening() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listening
}

// Keys returns the tracked keys in sorted order.
func (m *Manager) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0, len(m.widgets))
	for key := range m.widgets {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (m *Manager) setListeningLocked(on bool) {
	if on == m.listening {
		return
	}
	if on {
		m.host.StartListening()
	} else {
		m.host.StopListening()
	}
	m.listening = on
	metrics.SetBool(metrics.HostListening, on)
	logging.Debug(subsystem, "host listening=%t", on)
}
