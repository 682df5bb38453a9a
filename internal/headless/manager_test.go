package headless

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartspace/internal/api"
	"smartspace/internal/widgethost"
)

var (
	clockProvider = widgethost.ProviderInfo{
		Provider: widgethost.ComponentName{Package: "com.example.clock", Class: "com.example.clock.ClockWidget"},
	}
	weatherProvider = widgethost.ProviderInfo{
		Provider: widgethost.ComponentName{Package: "com.example.weather", Class: "com.example.weather.WeatherWidget"},
	}
)

func denyAll(widgethost.UserID, widgethost.ComponentName) bool { return false }

func newTestManager(t *testing.T) (*Manager, *widgethost.MemoryHost) {
	t.Helper()
	host := widgethost.NewMemoryHost(widgethost.DefaultHostID)
	m := NewManager(host, host)
	t.Cleanup(m.Close)
	return m, host
}

func nextWithin(t *testing.T, sub *Subscription) (RenderEvent, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return sub.Next(ctx)
}

func TestNewManager_ClearsStaleHostState(t *testing.T) {
	host := widgethost.NewMemoryHost(widgethost.DefaultHostID)
	host.AllocateWidgetID()
	host.AllocateWidgetID()

	NewManager(host, host)

	assert.Empty(t, host.AllocatedIDs())
}

func TestGetWidget_CreatesAndBinds(t *testing.T) {
	m, host := newTestManager(t)

	w, err := m.GetWidget(clockProvider, "clock")
	require.NoError(t, err)

	assert.Equal(t, "clock", w.Key())
	assert.NotEqual(t, widgethost.InvalidWidgetID, w.ID())
	assert.True(t, w.IsBound())
	assert.True(t, m.Listening())
	assert.True(t, host.Listening())
	assert.Equal(t, []string{"clock"}, m.Keys())
}

func TestGetWidget_SameKeyReturnsSameRecord(t *testing.T) {
	m, host := newTestManager(t)

	first, err := m.GetWidget(clockProvider, "clock")
	require.NoError(t, err)
	id := first.ID()

	second, err := m.GetWidget(clockProvider, "clock")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, id, second.ID(), "bound widget must not be reallocated")
	assert.Equal(t, []int{id}, host.AllocatedIDs())
}

func TestGetWidget_MismatchedProviderFails(t *testing.T) {
	t.Run("bound", func(t *testing.T) {
		m, _ := newTestManager(t)

		_, err := m.GetWidget(clockProvider, "shared")
		require.NoError(t, err)

		_, err = m.GetWidget(weatherProvider, "shared")
		assert.True(t, api.IsProviderMismatch(err), "got %v", err)

		_, err = m.Subscribe(weatherProvider, "shared")
		assert.True(t, api.IsProviderMismatch(err), "got %v", err)
	})

	t.Run("unbound", func(t *testing.T) {
		m, host := newTestManager(t)
		host.SetBindPolicy(denyAll)

		w, err := m.GetWidget(clockProvider, "shared")
		require.NoError(t, err)
		require.False(t, w.IsBound())

		_, err = m.GetWidget(weatherProvider, "shared")
		assert.True(t, api.IsProviderMismatch(err), "got %v", err)
	})
}

func TestRemoveWidget_KeysAreIndependent(t *testing.T) {
	m, host := newTestManager(t)

	_, err := m.GetWidget(clockProvider, "clock")
	require.NoError(t, err)
	weather, err := m.GetWidget(weatherProvider, "weather")
	require.NoError(t, err)

	sub, err := m.Subscribe(weatherProvider, "weather")
	require.NoError(t, err)
	defer sub.Cancel()

	require.NoError(t, m.RemoveWidget("clock"))

	assert.True(t, weather.IsBound())
	assert.True(t, m.Listening())

	host.Render(weatherProvider.Provider, widgethost.NewText("sunny"))
	event, err := nextWithin(t, sub)
	require.NoError(t, err)
	assert.Equal(t, "sunny", event.Tree.Text)
}

func TestRemoveWidget_ReleasesIDAndEndsSubscriptions(t *testing.T) {
	m, host := newTestManager(t)

	w, err := m.GetWidget(clockProvider, "clock")
	require.NoError(t, err)
	id := w.ID()

	sub, err := m.Subscribe(clockProvider, "clock")
	require.NoError(t, err)

	require.NoError(t, m.RemoveWidget("clock"))

	assert.NotContains(t, host.AllocatedIDs(), id)
	_, err = nextWithin(t, sub)
	assert.ErrorIs(t, err, api.ErrSubscriptionClosed)
	assert.False(t, m.Listening())
	assert.False(t, host.Listening())
}

func TestRemoveWidget_UnknownKeyIsNotFatal(t *testing.T) {
	m, _ := newTestManager(t)

	err := m.RemoveWidget("missing")

	assert.True(t, api.IsNotFound(err))
	assert.False(t, m.Listening())
}

func TestSubscribe_UnboundWidgetIsVoid(t *testing.T) {
	m, host := newTestManager(t)
	host.SetBindPolicy(denyAll)

	sub, err := m.Subscribe(clockProvider, "clock")
	require.NoError(t, err)

	assert.True(t, sub.Void())
	select {
	case <-sub.Done():
	default:
		t.Fatal("void subscription must already be done")
	}

	start := time.Now()
	_, err = sub.Next(context.Background())
	assert.ErrorIs(t, err, api.ErrSubscriptionClosed)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSubscribe_EmitsCurrentContentThenRedraws(t *testing.T) {
	m, host := newTestManager(t)
	host.Render(clockProvider.Provider, widgethost.NewText("09:00"))

	sub, err := m.Subscribe(clockProvider, "clock")
	require.NoError(t, err)
	defer sub.Cancel()
	assert.False(t, sub.Void())
	assert.NotEmpty(t, sub.ID())

	event, err := nextWithin(t, sub)
	require.NoError(t, err)
	assert.Equal(t, "09:00", event.Tree.Text)

	host.Render(clockProvider.Provider, widgethost.NewText("09:01"))
	next, err := nextWithin(t, sub)
	require.NoError(t, err)
	assert.Equal(t, "09:01", next.Tree.Text)
	assert.Greater(t, next.Sequence, event.Sequence)
}

func TestSubscribe_WaitsForFirstRender(t *testing.T) {
	m, host := newTestManager(t)

	sub, err := m.Subscribe(clockProvider, "clock")
	require.NoError(t, err)
	defer sub.Cancel()

	got := make(chan RenderEvent, 1)
	go func() {
		event, err := sub.Next(context.Background())
		if err == nil {
			got <- event
		}
	}()

	host.Render(clockProvider.Provider, widgethost.NewText("first"))

	select {
	case event := <-got:
		assert.Equal(t, "first", event.Tree.Text)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for first render")
	}
}

func TestSubscribe_DetectsLostBindingLazily(t *testing.T) {
	m, host := newTestManager(t)

	w, err := m.GetWidget(clockProvider, "clock")
	require.NoError(t, err)
	sub, err := m.Subscribe(clockProvider, "clock")
	require.NoError(t, err)
	require.False(t, sub.Void())

	host.Revoke(w.ID())

	_, err = nextWithin(t, sub)
	assert.ErrorIs(t, err, api.ErrWidgetNotBound)
	assert.ErrorIs(t, sub.Err(), api.ErrWidgetNotBound)
}

func TestSubscription_KeepsOnlyLatestPendingEvent(t *testing.T) {
	m, host := newTestManager(t)

	sub, err := m.Subscribe(clockProvider, "clock")
	require.NoError(t, err)
	defer sub.Cancel()

	for i := 1; i <= 3; i++ {
		host.Render(clockProvider.Provider, widgethost.NewText(fmt.Sprintf("tick %d", i)))
	}

	event, err := nextWithin(t, sub)
	require.NoError(t, err)
	assert.Equal(t, "tick 3", event.Tree.Text)
}

func TestSubscription_CancelIsIdempotentAndUnblocksNext(t *testing.T) {
	m, host := newTestManager(t)

	sub, err := m.Subscribe(clockProvider, "clock")
	require.NoError(t, err)

	errs := make(chan error, 1)
	go func() {
		_, err := sub.Next(context.Background())
		errs <- err
	}()

	sub.Cancel()
	sub.Cancel()

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, api.ErrSubscriptionClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("Next did not return after Cancel")
	}

	// Redraws after cancellation go nowhere
	host.Render(clockProvider.Provider, widgethost.NewText("late"))
	_, err = sub.Next(context.Background())
	assert.ErrorIs(t, err, api.ErrSubscriptionClosed)
}

func TestSubscription_NextHonoursContext(t *testing.T) {
	m, _ := newTestManager(t)

	sub, err := m.Subscribe(clockProvider, "clock")
	require.NoError(t, err)
	defer sub.Cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = sub.Next(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSubscription_MultipleSubscribersShareRedraws(t *testing.T) {
	m, host := newTestManager(t)

	first, err := m.Subscribe(clockProvider, "clock")
	require.NoError(t, err)
	second, err := m.Subscribe(clockProvider, "clock")
	require.NoError(t, err)
	defer second.Cancel()

	first.Cancel()
	host.Render(clockProvider.Provider, widgethost.NewText("shared"))

	event, err := nextWithin(t, second)
	require.NoError(t, err)
	assert.Equal(t, "shared", event.Tree.Text)
}

func TestWidget_RebindAfterRevoke(t *testing.T) {
	m, host := newTestManager(t)

	w, err := m.GetWidget(clockProvider, "clock")
	require.NoError(t, err)
	oldID := w.ID()

	sub, err := m.Subscribe(clockProvider, "clock")
	require.NoError(t, err)

	host.Revoke(oldID)
	require.False(t, w.IsBound())

	w.Bind()

	assert.True(t, w.IsBound())
	assert.NotEqual(t, oldID, w.ID())
	assert.Equal(t, []int{w.ID()}, host.AllocatedIDs(), "old id must be released")

	_, err = nextWithin(t, sub)
	assert.ErrorIs(t, err, api.ErrWidgetNotBound, "subscriptions of the dropped view end")
}

func TestWidget_UnbindIsSafeWhenUnbound(t *testing.T) {
	m, host := newTestManager(t)
	host.SetBindPolicy(denyAll)

	w, err := m.GetWidget(clockProvider, "clock")
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		w.Unbind()
		w.Unbind()
	})
	assert.Contains(t, w.String(), "isBound=false")
}

func TestRemoveWidget_ReleasesIDOfDeclinedBind(t *testing.T) {
	m, host := newTestManager(t)
	host.SetBindPolicy(denyAll)

	for i := 0; i < 5; i++ {
		w, err := m.GetWidget(clockProvider, "clock")
		require.NoError(t, err)
		require.False(t, w.IsBound())
		require.Len(t, host.AllocatedIDs(), 1)

		require.NoError(t, m.RemoveWidget("clock"))
		assert.Empty(t, host.AllocatedIDs())
		assert.Equal(t, widgethost.InvalidWidgetID, w.ID())
	}
}

func TestManager_Close(t *testing.T) {
	host := widgethost.NewMemoryHost(widgethost.DefaultHostID)
	m := NewManager(host, host)

	sub, err := m.Subscribe(clockProvider, "clock")
	require.NoError(t, err)

	m.Close()

	assert.False(t, host.Listening())
	assert.Empty(t, host.AllocatedIDs())
	assert.Empty(t, m.Keys())
	_, err = nextWithin(t, sub)
	assert.ErrorIs(t, err, api.ErrSubscriptionClosed)
}

func TestManager_ListeningFollowsRecordsUnderConcurrency(t *testing.T) {
	m, host := newTestManager(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("widget-%d", i)
			for j := 0; j < 50; j++ {
				if _, err := m.GetWidget(clockProvider, key); err != nil {
					t.Errorf("GetWidget: %v", err)
					return
				}
				if err := m.RemoveWidget(key); err != nil {
					t.Errorf("RemoveWidget: %v", err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	assert.Empty(t, m.Keys())
	assert.False(t, m.Listening())
	assert.False(t, host.Listening())

	_, err := m.GetWidget(clockProvider, "final")
	require.NoError(t, err)
	assert.True(t, m.Listening())
	assert.True(t, host.Listening())
}
