package widgethost

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testProvider = ComponentName{Package: "com.example", Class: "com.example.Widget"}

type recordingCallback struct {
	mu    sync.Mutex
	trees []*Node
}

func (r *recordingCallback) fn(_ View, tree *Node) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trees = append(r.trees, tree)
}

func (r *recordingCallback) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.trees)
}

func TestMemoryHost_AllocateIsUniqueAcrossDeleteHost(t *testing.T) {
	h := NewMemoryHost(DefaultHostID)

	first := h.AllocateWidgetID()
	second := h.AllocateWidgetID()
	assert.NotEqual(t, first, second)
	assert.Equal(t, []int{first, second}, h.AllocatedIDs())

	h.DeleteHost()
	assert.Empty(t, h.AllocatedIDs())

	third := h.AllocateWidgetID()
	assert.Greater(t, third, second)
}

func TestMemoryHost_Binding(t *testing.T) {
	h := NewMemoryHost(DefaultHostID)
	id := h.AllocateWidgetID()

	_, bound := h.BoundProvider(id)
	assert.False(t, bound)

	assert.True(t, h.BindIfAllowed(id, 0, testProvider))
	provider, bound := h.BoundProvider(id)
	assert.True(t, bound)
	assert.Equal(t, testProvider, provider)

	h.Revoke(id)
	_, bound = h.BoundProvider(id)
	assert.False(t, bound)

	h.DeleteWidgetID(id)
	assert.False(t, h.BindIfAllowed(id, 0, testProvider), "deleted ids cannot be bound")
}

func TestMemoryHost_BindPolicy(t *testing.T) {
	h := NewMemoryHost(DefaultHostID)
	h.SetBindPolicy(func(UserID, ComponentName) bool { return false })

	id := h.AllocateWidgetID()
	assert.False(t, h.BindIfAllowed(id, 0, testProvider))
	_, bound := h.BoundProvider(id)
	assert.False(t, bound)

	h.SetBindPolicy(nil)
	assert.True(t, h.BindIfAllowed(id, 0, testProvider))
}

func TestMemoryHost_CreateViewCarriesCurrentContent(t *testing.T) {
	h := NewMemoryHost(DefaultHostID)
	tree := NewContainer(NewText("hello"))
	h.Render(testProvider, tree)

	id := h.AllocateWidgetID()
	require.True(t, h.BindIfAllowed(id, 0, testProvider))

	view := h.CreateView(id, ProviderInfo{Provider: testProvider})
	assert.Equal(t, id, view.WidgetID())
	assert.Same(t, tree, view.Tree())
}

func TestMemoryHost_RenderDeliversOnlyWhileListening(t *testing.T) {
	h := NewMemoryHost(DefaultHostID)
	id := h.AllocateWidgetID()
	require.True(t, h.BindIfAllowed(id, 0, testProvider))
	view := h.CreateView(id, ProviderInfo{Provider: testProvider})

	cb := &recordingCallback{}
	view.SetUpdateCallback(cb.fn)

	h.Render(testProvider, NewText("missed"))
	assert.Equal(t, 0, cb.count(), "no delivery while not listening")

	h.StartListening()
	assert.True(t, h.Listening())
	assert.Equal(t, 1, cb.count(), "pending update delivered on StartListening")

	h.Render(testProvider, NewText("live"))
	assert.Equal(t, 2, cb.count())
	assert.Equal(t, "live", view.Tree().Text)

	view.SetUpdateCallback(nil)
	h.Render(testProvider, NewText("detached"))
	assert.Equal(t, 2, cb.count(), "detached callback is not called")

	h.StopListening()
	assert.False(t, h.Listening())
}

func TestMemoryHost_RenderIgnoresOtherProviders(t *testing.T) {
	h := NewMemoryHost(DefaultHostID)
	h.StartListening()

	id := h.AllocateWidgetID()
	require.True(t, h.BindIfAllowed(id, 0, testProvider))
	view := h.CreateView(id, ProviderInfo{Provider: testProvider})
	cb := &recordingCallback{}
	view.SetUpdateCallback(cb.fn)

	h.Render(ComponentName{Package: "other", Class: "other.W"}, NewText("x"))
	assert.Equal(t, 0, cb.count())
}
