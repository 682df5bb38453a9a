package widgethost

import "fmt"

// DefaultHostID is the host identifier used by the lock-screen widget host.
const DefaultHostID = 1028

// InvalidWidgetID marks a widget that has never been allocated an id.
const InvalidWidgetID = -1

// UserID identifies the user profile a provider is bound for.
type UserID int

// ComponentName identifies a widget provider by package and class.
type ComponentName struct {
	Package string `yaml:"package"`
	Class   string `yaml:"class"`
}

// String returns the flattened "package/class" form.
func (c ComponentName) String() string {
	return fmt.Sprintf("%s/%s", c.Package, c.Class)
}

// IsZero reports whether c names no component.
func (c ComponentName) IsZero() bool {
	return c.Package == "" && c.Class == ""
}

// ProviderInfo describes a widget offered by an installed package.
type ProviderInfo struct {
	Provider ComponentName
	Profile  UserID
	Label    string
}

// View is a rendered widget handle. Tree returns the latest rendered content
// or nil if the provider has not rendered yet.
type View interface {
	WidgetID() int
	Tree() *Node

	// SetUpdateCallback installs fn to be called on every redraw. A nil fn
	// detaches the current callback; once SetUpdateCallback(nil) returns no
	// further calls to the previous callback are started.
	SetUpdateCallback(fn func(View, *Node))
}

// Host is the embedded-widget host.
type Host interface {
	AllocateWidgetID() int
	DeleteWidgetID(id int)
	CreateView(id int, info ProviderInfo) View
	StartListening()
	StopListening()

	// DeleteHost releases every id allocated by this host.
	DeleteHost()
}

// Binder binds providers to allocated ids.
type Binder interface {
	// BindIfAllowed associates provider with id if policy allows it. The
	// result is advisory: the binding can be revoked at any time, so callers
	// must check BoundProvider instead of remembering the result.
	BindIfAllowed(id int, profile UserID, provider ComponentName) bool

	// BoundProvider returns the provider id is currently bound to.
	BoundProvider(id int) (ComponentName, bool)
}
