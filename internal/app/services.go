package app

import (
	"context"
	"fmt"
	"sync"

	"smartspace/internal/config"
	"smartspace/internal/headless"
	"smartspace/internal/keyguard"
	"smartspace/internal/packages"
	"smartspace/internal/smartspace"
	"smartspace/internal/widgethost"
	"smartspace/pkg/logging"
)

// Services holds all initialized services used by the application.
type Services struct {
	// Host is the in-process widget host and binder.
	Host *widgethost.MemoryHost

	// Layouts renders layout files into the host as provider redraws.
	Layouts *widgethost.LayoutWatcher

	// Packages reports provider package state from manifest files.
	Packages *packages.DirectorySource

	// Session is the user session the slice provider waits on.
	Session *keyguard.UserSession

	// Slice composes the lock-screen slice.
	Slice *keyguard.SliceProvider

	cfg     config.SmartspaceConfig
	changes chan struct{}

	mu     sync.Mutex
	reader *smartspace.Reader
}

// InitializeServices creates the pipeline services from the loaded
// configuration. Nothing is started yet.
func InitializeServices(cfg *Config) (*Services, error) {
	if cfg.SmartspaceConfig == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	sc := *cfg.SmartspaceConfig

	host := widgethost.NewMemoryHost(sc.Host.HostID)
	if !sc.Host.AllowBind {
		logging.Info("Services", "Widget binding is not allowed, smartspace stays empty")
		host.SetBindPolicy(func(widgethost.UserID, widgethost.ComponentName) bool { return false })
	}

	s := &Services{
		Host:     host,
		Layouts:  widgethost.NewLayoutWatcher(sc.Host.LayoutsDir, sc.Host.Debounce, host),
		Packages: packages.NewDirectorySource(sc.Host.PackagesDir, sc.Host.Debounce),
		Session:  keyguard.NewUserSession(sc.Session.Admin, sc.Session.Unlocked),
		cfg:      sc,
		changes:  make(chan struct{}, 1),
	}

	slice, err := keyguard.NewSliceProvider(s.Session, s.startRowSource, sc.Keyguard.DateTemplate,
		keyguard.WithSliceURI(sc.Keyguard.SliceURI),
		keyguard.WithNotifier(s.sliceChanged),
		keyguard.WithStatus(keyguard.Status{
			MediaPlaying: sc.Keyguard.Media.Playing,
			MediaTitle:   sc.Keyguard.Media.Title,
			MediaArtist:  sc.Keyguard.Media.Artist,
			NextAlarm:    sc.Keyguard.NextAlarm,
			ZenMode:      sc.Keyguard.ZenMode,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create slice provider: %w", err)
	}
	s.Slice = slice

	logging.Debug("Services", "Initialized host %d, packages in %s, layouts in %s",
		sc.Host.HostID, sc.Host.PackagesDir, sc.Host.LayoutsDir)
	return s, nil
}

// StartSources starts watching package manifests and layouts.
func (s *Services) StartSources(ctx context.Context) error {
	if err := s.Packages.Start(ctx); err != nil {
		return err
	}
	if err := s.Layouts.Start(ctx); err != nil {
		_ = s.Packages.Stop()
		return err
	}
	return nil
}

// StopSources stops the watchers started by StartSources.
func (s *Services) StopSources() {
	if err := s.Layouts.Stop(); err != nil {
		logging.Warn("Services", "Failed to stop layout watcher: %v", err)
	}
	if err := s.Packages.Stop(); err != nil {
		logging.Warn("Services", "Failed to stop package watcher: %v", err)
	}
}

// NewReader creates and starts a smartspace Reader over the services' host
// and package source.
func (s *Services) NewReader(ctx context.Context) (*smartspace.Reader, error) {
	reader := smartspace.NewReader(smartspace.ReaderConfig{
		Package:     s.cfg.Provider.Package,
		WidgetClass: s.cfg.Provider.WidgetClass,
		WidgetKey:   s.cfg.Provider.WidgetKey,
	}, s.Packages, headless.NewManager(s.Host, s.Host))

	if err := reader.Start(ctx); err != nil {
		reader.Close()
		return nil, err
	}
	return reader, nil
}

// SliceChanges signals whenever the slice content changed. Signals that
// arrive while one is pending are merged.
func (s *Services) SliceChanges() <-chan struct{} {
	return s.changes
}

func (s *Services) sliceChanged(uri string) {
	logging.Debug("Services", "notifyChange %s", uri)
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

// Reader returns the Reader started for the slice provider, if any.
func (s *Services) Reader() *smartspace.Reader {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reader
}

func (s *Services) startRowSource(ctx context.Context) (keyguard.RowSource, error) {
	reader, err := s.NewReader(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.reader = reader
	s.mu.Unlock()
	return reader, nil
}
