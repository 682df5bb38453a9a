package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"golang.org/x/sync/errgroup"

	"smartspace/internal/keyguard"
	"smartspace/internal/metrics"
	"smartspace/internal/smartspace"
	"smartspace/pkg/logging"
)

// runServe runs the full pipeline and prints the slice whenever it changes.
//
// Signal Handling:
//   - SIGINT (Ctrl+C): Triggers graceful shutdown
//   - SIGTERM: Triggers graceful shutdown (common in container environments)
//   - SIGUSR1: Unlocks the session
func runServe(ctx context.Context, a *Application) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := a.services
	if err := s.StartSources(ctx); err != nil {
		logging.Error("Serve", err, "Failed to start sources")
		return err
	}
	defer s.StopSources()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.printSlices(gctx) })
	g.Go(func() error { return unlockOnSignal(gctx, s.Session) })
	if addr := a.config.SmartspaceConfig.Metrics.Address; addr != "" {
		g.Go(func() error { return serveMetrics(gctx, addr) })
	}

	s.Slice.OnCreate(gctx)
	notifySystemd(daemon.SdNotifyReady)
	logging.Info("Serve", "Serving %s. Press Ctrl+C to stop.", a.config.SmartspaceConfig.Keyguard.SliceURI)

	<-gctx.Done()

	logging.Info("Serve", "--- Shutting down ---")
	notifySystemd(daemon.SdNotifyStopping)
	s.Slice.OnDestroy()

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// runWatch runs the Reader without the slice provider and prints every row
// set.
func runWatch(ctx context.Context, a *Application, until func([]smartspace.Row) bool) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := a.services
	if err := s.StartSources(ctx); err != nil {
		return err
	}
	defer s.StopSources()

	reader, err := s.NewReader(ctx)
	if err != nil {
		return fmt.Errorf("failed to start smartspace reader: %w", err)
	}
	defer reader.Close()

	rows, cancel := reader.Rows()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case set, ok := <-rows:
			if !ok {
				return nil
			}
			if until != nil {
				if !until(set) {
					continue
				}
				fmt.Fprint(a.config.Output, a.formatter.FormatRows(set))
				return nil
			}
			fmt.Fprint(a.config.Output, a.formatter.FormatRows(set))
		}
	}
}

// printSlices binds the slice on start and after every change notification
// and prints it when the rendering differs from the previous one.
func (a *Application) printSlices(ctx context.Context) error {
	var last string
	render := func() {
		slice, ok := a.services.Slice.BindSlice(a.config.SmartspaceConfig.Keyguard.SliceURI)
		if !ok {
			return
		}
		out := a.formatter.FormatSlice(slice)
		if out == last {
			return
		}
		last = out
		fmt.Fprint(a.config.Output, out)
	}

	render()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-a.services.SliceChanges():
			render()
		}
	}
}

func unlockOnSignal(ctx context.Context, session *keyguard.UserSession) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGUSR1)
	defer signal.Stop(sigCh)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sigCh:
			logging.Info("Serve", "Received SIGUSR1, unlocking session")
			session.Unlock()
		}
	}
}

func serveMetrics(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logging.Info("Metrics", "Serving metrics on %s/metrics", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server on %s: %w", addr, err)
	}
	return nil
}

// notifySystemd reports state to systemd. Outside of a notify unit this is a
// no-op.
func notifySystemd(state string) {
	sent, err := daemon.SdNotify(false, state)
	if err != nil {
		logging.Warn("Serve", "sd_notify %q failed: %v", state, err)
		return
	}
	if sent {
		logging.Debug("Serve", "sd_notify %q", state)
	}
}
