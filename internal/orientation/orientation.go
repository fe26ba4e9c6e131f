// Package orientation wraps the Screen Orientation API. Locking is a
// best-effort enhancement: it commonly fails outside fullscreen and that
// failure is never surfaced.
package orientation

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sharetube/playback/internal/provider"
)

const (
	Landscape = "landscape"
	Portrait  = "portrait"
)

type Platform interface {
	Supported() bool
	Lock(ctx context.Context, orientation string) error
	Unlock(ctx context.Context) error
}

type Locker struct {
	platform Platform
	logger   *slog.Logger

	mu     sync.Mutex
	locked bool
}

func NewLocker(platform Platform, logger *slog.Logger) *Locker {
	if logger == nil {
		logger = slog.Default()
	}

	return &Locker{platform: platform, logger: logger}
}

// Lock is a no-op when already locked or when the platform has no
// orientation support. A rejected lock leaves the locker unlocked.
func (l *Locker) Lock(ctx context.Context, orientation string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.locked || l.platform == nil || !l.platform.Supported() {
		return
	}

	if err := l.platform.Lock(ctx, orientation); err != nil {
		l.logger.DebugContext(ctx, "orientation lock rejected", "orientation", orientation, "error", err)
		return
	}

	l.locked = true
}

func (l *Locker) Unlock(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.locked {
		return
	}
	l.locked = false

	if err := l.platform.Unlock(ctx); err != nil {
		l.logger.DebugContext(ctx, "orientation unlock failed", "error", err)
	}
}

func (l *Locker) IsLocked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.locked
}

// BridgePlatform forwards lock requests to the browser bridge. Support is
// reported by the bridge when it connects.
type BridgePlatform struct {
	bridge    provider.Bridge
	supported bool
}

func NewBridgePlatform(bridge provider.Bridge, supported bool) *BridgePlatform {
	return &BridgePlatform{bridge: bridge, supported: supported}
}

func (p *BridgePlatform) Supported() bool {
	return p.supported
}

func (p *BridgePlatform) Lock(ctx context.Context, orientation string) error {
	return p.bridge.Send(ctx, provider.Command{
		Target: provider.TargetScreen,
		Method: "lockOrientation",
		Args:   []any{orientation},
	})
}

func (p *BridgePlatform) Unlock(ctx context.Context) error {
	return p.bridge.Send(ctx, provider.Command{Target: provider.TargetScreen, Method: "unlockOrientation"})
}
