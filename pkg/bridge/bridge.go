// Package bridge models the host messenger platform that embeds the storefront.
// Containers call it for haptics and the primary action button; every call is
// fire-and-forget and the no-op implementation is used outside the host.
package bridge

import (
	"context"
	"strings"
	"sync"

	"github.com/angelmondragon/florale-backend/pkg/enums"
	"github.com/angelmondragon/florale-backend/pkg/logger"
)

const (
	ModeNoop = "noop"
	ModeLog  = "log"
)

// Bridge is the capability surface exposed by the host platform.
type Bridge interface {
	Haptic(ctx context.Context, kind enums.HapticKind)
	ShowPrimaryAction(ctx context.Context, label string, onActivate func())
	HidePrimaryAction(ctx context.Context)
}

// New selects the bridge implementation once at startup.
func New(mode string, logg *logger.Logger) Bridge {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ModeLog:
		if logg == nil {
			return Noop{}
		}
		return NewLogging(logg)
	default:
		return Noop{}
	}
}

// Noop ignores every call.
type Noop struct{}

func (Noop) Haptic(context.Context, enums.HapticKind)          {}
func (Noop) ShowPrimaryAction(context.Context, string, func()) {}
func (Noop) HidePrimaryAction(context.Context)                 {}

type sessionKey struct{}

// WithSession scopes bridge calls made with ctx to one storefront session.
func WithSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionKey{}, sessionID)
}

// SessionFrom returns the session set by WithSession, or "".
func SessionFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	sessionID, _ := ctx.Value(sessionKey{}).(string)
	return sessionID
}

type primaryAction struct {
	label    string
	activate func()
}

// Logging records bridge traffic through the structured logger and keeps the
// primary action shown for each session so it can be triggered later.
type Logging struct {
	logg *logger.Logger

	mu      sync.Mutex
	actions map[string]primaryAction
}

func NewLogging(logg *logger.Logger) *Logging {
	return &Logging{logg: logg, actions: make(map[string]primaryAction)}
}

func (l *Logging) Haptic(ctx context.Context, kind enums.HapticKind) {
	ctx = l.logg.WithField(ctx, "haptic", kind.String())
	l.logg.Debug(ctx, "bridge.haptic")
}

func (l *Logging) ShowPrimaryAction(ctx context.Context, label string, onActivate func()) {
	l.mu.Lock()
	l.actions[SessionFrom(ctx)] = primaryAction{label: label, activate: onActivate}
	l.mu.Unlock()

	ctx = l.logg.WithField(ctx, "label", label)
	l.logg.Debug(ctx, "bridge.primary_action.show")
}

func (l *Logging) HidePrimaryAction(ctx context.Context) {
	l.mu.Lock()
	delete(l.actions, SessionFrom(ctx))
	l.mu.Unlock()

	l.logg.Debug(ctx, "bridge.primary_action.hide")
}

// PrimaryAction returns the label of the primary action visible to the session, if any.
func (l *Logging) PrimaryAction(sessionID string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	action, ok := l.actions[sessionID]
	return action.label, ok && action.activate != nil
}

// Activate runs the session's primary action callback. It reports false when
// no action is shown for that session.
func (l *Logging) Activate(sessionID string) bool {
	l.mu.Lock()
	fn := l.actions[sessionID].activate
	l.mu.Unlock()
	if fn == nil {
		return false
	}
	fn()
	return true
}
