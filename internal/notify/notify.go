// Package notify carries user-visible notifications from the transport layer to whatever page
// is being rendered, without the HTTP client knowing how they are shown.
package notify

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/maxviazov/users-admin/internal/trace"
)

// TitleError is the title used for failed requests.
const TitleError = "Error"

// Notification is one message meant for the end user.
type Notification struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Notifier surfaces notifications to the end user.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Func adapts a plain function to Notifier.
type Func func(ctx context.Context, n Notification)

func (f Func) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// Multi delivers every notification to each notifier in order.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n Notification) {
	for _, x := range m {
		if x != nil {
			x.Notify(ctx, n)
		}
	}
}

// Log records notifications in the application log.
type Log struct {
	log zerolog.Logger
}

func NewLog(logger zerolog.Logger) *Log {
	return &Log{log: logger.With().Str("module", "notify").Logger()}
}

func (l *Log) Notify(ctx context.Context, n Notification) {
	l.log.Warn().
		Str("request_id", trace.RequestIDFromContext(ctx)).
		Str("title", n.Title).
		Str("text", n.Message).
		Msg("user notification")
}

// Inbox collects the notifications raised while one request is served.
type Inbox struct {
	mu    sync.Mutex
	items []Notification
}

func (i *Inbox) add(n Notification) {
	i.mu.Lock()
	i.items = append(i.items, n)
	i.mu.Unlock()
}

// Items returns a snapshot of the collected notifications.
func (i *Inbox) Items() []Notification {
	if i == nil {
		return nil
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	out := make([]Notification, len(i.items))
	copy(out, i.items)
	return out
}

type inboxKey struct{}

// WithInbox returns a context carrying a fresh inbox.
func WithInbox(ctx context.Context) (context.Context, *Inbox) {
	in := &Inbox{}
	return context.WithValue(ctx, inboxKey{}, in), in
}

// InboxFrom returns the inbox attached to ctx, or nil.
func InboxFrom(ctx context.Context) *Inbox {
	if ctx == nil {
		return nil
	}
	in, _ := ctx.Value(inboxKey{}).(*Inbox)
	return in
}

// ContextInbox delivers into the inbox of the context the failing request ran with.
// Notifications raised outside a request scope are dropped.
type ContextInbox struct{}

func (ContextInbox) Notify(ctx context.Context, n Notification) {
	if in := InboxFrom(ctx); in != nil {
		in.add(n)
	}
}
