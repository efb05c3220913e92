package notify_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/maxviazov/users-admin/internal/notify"
	"github.com/maxviazov/users-admin/internal/trace"
)

func TestContextInbox(t *testing.T) {
	ctx, in := notify.WithInbox(context.Background())
	n := notify.Notification{Title: notify.TitleError, Message: "boom"}

	notify.ContextInbox{}.Notify(ctx, n)
	notify.ContextInbox{}.Notify(context.Background(), n) // no inbox: dropped

	got := in.Items()
	if len(got) != 1 || got[0] != n {
		t.Fatalf("expected exactly %v, got %v", n, got)
	}
	if notify.InboxFrom(ctx) != in {
		t.Fatalf("InboxFrom returned a different inbox")
	}
	if notify.InboxFrom(context.Background()).Items() != nil {
		t.Fatalf("nil inbox must report no items")
	}
}

func TestMultiAndLog(t *testing.T) {
	var buf bytes.Buffer
	var calls int
	m := notify.Multi{
		notify.Func(func(context.Context, notify.Notification) { calls++ }),
		nil,
		notify.NewLog(zerolog.New(&buf)),
	}

	ctx := trace.WithRequestID(context.Background(), "rid-1")
	m.Notify(ctx, notify.Notification{Title: "Error", Message: "upstream down"})

	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
	out := buf.String()
	for _, want := range []string{`"level":"warn"`, `"request_id":"rid-1"`, `"text":"upstream down"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output %q does not contain %q", out, want)
		}
	}
}
