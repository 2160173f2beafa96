package events

import (
	"context"
	"errors"
	"testing"
)

func TestPublishInvokesAllHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string

	d.Subscribe(EventUserRegistered, func(_ context.Context, e Event) error {
		calls = append(calls, "first:"+e.SubjectID)
		return errors.New("boom")
	})
	d.Subscribe(EventUserRegistered, func(_ context.Context, e Event) error {
		calls = append(calls, "second:"+e.SubjectID)
		return nil
	})
	d.Subscribe(EventCommentPosted, func(context.Context, Event) error {
		t.Fatal("unrelated handler invoked")
		return nil
	})

	err := d.Publish(context.Background(), New(EventUserRegistered, "u1", Actor{}, nil))
	if err == nil || err.Error() != "boom" {
		t.Fatalf("expected handler error to surface, got %v", err)
	}
	if len(calls) != 2 || calls[0] != "first:u1" || calls[1] != "second:u1" {
		t.Fatalf("unexpected calls %v", calls)
	}
}

func TestNewStampsEvent(t *testing.T) {
	a := New(EventPasswordChanged, "u1", Actor{ID: "admin"}, PasswordChangedPayload{ByAdmin: true})
	b := New(EventPasswordChanged, "u1", Actor{ID: "admin"}, nil)
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("expected unique ids, got %q and %q", a.ID, b.ID)
	}
	if a.Timestamp.IsZero() {
		t.Fatal("expected timestamp")
	}
}
