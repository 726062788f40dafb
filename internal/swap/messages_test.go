package swap

import (
	"context"
	"testing"

	"github.com/erazemk/rewear/internal/apperr"
	"github.com/erazemk/rewear/internal/model"
)

func TestMessagesRequireParticipant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.propose(t)

	_, err := f.ledger.Messages(ctx, s.ID, f.u3.ID)
	expectCode(t, err, apperr.CodeUnauthorized)

	_, err = f.ledger.SendMessage(ctx, s.ID, f.u3.ID, "let me in")
	expectCode(t, err, apperr.CodeUnauthorized)

	expectCode(t, f.ledger.MarkRead(ctx, s.ID, f.u3.ID), apperr.CodeUnauthorized)
}

func TestSendMessage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.propose(t)

	_, err := f.ledger.SendMessage(ctx, s.ID, f.u1.ID, "  \n\t ")
	expectCode(t, err, apperr.CodeEmptyMessage)

	msg, err := f.ledger.SendMessage(ctx, s.ID, f.u1.ID, "  see you at noon  ")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if msg.Content != "see you at noon" {
		t.Errorf("expected trimmed content, got %q", msg.Content)
	}

	if _, err := f.ledger.SendMessage(ctx, s.ID, f.u2.ID, "works for me"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	// Messages are allowed after the swap has ended.
	f.move(t, s, f.u2.ID, model.SwapStatusDeclined)
	if _, err := f.ledger.SendMessage(ctx, s.ID, f.u2.ID, "sorry"); err != nil {
		t.Fatalf("SendMessage after decline: %v", err)
	}

	messages, err := f.ledger.Messages(ctx, s.ID, f.u2.ID)
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	want := []string{"see you at noon", "works for me", "sorry"}
	if len(messages) != len(want) {
		t.Fatalf("expected %d messages, got %d", len(want), len(messages))
	}
	for i, m := range messages {
		if m.Content != want[i] {
			t.Errorf("message %d: got %q, want %q", i, m.Content, want[i])
		}
	}
}

func TestMarkRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.propose(t)

	for _, text := range []string{"one", "two"} {
		if _, err := f.ledger.SendMessage(ctx, s.ID, f.u1.ID, text); err != nil {
			t.Fatalf("SendMessage: %v", err)
		}
	}

	got, err := f.ledger.Get(ctx, s.ID, f.u2.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.UnreadCount != 2 {
		t.Errorf("expected 2 unread, got %d", got.UnreadCount)
	}

	// Listing messages does not mark them read.
	if _, err := f.ledger.Messages(ctx, s.ID, f.u2.ID); err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if got, _ := f.ledger.Get(ctx, s.ID, f.u2.ID); got.UnreadCount != 2 {
		t.Errorf("expected 2 unread after listing, got %d", got.UnreadCount)
	}

	if err := f.ledger.MarkRead(ctx, s.ID, f.u2.ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if got, _ := f.ledger.Get(ctx, s.ID, f.u2.ID); got.UnreadCount != 0 {
		t.Errorf("expected 0 unread, got %d", got.UnreadCount)
	}

	// The sender never sees their own messages as unread.
	if got, _ := f.ledger.Get(ctx, s.ID, f.u1.ID); got.UnreadCount != 0 {
		t.Errorf("expected sender to have 0 unread, got %d", got.UnreadCount)
	}
}

func TestMessagesEmptyThread(t *testing.T) {
	f := newFixture(t)
	s := f.propose(t)

	messages, err := f.ledger.Messages(context.Background(), s.ID, f.u1.ID)
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if messages == nil || len(messages) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", messages)
	}
}
