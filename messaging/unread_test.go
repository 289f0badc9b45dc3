package messaging

import (
	"testing"
)

func TestUnreadForReturnsOnlyUnreadAddressedToUser(t *testing.T) {
	s := newTestStore(t)
	alice := newTestUser(t, s, "alice")
	bob := newTestUser(t, s, "bob")
	carol := newTestUser(t, s, "carol")

	m1 := sendMessage(t, s, alice, bob, "unread one", nil)
	m2 := sendMessage(t, s, carol, bob, "unread two", nil)
	seen := sendMessage(t, s, alice, bob, "already seen", nil)
	sendMessage(t, s, bob, alice, "not for bob", nil)

	seen.Read = true
	if err := s.SaveMessage(seen); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	unread, err := s.UnreadFor(bob.ID)
	if err != nil {
		t.Fatalf("unread: %v", err)
	}
	if len(unread) != 2 {
		t.Fatalf("expected 2 unread messages, got %d", len(unread))
	}
	if unread[0].ID != m1.ID || unread[1].ID != m2.ID {
		t.Fatalf("unexpected unread set: %+v", unread)
	}
	if unread[0].SenderID != alice.ID || unread[0].Content != "unread one" {
		t.Fatalf("projection fields wrong: %+v", unread[0])
	}
	if unread[0].CreatedAt.IsZero() {
		t.Fatalf("projection missing timestamp")
	}
}

// The feed is never cached: a read-flag change shows up on the very next call.
func TestUnreadForIsLive(t *testing.T) {
	s := newTestStore(t)
	alice := newTestUser(t, s, "alice")
	bob := newTestUser(t, s, "bob")

	msg := sendMessage(t, s, alice, bob, "soon read", nil)

	unread, _ := s.UnreadFor(bob.ID)
	if len(unread) != 1 {
		t.Fatalf("expected 1 unread, got %d", len(unread))
	}

	msg.Read = true
	if err := s.SaveMessage(msg); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	unread, _ = s.UnreadFor(bob.ID)
	if len(unread) != 0 {
		t.Fatalf("stale unread feed: got %d, want 0", len(unread))
	}

	// and a fresh message appears immediately
	sendMessage(t, s, alice, bob, "new arrival", nil)
	unread, _ = s.UnreadFor(bob.ID)
	if len(unread) != 1 {
		t.Fatalf("live feed missed new message: got %d", len(unread))
	}
}
