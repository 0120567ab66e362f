package store

import (
	"context"
	"testing"

	"picocms/internal/database"
	"picocms/internal/models"
)

func TestMessageStore_CreateAndRead(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	s := NewMessageStore(db, database.SQLite)

	before := countRows(t, db, "messages")

	m, err := s.Create(ctx, &models.Message{
		Name: "Jane", Email: "jane@example.com", Subject: "Hi", Message: "Hello there",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if m.ID == 0 || m.IsRead {
		t.Errorf("unexpected created message: %+v", m)
	}

	if after := countRows(t, db, "messages"); after != before+1 {
		t.Errorf("count: got %d, want %d", after, before+1)
	}

	got, err := s.FindByID(ctx, m.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got == nil || got.Email != "jane@example.com" || got.IsRead {
		t.Errorf("FindByID: got %+v", got)
	}
}

func TestMessageStore_MarkReadOnce(t *testing.T) {
	ctx := context.Background()
	s := NewMessageStore(testDB(t), database.SQLite)

	m, err := s.Create(ctx, &models.Message{Name: "a", Email: "a@b.c", Subject: "s", Message: "m"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	unread, err := s.UnreadCount(ctx)
	if err != nil {
		t.Fatalf("UnreadCount: %v", err)
	}
	if unread != 1 {
		t.Errorf("unread before: got %d, want 1", unread)
	}

	changed, err := s.MarkRead(ctx, m.ID)
	if err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if !changed {
		t.Error("first MarkRead should report a change")
	}

	changed, err = s.MarkRead(ctx, m.ID)
	if err != nil {
		t.Fatalf("second MarkRead: %v", err)
	}
	if changed {
		t.Error("second MarkRead should be a no-op")
	}

	got, err := s.FindByID(ctx, m.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if !got.IsRead {
		t.Error("message should stay read")
	}

	unread, err = s.UnreadCount(ctx)
	if err != nil {
		t.Fatalf("UnreadCount: %v", err)
	}
	if unread != 0 {
		t.Errorf("unread after: got %d, want 0", unread)
	}
}

func TestMessageStore_ListLimitAndDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMessageStore(testDB(t), database.SQLite)

	var ids []int64
	for _, subj := range []string{"one", "two", "three"} {
		m, err := s.Create(ctx, &models.Message{Name: "n", Email: "e@x.y", Subject: subj, Message: "m"})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		ids = append(ids, m.ID)
	}

	all, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("List(0): got %d, want 3", len(all))
	}
	if all[0].Subject != "three" {
		t.Errorf("expected newest first, got %q", all[0].Subject)
	}

	capped, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("List(2): %v", err)
	}
	if len(capped) != 2 {
		t.Errorf("List(2): got %d, want 2", len(capped))
	}

	if err := s.Delete(ctx, ids[0]); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	gone, err := s.FindByID(ctx, ids[0])
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if gone != nil {
		t.Errorf("expected nil after delete, got %+v", gone)
	}
}
