package session

import (
	"testing"
	"time"

	"fakepost/internal/domain"
)

func comments() []domain.Comment {
	return []domain.Comment{
		{ID: "c1", Name: "Ana", Comment: "hi"},
		{ID: "c2", Name: "Bo", Comment: "yo", Replies: []domain.Reply{{ID: "r1", Name: "Cy", Comment: "hey"}}},
	}
}

func TestBoardApply(t *testing.T) {
	board := NewStore(time.Minute).Board("s1")
	token := board.Reset(comments())

	if !board.Apply(token, "r1", "pic-r1") {
		t.Fatal("apply to reply rejected")
	}
	if board.Apply(token, "missing", "x") {
		t.Fatal("apply to unknown id accepted")
	}
	got, current := board.Snapshot()
	if current != token {
		t.Fatalf("token = %d, want %d", current, token)
	}
	if got[1].Replies[0].ProfilePicURL != "pic-r1" {
		t.Fatalf("reply picture = %q", got[1].Replies[0].ProfilePicURL)
	}
}

func TestBoardDiscardsStaleToken(t *testing.T) {
	board := NewStore(time.Minute).Board("s1")
	stale := board.Reset(comments())
	fresh := board.Reset([]domain.Comment{{ID: "c1", Name: "New", Comment: "list"}})

	if board.Apply(stale, "c1", "old-pic") {
		t.Fatal("stale token accepted")
	}
	if !board.Apply(fresh, "c1", "new-pic") {
		t.Fatal("current token rejected")
	}
	got, _ := board.Snapshot()
	if len(got) != 1 || got[0].ProfilePicURL != "new-pic" {
		t.Fatalf("board = %+v", got)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	board := NewStore(time.Minute).Board("s1")
	board.Reset(comments())
	snap, _ := board.Snapshot()
	snap[1].Replies[0].Name = "changed"

	again, _ := board.Snapshot()
	if again[1].Replies[0].Name != "Cy" {
		t.Fatal("snapshot aliases board state")
	}
}

func TestSweepRemovesIdleBoards(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewStore(30 * time.Minute)
	store.now = func() time.Time { return now }

	store.Board("old").Reset(comments())
	now = now.Add(20 * time.Minute)
	store.Board("young").Reset(comments())
	now = now.Add(15 * time.Minute)

	if removed := store.Sweep(); removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if _, ok := store.Lookup("old"); ok {
		t.Fatal("idle board survived")
	}
	if _, ok := store.Lookup("young"); !ok {
		t.Fatal("active board removed")
	}
}
