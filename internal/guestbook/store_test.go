package guestbook

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/zulandar/guestbook/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := gdb.AutoMigrate(&models.Message{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewStore(gdb)
}

func TestStore_InsertUnderLimit(t *testing.T) {
	s := testStore(t)
	at := time.Date(2026, 8, 30, 14, 5, 0, 0, time.UTC)

	msg, err := s.InsertUnderLimit("hello wall", at, "deadbeefdeadbeef", 30)
	if err != nil {
		t.Fatalf("InsertUnderLimit: %v", err)
	}
	if msg.ID == 0 {
		t.Error("ID not assigned")
	}
	if msg.Text != "hello wall" {
		t.Errorf("Text = %q", msg.Text)
	}
	if msg.SubmittedAt != "2026-08-30T14:05:00Z" {
		t.Errorf("SubmittedAt = %q", msg.SubmittedAt)
	}
	if msg.IPHash != "deadbeefdeadbeef" {
		t.Errorf("IPHash = %q", msg.IPHash)
	}
	if msg.GalleryApproved {
		t.Error("new message must start unapproved")
	}
	if msg.Commentary != nil {
		t.Errorf("Commentary = %v, want nil", *msg.Commentary)
	}
}

func TestStore_InsertUnderLimit_CeilingReached(t *testing.T) {
	s := testStore(t)
	at := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if _, err := s.InsertUnderLimit("msg", at, "fp", 3); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	_, err := s.InsertUnderLimit("one too many", at, "fp", 3)
	if !errors.Is(err, ErrDailyLimit) {
		t.Fatalf("err = %v, want ErrDailyLimit", err)
	}

	count, err := s.CountToday(at)
	if err != nil {
		t.Fatalf("CountToday: %v", err)
	}
	if count != 3 {
		t.Errorf("count after rejection = %d, want 3", count)
	}
}

func TestStore_InsertUnderLimit_YesterdayDoesNotCount(t *testing.T) {
	s := testStore(t)
	yesterday := time.Date(2026, 8, 29, 23, 59, 0, 0, time.UTC)
	today := time.Date(2026, 8, 30, 0, 1, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		if _, err := s.InsertUnderLimit("old", yesterday, "fp", 2); err != nil {
			t.Fatalf("insert yesterday: %v", err)
		}
	}

	// Ceiling of 2 was exhausted yesterday; a new day starts at zero.
	if _, err := s.InsertUnderLimit("fresh", today, "fp", 2); err != nil {
		t.Fatalf("insert today: %v", err)
	}

	count, err := s.CountToday(today)
	if err != nil {
		t.Fatalf("CountToday: %v", err)
	}
	if count != 1 {
		t.Errorf("CountToday = %d, want 1", count)
	}
}

func TestStore_InsertUnderLimit_Concurrent(t *testing.T) {
	s := testStore(t)
	at := time.Now().UTC()
	const ceiling = 5
	const attempts = 20

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.InsertUnderLimit("race", at, "fp", ceiling)
		}(i)
	}
	wg.Wait()

	var accepted, limited int
	for _, err := range errs {
		switch {
		case err == nil:
			accepted++
		case errors.Is(err, ErrDailyLimit):
			limited++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if accepted != ceiling {
		t.Errorf("accepted = %d, want %d", accepted, ceiling)
	}
	if limited != attempts-ceiling {
		t.Errorf("limited = %d, want %d", limited, attempts-ceiling)
	}
}

func TestStore_ListOrdering(t *testing.T) {
	s := testStore(t)
	base := time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)

	var ids []uint
	for i := 0; i < 3; i++ {
		msg, err := s.InsertUnderLimit("msg", base.Add(time.Duration(i)*time.Hour), "fp", 30)
		if err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
		ids = append(ids, msg.ID)
	}
	for _, id := range ids {
		if err := s.Approve(id, ""); err != nil {
			t.Fatalf("approve %d: %v", id, err)
		}
	}

	approved, err := s.ListApproved()
	if err != nil {
		t.Fatalf("ListApproved: %v", err)
	}
	if len(approved) != 3 {
		t.Fatalf("len = %d, want 3", len(approved))
	}
	// Newest first.
	if approved[0].ID != ids[2] || approved[2].ID != ids[0] {
		t.Errorf("approved order = [%d %d %d], want [%d %d %d]",
			approved[0].ID, approved[1].ID, approved[2].ID, ids[2], ids[1], ids[0])
	}
}

func TestStore_ListPending_OldestFirst(t *testing.T) {
	s := testStore(t)
	base := time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)

	var ids []uint
	for i := 0; i < 2; i++ {
		msg, err := s.InsertUnderLimit("msg", base.Add(time.Duration(i)*time.Minute), "fp", 30)
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		ids = append(ids, msg.ID)
	}

	pending, err := s.ListPending()
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(pending) != 2 || pending[0].ID != ids[0] {
		t.Errorf("pending order wrong: %+v", pending)
	}
}

func TestStore_Approve(t *testing.T) {
	s := testStore(t)
	msg, err := s.InsertUnderLimit("nice note", time.Now().UTC(), "fp", 30)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := s.Approve(msg.ID, "a classic"); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	approved, err := s.ListApproved()
	if err != nil {
		t.Fatalf("ListApproved: %v", err)
	}
	if len(approved) != 1 {
		t.Fatalf("len = %d, want 1", len(approved))
	}
	if approved[0].Commentary == nil || *approved[0].Commentary != "a classic" {
		t.Errorf("Commentary = %v, want \"a classic\"", approved[0].Commentary)
	}

	// Approving again is a no-op that reports not-found and keeps the
	// original commentary.
	if err := s.Approve(msg.ID, "second opinion"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Approve err = %v, want ErrNotFound", err)
	}
	approved, _ = s.ListApproved()
	if *approved[0].Commentary != "a classic" {
		t.Errorf("Commentary overwritten to %q", *approved[0].Commentary)
	}
}

func TestStore_Approve_EmptyCommentaryStaysNull(t *testing.T) {
	s := testStore(t)
	msg, err := s.InsertUnderLimit("note", time.Now().UTC(), "fp", 30)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := s.Approve(msg.ID, ""); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	approved, _ := s.ListApproved()
	if approved[0].Commentary != nil {
		t.Errorf("Commentary = %q, want nil", *approved[0].Commentary)
	}
}

func TestStore_Approve_Unknown(t *testing.T) {
	s := testStore(t)
	if err := s.Approve(99, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestStore_Pending(t *testing.T) {
	s := testStore(t)
	msg, err := s.InsertUnderLimit("waiting", time.Now().UTC(), "fp", 30)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := s.Pending(msg.ID)
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if got.Text != "waiting" {
		t.Errorf("Text = %q", got.Text)
	}

	if _, err := s.Pending(msg.ID + 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id err = %v, want ErrNotFound", err)
	}

	// Approved messages are no longer pending.
	if err := s.Approve(msg.ID, ""); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if _, err := s.Pending(msg.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("approved id err = %v, want ErrNotFound", err)
	}
}

func TestStore_Counts(t *testing.T) {
	s := testStore(t)
	now := time.Now().UTC()

	for i := 0; i < 3; i++ {
		if _, err := s.InsertUnderLimit("msg", now, "fp", 30); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	if err := s.Approve(1, ""); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	pending, err := s.CountPending()
	if err != nil {
		t.Fatalf("CountPending: %v", err)
	}
	if pending != 2 {
		t.Errorf("pending = %d, want 2", pending)
	}
	approved, err := s.CountApproved()
	if err != nil {
		t.Fatalf("CountApproved: %v", err)
	}
	if approved != 1 {
		t.Errorf("approved = %d, want 1", approved)
	}
}

func TestStore_Ping(t *testing.T) {
	s := testStore(t)
	if err := s.Ping(); err != nil {
		t.Errorf("Ping: %v", err)
	}
}
