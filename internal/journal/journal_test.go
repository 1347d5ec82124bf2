package journal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chronomem/chronomem/internal/store"
)

func newTestJournal(t *testing.T) (*Journal, *store.Store) {
	t.Helper()
	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	return New(st), st
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestCreateUser(t *testing.T) {
	j, st := newTestJournal(t)
	j.SetClock(fixedClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)))

	created, err := j.CreateUser("alice", "Alice")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if !created {
		t.Fatal("expected created=true")
	}

	index, err := os.ReadFile(st.IndexPath("alice"))
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	for _, want := range []string{"Alice", "Created: 2025-06-01 10:00:00", "## Important Personal Information", "## Conversation History (newest first)"} {
		if !strings.Contains(string(index), want) {
			t.Errorf("index missing %q", want)
		}
	}

	if _, err := os.Stat(st.DailyPath("alice", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))); err != nil {
		t.Errorf("first daily file missing: %v", err)
	}
	if _, err := os.Stat(st.PreferencesPath("alice")); err != nil {
		t.Errorf("preferences file missing: %v", err)
	}

	// A second create is a no-op.
	created, err = j.CreateUser("alice", "Alice Again")
	if err != nil {
		t.Fatalf("CreateUser (second): %v", err)
	}
	if created {
		t.Error("expected created=false for existing user")
	}
}

func TestAppendAndReadRecent(t *testing.T) {
	j, _ := newTestJournal(t)
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	j.SetClock(fixedClock(now))

	if err := j.Append("bob", "user", "I love hiking in the Alps"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := j.Append("bob", "assistant", "Noted, the Alps are wonderful."); err != nil {
		t.Fatalf("Append: %v", err)
	}

	turns := j.ReadRecent("bob", 10, 7)
	if len(turns) != 2 {
		t.Fatalf("got %d turns, want 2", len(turns))
	}
	if turns[0].Role != "user" || turns[1].Role != "assistant" {
		t.Errorf("roles = %q, %q; want user, assistant", turns[0].Role, turns[1].Role)
	}
	if turns[0].Content != "I love hiking in the Alps" {
		t.Errorf("content = %q", turns[0].Content)
	}
	if !turns[0].Timestamp.Equal(now) {
		t.Errorf("timestamp = %v, want %v", turns[0].Timestamp, now)
	}
}

func TestAppendRejectsInvalidRole(t *testing.T) {
	j, _ := newTestJournal(t)
	if err := j.Append("bob", "narrator", "text"); err == nil {
		t.Fatal("expected error for invalid role")
	}
}

func TestAppendAutoCreatesUser(t *testing.T) {
	j, _ := newTestJournal(t)
	if err := j.Append("fresh", "user", "hello"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if !j.Exists("fresh") {
		t.Error("expected user created by first append")
	}
}

func TestReadRecentSpansDays(t *testing.T) {
	j, _ := newTestJournal(t)

	day1 := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	j.SetClock(fixedClock(day1))
	if err := j.Append("u", "user", "first day"); err != nil {
		t.Fatal(err)
	}
	j.SetClock(fixedClock(day2))
	if err := j.Append("u", "user", "second day"); err != nil {
		t.Fatal(err)
	}

	turns := j.ReadRecent("u", 10, 7)
	if len(turns) != 2 {
		t.Fatalf("got %d turns, want 2", len(turns))
	}
	// Chronological across files.
	if turns[0].Content != "first day" || turns[1].Content != "second day" {
		t.Errorf("order = %q, %q", turns[0].Content, turns[1].Content)
	}

	// Cap applies to the newest turns.
	turns = j.ReadRecent("u", 1, 7)
	if len(turns) != 1 || turns[0].Content != "second day" {
		t.Errorf("capped read = %+v, want only the newest", turns)
	}
}

func TestReadRecentUnknownUser(t *testing.T) {
	j, _ := newTestJournal(t)
	if turns := j.ReadRecent("nobody", 10, 7); turns != nil {
		t.Errorf("got %v, want nil", turns)
	}
}

func TestAppendTouchesIndex(t *testing.T) {
	j, st := newTestJournal(t)
	created := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	j.SetClock(fixedClock(created))
	if _, err := j.CreateUser("u", ""); err != nil {
		t.Fatal(err)
	}

	later := created.Add(3 * time.Hour)
	j.SetClock(fixedClock(later))
	if err := j.Append("u", "user", "hi"); err != nil {
		t.Fatal(err)
	}

	index, err := os.ReadFile(st.IndexPath("u"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(index), "Last updated: 2025-06-01 11:00:00") {
		t.Error("index Last updated line not refreshed")
	}
}

func TestResetUserKeepsBackup(t *testing.T) {
	j, st := newTestJournal(t)
	j.SetClock(fixedClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)))

	if err := j.Append("u", "user", "precious memory"); err != nil {
		t.Fatal(err)
	}

	backup, err := j.ResetUser("u", "")
	if err != nil {
		t.Fatalf("ResetUser: %v", err)
	}

	// Backup holds the old content.
	found := false
	filepath.Walk(backup, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if data, err := os.ReadFile(path); err == nil && strings.Contains(string(data), "precious memory") {
			found = true
		}
		return nil
	})
	if !found {
		t.Error("backup does not contain the old turn")
	}

	// The user is reinitialized empty.
	if !st.HasLayout("u") {
		t.Fatal("layout missing after reset")
	}
	turns := j.ReadRecent("u", 10, 7)
	for _, turn := range turns {
		if strings.Contains(turn.Content, "precious memory") {
			t.Error("old turn survived the reset")
		}
	}
}

func TestResetUnknownUser(t *testing.T) {
	j, _ := newTestJournal(t)
	if _, err := j.ResetUser("nobody", ""); err == nil {
		t.Fatal("expected error for unknown user")
	}
}
