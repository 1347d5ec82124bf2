package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestEnsureLayoutIdempotent(t *testing.T) {
	s := newTestStore(t)

	if err := s.EnsureLayout("alice"); err != nil {
		t.Fatalf("EnsureLayout: %v", err)
	}
	if !s.HasLayout("alice") {
		t.Fatal("expected layout after EnsureLayout")
	}

	// Existing content must survive a second call.
	marker := filepath.Join(s.UserDir("alice"), "daily", "20240101.md")
	if err := os.WriteFile(marker, []byte("content"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.EnsureLayout("alice"); err != nil {
		t.Fatalf("EnsureLayout (second): %v", err)
	}
	data, err := os.ReadFile(marker)
	if err != nil || string(data) != "content" {
		t.Fatalf("existing file touched by EnsureLayout: %q, %v", data, err)
	}
}

func TestHasLayoutFalseForUnknownUser(t *testing.T) {
	s := newTestStore(t)
	if s.HasLayout("nobody") {
		t.Fatal("expected no layout for unknown user")
	}
}

func TestUsersSorted(t *testing.T) {
	s := newTestStore(t)
	for _, u := range []string{"charlie", "alice", "bob"} {
		if err := s.EnsureLayout(u); err != nil {
			t.Fatal(err)
		}
	}

	users, err := s.Users()
	if err != nil {
		t.Fatalf("Users: %v", err)
	}
	want := []string{"alice", "bob", "charlie"}
	if len(users) != len(want) {
		t.Fatalf("got %d users, want %d", len(users), len(want))
	}
	for i := range want {
		if users[i] != want[i] {
			t.Errorf("users[%d] = %q, want %q", i, users[i], want[i])
		}
	}
}

func TestPathNaming(t *testing.T) {
	s := newTestStore(t)
	date := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		got  string
		want string
	}{
		{s.DailyPath("u", date), "20250309.md"},
		{s.WeeklyPath("u", 2025, 3), "2025-W03.md"},
		{s.MonthlyPath("u", 2025, 3), "2025-03.md"},
		{s.YearlyPath("u", 2025), "2025.md"},
		{s.IndexPath("u"), "memory.md"},
		{s.PreferencesPath("u"), "preferences.md"},
	}
	for _, tt := range tests {
		if filepath.Base(tt.got) != tt.want {
			t.Errorf("base(%q) = %q, want %q", tt.got, filepath.Base(tt.got), tt.want)
		}
	}
}

func TestParseDailyDate(t *testing.T) {
	date, err := ParseDailyDate("20250309.md")
	if err != nil {
		t.Fatalf("ParseDailyDate: %v", err)
	}
	if date.Year() != 2025 || date.Month() != time.March || date.Day() != 9 {
		t.Errorf("got %v, want 2025-03-09", date)
	}

	if _, err := ParseDailyDate("notes.md"); err == nil {
		t.Error("expected error for non-date filename")
	}
}

func TestListDailySkipsInvalidNames(t *testing.T) {
	s := newTestStore(t)
	if err := s.EnsureLayout("u"); err != nil {
		t.Fatal(err)
	}
	dir := filepath.Join(s.UserDir("u"), "daily")

	for _, name := range []string{"20250101.md", "20250102.md", "README.md", "draft.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	files := s.ListDaily("u", time.Time{}, time.Time{})
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2", len(files))
	}
	// Newest first.
	if !files[0].Date.After(files[1].Date) {
		t.Errorf("expected newest-first, got %v then %v", files[0].Date, files[1].Date)
	}
}

func TestListDailyDateBounds(t *testing.T) {
	s := newTestStore(t)
	if err := s.EnsureLayout("u"); err != nil {
		t.Fatal(err)
	}
	dir := filepath.Join(s.UserDir("u"), "daily")
	for _, name := range []string{"20250101.md", "20250110.md", "20250120.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	start := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	files := s.ListDaily("u", start, end)
	if len(files) != 1 {
		t.Fatalf("got %d files in range, want 1", len(files))
	}
	if files[0].Date.Day() != 10 {
		t.Errorf("got %v, want the 10th", files[0].Date)
	}
}

func TestListWeeklyOrdering(t *testing.T) {
	s := newTestStore(t)
	if err := s.EnsureLayout("u"); err != nil {
		t.Fatal(err)
	}
	dir := filepath.Join(s.UserDir("u"), "weekly")
	for _, name := range []string{"2024-W52.md", "2025-W02.md", "2025-W01.md", "junk.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	files := s.ListWeekly("u")
	if len(files) != 3 {
		t.Fatalf("got %d files, want 3", len(files))
	}
	if files[0].Year != 2025 || files[0].Week != 2 {
		t.Errorf("newest = %d-W%02d, want 2025-W02", files[0].Year, files[0].Week)
	}
	if files[2].Year != 2024 {
		t.Errorf("oldest year = %d, want 2024", files[2].Year)
	}
}

func TestListMonthlyRejectsInvalidMonth(t *testing.T) {
	s := newTestStore(t)
	if err := s.EnsureLayout("u"); err != nil {
		t.Fatal(err)
	}
	dir := filepath.Join(s.UserDir("u"), "monthly")
	for _, name := range []string{"2025-01.md", "2025-13.md", "2025-00.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	files := s.ListMonthly("u")
	if len(files) != 1 {
		t.Fatalf("got %d files, want 1", len(files))
	}
	if files[0].Month != 1 {
		t.Errorf("month = %d, want 1", files[0].Month)
	}
}
