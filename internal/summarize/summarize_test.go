package summarize

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chronomem/chronomem/internal/adapter"
	"github.com/chronomem/chronomem/internal/store"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestStripMarkdown(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bold", "a **bold** statement", "a bold statement"},
		{"italic", "an *italic* word", "an italic word"},
		{"inline code", "run `make` now", "run make now"},
		{"header", "# Title\nbody", "Title\nbody"},
		{"fence removed", "before\n```\ncode\n```\nafter", "before\n\nafter"},
		{"plain", "already plain prose", "already plain prose"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripMarkdown(tt.input); got != tt.want {
				t.Errorf("stripMarkdown(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSoftTrimRewritesInPlace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "20250601.md")
	writeFile(t, path, "### User - 2025-06-01 09:00:00\n\nlong original content about many things\n\n---\n")

	trimmed := "### User - 2025-06-01 09:00:00\n\nasked about many things\n\n---"
	s := New(adapter.NewFake(trimmed))

	if err := s.SoftTrim(context.Background(), path); err != nil {
		t.Fatalf("SoftTrim: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "asked about many things") {
		t.Errorf("file not rewritten: %q", data)
	}
}

func TestSoftTrimFailureLeavesFileUntouched(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "20250601.md")
	original := "### User - 2025-06-01 09:00:00\n\nprecious\n\n---\n"
	writeFile(t, path, original)

	fake := adapter.NewFake()
	fake.Err = errors.New("service down")
	s := New(fake)

	if err := s.SoftTrim(context.Background(), path); err == nil {
		t.Fatal("expected error")
	}
	data, _ := os.ReadFile(path)
	if string(data) != original {
		t.Errorf("file modified despite failure: %q", data)
	}
}

func TestSoftTrimRejectsEmptyReply(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "20250601.md")
	original := "content\n"
	writeFile(t, path, original)

	s := New(adapter.NewFake("   "))
	if err := s.SoftTrim(context.Background(), path); err == nil {
		t.Fatal("expected error for empty trim output")
	}
	data, _ := os.ReadFile(path)
	if string(data) != original {
		t.Error("file modified despite empty reply")
	}
}

func TestSoftTrimUnfencesReply(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "20250601.md")
	writeFile(t, path, "content\n")

	s := New(adapter.NewFake("```markdown\ntrimmed body\n```"))
	if err := s.SoftTrim(context.Background(), path); err != nil {
		t.Fatalf("SoftTrim: %v", err)
	}
	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "```") {
		t.Errorf("fence survived: %q", data)
	}
	if !strings.Contains(string(data), "trimmed body") {
		t.Errorf("body missing: %q", data)
	}
}

func TestWeeklyDigest(t *testing.T) {
	dir := t.TempDir()
	d1 := filepath.Join(dir, "20250602.md")
	d2 := filepath.Join(dir, "20250603.md")
	writeFile(t, d1, "monday content")
	writeFile(t, d2, "tuesday content")

	fake := adapter.NewFake("The week was dominated by the billing migration.")
	s := New(fake)
	s.SetClock(fixedClock(time.Date(2025, 6, 10, 4, 0, 0, 0, time.UTC)))

	target := filepath.Join(dir, "2025-W23.md")
	files := []store.DailyFile{
		// Deliberately out of order; the digest must sort them.
		{Path: d2, Date: time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)},
		{Path: d1, Date: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)},
	}
	if err := s.Weekly(context.Background(), files, target, 23, 2025); err != nil {
		t.Fatalf("Weekly: %v", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	for _, want := range []string{
		"# Weekly digest 2025-W23",
		"Period: 2025-06-02 to 2025-06-03",
		"Sources: 2 daily files",
		"billing migration",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("digest missing %q", want)
		}
	}

	// The prompt received the daily contents in chronological order.
	prompt := fake.Calls[0]
	if strings.Index(prompt, "monday content") > strings.Index(prompt, "tuesday content") {
		t.Error("daily sections not chronological in prompt")
	}
}

func TestWeeklyTargetExists(t *testing.T) {
	dir := t.TempDir()
	d1 := filepath.Join(dir, "20250602.md")
	writeFile(t, d1, "content")
	target := filepath.Join(dir, "2025-W23.md")
	writeFile(t, target, "existing digest")

	s := New(adapter.NewFake("new digest"))
	files := []store.DailyFile{{Path: d1, Date: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)}}

	err := s.Weekly(context.Background(), files, target, 23, 2025)
	if !errors.Is(err, ErrTargetExists) {
		t.Fatalf("err = %v, want ErrTargetExists", err)
	}
	data, _ := os.ReadFile(target)
	if string(data) != "existing digest" {
		t.Error("existing digest overwritten")
	}
}

func TestWeeklyNoInput(t *testing.T) {
	s := New(adapter.NewFake("x"))
	err := s.Weekly(context.Background(), nil, filepath.Join(t.TempDir(), "w.md"), 1, 2025)
	if !errors.Is(err, ErrNoInput) {
		t.Fatalf("err = %v, want ErrNoInput", err)
	}
}

func TestWeeklyAllUnreadable(t *testing.T) {
	dir := t.TempDir()
	s := New(adapter.NewFake("x"))
	files := []store.DailyFile{{Path: filepath.Join(dir, "missing.md"), Date: time.Now()}}
	err := s.Weekly(context.Background(), files, filepath.Join(dir, "w.md"), 1, 2025)
	if !errors.Is(err, ErrNoInput) {
		t.Fatalf("err = %v, want ErrNoInput", err)
	}
}

func TestWeeklyFailureWritesNothing(t *testing.T) {
	dir := t.TempDir()
	d1 := filepath.Join(dir, "20250602.md")
	writeFile(t, d1, "content")

	fake := adapter.NewFake()
	fake.Err = errors.New("down")
	s := New(fake)

	target := filepath.Join(dir, "2025-W23.md")
	files := []store.DailyFile{{Path: d1, Date: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)}}
	if err := s.Weekly(context.Background(), files, target, 23, 2025); err == nil {
		t.Fatal("expected error")
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Error("target written despite failure")
	}
}

func TestMonthlyDigest(t *testing.T) {
	dir := t.TempDir()
	w1 := filepath.Join(dir, "2025-W23.md")
	w2 := filepath.Join(dir, "2025-W24.md")
	writeFile(t, w1, "week 23 digest")
	writeFile(t, w2, "week 24 digest")

	s := New(adapter.NewFake("June was all about shipping."))
	s.SetClock(fixedClock(time.Date(2025, 7, 5, 4, 0, 0, 0, time.UTC)))

	target := filepath.Join(dir, "2025-06.md")
	if err := s.Monthly(context.Background(), []string{w2, w1}, target, 6, 2025); err != nil {
		t.Fatalf("Monthly: %v", err)
	}

	data, _ := os.ReadFile(target)
	text := string(data)
	for _, want := range []string{"# Monthly digest June 2025", "Sources: 2 weekly digests", "shipping"} {
		if !strings.Contains(text, want) {
			t.Errorf("digest missing %q", want)
		}
	}
}

func TestYearlySummaryIsStructural(t *testing.T) {
	dir := t.TempDir()
	m1 := filepath.Join(dir, "2024-01.md")
	m2 := filepath.Join(dir, "2024-02.md")
	writeFile(t, m1, "january digest")
	writeFile(t, m2, "february digest")

	fake := adapter.NewFake("should never be used")
	s := New(fake)
	s.SetClock(fixedClock(time.Date(2025, 1, 2, 4, 0, 0, 0, time.UTC)))

	target := filepath.Join(dir, "2024.md")
	if err := s.Yearly([]string{m2, m1}, target, 2024); err != nil {
		t.Fatalf("Yearly: %v", err)
	}
	if len(fake.Calls) != 0 {
		t.Error("yearly summary made a completion call")
	}

	data, _ := os.ReadFile(target)
	text := string(data)
	if !strings.Contains(text, "# Yearly summary 2024") {
		t.Error("missing header")
	}
	// Chronological by filename.
	if strings.Index(text, "january digest") > strings.Index(text, "february digest") {
		t.Error("months not chronological")
	}
}
