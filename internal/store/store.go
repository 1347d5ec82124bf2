// Package store owns the on-disk layout of the memory hierarchy. Every other
// component addresses files only through it; it knows nothing about content.
//
// Per-user layout:
//
//	<data>/users/<user>/
//	    memory.md                 master index
//	    daily/YYYYMMDD.md
//	    weekly/YYYY-WXX.md
//	    monthly/YYYY-MM.md
//	    yearly/YYYY.md
//	    archive/{daily,weekly,monthly}/
//	    important/preferences.md
package store

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Tier names used for archive subtrees.
const (
	TierDaily   = "daily"
	TierWeekly  = "weekly"
	TierMonthly = "monthly"
)

const dailyDateLayout = "20060102"

// Store resolves identities to paths under a single data directory.
type Store struct {
	usersDir string
}

// New creates a Store rooted at dataDir and ensures <dataDir>/users exists.
func New(dataDir string) (*Store, error) {
	usersDir := filepath.Join(dataDir, "users")
	if err := os.MkdirAll(usersDir, 0o755); err != nil {
		return nil, fmt.Errorf("store: init users dir: %w", err)
	}
	return &Store{usersDir: usersDir}, nil
}

// UsersDir returns the directory holding all user memory roots.
func (s *Store) UsersDir() string { return s.usersDir }

// UserDir returns the memory root for one user.
func (s *Store) UserDir(user string) string {
	return filepath.Join(s.usersDir, user)
}

// EnsureLayout idempotently creates all tier directories for a user.
// Existing content is never touched.
func (s *Store) EnsureLayout(user string) error {
	dirs := []string{
		"daily",
		"weekly",
		"monthly",
		"yearly",
		filepath.Join("archive", TierDaily),
		filepath.Join("archive", TierWeekly),
		filepath.Join("archive", TierMonthly),
		"important",
	}
	root := s.UserDir(user)
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			return fmt.Errorf("store: ensure layout for %s: %w", user, err)
		}
	}
	return nil
}

// HasLayout reports whether the user has a tiered memory root.
// The daily/ directory is the marker.
func (s *Store) HasLayout(user string) bool {
	info, err := os.Stat(filepath.Join(s.UserDir(user), "daily"))
	return err == nil && info.IsDir()
}

// Users enumerates all user IDs with a memory root, sorted.
func (s *Store) Users() ([]string, error) {
	entries, err := os.ReadDir(s.usersDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: list users: %w", err)
	}
	var users []string
	for _, e := range entries {
		if e.IsDir() {
			users = append(users, e.Name())
		}
	}
	sort.Strings(users)
	return users, nil
}

// DailyPath resolves the daily file for (user, date).
func (s *Store) DailyPath(user string, date time.Time) string {
	return filepath.Join(s.UserDir(user), "daily", date.Format(dailyDateLayout)+".md")
}

// WeeklyPath resolves the weekly summary for (user, ISO year, ISO week).
func (s *Store) WeeklyPath(user string, year, week int) string {
	return filepath.Join(s.UserDir(user), "weekly", fmt.Sprintf("%d-W%02d.md", year, week))
}

// MonthlyPath resolves the monthly summary for (user, year, month).
func (s *Store) MonthlyPath(user string, year, month int) string {
	return filepath.Join(s.UserDir(user), "monthly", fmt.Sprintf("%d-%02d.md", year, month))
}

// YearlyPath resolves the yearly summary for (user, year).
func (s *Store) YearlyPath(user string, year int) string {
	return filepath.Join(s.UserDir(user), "yearly", fmt.Sprintf("%d.md", year))
}

// IndexPath resolves the master index (memory.md) for a user.
func (s *Store) IndexPath(user string) string {
	return filepath.Join(s.UserDir(user), "memory.md")
}

// PreferencesPath resolves the persistent preferences file for a user.
func (s *Store) PreferencesPath(user string) string {
	return filepath.Join(s.UserDir(user), "important", "preferences.md")
}

// DailyFile is one enumerated daily file with its parsed date.
type DailyFile struct {
	Path string
	Date time.Time
}

// ParseDailyDate parses a daily filename (YYYYMMDD.md) into its date.
func ParseDailyDate(name string) (time.Time, error) {
	stem := strings.TrimSuffix(filepath.Base(name), ".md")
	return time.Parse(dailyDateLayout, stem)
}

// ListDaily enumerates a user's active daily files sorted newest-first.
// Zero start/end times mean unbounded. Files whose names do not parse as a
// date are skipped with a warning, never an error.
func (s *Store) ListDaily(user string, start, end time.Time) []DailyFile {
	dir := filepath.Join(s.UserDir(user), "daily")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var files []DailyFile
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".md" {
			continue
		}
		date, err := ParseDailyDate(e.Name())
		if err != nil {
			log.Printf("[store] skipping daily file with invalid name: %s", e.Name())
			continue
		}
		if !start.IsZero() && date.Before(start) {
			continue
		}
		if !end.IsZero() && date.After(end) {
			continue
		}
		files = append(files, DailyFile{Path: filepath.Join(dir, e.Name()), Date: date})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Date.After(files[j].Date) })
	return files
}

// WeeklyFile is one enumerated weekly summary with its parsed identity.
type WeeklyFile struct {
	Path string
	Year int
	Week int
}

// ListWeekly enumerates a user's active weekly summaries sorted newest-first.
// Unparseable names are skipped with a warning.
func (s *Store) ListWeekly(user string) []WeeklyFile {
	dir := filepath.Join(s.UserDir(user), "weekly")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var files []WeeklyFile
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".md" {
			continue
		}
		year, week, err := parseWeeklyName(e.Name())
		if err != nil {
			log.Printf("[store] skipping weekly file with invalid name: %s", e.Name())
			continue
		}
		files = append(files, WeeklyFile{Path: filepath.Join(dir, e.Name()), Year: year, Week: week})
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].Year != files[j].Year {
			return files[i].Year > files[j].Year
		}
		return files[i].Week > files[j].Week
	})
	return files
}

func parseWeeklyName(name string) (year, week int, err error) {
	stem := strings.TrimSuffix(name, ".md")
	parts := strings.SplitN(stem, "-W", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("store: malformed weekly name %q", name)
	}
	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("store: malformed weekly year in %q", name)
	}
	week, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("store: malformed weekly week in %q", name)
	}
	return year, week, nil
}

// MonthlyFile is one enumerated monthly summary with its parsed identity.
type MonthlyFile struct {
	Path  string
	Year  int
	Month int
}

// ListMonthly enumerates a user's active monthly summaries sorted newest-first.
func (s *Store) ListMonthly(user string) []MonthlyFile {
	dir := filepath.Join(s.UserDir(user), "monthly")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var files []MonthlyFile
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".md" {
			continue
		}
		stem := strings.TrimSuffix(e.Name(), ".md")
		parts := strings.SplitN(stem, "-", 2)
		if len(parts) != 2 {
			log.Printf("[store] skipping monthly file with invalid name: %s", e.Name())
			continue
		}
		year, err1 := strconv.Atoi(parts[0])
		month, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil || month < 1 || month > 12 {
			log.Printf("[store] skipping monthly file with invalid name: %s", e.Name())
			continue
		}
		files = append(files, MonthlyFile{Path: filepath.Join(dir, e.Name()), Year: year, Month: month})
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].Year != files[j].Year {
			return files[i].Year > files[j].Year
		}
		return files[i].Month > files[j].Month
	})
	return files
}
