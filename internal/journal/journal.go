// Package journal is the read/write contract for a user's conversation
// memory: append-only turn recording into daily files, turn reconstruction
// for recent reads, and master-index upkeep.
package journal

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/chronomem/chronomem/internal/store"
)

const timestampLayout = "2006-01-02 15:04:05"

// zeroTime means "unbounded" when passed to store listing calls.
var zeroTime time.Time

// Journal records and reconstructs conversation turns for users.
type Journal struct {
	store *store.Store

	// now is injectable for tests; defaults to time.Now.
	now func() time.Time
}

// New creates a Journal over the given store.
func New(s *store.Store) *Journal {
	return &Journal{store: s, now: time.Now}
}

// SetClock overrides the journal's notion of "now". Test hook.
func (j *Journal) SetClock(now func() time.Time) { j.now = now }

// Exists reports whether the user has an initialized memory root.
// The master index is the marker.
func (j *Journal) Exists(user string) bool {
	_, err := os.Stat(j.store.IndexPath(user))
	return err == nil
}

// CreateUser initializes the tier layout, the master index, the first daily
// file and an empty preferences file. Returns false without touching
// anything when the user already exists.
func (j *Journal) CreateUser(user, displayName string) (bool, error) {
	if j.Exists(user) {
		return false, nil
	}
	if err := j.store.EnsureLayout(user); err != nil {
		return false, err
	}

	if displayName == "" {
		displayName = "User " + user
	}
	now := j.now()
	ts := now.Format(timestampLayout)

	index := fmt.Sprintf(`# Long-term memory for %s

Created: %s
Last updated: %s

---

## Important Personal Information

### Interests & Preferences
(Nothing recorded yet)

### Context
(Nothing recorded yet)

---

## Conversation History (newest first)

### %s (today) - [Details](daily/%s.md)

**Topics:** First conversation
**Importance:** -

---

## Statistics

- Total conversations: 0
- Most frequent topic: -
- Last cleanup: never
`, displayName, ts, ts, now.Format("2006-01-02"), now.Format("20060102"))

	if err := os.WriteFile(j.store.IndexPath(user), []byte(index), 0o644); err != nil {
		return false, fmt.Errorf("journal: write index: %w", err)
	}

	if err := j.ensureDailyFile(user, now); err != nil {
		return false, err
	}

	prefs := fmt.Sprintf(`# Persistent preferences for %s

Created: %s

---

## Interests & Hobbies

## Dislikes

## Active Projects

## Personal Details

`, displayName, ts)

	if err := os.WriteFile(j.store.PreferencesPath(user), []byte(prefs), 0o644); err != nil {
		return false, fmt.Errorf("journal: write preferences: %w", err)
	}

	log.Printf("[journal] created memory root for user %s", user)
	return true, nil
}

// ResetUser copies the user's memory root to a timestamped backup sibling,
// removes the original, and reinitializes. The backup directory path is
// returned.
func (j *Journal) ResetUser(user, displayName string) (string, error) {
	root := j.store.UserDir(user)
	if _, err := os.Stat(root); err != nil {
		return "", fmt.Errorf("journal: reset: user %s does not exist", user)
	}

	backup := filepath.Join(filepath.Dir(root),
		fmt.Sprintf("%s_backup_%s", user, j.now().Format("20060102_150405")))
	if err := copyTree(root, backup); err != nil {
		return "", fmt.Errorf("journal: reset backup: %w", err)
	}
	if err := os.RemoveAll(root); err != nil {
		return "", fmt.Errorf("journal: reset remove: %w", err)
	}
	if _, err := j.CreateUser(user, displayName); err != nil {
		return "", err
	}

	log.Printf("[journal] reset user %s, backup at %s", user, backup)
	return backup, nil
}

func (j *Journal) ensureDailyFile(user string, date time.Time) error {
	path := j.store.DailyPath(user, date)
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	header := fmt.Sprintf(`# Daily log %s

Created: %s

---

## Conversations

`, date.Format("2006-01-02"), j.now().Format(timestampLayout))

	if err := os.WriteFile(path, []byte(header), 0o644); err != nil {
		return fmt.Errorf("journal: create daily file: %w", err)
	}
	return nil
}

func copyTree(src, dest string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)
		if info.IsDir() {
			return os.MkdirAll(target, info.Mode())
		}
		in, err := os.Open(path)
		if err != nil {
			return err
		}
		defer in.Close()
		out, err := os.Create(target)
		if err != nil {
			return err
		}
		defer out.Close()
		_, err = io.Copy(out, in)
		return err
	})
}
