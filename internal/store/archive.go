package store

import (
	"log"
	"os"
	"path/filepath"
	"time"
)

// Archive moves a file into the archive subtree for the given tier.
// A missing source is a soft failure: retried or concurrent cleanup runs may
// have moved it already, so the caller gets ("", false) and keeps going.
func (s *Store) Archive(path, user, tier string) (string, bool) {
	if _, err := os.Stat(path); err != nil {
		log.Printf("[store] archive source missing: %s", path)
		return "", false
	}

	dir := filepath.Join(s.UserDir(user), "archive", tier)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("[store] archive mkdir %s: %v", dir, err)
		return "", false
	}

	dest := filepath.Join(dir, filepath.Base(path))
	if err := os.Rename(path, dest); err != nil {
		log.Printf("[store] archive move %s: %v", path, err)
		return "", false
	}
	return dest, true
}

// OldArchives returns plaintext archive files older than the given age,
// across all three archive subtrees. Age is judged by mtime; compressed
// artifacts (.gz) are excluded.
func (s *Store) OldArchives(user string, age time.Duration) []string {
	cutoff := time.Now().Add(-age)
	var old []string

	for _, tier := range []string{TierDaily, TierWeekly, TierMonthly} {
		dir := filepath.Join(s.UserDir(user), "archive", tier)
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() || filepath.Ext(e.Name()) != ".md" {
				continue
			}
			info, err := e.Info()
			if err != nil {
				continue
			}
			if info.ModTime().Before(cutoff) {
				old = append(old, filepath.Join(dir, e.Name()))
			}
		}
	}
	return old
}
