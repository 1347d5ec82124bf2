package store

import (
	"io/fs"
	"os"
	"path/filepath"
)

// Stats aggregates file counts and byte sizes across a user's tiers.
type Stats struct {
	Exists          bool
	DailyFiles      int
	WeeklyFiles     int
	MonthlyFiles    int
	YearlyFiles     int
	ArchivedFiles   int
	CompressedFiles int
	TotalBytes      int64
	DailyBytes      int64
}

// TotalMB returns the total size in megabytes.
func (st Stats) TotalMB() float64 { return float64(st.TotalBytes) / (1024 * 1024) }

// DailyMB returns the daily-subtree size in megabytes.
func (st Stats) DailyMB() float64 { return float64(st.DailyBytes) / (1024 * 1024) }

// UserStats walks a user's memory root and returns aggregate counts and
// sizes. A missing root yields Stats{Exists: false}.
func (s *Store) UserStats(user string) Stats {
	root := s.UserDir(user)
	if _, err := os.Stat(root); err != nil {
		return Stats{}
	}

	st := Stats{Exists: true}
	st.DailyFiles = countFiles(filepath.Join(root, "daily"), ".md")
	st.WeeklyFiles = countFiles(filepath.Join(root, "weekly"), ".md")
	st.MonthlyFiles = countFiles(filepath.Join(root, "monthly"), ".md")
	st.YearlyFiles = countFiles(filepath.Join(root, "yearly"), ".md")

	archiveDir := filepath.Join(root, "archive")
	_ = filepath.WalkDir(archiveDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".md":
			st.ArchivedFiles++
		case ".gz":
			st.CompressedFiles++
		}
		return nil
	})

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		st.TotalBytes += info.Size()
		return nil
	})

	_ = filepath.WalkDir(filepath.Join(root, "daily"), func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		st.DailyBytes += info.Size()
		return nil
	})

	return st
}

func countFiles(dir, ext string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ext {
			n++
		}
	}
	return n
}
