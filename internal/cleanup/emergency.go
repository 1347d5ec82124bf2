package cleanup

import (
	"context"
	"errors"
	"log"

	"github.com/chronomem/chronomem/internal/store"
	"github.com/chronomem/chronomem/internal/summarize"
)

// sizeTriggered reports whether a user's footprint breaches either the total
// ceiling or the daily-folder ceiling.
func (s *Scheduler) sizeTriggered(user string) bool {
	st := s.store.UserStats(user)
	if !st.Exists {
		return false
	}
	if st.TotalMB() > float64(s.cfg.MaxTotalSizeMB) {
		log.Printf("[cleanup] user %s over total ceiling (%.1f MB > %d MB)",
			user, st.TotalMB(), s.cfg.MaxTotalSizeMB)
		return true
	}
	if st.DailyMB() > float64(s.cfg.MaxDailyFolderSizeMB) {
		log.Printf("[cleanup] user %s over daily ceiling (%.1f MB > %d MB)",
			user, st.DailyMB(), s.cfg.MaxDailyFolderSizeMB)
		return true
	}
	return false
}

// Emergency force-compacts the oldest daily files when size ceilings are
// breached. Unlike the regular weekly pass it ignores the age and protected
// windows: up to five of the oldest daily files are summarized into the
// weekly file keyed by the newest of them, then archived. Requires at
// least three daily files; with fewer there is nothing meaningful to compact.
func (s *Scheduler) Emergency(ctx context.Context, user string, stats *Stats) bool {
	files := s.store.ListDaily(user, zeroTime, zeroTime)
	if len(files) < 3 {
		log.Printf("[cleanup] emergency compaction for %s skipped: only %d daily files", user, len(files))
		return false
	}

	// ListDaily is newest-first, so the oldest files sit at the tail.
	n := 5
	if len(files) < n {
		n = len(files)
	}
	oldest := files[len(files)-n:]

	// The slice keeps ListDaily's newest-first order, so oldest[0] is the
	// newest of the compacted files and supplies the digest's week key.
	year, week := oldest[0].Date.ISOWeek()
	target := s.store.WeeklyPath(user, year, week)

	log.Printf("[cleanup] emergency compaction for %s: %d daily files into %d-W%02d",
		user, len(oldest), year, week)

	if err := s.sum.Weekly(ctx, oldest, target, week, year); err != nil {
		if errors.Is(err, summarize.ErrTargetExists) {
			log.Printf("[cleanup] emergency compaction for %s: %d-W%02d already exists", user, year, week)
		} else {
			log.Printf("[cleanup] emergency compaction for %s failed: %v", user, err)
			stats.Errors++
		}
		return false
	}
	stats.WeeklySummaries++

	for _, df := range oldest {
		if _, ok := s.store.Archive(df.Path, user, store.TierDaily); ok {
			stats.Archived++
		}
	}
	return true
}
