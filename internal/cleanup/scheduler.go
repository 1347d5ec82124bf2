// Package cleanup is the daily batch orchestrator: it walks all users and
// applies tier promotions in strict order (trim → weekly → monthly →
// compress → yearly → size check), escalating to emergency compaction when
// size ceilings are breached.
package cleanup

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/chronomem/chronomem/internal/config"
	"github.com/chronomem/chronomem/internal/store"
	"github.com/chronomem/chronomem/internal/summarize"
)

// Stats aggregates counters across one batch run, for observability.
type Stats struct {
	ProcessedUsers   int
	SoftTrimmed      int
	WeeklySummaries  int
	MonthlySummaries int
	YearlySummaries  int
	Archived         int
	Compressed       int
	Errors           int
}

// String renders the counters for batch-run logs.
func (st Stats) String() string {
	return fmt.Sprintf("users=%d trims=%d weekly=%d monthly=%d yearly=%d archived=%d compressed=%d errors=%d",
		st.ProcessedUsers, st.SoftTrimmed, st.WeeklySummaries, st.MonthlySummaries,
		st.YearlySummaries, st.Archived, st.Compressed, st.Errors)
}

func (st *Stats) add(u Stats) {
	st.SoftTrimmed += u.SoftTrimmed
	st.WeeklySummaries += u.WeeklySummaries
	st.MonthlySummaries += u.MonthlySummaries
	st.YearlySummaries += u.YearlySummaries
	st.Archived += u.Archived
	st.Compressed += u.Compressed
	st.Errors += u.Errors
}

// Scheduler runs the per-user cleanup state machine.
type Scheduler struct {
	cfg   config.CleanupConfig
	store *store.Store
	sum   *summarize.Summarizer
	now   func() time.Time
}

// New creates a Scheduler.
func New(cfg config.CleanupConfig, st *store.Store, sum *summarize.Summarizer) *Scheduler {
	return &Scheduler{cfg: cfg, store: st, sum: sum, now: time.Now}
}

// SetClock overrides the scheduler's notion of "now". Test hook.
func (s *Scheduler) SetClock(now func() time.Time) { s.now = now }

// RunAll processes every given user (all users when the slice is nil). A
// failure in one user is counted and logged, never fatal to the batch. The
// optional progress callback fires before each user.
func (s *Scheduler) RunAll(ctx context.Context, users []string, progress func(user string)) Stats {
	var stats Stats

	if users == nil {
		var err error
		users, err = s.store.Users()
		if err != nil {
			log.Printf("[cleanup] list users: %v", err)
			return stats
		}
	}

	log.Printf("[cleanup] starting daily cleanup for %d users", len(users))
	for _, user := range users {
		if progress != nil {
			progress(user)
		}
		userStats := s.runUserIsolated(ctx, user)
		stats.ProcessedUsers++
		stats.add(userStats)
	}
	log.Printf("[cleanup] finished: %s", stats.String())

	return stats
}

// runUserIsolated is the catch-all boundary: nothing below it propagates,
// including panics from a corrupt user directory.
func (s *Scheduler) runUserIsolated(ctx context.Context, user string) (stats Stats) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[cleanup] panic processing user %s: %v", user, r)
			stats.Errors++
		}
	}()
	return s.RunUser(ctx, user)
}

// RunUser executes all passes for one user in the required order. Each pass
// is independent; a failure in one never blocks the next.
func (s *Scheduler) RunUser(ctx context.Context, user string) Stats {
	var stats Stats

	if !s.store.HasLayout(user) {
		return stats
	}

	stats.SoftTrimmed = s.softTrimPass(ctx, user, &stats)

	created, archived := s.weeklyPass(ctx, user, &stats)
	stats.WeeklySummaries = created
	stats.Archived += archived

	created, archived = s.monthlyPass(ctx, user, &stats)
	stats.MonthlySummaries = created
	stats.Archived += archived

	stats.Compressed = s.compressPass(user, &stats)

	stats.YearlySummaries = s.yearlyPass(user, &stats)

	if s.sizeTriggered(user) {
		s.Emergency(ctx, user, &stats)
	}

	return stats
}

// softTrimPass trims daily files older than the trim age, outside the
// protected window, and not already below the trimmed-size threshold.
func (s *Scheduler) softTrimPass(ctx context.Context, user string, stats *Stats) int {
	now := s.now()
	cutoff := now.AddDate(0, 0, -s.cfg.SoftTrimAfterDays)
	protected := now.AddDate(0, 0, -s.cfg.ProtectedRecentDays)

	count := 0
	for _, df := range s.store.ListDaily(user, zeroTime, zeroTime) {
		if df.Date.After(cutoff) || df.Date.After(protected) {
			continue
		}
		info, err := os.Stat(df.Path)
		if err != nil {
			continue
		}
		if info.Size() < int64(s.cfg.TrimmedSizeBytes) {
			continue
		}
		if err := s.sum.SoftTrim(ctx, df.Path); err != nil {
			log.Printf("[cleanup] soft trim %s: %v", df.Path, err)
			stats.Errors++
			continue
		}
		count++
	}
	return count
}

// weekKey identifies one ISO week.
type weekKey struct {
	year int
	week int
}

// weeklyPass promotes complete, sufficiently old ISO weeks of daily files
// into weekly digests and archives the sources.
func (s *Scheduler) weeklyPass(ctx context.Context, user string, stats *Stats) (created, archived int) {
	files := s.store.ListDaily(user, zeroTime, zeroTime)
	if len(files) == 0 {
		return 0, 0
	}

	weeks := make(map[weekKey][]store.DailyFile)
	for _, df := range files {
		y, w := df.Date.ISOWeek()
		k := weekKey{year: y, week: w}
		weeks[k] = append(weeks[k], df)
	}

	now := s.now()
	cutoff := now.AddDate(0, 0, -s.cfg.WeeklyAfterDays)
	protected := now.AddDate(0, 0, -s.cfg.ProtectedRecentDays)

	for k, group := range weeks {
		newest := group[0].Date
		for _, df := range group {
			if df.Date.After(newest) {
				newest = df.Date
			}
		}
		// The whole week must be outside both the promotion age and the
		// protected window.
		if newest.After(cutoff) || newest.After(protected) {
			continue
		}
		if len(group) < 5 {
			continue
		}

		target := s.store.WeeklyPath(user, k.year, k.week)
		if _, err := os.Stat(target); err == nil {
			continue
		}

		if err := s.sum.Weekly(ctx, group, target, k.week, k.year); err != nil {
			if !errors.Is(err, summarize.ErrTargetExists) {
				log.Printf("[cleanup] weekly digest %d-W%02d for %s: %v", k.year, k.week, user, err)
				stats.Errors++
			}
			continue
		}
		created++

		for _, df := range group {
			if _, ok := s.store.Archive(df.Path, user, store.TierDaily); ok {
				archived++
			}
		}
	}
	return created, archived
}

// monthKey identifies one approximate month bucket.
type monthKey struct {
	year  int
	month int
}

// monthlyPass promotes weekly digests into monthly digests. Weeks are
// bucketed four to a month (week 1-4 → month 1, and so on, capped at 12);
// the fifth week of a calendar month can land in the neighbouring bucket.
func (s *Scheduler) monthlyPass(ctx context.Context, user string, stats *Stats) (created, archived int) {
	months := make(map[monthKey][]store.WeeklyFile)
	for _, wf := range s.store.ListWeekly(user) {
		month := ((wf.Week - 1) / 4) + 1
		if month > 12 {
			month = 12
		}
		k := monthKey{year: wf.Year, month: month}
		months[k] = append(months[k], wf)
	}

	cutoff := s.now().AddDate(0, 0, -s.cfg.MonthlyAfterDays)

	for k, group := range months {
		if len(group) < 4 {
			continue
		}
		firstOfMonth := time.Date(k.year, time.Month(k.month), 1, 0, 0, 0, 0, time.UTC)
		if firstOfMonth.After(cutoff) {
			continue
		}

		target := s.store.MonthlyPath(user, k.year, k.month)
		if _, err := os.Stat(target); err == nil {
			continue
		}

		paths := make([]string, len(group))
		for i, wf := range group {
			paths[i] = wf.Path
		}
		if err := s.sum.Monthly(ctx, paths, target, k.month, k.year); err != nil {
			if !errors.Is(err, summarize.ErrTargetExists) {
				log.Printf("[cleanup] monthly digest %d-%02d for %s: %v", k.year, k.month, user, err)
				stats.Errors++
			}
			continue
		}
		created++

		for _, wf := range group {
			if _, ok := s.store.Archive(wf.Path, user, store.TierWeekly); ok {
				archived++
			}
		}
	}
	return created, archived
}

// compressPass gzips archived plaintext files older than the compression
// age.
func (s *Scheduler) compressPass(user string, stats *Stats) int {
	age := time.Duration(s.cfg.CompressAfterDays) * 24 * time.Hour

	count := 0
	for _, path := range s.store.OldArchives(user, age) {
		if _, err := store.Compress(path); err != nil {
			log.Printf("[cleanup] compress %s: %v", path, err)
			stats.Errors++
			continue
		}
		count++
	}
	return count
}

// yearlyPass builds yearly summaries for fully elapsed years with at least
// 10 monthly digests. Monthly inputs are not archived; they remain the
// long-term record.
func (s *Scheduler) yearlyPass(user string, stats *Stats) int {
	years := make(map[int][]string)
	for _, mf := range s.store.ListMonthly(user) {
		years[mf.Year] = append(years[mf.Year], mf.Path)
	}

	currentYear := s.now().Year()

	count := 0
	for year, paths := range years {
		if year >= currentYear {
			continue
		}
		if len(paths) < 10 {
			continue
		}

		target := s.store.YearlyPath(user, year)
		if _, err := os.Stat(target); err == nil {
			continue
		}

		if err := s.sum.Yearly(paths, target, year); err != nil {
			if !errors.Is(err, summarize.ErrTargetExists) {
				log.Printf("[cleanup] yearly summary %d for %s: %v", year, user, err)
				stats.Errors++
			}
			continue
		}
		count++
	}
	return count
}

// zeroTime means "unbounded" when passed to store listing calls.
var zeroTime time.Time
