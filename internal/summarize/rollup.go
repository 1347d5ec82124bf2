package summarize

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/chronomem/chronomem/internal/adapter"
	"github.com/chronomem/chronomem/internal/store"
)

const weeklyPrompt = `Create a structured weekly digest from the following daily conversation logs.

Period: %s to %s (week %d)

Daily logs:
%s

Produce a digest covering:
- Main themes (the 3-5 most important topics)
- Key insights and decisions (project decisions, new findings, strategic considerations)
- Personal events
- Recurring activity (what came up repeatedly)
- Forward-looking context (anything relevant to future conversations)

Focus on high-importance information. Ignore one-off factual queries (TV schedule, weather, and the like). Write flowing prose, no markdown.`

const monthlyPrompt = `Create a monthly digest from the following weekly digests.

Month: %s %d

Weekly digests:
%s

Produce a digest covering:
- Overview (1-2 sentences about the month)
- Key themes (top 3-5 topics)
- Important milestones (finished projects, decisions, achievements)
- Developments and trends (what changed, new interests, progress)
- Essentials for long-term memory (only preferences and truly important insights)

Keep only what matters. No transient facts. Write flowing prose, no markdown.`

// Weekly builds a weekly digest from the given daily files and writes it to
// targetPath with a provenance header. Inputs are consumed in chronological
// order regardless of the order supplied. No file is written when the input
// is empty, nothing is readable, or the target already exists.
func (s *Summarizer) Weekly(ctx context.Context, dailyFiles []store.DailyFile, targetPath string, week, year int) error {
	if len(dailyFiles) == 0 {
		return ErrNoInput
	}
	if _, err := os.Stat(targetPath); err == nil {
		return ErrTargetExists
	}

	files := make([]store.DailyFile, len(dailyFiles))
	copy(files, dailyFiles)
	sort.Slice(files, func(i, j int) bool { return files[i].Date.Before(files[j].Date) })

	var sections []string
	for _, df := range files {
		content, err := os.ReadFile(df.Path)
		if err != nil {
			log.Printf("[summarize] weekly: skipping unreadable %s: %v", df.Path, err)
			continue
		}
		sections = append(sections,
			fmt.Sprintf("## %s\n\n%s\n\n---\n", df.Date.Format("2006-01-02"), content))
	}
	if len(sections) == 0 {
		return ErrNoInput
	}

	startDate := files[0].Date.Format("2006-01-02")
	endDate := files[len(files)-1].Date.Format("2006-01-02")

	prompt := fmt.Sprintf(weeklyPrompt, startDate, endDate, week,
		s.capTokens(strings.Join(sections, "\n")))

	reply, err := s.llm.Complete(ctx, adapter.CompletionRequest{
		Prompt:      prompt,
		MaxTokens:   2000,
		Temperature: 0.4,
	})
	if err != nil {
		return fmt.Errorf("summarize: weekly completion: %w", err)
	}

	content := fmt.Sprintf(`# Weekly digest %d-W%02d

Created: %s
Period: %s to %s
Sources: %d daily files

---

%s

---

Note: this digest is auto-generated. Full detail lives in the archived
daily files.
`, year, week, s.now().Format("2006-01-02 15:04:05"), startDate, endDate,
		len(sections), stripMarkdown(reply))

	if err := writeAtomic(targetPath, content); err != nil {
		return err
	}
	log.Printf("[summarize] wrote weekly digest %s from %d daily files",
		filepath.Base(targetPath), len(sections))
	return nil
}

// Monthly builds a monthly digest from the given weekly digest paths,
// analogous to Weekly one tier up.
func (s *Summarizer) Monthly(ctx context.Context, weeklyPaths []string, targetPath string, month, year int) error {
	if len(weeklyPaths) == 0 {
		return ErrNoInput
	}
	if _, err := os.Stat(targetPath); err == nil {
		return ErrTargetExists
	}

	paths := make([]string, len(weeklyPaths))
	copy(paths, weeklyPaths)
	sort.Strings(paths)

	var sections []string
	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			log.Printf("[summarize] monthly: skipping unreadable %s: %v", p, err)
			continue
		}
		sections = append(sections, string(content))
	}
	if len(sections) == 0 {
		return ErrNoInput
	}

	monthName := time.Month(month).String()
	prompt := fmt.Sprintf(monthlyPrompt, monthName, year,
		s.capTokens(strings.Join(sections, "\n\n---\n\n")))

	reply, err := s.llm.Complete(ctx, adapter.CompletionRequest{
		Prompt:      prompt,
		MaxTokens:   1500,
		Temperature: 0.4,
	})
	if err != nil {
		return fmt.Errorf("summarize: monthly completion: %w", err)
	}

	content := fmt.Sprintf(`# Monthly digest %s %d

Created: %s
Sources: %d weekly digests

---

%s

---

Note: this is a heavily condensed digest. Detail lives in the archived
weekly digests.
`, monthName, year, s.now().Format("2006-01-02 15:04:05"), len(sections),
		stripMarkdown(reply))

	if err := writeAtomic(targetPath, content); err != nil {
		return err
	}
	log.Printf("[summarize] wrote monthly digest %s from %d weekly digests",
		filepath.Base(targetPath), len(sections))
	return nil
}

// Yearly builds a yearly summary as a structural concatenation of the
// monthly digests in chronological order, with a provenance header. No
// completion call is involved at this tier.
func (s *Summarizer) Yearly(monthlyPaths []string, targetPath string, year int) error {
	if len(monthlyPaths) == 0 {
		return ErrNoInput
	}
	if _, err := os.Stat(targetPath); err == nil {
		return ErrTargetExists
	}

	paths := make([]string, len(monthlyPaths))
	copy(paths, monthlyPaths)
	sort.Strings(paths)

	var sections []string
	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			log.Printf("[summarize] yearly: skipping unreadable %s: %v", p, err)
			continue
		}
		sections = append(sections, string(content))
	}
	if len(sections) == 0 {
		return ErrNoInput
	}

	content := fmt.Sprintf(`# Yearly summary %d

Created: %s
Sources: %d monthly digests

---

## Month overview

%s

---

Note: this summary represents the most important events and insights of
%d. The monthly digests remain the long-term record.
`, year, s.now().Format("2006-01-02 15:04:05"), len(sections),
		strings.Join(sections, "\n"), year)

	if err := writeAtomic(targetPath, content); err != nil {
		return err
	}
	log.Printf("[summarize] wrote yearly summary %s from %d monthly digests",
		filepath.Base(targetPath), len(sections))
	return nil
}
