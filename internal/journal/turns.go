package journal

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

// Append records one turn in today's daily file, creating the user and the
// file as needed, and touches the master-index timestamp. Safe to call for
// a user with no prior history.
func (j *Journal) Append(user, role, text string) error {
	if role != "user" && role != "assistant" {
		return fmt.Errorf("journal: invalid role %q", role)
	}
	if !j.Exists(user) {
		if _, err := j.CreateUser(user, ""); err != nil {
			return err
		}
	}

	now := j.now()
	if err := j.ensureDailyFile(user, now); err != nil {
		return err
	}

	roleName := "User"
	if role == "assistant" {
		roleName = "Assistant"
	}
	entry := fmt.Sprintf("\n### %s - %s\n\n%s\n\n---\n\n",
		roleName, now.Format(timestampLayout), text)

	f, err := os.OpenFile(j.store.DailyPath(user, now), os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("journal: open daily file: %w", err)
	}
	if _, err := f.WriteString(entry); err != nil {
		f.Close()
		return fmt.Errorf("journal: append turn: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("journal: close daily file: %w", err)
	}

	j.touchIndex(user)
	return nil
}

// ReadRecent returns up to maxTurns turns from the last lookbackDays days,
// in chronological order. Daily files are scanned newest-first and the scan
// stops once enough turns are collected.
func (j *Journal) ReadRecent(user string, maxTurns, lookbackDays int) []Turn {
	if !j.Exists(user) {
		return nil
	}
	if lookbackDays <= 0 {
		lookbackDays = 7
	}

	end := j.now()
	start := end.AddDate(0, 0, -lookbackDays)

	var collected []Turn
	for _, df := range j.store.ListDaily(user, start.Truncate(24*time.Hour), end) {
		content, err := os.ReadFile(df.Path)
		if err != nil {
			log.Printf("[journal] read %s: %v", df.Path, err)
			continue
		}
		turns, skipped := ParseTurns(string(content))
		for _, reason := range skipped {
			log.Printf("[journal] %s: skipped block: %s", df.Path, reason)
		}

		// Newest file first, so prepend to keep chronological order.
		collected = append(turns, collected...)
		if len(collected) >= maxTurns {
			break
		}
	}

	if len(collected) > maxTurns {
		collected = collected[len(collected)-maxTurns:]
	}
	return collected
}

// touchIndex rewrites the "Last updated:" line of the master index.
// Best effort; a missing index is ignored.
func (j *Journal) touchIndex(user string) {
	path := j.store.IndexPath(user)
	content, err := os.ReadFile(path)
	if err != nil {
		return
	}

	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "Last updated:") {
			lines[i] = "Last updated: " + j.now().Format(timestampLayout)
			break
		}
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		log.Printf("[journal] touch index for %s: %v", user, err)
	}
}
