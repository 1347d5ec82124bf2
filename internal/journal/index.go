package journal

import (
	"fmt"
	"os"
	"strings"
)

// maxIndexDays caps the day-link list in the master index.
const maxIndexDays = 30

// RebuildIndex regenerates the master index's conversation-history section
// from the active daily files: a reverse-chronological list of day links
// with per-day turn counts, plus a statistics footer. The pinned
// personal-information section of an existing index is preserved.
func (j *Journal) RebuildIndex(user string) error {
	if !j.Exists(user) {
		return fmt.Errorf("journal: rebuild index: user %s does not exist", user)
	}

	pinned := j.pinnedSection(user)
	ts := j.now().Format(timestampLayout)

	var history strings.Builder
	total := 0
	files := j.store.ListDaily(user, zeroTime, zeroTime)
	for i, df := range files {
		if i >= maxIndexDays {
			break
		}
		count := 0
		if content, err := os.ReadFile(df.Path); err == nil {
			turns, _ := ParseTurns(string(content))
			count = len(turns)
		}
		total += count
		fmt.Fprintf(&history, "### %s - [Details](daily/%s.md)\n\n**Turns:** %d\n\n",
			df.Date.Format("2006-01-02"), df.Date.Format("20060102"), count)
	}

	index := fmt.Sprintf(`# Long-term memory for User %s

Created: %s
Last updated: %s

---

%s

---

## Conversation History (newest first)

%s---

## Statistics

- Daily files: %d
- Total conversations: %d
`, user, ts, ts, pinned, history.String(), len(files), total)

	if err := os.WriteFile(j.store.IndexPath(user), []byte(index), 0o644); err != nil {
		return fmt.Errorf("journal: rebuild index: %w", err)
	}
	return nil
}

// pinnedSection extracts the "Important Personal Information" section from
// the existing index so a rebuild never loses pinned content.
func (j *Journal) pinnedSection(user string) string {
	fallback := "## Important Personal Information\n\n(Nothing recorded yet)\n"

	content, err := os.ReadFile(j.store.IndexPath(user))
	if err != nil {
		return fallback
	}
	text := string(content)

	start := strings.Index(text, "## Important Personal Information")
	if start < 0 {
		return fallback
	}
	rest := text[start:]
	if end := strings.Index(rest, "\n---"); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest) + "\n"
}
