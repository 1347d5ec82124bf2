package journal

import (
	"strings"
	"time"
)

// Turn is one reconstructed conversation turn.
type Turn struct {
	Role      string // "user" or "assistant"
	Content   string
	Timestamp time.Time
}

// Role header prefixes in the daily-file block grammar.
const (
	userHeader      = "### User - "
	assistantHeader = "### Assistant - "
)

// ParseTurns reconstructs turns from daily-file text. The grammar is
// line-prefix delimited: a role header ("### User - <timestamp>" or
// "### Assistant - <timestamp>") opens a block; body lines follow until the
// next header; "---" separators and other markdown headers are structural
// and discarded. Malformed blocks are skipped with a reason, never an
// error: files may have been trimmed concurrently by the scheduler.
func ParseTurns(content string) (turns []Turn, skipped []string) {
	var (
		role string
		ts   time.Time
		body []string
		open bool
	)

	flush := func() {
		if !open {
			return
		}
		text := strings.TrimSpace(strings.Join(body, "\n"))
		if text == "" {
			skipped = append(skipped, "empty block for role "+role)
		} else {
			turns = append(turns, Turn{Role: role, Content: text, Timestamp: ts})
		}
		open = false
		body = nil
	}

	for _, line := range strings.Split(content, "\n") {
		switch {
		case strings.HasPrefix(line, userHeader):
			flush()
			role, ts = "user", parseHeaderTime(line, userHeader)
			open = true
		case strings.HasPrefix(line, assistantHeader):
			flush()
			role, ts = "assistant", parseHeaderTime(line, assistantHeader)
			open = true
		case strings.HasPrefix(line, "### "):
			// A role header we do not recognize; whatever follows is not a
			// reconstructible turn.
			flush()
			skipped = append(skipped, "unrecognized header: "+strings.TrimSpace(line))
		case strings.HasPrefix(strings.TrimSpace(line), "---"):
			flush()
		case strings.HasPrefix(line, "#"):
			// Structural markdown header (file title, section), not content.
		default:
			if open && strings.TrimSpace(line) != "" {
				body = append(body, line)
			}
		}
	}
	flush()

	return turns, skipped
}

// parseHeaderTime extracts the timestamp from a role header line.
// A malformed timestamp yields the zero time; the turn is still kept.
func parseHeaderTime(line, prefix string) time.Time {
	raw := strings.TrimSpace(strings.TrimPrefix(line, prefix))
	t, err := time.Parse(timestampLayout, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
