// Package loader assembles the memory context handed to the agent for one
// query: the master index and preferences always, recent daily files within
// a short lookback, and query-relevant historical files chosen by the
// completion service, all under a hard token budget.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chronomem/chronomem/internal/adapter"
	"github.com/chronomem/chronomem/internal/config"
	"github.com/chronomem/chronomem/internal/store"
)

// Files below this remaining budget are never loaded; a context that tight
// is better left to the always-included core.
const minRemainingTokens = 1000

// Queries at or below this length carry too little signal for relevance
// selection.
const minQueryLen = 10

// Candidate caps per tier for the selection prompt.
const (
	maxDailyCandidates   = 30
	maxWeeklyCandidates  = 12
	maxMonthlyCandidates = 6
)

// LoadedFile is one file included in the assembled context.
type LoadedFile struct {
	Path   string
	Label  string
	Tokens int
	Body   string
}

// Context is the assembled memory context for one query.
type Context struct {
	User       string
	Index      *LoadedFile
	Prefs      *LoadedFile
	Recent     []LoadedFile
	Historical []LoadedFile
	UsedTokens int
	Budget     int
}

// Loader assembles contexts. The completion client may be nil, in which case
// historical selection is skipped and only the deterministic core is loaded.
type Loader struct {
	cfg   config.ContextConfig
	store *store.Store
	llm   adapter.Client
	now   func() time.Time
}

// New creates a Loader.
func New(cfg config.ContextConfig, st *store.Store, llm adapter.Client) *Loader {
	return &Loader{cfg: cfg, store: st, llm: llm, now: time.Now}
}

// SetClock overrides the loader's notion of "now". Test hook.
func (l *Loader) SetClock(now func() time.Time) { l.now = now }

// tokens estimates the token cost of text by character count. The estimate
// only has to be stable and conservative, not exact.
func (l *Loader) tokens(text string) int {
	ratio := l.cfg.CharsPerToken
	if ratio <= 0 {
		ratio = 4
	}
	return len(text) / ratio
}

// errOverBudget marks a readable file whose whole-file cost exceeds the
// remaining budget. Callers treat it differently from a read failure.
var errOverBudget = errors.New("loader: file exceeds remaining budget")

// load reads a file whole-or-nothing under the remaining budget.
func (l *Loader) load(path, label string, remaining int) (LoadedFile, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return LoadedFile{}, err
	}
	cost := l.tokens(string(body))
	if cost > remaining {
		log.Printf("[loader] %s does not fit: %d tokens over remaining budget %d", label, cost, remaining)
		return LoadedFile{}, errOverBudget
	}
	return LoadedFile{Path: path, Label: label, Tokens: cost, Body: string(body)}, nil
}

// Load assembles the context for one user query. The query may be empty;
// relevance selection only runs for queries longer than a few words' worth
// of characters.
func (l *Loader) Load(ctx context.Context, user, query string) (*Context, error) {
	if !l.store.HasLayout(user) {
		return nil, fmt.Errorf("loader: no memory for user %s", user)
	}

	budget := l.cfg.MaxMemoryTokens
	if budget <= 0 {
		budget = 64000
	}
	out := &Context{User: user, Budget: budget}
	remaining := budget

	// The master index and preferences are the always-included core.
	if f, err := l.load(l.store.IndexPath(user), "master index", remaining); err == nil {
		out.Index = &f
		remaining -= f.Tokens
	}
	if f, err := l.load(l.store.PreferencesPath(user), "preferences", remaining); err == nil {
		out.Prefs = &f
		remaining -= f.Tokens
	}

	// Recent daily files within the lookback, newest first.
	start := l.now().AddDate(0, 0, -l.cfg.RecentDays)
	recent := l.store.ListDaily(user, start, time.Time{})
	for i, df := range recent {
		if i >= l.cfg.MaxRecentFiles {
			break
		}
		if remaining < minRemainingTokens {
			break
		}
		if f, err := l.load(df.Path, df.Date.Format("2006-01-02"), remaining); err == nil {
			out.Recent = append(out.Recent, f)
			remaining -= f.Tokens
		}
	}

	// Query-relevant historical files, on top of the core. Selection is
	// ordered most relevant first, so the first file that does not fit ends
	// the augmentation; loading a less relevant file in its place would
	// invert the ranking.
	if len(query) > minQueryLen && l.llm != nil && remaining >= minRemainingTokens {
		for _, path := range l.selectRelevant(ctx, user, query) {
			if remaining < minRemainingTokens {
				break
			}
			f, err := l.load(path, filepath.Base(path), remaining)
			if errors.Is(err, errOverBudget) {
				break
			}
			if err != nil {
				continue
			}
			out.Historical = append(out.Historical, f)
			remaining -= f.Tokens
		}
	}

	out.UsedTokens = budget - remaining
	return out, nil
}

const selectionPrompt = `A user asks the following question:

"%s"

Available memory files (newest first):

Daily logs:
%s

Weekly digests:
%s

Monthly digests:
%s

Which of these files are most likely to contain information relevant to the question? Reply ONLY with a JSON array of the chosen filenames, most relevant first, at most 5 entries. Reply with [] when none look relevant.`

// selectRelevant asks the completion service which archived files relate to
// the query. Any failure degrades to selecting nothing.
func (l *Loader) selectRelevant(ctx context.Context, user, query string) []string {
	daily := l.store.ListDaily(user, time.Time{}, time.Time{})
	weekly := l.store.ListWeekly(user)
	monthly := l.store.ListMonthly(user)

	var dailyNames, weeklyNames, monthlyNames []string
	byName := make(map[string]string)

	for i, df := range daily {
		if i >= maxDailyCandidates {
			break
		}
		name := filepath.Base(df.Path)
		dailyNames = append(dailyNames,
			fmt.Sprintf("- %s (%s)", name, df.Date.Format("2006-01-02")))
		byName[name] = df.Path
	}
	for i, wf := range weekly {
		if i >= maxWeeklyCandidates {
			break
		}
		name := filepath.Base(wf.Path)
		weeklyNames = append(weeklyNames, "- "+name)
		byName[name] = wf.Path
	}
	for i, mf := range monthly {
		if i >= maxMonthlyCandidates {
			break
		}
		name := filepath.Base(mf.Path)
		monthlyNames = append(monthlyNames, "- "+name)
		byName[name] = mf.Path
	}

	if len(byName) == 0 {
		return nil
	}

	prompt := fmt.Sprintf(selectionPrompt, query,
		orNone(dailyNames), orNone(weeklyNames), orNone(monthlyNames))

	var chosen []string
	err := l.llm.CompleteJSON(ctx, adapter.CompletionRequest{
		Prompt:      prompt,
		MaxTokens:   300,
		Temperature: 0.2,
	}, &chosen)
	if err != nil {
		log.Printf("[loader] relevance selection failed, loading core only: %v", err)
		return nil
	}

	var paths []string
	for _, name := range chosen {
		// Models sometimes echo the date annotation; keep only the filename.
		if i := strings.Index(name, " ("); i >= 0 {
			name = name[:i]
		}
		name = strings.TrimSpace(name)
		if path, ok := byName[name]; ok {
			paths = append(paths, path)
		}
	}
	return paths
}

func orNone(lines []string) string {
	if len(lines) == 0 {
		return "(none)"
	}
	return strings.Join(lines, "\n")
}
