package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/chronomem/chronomem/internal/scorer"
)

func (s *Server) handleAppendTurn(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	user, err := req.RequireString("user")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: user"), nil
	}
	role, err := req.RequireString("role")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: role"), nil
	}
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: text"), nil
	}

	if appendErr := s.journal.Append(user, role, text); appendErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to append turn: %v", appendErr)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Turn recorded in today's log for %s.", user)), nil
}

func (s *Server) handleGetContext(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	user, err := req.RequireString("user")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: user"), nil
	}
	query := req.GetString("query", "")

	loaded, err := s.loader.Load(ctx, user, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to build context: %v", err)), nil
	}
	return mcp.NewToolResultText(loaded.Format()), nil
}

func (s *Server) handleScoreSnippet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snippet, err := req.RequireString("snippet")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: snippet"), nil
	}
	user := req.GetString("user", "")

	sc := scorer.SnippetContext{}
	if user != "" {
		sc.FrequencyCount = s.mentionCount(user, snippet)
	}

	verdict := s.scorer.Score(ctx, snippet, sc)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Score: %d/%d\n", verdict.Total, scorer.MaxTotal)
	fmt.Fprintf(&sb, "  frequency %d, recency %d, explicit %d, relevance %d\n",
		verdict.Frequency, verdict.Recency, verdict.Explicit, verdict.Relevance)
	fmt.Fprintf(&sb, "Reasoning: %s\n", verdict.Reasoning)
	fmt.Fprintf(&sb, "Retention: %s\n", verdict.Retention)
	return mcp.NewToolResultText(sb.String()), nil
}

// mentionCount counts recent turns containing the snippet text, giving the
// scorer its frequency signal.
func (s *Server) mentionCount(user, snippet string) int {
	needle := strings.ToLower(strings.TrimSpace(snippet))
	if needle == "" {
		return 0
	}
	count := 0
	for _, turn := range s.journal.ReadRecent(user, 500, 30) {
		if strings.Contains(strings.ToLower(turn.Content), needle) {
			count++
		}
	}
	return count
}

func (s *Server) handleMemoryStats(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	user, err := req.RequireString("user")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: user"), nil
	}

	st := s.store.UserStats(user)
	if !st.Exists {
		return mcp.NewToolResultError(fmt.Sprintf("no memory found for user %s", user)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Memory for %s\n", user)
	fmt.Fprintf(&sb, "  daily:      %d files\n", st.DailyFiles)
	fmt.Fprintf(&sb, "  weekly:     %d files\n", st.WeeklyFiles)
	fmt.Fprintf(&sb, "  monthly:    %d files\n", st.MonthlyFiles)
	fmt.Fprintf(&sb, "  yearly:     %d files\n", st.YearlyFiles)
	fmt.Fprintf(&sb, "  archived:   %d plain, %d compressed\n", st.ArchivedFiles, st.CompressedFiles)
	fmt.Fprintf(&sb, "  size:       %.2f MB total, %.2f MB daily\n", st.TotalMB(), st.DailyMB())
	return mcp.NewToolResultText(sb.String()), nil
}
