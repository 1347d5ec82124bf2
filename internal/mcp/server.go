// Package mcp exposes the memory engine as an MCP stdio server, so agent
// frontends can append turns, assemble context, and score snippets over the
// Model Context Protocol.
package mcp

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/chronomem/chronomem/internal/config"
	"github.com/chronomem/chronomem/internal/journal"
	"github.com/chronomem/chronomem/internal/loader"
	"github.com/chronomem/chronomem/internal/scorer"
	"github.com/chronomem/chronomem/internal/store"
)

// Server wires the memory components into MCP tool handlers.
type Server struct {
	cfg     config.Config
	store   *store.Store
	journal *journal.Journal
	loader  *loader.Loader
	scorer  *scorer.Scorer
}

// NewServer creates the MCP server facade over an opened store.
func NewServer(cfg config.Config, st *store.Store, j *journal.Journal, l *loader.Loader, sc *scorer.Scorer) *Server {
	return &Server{cfg: cfg, store: st, journal: j, loader: l, scorer: sc}
}

// Serve registers all tools and blocks serving MCP over stdio.
func (s *Server) Serve(version string) error {
	srv := server.NewMCPServer("chronomem", version,
		server.WithToolCapabilities(false),
	)

	srv.AddTool(mcp.NewTool("append_turn",
		mcp.WithDescription("Append one conversation turn to a user's daily memory log."),
		mcp.WithString("user", mcp.Required(), mcp.Description("User ID the turn belongs to")),
		mcp.WithString("role", mcp.Required(), mcp.Description("Turn author: user or assistant")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Turn content")),
	), s.handleAppendTurn)

	srv.AddTool(mcp.NewTool("get_context",
		mcp.WithDescription("Assemble the token-budgeted memory context for a user query."),
		mcp.WithString("user", mcp.Required(), mcp.Description("User ID to load memory for")),
		mcp.WithString("query", mcp.Description("Current query; drives relevance selection when long enough")),
	), s.handleGetContext)

	srv.AddTool(mcp.NewTool("score_snippet",
		mcp.WithDescription("Score a conversation snippet's long-term importance (0-10) with a retention recommendation."),
		mcp.WithString("snippet", mcp.Required(), mcp.Description("Snippet to score")),
		mcp.WithString("user", mcp.Description("User ID, used to derive mention frequency")),
	), s.handleScoreSnippet)

	srv.AddTool(mcp.NewTool("memory_stats",
		mcp.WithDescription("Report file counts and sizes across a user's memory tiers."),
		mcp.WithString("user", mcp.Required(), mcp.Description("User ID to report on")),
	), s.handleMemoryStats)

	if err := server.ServeStdio(srv); err != nil {
		return fmt.Errorf("mcp: serve: %w", err)
	}
	return nil
}
