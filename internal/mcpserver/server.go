// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes graph analysis tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/ansuz/internal/api"
	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/storage"
)

// Server wraps the MCP server with read-only analysis tools.
type Server struct {
	mcp *server.MCPServer
	svc *api.Service

	store storage.Provider
}

// New creates an MCP server with all analysis tools registered.
func New(store storage.Provider, db *index.DB) *Server {
	s := &Server{svc: api.NewService(store, db), store: store}

	s.mcp = server.NewMCPServer(
		"Ansuz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_summary",
		mcp.WithDescription("Get the graph analysis summary: file counts by type, element counts, journal timeline span, and dangling link totals."),
	), s.getSummary)

	s.mcp.AddTool(mcp.NewTool("get_timeline",
		mcp.WithDescription("Get the reconstructed journal timeline: one entry per calendar day with status present, missing, or filled_by_dangling."),
	), s.getTimeline)

	s.mcp.AddTool(mcp.NewTool("list_dangling_links",
		mcp.WithDescription("List references that resolve to no page in the graph, most-referenced first."),
	), s.listDangling)

	s.mcp.AddTool(mcp.NewTool("search_elements",
		mcp.WithDescription("Search extracted elements (page references, tags, properties, macros) by substring."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchElements)

	s.mcp.AddTool(mcp.NewTool("read_file",
		mcp.WithDescription("Read the raw content of one graph file."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the file (e.g. pages/topic.md)")),
	), s.readFile)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) getSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary, err := s.svc.Summary(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(summary, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getTimeline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rows, err := s.svc.Timeline(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(rows) == 0 {
		return mcp.NewToolResultText("no journal timeline reconstructed"), nil
	}
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = fmt.Sprintf("%s\t%s", r.Date, r.Status)
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) listDangling(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rows, err := s.svc.Dangling(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(rows) == 0 {
		return mcp.NewToolResultText("no dangling links"), nil
	}
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = fmt.Sprintf("%s\t%d", r.Target, r.Count)
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) searchElements(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	hits, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(hits, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.store.Read(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
