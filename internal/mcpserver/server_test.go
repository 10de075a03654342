package mcpserver

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/ansuz/internal/analyzer"
	"github.com/starford/ansuz/internal/graphcfg"
	"github.com/starford/ansuz/internal/testutil"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	root, store := testutil.TestGraph(t)
	db := testutil.TestDB(t)

	testutil.WriteFile(t, root, "journals/2024_01_01.md", "- day one\n")
	testutil.WriteFile(t, root, "journals/2024_01_03.md", "- day three\n")
	testutil.WriteFile(t, root, "pages/alpha.md", "- see [[ghost]] #todo\n")

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	a := analyzer.New(graphcfg.Defaults(), logger)
	if _, err := a.Run(store, db); err != nil {
		t.Fatalf("Run: %v", err)
	}

	return New(store, db)
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go exposes no direct "call tool" test helper, so the handler
	// functions are invoked directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "get_summary":
		result, err = srv.getSummary(ctx, req)
	case "get_timeline":
		result, err = srv.getTimeline(ctx, req)
	case "list_dangling_links":
		result, err = srv.listDangling(ctx, req)
	case "search_elements":
		result, err = srv.searchElements(ctx, req)
	case "read_file":
		result, err = srv.readFile(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestGetSummary(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "get_summary", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, `"total_files": 3`) {
		t.Errorf("summary = %q, want total_files 3", text)
	}
}

func TestGetTimeline(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "get_timeline", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, "2024-01-02\tmissing") {
		t.Errorf("timeline = %q, want the gap day marked missing", text)
	}
}

func TestListDanglingLinks(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "list_dangling_links", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, "ghost") {
		t.Errorf("dangling = %q, want ghost", text)
	}
}

func TestSearchElements(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "search_elements", map[string]interface{}{"query": "ghost"})
	text := resultText(r)
	if !strings.Contains(text, "ghost") {
		t.Errorf("search = %q, want a ghost hit", text)
	}
}

func TestReadFile(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "read_file", map[string]interface{}{"path": "pages/alpha.md"})
	if text := resultText(r); !strings.Contains(text, "[[ghost]]") {
		t.Errorf("read = %q", text)
	}

	r = callTool(t, srv, "read_file", map[string]interface{}{"path": "pages/nope.md"})
	if !r.IsError {
		t.Error("expected error for missing file")
	}
}
