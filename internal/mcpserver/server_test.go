package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/muninn/internal/cite"
	"github.com/starford/muninn/internal/noteservice"
	"github.com/starford/muninn/internal/testutil"
	"github.com/starford/muninn/internal/vault"
)

func testServer(t *testing.T) (*Server, vault.Provider) {
	t.Helper()
	_, store := testutil.TestVault(t)
	svc := noteservice.NewService(store, noteservice.Options{DailyDir: "daily"})
	return New(svc), store
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go doesn't expose a direct "call tool" test helper, so we test
	// through the tool handler functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "extract_note":
		result, err = srv.extractNote(ctx, req)
	case "scan_vault":
		result, err = srv.scanVault(ctx, req)
	case "generate_citekey":
		result, err = srv.generateCitekey(ctx, req)
	case "list_literature":
		result, err = srv.listLiterature(ctx, req)
	case "add_literature":
		result, err = srv.addLiterature(ctx, req)
	case "write_tags":
		result, err = srv.writeTags(ctx, req)
	case "daily_note":
		result, err = srv.dailyNote(ctx, req)
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

func TestExtractNote(t *testing.T) {
	srv, store := testServer(t)
	_ = store.Write("note.org", []byte("#+title: Hello\n#+tags: a, b\n"))

	r := callTool(t, srv, "extract_note", map[string]interface{}{"path": "note.org"})
	if r.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(r))
	}

	var detail noteservice.RecordDetail
	if err := json.Unmarshal([]byte(resultText(r)), &detail); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if len(detail.Record.Titles) != 1 || detail.Record.Titles[0] != "Hello" {
		t.Errorf("titles = %v", detail.Record.Titles)
	}
	if len(detail.Record.Tags) != 2 {
		t.Errorf("tags = %v", detail.Record.Tags)
	}
}

func TestExtractNoteMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "extract_note", map[string]interface{}{"path": "nope.org"})
	if !r.IsError {
		t.Error("expected error for missing note")
	}
	if !strings.Contains(resultText(r), "not found") {
		t.Errorf("error text = %q", resultText(r))
	}
}

func TestScanVault(t *testing.T) {
	srv, store := testServer(t)
	_ = store.Write("a.org", []byte("#+title: A\n"))
	_ = store.Write("b.md", []byte("# B\n"))

	r := callTool(t, srv, "scan_vault", map[string]interface{}{})
	var results []vault.ScanResult
	if err := json.Unmarshal([]byte(resultText(r)), &results); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("len = %d, want 2", len(results))
	}
}

func TestGenerateCitekey(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "generate_citekey", map[string]interface{}{
		"author": "Jane Doe",
		"date":   "2020-03-15",
	})
	var res cite.KeyResult
	if err := json.Unmarshal([]byte(resultText(r)), &res); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if res.NeedsInput || res.Key != "janedoe20200315" {
		t.Errorf("got %+v", res)
	}

	r = callTool(t, srv, "generate_citekey", map[string]interface{}{"author": "Jane Doe"})
	if err := json.Unmarshal([]byte(resultText(r)), &res); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if !res.NeedsInput {
		t.Error("missing date should need input")
	}
}

func TestAddAndListLiterature(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "add_literature", map[string]interface{}{
		"title":  "A Paper",
		"author": "Jane Doe",
		"date":   "2020-05-01",
		"doi":    "10.1000/xyz123",
	})
	if r.IsError {
		t.Fatalf("add failed: %s", resultText(r))
	}
	if got := resultText(r); got != "added: janedoe20200501" {
		t.Errorf("add result = %q", got)
	}

	r = callTool(t, srv, "list_literature", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, "janedoe20200501") {
		t.Errorf("list should contain the new key: %s", text)
	}
	if !strings.Contains(text, "https://doi.org/10.1000/xyz123") {
		t.Errorf("list should contain the canonical DOI: %s", text)
	}
}

func TestAddLiteratureNeedsInput(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "add_literature", map[string]interface{}{"title": "No key material"})
	if !r.IsError {
		t.Error("expected error when key cannot be derived")
	}
}

func TestWriteTags(t *testing.T) {
	srv, store := testServer(t)
	_ = store.Write("note.org", []byte("#+title: Hello\nBody.\n"))

	r := callTool(t, srv, "write_tags", map[string]interface{}{
		"path": "note.org",
		"tags": "alpha, beta",
	})
	if r.IsError {
		t.Fatalf("write_tags failed: %s", resultText(r))
	}
	if !strings.HasPrefix(resultText(r), "tags written: note.org") {
		t.Errorf("result = %q", resultText(r))
	}

	r = callTool(t, srv, "extract_note", map[string]interface{}{"path": "note.org"})
	var detail noteservice.RecordDetail
	if err := json.Unmarshal([]byte(resultText(r)), &detail); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if got := detail.Record.Tags; len(got) != 2 || got[0] != "alpha" || got[1] != "beta" {
		t.Errorf("tags = %v", got)
	}
}

func TestDailyNote(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "daily_note", map[string]interface{}{})
	if r.IsError {
		t.Fatalf("daily_note failed: %s", resultText(r))
	}
	var res struct {
		Created bool   `json:"created"`
		Path    string `json:"path"`
	}
	if err := json.Unmarshal([]byte(resultText(r)), &res); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if !res.Created {
		t.Error("first call should create the note")
	}
	if !strings.HasPrefix(res.Path, "daily/") || !strings.HasSuffix(res.Path, ".org") {
		t.Errorf("path = %q", res.Path)
	}

	r = callTool(t, srv, "daily_note", map[string]interface{}{})
	if err := json.Unmarshal([]byte(resultText(r)), &res); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if res.Created {
		t.Error("second call should not create")
	}
}
