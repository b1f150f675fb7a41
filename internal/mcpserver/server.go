// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the vault's metadata tools for LLM integration via stdio
// transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/muninn/internal/apperr"
	"github.com/starford/muninn/internal/models"
	"github.com/starford/muninn/internal/noteservice"
)

// Server wraps the MCP server with note metadata tools.
type Server struct {
	mcp *server.MCPServer
	svc *noteservice.Service
}

// New creates a new MCP server with all tools registered.
func New(svc *noteservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Muninn",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("extract_note",
		mcp.WithDescription("Extract the metadata record (titles, aliases, tags, links, reference keys) of one note."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the note (e.g. topics/note.org)")),
	), s.extractNote)

	s.mcp.AddTool(mcp.NewTool("scan_vault",
		mcp.WithDescription("Extract metadata records for every note in the vault."),
	), s.scanVault)

	s.mcp.AddTool(mcp.NewTool("generate_citekey",
		mcp.WithDescription("Derive a deterministic citation key from author and date strings. "+
			"When either part is missing the result is marked needs_input."),
		mcp.WithString("author", mcp.Description("Author name, free form")),
		mcp.WithString("date", mcp.Description("Publication date, free form")),
	), s.generateCitekey)

	s.mcp.AddTool(mcp.NewTool("fetch_page_metadata",
		mcp.WithDescription("Fetch a web page and return its title, author, and publication date "+
			"together with a suggested citation key. Unreachable pages yield empty fields."),
		mcp.WithString("url", mcp.Required(), mcp.Description("Page URL to fetch")),
	), s.fetchPageMetadata)

	s.mcp.AddTool(mcp.NewTool("list_literature",
		mcp.WithDescription("List every entry of the bibliography."),
	), s.listLiterature)

	s.mcp.AddTool(mcp.NewTool("add_literature",
		mcp.WithDescription("Append an entry to the bibliography. Without an explicit key one is "+
			"derived from author and date; entries whose key cannot be derived are rejected."),
		mcp.WithString("key", mcp.Description("Citation key (derived from author and date when empty)")),
		mcp.WithString("title", mcp.Description("Entry title")),
		mcp.WithString("author", mcp.Description("Author name")),
		mcp.WithString("date", mcp.Description("Publication date")),
		mcp.WithString("type", mcp.Description("Entry type (book, article, ...)")),
		mcp.WithString("tags", mcp.Description("Comma-separated tags")),
		mcp.WithString("url", mcp.Description("Source URL")),
		mcp.WithString("doi", mcp.Description("DOI in any common form")),
	), s.addLiterature)

	s.mcp.AddTool(mcp.NewTool("write_tags",
		mcp.WithDescription("Replace the tag declaration of a note in its own dialect. "+
			"The rest of the note is preserved; see the muninn://note-format resource."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the note")),
		mcp.WithString("tags", mcp.Required(), mcp.Description("Comma-separated tags (empty string clears them)")),
	), s.writeTags)

	s.mcp.AddTool(mcp.NewTool("daily_note",
		mcp.WithDescription("Return today's daily note, creating it when missing."),
	), s.dailyNote)

	// Resource: note format contract.
	s.mcp.AddResource(
		mcp.NewResource("muninn://note-format", "Note Format Contract",
			mcp.WithResourceDescription("Canonical note formats the metadata extractor understands."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readNoteFormatResource,
	)

	return s
}

// Listen serves MCP over the given streams until ctx is done.
func (s *Server) Listen(ctx context.Context, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s.mcp).Listen(ctx, in, out)
}

func (s *Server) extractNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	detail, err := s.svc.Record(ctx, path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(detail)
}

func (s *Server) scanVault(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	results, err := s.svc.ScanAll(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(results)
}

func (s *Server) generateCitekey(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	author := ""
	if a, err := req.RequireString("author"); err == nil {
		author = a
	}
	date := ""
	if d, err := req.RequireString("date"); err == nil {
		date = d
	}
	return jsonResult(s.svc.Citekey(author, date))
}

func (s *Server) fetchPageMetadata(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := req.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	detail, err := s.svc.FetchMetadata(ctx, url)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(detail)
}

func (s *Server) listLiterature(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := s.svc.Literature(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(entries)
}

func (s *Server) addLiterature(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	str := func(name string) string {
		if v, err := req.RequireString(name); err == nil {
			return v
		}
		return ""
	}

	entry := models.LiteratureEntry{
		Key:    str("key"),
		Title:  str("title"),
		Author: str("author"),
		Date:   str("date"),
		Type:   str("type"),
		Tags:   splitList(str("tags")),
	}
	if url := str("url"); url != "" {
		entry.Sources = append(entry.Sources, url)
	}
	if doi := str("doi"); doi != "" {
		entry.Sources = append(entry.Sources, doi)
	}

	added, err := s.svc.AddLiterature(ctx, entry)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("added: %s", added.Key)), nil
}

func (s *Server) writeTags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	raw, err := req.RequireString("tags")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rev, err := s.svc.WriteTags(ctx, path, splitList(raw))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("tags written: %s (rev %s)", path, rev)), nil
}

func (s *Server) dailyNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	detail, created, err := s.svc.Daily(ctx, time.Now())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(struct {
		Created bool `json:"created"`
		*noteservice.RecordDetail
	}{created, detail})
}

func (s *Server) readNoteFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "muninn://note-format",
			MIMEType: "text/markdown",
			Text:     NoteFormatContract,
		},
	}, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
