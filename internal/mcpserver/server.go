// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the import pipeline and journal for LLM integration via stdio
// transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/inkwell/internal/apperr"
	"github.com/starford/inkwell/internal/datekey"
	"github.com/starford/inkwell/internal/importer"
	"github.com/starford/inkwell/internal/journal"
)

// Server wraps the MCP server with Inkwell tools.
type Server struct {
	mcp *server.MCPServer
	db  journal.Store
	imp *importer.Importer
}

// New creates a new MCP server with all Inkwell tools registered.
func New(db journal.Store, imp *importer.Importer) *Server {
	s := &Server{db: db, imp: imp}

	s.mcp = server.NewMCPServer(
		"Inkwell",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("import_daily_note",
		mcp.WithDescription("Import the handwriting device export for a date into that date's daily note. "+
			"The daily note must already exist in the configured daily notes folder."),
		mcp.WithString("date", mcp.Required(), mcp.Description("Date as YYYYMMDD or YYYY-MM-DD")),
	), s.importDailyNote)

	s.mcp.AddTool(mcp.NewTool("get_import",
		mcp.WithDescription("Return the recorded import outcome for a date."),
		mcp.WithString("date", mcp.Required(), mcp.Description("Date as YYYYMMDD or YYYY-MM-DD")),
	), s.getImport)

	s.mcp.AddTool(mcp.NewTool("list_imports",
		mcp.WithDescription("List the most recent import outcomes, newest first."),
		mcp.WithString("limit", mcp.Description("Maximum number of records (default 50)")),
	), s.listImports)

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

func (s *Server) importDailyNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, res := requireDate(req)
	if res != nil {
		return res, nil
	}
	outcome, err := s.imp.ImportForDate(ctx, date)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(outcome, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, res := requireDate(req)
	if res != nil {
		return res, nil
	}
	rec, err := s.db.Get(datekey.Encode(date))
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("no import recorded for %s", datekey.Encode(date))), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(rec, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listImports(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := 0
	if raw, err := req.RequireString("limit"); err == nil && raw != "" {
		n, convErr := strconv.Atoi(raw)
		if convErr != nil || n < 0 {
			return mcp.NewToolResultError(fmt.Sprintf("invalid limit %q", raw)), nil
		}
		limit = n
	}
	records, err := s.db.List(limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(records, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

// requireDate extracts and parses the "date" argument; on failure the second
// return value is the error result to hand back to the client.
func requireDate(req mcp.CallToolRequest) (date time.Time, errResult *mcp.CallToolResult) {
	raw, err := req.RequireString("date")
	if err != nil {
		return time.Time{}, mcp.NewToolResultError(err.Error())
	}
	if t, ok := datekey.Decode(raw); ok {
		return t, nil
	}
	if t, ok := datekey.ParseDailyNoteName(raw); ok {
		return t, nil
	}
	return time.Time{}, mcp.NewToolResultError(fmt.Sprintf("invalid date %q (want YYYYMMDD or YYYY-MM-DD)", raw))
}
