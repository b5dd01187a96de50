// Package mcpserver exposes the flashcard bridge as MCP tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vytor/ankibridge/internal/bridge"
	"github.com/vytor/ankibridge/internal/logger"
)

// Caller runs named bridge methods.
type Caller interface {
	Call(ctx context.Context, method string, args bridge.Args) (any, error)
}

// Server wraps the MCP server with the flashcard tools.
type Server struct {
	mcp    *server.MCPServer
	bridge Caller
}

// New creates a new MCP server with all flashcard tools registered.
func New(b Caller, version string) *Server {
	s := &Server{bridge: b}

	s.mcp = server.NewMCPServer(
		"ankibridge",
		version,
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(mcp.NewTool("anki_status",
		mcp.WithDescription("Report whether AnkiDroid is installed and its card provider is reachable."),
	), s.status)

	s.mcp.AddTool(mcp.NewTool("anki_list_decks",
		mcp.WithDescription("List decks with their learn, review and new card counts."),
	), s.listDecks)

	s.mcp.AddTool(mcp.NewTool("anki_new_cards",
		mcp.WithDescription("List today's new cards of a deck in review order."),
		mcp.WithNumber("deckId", mcp.Required(), mcp.Description("Deck id")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of cards (default 20, at most 1000)")),
	), s.newCards)

	s.mcp.AddTool(mcp.NewTool("anki_append_field",
		mcp.WithDescription("Append generated text to one field of a note. "+
			"The text is followed by a marker; notes whose field already carries the marker are skipped."),
		mcp.WithNumber("noteId", mcp.Required(), mcp.Description("Note id")),
		mcp.WithNumber("modelId", mcp.Required(), mcp.Description("Note type id the note belongs to")),
		mcp.WithString("targetFieldKey", mcp.Required(), mcp.Description("Field name, matched case-insensitively")),
		mcp.WithString("generatedText", mcp.Required(), mcp.Description("Text to append")),
		mcp.WithString("marker", mcp.Description("Idempotency marker (default 1122)")),
	), s.appendField)

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

func (s *Server) status(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.run(ctx, bridge.MethodGetStatus, nil), nil
}

func (s *Server) listDecks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.run(ctx, bridge.MethodGetDecks, nil), nil
}

func (s *Server) newCards(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if _, err := req.RequireFloat("deckId"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.run(ctx, bridge.MethodGetTodayNewCards, bridge.Args(req.GetArguments())), nil
}

func (s *Server) appendField(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	for _, key := range []string{"noteId", "modelId"} {
		if _, err := req.RequireFloat(key); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	return s.run(ctx, bridge.MethodAppendToNoteField, bridge.Args(req.GetArguments())), nil
}

// run calls the bridge and renders the result, or the failure triple, as JSON.
func (s *Server) run(ctx context.Context, method string, args bridge.Args) *mcp.CallToolResult {
	log := logger.FromContext(ctx).WithPrefix("mcp")

	res, err := s.bridge.Call(ctx, method, args)
	if err != nil {
		failure := bridge.FailureOf(err)
		log.Warn("%s failed: %s", method, failure.Code)
		out, _ := json.MarshalIndent(failure, "", "  ")
		return mcp.NewToolResultError(string(out))
	}
	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}
