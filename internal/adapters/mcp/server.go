// Package mcp exposes the query pipeline as a Model Context Protocol tool so
// editor agents can look up manual specifications over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Gaurav5289/rag-spec-extraction/internal/core/domain"
	"github.com/Gaurav5289/rag-spec-extraction/internal/core/ports"
)

const toolName = "query_specs"

type Server struct {
	query ports.SpecQueryService
	mcp   *server.MCPServer
}

func NewServer(query ports.SpecQueryService, version string) *Server {
	s := &Server{query: query}

	mcpServer := server.NewMCPServer(
		"spec-extraction",
		version,
		server.WithToolCapabilities(false),
	)
	mcpServer.AddTool(
		mcp.NewTool(toolName,
			mcp.WithDescription("Answer a natural-language question about indexed service manuals and return extracted specifications as JSON."),
			mcp.WithString("query",
				mcp.Required(),
				mcp.Description("The question, e.g. 'what is the caliper bolt torque'"),
			),
		),
		s.handleQuerySpecs,
	)

	s.mcp = mcpServer
	return s
}

// ServeStdio blocks until stdin closes.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) handleQuerySpecs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.query.Answer(ctx, query)
	if err != nil {
		if domain.IsKind(err, domain.ErrExtractionParse) {
			return mcp.NewToolResultText(`{"items": [], "note": "no specifications found"}`), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
	}

	payload, err := json.Marshal(map[string]any{
		"query_type": result.QueryType,
		"items":      result.Items,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}
