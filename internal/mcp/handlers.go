package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/govflowai/govchat/internal/intent"
)

// handleSearchKnowledge performs semantic search over the knowledge index.
func (s *Server) handleSearchKnowledge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", 5)
	if limit <= 0 {
		limit = 5
	}

	results, err := s.retriever.Retrieve(ctx, query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("No results found. The knowledge base may be empty; run `govchat index` to build it."), nil
	}

	var sb strings.Builder
	for i, res := range results {
		fmt.Fprintf(&sb, "%d. [%s] (score %.3f)\n%s\n\n", i+1, res.Chunk.Source, res.Score, res.Chunk.Text)
	}
	return mcp.NewToolResultText(strings.TrimSpace(sb.String())), nil
}

// handleClassifyIntent classifies an utterance and reports extracted fields.
func (s *Server) handleClassifyIntent(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	utterance, err := request.RequireString("utterance")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: utterance"), nil
	}

	in, ok := s.classifier.Classify(utterance)
	if !ok {
		return mcp.NewToolResultText(`{"intent": null}`), nil
	}

	out := map[string]any{"intent": string(in)}
	if extracted := s.extractor.Extract(utterance, in); len(extracted) > 0 {
		out["extracted_data"] = extracted
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// handleGetFormTemplate returns the schema for an intent.
func (s *Server) handleGetFormTemplate(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("intent")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: intent"), nil
	}

	schema, ok := s.registry.SchemaFor(intent.Intent(name))
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown intent %q", name)), nil
	}

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding schema: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
