// Package mcp exposes the knowledge base and intent catalog as MCP
// tools over stdio, so agent clients can search government service
// information and inspect form requirements.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/govflowai/govchat/internal/forms"
	"github.com/govflowai/govchat/internal/intent"
	"github.com/govflowai/govchat/internal/retriever"
	"github.com/govflowai/govchat/internal/slots"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes government service tools.
type Server struct {
	retriever  *retriever.Retriever
	classifier *intent.Classifier
	extractor  *slots.Extractor
	registry   *forms.Registry
	mcp        *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(ret *retriever.Retriever, classifier *intent.Classifier, extractor *slots.Extractor, registry *forms.Registry) *Server {
	s := &Server{
		retriever:  ret,
		classifier: classifier,
		extractor:  extractor,
		registry:   registry,
	}

	s.mcp = server.NewMCPServer(
		"govchat",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchKnowledgeTool, s.handleSearchKnowledge)
	s.mcp.AddTool(classifyIntentTool, s.handleClassifyIntent)
	s.mcp.AddTool(getFormTemplateTool, s.handleGetFormTemplate)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
