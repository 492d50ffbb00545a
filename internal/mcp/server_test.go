package mcp

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/govflowai/govchat/internal/chunker"
	"github.com/govflowai/govchat/internal/config"
	"github.com/govflowai/govchat/internal/forms"
	"github.com/govflowai/govchat/internal/intent"
	"github.com/govflowai/govchat/internal/retriever"
	"github.com/govflowai/govchat/internal/slots"
	"github.com/govflowai/govchat/internal/vectordb"
)

// mockEmbedder implements embeddings.Embedder for testing.
type mockEmbedder struct{}

func (m *mockEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	result := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, 32)
		for j, ch := range text {
			vec[(int(ch)+j)%32] += 1.0
		}
		var norm float64
		for _, v := range vec {
			norm += float64(v * v)
		}
		norm = math.Sqrt(norm)
		if norm > 0 {
			for j := range vec {
				vec[j] = float32(float64(vec[j]) / norm)
			}
		}
		result[i] = vec
	}
	return result, nil
}
func (m *mockEmbedder) Dimensions() int { return 32 }
func (m *mockEmbedder) Name() string    { return "mock" }

func newTestServer(t *testing.T) *Server {
	t.Helper()

	dir := t.TempDir()
	content := "# Vehicle Registration\n\nTo register a vehicle you need form REG 343 and proof of insurance."
	if err := os.WriteFile(filepath.Join(dir, "vehicle_registration.md"), []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	loader := retriever.NewLoader(dir, []string{"**/*.md"}, nil)
	newStore := func() (vectordb.Store, error) {
		return vectordb.NewMemoryStore(&mockEmbedder{}), nil
	}
	ret := retriever.New(loader, chunker.New(500, 100), newStore, 3)

	return NewServer(ret, intent.NewClassifier(), slots.NewExtractor(config.FallbackNew), forms.NewRegistry())
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"search_knowledge", searchKnowledgeTool, "search_knowledge"},
		{"classify_intent", classifyIntentTool, "classify_intent"},
		{"get_form_template", getFormTemplateTool, "get_form_template"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func callTool(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type: %T", res.Content[0])
	}
	return tc.Text
}

func TestHandleSearchKnowledge(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleSearchKnowledge(context.Background(), callTool("search_knowledge", map[string]any{
		"query": "To register a vehicle you need form REG 343",
	}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}
	if !strings.Contains(resultText(t, res), "REG 343") {
		t.Errorf("result missing content: %s", resultText(t, res))
	}
}

func TestHandleSearchKnowledgeMissingQuery(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleSearchKnowledge(context.Background(), callTool("search_knowledge", map[string]any{}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !res.IsError {
		t.Error("expected tool error for missing query")
	}
}

func TestHandleClassifyIntent(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleClassifyIntent(context.Background(), callTool("classify_intent", map[string]any{
		"utterance": "I moved, my new address is 123 Main Street, Sacramento, CA 95814",
	}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	text := resultText(t, res)
	if !strings.Contains(text, "address_change") {
		t.Errorf("result missing intent: %s", text)
	}
	if !strings.Contains(text, "new_address") {
		t.Errorf("result missing extracted data: %s", text)
	}

	res, err = s.handleClassifyIntent(context.Background(), callTool("classify_intent", map[string]any{
		"utterance": "what is the meaning of life",
	}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !strings.Contains(resultText(t, res), "null") {
		t.Errorf("unmatched utterance should report null intent: %s", resultText(t, res))
	}
}

func TestHandleGetFormTemplate(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleGetFormTemplate(context.Background(), callTool("get_form_template", map[string]any{
		"intent": "real_id",
	}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	text := resultText(t, res)
	if !strings.Contains(text, "REAL ID Application") {
		t.Errorf("result missing form name: %s", text)
	}

	res, err = s.handleGetFormTemplate(context.Background(), callTool("get_form_template", map[string]any{
		"intent": "parking_permit",
	}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !res.IsError {
		t.Error("expected tool error for unknown intent")
	}
}
