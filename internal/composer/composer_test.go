package composer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/govflowai/govchat/internal/llm"
)

// stubProvider records requests and replies with scripted outcomes.
type stubProvider struct {
	calls    int
	failures int
	content  string
	lastReq  llm.CompletionRequest
}

func (s *stubProvider) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	s.calls++
	s.lastReq = req
	if s.calls <= s.failures {
		return nil, errors.New("upstream unavailable")
	}
	return &llm.CompletionResponse{Content: s.content}, nil
}

func (s *stubProvider) Name() string { return "stub" }

func TestComposeReturnsProviderContent(t *testing.T) {
	provider := &stubProvider{content: "You can renew online at dmv.ca.gov."}
	c := New(provider, "test-model", 5, time.Second)

	got := c.Compose(context.Background(), "How do I renew my license?", nil, "", "California")
	if got != "You can renew online at dmv.ca.gov." {
		t.Errorf("got %q", got)
	}
	if provider.calls != 1 {
		t.Errorf("provider called %d times, want 1", provider.calls)
	}
}

func TestComposeRetriesOnceThenSucceeds(t *testing.T) {
	provider := &stubProvider{failures: 1, content: "answer"}
	c := New(provider, "test-model", 5, time.Second)

	got := c.Compose(context.Background(), "How do I renew my license?", nil, "", "")
	if got != "answer" {
		t.Errorf("got %q, want answer", got)
	}
	if provider.calls != 2 {
		t.Errorf("provider called %d times, want 2", provider.calls)
	}
}

func TestComposeFallsBackOnRepeatedFailure(t *testing.T) {
	provider := &stubProvider{failures: 10}
	c := New(provider, "test-model", 5, time.Second)

	got := c.Compose(context.Background(), "I need to change my address", nil, "", "")
	if !strings.Contains(got, "Change of Address") {
		t.Errorf("expected address canned response, got %q", got)
	}
	if provider.calls != 2 {
		t.Errorf("provider called %d times, want 2", provider.calls)
	}
}

func TestComposeFallsBackOnEmptyContent(t *testing.T) {
	provider := &stubProvider{content: "   "}
	c := New(provider, "test-model", 5, time.Second)

	got := c.Compose(context.Background(), "Where do I get a smog check?", nil, "", "")
	if !strings.Contains(got, "smog check") {
		t.Errorf("expected smog canned response, got %q", got)
	}
}

func TestComposePromptAssembly(t *testing.T) {
	provider := &stubProvider{content: "ok"}
	c := New(provider, "test-model", 2, time.Second)

	history := []Turn{
		{Role: "user", Content: "turn one"},
		{Role: "assistant", Content: "turn two"},
		{Role: "user", Content: "turn three"},
	}
	c.Compose(context.Background(), "current question", history, "[CONTEXT 1] From vehicle_registration:\nUse form REG 343.", "Sacramento")

	msgs := provider.lastReq.Messages
	// system + 2 history turns (window) + user utterance
	if len(msgs) != 4 {
		t.Fatalf("got %d messages, want 4", len(msgs))
	}
	if msgs[0].Role != llm.RoleSystem {
		t.Errorf("first message role: got %s", msgs[0].Role)
	}
	if !strings.Contains(msgs[0].Content, "REG 343") {
		t.Error("system prompt missing retrieved context")
	}
	if !strings.Contains(msgs[0].Content, "Current user location: Sacramento") {
		t.Error("system prompt missing location")
	}
	if msgs[1].Content != "turn two" || msgs[1].Role != llm.RoleAssistant {
		t.Errorf("history window wrong: %+v", msgs[1])
	}
	if msgs[3].Content != "current question" || msgs[3].Role != llm.RoleUser {
		t.Errorf("final message wrong: %+v", msgs[3])
	}

	// History slice is untouched.
	if len(history) != 3 {
		t.Errorf("history mutated: %d turns", len(history))
	}
}

func TestComposeUngroundedOmitsContextBlock(t *testing.T) {
	provider := &stubProvider{content: "ok"}
	c := New(provider, "test-model", 5, time.Second)

	c.Compose(context.Background(), "question", nil, "", "")
	if strings.Contains(provider.lastReq.Messages[0].Content, "retrieved from official government resources") {
		t.Error("system prompt should omit context block when retrieval is empty")
	}
}

func TestCannedResponseDeterministic(t *testing.T) {
	a := cannedResponse("I lost my license")
	b := cannedResponse("I lost my license")
	if a != b {
		t.Error("canned response not deterministic")
	}

	generic := cannedResponse("completely unrelated question")
	if generic != genericFallback {
		t.Errorf("got %q, want generic fallback", generic)
	}
}
