// Package composer assembles grounded prompts and generates responses,
// falling back to canned answers when the model is unavailable.
package composer

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/govflowai/govchat/internal/llm"
)

// Turn is one prior exchange message supplied by the caller.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Composer generates responses from the configured provider. It never
// returns an error to callers: generation failures resolve to a canned
// response instead.
type Composer struct {
	provider      llm.Provider
	model         string
	historyWindow int
	timeout       time.Duration
}

// New creates a Composer. historyWindow bounds how many prior turns are
// included in the prompt; timeout bounds each completion attempt.
func New(provider llm.Provider, model string, historyWindow int, timeout time.Duration) *Composer {
	if historyWindow <= 0 {
		historyWindow = 5
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Composer{
		provider:      provider,
		model:         model,
		historyWindow: historyWindow,
		timeout:       timeout,
	}
}

// Compose builds the prompt from the persona, retrieved context,
// location, and the last turns of history, then asks the provider for a
// completion. One retry is attempted; if both attempts fail or return
// empty output, a canned topic-matched response is returned instead.
// History is read only, never mutated.
func (c *Composer) Compose(ctx context.Context, utterance string, history []Turn, contextText, location string) string {
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: buildSystemPrompt(contextText, location)},
	}
	for _, turn := range lastTurns(history, c.historyWindow) {
		role := llm.RoleUser
		if turn.Role == "assistant" {
			role = llm.RoleAssistant
		}
		messages = append(messages, llm.Message{Role: role, Content: turn.Content})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: utterance})

	req := llm.CompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0.7,
	}

	for attempt := 0; attempt < 2; attempt++ {
		resp, err := c.complete(ctx, req)
		if err != nil {
			log.Printf("completion attempt %d failed: %v", attempt+1, err)
			continue
		}
		if content := strings.TrimSpace(resp.Content); content != "" {
			return content
		}
		log.Printf("completion attempt %d returned empty content", attempt+1)
	}

	return cannedResponse(utterance)
}

func (c *Composer) complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.provider.Complete(ctx, req)
}

func lastTurns(history []Turn, n int) []Turn {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}
