package chat

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/govflowai/govchat/internal/chunker"
	"github.com/govflowai/govchat/internal/composer"
	"github.com/govflowai/govchat/internal/config"
	"github.com/govflowai/govchat/internal/forms"
	"github.com/govflowai/govchat/internal/intent"
	"github.com/govflowai/govchat/internal/llm"
	"github.com/govflowai/govchat/internal/retriever"
	"github.com/govflowai/govchat/internal/slots"
	"github.com/govflowai/govchat/internal/vectordb"
)

type mockEmbedder struct {
	dims int
}

func (m *mockEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, m.dims)
		for j, ch := range text {
			vec[(int(ch)+j)%m.dims] += 1.0
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
		results[i] = vec
	}
	return results, nil
}

func (m *mockEmbedder) Dimensions() int { return m.dims }
func (m *mockEmbedder) Name() string    { return "mock" }

type stubProvider struct {
	content string
	fail    bool
	lastReq llm.CompletionRequest
}

func (s *stubProvider) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	s.lastReq = req
	if s.fail {
		return nil, errors.New("upstream unavailable")
	}
	return &llm.CompletionResponse{Content: s.content}, nil
}

func (s *stubProvider) Name() string { return "stub" }

func writeKnowledge(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	docs := map[string]string{
		"vehicle_registration.md": "# Vehicle Registration\n\nTo register a vehicle in California you need form REG 343, proof of insurance, and a smog certificate when required.",
		"address_change.md":       "# Address Change\n\nReport address changes within 10 days using form DMV 14.",
	}
	for name, content := range docs {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func newTestPipeline(t *testing.T, provider llm.Provider) *Pipeline {
	t.Helper()
	loader := retriever.NewLoader(writeKnowledge(t), []string{"**/*.md"}, nil)
	newStore := func() (vectordb.Store, error) {
		return vectordb.NewMemoryStore(&mockEmbedder{dims: 64}), nil
	}
	ret := retriever.New(loader, chunker.New(500, 100), newStore, 3)
	comp := composer.New(provider, "test-model", 5, time.Second)
	return NewPipeline(
		intent.NewClassifier(),
		slots.NewExtractor(config.FallbackNew),
		forms.NewRegistry(),
		ret,
		comp,
		3,
		"California",
	)
}

func TestHandleAddressChange(t *testing.T) {
	provider := &stubProvider{content: "I can help you change your address."}
	p := newTestPipeline(t, provider)

	resp, err := p.Handle(context.Background(), Request{
		Message: "I moved, my new address is 123 Main Street, Sacramento, CA 95814",
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if resp.Intent != "address_change" {
		t.Errorf("intent: got %q, want address_change", resp.Intent)
	}
	if resp.FormTemplate == nil {
		t.Fatal("form_template missing")
	}
	if resp.FormTemplate.Name != "Change of Address Form" {
		t.Errorf("form name: got %q", resp.FormTemplate.Name)
	}
	if len(resp.FormTemplate.RequiredFields) != 7 {
		t.Errorf("got %d required fields, want 7", len(resp.FormTemplate.RequiredFields))
	}
	if _, ok := resp.ExtractedData["new_address"]; !ok {
		t.Errorf("new_address not extracted: %v", resp.ExtractedData)
	}
	if resp.Response != "I can help you change your address." {
		t.Errorf("response: got %q", resp.Response)
	}
}

func TestHandleGroundsPromptInRetrievedContext(t *testing.T) {
	provider := &stubProvider{content: "You need form REG 343."}
	p := newTestPipeline(t, provider)

	resp, err := p.Handle(context.Background(), Request{
		Message: "To register a vehicle in California you need form REG 343, how do I register my car?",
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	system := provider.lastReq.Messages[0]
	if system.Role != llm.RoleSystem {
		t.Fatalf("first message role: %s", system.Role)
	}
	if !strings.Contains(system.Content, "REG 343") {
		t.Error("system prompt missing retrieved context")
	}
	if !strings.Contains(system.Content, "Current user location: California") {
		t.Error("system prompt missing location")
	}

	found := false
	for _, src := range resp.Sources {
		if src.Category == "vehicle_registration" {
			found = true
		}
	}
	if !found {
		t.Errorf("sources missing vehicle_registration: %v", resp.Sources)
	}
}

func TestHandleInformationalIntentHasNoForm(t *testing.T) {
	provider := &stubProvider{content: "Smog checks are required every two years."}
	p := newTestPipeline(t, provider)

	resp, err := p.Handle(context.Background(), Request{Message: "Where do I get a smog check?"})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if resp.Intent != "smog_check" {
		t.Errorf("intent: got %q", resp.Intent)
	}
	if resp.FormTemplate != nil {
		t.Errorf("informational intent should have no form, got %+v", resp.FormTemplate)
	}
}

func TestHandleOutOfScope(t *testing.T) {
	provider := &stubProvider{content: "should not be called"}
	p := newTestPipeline(t, provider)

	resp, err := p.Handle(context.Background(), Request{Message: "What's the weather like?"})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if resp.Intent != "" {
		t.Errorf("intent: got %q, want none", resp.Intent)
	}
	if !strings.Contains(resp.Response, "I can only help with California DMV services") {
		t.Errorf("response: got %q", resp.Response)
	}
	if resp.FormTemplate != nil || resp.ExtractedData != nil {
		t.Error("out of scope response should carry no form or extracted data")
	}
}

func TestHandleOutOfScopeKeepsContactDetails(t *testing.T) {
	p := newTestPipeline(t, &stubProvider{content: "should not be called"})

	resp, err := p.Handle(context.Background(), Request{Message: "What's the weather like? Reach me at jo@example.com"})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if resp.Intent != "" {
		t.Errorf("intent: got %q, want none", resp.Intent)
	}
	if got := resp.ExtractedData["email"]; got != "jo@example.com" {
		t.Errorf("email: got %q, want jo@example.com", got)
	}
}

func TestHandleEmptyMessage(t *testing.T) {
	p := newTestPipeline(t, &stubProvider{})

	if _, err := p.Handle(context.Background(), Request{Message: "   "}); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("got %v, want ErrEmptyMessage", err)
	}
}

func TestHandleProviderFailureFallsBack(t *testing.T) {
	p := newTestPipeline(t, &stubProvider{fail: true})

	resp, err := p.Handle(context.Background(), Request{Message: "I need to renew my license"})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if resp.Response == "" {
		t.Fatal("expected canned fallback response")
	}
	if !strings.Contains(resp.Response, "dmv.ca.gov") {
		t.Errorf("fallback response unexpected: %q", resp.Response)
	}
	if resp.Intent != "license_renewal" {
		t.Errorf("intent should survive generation failure, got %q", resp.Intent)
	}
}

func TestHandleSubmitMissingNestedField(t *testing.T) {
	p := newTestPipeline(t, &stubProvider{})

	resp, err := p.HandleSubmit(SubmitRequest{
		FormType: "address_change",
		Fields: map[string]any{
			"full_name":      "Jane Doe",
			"date_of_birth":  "01/02/1990",
			"driver_license": "DL1234567",
			"current_address": map[string]any{
				"street": "456 Oak Avenue", "city": "Fresno", "state": "CA", "zip": "93701",
			},
			"new_address": map[string]any{
				"street": "123 Main Street", "city": "Sacramento", "state": "CA",
			},
			"email": "jane@example.com",
			"phone": "916-555-1234",
		},
	})
	if err != nil {
		t.Fatalf("HandleSubmit: %v", err)
	}
	if resp.Success {
		t.Error("submission should be rejected")
	}
	if len(resp.MissingFields) != 1 || resp.MissingFields[0] != "new_address.zip" {
		t.Errorf("missing fields: got %v, want [new_address.zip]", resp.MissingFields)
	}
	if !strings.Contains(resp.Message, "new_address.zip") {
		t.Errorf("message: got %q", resp.Message)
	}
}

func TestHandleSubmitSuccess(t *testing.T) {
	p := newTestPipeline(t, &stubProvider{})

	resp, err := p.HandleSubmit(SubmitRequest{
		FormType: "fix_it_ticket",
		Fields:   map[string]any{},
	})
	if err != nil {
		t.Fatalf("HandleSubmit: %v", err)
	}
	if !resp.Success {
		t.Errorf("informational submission rejected: %+v", resp)
	}
	if resp.Message != "Your Fix-It Ticket Information has been submitted successfully." {
		t.Errorf("message: got %q", resp.Message)
	}
}

func TestHandleSubmitUnknownFormType(t *testing.T) {
	p := newTestPipeline(t, &stubProvider{})

	if _, err := p.HandleSubmit(SubmitRequest{FormType: "parking_permit"}); err == nil {
		t.Fatal("expected error for unknown form type")
	}
	if _, err := p.HandleSubmit(SubmitRequest{}); err == nil {
		t.Fatal("expected error for missing form type")
	}
}
