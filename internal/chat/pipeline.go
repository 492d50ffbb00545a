// Package chat runs the request pipeline: intent classification, slot
// extraction, retrieval, and response composition, plus form submission
// validation. It exposes both REST and WebSocket surfaces.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/govflowai/govchat/internal/composer"
	"github.com/govflowai/govchat/internal/forms"
	"github.com/govflowai/govchat/internal/intent"
	"github.com/govflowai/govchat/internal/retriever"
	"github.com/govflowai/govchat/internal/slots"
)

// ErrEmptyMessage is returned for chat requests without a message.
var ErrEmptyMessage = errors.New("message is required")

// outOfScopeResponse answers utterances that match no catalog intent.
const outOfScopeResponse = "I can only help with California DMV services. Please ask about: address changes, license replacement, vehicle registration, vehicle transfer, license renewal, vehicle title, new resident services, REAL ID, or DMV appointments, fix-it tickets, speeding tickets, expired registration, or smog checks."

// Pipeline wires the chat components together. It is stateless per
// request; the knowledge index is the only shared resource.
type Pipeline struct {
	classifier *intent.Classifier
	extractor  *slots.Extractor
	registry   *forms.Registry
	retriever  *retriever.Retriever
	composer   *composer.Composer

	topK            int
	defaultLocation string
}

// NewPipeline assembles a Pipeline from its components.
func NewPipeline(classifier *intent.Classifier, extractor *slots.Extractor, registry *forms.Registry, ret *retriever.Retriever, comp *composer.Composer, topK int, defaultLocation string) *Pipeline {
	if defaultLocation == "" {
		defaultLocation = "California"
	}
	return &Pipeline{
		classifier:      classifier,
		extractor:       extractor,
		registry:        registry,
		retriever:       ret,
		composer:        comp,
		topK:            topK,
		defaultLocation: defaultLocation,
	}
}

// Handle runs one chat turn. Retrieval failures degrade to an
// ungrounded response; only an empty message is an error.
func (p *Pipeline) Handle(ctx context.Context, req Request) (*Response, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	location := req.Location
	if location == "" {
		location = p.defaultLocation
	}

	in, ok := p.classifier.Classify(message)
	if !ok {
		// Generic extraction still runs so coincidental contact details
		// are not lost across a clarifying follow-up.
		resp := &Response{Response: outOfScopeResponse}
		if extracted := p.extractor.Extract(message, ""); len(extracted) > 0 {
			resp.ExtractedData = extracted
		}
		return resp, nil
	}

	extracted := p.extractor.Extract(message, in)

	results, err := p.retriever.Retrieve(ctx, message, p.topK)
	if err != nil {
		log.Printf("retrieval failed, responding ungrounded: %v", err)
		results = nil
	}

	answer := p.composer.Compose(ctx, message, req.History, retriever.FormatContext(results), location)

	resp := &Response{
		Response: answer,
		Intent:   string(in),
		Sources:  retriever.Sources(results),
	}
	if len(extracted) > 0 {
		resp.ExtractedData = extracted
	}
	if schema, found := p.registry.SchemaFor(in); found && schema.HasForm() {
		resp.FormTemplate = &schema
	}
	return resp, nil
}

// HandleSubmit validates a form submission against the registry.
func (p *Pipeline) HandleSubmit(req SubmitRequest) (*SubmitResponse, error) {
	if req.FormType == "" {
		return nil, errors.New("form_type is required")
	}

	in := intent.Intent(req.FormType)
	schema, ok := p.registry.SchemaFor(in)
	if !ok {
		return nil, fmt.Errorf("invalid form type %q", req.FormType)
	}

	result, err := p.registry.Validate(in, req.Fields)
	if err != nil {
		return nil, err
	}

	if !result.Accepted {
		return &SubmitResponse{
			Success:       false,
			Message:       "Missing required fields: " + strings.Join(result.MissingFields, ", "),
			MissingFields: result.MissingFields,
		}, nil
	}

	return &SubmitResponse{
		Success: true,
		Message: fmt.Sprintf("Your %s has been submitted successfully.", schema.Name),
	}, nil
}
