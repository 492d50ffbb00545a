package chat

import (
	"github.com/govflowai/govchat/internal/composer"
	"github.com/govflowai/govchat/internal/forms"
	"github.com/govflowai/govchat/internal/retriever"
)

// Request is one chat turn from a client. History is the caller's
// transcript; when SessionID names a stored session, the persisted
// transcript is used instead.
type Request struct {
	Message   string          `json:"message"`
	Location  string          `json:"location,omitempty"`
	History   []composer.Turn `json:"history,omitempty"`
	SessionID string          `json:"session_id,omitempty"`
}

// Response is the chat pipeline's answer.
type Response struct {
	Response      string                `json:"response"`
	Intent        string                `json:"intent,omitempty"`
	FormTemplate  *forms.Schema         `json:"form_template,omitempty"`
	ExtractedData map[string]string     `json:"extracted_data,omitempty"`
	Sources       []retriever.SourceRef `json:"sources,omitempty"`
	SessionID     string                `json:"session_id,omitempty"`
}

// SubmitRequest is a form submission. Fields carries the submitted
// values, including nested address objects.
type SubmitRequest struct {
	FormType string         `json:"form_type"`
	Fields   map[string]any `json:"-"`
}

// SubmitResponse reports the validation outcome.
type SubmitResponse struct {
	Success       bool     `json:"success"`
	Message       string   `json:"message"`
	MissingFields []string `json:"missing_fields,omitempty"`
}
