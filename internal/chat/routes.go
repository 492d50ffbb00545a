package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/govflowai/govchat/internal/forms"
	"github.com/govflowai/govchat/internal/intent"
	"github.com/govflowai/govchat/internal/retriever"
	"github.com/govflowai/govchat/internal/session"
)

// historyLimit caps how many persisted turns are loaded per request.
// The composer applies its own window on top.
const historyLimit = 10

// Handlers serves the chat API. sessions may be nil when transcript
// persistence is disabled.
type Handlers struct {
	pipeline  *Pipeline
	registry  *forms.Registry
	retriever *retriever.Retriever
	sessions  *session.Store
}

// NewHandlers creates the HTTP handlers for the chat API.
func NewHandlers(pipeline *Pipeline, registry *forms.Registry, ret *retriever.Retriever, sessions *session.Store) *Handlers {
	return &Handlers{
		pipeline:  pipeline,
		registry:  registry,
		retriever: ret,
		sessions:  sessions,
	}
}

// RegisterRoutes mounts the chat endpoints on the given router.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", h.handleChat)
		r.Post("/sessions", h.handleCreateSession)
		r.Post("/forms/submit", h.handleSubmit)
		r.Get("/forms/{intent}", h.handleGetForm)
		r.Get("/intents", h.handleListIntents)
		r.Post("/index/build", h.handleBuildIndex)
	})
	r.Get("/ws/chat", h.handleWebSocket)
}

func (h *Handlers) handleChat(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, status, err := h.runChat(r.Context(), req)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// runChat resolves session history, runs the pipeline, and persists the
// new turns. Shared by the REST and WebSocket surfaces.
func (h *Handlers) runChat(ctx context.Context, req Request) (*Response, int, error) {
	usingSession := req.SessionID != "" && h.sessions != nil
	if usingSession {
		turns, err := h.sessions.Turns(ctx, req.SessionID, historyLimit)
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		req.History = turns
	}

	resp, err := h.pipeline.Handle(ctx, req)
	if err != nil {
		if errors.Is(err, ErrEmptyMessage) {
			return nil, http.StatusBadRequest, err
		}
		return nil, http.StatusInternalServerError, err
	}

	if usingSession {
		resp.SessionID = req.SessionID
		if err := h.sessions.AppendTurn(ctx, req.SessionID, "user", req.Message, resp.Intent); err != nil {
			if errors.Is(err, session.ErrNotFound) {
				return nil, http.StatusNotFound, err
			}
			log.Printf("persisting user turn: %v", err)
		} else if err := h.sessions.AppendTurn(ctx, req.SessionID, "assistant", resp.Response, ""); err != nil {
			log.Printf("persisting assistant turn: %v", err)
		}
	}
	return resp, http.StatusOK, nil
}

func (h *Handlers) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	if h.sessions == nil {
		writeError(w, http.StatusNotImplemented, "session persistence is disabled")
		return
	}

	var req struct {
		Location string `json:"location"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	id, err := h.sessions.Create(r.Context(), req.Location)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": id})
}

func (h *Handlers) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	formType, _ := raw["form_type"].(string)
	delete(raw, "form_type")

	resp, err := h.pipeline.HandleSubmit(SubmitRequest{FormType: formType, Fields: raw})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if h.sessions != nil {
		payload, _ := json.Marshal(raw)
		if err := h.sessions.RecordSubmission(r.Context(), formType, payload, resp.Success); err != nil {
			log.Printf("recording submission: %v", err)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) handleGetForm(w http.ResponseWriter, r *http.Request) {
	in := intent.Intent(chi.URLParam(r, "intent"))
	schema, ok := h.registry.SchemaFor(in)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown form type")
		return
	}
	writeJSON(w, http.StatusOK, schema)
}

func (h *Handlers) handleListIntents(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"intents": intent.All()})
}

func (h *Handlers) handleBuildIndex(w http.ResponseWriter, r *http.Request) {
	n, err := h.retriever.BuildIndex(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"chunks": n})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
