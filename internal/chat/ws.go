package chat

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/govflowai/govchat/internal/composer"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsRequest is the incoming WebSocket message format. An empty
// session_id on the first message starts a new session. Clients that
// manage their own transcript send history instead; such messages
// never join a stored session.
type wsRequest struct {
	SessionID string          `json:"session_id"`
	Message   string          `json:"message"`
	Location  string          `json:"location,omitempty"`
	History   []composer.Turn `json:"history,omitempty"`
}

// wsResponse is the outgoing WebSocket message format.
type wsResponse struct {
	Type string `json:"type"` // "response" or "error"
	*Response
	Error string `json:"error,omitempty"`
}

// handleWebSocket runs a chat conversation over one WebSocket
// connection. Each message goes through the same pipeline as the REST
// endpoint; the session transcript carries history between messages.
func (h *Handlers) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("websocket read: %v", err)
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			h.sendWSError(conn, "invalid message format")
			continue
		}
		if req.Message == "" {
			h.sendWSError(conn, "message is required")
			continue
		}

		sessionID := req.SessionID
		if sessionID == "" && len(req.History) == 0 && h.sessions != nil {
			sessionID, err = h.sessions.Create(r.Context(), req.Location)
			if err != nil {
				h.sendWSError(conn, "failed to create session: "+err.Error())
				continue
			}
		}

		resp, _, err := h.runChat(r.Context(), Request{
			Message:   req.Message,
			Location:  req.Location,
			History:   req.History,
			SessionID: sessionID,
		})
		if err != nil {
			h.sendWSError(conn, err.Error())
			continue
		}
		if resp.SessionID == "" {
			resp.SessionID = sessionID
		}

		h.sendWS(conn, wsResponse{Type: "response", Response: resp})
	}
}

func (h *Handlers) sendWS(conn *websocket.Conn, resp wsResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("websocket write: %v", err)
	}
}

func (h *Handlers) sendWSError(conn *websocket.Conn, msg string) {
	h.sendWS(conn, wsResponse{Type: "error", Error: msg})
}
