package api

import (
	"encoding/json"
	"net/http"

	"github.com/prompt-general/supportdesk/internal/health"
	"github.com/prompt-general/supportdesk/internal/memory"
)

const sessionCookie = "supportdesk_session"

// historyWindow is how many recent turns are passed to the assistant
const historyWindow = 20

// demoUserID stands in for an authenticated user; authentication belongs to
// the surrounding application, not this core.
const demoUserID = 1

type chatRequest struct {
	Message string `json:"message"`
	UserID  int    `json:"user_id,omitempty"`
}

type chatResponse struct {
	Message string `json:"message"`
	Source  string `json:"source"`
}

func (g *Gateway) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", "Request body must be JSON with a message field")
		return
	}
	defer r.Body.Close()

	if req.Message == "" {
		writeErrorResponse(w, http.StatusBadRequest, "EMPTY_MESSAGE", "Message must not be empty")
		return
	}

	userID := req.UserID
	if userID == 0 {
		userID = demoUserID
	}

	sessionID := g.sessionID(w, r)
	g.memory.AddUserMessage(sessionID, req.Message)
	history := g.memory.History(sessionID, historyWindow)

	reply := g.assistant.Answer(r.Context(), sessionID, req.Message, history, userID)
	g.memory.AddAssistantMessage(sessionID, reply.Message)

	writeJSONResponse(w, http.StatusOK, chatResponse{
		Message: reply.Message,
		Source:  reply.Source,
	})
}

func (g *Gateway) handleClearChat(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		g.memory.Clear(cookie.Value)
	}
	writeJSONResponse(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (g *Gateway) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, g.monitor.Stats())
}

func (g *Gateway) handleReindex(w http.ResponseWriter, r *http.Request) {
	g.vectors.Rebuild(r.Context())
	writeJSONResponse(w, http.StatusOK, map[string]string{"status": "reindexed"})
}

func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	if g.health == nil {
		writeJSONResponse(w, http.StatusOK, map[string]string{"status": string(health.StatusHealthy)})
		return
	}

	results := g.health.Run(r.Context())
	writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"status": g.health.Overall(results),
		"checks": results,
	})
}

// sessionID returns the request's session id, minting a cookie when absent
func (g *Gateway) sessionID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	id := memory.NewSessionID()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
