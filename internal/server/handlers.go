package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/minhvu-dev/calassist/internal/pipeline"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		fmt.Printf("Error encoding JSON response: %v\n", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// Health Check

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(); err != nil {
		respondError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}

	status := map[string]interface{}{
		"status":   "healthy",
		"calendar": "disconnected",
	}

	if s.calClient != nil && s.calClient.IsAuthenticated() {
		status["calendar"] = "connected"
	}

	respondJSON(w, http.StatusOK, status)
}

// Chat API

type chatMessageRequest struct {
	Message string `json:"message"`
}

type chatMessageResponse struct {
	RequestID string              `json:"request_id"`
	Action    pipeline.Action     `json:"action"`
	Message   string              `json:"message"`
	Data      any                 `json:"data,omitempty"`
	Error     *pipeline.ErrorInfo `json:"error,omitempty"`
}

func (s *Server) handleChatMessage(w http.ResponseWriter, r *http.Request) {
	var req chatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		respondError(w, http.StatusBadRequest, "message is required")
		return
	}

	requestID := uuid.NewString()

	history, err := s.loadHistory()
	if err != nil {
		fmt.Printf("Chat %s: failed to load history: %v\n", requestID, err)
		// Degrade to a history-free request rather than failing
		history = nil
	}

	result := s.assistant.HandleUserRequest(r.Context(), req.Message, history)

	s.recordTurn(requestID, "user", req.Message)
	s.recordTurn(requestID, "assistant", result.Message)
	s.pruneHistory(requestID)
	s.recordAction(requestID, result)

	if !result.Failed() && s.notifyService != nil {
		if mutation := mutationFromResult(result); mutation != nil {
			s.notifyService.NotifyMutation(context.Background(), mutation)
		}
	}

	respondJSON(w, http.StatusOK, chatMessageResponse{
		RequestID: requestID,
		Action:    result.Action,
		Message:   result.Message,
		Data:      result.Data,
		Error:     result.Error,
	})
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	messages, err := s.db.GetChatHistory(limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	total, err := s.db.CountChatMessages()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"messages": messages,
		"count":    len(messages),
		"total":    total,
	})
}

func (s *Server) handleRecentActions(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	actions, err := s.db.GetRecentActions(limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"actions": actions,
		"count":   len(actions),
	})
}

// loadHistory fetches the stored conversation as pipeline turns, capped at
// the configured context size.
func (s *Server) loadHistory() ([]pipeline.Turn, error) {
	size := s.historySize
	if size <= 0 {
		size = 10
	}

	messages, err := s.db.GetChatHistory(size)
	if err != nil {
		return nil, err
	}

	turns := make([]pipeline.Turn, 0, len(messages))
	for _, m := range messages {
		turns = append(turns, pipeline.Turn{Role: m.Role, Content: m.Content})
	}
	return turns, nil
}

func (s *Server) recordTurn(requestID, role, content string) {
	if _, err := s.db.SaveChatMessage(requestID, role, content); err != nil {
		fmt.Printf("Chat %s: failed to save %s message: %v\n", requestID, role, err)
	}
}

// pruneHistory trims the chat log down to the retention window so the
// table does not grow without bound across long sessions.
func (s *Server) pruneHistory(requestID string) {
	if s.retention <= 0 {
		return
	}
	if err := s.db.PruneChatHistory(s.retention); err != nil {
		fmt.Printf("Chat %s: failed to prune history: %v\n", requestID, err)
	}
}

func (s *Server) recordAction(requestID string, result *pipeline.Result) {
	record := actionRecordFromResult(requestID, result)
	if _, err := s.db.LogAction(record); err != nil {
		fmt.Printf("Chat %s: failed to log action: %v\n", requestID, err)
	}
}

// Calendar API

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	if s.calClient == nil || !s.calClient.IsAuthenticated() {
		respondError(w, http.StatusServiceUnavailable, "Google Calendar not connected")
		return
	}

	days := 7
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "invalid days")
			return
		}
		days = n
	}

	maxResults := int64(50)
	if v := r.URL.Query().Get("max_results"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "invalid max_results")
			return
		}
		maxResults = n
	}

	now := time.Now()
	events, err := s.calClient.ListUpcoming(maxResults, now, now.AddDate(0, 0, days))
	if err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
		"count":  len(events),
	})
}

// Google OAuth API

func (s *Server) handleAuthStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"connected": false,
		"message":   "Not configured",
	}

	if s.calClient == nil {
		status["message"] = "Google Calendar client not initialized. Check credentials.json."
		respondJSON(w, http.StatusOK, status)
		return
	}

	if s.calClient.IsAuthenticated() {
		status["connected"] = true
		status["message"] = "Connected to Google Calendar"
	} else {
		status["message"] = "Not authenticated. Connect to get started."
	}

	respondJSON(w, http.StatusOK, status)
}

func (s *Server) handleAuthConnect(w http.ResponseWriter, r *http.Request) {
	if s.calClient == nil {
		respondError(w, http.StatusServiceUnavailable, "Google Calendar client not initialized")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"auth_url": s.calClient.AuthURL()})
}

func (s *Server) handleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		respondError(w, http.StatusBadRequest, "No authorization code received")
		return
	}

	if s.calClient == nil {
		respondError(w, http.StatusServiceUnavailable, "Google Calendar client not initialized")
		return
	}

	if err := s.calClient.ExchangeCode(r.Context(), code); err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to exchange code: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, "<html><body><h2>Google Calendar connected.</h2><p>You can close this window.</p></body></html>")
}

func (s *Server) handleAuthDisconnect(w http.ResponseWriter, r *http.Request) {
	if s.calClient == nil {
		respondError(w, http.StatusServiceUnavailable, "Google Calendar client not initialized")
		return
	}

	if err := s.calClient.Disconnect(); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "disconnected"})
}
