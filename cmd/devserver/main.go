// Package main provides a development server for exercising the chat
// pipeline without a Google Calendar connection. It runs with in-memory
// SQLite, the real Anthropic API, and a seeded mock calendar.
//
// Usage:
//
//	ANTHROPIC_API_KEY=sk-... go run cmd/devserver/main.go
//
// The server exposes additional dev control endpoints:
//   - POST /api/dev/reset - Clear chat history and the action log
//   - POST /api/dev/seed-event - Add an event to the mock calendar
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/minhvu-dev/calassist/internal/calendar"
	"github.com/minhvu-dev/calassist/internal/config"
	"github.com/minhvu-dev/calassist/internal/database"
	"github.com/minhvu-dev/calassist/internal/llm"
	"github.com/minhvu-dev/calassist/internal/pipeline"
	"github.com/minhvu-dev/calassist/internal/server"
	"github.com/minhvu-dev/calassist/internal/testutil"
)

func main() {
	fmt.Println("Starting calassist dev server...")
	fmt.Println("This server uses in-memory SQLite and a mock Google Calendar.")

	cfg := config.LoadFromEnv()

	if cfg.AnthropicAPIKey == "" {
		fmt.Println("Warning: ANTHROPIC_API_KEY not set. Chat requests will fail.")
	}

	db, err := database.New(":memory:")
	if err != nil {
		fmt.Printf("Failed to create database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	fmt.Println("In-memory database initialized")

	transport := testutil.NewMockTransport()
	seedCalendar(transport)

	gateway := llm.NewClient(cfg.AnthropicAPIKey, cfg.Model, cfg.Temperature, cfg.MaxOutputTokens)
	asst := pipeline.New(gateway, transport)

	srv := server.New(server.Config{
		DB:          db,
		Assistant:   asst,
		Port:        cfg.HTTPPort,
		HistorySize: cfg.HistorySize,
	})

	devMux := http.NewServeMux()
	mainHandler := srv.Handler()

	devMux.HandleFunc("POST /api/dev/reset", func(w http.ResponseWriter, r *http.Request) {
		fmt.Println("Resetting dev database...")

		if _, err := db.Exec("DELETE FROM chat_messages"); err != nil {
			http.Error(w, fmt.Sprintf("Failed to clear chat history: %v", err), http.StatusInternalServerError)
			return
		}
		if _, err := db.Exec("DELETE FROM action_log"); err != nil {
			http.Error(w, fmt.Sprintf("Failed to clear action log: %v", err), http.StatusInternalServerError)
			return
		}

		respondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
	})

	devMux.HandleFunc("POST /api/dev/seed-event", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID       string `json:"id"`
			Summary  string `json:"summary"`
			Start    string `json:"start_datetime"`
			End      string `json:"end_datetime"`
			Location string `json:"location"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if req.ID == "" || req.Summary == "" || req.Start == "" {
			http.Error(w, "id, summary and start_datetime are required", http.StatusBadRequest)
			return
		}

		start, err := time.Parse(time.RFC3339, req.Start)
		if err != nil {
			http.Error(w, "invalid start_datetime", http.StatusBadRequest)
			return
		}

		event := calendar.Event{
			ID:        req.ID,
			Summary:   req.Summary,
			StartTime: start,
			Location:  req.Location,
		}
		if req.End != "" {
			end, err := time.Parse(time.RFC3339, req.End)
			if err != nil {
				http.Error(w, "invalid end_datetime", http.StatusBadRequest)
				return
			}
			event.EndTime = &end
		}

		transport.AddEvent(event)
		fmt.Printf("Seeded event %s: %s\n", event.ID, event.Summary)
		respondJSON(w, http.StatusOK, map[string]string{"status": "seeded"})
	})

	devMux.Handle("/", mainHandler)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      devMux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	go func() {
		fmt.Printf("Dev server listening on http://localhost%s\n", addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "HTTP server error: %v\n", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	fmt.Println("Shutting down...")
	httpSrv.Close()
}

func seedCalendar(transport *testutil.MockTransport) {
	now := time.Now()
	standup := now.Add(18 * time.Hour).Truncate(time.Hour)
	standupEnd := standup.Add(30 * time.Minute)
	review := now.Add(48 * time.Hour).Truncate(time.Hour)
	reviewEnd := review.Add(time.Hour)

	transport.AddEvent(calendar.Event{
		ID:        "seed-standup",
		Summary:   "Daily Standup",
		StartTime: standup,
		EndTime:   &standupEnd,
	})
	transport.AddEvent(calendar.Event{
		ID:        "seed-review",
		Summary:   "Sprint Review",
		StartTime: review,
		EndTime:   &reviewEnd,
		Location:  "Zoom",
	})

	fmt.Println("Mock calendar seeded with 2 events")
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
