package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/minhvu-dev/calassist/internal/calendar"
	"github.com/minhvu-dev/calassist/internal/database"
	"github.com/minhvu-dev/calassist/internal/notify"
	"github.com/minhvu-dev/calassist/internal/pipeline"
)

// Assistant handles one user utterance end to end
type Assistant interface {
	HandleUserRequest(ctx context.Context, text string, history []pipeline.Turn) *pipeline.Result
}

type Server struct {
	db            *database.DB
	calClient     *calendar.Client
	assistant     Assistant
	notifyService *notify.Service
	httpSrv       *http.Server
	port          int
	historySize   int
	retention     int
}

// Config holds the server's collaborators and settings
type Config struct {
	DB            *database.DB
	CalClient     *calendar.Client
	Assistant     Assistant
	NotifyService *notify.Service
	Port          int
	HistorySize   int
}

func New(cfg Config) *Server {
	s := &Server{
		db:            cfg.DB,
		calClient:     cfg.CalClient,
		assistant:     cfg.Assistant,
		notifyService: cfg.NotifyService,
		port:          cfg.Port,
		historySize:   cfg.HistorySize,
		retention:     cfg.HistorySize * 20,
	}
	if s.retention <= 0 {
		s.retention = 200
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.corsMiddleware(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // chat requests wait on the model
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /health", s.handleHealthCheck)

	// Chat API
	mux.HandleFunc("POST /api/chat/message", s.handleChatMessage)
	mux.HandleFunc("GET /api/chat/history", s.handleChatHistory)
	mux.HandleFunc("GET /api/chat/actions", s.handleRecentActions)

	// Calendar API
	mux.HandleFunc("GET /api/calendar/events", s.handleListEvents)

	// Google OAuth API
	mux.HandleFunc("GET /api/auth/status", s.handleAuthStatus)
	mux.HandleFunc("POST /api/auth/connect", s.handleAuthConnect)
	mux.HandleFunc("GET /oauth/callback", s.handleOAuthCallback)
	mux.HandleFunc("POST /api/auth/disconnect", s.handleAuthDisconnect)
}

func (s *Server) Start() error {
	fmt.Printf("Starting HTTP server on http://localhost:%d\n", s.port)
	return s.httpSrv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// Handler returns the server's HTTP handler for testing purposes
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// corsMiddleware adds CORS headers to allow local client requests
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// Handle preflight requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
