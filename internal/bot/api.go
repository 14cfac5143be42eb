package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// APIServer provides an HTTP interface for inspecting the running bot.
type APIServer struct {
	server *http.Server
	bot    *Bot
	logger *zap.Logger
}

// NewAPIServer creates a new APIServer.
func NewAPIServer(bot *Bot, port int, logger *zap.Logger) *APIServer {
	server := &http.Server{
		Addr: fmt.Sprintf(":%d", port),
	}

	return &APIServer{
		server: server,
		bot:    bot,
		logger: logger.Named("api-server"),
	}
}

// Start runs the HTTP server in a new goroutine.
func (s *APIServer) Start() {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", s.statusHandler)
	mux.HandleFunc("/health", s.healthHandler)
	s.server.Handler = mux

	s.logger.Info("Starting API server", zap.String("address", s.server.Addr))
	go func() {
		if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
			s.logger.Error("API server failed", zap.Error(err))
		}
	}()
}

// Stop gracefully shuts down the server.
func (s *APIServer) Stop(ctx context.Context) error {
	s.logger.Info("Stopping API server...")
	return s.server.Shutdown(ctx)
}

func (s *APIServer) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := struct {
		StartTime      string `json:"start_time"`
		Uptime         string `json:"uptime"`
		PendingPrompts int    `json:"pending_prompts"`
	}{
		StartTime:      s.bot.StartTime.Format(time.RFC3339),
		Uptime:         time.Since(s.bot.StartTime).String(),
		PendingPrompts: s.bot.Pending(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		s.logger.Error("Failed to write status response", zap.Error(err))
		http.Error(w, "Failed to encode status", http.StatusInternalServerError)
	}
}

func (s *APIServer) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}
