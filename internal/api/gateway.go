package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/prompt-general/supportdesk/internal/assistant"
	"github.com/prompt-general/supportdesk/internal/config"
	"github.com/prompt-general/supportdesk/internal/health"
	"github.com/prompt-general/supportdesk/internal/memory"
	"github.com/prompt-general/supportdesk/internal/monitoring"
	"github.com/prompt-general/supportdesk/internal/vectorstore"
)

// Gateway is the thin HTTP surface in front of the assistant core. It owns
// session handling and request/response plumbing only; all decision logic
// lives behind the Assistant.
type Gateway struct {
	server    *http.Server
	router    *mux.Router
	assistant *assistant.Assistant
	memory    *memory.Manager
	monitor   *monitoring.Monitor
	vectors   *vectorstore.Store
	health    *health.Checker
	config    config.APIConfig
}

// NewGateway creates the HTTP gateway. checker may be nil when component
// probes are not wanted; /health then reports healthy unconditionally.
func NewGateway(cfg config.APIConfig, a *assistant.Assistant, mem *memory.Manager, monitor *monitoring.Monitor, vectors *vectorstore.Store, checker *health.Checker) *Gateway {
	router := mux.NewRouter()

	gateway := &Gateway{
		router:    router,
		assistant: a,
		memory:    mem,
		monitor:   monitor,
		vectors:   vectors,
		health:    checker,
		config:    cfg,
	}

	gateway.setupRoutes()

	var handler http.Handler = router
	if cfg.EnableCORS {
		handler = cors.New(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type"},
			AllowCredentials: true,
		}).Handler(router)
	}

	gateway.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return gateway
}

// setupRoutes configures all API routes
func (g *Gateway) setupRoutes() {
	api := g.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/chat", g.handleChat).Methods("POST")
	api.HandleFunc("/chat/clear", g.handleClearChat).Methods("POST")
	api.HandleFunc("/stats", g.handleStats).Methods("GET")
	api.HandleFunc("/admin/reindex", g.handleReindex).Methods("POST")

	g.router.HandleFunc("/health", g.handleHealth).Methods("GET")
}

// Start starts the HTTP server
func (g *Gateway) Start() error {
	log.Printf("[api] starting gateway on %s", g.server.Addr)
	return g.server.ListenAndServe()
}

// Stop gracefully shuts down the HTTP server
func (g *Gateway) Stop(ctx context.Context) error {
	log.Printf("[api] stopping gateway")
	return g.server.Shutdown(ctx)
}

// APIError is the error payload of a failed request
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSONResponse(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[api] failed to encode response: %v", err)
	}
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSONResponse(w, status, map[string]*APIError{
		"error": {Code: code, Message: message},
	})
}
