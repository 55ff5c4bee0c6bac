/*
Package server implements the relay's network transport layer.
It builds the echo router, configures timeouts, and wires the plan service
to the Gemini client using the process configuration.
*/
package server

import (
	"fmt"
	"net/http"
	"time"

	"apexfit-relay/internal/config"
	"apexfit-relay/internal/geminiservice"
	"apexfit-relay/internal/planner"
)

// bodyLimit caps JSON request bodies on every route.
const bodyLimit = "1M"

// Server defines the configuration and dependencies for the HTTP service.
type Server struct {
	// cfg is the immutable process configuration.
	cfg config.Config

	// plans renders prompts, calls the model and recovers plan arrays.
	plans *planner.Service

	// startTime is reported by the health endpoint.
	startTime time.Time
}

// New builds a Server around gen. The recovery strategy follows
// cfg.StructuredOutput.
func New(cfg config.Config, gen planner.TextGenerator) *Server {
	var recoverer planner.Recoverer = planner.BracketSpan{}
	if cfg.StructuredOutput {
		recoverer = planner.StrictJSON{}
	}

	return &Server{
		cfg:       cfg,
		plans:     planner.NewService(gen, recoverer),
		startTime: time.Now(),
	}
}

// NewServer initializes the relay against the real Gemini API and returns a
// configured *http.Server.
func NewServer(cfg config.Config) *http.Server {
	app := New(cfg, geminiservice.NewClient(cfg))

	// The write deadline has to outlive the upstream call, otherwise slow
	// generations are cut off before the reply is written.
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      app.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.Timeout + 10*time.Second,
	}

	return server
}
