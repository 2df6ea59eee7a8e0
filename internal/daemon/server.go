package daemon

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"go.uber.org/zap"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shubhamranswal/TechGuru/internal/agent"
	"github.com/shubhamranswal/TechGuru/internal/config"
	"github.com/shubhamranswal/TechGuru/internal/llm"
	"github.com/shubhamranswal/TechGuru/internal/llm/gemini"
	"github.com/shubhamranswal/TechGuru/internal/observability"
	"github.com/shubhamranswal/TechGuru/internal/review"
	"github.com/shubhamranswal/TechGuru/internal/rpc/task"
	"github.com/shubhamranswal/TechGuru/internal/tools"
)

// Server hosts the tutoring daemon: task endpoints, streaming RPC, review
// scheduling and health/metrics.
type Server struct {
	cfg     *config.Config
	logger  *zap.Logger
	agent   *agent.Agent
	runner  task.Runner
	metrics *observability.Metrics
	tools   *tools.Registry
	reviews *review.Store
}

// NewServer constructs a daemon instance. A blank Gemini API key produces an
// offline daemon that serves simulated responses instead of failing startup.
func NewServer(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	var provider llm.Provider
	if strings.TrimSpace(cfg.Gemini.APIKey) != "" {
		provider = gemini.NewProvider(cfg.Gemini.BaseURL, cfg.Gemini.APIKey, cfg.Gemini.Timeout)
	}

	metrics := observability.NewMetrics()
	orch := agent.NewOrchestrator(provider, cfg.Agent, logger, metrics)
	strategy := agent.NewStrategy(cfg.Models)
	agentCore := agent.New(strategy, orch, cfg.Agent, logger)

	sandbox, err := tools.NewSandbox(cfg.Sandbox.WorkingDir, cfg.Sandbox, cfg.Tools)
	if err != nil {
		return nil, fmt.Errorf("build sandbox: %w", err)
	}
	tests := tools.NewTestRunner(sandbox.Terminal, cfg.Tools)
	toolRegistry := tools.NewRegistry(sandbox.FS, sandbox.Terminal, tests)

	reviews, err := review.OpenStore(cfg.Review.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open review store: %w", err)
	}

	runner := &task.AgentRunner{Agent: agentCore, Metrics: metrics, Logger: logger}

	return &Server{
		cfg:     cfg,
		logger:  logger,
		agent:   agentCore,
		runner:  runner,
		metrics: metrics,
		tools:   toolRegistry,
		reviews: reviews,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/metrics", s.metricsHandler)
	mux.HandleFunc("/v1/model-info", s.modelInfoHandler)
	mux.HandleFunc("/v1/explain", s.explainHandler)
	mux.HandleFunc("/v1/generate-tests", s.generateTestsHandler)
	mux.HandleFunc("/v1/bughunt", s.bugHuntHandler)
	mux.HandleFunc("/v1/scaffold", s.scaffoldHandler)
	mux.HandleFunc("/v1/run-tests", s.runTestsHandler)
	mux.HandleFunc("/v1/apply-patch", s.applyPatchHandler)
	mux.HandleFunc("/v1/review", s.reviewHandler)
	mux.HandleFunc("/v1/review/grade", s.reviewGradeHandler)

	switch strings.ToLower(strings.TrimSpace(s.cfg.Server.Transport)) {
	case "ndjson":
		mux.Handle("/task/run", task.NewHandler(s.runner, s.metrics))
	default:
		path, handler := task.NewConnectHandler(s.runner, s.metrics)
		mux.Handle(path, handler)
		// keep the NDJSON path available alongside Connect
		mux.Handle("/task/run", task.NewHandler(s.runner, s.metrics))
	}

	handler := http.Handler(mux)
	if strings.ToLower(strings.TrimSpace(s.cfg.Server.Transport)) != "ndjson" {
		handler = h2c.NewHandler(handler, &http2.Server{})
	}

	server := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting techguru daemon",
			zap.String("addr", s.cfg.Server.Addr),
			zap.Bool("offline", s.agent.Offline()))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down techguru daemon")
	case err := <-errCh:
		s.closeStore()
		return fmt.Errorf("server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		s.closeStore()
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	s.closeStore()
	return nil
}

func (s *Server) closeStore() {
	if err := s.reviews.Close(); err != nil {
		s.logger.Warn("closing review store", zap.Error(err))
	}
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) metricsHandler(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.Server.MetricsEnabled {
		http.NotFound(w, r)
		return
	}

	promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
}
