package api

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/datapilotco/datapilot/pkg/assistant"
	"github.com/datapilotco/datapilot/pkg/llm"
	"github.com/datapilotco/datapilot/pkg/sqlstore"
)

// Server is the HTTP front of the data assistant. The assistant and store
// are injected so they can be shared with CLI commands.
type Server struct {
	config    Config
	assistant *assistant.Assistant
	store     *sqlstore.Store
	client    llm.Client
	logger    *slog.Logger
	app       *fiber.App
}

// NewServer creates a new API server.
func NewServer(config Config, asst *assistant.Assistant, store *sqlstore.Store, client llm.Client, logger *slog.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:    config,
		assistant: asst,
		store:     store,
		client:    client,
		logger:    logger,
		app:       app,
	}

	app.Use(s.requestLogger)

	app.Get("/", s.handleIndex)
	app.Get("/health", s.handleHealth)
	app.Get("/schema", s.handleSchema)
	app.Post("/api/query", s.handleQuery)
	app.Post("/api/summarize", s.handleSummarize)
	app.Post("/api/explain", s.handleExplain)

	return s
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		"listen", s.config.ListenAddr,
		"llm_provider", s.client.Name(),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// requestLogger tags each request with an ID and logs its outcome.
func (s *Server) requestLogger(c *fiber.Ctx) error {
	requestID := uuid.NewString()
	c.Locals("request_id", requestID)

	start := time.Now()
	err := c.Next()

	s.logger.Info("request handled",
		"request_id", requestID,
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
	)
	return err
}
