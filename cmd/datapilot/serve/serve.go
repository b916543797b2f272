// Package servecmder provides the serve command for running the API server.
package servecmder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/datapilotco/datapilot/api"
	"github.com/datapilotco/datapilot/pkg/assistant"
	"github.com/datapilotco/datapilot/pkg/config"
	"github.com/datapilotco/datapilot/pkg/dotdir"
	"github.com/datapilotco/datapilot/pkg/llm/llmutils"
	"github.com/datapilotco/datapilot/pkg/logger"
	"github.com/datapilotco/datapilot/pkg/sqlstore"
)

type serveCommander struct {
	listen   string
	dbPath   string
	provider string
	model    string
	baseURL  string
	apiKey   string
	maxRows  uint
	logFile  string
	jsonLogs bool
	debug    bool

	cfg    *config.Config
	logger *slog.Logger
}

const serveLongDesc string = `Run the DataPilot API server.

The server answers natural-language questions against the sample database:
  POST /api/query      Translate a question to SQL and run it
  POST /api/summarize  Summarize a table
  POST /api/explain    Explain a SQL statement

The sample database is created and seeded on first start.`

const serveShortDesc string = "Run the DataPilot API server"

var serveFlagKeys = []string{
	config.FlagListen,
	config.FlagDatabase,
	config.FlagProvider,
	config.FlagModel,
	config.FlagBaseURL,
	config.FlagAPIKey,
	config.FlagMaxRows,
}

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, err := cmd.Flags().GetString("config")
			if err != nil {
				return fmt.Errorf("could not get config flag: %v", err)
			}

			dot := dotdir.NewManager()
			configDir, err = dot.Target(configDir)
			if err != nil {
				return err
			}

			v, err := config.InitViper(configDir)
			if err != nil {
				return err
			}
			config.BindRegisteredFlags(v, cmd, config.ServeFlags, serveFlagKeys)

			cmder.cfg = config.FromViper(v)
			cmder.cfg.Database.Path, err = dot.DatabasePath(configDir, cmder.cfg.Database.Path)
			if err != nil {
				return err
			}
			return cmder.cfg.Validate()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}

			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, config.ServeFlags, config.FlagListen, &cmder.listen)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagDatabase, &cmder.dbPath)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagProvider, &cmder.provider)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagModel, &cmder.model)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagBaseURL, &cmder.baseURL)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagAPIKey, &cmder.apiKey)
	config.AddUintFlag(cmd, config.ServeFlags, config.FlagMaxRows, &cmder.maxRows)

	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Also write logs to this file")
	cmd.Flags().BoolVar(&cmder.jsonLogs, "json-logs", false, "Write logs as JSON")

	return cmd
}

func (c *serveCommander) run() error {
	log, cleanup, err := c.newLogger()
	if err != nil {
		return err
	}
	defer cleanup()
	c.logger = log

	cfg := c.cfg

	// First start creates and populates the sample database.
	stats, err := sqlstore.Seed(context.Background(), cfg.Database.Path, false)
	if err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}
	if stats != nil {
		c.logger.Info("seeded sample database",
			"path", cfg.Database.Path,
			"customers", stats.Customers,
			"products", stats.Products,
			"orders", stats.Orders,
		)
	}

	store, err := sqlstore.Open(sqlstore.Config{
		Path:         cfg.Database.Path,
		QueryTimeout: cfg.QueryTimeout(),
		MaxRows:      int(cfg.Database.MaxRows),
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	client, err := llmutils.NewClient(&llmutils.NewClientOpts{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.APIKey,
		BaseURL:  cfg.LLM.BaseURL,
		Timeout:  cfg.LLMTimeout(),
	})
	if err != nil {
		return fmt.Errorf("creating llm client: %w", err)
	}

	asst := assistant.New(client, store, assistant.WithLogger(c.logger))

	server := api.NewServer(api.Config{ListenAddr: cfg.API.Listen}, asst, store, client, c.logger)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", "signal", sig.String())
		return server.Shutdown()
	}
}

// newLogger builds the serve logger: pretty terminal output, optionally
// mirrored to a JSON log file.
func (c *serveCommander) newLogger() (*slog.Logger, func(), error) {
	terminal := logger.New(
		logger.WithDebug(c.debug),
		logger.WithPretty(!c.jsonLogs),
		logger.WithJSON(c.jsonLogs),
	)

	if c.logFile == "" {
		return terminal, func() {}, nil
	}

	f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	file := logger.New(
		logger.WithDebug(c.debug),
		logger.WithJSON(true),
		logger.WithWriter(f),
	)

	return logger.Multi(terminal, file), func() { _ = f.Close() }, nil
}
