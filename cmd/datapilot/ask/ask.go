// Package askcmder provides the ask command: one question answered from the
// terminal, without running the HTTP server.
package askcmder

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/datapilotco/datapilot/pkg/assistant"
	"github.com/datapilotco/datapilot/pkg/cliui"
	"github.com/datapilotco/datapilot/pkg/config"
	"github.com/datapilotco/datapilot/pkg/dotdir"
	"github.com/datapilotco/datapilot/pkg/llm/llmutils"
	"github.com/datapilotco/datapilot/pkg/sqlstore"
)

const askLongDesc string = `Ask the assistant one question about the sample database.

Examples:
  datapilot ask "Who are our top 10 customers by total spending?"
  datapilot ask --no-execute "How many orders shipped in March?"`

const askShortDesc string = "Ask one question from the terminal"

type askCommander struct {
	dbPath    string
	provider  string
	model     string
	baseURL   string
	apiKey    string
	maxRows   uint
	noExecute bool

	cfg *config.Config
}

var askFlagKeys = []string{
	config.FlagDatabase,
	config.FlagProvider,
	config.FlagModel,
	config.FlagBaseURL,
	config.FlagAPIKey,
	config.FlagMaxRows,
}

func NewAskCmd() *cobra.Command {
	cmder := &askCommander{}

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: askShortDesc,
		Long:  askLongDesc,
		Args:  cobra.MinimumNArgs(1),
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
			config.BindRegisteredFlags(v, cmd, config.ServeFlags, askFlagKeys)

			cmder.cfg = config.FromViper(v)
			cmder.cfg.Database.Path, err = dot.DatabasePath(configDir, cmder.cfg.Database.Path)
			if err != nil {
				return err
			}
			return cmder.cfg.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), strings.Join(args, " "))
		},
	}

	config.AddStringFlag(cmd, config.ServeFlags, config.FlagDatabase, &cmder.dbPath)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagProvider, &cmder.provider)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagModel, &cmder.model)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagBaseURL, &cmder.baseURL)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagAPIKey, &cmder.apiKey)
	config.AddUintFlag(cmd, config.ServeFlags, config.FlagMaxRows, &cmder.maxRows)
	cmd.Flags().BoolVar(&cmder.noExecute, "no-execute", false, "Show the generated SQL without running it")

	return cmd
}

func (c *askCommander) run(ctx context.Context, question string) error {
	cfg := c.cfg

	if _, err := sqlstore.Seed(ctx, cfg.Database.Path, false); err != nil {
		return fmt.Errorf("seeding database: %w", err)
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

	asst := assistant.New(client, store)

	var result *assistant.QueryResult
	if err := cliui.Step(os.Stdout, "Asking "+client.Name(), func() error {
		var queryErr error
		result, queryErr = asst.Query(ctx, assistant.QueryParams{
			Question: question,
			Execute:  !c.noExecute,
		})
		return queryErr
	}); err != nil {
		return err
	}

	fmt.Printf("\n  %s\n\n", cliui.NameStyle.Render(result.SQL))

	if result.Executed {
		printRows(result)
	}

	if result.Explanation != "" {
		rendered, err := cliui.RenderMarkdown(result.Explanation)
		if err != nil {
			rendered = result.Explanation
		}
		fmt.Print(rendered)
	}

	return nil
}

func printRows(result *assistant.QueryResult) {
	fmt.Printf("  %s\n", cliui.DimStyle.Render(strings.Join(result.Columns, " | ")))
	for _, row := range result.Rows {
		parts := make([]string, 0, len(result.Columns))
		for _, col := range result.Columns {
			parts = append(parts, fmt.Sprintf("%v", row[col]))
		}
		fmt.Printf("  %s\n", strings.Join(parts, " | "))
	}
	fmt.Printf("\n  %s\n\n", cliui.DimStyle.Render(fmt.Sprintf("%d rows in %.1fms", result.RowCount, result.ElapsedMs)))
}
