// Package seedcmder provides the seed command for creating the sample
// database.
package seedcmder

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/datapilotco/datapilot/pkg/cliui"
	"github.com/datapilotco/datapilot/pkg/config"
	"github.com/datapilotco/datapilot/pkg/dotdir"
	"github.com/datapilotco/datapilot/pkg/sqlstore"
)

const seedLongDesc string = `Create and populate the sample e-commerce database.

Examples:
  datapilot seed
  datapilot seed --database /tmp/datapilot.db
  datapilot seed --overwrite`

const seedShortDesc string = "Seed the sample database"

type seedCommander struct {
	dbPath    string
	overwrite bool
}

var seedFlagKeys = []string{
	config.FlagDatabase,
}

func NewSeedCmd() *cobra.Command {
	cmder := &seedCommander{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: seedShortDesc,
		Long:  seedLongDesc,
		Args:  cobra.NoArgs,
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
			config.BindRegisteredFlags(v, cmd, config.ServeFlags, seedFlagKeys)

			cfg := config.FromViper(v)
			cmder.dbPath, err = dot.DatabasePath(configDir, cfg.Database.Path)
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, config.ServeFlags, config.FlagDatabase, &cmder.dbPath)
	cmd.Flags().BoolVarP(&cmder.overwrite, "overwrite", "f", false, "Overwrite the database before seeding")

	return cmd
}

func (c *seedCommander) run(ctx context.Context) error {
	var stats *sqlstore.SeedStats
	if err := cliui.Step(os.Stdout, "Seeding sample data", func() error {
		var seedErr error
		stats, seedErr = sqlstore.Seed(ctx, c.dbPath, c.overwrite)
		return seedErr
	}); err != nil {
		return err
	}

	if stats == nil {
		fmt.Printf("\n  %s Database %s already has data, use --overwrite to reseed\n\n",
			cliui.SuccessMark,
			cliui.DimStyle.Render(c.dbPath),
		)
		return nil
	}

	fmt.Printf("\n  %s Seeded %s customers, %s products, %s orders %s into %s\n\n",
		cliui.SuccessMark,
		cliui.NameStyle.Render(strconv.Itoa(stats.Customers)),
		cliui.NameStyle.Render(strconv.Itoa(stats.Products)),
		cliui.NameStyle.Render(strconv.Itoa(stats.Orders)),
		cliui.DimStyle.Render(fmt.Sprintf("(%d order items, %d inventory logs)", stats.OrderItems, stats.InventoryLogs)),
		cliui.DimStyle.Render(c.dbPath),
	)
	return nil
}
