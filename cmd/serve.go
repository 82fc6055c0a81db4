package cmd

import (
	"fmt"
	"go/types"

	"github.com/spf13/cobra"
	"github.com/stellar/go-stellar-sdk/support/config"
	"github.com/stellar/go-stellar-sdk/support/log"

	"github.com/anchor-protocol/anchor-txs/internal/serve"
)

type serveCmd struct{}

func (c *serveCmd) Command() *cobra.Command {
	cfg := serve.Configs{}
	pipelineOpts := pipelineOptions{}

	cfgOpts := pipelineOpts.configOptions(&cfg)
	cfgOpts = append(cfgOpts, &config.ConfigOption{
		Name:        "port",
		Usage:       "Port to listen and serve on",
		OptType:     types.Int,
		ConfigKey:   &cfg.Port,
		FlagDefault: 8001,
		Required:    false,
	})

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the transaction server",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfgOpts.RequireE(); err != nil {
				return fmt.Errorf("requiring values of config options: %w", err)
			}
			if err := cfgOpts.SetValues(); err != nil {
				return fmt.Errorf("setting values of config options: %w", err)
			}
			if err := pipelineOpts.resolve(&cfg); err != nil {
				return fmt.Errorf("resolving pipeline options: %w", err)
			}
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return c.Run(cfg)
		},
	}

	if err := cfgOpts.Init(cmd); err != nil {
		log.Fatalf("Error initializing a config option: %s", err.Error())
	}

	return cmd
}

func (c *serveCmd) Run(cfg serve.Configs) error {
	err := serve.Serve(cfg)
	if err != nil {
		return fmt.Errorf("running serve: %w", err)
	}
	return nil
}
