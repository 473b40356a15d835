package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/opencrowd/crowdfund-backend/cmd/utils"
	"github.com/opencrowd/crowdfund-backend/internal/apptracker/dryrun"
	"github.com/opencrowd/crowdfund-backend/internal/apptracker/sentry"
	"github.com/opencrowd/crowdfund-backend/internal/serve"
)

type serveCmd struct{}

func (c *serveCmd) Command() *cobra.Command {
	cfg := serve.Configs{}

	var sentryDSN string
	var environment string
	cfgOpts := utils.ConfigOptions{
		utils.LogLevelOption(&cfg.LogLevel),
		utils.DatabasePathOption(&cfg.DatabasePath),
		utils.RPCURLOption(&cfg.RPCURL),
		utils.ContractAddressOption(&cfg.ContractAddress),
		utils.SentryDSNOption(&sentryDSN),
		utils.EnvironmentOption(&environment),
		{
			Name:        "port",
			Usage:       "Port to listen and serve on",
			ConfigKey:   &cfg.Port,
			FlagDefault: 8001,
			Required:    false,
		},
		{
			Name:        "keystore-dir",
			Usage:       "Directory holding the encrypted key files of the signing accounts. Leave empty to serve without a wallet provider.",
			ConfigKey:   &cfg.KeystoreDir,
			FlagDefault: "",
			Required:    false,
		},
		{
			Name:        "keystore-passphrase",
			Usage:       "Passphrase unlocking the key files in the keystore directory.",
			ConfigKey:   &cfg.KeystorePassphrase,
			FlagDefault: "",
			Required:    false,
		},
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run Crowdfund Backend server",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfgOpts.RequireE(); err != nil {
				return fmt.Errorf("requiring values of config options: %w", err)
			}
			if err := cfgOpts.SetValues(); err != nil {
				return fmt.Errorf("setting values of config options: %w", err)
			}
			logrus.SetLevel(cfg.LogLevel)

			if sentryDSN != "" {
				appTracker, err := sentry.NewSentryTracker(sentryDSN, environment, 5)
				if err != nil {
					return fmt.Errorf("initializing App Tracker: %w", err)
				}
				cfg.AppTracker = appTracker
			} else {
				cfg.AppTracker = &dryrun.DryRunTracker{}
			}

			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return c.Run(cfg)
		},
	}

	if err := cfgOpts.Init(cmd); err != nil {
		logrus.Fatalf("Error initializing a config option: %s", err.Error())
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
