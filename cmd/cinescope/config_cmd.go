package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

// newConfigCmd returns the "config" subcommand group for configuration management.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	cmd.AddCommand(newConfigValidateCmd(), newConfigShowCmd())
	return cmd
}

// newConfigValidateCmd returns the "config validate" subcommand that checks config file validity.
func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			fmt.Println(styleSuccess.Render("✓ Configuration is valid"))
			if cfg.OMDb == nil {
				fmt.Println(styleDim.Render("  OMDb enrichment disabled (no omdb section)"))
			}
			if cfg.Telegram == nil {
				fmt.Println(styleDim.Render("  Telegram bot disabled (no telegram section)"))
			}
			return nil
		},
	}
}

// newConfigShowCmd prints the effective configuration, after env overrides
// and defaults, with secrets masked.
func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			masked := *cfg
			masked.TMDb.APIKey = mask(cfg.TMDb.APIKey)
			masked.TMDb.AccessToken = mask(cfg.TMDb.AccessToken)
			if cfg.OMDb != nil {
				omdb := *cfg.OMDb
				omdb.APIKey = mask(omdb.APIKey)
				masked.OMDb = &omdb
			}
			if cfg.Telegram != nil {
				tg := *cfg.Telegram
				tg.BotToken = mask(tg.BotToken)
				masked.Telegram = &tg
			}

			out, err := yaml.Marshal(&masked)
			if err != nil {
				return fmt.Errorf("encode configuration: %w", err)
			}
			fmt.Print(string(out))
			return nil
		},
	}
}

// mask keeps the last four characters of a secret.
func mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}
