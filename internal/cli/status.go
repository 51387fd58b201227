package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/greenbasket/greenbasket/internal/config"
	"github.com/greenbasket/greenbasket/internal/version"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show greenbasket status and configuration summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("Greenbasket %s (commit %s)\n\n", version.Version, version.Commit)

			fmt.Printf("Config:  %s\n", paths.Config)
			fmt.Printf("Data:    %s\n", paths.Data)
			fmt.Printf("Logs:    %s\n", paths.Logs)
			fmt.Println()

			cfg, err := config.Load(paths.Config)
			if err != nil {
				if os.IsNotExist(err) {
					fmt.Println("Config:  not found (using defaults)")
				} else {
					fmt.Printf("Config:  error loading: %v\n", err)
				}
				return nil
			}

			auth := "open"
			if cfg.Server.Auth.Token != "" {
				auth = "token"
			}
			fmt.Printf("Server:  port=%d bind=%s auth=%s\n", cfg.Server.Port, cfg.Server.Bind, auth)
			fmt.Printf("Session: store=%s max=%d\n", cfg.Session.Store, cfg.Session.MaxMessages)

			key := "(not set)"
			if cfg.Completion.APIKey != "" {
				key = "set"
			}
			fmt.Printf("Model:   %s via %s (key %s)\n", cfg.Completion.Model, cfg.Completion.BaseURL, key)
			if len(cfg.Completion.Fallbacks) > 0 {
				fmt.Printf("Fallbacks: %v\n", cfg.Completion.Fallbacks)
			}

			fmt.Printf("Database: %s\n", paths.DatabasePath(&cfg))

			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				fmt.Printf("\nValidation issues (%d):\n", len(issues))
				for _, issue := range issues {
					fmt.Printf("  - %s: %s\n", issue.Path, issue.Message)
				}
			}

			return nil
		},
	}

	return cmd
}
