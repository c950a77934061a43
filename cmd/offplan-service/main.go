package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"offplan-service/internal"
	"offplan-service/internal/core/domain"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "offplan-service",
		Short:         "Off-plan property catalog: API, Estaty sync and migrations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd(), syncCmd(), migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("offplan-service: %v", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the sync-task consumer and the optional scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := internal.NewApp()
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			return application.Run()
		},
	}
}

func syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "sync [properties|filters|statuses|details]",
		Short:     "Run one sync pass and exit",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(domain.SyncProperties), string(domain.SyncFilters), string(domain.SyncStatuses), string(domain.SyncDetails)},
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := domain.SyncProperties
			if len(args) == 1 {
				parsed, err := domain.ParseSyncMode(args[0])
				if err != nil {
					return err
				}
				mode = parsed
			}

			application, err := internal.NewApp()
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			stats, err := application.RunSync(mode)
			if err != nil {
				return fmt.Errorf("sync %s failed: %w", mode, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sync %s finished: created=%d updated=%d skipped=%d failed=%d stop_reason=%s\n",
				mode, stats.Created, stats.Updated, stats.Skipped, stats.Failed, stats.StopReason)
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := internal.NewApp()
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			defer application.Close()
			return application.Migrate(context.Background())
		},
	}
}
