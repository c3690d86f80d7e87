package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kartoza/kartoza-sql-lab/internal/config"
	"github.com/kartoza/kartoza-sql-lab/internal/postgres"
)

var serviceCheck bool

// serviceCmd groups the pg_service.conf commands
var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage the active database service",
	Long: `List the services in pg_service.conf and choose the one used by
'convert --execute' and ctrl+r in the TUI.`,
}

var serviceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List services from pg_service.conf",
	RunE:  runServiceList,
}

var serviceUseCmd = &cobra.Command{
	Use:   "use [name]",
	Short: "Set the active service",
	Long: `Set the active service after checking it exists in pg_service.conf.

Example:
  kartoza-sql-lab service use analytics
  kartoza-sql-lab service use analytics --check`,
	Args: cobra.ExactArgs(1),
	RunE: runServiceUse,
}

var serviceClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Unset the active service",
	RunE:  runServiceClear,
}

func init() {
	serviceUseCmd.Flags().BoolVar(&serviceCheck, "check", false, "Test the connection before saving")
	serviceCmd.AddCommand(serviceListCmd, serviceUseCmd, serviceClearCmd)
}

func runServiceList(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	services, err := postgres.ParsePGServiceFile()
	if err != nil {
		return err
	}
	if len(services) == 0 {
		fmt.Fprintln(w, "No services found in pg_service.conf")
		return nil
	}

	for _, s := range services {
		marker := " "
		if s.Name == cfg.ActiveService {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %-20s %-25s %s\n", marker, s.Name, s.Host, s.DBName)
	}
	return nil
}

func runServiceUse(cmd *cobra.Command, args []string) error {
	name := args[0]

	service, err := postgres.LookupService(name)
	if err != nil {
		return err
	}

	if serviceCheck {
		ctx, cancel := context.WithTimeout(commandContext(cmd), 10*time.Second)
		defer cancel()
		if err := service.TestConnection(ctx); err != nil {
			return err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ActiveService = service.Name
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	logger.Debug("active service set", zap.String("service", service.Name))
	fmt.Fprintf(cmd.OutOrStdout(), "Active service: %s\n", service.Name)
	return nil
}

func runServiceClear(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ActiveService = ""
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Active service cleared")
	return nil
}
