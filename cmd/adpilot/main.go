package main

import (
	"os"

	"github.com/spf13/cobra"

	"adpilot/internal/interfaces/cli/migrate"
	"adpilot/internal/interfaces/cli/rbac"
	"adpilot/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "adpilot",
		Short: "AdPilot - multi-tenant authorization service",
		Long:  `AdPilot serves the authentication and role-based access control API, with schema migration and RBAC catalog bootstrap tools.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		rbac.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
