package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/nrjbutsecond/tessera/internal/interfaces/cli/migrate"
	"github.com/nrjbutsecond/tessera/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tessera",
		Short: "Tessera - finite-capacity event ticketing",
		Long:  `Tessera is a ticket reservation and admission service with built-in server and migration tools.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
