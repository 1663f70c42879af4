// Package main - cargoctl
// Offline inspection CLI for the cargo transfer store. It reads the SQLite
// database directly and rebuilds ledgers without a running server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/davortega/CargoRutas/server/internal/infra/storage"
)

var dbPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "cargoctl",
		Short: "Inspect persisted cargo ledgers",
		Long:  "cargoctl rebuilds cargo ledgers from the transfer store and prints reports without needing a running server.",
	}
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "cargo.db", "Path to the SQLite transfer store")

	rootCmd.AddCommand(entitiesCmd())
	rootCmd.AddCommand(reportCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openReconstructor() (*storage.Reconstructor, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("transfer store %s not found", dbPath)
	}
	db, err := storage.InitSQLite(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open transfer store: %w", err)
	}
	return storage.NewReconstructor(storage.NewSQLiteTransferRepository(db)), nil
}

func entitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "entities",
		Short: "List every entity with persisted transfers",
		RunE: func(cmd *cobra.Command, args []string) error {
			recon, err := openReconstructor()
			if err != nil {
				return err
			}

			ledgers, err := recon.RebuildAll(cmd.Context())
			if err != nil {
				return err
			}
			if len(ledgers) == 0 {
				fmt.Println("no persisted transfers")
				return nil
			}

			for id, l := range ledgers {
				fmt.Printf("%-8s sent=%-6d received=%d\n", id,
					l.Sent().Count(), l.Received().Count())
			}
			return nil
		},
	}
}

func reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report <entity-id>",
		Short: "Print the full ledger report for one entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recon, err := openReconstructor()
			if err != nil {
				return err
			}

			l, err := recon.RebuildLedger(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			l.WriteReport(os.Stdout, args[0])
			return nil
		},
	}
}
