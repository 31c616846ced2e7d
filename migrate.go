package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create tables and indexes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := config.Load()
		if cfg.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required")
		}
		store, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		store.Close()
		fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
		return nil
	},
}
