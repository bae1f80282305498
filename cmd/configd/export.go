package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/groblegark/configd/internal/config"
	"github.com/groblegark/configd/internal/snapshot"
	"github.com/groblegark/configd/internal/store/postgres"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write all stored configuration versions as JSONL to stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		store, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer store.Close()

		return snapshot.ExportJSONL(context.Background(), store, os.Stdout)
	},
}
