package main

import (
	"errors"
	"fmt"

	"ainews-console/internal/backend"
	"ainews-console/internal/export"
	"ainews-console/internal/features/countries"
	"ainews-console/internal/features/gdpr"
	"ainews-console/internal/features/plans"
	"ainews-console/internal/features/sources"
	"ainews-console/internal/features/subscribers"
	"ainews-console/internal/features/tags"
	"ainews-console/internal/logger"
	"ainews-console/internal/screen"
	"ainews-console/internal/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var exportAll bool

var exportCmd = &cobra.Command{
	Use:   "export [screen]",
	Short: "Export a screen to XLSX",
	Long: `Fetch a fresh copy of an admin screen and write it to EXPORT_DIR.

Use --all to export every screen; failures are reported and the
remaining screens still run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "export every screen")
}

func definitions() []screen.Definition {
	return []screen.Definition{
		tags.NewDefinition(),
		sources.NewDefinition(),
		countries.NewDefinition(),
		gdpr.NewConsentsDefinition(),
		gdpr.NewRequestsDefinition(),
		gdpr.NewBreachesDefinition(),
		gdpr.NewRetentionDefinition(),
		plans.NewDefinition(),
		subscribers.NewDefinition(),
	}
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportAll == (len(args) == 1) {
		return errors.New("name one screen or pass --all")
	}
	cfg, store, err := openStore()
	if err != nil {
		return err
	}
	log, closeLog, err := logger.Build(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	registry, err := screen.NewRegistry(definitions())
	if err != nil {
		return err
	}
	client, err := backend.NewFromConfig(cfg)
	if err != nil {
		return err
	}
	svc := export.NewExportService(registry, client, storage.AdminTokens(store), cfg.ExportDir, log)

	out := cmd.OutOrStdout()
	if !exportAll {
		path, err := svc.Run(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(out, path)
		return nil
	}

	paths, err := svc.RunAll(cmd.Context())
	for _, p := range paths {
		fmt.Fprintln(out, p)
	}
	if err != nil {
		log.Warn("some exports failed", zap.Error(err))
	}
	return err
}
