package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lifestats/internal/loaders"
	"lifestats/internal/providers"
	"lifestats/internal/services"
	"lifestats/internal/structures"
)

func newSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the dating match report",
		RunE:  runSummary,
	}
	cmd.Flags().IntP("year", "y", 0, "only count matches of this year")
	return cmd
}

func runSummary(cmd *cobra.Command, _ []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	year, _ := cmd.Flags().GetInt("year")

	conf, err := providers.NewConfigProvider(&structures.CliFlags{ConfigPath: configPath})
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := providers.NewConsoleLogger(cmd.ErrOrStderr(), conf.Logger.Level)
	defer logger.Close()

	compressor, err := loaders.NewZstdCompressor()
	if err != nil {
		return err
	}
	defer compressor.Close()

	conf.Metrics.Enabled = false
	svc, err := services.NewExportService(conf, services.NewDataRoot(conf, compressor), logger, providers.NewMetricsProvider(conf))
	if err != nil {
		return err
	}

	summary, err := svc.MatchSummary(structures.Filter{Year: year})
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), summary.String())
	return err
}
