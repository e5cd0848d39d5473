package main

import (
	"github.com/spf13/cobra"

	"lifestats/internal/di"
	"lifestats/internal/structures"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve export reports over HTTP",
		RunE:  runServe,
	}
	cmd.Flags().BoolP("debug", "d", false, "mirror logs to stderr")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")

	app, err := di.InitApp(&structures.CliFlags{ConfigPath: configPath, DebugMode: debug})
	if err != nil {
		return err
	}
	return app.Run()
}
