package main

import (
	"github.com/critic-tools/critic/app"
	"github.com/critic-tools/critic/domain"
	"github.com/spf13/cobra"
)

var (
	reportRepo     string
	reportSettings string
	reportFormat   string
	reportSet      []string
	reportOutput   string
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [findings-file]",
		Short: "Aggregate findings into grouped review comments",
		Long: `Read a findings document (YAML) describing one review pass and produce
the grouped review report. Pass "-" to read from stdin.

Examples:
  critic report findings.yaml
  critic report --format markdown findings.yaml
  cat findings.yaml | critic report --format json -`,
		Args: cobra.ExactArgs(1),
		RunE: runReport,
	}

	cmd.Flags().StringVarP(&reportRepo, "repo", "r", "", "Repository (owner/name)")
	cmd.Flags().StringVarP(&reportSettings, "settings", "s", "", "Path to the settings file")
	cmd.Flags().StringVarP(&reportFormat, "format", "f", "text", "Output format: text, json, markdown")
	cmd.Flags().StringArrayVar(&reportSet, "set", nil, "Field override as key=value (repeatable)")
	cmd.Flags().StringVarP(&reportOutput, "output", "o", "", "Output file path (default: stdout)")

	return cmd
}

func runReport(cmd *cobra.Command, args []string) error {
	format, err := domain.ParseOutputFormat(reportFormat)
	if err != nil {
		return err
	}

	overrides, err := parseSetFlags(reportSet)
	if err != nil {
		return err
	}

	req, err := app.NewInputHelper().LoadReviewRequest(args[0])
	if err != nil {
		return err
	}

	config := app.DefaultReviewConfig()
	config.Repository = reportRepo
	config.SettingsPath = reportSettings
	config.Overrides = overrides
	config.OutputFormat = format
	config.OutputWriter = cmd.OutOrStdout()
	config.OutputPath = reportOutput
	config.ShowProgress = format == domain.OutputFormatText && reportOutput == ""

	_, err = app.NewReviewUseCase().Execute(cmd.Context(), config, req)
	return err
}
