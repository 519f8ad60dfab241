package main

import (
	"fmt"
	"strings"

	"github.com/critic-tools/critic/domain"
	"github.com/critic-tools/critic/service"
	"github.com/spf13/cobra"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Resolve and print the effective configuration",
		Long: `Resolve the effective configuration from the settings file, CRITIC_*
environment variables, and --set overrides, then print it.

Examples:
  critic config --repo octocat/hello-world
  critic config --settings ./critic.conf --set debug=true
  critic config --repo a/b --json`,
		RunE: runConfig,
	}

	cmd.Flags().StringP("repo", "r", "", "Repository (owner/name)")
	cmd.Flags().StringP("settings", "s", "", "Path to the settings file")
	cmd.Flags().StringArray("set", nil, "Field override as key=value (repeatable)")
	cmd.Flags().Bool("json", false, "Output as JSON")

	return cmd
}

func runConfig(cmd *cobra.Command, args []string) error {
	repo, _ := cmd.Flags().GetString("repo")
	settingsPath, _ := cmd.Flags().GetString("settings")
	setFlags, _ := cmd.Flags().GetStringArray("set")
	asJSON, _ := cmd.Flags().GetBool("json")

	overrides, err := parseSetFlags(setFlags)
	if err != nil {
		return err
	}

	cfg, err := service.NewSettingsLoader().Resolve(repo, settingsPath, overrides)
	if err != nil {
		return err
	}

	if asJSON {
		return service.WriteJSON(cmd.OutOrStdout(), cfg.Fields())
	}
	fmt.Fprintln(cmd.OutOrStdout(), cfg.String())
	return nil
}

// parseSetFlags turns repeated key=value flags into an override mapping.
// Values stay text; the configuration setters coerce them per field.
func parseSetFlags(flags []string) (map[string]any, error) {
	if len(flags) == 0 {
		return nil, nil
	}
	overrides := make(map[string]any, len(flags))
	for _, flag := range flags {
		key, value, found := strings.Cut(flag, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("--set expects key=value, got %q", flag), nil)
		}
		overrides[key] = value
	}
	return overrides, nil
}
