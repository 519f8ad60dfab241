package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/critic-tools/critic/internal/config"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a critic settings file",
		Long: `Generate a documented settings file with sensible defaults.

Examples:
  # Create critic.conf in the current directory
  critic init --repo octocat/hello-world

  # Custom output path
  critic init --repo a/b --settings ~/.config/critic.conf

  # Interactive setup wizard
  critic init --interactive
  critic init -i`,
		RunE: runInit,
	}

	cmd.Flags().StringP("repo", "r", "", "Repository (owner/name)")
	cmd.Flags().StringP("settings", "s", "critic.conf", "Output path for the settings file")
	cmd.Flags().BoolP("force", "f", false, "Overwrite an existing settings file")
	cmd.Flags().BoolP("interactive", "i", false, "Interactive setup wizard")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	repo, _ := cmd.Flags().GetString("repo")
	settingsPath, _ := cmd.Flags().GetString("settings")
	force, _ := cmd.Flags().GetBool("force")
	interactive, _ := cmd.Flags().GetBool("interactive")

	logLevel := config.DefaultLogLevel
	var excludePaths []string

	if interactive {
		var err error
		repo, logLevel, excludePaths, settingsPath, err = runInteractiveSetup(settingsPath)
		if err != nil {
			return err
		}
	}

	if !config.ValidRepository(repo) {
		return fmt.Errorf("a repository of the form owner/name is required (got %q)", repo)
	}

	if !force {
		if _, err := os.Stat(settingsPath); err == nil {
			return fmt.Errorf("%s already exists. Use --force to overwrite", settingsPath)
		}
	}

	dir := filepath.Dir(settingsPath)
	if dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", dir)
		}
	}

	content := config.GetSettingsTemplate(repo, logLevel, excludePaths)
	if err := os.WriteFile(settingsPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	displayPath := settingsPath
	if absPath, err := filepath.Abs(settingsPath); err == nil {
		displayPath = absPath
	}
	fmt.Printf("Created %s\n", displayPath)
	fmt.Println("\nRun 'critic config' to inspect the resolved configuration.")

	return nil
}

func runInteractiveSetup(defaultSettingsPath string) (repo, logLevel string, excludePaths []string, settingsPath string, err error) {
	fmt.Println()
	fmt.Println("critic Settings Setup")
	fmt.Println("=====================")
	fmt.Println()

	repoPrompt := promptui.Prompt{
		Label: "Repository (owner/name)",
		Validate: func(input string) error {
			if !config.ValidRepository(input) {
				return errors.New("must look like owner/name")
			}
			return nil
		},
	}
	repo, err = repoPrompt.Run()
	if err != nil {
		return "", "", nil, "", fmt.Errorf("repository input cancelled: %w", err)
	}

	fmt.Println()

	levels := []string{"DEBUG", "INFO", "WARNING", "ERROR", "CRITICAL"}
	levelPrompt := promptui.Select{
		Label:     "Default log level",
		Items:     levels,
		CursorPos: 3, // ERROR
	}
	_, logLevel, err = levelPrompt.Run()
	if err != nil {
		return "", "", nil, "", fmt.Errorf("log level selection cancelled: %w", err)
	}

	fmt.Println()

	excludePrompt := promptui.Prompt{
		Label:   "Exclude paths (comma-separated, empty for none)",
		Default: "",
	}
	excludeInput, err := excludePrompt.Run()
	if err != nil {
		return "", "", nil, "", fmt.Errorf("exclude paths input cancelled: %w", err)
	}
	for _, token := range strings.Split(excludeInput, ",") {
		if token = strings.TrimSpace(token); token != "" {
			excludePaths = append(excludePaths, token)
		}
	}

	fmt.Println()

	outputPrompt := promptui.Prompt{
		Label:   "Output file path",
		Default: defaultSettingsPath,
	}
	settingsPath, err = outputPrompt.Run()
	if err != nil {
		return "", "", nil, "", fmt.Errorf("output path input cancelled: %w", err)
	}
	if settingsPath == "" {
		settingsPath = defaultSettingsPath
	}

	fmt.Println()

	return repo, logLevel, excludePaths, settingsPath, nil
}
