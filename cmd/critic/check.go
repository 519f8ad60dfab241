package main

import (
	"fmt"

	"github.com/critic-tools/critic/app"
	"github.com/spf13/cobra"
)

// Exit codes for the check command
const (
	exitLimitExceeded = 1
	exitNotSelected   = 2
)

// CheckExitError signals a non-zero exit code without the default error
// output
type CheckExitError struct {
	Code    int
	Message string
}

// Error implements the error interface
func (e *CheckExitError) Error() string {
	return e.Message
}

var (
	checkRepo     string
	checkSettings string
	checkSet      []string
)

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [findings-file]",
		Short: "Gate a review pass against the configured limits",
		Long: `Read a findings document (YAML) and exit non-zero when the review pass
should not proceed. For CI gates.

Exit codes:
  0  review may proceed
  1  new issue count exceeds pr_issue_report_limit
  2  author not whitelisted or pull request not selected`,
		Args:          cobra.ExactArgs(1),
		RunE:          runCheck,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVarP(&checkRepo, "repo", "r", "", "Repository (owner/name)")
	cmd.Flags().StringVarP(&checkSettings, "settings", "s", "", "Path to the settings file")
	cmd.Flags().StringArrayVar(&checkSet, "set", nil, "Field override as key=value (repeatable)")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	overrides, err := parseSetFlags(checkSet)
	if err != nil {
		return err
	}

	req, err := app.NewInputHelper().LoadReviewRequest(args[0])
	if err != nil {
		return err
	}

	// The gate only needs the summary, not a formatted report
	config := app.ReviewConfig{
		Repository:   checkRepo,
		SettingsPath: checkSettings,
		Overrides:    overrides,
	}
	rep, err := app.NewReviewUseCase().Execute(cmd.Context(), config, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "critic check: %d new, %d on host, %d file(s) reviewed (limit %d)\n",
		rep.Summary.NewComments, rep.Summary.OnHostComments,
		rep.Summary.FilesReviewed, rep.Summary.ReportLimit)

	if !rep.AuthorAllowed {
		return &CheckExitError{Code: exitNotSelected,
			Message: fmt.Sprintf("author %q is not whitelisted", rep.Author)}
	}
	if !rep.PullRequestSelected {
		return &CheckExitError{Code: exitNotSelected,
			Message: fmt.Sprintf("pull request #%d is not selected", rep.PullRequest)}
	}
	if rep.Summary.LimitExceeded {
		return &CheckExitError{Code: exitLimitExceeded,
			Message: fmt.Sprintf("%d new issues exceed the report limit of %d",
				rep.Summary.NewComments, rep.Summary.ReportLimit)}
	}
	return nil
}
