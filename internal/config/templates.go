package config

import (
	"fmt"
	"strings"
)

// GetSettingsTemplate renders a documented starter settings file. Values in
// the DEFAULT section apply to every repository; a section named exactly
// owner/name overrides them for that repository alone.
func GetSettingsTemplate(repository, logLevel string, excludePaths []string) string {
	var sb strings.Builder

	sb.WriteString("# critic settings file\n")
	sb.WriteString("#\n")
	sb.WriteString("# Values in [DEFAULT] apply to every repository. Add a section named\n")
	sb.WriteString("# exactly after a repository (e.g. [octocat/hello-world]) to override\n")
	sb.WriteString("# values for that repository only.\n\n")

	sb.WriteString("[DEFAULT]\n")
	fmt.Fprintf(&sb, "repository = %s\n", repository)
	fmt.Fprintf(&sb, "log_level = %s\n", logLevel)
	sb.WriteString("\n")
	sb.WriteString("# Enable to force DEBUG logging regardless of log_level.\n")
	sb.WriteString("#debug = false\n")
	sb.WriteString("\n")
	sb.WriteString("# Comma-separated gitignore-style patterns; matching files are not reviewed.\n")
	if len(excludePaths) > 0 {
		fmt.Fprintf(&sb, "exclude_paths = %s\n", strings.Join(excludePaths, ","))
	} else {
		sb.WriteString("#exclude_paths = node_modules,vendor\n")
	}
	sb.WriteString("\n")
	sb.WriteString("# Comma-separated usernames; when set, only their pull requests are reviewed.\n")
	sb.WriteString("#limit_users =\n")
	sb.WriteString("\n")
	sb.WriteString("# Comma-separated pull request numbers; when set, only those are reviewed.\n")
	sb.WriteString("#pull_requests =\n")
	sb.WriteString("\n")
	sb.WriteString("# Maximum number of new issues to report per pull request.\n")
	fmt.Fprintf(&sb, "#pr_issue_report_limit = %d\n", DefaultPRIssueReportLimit)
	sb.WriteString("\n")
	sb.WriteString("# Event number to resume processing from.\n")
	sb.WriteString("#start_event =\n")

	return sb.String()
}
