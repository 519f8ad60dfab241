package domain

import "fmt"

// OutputFormat represents the output format for review reports
type OutputFormat string

const (
	OutputFormatText     OutputFormat = "text"
	OutputFormatJSON     OutputFormat = "json"
	OutputFormatMarkdown OutputFormat = "markdown"
)

// ParseOutputFormat validates a format name supplied on the command line
func ParseOutputFormat(name string) (OutputFormat, error) {
	switch OutputFormat(name) {
	case OutputFormatText, OutputFormatJSON, OutputFormatMarkdown:
		return OutputFormat(name), nil
	default:
		return "", NewInvalidInputError(
			fmt.Sprintf("invalid output format %q (must be one of: text, json, markdown)", name), nil)
	}
}

// Finding is a single reviewer comment associated with a source line.
// OnHost marks findings already visible on the review-hosting platform.
type Finding struct {
	Message string `yaml:"message" json:"message"`
	Line    int    `yaml:"line" json:"line"`
	OnHost  bool   `yaml:"on_host" json:"on_host"`
}

// FileFindings holds all findings reported against one file
type FileFindings struct {
	Path     string    `yaml:"path" json:"path"`
	Findings []Finding `yaml:"findings" json:"findings"`
}

// ReviewRequest describes one review pass over a pull request
type ReviewRequest struct {
	Repository  string         `yaml:"repository" json:"repository"`
	PullRequest int            `yaml:"pull_request" json:"pull_request"`
	Author      string         `yaml:"author" json:"author"`
	Files       []FileFindings `yaml:"files" json:"files"`
}

// ReviewComment is a grouped comment ready to post, anchored at a line
type ReviewComment struct {
	Path string `json:"path"`
	Line int    `json:"line"`
	Body string `json:"body"`
}

// FileReport aggregates the grouped comments and counts for one file
type FileReport struct {
	Path     string          `json:"path"`
	Comments []ReviewComment `json:"comments"`
	Total    int             `json:"total"`
	OnHost   int             `json:"on_host"`
	New      int             `json:"new"`
}

// ReportSummary provides aggregate statistics for a review pass
type ReportSummary struct {
	FilesReviewed  int  `json:"files_reviewed"`
	FilesExcluded  int  `json:"files_excluded"`
	TotalComments  int  `json:"total_comments"`
	OnHostComments int  `json:"on_host_comments"`
	NewComments    int  `json:"new_comments"`
	ReportLimit    int  `json:"report_limit"`
	LimitExceeded  bool `json:"limit_exceeded"`
}

// ReviewReport is the result of aggregating one review pass
type ReviewReport struct {
	Repository          string        `json:"repository"`
	PullRequest         int           `json:"pull_request"`
	Author              string        `json:"author"`
	AuthorAllowed       bool          `json:"author_allowed"`
	PullRequestSelected bool          `json:"pull_request_selected"`
	Files               []FileReport  `json:"files"`
	Summary             ReportSummary `json:"summary"`
	GeneratedAt         string        `json:"generated_at"`
	Version             string        `json:"version"`
}

// Actionable reports whether the review pass produced comments worth posting
func (r *ReviewReport) Actionable() bool {
	return r.AuthorAllowed && r.PullRequestSelected && r.Summary.NewComments > 0
}
