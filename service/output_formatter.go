package service

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/critic-tools/critic/domain"
)

// OutputFormatter renders review reports in the supported output formats
type OutputFormatter struct{}

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter() *OutputFormatter {
	return &OutputFormatter{}
}

// WriteJSON writes data as indented JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Write writes the review report in the specified format
func (f *OutputFormatter) Write(rep *domain.ReviewReport, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return WriteJSON(writer, rep)
	case domain.OutputFormatText:
		return f.writeText(rep, writer)
	case domain.OutputFormatMarkdown:
		return f.writeMarkdown(rep, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func (f *OutputFormatter) writeText(rep *domain.ReviewReport, writer io.Writer) error {
	fmt.Fprintf(writer, "\n=== Review Report ===\n\n")
	fmt.Fprintf(writer, "Repository: %s\n", rep.Repository)
	fmt.Fprintf(writer, "Pull request: #%d\n", rep.PullRequest)
	fmt.Fprintf(writer, "Author: %s\n", rep.Author)
	fmt.Fprintf(writer, "Generated: %s\n", rep.GeneratedAt)
	fmt.Fprintf(writer, "Version: %s\n\n", rep.Version)

	if !rep.AuthorAllowed {
		fmt.Fprintf(writer, "Author is not whitelisted; nothing reviewed.\n")
		return nil
	}
	if !rep.PullRequestSelected {
		fmt.Fprintf(writer, "Pull request is not selected by the pull_requests filter; nothing reviewed.\n")
		return nil
	}

	fmt.Fprintf(writer, "Summary:\n")
	fmt.Fprintf(writer, "  Files reviewed: %d\n", rep.Summary.FilesReviewed)
	fmt.Fprintf(writer, "  Files excluded: %d\n", rep.Summary.FilesExcluded)
	fmt.Fprintf(writer, "  Comments: %d (%d on host, %d new)\n",
		rep.Summary.TotalComments, rep.Summary.OnHostComments, rep.Summary.NewComments)
	fmt.Fprintf(writer, "  Report limit: %d\n", rep.Summary.ReportLimit)
	if rep.Summary.LimitExceeded {
		fmt.Fprintf(writer, "  LIMIT EXCEEDED\n")
	}
	fmt.Fprintf(writer, "\n")

	for _, file := range rep.Files {
		if len(file.Comments) == 0 {
			continue
		}
		fmt.Fprintf(writer, "%s:\n", file.Path)
		for _, comment := range file.Comments {
			fmt.Fprintf(writer, "  Line %d: %s\n", comment.Line, comment.Body)
		}
	}

	if rep.Summary.TotalComments == 0 {
		fmt.Fprintf(writer, "No findings.\n")
	}
	return nil
}

func (f *OutputFormatter) writeMarkdown(rep *domain.ReviewReport, writer io.Writer) error {
	fmt.Fprintf(writer, "## Review of %s#%d\n\n", rep.Repository, rep.PullRequest)

	if !rep.AuthorAllowed {
		fmt.Fprintf(writer, "Author `%s` is not whitelisted; nothing reviewed.\n", rep.Author)
		return nil
	}
	if !rep.PullRequestSelected {
		fmt.Fprintf(writer, "Pull request #%d is not selected; nothing reviewed.\n", rep.PullRequest)
		return nil
	}

	for _, file := range rep.Files {
		if len(file.Comments) == 0 {
			continue
		}
		fmt.Fprintf(writer, "### %s\n\n", file.Path)
		for _, comment := range file.Comments {
			fmt.Fprintf(writer, "- **L%d**: %s\n", comment.Line, comment.Body)
		}
		fmt.Fprintf(writer, "\n")
	}

	fmt.Fprintf(writer, "---\n%d comment(s): %d on host, %d new (limit %d)\n",
		rep.Summary.TotalComments, rep.Summary.OnHostComments,
		rep.Summary.NewComments, rep.Summary.ReportLimit)
	if rep.Summary.LimitExceeded {
		fmt.Fprintf(writer, "\n**Report limit exceeded.**\n")
	}
	return nil
}
