package service

import (
	"context"
	"sort"
	"time"

	"github.com/critic-tools/critic/domain"
	"github.com/critic-tools/critic/internal/config"
	"github.com/critic-tools/critic/internal/report"
	"github.com/critic-tools/critic/internal/version"
	ignore "github.com/sabhiram/go-gitignore"
	"go.uber.org/zap"
)

// ReportService aggregates the findings of one review pass into grouped
// review comments, applying the configured author, pull request, and path
// gates.
type ReportService struct {
	cfg      *config.Config
	logger   *zap.Logger
	executor *ParallelExecutor
	progress ProgressManager
}

// NewReportService creates a report service for one resolved configuration
func NewReportService(cfg *config.Config, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		cfg:      cfg,
		logger:   logger,
		executor: NewParallelExecutor(),
		progress: NoOpProgressManager{},
	}
}

// WithProgress enables progress reporting for file rendering
func (s *ReportService) WithProgress(pm ProgressManager) *ReportService {
	if pm != nil {
		s.progress = pm
	}
	return s
}

// Generate builds the review report for one request. Files are rendered
// concurrently; each file's aggregators are confined to the goroutine that
// renders it.
func (s *ReportService) Generate(ctx context.Context, req *domain.ReviewRequest) (*domain.ReviewReport, error) {
	if req == nil {
		return nil, domain.NewInvalidInputError("review request must not be nil", nil)
	}

	rep := &domain.ReviewReport{
		Repository:          s.cfg.Repository(),
		PullRequest:         req.PullRequest,
		Author:              req.Author,
		AuthorAllowed:       s.cfg.UserWhitelisted(req.Author),
		PullRequestSelected: s.cfg.PullRequestSelected(req.PullRequest),
		GeneratedAt:         time.Now().Format(time.RFC3339),
		Version:             version.GetVersion(),
		Summary: domain.ReportSummary{
			ReportLimit: s.cfg.PRIssueReportLimit(),
		},
	}

	if !rep.AuthorAllowed {
		s.logger.Info("author not whitelisted, skipping review",
			zap.String("author", req.Author),
			zap.Strings("limit_users", s.cfg.LimitUsers()))
		return rep, nil
	}
	if !rep.PullRequestSelected {
		s.logger.Info("pull request not selected, skipping review",
			zap.Int("pull_request", req.PullRequest),
			zap.Strings("pull_requests", s.cfg.PullRequests()))
		return rep, nil
	}

	included := make([]domain.FileFindings, 0, len(req.Files))
	if patterns := s.cfg.ExcludePaths(); len(patterns) > 0 {
		matcher := ignore.CompileIgnoreLines(patterns...)
		for _, file := range req.Files {
			if matcher.MatchesPath(file.Path) {
				rep.Summary.FilesExcluded++
				s.logger.Debug("file excluded by exclude_paths", zap.String("path", file.Path))
				continue
			}
			included = append(included, file)
		}
	} else {
		included = req.Files
	}

	fileReports := make([]domain.FileReport, len(included))
	tasks := make([]Task, len(included))
	for i, file := range included {
		i, file := i, file
		tasks[i] = Task{
			Name: file.Path,
			Run: func(ctx context.Context) error {
				fileReports[i] = buildFileReport(file)
				return nil
			},
		}
	}

	task := s.progress.StartTask("Rendering review comments", len(tasks))
	defer task.Complete()
	if err := s.executor.Execute(ctx, tasks, task); err != nil {
		return nil, err
	}

	sort.Slice(fileReports, func(i, j int) bool { return fileReports[i].Path < fileReports[j].Path })

	rep.Files = fileReports
	rep.Summary.FilesReviewed = len(fileReports)
	for _, fr := range fileReports {
		rep.Summary.TotalComments += fr.Total
		rep.Summary.OnHostComments += fr.OnHost
		rep.Summary.NewComments += fr.New
	}
	rep.Summary.LimitExceeded = rep.Summary.NewComments > s.cfg.PRIssueReportLimit()
	if rep.Summary.LimitExceeded {
		s.logger.Warn("new issue count exceeds report limit",
			zap.Int("new", rep.Summary.NewComments),
			zap.Int("limit", s.cfg.PRIssueReportLimit()))
	}

	return rep, nil
}

// buildFileReport aggregates one file's findings: one ErrorMessage per
// distinct finding text, grouped comments emitted sorted by line.
func buildFileReport(file domain.FileFindings) domain.FileReport {
	messages := make(map[string]*report.ErrorMessage)
	var order []string
	for _, finding := range file.Findings {
		msg, ok := messages[finding.Message]
		if !ok {
			msg = report.NewErrorMessage(finding.Message)
			messages[finding.Message] = msg
			order = append(order, finding.Message)
		}
		msg.Track(finding.Line, finding.OnHost)
	}

	fr := domain.FileReport{Path: file.Path}
	for _, text := range order {
		msg := messages[text]
		fr.Total += msg.Count()
		fr.OnHost += msg.CountOnHost()
		fr.New += msg.CountNew()
		for _, group := range msg.Groups() {
			fr.Comments = append(fr.Comments, domain.ReviewComment{
				Path: file.Path,
				Line: group.Line,
				Body: group.Text,
			})
		}
	}

	sort.Slice(fr.Comments, func(i, j int) bool {
		if fr.Comments[i].Line != fr.Comments[j].Line {
			return fr.Comments[i].Line < fr.Comments[j].Line
		}
		return fr.Comments[i].Body < fr.Comments[j].Body
	})
	return fr
}
