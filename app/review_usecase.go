package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/critic-tools/critic/domain"
	"github.com/critic-tools/critic/internal/logging"
	"github.com/critic-tools/critic/service"
)

// ReviewConfig holds configuration for the review use case
type ReviewConfig struct {
	// Settings resolution
	Repository   string
	SettingsPath string
	Overrides    map[string]any

	// Output options
	OutputFormat domain.OutputFormat
	OutputWriter io.Writer
	OutputPath   string

	// Progress reporting for interactive runs
	ShowProgress bool
}

// DefaultReviewConfig returns default configuration
func DefaultReviewConfig() ReviewConfig {
	return ReviewConfig{
		OutputFormat: domain.OutputFormatText,
		OutputWriter: os.Stdout,
	}
}

// ReviewUseCase orchestrates one review pass: settings resolution, findings
// aggregation, and report output.
type ReviewUseCase struct {
	loader    *service.SettingsLoader
	formatter *service.OutputFormatter
}

// NewReviewUseCase creates a new review use case
func NewReviewUseCase() *ReviewUseCase {
	return &ReviewUseCase{
		loader:    service.NewSettingsLoader(),
		formatter: service.NewOutputFormatter(),
	}
}

// Execute runs one review pass. The repository falls back to the one named
// in the findings document. When an output writer or path is configured the
// formatted report is written as well.
func (uc *ReviewUseCase) Execute(ctx context.Context, config ReviewConfig, req *domain.ReviewRequest) (*domain.ReviewReport, error) {
	if req == nil {
		return nil, domain.NewInvalidInputError("review request must not be nil", nil)
	}

	repository := config.Repository
	if repository == "" {
		repository = req.Repository
	}
	cfg, err := uc.loader.Resolve(repository, config.SettingsPath, config.Overrides)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.LogLevel(), cfg.Debug())
	if err != nil {
		return nil, err
	}
	defer func() { _ = logger.Sync() }()

	pm := service.NewProgressManager(config.ShowProgress)
	defer pm.Close()

	rep, err := service.NewReportService(cfg, logger).WithProgress(pm).Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := uc.writeOutput(rep, config); err != nil {
		return nil, err
	}
	return rep, nil
}

func (uc *ReviewUseCase) writeOutput(rep *domain.ReviewReport, config ReviewConfig) error {
	writer := config.OutputWriter
	if config.OutputPath != "" {
		file, err := os.Create(config.OutputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		writer = file
	}
	if writer == nil {
		return nil
	}
	return uc.formatter.Write(rep, config.OutputFormat, writer)
}
