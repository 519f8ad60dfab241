package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/critic-tools/critic/domain"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CRITIC_CONF", "")
	t.Setenv("HOME", t.TempDir())
}

func sampleRequest() *domain.ReviewRequest {
	return &domain.ReviewRequest{
		Repository:  "octocat/hello-world",
		PullRequest: 42,
		Author:      "alice",
		Files: []domain.FileFindings{{
			Path: "src/app.js",
			Findings: []domain.Finding{
				{Message: "Missing semicolon", Line: 1},
				{Message: "Missing semicolon", Line: 2},
			},
		}},
	}
}

func TestLoadReviewRequest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "findings.yaml")
	doc := `repository: octocat/hello-world
pull_request: 42
author: alice
files:
  - path: src/app.js
    findings:
      - message: Missing semicolon
        line: 3
        on_host: true
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("Failed to write findings file: %v", err)
	}

	req, err := NewInputHelper().LoadReviewRequest(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if req.Repository != "octocat/hello-world" || req.PullRequest != 42 || req.Author != "alice" {
		t.Errorf("Unexpected request header: %+v", req)
	}
	if len(req.Files) != 1 || len(req.Files[0].Findings) != 1 {
		t.Fatalf("Unexpected files: %+v", req.Files)
	}
	finding := req.Files[0].Findings[0]
	if finding.Message != "Missing semicolon" || finding.Line != 3 || !finding.OnHost {
		t.Errorf("Unexpected finding: %+v", finding)
	}
}

func TestLoadReviewRequest_MissingFile(t *testing.T) {
	if _, err := NewInputHelper().LoadReviewRequest(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Expected error for a missing file")
	}
}

func TestLoadReviewRequest_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("files: [unclosed"), 0644); err != nil {
		t.Fatalf("Failed to write findings file: %v", err)
	}
	if _, err := NewInputHelper().LoadReviewRequest(path); err == nil {
		t.Fatal("Expected error for a malformed document")
	}
}

func TestExecute_NilRequest(t *testing.T) {
	isolateEnv(t)
	if _, err := NewReviewUseCase().Execute(context.Background(), DefaultReviewConfig(), nil); err == nil {
		t.Fatal("Expected error for a nil request")
	}
}

func TestExecute_GeneratesAndWritesReport(t *testing.T) {
	isolateEnv(t)

	var buf bytes.Buffer
	config := ReviewConfig{
		OutputFormat: domain.OutputFormatText,
		OutputWriter: &buf,
	}

	rep, err := NewReviewUseCase().Execute(context.Background(), config, sampleRequest())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// The repository comes from the findings document when no explicit one
	// is configured
	if rep.Repository != "octocat/hello-world" {
		t.Errorf("Unexpected repository: %s", rep.Repository)
	}
	if rep.Summary.NewComments != 2 {
		t.Errorf("Expected 2 new comments, got %d", rep.Summary.NewComments)
	}
	if !strings.Contains(buf.String(), "Missing semicolon <sub>2x spanning 2 lines</sub>") {
		t.Errorf("Expected the grouped comment in the output, got:\n%s", buf.String())
	}
}

func TestExecute_ExplicitRepositoryWins(t *testing.T) {
	isolateEnv(t)

	config := ReviewConfig{Repository: "owner/name"}
	rep, err := NewReviewUseCase().Execute(context.Background(), config, sampleRequest())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if rep.Repository != "owner/name" {
		t.Errorf("Expected the explicit repository, got %s", rep.Repository)
	}
}

func TestExecute_OverridesApply(t *testing.T) {
	isolateEnv(t)

	config := ReviewConfig{
		Overrides: map[string]any{"limit_users": "bob"},
	}
	rep, err := NewReviewUseCase().Execute(context.Background(), config, sampleRequest())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if rep.AuthorAllowed {
		t.Error("Expected the author gate to close under the override")
	}
}

func TestExecute_InvalidOverride(t *testing.T) {
	isolateEnv(t)

	config := ReviewConfig{
		Overrides: map[string]any{"log_level": "bogus"},
	}
	if _, err := NewReviewUseCase().Execute(context.Background(), config, sampleRequest()); err == nil {
		t.Fatal("Expected a configuration error")
	}
}

func TestExecute_WritesOutputFile(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "report.json")

	config := ReviewConfig{
		OutputFormat: domain.OutputFormatJSON,
		OutputPath:   path,
	}
	if _, err := NewReviewUseCase().Execute(context.Background(), config, sampleRequest()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected the output file to exist: %v", err)
	}
	if !strings.Contains(string(data), "\"new_comments\": 2") {
		t.Errorf("Unexpected output file contents:\n%s", data)
	}
}
