package app

import (
	"fmt"
	"io"
	"os"

	"github.com/critic-tools/critic/domain"
	"gopkg.in/yaml.v3"
)

// InputHelper loads findings documents for the review use case
type InputHelper struct{}

// NewInputHelper creates a new input helper
func NewInputHelper() *InputHelper {
	return &InputHelper{}
}

// LoadReviewRequest parses the findings document at path; "-" reads stdin
func (h *InputHelper) LoadReviewRequest(path string) (*domain.ReviewRequest, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, domain.NewFileNotFoundError(path, err)
	}

	var req domain.ReviewRequest
	if err := yaml.Unmarshal(data, &req); err != nil {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("malformed findings document %s", path), err)
	}
	return &req, nil
}
