package content

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoTemplates indicates an empty template table. Selection cannot proceed
// and boot should fail.
var ErrNoTemplates = errors.New("no content templates registered")

// ValidationError carries every rule the candidate text broke.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("content rejected: %s", strings.Join(e.Problems, "; "))
}

// GenerationError indicates that no acceptable candidate was produced within
// the attempt budget.
type GenerationError struct {
	ContentType string
	Attempts    int
	LastErr     error
}

func (e *GenerationError) Error() string {
	if e.LastErr != nil {
		return fmt.Sprintf("generation failed for %s after %d attempts: %v", e.ContentType, e.Attempts, e.LastErr)
	}
	return fmt.Sprintf("generation failed for %s after %d attempts", e.ContentType, e.Attempts)
}

func (e *GenerationError) Unwrap() error { return e.LastErr }
