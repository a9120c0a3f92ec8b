package ports

import (
	"context"

	"crosscheck/internal/domain"
)

// CheckJob is one independent unit of validation work. Run must not panic and
// reports failures as findings.
type CheckJob struct {
	Name string
	Run  func(ctx context.Context) []domain.Finding
}
