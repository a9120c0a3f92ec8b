package ports

import (
	"context"

	"crosscheck/internal/domain"
)

// Translator turns text into another language. Errors should carry the
// translation_unavailable kind.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// AssessmentOptions tune the cost model of a shipment assessment.
type AssessmentOptions struct {
	// ShipmentValue overrides the invoice total when set.
	ShipmentValue *float64
	DelayDays     int
}

// Assessment is a full run over one shipment: every finding plus the decision
// built from the ones that need attention.
type Assessment struct {
	ID         string           `json:"assessment_id"`
	ShipmentID string           `json:"shipment_id"`
	Findings   []domain.Finding `json:"findings"`
	Decision   domain.Decision  `json:"decision"`
}

// Assessor runs every check for a shipment and aggregates the result.
type Assessor interface {
	Assess(ctx context.Context, shipmentID string, opts AssessmentOptions) (Assessment, error)
	Findings(ctx context.Context, shipmentID string) ([]domain.Finding, error)
}
