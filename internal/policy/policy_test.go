package policy

import (
	"math"
	"testing"

	"crosscheck/internal/domain"
)

func TestDefaultMatchesPublishedConstants(t *testing.T) {
	p := Default()
	if p.SimilarityThreshold != 0.70 || p.IndustryHoldRate != 0.125 {
		t.Fatalf("unexpected thresholds: %#v", p)
	}
	if p.RiskWeights.For(domain.RiskCritical) != 40 || p.RiskWeights.For(domain.RiskHigh) != 25 ||
		p.RiskWeights.For(domain.RiskMedium) != 10 || p.RiskWeights.For(domain.RiskLow) != 5 {
		t.Fatalf("unexpected risk weights: %#v", p.RiskWeights)
	}
	if p.RiskWeights.For(domain.RiskNone) != 5 {
		t.Fatal("NONE must weigh as LOW")
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("default policy invalid: %v", err)
	}
}

func TestParseOverlaysDefaults(t *testing.T) {
	p, err := Parse([]byte(`
similarity_threshold: 0.8
risk_weights:
  critical: 50
cost:
  daily_holding_fee: 120
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.SimilarityThreshold != 0.8 {
		t.Fatalf("unexpected similarity threshold: %v", p.SimilarityThreshold)
	}
	if p.RiskWeights.Critical != 50 || p.RiskWeights.High != 25 {
		t.Fatalf("unexpected weights: %#v", p.RiskWeights)
	}
	if p.Cost.DailyHoldingFee != 120 || p.Cost.FixedAdminCost != 500 {
		t.Fatalf("unexpected cost model: %#v", p.Cost)
	}
	if p.IndustryHoldRate != 0.125 {
		t.Fatalf("untouched key lost its default: %v", p.IndustryHoldRate)
	}
}

func TestParseRejectsInvalidPolicy(t *testing.T) {
	if _, err := Parse([]byte("similarity_threshold: 1.5\n")); err == nil {
		t.Fatal("expected out-of-range threshold to fail")
	}
	if _, err := Parse([]byte("delay_cap: [1, 2]\n")); err == nil {
		t.Fatal("expected type mismatch to fail")
	}
	if _, err := Parse([]byte("cost:\n  daily_holding_fee: .inf\n")); err == nil {
		t.Fatal("expected infinite holding fee to fail")
	}
	p := Default()
	p.DefaultUnitPrice = math.NaN()
	if err := p.Validate(); err == nil {
		t.Fatal("expected NaN unit price to fail")
	}
}

func TestHolderSwapsPolicy(t *testing.T) {
	h := NewHolder(Default())
	next := Default()
	next.IndustryHoldRate = 0.2
	h.Store(next)
	if h.Current().IndustryHoldRate != 0.2 {
		t.Fatalf("holder did not swap: %v", h.Current().IndustryHoldRate)
	}
	var _ Source = h
	if Static(next).Current().IndustryHoldRate != 0.2 {
		t.Fatal("static source lost policy")
	}
}
