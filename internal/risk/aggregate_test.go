package risk

import (
	"math"
	"reflect"
	"testing"

	"crosscheck/internal/domain"
	"crosscheck/internal/policy"
)

func finding(check string, level domain.RiskLevel) domain.Finding {
	return domain.Finding{
		Check:          check,
		Status:         domain.StatusFail,
		Risk:           level,
		Message:        check + " failed",
		Recommendation: "fix " + check,
		Evidence:       map[string]any{"check": check},
	}
}

func TestAggregateCriticalAndHighBlocks(t *testing.T) {
	findings := []domain.Finding{
		finding("hs_code", domain.RiskCritical),
		finding("field_match", domain.RiskHigh),
		finding("translated_description", domain.RiskHigh),
	}
	d := Aggregate(findings, Input{ShipmentID: "SHIP-1"}, policy.Default())
	if d.DelayProbabilityPercent != 90 {
		t.Fatalf("unexpected delay probability: %d", d.DelayProbabilityPercent)
	}
	if d.DelayRisk != domain.RiskCritical {
		t.Fatalf("unexpected band: %s", d.DelayRisk)
	}
	if d.OverallStatus != domain.Blocked || d.Verdict != "DO NOT SHIP - Critical issues must be resolved" {
		t.Fatalf("unexpected decision: %s %q", d.OverallStatus, d.Verdict)
	}
	if len(d.ImmediateActions) != 1 || len(d.UrgentActions) != 2 || len(d.RecommendedActions) != 0 {
		t.Fatalf("unexpected action plan: %+v", d)
	}
	if d.ImmediateActions[0].Check != "hs_code" || d.ImmediateActions[0].Remedy != "fix hs_code" {
		t.Fatalf("unexpected action: %+v", d.ImmediateActions[0])
	}
}

func TestAggregateEmptyClears(t *testing.T) {
	d := Aggregate(nil, Input{}, policy.Default())
	if d.OverallStatus != domain.Cleared || d.Verdict != "PROCEED - No action required" {
		t.Fatalf("unexpected decision: %s %q", d.OverallStatus, d.Verdict)
	}
	if d.DelayProbabilityPercent != 5 || d.DelayRisk != domain.RiskLow {
		t.Fatalf("unexpected delay: %d %s", d.DelayProbabilityPercent, d.DelayRisk)
	}
	if d.TotalIssues != 0 || d.Fingerprint == "" {
		t.Fatalf("unexpected decision: %+v", d)
	}
}

func TestAggregateVerdictLadder(t *testing.T) {
	cases := []struct {
		levels []domain.RiskLevel
		want   domain.OverallStatus
	}{
		{[]domain.RiskLevel{domain.RiskLow, domain.RiskNone}, domain.Cleared},
		{[]domain.RiskLevel{domain.RiskLow, domain.RiskMedium}, domain.ClearedWithConditions},
		{[]domain.RiskLevel{domain.RiskMedium, domain.RiskHigh, domain.RiskLow}, domain.ReviewRequired},
		{[]domain.RiskLevel{domain.RiskLow, domain.RiskCritical}, domain.Blocked},
		{[]domain.RiskLevel{domain.RiskLevel(42)}, domain.Cleared},
	}
	for _, tc := range cases {
		var findings []domain.Finding
		for _, level := range tc.levels {
			findings = append(findings, finding("x", level))
		}
		if got := Aggregate(findings, Input{}, policy.Default()).OverallStatus; got != tc.want {
			t.Fatalf("levels %v: got %s want %s", tc.levels, got, tc.want)
		}
	}
}

func TestDelayProbabilityMonotonicInCriticalFindings(t *testing.T) {
	p := policy.Default()
	findings := []domain.Finding{finding("a", domain.RiskLow), finding("b", domain.RiskMedium)}
	last, _ := DelayProbability(findings, p)
	for i := 0; i < 6; i++ {
		findings = append(findings, finding("critical", domain.RiskCritical))
		got, _ := DelayProbability(findings, p)
		if got < last {
			t.Fatalf("delay probability decreased from %d to %d", last, got)
		}
		if got > p.DelayCap {
			t.Fatalf("delay probability %d exceeds cap", got)
		}
		if Aggregate(findings, Input{}, p).OverallStatus != domain.Blocked {
			t.Fatalf("critical finding must block")
		}
		last = got
	}
	if last != 95 {
		t.Fatalf("expected cap of 95, got %d", last)
	}
}

func TestBand(t *testing.T) {
	b := policy.Default().DelayBands
	cases := map[int]domain.RiskLevel{5: domain.RiskLow, 19: domain.RiskLow, 20: domain.RiskMedium, 40: domain.RiskHigh, 69: domain.RiskHigh, 70: domain.RiskCritical, 95: domain.RiskCritical}
	for probability, want := range cases {
		if got := Band(probability, b); got != want {
			t.Fatalf("Band(%d)=%s want %s", probability, got, want)
		}
	}
}

func TestPrioritizeIsStable(t *testing.T) {
	in := []domain.Finding{
		finding("first_high", domain.RiskHigh),
		finding("critical", domain.RiskCritical),
		finding("second_high", domain.RiskHigh),
	}
	out := Prioritize(in, policy.Default())
	got := []string{out[0].Check, out[1].Check, out[2].Check}
	want := []string{"critical", "first_high", "second_high"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected order: %v", got)
	}
	if out[0].PriorityScore != 4 || out[0].ActionTimeline != TimelineImmediate {
		t.Fatalf("unexpected scoring: %d %q", out[0].PriorityScore, out[0].ActionTimeline)
	}
	if out[1].PriorityScore != 3 || out[1].ActionTimeline != TimelineUrgent {
		t.Fatalf("unexpected scoring: %d %q", out[1].PriorityScore, out[1].ActionTimeline)
	}
	if in[0].PriorityScore != 0 || in[0].ActionTimeline != "" {
		t.Fatalf("input findings must not be modified")
	}
}

func TestAggregateIsDeterministic(t *testing.T) {
	findings := []domain.Finding{
		finding("unit_price", domain.RiskMedium),
		finding("hold_rate", domain.RiskHigh),
		finding("common_issues", domain.RiskMedium),
	}
	in := Input{ShipmentID: "SHIP-1", ShipmentValue: 100000, DelayDays: 7}
	a := Aggregate(findings, in, policy.Default())
	b := Aggregate(findings, in, policy.Default())
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("aggregate is not deterministic")
	}
	if a.Fingerprint == "" || a.Fingerprint != b.Fingerprint {
		t.Fatalf("unexpected fingerprints: %q %q", a.Fingerprint, b.Fingerprint)
	}
	other := Aggregate(findings[:2], in, policy.Default())
	if other.Fingerprint == a.Fingerprint {
		t.Fatalf("different findings must not share a fingerprint")
	}
	if !Aggregate(findings, Input{Partial: true}, policy.Default()).Partial {
		t.Fatalf("partial input must yield a partial decision")
	}
}

func TestEstimateCost(t *testing.T) {
	c := EstimateCost(90, 100000, 0, policy.Default())
	want := domain.Cost{
		DelayProbabilityPercent: 90,
		DelayDays:               7,
		ShipmentValue:           100000,
		HoldingFees:             525,
		OpportunityCost:         700,
		AdminCosts:              500,
		TotalIfDelayed:          1725,
		Expected:                1552.5,
		Min:                     1086.75,
		Max:                     2328.75,
	}
	if c != want {
		t.Fatalf("unexpected cost:\n got %+v\nwant %+v", c, want)
	}
}

func TestAggregateNonFiniteShipmentValuePricesAsZero(t *testing.T) {
	for _, value := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		d := Aggregate([]domain.Finding{finding("quantity_variance", domain.RiskCritical)}, Input{ShipmentID: "SHIP-1", ShipmentValue: value}, policy.Default())
		if d.OverallStatus != domain.Blocked {
			t.Fatalf("unexpected status for %v: %s", value, d.OverallStatus)
		}
		if d.Cost.ShipmentValue != 0 || d.Cost.OpportunityCost != 0 || d.Cost.TotalIfDelayed != 1025 {
			t.Fatalf("unexpected cost for %v: %+v", value, d.Cost)
		}
		if d.Fingerprint == "" {
			t.Fatalf("expected a fingerprint for %v", value)
		}
	}
}

func TestAggregateUsesPolicyWeights(t *testing.T) {
	p := policy.Default()
	p.RiskWeights.Medium = 30
	d := Aggregate([]domain.Finding{finding("a", domain.RiskMedium), finding("b", domain.RiskMedium)}, Input{}, p)
	if d.DelayProbabilityPercent != 60 || d.DelayRisk != domain.RiskHigh {
		t.Fatalf("unexpected delay: %d %s", d.DelayProbabilityPercent, d.DelayRisk)
	}
}
