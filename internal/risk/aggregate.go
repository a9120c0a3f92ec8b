// Package risk folds a list of findings into a shipment decision: a delay
// probability, the cost of a delay, a prioritized action plan and a verdict.
// Everything here is pure; the same findings always give the same decision.
package risk

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"crosscheck/internal/domain"
	"crosscheck/internal/jcs"
	"crosscheck/internal/policy"
)

const (
	TimelineImmediate = "IMMEDIATE - Fix before shipping"
	TimelineUrgent    = "URGENT - Fix within 24 hours"
	TimelineSoon      = "SOON - Review before shipping"
	TimelineOptional  = "OPTIONAL - Monitor"
)

var verdicts = map[domain.OverallStatus]string{
	domain.Blocked:               "DO NOT SHIP - Critical issues must be resolved",
	domain.ReviewRequired:        "HOLD - Review recommended before shipping",
	domain.ClearedWithConditions: "PROCEED - Address minor issues as time permits",
	domain.Cleared:               "PROCEED - No action required",
}

// Input carries what the decision needs beyond the findings themselves.
type Input struct {
	ShipmentID    string
	ShipmentValue float64
	// DelayDays <= 0 uses the policy default.
	DelayDays int
	// Partial marks a finding list known to be incomplete.
	Partial bool
}

// DelayProbability sums the risk weights of the findings, clamped to the policy
// floor and cap, and returns the percentage with its band.
func DelayProbability(findings []domain.Finding, p policy.Policy) (int, domain.RiskLevel) {
	total := 0
	for _, f := range findings {
		total += p.RiskWeights.For(f.Risk)
	}
	if total > p.DelayCap {
		total = p.DelayCap
	}
	if total < p.DelayFloor {
		total = p.DelayFloor
	}
	return total, Band(total, p.DelayBands)
}

func Band(probability int, b policy.Bands) domain.RiskLevel {
	switch {
	case probability >= b.Critical:
		return domain.RiskCritical
	case probability >= b.High:
		return domain.RiskHigh
	case probability >= b.Medium:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

// EstimateCost prices a delay of delayDays and weights it by the probability.
// A NaN or infinite shipment value prices as zero.
func EstimateCost(probability int, shipmentValue float64, delayDays int, p policy.Policy) domain.Cost {
	if delayDays <= 0 {
		delayDays = p.Cost.DefaultDelayDays
	}
	if math.IsNaN(shipmentValue) || math.IsInf(shipmentValue, 0) {
		shipmentValue = 0
	}
	days := decimal.NewFromInt(int64(delayDays))
	value := decimal.NewFromFloat(shipmentValue)

	holding := decimal.NewFromFloat(p.Cost.DailyHoldingFee).Mul(days)
	opportunity := value.Mul(decimal.NewFromFloat(p.Cost.OpportunityCostRate)).Mul(days)
	admin := decimal.NewFromFloat(p.Cost.FixedAdminCost)
	total := holding.Add(opportunity).Add(admin)
	expected := total.Mul(decimal.NewFromInt(int64(probability))).Div(decimal.NewFromInt(100))

	return domain.Cost{
		DelayProbabilityPercent: probability,
		DelayDays:               delayDays,
		ShipmentValue:           shipmentValue,
		HoldingFees:             cents(holding),
		OpportunityCost:         cents(opportunity),
		AdminCosts:              cents(admin),
		TotalIfDelayed:          cents(total),
		Expected:                cents(expected),
		Min:                     cents(expected.Mul(decimal.NewFromFloat(p.Cost.RangeLow))),
		Max:                     cents(expected.Mul(decimal.NewFromFloat(p.Cost.RangeHigh))),
	}
}

func cents(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func timeline(level domain.RiskLevel) string {
	switch level.Effective() {
	case domain.RiskCritical:
		return TimelineImmediate
	case domain.RiskHigh:
		return TimelineUrgent
	case domain.RiskMedium:
		return TimelineSoon
	default:
		return TimelineOptional
	}
}

// Prioritize returns scored copies ordered by descending priority. Findings of
// equal priority keep their input order.
func Prioritize(findings []domain.Finding, p policy.Policy) []domain.Finding {
	out := make([]domain.Finding, len(findings))
	for i, f := range findings {
		f.PriorityScore = p.PriorityScores.For(f.Risk)
		f.ActionTimeline = timeline(f.Risk)
		out[i] = f
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PriorityScore > out[j].PriorityScore })
	return out
}

func status(prioritized []domain.Finding) domain.OverallStatus {
	highest := domain.RiskNone
	for _, f := range prioritized {
		if level := f.Risk.Effective(); level > highest {
			highest = level
		}
	}
	switch highest {
	case domain.RiskCritical:
		return domain.Blocked
	case domain.RiskHigh:
		return domain.ReviewRequired
	case domain.RiskMedium:
		return domain.ClearedWithConditions
	default:
		return domain.Cleared
	}
}

// Aggregate builds the decision. It never fails; findings with unknown risk
// levels count as LOW.
func Aggregate(findings []domain.Finding, in Input, p policy.Policy) domain.Decision {
	probability, band := DelayProbability(findings, p)
	prioritized := Prioritize(findings, p)
	overall := status(prioritized)

	d := domain.Decision{
		ShipmentID:              in.ShipmentID,
		OverallStatus:           overall,
		Verdict:                 verdicts[overall],
		DelayProbabilityPercent: probability,
		DelayRisk:               band,
		Cost:                    EstimateCost(probability, in.ShipmentValue, in.DelayDays, p),
		TotalIssues:             len(prioritized),
		Prioritized:             prioritized,
		Critical:                []domain.Finding{},
		High:                    []domain.Finding{},
		Medium:                  []domain.Finding{},
		Low:                     []domain.Finding{},
		ImmediateActions:        []domain.Action{},
		UrgentActions:           []domain.Action{},
		RecommendedActions:      []domain.Action{},
		Partial:                 in.Partial,
	}
	for _, f := range prioritized {
		action := domain.Action{Check: f.Check, Issue: f.Message, Remedy: f.Recommendation}
		switch f.Risk.Effective() {
		case domain.RiskCritical:
			d.Critical = append(d.Critical, f)
			d.ImmediateActions = append(d.ImmediateActions, action)
		case domain.RiskHigh:
			d.High = append(d.High, f)
			d.UrgentActions = append(d.UrgentActions, action)
		case domain.RiskMedium:
			d.Medium = append(d.Medium, f)
			d.RecommendedActions = append(d.RecommendedActions, action)
		default:
			d.Low = append(d.Low, f)
			d.RecommendedActions = append(d.RecommendedActions, action)
		}
	}
	// An unhashable evidence value leaves the fingerprint empty.
	if sum, err := jcs.Fingerprint(d); err == nil {
		d.Fingerprint = sum
	}
	return d
}
