// Package policy holds the tunable constants the validators and the risk
// aggregator apply. None of the values are derived; they are configuration.
package policy

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/goccy/go-yaml"

	"crosscheck/internal/domain"
)

type Weights struct {
	Critical int `yaml:"critical" json:"critical"`
	High     int `yaml:"high" json:"high"`
	Medium   int `yaml:"medium" json:"medium"`
	Low      int `yaml:"low" json:"low"`
}

// For returns the weight of a level; NONE and unknown levels weigh as LOW.
func (w Weights) For(level domain.RiskLevel) int {
	switch level.Effective() {
	case domain.RiskCritical:
		return w.Critical
	case domain.RiskHigh:
		return w.High
	case domain.RiskMedium:
		return w.Medium
	default:
		return w.Low
	}
}

// Bands are lower bounds (inclusive) of the delay-probability risk bands.
type Bands struct {
	Critical int `yaml:"critical" json:"critical"`
	High     int `yaml:"high" json:"high"`
	Medium   int `yaml:"medium" json:"medium"`
}

type CostModel struct {
	DailyHoldingFee     float64 `yaml:"daily_holding_fee" json:"daily_holding_fee"`
	OpportunityCostRate float64 `yaml:"opportunity_cost_rate" json:"opportunity_cost_rate"`
	FixedAdminCost      float64 `yaml:"fixed_admin_cost" json:"fixed_admin_cost"`
	DefaultDelayDays    int     `yaml:"default_delay_days" json:"default_delay_days"`
	RangeLow            float64 `yaml:"range_low" json:"range_low"`
	RangeHigh           float64 `yaml:"range_high" json:"range_high"`
}

type Policy struct {
	SimilarityThreshold      float64   `yaml:"similarity_threshold" json:"similarity_threshold"`
	IndustryHoldRate         float64   `yaml:"industry_hold_rate" json:"industry_hold_rate"`
	QuantityTolerancePercent float64   `yaml:"quantity_tolerance_percent" json:"quantity_tolerance_percent"`
	ValueTolerance           float64   `yaml:"value_tolerance" json:"value_tolerance"`
	UnitPriceTolerance       float64   `yaml:"unit_price_tolerance" json:"unit_price_tolerance"`
	DefaultUnitPrice         float64   `yaml:"default_unit_price" json:"default_unit_price"`
	RiskWeights              Weights   `yaml:"risk_weights" json:"risk_weights"`
	PriorityScores           Weights   `yaml:"priority_scores" json:"priority_scores"`
	DelayCap                 int       `yaml:"delay_cap" json:"delay_cap"`
	DelayFloor               int       `yaml:"delay_floor" json:"delay_floor"`
	DelayBands               Bands     `yaml:"delay_bands" json:"delay_bands"`
	Cost                     CostModel `yaml:"cost" json:"cost"`
}

func Default() Policy {
	return Policy{
		SimilarityThreshold:      0.70,
		IndustryHoldRate:         0.125,
		QuantityTolerancePercent: 0,
		ValueTolerance:           0.01,
		UnitPriceTolerance:       0.01,
		DefaultUnitPrice:         50.00,
		RiskWeights:              Weights{Critical: 40, High: 25, Medium: 10, Low: 5},
		PriorityScores:           Weights{Critical: 4, High: 3, Medium: 2, Low: 1},
		DelayCap:                 95,
		DelayFloor:               5,
		DelayBands:               Bands{Critical: 70, High: 40, Medium: 20},
		Cost: CostModel{
			DailyHoldingFee:     75,
			OpportunityCostRate: 0.001,
			FixedAdminCost:      500,
			DefaultDelayDays:    7,
			RangeLow:            0.7,
			RangeHigh:           1.5,
		},
	}
}

// Parse overlays a YAML document on Default. Keys absent from the document keep
// their default values.
func Parse(data []byte) (Policy, error) {
	p := Default()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Policy{}, fmt.Errorf("parse policy: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

func (p Policy) Validate() error {
	for name, v := range map[string]float64{
		"similarity_threshold":       p.SimilarityThreshold,
		"industry_hold_rate":         p.IndustryHoldRate,
		"quantity_tolerance_percent": p.QuantityTolerancePercent,
		"value_tolerance":            p.ValueTolerance,
		"unit_price_tolerance":       p.UnitPriceTolerance,
		"default_unit_price":         p.DefaultUnitPrice,
		"cost.daily_holding_fee":     p.Cost.DailyHoldingFee,
		"cost.opportunity_cost_rate": p.Cost.OpportunityCostRate,
		"cost.fixed_admin_cost":      p.Cost.FixedAdminCost,
		"cost.range_low":             p.Cost.RangeLow,
		"cost.range_high":            p.Cost.RangeHigh,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be a finite number", name)
		}
	}
	if p.SimilarityThreshold < 0 || p.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity_threshold must be within [0,1], got %v", p.SimilarityThreshold)
	}
	if p.IndustryHoldRate < 0 || p.IndustryHoldRate > 1 {
		return fmt.Errorf("industry_hold_rate must be within [0,1], got %v", p.IndustryHoldRate)
	}
	if p.QuantityTolerancePercent < 0 || p.ValueTolerance < 0 || p.UnitPriceTolerance < 0 {
		return fmt.Errorf("tolerances must not be negative")
	}
	if p.DelayFloor < 0 || p.DelayCap < p.DelayFloor || p.DelayCap > 100 {
		return fmt.Errorf("delay bounds invalid: floor=%d cap=%d", p.DelayFloor, p.DelayCap)
	}
	if p.Cost.RangeLow > 1 || p.Cost.RangeHigh < 1 {
		return fmt.Errorf("cost range must bracket the expected value: low=%v high=%v", p.Cost.RangeLow, p.Cost.RangeHigh)
	}
	return nil
}

// Source supplies the policy in force. Implementations may swap it at runtime.
type Source interface {
	Current() Policy
}

type static struct{ p Policy }

func (s static) Current() Policy { return s.p }

func Static(p Policy) Source { return static{p: p} }

// Holder is a Source whose policy can be replaced concurrently.
type Holder struct {
	current atomic.Pointer[Policy]
}

func NewHolder(p Policy) *Holder {
	h := &Holder{}
	h.Store(p)
	return h
}

func (h *Holder) Current() Policy { return *h.current.Load() }

func (h *Holder) Store(p Policy) { h.current.Store(&p) }

// DefaultCityPorts is the seed city -> port table used when a store has none.
func DefaultCityPorts() map[string][]string {
	return map[string][]string{
		"Shenzhen":  {"Shenzhen", "Hong Kong", "Guangzhou"},
		"Beijing":   {"Beijing", "Tianjin"},
		"Guangzhou": {"Guangzhou", "Shenzhen", "Hong Kong"},
		"Shanghai":  {"Shanghai"},
	}
}
