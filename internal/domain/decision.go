package domain

type OverallStatus string

const (
	Cleared               OverallStatus = "CLEARED"
	ClearedWithConditions OverallStatus = "CLEARED_WITH_CONDITIONS"
	ReviewRequired        OverallStatus = "REVIEW_REQUIRED"
	Blocked               OverallStatus = "BLOCKED"
)

// Action is one entry of the action plan.
type Action struct {
	Check  string `json:"check"`
	Issue  string `json:"issue"`
	Remedy string `json:"action"`
}

type Cost struct {
	DelayProbabilityPercent int     `json:"delay_probability_percent"`
	DelayDays               int     `json:"delay_days"`
	ShipmentValue           float64 `json:"shipment_value"`
	HoldingFees             float64 `json:"holding_fees"`
	OpportunityCost         float64 `json:"opportunity_cost"`
	AdminCosts              float64 `json:"admin_costs"`
	TotalIfDelayed          float64 `json:"total_if_delayed"`
	Expected                float64 `json:"expected_cost"`
	Min                     float64 `json:"min"`
	Max                     float64 `json:"max"`
}

// Decision is derived from a finding list and recomputed on every call.
// A Partial decision was built from an incomplete list and is not final.
type Decision struct {
	ShipmentID              string        `json:"shipment_id,omitempty"`
	OverallStatus           OverallStatus `json:"overall_status"`
	Verdict                 string        `json:"decision"`
	DelayProbabilityPercent int           `json:"delay_probability_percent"`
	DelayRisk               RiskLevel     `json:"delay_risk"`
	Cost                    Cost          `json:"cost"`
	TotalIssues             int           `json:"total_issues"`
	Prioritized             []Finding     `json:"prioritized_findings"`
	Critical                []Finding     `json:"critical"`
	High                    []Finding     `json:"high"`
	Medium                  []Finding     `json:"medium"`
	Low                     []Finding     `json:"low"`
	ImmediateActions        []Action      `json:"immediate_actions"`
	UrgentActions           []Action      `json:"urgent_actions"`
	RecommendedActions      []Action      `json:"recommended_actions"`
	Partial                 bool          `json:"partial"`
	Fingerprint             string        `json:"fingerprint,omitempty"`
}
