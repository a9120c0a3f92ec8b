package domain

import (
	"fmt"
	"strings"

	cerr "crosscheck/internal/errors"
)

// RiskLevel is ordered; aggregation compares the integers, never the names.
type RiskLevel int

const (
	RiskNone RiskLevel = iota
	RiskLow
	RiskMedium
	RiskHigh
	RiskCritical
)

var riskNames = map[RiskLevel]string{
	RiskNone:     "NONE",
	RiskLow:      "LOW",
	RiskMedium:   "MEDIUM",
	RiskHigh:     "HIGH",
	RiskCritical: "CRITICAL",
}

func (r RiskLevel) String() string {
	if name, ok := riskNames[r]; ok {
		return name
	}
	return fmt.Sprintf("RiskLevel(%d)", int(r))
}

// ParseRiskLevel accepts the names case-insensitively.
func ParseRiskLevel(s string) (RiskLevel, bool) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for level, name := range riskNames {
		if name == upper {
			return level, true
		}
	}
	return RiskLow, false
}

// Effective maps NONE and out-of-range values to LOW for aggregation.
func (r RiskLevel) Effective() RiskLevel {
	if r < RiskLow || r > RiskCritical {
		return RiskLow
	}
	return r
}

func (r RiskLevel) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText never fails: unrecognised levels read as LOW so a malformed
// finding still aggregates.
func (r *RiskLevel) UnmarshalText(text []byte) error {
	level, _ := ParseRiskLevel(string(text))
	*r = level
	return nil
}

type Status string

const (
	StatusPass     Status = "PASS"
	StatusWarning  Status = "WARNING"
	StatusFail     Status = "FAIL"
	StatusUnknown  Status = "UNKNOWN"
	StatusNotFound Status = "NOT_FOUND"

	StatusRequired     Status = "REQUIRED"
	StatusNotRequired  Status = "NOT_REQUIRED"
	StatusProhibited   Status = "PROHIBITED"
	StatusAllowed      Status = "ALLOWED"
	StatusValid        Status = "VALID"
	StatusInvalid      Status = "INVALID"
	StatusVerified     Status = "VERIFIED"
	StatusMismatch     Status = "MISMATCH"
	StatusSuspicious   Status = "SUSPICIOUS"
	StatusUnusual      Status = "UNUSUAL"
	StatusInconsistent Status = "INCONSISTENT"
	StatusPoor         Status = "POOR"
	StatusBelowAverage Status = "BELOW_AVERAGE"
	StatusGood         Status = "GOOD"
	StatusNewSupplier  Status = "NEW_SUPPLIER"
	StatusError        Status = "ERROR"
	StatusCorrect      Status = "CORRECT"
	StatusAnomaly      Status = "ANOMALY"
	StatusAboveMarket  Status = "ABOVE_MARKET"
	StatusNormal       Status = "NORMAL"
)

var passing = map[Status]bool{
	StatusPass:        true,
	StatusNotRequired: true,
	StatusAllowed:     true,
	StatusValid:       true,
	StatusVerified:    true,
	StatusGood:        true,
	StatusCorrect:     true,
	StatusNormal:      true,
}

// Check names identify the validator that produced a finding.
const (
	CheckFieldMatch            = "field_match"
	CheckTranslatedDescription = "translated_description"
	CheckQuantityVariance      = "quantity_variance"
	CheckValueConsistency      = "value_consistency"
	CheckUnitPrice             = "unit_price"
	CheckPriceAnomaly          = "price_anomaly"
	CheckHSCode                = "hs_code"
	CheckRegulatory            = "regulatory_requirement"
	CheckImportRestriction     = "import_restriction"
	CheckCertificate           = "certificate_validity"
	CheckOriginConsistency     = "origin_consistency"
	CheckSupplierLocation      = "supplier_location"
	CheckRoute                 = "route_plausibility"
	CheckPortCity              = "port_city_consistency"
	CheckHoldRate              = "hold_rate"
	CheckCommonIssues          = "common_issues"
)

// Finding is one check's verdict. Validators create findings and never touch
// them again; the aggregator works on copies.
type Finding struct {
	Check          string         `json:"check"`
	Status         Status         `json:"status"`
	Risk           RiskLevel      `json:"risk_level"`
	Message        string         `json:"message"`
	Recommendation string         `json:"recommendation,omitempty"`
	Impact         string         `json:"impact,omitempty"`
	Evidence       map[string]any `json:"evidence,omitempty"`
	Error          string         `json:"error,omitempty"`
	ErrorKind      cerr.Kind      `json:"error_kind,omitempty"`
	PriorityScore  int            `json:"priority_score,omitempty"`
	ActionTimeline string         `json:"action_timeline,omitempty"`
}

// IsIssue reports whether the finding needs attention. Passing statuses at LOW
// or NONE risk are not issues.
func (f Finding) IsIssue() bool {
	return !(passing[f.Status] && f.Risk.Effective() == RiskLow)
}

// Failed converts a check's internal error into a low-confidence finding. Data
// defects (missing fields, invalid input) fail the check; unavailable data makes
// it unknown. Both carry MEDIUM risk so an incomplete check cannot clear a
// shipment on its own.
func Failed(check string, err error) Finding {
	kind := cerr.KindOf(err)
	status := StatusUnknown
	if kind == cerr.KindMissingField || kind == cerr.KindInvalidInput {
		status = StatusFail
	}
	msg := "check could not be completed"
	if err != nil {
		msg = err.Error()
	}
	recommendation := cerr.HintOf(err)
	if recommendation == "" {
		recommendation = "Manual verification required"
	}
	return Finding{
		Check:          check,
		Status:         status,
		Risk:           RiskMedium,
		Message:        msg,
		Recommendation: recommendation,
		Error:          msg,
		ErrorKind:      kind,
	}
}
