package domain

import (
	"encoding/json"
	"testing"

	cerr "crosscheck/internal/errors"
)

func TestRiskLevelOrdering(t *testing.T) {
	if !(RiskNone < RiskLow && RiskLow < RiskMedium && RiskMedium < RiskHigh && RiskHigh < RiskCritical) {
		t.Fatal("risk levels must be strictly ordered")
	}
	if RiskNone.Effective() != RiskLow || RiskLevel(42).Effective() != RiskLow {
		t.Fatal("out-of-range levels must aggregate as LOW")
	}
	if RiskCritical.Effective() != RiskCritical {
		t.Fatal("CRITICAL must stay CRITICAL")
	}
}

func TestRiskLevelJSON(t *testing.T) {
	var f Finding
	if err := json.Unmarshal([]byte(`{"check":"x","status":"FAIL","risk_level":"critical"}`), &f); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if f.Risk != RiskCritical {
		t.Fatalf("unexpected risk: %s", f.Risk)
	}
	if err := json.Unmarshal([]byte(`{"check":"x","risk_level":"SEVERE"}`), &f); err != nil {
		t.Fatalf("unknown level must not fail decoding: %v", err)
	}
	if f.Risk != RiskLow {
		t.Fatalf("unknown level should read as LOW, got %s", f.Risk)
	}
	data, err := json.Marshal(Finding{Check: "x", Risk: RiskHigh})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]any
	_ = json.Unmarshal(data, &raw)
	if raw["risk_level"] != "HIGH" {
		t.Fatalf("unexpected encoded risk: %v", raw["risk_level"])
	}
}

func TestFailedFindingStatusByKind(t *testing.T) {
	missing := Failed(CheckFieldMatch, cerr.New(cerr.KindMissingField, "field_missing", "field %q missing", "quantity"))
	if missing.Status != StatusFail || missing.Risk != RiskMedium || missing.ErrorKind != cerr.KindMissingField {
		t.Fatalf("unexpected missing-field finding: %#v", missing)
	}
	unavailable := Failed(CheckTranslatedDescription, cerr.New(cerr.KindTranslationUnavailable, "no_translator", "translation not configured"))
	if unavailable.Status != StatusUnknown || unavailable.Error == "" {
		t.Fatalf("unexpected unavailable finding: %#v", unavailable)
	}
}

func TestIsIssue(t *testing.T) {
	cases := []struct {
		finding Finding
		want    bool
	}{
		{Finding{Status: StatusPass, Risk: RiskLow}, false},
		{Finding{Status: StatusNotRequired, Risk: RiskNone}, false},
		{Finding{Status: StatusWarning, Risk: RiskMedium}, true},
		{Finding{Status: StatusRequired, Risk: RiskHigh}, true},
		{Finding{Status: StatusUnknown, Risk: RiskMedium}, true},
	}
	for _, tc := range cases {
		if got := tc.finding.IsIssue(); got != tc.want {
			t.Fatalf("IsIssue(%s/%s)=%v want %v", tc.finding.Status, tc.finding.Risk, got, tc.want)
		}
	}
}
