package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"crosscheck/internal/domain"
	cerr "crosscheck/internal/errors"
	"crosscheck/internal/ports"
)

type errorOutput struct {
	OK    bool      `json:"ok"`
	Error string    `json:"error"`
	Kind  cerr.Kind `json:"error_kind,omitempty"`
	Code  string    `json:"error_code,omitempty"`
	Hint  string    `json:"hint,omitempty"`
}

func writeJSON(v any, exitCode int) int {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Println(`{"ok":false,"error":"failed to encode output"}`)
		return exitFailure
	}
	return exitCode
}

func usageError(format string, args ...any) error {
	return cerr.New(cerr.KindInvalidInput, "usage", format, args...)
}

// fail reports err and maps its kind to an exit code.
func fail(jsonOutput bool, command string, err error) int {
	code := exitFailure
	switch cerr.KindOf(err) {
	case cerr.KindNotFound, cerr.KindInvalidInput, cerr.KindMissingField:
		code = exitInvalidInput
	}
	if jsonOutput {
		return writeJSON(errorOutput{Error: err.Error(), Kind: cerr.KindOf(err), Code: cerr.CodeOf(err), Hint: cerr.HintOf(err)}, code)
	}
	fmt.Printf("%s error: %v\n", command, err)
	if hint := cerr.HintOf(err); hint != "" {
		fmt.Printf("hint: %s\n", hint)
	}
	return code
}

func decisionExitCode(d domain.Decision) int {
	switch d.OverallStatus {
	case domain.Blocked:
		return exitBlocked
	case domain.ReviewRequired:
		return exitReviewRequired
	}
	return exitOK
}

func printFinding(f domain.Finding) {
	fmt.Printf("  [%s/%s] %s: %s\n", f.Risk, f.Status, f.Check, f.Message)
	if f.Recommendation != "" && f.IsIssue() {
		fmt.Printf("      -> %s\n", f.Recommendation)
	}
}

func printAssessment(a ports.Assessment) {
	d := a.Decision
	fmt.Printf("assessment=%s shipment=%s\n", a.ID, a.ShipmentID)
	status := string(d.OverallStatus)
	if d.Partial {
		status += " (partial, not final)"
	}
	fmt.Printf("status=%s decision=%q\n", status, d.Verdict)
	fmt.Printf("delay_probability=%d%% delay_risk=%s expected_cost=%.2f (%.2f-%.2f)\n",
		d.DelayProbabilityPercent, d.DelayRisk, d.Cost.Expected, d.Cost.Min, d.Cost.Max)
	sections := []struct {
		name    string
		actions []domain.Action
	}{
		{"immediate", d.ImmediateActions},
		{"urgent", d.UrgentActions},
		{"recommended", d.RecommendedActions},
	}
	for _, s := range sections {
		if len(s.actions) == 0 {
			continue
		}
		fmt.Printf("%s actions:\n", s.name)
		for _, a := range s.actions {
			fmt.Printf("  - %s: %s\n", a.Check, strings.TrimSpace(a.Issue))
			if a.Remedy != "" {
				fmt.Printf("      -> %s\n", a.Remedy)
			}
		}
	}
	fmt.Printf("findings (%d, %d issues):\n", len(a.Findings), d.TotalIssues)
	for _, f := range a.Findings {
		printFinding(f)
	}
	fmt.Printf("fingerprint=sha256:%s\n", d.Fingerprint)
}
