package validate

import (
	"fmt"
	"sort"

	"crosscheck/internal/domain"
)

// HoldRate returns the recorded hold rate, or computes it from the counts when
// the record carries none.
func HoldRate(s domain.SupplierRecord) float64 {
	if s.HoldRate == 0 && s.TotalShipments > 0 {
		return float64(s.CustomsHolds) / float64(s.TotalShipments)
	}
	return s.HoldRate
}

func HoldRateAssessment(supplier *domain.SupplierRecord, industryAverage float64) domain.Finding {
	if supplier == nil {
		return domain.Finding{
			Check:          domain.CheckHoldRate,
			Status:         domain.StatusNewSupplier,
			Risk:           domain.RiskMedium,
			Message:        "No historical data for supplier",
			Recommendation: "New supplier - apply extra scrutiny to first shipments",
		}
	}
	rate := HoldRate(*supplier)
	f := domain.Finding{
		Check: domain.CheckHoldRate,
		Evidence: map[string]any{
			"supplier_name":            supplier.Name,
			"total_shipments":          supplier.TotalShipments,
			"customs_holds":            supplier.CustomsHolds,
			"hold_rate_percent":        round(rate*100, 1),
			"industry_average_percent": round(industryAverage*100, 1),
		},
	}
	switch {
	case rate > industryAverage*2:
		f.Status, f.Risk = domain.StatusPoor, domain.RiskHigh
		f.Message = "Hold rate significantly above industry average"
		f.Recommendation = "Pre-clear documentation with a customs broker before shipping"
	case rate > industryAverage:
		f.Status, f.Risk = domain.StatusBelowAverage, domain.RiskMedium
		f.Message = "Hold rate above industry average"
		f.Recommendation = "Review supplier documents with extra care"
	default:
		f.Status, f.Risk = domain.StatusGood, domain.RiskLow
		f.Message = "Hold rate at or below industry average"
		f.Recommendation = "No action needed"
	}
	return f
}

// CommonIssues ranks a supplier's recurring issues by occurrence count; ties
// keep their recorded order.
func CommonIssues(supplier *domain.SupplierRecord) domain.Finding {
	if supplier == nil {
		return domain.Finding{
			Check:          domain.CheckCommonIssues,
			Status:         domain.StatusUnknown,
			Risk:           domain.RiskMedium,
			Message:        "No historical data for supplier",
			Recommendation: "New supplier - apply extra scrutiny to first shipments",
		}
	}
	if len(supplier.CommonIssues) == 0 {
		return domain.Finding{
			Check:          domain.CheckCommonIssues,
			Status:         domain.StatusPass,
			Risk:           domain.RiskLow,
			Message:        "No recurring issues identified",
			Recommendation: "Continue standard monitoring",
			Evidence:       map[string]any{"supplier_name": supplier.Name},
		}
	}
	issues := append([]domain.SupplierIssue(nil), supplier.CommonIssues...)
	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Occurrences > issues[j].Occurrences })
	return domain.Finding{
		Check:          domain.CheckCommonIssues,
		Status:         domain.StatusWarning,
		Risk:           domain.RiskMedium,
		Message:        fmt.Sprintf("%d recurring issues; most frequent: %s", len(issues), issues[0].Issue),
		Recommendation: fmt.Sprintf("Watch for: %s", issues[0].Issue),
		Evidence: map[string]any{
			"supplier_name": supplier.Name,
			"issue_count":   len(issues),
			"common_issues": issues,
			"top_issue":     issues[0],
		},
	}
}
