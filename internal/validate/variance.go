package validate

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"crosscheck/internal/domain"
	cerr "crosscheck/internal/errors"
)

func cents(v decimal.Decimal) float64 {
	return v.Round(2).InexactFloat64()
}

// nonFinite turns the first NaN or infinite input into an invalid_input
// finding. decimal cannot represent either.
func nonFinite(check string, names []string, values ...float64) (domain.Finding, bool) {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return domain.Failed(check, cerr.New(cerr.KindInvalidInput, "non_finite_value",
				"%s is not a finite number: %v", names[i], v)), true
		}
	}
	return domain.Finding{}, false
}

// QuantityVariance compares packed against invoiced units. tolerancePercent is
// the largest variance, in percent of the invoiced quantity, that still ships
// with a warning.
func QuantityVariance(invoiceQty, packingQty, tolerancePercent, unitPrice float64) domain.Finding {
	if f, bad := nonFinite(domain.CheckQuantityVariance,
		[]string{"invoice quantity", "packing list quantity", "tolerance", "unit price"},
		invoiceQty, packingQty, tolerancePercent, unitPrice); bad {
		return f
	}
	if invoiceQty == 0 {
		return domain.Failed(domain.CheckQuantityVariance, cerr.New(cerr.KindInvalidInput, "division_by_zero", "invoice quantity is zero"))
	}
	if tolerancePercent < 0 {
		return domain.Failed(domain.CheckQuantityVariance, cerr.New(cerr.KindInvalidInput, "negative_tolerance", "tolerance must not be negative: %v", tolerancePercent))
	}
	variance := packingQty - invoiceQty
	variancePercent := math.Abs(variance / invoiceQty * 100)
	exceeds := variancePercent > tolerancePercent
	impact := decimal.NewFromFloat(math.Abs(variance)).Mul(decimal.NewFromFloat(unitPrice))

	f := domain.Finding{
		Check: domain.CheckQuantityVariance,
		Evidence: map[string]any{
			"invoice_quantity":      invoiceQty,
			"packing_list_quantity": packingQty,
			"variance":              variance,
			"variance_percent":      round(variancePercent, 2),
			"tolerance_percent":     tolerancePercent,
			"exceeds_threshold":     exceeds,
			"unit_price":            unitPrice,
			"financial_impact":      cents(impact),
		},
	}
	units := math.Abs(variance)
	switch {
	case variancePercent == 0:
		f.Status, f.Risk = domain.StatusPass, domain.RiskLow
		f.Message = "Quantities match exactly"
		f.Impact = "Should clear normally"
		f.Recommendation = "No action needed"
	case exceeds:
		f.Status, f.Risk = domain.StatusFail, domain.RiskCritical
		f.Message = fmt.Sprintf("%g unit variance (%.2f%%) exceeds %.2f%% tolerance", units, variancePercent, tolerancePercent)
		f.Impact = "Will trigger inspection - 5-7 day delay"
		f.Recommendation = "Reconcile packing list and invoice quantities before shipping"
	default:
		f.Status, f.Risk = domain.StatusWarning, domain.RiskMedium
		f.Message = fmt.Sprintf("%g unit variance (%.2f%%) within tolerance", units, variancePercent)
		f.Impact = "Should clear normally"
		f.Recommendation = "Confirm the variance is documented"
	}
	return f
}

// DeclaredValue is one document's monetary value for a field.
type DeclaredValue struct {
	DocumentID   string              `json:"document_id"`
	DocumentType domain.DocumentType `json:"document_type"`
	Value        float64             `json:"value"`
	Currency     string              `json:"currency"`
}

type valueDiscrepancy struct {
	DocumentID string  `json:"document_id"`
	Expected   float64 `json:"expected_value"`
	Actual     float64 `json:"actual_value"`
	Difference float64 `json:"difference"`
}

// ValueConsistency compares every value against the first one. A currency
// mismatch outranks any numeric discrepancy.
func ValueConsistency(values []DeclaredValue, tolerance float64) domain.Finding {
	if len(values) < 2 {
		return domain.Failed(domain.CheckValueConsistency, cerr.New(cerr.KindInvalidInput, "insufficient_input",
			"at least 2 documents required, got %d", len(values)))
	}
	if f, bad := nonFinite(domain.CheckValueConsistency, []string{"tolerance"}, tolerance); bad {
		return f
	}
	for _, v := range values {
		if f, bad := nonFinite(domain.CheckValueConsistency, []string{"value of " + v.DocumentID}, v.Value); bad {
			return f
		}
	}
	values = append([]DeclaredValue(nil), values...)
	currencies := map[string]struct{}{}
	for i := range values {
		values[i].Currency = normalizeCurrency(values[i].Currency)
		currencies[values[i].Currency] = struct{}{}
	}
	tol := decimal.NewFromFloat(tolerance)
	reference := decimal.NewFromFloat(values[0].Value)
	discrepancies := []valueDiscrepancy{}
	for _, item := range values[1:] {
		diff := decimal.NewFromFloat(item.Value).Sub(reference).Abs()
		if diff.GreaterThan(tol) {
			discrepancies = append(discrepancies, valueDiscrepancy{
				DocumentID: item.DocumentID,
				Expected:   values[0].Value,
				Actual:     item.Value,
				Difference: cents(diff),
			})
		}
	}
	currencyConsistent := len(currencies) == 1
	f := domain.Finding{
		Check: domain.CheckValueConsistency,
		Evidence: map[string]any{
			"values":              values,
			"tolerance":           tolerance,
			"discrepancies":       discrepancies,
			"consistent":          len(discrepancies) == 0,
			"currency_consistent": currencyConsistent,
		},
	}
	switch {
	case !currencyConsistent:
		f.Status, f.Risk = domain.StatusFail, domain.RiskCritical
		f.Message = "Currency mismatch across documents"
		f.Recommendation = "All documents must use the same currency"
	case len(discrepancies) > 0:
		f.Status, f.Risk = domain.StatusFail, domain.RiskHigh
		f.Message = fmt.Sprintf("%d value discrepancies against %s", len(discrepancies), values[0].DocumentID)
		f.Impact = "Value discrepancies will trigger CBP audit"
		f.Recommendation = "Correct the declared values so every document agrees"
	default:
		f.Status, f.Risk = domain.StatusPass, domain.RiskLow
		f.Message = "All values consistent"
		f.Recommendation = "No action needed"
	}
	return f
}

func normalizeCurrency(c string) string {
	c = strings.ToUpper(strings.TrimSpace(c))
	if c == "" {
		return domain.DefaultCurrency
	}
	return c
}

// UnitPriceCheck recomputes the unit price from the total and compares it with
// the declared one when present.
func UnitPriceCheck(totalValue, quantity float64, declared *float64, tolerance float64) domain.Finding {
	names := []string{"total value", "quantity", "tolerance"}
	inputs := []float64{totalValue, quantity, tolerance}
	if declared != nil {
		names, inputs = append(names, "declared unit price"), append(inputs, *declared)
	}
	if f, bad := nonFinite(domain.CheckUnitPrice, names, inputs...); bad {
		return f
	}
	if quantity == 0 {
		return domain.Failed(domain.CheckUnitPrice, cerr.New(cerr.KindInvalidInput, "division_by_zero", "quantity is zero"))
	}
	calculated := decimal.NewFromFloat(totalValue).Div(decimal.NewFromFloat(quantity))
	f := domain.Finding{
		Check:          domain.CheckUnitPrice,
		Status:         domain.StatusCorrect,
		Risk:           domain.RiskLow,
		Message:        fmt.Sprintf("Calculated unit price %s", calculated.StringFixed(2)),
		Recommendation: "No action needed",
		Evidence: map[string]any{
			"quantity":              quantity,
			"total_value":           totalValue,
			"calculated_unit_price": cents(calculated),
		},
	}
	if declared == nil {
		return f
	}
	diff := calculated.Sub(decimal.NewFromFloat(*declared)).Abs()
	f.Evidence["declared_unit_price"] = *declared
	f.Evidence["difference"] = cents(diff)
	f.Evidence["calculation_error"] = diff.GreaterThan(decimal.NewFromFloat(tolerance))
	if diff.GreaterThan(decimal.NewFromFloat(tolerance)) {
		f.Status, f.Risk = domain.StatusError, domain.RiskMedium
		f.Message = "Declared unit price doesn't match calculation"
		f.Recommendation = "Correct the unit price or the invoice total"
	}
	return f
}

// PriceAnomaly places a unit price against the market range for the product.
func PriceAnomaly(unitPrice float64, entry *domain.MarketPriceEntry) domain.Finding {
	if f, bad := nonFinite(domain.CheckPriceAnomaly, []string{"unit price"}, unitPrice); bad {
		return f
	}
	if entry == nil {
		return domain.Finding{
			Check:          domain.CheckPriceAnomaly,
			Status:         domain.StatusUnknown,
			Risk:           domain.RiskMedium,
			Message:        "No historical pricing data available",
			Recommendation: "Manual review recommended for new product/supplier combination",
			Evidence:       map[string]any{"current_price": unitPrice},
		}
	}
	r := entry.PriceRange
	f := domain.Finding{
		Check: domain.CheckPriceAnomaly,
		Evidence: map[string]any{
			"current_price": unitPrice,
			"market_range":  r,
			"currency":      entry.Currency,
			"product_key":   entry.ProductKey,
		},
	}
	switch {
	case unitPrice < r.Min && r.Min > 0:
		pct := (r.Min - unitPrice) / r.Min * 100
		f.Evidence["variance_percent"] = round(pct, 1)
		f.Status, f.Risk = domain.StatusAnomaly, domain.RiskHigh
		f.Message = fmt.Sprintf("Price %.0f%% below market minimum", pct)
		f.Impact = "High probability of CBP value challenge - potential undervaluation"
		f.Recommendation = "Provide commercial documentation justifying price (volume discount, defects, etc.)"
	case unitPrice > r.Max && r.Max > 0:
		pct := (unitPrice - r.Max) / r.Max * 100
		f.Evidence["variance_percent"] = round(pct, 1)
		f.Status, f.Risk = domain.StatusAboveMarket, domain.RiskMedium
		f.Message = fmt.Sprintf("Price %.0f%% above market maximum", pct)
		f.Impact = "Unusual but not necessarily problematic - premium product or small quantity"
		f.Recommendation = "Verify pricing is correct"
	default:
		f.Status, f.Risk = domain.StatusNormal, domain.RiskLow
		f.Message = "Price within normal market range"
		f.Recommendation = "No action needed"
	}
	return f
}
