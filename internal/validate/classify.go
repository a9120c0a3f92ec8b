package validate

import (
	"fmt"
	"strings"

	"crosscheck/internal/domain"
)

const baseCodeLength = 7

// BaseCode returns the first seven characters of an HS code ("8471.30" for
// "8471.30.0100"). Shorter codes are returned as-is.
func BaseCode(code string) string {
	code = strings.TrimSpace(code)
	if len(code) >= baseCodeLength {
		return code[:baseCodeLength]
	}
	return code
}

func describe(entry *domain.HSCodeEntry) string {
	if entry == nil || entry.Description == "" {
		return "Unknown"
	}
	return entry.Description
}

// CompareHSCodes grades a declared code against a suggested one. The table
// entries are optional and only enrich the evidence.
func CompareHSCodes(invoiceCode, suggestedCode string, invoiceEntry, suggestedEntry *domain.HSCodeEntry) domain.Finding {
	invoiceCode, suggestedCode = strings.TrimSpace(invoiceCode), strings.TrimSpace(suggestedCode)
	invoiceBase, suggestedBase := BaseCode(invoiceCode), BaseCode(suggestedCode)
	evidence := map[string]any{
		"invoice_code":          invoiceCode,
		"suggested_code":        suggestedCode,
		"invoice_base":          invoiceBase,
		"suggested_base":        suggestedBase,
		"match":                 invoiceCode == suggestedCode,
		"base_match":            invoiceBase == suggestedBase,
		"invoice_description":   describe(invoiceEntry),
		"suggested_description": describe(suggestedEntry),
	}
	if suggestedEntry != nil && suggestedEntry.DutyRate != "" {
		evidence["suggested_duty_rate"] = string(suggestedEntry.DutyRate)
	}
	switch {
	case invoiceCode == suggestedCode:
		return domain.Finding{
			Check:          domain.CheckHSCode,
			Status:         domain.StatusPass,
			Risk:           domain.RiskLow,
			Message:        "HS codes match exactly",
			Recommendation: "No action needed - classification is correct",
			Evidence:       evidence,
		}
	case invoiceBase == suggestedBase:
		return domain.Finding{
			Check:          domain.CheckHSCode,
			Status:         domain.StatusWarning,
			Risk:           domain.RiskMedium,
			Message:        "Same base code but different subcategory",
			Impact:         "Reclassification risk, duties likely similar",
			Recommendation: "Verify subcategory selection is correct",
			Evidence:       evidence,
		}
	}
	return domain.Finding{
		Check:          domain.CheckHSCode,
		Status:         domain.StatusFail,
		Risk:           domain.RiskCritical,
		Message:        fmt.Sprintf("HS code mismatch: %s declared, %s expected", invoiceCode, suggestedCode),
		Impact:         "Potential 5-7 day delay for CBP reclassification. Possible duty adjustment.",
		Recommendation: "Contact customs broker immediately to resolve classification",
		Evidence:       evidence,
	}
}

// containsAny returns the first non-empty needle found in haystack.
func containsAny(haystack string, needles []string) (string, bool) {
	for _, n := range needles {
		n = fold(n)
		if n != "" && strings.Contains(haystack, n) {
			return n, true
		}
	}
	return "", false
}

// RegulatoryApplicability returns the first rule, in stored order, whose
// keywords occur in the description or whose HS codes occur in the base code.
func RegulatoryApplicability(description, hsCode string, rules []domain.RegulatoryRule) domain.Finding {
	product := fold(description)
	base := BaseCode(hsCode)
	for _, rule := range rules {
		keyword, byKeyword := containsAny(product, rule.ProductKeywords)
		code, byCode := "", false
		for _, c := range rule.HSCodes {
			c = strings.TrimSpace(c)
			if c != "" && strings.Contains(base, c) {
				code, byCode = c, true
				break
			}
		}
		if !byKeyword && !byCode {
			continue
		}
		evidence := map[string]any{
			"regulation":  rule.RegulationName,
			"requirement": rule.Requirement,
			"mandatory":   rule.Mandatory,
			"hs_code":     hsCode,
		}
		if byKeyword {
			evidence["matched_keyword"] = keyword
		}
		if byCode {
			evidence["matched_hs_code"] = code
		}
		return domain.Finding{
			Check:          domain.CheckRegulatory,
			Status:         domain.StatusRequired,
			Risk:           domain.RiskHigh,
			Message:        fmt.Sprintf("%s requirement applies: %s", rule.RegulationName, rule.Requirement),
			Recommendation: fmt.Sprintf("Verify %s certification is present", rule.RegulationName),
			Evidence:       evidence,
		}
	}
	return domain.Finding{
		Check:          domain.CheckRegulatory,
		Status:         domain.StatusNotRequired,
		Risk:           domain.RiskNone,
		Message:        "No regulatory certification required",
		Recommendation: "No action needed",
		Evidence:       map[string]any{"hs_code": hsCode, "rules_evaluated": len(rules)},
	}
}

func ImportRestriction(description string, rules []domain.RestrictionRule) domain.Finding {
	product := fold(description)
	for _, rule := range rules {
		keyword, ok := containsAny(product, rule.Keywords)
		if !ok {
			continue
		}
		return domain.Finding{
			Check:          domain.CheckImportRestriction,
			Status:         domain.StatusProhibited,
			Risk:           domain.RiskCritical,
			Message:        "Prohibited item detected",
			Impact:         rule.Penalty,
			Recommendation: "DO NOT SHIP - Item is prohibited for import",
			Evidence: map[string]any{
				"restriction":     rule.Restriction,
				"penalty":         rule.Penalty,
				"matched_keyword": keyword,
			},
		}
	}
	return domain.Finding{
		Check:          domain.CheckImportRestriction,
		Status:         domain.StatusAllowed,
		Risk:           domain.RiskLow,
		Message:        "No import restrictions found",
		Recommendation: "Proceed with shipment",
	}
}

// CertificateValidity grades the certificate found for a shipment; cert is nil
// when none of the requested type exists.
func CertificateValidity(shipmentID, certType string, cert *domain.Certificate) domain.Finding {
	label := strings.ToUpper(strings.TrimSpace(certType))
	evidence := map[string]any{"shipment_id": shipmentID, "certificate_type": domain.CertificateType(certType)}
	if cert == nil {
		return domain.Finding{
			Check:          domain.CheckCertificate,
			Status:         domain.StatusNotFound,
			Risk:           domain.RiskCritical,
			Message:        fmt.Sprintf("Missing %s certification", label),
			Impact:         "Shipment will be held until certification provided",
			Recommendation: fmt.Sprintf("Obtain %s certification or provide proof of exemption", label),
			Evidence:       evidence,
		}
	}
	evidence["certificate_id"] = cert.ID
	evidence["valid"] = cert.Valid
	if cert.ExpiryDate != "" {
		evidence["expiry_date"] = cert.ExpiryDate
	}
	if !cert.Valid {
		return domain.Finding{
			Check:          domain.CheckCertificate,
			Status:         domain.StatusInvalid,
			Risk:           domain.RiskCritical,
			Message:        fmt.Sprintf("%s certification expired or invalid", label),
			Recommendation: "Renew certification before shipping",
			Evidence:       evidence,
		}
	}
	return domain.Finding{
		Check:          domain.CheckCertificate,
		Status:         domain.StatusValid,
		Risk:           domain.RiskLow,
		Message:        fmt.Sprintf("%s certification present and valid", label),
		Recommendation: "No action needed",
		Evidence:       evidence,
	}
}
