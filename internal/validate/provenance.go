package validate

import (
	"fmt"
	"sort"
	"strings"

	"crosscheck/internal/domain"
	cerr "crosscheck/internal/errors"
)

type documentOrigin struct {
	DocumentID   string              `json:"document_id"`
	DocumentType domain.DocumentType `json:"document_type"`
	Origin       string              `json:"origin"`
}

// OriginConsistency checks that every document declaring an origin declares
// the same one. Conflicts suggest transshipment.
func OriginConsistency(docs []domain.Document) domain.Finding {
	var origins []documentOrigin
	distinct := map[string]string{}
	for _, doc := range docs {
		origin := strings.TrimSpace(domain.Text(doc.OriginCountry))
		if origin == "" {
			continue
		}
		origins = append(origins, documentOrigin{DocumentID: doc.ID, DocumentType: doc.Type, Origin: origin})
		if _, seen := distinct[fold(origin)]; !seen {
			distinct[fold(origin)] = origin
		}
	}
	if len(origins) == 0 {
		return domain.Failed(domain.CheckOriginConsistency, cerr.New(cerr.KindNotFound, "no_origin_data",
			"no origin information found in %d documents", len(docs)))
	}
	if len(distinct) == 1 {
		return domain.Finding{
			Check:          domain.CheckOriginConsistency,
			Status:         domain.StatusPass,
			Risk:           domain.RiskLow,
			Message:        "Origin consistent across all documents",
			Recommendation: "No action needed",
			Evidence: map[string]any{
				"origin_country":    origins[0].Origin,
				"documents_checked": len(origins),
				"document_origins":  origins,
			},
		}
	}
	conflicting := make([]string, 0, len(distinct))
	for _, origin := range distinct {
		conflicting = append(conflicting, origin)
	}
	sort.Strings(conflicting)
	return domain.Finding{
		Check:          domain.CheckOriginConsistency,
		Status:         domain.StatusFail,
		Risk:           domain.RiskCritical,
		Message:        fmt.Sprintf("Origin country mismatch: %s", strings.Join(conflicting, ", ")),
		Impact:         "Will trigger CBP investigation for potential transshipment",
		Recommendation: "Verify correct origin and update all documents",
		Evidence: map[string]any{
			"conflicting_origins": conflicting,
			"document_origins":    origins,
		},
	}
}

// SupplierLocationMatch compares the supplier's registered country with the
// declared origin. An unknown supplier is a caution, not a failure.
func SupplierLocationMatch(supplier *domain.SupplierRecord, declaredOrigin string) domain.Finding {
	if supplier == nil {
		return domain.Finding{
			Check:          domain.CheckSupplierLocation,
			Status:         domain.StatusUnknown,
			Risk:           domain.RiskMedium,
			Message:        "Supplier not in database",
			Recommendation: "New supplier - verify location independently",
			Evidence:       map[string]any{"declared_origin": declaredOrigin},
		}
	}
	evidence := map[string]any{
		"supplier_name":    supplier.Name,
		"supplier_country": supplier.Country,
		"supplier_city":    supplier.City,
		"declared_origin":  declaredOrigin,
	}
	if strings.EqualFold(strings.TrimSpace(supplier.Country), strings.TrimSpace(declaredOrigin)) {
		return domain.Finding{
			Check:          domain.CheckSupplierLocation,
			Status:         domain.StatusVerified,
			Risk:           domain.RiskLow,
			Message:        "Supplier location matches declared origin",
			Recommendation: "No action needed",
			Evidence:       evidence,
		}
	}
	return domain.Finding{
		Check:          domain.CheckSupplierLocation,
		Status:         domain.StatusMismatch,
		Risk:           domain.RiskCritical,
		Message:        fmt.Sprintf("Supplier located in %s but origin declared as %s", supplier.Country, declaredOrigin),
		Impact:         "Potential fraud or transshipment - will trigger investigation",
		Recommendation: "Investigate discrepancy immediately",
		Evidence:       evidence,
	}
}

// RoutePlausibility checks a bill of lading's ports and routing against the
// vessel's regular routes. Routing through intermediate stops when a direct
// sailing exists is flagged as possible tariff circumvention.
func RoutePlausibility(bol domain.Document, schedule *domain.VesselSchedule) domain.Finding {
	if bol.Type != domain.DocBillOfLading {
		return domain.Failed(domain.CheckRoute, cerr.New(cerr.KindInvalidInput, "wrong_document_type",
			"%s is not a bill of lading", bol.ID))
	}
	vessel := domain.Text(bol.Vessel)
	if schedule == nil {
		return domain.Finding{
			Check:          domain.CheckRoute,
			Status:         domain.StatusUnknown,
			Risk:           domain.RiskMedium,
			Message:        fmt.Sprintf("Vessel '%s' not in schedule database", vessel),
			Recommendation: "Verify vessel is legitimate",
			Evidence:       map[string]any{"vessel": vessel},
		}
	}
	origin, dest := strings.TrimSpace(domain.Text(bol.OriginPort)), strings.TrimSpace(domain.Text(bol.DestinationPort))
	if origin == "" || dest == "" {
		return domain.Failed(domain.CheckRoute, cerr.New(cerr.KindMissingField, "port_missing",
			"%s lacks origin_port or destination_port", bol.ID))
	}
	routeMatch, directAvailable := false, false
	for _, r := range schedule.RegularRoutes {
		if strings.Contains(r.Origin, origin) && strings.Contains(r.Destination, dest) {
			routeMatch = true
			if r.Direct {
				directAvailable = true
			}
		}
	}
	routing := bol.Routing
	isDirect := len(routing) == 2
	evidence := map[string]any{
		"vessel":           vessel,
		"carrier":          schedule.Carrier,
		"route":            routing,
		"route_match":      routeMatch,
		"direct_available": directAvailable,
		"direct":           isDirect,
	}
	switch {
	case routeMatch && isDirect:
		return domain.Finding{
			Check:          domain.CheckRoute,
			Status:         domain.StatusValid,
			Risk:           domain.RiskLow,
			Message:        "Direct route on regular vessel schedule",
			Recommendation: "No action needed",
			Evidence:       evidence,
		}
	case routeMatch && directAvailable:
		var stops []string
		if len(routing) > 2 {
			stops = append(stops, routing[1:len(routing)-1]...)
		}
		evidence["transshipment_points"] = stops
		msg := fmt.Sprintf("Unnecessary transshipment via %s", strings.Join(stops, ", "))
		if len(stops) == 0 {
			msg = fmt.Sprintf("Routing incomplete (%d stops) although a direct sailing is available", len(routing))
		}
		return domain.Finding{
			Check:          domain.CheckRoute,
			Status:         domain.StatusSuspicious,
			Risk:           domain.RiskHigh,
			Message:        msg,
			Impact:         "Potential tariff circumvention (goods routed through third country); may trigger CBP investigation",
			Recommendation: "Provide explanation for routing or consider direct shipment",
			Evidence:       evidence,
		}
	}
	return domain.Finding{
		Check:          domain.CheckRoute,
		Status:         domain.StatusUnusual,
		Risk:           domain.RiskMedium,
		Message:        "Unusual routing pattern",
		Recommendation: "Verify routing is legitimate and cost-effective",
		Evidence:       evidence,
	}
}

// SupplierCity takes the city from a "City, Region, Country" address. Addresses
// without a comma yield "".
func SupplierCity(address string) string {
	city, _, found := strings.Cut(address, ",")
	if !found {
		return ""
	}
	return strings.TrimSpace(city)
}

// PortCityConsistency checks the origin port against the ports expected for
// the supplier's city. Unmapped cities expect a port of the same name.
func PortCityConsistency(supplierCity, originPort string, cityPorts map[string][]string) domain.Finding {
	supplierCity, originPort = strings.TrimSpace(supplierCity), strings.TrimSpace(originPort)
	if supplierCity == "" || originPort == "" {
		return domain.Failed(domain.CheckPortCity, cerr.New(cerr.KindMissingField, "location_missing",
			"missing supplier location or origin port information"))
	}
	expected, ok := cityPorts[supplierCity]
	if !ok {
		expected = []string{supplierCity}
		for city, ports := range cityPorts {
			if strings.EqualFold(city, supplierCity) {
				expected = ports
				break
			}
		}
	}
	evidence := map[string]any{
		"supplier_city":  supplierCity,
		"origin_port":    originPort,
		"expected_ports": expected,
	}
	for _, port := range expected {
		if strings.EqualFold(strings.TrimSpace(port), originPort) {
			return domain.Finding{
				Check:          domain.CheckPortCity,
				Status:         domain.StatusValid,
				Risk:           domain.RiskLow,
				Message:        "Origin port matches supplier location",
				Recommendation: "No action needed",
				Evidence:       evidence,
			}
		}
	}
	return domain.Finding{
		Check:          domain.CheckPortCity,
		Status:         domain.StatusInconsistent,
		Risk:           domain.RiskMedium,
		Message:        "Origin port doesn't match supplier location",
		Impact:         "May indicate consolidation or transshipment",
		Recommendation: "Verify logistics arrangement",
		Evidence:       evidence,
	}
}
