package validate

import (
	"strings"
	"testing"

	"crosscheck/internal/domain"
	cerr "crosscheck/internal/errors"
)

func str(s string) *string { return &s }

func TestOriginConsistency(t *testing.T) {
	docs := []domain.Document{
		{ID: "INV-1", Type: domain.DocInvoice, OriginCountry: str("China")},
		{ID: "PL-1", Type: domain.DocPackingList, OriginCountry: str(" china ")},
		{ID: "BOL-1", Type: domain.DocBillOfLading},
	}
	f := OriginConsistency(docs)
	if f.Status != domain.StatusPass || f.Evidence["documents_checked"] != 2 {
		t.Fatalf("unexpected finding: %#v", f)
	}

	docs = append(docs, domain.Document{ID: "COO-1", Type: domain.DocCertificateOfOrigin, OriginCountry: str("Vietnam")})
	f = OriginConsistency(docs)
	if f.Status != domain.StatusFail || f.Risk != domain.RiskCritical {
		t.Fatalf("unexpected verdict: %s/%s", f.Status, f.Risk)
	}
	conflicting := f.Evidence["conflicting_origins"].([]string)
	if len(conflicting) != 2 || conflicting[0] != "China" || conflicting[1] != "Vietnam" {
		t.Fatalf("unexpected conflicts: %v", conflicting)
	}
}

func TestOriginConsistencyWithoutOrigins(t *testing.T) {
	f := OriginConsistency([]domain.Document{{ID: "INV-1", Type: domain.DocInvoice}})
	if f.ErrorKind != cerr.KindNotFound || f.Status != domain.StatusUnknown {
		t.Fatalf("unexpected finding: %#v", f)
	}
}

func TestSupplierLocationMatch(t *testing.T) {
	supplier := &domain.SupplierRecord{Name: "Shenzhen Electronics Co", Country: "China", City: "Shenzhen"}
	if f := SupplierLocationMatch(supplier, "china"); f.Status != domain.StatusVerified {
		t.Fatalf("unexpected status: %s", f.Status)
	}
	if f := SupplierLocationMatch(supplier, "Vietnam"); f.Status != domain.StatusMismatch || f.Risk != domain.RiskCritical {
		t.Fatalf("unexpected verdict: %s/%s", f.Status, f.Risk)
	}
	if f := SupplierLocationMatch(nil, "China"); f.Status != domain.StatusUnknown || f.Risk != domain.RiskMedium {
		t.Fatalf("unexpected verdict: %s/%s", f.Status, f.Risk)
	}
}

func billOfLading(routing ...string) domain.Document {
	return domain.Document{
		ID:              "BOL-1",
		Type:            domain.DocBillOfLading,
		Vessel:          str("COSCO SHIPPING ARIES"),
		OriginPort:      str("Shenzhen"),
		DestinationPort: str("Los Angeles"),
		Routing:         routing,
	}
}

var schedule = &domain.VesselSchedule{
	VesselName: "COSCO SHIPPING ARIES",
	Carrier:    "COSCO",
	RegularRoutes: []domain.Route{
		{Origin: "Shenzhen", Destination: "Los Angeles", Direct: true},
	},
}

func TestRoutePlausibility(t *testing.T) {
	direct := RoutePlausibility(billOfLading("Shenzhen", "Los Angeles"), schedule)
	if direct.Status != domain.StatusValid || direct.Risk != domain.RiskLow {
		t.Fatalf("unexpected verdict: %s/%s", direct.Status, direct.Risk)
	}

	detour := RoutePlausibility(billOfLading("Shenzhen", "Ho Chi Minh City", "Busan", "Los Angeles"), schedule)
	if detour.Status != domain.StatusSuspicious || detour.Risk != domain.RiskHigh {
		t.Fatalf("unexpected verdict: %s/%s", detour.Status, detour.Risk)
	}
	stops := detour.Evidence["transshipment_points"].([]string)
	if len(stops) != 2 || stops[0] != "Ho Chi Minh City" || stops[1] != "Busan" {
		t.Fatalf("unexpected transshipment points: %v", stops)
	}

	offRoute := billOfLading("Shenzhen", "Seattle")
	offRoute.DestinationPort = str("Seattle")
	if f := RoutePlausibility(offRoute, schedule); f.Status != domain.StatusUnusual {
		t.Fatalf("unexpected status: %s", f.Status)
	}
}

func TestRoutePlausibilityShortRouting(t *testing.T) {
	for _, routing := range [][]string{nil, {"Shenzhen"}} {
		f := RoutePlausibility(billOfLading(routing...), schedule)
		if f.Status != domain.StatusSuspicious || f.Risk != domain.RiskHigh {
			t.Fatalf("unexpected verdict for %v: %s/%s", routing, f.Status, f.Risk)
		}
		if !strings.HasPrefix(f.Message, "Routing incomplete") {
			t.Fatalf("unexpected message for %v: %q", routing, f.Message)
		}
		if stops := f.Evidence["transshipment_points"].([]string); len(stops) != 0 {
			t.Fatalf("unexpected transshipment points: %v", stops)
		}
	}
}

func TestRoutePlausibilityDegrades(t *testing.T) {
	if f := RoutePlausibility(billOfLading("Shenzhen", "Los Angeles"), nil); f.Status != domain.StatusUnknown {
		t.Fatalf("unexpected status: %s", f.Status)
	}
	noPort := billOfLading("Shenzhen", "Los Angeles")
	noPort.OriginPort = nil
	if f := RoutePlausibility(noPort, schedule); f.ErrorKind != cerr.KindMissingField {
		t.Fatalf("unexpected kind: %q", f.ErrorKind)
	}
	invoice := domain.Document{ID: "INV-1", Type: domain.DocInvoice}
	if f := RoutePlausibility(invoice, schedule); f.ErrorKind != cerr.KindInvalidInput {
		t.Fatalf("unexpected kind: %q", f.ErrorKind)
	}
}

func TestSupplierCity(t *testing.T) {
	if got := SupplierCity("Shenzhen, Guangdong, China"); got != "Shenzhen" {
		t.Fatalf("unexpected city: %q", got)
	}
	if got := SupplierCity("Shenzhen"); got != "" {
		t.Fatalf("address without comma should yield empty city, got %q", got)
	}
}

func TestPortCityConsistency(t *testing.T) {
	ports := map[string][]string{"Beijing": {"Tianjin"}, "Shenzhen": {"Shenzhen", "Yantian", "Shekou"}}
	if f := PortCityConsistency("Beijing", "Tianjin", ports); f.Status != domain.StatusValid {
		t.Fatalf("unexpected status: %s", f.Status)
	}
	if f := PortCityConsistency("beijing", "tianjin", ports); f.Status != domain.StatusValid {
		t.Fatalf("case-insensitive lookup failed: %s", f.Status)
	}
	if f := PortCityConsistency("Beijing", "Shanghai", ports); f.Status != domain.StatusInconsistent || f.Risk != domain.RiskMedium {
		t.Fatalf("unexpected verdict: %s/%s", f.Status, f.Risk)
	}
	if f := PortCityConsistency("Ningbo", "Ningbo", ports); f.Status != domain.StatusValid {
		t.Fatalf("unmapped city should expect its own port, got %s", f.Status)
	}
	if f := PortCityConsistency("", "Ningbo", ports); f.ErrorKind != cerr.KindMissingField {
		t.Fatalf("unexpected kind: %q", f.ErrorKind)
	}
}
