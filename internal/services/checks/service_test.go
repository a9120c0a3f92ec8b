package checks

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"crosscheck/internal/adapters/memory"
	"crosscheck/internal/domain"
	cerr "crosscheck/internal/errors"
	"crosscheck/internal/policy"
)

type fakeTranslator struct {
	out string
	err error
}

func (f fakeTranslator) Translate(_ context.Context, text, _, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.out == "" {
		return "translated " + text, nil
	}
	return f.out, nil
}

func newService(tr *fakeTranslator) *Service {
	if tr == nil {
		return New(memory.NewFixture(), nil, policy.Static(policy.Default()))
	}
	return New(memory.NewFixture(), tr, policy.Static(policy.Default()))
}

func TestFixtureChecks(t *testing.T) {
	ctx := context.Background()
	s := newService(nil)
	ship := memory.FixtureShipment

	cases := []struct {
		name   string
		got    domain.Finding
		status domain.Status
		risk   domain.RiskLevel
	}{
		{"description match", s.FieldMatch(ctx, "INV-001", "PL-001", "description"), domain.StatusPass, domain.RiskLow},
		{"short packing list", s.QuantityVariance(ctx, "INV-001", "PL-001"), domain.StatusFail, domain.RiskCritical},
		{"values agree", s.ValueConsistency(ctx, []string{"INV-001", "PL-001", "BOL-001"}, ""), domain.StatusPass, domain.RiskLow},
		{"unit price", s.UnitPrice(ctx, "INV-001"), domain.StatusCorrect, domain.RiskLow},
		{"market price", s.PriceAnomaly(ctx, "Laptop Computer", 1250), domain.StatusNormal, domain.RiskLow},
		{"hs code", s.HSCode(ctx, "8471.30.0100", "8471.30.0100"), domain.StatusPass, domain.RiskLow},
		{"fcc applies", s.Regulatory(ctx, "Laptop Computer", "8471.30.0100"), domain.StatusRequired, domain.RiskHigh},
		{"not restricted", s.ImportRestriction(ctx, "Laptop Computer"), domain.StatusAllowed, domain.RiskLow},
		{"fcc certificate", s.Certificate(ctx, ship, "fcc"), domain.StatusValid, domain.RiskLow},
		{"ul certificate missing", s.Certificate(ctx, ship, "ul"), domain.StatusNotFound, domain.RiskCritical},
		{"origin", s.OriginConsistency(ctx, ship), domain.StatusPass, domain.RiskLow},
		{"supplier location", s.SupplierLocation(ctx, "Shenzhen Electronics Co", "China"), domain.StatusVerified, domain.RiskLow},
		{"detour", s.Route(ctx, "BOL-001"), domain.StatusSuspicious, domain.RiskHigh},
		{"port city", s.PortCity(ctx, ship), domain.StatusValid, domain.RiskLow},
		{"hold rate", s.HoldRate(ctx, "Shenzhen Electronics Co"), domain.StatusBelowAverage, domain.RiskMedium},
		{"new supplier", s.HoldRate(ctx, "Nobody Ltd"), domain.StatusNewSupplier, domain.RiskMedium},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got.Status != tc.status || tc.got.Risk != tc.risk {
				t.Fatalf("unexpected finding: %s/%s (%s)", tc.got.Status, tc.got.Risk, tc.got.Message)
			}
		})
	}
}

func TestQuantityVarianceUsesInvoiceUnitPrice(t *testing.T) {
	f := newService(nil).QuantityVariance(context.Background(), "INV-001", "PL-001")
	if f.Evidence["financial_impact"] != 6250.0 {
		t.Fatalf("unexpected financial impact: %v", f.Evidence["financial_impact"])
	}
	if f.Evidence["invoice_id"] != "INV-001" || f.Evidence["packing_list_id"] != "PL-001" {
		t.Fatalf("unexpected evidence: %v", f.Evidence)
	}
}

func TestNonFiniteNumbersFailChecks(t *testing.T) {
	var inv, pl domain.Document
	if err := json.Unmarshal([]byte(`{"id":"INV-9","type":"invoice","shipment_id":"SHIP-9","quantity":100,"total_value":"NaN","unit_price":"Inf"}`), &inv); err != nil {
		t.Fatalf("unmarshal invoice: %v", err)
	}
	if err := json.Unmarshal([]byte(`{"id":"PL-9","type":"packing_list","shipment_id":"SHIP-9","quantity":95,"total_value":"+Inf"}`), &pl); err != nil {
		t.Fatalf("unmarshal packing list: %v", err)
	}
	s := New(memory.New(memory.Data{Documents: []domain.Document{inv, pl}}), nil, policy.Static(policy.Default()))
	ctx := context.Background()
	for _, f := range []domain.Finding{
		s.ValueConsistency(ctx, []string{"INV-9", "PL-9"}, ""),
		s.QuantityVariance(ctx, "INV-9", "PL-9"),
		s.UnitPrice(ctx, "INV-9"),
	} {
		if f.Status != domain.StatusFail || f.ErrorKind != cerr.KindInvalidInput {
			t.Fatalf("unexpected %s finding: %+v", f.Check, f)
		}
	}
}

func TestWrongDocumentTypeFailsCheck(t *testing.T) {
	f := newService(nil).QuantityVariance(context.Background(), "PL-001", "INV-001")
	if f.Status != domain.StatusFail || f.ErrorKind != cerr.KindInvalidInput {
		t.Fatalf("expected invalid_input failure, got %s/%s", f.Status, f.ErrorKind)
	}
	if f := newService(nil).Route(context.Background(), "INV-001"); f.ErrorKind != cerr.KindInvalidInput {
		t.Fatalf("expected route on an invoice to fail, got %s", f.ErrorKind)
	}
}

func TestUnknownDocumentIsUnknown(t *testing.T) {
	f := newService(nil).FieldMatch(context.Background(), "INV-001", "INV-404", "description")
	if f.Status != domain.StatusUnknown || f.Risk != domain.RiskMedium || f.ErrorKind != cerr.KindNotFound {
		t.Fatalf("unexpected finding: %+v", f)
	}
}

func TestUnknownShipmentDegrades(t *testing.T) {
	s := newService(nil)
	if _, err := s.Shipment(context.Background(), "SHIP-404"); !cerr.Is(err, cerr.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
	f := s.OriginConsistency(context.Background(), "SHIP-404")
	if f.Status != domain.StatusUnknown || !strings.Contains(f.Error, "SHIP-404") {
		t.Fatalf("unexpected finding: %+v", f)
	}
}

func TestTranslatedDescription(t *testing.T) {
	ctx := context.Background()
	f := newService(&fakeTranslator{out: "Laptop Computer"}).TranslatedDescription(ctx, "笔记本电脑", "ZH", "Laptop Computer")
	if f.Status != domain.StatusPass {
		t.Fatalf("expected match, got %s", f.Status)
	}
	f = newService(nil).TranslatedDescription(ctx, "笔记本电脑", "ZH", "Laptop Computer")
	if f.Status != domain.StatusUnknown || f.ErrorKind != cerr.KindTranslationUnavailable {
		t.Fatalf("expected degraded finding, got %s/%s", f.Status, f.ErrorKind)
	}
}

func TestTranslateDocument(t *testing.T) {
	ctx := context.Background()
	s := newService(&fakeTranslator{})
	out, err := s.TranslateDocument(ctx, "PL-001", []string{"description_cn", "notes"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("unexpected translations: %+v", out)
	}
	if out[0].Translated != "translated 笔记本电脑" || out[0].Source != "ZH" {
		t.Fatalf("unexpected translation: %+v", out[0])
	}
	if out[1].Error == "" || out[1].Translated != "" {
		t.Fatalf("missing field should be reported: %+v", out[1])
	}

	failing := newService(&fakeTranslator{err: errors.New("quota exceeded")})
	out, err = failing.TranslateDocument(ctx, "PL-001", []string{"description_cn"})
	if err != nil || out[0].Error != "quota exceeded" {
		t.Fatalf("field failures belong in the entry: %+v %v", out, err)
	}

	if _, err := newService(nil).TranslateDocument(ctx, "PL-001", []string{"description_cn"}); !cerr.Is(err, cerr.KindTranslationUnavailable) {
		t.Fatalf("expected translation_unavailable, got %v", err)
	}
	if _, err := s.TranslateDocument(ctx, "PL-404", nil); !cerr.Is(err, cerr.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestRunByName(t *testing.T) {
	ctx := context.Background()
	s := newService(nil)
	f, err := s.Run(ctx, domain.CheckCertificate, Request{ShipmentID: memory.FixtureShipment, CertType: "origin"})
	if err != nil || f.Status != domain.StatusValid {
		t.Fatalf("unexpected result: %+v %v", f, err)
	}
	f, err = s.Run(ctx, domain.CheckFieldMatch, Request{DocumentIDs: []string{"INV-001"}, Field: "description"})
	if err != nil || f.ErrorKind != cerr.KindInvalidInput {
		t.Fatalf("expected bad request finding, got %+v %v", f, err)
	}
	if _, err := s.Run(ctx, "no_such_check", Request{}); !cerr.Is(err, cerr.KindInvalidInput) {
		t.Fatalf("expected invalid_input, got %v", err)
	}
	if len(Names()) != 16 {
		t.Fatalf("unexpected check names: %v", Names())
	}
}

func TestPolicySwapAppliesToNextCall(t *testing.T) {
	holder := policy.NewHolder(policy.Default())
	s := New(memory.NewFixture(), nil, holder)
	if f := s.QuantityVariance(context.Background(), "INV-001", "PL-001"); f.Status != domain.StatusFail {
		t.Fatalf("expected failure at zero tolerance, got %s", f.Status)
	}
	p := policy.Default()
	p.QuantityTolerancePercent = 10
	holder.Store(p)
	if f := s.QuantityVariance(context.Background(), "INV-001", "PL-001"); f.Status != domain.StatusWarning {
		t.Fatalf("expected warning within 10%% tolerance, got %s", f.Status)
	}
}
