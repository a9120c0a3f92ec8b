package memory

import (
	"context"
	"testing"

	cerr "crosscheck/internal/errors"
)

func TestStoreLookups(t *testing.T) {
	ctx := context.Background()
	s := NewFixture()

	docs, err := s.DocumentsForShipment(ctx, FixtureShipment)
	if err != nil || len(docs) != 4 {
		t.Fatalf("unexpected documents: %d %v", len(docs), err)
	}
	if docs[0].ID != "INV-001" {
		t.Fatalf("documents must keep stored order, got %s first", docs[0].ID)
	}
	none, err := s.DocumentsForShipment(ctx, "SHIP-404")
	if err != nil || none == nil || len(none) != 0 {
		t.Fatalf("unknown shipment should give an empty slice: %v %v", none, err)
	}

	if _, err := s.Document(ctx, "INV-404"); cerr.KindOf(err) != cerr.KindNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
	if _, ok, _ := s.HSCodeEntry(ctx, "8471.30"); !ok {
		t.Fatalf("expected hs code entry")
	}
	if cert, ok, _ := s.Certificate(ctx, FixtureShipment, "fcc"); !ok || cert.ID != "FCC-2025-001" {
		t.Fatalf("unexpected certificate: %+v %v", cert, ok)
	}
	if _, ok, _ := s.Certificate(ctx, FixtureShipment, "ul"); ok {
		t.Fatalf("fixture has no UL certificate")
	}
	if e, ok, _ := s.MarketPrice(ctx, "laptop"); !ok || e.ProductKey != "Laptop Computer" {
		t.Fatalf("unexpected market price: %+v %v", e, ok)
	}
	if _, ok, _ := s.Supplier(ctx, "Unknown Supplier"); ok {
		t.Fatalf("unexpected supplier")
	}
}

func TestCityPortsDefaultAndCopy(t *testing.T) {
	s := New(Data{})
	ports, err := s.CityPorts(context.Background())
	if err != nil || len(ports["Beijing"]) == 0 {
		t.Fatalf("expected default city ports: %v %v", ports, err)
	}
	delete(ports, "Beijing")
	again, _ := s.CityPorts(context.Background())
	if _, ok := again["Beijing"]; !ok {
		t.Fatalf("callers must not be able to modify the store")
	}
}
