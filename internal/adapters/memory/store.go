// Package memory is an in-process reference store. It backs the demo command
// and the service tests.
package memory

import (
	"context"
	"maps"

	"crosscheck/internal/domain"
	cerr "crosscheck/internal/errors"
	"crosscheck/internal/policy"
)

// Data is the full content of a store. Slices keep their stored order.
type Data struct {
	Documents    []domain.Document
	HSCodes      []domain.HSCodeEntry
	Rulings      []domain.CBPRuling
	Regulations  []domain.RegulatoryRule
	Restrictions []domain.RestrictionRule
	Certificates []domain.Certificate
	Suppliers    []domain.SupplierRecord
	Vessels      []domain.VesselSchedule
	MarketPrices []domain.MarketPriceEntry
	// CityPorts falls back to policy.DefaultCityPorts when nil.
	CityPorts map[string][]string
}

// Store is read-only after New and safe for concurrent use.
type Store struct {
	data Data
}

func New(data Data) *Store {
	if data.CityPorts == nil {
		data.CityPorts = policy.DefaultCityPorts()
	}
	return &Store{data: data}
}

func (s *Store) Document(_ context.Context, id string) (domain.Document, error) {
	for _, d := range s.data.Documents {
		if d.ID == id {
			return d, nil
		}
	}
	return domain.Document{}, cerr.New(cerr.KindNotFound, "document_not_found", "document %s not found", id)
}

func (s *Store) DocumentsForShipment(_ context.Context, shipmentID string) ([]domain.Document, error) {
	out := []domain.Document{}
	for _, d := range s.data.Documents {
		if d.ShipmentID == shipmentID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *Store) HSCodeEntry(_ context.Context, baseCode string) (domain.HSCodeEntry, bool, error) {
	for _, e := range s.data.HSCodes {
		if e.Code == baseCode {
			return e, true, nil
		}
	}
	return domain.HSCodeEntry{}, false, nil
}

func (s *Store) HSCodeEntries(context.Context) ([]domain.HSCodeEntry, error) {
	return append([]domain.HSCodeEntry(nil), s.data.HSCodes...), nil
}

func (s *Store) CBPRulings(context.Context) ([]domain.CBPRuling, error) {
	return append([]domain.CBPRuling(nil), s.data.Rulings...), nil
}

func (s *Store) RegulatoryRules(context.Context) ([]domain.RegulatoryRule, error) {
	return append([]domain.RegulatoryRule(nil), s.data.Regulations...), nil
}

func (s *Store) ImportRestrictions(context.Context) ([]domain.RestrictionRule, error) {
	return append([]domain.RestrictionRule(nil), s.data.Restrictions...), nil
}

func (s *Store) Certificate(_ context.Context, shipmentID, certType string) (domain.Certificate, bool, error) {
	want := domain.CertificateType(certType)
	for _, c := range s.data.Certificates {
		if c.ShipmentID == shipmentID && c.Type == want {
			return c, true, nil
		}
	}
	return domain.Certificate{}, false, nil
}

func (s *Store) Supplier(_ context.Context, name string) (domain.SupplierRecord, bool, error) {
	for _, r := range s.data.Suppliers {
		if r.Name == name {
			return r, true, nil
		}
	}
	return domain.SupplierRecord{}, false, nil
}

func (s *Store) VesselSchedule(_ context.Context, name string) (domain.VesselSchedule, bool, error) {
	for _, v := range s.data.Vessels {
		if v.VesselName == name {
			return v, true, nil
		}
	}
	return domain.VesselSchedule{}, false, nil
}

func (s *Store) MarketPrice(_ context.Context, product string) (domain.MarketPriceEntry, bool, error) {
	e, ok := domain.MatchMarketPrice(s.data.MarketPrices, product)
	return e, ok, nil
}

func (s *Store) CityPorts(context.Context) (map[string][]string, error) {
	return maps.Clone(s.data.CityPorts), nil
}
