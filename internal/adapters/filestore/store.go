// Package filestore reads reference tables from JSON files in a data
// directory. Files are re-read on every call so edits apply immediately. A
// missing or malformed file reads as an empty table.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"crosscheck/internal/domain"
	cerr "crosscheck/internal/errors"
	"crosscheck/internal/policy"
	"crosscheck/internal/schema"
)

const (
	DocumentsFile    = "documents.json"
	CertificatesFile = "certificates.json"
	HSCodesFile      = "hs_code_database.json"
	MarketPricesFile = "market_prices.json"
	SuppliersFile    = "supplier_history.json"
	RulingsFile      = "cbp_rulings.json"
	RegulationsFile  = "regulatory_requirements.json"
	VesselsFile      = "vessel_schedules.json"
	CityPortsFile    = "city_ports.json"
)

// restrictionsKey holds import restrictions inside the regulations file; every
// other top-level key is a regulation.
const restrictionsKey = "Import_Restrictions"

type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Dir() string { return s.dir }

func (s *Store) read(name string) []byte {
	path := filepath.Join(s.dir, name)
	// #nosec G304 -- fixed table names under the configured data directory.
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("filestore: read %s: %v", path, err)
		}
		return nil
	}
	return data
}

// table returns the entries of a top-level JSON object in file order.
func (s *Store) table(name string) []entry {
	data := s.read(name)
	if data == nil {
		return nil
	}
	entries, err := orderedObject(data)
	if err != nil {
		log.Printf("filestore: %s is malformed, treating as empty: %v", name, err)
		return nil
	}
	return entries
}

func (s *Store) documents() []domain.Document {
	var out []domain.Document
	for _, e := range s.table(DocumentsFile) {
		if err := schema.ValidateDocument(e.value); err != nil {
			log.Printf("filestore: skipping document %s: %v", e.key, err)
			continue
		}
		var doc domain.Document
		if err := json.Unmarshal(e.value, &doc); err != nil {
			log.Printf("filestore: skipping document %s: %v", e.key, err)
			continue
		}
		if doc.ID == "" {
			doc.ID = e.key
		}
		out = append(out, doc)
	}
	return out
}

func (s *Store) Document(_ context.Context, id string) (domain.Document, error) {
	for _, doc := range s.documents() {
		if doc.ID == id {
			return doc, nil
		}
	}
	return domain.Document{}, cerr.New(cerr.KindNotFound, "document_not_found", "document %s not found", id)
}

func (s *Store) DocumentsForShipment(_ context.Context, shipmentID string) ([]domain.Document, error) {
	out := []domain.Document{}
	for _, doc := range s.documents() {
		if doc.ShipmentID == shipmentID {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (s *Store) HSCodeEntries(context.Context) ([]domain.HSCodeEntry, error) {
	var out []domain.HSCodeEntry
	for _, e := range s.table(HSCodesFile) {
		var entry domain.HSCodeEntry
		if !decode(HSCodesFile, e, &entry) {
			continue
		}
		if entry.Code == "" {
			entry.Code = e.key
		}
		out = append(out, entry)
	}
	return out, nil
}

func (s *Store) HSCodeEntry(ctx context.Context, baseCode string) (domain.HSCodeEntry, bool, error) {
	entries, _ := s.HSCodeEntries(ctx)
	for _, entry := range entries {
		if entry.Code == baseCode {
			return entry, true, nil
		}
	}
	return domain.HSCodeEntry{}, false, nil
}

func (s *Store) CBPRulings(context.Context) ([]domain.CBPRuling, error) {
	var file struct {
		Rulings []domain.CBPRuling `json:"rulings"`
	}
	data := s.read(RulingsFile)
	if data == nil {
		return nil, nil
	}
	if err := json.Unmarshal(data, &file); err != nil {
		log.Printf("filestore: %s is malformed, treating as empty: %v", RulingsFile, err)
		return nil, nil
	}
	return file.Rulings, nil
}

type regulation struct {
	AppliesTo       []domain.RegulatoryRule  `json:"applies_to"`
	RestrictedItems []domain.RestrictionRule `json:"restricted_items"`
}

func (s *Store) regulations() (rules []domain.RegulatoryRule, restrictions []domain.RestrictionRule) {
	for _, e := range s.table(RegulationsFile) {
		var r regulation
		if !decode(RegulationsFile, e, &r) {
			continue
		}
		if e.key == restrictionsKey {
			restrictions = append(restrictions, r.RestrictedItems...)
			continue
		}
		for _, rule := range r.AppliesTo {
			if rule.RegulationName == "" {
				rule.RegulationName = e.key
			}
			rules = append(rules, rule)
		}
	}
	return rules, restrictions
}

func (s *Store) RegulatoryRules(context.Context) ([]domain.RegulatoryRule, error) {
	rules, _ := s.regulations()
	return rules, nil
}

func (s *Store) ImportRestrictions(context.Context) ([]domain.RestrictionRule, error) {
	_, restrictions := s.regulations()
	return restrictions, nil
}

// Certificate returns the first certificate of the type, in file order.
func (s *Store) Certificate(_ context.Context, shipmentID, certType string) (domain.Certificate, bool, error) {
	want := domain.CertificateType(certType)
	for _, e := range s.table(CertificatesFile) {
		var cert domain.Certificate
		if !decode(CertificatesFile, e, &cert) {
			continue
		}
		if cert.ShipmentID != shipmentID || cert.Type != want {
			continue
		}
		if cert.ID == "" {
			cert.ID = e.key
		}
		return cert, true, nil
	}
	return domain.Certificate{}, false, nil
}

func (s *Store) Supplier(_ context.Context, name string) (domain.SupplierRecord, bool, error) {
	for _, e := range s.table(SuppliersFile) {
		if e.key != name {
			continue
		}
		var rec domain.SupplierRecord
		if !decode(SuppliersFile, e, &rec) {
			return domain.SupplierRecord{}, false, nil
		}
		if rec.Name == "" {
			rec.Name = e.key
		}
		return rec, true, nil
	}
	return domain.SupplierRecord{}, false, nil
}

func (s *Store) VesselSchedule(_ context.Context, name string) (domain.VesselSchedule, bool, error) {
	for _, e := range s.table(VesselsFile) {
		if e.key != name {
			continue
		}
		var v domain.VesselSchedule
		if !decode(VesselsFile, e, &v) {
			return domain.VesselSchedule{}, false, nil
		}
		if v.VesselName == "" {
			v.VesselName = e.key
		}
		return v, true, nil
	}
	return domain.VesselSchedule{}, false, nil
}

func (s *Store) MarketPrice(_ context.Context, product string) (domain.MarketPriceEntry, bool, error) {
	var entries []domain.MarketPriceEntry
	for _, e := range s.table(MarketPricesFile) {
		var price domain.MarketPriceEntry
		if !decode(MarketPricesFile, e, &price) {
			continue
		}
		if price.ProductKey == "" {
			price.ProductKey = e.key
		}
		entries = append(entries, price)
	}
	entry, ok := domain.MatchMarketPrice(entries, product)
	return entry, ok, nil
}

// CityPorts reads city_ports.json and falls back to the built-in table.
func (s *Store) CityPorts(context.Context) (map[string][]string, error) {
	data := s.read(CityPortsFile)
	if data == nil {
		return policy.DefaultCityPorts(), nil
	}
	var ports map[string][]string
	if err := json.Unmarshal(data, &ports); err != nil || len(ports) == 0 {
		if err != nil {
			log.Printf("filestore: %s is malformed, using defaults: %v", CityPortsFile, err)
		}
		return policy.DefaultCityPorts(), nil
	}
	return ports, nil
}

func decode(file string, e entry, v any) bool {
	if err := json.Unmarshal(e.value, v); err != nil {
		log.Printf("filestore: %s: skipping %s: %v", file, e.key, err)
		return false
	}
	return true
}
