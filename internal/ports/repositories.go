package ports

import (
	"context"

	"crosscheck/internal/domain"
)

// Reference tables are read-only lookups. A missing row is found=false with a
// nil error; an error means the backing store itself failed.

// DocumentRepository reads trade documents.
type DocumentRepository interface {
	// Document fails with a not_found error when the id is unknown.
	Document(ctx context.Context, id string) (domain.Document, error)
	// DocumentsForShipment returns an empty slice when the shipment has none.
	DocumentsForShipment(ctx context.Context, shipmentID string) ([]domain.Document, error)
}

// HSCodeRepository reads the tariff table keyed by 7-character base code.
type HSCodeRepository interface {
	HSCodeEntry(ctx context.Context, baseCode string) (entry domain.HSCodeEntry, found bool, err error)
	HSCodeEntries(ctx context.Context) ([]domain.HSCodeEntry, error)
}

type RulingRepository interface {
	CBPRulings(ctx context.Context) ([]domain.CBPRuling, error)
}

// RegulationRepository returns rules in stored order; evaluation order matters.
type RegulationRepository interface {
	RegulatoryRules(ctx context.Context) ([]domain.RegulatoryRule, error)
	ImportRestrictions(ctx context.Context) ([]domain.RestrictionRule, error)
}

// CertificateRepository returns the first certificate of certType for the shipment.
type CertificateRepository interface {
	Certificate(ctx context.Context, shipmentID, certType string) (cert domain.Certificate, found bool, err error)
}

type SupplierRepository interface {
	Supplier(ctx context.Context, name string) (supplier domain.SupplierRecord, found bool, err error)
}

type VesselRepository interface {
	VesselSchedule(ctx context.Context, name string) (schedule domain.VesselSchedule, found bool, err error)
}

// MarketPriceRepository matches the product exactly first, then by
// case-insensitive substring in either direction.
type MarketPriceRepository interface {
	MarketPrice(ctx context.Context, product string) (entry domain.MarketPriceEntry, found bool, err error)
}

// PortMapRepository maps supplier cities to the ports they usually ship from.
type PortMapRepository interface {
	CityPorts(ctx context.Context) (map[string][]string, error)
}

// ReferenceStore bundles every table; each adapter implements all of them.
type ReferenceStore interface {
	DocumentRepository
	HSCodeRepository
	RulingRepository
	RegulationRepository
	CertificateRepository
	SupplierRepository
	VesselRepository
	MarketPriceRepository
	PortMapRepository
}
