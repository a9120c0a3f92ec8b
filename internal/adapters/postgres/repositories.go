package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"crosscheck/internal/domain"
	cerr "crosscheck/internal/errors"
	"crosscheck/internal/policy"
)

// DocumentRepository

func scanDocument(row pgx.Row) (domain.Document, error) {
	var id, shipmentID, docType string
	var body []byte
	if err := row.Scan(&id, &shipmentID, &docType, &body); err != nil {
		return domain.Document{}, err
	}
	var doc domain.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return domain.Document{}, fmt.Errorf("document %s: %w", id, err)
	}
	doc.ID, doc.ShipmentID, doc.Type = id, shipmentID, domain.DocumentType(docType)
	return doc, nil
}

func (db *DB) Document(ctx context.Context, id string) (domain.Document, error) {
	doc, err := scanDocument(db.Pool.QueryRow(ctx,
		`SELECT id, shipment_id, doc_type, body FROM documents WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Document{}, cerr.New(cerr.KindNotFound, "document_not_found", "document %s not found", id)
	}
	if err != nil {
		return domain.Document{}, unavailable("documents", err)
	}
	return doc, nil
}

func (db *DB) DocumentsForShipment(ctx context.Context, shipmentID string) ([]domain.Document, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, shipment_id, doc_type, body FROM documents
		WHERE shipment_id = $1
		ORDER BY position
	`, shipmentID)
	if err != nil {
		return nil, unavailable("documents", err)
	}
	defer rows.Close()
	out := []domain.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, unavailable("documents", err)
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("documents", err)
	}
	return out, nil
}

// HSCodeRepository

const hsColumns = `base_code, description, common_names, duty_rate, notes, COALESCE(subcategories, '{}'::jsonb)`

func scanHSCode(row pgx.Row) (domain.HSCodeEntry, error) {
	var e domain.HSCodeEntry
	var duty string
	err := row.Scan(&e.Code, &e.Description, &e.CommonNames, &duty, &e.Notes, &e.Subcategories)
	e.DutyRate = domain.FlexString(duty)
	return e, err
}

func (db *DB) HSCodeEntry(ctx context.Context, baseCode string) (domain.HSCodeEntry, bool, error) {
	e, err := scanHSCode(db.Pool.QueryRow(ctx, `SELECT `+hsColumns+` FROM hs_codes WHERE base_code = $1`, baseCode))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.HSCodeEntry{}, false, nil
	}
	if err != nil {
		return domain.HSCodeEntry{}, false, unavailable("hs_codes", err)
	}
	return e, true, nil
}

func (db *DB) HSCodeEntries(ctx context.Context) ([]domain.HSCodeEntry, error) {
	rows, err := db.Pool.Query(ctx, `SELECT `+hsColumns+` FROM hs_codes ORDER BY base_code`)
	if err != nil {
		return nil, unavailable("hs_codes", err)
	}
	defer rows.Close()
	var out []domain.HSCodeEntry
	for rows.Next() {
		e, err := scanHSCode(rows)
		if err != nil {
			return nil, unavailable("hs_codes", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("hs_codes", err)
	}
	return out, nil
}

// RulingRepository

func (db *DB) CBPRulings(ctx context.Context) ([]domain.CBPRuling, error) {
	rows, err := db.Pool.Query(ctx, `SELECT ruling_number, keywords, guidance FROM cbp_rulings ORDER BY position`)
	if err != nil {
		return nil, unavailable("cbp_rulings", err)
	}
	defer rows.Close()
	var out []domain.CBPRuling
	for rows.Next() {
		var r domain.CBPRuling
		if err := rows.Scan(&r.RulingNumber, &r.Keywords, &r.Guidance); err != nil {
			return nil, unavailable("cbp_rulings", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("cbp_rulings", err)
	}
	return out, nil
}

// RegulationRepository

func (db *DB) RegulatoryRules(ctx context.Context) ([]domain.RegulatoryRule, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT regulation_name, product_keywords, hs_codes, requirement, mandatory
		FROM regulatory_rules ORDER BY id
	`)
	if err != nil {
		return nil, unavailable("regulatory_rules", err)
	}
	defer rows.Close()
	var out []domain.RegulatoryRule
	for rows.Next() {
		var r domain.RegulatoryRule
		if err := rows.Scan(&r.RegulationName, &r.ProductKeywords, &r.HSCodes, &r.Requirement, &r.Mandatory); err != nil {
			return nil, unavailable("regulatory_rules", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("regulatory_rules", err)
	}
	return out, nil
}

func (db *DB) ImportRestrictions(ctx context.Context) ([]domain.RestrictionRule, error) {
	rows, err := db.Pool.Query(ctx, `SELECT keywords, restriction, penalty FROM import_restrictions ORDER BY id`)
	if err != nil {
		return nil, unavailable("import_restrictions", err)
	}
	defer rows.Close()
	var out []domain.RestrictionRule
	for rows.Next() {
		var r domain.RestrictionRule
		if err := rows.Scan(&r.Keywords, &r.Restriction, &r.Penalty); err != nil {
			return nil, unavailable("import_restrictions", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("import_restrictions", err)
	}
	return out, nil
}

// CertificateRepository

func (db *DB) Certificate(ctx context.Context, shipmentID, certType string) (domain.Certificate, bool, error) {
	var c domain.Certificate
	err := db.Pool.QueryRow(ctx, `
		SELECT id, shipment_id, cert_type, valid, issuer, issue_date, expiry_date
		FROM certificates
		WHERE shipment_id = $1 AND cert_type = $2
		ORDER BY position
		LIMIT 1
	`, shipmentID, domain.CertificateType(certType)).Scan(
		&c.ID, &c.ShipmentID, &c.Type, &c.Valid, &c.Issuer, &c.IssueDate, &c.ExpiryDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Certificate{}, false, nil
	}
	if err != nil {
		return domain.Certificate{}, false, unavailable("certificates", err)
	}
	return c, true, nil
}

// SupplierRepository

func (db *DB) Supplier(ctx context.Context, name string) (domain.SupplierRecord, bool, error) {
	var s domain.SupplierRecord
	err := db.Pool.QueryRow(ctx, `
		SELECT name, supplier_id, country, city, total_shipments, customs_holds,
		       hold_rate, risk_level, common_issues, notes
		FROM suppliers WHERE name = $1
	`, name).Scan(&s.Name, &s.SupplierID, &s.Country, &s.City, &s.TotalShipments, &s.CustomsHolds,
		&s.HoldRate, &s.RiskLevel, &s.CommonIssues, &s.Notes)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.SupplierRecord{}, false, nil
	}
	if err != nil {
		return domain.SupplierRecord{}, false, unavailable("suppliers", err)
	}
	return s, true, nil
}

// VesselRepository

func (db *DB) VesselSchedule(ctx context.Context, name string) (domain.VesselSchedule, bool, error) {
	var v domain.VesselSchedule
	err := db.Pool.QueryRow(ctx, `
		SELECT vessel_name, carrier, vessel_type, regular_routes
		FROM vessel_schedules WHERE vessel_name = $1
	`, name).Scan(&v.VesselName, &v.Carrier, &v.VesselType, &v.RegularRoutes)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.VesselSchedule{}, false, nil
	}
	if err != nil {
		return domain.VesselSchedule{}, false, unavailable("vessel_schedules", err)
	}
	return v, true, nil
}

// MarketPriceRepository

// MarketPrice tries the exact key, then a case-insensitive substring match in
// either direction, first row in stored order.
func (db *DB) MarketPrice(ctx context.Context, product string) (domain.MarketPriceEntry, bool, error) {
	var e domain.MarketPriceEntry
	err := db.Pool.QueryRow(ctx, `
		SELECT product_key, category, price_min, price_max, price_average, currency, last_updated
		FROM market_prices
		WHERE product_key = $1
		   OR (trim($1) <> '' AND product_key <> '' AND (
		        strpos(lower(trim($1)), lower(product_key)) > 0
		        OR strpos(lower(product_key), lower(trim($1))) > 0))
		ORDER BY (product_key = $1) DESC, position
		LIMIT 1
	`, product).Scan(&e.ProductKey, &e.Category, &e.PriceRange.Min, &e.PriceRange.Max,
		&e.PriceRange.Average, &e.Currency, &e.LastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.MarketPriceEntry{}, false, nil
	}
	if err != nil {
		return domain.MarketPriceEntry{}, false, unavailable("market_prices", err)
	}
	return e, true, nil
}

// PortMapRepository

func (db *DB) CityPorts(ctx context.Context) (map[string][]string, error) {
	rows, err := db.Pool.Query(ctx, `SELECT city, ports FROM city_ports`)
	if err != nil {
		return nil, unavailable("city_ports", err)
	}
	defer rows.Close()
	out := map[string][]string{}
	for rows.Next() {
		var city string
		var ports []string
		if err := rows.Scan(&city, &ports); err != nil {
			return nil, unavailable("city_ports", err)
		}
		out[city] = ports
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("city_ports", err)
	}
	if len(out) == 0 {
		return policy.DefaultCityPorts(), nil
	}
	return out, nil
}
