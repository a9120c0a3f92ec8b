// Package checks exposes every validator as an entry point over document IDs
// and reference lookups. Each call re-reads what it needs and returns a
// finding; lookup failures come back as low-confidence findings.
package checks

import (
	"context"
	"fmt"

	"crosscheck/internal/domain"
	cerr "crosscheck/internal/errors"
	"crosscheck/internal/policy"
	"crosscheck/internal/ports"
	"crosscheck/internal/validate"
)

// TargetLanguage is what foreign-language text is translated into.
const TargetLanguage = "EN-US"

type Service struct {
	store      ports.ReferenceStore
	translator ports.Translator
	policy     policy.Source
}

// New builds the service. translator may be nil; translation checks then
// report translation_unavailable.
func New(store ports.ReferenceStore, translator ports.Translator, pol policy.Source) *Service {
	return &Service{store: store, translator: translator, policy: pol}
}

func (s *Service) Policy() policy.Policy { return s.policy.Current() }

// HasTranslator reports whether translation checks can run.
func (s *Service) HasTranslator() bool { return s.translator != nil }

func (s *Service) documents(ctx context.Context, ids ...string) ([]domain.Document, error) {
	out := make([]domain.Document, 0, len(ids))
	for _, id := range ids {
		doc, err := s.store.Document(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func requireType(doc domain.Document, want domain.DocumentType) error {
	if doc.Type != want {
		return cerr.New(cerr.KindInvalidInput, "wrong_document_type", "%s is not a %s", doc.ID, want)
	}
	return nil
}

// FieldMatch compares one field across two documents.
func (s *Service) FieldMatch(ctx context.Context, leftID, rightID, field string) domain.Finding {
	docs, err := s.documents(ctx, leftID, rightID)
	if err != nil {
		return domain.Failed(domain.CheckFieldMatch, err)
	}
	return validate.CompareField(field, validate.FieldOf(docs[0], field), validate.FieldOf(docs[1], field))
}

// TranslatedDescription translates foreign text and scores it against the
// declared English description.
func (s *Service) TranslatedDescription(ctx context.Context, foreign, sourceLang, declared string) domain.Finding {
	return validate.CompareTranslated(ctx, s.translator, foreign, sourceLang, TargetLanguage, declared, s.policy.Current().SimilarityThreshold)
}

func (s *Service) QuantityVariance(ctx context.Context, invoiceID, packingListID string) domain.Finding {
	docs, err := s.documents(ctx, invoiceID, packingListID)
	if err != nil {
		return domain.Failed(domain.CheckQuantityVariance, err)
	}
	return s.quantityVariance(docs[0], docs[1])
}

func (s *Service) quantityVariance(invoice, packingList domain.Document) domain.Finding {
	if err := requireType(invoice, domain.DocInvoice); err != nil {
		return domain.Failed(domain.CheckQuantityVariance, err)
	}
	if err := requireType(packingList, domain.DocPackingList); err != nil {
		return domain.Failed(domain.CheckQuantityVariance, err)
	}
	invoiceQty, err := requireNumber(invoice, "quantity")
	if err != nil {
		return domain.Failed(domain.CheckQuantityVariance, err)
	}
	packingQty, err := requireNumber(packingList, "quantity")
	if err != nil {
		return domain.Failed(domain.CheckQuantityVariance, err)
	}
	p := s.policy.Current()
	unitPrice, ok, err := invoice.Number("unit_price")
	if err != nil {
		return domain.Failed(domain.CheckQuantityVariance, err)
	}
	if !ok {
		unitPrice = p.DefaultUnitPrice
	}
	f := validate.QuantityVariance(invoiceQty, packingQty, p.QuantityTolerancePercent, unitPrice)
	if f.Evidence != nil {
		f.Evidence["invoice_id"] = invoice.ID
		f.Evidence["packing_list_id"] = packingList.ID
	}
	return f
}

func requireNumber(doc domain.Document, field string) (float64, error) {
	n, ok, err := doc.Number(field)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, cerr.New(cerr.KindMissingField, "field_missing", "field %q not found in %s", field, doc.ID)
	}
	return n, nil
}

// ValueConsistency compares a monetary field across documents. field defaults
// to total_value.
func (s *Service) ValueConsistency(ctx context.Context, documentIDs []string, field string) domain.Finding {
	docs, err := s.documents(ctx, documentIDs...)
	if err != nil {
		return domain.Failed(domain.CheckValueConsistency, err)
	}
	return s.valueConsistency(docs, field)
}

func (s *Service) valueConsistency(docs []domain.Document, field string) domain.Finding {
	if field == "" {
		field = "total_value"
	}
	values := make([]validate.DeclaredValue, 0, len(docs))
	for _, doc := range docs {
		v, err := requireNumber(doc, field)
		if err != nil {
			return domain.Failed(domain.CheckValueConsistency, err)
		}
		values = append(values, validate.DeclaredValue{
			DocumentID:   doc.ID,
			DocumentType: doc.Type,
			Value:        v,
			Currency:     doc.CurrencyOrDefault(),
		})
	}
	return validate.ValueConsistency(values, s.policy.Current().ValueTolerance)
}

func (s *Service) UnitPrice(ctx context.Context, invoiceID string) domain.Finding {
	docs, err := s.documents(ctx, invoiceID)
	if err != nil {
		return domain.Failed(domain.CheckUnitPrice, err)
	}
	return s.unitPrice(docs[0])
}

func (s *Service) unitPrice(invoice domain.Document) domain.Finding {
	if err := requireType(invoice, domain.DocInvoice); err != nil {
		return domain.Failed(domain.CheckUnitPrice, err)
	}
	total, err := requireNumber(invoice, "total_value")
	if err != nil {
		return domain.Failed(domain.CheckUnitPrice, err)
	}
	qty, err := requireNumber(invoice, "quantity")
	if err != nil {
		return domain.Failed(domain.CheckUnitPrice, err)
	}
	var declared *float64
	if v, ok, err := invoice.Number("unit_price"); err != nil {
		return domain.Failed(domain.CheckUnitPrice, err)
	} else if ok {
		declared = &v
	}
	f := validate.UnitPriceCheck(total, qty, declared, s.policy.Current().UnitPriceTolerance)
	if f.Evidence != nil {
		f.Evidence["invoice_id"] = invoice.ID
		f.Evidence["currency"] = invoice.CurrencyOrDefault()
	}
	return f
}

// PriceAnomaly places a unit price against the market range for product.
func (s *Service) PriceAnomaly(ctx context.Context, product string, unitPrice float64) domain.Finding {
	entry, found, err := s.store.MarketPrice(ctx, product)
	if err != nil {
		return domain.Failed(domain.CheckPriceAnomaly, err)
	}
	if !found {
		return validate.PriceAnomaly(unitPrice, nil)
	}
	return validate.PriceAnomaly(unitPrice, &entry)
}

func (s *Service) HSCode(ctx context.Context, invoiceCode, suggestedCode string) domain.Finding {
	invoiceEntry, err := s.hsEntry(ctx, invoiceCode)
	if err != nil {
		return domain.Failed(domain.CheckHSCode, err)
	}
	suggestedEntry, err := s.hsEntry(ctx, suggestedCode)
	if err != nil {
		return domain.Failed(domain.CheckHSCode, err)
	}
	return validate.CompareHSCodes(invoiceCode, suggestedCode, invoiceEntry, suggestedEntry)
}

func (s *Service) hsEntry(ctx context.Context, code string) (*domain.HSCodeEntry, error) {
	entry, found, err := s.store.HSCodeEntry(ctx, validate.BaseCode(code))
	if err != nil || !found {
		return nil, err
	}
	return &entry, nil
}

func (s *Service) Regulatory(ctx context.Context, description, hsCode string) domain.Finding {
	rules, err := s.store.RegulatoryRules(ctx)
	if err != nil {
		return domain.Failed(domain.CheckRegulatory, err)
	}
	return validate.RegulatoryApplicability(description, hsCode, rules)
}

func (s *Service) ImportRestriction(ctx context.Context, description string) domain.Finding {
	rules, err := s.store.ImportRestrictions(ctx)
	if err != nil {
		return domain.Failed(domain.CheckImportRestriction, err)
	}
	return validate.ImportRestriction(description, rules)
}

func (s *Service) Certificate(ctx context.Context, shipmentID, certType string) domain.Finding {
	cert, found, err := s.store.Certificate(ctx, shipmentID, certType)
	if err != nil {
		return domain.Failed(domain.CheckCertificate, err)
	}
	if !found {
		return validate.CertificateValidity(shipmentID, certType, nil)
	}
	return validate.CertificateValidity(shipmentID, certType, &cert)
}

// Shipment returns the shipment's documents; no documents is a not_found error.
func (s *Service) Shipment(ctx context.Context, shipmentID string) ([]domain.Document, error) {
	docs, err := s.store.DocumentsForShipment(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, cerr.Wrap(fmt.Errorf("no documents found for shipment %s", shipmentID),
			cerr.KindNotFound, "shipment_not_found", "Check the shipment ID")
	}
	return docs, nil
}

func (s *Service) OriginConsistency(ctx context.Context, shipmentID string) domain.Finding {
	docs, err := s.Shipment(ctx, shipmentID)
	if err != nil {
		return domain.Failed(domain.CheckOriginConsistency, err)
	}
	return validate.OriginConsistency(docs)
}

func (s *Service) supplier(ctx context.Context, name string) (*domain.SupplierRecord, error) {
	rec, found, err := s.store.Supplier(ctx, name)
	if err != nil || !found {
		return nil, err
	}
	return &rec, nil
}

func (s *Service) SupplierLocation(ctx context.Context, supplierName, declaredOrigin string) domain.Finding {
	rec, err := s.supplier(ctx, supplierName)
	if err != nil {
		return domain.Failed(domain.CheckSupplierLocation, err)
	}
	f := validate.SupplierLocationMatch(rec, declaredOrigin)
	if rec == nil && f.Evidence != nil {
		f.Evidence["supplier_name"] = supplierName
	}
	return f
}

// Route checks a bill of lading against its vessel's schedule.
func (s *Service) Route(ctx context.Context, billOfLadingID string) domain.Finding {
	docs, err := s.documents(ctx, billOfLadingID)
	if err != nil {
		return domain.Failed(domain.CheckRoute, err)
	}
	return s.route(ctx, docs[0])
}

func (s *Service) route(ctx context.Context, bol domain.Document) domain.Finding {
	if err := requireType(bol, domain.DocBillOfLading); err != nil {
		return domain.Failed(domain.CheckRoute, err)
	}
	schedule, found, err := s.store.VesselSchedule(ctx, domain.Text(bol.Vessel))
	if err != nil {
		return domain.Failed(domain.CheckRoute, err)
	}
	if !found {
		return validate.RoutePlausibility(bol, nil)
	}
	return validate.RoutePlausibility(bol, &schedule)
}

// PortCity takes the supplier city from the invoice address and the origin
// port from the bill of lading.
func (s *Service) PortCity(ctx context.Context, shipmentID string) domain.Finding {
	docs, err := s.Shipment(ctx, shipmentID)
	if err != nil {
		return domain.Failed(domain.CheckPortCity, err)
	}
	return s.portCity(ctx, docs)
}

func (s *Service) portCity(ctx context.Context, docs []domain.Document) domain.Finding {
	var city, port string
	for _, doc := range docs {
		switch doc.Type {
		case domain.DocInvoice:
			if c := validate.SupplierCity(domain.Text(doc.SupplierAddress)); c != "" {
				city = c
			}
		case domain.DocBillOfLading:
			if p := domain.Text(doc.OriginPort); p != "" {
				port = p
			}
		}
	}
	cityPorts, err := s.store.CityPorts(ctx)
	if err != nil {
		return domain.Failed(domain.CheckPortCity, err)
	}
	return validate.PortCityConsistency(city, port, cityPorts)
}

func (s *Service) HoldRate(ctx context.Context, supplierName string) domain.Finding {
	rec, err := s.supplier(ctx, supplierName)
	if err != nil {
		return domain.Failed(domain.CheckHoldRate, err)
	}
	return validate.HoldRateAssessment(rec, s.policy.Current().IndustryHoldRate)
}

func (s *Service) CommonIssues(ctx context.Context, supplierName string) domain.Finding {
	rec, err := s.supplier(ctx, supplierName)
	if err != nil {
		return domain.Failed(domain.CheckCommonIssues, err)
	}
	return validate.CommonIssues(rec)
}
