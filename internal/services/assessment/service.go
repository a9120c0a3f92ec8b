// Package assessment runs every applicable check for a shipment in parallel
// and aggregates the findings that need attention into a decision.
package assessment

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"

	"crosscheck/internal/domain"
	cerr "crosscheck/internal/errors"
	"crosscheck/internal/ports"
	"crosscheck/internal/risk"
	checksvc "crosscheck/internal/services/checks"
	lookupsvc "crosscheck/internal/services/lookup"
	"crosscheck/internal/validate"
	"crosscheck/internal/workers/checkrunner"
)

// Fields compared verbatim between the invoice and the other shipping documents.
var crossCheckedFields = []string{"description", "consignee"}

type Service struct {
	checks  *checksvc.Service
	lookup  *lookupsvc.Service
	workers int
}

var _ ports.Assessor = (*Service)(nil)

func New(checks *checksvc.Service, lookup *lookupsvc.Service, workers int) *Service {
	if workers < 1 {
		workers = 1
	}
	return &Service{checks: checks, lookup: lookup, workers: workers}
}

// Assess runs the shipment's checks and builds a decision from the findings
// that are issues. Only an unknown shipment or a non-finite value override is
// an error.
func (s *Service) Assess(ctx context.Context, shipmentID string, opts ports.AssessmentOptions) (ports.Assessment, error) {
	if v := opts.ShipmentValue; v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
		return ports.Assessment{}, cerr.New(cerr.KindInvalidInput, "non_finite_value", "shipment value is not a finite number: %v", *v)
	}
	docs, err := s.checks.Shipment(ctx, shipmentID)
	if err != nil {
		return ports.Assessment{}, err
	}
	res := checkrunner.Run(ctx, s.jobs(docs), s.workers)
	if res.Partial() {
		log.Printf("assessment %s: %d checks did not finish: %s", shipmentID, len(res.Skipped), strings.Join(res.Skipped, ", "))
	}
	issues := make([]domain.Finding, 0, len(res.Findings))
	for _, f := range res.Findings {
		if f.IsIssue() {
			issues = append(issues, f)
		}
	}
	in := risk.Input{
		ShipmentID:    shipmentID,
		ShipmentValue: shipmentValue(docs, opts),
		DelayDays:     opts.DelayDays,
		Partial:       res.Partial(),
	}
	return ports.Assessment{
		ID:         uuid.NewString(),
		ShipmentID: shipmentID,
		Findings:   res.Findings,
		Decision:   risk.Aggregate(issues, in, s.checks.Policy()),
	}, nil
}

// Findings runs the shipment's checks without aggregating.
func (s *Service) Findings(ctx context.Context, shipmentID string) ([]domain.Finding, error) {
	docs, err := s.checks.Shipment(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	return checkrunner.Run(ctx, s.jobs(docs), s.workers).Findings, nil
}

// Aggregate builds a decision from caller-supplied findings under the current
// policy.
func (s *Service) Aggregate(findings []domain.Finding, in risk.Input) domain.Decision {
	return risk.Aggregate(findings, in, s.checks.Policy())
}

func shipmentValue(docs []domain.Document, opts ports.AssessmentOptions) float64 {
	if opts.ShipmentValue != nil {
		return *opts.ShipmentValue
	}
	if inv, ok := first(docs, domain.DocInvoice); ok {
		if v, ok, err := inv.Number("total_value"); err == nil && ok {
			return v
		}
	}
	return 0
}

func first(docs []domain.Document, t domain.DocumentType) (domain.Document, bool) {
	for _, d := range docs {
		if d.Type == t {
			return d, true
		}
	}
	return domain.Document{}, false
}

func job(name string, run func(ctx context.Context) domain.Finding) ports.CheckJob {
	return ports.CheckJob{Name: name, Run: func(ctx context.Context) []domain.Finding {
		return []domain.Finding{run(ctx)}
	}}
}

func missing(check, shipmentID string, docType domain.DocumentType) ports.CheckJob {
	return job(check, func(context.Context) domain.Finding {
		return domain.Failed(check, cerr.Wrap(fmt.Errorf("shipment %s has no %s", shipmentID, docType),
			cerr.KindMissingField, "document_missing", "Provide the "+strings.ReplaceAll(string(docType), "_", " ")))
	})
}

// jobs plans the checks for one shipment. Checks that need a document the
// shipment lacks become missing-document findings.
func (s *Service) jobs(docs []domain.Document) []ports.CheckJob {
	shipmentID := docs[0].ShipmentID
	invoice, hasInvoice := first(docs, domain.DocInvoice)
	bol, hasBOL := first(docs, domain.DocBillOfLading)

	var jobs []ports.CheckJob
	if hasInvoice {
		for _, other := range docs {
			if other.Type != domain.DocPackingList && other.Type != domain.DocBillOfLading {
				continue
			}
			for _, field := range crossCheckedFields {
				jobs = append(jobs, job(domain.CheckFieldMatch+":"+field+":"+other.ID, func(ctx context.Context) domain.Finding {
					return s.checks.FieldMatch(ctx, invoice.ID, other.ID, field)
				}))
			}
		}
		jobs = append(jobs, s.translationJobs(docs, domain.Text(invoice.Description))...)
	} else {
		jobs = append(jobs, missing(domain.CheckFieldMatch, shipmentID, domain.DocInvoice))
	}

	if hasInvoice {
		packed := false
		for _, pl := range docs {
			if pl.Type != domain.DocPackingList {
				continue
			}
			packed = true
			jobs = append(jobs, job(domain.CheckQuantityVariance+":"+pl.ID, func(ctx context.Context) domain.Finding {
				return s.checks.QuantityVariance(ctx, invoice.ID, pl.ID)
			}))
		}
		if !packed {
			jobs = append(jobs, missing(domain.CheckQuantityVariance, shipmentID, domain.DocPackingList))
		}
	}

	var valued []string
	for _, d := range docs {
		if _, ok, _ := d.Number("total_value"); ok {
			valued = append(valued, d.ID)
		}
	}
	if len(valued) >= 2 {
		jobs = append(jobs, job(domain.CheckValueConsistency, func(ctx context.Context) domain.Finding {
			return s.checks.ValueConsistency(ctx, valued, "total_value")
		}))
	}

	if hasInvoice {
		jobs = append(jobs, s.invoiceJobs(invoice)...)
	}

	jobs = append(jobs,
		job(domain.CheckCertificate+":origin", func(ctx context.Context) domain.Finding {
			return s.checks.Certificate(ctx, shipmentID, "origin")
		}),
		job(domain.CheckOriginConsistency, func(ctx context.Context) domain.Finding {
			return s.checks.OriginConsistency(ctx, shipmentID)
		}),
	)

	if hasBOL {
		jobs = append(jobs,
			job(domain.CheckRoute, func(ctx context.Context) domain.Finding {
				return s.checks.Route(ctx, bol.ID)
			}),
			job(domain.CheckPortCity, func(ctx context.Context) domain.Finding {
				return s.checks.PortCity(ctx, shipmentID)
			}),
		)
	} else {
		jobs = append(jobs, missing(domain.CheckRoute, shipmentID, domain.DocBillOfLading))
	}
	return jobs
}

// translationJobs compares every foreign-language description ("description_cn"
// and the like) with the declared English one.
func (s *Service) translationJobs(docs []domain.Document, declared string) []ports.CheckJob {
	var jobs []ports.CheckJob
	for _, d := range docs {
		keys := make([]string, 0, len(d.Extra))
		for k := range d.Extra {
			if strings.HasPrefix(k, "description_") {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			foreign, ok := d.Field(k)
			if !ok || strings.TrimSpace(foreign) == "" {
				continue
			}
			lang := strings.ToUpper(strings.TrimPrefix(k, "description_"))
			if d.Language != nil && *d.Language != "" {
				lang = strings.ToUpper(*d.Language)
			}
			jobs = append(jobs, job(domain.CheckTranslatedDescription+":"+d.ID, func(ctx context.Context) domain.Finding {
				return s.checks.TranslatedDescription(ctx, foreign, lang, declared)
			}))
		}
	}
	return jobs
}

func (s *Service) invoiceJobs(invoice domain.Document) []ports.CheckJob {
	description := domain.Text(invoice.Description)
	hsCode := domain.Text(invoice.HSCode)
	supplier := domain.Text(invoice.SupplierName)

	jobs := []ports.CheckJob{
		job(domain.CheckUnitPrice, func(ctx context.Context) domain.Finding {
			return s.checks.UnitPrice(ctx, invoice.ID)
		}),
		job(domain.CheckImportRestriction, func(ctx context.Context) domain.Finding {
			return s.checks.ImportRestriction(ctx, description)
		}),
		{Name: domain.CheckRegulatory, Run: func(ctx context.Context) []domain.Finding {
			return s.regulatory(ctx, invoice.ShipmentID, description, hsCode)
		}},
	}
	if price, ok := unitPrice(invoice); ok && description != "" {
		jobs = append(jobs, job(domain.CheckPriceAnomaly, func(ctx context.Context) domain.Finding {
			return s.checks.PriceAnomaly(ctx, description, price)
		}))
	}
	if hsCode != "" && description != "" {
		jobs = append(jobs, job(domain.CheckHSCode, func(ctx context.Context) domain.Finding {
			return s.hsCode(ctx, hsCode, description)
		}))
	}
	if supplier != "" {
		origin := domain.Text(invoice.OriginCountry)
		jobs = append(jobs,
			job(domain.CheckSupplierLocation, func(ctx context.Context) domain.Finding {
				return s.checks.SupplierLocation(ctx, supplier, origin)
			}),
			job(domain.CheckHoldRate, func(ctx context.Context) domain.Finding {
				return s.checks.HoldRate(ctx, supplier)
			}),
			job(domain.CheckCommonIssues, func(ctx context.Context) domain.Finding {
				return s.checks.CommonIssues(ctx, supplier)
			}),
		)
	}
	return jobs
}

func unitPrice(invoice domain.Document) (float64, bool) {
	if v, ok, err := invoice.Number("unit_price"); err == nil && ok {
		return v, true
	}
	total, ok, err := invoice.Number("total_value")
	if err != nil || !ok {
		return 0, false
	}
	qty, ok, err := invoice.Number("quantity")
	if err != nil || !ok || qty == 0 {
		return 0, false
	}
	return total / qty, true
}

// regulatory reports the applicable rule and, when one applies, whether the
// shipment holds the matching certificate.
func (s *Service) regulatory(ctx context.Context, shipmentID, description, hsCode string) []domain.Finding {
	f := s.checks.Regulatory(ctx, description, hsCode)
	out := []domain.Finding{f}
	if f.Status != domain.StatusRequired {
		return out
	}
	name, _ := f.Evidence["regulation"].(string)
	if name == "" {
		return out
	}
	return append(out, s.checks.Certificate(ctx, shipmentID, name))
}

// hsCode compares the declared heading with the one suggested by the product
// description at base-code level; the full declared code is kept as evidence.
// The declared heading stands when the description supports it or when no
// heading matches at all.
func (s *Service) hsCode(ctx context.Context, declared, description string) domain.Finding {
	base := validate.BaseCode(declared)
	matches, err := s.lookup.HSCodes(ctx, description)
	if err != nil {
		return domain.Failed(domain.CheckHSCode, err)
	}
	suggested := base
	for i, m := range matches {
		if m.Code == base {
			suggested = base
			break
		}
		if i == 0 {
			suggested = m.Code
		}
	}
	f := s.checks.HSCode(ctx, base, suggested)
	if f.Evidence != nil {
		f.Evidence["declared_code"] = declared
	}
	return f
}
