package checks

import (
	"context"
	"fmt"
	"sort"

	"crosscheck/internal/domain"
	cerr "crosscheck/internal/errors"
)

// Request carries the arguments of a single named check. Each check reads only
// the fields it needs.
type Request struct {
	ShipmentID     string   `json:"shipment_id,omitempty"`
	DocumentIDs    []string `json:"document_ids,omitempty"`
	Field          string   `json:"field,omitempty"`
	InvoiceID      string   `json:"invoice_id,omitempty"`
	PackingListID  string   `json:"packing_list_id,omitempty"`
	BillOfLadingID string   `json:"bill_of_lading_id,omitempty"`
	Description    string   `json:"description,omitempty"`
	ForeignText    string   `json:"foreign_text,omitempty"`
	SourceLanguage string   `json:"source_language,omitempty"`
	Product        string   `json:"product,omitempty"`
	UnitPrice      float64  `json:"unit_price,omitempty"`
	HSCode         string   `json:"hs_code,omitempty"`
	SuggestedCode  string   `json:"suggested_code,omitempty"`
	CertType       string   `json:"cert_type,omitempty"`
	SupplierName   string   `json:"supplier_name,omitempty"`
	Origin         string   `json:"origin,omitempty"`
}

type runner func(s *Service, ctx context.Context, r Request) domain.Finding

var registry = map[string]runner{
	domain.CheckFieldMatch: func(s *Service, ctx context.Context, r Request) domain.Finding {
		if len(r.DocumentIDs) != 2 {
			return domain.Failed(domain.CheckFieldMatch, needs("exactly two document_ids"))
		}
		return s.FieldMatch(ctx, r.DocumentIDs[0], r.DocumentIDs[1], r.Field)
	},
	domain.CheckTranslatedDescription: func(s *Service, ctx context.Context, r Request) domain.Finding {
		return s.TranslatedDescription(ctx, r.ForeignText, r.SourceLanguage, r.Description)
	},
	domain.CheckQuantityVariance: func(s *Service, ctx context.Context, r Request) domain.Finding {
		return s.QuantityVariance(ctx, r.InvoiceID, r.PackingListID)
	},
	domain.CheckValueConsistency: func(s *Service, ctx context.Context, r Request) domain.Finding {
		return s.ValueConsistency(ctx, r.DocumentIDs, r.Field)
	},
	domain.CheckUnitPrice: func(s *Service, ctx context.Context, r Request) domain.Finding {
		return s.UnitPrice(ctx, r.InvoiceID)
	},
	domain.CheckPriceAnomaly: func(s *Service, ctx context.Context, r Request) domain.Finding {
		return s.PriceAnomaly(ctx, r.Product, r.UnitPrice)
	},
	domain.CheckHSCode: func(s *Service, ctx context.Context, r Request) domain.Finding {
		return s.HSCode(ctx, r.HSCode, r.SuggestedCode)
	},
	domain.CheckRegulatory: func(s *Service, ctx context.Context, r Request) domain.Finding {
		return s.Regulatory(ctx, r.Description, r.HSCode)
	},
	domain.CheckImportRestriction: func(s *Service, ctx context.Context, r Request) domain.Finding {
		return s.ImportRestriction(ctx, r.Description)
	},
	domain.CheckCertificate: func(s *Service, ctx context.Context, r Request) domain.Finding {
		return s.Certificate(ctx, r.ShipmentID, r.CertType)
	},
	domain.CheckOriginConsistency: func(s *Service, ctx context.Context, r Request) domain.Finding {
		return s.OriginConsistency(ctx, r.ShipmentID)
	},
	domain.CheckSupplierLocation: func(s *Service, ctx context.Context, r Request) domain.Finding {
		return s.SupplierLocation(ctx, r.SupplierName, r.Origin)
	},
	domain.CheckRoute: func(s *Service, ctx context.Context, r Request) domain.Finding {
		return s.Route(ctx, r.BillOfLadingID)
	},
	domain.CheckPortCity: func(s *Service, ctx context.Context, r Request) domain.Finding {
		return s.PortCity(ctx, r.ShipmentID)
	},
	domain.CheckHoldRate: func(s *Service, ctx context.Context, r Request) domain.Finding {
		return s.HoldRate(ctx, r.SupplierName)
	},
	domain.CheckCommonIssues: func(s *Service, ctx context.Context, r Request) domain.Finding {
		return s.CommonIssues(ctx, r.SupplierName)
	},
}

func needs(what string) error {
	return cerr.New(cerr.KindInvalidInput, "bad_request", "request needs %s", what)
}

// Names lists the checks Run accepts, sorted.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Run executes one check by name. Only an unknown name is an error; every
// other failure is reported inside the finding.
func (s *Service) Run(ctx context.Context, name string, r Request) (domain.Finding, error) {
	fn, ok := registry[name]
	if !ok {
		return domain.Finding{}, cerr.Wrap(fmt.Errorf("unknown check %q", name),
			cerr.KindInvalidInput, "unknown_check", "See the list of available checks")
	}
	return fn(s, ctx, r), nil
}
