// Package lookup returns reference records without grading them, for callers
// that make their own decision.
package lookup

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"crosscheck/internal/domain"
	cerr "crosscheck/internal/errors"
	"crosscheck/internal/ports"
)

type Service struct {
	store ports.ReferenceStore
}

func New(store ports.ReferenceStore) *Service {
	return &Service{store: store}
}

func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// HSCodes returns every tariff entry with a common name contained in the
// description, in stored order.
func (s *Service) HSCodes(ctx context.Context, description string) ([]domain.HSCodeEntry, error) {
	product := fold(description)
	if product == "" {
		return nil, cerr.New(cerr.KindInvalidInput, "empty_description", "product description is required")
	}
	entries, err := s.store.HSCodeEntries(ctx)
	if err != nil {
		return nil, err
	}
	matches := []domain.HSCodeEntry{}
	for _, e := range entries {
		for _, name := range e.CommonNames {
			if name = fold(name); name != "" && strings.Contains(product, name) {
				matches = append(matches, e)
				break
			}
		}
	}
	return matches, nil
}

// CBPRulings returns rulings sharing at least one keyword, compared case
// insensitively.
func (s *Service) CBPRulings(ctx context.Context, keywords []string) ([]domain.CBPRuling, error) {
	wanted := map[string]bool{}
	for _, k := range keywords {
		if k = fold(k); k != "" {
			wanted[k] = true
		}
	}
	if len(wanted) == 0 {
		return nil, cerr.New(cerr.KindInvalidInput, "empty_keywords", "at least one keyword is required")
	}
	rulings, err := s.store.CBPRulings(ctx)
	if err != nil {
		return nil, err
	}
	matches := []domain.CBPRuling{}
	for _, r := range rulings {
		for _, k := range r.Keywords {
			if wanted[fold(k)] {
				matches = append(matches, r)
				break
			}
		}
	}
	return matches, nil
}

func notFound(what, name string) error {
	return cerr.Wrap(fmt.Errorf("no %s found for %q", what, name), cerr.KindNotFound, what+"_not_found", "")
}

func (s *Service) MarketPrice(ctx context.Context, product string) (domain.MarketPriceEntry, error) {
	e, found, err := s.store.MarketPrice(ctx, product)
	if err != nil {
		return domain.MarketPriceEntry{}, err
	}
	if !found {
		return domain.MarketPriceEntry{}, notFound("market_price", product)
	}
	return e, nil
}

func (s *Service) Supplier(ctx context.Context, name string) (domain.SupplierRecord, error) {
	rec, found, err := s.store.Supplier(ctx, name)
	if err != nil {
		return domain.SupplierRecord{}, err
	}
	if !found {
		return domain.SupplierRecord{}, notFound("supplier", name)
	}
	return rec, nil
}

func (s *Service) Vessel(ctx context.Context, name string) (domain.VesselSchedule, error) {
	v, found, err := s.store.VesselSchedule(ctx, name)
	if err != nil {
		return domain.VesselSchedule{}, err
	}
	if !found {
		return domain.VesselSchedule{}, notFound("vessel", name)
	}
	return v, nil
}
