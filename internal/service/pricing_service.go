package service

import (
	"context"
	"fmt"

	"quick-order/internal/domain"
	"quick-order/internal/repository"

	"go.uber.org/zap"
)

// PricingService resolves the price overrides that apply to the current
// session's customer.
type PricingService interface {
	ResolveCustomerPricing(ctx context.Context, customerAccessToken string) (*domain.CustomerPricing, error)
}

type pricingService struct {
	pricingRepo repository.PricingRepository
	logger      *zap.Logger
}

// NewPricingService creates a new instance of PricingService
func NewPricingService(pricingRepo repository.PricingRepository, logger *zap.Logger) PricingService {
	return &pricingService{
		pricingRepo: pricingRepo,
		logger:      logger,
	}
}

// ResolveCustomerPricing walks session → customer → company locations →
// price lists and flattens the lists into a variant-id keyed override map.
//
// An empty access token is the anonymous-visitor path, not an error: it
// resolves to a nil customer and an empty map without touching the admin API.
// Any upstream failure after that is fatal for the request.
func (s *pricingService) ResolveCustomerPricing(ctx context.Context, customerAccessToken string) (*domain.CustomerPricing, error) {
	if customerAccessToken == "" {
		return &domain.CustomerPricing{Customer: nil, Prices: domain.PriceOverrides{}}, nil
	}

	customer, err := s.pricingRepo.CustomerByToken(ctx, customerAccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve customer: %w", err)
	}

	locations, err := s.pricingRepo.CompanyLocations(ctx, customer.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve company locations: %w", err)
	}

	// The price-list query depends on the location ids, so the two admin
	// calls cannot overlap.
	locationIDs := make([]string, 0, len(locations))
	for _, loc := range locations {
		locationIDs = append(locationIDs, loc.ID)
	}

	lists, err := s.pricingRepo.PriceLists(ctx, locationIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve price lists: %w", err)
	}

	prices := s.mergePriceLists(lists)

	s.logger.Debug("Resolved customer pricing",
		zap.String("customer_id", customer.ID),
		zap.Int("locations", len(locationIDs)),
		zap.Int("price_lists", len(lists)),
		zap.Int("overridden_variants", len(prices)),
	)

	return &domain.CustomerPricing{Customer: customer, Prices: prices}, nil
}

// mergePriceLists flattens price-list entries into one map keyed by variant
// id. When several lists price the same variant the lowest price wins, ties
// broken by price-list id, so the outcome never depends on response order.
func (s *pricingService) mergePriceLists(lists []domain.PriceList) domain.PriceOverrides {
	prices := domain.PriceOverrides{}
	for _, list := range lists {
		for _, entry := range list.Entries {
			existing, ok := prices[entry.VariantID]
			if !ok {
				prices[entry.VariantID] = entry
				continue
			}
			s.logger.Debug("Variant priced by multiple price lists",
				zap.String("variant_id", entry.VariantID),
				zap.String("kept_list", existing.PriceListID),
				zap.String("candidate_list", entry.PriceListID),
			)
			if preferEntry(entry, existing) {
				prices[entry.VariantID] = entry
			}
		}
	}
	return prices
}

// preferEntry reports whether candidate should replace existing. Lower price
// wins; equal or unparseable prices fall back to price-list id ordering.
func preferEntry(candidate, existing domain.PriceEntry) bool {
	cd, cerr := candidate.Price.Decimal()
	ed, eerr := existing.Price.Decimal()
	if cerr == nil && eerr == nil {
		switch {
		case cd.LessThan(ed):
			return true
		case ed.LessThan(cd):
			return false
		}
	}
	return candidate.PriceListID < existing.PriceListID
}
