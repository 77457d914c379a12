package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"quick-order/internal/commerce"
	"quick-order/internal/domain"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
)

// PricingRepository defines the interface for customer and price-list access.
// Customer lookup goes to the storefront API; locations and price lists go to
// the admin API.
type PricingRepository interface {
	CustomerByToken(ctx context.Context, accessToken string) (*domain.Customer, error)
	CompanyLocations(ctx context.Context, customerID string) ([]domain.CompanyLocation, error)
	PriceLists(ctx context.Context, locationIDs []string) ([]domain.PriceList, error)
}

type pricingRepository struct {
	storefront *commerce.Client
	admin      *commerce.Client
}

// NewPricingRepository creates a new instance of PricingRepository
func NewPricingRepository(storefront, admin *commerce.Client) PricingRepository {
	return &pricingRepository{
		storefront: storefront,
		admin:      admin,
	}
}

// CustomerByToken resolves the customer record behind a customer access
// token. A token the platform no longer recognizes yields ErrCustomerNotFound.
func (r *pricingRepository) CustomerByToken(ctx context.Context, accessToken string) (*domain.Customer, error) {
	var payload struct {
		Customer *domain.Customer `json:"customer"`
	}
	err := r.storefront.Query(ctx, commerce.CustomerQuery, map[string]any{
		"customerAccessToken": accessToken,
	}, &payload)
	if err != nil {
		return nil, fmt.Errorf("customer lookup failed: %w", err)
	}
	if payload.Customer == nil {
		return nil, ErrCustomerNotFound
	}
	return payload.Customer, nil
}

// CompanyLocations returns the company locations linked to the customer via
// role assignments, flattened across contact profiles. Duplicates are kept;
// the downstream price-list query treats them as a set filter anyway.
func (r *pricingRepository) CompanyLocations(ctx context.Context, customerID string) ([]domain.CompanyLocation, error) {
	var payload struct {
		Customer struct {
			CompanyContactProfiles []struct {
				RoleAssignments struct {
					Nodes []struct {
						CompanyLocation domain.CompanyLocation `json:"companyLocation"`
					} `json:"nodes"`
				} `json:"roleAssignments"`
			} `json:"companyContactProfiles"`
		} `json:"customer"`
	}
	err := r.admin.Query(ctx, commerce.CustomerLocationsQuery, map[string]any{
		"customerId": customerID,
	}, &payload)
	if err != nil {
		return nil, fmt.Errorf("company locations query failed: %w", err)
	}

	var locations []domain.CompanyLocation
	for _, profile := range payload.Customer.CompanyContactProfiles {
		for _, node := range profile.RoleAssignments.Nodes {
			locations = append(locations, node.CompanyLocation)
		}
	}
	return locations, nil
}

// PriceLists fetches the price lists scoped to any of the given company
// locations. The platform query language takes a disjunction string of
// company_location_id terms; an empty location set produces an empty query,
// which the platform answers with no results.
func (r *pricingRepository) PriceLists(ctx context.Context, locationIDs []string) ([]domain.PriceList, error) {
	terms := make([]string, 0, len(locationIDs))
	for _, id := range locationIDs {
		terms = append(terms, "company_location_id="+id)
	}

	var payload struct {
		PriceLists struct {
			Nodes []struct {
				ID       string `json:"id"`
				Currency string `json:"currency"`
				Prices   struct {
					Nodes []struct {
						CompareAtPrice *domain.Money `json:"compareAtPrice"`
						Price          domain.Money  `json:"price"`
						Variant        struct {
							ID string `json:"id"`
						} `json:"variant"`
					} `json:"nodes"`
				} `json:"prices"`
			} `json:"nodes"`
		} `json:"priceLists"`
	}
	err := r.admin.Query(ctx, commerce.PriceListsQuery, map[string]any{
		"query": strings.Join(terms, " | "),
	}, &payload)
	if err != nil {
		return nil, fmt.Errorf("price lists query failed: %w", err)
	}

	lists := make([]domain.PriceList, 0, len(payload.PriceLists.Nodes))
	for _, node := range payload.PriceLists.Nodes {
		list := domain.PriceList{
			ID:       node.ID,
			Currency: node.Currency,
			Entries:  make([]domain.PriceEntry, 0, len(node.Prices.Nodes)),
		}
		for _, price := range node.Prices.Nodes {
			list.Entries = append(list.Entries, domain.PriceEntry{
				VariantID:      price.Variant.ID,
				Price:          price.Price,
				CompareAtPrice: price.CompareAtPrice,
				PriceListID:    node.ID,
			})
		}
		lists = append(lists, list)
	}
	return lists, nil
}
