package repository

import (
	"context"
	"fmt"
	"time"

	"quick-order/internal/commerce"
	"quick-order/internal/config"
	"quick-order/internal/domain"
)

// CatalogRepository defines the interface for storefront catalog access
type CatalogRepository interface {
	Search(ctx context.Context, term, cursor string) (*domain.ProductPage, error)
	Recommendations(ctx context.Context) ([]domain.Product, error)
}

type catalogRepository struct {
	client   *commerce.Client
	country  string
	language string
	pageSize int
}

// NewCatalogRepository creates a new instance of CatalogRepository
func NewCatalogRepository(client *commerce.Client, cfg config.StorefrontConfig) CatalogRepository {
	return &catalogRepository{
		client:   client,
		country:  cfg.Country,
		language: cfg.Language,
		pageSize: cfg.PageSize,
	}
}

type variantPayload struct {
	ID                string        `json:"id"`
	QuantityAvailable *int          `json:"quantityAvailable"`
	SKU               string        `json:"sku"`
	Title             string        `json:"title"`
	Image             *domain.Image `json:"image"`
	Price             domain.Money  `json:"price"`
	CompareAtPrice    *domain.Money `json:"compareAtPrice"`
}

type productPayload struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	PublishedAt time.Time         `json:"publishedAt"`
	Handle      string            `json:"handle"`
	PriceRange  domain.PriceRange `json:"priceRange"`
	Variants    struct {
		Nodes []variantPayload `json:"nodes"`
	} `json:"variants"`
}

func (p productPayload) toDomain() domain.Product {
	product := domain.Product{
		ID:          p.ID,
		Title:       p.Title,
		PublishedAt: p.PublishedAt,
		Handle:      p.Handle,
		PriceRange:  p.PriceRange,
		Variants:    make([]domain.Variant, 0, len(p.Variants.Nodes)),
	}
	for _, v := range p.Variants.Nodes {
		product.Variants = append(product.Variants, domain.Variant{
			ID:                v.ID,
			SKU:               v.SKU,
			Title:             v.Title,
			Image:             v.Image,
			Price:             v.Price,
			CompareAtPrice:    v.CompareAtPrice,
			QuantityAvailable: v.QuantityAvailable,
		})
	}
	return product
}

// Search runs the relevance-sorted product search. An empty term lists the
// catalog in default order; an empty cursor starts at the first page.
func (r *catalogRepository) Search(ctx context.Context, term, cursor string) (*domain.ProductPage, error) {
	variables := map[string]any{
		"searchTerm": term,
		"country":    r.country,
		"language":   r.language,
		"pageBy":     r.pageSize,
	}
	if cursor != "" {
		variables["after"] = cursor
	}

	var payload struct {
		Products struct {
			Nodes    []productPayload `json:"nodes"`
			PageInfo domain.PageInfo  `json:"pageInfo"`
		} `json:"products"`
	}
	if err := r.client.Query(ctx, commerce.SearchQuery, variables, &payload); err != nil {
		return nil, fmt.Errorf("product search failed: %w", err)
	}

	page := &domain.ProductPage{
		Products: make([]domain.Product, 0, len(payload.Products.Nodes)),
		PageInfo: payload.Products.PageInfo,
	}
	for _, node := range payload.Products.Nodes {
		page.Products = append(page.Products, node.toDomain())
	}
	return page, nil
}

// Recommendations fetches the unscoped fallback listing shown when a search
// yields no products.
func (r *catalogRepository) Recommendations(ctx context.Context) ([]domain.Product, error) {
	variables := map[string]any{
		"country":  r.country,
		"language": r.language,
		"pageBy":   r.pageSize,
	}

	var payload struct {
		FeaturedProducts struct {
			Nodes []productPayload `json:"nodes"`
		} `json:"featuredProducts"`
	}
	if err := r.client.Query(ctx, commerce.SearchNoResultQuery, variables, &payload); err != nil {
		return nil, fmt.Errorf("recommendations query failed: %w", err)
	}

	products := make([]domain.Product, 0, len(payload.FeaturedProducts.Nodes))
	for _, node := range payload.FeaturedProducts.Nodes {
		products = append(products, node.toDomain())
	}
	return products, nil
}
