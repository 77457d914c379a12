package service

import (
	"time"

	"quick-order/internal/domain"
)

// Promotional labels a bulk-order form can carry.
const (
	LabelSale = "Sale"
	LabelNew  = "New"
)

// BulkOrderForm is the view model for one product's bulk-order card: the
// promotional label, the first-variant summary price and the merged variant
// rows the grid is seeded from.
type BulkOrderForm struct {
	ProductID      string           `json:"productId"`
	Title          string           `json:"title"`
	Handle         string           `json:"handle"`
	Label          string           `json:"label,omitempty"`
	Image          *domain.Image    `json:"image,omitempty"`
	Price          domain.Money     `json:"price"`
	CompareAtPrice *domain.Money    `json:"compareAtPrice,omitempty"`
	Discounted     bool             `json:"discounted"`
	OptionCount    int              `json:"optionCount"`
	Variants       []domain.Variant `json:"variants"`
}

// BulkOrderService builds bulk-order form view models from catalog products
// and resolved price overrides.
type BulkOrderService interface {
	BuildForm(product domain.Product, overrides domain.PriceOverrides, label string) *BulkOrderForm
}

type bulkOrderService struct {
	newArrivalWindow time.Duration
}

// NewBulkOrderService creates a new instance of BulkOrderService
func NewBulkOrderService(newArrivalWindow time.Duration) BulkOrderService {
	return &bulkOrderService{newArrivalWindow: newArrivalWindow}
}

// BuildForm merges each variant's catalog price with its override, picks the
// promotional label and assembles the card view model. A product with no
// variants after the merge yields nil: nothing to render, not an error.
//
// Label precedence: an explicit caller label beats "Sale" (first variant
// discounted) beats "New" (published within the recency window) beats none.
func (s *bulkOrderService) BuildForm(product domain.Product, overrides domain.PriceOverrides, label string) *BulkOrderForm {
	variants := mergeOverrides(product.Variants, overrides)
	if len(variants) == 0 {
		return nil
	}

	first := variants[0]
	discounted := domain.IsDiscounted(first.Price, first.CompareAtPrice)

	cardLabel := label
	if cardLabel == "" {
		switch {
		case discounted:
			cardLabel = LabelSale
		case s.isNewArrival(product.PublishedAt):
			cardLabel = LabelNew
		}
	}

	return &BulkOrderForm{
		ProductID:      product.ID,
		Title:          product.Title,
		Handle:         product.Handle,
		Label:          cardLabel,
		Image:          first.Image,
		Price:          first.Price,
		CompareAtPrice: first.CompareAtPrice,
		Discounted:     discounted,
		OptionCount:    len(variants),
		Variants:       variants,
	}
}

// mergeOverrides applies price overrides to a copy of the variant list. When
// an override exists for a variant, both the price and the compare-at price
// come from that entry; catalog and override values are never mixed for one
// variant.
func mergeOverrides(variants []domain.Variant, overrides domain.PriceOverrides) []domain.Variant {
	if len(variants) == 0 {
		return nil
	}
	merged := make([]domain.Variant, len(variants))
	copy(merged, variants)
	for i := range merged {
		if entry, ok := overrides[merged[i].ID]; ok {
			merged[i].Price = entry.Price
			merged[i].CompareAtPrice = entry.CompareAtPrice
		}
	}
	return merged
}

func (s *bulkOrderService) isNewArrival(publishedAt time.Time) bool {
	if publishedAt.IsZero() {
		return false
	}
	return time.Since(publishedAt) <= s.newArrivalWindow
}
