package domain

import (
	"strings"
	"time"
)

// variantIDPrefix is the prefix the platform puts in front of numeric variant ids.
const variantIDPrefix = "ProductVariant/"

// Money is a price as returned by the platform APIs: a decimal amount
// serialized as a string plus an ISO currency code.
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// Image describes a variant or product image.
type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
}

// Variant is a purchasable product variant. QuantityAvailable is nil when the
// platform does not track inventory for the variant ("unbounded/unknown").
type Variant struct {
	ID                string `json:"id"`
	SKU               string `json:"sku"`
	Title             string `json:"title"`
	Image             *Image `json:"image,omitempty"`
	Price             Money  `json:"price"`
	CompareAtPrice    *Money `json:"compareAtPrice,omitempty"`
	QuantityAvailable *int   `json:"quantityAvailable,omitempty"`
}

// ShortID returns the numeric tail of the variant's global id, the value shown
// in the grid's SKU column.
func (v Variant) ShortID() string {
	if _, suffix, found := strings.Cut(v.ID, variantIDPrefix); found {
		return suffix
	}
	return v.ID
}

// PriceRange is the catalog min/max variant price of a product.
type PriceRange struct {
	MinVariantPrice Money `json:"minVariantPrice"`
	MaxVariantPrice Money `json:"maxVariantPrice"`
}

// Product is a catalog product with its ordered variants.
type Product struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	PublishedAt time.Time  `json:"publishedAt"`
	Handle      string     `json:"handle"`
	PriceRange  PriceRange `json:"priceRange"`
	Variants    []Variant  `json:"variants"`
}

// PageInfo carries the pagination cursors of a product page.
type PageInfo struct {
	StartCursor     string `json:"startCursor,omitempty"`
	EndCursor       string `json:"endCursor,omitempty"`
	HasNextPage     bool   `json:"hasNextPage"`
	HasPreviousPage bool   `json:"hasPreviousPage"`
}

// ProductPage is one page of search results.
type ProductPage struct {
	Products []Product `json:"products"`
	PageInfo PageInfo  `json:"pageInfo"`
}

// CartLine is the line-item shape the cart mutation expects. Constructed only
// at add-to-cart time, from a variant id and a committed row quantity.
type CartLine struct {
	MerchandiseID string `json:"merchandiseId"`
	Quantity      int    `json:"quantity"`
}
