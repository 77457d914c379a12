package domain

// Customer is the authenticated storefront customer resolved from a session's
// customer access token.
type Customer struct {
	ID        string `json:"id"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// CompanyLocation links a customer to price lists via role assignments. It is
// purely a join key; nothing else of the location is needed here.
type CompanyLocation struct {
	ID string `json:"id"`
}

// PriceEntry is one price-list row: an overridden price (and optional
// compare-at price) for a single variant.
type PriceEntry struct {
	VariantID      string `json:"variantId"`
	Price          Money  `json:"price"`
	CompareAtPrice *Money `json:"compareAtPrice,omitempty"`
	PriceListID    string `json:"priceListId"`
}

// PriceList is a company-location-scoped list of variant price overrides.
type PriceList struct {
	ID       string       `json:"id"`
	Currency string       `json:"currency"`
	Entries  []PriceEntry `json:"entries"`
}

// PriceOverrides maps a variant id to its resolved override entry. When an
// override is present, both price and compare-at price come from the entry;
// they are never mixed with catalog values.
type PriceOverrides map[string]PriceEntry

// CustomerPricing is the result of resolving a session's customer pricing.
// An anonymous session resolves to a nil customer and an empty override map.
type CustomerPricing struct {
	Customer *Customer      `json:"customer"`
	Prices   PriceOverrides `json:"prices"`
}
