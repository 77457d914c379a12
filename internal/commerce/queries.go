package commerce

// productFragment is the shared product shape requested by every catalog
// query: identity, publication date, price range and the first page of
// variants with price, compare-at price, image and availability.
const productFragment = `
  fragment BulkOrderProduct on Product {
    id
    title
    publishedAt
    handle
    priceRange {
      minVariantPrice {
        amount
        currencyCode
      }
      maxVariantPrice {
        amount
        currencyCode
      }
    }
    variants(first: 100) {
      nodes {
        id
        quantityAvailable
        sku
        title
        image {
          url
          altText
          width
          height
        }
        price {
          amount
          currencyCode
        }
        compareAtPrice {
          amount
          currencyCode
        }
      }
    }
  }
`

// SearchQuery is the storefront product search, relevance sorted.
const SearchQuery = productFragment + `
  query search(
    $searchTerm: String
    $country: CountryCode
    $language: LanguageCode
    $pageBy: Int!
    $after: String
  ) @inContext(country: $country, language: $language) {
    products(
      first: $pageBy
      sortKey: RELEVANCE
      query: $searchTerm
      after: $after
    ) {
      nodes {
        ...BulkOrderProduct
      }
      pageInfo {
        startCursor
        endCursor
        hasNextPage
        hasPreviousPage
      }
    }
  }
`

// SearchNoResultQuery is the fallback recommendation listing, catalog order.
const SearchNoResultQuery = productFragment + `
  query searchNoResult(
    $country: CountryCode
    $language: LanguageCode
    $pageBy: Int!
  ) @inContext(country: $country, language: $language) {
    featuredProducts: products(first: $pageBy) {
      nodes {
        ...BulkOrderProduct
      }
    }
  }
`

// CustomerQuery resolves the customer record behind an access token.
const CustomerQuery = `
  query CustomerByToken($customerAccessToken: String!) {
    customer(customerAccessToken: $customerAccessToken) {
      id
      email
      firstName
      lastName
    }
  }
`

// CustomerLocationsQuery lists the company locations a customer is assigned
// to through company contact role assignments.
const CustomerLocationsQuery = `
  query CustomerLocations($customerId: ID!) {
    customer(id: $customerId) {
      companyContactProfiles {
        roleAssignments(first: 100) {
          nodes {
            companyLocation {
              id
            }
          }
        }
      }
    }
  }
`

// PriceListsQuery fetches price lists matching a company-location disjunction
// query string, with their per-variant price entries.
const PriceListsQuery = `
  query PriceListsByLocation($query: String!) {
    priceLists(query: $query, first: 100) {
      nodes {
        id
        currency
        prices(first: 100) {
          nodes {
            compareAtPrice {
              amount
              currencyCode
            }
            price {
              amount
              currencyCode
            }
            variant {
              id
            }
          }
        }
      }
    }
  }
`
