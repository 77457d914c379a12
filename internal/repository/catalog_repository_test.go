package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"quick-order/internal/commerce"
	"quick-order/internal/config"

	"go.uber.org/zap"
)

const searchResponse = `{
  "data": {
    "products": {
      "nodes": [
        {
          "id": "gid://shop/Product/1",
          "title": "The Hydrogen Snowboard",
          "publishedAt": "2021-06-17T18:33:17Z",
          "handle": "the-hydrogen-snowboard",
          "priceRange": {
            "minVariantPrice": {"amount": "600.00", "currencyCode": "USD"},
            "maxVariantPrice": {"amount": "700.00", "currencyCode": "USD"}
          },
          "variants": {
            "nodes": [
              {
                "id": "gid://shop/ProductVariant/41",
                "quantityAvailable": 10,
                "sku": "SNB-154",
                "title": "154cm",
                "image": {"url": "https://cdn.example.com/1.jpg", "altText": "board", "width": 800, "height": 800},
                "price": {"amount": "600.00", "currencyCode": "USD"},
                "compareAtPrice": {"amount": "650.00", "currencyCode": "USD"}
              },
              {
                "id": "gid://shop/ProductVariant/42",
                "quantityAvailable": null,
                "sku": "SNB-158",
                "title": "158cm",
                "image": null,
                "price": {"amount": "700.00", "currencyCode": "USD"},
                "compareAtPrice": null
              }
            ]
          }
        }
      ],
      "pageInfo": {
        "startCursor": "abc",
        "endCursor": "def",
        "hasNextPage": true,
        "hasPreviousPage": false
      }
    }
  }
}`

func newCatalogFixture(t *testing.T, handler http.HandlerFunc) (CatalogRepository, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := commerce.NewClient(srv.URL, nil, zap.NewNop())
	repo := NewCatalogRepository(client, config.StorefrontConfig{
		Country:  "US",
		Language: "EN",
		PageSize: 12,
	})
	return repo, srv
}

func TestSearchDecodesProductsAndPageInfo(t *testing.T) {
	var gotVars map[string]any
	repo, _ := newCatalogFixture(t, func(w http.ResponseWriter, r *http.Request) {
		var req commerce.Request
		json.NewDecoder(r.Body).Decode(&req)
		gotVars = req.Variables
		if !strings.Contains(req.Query, "sortKey: RELEVANCE") {
			t.Error("Expected relevance-sorted search query")
		}
		w.Write([]byte(searchResponse))
	})

	page, err := repo.Search(context.Background(), "snowboard", "abc")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if gotVars["searchTerm"] != "snowboard" {
		t.Errorf("Expected search term variable, got %v", gotVars["searchTerm"])
	}
	if gotVars["after"] != "abc" {
		t.Errorf("Expected cursor variable, got %v", gotVars["after"])
	}
	if gotVars["country"] != "US" || gotVars["language"] != "EN" {
		t.Errorf("Expected locale variables, got %v", gotVars)
	}
	if gotVars["pageBy"] != float64(12) {
		t.Errorf("Expected page size 12, got %v", gotVars["pageBy"])
	}

	if len(page.Products) != 1 {
		t.Fatalf("Expected 1 product, got %d", len(page.Products))
	}
	product := page.Products[0]
	if product.Title != "The Hydrogen Snowboard" {
		t.Errorf("Unexpected title %q", product.Title)
	}
	if len(product.Variants) != 2 {
		t.Fatalf("Expected 2 variants, got %d", len(product.Variants))
	}
	if product.Variants[0].QuantityAvailable == nil || *product.Variants[0].QuantityAvailable != 10 {
		t.Errorf("Expected tracked availability 10, got %v", product.Variants[0].QuantityAvailable)
	}
	if product.Variants[1].QuantityAvailable != nil {
		t.Errorf("Expected untracked availability to stay nil, got %v", *product.Variants[1].QuantityAvailable)
	}
	if product.Variants[1].CompareAtPrice != nil {
		t.Error("Expected absent compare-at price to stay nil")
	}
	if !page.PageInfo.HasNextPage || page.PageInfo.EndCursor != "def" {
		t.Errorf("Unexpected page info %+v", page.PageInfo)
	}
}

func TestSearchOmitsCursorWhenEmpty(t *testing.T) {
	repo, _ := newCatalogFixture(t, func(w http.ResponseWriter, r *http.Request) {
		var req commerce.Request
		json.NewDecoder(r.Body).Decode(&req)
		if _, present := req.Variables["after"]; present {
			t.Error("Expected no after variable for the first page")
		}
		w.Write([]byte(searchResponse))
	})

	if _, err := repo.Search(context.Background(), "", ""); err != nil {
		t.Fatalf("Search failed: %v", err)
	}
}

func TestRecommendationsDecodesFeaturedProducts(t *testing.T) {
	repo, _ := newCatalogFixture(t, func(w http.ResponseWriter, r *http.Request) {
		var req commerce.Request
		json.NewDecoder(r.Body).Decode(&req)
		if !strings.Contains(req.Query, "featuredProducts") {
			t.Error("Expected the no-result recommendations query")
		}
		w.Write([]byte(`{
		  "data": {
		    "featuredProducts": {
		      "nodes": [
		        {
		          "id": "gid://shop/Product/9",
		          "title": "Featured Board",
		          "publishedAt": "2024-01-01T00:00:00Z",
		          "handle": "featured-board",
		          "priceRange": {
		            "minVariantPrice": {"amount": "100.00", "currencyCode": "USD"},
		            "maxVariantPrice": {"amount": "100.00", "currencyCode": "USD"}
		          },
		          "variants": {"nodes": []}
		        }
		      ]
		    }
		  }
		}`))
	})

	products, err := repo.Recommendations(context.Background())
	if err != nil {
		t.Fatalf("Recommendations failed: %v", err)
	}
	if len(products) != 1 || products[0].Handle != "featured-board" {
		t.Errorf("Unexpected recommendations %+v", products)
	}
}

func TestSearchPropagatesUpstreamFailure(t *testing.T) {
	repo, _ := newCatalogFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"throttled"}]}`))
	})

	if _, err := repo.Search(context.Background(), "snowboard", ""); err == nil {
		t.Fatal("Expected upstream failure to propagate")
	}
}
