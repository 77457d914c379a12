package repository

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"quick-order/internal/commerce"

	"go.uber.org/zap"
)

func newPricingFixture(t *testing.T, handler http.HandlerFunc) PricingRepository {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := commerce.NewClient(srv.URL, nil, zap.NewNop())
	return NewPricingRepository(client, client)
}

func TestCustomerByTokenDecodesCustomer(t *testing.T) {
	repo := newPricingFixture(t, func(w http.ResponseWriter, r *http.Request) {
		var req commerce.Request
		json.NewDecoder(r.Body).Decode(&req)
		if req.Variables["customerAccessToken"] != "tok-1" {
			t.Errorf("Expected access token variable, got %v", req.Variables)
		}
		w.Write([]byte(`{"data":{"customer":{"id":"gid://shop/Customer/7","email":"b2b@example.com"}}}`))
	})

	customer, err := repo.CustomerByToken(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("CustomerByToken failed: %v", err)
	}
	if customer.ID != "gid://shop/Customer/7" {
		t.Errorf("Unexpected customer %+v", customer)
	}
}

func TestCustomerByTokenUnknownTokenIsNotFound(t *testing.T) {
	repo := newPricingFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"customer":null}}`))
	})

	_, err := repo.CustomerByToken(context.Background(), "stale-token")
	if !errors.Is(err, ErrCustomerNotFound) {
		t.Errorf("Expected ErrCustomerNotFound, got %v", err)
	}
}

func TestCompanyLocationsFlattensRoleAssignments(t *testing.T) {
	repo := newPricingFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
		  "data": {
		    "customer": {
		      "companyContactProfiles": [
		        {"roleAssignments": {"nodes": [
		          {"companyLocation": {"id": "gid://shop/CompanyLocation/1"}},
		          {"companyLocation": {"id": "gid://shop/CompanyLocation/2"}}
		        ]}},
		        {"roleAssignments": {"nodes": [
		          {"companyLocation": {"id": "gid://shop/CompanyLocation/1"}}
		        ]}}
		      ]
		    }
		  }
		}`))
	})

	locations, err := repo.CompanyLocations(context.Background(), "gid://shop/Customer/7")
	if err != nil {
		t.Fatalf("CompanyLocations failed: %v", err)
	}

	// Duplicates across profiles are kept; the price-list query is a set filter
	if len(locations) != 3 {
		t.Fatalf("Expected 3 flattened locations, got %d", len(locations))
	}
	if locations[0].ID != "gid://shop/CompanyLocation/1" || locations[2].ID != "gid://shop/CompanyLocation/1" {
		t.Errorf("Unexpected flattening order %+v", locations)
	}
}

func TestPriceListsBuildsDisjunctionQuery(t *testing.T) {
	var gotQuery string
	repo := newPricingFixture(t, func(w http.ResponseWriter, r *http.Request) {
		var req commerce.Request
		json.NewDecoder(r.Body).Decode(&req)
		gotQuery, _ = req.Variables["query"].(string)
		w.Write([]byte(`{
		  "data": {
		    "priceLists": {
		      "nodes": [
		        {
		          "id": "gid://shop/PriceList/1",
		          "currency": "USD",
		          "prices": {"nodes": [
		            {
		              "compareAtPrice": {"amount": "150.00", "currencyCode": "USD"},
		              "price": {"amount": "100.00", "currencyCode": "USD"},
		              "variant": {"id": "gid://shop/ProductVariant/41"}
		            },
		            {
		              "compareAtPrice": null,
		              "price": {"amount": "90.00", "currencyCode": "USD"},
		              "variant": {"id": "gid://shop/ProductVariant/42"}
		            }
		          ]}
		        }
		      ]
		    }
		  }
		}`))
	})

	lists, err := repo.PriceLists(context.Background(), []string{
		"gid://shop/CompanyLocation/1",
		"gid://shop/CompanyLocation/2",
	})
	if err != nil {
		t.Fatalf("PriceLists failed: %v", err)
	}

	want := "company_location_id=gid://shop/CompanyLocation/1 | company_location_id=gid://shop/CompanyLocation/2"
	if gotQuery != want {
		t.Errorf("Expected disjunction query %q, got %q", want, gotQuery)
	}

	if len(lists) != 1 {
		t.Fatalf("Expected 1 price list, got %d", len(lists))
	}
	list := lists[0]
	if len(list.Entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(list.Entries))
	}
	if list.Entries[0].VariantID != "gid://shop/ProductVariant/41" {
		t.Errorf("Unexpected entry %+v", list.Entries[0])
	}
	if list.Entries[0].PriceListID != "gid://shop/PriceList/1" {
		t.Errorf("Expected entries to carry their list id, got %q", list.Entries[0].PriceListID)
	}
	if list.Entries[1].CompareAtPrice != nil {
		t.Error("Expected absent compare-at to stay nil")
	}
}

func TestPriceListsEmptyLocationSetSendsEmptyQuery(t *testing.T) {
	var gotQuery string
	repo := newPricingFixture(t, func(w http.ResponseWriter, r *http.Request) {
		var req commerce.Request
		json.NewDecoder(r.Body).Decode(&req)
		gotQuery, _ = req.Variables["query"].(string)
		w.Write([]byte(`{"data":{"priceLists":{"nodes":[]}}}`))
	})

	lists, err := repo.PriceLists(context.Background(), nil)
	if err != nil {
		t.Fatalf("PriceLists failed: %v", err)
	}
	if gotQuery != "" {
		t.Errorf("Expected empty predicate for empty location set, got %q", gotQuery)
	}
	if len(lists) != 0 {
		t.Errorf("Expected no lists, got %d", len(lists))
	}
}
