package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aviranmz/thedude/internal/models"
)

func TestFlightAdapterV1(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("origin"); got != "LON" {
			t.Errorf("origin = %q, want LON", got)
		}
		if got := r.URL.Query().Get("depart_date"); got != "2025-11" {
			t.Errorf("depart_date = %q, want 2025-11", got)
		}
		if got := r.Header.Get("X-Access-Token"); got != "secret" {
			t.Errorf("X-Access-Token = %q, want secret", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"currency": "usd",
			"data": {
				"MIL": {
					"0": {"price": 152, "airline": "U2", "flight_number": 8211, "departure_at": "2025-11-11T06:20:00Z", "return_at": "2025-11-14T21:05:00Z"}
				}
			}
		}`))
	}))
	defer server.Close()

	adapter := NewFlightAdapter(time.Second)
	adapter.v1URL = server.URL

	results, err := adapter.Search(context.Background(), models.Query{
		Origin:      "LON",
		Destination: "MIL",
		Date:        "2025-11-11",
		ReturnDate:  "2025-11-14",
	}, models.AffiliateConfig{ProviderName: "travelpayouts", APIKey: "secret"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	r := results[0]
	if r.Price == nil || *r.Price != 152 {
		t.Errorf("price = %v, want 152", r.Price)
	}
	if r.Flight == nil || r.Flight.Destination != "MIL" || r.Flight.Airline != "U2" {
		t.Errorf("flight details = %+v", r.Flight)
	}
	if r.AffiliateLink == "" {
		t.Error("expected an affiliate link")
	}
}

func TestFlightAdapterV2(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("sorting"); got != "price" {
			t.Errorf("sorting = %q, want price", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"currency": "usd",
			"data": [
				{"price": 210, "origin": "TLV", "destination": "ATH", "depart_date": "2025-10-02", "link": "https://partner.example/deal"}
			]
		}`))
	}))
	defer server.Close()

	adapter := NewFlightAdapter(time.Second)
	adapter.v2URL = server.URL

	results, err := adapter.Search(context.Background(), models.Query{
		Origin:      "TLV",
		Destination: "ATH",
		Date:        "2025-10-02",
	}, models.AffiliateConfig{ProviderName: "travelpayouts", APIKey: "secret", ProviderURL: "v2"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].AffiliateLink != "https://partner.example/deal" {
		t.Errorf("affiliate link = %q", results[0].AffiliateLink)
	}
	if results[0].Flight == nil || results[0].Flight.Origin != "TLV" {
		t.Errorf("flight details = %+v", results[0].Flight)
	}
}

func TestFlightAdapterRejectsBadDate(t *testing.T) {
	adapter := NewFlightAdapter(time.Second)

	_, err := adapter.Search(context.Background(), models.Query{
		Origin:      "LON",
		Destination: "MIL",
		Date:        "11/11/2025",
	}, models.AffiliateConfig{})
	if err == nil {
		t.Fatal("expected error for malformed date")
	}
}

func TestFlightAdapterUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	adapter := NewFlightAdapter(time.Second)
	adapter.v1URL = server.URL

	_, err := adapter.Search(context.Background(), models.Query{
		Origin: "LON", Destination: "MIL", Date: "2025-11-11",
	}, models.AffiliateConfig{})
	if err == nil {
		t.Fatal("expected error for upstream 502")
	}
}
