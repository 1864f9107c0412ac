// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/party-registry/models"
	"github.com/danielhkuo/party-registry/registry"
	"github.com/danielhkuo/party-registry/store"
	"github.com/danielhkuo/party-registry/testutil"
	"github.com/danielhkuo/party-registry/uploads"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := testutil.GetTestConfig(t)
	conn := testutil.SetupTestDB(t, cfg)

	files, err := uploads.New(cfg.UploadDir, cfg.MaxUploadSize)
	if err != nil {
		t.Fatalf("Failed to create upload resolver: %v", err)
	}
	reg := registry.New(store.New(conn, cfg.MaxOpenConns, cfg.QueueTimeout), files)
	return NewRouter(reg, files, cfg)
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestRouter(t)

	w := serve(h, httptest.NewRequest("GET", "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	h := newTestRouter(t)

	w := serve(h, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if expected := "party-registry API v1"; w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}

	if w := serve(h, httptest.NewRequest("GET", "/no/such/page", nil)); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown path, got %d", w.Code)
	}
}

func TestRouteExistence(t *testing.T) {
	h := newTestRouter(t)

	// Every route must reach a handler; unknown ids answering 404 from the
	// handler itself still count
	testCases := []struct {
		method string
		path   string
		want   int
	}{
		{"GET", "/health", http.StatusOK},
		{"GET", "/metrics", http.StatusOK},
		{"GET", "/api/parties", http.StatusOK},
		{"POST", "/api/parties", http.StatusBadRequest},
		{"GET", "/api/parties/stats", http.StatusOK},
		{"GET", "/api/parties/missing", http.StatusNotFound},
		{"PUT", "/api/parties/missing", http.StatusBadRequest},
		{"DELETE", "/api/parties/missing", http.StatusNotFound},
		{"GET", "/uploads/missing.png", http.StatusNotFound},
		{"PATCH", "/api/parties/missing", http.StatusMethodNotAllowed},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader("{}"))
			req.Header.Set("Content-Type", "application/json")

			w := serve(h, req)

			if w.Code != tc.want {
				t.Errorf("Expected status %d, got %d. Body: %s", tc.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestMetricsExposition(t *testing.T) {
	h := newTestRouter(t)

	// Generate at least one sample
	serve(h, httptest.NewRequest("GET", "/api/parties", nil))

	w := serve(h, httptest.NewRequest("GET", "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "http_requests_total") {
		t.Error("Expected request counter in exposition")
	}
}

func TestCORSAllowList(t *testing.T) {
	h := newTestRouter(t)

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/parties", nil)
		req.Header.Set("Origin", testutil.TestOrigin)
		w := serve(h, req)

		testutil.AssertStatus(t, w, http.StatusOK)
		if w.Header().Get("Access-Control-Allow-Origin") != testutil.TestOrigin {
			t.Error("Expected allowed origin to be echoed")
		}
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/api/parties/abc", nil)
		req.Header.Set("Origin", testutil.TestOrigin)
		req.Header.Set("Access-Control-Request-Method", "PUT")
		w := serve(h, req)

		testutil.AssertStatus(t, w, http.StatusNoContent)
	})

	t.Run("refused origin never reaches the handler", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/api/parties", map[string]string{
			"name": "Cusco Unido", "abbreviation": "CU", "foundingDate": "2024-01-15", "headquarters": "Cusco",
		}, map[string]string{"Origin": "https://attacker.example"})
		w := serve(h, req)

		testutil.AssertStatus(t, w, http.StatusForbidden)

		list := serve(h, httptest.NewRequest("GET", "/api/parties", nil))
		if strings.TrimSpace(list.Body.String()) != "[]" {
			t.Errorf("Refused request created a party: %s", list.Body.String())
		}
	})
}

// TestPartyLifecycle walks one party through every endpoint
func TestPartyLifecycle(t *testing.T) {
	h := newTestRouter(t)
	logo := []byte("\x89PNG\r\n\x1a\nlifecycle logo")

	// Create with a logo
	req := testutil.MakeMultipartRequest(t, "POST", "/api/parties", map[string]string{
		"name":                "Cusco Unido",
		"abbreviation":        "CU",
		"ideology":            models.IdeologyRegionalist,
		"foundingDate":        "2024-03-05T00:00:00-05:00",
		"headquarters":        "Cusco",
		"representativeColor": "#DC2626",
	}, uploads.FieldName, "logo.png", logo)
	req.Header.Set("Origin", testutil.TestOrigin)
	w := serve(h, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var created models.Party
	testutil.AssertJSON(t, w, &created)
	if created.FoundingDate != "2024-03-05" {
		t.Errorf("Expected foundingDate 2024-03-05, got %s", created.FoundingDate)
	}
	if created.LogoURL == nil {
		t.Fatal("Expected a logo reference")
	}

	// The logo is served back byte for byte
	w = serve(h, httptest.NewRequest("GET", *created.LogoURL, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	if !bytes.Equal(w.Body.Bytes(), logo) {
		t.Error("Served logo differs from upload")
	}

	// Update without a file keeps the logo
	req = testutil.MakeRequest("PUT", "/api/parties/"+created.ID, map[string]string{
		"name":         "Cusco Unido",
		"abbreviation": "CUN",
		"foundingDate": "2024-03-05",
		"headquarters": "Cusco",
	}, nil)
	w = serve(h, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var updated models.Party
	testutil.AssertJSON(t, w, &updated)
	if updated.Abbreviation != "CUN" || updated.LogoURL == nil || *updated.LogoURL != *created.LogoURL {
		t.Errorf("Unexpected update result %+v", updated)
	}

	// Filtered list and stats
	w = serve(h, httptest.NewRequest("GET", "/api/parties?ideology="+models.IdeologyRegionalist, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var parties []models.Party
	testutil.AssertJSON(t, w, &parties)
	if len(parties) != 0 {
		// The update above dropped the ideology
		t.Errorf("Expected no regionalist parties after update, got %d", len(parties))
	}

	w = serve(h, httptest.NewRequest("GET", "/api/parties/stats", nil))
	var stats models.PartyStats
	testutil.AssertJSON(t, w, &stats)
	if stats.Total != 1 {
		t.Errorf("Expected total 1, got %d", stats.Total)
	}

	// Delete, then it is gone everywhere
	w = serve(h, httptest.NewRequest("DELETE", "/api/parties/"+created.ID, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = serve(h, httptest.NewRequest("GET", "/api/parties/"+created.ID, nil))
	testutil.AssertStatus(t, w, http.StatusNotFound)

	w = serve(h, httptest.NewRequest("GET", "/api/parties", nil))
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("Expected empty list after delete, got %s", w.Body.String())
	}
}
