package cmd

import (
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/etnz/dcf"
	"github.com/google/uuid"
)

// do sends a request to a new server and returns the response and its body.
func do(t *testing.T, method, target, contentType, body string) (*http.Response, string) {
	t.Helper()
	app := NewServer(dcf.BuiltinPresets(), "USD")
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test(%s %s) failed: %v", method, target, err)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	return resp, string(data)
}

func exampleJSON(t *testing.T) string {
	t.Helper()
	data, err := json.Marshal(dcf.Example)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestServer_Valuation(t *testing.T) {
	resp, body := do(t, http.MethodPost, "/api/valuation", "application/json", exampleJSON(t))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", resp.StatusCode, body)
	}
	if _, err := uuid.Parse(resp.Header.Get("X-Request-ID")); err != nil {
		t.Errorf("X-Request-ID %q is not a uuid: %v", resp.Header.Get("X-Request-ID"), err)
	}

	var got struct {
		Company        string  `json:"company"`
		StartYear      int     `json:"startYear"`
		Rows           []any   `json:"rows"`
		FairValue      float64 `json:"fairValuePerShare"`
		Recommendation string  `json:"recommendation"`
	}
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("invalid json %s: %v", body, err)
	}
	if got.Company != "GOOGL" || got.StartYear != 2024 || len(got.Rows) != 11 || got.Recommendation != "BUY" {
		t.Errorf("unexpected valuation: %s", body)
	}
	if got.FairValue < 249.37 || got.FairValue > 249.39 {
		t.Errorf("fairValuePerShare = %v, want 249.38", got.FairValue)
	}
}

func TestServer_Sources(t *testing.T) {
	testCases := []struct {
		name        string
		target      string
		contentType string
		body        string
	}{
		{name: "preset", target: "/api/valuation?preset=GOOGL"},
		{name: "preset and override", target: "/api/valuation?preset=googl", contentType: "application/json", body: `{"marketPrice": 300}`},
		{name: "yaml", target: "/api/valuation", contentType: "application/yaml", body: "revenue: 1000\nfcfMargin: 10\nfcfYear0: 100\ng15: 5\ng610: 3\ngperp: 2\n"},
		{name: "hjson", target: "/api/valuation", contentType: "application/hjson", body: "{\n# comment\nrevenue: 1000\nfcfMargin: 10\nfcfYear0: 100\ng15: 5\ng610: 3\ngperp: 2\n}"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := do(t, http.MethodPost, tc.target, tc.contentType, tc.body)
			if resp.StatusCode != http.StatusOK {
				t.Errorf("status = %d, want 200: %s", resp.StatusCode, body)
			}
		})
	}
}

func TestServer_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		target string
		body   string
		status int
		kind   string
		fields []string
	}{
		{
			name:   "missing fields",
			target: "/api/valuation",
			body:   `{"revenue": "1000", "fcfYear0": 100, "g15": "5", "g610": "3"}`,
			status: http.StatusUnprocessableEntity,
			kind:   kindMissingInput,
			fields: []string{"fcfMargin", "terminalGrowth"},
		},
		{
			name:   "discount rate below growth",
			target: "/api/valuation",
			body:   `{"revenue": "1000", "fcfMargin": "10", "fcfYear0": 100, "g15": "5", "g610": "3", "gperp": "5", "wacc": "4"}`,
			status: http.StatusUnprocessableEntity,
			kind:   kindDiscountRate,
			fields: []string{"discountRate", "terminalGrowth"},
		},
		{name: "not json", target: "/api/valuation", body: `revenue=1000`, status: http.StatusBadRequest, kind: kindFormat},
		{name: "unknown field", target: "/api/valuation", body: `{"price": 1}`, status: http.StatusBadRequest, kind: kindFormat},
		{name: "unknown preset", target: "/api/valuation?preset=acme", status: http.StatusNotFound, kind: kindNotFound},
		{name: "unknown chart", target: "/api/charts/pie?preset=googl", status: http.StatusNotFound, kind: kindNotFound},
		{name: "unknown image format", target: "/api/charts/fcf?preset=googl&format=gif", status: http.StatusBadRequest, kind: kindFormat},
		{name: "unknown report format", target: "/api/report?preset=googl&format=pdf", status: http.StatusBadRequest, kind: kindFormat},
		{name: "unknown route", target: "/api/nothing", status: http.StatusNotFound, kind: kindNotFound},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := do(t, http.MethodPost, tc.target, "application/json", tc.body)
			if resp.StatusCode != tc.status {
				t.Fatalf("status = %d, want %d: %s", resp.StatusCode, tc.status, body)
			}
			var got apiError
			if err := json.Unmarshal([]byte(body), &got); err != nil {
				t.Fatalf("invalid error body %s: %v", body, err)
			}
			if got.Kind != tc.kind || got.Message == "" {
				t.Errorf("error = %s, want kind %q", body, tc.kind)
			}
			if strings.Join(got.Fields, ",") != strings.Join(tc.fields, ",") {
				t.Errorf("fields = %v, want %v", got.Fields, tc.fields)
			}
		})
	}
}

func TestServer_Report(t *testing.T) {
	resp, body := do(t, http.MethodPost, "/api/report?preset=googl&currency=EUR", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/markdown") {
		t.Errorf("Content-Type = %q", resp.Header.Get("Content-Type"))
	}
	if !strings.Contains(body, "# GOOGL — DCF valuation") || !strings.Contains(body, "€") {
		t.Errorf("unexpected report:\n%s", body)
	}

	resp, body = do(t, http.MethodPost, "/api/report?preset=googl&format=html", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") || !strings.Contains(body, "<svg") {
		t.Errorf("unexpected html report (%s):\n%s", resp.Header.Get("Content-Type"), body)
	}
}

func TestServer_Charts(t *testing.T) {
	for _, name := range []string{"fcf", "fcf_terminal", "margin", "gauge"} {
		t.Run(name, func(t *testing.T) {
			resp, body := do(t, http.MethodPost, "/api/charts/"+name+"?preset=googl", "", "")
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d: %s", resp.StatusCode, body)
			}
			if got := resp.Header.Get("Content-Type"); got != "image/svg+xml" {
				t.Errorf("Content-Type = %q", got)
			}
			if !strings.Contains(body, "<svg") {
				t.Errorf("not an svg: %s", body)
			}

			resp, body = do(t, http.MethodPost, "/api/charts/"+name+"?preset=googl&format=png", "", "")
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d: %s", resp.StatusCode, body)
			}
			if _, err := png.Decode(strings.NewReader(body)); err != nil {
				t.Errorf("not a png: %v", err)
			}
		})
	}
}

func TestServer_Presets(t *testing.T) {
	resp, body := do(t, http.MethodGet, "/api/presets", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var got map[string]dcf.Input
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("invalid json %s: %v", body, err)
	}
	if got["googl"] != dcf.Example {
		t.Errorf("presets = %s", body)
	}

	resp, body = do(t, http.MethodGet, "/healthz", "", "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `"ok"`) {
		t.Errorf("healthz = %d %s", resp.StatusCode, body)
	}
}
