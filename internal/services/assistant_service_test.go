package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAssistantQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ai/query" || r.Method != http.MethodPost {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}

		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Invalid request body: %v", err)
		}
		if req["query"] != "how many incidents last month?" {
			t.Errorf("Unexpected question %q", req["query"])
		}

		fmt.Fprint(w, `{"response": "There were 12 incidents."}`)
	}))
	defer server.Close()

	as := NewAssistantService(server.URL)
	answer, err := as.Query(context.Background(), "how many incidents last month?")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if answer != "There were 12 incidents." {
		t.Errorf("Unexpected answer %q", answer)
	}
}

func TestAssistantQueryMissingResponseField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "ok"}`)
	}))
	defer server.Close()

	as := NewAssistantService(server.URL)
	if _, err := as.Query(context.Background(), "anything"); err == nil {
		t.Error("Expected error for missing response field")
	}
}

func TestAssistantChart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ai/chart" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{
			"type": "chart",
			"analysis": {"chart_type": "bar", "title": "Incidents by unit", "insight": "Production leads."},
			"data": {"columns": ["unit", "count"], "rows": [{"unit": "PROD", "count": 3}]}
		}`)
	}))
	defer server.Close()

	as := NewAssistantService(server.URL)
	chart, err := as.Chart(context.Background(), "incidents per unit")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if chart.Analysis.ChartType != "bar" || len(chart.Data.Rows) != 1 {
		t.Errorf("Unexpected chart payload: %+v", chart)
	}
}

func TestAssistantReport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer server.Close()

	as := NewAssistantService(server.URL)
	body, contentType, err := as.Report(context.Background(), "monthly report")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer body.Close()

	if contentType != "application/pdf" {
		t.Errorf("Expected application/pdf, got %s", contentType)
	}
	data, _ := io.ReadAll(body)
	if string(data) != "%PDF-1.4 fake" {
		t.Errorf("Unexpected report body %q", data)
	}
}

func TestAssistantErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	as := NewAssistantService(server.URL)
	if _, err := as.Query(context.Background(), "anything"); err == nil {
		t.Error("Expected error for non-200 status")
	}
}
