package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Blackfireoff/Incident-Factory/internal/models"
	"github.com/Blackfireoff/Incident-Factory/internal/services"
)

func TestGetSummary(t *testing.T) {
	gin.SetMode(gin.TestMode)

	controller := NewDashboardController(services.NewDemoSource())
	r := gin.New()
	r.GET("/api/v1/dashboard/summary", controller.GetSummary)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/summary", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}

	info := body["basic_info"].(map[string]interface{})
	if info["total_event_count"].(float64) != 6 {
		t.Errorf("Expected 6 events, got %v", info["total_event_count"])
	}

	recent := body["recent_incidents"].([]interface{})
	if len(recent) != 5 {
		t.Errorf("Expected 5 recent incidents, got %d", len(recent))
	}

	orgs := body["top_organizations"].([]interface{})
	if len(orgs) == 0 {
		t.Error("Expected top organizations")
	}

	byType := body["incidents_by_type"].([]interface{})
	if len(byType) != 3 {
		t.Errorf("Expected 3 type buckets, got %d", len(byType))
	}
}

// brokenSummarySource fails every section.
type brokenSummarySource struct{}

var errSummary = errors.New("summary backend down")

func (brokenSummarySource) FetchBasicInfo(ctx context.Context) (*services.BasicInfo, error) {
	return nil, errSummary
}

func (brokenSummarySource) FetchRecentIncidents(ctx context.Context, limit int) ([]models.Incident, error) {
	return nil, errSummary
}

func (brokenSummarySource) FetchTopOrganizations(ctx context.Context, limit int) ([]services.OrganizationCount, error) {
	return nil, errSummary
}

func (brokenSummarySource) FetchIncidentsByType(ctx context.Context) ([]services.CategoryCount, error) {
	return nil, errSummary
}

func (brokenSummarySource) FetchIncidentsByClassification(ctx context.Context, limit int) ([]services.CategoryCount, error) {
	return nil, errSummary
}

func TestGetSummaryDegradesPerSection(t *testing.T) {
	gin.SetMode(gin.TestMode)

	controller := NewDashboardController(brokenSummarySource{})
	r := gin.New()
	r.GET("/api/v1/dashboard/summary", controller.GetSummary)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/summary", nil)
	r.ServeHTTP(w, req)

	// Section failures degrade to empty sections, never a failed page.
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 despite section failures, got %d", w.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}

	info := body["basic_info"].(map[string]interface{})
	if info["total_event_count"].(float64) != 0 {
		t.Errorf("Expected zeroed basic info, got %v", info)
	}
	if len(body["recent_incidents"].([]interface{})) != 0 {
		t.Error("Expected empty recent incidents")
	}
}
