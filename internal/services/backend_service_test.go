package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/Blackfireoff/Incident-Factory/internal/models"
)

func TestFetchEventsPageNormalizesDefensively(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/get_events" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{
			"events": [
				{"id": 1, "type": "EHS", "classification": "FIRST_AID",
				 "start_date": "2024-01-15T08:30:00", "description": "Fume exposure",
				 "reporter": {"id": 7, "matricule": "EMP002", "name": "Sarah", "family_name": "Johnson"}},
				{"id": 2, "type": "SOMETHING_NEW", "classification": "ALSO_NEW",
				 "start_date": "not a date", "reporter": {"matricule": "EMP009"}}
			],
			"count": 2,
			"total_count": 41
		}`)
	}))
	defer server.Close()

	bs := NewBackendService(server.URL)
	page, err := bs.FetchEventsPage(context.Background(), PageQuery{Offset: 0, Limit: DefaultPageSize})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if page.Count != 2 || page.TotalCount == nil || *page.TotalCount != 41 {
		t.Errorf("Expected count 2 / total 41, got %d / %v", page.Count, page.TotalCount)
	}

	first := page.Incidents[0]
	if first.Type != models.TypeEHS || first.Classification != models.ClassFirstAid {
		t.Errorf("Expected known enums, got %q / %q", first.Type, first.Classification)
	}
	if first.StartDate == nil || first.StartDate.Year() != 2024 {
		t.Error("Expected parsed start date")
	}
	if first.Reporter == nil || first.Reporter.FamilyName != "Johnson" {
		t.Error("Expected normalized reporter")
	}

	// Unknown enums become empty, a bad date becomes nil and a reporter
	// without an ID is dropped; the record itself survives.
	second := page.Incidents[1]
	if second.Type != "" || second.Classification != "" {
		t.Errorf("Expected empty enums for unknown values, got %q / %q", second.Type, second.Classification)
	}
	if second.StartDate != nil {
		t.Error("Expected nil start date for unparseable value")
	}
	if second.Reporter != nil {
		t.Error("Expected reporter without ID to be dropped")
	}
}

func TestFetchEventDetailsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	bs := NewBackendService(server.URL)
	if _, err := bs.FetchEventDetails(context.Background(), 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestFetchEventDetailsMissingEventIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "ok", "event": null}`)
	}))
	defer server.Close()

	bs := NewBackendService(server.URL)
	if _, err := bs.FetchEventDetails(context.Background(), 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for null event, got %v", err)
	}
}

func TestFetchEventDetailsSortsRisksByGravity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/3/details" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{
			"status": "ok",
			"event": {
				"id": 3, "type": "DAMAGE", "classification": "NEAR_MISS",
				"start_datetime": "2024-01-25T10:00:00",
				"risks": [
					{"id": 1, "name": "Waste", "gravity": "low"},
					{"id": 2, "name": "Exposure", "gravity": "critical"},
					{"id": 3, "name": "Delay", "gravity": "medium"}
				],
				"employees": [],
				"corrective_measures": []
			}
		}`)
	}))
	defer server.Close()

	bs := NewBackendService(server.URL)
	incident, err := bs.FetchEventDetails(context.Background(), 3)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(incident.Risks) != 3 {
		t.Fatalf("Expected 3 risks, got %d", len(incident.Risks))
	}
	if incident.Risks[0].Gravity != "critical" || incident.Risks[2].Gravity != "low" {
		t.Errorf("Expected risks ordered by gravity, got %v", incident.Risks)
	}

	// Detail responses carry loaded-and-empty slices, not nils.
	if incident.Employees == nil || incident.Measures == nil {
		t.Error("Expected empty slices for loaded empty associations")
	}
}

// pagedServer serves `total` incidents in DefaultPageSize windows and counts
// the requests it receives.
func pagedServer(t *testing.T, total int, requests *int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*requests++

		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit != DefaultPageSize {
			t.Errorf("Expected limit %d, got %d", DefaultPageSize, limit)
		}

		count := total - offset
		if count > limit {
			count = limit
		}
		if count < 0 {
			count = 0
		}

		events := make([]map[string]interface{}, count)
		for i := 0; i < count; i++ {
			events[i] = map[string]interface{}{"id": offset + i + 1, "type": "EHS"}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"events":      events,
			"count":       count,
			"total_count": total,
		})
	}))
}

func TestFetchAllEventsStopsOnShortPage(t *testing.T) {
	requests := 0
	server := pagedServer(t, 45, &requests)
	defer server.Close()

	bs := NewBackendService(server.URL)
	incidents, total, err := FetchAllEvents(context.Background(), bs, ServerFilters{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(incidents) != 45 {
		t.Errorf("Expected 45 incidents, got %d", len(incidents))
	}
	if total != 45 {
		t.Errorf("Expected total 45, got %d", total)
	}
	if requests != 3 {
		t.Errorf("Expected 3 page requests, got %d", requests)
	}
	if incidents[44].ID != 45 {
		t.Errorf("Expected last incident ID 45, got %d", incidents[44].ID)
	}
}

func TestFetchAllEventsHonorsRequestCeiling(t *testing.T) {
	requests := 0
	// Always a full page: without the ceiling this would loop forever.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		events := make([]map[string]interface{}, DefaultPageSize)
		for i := range events {
			events[i] = map[string]interface{}{"id": i + 1}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"events": events,
			"count":  DefaultPageSize,
		})
	}))
	defer server.Close()

	bs := NewBackendService(server.URL)
	incidents, _, err := FetchAllEvents(context.Background(), bs, ServerFilters{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if requests != maxPageRequests {
		t.Errorf("Expected exactly %d requests, got %d", maxPageRequests, requests)
	}
	if len(incidents) != maxPageRequests*DefaultPageSize {
		t.Errorf("Expected %d incidents, got %d", maxPageRequests*DefaultPageSize, len(incidents))
	}
}

func TestFetchAllEventsDiscardsPartialResultOnFailure(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		events := make([]map[string]interface{}, DefaultPageSize)
		for i := range events {
			events[i] = map[string]interface{}{"id": i + 1}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"events": events,
			"count":  DefaultPageSize,
		})
	}))
	defer server.Close()

	bs := NewBackendService(server.URL)
	incidents, total, err := FetchAllEvents(context.Background(), bs, ServerFilters{})
	if err == nil {
		t.Fatal("Expected error from failed page")
	}
	if incidents != nil || total != 0 {
		t.Errorf("Expected discarded partial result, got %d incidents, total %d", len(incidents), total)
	}
}

func TestFetchEventsPageSendsFilterParams(t *testing.T) {
	var got map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = map[string]string{}
		for key := range r.URL.Query() {
			got[key] = r.URL.Query().Get(key)
		}
		fmt.Fprint(w, `{"events": [], "count": 0}`)
	}))
	defer server.Close()

	bs := NewBackendService(server.URL)
	_, err := bs.FetchEventsPage(context.Background(), PageQuery{
		Offset: 20,
		Limit:  DefaultPageSize,
		Filters: ServerFilters{
			Type:      "EHS",
			StartDate: "2024-01-01",
		},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got["offset"] != "20" || got["limit"] != "20" {
		t.Errorf("Expected offset/limit params, got %v", got)
	}
	if got["type"] != "EHS" || got["start_date"] != "2024-01-01" {
		t.Errorf("Expected filter params, got %v", got)
	}
	if _, present := got["classification"]; present {
		t.Error("Empty filters must be omitted from the query string")
	}
}
