package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Blackfireoff/Incident-Factory/internal/models"
)

// ErrNotFound marks a single-entity lookup that came back empty. Handlers map
// it to a "not found" response instead of a generic error.
var ErrNotFound = errors.New("incident not found")

// maxPageRequests caps the number of page fetches a single aggregation may
// issue. The loop normally stops at the first short page; the ceiling
// guarantees termination even against a server that always reports full
// pages.
const maxPageRequests = 50

// ServerFilters are the structured criteria the paged endpoint accepts as
// query parameters. Empty fields mean "unconstrained".
type ServerFilters struct {
	EventID           string
	EmployeeMatricule string
	Type              string
	Classification    string
	StartDate         string // YYYY-MM-DD
	EndDate           string // YYYY-MM-DD
}

// PageQuery addresses one page of the incident collection.
type PageQuery struct {
	Offset  int
	Limit   int
	Filters ServerFilters
}

// EventPage is one fetched page plus whatever count information the source
// reported. TotalCount is nil when the source did not provide one.
type EventPage struct {
	Incidents  []models.Incident
	Count      int
	TotalCount *int
}

// FilterOptions are the distinct values offered by the filter dropdowns.
type FilterOptions struct {
	Types           []string `json:"types"`
	Classifications []string `json:"classifications"`
}

// BasicInfo carries the dashboard headline metrics.
type BasicInfo struct {
	TotalEvents     int     `json:"total_event_count"`
	CriticalRisks   int     `json:"total_critical_risk_count"`
	WithoutMeasures int     `json:"total_no_corrective_measure_count"`
	TotalCost       float64 `json:"total_corrective_measure_cost"`
}

// OrganizationCount pairs an organizational unit with its incident count.
type OrganizationCount struct {
	Unit  models.OrganizationalUnit `json:"organization"`
	Count int                       `json:"value"`
}

// CategoryCount is a label/count pair for the by-type and by-classification
// breakdowns.
type CategoryCount struct {
	Label string `json:"label"`
	Count int    `json:"value"`
}

// EventSource provides paged access to the incident collection. Three
// implementations exist: the remote HTTP backend, the direct data store and
// the static demo set.
type EventSource interface {
	FetchEventsPage(ctx context.Context, query PageQuery) (*EventPage, error)
	FetchEventDetails(ctx context.Context, id uint) (*models.Incident, error)
	FilterOptions(ctx context.Context) (*FilterOptions, error)
}

// SummarySource provides the aggregate reads behind the dashboard page.
type SummarySource interface {
	FetchBasicInfo(ctx context.Context) (*BasicInfo, error)
	FetchRecentIncidents(ctx context.Context, limit int) ([]models.Incident, error)
	FetchTopOrganizations(ctx context.Context, limit int) ([]OrganizationCount, error)
	FetchIncidentsByType(ctx context.Context) ([]CategoryCount, error)
	FetchIncidentsByClassification(ctx context.Context, limit int) ([]CategoryCount, error)
}

// DataSource is what the serving layer wires against.
type DataSource interface {
	EventSource
	SummarySource
}

// FetchAllEvents aggregates the complete incident set by walking pages of
// DefaultPageSize until a short page signals the end of data or the request
// ceiling is reached. It returns the records plus the best available total:
// the source-reported total count when present, the aggregated length
// otherwise.
//
// Any page failure aborts the aggregation and discards the partial result; a
// truncated set is never presented as complete.
func FetchAllEvents(ctx context.Context, source EventSource, filters ServerFilters) ([]models.Incident, int, error) {
	var aggregated []models.Incident
	var reportedTotal *int

	offset := 0
	for i := 0; i < maxPageRequests; i++ {
		page, err := source.FetchEventsPage(ctx, PageQuery{
			Offset:  offset,
			Limit:   DefaultPageSize,
			Filters: filters,
		})
		if err != nil {
			return nil, 0, fmt.Errorf("fetch page at offset %d: %w", offset, err)
		}

		aggregated = append(aggregated, page.Incidents...)
		if page.TotalCount != nil {
			reportedTotal = page.TotalCount
		}

		if page.Count < DefaultPageSize {
			break
		}
		offset += DefaultPageSize
	}

	total := len(aggregated)
	if reportedTotal != nil {
		total = *reportedTotal
	}
	return aggregated, total, nil
}
