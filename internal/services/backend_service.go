package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/Blackfireoff/Incident-Factory/internal/logger"
	"github.com/Blackfireoff/Incident-Factory/internal/models"
)

// BackendService is the HTTP client for the remote incident backend. Every
// response is treated as untrusted: wire types are fully optional and a
// single normalization step converts them to canonical records, defaulting
// instead of failing on missing or malformed fields.
type BackendService struct {
	baseURL string
	client  *http.Client
}

func NewBackendService(baseURL string) *BackendService {
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}

	timeout := 15 * time.Second
	if timeoutStr := os.Getenv("BACKEND_TIMEOUT_SECONDS"); timeoutStr != "" {
		if t, err := time.ParseDuration(timeoutStr + "s"); err == nil {
			timeout = t
		}
	}

	return &BackendService{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// --- wire types (partial/untrusted variants of the canonical records) ---

type apiPerson struct {
	ID         *uint   `json:"id"`
	Matricule  *string `json:"matricule"`
	Name       *string `json:"name"`
	FamilyName *string `json:"family_name"`
	Role       *string `json:"role"`
}

type apiUnit struct {
	ID         *uint   `json:"id"`
	Identifier *string `json:"identifier"`
	Name       *string `json:"name"`
	Location   *string `json:"location"`
}

type apiRisk struct {
	ID          *uint   `json:"id"`
	Name        *string `json:"name"`
	Gravity     *string `json:"gravity"`
	Probability *string `json:"probability"`
}

type apiMeasure struct {
	ID             *uint      `json:"id"`
	Name           *string    `json:"name"`
	Description    *string    `json:"description"`
	Implementation *string    `json:"implementation"`
	Cost           *float64   `json:"cost"`
	Owner          *apiPerson `json:"owner"`
}

type apiEvent struct {
	ID             *uint   `json:"id"`
	Type           *string `json:"type"`
	Classification *string `json:"classification"`
	StartDate      *string `json:"start_date"`
	EndDate        *string `json:"end_date"`
	Description    *string `json:"description"`

	Reporter *apiPerson `json:"reporter"`
}

type apiLinkedEmployee struct {
	apiPerson
	InvolvementType *string `json:"involvement_type"`
}

// apiEventDetail is the detail endpoint's richer shape. Its date fields are
// named start_datetime/end_datetime on the wire, unlike the list endpoint.
type apiEventDetail struct {
	ID             *uint               `json:"id"`
	Type           *string             `json:"type"`
	Classification *string             `json:"classification"`
	StartDatetime  *string             `json:"start_datetime"`
	EndDatetime    *string             `json:"end_datetime"`
	Description    *string             `json:"description"`
	Person         *apiPerson          `json:"person"`
	Employees      []apiLinkedEmployee `json:"employees"`
	Unit           *apiUnit            `json:"organizational_unit"`
	Measures       []apiMeasure        `json:"corrective_measures"`
	Risks          []apiRisk           `json:"risks"`
}

type apiEventsResponse struct {
	Events     []apiEvent `json:"events"`
	Count      *int       `json:"count"`
	TotalCount *int       `json:"total_count"`
}

type apiDetailsResponse struct {
	Status *string         `json:"status"`
	Event  *apiEventDetail `json:"event"`
}

type apiBasicInfoResponse struct {
	Status *string `json:"status"`
	Data   *struct {
		TotalEvents     *int     `json:"total_event_count"`
		CriticalRisks   *int     `json:"total_critical_risk_count"`
		WithoutMeasures *int     `json:"total_no_corrective_measure_count"`
		TotalCost       *float64 `json:"total_corrective_measure_cost"`
	} `json:"data"`
}

type apiRecentResponse struct {
	Incidents []apiEvent `json:"incidents"`
}

type apiTopOrganizationResponse struct {
	TopOrganization []struct {
		Organization *apiUnit `json:"organization"`
		Value        *int     `json:"value"`
	} `json:"top_organization"`
}

type apiByTypeResponse struct {
	IncidentsByType []apiCategoryCount `json:"incidents_by_type"`
}

type apiByClassificationResponse struct {
	Incidents []apiCategoryCount `json:"incidents"`
}

// The backend labels the classification breakdown's key "type" in some
// deployments and "classification" in others; accept both.
type apiCategoryCount struct {
	Type           *string `json:"type"`
	Classification *string `json:"classification"`
	Value          *int    `json:"value"`
}

// --- normalization boundary ---

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseDate turns a wire date string into a time, yielding nil for absent or
// unparseable values so a bad date never aborts a whole page.
func parseDate(value *string) *time.Time {
	if value == nil || *value == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, *value); err == nil {
			return &t
		}
	}
	logger.Debug("Unparseable date in backend response", map[string]interface{}{
		"value":     *value,
		"component": "backend_service",
	})
	return nil
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func normalizePerson(p *apiPerson) *models.Person {
	if p == nil || p.ID == nil {
		return nil
	}
	return &models.Person{
		ID:         *p.ID,
		Matricule:  strValue(p.Matricule),
		Name:       strValue(p.Name),
		FamilyName: strValue(p.FamilyName),
		Role:       p.Role,
	}
}

func normalizeUnit(u *apiUnit) *models.OrganizationalUnit {
	if u == nil || u.ID == nil {
		return nil
	}
	return &models.OrganizationalUnit{
		ID:         *u.ID,
		Identifier: strValue(u.Identifier),
		Name:       strValue(u.Name),
		Location:   strValue(u.Location),
	}
}

func normalizeEvent(e apiEvent) models.Incident {
	inc := models.Incident{
		Type:           models.ParseEventType(strValue(e.Type)),
		Classification: models.ParseClassification(strValue(e.Classification)),
		StartDate:      parseDate(e.StartDate),
		EndDate:        parseDate(e.EndDate),
		Description:    e.Description,
		Reporter:       normalizePerson(e.Reporter),
	}
	if e.ID != nil {
		inc.ID = *e.ID
	}
	return inc
}

func normalizeEventDetail(d apiEventDetail) models.Incident {
	inc := models.Incident{
		Type:           models.ParseEventType(strValue(d.Type)),
		Classification: models.ParseClassification(strValue(d.Classification)),
		StartDate:      parseDate(d.StartDatetime),
		EndDate:        parseDate(d.EndDatetime),
		Description:    d.Description,
		Reporter:       normalizePerson(d.Person),
		Unit:           normalizeUnit(d.Unit),
	}
	if d.ID != nil {
		inc.ID = *d.ID
	}

	if d.Employees != nil {
		inc.Employees = make([]models.LinkedEmployee, 0, len(d.Employees))
		for _, emp := range d.Employees {
			person := normalizePerson(&emp.apiPerson)
			if person == nil {
				continue
			}
			inc.Employees = append(inc.Employees, models.LinkedEmployee{
				IncidentID:      inc.ID,
				PersonID:        person.ID,
				Person:          *person,
				InvolvementType: strValue(emp.InvolvementType),
			})
		}
	}

	if d.Risks != nil {
		inc.Risks = make([]models.Risk, 0, len(d.Risks))
		for _, r := range d.Risks {
			risk := models.Risk{
				Name:        strValue(r.Name),
				Gravity:     strValue(r.Gravity),
				Probability: r.Probability,
			}
			if r.ID != nil {
				risk.ID = *r.ID
			}
			inc.Risks = append(inc.Risks, risk)
		}
		models.SortRisksByGravity(inc.Risks)
	}

	if d.Measures != nil {
		inc.Measures = make([]models.CorrectiveMeasure, 0, len(d.Measures))
		for _, m := range d.Measures {
			measure := models.CorrectiveMeasure{
				Name:           strValue(m.Name),
				Description:    strValue(m.Description),
				Implementation: parseDate(m.Implementation),
				Owner:          normalizePerson(m.Owner),
				Cost:           m.Cost,
			}
			if m.ID != nil {
				measure.ID = *m.ID
			}
			inc.Measures = append(inc.Measures, measure)
		}
	}

	return inc
}

// --- requests ---

func (bs *BackendService) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	endpoint := bs.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := bs.client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("backend returned status %d for %s: %s", resp.StatusCode, path, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from %s: %w", path, err)
	}
	return nil
}

// FetchEventsPage retrieves one page of incidents. Absent filter parameters
// are omitted from the query string, meaning "unconstrained".
func (bs *BackendService) FetchEventsPage(ctx context.Context, q PageQuery) (*EventPage, error) {
	query := url.Values{}
	query.Set("offset", strconv.Itoa(q.Offset))
	query.Set("limit", strconv.Itoa(q.Limit))
	setIfPresent(query, "event_id", q.Filters.EventID)
	setIfPresent(query, "employee_matricule", q.Filters.EmployeeMatricule)
	setIfPresent(query, "type", q.Filters.Type)
	setIfPresent(query, "classification", q.Filters.Classification)
	setIfPresent(query, "start_date", q.Filters.StartDate)
	setIfPresent(query, "end_date", q.Filters.EndDate)

	var payload apiEventsResponse
	if err := bs.getJSON(ctx, "/get_events", query, &payload); err != nil {
		return nil, err
	}

	incidents := make([]models.Incident, 0, len(payload.Events))
	for _, event := range payload.Events {
		incidents = append(incidents, normalizeEvent(event))
	}

	count := len(incidents)
	if payload.Count != nil {
		count = *payload.Count
	}

	return &EventPage{
		Incidents:  incidents,
		Count:      count,
		TotalCount: payload.TotalCount,
	}, nil
}

// FetchEventDetails retrieves the full record for one incident. A backend
// 404 surfaces as ErrNotFound, distinct from transport failures.
func (bs *BackendService) FetchEventDetails(ctx context.Context, id uint) (*models.Incident, error) {
	var payload apiDetailsResponse
	if err := bs.getJSON(ctx, fmt.Sprintf("/%d/details", id), nil, &payload); err != nil {
		return nil, err
	}
	if payload.Event == nil {
		return nil, ErrNotFound
	}

	incident := normalizeEventDetail(*payload.Event)
	return &incident, nil
}

// FilterOptions derives the dropdown values from the aggregated incident
// set; the backend has no dedicated endpoint for them.
func (bs *BackendService) FilterOptions(ctx context.Context) (*FilterOptions, error) {
	incidents, _, err := FetchAllEvents(ctx, bs, ServerFilters{})
	if err != nil {
		return nil, err
	}
	return collectFilterOptions(incidents), nil
}

func (bs *BackendService) FetchBasicInfo(ctx context.Context) (*BasicInfo, error) {
	var payload apiBasicInfoResponse
	if err := bs.getJSON(ctx, "/get_basic_info", nil, &payload); err != nil {
		return nil, err
	}

	info := &BasicInfo{}
	if d := payload.Data; d != nil {
		info.TotalEvents = intValue(d.TotalEvents)
		info.CriticalRisks = intValue(d.CriticalRisks)
		info.WithoutMeasures = intValue(d.WithoutMeasures)
		if d.TotalCost != nil {
			info.TotalCost = *d.TotalCost
		}
	}
	return info, nil
}

func (bs *BackendService) FetchRecentIncidents(ctx context.Context, limit int) ([]models.Incident, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))

	var payload apiRecentResponse
	if err := bs.getJSON(ctx, "/get_most_recent_incidents", query, &payload); err != nil {
		return nil, err
	}

	incidents := make([]models.Incident, 0, len(payload.Incidents))
	for _, event := range payload.Incidents {
		incidents = append(incidents, normalizeEvent(event))
	}
	return incidents, nil
}

func (bs *BackendService) FetchTopOrganizations(ctx context.Context, limit int) ([]OrganizationCount, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))

	var payload apiTopOrganizationResponse
	if err := bs.getJSON(ctx, "/get_top_organization", query, &payload); err != nil {
		return nil, err
	}

	counts := make([]OrganizationCount, 0, len(payload.TopOrganization))
	for _, entry := range payload.TopOrganization {
		unit := normalizeUnit(entry.Organization)
		if unit == nil {
			continue
		}
		counts = append(counts, OrganizationCount{Unit: *unit, Count: intValue(entry.Value)})
	}
	return counts, nil
}

func (bs *BackendService) FetchIncidentsByType(ctx context.Context) ([]CategoryCount, error) {
	var payload apiByTypeResponse
	if err := bs.getJSON(ctx, "/get_incident_by_type", nil, &payload); err != nil {
		return nil, err
	}
	return normalizeCategoryCounts(payload.IncidentsByType), nil
}

func (bs *BackendService) FetchIncidentsByClassification(ctx context.Context, limit int) ([]CategoryCount, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))

	var payload apiByClassificationResponse
	if err := bs.getJSON(ctx, "/get_incident_by_classification", query, &payload); err != nil {
		return nil, err
	}
	return normalizeCategoryCounts(payload.Incidents), nil
}

func normalizeCategoryCounts(entries []apiCategoryCount) []CategoryCount {
	counts := make([]CategoryCount, 0, len(entries))
	for _, entry := range entries {
		label := strValue(entry.Classification)
		if label == "" {
			label = strValue(entry.Type)
		}
		counts = append(counts, CategoryCount{Label: label, Count: intValue(entry.Value)})
	}
	return counts
}

func collectFilterOptions(incidents []models.Incident) *FilterOptions {
	options := &FilterOptions{}
	seenTypes := map[string]bool{}
	seenClasses := map[string]bool{}
	for _, inc := range incidents {
		if t := string(inc.Type); t != "" && !seenTypes[t] {
			seenTypes[t] = true
			options.Types = append(options.Types, t)
		}
		if c := string(inc.Classification); c != "" && !seenClasses[c] {
			seenClasses[c] = true
			options.Classifications = append(options.Classifications, c)
		}
	}
	return options
}

func setIfPresent(query url.Values, key, value string) {
	if value != "" {
		query.Set(key, value)
	}
}

func intValue(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
