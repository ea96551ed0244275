package services

import (
	"context"
	"sort"
	"time"

	"github.com/Blackfireoff/Incident-Factory/internal/models"
)

// DemoSource serves the incident pipeline from a static in-memory collection
// so the dashboard can run without a backend or database. The same dataset
// seeds the store variant (cmd/seed).
type DemoSource struct {
	incidents []models.Incident
}

func NewDemoSource() *DemoSource {
	return &DemoSource{incidents: DemoIncidents()}
}

// Incidents returns the full demo collection.
func (ds *DemoSource) Incidents() []models.Incident {
	return ds.incidents
}

func (ds *DemoSource) FetchEventsPage(ctx context.Context, q PageQuery) (*EventPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matched := make([]models.Incident, 0, len(ds.incidents))
	for _, inc := range ds.incidents {
		if serverFiltersMatch(inc, q.Filters) {
			matched = append(matched, stripDetail(inc))
		}
	}

	total := len(matched)
	start := q.Offset
	if start > total {
		start = total
	}
	end := start + q.Limit
	if end > total {
		end = total
	}
	page := matched[start:end]

	return &EventPage{
		Incidents:  page,
		Count:      len(page),
		TotalCount: &total,
	}, nil
}

func (ds *DemoSource) FetchEventDetails(ctx context.Context, id uint) (*models.Incident, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, inc := range ds.incidents {
		if inc.ID == id {
			detail := inc
			detail.Risks = append([]models.Risk(nil), inc.Risks...)
			models.SortRisksByGravity(detail.Risks)
			return &detail, nil
		}
	}
	return nil, ErrNotFound
}

func (ds *DemoSource) FilterOptions(ctx context.Context) (*FilterOptions, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return collectFilterOptions(ds.incidents), nil
}

func (ds *DemoSource) FetchBasicInfo(ctx context.Context) (*BasicInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info := &BasicInfo{TotalEvents: len(ds.incidents)}
	for _, inc := range ds.incidents {
		for _, r := range inc.Risks {
			if models.GravityRank(r.Gravity) == models.GravityRank("critical") {
				info.CriticalRisks++
				break
			}
		}
		if len(inc.Measures) == 0 {
			info.WithoutMeasures++
		}
		info.TotalCost += models.TotalCost(inc.Measures)
	}
	return info, nil
}

func (ds *DemoSource) FetchRecentIncidents(ctx context.Context, limit int) ([]models.Incident, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	recent := make([]models.Incident, 0, len(ds.incidents))
	for _, inc := range ds.incidents {
		recent = append(recent, stripDetail(inc))
	}
	sort.SliceStable(recent, func(i, j int) bool {
		ti, tj := recent[i].StartDate, recent[j].StartDate
		if ti == nil {
			return false
		}
		if tj == nil {
			return true
		}
		return ti.After(*tj)
	})

	if limit > 0 && limit < len(recent) {
		recent = recent[:limit]
	}
	return recent, nil
}

func (ds *DemoSource) FetchTopOrganizations(ctx context.Context, limit int) ([]OrganizationCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	byUnit := map[uint]*OrganizationCount{}
	var order []uint
	for _, inc := range ds.incidents {
		if inc.Unit == nil {
			continue
		}
		entry, ok := byUnit[inc.Unit.ID]
		if !ok {
			entry = &OrganizationCount{Unit: *inc.Unit}
			byUnit[inc.Unit.ID] = entry
			order = append(order, inc.Unit.ID)
		}
		entry.Count++
	}

	counts := make([]OrganizationCount, 0, len(order))
	for _, id := range order {
		counts = append(counts, *byUnit[id])
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })

	if limit > 0 && limit < len(counts) {
		counts = counts[:limit]
	}
	return counts, nil
}

func (ds *DemoSource) FetchIncidentsByType(ctx context.Context) ([]CategoryCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return countByLabel(ds.incidents, func(inc models.Incident) string { return string(inc.Type) }, 0), nil
}

func (ds *DemoSource) FetchIncidentsByClassification(ctx context.Context, limit int) ([]CategoryCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return countByLabel(ds.incidents, func(inc models.Incident) string { return string(inc.Classification) }, limit), nil
}

func countByLabel(incidents []models.Incident, label func(models.Incident) string, limit int) []CategoryCount {
	byLabel := map[string]int{}
	var order []string
	for _, inc := range incidents {
		l := label(inc)
		if l == "" {
			continue
		}
		if _, ok := byLabel[l]; !ok {
			order = append(order, l)
		}
		byLabel[l]++
	}

	counts := make([]CategoryCount, 0, len(order))
	for _, l := range order {
		counts = append(counts, CategoryCount{Label: l, Count: byLabel[l]})
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })

	if limit > 0 && limit < len(counts) {
		counts = counts[:limit]
	}
	return counts
}

// stripDetail reduces a record to its list-view shape: linked collections
// stay nil, signalling "not loaded" rather than "empty".
func stripDetail(inc models.Incident) models.Incident {
	inc.Employees = nil
	inc.Risks = nil
	inc.Measures = nil
	inc.Unit = nil
	return inc
}

// serverFiltersMatch mirrors the backend's query-parameter semantics for the
// in-memory collection.
func serverFiltersMatch(inc models.Incident, f ServerFilters) bool {
	filters := Filters{
		EventID:           f.EventID,
		EmployeeMatricule: f.EmployeeMatricule,
		Type:              f.Type,
		Classification:    f.Classification,
	}
	if f.StartDate != "" {
		if t, err := time.Parse("2006-01-02", f.StartDate); err == nil {
			filters.StartDate = &t
		}
	}
	if f.EndDate != "" {
		if t, err := time.Parse("2006-01-02", f.EndDate); err == nil {
			filters.EndDate = &t
		}
	}
	return filters.Matches(inc)
}
