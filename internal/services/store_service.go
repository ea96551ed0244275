package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Blackfireoff/Incident-Factory/internal/models"
)

// StoreService serves incidents straight from the relational store, for
// deployments where this gateway shares the database with the backend
// instead of going through its HTTP API.
type StoreService struct {
	db *gorm.DB
}

func NewStoreService(db *gorm.DB) *StoreService {
	return &StoreService{db: db}
}

// filteredQuery applies the structured criteria the paged endpoint accepts.
// Matricule filtering matches the reporter or any linked employee, same as
// the backend's query semantics.
func (ss *StoreService) filteredQuery(ctx context.Context, f ServerFilters) *gorm.DB {
	query := ss.db.WithContext(ctx).Model(&models.Incident{})

	if f.EventID != "" {
		query = query.Where("incidents.id = ?", f.EventID)
	}
	if f.Type != "" {
		query = query.Where("incidents.type = ?", f.Type)
	}
	if f.Classification != "" {
		query = query.Where("incidents.classification = ?", f.Classification)
	}
	if f.StartDate != "" {
		if day, err := time.Parse("2006-01-02", f.StartDate); err == nil {
			query = query.Where("incidents.start_date >= ?", day)
		}
	}
	if f.EndDate != "" {
		if day, err := time.Parse("2006-01-02", f.EndDate); err == nil {
			query = query.Where("incidents.start_date < ?", day.AddDate(0, 0, 1))
		}
	}
	if f.EmployeeMatricule != "" {
		linked := ss.db.Model(&models.LinkedEmployee{}).
			Select("linked_employees.incident_id").
			Joins("JOIN people ON people.id = linked_employees.person_id").
			Where("people.matricule = ?", f.EmployeeMatricule)
		query = query.
			Joins("LEFT JOIN people reporters ON reporters.id = incidents.reporter_id").
			Where("reporters.matricule = ? OR incidents.id IN (?)", f.EmployeeMatricule, linked)
	}

	return query
}

func (ss *StoreService) FetchEventsPage(ctx context.Context, q PageQuery) (*EventPage, error) {
	query := ss.filteredQuery(ctx, q.Filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count incidents: %w", err)
	}

	var incidents []models.Incident
	if err := query.Preload("Reporter").
		Order("incidents.id").
		Offset(q.Offset).Limit(q.Limit).
		Find(&incidents).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch incidents: %w", err)
	}

	totalCount := int(total)
	return &EventPage{
		Incidents:  incidents,
		Count:      len(incidents),
		TotalCount: &totalCount,
	}, nil
}

func (ss *StoreService) FetchEventDetails(ctx context.Context, id uint) (*models.Incident, error) {
	var incident models.Incident
	err := ss.db.WithContext(ctx).
		Preload("Reporter").
		Preload("Unit").
		Preload("Employees").
		Preload("Employees.Person").
		Preload("Risks").
		Preload("Measures").
		Preload("Measures.Owner").
		Preload("Measures.Unit").
		First(&incident, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch incident %d: %w", id, err)
	}

	// Loaded detail always carries concrete slices, never "not loaded" nils.
	if incident.Employees == nil {
		incident.Employees = []models.LinkedEmployee{}
	}
	if incident.Risks == nil {
		incident.Risks = []models.Risk{}
	}
	if incident.Measures == nil {
		incident.Measures = []models.CorrectiveMeasure{}
	}
	models.SortRisksByGravity(incident.Risks)
	return &incident, nil
}

func (ss *StoreService) FilterOptions(ctx context.Context) (*FilterOptions, error) {
	opts := &FilterOptions{Types: []string{}, Classifications: []string{}}

	if err := ss.db.WithContext(ctx).Model(&models.Incident{}).
		Where("type <> ''").
		Distinct().Order("type").
		Pluck("type", &opts.Types).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch type options: %w", err)
	}
	if err := ss.db.WithContext(ctx).Model(&models.Incident{}).
		Where("classification <> ''").
		Distinct().Order("classification").
		Pluck("classification", &opts.Classifications).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch classification options: %w", err)
	}

	return opts, nil
}

func (ss *StoreService) FetchBasicInfo(ctx context.Context) (*BasicInfo, error) {
	info := &BasicInfo{}
	db := ss.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.Incident{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count incidents: %w", err)
	}
	info.TotalEvents = int(total)

	var critical int64
	if err := db.Model(&models.Incident{}).
		Joins("JOIN incident_risks ON incident_risks.incident_id = incidents.id").
		Joins("JOIN risks ON risks.id = incident_risks.risk_id").
		Where("risks.gravity = ?", "critical").
		Distinct("incidents.id").
		Count(&critical).Error; err != nil {
		return nil, fmt.Errorf("failed to count critical risks: %w", err)
	}
	info.CriticalRisks = int(critical)

	var bare int64
	if err := db.Model(&models.Incident{}).
		Joins("LEFT JOIN incident_measures ON incident_measures.incident_id = incidents.id").
		Where("incident_measures.incident_id IS NULL").
		Count(&bare).Error; err != nil {
		return nil, fmt.Errorf("failed to count incidents without measures: %w", err)
	}
	info.WithoutMeasures = int(bare)

	if err := db.Model(&models.CorrectiveMeasure{}).
		Select("COALESCE(SUM(cost), 0)").
		Scan(&info.TotalCost).Error; err != nil {
		return nil, fmt.Errorf("failed to sum measure costs: %w", err)
	}

	return info, nil
}

func (ss *StoreService) FetchRecentIncidents(ctx context.Context, limit int) ([]models.Incident, error) {
	var incidents []models.Incident
	if err := ss.db.WithContext(ctx).
		Preload("Reporter").
		Order("start_date DESC NULLS LAST").
		Limit(limit).
		Find(&incidents).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch recent incidents: %w", err)
	}
	return incidents, nil
}

func (ss *StoreService) FetchTopOrganizations(ctx context.Context, limit int) ([]OrganizationCount, error) {
	var rows []struct {
		models.OrganizationalUnit
		Count int
	}
	if err := ss.db.WithContext(ctx).Model(&models.Incident{}).
		Select("organizational_units.*, COUNT(incidents.id) AS count").
		Joins("JOIN organizational_units ON organizational_units.id = incidents.unit_id").
		Group("organizational_units.id").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch top organizations: %w", err)
	}

	counts := make([]OrganizationCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, OrganizationCount{Unit: row.OrganizationalUnit, Count: row.Count})
	}
	return counts, nil
}

func (ss *StoreService) FetchIncidentsByType(ctx context.Context) ([]CategoryCount, error) {
	return ss.countByColumn(ctx, "type", 0)
}

func (ss *StoreService) FetchIncidentsByClassification(ctx context.Context, limit int) ([]CategoryCount, error) {
	return ss.countByColumn(ctx, "classification", limit)
}

func (ss *StoreService) countByColumn(ctx context.Context, column string, limit int) ([]CategoryCount, error) {
	query := ss.db.WithContext(ctx).Model(&models.Incident{}).
		Select(column + " AS label, COUNT(*) AS count").
		Where(column + " <> ''").
		Group(column).
		Order("count DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []struct {
		Label string
		Count int
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count incidents by %s: %w", column, err)
	}

	counts := make([]CategoryCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, CategoryCount{Label: row.Label, Count: row.Count})
	}
	return counts, nil
}
