package controllers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/Blackfireoff/Incident-Factory/internal/logger"
	"github.com/Blackfireoff/Incident-Factory/internal/models"
	"github.com/Blackfireoff/Incident-Factory/internal/services"
)

type DashboardController struct {
	source services.SummarySource
}

func NewDashboardController(source services.SummarySource) *DashboardController {
	return &DashboardController{source: source}
}

const (
	recentIncidentLimit    = 5
	topOrganizationLimit   = 5
	classificationBarLimit = 8
)

// GetSummary assembles the dashboard page in one response. The five sections
// load concurrently and independently: a failed section comes back empty
// instead of failing the whole page.
func (dc *DashboardController) GetSummary(c *gin.Context) {
	ctx := c.Request.Context()

	basicInfo := &services.BasicInfo{}
	recent := []models.Incident{}
	topOrgs := []services.OrganizationCount{}
	byType := []services.CategoryCount{}
	byClassification := []services.CategoryCount{}

	var wg sync.WaitGroup
	wg.Add(5)

	go func() {
		defer wg.Done()
		info, err := dc.source.FetchBasicInfo(ctx)
		if err != nil {
			logSectionError("basic_info", err)
			return
		}
		basicInfo = info
	}()
	go func() {
		defer wg.Done()
		incidents, err := dc.source.FetchRecentIncidents(ctx, recentIncidentLimit)
		if err != nil {
			logSectionError("recent_incidents", err)
			return
		}
		recent = incidents
	}()
	go func() {
		defer wg.Done()
		orgs, err := dc.source.FetchTopOrganizations(ctx, topOrganizationLimit)
		if err != nil {
			logSectionError("top_organizations", err)
			return
		}
		topOrgs = orgs
	}()
	go func() {
		defer wg.Done()
		counts, err := dc.source.FetchIncidentsByType(ctx)
		if err != nil {
			logSectionError("incidents_by_type", err)
			return
		}
		byType = counts
	}()
	go func() {
		defer wg.Done()
		counts, err := dc.source.FetchIncidentsByClassification(ctx, classificationBarLimit)
		if err != nil {
			logSectionError("incidents_by_classification", err)
			return
		}
		byClassification = counts
	}()

	wg.Wait()

	c.JSON(http.StatusOK, gin.H{
		"basic_info":                  basicInfo,
		"recent_incidents":            recent,
		"top_organizations":           topOrgs,
		"incidents_by_type":           byType,
		"incidents_by_classification": byClassification,
	})
}

func logSectionError(section string, err error) {
	logger.WithContext(map[string]interface{}{
		"section": section,
		"error":   err.Error(),
	}).Warn("Dashboard section failed to load")
}
