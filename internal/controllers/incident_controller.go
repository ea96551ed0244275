package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Blackfireoff/Incident-Factory/internal/logger"
	"github.com/Blackfireoff/Incident-Factory/internal/middleware"
	"github.com/Blackfireoff/Incident-Factory/internal/services"
)

type IncidentController struct {
	source services.EventSource
	feeds  *services.FeedRegistry
}

func NewIncidentController(source services.EventSource, feeds *services.FeedRegistry) *IncidentController {
	return &IncidentController{source: source, feeds: feeds}
}

// ListIncidents renders one page of the incident list for the caller's
// session. Filtering runs over the fully aggregated set, so a query change
// triggers a complete refetch while page navigation reuses it.
func (ic *IncidentController) ListIncidents(c *gin.Context) {
	search := c.Query("search")
	filters := parseFilters(c)

	page := 1
	if raw := c.Query("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			page = parsed
		}
	}

	force := c.Query("refresh") != ""

	feed := ic.feeds.Get(middleware.SessionID(c))
	feed.EnsureQuery(search, filters, force)
	feed.SetPage(page)

	snapshot, err := feed.WaitSnapshot(c.Request.Context())
	if err != nil {
		logger.WithError(err, "incident_controller").Error("Failed to load incident list")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load incidents"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"incidents":   snapshot.Records,
		"total":       snapshot.Total,
		"page":        snapshot.Page,
		"total_pages": snapshot.TotalPages,
		"range_start": snapshot.RangeStart,
		"range_end":   snapshot.RangeEnd,
	})
}

// GetIncident returns the full detail record for one incident.
func (ic *IncidentController) GetIncident(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid incident ID"})
		return
	}

	incident, err := ic.source.FetchEventDetails(c.Request.Context(), uint(id))
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Incident not found"})
		return
	}
	if err != nil {
		logger.WithError(err, "incident_controller").Error("Failed to fetch incident details")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch incident"})
		return
	}

	c.JSON(http.StatusOK, incident)
}

// GetFilterOptions returns the distinct values for the filter dropdowns.
func (ic *IncidentController) GetFilterOptions(c *gin.Context) {
	options, err := ic.source.FilterOptions(c.Request.Context())
	if err != nil {
		logger.WithError(err, "incident_controller").Error("Failed to fetch filter options")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch filter options"})
		return
	}

	c.JSON(http.StatusOK, options)
}

// parseFilters reads the structured filter parameters. Unparseable dates and
// months are treated as absent rather than rejected.
func parseFilters(c *gin.Context) services.Filters {
	filters := services.Filters{
		EventID:           c.Query("event_id"),
		EmployeeMatricule: c.Query("employee_matricule"),
		Type:              c.Query("type"),
		Classification:    c.Query("classification"),
		StartYear:         c.Query("start_year"),
		EndYear:           c.Query("end_year"),
	}
	filters.StartDate = parseQueryTime(c, "start_date", "2006-01-02")
	filters.EndDate = parseQueryTime(c, "end_date", "2006-01-02")
	filters.StartMonth = parseQueryTime(c, "start_month", "2006-01")
	filters.EndMonth = parseQueryTime(c, "end_month", "2006-01")
	return filters
}

func parseQueryTime(c *gin.Context, name, layout string) *time.Time {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	parsed, err := time.Parse(layout, raw)
	if err != nil {
		logger.Debug("Ignoring unparseable filter value", map[string]interface{}{
			"param": name,
			"value": raw,
		})
		return nil
	}
	return &parsed
}
