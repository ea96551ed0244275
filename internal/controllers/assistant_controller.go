package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Blackfireoff/Incident-Factory/internal/logger"
	"github.com/Blackfireoff/Incident-Factory/internal/services"
)

type AssistantController struct {
	assistant *services.AssistantService
}

func NewAssistantController(assistant *services.AssistantService) *AssistantController {
	return &AssistantController{assistant: assistant}
}

type assistantRequest struct {
	Query string `json:"query" binding:"required"`
}

// Query forwards a natural-language question to the assistant backend and
// returns its text answer.
func (ac *AssistantController) Query(c *gin.Context) {
	var req assistantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query is required"})
		return
	}

	answer, err := ac.assistant.Query(c.Request.Context(), req.Query)
	if err != nil {
		logger.WithError(err, "assistant_controller").Error("Assistant query failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Assistant is unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"response": answer})
}

// Chart asks the assistant backend for a chart suggestion plus the data to
// draw it.
func (ac *AssistantController) Chart(c *gin.Context) {
	var req assistantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query is required"})
		return
	}

	chart, err := ac.assistant.Chart(c.Request.Context(), req.Query)
	if err != nil {
		logger.WithError(err, "assistant_controller").Error("Assistant chart generation failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Assistant is unavailable"})
		return
	}

	c.JSON(http.StatusOK, chart)
}

// Report streams the assistant-generated report document back to the caller
// as a download.
func (ac *AssistantController) Report(c *gin.Context) {
	var req assistantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query is required"})
		return
	}

	body, contentType, err := ac.assistant.Report(c.Request.Context(), req.Query)
	if err != nil {
		logger.WithError(err, "assistant_controller").Error("Assistant report generation failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Assistant is unavailable"})
		return
	}
	defer body.Close()

	c.DataFromReader(http.StatusOK, -1, contentType, body, map[string]string{
		"Content-Disposition": `attachment; filename="incident_report.pdf"`,
	})
}
