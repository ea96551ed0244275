package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// AssistantService proxies natural-language queries, chart requests and PDF
// report generation to the backend's AI endpoints. The inference itself is
// opaque to this client; we only move payloads.
type AssistantService struct {
	baseURL string
	client  *http.Client
}

func NewAssistantService(baseURL string) *AssistantService {
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}

	// AI answers take longer than plain data reads.
	timeout := 120 * time.Second
	if timeoutStr := os.Getenv("ASSISTANT_TIMEOUT_SECONDS"); timeoutStr != "" {
		if t, err := time.ParseDuration(timeoutStr + "s"); err == nil {
			timeout = t
		}
	}

	return &AssistantService{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type ChartAnalysis struct {
	ChartType string `json:"chart_type"`
	Title     string `json:"title"`
	Insight   string `json:"insight"`
}

type ChartData struct {
	Columns []string                 `json:"columns"`
	Rows    []map[string]interface{} `json:"rows"`
}

// ChartResult is the backend's chart payload, passed through to the widget
// untouched apart from defensive decoding.
type ChartResult struct {
	Type     string        `json:"type"`
	Analysis ChartAnalysis `json:"analysis"`
	Data     ChartData     `json:"data"`
}

func (as *AssistantService) postJSON(ctx context.Context, path, question string, accept string) (*http.Response, error) {
	body, err := json.Marshal(map[string]string{"query": question})
	if err != nil {
		return nil, fmt.Errorf("marshal assistant request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, as.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", accept)

	resp, err := as.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s failed: %w", path, err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("assistant endpoint %s returned status %d: %s", path, resp.StatusCode, string(respBody))
	}
	return resp, nil
}

// Query asks the backend a natural-language question and returns its answer
// text.
func (as *AssistantService) Query(ctx context.Context, question string) (string, error) {
	resp, err := as.postJSON(ctx, "/ai/query", question, "application/json")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var payload struct {
		Response *string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode assistant answer: %w", err)
	}
	if payload.Response == nil {
		return "", fmt.Errorf("assistant answer missing response field")
	}
	return *payload.Response, nil
}

// Chart asks the backend for chart data matching an analytical question.
func (as *AssistantService) Chart(ctx context.Context, question string) (*ChartResult, error) {
	resp, err := as.postJSON(ctx, "/ai/chart", question, "application/json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result ChartResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode chart response: %w", err)
	}
	return &result, nil
}

// Report generates a PDF report and returns the backend's body stream plus
// its content type. The caller owns closing the stream.
func (as *AssistantService) Report(ctx context.Context, question string) (io.ReadCloser, string, error) {
	resp, err := as.postJSON(ctx, "/ai/report", question, "application/pdf")
	if err != nil {
		return nil, "", err
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/pdf"
	}
	return resp.Body, contentType, nil
}
