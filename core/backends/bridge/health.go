package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
)

// HealthStatus is the bridge's health report, including the status of the
// model host behind it.
type HealthStatus struct {
	Status       string `json:"status"`
	OllamaStatus string `json:"ollama_status"`
	Model        string `json:"model"`
}

// Healthy reports whether both the bridge and its model host are usable.
func (h HealthStatus) Healthy() bool {
	return h.Status == "ok" && h.OllamaStatus == "ok"
}

// Health queries the bridge's health endpoint.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	ctx, span := tracer.Start(ctx, "query bridge health")
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+healthPath, nil)
	if err != nil {
		err = fmt.Errorf("error creating HTTP request: %w", err)
		span.RecordError(err)
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("error sending request: %w", err)
		span.RecordError(err)
		return nil, err
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("non-OK HTTP status: %s", resp.Status)
		span.RecordError(err)
		return nil, err
	}

	var status HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		err = fmt.Errorf("error unmarshalling health response: %w", err)
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("health.status", status.Status),
		attribute.String("health.ollama_status", status.OllamaStatus),
		attribute.String("health.model", status.Model),
	)
	return &status, nil
}
