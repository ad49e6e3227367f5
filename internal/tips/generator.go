package tips

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Request describes the player context sent to the tip service
type Request struct {
	RecentActivity string   `json:"recent_activity" validate:"required,max=2000"`
	SkillLevel     string   `json:"skill_level" validate:"required,oneof=beginner intermediate advanced"`
	Interests      []string `json:"interests" validate:"omitempty,max=10,dive,max=50"`
}

// Generator produces a small ordered list of natural-language poker tips.
// It is an opaque external call: no retry or backoff here.
type Generator interface {
	Generate(ctx context.Context, req Request) ([]string, error)
}

// HTTPGenerator implements Generator against a JSON-over-HTTP tip service
type HTTPGenerator struct {
	URL    string
	APIKey string
	Client *http.Client
}

// NewHTTPGenerator creates a new HTTPGenerator
func NewHTTPGenerator(url, apiKey string) *HTTPGenerator {
	return &HTTPGenerator{
		URL:    url,
		APIKey: apiKey,
		Client: &http.Client{Timeout: 15 * time.Second},
	}
}

type tipResponse struct {
	Tips []string `json:"tips"`
}

// Generate posts the player context and returns the ordered tip strings
func (g *HTTPGenerator) Generate(ctx context.Context, req Request) ([]string, error) {
	if g.URL == "" {
		return nil, fmt.Errorf("tip service URL not configured")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if g.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+g.APIKey)
	}

	resp, err := g.Client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tip service returned status %d", resp.StatusCode)
	}

	var parsed tipResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("invalid tip service response: %w", err)
	}
	return parsed.Tips, nil
}
