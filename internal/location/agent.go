package location

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// AgentSource requests a fresh low-power fix from a device location
// agent over HTTP. The agent is expected to answer quickly or not at
// all; the request timeout bounds the wait either way.
type AgentSource struct {
	baseURL    string
	httpClient *http.Client
}

// NewAgentSource creates an agent-backed source. An empty baseURL yields
// a source that always reports no fix.
func NewAgentSource(baseURL string, timeout time.Duration) *AgentSource {
	return &AgentSource{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type agentFixResponse struct {
	OK        bool    `json:"ok"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Address   string  `json:"address"`
}

// AcquireBestEffort fetches a fix from the agent
func (s *AgentSource) AcquireBestEffort(ctx context.Context) Fix {
	if s.baseURL == "" {
		return Fix{OK: false}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/fix?mode=low_power", nil)
	if err != nil {
		return Fix{OK: false, Err: fmt.Errorf("build fix request: %w", err)}
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Fix{OK: false, Err: fmt.Errorf("request fix: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Fix{OK: false, Err: fmt.Errorf("agent returned status %d", resp.StatusCode)}
	}

	var body agentFixResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Fix{OK: false, Err: fmt.Errorf("decode fix response: %w", err)}
	}
	if !body.OK {
		return Fix{OK: false}
	}

	return Fix{
		OK:        true,
		Latitude:  body.Latitude,
		Longitude: body.Longitude,
		Address:   body.Address,
		Origin:    OriginLowPowerFix,
	}
}
