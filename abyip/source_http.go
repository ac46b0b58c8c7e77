package abyip

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// HTTPSource fetches investment plans from the planning service over
// HTTP. The service exposes one plan document per fiscal year at
// GET {base}/plans/{year}.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPSource(baseURL string) *HTTPSource {
	return &HTTPSource{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *HTTPSource) FetchPlan(ctx context.Context, fiscalYear string) (Plan, error) {
	endpoint, err := url.JoinPath(s.BaseURL, "plans", fiscalYear)
	if err != nil {
		return Plan{}, fmt.Errorf("build plan URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Plan{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return Plan{}, fmt.Errorf("fetch plan: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Plan{}, fmt.Errorf("plan service returned %d for %s", resp.StatusCode, fiscalYear)
	}

	var plan Plan
	if err := json.NewDecoder(resp.Body).Decode(&plan); err != nil {
		return Plan{}, fmt.Errorf("decode plan: %w", err)
	}
	if plan.FiscalYear == "" {
		plan.FiscalYear = fiscalYear
	}
	return plan, nil
}
