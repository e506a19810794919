package plansfeatures

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"herp-husbandry/internal/platform/httpclient"
)

var (
	ErrPlansNotConfigured = errors.New("plans-features client not configured")
	ErrPlansUnauthorized  = errors.New("plans-features unauthorized")
	ErrPlansUpstream      = errors.New("plans-features upstream error")
)

type Config struct {
	BaseURL string
	APIKey  string

	APIKeyHeader string
	Timeout      time.Duration
}

type Client struct {
	apiKey       string
	apiKeyHeader string
	http         *httpclient.Client
}

func NewClient(cfg Config) (*Client, error) {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	hc, err := httpclient.NewWithBaseURL(strings.TrimSpace(cfg.BaseURL), timeout)
	if err != nil {
		return nil, err
	}
	return &Client{
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: h,
		http:         hc,
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != "" && c.apiKey != ""
}

// FeaturesResponse es el contrato con plans-features.
// Ejemplo: {"features": {"routines:unlimited": true, "brumation:track": false}}
type FeaturesResponse struct {
	Features map[string]bool `json:"features"`
}

// GetFeatures trae el mapa de features habilitadas para un usuario.
func (c *Client) GetFeatures(ctx context.Context, userID string) (FeaturesResponse, error) {
	if !c.IsConfigured() {
		return FeaturesResponse{}, ErrPlansNotConfigured
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return FeaturesResponse{}, errors.New("userID required")
	}

	var out FeaturesResponse
	err := c.http.DoJSON(ctx, "GET", "/v1/features?user_id="+userID,
		map[string]string{c.apiKeyHeader: c.apiKey}, nil, &out)
	if err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) {
			if httpErr.StatusCode == 401 || httpErr.StatusCode == 403 {
				return FeaturesResponse{}, ErrPlansUnauthorized
			}
			return FeaturesResponse{}, fmt.Errorf("%w: status=%d", ErrPlansUpstream, httpErr.StatusCode)
		}
		return FeaturesResponse{}, fmt.Errorf("%w: %v", ErrPlansUpstream, err)
	}

	if out.Features == nil {
		out.Features = map[string]bool{}
	}
	return out, nil
}
