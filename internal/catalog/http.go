package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const requestTimeout = 10 * time.Second

// HTTPClient resolves trim ids against the external vehicle catalog API.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient builds a catalog client for the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// trimResponse models the slice of the catalog payload this service reads.
// Every level is optional; a missing link anywhere in the chain means the
// trim carries no usable tire data.
type trimResponse struct {
	Spec *struct {
		Driving *struct {
			FrontTire *struct {
				Value string `json:"value"`
			} `json:"frontTire"`
		} `json:"driving"`
	} `json:"spec"`
}

// ResolveTireInfo fetches the trim record and parses its front-tire size.
func (c *HTTPClient) ResolveTireInfo(ctx context.Context, trimID int64) (Dimensions, error) {
	url := fmt.Sprintf("%s/v1/trim/%d", c.baseURL, trimID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Dimensions{}, fmt.Errorf("trim %d: %w", trimID, ErrInvalidTrim)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Dimensions{}, fmt.Errorf("trim %d: %w", trimID, ErrInvalidTrim)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Dimensions{}, fmt.Errorf("trim %d: status %d: %w", trimID, resp.StatusCode, ErrInvalidTrim)
	}

	var payload trimResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Dimensions{}, fmt.Errorf("trim %d: %w", trimID, ErrInvalidTrim)
	}

	if payload.Spec == nil || payload.Spec.Driving == nil || payload.Spec.Driving.FrontTire == nil {
		return Dimensions{}, fmt.Errorf("trim %d: no front tire field: %w", trimID, ErrInvalidTrim)
	}

	dims, err := ParseSize(payload.Spec.Driving.FrontTire.Value)
	if err != nil {
		return Dimensions{}, fmt.Errorf("trim %d: %w", trimID, ErrInvalidTrim)
	}

	return dims, nil
}
