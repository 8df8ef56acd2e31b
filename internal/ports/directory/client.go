package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"attendance.service/internal/core/model"
	"github.com/sony/gobreaker"
)

// HTTPClient fetches the roster from the HR directory service over HTTP.
// It is wrapped in a circuit breaker so a struggling directory does not
// take the reporting view down with it.
type HTTPClient struct {
	client  *http.Client
	baseURL string
	cb      *gobreaker.CircuitBreaker
}

// NewHTTPClient new HTTPClient with a circuit breaker around the directory.
func NewHTTPClient(baseURL string) *HTTPClient {
	settings := gobreaker.Settings{
		Name:        "HR-Directory",
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Trip if failure rate is bigger then 50% after at least 10 requests
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.5
		},
	}

	return &HTTPClient{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		cb:      gobreaker.NewCircuitBreaker(settings),
	}
}

// ActiveRoster fetch the active employee roster from the directory.
func (c *HTTPClient) ActiveRoster(ctx context.Context) ([]model.Employee, error) {
	result, err := c.cb.Execute(func() (interface{}, error) {
		var roster []model.Employee
		if err := c.getJSON(ctx, c.baseURL+"/employees?status=active", &roster); err != nil {
			return nil, err
		}
		return roster, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active roster: %w", err)
	}
	return result.([]model.Employee), nil
}

// Lookup fetch one employee by ID. Unknown employees map to nil, not error.
func (c *HTTPClient) Lookup(ctx context.Context, employeeID string) (*model.Employee, error) {
	result, err := c.cb.Execute(func() (interface{}, error) {
		var employee model.Employee
		err := c.getJSON(ctx, c.baseURL+"/employees/"+employeeID, &employee)
		if err == errNotFound {
			return (*model.Employee)(nil), nil
		}
		if err != nil {
			return nil, err
		}
		return &employee, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to look up employee %s: %w", employeeID, err)
	}
	return result.(*model.Employee), nil
}

var errNotFound = fmt.Errorf("directory returned 404")

func (c *HTTPClient) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create directory request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call directory: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("directory returned non-successful status code: %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
