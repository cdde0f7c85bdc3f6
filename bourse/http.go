package bourse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/etnz/folio"
)

// jwget performs an HTTP GET request to the given address and decodes the
// JSON response body into data. Numbers are decoded as json.Number to keep
// prices exact.
//
// Every failure wraps folio.ErrServiceError.
func jwget(ctx context.Context, client *http.Client, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return fmt.Errorf("cannot build request %q: %w: %w", addr, folio.ErrServiceError, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("cannot http GET %v/%v: %w: %w", req.URL.Host, req.URL.Path, folio.ErrServiceError, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("cannot http GET %v/%v: %v: %w", req.URL.Host, req.URL.Path, resp.Status, folio.ErrServiceError)
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(data); err != nil {
		return fmt.Errorf("invalid json from %v/%v: %w: %w", req.URL.Host, req.URL.Path, folio.ErrServiceError, err)
	}
	return nil
}
