package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	errs "github.com/matzehuels/gcad/pkg/errors"
	"github.com/matzehuels/gcad/pkg/httputil"
)

// Client calls a remote gcad server.
type Client struct {
	BaseURL string
	HTTP    *http.Client

	// Backoff governs retries of network errors, 5xx and 429 responses.
	Backoff httputil.Backoff
}

// NewClient returns a client for the server at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 2 * time.Minute},
		Backoff: httputil.DefaultBackoff,
	}
}

// Solve posts req to /v1/solve.
func (c *Client) Solve(ctx context.Context, req SolveRequest) (*SolveResponse, error) {
	var out SolveResponse
	if err := c.post(ctx, "/v1/solve", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Order posts req to /v1/order.
func (c *Client) Order(ctx context.Context, req OrderRequest) (*OrderResponse, error) {
	var out OrderResponse
	if err := c.post(ctx, "/v1/order", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Roots posts req to /v1/roots.
func (c *Client) Roots(ctx context.Context, req OrderRequest) ([]string, error) {
	var out RootsResponse
	if err := c.post(ctx, "/v1/roots", req, &out); err != nil {
		return nil, err
	}
	return out.Roots, nil
}

// post sends body as JSON and decodes the response into out. Server error
// responses come back as *errs.Error carrying the server's code.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	err = httputil.Retry(ctx, c.Backoff, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(data))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.HTTP.Do(req)
		if err != nil {
			return httputil.Retryable(errs.Wrap(errs.ErrCodeNetwork, err, "POST %s", path))
		}
		defer resp.Body.Close()

		if err := httputil.CheckResponse(resp); err != nil {
			return remoteError(err)
		}
		return httputil.DecodeJSON(resp, out)
	})
	return err
}

// remoteError decodes an ErrorResponse body into a coded error. The
// retryable wrapping of err is kept.
func remoteError(err error) error {
	var se *httputil.StatusError
	if !errors.As(err, &se) {
		return err
	}
	var resp ErrorResponse
	if json.Unmarshal(se.Body, &resp) != nil || resp.Code == "" {
		return err
	}
	coded := errs.New(resp.Code, "%s", resp.Error)
	if resp.Stalled != nil {
		coded.Cause = &errs.StalledError{
			Root:    resp.Stalled.Root,
			Path:    resp.Stalled.Path,
			Last:    resp.Stalled.Last,
			Unfixed: resp.Stalled.Unfixed,
		}
	}
	var re *httputil.RetryableError
	if errors.As(err, &re) {
		return &httputil.RetryableError{Err: coded, After: re.After}
	}
	return coded
}
