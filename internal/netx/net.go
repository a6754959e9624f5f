// Package netx wraps the plain HTTP calls photowall makes outside of any SDK.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Client is the HTTP client used by Open. Tests may replace it.
var Client = &http.Client{}

// Open issues a GET for url and returns the response body. Any status other
// than 200 is an error; the body is closed in that case.
func Open(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := Client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch failed: %s; body: %s", resp.Status, string(b))
	}
	return resp.Body, nil
}
