// internal/adapters/objstore/client.go
package objstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ElmaP103/buenro/internal/adapters/observability"
	"github.com/ElmaP103/buenro/internal/domain"
)

// Client fetches public objects from an S3-style HTTP endpoint.
// One GET per call, no retries: a transport failure belongs to the
// ingestion run that triggered it.
type Client struct {
	base string
	hc   *http.Client
}

func New(base string) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("object store base URL is required")
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 20 * time.Second},
	}, nil
}

// GetObject retrieves {base}/{key} and decodes the body as JSON.
// Non-2xx responses map to domain.ErrFetch, undecodable bodies to domain.ErrParse.
func (c *Client) GetObject(ctx context.Context, key string) (any, error) {
	url := c.base + "/" + key
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	log.Debug().Str("url", url).Msg("fetching source object")
	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("s3", key, 0, time.Since(start))
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrFetch, key, err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal("s3", key, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// read a small error body for diagnostics
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: %s: status %d: %s",
			domain.ErrFetch, key, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrParse, key, err)
	}
	return out, nil
}
