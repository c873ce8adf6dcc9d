package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/bourseiq/internal/persiancal"
)

// HTTPConfig points an HTTPClient at a provider's base URL and credentials.
type HTTPConfig struct {
	BaseURL string
	APIKey  string
	Retry   RetryConfig
}

// HTTPClient is the one concrete implementation of MarketClient, SocialClient,
// and SearchClient: a connection-pooled, retrying JSON-over-HTTP client
// against a TSE-style data provider.
type HTTPClient struct {
	cfg        HTTPConfig
	httpClient *http.Client
	log        zerolog.Logger
}

// NewHTTPClient builds an HTTPClient with a shared, connection-pooled
// transport and a 30-second per-request timeout matching the concurrency
// model's total deadline.
func NewHTTPClient(cfg HTTPConfig, log zerolog.Logger) *HTTPClient {
	if cfg.Retry == (RetryConfig{}) {
		cfg.Retry = DefaultRetryConfig()
	}
	return &HTTPClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Retry.TotalDeadline,
			Transport: &http.Transport{
				MaxIdleConns:        maxConcurrentFetches,
				MaxIdleConnsPerHost: maxConcurrentFetches,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		log: log.With().Str("client", "providers.http").Logger(),
	}
}

// getJSON issues a retrying GET against path?query and decodes the JSON
// response body into out.
func (c *HTTPClient) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	full := c.cfg.BaseURL + path
	if len(query) > 0 {
		full += "?" + query.Encode()
	}

	return retryableHTTP(ctx, c.cfg.Retry, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
		if err != nil {
			return fmt.Errorf("providers: build request: %w", err)
		}
		if c.cfg.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.log.Debug().Err(err).Str("url", full).Msg("request failed")
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			c.log.Debug().Int("status", resp.StatusCode).Str("url", full).Str("body", string(body)).Msg("non-200 response")
			return &StatusError{Code: resp.StatusCode, URL: full}
		}

		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("providers: decode %q: %w", full, err)
		}
		return nil
	})
}

// parseISODate parses an RFC3339 or date-only timestamp, trying both since
// providers are inconsistent about including a time component.
func parseISODate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// parseLocaleFloat parses a numeric string that may use Persian-Arabic
// digits and Persian thousands separators, as TSE-style providers
// frequently return.
func parseLocaleFloat(s string) (float64, error) {
	s = persiancal.NormalizeDigits(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "٬", "")
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
