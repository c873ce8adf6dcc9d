package providers

import (
	"context"
	"fmt"
	"net/url"

	"github.com/aristath/bourseiq/internal/domain"
)

// RateLimitedTweets fetches recent tweets discovered outside the social
// provider, via the rate-limited external search surface. Non-critical:
// empty-on-failure is the caller's contract, same as the SocialClient
// fields.
func (c *HTTPClient) RateLimitedTweets(ctx context.Context, symbol domain.Symbol) ([]string, error) {
	var wire tweetsWire
	if err := c.getJSON(ctx, "/v1/search/tweets", url.Values{"symbol": {string(symbol)}}, &wire); err != nil {
		return nil, fmt.Errorf("providers: rate-limited tweets for %q: %w", symbol, err)
	}
	return wire.Tweets, nil
}

// NarrativeSummary fetches a free-text narrative summary of recent public
// discussion about symbol.
func (c *HTTPClient) NarrativeSummary(ctx context.Context, symbol domain.Symbol) (string, error) {
	var wire textBlobWire
	if err := c.getJSON(ctx, "/v1/search/narrative", url.Values{"symbol": {string(symbol)}}, &wire); err != nil {
		return "", fmt.Errorf("providers: narrative summary for %q: %w", symbol, err)
	}
	return wire.Text, nil
}
