package providers

import (
	"context"
	"fmt"
	"net/url"

	"github.com/aristath/bourseiq/internal/domain"
)

type textBlobWire struct {
	Text string `json:"text"`
}

// TradeInfo fetches the social provider's free-text trade-info summary.
// Non-critical: the orchestrator treats a failure here as empty, not fatal.
func (c *HTTPClient) TradeInfo(ctx context.Context, symbol domain.Symbol) (string, error) {
	var wire textBlobWire
	if err := c.getJSON(ctx, "/v1/social/trade-info", url.Values{"symbol": {string(symbol)}}, &wire); err != nil {
		return "", fmt.Errorf("providers: trade info for %q: %w", symbol, err)
	}
	return wire.Text, nil
}

// OverallInfo fetches the social provider's free-text overall-sentiment
// summary.
func (c *HTTPClient) OverallInfo(ctx context.Context, symbol domain.Symbol) (string, error) {
	var wire textBlobWire
	if err := c.getJSON(ctx, "/v1/social/overall-info", url.Values{"symbol": {string(symbol)}}, &wire); err != nil {
		return "", fmt.Errorf("providers: overall info for %q: %w", symbol, err)
	}
	return wire.Text, nil
}

type tweetsWire struct {
	Tweets []string `json:"tweets"`
}

// Tweets fetches the social provider's recent tweet mentions.
func (c *HTTPClient) Tweets(ctx context.Context, symbol domain.Symbol) ([]string, error) {
	var wire tweetsWire
	if err := c.getJSON(ctx, "/v1/social/tweets", url.Values{"symbol": {string(symbol)}}, &wire); err != nil {
		return nil, fmt.Errorf("providers: tweets for %q: %w", symbol, err)
	}
	return wire.Tweets, nil
}

type codalWire struct {
	Items []struct {
		Title     string `json:"title"`
		URL       string `json:"url"`
		Published string `json:"published"`
		Category  string `json:"category"`
	} `json:"items"`
}

// CodalNotices fetches recent Codal regulatory-filing notices, windowed by
// days/limit (defaults: 60 days, 20 items, per the Codal pre-filter's
// window).
func (c *HTTPClient) CodalNotices(ctx context.Context, symbol domain.Symbol) ([]domain.CodalItem, error) {
	var wire codalWire
	q := url.Values{"symbol": {string(symbol)}, "days": {"60"}, "limit": {"20"}}
	if err := c.getJSON(ctx, "/v1/social/codal", q, &wire); err != nil {
		return nil, fmt.Errorf("providers: codal notices for %q: %w", symbol, err)
	}

	out := make([]domain.CodalItem, 0, len(wire.Items))
	for _, it := range wire.Items {
		published, err := parseISODate(it.Published)
		if err != nil {
			continue
		}
		out = append(out, domain.CodalItem{Title: it.Title, URL: it.URL, Published: published, Category: it.Category})
	}
	return out, nil
}
