package providers

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/aristath/bourseiq/internal/domain"
)

// searchResultWire is the provider's symbol-search response shape.
type searchResultWire struct {
	Results []struct {
		AssetID string `json:"asset_id"`
		Symbol  string `json:"symbol"`
	} `json:"results"`
}

// ResolveAssetID looks up assetID by ticker; returns an error if no exact
// match is found, per the orchestrator's abort-on-missing-symbol step.
func (c *HTTPClient) ResolveAssetID(ctx context.Context, symbol domain.Symbol) (string, error) {
	var wire searchResultWire
	if err := c.getJSON(ctx, "/v1/search", url.Values{"q": {string(symbol)}}, &wire); err != nil {
		return "", fmt.Errorf("providers: resolve asset id for %q: %w", symbol, err)
	}
	for _, r := range wire.Results {
		if r.Symbol == string(symbol) {
			return r.AssetID, nil
		}
	}
	return "", fmt.Errorf("providers: no asset found for symbol %q", symbol)
}

type ohlcvWire struct {
	Bars []struct {
		Date   string  `json:"date"`
		Open   string  `json:"open"`
		High   string  `json:"high"`
		Low    string  `json:"low"`
		Close  string  `json:"close"`
		Volume string  `json:"volume"`
	} `json:"bars"`
}

// TradeHistory fetches the last `days` daily OHLCV bars, oldest first.
func (c *HTTPClient) TradeHistory(ctx context.Context, assetID string, days int) ([]domain.OHLCVBar, error) {
	var wire ohlcvWire
	q := url.Values{"days": {fmt.Sprint(days)}}
	if err := c.getJSON(ctx, "/v1/assets/"+assetID+"/history", q, &wire); err != nil {
		return nil, fmt.Errorf("providers: trade history for %q: %w", assetID, err)
	}

	bars := make([]domain.OHLCVBar, 0, len(wire.Bars))
	for _, b := range wire.Bars {
		date, err := time.Parse("2006-01-02", b.Date)
		if err != nil {
			continue
		}
		open, _ := parseLocaleFloat(b.Open)
		high, _ := parseLocaleFloat(b.High)
		low, _ := parseLocaleFloat(b.Low)
		closePrice, _ := parseLocaleFloat(b.Close)
		volume, _ := parseLocaleFloat(b.Volume)
		bars = append(bars, domain.OHLCVBar{Date: date, Open: open, High: high, Low: low, Close: closePrice, Volume: volume})
	}
	return bars, nil
}

type assetDetailsWire struct {
	ShortName    string `json:"short_name"`
	CurrentPrice string `json:"current_price"`
	PE           *string `json:"pe"`
	PS           *string `json:"ps"`
	EPS          *string `json:"eps"`
	MarketCap    *string `json:"market_cap"`
	FreeFloat    *string `json:"free_float"`
}

// AssetDetails fetches the symbol's descriptive snapshot.
func (c *HTTPClient) AssetDetails(ctx context.Context, assetID string) (AssetDetails, error) {
	var wire assetDetailsWire
	if err := c.getJSON(ctx, "/v1/assets/"+assetID, nil, &wire); err != nil {
		return AssetDetails{}, fmt.Errorf("providers: asset details for %q: %w", assetID, err)
	}

	price, _ := parseLocaleFloat(wire.CurrentPrice)
	return AssetDetails{
		ShortName:    wire.ShortName,
		CurrentPrice: price,
		Ratios: domain.ReferenceRatios{
			PE:        parsePtr(wire.PE),
			PS:        parsePtr(wire.PS),
			EPS:       parsePtr(wire.EPS),
			MarketCap: parsePtr(wire.MarketCap),
			FreeFloat: parsePtr(wire.FreeFloat),
		},
	}, nil
}

func parsePtr(s *string) *float64 {
	if s == nil {
		return nil
	}
	v, err := parseLocaleFloat(*s)
	if err != nil {
		return nil
	}
	return &v
}

type pivotWire struct {
	Pivots []struct {
		Label string `json:"label"`
		Price string `json:"price"`
	} `json:"pivots"`
}

// PivotIndicators fetches provider-supplied pivot levels, fed into
// support/resistance clustering alongside internally derived levels.
func (c *HTTPClient) PivotIndicators(ctx context.Context, assetID string) ([]PivotSet, error) {
	var wire pivotWire
	if err := c.getJSON(ctx, "/v1/assets/"+assetID+"/pivots", nil, &wire); err != nil {
		return nil, fmt.Errorf("providers: pivot indicators for %q: %w", assetID, err)
	}
	out := make([]PivotSet, 0, len(wire.Pivots))
	for _, p := range wire.Pivots {
		price, err := parseLocaleFloat(p.Price)
		if err != nil {
			continue
		}
		out = append(out, PivotSet{Label: p.Label, Price: price})
	}
	return out, nil
}

type financialTableWire struct {
	Lines []struct {
		Label   string             `json:"label"`
		Periods map[string]string `json:"periods"`
	} `json:"lines"`
}

func (c *HTTPClient) financialTable(ctx context.Context, assetID, statement string) (domain.FinancialTable, error) {
	var wire financialTableWire
	if err := c.getJSON(ctx, "/v1/assets/"+assetID+"/financials/"+statement, nil, &wire); err != nil {
		return nil, fmt.Errorf("providers: %s for %q: %w", statement, assetID, err)
	}

	table := make(domain.FinancialTable, len(wire.Lines))
	for _, line := range wire.Lines {
		periods := make(map[string]float64, len(line.Periods))
		for period, raw := range line.Periods {
			v, err := parseLocaleFloat(raw)
			if err != nil {
				continue
			}
			periods[period] = v
		}
		table[line.Label] = periods
	}
	return table, nil
}

func (c *HTTPClient) BalanceSheet(ctx context.Context, assetID string) (domain.FinancialTable, error) {
	return c.financialTable(ctx, assetID, "balance-sheet")
}

func (c *HTTPClient) ProfitLoss(ctx context.Context, assetID string) (domain.FinancialTable, error) {
	return c.financialTable(ctx, assetID, "profit-loss")
}

func (c *HTTPClient) CashFlow(ctx context.Context, assetID string) (domain.FinancialTable, error) {
	return c.financialTable(ctx, assetID, "cash-flow")
}

func (c *HTTPClient) Ratios(ctx context.Context, assetID string) (domain.FinancialTable, error) {
	return c.financialTable(ctx, assetID, "ratios")
}

type newsWire struct {
	Items []struct {
		Title     string    `json:"title"`
		Body      string    `json:"body"`
		Published time.Time `json:"published"`
		Source    string    `json:"source"`
	} `json:"items"`
}

// NewsFeed fetches the asset's recent news headlines.
func (c *HTTPClient) NewsFeed(ctx context.Context, assetID string) ([]domain.NewsItem, error) {
	var wire newsWire
	if err := c.getJSON(ctx, "/v1/assets/"+assetID+"/news", nil, &wire); err != nil {
		return nil, fmt.Errorf("providers: news feed for %q: %w", assetID, err)
	}
	out := make([]domain.NewsItem, 0, len(wire.Items))
	for _, it := range wire.Items {
		out = append(out, domain.NewsItem{Title: it.Title, Body: it.Body, Published: it.Published, Source: it.Source})
	}
	return out, nil
}

type tradeTapeWire struct {
	Rows []struct {
		DateTime           time.Time `json:"datetime"`
		PersonBuyVolume    string    `json:"person_buy_volume"`
		PersonBuyerCount   int64     `json:"person_buyer_count"`
		PersonSellVolume   string    `json:"person_sell_volume"`
		PersonSellerCount  int64     `json:"person_seller_count"`
		PersonOwnerChange  string    `json:"person_owner_change"`
		CompanyOwnerChange string    `json:"company_owner_change"`
	} `json:"rows"`
}

// TradeTapeDetail fetches the last `days` days of retail/institutional flow
// records, newest first (raw provider order, normalized downstream).
func (c *HTTPClient) TradeTapeDetail(ctx context.Context, assetID string, days int) ([]domain.TradeTapeRow, error) {
	var wire tradeTapeWire
	q := url.Values{"days": {fmt.Sprint(days)}}
	if err := c.getJSON(ctx, "/v1/assets/"+assetID+"/trade-tape", q, &wire); err != nil {
		return nil, fmt.Errorf("providers: trade tape for %q: %w", assetID, err)
	}

	rows := make([]domain.TradeTapeRow, 0, len(wire.Rows))
	for _, r := range wire.Rows {
		buyVol, _ := parseLocaleFloat(r.PersonBuyVolume)
		sellVol, _ := parseLocaleFloat(r.PersonSellVolume)
		personChange, _ := parseLocaleFloat(r.PersonOwnerChange)
		companyChange, _ := parseLocaleFloat(r.CompanyOwnerChange)
		rows = append(rows, domain.TradeTapeRow{
			DateTime:           r.DateTime,
			PersonBuyVolume:    buyVol,
			PersonBuyerCount:   r.PersonBuyerCount,
			PersonSellVolume:   sellVol,
			PersonSellerCount:  r.PersonSellerCount,
			PersonOwnerChange:  personChange,
			CompanyOwnerChange: companyChange,
		})
	}
	return rows, nil
}
