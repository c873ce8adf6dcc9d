package providers

import (
	"context"
	"fmt"

	"github.com/aristath/bourseiq/internal/domain"
)

// FakeMarketClient is a deterministic MarketClient test double. Each field
// can be set to force a failure by supplying a non-nil error counterpart.
type FakeMarketClient struct {
	AssetID         string
	ResolveErr      error
	Bars            []domain.OHLCVBar
	TradeHistoryErr error
	Details         AssetDetails
	DetailsErr      error
	Pivots          []PivotSet
	PivotsErr       error
	Balance         domain.FinancialTable
	BalanceErr      error
	Profit          domain.FinancialTable
	ProfitErr       error
	Cash            domain.FinancialTable
	CashErr         error
	RatioTable      domain.FinancialTable
	RatiosErr       error
	News            []domain.NewsItem
	NewsErr         error
	Tape            []domain.TradeTapeRow
	TapeErr         error
}

func (f *FakeMarketClient) ResolveAssetID(context.Context, domain.Symbol) (string, error) {
	if f.ResolveErr != nil {
		return "", f.ResolveErr
	}
	return f.AssetID, nil
}

func (f *FakeMarketClient) TradeHistory(context.Context, string, int) ([]domain.OHLCVBar, error) {
	return f.Bars, f.TradeHistoryErr
}

func (f *FakeMarketClient) AssetDetails(context.Context, string) (AssetDetails, error) {
	return f.Details, f.DetailsErr
}

func (f *FakeMarketClient) PivotIndicators(context.Context, string) ([]PivotSet, error) {
	return f.Pivots, f.PivotsErr
}

func (f *FakeMarketClient) BalanceSheet(context.Context, string) (domain.FinancialTable, error) {
	return f.Balance, f.BalanceErr
}

func (f *FakeMarketClient) ProfitLoss(context.Context, string) (domain.FinancialTable, error) {
	return f.Profit, f.ProfitErr
}

func (f *FakeMarketClient) CashFlow(context.Context, string) (domain.FinancialTable, error) {
	return f.Cash, f.CashErr
}

func (f *FakeMarketClient) Ratios(context.Context, string) (domain.FinancialTable, error) {
	return f.RatioTable, f.RatiosErr
}

func (f *FakeMarketClient) NewsFeed(context.Context, string) ([]domain.NewsItem, error) {
	return f.News, f.NewsErr
}

func (f *FakeMarketClient) TradeTapeDetail(context.Context, string, int) ([]domain.TradeTapeRow, error) {
	return f.Tape, f.TapeErr
}

// FakeSocialClient is a deterministic SocialClient test double.
type FakeSocialClient struct {
	TradeInfoText   string
	OverallInfoText string
	TweetList       []string
	Codal           []domain.CodalItem
	Err             error
}

func (f *FakeSocialClient) TradeInfo(context.Context, domain.Symbol) (string, error) {
	return f.TradeInfoText, f.Err
}

func (f *FakeSocialClient) OverallInfo(context.Context, domain.Symbol) (string, error) {
	return f.OverallInfoText, f.Err
}

func (f *FakeSocialClient) Tweets(context.Context, domain.Symbol) ([]string, error) {
	return f.TweetList, f.Err
}

func (f *FakeSocialClient) CodalNotices(context.Context, domain.Symbol) ([]domain.CodalItem, error) {
	return f.Codal, f.Err
}

// FakeSearchClient is a deterministic SearchClient test double.
type FakeSearchClient struct {
	TweetList []string
	Narrative string
	Err       error
}

func (f *FakeSearchClient) RateLimitedTweets(context.Context, domain.Symbol) ([]string, error) {
	return f.TweetList, f.Err
}

func (f *FakeSearchClient) NarrativeSummary(context.Context, domain.Symbol) (string, error) {
	return f.Narrative, f.Err
}

// errAt is a small helper for tests that need a distinguishable, field-named
// error from GatherWithIsolation assertions.
func errAt(field string) error {
	return fmt.Errorf("providers: fake failure in %s", field)
}
