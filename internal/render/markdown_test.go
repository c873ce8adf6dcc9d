package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aristath/bourseiq/internal/domain"
)

func TestDocument_IncludesHeaderBranchesAndMemo(t *testing.T) {
	doc := &domain.AssetDocument{
		TradeSymbol:      "IKCO",
		ShortName:        "Iran Khodro",
		ProviderID:       "tse_default",
		CurrentPrice:     1234.5,
		AnalysisDatetime: time.Date(2026, 7, 29, 10, 0, 0, 0, time.UTC),
		TechnicalAnalysis: map[string]interface{}{
			"price_sparkline": "▁▂▃▅▇",
			"doji_ratio":      0.05,
		},
	}
	technical := domain.ConsensusReport{Signal: domain.SignalBuy, Confidence: 0.8, ExecutiveSummary: "uptrend intact"}
	fundamental := domain.ConsensusReport{Signal: domain.SignalNeutral, Confidence: 0.5, ExecutiveSummary: "mixed fundamentals"}
	social := domain.ConsensusReport{Signal: domain.SignalSell, Confidence: 0.3, ConflictAlerts: []string{"bearish chatter"}}

	out := Document(doc, technical, fundamental, social, "Overall: cautiously bullish.")

	assert.Contains(t, out, "# Iran Khodro (IKCO)")
	assert.Contains(t, out, "1234.50")
	assert.Contains(t, out, "▁▂▃▅▇")
	assert.Contains(t, out, "5.0%")
	assert.Contains(t, out, "### Technical")
	assert.Contains(t, out, "uptrend intact")
	assert.Contains(t, out, "bearish chatter")
	assert.Contains(t, out, "Overall: cautiously bullish.")
}

func TestDocument_OmitsSparklineWhenAbsent(t *testing.T) {
	doc := &domain.AssetDocument{TradeSymbol: "FOLD", AnalysisDatetime: time.Now().UTC()}
	out := Document(doc, domain.ConsensusReport{}, domain.ConsensusReport{}, domain.ConsensusReport{}, "memo")
	assert.NotContains(t, out, "doji ratio")
}
