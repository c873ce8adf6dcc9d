package analytics

import (
	"testing"

	"github.com/aristath/bourseiq/internal/domain"
	"github.com/stretchr/testify/assert"
)

// TestComputeSmartMoney_ScenarioThreeMatchesLiteralWorkedExample reproduces
// the literal worked example: 1.2B bought by 1000 buyers, 100M sold by 500
// sellers, 800M of individual owner-change mirrored by -800M of company
// owner-change -- a textbook smart-money-accumulation signature.
func TestComputeSmartMoney_ScenarioThreeMatchesLiteralWorkedExample(t *testing.T) {
	row := makeTapeRowWithOwnerChange(1_200_000_000, 1000, 100_000_000, 500, 800_000_000, -800_000_000)
	result := ComputeSmartMoney(row)

	assert.InDelta(t, 1.2, result.PerCapitaBuy, 1e-9)
	assert.InDelta(t, 0.2, result.PerCapitaSell, 1e-9)
	assert.InDelta(t, 6.0, result.Ratio, 1e-9)
	assert.InDelta(t, 800.0, result.RealNetFlow, 1e-9)
	assert.Equal(t, "Smart Money Entry", result.Status)
}

func TestComputeSmartMoney_AbnormalDivergenceOnVeryLowRatio(t *testing.T) {
	row := makeTapeRowWithOwnerChange(10_000_000, 1000, 900_000_000, 500, 100_000_000, 0)
	result := ComputeSmartMoney(row)

	assert.Less(t, result.Ratio, 0.1)
	assert.Equal(t, "Abnormal Divergence", result.Status)
}

func TestComputeSmartMoney_HighSellingPressureOnLowRatioNegativeFlow(t *testing.T) {
	row := makeTapeRowWithOwnerChange(100_000_000, 1000, 300_000_000, 500, -200_000_000, 0)
	result := ComputeSmartMoney(row)

	assert.Less(t, result.Ratio, 1.0)
	assert.Less(t, result.RealNetFlow, 0.0)
	assert.Equal(t, "High Selling Pressure", result.Status)
}

func TestComputeSmartMoney_DivergenceOnLowRatioPositiveFlow(t *testing.T) {
	row := makeTapeRowWithOwnerChange(100_000_000, 1000, 300_000_000, 500, 200_000_000, 0)
	result := ComputeSmartMoney(row)

	assert.Less(t, result.Ratio, 1.0)
	assert.Greater(t, result.RealNetFlow, 0.0)
	assert.Equal(t, "Divergence (Retail Buying)", result.Status)
}

func TestComputeSmartMoney_MidRatioIsNormal(t *testing.T) {
	row := makeTapeRowWithOwnerChange(100_000_000, 1000, 100_000_000, 1000, 0, 0)
	result := ComputeSmartMoney(row)

	assert.Equal(t, "Normal", result.Status)
}

func TestComputeSmartMoney_ZeroCountsDoNotPanic(t *testing.T) {
	row := makeTapeRow(0, 0, 0, 0)
	result := ComputeSmartMoney(row)

	assert.Equal(t, 0.0, result.PerCapitaBuy)
	assert.Equal(t, 0.0, result.PerCapitaSell)
}

func TestComputeSmartMoneySeries_PreservesOrder(t *testing.T) {
	rows := []domain.TradeTapeRow{
		makeTapeRowWithOwnerChange(1_200_000_000, 1000, 100_000_000, 500, 800_000_000, 0),
		makeTapeRowWithOwnerChange(10_000_000, 1000, 900_000_000, 500, 100_000_000, 0),
	}
	out := ComputeSmartMoneySeries(rows)

	assert.Equal(t, "Smart Money Entry", out[0].Status)
	assert.Equal(t, "Abnormal Divergence", out[1].Status)
}
