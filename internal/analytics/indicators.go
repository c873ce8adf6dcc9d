package analytics

import (
	"github.com/markcheno/go-talib"
)

// ema returns the exponential moving average series for the given period,
// or nil if there isn't enough data for go-talib to produce one.
func ema(series []float64, period int) []float64 {
	if len(series) < period {
		return nil
	}
	return talib.Ema(series, period)
}

func sma(series []float64, period int) []float64 {
	if len(series) < period {
		return nil
	}
	return talib.Sma(series, period)
}

func atr(high, low, close []float64, period int) []float64 {
	if len(close) < period+1 {
		return nil
	}
	return talib.Atr(high, low, close, period)
}

func rsi(close []float64, period int) []float64 {
	if len(close) < period+1 {
		return nil
	}
	return talib.Rsi(close, period)
}

func adx(high, low, close []float64, period int) []float64 {
	if len(close) < period*2 {
		return nil
	}
	return talib.Adx(high, low, close, period)
}

// macdHistogram returns the MACD histogram series (MACD line minus signal line).
func macdHistogram(close []float64, fast, slow, signal int) []float64 {
	if len(close) < slow+signal {
		return nil
	}
	_, _, hist := talib.Macd(close, fast, slow, signal)
	return hist
}

func bollinger(close []float64, period int, devUp, devDown float64) (upper, middle, lower []float64) {
	if len(close) < period {
		return nil, nil, nil
	}
	return talib.BBands(close, period, devUp, devDown, talib.SMA)
}

func obv(close, volume []float64) []float64 {
	if len(close) == 0 {
		return nil
	}
	return talib.Obv(close, volume)
}

func mfi(high, low, close, volume []float64, period int) []float64 {
	if len(close) < period+1 {
		return nil
	}
	return talib.Mfi(high, low, close, volume, period)
}
