package indicator

import (
	"math"
	"testing"
)

const eps = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func TestSMAKnownValues(t *testing.T) {
	got := SMA([]float64{10, 20, 30, 40, 50}, 3)
	want := []float64{20, 30, 40}
	if len(got) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(got))
	}
	for i := range want {
		if !almostEqual(got[i], want[i]) {
			t.Errorf("index %d: expected %.4f, got %.4f", i, want[i], got[i])
		}
	}
}

func TestSMAConstantInput(t *testing.T) {
	got := SMA([]float64{7.5, 7.5, 7.5, 7.5, 7.5}, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 values, got %d", len(got))
	}
	for i, v := range got {
		if !almostEqual(v, 7.5) {
			t.Errorf("index %d: expected 7.5, got %.4f", i, v)
		}
	}
}

func TestSMADegenerateInputs(t *testing.T) {
	if got := SMA(nil, 3); len(got) != 0 {
		t.Errorf("nil input: expected empty, got %v", got)
	}
	if got := SMA([]float64{1, 2}, 3); len(got) != 0 {
		t.Errorf("short input: expected empty, got %v", got)
	}
	if got := SMA([]float64{1, 2, 3}, 0); len(got) != 0 {
		t.Errorf("zero period: expected empty, got %v", got)
	}
	if got := SMA([]float64{1, 2, 3}, -2); len(got) != 0 {
		t.Errorf("negative period: expected empty, got %v", got)
	}
}

func TestEMASeedMatchesSMA(t *testing.T) {
	prices := []float64{3, 9, 1, 4, 1, 5, 9, 2, 6}
	for period := 1; period <= len(prices); period++ {
		ema := EMA(prices, period)
		if len(ema) != len(prices)-period+1 {
			t.Fatalf("period %d: expected %d values, got %d", period, len(prices)-period+1, len(ema))
		}
		seed := SMA(prices[:period], period)
		if !almostEqual(ema[0], seed[0]) {
			t.Errorf("period %d: seed %.6f != SMA %.6f", period, ema[0], seed[0])
		}
	}
}

func TestEMARecursion(t *testing.T) {
	prices := []float64{10, 11, 12, 13, 14}
	got := EMA(prices, 3)
	// seed = (10+11+12)/3 = 11; k = 2/4 = 0.5
	// next = 11 + (13-11)*0.5 = 12; next = 12 + (14-12)*0.5 = 13
	want := []float64{11, 12, 13}
	for i := range want {
		if !almostEqual(got[i], want[i]) {
			t.Errorf("index %d: expected %.4f, got %.4f", i, want[i], got[i])
		}
	}
}

func TestRSIBounds(t *testing.T) {
	prices := []float64{44, 44.3, 44.1, 43.6, 44.3, 44.8, 45.1, 45.4, 45.8, 46.1,
		45.9, 46.0, 45.6, 46.2, 46.3, 46.0, 46.4, 46.2, 45.6, 46.2}
	got := RSI(prices, 14)
	if len(got) != len(prices)-14 {
		t.Fatalf("expected %d values, got %d", len(prices)-14, len(got))
	}
	for i, v := range got {
		if v < 0 || v > 100 {
			t.Errorf("index %d: RSI %.4f out of [0,100]", i, v)
		}
	}
}

func TestRSIZeroLossIs100(t *testing.T) {
	// Strictly rising series: every window has zero average loss.
	prices := make([]float64, 20)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}
	for _, v := range RSI(prices, 14) {
		if !almostEqual(v, 100) {
			t.Errorf("expected RSI=100 on zero-loss window, got %.4f", v)
		}
	}
}

func TestRSIRollingMeanNotWilder(t *testing.T) {
	// One big early loss must drop fully out of the window once it ages out,
	// which only happens with a plain rolling mean.
	prices := []float64{100, 80, 81, 82, 83, 84, 85, 86, 87, 88}
	got := RSI(prices, 3)
	last := got[len(got)-1]
	if !almostEqual(last, 100) {
		t.Errorf("expected the early loss to age out (RSI=100), got %.4f", last)
	}
}

func TestBollingerBandOrdering(t *testing.T) {
	prices := []float64{20, 21, 19, 22, 23, 21, 20, 24, 25, 23,
		22, 26, 27, 25, 24, 28, 29, 27, 26, 30, 31, 29, 28, 32}
	bands := Bollinger(prices, 20, 2)
	if len(bands.Upper) != len(prices)-20+1 {
		t.Fatalf("expected %d values, got %d", len(prices)-20+1, len(bands.Upper))
	}
	for i := range bands.Middle {
		if bands.Upper[i] < bands.Middle[i] || bands.Middle[i] < bands.Lower[i] {
			t.Errorf("index %d: band ordering violated: %.4f / %.4f / %.4f",
				i, bands.Upper[i], bands.Middle[i], bands.Lower[i])
		}
	}
}

func TestBollingerPopulationStddev(t *testing.T) {
	// Window {1,2,3}: mean 2, population variance 2/3.
	bands := Bollinger([]float64{1, 2, 3}, 3, 1)
	sd := math.Sqrt(2.0 / 3.0)
	if !almostEqual(bands.Upper[0], 2+sd) {
		t.Errorf("expected upper %.6f, got %.6f", 2+sd, bands.Upper[0])
	}
	if !almostEqual(bands.Lower[0], 2-sd) {
		t.Errorf("expected lower %.6f, got %.6f", 2-sd, bands.Lower[0])
	}
}

func TestMACDAlignment(t *testing.T) {
	prices := make([]float64, 60)
	for i := range prices {
		prices[i] = 100 + 5*math.Sin(float64(i)/4)
	}
	m := MACD(prices, 12, 26, 9)

	wantLine := len(prices) - 26 + 1
	if len(m.Line) != wantLine {
		t.Fatalf("expected %d line values, got %d", wantLine, len(m.Line))
	}
	if len(m.Signal) != wantLine-9+1 {
		t.Fatalf("expected %d signal values, got %d", wantLine-9+1, len(m.Signal))
	}
	if len(m.Histogram) != len(m.Signal) {
		t.Fatalf("histogram/signal length mismatch: %d vs %d", len(m.Histogram), len(m.Signal))
	}
	// Exact identity, not approximate: histogram[i] == line[i+signal-1] - signal[i].
	for i := range m.Signal {
		if m.Histogram[i] != m.Line[i+9-1]-m.Signal[i] {
			t.Errorf("index %d: histogram identity violated", i)
		}
	}
}

func TestMACDShortSeries(t *testing.T) {
	m := MACD([]float64{1, 2, 3}, 12, 26, 9)
	if len(m.Line) != 0 || len(m.Signal) != 0 || len(m.Histogram) != 0 {
		t.Errorf("expected empty result on short series, got %+v", m)
	}
}
