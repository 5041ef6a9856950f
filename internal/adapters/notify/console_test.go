package notify

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/alejandrodnm/hindsight/internal/domain"
	"github.com/stretchr/testify/assert"
)

var dec1 = time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)

func makeTrades(n int) []domain.FormattedTrade {
	out := make([]domain.FormattedTrade, n)
	for i := range out {
		out[i] = domain.FormattedTrade{
			TradeNum:     i + 1,
			Ticker:       "BTCUSDT",
			Type:         "LONG",
			EntryTime:    dec1.Add(time.Duration(i) * time.Minute),
			ExitTime:     dec1.Add(time.Duration(i+1) * time.Minute),
			EntryPrice:   91000,
			ExitPrice:    91100,
			Profit:       10.5,
			BalanceAfter: 10000 + float64(i+1)*10.5,
		}
	}
	return out
}

func TestConsole_DayResult_ShowsAll(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWriter(&buf)

	c.DayResult(domain.DayResult{
		Date:           dec1,
		InitialBalance: 10000,
		FinalBalance:   12345.678,
		TargetBalance:  1000000,
	}, makeTrades(3))

	out := buf.String()
	assert.Contains(t, out, "Day: 2025-12-01")
	assert.Contains(t, out, "$1M Target Achievable: NO")
	assert.Contains(t, out, "Maximum Profit: $12,345.68 (+23.46%)")
	assert.Contains(t, out, "Total Trades: 3")
	assert.Contains(t, out, "showing all")
	assert.Contains(t, out, "$91,000.00")
	assert.NotContains(t, out, "more trades")
}

func TestConsole_DayResult_TruncatesLongSequence(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWriter(&buf)

	c.DayResult(domain.DayResult{
		Date:           dec1,
		InitialBalance: 10000,
		FinalBalance:   2000000,
		TargetBalance:  1000000,
		AchievedTarget: true,
	}, makeTrades(25))

	out := buf.String()
	assert.Contains(t, out, "$1M Target Achievable: YES")
	assert.Contains(t, out, "showing first 10 of 25")
	assert.Contains(t, out, "... and 15 more trades")
	assert.Contains(t, out, "00:09")
	assert.NotContains(t, out, "00:11")
}

func TestConsole_DayResult_NoTrades(t *testing.T) {
	var buf bytes.Buffer
	NewConsoleWriter(&buf).DayResult(domain.DayResult{
		Date: dec1, InitialBalance: 10000, FinalBalance: 10000, TargetBalance: 1000000,
	}, nil)

	out := buf.String()
	assert.Contains(t, out, "Total Trades: 0")
	assert.NotContains(t, out, "Trade Sequence")
}

func TestConsole_NoData(t *testing.T) {
	var buf bytes.Buffer
	NewConsoleWriter(&buf).NoData(dec1)
	assert.Equal(t, "No data available for 2025-12-01\n", buf.String())
}

func TestConsole_FinalSummary(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWriter(&buf)

	c.FinalSummary([]domain.DailySummary{
		{Date: dec1, InitialBalance: 10000, FinalBalance: 15000, ProfitLoss: 5000, ProfitPct: 50, TotalTrades: 4},
		{Date: dec1.AddDate(0, 0, 1), InitialBalance: 10000, FinalBalance: 1500000, ProfitLoss: 1490000,
			ProfitPct: 14900, TotalTrades: 90, AchievedTarget: true},
	}, 1000000)

	out := buf.String()
	assert.Contains(t, out, "$1M TARGET ACHIEVED ON 1 DAY(S):")
	assert.Contains(t, out, "  - 2025-12-02")
	assert.Contains(t, out, "Maximum single-day profit: $1,490,000.00 on 2025-12-02")
	assert.Contains(t, out, "Average daily profit: $747,500.00")
	assert.Contains(t, out, "Total days analyzed: 2")
}

func TestConsole_FinalSummary_NoDays(t *testing.T) {
	var buf bytes.Buffer
	NewConsoleWriter(&buf).FinalSummary(nil, 1000000)

	out := buf.String()
	assert.Contains(t, out, "NOT ACHIEVABLE")
	assert.NotContains(t, out, "Total days analyzed")
}

func TestConsole_Compound(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWriter(&buf)

	dailies := []domain.DailySummary{
		{Date: dec1, InitialBalance: 10000, FinalBalance: 20000},
		{Date: dec1.AddDate(0, 0, 1), InitialBalance: 10000, FinalBalance: 20000},
	}
	c.Compound(domain.Compound(dailies, 10000, 1000000))

	out := buf.String()
	assert.Contains(t, out, "2-DAY COMPOUNDING ANALYSIS")
	assert.Contains(t, out, "$40,000.00")
	assert.Contains(t, out, "Achieved $1M target: NO")
	assert.Contains(t, out, "would need 5 more days")
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$0.00", money(0))
	assert.Equal(t, "$999.99", money(999.99))
	assert.Equal(t, "$1,000.00", money(1000))
	assert.Equal(t, "$1,234,567.89", money(1234567.891))
	assert.Equal(t, "-$1,500.50", money(-1500.5))
	assert.Equal(t, "+$10.50", signedMoney(10.5))
	assert.Equal(t, "$1M", shortMoney(1000000))
	assert.Equal(t, "$250K", shortMoney(250000))
	assert.True(t, strings.HasPrefix(shortMoney(1234.5), "$1,234.50"))
}

func TestConsole_Inventory(t *testing.T) {
	var buf bytes.Buffer
	NewConsoleWriter(&buf).Inventory(domain.DayData{
		"ETHUSDT": {{OpenTime: dec1, Close: 1}, {OpenTime: dec1.Add(47 * time.Hour), Close: 2}},
		"BTCUSDT": {{OpenTime: dec1, Close: 1}},
	})

	out := buf.String()
	assert.Contains(t, out, "Loaded data for 2 symbols")
	assert.Contains(t, out, "2025-12-02 23:00")
	assert.Less(t, strings.Index(out, "BTCUSDT"), strings.Index(out, "ETHUSDT"))
}
