package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func summary(day int, initial, final float64) DailySummary {
	return DailySummary{
		Date:           time.Date(2025, 12, day, 0, 0, 0, 0, time.UTC),
		InitialBalance: initial,
		FinalBalance:   final,
	}
}

func TestFormatSequence_RunningBalance(t *testing.T) {
	trades := []Trade{
		{Instrument: "BTCUSDT", Direction: Long, EntryPrice: 100, ExitPrice: 110, Return: 0.10},
		{Instrument: "ETHUSDT", Direction: Short, EntryPrice: 50, ExitPrice: 45, Return: 0.10},
	}

	out := FormatSequence(trades, 10000)
	require.Len(t, out, 2)

	assert.Equal(t, 1, out[0].TradeNum)
	assert.Equal(t, "LONG", out[0].Type)
	assert.InDelta(t, 100, out[0].Quantity, 1e-9)
	assert.InDelta(t, 1000, out[0].Profit, 1e-9)
	assert.InDelta(t, 11000, out[0].BalanceAfter, 1e-9)

	// 11000 / 50 = 220 unidades en corto, ganan 5 cada una
	assert.Equal(t, "SHORT", out[1].Type)
	assert.InDelta(t, 220, out[1].Quantity, 1e-9)
	assert.InDelta(t, 1100, out[1].Profit, 1e-9)
	assert.InDelta(t, 12100, out[1].BalanceAfter, 1e-9)
}

func TestFormatSequence_Empty(t *testing.T) {
	assert.Empty(t, FormatSequence(nil, 10000))
}

func TestCompound_ReachesTarget(t *testing.T) {
	dailies := []DailySummary{
		summary(1, 10000, 100000), // x10
		summary(2, 10000, 50000),  // x5 → 500k
		summary(3, 10000, 30000),  // x3 → 1.5M, objetivo alcanzado
		summary(4, 10000, 20000),  // no se encadena
	}

	r := Compound(dailies, 10000, 1000000)

	assert.True(t, r.Achieved())
	assert.Equal(t, 3, r.ReachedOnDay)
	require.Len(t, r.Steps, 3)
	assert.InDelta(t, 1500000, r.FinalBalance, 1e-6)
	assert.Equal(t, 0, r.DaysNeeded)
	assert.Equal(t, 4, r.DaysAvailable)
}

func TestCompound_ProjectsDaysNeeded(t *testing.T) {
	dailies := []DailySummary{
		summary(1, 10000, 20000),
		summary(2, 10000, 20000),
	}

	r := Compound(dailies, 10000, 1000000)

	assert.False(t, r.Achieved())
	assert.Equal(t, 0, r.ReachedOnDay)
	assert.InDelta(t, 40000, r.FinalBalance, 1e-9)
	assert.InDelta(t, 2.0, r.AvgDailyReturn, 1e-12)
	// 40k × 2^5 = 1.28M
	assert.Equal(t, 5, r.DaysNeeded)
	assert.InDelta(t, 960000, r.Difference(), 1e-9)
}

func TestCompound_FlatReturnsHaveNoProjection(t *testing.T) {
	dailies := []DailySummary{summary(1, 10000, 10000)}

	r := Compound(dailies, 10000, 1000000)

	assert.InDelta(t, 1.0, r.AvgDailyReturn, 1e-12)
	assert.Equal(t, 0, r.DaysNeeded)
}

func TestCompound_NoDays(t *testing.T) {
	r := Compound(nil, 10000, 1000000)
	assert.Equal(t, 10000.0, r.FinalBalance)
	assert.Empty(t, r.Steps)
	assert.False(t, r.Achieved())
}
