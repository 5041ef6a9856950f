package optimizer

import (
	"testing"

	"github.com/alejandrodnm/hindsight/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulate_NoTrades(t *testing.T) {
	got := Simulate(nil, 10000)
	assert.Equal(t, "10000", got.String())
}

func TestSimulate_LongThenShort(t *testing.T) {
	trades := []domain.Trade{
		{Direction: domain.Long, EntryPrice: 100, ExitPrice: 110},
		{Direction: domain.Short, EntryPrice: 50, ExitPrice: 45},
	}
	got, _ := Simulate(trades, 10000).Float64()
	assert.InDelta(t, 12100, got, 1e-6)
}

func TestAgrees_WithOptimizer(t *testing.T) {
	day := domain.DayData{
		"BTCUSDT": minuteBars(0, 91000.5, 91010.2, 90990.1, 91050.7, 91020.3, 91080.9),
		"ETHUSDT": minuteBars(0, 3010.11, 3008.45, 3015.02, 3001.77, 3020.66, 3019.99),
		"BNBUSDT": minuteBars(0, 880.1, 881.3, 879.9, 882.4, 882.4, 878.2),
	}

	r, err := New().Optimize(day0, day, 10000, 1000000)
	require.NoError(t, err)
	require.NotEmpty(t, r.Trades)

	ok, simulated := Agrees(r)
	sim, _ := simulated.Float64()
	assert.True(t, ok, "dp=%.4f simulated=%.4f", r.FinalBalance, sim)
}

func TestAgrees_DetectsMismatch(t *testing.T) {
	r := domain.DayResult{
		InitialBalance: 10000,
		FinalBalance:   12000,
		Trades:         []domain.Trade{{Direction: domain.Long, EntryPrice: 100, ExitPrice: 110, Return: 0.2}},
	}
	ok, _ := Agrees(r)
	assert.False(t, ok)
}
