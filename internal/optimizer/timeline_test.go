package optimizer

import (
	"math"
	"testing"
	"time"

	"github.com/alejandrodnm/hindsight/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)

// minuteBars crea velas consecutivas de 1 minuto a partir de startMin.
func minuteBars(startMin int, closes ...float64) []domain.Bar {
	bars := make([]domain.Bar, len(closes))
	for i, c := range closes {
		bars[i] = domain.Bar{
			OpenTime: day0.Add(time.Duration(startMin+i) * time.Minute),
			Open:     c,
			High:     c,
			Low:      c,
			Close:    c,
		}
	}
	return bars
}

func TestBuildTimeline_Empty(t *testing.T) {
	tl, err := BuildTimeline(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, tl.Len())

	tl, err = BuildTimeline(domain.DayData{"BTCUSDT": nil, "ETHUSDT": {}})
	require.NoError(t, err)
	assert.Equal(t, 0, tl.Len())
	assert.Empty(t, tl.Instruments)
}

func TestBuildTimeline_MergesAndIndexes(t *testing.T) {
	day := domain.DayData{
		"ETHUSDT": minuteBars(1, 10, 11),     // min 1, 2
		"BTCUSDT": minuteBars(0, 100, 101, 102), // min 0, 1, 2
	}

	tl, err := BuildTimeline(day)
	require.NoError(t, err)
	require.Equal(t, 5, tl.Len())
	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, tl.Instruments)

	// Empates de tiempo: BTCUSDT antes que ETHUSDT (orden de enumeración)
	want := []string{"BTCUSDT", "BTCUSDT", "ETHUSDT", "BTCUSDT", "ETHUSDT"}
	for i, ev := range tl.Events {
		assert.Equal(t, i, ev.Index)
		assert.Equal(t, want[i], ev.Instrument, "event %d", i)
		if i > 0 {
			assert.False(t, ev.Time.Before(tl.Events[i-1].Time))
		}
	}

	eth := tl.ByInstrument["ETHUSDT"]
	require.Len(t, eth, 2)
	assert.Equal(t, 2, eth[0].Index)
	assert.Equal(t, 4, eth[1].Index)
	assert.Equal(t, 11.0, eth[1].Close)
}

func TestBuildTimeline_SortsOutOfOrderSeries(t *testing.T) {
	bars := minuteBars(0, 100, 101, 102)
	bars[0], bars[2] = bars[2], bars[0]

	tl, err := BuildTimeline(domain.DayData{"BTCUSDT": bars})
	require.NoError(t, err)
	assert.Equal(t, 100.0, tl.Events[0].Close)
	assert.Equal(t, 102.0, tl.Events[2].Close)
}

func TestBuildTimeline_Deterministic(t *testing.T) {
	day := domain.DayData{
		"BTCUSDT": minuteBars(0, 1, 2, 3),
		"ETHUSDT": minuteBars(0, 4, 5, 6),
		"BNBUSDT": minuteBars(0, 7, 8, 9),
	}
	first, err := BuildTimeline(day)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := BuildTimeline(day)
		require.NoError(t, err)
		assert.Equal(t, first.Events, again.Events)
	}
}

func TestBuildTimeline_Malformed(t *testing.T) {
	cases := map[string][]domain.Bar{
		"nan close":      minuteBars(0, 100, math.NaN()),
		"inf close":      minuteBars(0, math.Inf(1), 100),
		"zero close":     minuteBars(0, 100, 0),
		"duplicate time": append(minuteBars(0, 100, 101), minuteBars(1, 102)...),
		"missing time":   {{Close: 100}},
	}
	for name, bars := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := BuildTimeline(domain.DayData{"BTCUSDT": bars})
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrMalformedInput)
		})
	}
}
