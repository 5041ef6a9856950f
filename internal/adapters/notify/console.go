package notify

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/alejandrodnm/hindsight/internal/domain"
	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
)

// maxFullSequence es el máximo de trades que se imprimen completos; por encima
// se muestran los primeros shownWhenLong.
const (
	maxFullSequence = 20
	shownWhenLong   = 10
)

const timeLayout = "2006-01-02 15:04"

var rule = strings.Repeat("=", 80)

// Console implementa ports.Reporter.
type Console struct {
	out io.Writer
}

// NewConsole crea un reporter que escribe a stdout.
func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// NewConsoleWriter crea un reporter sobre un writer arbitrario (tests).
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

// Banner imprime la cabecera de la ejecución.
func (c *Console) Banner(initialBalance, target float64, from, to time.Time) {
	fmt.Fprintf(c.out, "\n%s\n", rule)
	fmt.Fprintln(c.out, "CRYPTOCURRENCY BACKTESTING - DYNAMIC PROGRAMMING OPTIMAL SOLUTION")
	fmt.Fprintln(c.out, rule)
	fmt.Fprintf(c.out, "Initial Balance: %s\n", money(initialBalance))
	fmt.Fprintf(c.out, "Target: %s\n", money(target))
	fmt.Fprintf(c.out, "Period: %s to %s\n", from.Format(domain.DateLayout), to.Format(domain.DateLayout))
	fmt.Fprintf(c.out, "%s\n\n", rule)
}

// NoData avisa de un día sin datos.
func (c *Console) NoData(date time.Time) {
	fmt.Fprintf(c.out, "No data available for %s\n", date.Format(domain.DateLayout))
}

// DayResult imprime el resultado de un día y su secuencia.
func (c *Console) DayResult(result domain.DayResult, trades []domain.FormattedTrade) {
	fmt.Fprintln(c.out, rule)
	fmt.Fprintf(c.out, "Day: %s\n", result.Date.Format(domain.DateLayout))
	fmt.Fprintln(c.out, rule)
	fmt.Fprintf(c.out, "%s Target Achievable: %s\n", shortMoney(result.TargetBalance), yesNo(result.AchievedTarget))
	fmt.Fprintf(c.out, "Maximum Profit: %s (%+.2f%%)\n", money(result.FinalBalance), result.ProfitPct())
	fmt.Fprintf(c.out, "Total Trades: %d\n", len(trades))

	if len(trades) > 0 {
		shown := trades
		if len(trades) <= maxFullSequence {
			fmt.Fprintln(c.out, "\nTrade Sequence (showing all):")
		} else {
			shown = trades[:shownWhenLong]
			fmt.Fprintf(c.out, "\nTrade Sequence (showing first %d of %d):\n", shownWhenLong, len(trades))
		}
		c.printTrades(shown)
		if len(shown) < len(trades) {
			fmt.Fprintf(c.out, "  ... and %d more trades\n", len(trades)-len(shown))
		}
	}
	fmt.Fprintln(c.out)
}

func (c *Console) printTrades(trades []domain.FormattedTrade) {
	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Type", "Ticker", "Entry", "Exit", "Entry $", "Exit $", "Profit", "Balance")

	for _, t := range trades {
		table.Append(
			fmt.Sprintf("%d", t.TradeNum),
			t.Type,
			t.Ticker,
			t.EntryTime.UTC().Format("15:04"),
			t.ExitTime.UTC().Format("15:04"),
			money(t.EntryPrice),
			money(t.ExitPrice),
			signedMoney(t.Profit),
			money(t.BalanceAfter),
		)
	}
	table.Render()
}

// FinalSummary imprime el resumen de todos los días procesados.
func (c *Console) FinalSummary(dailies []domain.DailySummary, target float64) {
	fmt.Fprintln(c.out, rule)
	fmt.Fprintln(c.out, "FINAL SUMMARY")
	fmt.Fprintln(c.out, rule)

	var achieved []time.Time
	for _, d := range dailies {
		if d.AchievedTarget {
			achieved = append(achieved, d.Date)
		}
	}
	if len(achieved) > 0 {
		fmt.Fprintf(c.out, "\n%s TARGET ACHIEVED ON %d DAY(S):\n", shortMoney(target), len(achieved))
		for _, d := range achieved {
			fmt.Fprintf(c.out, "  - %s\n", d.Format(domain.DateLayout))
		}
	} else {
		fmt.Fprintf(c.out, "\n%s TARGET: NOT ACHIEVABLE in any single day\n", shortMoney(target))
	}

	if len(dailies) == 0 {
		fmt.Fprintln(c.out)
		return
	}

	best := dailies[0]
	var sum float64
	for _, d := range dailies {
		sum += d.ProfitLoss
		if d.ProfitLoss > best.ProfitLoss {
			best = d
		}
	}

	fmt.Fprintln(c.out)
	table := tablewriter.NewWriter(c.out)
	table.Header("Date", "Final", "P&L", "%", "Trades", "Target")
	for _, d := range dailies {
		table.Append(
			d.Date.Format(domain.DateLayout),
			money(d.FinalBalance),
			signedMoney(d.ProfitLoss),
			fmt.Sprintf("%+.2f%%", d.ProfitPct),
			fmt.Sprintf("%d", d.TotalTrades),
			yesNo(d.AchievedTarget),
		)
	}
	table.Render()

	fmt.Fprintf(c.out, "\nMaximum single-day profit: %s on %s\n", money(best.ProfitLoss), best.Date.Format(domain.DateLayout))
	fmt.Fprintf(c.out, "Average daily profit: %s\n", money(sum/float64(len(dailies))))
	fmt.Fprintf(c.out, "Total days analyzed: %d\n\n", len(dailies))
}

// Compound imprime el roll-up multi-día: cada día arranca con el balance final del anterior.
func (c *Console) Compound(r domain.CompoundReport) {
	fmt.Fprintln(c.out, rule)
	fmt.Fprintf(c.out, "%d-DAY COMPOUNDING ANALYSIS\n", r.DaysAvailable)
	fmt.Fprintln(c.out, rule)
	fmt.Fprintf(c.out, "\nStarting balance: %s\n", money(r.InitialBalance))
	fmt.Fprintf(c.out, "Target: %s\n\n", money(r.TargetBalance))

	if len(r.Steps) > 0 {
		table := tablewriter.NewWriter(c.out)
		table.Header("Day", "Date", "Balance", "Daily return")
		for _, s := range r.Steps {
			table.Append(
				fmt.Sprintf("%d", s.Day),
				s.Date.Format(domain.DateLayout),
				money(s.Balance),
				fmt.Sprintf("%+.2f%%", (s.DailyReturn-1)*100),
			)
		}
		table.Render()
	}

	if r.ReachedOnDay > 0 {
		fmt.Fprintf(c.out, "\n*** REACHED %s TARGET on Day %d! ***\n", shortMoney(r.TargetBalance), r.ReachedOnDay)
	}

	fmt.Fprintf(c.out, "\nFinal balance after %d days: %s\n", len(r.Steps), money(r.FinalBalance))
	fmt.Fprintf(c.out, "Difference: %s\n", money(r.Difference()))
	fmt.Fprintf(c.out, "Achieved %s target: %s\n", shortMoney(r.TargetBalance), yesNo(r.Achieved()))

	if r.DaysNeeded > 0 {
		fmt.Fprintf(c.out, "\nAt average daily return of %.2f%%, would need %d more days to reach %s\n",
			(r.AvgDailyReturn-1)*100, r.DaysNeeded, shortMoney(r.TargetBalance))
	}
	fmt.Fprintln(c.out)
}

// Inventory imprime las series cargadas por símbolo: filas y rango temporal.
func (c *Console) Inventory(data domain.DayData) {
	symbols := make([]string, 0, len(data))
	for s := range data {
		symbols = append(symbols, s)
	}
	slices.Sort(symbols)

	fmt.Fprintf(c.out, "\nLoaded data for %d symbols\n", len(symbols))
	if len(symbols) == 0 {
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Symbol", "Rows", "First", "Last")
	for _, s := range symbols {
		bars := data[s]
		first, last := "-", "-"
		if len(bars) > 0 {
			first = bars[0].OpenTime.UTC().Format(timeLayout)
			last = bars[len(bars)-1].OpenTime.UTC().Format(timeLayout)
		}
		table.Append(s, fmt.Sprintf("%d", len(bars)), first, last)
	}
	table.Render()
	fmt.Fprintln(c.out)
}

// --- helpers ---

// money formatea con separador de miles y 2 decimales: $1,234,567.89.
func money(v float64) string {
	s := decimal.NewFromFloat(v).StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")
	var sb strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}

	out := "$" + sb.String() + "." + frac
	if neg {
		return "-" + out
	}
	return out
}

func signedMoney(v float64) string {
	if v >= 0 {
		return "+" + money(v)
	}
	return money(v)
}

// shortMoney abrevia los objetivos redondos: $1M, $250K.
func shortMoney(v float64) string {
	switch {
	case v >= 1e6 && v == float64(int64(v/1e6))*1e6:
		return fmt.Sprintf("$%dM", int64(v/1e6))
	case v >= 1e3 && v == float64(int64(v/1e3))*1e3:
		return fmt.Sprintf("$%dK", int64(v/1e3))
	default:
		return money(v)
	}
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}
