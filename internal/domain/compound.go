package domain

import "time"

// maxProjectionDays limita la proyección de días necesarios para llegar al objetivo.
const maxProjectionDays = 100

// CompoundStep es el estado del balance tras encadenar un día más.
type CompoundStep struct {
	Day         int // 1-based
	Date        time.Time
	DailyReturn float64 // multiplicador del día
	Balance     float64 // balance acumulado tras el día
}

// CompoundReport es el roll-up multi-día: cada día reinicia con el balance final del anterior.
type CompoundReport struct {
	InitialBalance float64
	TargetBalance  float64
	Steps          []CompoundStep
	FinalBalance   float64
	DaysAvailable  int
	ReachedOnDay   int // 0 si nunca se alcanzó el objetivo

	// Proyección (solo si no se alcanzó el objetivo)
	AvgDailyReturn float64
	DaysNeeded     int // 0 si no hay proyección (retorno medio insuficiente o > 100 días)
}

// Achieved devuelve true si el balance compuesto llegó al objetivo.
func (r CompoundReport) Achieved() bool {
	return r.FinalBalance >= r.TargetBalance
}

// Difference devuelve lo que falta (negativo si se superó) para llegar al objetivo.
func (r CompoundReport) Difference() float64 {
	return r.TargetBalance - r.FinalBalance
}

// Compound encadena los resultados diarios en orden, parando el día en que se
// alcanza el objetivo. Si no se alcanza, proyecta cuántos días más harían falta
// al retorno diario medio de todos los días disponibles.
func Compound(dailies []DailySummary, initialBalance, target float64) CompoundReport {
	r := CompoundReport{
		InitialBalance: initialBalance,
		TargetBalance:  target,
		DaysAvailable:  len(dailies),
	}

	balance := initialBalance
	for i, d := range dailies {
		dr := d.DailyReturn()
		balance *= dr
		r.Steps = append(r.Steps, CompoundStep{
			Day:         i + 1,
			Date:        d.Date,
			DailyReturn: dr,
			Balance:     balance,
		})
		if balance >= target {
			r.ReachedOnDay = i + 1
			break
		}
	}
	r.FinalBalance = balance

	if balance >= target || len(dailies) == 0 {
		return r
	}

	sum := 0.0
	for _, d := range dailies {
		sum += d.DailyReturn()
	}
	r.AvgDailyReturn = sum / float64(len(dailies))

	days := 0
	projected := balance
	for projected < target && days < maxProjectionDays {
		projected *= r.AvgDailyReturn
		days++
	}
	if days < maxProjectionDays {
		r.DaysNeeded = days
	}
	return r
}
