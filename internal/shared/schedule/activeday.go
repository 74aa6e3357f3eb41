package schedule

import (
	"sort"
	"time"

	"github.com/radieske/racing-tips-platform/internal/shared/racing"
)

// Clock define o fuso de referência do operador e a hora de virada do dia.
// Injetado na construção; a resolução é pura dado (races, now).
type Clock struct {
	Location      *time.Location // ex: Europe/London
	DaySwitchHour int            // a partir dessa hora local o dia "vira"
}

// RaceDays retorna os dias distintos do card, ordenados.
func RaceDays(races []racing.Race) []string {
	seen := make(map[string]struct{}, len(races))
	var days []string
	for _, r := range races {
		if _, ok := seen[r.Date]; ok {
			continue
		}
		seen[r.Date] = struct{}{}
		days = append(days, r.Date)
	}
	sort.Strings(days)
	return days
}

// ActiveDay resolve o único dia "ao vivo" do card.
//
// Regras:
//   - sem corridas => ""
//   - hoje antes do primeiro dia => primeiro dia; depois do último => último
//   - hoje num buraco do calendário => primeiro dia (comportamento herdado)
//   - a partir do DaySwitchHour, se existe dia seguinte, avança pra ele:
//     à noite o apostador já pensa no card de amanhã
//
// Os chamadores reavaliam com um tick periódico (1x por minuto), não por
// mudança de dados.
func (c Clock) ActiveDay(races []racing.Race, now time.Time) string {
	if len(races) == 0 {
		return ""
	}

	days := RaceDays(races)
	local := now.In(c.Location)
	today := local.Format("2006-01-02")
	hour := local.Hour()

	idx := -1
	for i, d := range days {
		if d == today {
			idx = i
			break
		}
	}

	if idx == -1 {
		if today < days[0] {
			return days[0]
		}
		if today > days[len(days)-1] {
			return days[len(days)-1]
		}
		return days[0]
	}

	if hour >= c.DaySwitchHour && idx < len(days)-1 {
		return days[idx+1]
	}

	return days[idx]
}
