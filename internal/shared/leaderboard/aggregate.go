package leaderboard

import (
	"sort"

	"github.com/radieske/racing-tips-platform/internal/shared/racing"
	"github.com/radieske/racing-tips-platform/internal/shared/settlement"
)

// Row é uma linha derivada do ranking. Nunca persistida: cada chamada de
// Aggregate recomputa tudo do zero, trocando custo por correção (nenhuma
// soma parcial pra desatualizar).
type Row struct {
	UserID      string  `json:"userId"`
	DisplayName string  `json:"displayName"`
	GBP         float64 `json:"gbp"`
	Tips        int     `json:"tips"`
}

// Scope delimita o ranking a um dia do card ou ao acumulado.
type Scope struct {
	Day string // "" = acumulado; senão, só páreos dessa data
}

func ScopeAll() Scope           { return Scope{} }
func ScopeDay(day string) Scope { return Scope{Day: day} }

// Aggregate dobra todos os palpites + resultados num ranking ordenado por
// lucro decrescente.
//
// Só contam palpites de páreos já apurados, em qualquer escopo: ninguém
// "banca" liderança fantasma antes da corrida acontecer. Desempate: mais
// palpites primeiro, depois userId; determinístico (a origem deixava a
// ordem do grouping vazar).
func Aggregate(
	tips []racing.Tip,
	resultsByRace map[string]*racing.RaceResult,
	racesByID map[string]racing.Race,
	usersByID map[string]racing.Profile,
	scope Scope,
	rules settlement.Settings,
) []Row {
	byUser := make(map[string]*Row)
	var order []string // ordem de primeira aparição, pra estabilidade

	for _, t := range tips {
		res, ok := resultsByRace[t.RaceID]
		if !ok || res.Kind() == racing.ResultPending {
			continue // corrida ainda não aconteceu
		}

		if scope.Day != "" {
			race, ok := racesByID[t.RaceID]
			if !ok || race.Date != scope.Day {
				continue
			}
		}

		userID := t.UserID
		if userID == "" {
			userID = "unknown"
		}

		row, ok := byUser[userID]
		if !ok {
			row = &Row{
				UserID:      userID,
				DisplayName: displayName(userID, t, usersByID),
			}
			byUser[userID] = row
			order = append(order, userID)
		}

		row.Tips++
		row.GBP += rules.Profit(t, res)
	}

	rows := make([]Row, 0, len(order))
	for _, id := range order {
		rows = append(rows, *byUser[id])
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].GBP != rows[j].GBP {
			return rows[i].GBP > rows[j].GBP
		}
		if rows[i].Tips != rows[j].Tips {
			return rows[i].Tips > rows[j].Tips
		}
		return rows[i].UserID < rows[j].UserID
	})

	return rows
}

// displayName resolve o nome exibido: perfil > email do palpite > userId.
// Nunca em branco.
func displayName(userID string, t racing.Tip, users map[string]racing.Profile) string {
	if p, ok := users[userID]; ok && p.DisplayName != "" {
		return p.DisplayName
	}
	if t.UserEmail != "" {
		return t.UserEmail
	}
	return userID
}
