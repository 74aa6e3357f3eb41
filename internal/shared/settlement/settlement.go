package settlement

import (
	"math"

	"github.com/radieske/racing-tips-platform/internal/shared/racing"
)

// Settings agrupa as regras de apuração. Injetado na construção de cada
// componente; nenhum default vive em variável global.
type Settings struct {
	StakeGBP        float64 // valor fixo apostado por palpite
	PlacesPaid      int     // fallback quando o resultado não informa
	EachWayFraction float64 // fallback quando o resultado não informa
}

// Settle calcula o lucro em GBP de um palpite contra um resultado.
// Função pura de (tip.HorseName, res, stake): pode ser chamada redundantemente
// a cada recomputação. Nunca retorna negativo; sem resultado retorna 0
// (pendente, não erro).
func (s Settings) Settle(tip racing.Tip, res *racing.RaceResult, stake float64) float64 {
	switch res.Kind() {
	case racing.ResultPending:
		return 0

	case racing.ResultWinnerOnly:
		// documento legado: paga o stake seco no acerto do vencedor
		if res.WinnerHorse == tip.HorseName {
			return stake
		}
		return 0
	}

	placesPaid := res.PlacesPaid
	if placesPaid < 1 {
		placesPaid = s.PlacesPaid
	}
	eachWay := res.EachWayFraction
	if eachWay <= 0 {
		eachWay = s.EachWayFraction
	}

	var entry *racing.Placement
	for i := range res.Placements {
		if res.Placements[i].HorseName == tip.HorseName {
			entry = &res.Placements[i]
			break
		}
	}
	if entry == nil {
		return 0 // não colocou
	}

	odds := entry.OddsDecimal
	if math.IsNaN(odds) || math.IsInf(odds, 0) || odds <= 1 {
		return 0 // placement inapurável, não fatal
	}

	winProfit := stake * (odds - 1)

	if entry.Position == 1 {
		return winProfit
	}
	if entry.Position > 1 && entry.Position <= placesPaid {
		return winProfit * eachWay
	}

	return 0 // fora das posições pagas
}

// Profit aplica o stake fixo configurado.
func (s Settings) Profit(tip racing.Tip, res *racing.RaceResult) float64 {
	return s.Settle(tip, res, s.StakeGBP)
}

// Outcome descreve o desfecho de um palpite já liquidado.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeWin             // 1º lugar
	OutcomePlaced          // dentro das posições pagas
	OutcomeLost
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "WIN"
	case OutcomePlaced:
		return "PLACED"
	case OutcomeLost:
		return "LOST"
	default:
		return "PENDING"
	}
}

// Classify retorna o desfecho e o lucro de um palpite (tela MyTips).
func (s Settings) Classify(tip racing.Tip, res *racing.RaceResult) (Outcome, float64) {
	if res.Kind() == racing.ResultPending {
		return OutcomePending, 0
	}

	profit := s.Profit(tip, res)
	if profit <= 0 {
		return OutcomeLost, 0
	}

	if res.Kind() == racing.ResultFull {
		for _, p := range res.Placements {
			if p.HorseName == tip.HorseName && p.Position != 1 {
				return OutcomePlaced, profit
			}
		}
	}
	return OutcomeWin, profit
}

// WinnerOf extrai o vencedor de qualquer variante de resultado ("" se pendente).
func WinnerOf(res *racing.RaceResult) string {
	switch res.Kind() {
	case racing.ResultWinnerOnly:
		return res.WinnerHorse
	case racing.ResultFull:
		if res.WinnerHorse != "" {
			return res.WinnerHorse
		}
		for _, p := range res.Placements {
			if p.Position == 1 {
				return p.HorseName
			}
		}
	}
	return ""
}
