package draft

import (
	"errors"
	"strconv"

	"github.com/radieske/racing-tips-platform/internal/shared/racing"
	"github.com/radieske/racing-tips-platform/internal/shared/settlement"
)

// MaxPositions limita quantas colocações um resultado registra.
const MaxPositions = 8

var (
	ErrMissingWinner  = errors.New("missing winner: position 1 has no horse")
	ErrMissingOdds    = errors.New("missing odds: no placement parsed")
	ErrDuplicateHorse = errors.New("duplicate horse across positions")
)

// Placement é uma linha do rascunho como o admin digitou.
type Placement struct {
	HorseName string `json:"horseName"`
	OddsInput string `json:"odds"` // "5/1" ou "3.5"
}

// Draft é o rascunho de resultado em edição. Nada daqui é persistido:
// ou o rascunho inteiro vira um RaceResult válido, ou a escrita é rejeitada.
type Draft struct {
	PlacesPaid      string            `json:"placesPaid"`
	EachWayFraction string            `json:"eachWayFraction"`
	Placements      map[int]Placement `json:"placements"`
}

// Assign coloca um cavalo numa posição, removendo-o de qualquer posição
// anterior: a última atribuição vence. A invariante de nome único por
// resultado é garantida já na coleta, não só na validação.
func (d *Draft) Assign(pos int, horseName string) {
	if d.Placements == nil {
		d.Placements = make(map[int]Placement)
	}
	for p, pl := range d.Placements {
		if pl.HorseName == horseName {
			pl.HorseName = ""
			d.Placements[p] = pl
		}
	}
	pl := d.Placements[pos]
	pl.HorseName = horseName
	d.Placements[pos] = pl
}

// Validator transforma rascunhos em resultados autoritativos.
type Validator struct {
	Defaults settlement.Settings // fallback de placesPaid / fração each-way
}

// Validate aplica as regras de apuração:
//   - posição 1 precisa de cavalo (resultado sem vencedor é rejeitado)
//   - posições com cavalo e odds não parseáveis (ou <= 1) são descartadas
//     em silêncio ("não chegou/não registrado")
//   - se nenhuma colocação sobrevive mesmo com vencedor nomeado, falha
//   - nomes duplicados entre posições são rejeitados
//   - placesPaid e fração each-way caem nos defaults quando ausentes ou
//     não numéricos (nunca rejeitados só por isso)
func (v Validator) Validate(raceID string, d Draft) (*racing.RaceResult, error) {
	winner := d.Placements[1]
	if winner.HorseName == "" {
		return nil, ErrMissingWinner
	}

	seen := make(map[string]struct{})
	for pos := 1; pos <= MaxPositions; pos++ {
		name := d.Placements[pos].HorseName
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			return nil, ErrDuplicateHorse
		}
		seen[name] = struct{}{}
	}

	var placements []racing.Placement
	for pos := 1; pos <= MaxPositions; pos++ {
		p := d.Placements[pos]
		if p.HorseName == "" {
			continue
		}

		odds, ok := settlement.ParseOdds(p.OddsInput)
		if !ok || odds <= 1 {
			continue
		}

		placements = append(placements, racing.Placement{
			Position:    pos,
			HorseName:   p.HorseName,
			OddsDecimal: odds,
			OddsDisplay: p.OddsInput,
		})
	}

	if len(placements) == 0 {
		return nil, ErrMissingOdds
	}

	placesPaid := v.Defaults.PlacesPaid
	if n, err := strconv.Atoi(d.PlacesPaid); err == nil && n >= 1 {
		placesPaid = n
	}

	eachWay := v.Defaults.EachWayFraction
	if f, ok := settlement.ParseFraction(d.EachWayFraction); ok && f > 0 && f <= 1 {
		eachWay = f
	}

	winnerHorse := winner.HorseName
	for _, p := range placements {
		if p.Position == 1 {
			winnerHorse = p.HorseName
		}
	}

	return &racing.RaceResult{
		RaceID:          raceID,
		WinnerHorse:     winnerHorse, // compat com leitores do shape antigo
		Placements:      placements,
		PlacesPaid:      placesPaid,
		EachWayFraction: eachWay,
	}, nil
}
