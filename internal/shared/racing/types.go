package racing

// Race é um páreo agendado. Criado por configuração (race-seeder), nunca
// mutado em runtime.
type Race struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Date   string   `json:"date"`   // dia do card, "YYYY-MM-DD" no fuso do operador
	LockAt int64    `json:"lockAt"` // epoch-millis; 0 = sem trava
	Horses []string `json:"horses"`
}

// Tip é o palpite de um usuário num páreo. No máximo um por (userId, raceId):
// o id determinístico "{userId}_{raceId}" faz o upsert sobrescrever em vez de
// acumular.
type Tip struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	UserEmail string `json:"userEmail,omitempty"`
	RaceID    string `json:"raceId"`
	HorseName string `json:"horseName"`
	LockAt    int64  `json:"lockAt"` // snapshot do lockAt do páreo na hora do palpite
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// TipID monta a chave de upsert de um palpite.
func TipID(userID, raceID string) string { return userID + "_" + raceID }

// Placement é uma posição de chegada apurada com as odds de fechamento.
// position é único dentro de um resultado; horseName também.
type Placement struct {
	Position    int     `json:"position"` // 1..8
	HorseName   string  `json:"horseName"`
	OddsDecimal float64 `json:"oddsDecimal"` // > 1
	OddsDisplay string  `json:"oddsDisplay"` // texto original ("5/1", "3.5")
}

// ResultKind discrimina as variantes de resultado em vez de ramificar por
// shape em runtime como o documento legado fazia.
type ResultKind int

const (
	ResultPending    ResultKind = iota // sem resultado: lucro zero, não é erro
	ResultWinnerOnly                   // documento antigo só com o vencedor
	ResultFull                         // placements completos com odds
)

// RaceResult é o documento autoritativo de apuração de um páreo.
// Substituí-lo re-liquida retroativamente todos os palpites (a recomputação
// é sempre total, sem cache de payout).
type RaceResult struct {
	RaceID          string      `json:"raceId"`
	WinnerHorse     string      `json:"winnerHorse,omitempty"` // variante legada
	Placements      []Placement `json:"placements,omitempty"`
	PlacesPaid      int         `json:"placesPaid"`
	EachWayFraction float64     `json:"eachWayFraction"`
}

// Kind resolve a variante do resultado. Um ponteiro nil é ResultPending.
func (r *RaceResult) Kind() ResultKind {
	switch {
	case r == nil:
		return ResultPending
	case len(r.Placements) > 0:
		return ResultFull
	case r.WinnerHorse != "":
		return ResultWinnerOnly
	default:
		return ResultPending
	}
}

// Profile é o perfil público de um usuário. displayName é gravado exatamente
// como digitado; a unicidade é por igualdade exata, sem normalização.
type Profile struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email,omitempty"`
}
