package events

// Evento emitido pelo results-service após validar e gravar um resultado.
// A recomputação lê o documento autoritativo do banco; o evento carrega
// apenas o suficiente para logging e gatilho.
type ResultDeclared struct {
	RaceID          string  `json:"race_id"`
	WinnerHorse     string  `json:"winner_horse"`
	Placements      int     `json:"placements"`
	PlacesPaid      int     `json:"places_paid"`
	EachWayFraction float64 `json:"each_way_fraction"`
	TsUnixMs        int64   `json:"ts_unix_ms"`
}
