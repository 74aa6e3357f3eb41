package leaderboard

// Escopos publicados no cache e no Pub/Sub.
const (
	ScopeNameDay = "day"
	ScopeNameAll = "all"
)

// Board é o snapshot publicado de um ranking recomputado: o que o cache
// guarda e o WebSocket repassa. Sempre o resultado de uma recomputação
// completa, nunca um patch incremental.
type Board struct {
	Scope     string `json:"scope"`               // "day" | "all"
	ActiveDay string `json:"activeDay,omitempty"` // só no escopo "day"
	Rows      []Row  `json:"rows"`
	TsUnixMs  int64  `json:"ts_unix_ms"`
}
