package events

// Evento publicado no tópico "tip_placed" a cada upsert de palpite.
type TipPlaced struct {
	TipID     string `json:"tip_id"` // "{userId}_{raceId}"
	UserID    string `json:"user_id"`
	UserEmail string `json:"user_email,omitempty"`
	RaceID    string `json:"race_id"`
	HorseName string `json:"horse_name"`
	TsUnixMs  int64  `json:"ts_unix_ms"`
}
