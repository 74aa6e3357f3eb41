package events

// Evento publicado no tópico "profile_updated" quando um display name muda.
type ProfileUpdated struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	TsUnixMs    int64  `json:"ts_unix_ms"`
}
