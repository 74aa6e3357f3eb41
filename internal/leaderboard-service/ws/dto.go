package ws

// ClientMsg é o protocolo de controle do cliente WebSocket
type ClientMsg struct {
	Type  string `json:"type"`  // "subscribe" | "unsubscribe" | "ping"
	Scope string `json:"scope"` // "day" | "all"
}
