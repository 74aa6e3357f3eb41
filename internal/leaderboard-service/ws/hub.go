package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/radieske/racing-tips-platform/internal/shared/leaderboard"
)

// writeTimeout limita quanto tempo um cliente lento pode segurar o fan-out
const writeTimeout = 5 * time.Second

// Hub gerencia conexões WebSocket e assinaturas por escopo de ranking
// subs: mapeia escopo ("day"/"all") para o conjunto de conexões inscritas
type Hub struct {
	upgrader websocket.Upgrader
	mu       sync.RWMutex
	// scope -> set of connections
	subs map[string]map[*websocket.Conn]struct{}
}

// NewHub cria uma instância de Hub com política customizada de origem (CORS)
func NewHub(allowOrigin func(r *http.Request) bool) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{CheckOrigin: allowOrigin},
		subs:     make(map[string]map[*websocket.Conn]struct{}),
	}
}

// HandleWS gerencia o ciclo de vida de uma conexão WebSocket
// Permite subscribe/unsubscribe por escopo e responde a pings
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	for {
		var msg ClientMsg
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		switch msg.Type {
		case "subscribe":
			h.mu.Lock()
			if _, ok := h.subs[msg.Scope]; !ok {
				h.subs[msg.Scope] = make(map[*websocket.Conn]struct{})
			}
			h.subs[msg.Scope][conn] = struct{}{}
			h.mu.Unlock()
		case "unsubscribe":
			h.mu.Lock()
			if m, ok := h.subs[msg.Scope]; ok {
				delete(m, conn)
				if len(m) == 0 {
					delete(h.subs, msg.Scope)
				}
			}
			h.mu.Unlock()
		case "ping":
			_ = conn.WriteJSON(map[string]string{"type": "pong"})
		}
	}
	// Remove a conexão de todas as assinaturas ao desconectar
	h.mu.Lock()
	for _, set := range h.subs {
		delete(set, conn)
	}
	h.mu.Unlock()
}

// Broadcast envia um snapshot recomputado para os clientes do escopo.
// O conjunto é copiado sob o lock: HandleWS muda o mapa interno em paralelo
// e iterar direto nele seria leitura sem sincronização.
func (h *Hub) Broadcast(board leaderboard.Board) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.subs[board.Scope]))
	for c := range h.subs[board.Scope] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()
	if len(conns) == 0 {
		return
	}

	b, _ := json.Marshal(board)
	var dead []*websocket.Conn
	for _, c := range conns {
		_ = c.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			dead = append(dead, c)
		}
	}

	// cliente travado ou desconectado sai do fan-out; fechar a conexão
	// encerra o loop de leitura dele no HandleWS
	if len(dead) > 0 {
		h.mu.Lock()
		for _, c := range dead {
			for _, set := range h.subs {
				delete(set, c)
			}
			_ = c.Close()
		}
		h.mu.Unlock()
	}
}
