package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/radieske/racing-tips-platform/internal/shared/racing"
	"github.com/radieske/racing-tips-platform/pkg/contracts/events"
)

// Store é o recorte de persistência que o servidor precisa
type Store interface {
	Get(ctx context.Context, userID string) (racing.Profile, error)
	NameTakenByOther(ctx context.Context, displayName, userID string) (bool, error)
	Upsert(ctx context.Context, prof racing.Profile) error
}

type Server struct {
	log   *zap.Logger
	store Store
	publ  interface {
		PublishProfileUpdated(context.Context, events.ProfileUpdated) error
	}
}

func NewServer(log *zap.Logger, s Store, p interface {
	PublishProfileUpdated(context.Context, events.ProfileUpdated) error
}) *Server {
	return &Server{log: log, store: s, publ: p}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/profile/", s.profile) // GET | PUT /profile/{userId}
	return mux
}

type updateProfileRequest struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimPrefix(r.URL.Path, "/profile/")
	if userID == "" || strings.Contains(userID, "/") {
		http.Error(w, "userId required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.getProfile(w, r, userID)
	case http.MethodPut:
		s.putProfile(w, r, userID)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request, userID string) {
	prof, err := s.store.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, prof)
}

func (s *Server) putProfile(w http.ResponseWriter, r *http.Request, userID string) {
	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.DisplayName == "" {
		http.Error(w, "displayName required", http.StatusBadRequest)
		return
	}

	// Nome é gravado exatamente como digitado; unicidade por igualdade exata
	taken, err := s.store.NameTakenByOther(r.Context(), req.DisplayName, userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if taken {
		http.Error(w, "display name already in use", http.StatusConflict)
		return
	}

	prof := racing.Profile{UserID: userID, DisplayName: req.DisplayName, Email: req.Email}
	if err := s.store.Upsert(r.Context(), prof); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	_ = s.publ.PublishProfileUpdated(r.Context(), events.ProfileUpdated{
		UserID:      userID,
		DisplayName: req.DisplayName,
	})

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
