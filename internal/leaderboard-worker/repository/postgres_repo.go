package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/radieske/racing-tips-platform/internal/shared/racing"
)

// PostgresRepo carrega o conjunto completo de entrada da recomputação.
// Nada é lido incrementalmente: cada recomputação parte do estado atual
// inteiro, então notificação duplicada ou fora de ordem no máximo gera
// trabalho redundante, nunca estado errado.
type PostgresRepo struct {
	DB *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{DB: db}
}

// Races carrega o card completo
func (r *PostgresRepo) Races(ctx context.Context) ([]racing.Race, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, name, date, lock_at, horses FROM races`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []racing.Race
	for rows.Next() {
		var race racing.Race
		var horses pq.StringArray
		if err := rows.Scan(&race.ID, &race.Name, &race.Date, &race.LockAt, &horses); err != nil {
			return nil, err
		}
		race.Horses = horses
		out = append(out, race)
	}
	return out, rows.Err()
}

// Tips carrega todos os palpites
func (r *PostgresRepo) Tips(ctx context.Context) ([]racing.Tip, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, user_email, race_id, horse_name, lock_at, created_at, updated_at
		FROM tips`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []racing.Tip
	for rows.Next() {
		var t racing.Tip
		if err := rows.Scan(&t.ID, &t.UserID, &t.UserEmail, &t.RaceID, &t.HorseName,
			&t.LockAt, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Results carrega todos os resultados apurados, indexados por páreo
func (r *PostgresRepo) Results(ctx context.Context) (map[string]*racing.RaceResult, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT race_id, COALESCE(winner_horse,''), places_paid, each_way_fraction, placements
		FROM results`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]*racing.RaceResult)
	for rows.Next() {
		var res racing.RaceResult
		var placements []byte
		if err := rows.Scan(&res.RaceID, &res.WinnerHorse, &res.PlacesPaid, &res.EachWayFraction, &placements); err != nil {
			return nil, err
		}
		if len(placements) > 0 {
			if err := json.Unmarshal(placements, &res.Placements); err != nil {
				return nil, fmt.Errorf("decode placements %s: %w", res.RaceID, err)
			}
		}
		out[res.RaceID] = &res
	}
	return out, rows.Err()
}

// Profiles carrega todos os perfis, indexados por usuário
func (r *PostgresRepo) Profiles(ctx context.Context) (map[string]racing.Profile, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, COALESCE(display_name,''), COALESCE(email,'') FROM users`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]racing.Profile)
	for rows.Next() {
		var p racing.Profile
		if err := rows.Scan(&p.UserID, &p.DisplayName, &p.Email); err != nil {
			return nil, err
		}
		out[p.UserID] = p
	}
	return out, rows.Err()
}
