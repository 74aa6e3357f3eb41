package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/radieske/racing-tips-platform/internal/shared/racing"
)

// ReadRepo faz as leituras do fallback de cache miss e da listagem do card
type ReadRepo struct {
	DB *sql.DB
}

// ListRaces lista o card completo em ordem de largada
func (r *ReadRepo) ListRaces(ctx context.Context) ([]racing.Race, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, date, lock_at, horses FROM races ORDER BY date, lock_at`)
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

// ListTips carrega todos os palpites (fallback de recomputação)
func (r *ReadRepo) ListTips(ctx context.Context) ([]racing.Tip, error) {
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

// ResultsByRace carrega todos os resultados apurados
func (r *ReadRepo) ResultsByRace(ctx context.Context) (map[string]*racing.RaceResult, error) {
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

// ProfilesByUser carrega todos os perfis
func (r *ReadRepo) ProfilesByUser(ctx context.Context) (map[string]racing.Profile, error) {
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
