package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/radieske/racing-tips-platform/internal/shared/racing"
)

// Postgres implementa a persistência de palpites e a leitura do card
type Postgres struct{ db *sql.DB }

// NewPostgres retorna uma instância do repositório de palpites
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// RaceByID carrega um páreo do card
func (p *Postgres) RaceByID(ctx context.Context, raceID string) (racing.Race, error) {
	var r racing.Race
	var horses pq.StringArray
	err := p.db.QueryRowContext(ctx, `
		SELECT id, name, date, lock_at, horses FROM races WHERE id=$1`, raceID,
	).Scan(&r.ID, &r.Name, &r.Date, &r.LockAt, &horses)
	if err != nil {
		return racing.Race{}, err
	}
	r.Horses = horses
	return r, nil
}

// UpsertTip grava um palpite. A chave "{userId}_{raceId}" garante no máximo
// um por (usuário, páreo): submissão posterior sobrescreve, não acumula.
func (p *Postgres) UpsertTip(ctx context.Context, t racing.Tip) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO tips (id,user_id,user_email,race_id,horse_name,lock_at,created_at,updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$7)
		ON CONFLICT (id) DO UPDATE SET
		  horse_name = EXCLUDED.horse_name,
		  user_email = EXCLUDED.user_email,
		  lock_at    = EXCLUDED.lock_at,
		  updated_at = EXCLUDED.updated_at`,
		t.ID, t.UserID, t.UserEmail, t.RaceID, t.HorseName, t.LockAt, t.UpdatedAt,
	)
	return err
}

// TipsByUser lista os palpites de um usuário com nome e data do páreo
func (p *Postgres) TipsByUser(ctx context.Context, userID string) ([]UserTip, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT t.id, t.user_id, t.user_email, t.race_id, t.horse_name,
		       t.lock_at, t.created_at, t.updated_at,
		       COALESCE(r.name,''), COALESCE(r.date,'')
		FROM tips t
		LEFT JOIN races r ON r.id = t.race_id
		WHERE t.user_id = $1
		ORDER BY r.date, r.lock_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []UserTip
	for rows.Next() {
		var ut UserTip
		if err := rows.Scan(
			&ut.ID, &ut.UserID, &ut.UserEmail, &ut.RaceID, &ut.HorseName,
			&ut.LockAt, &ut.CreatedAt, &ut.UpdatedAt,
			&ut.RaceName, &ut.RaceDate,
		); err != nil {
			return nil, err
		}
		out = append(out, ut)
	}
	return out, rows.Err()
}

// ResultsByRace carrega os resultados apurados dos páreos informados
func (p *Postgres) ResultsByRace(ctx context.Context, raceIDs []string) (map[string]*racing.RaceResult, error) {
	if len(raceIDs) == 0 {
		return map[string]*racing.RaceResult{}, nil
	}

	rows, err := p.db.QueryContext(ctx, `
		SELECT race_id, COALESCE(winner_horse,''), places_paid, each_way_fraction, placements
		FROM results WHERE race_id = ANY($1)`, pq.Array(raceIDs))
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
