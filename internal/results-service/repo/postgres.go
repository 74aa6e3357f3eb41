package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/radieske/racing-tips-platform/internal/shared/racing"
)

// Postgres implementa a persistência dos resultados apurados
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// UpsertResult grava o documento autoritativo de um páreo (last-write-wins).
// Substituir um resultado re-liquida todos os palpites retroativamente na
// próxima recomputação; nenhum payout fica cacheado.
func (p *Postgres) UpsertResult(ctx context.Context, res *racing.RaceResult) error {
	placements, err := json.Marshal(res.Placements)
	if err != nil {
		return fmt.Errorf("encode placements: %w", err)
	}

	_, err = p.db.ExecContext(ctx, `
		INSERT INTO results (race_id, winner_horse, places_paid, each_way_fraction, placements, updated_at)
		VALUES ($1,$2,$3,$4,$5,NOW())
		ON CONFLICT (race_id) DO UPDATE SET
		  winner_horse      = EXCLUDED.winner_horse,
		  places_paid       = EXCLUDED.places_paid,
		  each_way_fraction = EXCLUDED.each_way_fraction,
		  placements        = EXCLUDED.placements,
		  updated_at        = EXCLUDED.updated_at`,
		res.RaceID, res.WinnerHorse, res.PlacesPaid, res.EachWayFraction, placements,
	)
	return err
}

// InsertAudit registra cada declaração de resultado (trilha do admin)
func (p *Postgres) InsertAudit(ctx context.Context, res *racing.RaceResult) error {
	placements, err := json.Marshal(res.Placements)
	if err != nil {
		return fmt.Errorf("encode placements: %w", err)
	}

	_, err = p.db.ExecContext(ctx, `
		INSERT INTO result_audit (id, race_id, placements, declared_at)
		VALUES ($1,$2,$3,$4)`,
		uuid.NewString(), res.RaceID, placements, time.Now(),
	)
	return err
}

// RaceResultRow é a visão de resultado por páreo (tela Results)
type RaceResultRow struct {
	RaceID      string `json:"raceId"`
	RaceName    string `json:"raceName"`
	Date        string `json:"date"`
	Pending     bool   `json:"pending"`
	WinnerHorse string `json:"winnerHorse,omitempty"`
	OddsDisplay string `json:"oddsDisplay,omitempty"`
}

// ListByRace lista todos os páreos do card com o estado da apuração
func (p *Postgres) ListByRace(ctx context.Context) ([]RaceResultRow, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT r.id, r.name, r.date,
		       res.race_id IS NULL AS pending,
		       COALESCE(res.winner_horse,''),
		       COALESCE(res.placements,'[]'::jsonb)
		FROM races r
		LEFT JOIN results res ON res.race_id = r.id
		ORDER BY r.date, r.lock_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RaceResultRow
	for rows.Next() {
		var row RaceResultRow
		var placements []byte
		if err := rows.Scan(&row.RaceID, &row.RaceName, &row.Date, &row.Pending, &row.WinnerHorse, &placements); err != nil {
			return nil, err
		}

		var pl []racing.Placement
		if err := json.Unmarshal(placements, &pl); err != nil {
			return nil, fmt.Errorf("decode placements %s: %w", row.RaceID, err)
		}
		for _, p := range pl {
			if p.Position == 1 {
				if row.WinnerHorse == "" {
					row.WinnerHorse = p.HorseName
				}
				row.OddsDisplay = p.OddsDisplay
			}
		}

		out = append(out, row)
	}
	return out, rows.Err()
}

// ClearAll remove todos os resultados (helper de teste do admin)
func (p *Postgres) ClearAll(ctx context.Context) (int64, error) {
	res, err := p.db.ExecContext(ctx, `DELETE FROM results`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
