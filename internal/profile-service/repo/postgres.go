package repo

import (
	"context"
	"database/sql"

	"github.com/radieske/racing-tips-platform/internal/shared/racing"
)

// Postgres implementa a persistência dos perfis de usuário
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// Get carrega o perfil de um usuário
func (p *Postgres) Get(ctx context.Context, userID string) (racing.Profile, error) {
	var prof racing.Profile
	err := p.db.QueryRowContext(ctx, `
		SELECT id, COALESCE(display_name,''), COALESCE(email,'')
		FROM users WHERE id=$1`, userID,
	).Scan(&prof.UserID, &prof.DisplayName, &prof.Email)
	return prof, err
}

// NameTakenByOther verifica se o display name já pertence a outro usuário.
// Igualdade exata, sem trim nem normalização de caixa. A checagem é uma
// sondagem de aplicação, não linearizável: sob escrita concorrente dois
// usuários podem passar. Aceito, é questão de UX e se autocorrige.
func (p *Postgres) NameTakenByOther(ctx context.Context, displayName, userID string) (bool, error) {
	var one int
	err := p.db.QueryRowContext(ctx, `
		SELECT 1 FROM users WHERE display_name=$1 AND id<>$2 LIMIT 1`,
		displayName, userID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Upsert grava o perfil (last-write-wins)
func (p *Postgres) Upsert(ctx context.Context, prof racing.Profile) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO users (id, display_name, email, updated_at)
		VALUES ($1,$2,$3,NOW())
		ON CONFLICT (id) DO UPDATE SET
		  display_name = EXCLUDED.display_name,
		  email        = EXCLUDED.email,
		  updated_at   = EXCLUDED.updated_at`,
		prof.UserID, prof.DisplayName, prof.Email,
	)
	return err
}
