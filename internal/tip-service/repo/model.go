package repo

import "github.com/radieske/racing-tips-platform/internal/shared/racing"

// UserTip é um palpite com os dados do páreo já juntados na leitura.
type UserTip struct {
	racing.Tip
	RaceName string
	RaceDate string
}
