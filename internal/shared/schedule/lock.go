package schedule

import (
	"time"

	"github.com/radieske/racing-tips-platform/internal/shared/racing"
)

// Locked indica se um páreo não aceita mais escrita de palpites.
// true sse lockAt está definido e now >= lockAt. Sem período de graça e sem
// tolerância a skew de relógio (limitação documentada, não bug).
//
// Os caminhos de escrita revalidam isto no instante do write, nunca só no
// render: o relógio pode ter avançado entre os dois.
func Locked(race racing.Race, now time.Time) bool {
	return race.LockAt != 0 && now.UnixMilli() >= race.LockAt
}

// UntilLock retorna quanto falta pra trava (<= 0 se já travou ou sem trava).
func UntilLock(race racing.Race, now time.Time) time.Duration {
	if race.LockAt == 0 {
		return 0
	}
	return time.Duration(race.LockAt-now.UnixMilli()) * time.Millisecond
}
