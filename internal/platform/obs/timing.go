package obs

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Time starts timing an operation and returns a func that logs its duration
// and outcome. Intended for `defer obs.Time(ctx, "op")(&err)`.
// The logger is taken from ctx (zerolog.Ctx); request-scoped fields such as
// req_id come along with it.
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()
	log := zerolog.Ctx(ctx)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Warn().Str("op", name).Int64("dur_ms", dur.Milliseconds()).Err(*errp).Msg("operation failed")
			return
		}
		log.Debug().Str("op", name).Int64("dur_ms", dur.Milliseconds()).Msg("operation completed")
	}
}
