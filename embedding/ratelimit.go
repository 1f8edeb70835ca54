package embedding

import "golang.org/x/time/rate"

// newMinuteLimiter builds a limiter admitting callsPerMinute upstream calls,
// with the full minute's budget available as burst. Waiters are admitted in
// FIFO order. Zero or negative disables limiting.
func newMinuteLimiter(callsPerMinute int) *rate.Limiter {
	if callsPerMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(callsPerMinute)/60, callsPerMinute)
}
