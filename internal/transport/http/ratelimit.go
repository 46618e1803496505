package http

import (
	"time"

	"golang.org/x/time/rate"
)

// eventLimiter caps inbound websocket events per connection. A nil limiter
// allows everything.
type eventLimiter struct {
	limiter *rate.Limiter
}

// newEventLimiter allows perMinute events per minute with a burst of the same
// size. perMinute <= 0 disables limiting.
func newEventLimiter(perMinute int) *eventLimiter {
	if perMinute <= 0 {
		return nil
	}
	every := time.Minute / time.Duration(perMinute)
	return &eventLimiter{limiter: rate.NewLimiter(rate.Every(every), perMinute)}
}

func (l *eventLimiter) allow() bool {
	if l == nil {
		return true
	}
	return l.limiter.Allow()
}
