package service

import (
	"context"

	"golang.org/x/time/rate"
)

// WriteThrottle paces database writes. A nil throttle never waits.
type WriteThrottle struct {
	limiter *rate.Limiter
}

// NewWriteThrottle allows perSecond writes with a burst of the same size.
// perSecond <= 0 disables throttling.
func NewWriteThrottle(perSecond int) *WriteThrottle {
	if perSecond <= 0 {
		return &WriteThrottle{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	return &WriteThrottle{limiter: rate.NewLimiter(rate.Limit(perSecond), perSecond)}
}

func (t *WriteThrottle) Wait(ctx context.Context) error {
	if t == nil {
		return nil
	}
	return t.limiter.Wait(ctx)
}
