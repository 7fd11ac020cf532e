package events

import "time"

var ExponentialBackoff = exponentialBackoff

// WithoutBackoff removes the wait between publish attempts.
func (f *Forwarder) WithoutBackoff() *Forwarder {
	f.backoff = func(int) time.Duration { return 0 }
	return f
}
