package push

import "time"

const (
	baseDelay   = time.Second
	maxDelay    = 30 * time.Second
	maxAttempts = 10
)

// Delay returns the wait before reconnect attempt n+1 after n consecutive
// failures: base doubling per failure, capped at maxDelay.
func Delay(failures int) time.Duration {
	if failures < 0 {
		failures = 0
	}
	delay := baseDelay
	for i := 0; i < failures; i++ {
		delay *= 2
		if delay >= maxDelay {
			return maxDelay
		}
	}
	return delay
}
