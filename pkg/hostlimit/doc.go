// Package hostlimit caps how many requests a client keeps in flight to the
// crossword service.
//
// The cap is applied at the transport, so every caller sharing the client
// queues behind the same weighted semaphore regardless of how many
// goroutines it starts:
//
//	limiter := hostlimit.NewLimiter(hostlimit.DefaultLimit)
//	client := limiter.Client()
package hostlimit
