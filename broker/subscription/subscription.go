// Package subscription provides the receiving end of a broker channel.
package subscription

// queueSize bounds how many undelivered messages a subscriber may hold.
// Messages beyond that are dropped, never queued forever.
const queueSize = 64

// Subscription is a single subscriber queue.
type Subscription struct {
	queue chan any
}

// New creates a new Subscription.
func New() *Subscription {
	return &Subscription{
		queue: make(chan any, queueSize),
	}
}

// Send enqueues a message. It reports false when the subscriber is too slow
// and the message was dropped.
func (s *Subscription) Send(message any) bool {
	select {
	case s.queue <- message:
		return true
	default:
		return false
	}
}

// Receive returns the channel messages arrive on.
func (s *Subscription) Receive() <-chan any {
	return s.queue
}

// Close closes the subscription queue.
func (s *Subscription) Close() {
	close(s.queue)
}
