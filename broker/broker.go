// Package broker provides in-process pub/sub between the signalling
// components. Messages are addressed by a topic and a detail; outbound client
// messages use the ClientSocket topic with the connection handle as detail.
package broker

import (
	"sync"

	"github.com/iSubhamMani/airwave/broker/channel"
	"github.com/iSubhamMani/airwave/broker/subscription"
)

// Topics.
const (
	Room Topic = iota
	Signal
	ClientSocket
)

// Details for the Room topic.
const (
	CREATE     Detail = "CREATE"
	JOIN       Detail = "JOIN"
	END        Detail = "END"
	DISCONNECT Detail = "DISCONNECT"
)

// Details for the Signal topic.
const (
	OFFER       Detail = "OFFER"
	ANSWER      Detail = "ANSWER"
	STREAM      Detail = "STREAM"
	RENEGOTIATE Detail = "RENEGOTIATE"
	COMPLETE    Detail = "COMPLETE"
)

// Topic groups related message channels.
type Topic int

// Detail addresses one channel within a topic.
type Detail string

// Broker routes messages from publishers to subscribers.
type Broker struct {
	mu       sync.RWMutex
	channels map[Topic]map[Detail]*channel.Channel
}

// New creates a new Broker.
func New() *Broker {
	return &Broker{
		channels: map[Topic]map[Detail]*channel.Channel{},
	}
}

// Publish sends a message to all subscribers of the topic and detail. A
// message published where nobody listens is dropped; there is no delivery
// guarantee.
func (b *Broker) Publish(topic Topic, detail Detail, message any) error {
	b.mu.RLock()
	ch := b.lookup(topic, detail)
	b.mu.RUnlock()

	if ch == nil {
		return nil
	}
	ch.SendAll(message)
	return nil
}

// Subscribe registers a new subscription for the topic and detail.
func (b *Broker) Subscribe(topic Topic, detail Detail) *subscription.Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	details, ok := b.channels[topic]
	if !ok {
		details = map[Detail]*channel.Channel{}
		b.channels[topic] = details
	}
	ch, ok := details[detail]
	if !ok {
		ch = channel.New()
		details[detail] = ch
	}

	sub := subscription.New()
	ch.AddSubscription(sub)
	return sub
}

// Unsubscribe removes a subscription and closes it. Empty channels are
// removed so short-lived socket details don't accumulate.
func (b *Broker) Unsubscribe(topic Topic, detail Detail, sub *subscription.Subscription) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := b.lookup(topic, detail)
	if ch == nil {
		return nil
	}
	ch.RemoveSubscription(sub)
	if ch.Size() == 0 {
		delete(b.channels[topic], detail)
	}
	return nil
}

// Has reports whether anyone is subscribed to the topic and detail.
func (b *Broker) Has(topic Topic, detail Detail) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ch := b.lookup(topic, detail)
	return ch != nil && ch.Size() > 0
}

func (b *Broker) lookup(topic Topic, detail Detail) *channel.Channel {
	details, ok := b.channels[topic]
	if !ok {
		return nil
	}
	return details[detail]
}
