// Package relay forwards opaque negotiation messages between two named
// connections. It never inspects offer or answer bodies; it only relabels the
// envelope and checks that the destination handle is presently bound.
package relay

import (
	"log"

	"github.com/iSubhamMani/airwave/broker"
	"github.com/iSubhamMani/airwave/database"
	"github.com/iSubhamMani/airwave/metric"
	"github.com/iSubhamMani/airwave/types/client/response"
	"github.com/iSubhamMani/airwave/types/message"
)

// Relay forwards negotiation messages through the broker.
type Relay struct {
	broker   *broker.Broker
	database database.Database
	metric   *metric.Metrics
}

// New creates a new instance of Relay.
func New(b *broker.Broker, db database.Database, m *metric.Metrics) *Relay {
	return &Relay{
		broker:   b,
		database: db,
		metric:   m,
	}
}

// Start runs the relay event loop.
func (r *Relay) Start() {
	offerEvent := r.broker.Subscribe(broker.Signal, broker.OFFER)
	answerEvent := r.broker.Subscribe(broker.Signal, broker.ANSWER)
	streamEvent := r.broker.Subscribe(broker.Signal, broker.STREAM)
	renegotiateEvent := r.broker.Subscribe(broker.Signal, broker.RENEGOTIATE)
	completeEvent := r.broker.Subscribe(broker.Signal, broker.COMPLETE)
	for {
		select {
		case event := <-offerEvent.Receive():
			go r.handleOffer(event)
		case event := <-answerEvent.Receive():
			go r.handleAnswer(event)
		case event := <-streamEvent.Receive():
			go r.handleStream(event)
		case event := <-renegotiateEvent.Receive():
			go r.handleRenegotiate(event)
		case event := <-completeEvent.Receive():
			go r.handleComplete(event)
		}
	}
}

// handleOffer forwards a call offer as incoming:call.
func (r *Relay) handleOffer(event any) {
	msg, ok := event.(message.Offer)
	if !ok {
		log.Printf("error occurs in parsing offer message %v", event)
		return
	}
	r.forward(msg.To, response.Incoming{
		Type:  response.INCOMING,
		From:  msg.From,
		Offer: msg.Offer,
	})
}

// handleAnswer forwards a call answer as call:accepted, echoing the
// destination handle back as the host tag.
func (r *Relay) handleAnswer(event any) {
	msg, ok := event.(message.Answer)
	if !ok {
		log.Printf("error occurs in parsing answer message %v", event)
		return
	}
	r.forward(msg.To, response.Accepted{
		Type:   response.ACCEPTED,
		Host:   msg.To,
		From:   msg.From,
		Answer: msg.Answer,
	})
}

// handleStream forwards a stream request as stream:send. No payload, just a
// trigger.
func (r *Relay) handleStream(event any) {
	msg, ok := event.(message.Stream)
	if !ok {
		log.Printf("error occurs in parsing stream message %v", event)
		return
	}
	r.forward(msg.To, response.Send{
		Type: response.SEND,
		From: msg.From,
	})
}

// handleRenegotiate forwards a renegotiation offer as negotiation:needed.
func (r *Relay) handleRenegotiate(event any) {
	msg, ok := event.(message.Renegotiate)
	if !ok {
		log.Printf("error occurs in parsing renegotiate message %v", event)
		return
	}
	r.forward(msg.To, response.Negotiation{
		Type:  response.NEGOTIATION,
		From:  msg.From,
		Offer: msg.Offer,
	})
}

// handleComplete forwards a renegotiation answer as negotiation:final.
func (r *Relay) handleComplete(event any) {
	msg, ok := event.(message.Complete)
	if !ok {
		log.Printf("error occurs in parsing complete message %v", event)
		return
	}
	r.forward(msg.To, response.Final{
		Type:   response.FINAL,
		From:   msg.From,
		Answer: msg.Answer,
	})
}

// forward delivers the relabeled envelope to the destination handle. An
// unbound destination drops the message; the sender is never told.
func (r *Relay) forward(to string, msg any) {
	bound, err := r.database.ContainsSocket(to)
	if err != nil {
		log.Printf("error occurs in resolving destination %s: %v", to, err)
		return
	}
	if !bound {
		r.metric.IncrementRelayDrops()
		log.Printf("dropping message for unbound destination %s", to)
		return
	}
	if err := r.broker.Publish(broker.ClientSocket, broker.Detail(to), msg); err != nil {
		log.Printf("error occurs in publishing relay message %v", err)
	}
}
