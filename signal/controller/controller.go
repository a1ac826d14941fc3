// Package controller handles the per-connection request logic.
package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/iSubhamMani/airwave/broker"
	"github.com/iSubhamMani/airwave/broker/subscription"
	"github.com/iSubhamMani/airwave/metric"
	"github.com/iSubhamMani/airwave/pkg/socket"
	"github.com/iSubhamMani/airwave/types/client/request"
	"github.com/iSubhamMani/airwave/types/client/response"
	"github.com/iSubhamMani/airwave/types/message"
)

// Controller handles socket requests.
type Controller struct {
	broker *broker.Broker
	metric *metric.Metrics
}

// New creates a new instance of Controller.
func New(b *broker.Broker, m *metric.Metrics) *Controller {
	return &Controller{
		broker: b,
		metric: m,
	}
}

// Process runs the lifecycle of one client connection. It assigns the
// connection handle, pumps responses until the socket closes and reports the
// disconnect so the room state can be reconciled.
func (c *Controller) Process(s socket.Socket) error {
	c.metric.IncrementWebSocketConnections()
	defer c.metric.DecrementWebSocketConnections()

	// 01. Build the context for the response goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
	}()

	// 02. Assign the connection handle and announce it to the client
	socketID := uuid.NewString()
	if err := s.WriteJSON(response.Ready{
		Type:     response.READY,
		SocketID: socketID,
	}); err != nil {
		return fmt.Errorf("failed to send ready response: %w", err)
	}

	defer func() {
		if err := c.broker.Publish(broker.Room, broker.DISCONNECT, message.Disconnect{
			SocketID: socketID,
		}); err != nil {
			log.Printf("failed to publish disconnect message: %v", err)
		}
	}()

	// 03. Subscribe before reading requests so a response to the first
	// request cannot be published ahead of the subscription
	detail := broker.Detail(socketID)
	sub := c.broker.Subscribe(broker.ClientSocket, detail)
	go c.sendResponse(ctx, s, detail, sub)

	if err := c.receiveRequest(s, socketID); err != nil {
		return fmt.Errorf("failed to receive request: %w", err)
	}
	return nil
}

// sendResponse sends response to the client.
func (c *Controller) sendResponse(ctx context.Context, s socket.Socket, detail broker.Detail, sub *subscription.Subscription) {
	defer func() {
		if err := c.broker.Unsubscribe(broker.ClientSocket, detail, sub); err != nil {
			log.Printf("Error occurs in unsubscribe: %v", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-sub.Receive():
			if err := s.WriteJSON(msg); err != nil {
				log.Printf("Failed to send response: %v", err)
				return
			}
		}
	}
}

// receiveRequest receives request from the socket and calls handleRequest.
func (c *Controller) receiveRequest(s socket.Socket, socketID string) error {
	for {
		var req request.Common
		if err := s.ReadJSON(&req); err != nil {
			return fmt.Errorf("failed to parse common message: %v", err)
		}
		if err := c.handleRequest(req, socketID); err != nil {
			log.Printf("Error handling request: %v", err)
			continue
		}
	}
}

// handleRequest parses the request type and calls the corresponding handler
// function. A malformed request never tears down the connection.
func (c *Controller) handleRequest(req request.Common, socketID string) error {
	var err error
	switch req.Type {
	case request.CREATE:
		err = c.handleCreate(req, socketID)
	case request.JOIN:
		err = c.handleJoin(req, socketID)
	case request.OFFER:
		err = c.handleOffer(req, socketID)
	case request.ACCEPTED:
		err = c.handleAccepted(req, socketID)
	case request.STREAM:
		err = c.handleStream(req, socketID)
	case request.RENEGOTIATE:
		err = c.handleRenegotiate(req, socketID)
	case request.COMPLETE:
		err = c.handleComplete(req, socketID)
	case request.END:
		err = c.handleEnd(req, socketID)
	default:
		err = fmt.Errorf("invalid request type: %s", req.Type)
	}
	return err
}

// handleCreate handles the room:create event. The caller becomes host of a
// freshly allocated room.
func (c *Controller) handleCreate(req request.Common, socketID string) error {
	var payload request.Create
	if err := json.Unmarshal(req.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal create payload: %w", err)
	}
	if payload.Identity == "" {
		return fmt.Errorf("missing identity in create payload")
	}

	msg := message.Create{
		ClientID: payload.Identity,
		SocketID: socketID,
	}
	if err := c.broker.Publish(broker.Room, broker.CREATE, msg); err != nil {
		return fmt.Errorf("failed to publish create message: %w", err)
	}
	return nil
}

// handleJoin handles the room:join event. Host rebinds, guest rebinds and
// first-time admission are all resolved by the registry, not here.
func (c *Controller) handleJoin(req request.Common, socketID string) error {
	var payload request.Join
	if err := json.Unmarshal(req.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal join payload: %w", err)
	}
	if payload.RoomID == "" || payload.Identity == "" {
		return fmt.Errorf("missing room id or identity in join payload")
	}

	msg := message.Join{
		RoomID:   payload.RoomID,
		ClientID: payload.Identity,
		SocketID: socketID,
	}
	if err := c.broker.Publish(broker.Room, broker.JOIN, msg); err != nil {
		return fmt.Errorf("failed to publish join message: %w", err)
	}
	return nil
}

// handleOffer handles the call:offer event. The offer body stays opaque.
func (c *Controller) handleOffer(req request.Common, socketID string) error {
	var payload request.Offer
	if err := json.Unmarshal(req.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal offer payload: %w", err)
	}
	if payload.To == "" {
		return fmt.Errorf("missing destination in offer payload")
	}

	msg := message.Offer{
		To:    payload.To,
		From:  socketID,
		Offer: payload.Offer,
	}
	if err := c.broker.Publish(broker.Signal, broker.OFFER, msg); err != nil {
		return fmt.Errorf("failed to publish offer message: %w", err)
	}
	return nil
}

// handleAccepted handles the call:accepted event carrying the answer back.
func (c *Controller) handleAccepted(req request.Common, socketID string) error {
	var payload request.Accepted
	if err := json.Unmarshal(req.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal accepted payload: %w", err)
	}
	if payload.To == "" {
		return fmt.Errorf("missing destination in accepted payload")
	}

	msg := message.Answer{
		To:     payload.To,
		From:   socketID,
		Answer: payload.Answer,
	}
	if err := c.broker.Publish(broker.Signal, broker.ANSWER, msg); err != nil {
		return fmt.Errorf("failed to publish answer message: %w", err)
	}
	return nil
}

// handleStream handles the stream:request event, a bare trigger asking the
// peer to start sending media.
func (c *Controller) handleStream(req request.Common, socketID string) error {
	var payload request.Stream
	if err := json.Unmarshal(req.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal stream payload: %w", err)
	}
	if payload.To == "" {
		return fmt.Errorf("missing destination in stream payload")
	}

	msg := message.Stream{
		To:   payload.To,
		From: socketID,
	}
	if err := c.broker.Publish(broker.Signal, broker.STREAM, msg); err != nil {
		return fmt.Errorf("failed to publish stream message: %w", err)
	}
	return nil
}

// handleRenegotiate handles the negotiation:offer event for mid-call
// renegotiation.
func (c *Controller) handleRenegotiate(req request.Common, socketID string) error {
	var payload request.Renegotiate
	if err := json.Unmarshal(req.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal renegotiate payload: %w", err)
	}
	if payload.To == "" {
		return fmt.Errorf("missing destination in renegotiate payload")
	}

	msg := message.Renegotiate{
		To:    payload.To,
		From:  socketID,
		Offer: payload.Offer,
	}
	if err := c.broker.Publish(broker.Signal, broker.RENEGOTIATE, msg); err != nil {
		return fmt.Errorf("failed to publish renegotiate message: %w", err)
	}
	return nil
}

// handleComplete handles the negotiation:answer event closing a renegotiation
// round.
func (c *Controller) handleComplete(req request.Common, socketID string) error {
	var payload request.Complete
	if err := json.Unmarshal(req.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal complete payload: %w", err)
	}
	if payload.To == "" {
		return fmt.Errorf("missing destination in complete payload")
	}

	msg := message.Complete{
		To:     payload.To,
		From:   socketID,
		Answer: payload.Answer,
	}
	if err := c.broker.Publish(broker.Signal, broker.COMPLETE, msg); err != nil {
		return fmt.Errorf("failed to publish complete message: %w", err)
	}
	return nil
}

// handleEnd handles the call:end event.
func (c *Controller) handleEnd(req request.Common, socketID string) error {
	var payload request.End
	if err := json.Unmarshal(req.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal end payload: %w", err)
	}
	if payload.RoomID == "" {
		return fmt.Errorf("missing room id in end payload")
	}

	msg := message.End{
		RoomID:   payload.RoomID,
		SocketID: socketID,
	}
	if err := c.broker.Publish(broker.Room, broker.END, msg); err != nil {
		return fmt.Errorf("failed to publish end message: %w", err)
	}
	return nil
}
