// Package client contains a signalling client. This client will be used for test.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/iSubhamMani/airwave/types/client/request"
	"github.com/iSubhamMani/airwave/types/client/response"
	"github.com/pion/webrtc/v4"
)

const defaultWaitTimeout = 5 * time.Second

// ErrRejected is returned when the server answers a request with room:error.
var ErrRejected = errors.New("request rejected")

// Client is a user of the signalling server.
type Client struct {
	identity  string
	serverURL string
	socketID  string
	socket    *websocket.Conn
}

// New creates a new signalling client.
func New(serverURL, identity string) *Client {
	return &Client{
		serverURL: serverURL,
		identity:  identity,
	}
}

// Connect dials the server and waits for the connection handle assignment.
func (c *Client) Connect() error {
	u := url.URL{Scheme: "ws", Host: c.serverURL, Path: "/ws"}
	wsConn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to dial: %w", err)
	}
	c.socket = wsConn

	var ready response.Ready
	if err := c.WaitFor(response.READY, &ready); err != nil {
		return err
	}
	c.socketID = ready.SocketID
	return nil
}

// Close closes the socket.
func (c *Client) Close() error {
	return c.socket.Close()
}

// SocketID returns the connection handle the server assigned.
func (c *Client) SocketID() string {
	return c.socketID
}

// CreateRoom asks for a fresh room and returns its id.
func (c *Client) CreateRoom() (string, error) {
	if err := c.send(request.CREATE, request.Create{Identity: c.identity}); err != nil {
		return "", err
	}
	var created response.Created
	if err := c.WaitFor(response.CREATED, &created); err != nil {
		return "", err
	}
	return created.RoomID, nil
}

// JoinRoom joins the given room and returns the peer's connection handle.
func (c *Client) JoinRoom(roomID string) (string, error) {
	if err := c.send(request.JOIN, request.Join{RoomID: roomID, Identity: c.identity}); err != nil {
		return "", err
	}
	var joined response.Joined
	if err := c.WaitFor(response.JOINED, &joined); err != nil {
		return "", err
	}
	return joined.SocketID, nil
}

// WaitGuest waits until a guest joins and returns the guest's handle.
func (c *Client) WaitGuest() (string, error) {
	var joined response.GuestJoined
	if err := c.WaitFor(response.GUESTJOINED, &joined); err != nil {
		return "", err
	}
	return joined.SocketID, nil
}

// SendOffer sends a call offer to the peer.
func (c *Client) SendOffer(to string, offer webrtc.SessionDescription) error {
	body, err := json.Marshal(offer)
	if err != nil {
		return fmt.Errorf("failed to marshal offer: %w", err)
	}
	return c.send(request.OFFER, request.Offer{To: to, Offer: body})
}

// WaitIncoming waits for an incoming call offer.
func (c *Client) WaitIncoming() (response.Incoming, error) {
	var incoming response.Incoming
	err := c.WaitFor(response.INCOMING, &incoming)
	return incoming, err
}

// Accept answers an incoming call offer.
func (c *Client) Accept(to string, offer json.RawMessage) error {
	// 1. Create a new peer connection
	conn, err := webrtc.NewPeerConnection(webrtc.Configuration{})
	if err != nil {
		return err
	}

	// 2. Apply the peer's offer and answer it
	var remote webrtc.SessionDescription
	if err := json.Unmarshal(offer, &remote); err != nil {
		return fmt.Errorf("failed to unmarshal offer: %w", err)
	}
	if err := conn.SetRemoteDescription(remote); err != nil {
		return err
	}
	answer, err := conn.CreateAnswer(&webrtc.AnswerOptions{})
	if err != nil {
		return err
	}

	body, err := json.Marshal(answer)
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	return c.send(request.ACCEPTED, request.Accepted{To: to, Answer: body})
}

// WaitAccepted waits for the peer's answer to a call offer.
func (c *Client) WaitAccepted() (response.Accepted, error) {
	var accepted response.Accepted
	err := c.WaitFor(response.ACCEPTED, &accepted)
	return accepted, err
}

// RequestStream asks the peer to start sending media.
func (c *Client) RequestStream(to string) error {
	return c.send(request.STREAM, request.Stream{To: to})
}

// Renegotiate sends a mid-call renegotiation offer to the peer.
func (c *Client) Renegotiate(to string, offer webrtc.SessionDescription) error {
	body, err := json.Marshal(offer)
	if err != nil {
		return fmt.Errorf("failed to marshal offer: %w", err)
	}
	return c.send(request.RENEGOTIATE, request.Renegotiate{To: to, Offer: body})
}

// CompleteNegotiation sends the answer closing a renegotiation round.
func (c *Client) CompleteNegotiation(to string, answer json.RawMessage) error {
	return c.send(request.COMPLETE, request.Complete{To: to, Answer: answer})
}

// EndCall tells the server the call in the given room is over.
func (c *Client) EndCall(roomID string) error {
	return c.send(request.END, request.End{RoomID: roomID})
}

// NewOffer builds a real SDP offer for driving the signalling flow.
func NewOffer() (webrtc.SessionDescription, error) {
	conn, err := webrtc.NewPeerConnection(webrtc.Configuration{})
	if err != nil {
		return webrtc.SessionDescription{}, err
	}
	if _, err := conn.CreateDataChannel("control", nil); err != nil {
		return webrtc.SessionDescription{}, err
	}
	return conn.CreateOffer(&webrtc.OfferOptions{})
}

// send pushes one typed request to the server.
func (c *Client) send(reqType string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	if err := c.socket.WriteJSON(request.Common{Type: reqType, Payload: body}); err != nil {
		return fmt.Errorf("failed to send %s request: %w", reqType, err)
	}
	return nil
}

// WaitFor reads messages until one of the wanted type arrives and decodes it
// into v. A room:error received while waiting for anything else fails the wait.
func (c *Client) WaitFor(resType string, v any) error {
	deadline := time.Now().Add(defaultWaitTimeout)
	if err := c.socket.SetReadDeadline(deadline); err != nil {
		return fmt.Errorf("failed to set read deadline: %w", err)
	}
	for {
		_, data, err := c.socket.ReadMessage()
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}
		var head struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(data, &head); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
		if head.Type == response.ERROR && resType != response.ERROR {
			return fmt.Errorf("%w: %s", ErrRejected, head.Message)
		}
		if head.Type != resType {
			continue
		}
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse %s response: %w", resType, err)
		}
		return nil
	}
}
