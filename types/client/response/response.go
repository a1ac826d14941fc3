// Package response provides data types for server response to client.
package response

import "encoding/json"

// Constants for response types. The values are the event names of the wire
// protocol.
const (
	READY            = "connection:ready"
	CREATED          = "room:created"
	JOINED           = "user:joined"
	GUESTJOINED      = "guest:joined"
	ERROR            = "room:error"
	INCOMING         = "incoming:call"
	ACCEPTED         = "call:accepted"
	SEND             = "stream:send"
	NEGOTIATION      = "negotiation:needed"
	FINAL            = "negotiation:final"
	PEERDISCONNECTED = "peer:disconnected"
	HOSTDISCONNECTED = "host:disconnected"
	ENDED            = "call:ended"
)

// Ready announces the connection handle assigned to the client.
type Ready struct {
	Type     string `json:"type"`
	SocketID string `json:"socketId"`
}

// Created is sent to the caller after a room has been created.
type Created struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
}

// Joined is sent to the joining caller and carries the peer's handle.
type Joined struct {
	Type     string `json:"type"`
	RoomID   string `json:"roomId"`
	SocketID string `json:"socketId"`
}

// GuestJoined is sent to the host when a guest joins or reconnects.
type GuestJoined struct {
	Type     string `json:"type"`
	SocketID string `json:"socketId"`
}

// Error is sent to the caller when a request is rejected.
type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Incoming carries a relayed call offer.
type Incoming struct {
	Type  string          `json:"type"`
	From  string          `json:"from"`
	Offer json.RawMessage `json:"offer"`
}

// Accepted carries a relayed call answer. Host echoes the destination handle
// back so the receiver can distinguish host and guest context.
type Accepted struct {
	Type   string          `json:"type"`
	Host   string          `json:"host"`
	From   string          `json:"from"`
	Answer json.RawMessage `json:"answer"`
}

// Send asks the receiver to start sending its stream.
type Send struct {
	Type string `json:"type"`
	From string `json:"from"`
}

// Negotiation carries a relayed renegotiation offer.
type Negotiation struct {
	Type  string          `json:"type"`
	From  string          `json:"from"`
	Offer json.RawMessage `json:"offer"`
}

// Final carries a relayed renegotiation answer.
type Final struct {
	Type   string          `json:"type"`
	From   string          `json:"from"`
	Answer json.RawMessage `json:"answer"`
}

// PeerDisconnected notifies the host that the guest left.
type PeerDisconnected struct {
	Type string `json:"type"`
}

// HostDisconnected notifies the guest that the host left.
type HostDisconnected struct {
	Type string `json:"type"`
}

// Ended notifies the host that the guest ended the call.
type Ended struct {
	Type string `json:"type"`
}
