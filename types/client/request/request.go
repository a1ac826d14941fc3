// Package request contains client request types.
package request

import "encoding/json"

// Constants for request types. The values are the event names of the wire
// protocol.
const (
	CREATE      = "room:create"
	JOIN        = "room:join"
	OFFER       = "call:offer"
	ACCEPTED    = "call:accepted"
	STREAM      = "stream:request"
	RENEGOTIATE = "negotiation:offer"
	COMPLETE    = "negotiation:answer"
	END         = "call:end"
)

// Common is data type that must be implemented in all request
type Common struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Create is data type for creating a room.
type Create struct {
	Identity string `json:"identity"`
}

// Join is data type for joining a room.
type Join struct {
	RoomID   string `json:"roomId"`
	Identity string `json:"identity"`
}

// Offer is data type for sending a call offer. The offer body is opaque to
// the server.
type Offer struct {
	To    string          `json:"to"`
	Offer json.RawMessage `json:"offer"`
}

// Accepted is data type for answering a call offer.
type Accepted struct {
	To     string          `json:"to"`
	Answer json.RawMessage `json:"answer"`
}

// Stream is data type for requesting the peer's stream.
type Stream struct {
	To string `json:"to"`
}

// Renegotiate is data type for sending a renegotiation offer.
type Renegotiate struct {
	To    string          `json:"to"`
	Offer json.RawMessage `json:"offer"`
}

// Complete is data type for sending a renegotiation answer.
type Complete struct {
	To     string          `json:"to"`
	Answer json.RawMessage `json:"answer"`
}

// End is data type for ending a call.
type End struct {
	RoomID string `json:"roomId"`
}
