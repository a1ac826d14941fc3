// Package message provides data types for broker message.
package message

import "encoding/json"

// Create is data type for creating a room.
type Create struct {
	ClientID string
	SocketID string
}

// Join is data type for joining a room.
type Join struct {
	RoomID   string
	ClientID string
	SocketID string
}

// End is data type for ending a call.
type End struct {
	RoomID   string
	SocketID string
}

// Disconnect is data type for a closed socket connection.
type Disconnect struct {
	SocketID string
}

// Offer is data type for relaying a call offer.
type Offer struct {
	To    string
	From  string
	Offer json.RawMessage
}

// Answer is data type for relaying a call answer.
type Answer struct {
	To     string
	From   string
	Answer json.RawMessage
}

// Stream is data type for requesting the peer's stream.
type Stream struct {
	To   string
	From string
}

// Renegotiate is data type for relaying a renegotiation offer.
type Renegotiate struct {
	To    string
	From  string
	Offer json.RawMessage
}

// Complete is data type for relaying a renegotiation answer.
type Complete struct {
	To     string
	From   string
	Answer json.RawMessage
}
