// Package database provides an interface for room store operations.
package database

import (
	"errors"
)

var (
	// ErrRoomAlreadyExists is returned when the room id is already taken.
	ErrRoomAlreadyExists = errors.New("room already exists")

	// ErrRoomNotFound is returned when the room is not found.
	ErrRoomNotFound = errors.New("room not found")
)

// Database is an interface for room store operations. Every mutation is a
// read-modify-write against the stored record; implementations make single
// mutations atomic per room but concurrent operations on the same room remain
// last-write-wins.
type Database interface {
	CreateRoomInfo(roomID, hostID, hostSocketID string) (*RoomInfo, error)
	FindRoomInfoByID(roomID string) (*RoomInfo, error)
	FindRoomInfoByHostSocket(socketID string) (*RoomInfo, error)
	FindRoomInfoByGuestSocket(socketID string) (*RoomInfo, error)
	ContainsSocket(socketID string) (bool, error)
	UpdateRoomInfo(info *RoomInfo) (*RoomInfo, error)
	DeleteRoomInfoByID(roomID string) error
	AllRoomInfo() ([]*RoomInfo, error)
}
