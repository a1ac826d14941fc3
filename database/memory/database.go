// Package memory provides an in-memory room store implementation.
package memory

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-memdb"
	"github.com/iSubhamMani/airwave/database"
)

// DB is a memory-backed room store.
type DB struct {
	db *memdb.MemDB
}

// New creates a new memory-backed room store.
func New() *DB {
	db, err := memdb.NewMemDB(schema)
	if err != nil {
		panic(err)
	}
	return &DB{
		db: db,
	}
}

// CreateRoomInfo creates a new room record with only the host bound.
func (d *DB) CreateRoomInfo(roomID, hostID, hostSocketID string) (*database.RoomInfo, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()
	existing, err := txn.First(tblRooms, idxRoomID, roomID)
	if err != nil {
		return nil, fmt.Errorf("find room by id: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%s: %w", roomID, database.ErrRoomAlreadyExists)
	}

	info := &database.RoomInfo{
		ID:           roomID,
		HostID:       hostID,
		HostSocketID: hostSocketID,
		CreatedAt:    time.Now(),
		LastUpdated:  time.Now(),
	}
	if err := txn.Insert(tblRooms, info); err != nil {
		return nil, fmt.Errorf("insert room: %w", err)
	}
	txn.Commit()
	return info.DeepCopy(), nil
}

// FindRoomInfoByID finds a room by its id.
func (d *DB) FindRoomInfoByID(roomID string) (*database.RoomInfo, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()
	raw, err := txn.First(tblRooms, idxRoomID, roomID)
	if err != nil {
		return nil, fmt.Errorf("find room by id: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%s: %w", roomID, database.ErrRoomNotFound)
	}
	return raw.(*database.RoomInfo).DeepCopy(), nil
}

// FindRoomInfoByHostSocket finds the room whose host role is bound to the
// given connection handle.
func (d *DB) FindRoomInfoByHostSocket(socketID string) (*database.RoomInfo, error) {
	return d.findBySocketIndex(idxHostSocket, socketID)
}

// FindRoomInfoByGuestSocket finds the room whose guest role is bound to the
// given connection handle.
func (d *DB) FindRoomInfoByGuestSocket(socketID string) (*database.RoomInfo, error) {
	return d.findBySocketIndex(idxGuestSocket, socketID)
}

func (d *DB) findBySocketIndex(index, socketID string) (*database.RoomInfo, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()
	raw, err := txn.First(tblRooms, index, socketID)
	if err != nil {
		return nil, fmt.Errorf("find room by socket: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%s: %w", socketID, database.ErrRoomNotFound)
	}
	return raw.(*database.RoomInfo).DeepCopy(), nil
}

// ContainsSocket reports whether the connection handle is bound to either
// role of any room.
func (d *DB) ContainsSocket(socketID string) (bool, error) {
	if socketID == "" {
		return false, nil
	}
	txn := d.db.Txn(false)
	defer txn.Abort()
	for _, index := range []string{idxHostSocket, idxGuestSocket} {
		raw, err := txn.First(tblRooms, index, socketID)
		if err != nil {
			return false, fmt.Errorf("find room by socket: %w", err)
		}
		if raw != nil {
			return true, nil
		}
	}
	return false, nil
}

// UpdateRoomInfo replaces the stored record for the room. The whole record is
// written back; the later of two racing updates wins.
func (d *DB) UpdateRoomInfo(info *database.RoomInfo) (*database.RoomInfo, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()
	raw, err := txn.First(tblRooms, idxRoomID, info.ID)
	if err != nil {
		return nil, fmt.Errorf("find room by id: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%s: %w", info.ID, database.ErrRoomNotFound)
	}
	updated := info.DeepCopy()
	updated.UpdateLastUpdated()
	if err := txn.Insert(tblRooms, updated); err != nil {
		return nil, fmt.Errorf("insert room: %w", err)
	}
	txn.Commit()
	return updated.DeepCopy(), nil
}

// DeleteRoomInfoByID deletes a room by its id.
func (d *DB) DeleteRoomInfoByID(roomID string) error {
	txn := d.db.Txn(true)
	defer txn.Abort()
	raw, err := txn.First(tblRooms, idxRoomID, roomID)
	if err != nil {
		return fmt.Errorf("find room by id: %w", err)
	}
	if raw == nil {
		return fmt.Errorf("%s: %w", roomID, database.ErrRoomNotFound)
	}
	if err := txn.Delete(tblRooms, raw); err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	txn.Commit()
	return nil
}

// AllRoomInfo returns every stored room record.
func (d *DB) AllRoomInfo() ([]*database.RoomInfo, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()
	it, err := txn.Get(tblRooms, idxRoomID)
	if err != nil {
		return nil, fmt.Errorf("iterate rooms: %w", err)
	}
	var results []*database.RoomInfo
	for obj := it.Next(); obj != nil; obj = it.Next() {
		results = append(results, obj.(*database.RoomInfo).DeepCopy())
	}
	return results, nil
}
