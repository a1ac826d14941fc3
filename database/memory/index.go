// Package memory provides an in-memory room store implementation.
package memory

import "github.com/hashicorp/go-memdb"

const tblRooms = "rooms"

const (
	idxRoomID      = "id"
	idxHostSocket  = "host_socket"
	idxGuestSocket = "guest_socket"
)

// schema is the schema of the memory store. The socket indexes make
// disconnect handling a lookup by connection handle instead of a scan over
// all rooms. AllowMissing lets records keep empty handles unindexed.
var schema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		tblRooms: {
			Name: tblRooms,
			Indexes: map[string]*memdb.IndexSchema{
				idxRoomID: {
					Name:    idxRoomID,
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "ID"},
				},
				idxHostSocket: {
					Name:         idxHostSocket,
					Unique:       false,
					AllowMissing: true,
					Indexer:      &memdb.StringFieldIndex{Field: "HostSocketID"},
				},
				idxGuestSocket: {
					Name:         idxGuestSocket,
					Unique:       false,
					AllowMissing: true,
					Indexer:      &memdb.StringFieldIndex{Field: "GuestSocketID"},
				},
			},
		},
	},
}
