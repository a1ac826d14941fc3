package memory_test

import (
	"testing"

	"github.com/iSubhamMani/airwave/database"
	"github.com/iSubhamMani/airwave/database/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRoomInfo(t *testing.T) {
	t.Run("given new room when created then it can be found by id", func(t *testing.T) {
		db := memory.New()
		created, err := db.CreateRoomInfo("room-1", "alice", "sock-host")
		require.NoError(t, err)
		assert.Equal(t, "room-1", created.ID)
		assert.Equal(t, "alice", created.HostID)
		assert.Equal(t, "sock-host", created.HostSocketID)
		assert.False(t, created.HasGuest())

		found, err := db.FindRoomInfoByID("room-1")
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
	})

	t.Run("given existing id when created again then return error", func(t *testing.T) {
		db := memory.New()
		_, err := db.CreateRoomInfo("room-1", "alice", "sock-host")
		require.NoError(t, err)
		_, err = db.CreateRoomInfo("room-1", "bob", "sock-other")
		assert.ErrorIs(t, err, database.ErrRoomAlreadyExists)
	})
}

func TestFindRoomInfo(t *testing.T) {
	t.Run("given missing room when found by id then return error", func(t *testing.T) {
		db := memory.New()
		_, err := db.FindRoomInfoByID("nope")
		assert.ErrorIs(t, err, database.ErrRoomNotFound)
	})

	t.Run("given bound sockets when found by socket then return room", func(t *testing.T) {
		db := memory.New()
		created, err := db.CreateRoomInfo("room-1", "alice", "sock-host")
		require.NoError(t, err)
		created.GuestID = "bob"
		created.GuestSocketID = "sock-guest"
		_, err = db.UpdateRoomInfo(created)
		require.NoError(t, err)

		byHost, err := db.FindRoomInfoByHostSocket("sock-host")
		require.NoError(t, err)
		assert.Equal(t, "room-1", byHost.ID)

		byGuest, err := db.FindRoomInfoByGuestSocket("sock-guest")
		require.NoError(t, err)
		assert.Equal(t, "room-1", byGuest.ID)

		_, err = db.FindRoomInfoByHostSocket("sock-guest")
		assert.ErrorIs(t, err, database.ErrRoomNotFound)
	})

	t.Run("given stored room when mutating the returned copy then store is unchanged", func(t *testing.T) {
		db := memory.New()
		created, err := db.CreateRoomInfo("room-1", "alice", "sock-host")
		require.NoError(t, err)
		created.HostID = "mallory"

		found, err := db.FindRoomInfoByID("room-1")
		require.NoError(t, err)
		assert.Equal(t, "alice", found.HostID)
	})
}

func TestContainsSocket(t *testing.T) {
	db := memory.New()
	created, err := db.CreateRoomInfo("room-1", "alice", "sock-host")
	require.NoError(t, err)
	created.GuestID = "bob"
	created.GuestSocketID = "sock-guest"
	_, err = db.UpdateRoomInfo(created)
	require.NoError(t, err)

	tests := []struct {
		name     string
		socketID string
		want     bool
	}{
		{name: "given host socket then contained", socketID: "sock-host", want: true},
		{name: "given guest socket then contained", socketID: "sock-guest", want: true},
		{name: "given unknown socket then not contained", socketID: "sock-nope", want: false},
		{name: "given empty socket then not contained", socketID: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.ContainsSocket(tt.socketID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUpdateRoomInfo(t *testing.T) {
	t.Run("given cleared guest when updated then guest socket unbinds", func(t *testing.T) {
		db := memory.New()
		created, err := db.CreateRoomInfo("room-1", "alice", "sock-host")
		require.NoError(t, err)
		created.GuestID = "bob"
		created.GuestSocketID = "sock-guest"
		_, err = db.UpdateRoomInfo(created)
		require.NoError(t, err)

		created.ClearGuest()
		updated, err := db.UpdateRoomInfo(created)
		require.NoError(t, err)
		assert.False(t, updated.HasGuest())

		_, err = db.FindRoomInfoByGuestSocket("sock-guest")
		assert.ErrorIs(t, err, database.ErrRoomNotFound)
	})

	t.Run("given update when committed then last updated moves forward", func(t *testing.T) {
		db := memory.New()
		created, err := db.CreateRoomInfo("room-1", "alice", "sock-host")
		require.NoError(t, err)

		updated, err := db.UpdateRoomInfo(created)
		require.NoError(t, err)
		assert.False(t, updated.LastUpdated.Before(created.LastUpdated))
	})

	t.Run("given missing room when updated then return error", func(t *testing.T) {
		db := memory.New()
		_, err := db.UpdateRoomInfo(&database.RoomInfo{ID: "ghost"})
		assert.ErrorIs(t, err, database.ErrRoomNotFound)
	})
}

func TestDeleteRoomInfo(t *testing.T) {
	t.Run("given stored room when deleted then it is gone", func(t *testing.T) {
		db := memory.New()
		_, err := db.CreateRoomInfo("room-1", "alice", "sock-host")
		require.NoError(t, err)

		require.NoError(t, db.DeleteRoomInfoByID("room-1"))
		_, err = db.FindRoomInfoByID("room-1")
		assert.ErrorIs(t, err, database.ErrRoomNotFound)
	})

	t.Run("given missing room when deleted then return error", func(t *testing.T) {
		db := memory.New()
		assert.ErrorIs(t, db.DeleteRoomInfoByID("nope"), database.ErrRoomNotFound)
	})
}

func TestAllRoomInfo(t *testing.T) {
	db := memory.New()
	_, err := db.CreateRoomInfo("room-1", "alice", "sock-1")
	require.NoError(t, err)
	_, err = db.CreateRoomInfo("room-2", "bob", "sock-2")
	require.NoError(t, err)

	rooms, err := db.AllRoomInfo()
	require.NoError(t, err)
	assert.Len(t, rooms, 2)
}
