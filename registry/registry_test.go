package registry

import (
	"testing"
	"time"

	"github.com/iSubhamMani/airwave/broker"
	"github.com/iSubhamMani/airwave/database"
	"github.com/iSubhamMani/airwave/database/memory"
	"github.com/iSubhamMani/airwave/metric"
	"github.com/iSubhamMani/airwave/types/client/response"
	"github.com/iSubhamMani/airwave/types/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() (*Registry, *broker.Broker, *memory.DB) {
	brk := broker.New()
	db := memory.New()
	met := metric.New(metric.Config{})
	return New(Config{}, brk, db, met), brk, db
}

func receiveOne(t *testing.T, ch <-chan any) any {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func assertSilent(t *testing.T, ch <-chan any) {
	t.Helper()
	select {
	case msg := <-ch:
		t.Fatalf("unexpected message: %v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHandleCreate(t *testing.T) {
	t.Run("given create when handled then room exists and id is returned", func(t *testing.T) {
		reg, brk, db := newTestRegistry()
		sub := brk.Subscribe(broker.ClientSocket, "sock-host")

		reg.handleCreate(message.Create{ClientID: "alice", SocketID: "sock-host"})

		created, ok := receiveOne(t, sub.Receive()).(response.Created)
		require.True(t, ok)
		assert.Equal(t, response.CREATED, created.Type)
		assert.NotEmpty(t, created.RoomID)

		info, err := db.FindRoomInfoByID(created.RoomID)
		require.NoError(t, err)
		assert.Equal(t, "alice", info.HostID)
		assert.Equal(t, "sock-host", info.HostSocketID)
		assert.False(t, info.HasGuest())
	})

	t.Run("given empty identity when creating then reject and store nothing", func(t *testing.T) {
		reg, brk, db := newTestRegistry()
		sub := brk.Subscribe(broker.ClientSocket, "sock-anon")

		reg.handleCreate(message.Create{ClientID: "", SocketID: "sock-anon"})

		rejected, ok := receiveOne(t, sub.Receive()).(response.Error)
		require.True(t, ok)
		assert.Equal(t, msgIdentityRequired, rejected.Message)

		rooms, err := db.AllRoomInfo()
		require.NoError(t, err)
		assert.Empty(t, rooms)
	})

	t.Run("given malformed event when handled then nothing happens", func(t *testing.T) {
		reg, _, db := newTestRegistry()
		reg.handleCreate("not a create message")
		rooms, err := db.AllRoomInfo()
		require.NoError(t, err)
		assert.Empty(t, rooms)
	})
}

func TestHandleJoin(t *testing.T) {
	t.Run("given empty room when guest joins then both sides learn the peer handle", func(t *testing.T) {
		reg, brk, db := newTestRegistry()
		_, err := db.CreateRoomInfo("room-1", "alice", "sock-host")
		require.NoError(t, err)
		hostSub := brk.Subscribe(broker.ClientSocket, "sock-host")
		guestSub := brk.Subscribe(broker.ClientSocket, "sock-guest")

		reg.handleJoin(message.Join{RoomID: "room-1", ClientID: "bob", SocketID: "sock-guest"})

		guestJoined, ok := receiveOne(t, hostSub.Receive()).(response.GuestJoined)
		require.True(t, ok)
		assert.Equal(t, "sock-guest", guestJoined.SocketID)

		joined, ok := receiveOne(t, guestSub.Receive()).(response.Joined)
		require.True(t, ok)
		assert.Equal(t, "room-1", joined.RoomID)
		assert.Equal(t, "sock-host", joined.SocketID)

		info, err := db.FindRoomInfoByID("room-1")
		require.NoError(t, err)
		assert.Equal(t, "bob", info.GuestID)
		assert.Equal(t, "sock-guest", info.GuestSocketID)
	})

	t.Run("given unknown room when joined then reject with room not found", func(t *testing.T) {
		reg, brk, _ := newTestRegistry()
		sub := brk.Subscribe(broker.ClientSocket, "sock-guest")

		reg.handleJoin(message.Join{RoomID: "nope", ClientID: "bob", SocketID: "sock-guest"})

		rejected, ok := receiveOne(t, sub.Receive()).(response.Error)
		require.True(t, ok)
		assert.Equal(t, msgRoomNotFound, rejected.Message)
	})

	t.Run("given empty identity when joining then reject and leave the guest slot empty", func(t *testing.T) {
		reg, brk, db := newTestRegistry()
		_, err := db.CreateRoomInfo("room-1", "alice", "sock-host")
		require.NoError(t, err)
		sub := brk.Subscribe(broker.ClientSocket, "sock-anon")

		reg.handleJoin(message.Join{RoomID: "room-1", ClientID: "", SocketID: "sock-anon"})

		rejected, ok := receiveOne(t, sub.Receive()).(response.Error)
		require.True(t, ok)
		assert.Equal(t, msgIdentityRequired, rejected.Message)

		info, err := db.FindRoomInfoByID("room-1")
		require.NoError(t, err)
		assert.Empty(t, info.GuestID)
		assert.Empty(t, info.GuestSocketID)
	})

	t.Run("given full room when third identity joins then reject with room is full", func(t *testing.T) {
		reg, brk, db := newTestRegistry()
		info, err := db.CreateRoomInfo("room-1", "alice", "sock-host")
		require.NoError(t, err)
		info.GuestID = "bob"
		info.GuestSocketID = "sock-guest"
		_, err = db.UpdateRoomInfo(info)
		require.NoError(t, err)
		sub := brk.Subscribe(broker.ClientSocket, "sock-carol")

		reg.handleJoin(message.Join{RoomID: "room-1", ClientID: "carol", SocketID: "sock-carol"})

		rejected, ok := receiveOne(t, sub.Receive()).(response.Error)
		require.True(t, ok)
		assert.Equal(t, msgRoomFull, rejected.Message)
	})

	t.Run("given rejoining host when guest is bound then host learns the guest handle", func(t *testing.T) {
		reg, brk, db := newTestRegistry()
		info, err := db.CreateRoomInfo("room-1", "alice", "sock-host")
		require.NoError(t, err)
		info.GuestID = "bob"
		info.GuestSocketID = "sock-guest"
		_, err = db.UpdateRoomInfo(info)
		require.NoError(t, err)
		hostSub := brk.Subscribe(broker.ClientSocket, "sock-host2")
		guestSub := brk.Subscribe(broker.ClientSocket, "sock-guest")

		reg.handleJoin(message.Join{RoomID: "room-1", ClientID: "alice", SocketID: "sock-host2"})

		joined, ok := receiveOne(t, hostSub.Receive()).(response.Joined)
		require.True(t, ok)
		assert.Equal(t, "sock-guest", joined.SocketID)
		assertSilent(t, guestSub.Receive())

		updated, err := db.FindRoomInfoByID("room-1")
		require.NoError(t, err)
		assert.Equal(t, "sock-host2", updated.HostSocketID)
	})

	t.Run("given returning guest when rejoined then welcome is re-fired with new handle", func(t *testing.T) {
		reg, brk, db := newTestRegistry()
		info, err := db.CreateRoomInfo("room-1", "alice", "sock-host")
		require.NoError(t, err)
		info.GuestID = "bob"
		info.GuestSocketID = "sock-guest"
		_, err = db.UpdateRoomInfo(info)
		require.NoError(t, err)
		hostSub := brk.Subscribe(broker.ClientSocket, "sock-host")
		guestSub := brk.Subscribe(broker.ClientSocket, "sock-guest2")

		reg.handleJoin(message.Join{RoomID: "room-1", ClientID: "bob", SocketID: "sock-guest2"})

		guestJoined, ok := receiveOne(t, hostSub.Receive()).(response.GuestJoined)
		require.True(t, ok)
		assert.Equal(t, "sock-guest2", guestJoined.SocketID)

		joined, ok := receiveOne(t, guestSub.Receive()).(response.Joined)
		require.True(t, ok)
		assert.Equal(t, "sock-host", joined.SocketID)
	})

	t.Run("given same socket when host rejoins then nothing is sent", func(t *testing.T) {
		reg, brk, db := newTestRegistry()
		_, err := db.CreateRoomInfo("room-1", "alice", "sock-host")
		require.NoError(t, err)
		sub := brk.Subscribe(broker.ClientSocket, "sock-host")

		reg.handleJoin(message.Join{RoomID: "room-1", ClientID: "alice", SocketID: "sock-host"})
		assertSilent(t, sub.Receive())
	})
}

func TestHandleEnd(t *testing.T) {
	t.Run("given host ends then guest is cleared and notified and room stays", func(t *testing.T) {
		reg, brk, db := newTestRegistry()
		info, err := db.CreateRoomInfo("room-1", "alice", "sock-host")
		require.NoError(t, err)
		info.GuestID = "bob"
		info.GuestSocketID = "sock-guest"
		_, err = db.UpdateRoomInfo(info)
		require.NoError(t, err)
		guestSub := brk.Subscribe(broker.ClientSocket, "sock-guest")

		reg.handleEnd(message.End{RoomID: "room-1", SocketID: "sock-host"})

		gone, ok := receiveOne(t, guestSub.Receive()).(response.PeerDisconnected)
		require.True(t, ok)
		assert.Equal(t, response.PEERDISCONNECTED, gone.Type)

		updated, err := db.FindRoomInfoByID("room-1")
		require.NoError(t, err)
		assert.False(t, updated.HasGuest())
		assert.Equal(t, "sock-host", updated.HostSocketID)
	})

	t.Run("given guest ends then room is deleted and host notified", func(t *testing.T) {
		reg, brk, db := newTestRegistry()
		info, err := db.CreateRoomInfo("room-1", "alice", "sock-host")
		require.NoError(t, err)
		info.GuestID = "bob"
		info.GuestSocketID = "sock-guest"
		_, err = db.UpdateRoomInfo(info)
		require.NoError(t, err)
		hostSub := brk.Subscribe(broker.ClientSocket, "sock-host")

		reg.handleEnd(message.End{RoomID: "room-1", SocketID: "sock-guest"})

		ended, ok := receiveOne(t, hostSub.Receive()).(response.Ended)
		require.True(t, ok)
		assert.Equal(t, response.ENDED, ended.Type)

		_, err = db.FindRoomInfoByID("room-1")
		assert.ErrorIs(t, err, database.ErrRoomNotFound)
	})

	t.Run("given unknown room when ending then caller gets a generic failure", func(t *testing.T) {
		reg, brk, _ := newTestRegistry()
		sub := brk.Subscribe(broker.ClientSocket, "sock-host")

		reg.handleEnd(message.End{RoomID: "nope", SocketID: "sock-host"})

		failed, ok := receiveOne(t, sub.Receive()).(response.Error)
		require.True(t, ok)
		assert.Equal(t, msgInternalError, failed.Message)
	})

	t.Run("given unbound socket ends then room is untouched", func(t *testing.T) {
		reg, _, db := newTestRegistry()
		_, err := db.CreateRoomInfo("room-1", "alice", "sock-host")
		require.NoError(t, err)

		reg.handleEnd(message.End{RoomID: "room-1", SocketID: "sock-stranger"})

		_, err = db.FindRoomInfoByID("room-1")
		assert.NoError(t, err)
	})
}

func TestHandleDisconnect(t *testing.T) {
	t.Run("given host drops then guest is unbound and told the host is gone", func(t *testing.T) {
		reg, brk, db := newTestRegistry()
		info, err := db.CreateRoomInfo("room-1", "alice", "sock-host")
		require.NoError(t, err)
		info.GuestID = "bob"
		info.GuestSocketID = "sock-guest"
		_, err = db.UpdateRoomInfo(info)
		require.NoError(t, err)
		guestSub := brk.Subscribe(broker.ClientSocket, "sock-guest")

		reg.handleDisconnect(message.Disconnect{SocketID: "sock-host"})

		gone, ok := receiveOne(t, guestSub.Receive()).(response.HostDisconnected)
		require.True(t, ok)
		assert.Equal(t, response.HOSTDISCONNECTED, gone.Type)

		updated, err := db.FindRoomInfoByID("room-1")
		require.NoError(t, err)
		assert.Empty(t, updated.HostSocketID)
		assert.False(t, updated.HasGuest())
	})

	t.Run("given guest drops then host is notified and guest identity survives", func(t *testing.T) {
		reg, brk, db := newTestRegistry()
		info, err := db.CreateRoomInfo("room-1", "alice", "sock-host")
		require.NoError(t, err)
		info.GuestID = "bob"
		info.GuestSocketID = "sock-guest"
		_, err = db.UpdateRoomInfo(info)
		require.NoError(t, err)
		hostSub := brk.Subscribe(broker.ClientSocket, "sock-host")

		reg.handleDisconnect(message.Disconnect{SocketID: "sock-guest"})

		gone, ok := receiveOne(t, hostSub.Receive()).(response.PeerDisconnected)
		require.True(t, ok)
		assert.Equal(t, response.PEERDISCONNECTED, gone.Type)

		updated, err := db.FindRoomInfoByID("room-1")
		require.NoError(t, err)
		assert.Equal(t, "bob", updated.GuestID)
		assert.Empty(t, updated.GuestSocketID)
	})

	t.Run("given unknown socket drops then nothing happens", func(t *testing.T) {
		reg, _, db := newTestRegistry()
		_, err := db.CreateRoomInfo("room-1", "alice", "sock-host")
		require.NoError(t, err)

		reg.handleDisconnect(message.Disconnect{SocketID: "sock-stranger"})

		_, err = db.FindRoomInfoByID("room-1")
		assert.NoError(t, err)
	})
}

func TestReapAbandoned(t *testing.T) {
	t.Run("given abandoned room past ttl when reaped then it is deleted", func(t *testing.T) {
		brk := broker.New()
		db := memory.New()
		met := metric.New(metric.Config{})
		reg := New(Config{RoomTTL: time.Nanosecond}, brk, db, met)

		info, err := db.CreateRoomInfo("room-old", "alice", "sock-host")
		require.NoError(t, err)
		info.HostSocketID = ""
		_, err = db.UpdateRoomInfo(info)
		require.NoError(t, err)

		_, err = db.CreateRoomInfo("room-live", "bob", "sock-live")
		require.NoError(t, err)

		time.Sleep(5 * time.Millisecond)
		reg.reapAbandoned()

		_, err = db.FindRoomInfoByID("room-old")
		assert.ErrorIs(t, err, database.ErrRoomNotFound)
		_, err = db.FindRoomInfoByID("room-live")
		assert.NoError(t, err)
	})

	t.Run("given abandoned room within ttl when reaped then it survives", func(t *testing.T) {
		reg, _, db := newTestRegistry()

		info, err := db.CreateRoomInfo("room-fresh", "alice", "sock-host")
		require.NoError(t, err)
		info.HostSocketID = ""
		_, err = db.UpdateRoomInfo(info)
		require.NoError(t, err)

		reg.reapAbandoned()

		_, err = db.FindRoomInfoByID("room-fresh")
		assert.NoError(t, err)
	})
}
