// Package registry owns the room state machine: creating rooms, resolving
// joins and reconnections, ending calls, reconciling disconnects and reaping
// abandoned rooms.
package registry

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/iSubhamMani/airwave/broker"
	"github.com/iSubhamMani/airwave/database"
	"github.com/iSubhamMani/airwave/metric"
	"github.com/iSubhamMani/airwave/types/client/response"
	"github.com/iSubhamMani/airwave/types/message"
	"github.com/lithammer/shortuuid/v4"
)

// Rejection messages surfaced to the caller via room:error.
const (
	msgRoomNotFound     = "room not found"
	msgRoomFull         = "room is full"
	msgIdentityRequired = "identity is required"
	msgInternalError    = "internal error"
)

// Registry manages room records and the host/guest connection bindings.
type Registry struct {
	config   Config
	broker   *broker.Broker
	database database.Database
	metric   *metric.Metrics
}

// New creates a new instance of Registry.
func New(c Config, b *broker.Broker, db database.Database, m *metric.Metrics) *Registry {
	if c.RoomTTL <= 0 {
		c.RoomTTL = DefaultRoomTTL
	}
	if c.ReapInterval <= 0 {
		c.ReapInterval = DefaultReapInterval
	}
	return &Registry{
		config:   c,
		broker:   b,
		database: db,
		metric:   m,
	}
}

// Start runs the registry event loop. It consumes room lifecycle events from
// the broker and sweeps abandoned rooms on a timer.
func (r *Registry) Start() {
	createEvent := r.broker.Subscribe(broker.Room, broker.CREATE)
	joinEvent := r.broker.Subscribe(broker.Room, broker.JOIN)
	endEvent := r.broker.Subscribe(broker.Room, broker.END)
	disconnectEvent := r.broker.Subscribe(broker.Room, broker.DISCONNECT)
	reapTicker := time.NewTicker(r.config.ReapInterval)
	defer reapTicker.Stop()
	for {
		select {
		case event := <-createEvent.Receive():
			go r.handleCreate(event)
		case event := <-joinEvent.Receive():
			go r.handleJoin(event)
		case event := <-endEvent.Receive():
			go r.handleEnd(event)
		case event := <-disconnectEvent.Receive():
			go r.handleDisconnect(event)
		case <-reapTicker.C:
			go r.reapAbandoned()
		}
	}
}

// handleCreate handles the create event. It allocates a fresh unguessable
// room id, binds the caller's connection to the host role and returns the id
// to the caller.
func (r *Registry) handleCreate(event any) {
	msg, ok := event.(message.Create)
	if !ok {
		log.Printf("error occurs in parsing create message %v", event)
		return
	}
	if msg.ClientID == "" {
		r.reject(msg.SocketID, msgIdentityRequired)
		return
	}

	var info *database.RoomInfo
	for i := 0; i < maxCreateRetries; i++ {
		created, err := r.database.CreateRoomInfo(shortuuid.New(), msg.ClientID, msg.SocketID)
		if errors.Is(err, database.ErrRoomAlreadyExists) {
			continue
		}
		if err != nil {
			r.fail(msg.SocketID, err)
			return
		}
		info = created
		break
	}
	if info == nil {
		r.fail(msg.SocketID, fmt.Errorf("no room id allocated after %d attempts", maxCreateRetries))
		return
	}

	r.metric.IncrementActiveRooms()
	r.send(msg.SocketID, response.Created{
		Type:   response.CREATED,
		RoomID: info.ID,
	})
}

// handleJoin handles the join event. The host identity always wins the host
// role even across reconnects; a returning guest is recognized only by
// identity match, never by connection handle.
func (r *Registry) handleJoin(event any) {
	msg, ok := event.(message.Join)
	if !ok {
		log.Printf("error occurs in parsing join message %v", event)
		return
	}
	if msg.ClientID == "" {
		r.reject(msg.SocketID, msgIdentityRequired)
		return
	}

	info, err := r.database.FindRoomInfoByID(msg.RoomID)
	if errors.Is(err, database.ErrRoomNotFound) {
		r.reject(msg.SocketID, msgRoomNotFound)
		return
	}
	if err != nil {
		r.fail(msg.SocketID, err)
		return
	}

	switch {
	case msg.ClientID == info.HostID:
		r.rebindHost(info, msg)
	case info.HasGuest() && msg.ClientID == info.GuestID:
		r.rebindGuest(info, msg)
	case !info.HasGuest():
		r.admitGuest(info, msg)
	default:
		r.reject(msg.SocketID, msgRoomFull)
	}
}

// rebindHost moves the host role onto a new connection handle. The guest is
// not notified; a rejoining host does not need to be announced to itself.
func (r *Registry) rebindHost(info *database.RoomInfo, msg message.Join) {
	if info.HostSocketID == msg.SocketID {
		return
	}
	info.HostSocketID = msg.SocketID
	if _, err := r.database.UpdateRoomInfo(info); err != nil {
		r.fail(msg.SocketID, err)
		return
	}
	if info.GuestSocketID != "" {
		r.send(msg.SocketID, response.Joined{
			Type:     response.JOINED,
			RoomID:   info.ID,
			SocketID: info.GuestSocketID,
		})
	}
}

// rebindGuest moves the guest role onto a new connection handle and re-fires
// the host-side joined notice with the new handle.
func (r *Registry) rebindGuest(info *database.RoomInfo, msg message.Join) {
	if info.GuestSocketID == msg.SocketID {
		return
	}
	info.GuestSocketID = msg.SocketID
	if _, err := r.database.UpdateRoomInfo(info); err != nil {
		r.fail(msg.SocketID, err)
		return
	}
	r.welcome(info, msg.SocketID)
}

// admitGuest binds a fresh guest into the empty guest slot.
func (r *Registry) admitGuest(info *database.RoomInfo, msg message.Join) {
	info.GuestID = msg.ClientID
	info.GuestSocketID = msg.SocketID
	if _, err := r.database.UpdateRoomInfo(info); err != nil {
		r.fail(msg.SocketID, err)
		return
	}
	r.welcome(info, msg.SocketID)
}

// welcome notifies the host of the guest's handle and hands the host's handle
// back to the joining caller.
func (r *Registry) welcome(info *database.RoomInfo, guestSocketID string) {
	if info.HostSocketID != "" {
		r.send(info.HostSocketID, response.GuestJoined{
			Type:     response.GUESTJOINED,
			SocketID: guestSocketID,
		})
	}
	r.send(guestSocketID, response.Joined{
		Type:     response.JOINED,
		RoomID:   info.ID,
		SocketID: info.HostSocketID,
	})
}

// handleEnd handles an explicit end-of-call. A host ending the call clears
// the guest slot but keeps the room usable; a guest ending the call deletes
// the room entirely.
func (r *Registry) handleEnd(event any) {
	msg, ok := event.(message.End)
	if !ok {
		log.Printf("error occurs in parsing end message %v", event)
		return
	}

	info, err := r.database.FindRoomInfoByID(msg.RoomID)
	if err != nil {
		r.fail(msg.SocketID, err)
		return
	}

	switch msg.SocketID {
	case info.HostSocketID:
		guestSocketID := info.GuestSocketID
		info.ClearGuest()
		if _, err := r.database.UpdateRoomInfo(info); err != nil {
			r.fail(msg.SocketID, err)
			return
		}
		if guestSocketID != "" {
			r.send(guestSocketID, response.PeerDisconnected{Type: response.PEERDISCONNECTED})
		}
	case info.GuestSocketID:
		if err := r.database.DeleteRoomInfoByID(info.ID); err != nil {
			r.fail(msg.SocketID, err)
			return
		}
		r.metric.DecrementActiveRooms()
		if info.HostSocketID != "" {
			r.send(info.HostSocketID, response.Ended{Type: response.ENDED})
		}
	default:
		log.Printf("end request from socket %s not bound to room %s", msg.SocketID, msg.RoomID)
	}
}

// handleDisconnect reconciles a closed connection. A handle binds to exactly
// one role in exactly one room, so the socket indexes resolve it directly.
func (r *Registry) handleDisconnect(event any) {
	msg, ok := event.(message.Disconnect)
	if !ok {
		log.Printf("error occurs in parsing disconnect message %v", event)
		return
	}

	if info, err := r.database.FindRoomInfoByHostSocket(msg.SocketID); err == nil {
		guestSocketID := info.GuestSocketID
		info.HostSocketID = ""
		info.ClearGuest()
		if _, err := r.database.UpdateRoomInfo(info); err != nil {
			log.Printf("error occurs in updating room info %v", err)
			return
		}
		if guestSocketID != "" {
			r.send(guestSocketID, response.HostDisconnected{Type: response.HOSTDISCONNECTED})
		}
		return
	}

	info, err := r.database.FindRoomInfoByGuestSocket(msg.SocketID)
	if errors.Is(err, database.ErrRoomNotFound) {
		return
	}
	if err != nil {
		log.Printf("error occurs in finding room info %v", err)
		return
	}
	info.GuestSocketID = ""
	if _, err := r.database.UpdateRoomInfo(info); err != nil {
		log.Printf("error occurs in updating room info %v", err)
		return
	}
	if info.HostSocketID != "" {
		r.send(info.HostSocketID, response.PeerDisconnected{Type: response.PEERDISCONNECTED})
	}
}

// reapAbandoned deletes rooms that kept no live connection longer than the
// configured TTL.
func (r *Registry) reapAbandoned() {
	rooms, err := r.database.AllRoomInfo()
	if err != nil {
		log.Printf("error occurs in listing room info %v", err)
		return
	}
	cutoff := time.Now().Add(-r.config.RoomTTL)
	for _, room := range rooms {
		if !room.Abandoned() || room.LastUpdated.After(cutoff) {
			continue
		}
		if err := r.database.DeleteRoomInfoByID(room.ID); err != nil {
			log.Printf("error occurs in reaping room %s: %v", room.ID, err)
			continue
		}
		r.metric.DecrementActiveRooms()
		log.Printf("reaped abandoned room %s", room.ID)
	}
}

// reject reports a join rejection back to the caller.
func (r *Registry) reject(socketID, reason string) {
	r.metric.IncrementJoinRejections()
	r.send(socketID, response.Error{
		Type:    response.ERROR,
		Message: reason,
	})
}

// fail reports a store failure back to the caller as a generic error.
func (r *Registry) fail(socketID string, err error) {
	log.Printf("error occurs in room operation %v", err)
	r.send(socketID, response.Error{
		Type:    response.ERROR,
		Message: msgInternalError,
	})
}

func (r *Registry) send(socketID string, msg any) {
	if err := r.broker.Publish(broker.ClientSocket, broker.Detail(socketID), msg); err != nil {
		log.Printf("error occurs in publishing response %v", err)
	}
}
