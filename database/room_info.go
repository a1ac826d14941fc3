package database

import "time"

// RoomInfo is a struct for two-party room information. Socket fields hold the
// connection handle currently bound to the role; an empty handle means the
// role has no live connection.
type RoomInfo struct {
	ID            string
	HostID        string
	HostSocketID  string
	GuestID       string
	GuestSocketID string
	CreatedAt     time.Time
	LastUpdated   time.Time
}

// HasGuest reports whether a guest identity occupies the guest slot.
func (r *RoomInfo) HasGuest() bool {
	return r.GuestID != ""
}

// ClearGuest removes the guest identity and connection from the room.
func (r *RoomInfo) ClearGuest() {
	r.GuestID = ""
	r.GuestSocketID = ""
}

// Abandoned reports whether no live connection is bound to either role.
func (r *RoomInfo) Abandoned() bool {
	return r.HostSocketID == "" && r.GuestSocketID == ""
}

// UpdateLastUpdated refreshes the LastUpdated field.
func (r *RoomInfo) UpdateLastUpdated() {
	r.LastUpdated = time.Now()
}

// DeepCopy creates a deep copy of the given RoomInfo.
func (r *RoomInfo) DeepCopy() *RoomInfo {
	return &RoomInfo{
		ID:            r.ID,
		HostID:        r.HostID,
		HostSocketID:  r.HostSocketID,
		GuestID:       r.GuestID,
		GuestSocketID: r.GuestSocketID,
		CreatedAt:     r.CreatedAt,
		LastUpdated:   r.LastUpdated,
	}
}
