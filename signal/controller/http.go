// Package controller handles the per-connection request logic.
package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/iSubhamMani/airwave/database"
)

// RoomLookup answers room existence checks over plain HTTP so a client can
// validate an invite link before opening a socket.
type RoomLookup struct {
	database database.Database
	debug    bool
}

// NewRoomLookup creates a new instance of RoomLookup.
func NewRoomLookup(db database.Database, isDebug bool) *RoomLookup {
	return &RoomLookup{
		database: db,
		debug:    isDebug,
	}
}

// ServeHTTP handles HTTP requests.
func (l *RoomLookup) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	info, err := l.database.FindRoomInfoByID(r.PathValue("id"))
	if errors.Is(err, database.ErrRoomNotFound) {
		l.Error(w, fmt.Errorf("room %s not found", r.PathValue("id")), http.StatusNotFound)
		return
	}
	if err != nil {
		l.Error(w, fmt.Errorf("failed to find room info: %w", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"roomId":   info.ID,
		"hasGuest": info.HasGuest(),
	}); err != nil {
		log.Printf("failed to write room lookup response: %v", err)
	}
}

func (l *RoomLookup) Error(w http.ResponseWriter, err error, statusCode int) {
	if !l.debug {
		http.Error(w, http.StatusText(statusCode), statusCode)
		return
	}
	log.Println(err)
	http.Error(w, err.Error(), statusCode)
}
