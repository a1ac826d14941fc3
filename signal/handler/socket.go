// Package handler upgrades HTTP requests to socket connections.
package handler

import (
	"log"
	"net/http"

	"github.com/iSubhamMani/airwave/pkg/socket"
	"github.com/iSubhamMani/airwave/signal/controller"
)

// Handler hands upgraded socket connections to the controller.
type Handler struct {
	controller *controller.Controller
}

// New creates a new instance of Handler.
func New(c *controller.Controller) *Handler {
	return &Handler{
		controller: c,
	}
}

// ServeHTTP handles the HTTP request and upgrades it to a socket connection.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s, err := socket.New(w, r)
	if err != nil {
		return
	}
	defer func(s socket.Socket) {
		if err := s.Close(); err != nil {
			log.Println("Error occurs in closing connection")
		}
	}(s)
	if err := h.controller.Process(s); err != nil {
		log.Printf("Error occurs in connection %v", err)
	}
}
