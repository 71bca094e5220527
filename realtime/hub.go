package realtime

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/tauasu/booking-app/models"
)

// Event types
const (
	EventBookingCreated     = "booking_created"
	EventBookingUpdated     = "booking_updated"
	EventBookingDeleted     = "booking_deleted"
	EventBookingClosed      = "booking_closed"
	EventBookingViewed      = "booking_viewed"
	EventBookingsRefreshed  = "bookings_refreshed"
	EventZoneCreated        = "zone_created"
	EventNotificationsAdded = "notifications_added"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub holds every connected staff client (admin, staff) for broadcast.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient -> adds a connection with its role
func RegisterClient(conn *websocket.Conn, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = role
}

// UnregisterClient -> releases a connection
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastBookingCreated -> new booking landed
func BroadcastBookingCreated(booking models.Booking) {
	broadcast(Message{Event: EventBookingCreated, Data: booking})
}

// BroadcastBookingUpdated -> booking fields changed
func BroadcastBookingUpdated(booking models.Booking) {
	broadcast(Message{Event: EventBookingUpdated, Data: booking})
}

// BroadcastBookingDeleted -> booking removed
func BroadcastBookingDeleted(id uint) {
	broadcast(Message{Event: EventBookingDeleted, Data: map[string]interface{}{"id": id}})
}

// BroadcastBookingClosed -> booking closed by an admin
func BroadcastBookingClosed(booking models.Booking) {
	broadcast(Message{Event: EventBookingClosed, Data: booking})
}

// BroadcastBookingViewed -> waiter/cook acknowledgment flipped
func BroadcastBookingViewed(booking models.Booking, role string) {
	broadcast(Message{
		Event: EventBookingViewed,
		Data: map[string]interface{}{
			"booking": booking,
			"role":    role,
		},
	})
}

// BroadcastBookingsRefreshed -> reconciler replaced the collection
func BroadcastBookingsRefreshed(count int) {
	broadcast(Message{
		Event: EventBookingsRefreshed,
		Data:  map[string]interface{}{"count": count},
	})
}

// BroadcastZoneCreated -> ad-hoc zone appended to the catalog
func BroadcastZoneCreated(zone models.Zone) {
	broadcast(Message{Event: EventZoneCreated, Data: zone})
}

// BroadcastNotifications -> fresh notification records fanned out
func BroadcastNotifications(notifs []models.Notification) {
	broadcast(Message{Event: EventNotificationsAdded, Data: notifs})
}

// BroadcastMessage -> generic broadcast
func BroadcastMessage(msg Message) {
	broadcast(msg)
}

func broadcast(msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	for conn, role := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Error sending %s to %s client: %v", msg.Event, role, err)
			continue
		}
	}
}
