// Package queue defines message payloads exchanged over the message
// broker, plus the publisher and the background consumer that turns
// them into audit log lines.
package queue

// ReservationBookedEvent is published when the assignment engine
// commits a new reservation.  It carries enough information for
// downstream consumers to log or trigger analytics without querying
// the primary database.
type ReservationBookedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	Code          string `json:"code"`
	RestaurantID  uint64 `json:"restaurant_id"`
	UserID        uint64 `json:"user_id,omitempty"`
	TableID       uint64 `json:"table_id"`
	TableNumber   string `json:"table_number"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Persons       uint32 `json:"persons"`
	BookedAt      string `json:"booked_at"`
}

// ReservationStatusEvent is published when a manager confirms or
// cancels a reservation.
type ReservationStatusEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	Code          string `json:"code"`
	RestaurantID  uint64 `json:"restaurant_id"`
	Status        string `json:"status"`
	ChangedAt     string `json:"changed_at"`
}
