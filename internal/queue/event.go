// Package queue carries reservation events over RabbitMQ: the payload, a
// publisher used by the web process and the audit-log consumer.
package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/wedding-marketplace/internal/model"
)

// Event types.
const (
	ReservationCreated   = "reservation.created"
	ReservationConfirmed = "reservation.confirmed"
	ReservationRejected  = "reservation.rejected"
	ReservationCompleted = "reservation.completed"
	ReservationCancelled = "reservation.cancelled"
)

// TypeFor returns the event type emitted when a reservation enters status.
func TypeFor(status model.ReservationStatus) string {
	switch status {
	case model.StatusPending:
		return ReservationCreated
	case model.StatusConfirmed:
		return ReservationConfirmed
	case model.StatusRejected:
		return ReservationRejected
	case model.StatusCompleted:
		return ReservationCompleted
	case model.StatusCancelled:
		return ReservationCancelled
	}
	return "reservation." + string(status)
}

// ReservationEvent is published whenever a reservation is created or
// changes status.  It holds enough for consumers to log or notify without
// reading the primary database.
type ReservationEvent struct {
	EventID         string  `json:"event_id"`
	Type            string  `json:"type"`
	ReservationID   uint64  `json:"reservation_id"`
	CoupleID        uint64  `json:"couple_id"`
	VendorProfileID uint64  `json:"vendor_profile_id"`
	ServiceID       uint64  `json:"service_id"`
	Status          string  `json:"status"`
	PreviousStatus  string  `json:"previous_status,omitempty"`
	EventDate       string  `json:"event_date"`
	TotalPrice      float64 `json:"total_price"`
	OccurredAt      string  `json:"occurred_at"`
}

// NewReservationEvent describes res having just entered res.Status from
// previous (empty for a new reservation).
func NewReservationEvent(res model.Reservation, previous model.ReservationStatus, at time.Time) ReservationEvent {
	return ReservationEvent{
		EventID:         uuid.NewString(),
		Type:            TypeFor(res.Status),
		ReservationID:   res.ID,
		CoupleID:        res.CoupleID,
		VendorProfileID: res.VendorProfileID,
		ServiceID:       res.ServiceID,
		Status:          string(res.Status),
		PreviousStatus:  string(previous),
		EventDate:       res.EventDate.String(),
		TotalPrice:      res.TotalPrice,
		OccurredAt:      at.UTC().Format(time.RFC3339),
	}
}
