package model

import "time"

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

const (
    StatusPending   ReservationStatus = "pending"
    StatusConfirmed ReservationStatus = "confirmed"
    StatusRejected  ReservationStatus = "rejected"
    StatusCompleted ReservationStatus = "completed"
    StatusCancelled ReservationStatus = "cancelled"
)

// Statuses lists every status in declaration order.
var Statuses = []ReservationStatus{StatusPending, StatusConfirmed, StatusRejected, StatusCompleted, StatusCancelled}

// transitions maps a target status to the statuses it may be entered from.
// A vendor may revisit a decision (confirmed <-> rejected); completed and
// cancelled are terminal.
var transitions = map[ReservationStatus][]ReservationStatus{
    StatusConfirmed: {StatusPending, StatusConfirmed, StatusRejected},
    StatusRejected:  {StatusPending, StatusConfirmed, StatusRejected},
    StatusCompleted: {StatusConfirmed},
    StatusCancelled: {StatusPending, StatusConfirmed},
}

// Valid reports whether s is a known status.
func (s ReservationStatus) Valid() bool {
    for _, v := range Statuses {
        if v == s {
            return true
        }
    }
    return false
}

// Terminal reports whether no transition leaves s.
func (s ReservationStatus) Terminal() bool {
    return s == StatusCompleted || s == StatusCancelled
}

// CanTransition reports whether a reservation in status from may move to to.
func CanTransition(from, to ReservationStatus) bool {
    for _, s := range transitions[to] {
        if s == from {
            return true
        }
    }
    return false
}

// SourcesFor returns the statuses a reservation may be in to enter to.
// The result is a copy and safe to modify.
func SourcesFor(to ReservationStatus) []ReservationStatus {
    src := transitions[to]
    out := make([]ReservationStatus, len(src))
    copy(out, src)
    return out
}

// Reservation is a couple's booking request for one service of a vendor on
// a given date and time window.
//
// Fields:
//  CoupleID        – users.id of the booking couple.
//  VendorProfileID – vendor profile the service belongs to.
//  EventDate       – calendar date of the event.
//  StartTime/EndTime – wall-clock window, "15:04:05".
//  TotalPrice      – agreed price, two decimals.
//  Notes           – couple's notes; VendorNotes – vendor's notes.
//  ConfirmedAt     – non-nil iff the latest decision was a confirmation.
//
// Vendor, Service, Couple and Review are populated by joined reads only.
type Reservation struct {
    ID              uint64            `json:"id"`
    CoupleID        uint64            `json:"couple_id"`
    VendorProfileID uint64            `json:"vendor_profile_id"`
    ServiceID       uint64            `json:"service_id"`
    EventDate       Date              `json:"event_date"`
    StartTime       string            `json:"start_time"`
    EndTime         string            `json:"end_time"`
    Status          ReservationStatus `json:"status"`
    TotalPrice      float64           `json:"total_price"`
    Notes           *string           `json:"notes"`
    VendorNotes     *string           `json:"vendor_notes"`
    ConfirmedAt     *time.Time        `json:"confirmed_at"`
    CreatedAt       time.Time         `json:"created_at"`
    UpdatedAt       time.Time         `json:"updated_at"`

    Vendor  *VendorProfile `json:"vendor_profile,omitempty"`
    Service *Service       `json:"service,omitempty"`
    Couple  *UserSummary   `json:"couple,omitempty"`
    Review  *Review        `json:"review,omitempty"`
}
