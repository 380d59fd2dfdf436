package repository

import (
	"strings"

	"github.com/iliyamo/wedding-marketplace/internal/model"
)

// Scope is a named filter over T.  Clause is the SQL form, written against
// the table aliases used by the repository that queries T, and Match is the
// same predicate evaluated in memory.  Scopes combine with AND and carry no
// ordering or paging, so they compose freely with both.
type Scope[T any] struct {
	Name   string
	Clause string
	Args   []any
	Match  func(T) bool
}

// Where joins the clauses of scopes with AND.  With no scopes it yields
// "1=1" so callers can always write "WHERE " + cond.
func Where[T any](scopes ...Scope[T]) (string, []any) {
	if len(scopes) == 0 {
		return "1=1", nil
	}
	where := make([]string, 0, len(scopes))
	var args []any
	for _, s := range scopes {
		where = append(where, "("+s.Clause+")")
		args = append(args, s.Args...)
	}
	return strings.Join(where, " AND "), args
}

// Matches reports whether v satisfies every scope.
func Matches[T any](v T, scopes ...Scope[T]) bool {
	for _, s := range scopes {
		if !s.Match(v) {
			return false
		}
	}
	return true
}

// Filter keeps the items satisfying every scope, preserving order.
func Filter[T any](items []T, scopes ...Scope[T]) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if Matches(it, scopes...) {
			out = append(out, it)
		}
	}
	return out
}

// Table aliases the clauses below are written against.
//   vc = vendor_categories, vp = vendor_profiles, s = services,
//   va = vendor_availability, r = reservations, rv = reviews

// ActiveCategories keeps categories with is_active set.
func ActiveCategories() Scope[model.VendorCategory] {
	return Scope[model.VendorCategory]{
		Name:   "active",
		Clause: "vc.is_active = 1",
		Match:  func(c model.VendorCategory) bool { return c.IsActive },
	}
}

// ActiveVendors keeps vendor profiles with is_active set.
func ActiveVendors() Scope[model.VendorProfile] {
	return Scope[model.VendorProfile]{
		Name:   "active",
		Clause: "vp.is_active = 1",
		Match:  func(v model.VendorProfile) bool { return v.IsActive },
	}
}

// VerifiedVendors keeps vendor profiles with is_verified set.
func VerifiedVendors() Scope[model.VendorProfile] {
	return Scope[model.VendorProfile]{
		Name:   "verified",
		Clause: "vp.is_verified = 1",
		Match:  func(v model.VendorProfile) bool { return v.IsVerified },
	}
}

// VendorsInCategory keeps vendor profiles filed under categoryID.
func VendorsInCategory(categoryID uint64) Scope[model.VendorProfile] {
	return Scope[model.VendorProfile]{
		Name:   "in_category",
		Clause: "vp.vendor_category_id = ?",
		Args:   []any{categoryID},
		Match:  func(v model.VendorProfile) bool { return v.VendorCategoryID == categoryID },
	}
}

// VendorsRatedAtLeast keeps vendor profiles whose average rating is >= min.
func VendorsRatedAtLeast(min float64) Scope[model.VendorProfile] {
	return Scope[model.VendorProfile]{
		Name:   "rated_at_least",
		Clause: "vp.average_rating >= ?",
		Args:   []any{min},
		Match:  func(v model.VendorProfile) bool { return v.AverageRating >= min },
	}
}

// AvailableServices keeps services with is_available set.
func AvailableServices() Scope[model.Service] {
	return Scope[model.Service]{
		Name:   "available",
		Clause: "s.is_available = 1",
		Match:  func(s model.Service) bool { return s.IsAvailable },
	}
}

// AvailableSlots keeps availability slots with is_available set.
func AvailableSlots() Scope[model.VendorAvailability] {
	return Scope[model.VendorAvailability]{
		Name:   "available",
		Clause: "va.is_available = 1",
		Match:  func(a model.VendorAvailability) bool { return a.IsAvailable },
	}
}

// ReservationsWithStatus keeps reservations in the given status.
func ReservationsWithStatus(status model.ReservationStatus) Scope[model.Reservation] {
	return Scope[model.Reservation]{
		Name:   string(status),
		Clause: "r.status = ?",
		Args:   []any{string(status)},
		Match:  func(r model.Reservation) bool { return r.Status == status },
	}
}

// PendingReservations keeps reservations awaiting a vendor decision.
func PendingReservations() Scope[model.Reservation] {
	return ReservationsWithStatus(model.StatusPending)
}

// ConfirmedReservations keeps confirmed reservations.
func ConfirmedReservations() Scope[model.Reservation] {
	return ReservationsWithStatus(model.StatusConfirmed)
}

// CompletedReservations keeps completed reservations.
func CompletedReservations() Scope[model.Reservation] {
	return ReservationsWithStatus(model.StatusCompleted)
}

// ReservationsForCouple keeps reservations booked by coupleID.
func ReservationsForCouple(coupleID uint64) Scope[model.Reservation] {
	return Scope[model.Reservation]{
		Name:   "for_couple",
		Clause: "r.couple_id = ?",
		Args:   []any{coupleID},
		Match:  func(r model.Reservation) bool { return r.CoupleID == coupleID },
	}
}

// ReservationsForVendorUser keeps reservations on the vendor profile owned
// by userID.  The in-memory form needs r.Vendor to be loaded.
func ReservationsForVendorUser(userID uint64) Scope[model.Reservation] {
	return Scope[model.Reservation]{
		Name:   "for_vendor_user",
		Clause: "vp.user_id = ?",
		Args:   []any{userID},
		Match:  func(r model.Reservation) bool { return r.Vendor != nil && r.Vendor.UserID == userID },
	}
}

// VerifiedReviews keeps reviews with is_verified set.
func VerifiedReviews() Scope[model.Review] {
	return Scope[model.Review]{
		Name:   "verified",
		Clause: "rv.is_verified = 1",
		Match:  func(r model.Review) bool { return r.IsVerified },
	}
}
