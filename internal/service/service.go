// Package service holds the application use cases: the reservation
// workflow, the vendor directory, reviews and vendor availability.
//
// Services receive the acting user explicitly as an Actor and talk to the
// database through the small store interfaces below, which the repository
// types satisfy.  Failures are reported with the repository sentinel errors
// (ErrNotFound, ErrForbidden, ErrConflict, ErrDuplicate) or a
// *ValidationError.
package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/iliyamo/wedding-marketplace/internal/model"
	"github.com/iliyamo/wedding-marketplace/internal/queue"
	"github.com/iliyamo/wedding-marketplace/internal/repository"
	"github.com/iliyamo/wedding-marketplace/internal/validation"
)

// Actor is the authenticated user a use case runs on behalf of.
type Actor struct {
	UserID uint64
	Role   model.Role
}

func (a Actor) IsCouple() bool { return a.Role == model.RoleCouple }
func (a Actor) IsVendor() bool { return a.Role == model.RoleVendor }

// ValidationError carries field-level messages keyed by JSON field name.
type ValidationError struct {
	Fields validation.Errors
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("validation failed: %s", strings.Join(keys, ", "))
}

// invalid returns a ValidationError for a single field.
func invalid(field, msg string) *ValidationError {
	errs := validation.Errors{}
	errs.Add(field, msg)
	return &ValidationError{Fields: errs}
}

// check runs the struct tags of in.
func check(in any) error {
	if errs := validation.Struct(in); errs != nil {
		return &ValidationError{Fields: errs}
	}
	return nil
}

type ReservationStore interface {
	Create(ctx context.Context, res *model.Reservation) error
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
	List(ctx context.Context, page repository.Page, scopes ...repository.Scope[model.Reservation]) (repository.Paginated[model.Reservation], error)
	TransitionStatus(ctx context.Context, ch repository.StatusChange) error
}

type VendorStore interface {
	List(ctx context.Context, page repository.Page, scopes ...repository.Scope[model.VendorProfile]) (repository.Paginated[model.VendorProfile], error)
	Top(ctx context.Context, limit int, scopes ...repository.Scope[model.VendorProfile]) ([]model.VendorProfile, error)
	GetByID(ctx context.Context, id uint64) (*model.VendorProfile, error)
	GetByUserID(ctx context.Context, userID uint64) (*model.VendorProfile, error)
}

type ServiceStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Service, error)
	ListForVendor(ctx context.Context, vendorID uint64, scopes ...repository.Scope[model.Service]) ([]model.Service, error)
}

type CategoryStore interface {
	ListWithCounts(ctx context.Context, scopes ...repository.Scope[model.VendorCategory]) ([]model.CategoryWithCount, error)
	GetBySlug(ctx context.Context, slug string) (*model.VendorCategory, error)
}

type ReviewStore interface {
	Create(ctx context.Context, rv *model.Review) error
	LatestForVendor(ctx context.Context, vendorID uint64, limit int, scopes ...repository.Scope[model.Review]) ([]model.Review, error)
}

type AvailabilityStore interface {
	Create(ctx context.Context, a *model.VendorAvailability) error
	ListForVendor(ctx context.Context, vendorID uint64, from, to model.Date, scopes ...repository.Scope[model.VendorAvailability]) ([]model.VendorAvailability, error)
}

// EventPublisher delivers reservation events.  *queue.Publisher and
// queue.Noop implement it.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.ReservationEvent) error
}
