package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iliyamo/wedding-marketplace/internal/logging"
	"github.com/iliyamo/wedding-marketplace/internal/metrics"
	"github.com/iliyamo/wedding-marketplace/internal/model"
	"github.com/iliyamo/wedding-marketplace/internal/queue"
	"github.com/iliyamo/wedding-marketplace/internal/repository"
	"github.com/iliyamo/wedding-marketplace/internal/validation"
)

// ReservationsPerPage is the page size of reservation listings.
const ReservationsPerPage = 10

const publishTimeout = 3 * time.Second

// CreateReservationInput is the booking request a couple submits.
type CreateReservationInput struct {
	VendorProfileID uint64   `json:"vendor_profile_id" validate:"required"`
	ServiceID       uint64   `json:"service_id" validate:"required"`
	EventDate       string   `json:"event_date" validate:"required,date"`
	StartTime       string   `json:"start_time" validate:"required,clock"`
	EndTime         string   `json:"end_time" validate:"required,clock"`
	TotalPrice      *float64 `json:"total_price" validate:"required,gte=0"`
	Notes           *string  `json:"notes" validate:"omitempty,max=1000"`
}

// UpdateStatusInput is a vendor's decision on a reservation.  VendorNotes
// replaces the stored notes, so omitting it clears them.
type UpdateStatusInput struct {
	Status      string  `json:"status" validate:"required,oneof=confirmed rejected"`
	VendorNotes *string `json:"vendor_notes" validate:"omitempty,max=1000"`
}

// ListReservationsInput selects a page of the actor's reservations.
type ListReservationsInput struct {
	Page   int
	Status string // optional
}

// ReservationService runs the reservation lifecycle:
//
//	pending -> confirmed | rejected | cancelled
//	confirmed -> confirmed | rejected | completed | cancelled
//	rejected -> confirmed | rejected
//
// completed and cancelled are terminal.
type ReservationService struct {
	reservations ReservationStore
	vendors      VendorStore
	services     ServiceStore
	events       EventPublisher
	metrics      *metrics.Metrics
	log          zerolog.Logger

	// Now is the clock used for timestamps.
	Now func() time.Time
}

func NewReservationService(reservations ReservationStore, vendors VendorStore, services ServiceStore,
	events EventPublisher, m *metrics.Metrics, logger zerolog.Logger) *ReservationService {
	if events == nil {
		events = queue.Noop{}
	}
	return &ReservationService{
		reservations: reservations,
		vendors:      vendors,
		services:     services,
		events:       events,
		metrics:      m,
		log:          logging.Component(logger, "reservations"),
		Now:          func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
}

// BookingContext returns the vendor profile and service shown on the
// booking form.  Both must exist and the service must belong to the
// vendor, otherwise ErrNotFound.
func (s *ReservationService) BookingContext(ctx context.Context, vendorID, serviceID uint64) (*model.VendorProfile, *model.Service, error) {
	vendor, err := s.vendors.GetByID(ctx, vendorID)
	if err != nil {
		return nil, nil, err
	}
	svc, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		return nil, nil, err
	}
	if svc.VendorProfileID != vendor.ID {
		return nil, nil, repository.ErrNotFound
	}
	return vendor, svc, nil
}

// Create stores a new pending reservation for the acting couple.
func (s *ReservationService) Create(ctx context.Context, actor Actor, in CreateReservationInput) (*model.Reservation, error) {
	if !actor.IsCouple() {
		return nil, repository.ErrForbidden
	}
	if err := check(in); err != nil {
		return nil, err
	}
	date, _ := model.ParseDate(in.EventDate)
	start, _ := model.ParseClock(in.StartTime)
	end, _ := model.ParseClock(in.EndTime)

	errs := validation.Errors{}
	if end <= start {
		errs.Add("end_time", "The end time field must be a time after start time.")
	}
	vendor, err := s.vendors.GetByID(ctx, in.VendorProfileID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		errs.Add("vendor_profile_id", "The selected vendor profile id is invalid.")
	case err != nil:
		return nil, fmt.Errorf("load vendor profile: %w", err)
	}
	svc, err := s.services.GetByID(ctx, in.ServiceID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		errs.Add("service_id", "The selected service id is invalid.")
	case err != nil:
		return nil, fmt.Errorf("load service: %w", err)
	case vendor != nil && svc.VendorProfileID != vendor.ID:
		errs.Add("service_id", "The selected service does not belong to this vendor.")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	res := &model.Reservation{
		CoupleID:        actor.UserID,
		VendorProfileID: vendor.ID,
		ServiceID:       svc.ID,
		EventDate:       date,
		StartTime:       start,
		EndTime:         end,
		Status:          model.StatusPending,
		TotalPrice:      *in.TotalPrice,
		Notes:           in.Notes,
		CreatedAt:       s.Now(),
	}
	if err := s.reservations.Create(ctx, res); err != nil {
		return nil, fmt.Errorf("create reservation: %w", err)
	}
	s.log.Info().Uint64(logging.RESERVATION, res.ID).Uint64(logging.USER_ID, actor.UserID).
		Str(logging.STATUS, string(res.Status)).Msg("reservation requested")
	s.recorded(ctx, *res, "", res.CreatedAt)
	return res, nil
}

// UpdateStatus applies a vendor decision.  Only the user owning the
// reservation's vendor profile may decide; other actors get ErrForbidden.
// Deciding on a completed or cancelled reservation yields ErrConflict.
func (s *ReservationService) UpdateStatus(ctx context.Context, actor Actor, id uint64, in UpdateStatusInput) (*model.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ownsAsVendor(actor, res) {
		return nil, repository.ErrForbidden
	}
	if err := check(in); err != nil {
		return nil, err
	}
	return s.transition(ctx, res, model.ReservationStatus(in.Status), in.VendorNotes, true)
}

// Complete marks a confirmed reservation as completed.
func (s *ReservationService) Complete(ctx context.Context, id uint64) (*model.Reservation, error) {
	return s.systemTransition(ctx, id, model.StatusCompleted)
}

// Cancel cancels a pending or confirmed reservation.
func (s *ReservationService) Cancel(ctx context.Context, id uint64) (*model.Reservation, error) {
	return s.systemTransition(ctx, id, model.StatusCancelled)
}

func (s *ReservationService) systemTransition(ctx context.Context, id uint64, to model.ReservationStatus) (*model.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, res, to, nil, false)
}

func (s *ReservationService) transition(ctx context.Context, res *model.Reservation, to model.ReservationStatus,
	notes *string, setNotes bool) (*model.Reservation, error) {
	from := res.Status
	if !model.CanTransition(from, to) {
		return nil, fmt.Errorf("reservation %d is %s, cannot become %s: %w", res.ID, from, to, repository.ErrConflict)
	}
	at := s.Now()
	err := s.reservations.TransitionStatus(ctx, repository.StatusChange{
		ID: res.ID, To: to, At: at, VendorNotes: notes, SetVendorNotes: setNotes,
	})
	if err != nil {
		return nil, err
	}

	res.Status = to
	res.UpdatedAt = at
	switch to {
	case model.StatusConfirmed:
		res.ConfirmedAt = &at
	case model.StatusRejected:
		res.ConfirmedAt = nil
	}
	if setNotes {
		res.VendorNotes = notes
	}
	s.log.Info().Uint64(logging.RESERVATION, res.ID).Str("from", string(from)).
		Str(logging.STATUS, string(to)).Msg("reservation status changed")
	s.recorded(ctx, *res, from, at)
	return res, nil
}

// recorded counts and publishes a reservation that just entered res.Status.
// Publishing is best effort and never fails the caller.
func (s *ReservationService) recorded(ctx context.Context, res model.Reservation, from model.ReservationStatus, at time.Time) {
	s.metrics.ReservationTransition(string(from), string(res.Status))

	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	ev := queue.NewReservationEvent(res, from, at)
	if err := s.events.Publish(pctx, ev); err != nil {
		s.metrics.EventPublishFailed()
		s.log.Warn().Err(err).Str(logging.EVENT, ev.Type).Uint64(logging.RESERVATION, res.ID).
			Msg("reservation event dropped")
	}
}

// List returns the actor's reservations, newest first.  Couples see the
// reservations they booked, vendors those on their own profile.
func (s *ReservationService) List(ctx context.Context, actor Actor, in ListReservationsInput) (repository.Paginated[model.Reservation], error) {
	var scopes []repository.Scope[model.Reservation]
	switch actor.Role {
	case model.RoleCouple:
		scopes = append(scopes, repository.ReservationsForCouple(actor.UserID))
	case model.RoleVendor:
		scopes = append(scopes, repository.ReservationsForVendorUser(actor.UserID))
	default:
		return repository.Paginated[model.Reservation]{}, repository.ErrForbidden
	}
	if in.Status != "" {
		status := model.ReservationStatus(in.Status)
		if !status.Valid() {
			return repository.Paginated[model.Reservation]{}, invalid("status", validation.Message("status", "oneof", "", 0))
		}
		scopes = append(scopes, repository.ReservationsWithStatus(status))
	}
	return s.reservations.List(ctx, repository.NewPage(in.Page, ReservationsPerPage), scopes...)
}

// Get returns a reservation with its vendor, service, couple and review.
// Only its couple and the owner of its vendor profile may see it.
func (s *ReservationService) Get(ctx context.Context, actor Actor, id uint64) (*model.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !(actor.IsCouple() && res.CoupleID == actor.UserID) && !ownsAsVendor(actor, res) {
		return nil, repository.ErrForbidden
	}
	return res, nil
}

func ownsAsVendor(actor Actor, res *model.Reservation) bool {
	return actor.IsVendor() && res.Vendor != nil && res.Vendor.UserID == actor.UserID
}
