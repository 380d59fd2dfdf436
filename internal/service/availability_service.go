package service

import (
	"context"
	"time"

	"github.com/iliyamo/wedding-marketplace/internal/model"
	"github.com/iliyamo/wedding-marketplace/internal/repository"
	"github.com/iliyamo/wedding-marketplace/internal/validation"
)

// AddAvailabilityInput declares a slot on the vendor's calendar.
// IsAvailable defaults to true.
type AddAvailabilityInput struct {
	Date        string  `json:"date" validate:"required,date"`
	StartTime   string  `json:"start_time" validate:"required,clock"`
	EndTime     string  `json:"end_time" validate:"required,clock"`
	IsAvailable *bool   `json:"is_available"`
	Notes       *string `json:"notes" validate:"omitempty,max=1000"`
}

// AvailabilityService manages the slots vendors publish on their page.
// Slots are informational; reservations are not checked against them.
type AvailabilityService struct {
	vendors      VendorStore
	availability AvailabilityStore

	Now func() time.Time
}

func NewAvailabilityService(vendors VendorStore, availability AvailabilityStore) *AvailabilityService {
	return &AvailabilityService{vendors: vendors, availability: availability, Now: time.Now}
}

// Add stores a slot on the acting vendor's own profile.
func (s *AvailabilityService) Add(ctx context.Context, actor Actor, in AddAvailabilityInput) (*model.VendorAvailability, error) {
	vendor, err := s.ownProfile(ctx, actor)
	if err != nil {
		return nil, err
	}
	if err := check(in); err != nil {
		return nil, err
	}
	date, _ := model.ParseDate(in.Date)
	start, _ := model.ParseClock(in.StartTime)
	end, _ := model.ParseClock(in.EndTime)
	errs := validation.Errors{}
	if end <= start {
		errs.Add("end_time", "The end time field must be a time after start time.")
	}
	if date.Before(model.DateOf(s.Now())) {
		errs.Add("date", "The date field must be a date after or equal to today.")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	slot := &model.VendorAvailability{
		VendorProfileID: vendor.ID,
		Date:            date,
		StartTime:       start,
		EndTime:         end,
		IsAvailable:     in.IsAvailable == nil || *in.IsAvailable,
		Notes:           in.Notes,
	}
	if err := s.availability.Create(ctx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

// List returns the acting vendor's slots between from and to inclusive.
// Zero dates default to today and today plus the vendor page horizon.
func (s *AvailabilityService) List(ctx context.Context, actor Actor, from, to model.Date) ([]model.VendorAvailability, error) {
	vendor, err := s.ownProfile(ctx, actor)
	if err != nil {
		return nil, err
	}
	if from.IsZero() {
		from = model.DateOf(s.Now())
	}
	if to.IsZero() {
		to = from.AddDays(AvailabilityHorizon)
	}
	if to.Before(from) {
		return nil, invalid("to", "The to field must be a date after or equal to from.")
	}
	return s.availability.ListForVendor(ctx, vendor.ID, from, to)
}

func (s *AvailabilityService) ownProfile(ctx context.Context, actor Actor) (*model.VendorProfile, error) {
	if !actor.IsVendor() {
		return nil, repository.ErrForbidden
	}
	return s.vendors.GetByUserID(ctx, actor.UserID)
}
