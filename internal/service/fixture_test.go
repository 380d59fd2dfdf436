package service

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/wedding-marketplace/internal/metrics"
	"github.com/iliyamo/wedding-marketplace/internal/model"
	"github.com/iliyamo/wedding-marketplace/internal/service/servicetest"
)

var epoch = time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store   *servicetest.Store
	events  *servicetest.Events
	metrics *metrics.Metrics
	clock   time.Time

	reservations *ReservationService
	reviews      *ReviewService
	directory    *DirectoryService
	availability *AvailabilityService

	couple, otherCouple     model.User
	vendorUser, otherVendor model.User
	category                model.VendorCategory
	vendor, rival           model.VendorProfile
	service, rivalService   model.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := servicetest.New(epoch)
	f := &fixture{store: st, events: &servicetest.Events{}, metrics: metrics.New(), clock: epoch}

	f.couple = st.AddUser("Test Couple", "couple@example.com", model.RoleCouple)
	f.otherCouple = st.AddUser("Other Couple", "other@example.com", model.RoleCouple)
	f.vendorUser = st.AddUser("Test Vendor", "vendor@example.com", model.RoleVendor)
	f.otherVendor = st.AddUser("Rival Vendor", "rival@example.com", model.RoleVendor)
	f.category = st.AddCategory("Photographers", "photographers", true)
	f.vendor = st.AddVendor(model.VendorProfile{UserID: f.vendorUser.ID, VendorCategoryID: f.category.ID,
		BusinessName: "Golden Hour Studio", IsActive: true})
	f.rival = st.AddVendor(model.VendorProfile{UserID: f.otherVendor.ID, VendorCategoryID: f.category.ID,
		BusinessName: "Rival Shots", IsActive: true})
	f.service = st.AddService(model.Service{VendorProfileID: f.vendor.ID, Name: "Full day", Price: 2500,
		PriceType: model.PriceFixed, IsAvailable: true})
	f.rivalService = st.AddService(model.Service{VendorProfileID: f.rival.ID, Name: "Half day", Price: 900,
		PriceType: model.PriceFixed, IsAvailable: true})

	clock := func() time.Time { return f.clock }
	f.reservations = NewReservationService(st.Reservations(), st.Vendors(), st.Services(), f.events, f.metrics, zerolog.Nop())
	f.reservations.Now = clock
	f.reviews = NewReviewService(st.Reservations(), st.Reviews(), f.metrics, zerolog.Nop())
	f.directory = NewDirectoryService(st.Categories(), st.Vendors(), st.Services(), st.Reviews(), st.Availability())
	f.directory.Now = clock
	f.availability = NewAvailabilityService(st.Vendors(), st.Availability())
	f.availability.Now = clock
	return f
}

func (f *fixture) advance(d time.Duration) { f.clock = f.clock.Add(d) }

func actor(u model.User) Actor { return Actor{UserID: u.ID, Role: u.Role} }

func ptr[T any](v T) *T { return &v }

func (f *fixture) bookingInput() CreateReservationInput {
	return CreateReservationInput{
		VendorProfileID: f.vendor.ID,
		ServiceID:       f.service.ID,
		EventDate:       "2025-09-20",
		StartTime:       "14:00",
		EndTime:         "22:00",
		TotalPrice:      ptr(2500.0),
		Notes:           ptr("Outdoor ceremony"),
	}
}

func (f *fixture) book(t *testing.T, couple model.User) *model.Reservation {
	t.Helper()
	res, err := f.reservations.Create(t.Context(), actor(couple), f.bookingInput())
	require.NoError(t, err)
	f.advance(time.Minute)
	return res
}

// counter reads a counter sample from the fixture registry.
func (f *fixture) counter(t *testing.T, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := f.metrics.Registry.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					continue next
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}
