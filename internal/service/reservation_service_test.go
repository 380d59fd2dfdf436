package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/wedding-marketplace/internal/model"
	"github.com/iliyamo/wedding-marketplace/internal/queue"
	"github.com/iliyamo/wedding-marketplace/internal/repository"
)

func TestCreateReservationStartsPending(t *testing.T) {
	f := newFixture(t)

	res, err := f.reservations.Create(t.Context(), actor(f.couple), f.bookingInput())
	require.NoError(t, err)

	assert.NotZero(t, res.ID)
	assert.Equal(t, model.StatusPending, res.Status)
	assert.Nil(t, res.ConfirmedAt)
	assert.Equal(t, f.couple.ID, res.CoupleID)
	assert.Equal(t, "2025-09-20", res.EventDate.String())
	assert.Equal(t, "14:00:00", res.StartTime)
	assert.Equal(t, "22:00:00", res.EndTime)
	assert.Equal(t, 2500.0, res.TotalPrice)

	stored, err := f.store.Reservations().GetByID(t.Context(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, stored.Status)

	events := f.events.Published()
	require.Len(t, events, 1)
	assert.Equal(t, queue.ReservationCreated, events[0].Type)
	assert.Empty(t, events[0].PreviousStatus)
	assert.Equal(t, 1.0, f.counter(t, "wedding_marketplace_reservation_transitions_total", map[string]string{"from": "", "to": "pending"}))
}

func TestCreateReservationOnlyByCouples(t *testing.T) {
	f := newFixture(t)
	_, err := f.reservations.Create(t.Context(), actor(f.vendorUser), f.bookingInput())
	assert.ErrorIs(t, err, repository.ErrForbidden)
}

func TestCreateReservationValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		mutate func(*CreateReservationInput)
		field  string
	}{
		{"missing date", func(in *CreateReservationInput) { in.EventDate = "" }, "event_date"},
		{"bad date", func(in *CreateReservationInput) { in.EventDate = "20/09/2025" }, "event_date"},
		{"bad start", func(in *CreateReservationInput) { in.StartTime = "2pm" }, "start_time"},
		{"end before start", func(in *CreateReservationInput) { in.EndTime = "13:00" }, "end_time"},
		{"end equals start", func(in *CreateReservationInput) { in.EndTime = "14:00:00" }, "end_time"},
		{"missing price", func(in *CreateReservationInput) { in.TotalPrice = nil }, "total_price"},
		{"negative price", func(in *CreateReservationInput) { in.TotalPrice = ptr(-1.0) }, "total_price"},
		{"long notes", func(in *CreateReservationInput) { in.Notes = ptr(strings.Repeat("a", 1001)) }, "notes"},
		{"unknown vendor", func(in *CreateReservationInput) { in.VendorProfileID = 9999 }, "vendor_profile_id"},
		{"unknown service", func(in *CreateReservationInput) { in.ServiceID = 9999 }, "service_id"},
		{"foreign service", func(in *CreateReservationInput) { in.ServiceID = f.rivalService.ID }, "service_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := f.bookingInput()
			tt.mutate(&in)
			_, err := f.reservations.Create(t.Context(), actor(f.couple), in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}

	page, err := f.reservations.List(t.Context(), actor(f.couple), ListReservationsInput{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestCreateReservationZeroPriceAllowed(t *testing.T) {
	f := newFixture(t)
	in := f.bookingInput()
	in.TotalPrice = ptr(0.0)
	in.Notes = nil
	res, err := f.reservations.Create(t.Context(), actor(f.couple), in)
	require.NoError(t, err)
	assert.Zero(t, res.TotalPrice)
	assert.Nil(t, res.Notes)
}

func TestConfirmThenReject(t *testing.T) {
	f := newFixture(t)
	res := f.book(t, f.couple)

	confirmed, err := f.reservations.UpdateStatus(t.Context(), actor(f.vendorUser), res.ID,
		UpdateStatusInput{Status: "confirmed", VendorNotes: ptr("See you there")})
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, confirmed.Status)
	require.NotNil(t, confirmed.ConfirmedAt)
	assert.Equal(t, f.clock, *confirmed.ConfirmedAt)
	assert.Equal(t, "See you there", *confirmed.VendorNotes)

	f.advance(time.Hour)
	rejected, err := f.reservations.UpdateStatus(t.Context(), actor(f.vendorUser), res.ID, UpdateStatusInput{Status: "rejected"})
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, rejected.Status)
	assert.Nil(t, rejected.ConfirmedAt)
	assert.Nil(t, rejected.VendorNotes)

	stored, err := f.store.Reservations().GetByID(t.Context(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, stored.Status)
	assert.Nil(t, stored.ConfirmedAt)
	assert.Nil(t, stored.VendorNotes)

	events := f.events.Published()
	require.Len(t, events, 3)
	assert.Equal(t, queue.ReservationRejected, events[2].Type)
	assert.Equal(t, "confirmed", events[2].PreviousStatus)
}

func TestReconfirmRefreshesConfirmedAt(t *testing.T) {
	f := newFixture(t)
	res := f.book(t, f.couple)

	_, err := f.reservations.UpdateStatus(t.Context(), actor(f.vendorUser), res.ID, UpdateStatusInput{Status: "rejected"})
	require.NoError(t, err)
	f.advance(time.Hour)
	again, err := f.reservations.UpdateStatus(t.Context(), actor(f.vendorUser), res.ID, UpdateStatusInput{Status: "confirmed"})
	require.NoError(t, err)
	require.NotNil(t, again.ConfirmedAt)
	assert.Equal(t, f.clock, *again.ConfirmedAt)
}

func TestUpdateStatusAuthorization(t *testing.T) {
	f := newFixture(t)
	res := f.book(t, f.couple)
	in := UpdateStatusInput{Status: "confirmed"}

	_, err := f.reservations.UpdateStatus(t.Context(), actor(f.otherVendor), res.ID, in)
	assert.ErrorIs(t, err, repository.ErrForbidden)
	_, err = f.reservations.UpdateStatus(t.Context(), actor(f.couple), res.ID, in)
	assert.ErrorIs(t, err, repository.ErrForbidden)
	_, err = f.reservations.UpdateStatus(t.Context(), actor(f.vendorUser), 9999, in)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	stored, err := f.store.Reservations().GetByID(t.Context(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, stored.Status)
}

func TestUpdateStatusRejectsOtherTargets(t *testing.T) {
	f := newFixture(t)
	res := f.book(t, f.couple)

	for _, status := range []string{"", "pending", "completed", "cancelled", "accepted"} {
		_, err := f.reservations.UpdateStatus(t.Context(), actor(f.vendorUser), res.ID, UpdateStatusInput{Status: status})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, status)
		assert.Contains(t, verr.Fields, "status")
	}
	_, err := f.reservations.UpdateStatus(t.Context(), actor(f.vendorUser), res.ID,
		UpdateStatusInput{Status: "confirmed", VendorNotes: ptr(strings.Repeat("n", 1001))})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "vendor_notes")
}

func TestTerminalStatesCannotBeDecided(t *testing.T) {
	f := newFixture(t)
	res := f.book(t, f.couple)

	_, err := f.reservations.Complete(t.Context(), res.ID)
	assert.ErrorIs(t, err, repository.ErrConflict, "pending cannot complete")

	_, err = f.reservations.UpdateStatus(t.Context(), actor(f.vendorUser), res.ID, UpdateStatusInput{Status: "confirmed"})
	require.NoError(t, err)
	done, err := f.reservations.Complete(t.Context(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, done.Status)
	assert.NotNil(t, done.ConfirmedAt)

	_, err = f.reservations.UpdateStatus(t.Context(), actor(f.vendorUser), res.ID, UpdateStatusInput{Status: "rejected"})
	assert.ErrorIs(t, err, repository.ErrConflict)
	_, err = f.reservations.Cancel(t.Context(), res.ID)
	assert.ErrorIs(t, err, repository.ErrConflict)

	stored, _ := f.store.Reservations().GetByID(t.Context(), res.ID)
	assert.Equal(t, model.StatusCompleted, stored.Status)
}

func TestCancelPending(t *testing.T) {
	f := newFixture(t)
	res := f.book(t, f.couple)

	cancelled, err := f.reservations.Cancel(t.Context(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)

	_, err = f.reservations.UpdateStatus(t.Context(), actor(f.vendorUser), res.ID, UpdateStatusInput{Status: "confirmed"})
	assert.ErrorIs(t, err, repository.ErrConflict)
	_, err = f.reservations.Cancel(t.Context(), 9999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestEventFailureDoesNotFailRequest(t *testing.T) {
	f := newFixture(t)
	f.events.Err = errors.New("broker down")

	res, err := f.reservations.Create(t.Context(), actor(f.couple), f.bookingInput())
	require.NoError(t, err)
	_, err = f.reservations.UpdateStatus(t.Context(), actor(f.vendorUser), res.ID, UpdateStatusInput{Status: "confirmed"})
	require.NoError(t, err)

	assert.Empty(t, f.events.Published())
	assert.Equal(t, 2.0, f.counter(t, "wedding_marketplace_event_publish_failures_total", nil))
}

func TestListDispatchesOnRole(t *testing.T) {
	f := newFixture(t)
	first := f.book(t, f.couple)
	second := f.book(t, f.couple)
	f.book(t, f.otherCouple)

	rivalIn := f.bookingInput()
	rivalIn.VendorProfileID, rivalIn.ServiceID = f.rival.ID, f.rivalService.ID
	_, err := f.reservations.Create(t.Context(), actor(f.couple), rivalIn)
	require.NoError(t, err)

	mine, err := f.reservations.List(t.Context(), actor(f.couple), ListReservationsInput{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, mine.Total)
	for _, r := range mine.Data {
		assert.Equal(t, f.couple.ID, r.CoupleID)
	}
	assert.Equal(t, second.ID, mine.Data[1].ID, "newest first")
	assert.Equal(t, first.ID, mine.Data[2].ID)

	vendorView, err := f.reservations.List(t.Context(), actor(f.vendorUser), ListReservationsInput{})
	require.NoError(t, err)
	assert.Equal(t, 3, vendorView.Total)
	for _, r := range vendorView.Data {
		assert.Equal(t, f.vendor.ID, r.VendorProfileID)
	}

	rivalView, err := f.reservations.List(t.Context(), actor(f.otherVendor), ListReservationsInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, rivalView.Total)

	_, err = f.reservations.UpdateStatus(t.Context(), actor(f.vendorUser), first.ID, UpdateStatusInput{Status: "confirmed"})
	require.NoError(t, err)
	confirmed, err := f.reservations.List(t.Context(), actor(f.vendorUser), ListReservationsInput{Status: "confirmed"})
	require.NoError(t, err)
	require.Len(t, confirmed.Data, 1)
	assert.Equal(t, first.ID, confirmed.Data[0].ID)

	_, err = f.reservations.List(t.Context(), actor(f.vendorUser), ListReservationsInput{Status: "bogus"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestListPaginatesByTen(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 11; i++ {
		f.book(t, f.couple)
	}
	page1, err := f.reservations.List(t.Context(), actor(f.couple), ListReservationsInput{Page: 1})
	require.NoError(t, err)
	assert.Len(t, page1.Data, 10)
	assert.Equal(t, 11, page1.Total)
	assert.Equal(t, 2, page1.LastPage)
	assert.Equal(t, ReservationsPerPage, page1.PerPage)

	page2, err := f.reservations.List(t.Context(), actor(f.couple), ListReservationsInput{Page: 2})
	require.NoError(t, err)
	assert.Len(t, page2.Data, 1)
}

func TestListVendorWithoutProfileIsEmpty(t *testing.T) {
	f := newFixture(t)
	f.book(t, f.couple)
	lonely := f.store.AddUser("New Vendor", "new@example.com", model.RoleVendor)
	page, err := f.reservations.List(t.Context(), actor(lonely), ListReservationsInput{})
	require.NoError(t, err)
	assert.Empty(t, page.Data)
}

func TestGetVisibility(t *testing.T) {
	f := newFixture(t)
	res := f.book(t, f.couple)

	got, err := f.reservations.Get(t.Context(), actor(f.couple), res.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Vendor)
	assert.Equal(t, "Golden Hour Studio", got.Vendor.BusinessName)
	require.NotNil(t, got.Vendor.Category)
	assert.Equal(t, "photographers", got.Vendor.Category.Slug)
	require.NotNil(t, got.Service)
	require.NotNil(t, got.Couple)
	assert.Nil(t, got.Review)

	_, err = f.reservations.Get(t.Context(), actor(f.vendorUser), res.ID)
	assert.NoError(t, err)
	_, err = f.reservations.Get(t.Context(), actor(f.otherCouple), res.ID)
	assert.ErrorIs(t, err, repository.ErrForbidden)
	_, err = f.reservations.Get(t.Context(), actor(f.otherVendor), res.ID)
	assert.ErrorIs(t, err, repository.ErrForbidden)
	_, err = f.reservations.Get(t.Context(), actor(f.couple), 9999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestBookingContext(t *testing.T) {
	f := newFixture(t)

	vendor, svc, err := f.reservations.BookingContext(t.Context(), f.vendor.ID, f.service.ID)
	require.NoError(t, err)
	assert.Equal(t, f.vendor.ID, vendor.ID)
	assert.NotNil(t, vendor.User)
	assert.Equal(t, f.service.ID, svc.ID)

	_, _, err = f.reservations.BookingContext(t.Context(), f.vendor.ID, f.rivalService.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, _, err = f.reservations.BookingContext(t.Context(), 9999, f.service.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: map[string][]string{"b": {"x"}, "a": {"y"}}}
	assert.Equal(t, "validation failed: a, b", err.Error())
	assert.Equal(t, "validation failed", (&ValidationError{}).Error())
}
