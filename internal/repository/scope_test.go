package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/wedding-marketplace/internal/model"
)

func TestWhereComposesClausesAndArgs(t *testing.T) {
	cond, args := Where(ActiveVendors(), VendorsInCategory(3), VendorsRatedAtLeast(4.0))
	assert.Equal(t, "(vp.is_active = 1) AND (vp.vendor_category_id = ?) AND (vp.average_rating >= ?)", cond)
	assert.Equal(t, []any{uint64(3), 4.0}, args)

	cond, args = Where[model.VendorProfile]()
	assert.Equal(t, "1=1", cond)
	assert.Empty(t, args)
}

func TestActiveVendorsFilter(t *testing.T) {
	vendors := []model.VendorProfile{
		{ID: 1, IsActive: true, VendorCategoryID: 1, AverageRating: 4.5},
		{ID: 2, IsActive: false, VendorCategoryID: 1, AverageRating: 5},
		{ID: 3, IsActive: true, VendorCategoryID: 2, AverageRating: 3.9},
	}

	got := Filter(vendors, ActiveVendors())
	assert.Equal(t, []uint64{1, 3}, vendorIDs(got))
	for _, v := range got {
		assert.True(t, v.IsActive)
	}

	assert.Equal(t, []uint64{1}, vendorIDs(Filter(vendors, ActiveVendors(), VendorsRatedAtLeast(4.0))))
	assert.Equal(t, []uint64{3}, vendorIDs(Filter(vendors, ActiveVendors(), VendorsInCategory(2))))

	none := Filter([]model.VendorProfile{{ID: 9}}, ActiveVendors())
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestReservationScopes(t *testing.T) {
	mine := model.Reservation{ID: 1, CoupleID: 10, Status: model.StatusPending, Vendor: &model.VendorProfile{UserID: 20}}
	other := model.Reservation{ID: 2, CoupleID: 11, Status: model.StatusConfirmed, Vendor: &model.VendorProfile{UserID: 21}}
	notLoaded := model.Reservation{ID: 3, CoupleID: 10, Status: model.StatusCompleted}

	all := []model.Reservation{mine, other, notLoaded}
	assert.Len(t, Filter(all, ReservationsForCouple(10)), 2)
	assert.Len(t, Filter(all, ReservationsForVendorUser(20)), 1)
	assert.Len(t, Filter(all, ReservationsForVendorUser(20), ConfirmedReservations()), 0)
	assert.Equal(t, uint64(2), Filter(all, ConfirmedReservations())[0].ID)
	assert.Equal(t, uint64(3), Filter(all, CompletedReservations())[0].ID)
	assert.Equal(t, uint64(1), Filter(all, PendingReservations())[0].ID)

	cond, args := Where(ReservationsForVendorUser(20), PendingReservations())
	assert.Equal(t, "(vp.user_id = ?) AND (r.status = ?)", cond)
	assert.Equal(t, []any{uint64(20), "pending"}, args)
}

func TestMiscScopes(t *testing.T) {
	assert.True(t, Matches(model.VendorCategory{IsActive: true}, ActiveCategories()))
	assert.False(t, Matches(model.VendorCategory{}, ActiveCategories()))
	assert.True(t, Matches(model.Service{IsAvailable: true}, AvailableServices()))
	assert.False(t, Matches(model.VendorAvailability{}, AvailableSlots()))
	assert.True(t, Matches(model.Review{IsVerified: true}, VerifiedReviews()))
	assert.False(t, Matches(model.VendorProfile{IsActive: true}, VerifiedVendors()))
}

func vendorIDs(vs []model.VendorProfile) []uint64 {
	ids := make([]uint64, 0, len(vs))
	for _, v := range vs {
		ids = append(ids, v.ID)
	}
	return ids
}

