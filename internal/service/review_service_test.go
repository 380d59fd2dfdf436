package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/wedding-marketplace/internal/model"
	"github.com/iliyamo/wedding-marketplace/internal/repository"
)

func (f *fixture) completed(t *testing.T, couple model.User) *model.Reservation {
	t.Helper()
	res := f.book(t, couple)
	_, err := f.reservations.UpdateStatus(t.Context(), actor(f.vendorUser), res.ID, UpdateStatusInput{Status: "confirmed"})
	require.NoError(t, err)
	done, err := f.reservations.Complete(t.Context(), res.ID)
	require.NoError(t, err)
	return done
}

func TestReviewUpdatesVendorAggregates(t *testing.T) {
	f := newFixture(t)
	a := f.completed(t, f.couple)
	b := f.completed(t, f.otherCouple)

	rv, err := f.reviews.Create(t.Context(), actor(f.couple), a.ID, CreateReviewInput{Rating: 5, Comment: ptr("Stunning photos")})
	require.NoError(t, err)
	assert.NotZero(t, rv.ID)
	assert.Equal(t, f.vendor.ID, rv.VendorProfileID)

	_, err = f.reviews.Create(t.Context(), actor(f.otherCouple), b.ID, CreateReviewInput{Rating: 4})
	require.NoError(t, err)

	vendor, ok := f.store.Vendor(f.vendor.ID)
	require.True(t, ok)
	assert.Equal(t, 2, vendor.TotalReviews)
	assert.Equal(t, 4.5, vendor.AverageRating)
	assert.Equal(t, 2.0, f.counter(t, "wedding_marketplace_reviews_created_total", nil))

	got, err := f.reservations.Get(t.Context(), actor(f.couple), a.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Review)
	assert.Equal(t, 5, got.Review.Rating)
}

func TestReviewOncePerReservation(t *testing.T) {
	f := newFixture(t)
	res := f.completed(t, f.couple)

	_, err := f.reviews.Create(t.Context(), actor(f.couple), res.ID, CreateReviewInput{Rating: 3})
	require.NoError(t, err)
	_, err = f.reviews.Create(t.Context(), actor(f.couple), res.ID, CreateReviewInput{Rating: 1})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	vendor, _ := f.store.Vendor(f.vendor.ID)
	assert.Equal(t, 1, vendor.TotalReviews)
	assert.Equal(t, 3.0, vendor.AverageRating)
}

func TestReviewRules(t *testing.T) {
	f := newFixture(t)
	done := f.completed(t, f.couple)
	pending := f.book(t, f.couple)

	_, err := f.reviews.Create(t.Context(), actor(f.otherCouple), done.ID, CreateReviewInput{Rating: 5})
	assert.ErrorIs(t, err, repository.ErrForbidden)
	_, err = f.reviews.Create(t.Context(), actor(f.vendorUser), done.ID, CreateReviewInput{Rating: 5})
	assert.ErrorIs(t, err, repository.ErrForbidden)
	_, err = f.reviews.Create(t.Context(), actor(f.couple), 9999, CreateReviewInput{Rating: 5})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = f.reviews.Create(t.Context(), actor(f.couple), pending.ID, CreateReviewInput{Rating: 5})
	assert.ErrorIs(t, err, repository.ErrConflict)

	for _, in := range []CreateReviewInput{
		{Rating: 0},
		{Rating: 6},
		{Rating: 4, Comment: ptr(strings.Repeat("c", 2001))},
		{Rating: 4, Images: []string{"not a url"}},
	} {
		_, err := f.reviews.Create(t.Context(), actor(f.couple), done.ID, in)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	}

	vendor, _ := f.store.Vendor(f.vendor.ID)
	assert.Zero(t, vendor.TotalReviews)
}
