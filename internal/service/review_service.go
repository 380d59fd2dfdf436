package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/iliyamo/wedding-marketplace/internal/logging"
	"github.com/iliyamo/wedding-marketplace/internal/metrics"
	"github.com/iliyamo/wedding-marketplace/internal/model"
	"github.com/iliyamo/wedding-marketplace/internal/repository"
)

// CreateReviewInput is the rating a couple leaves for a reservation.
type CreateReviewInput struct {
	Rating  int      `json:"rating" validate:"required,min=1,max=5"`
	Comment *string  `json:"comment" validate:"omitempty,max=2000"`
	Images  []string `json:"images" validate:"omitempty,max=10,dive,url,max=2048"`
}

// ReviewService lets couples review the reservations they booked.
type ReviewService struct {
	reservations ReservationStore
	reviews      ReviewStore
	metrics      *metrics.Metrics
	log          zerolog.Logger
}

func NewReviewService(reservations ReservationStore, reviews ReviewStore, m *metrics.Metrics, logger zerolog.Logger) *ReviewService {
	return &ReviewService{
		reservations: reservations,
		reviews:      reviews,
		metrics:      m,
		log:          logging.Component(logger, "reviews"),
	}
}

// Create stores the review of a completed reservation.  Only the couple who
// booked it may review, and only once: a second review yields ErrDuplicate.
// The vendor's rating aggregates are refreshed by the store.
func (s *ReviewService) Create(ctx context.Context, actor Actor, reservationID uint64, in CreateReviewInput) (*model.Review, error) {
	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if !actor.IsCouple() || res.CoupleID != actor.UserID {
		return nil, repository.ErrForbidden
	}
	if err := check(in); err != nil {
		return nil, err
	}
	if res.Review != nil {
		return nil, repository.ErrDuplicate
	}
	if res.Status != model.StatusCompleted {
		return nil, fmt.Errorf("reservation %d is %s: %w", res.ID, res.Status, repository.ErrConflict)
	}

	rv := &model.Review{
		ReservationID:   res.ID,
		CoupleID:        res.CoupleID,
		VendorProfileID: res.VendorProfileID,
		Rating:          in.Rating,
		Comment:         in.Comment,
		Images:          in.Images,
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, err
		}
		return nil, fmt.Errorf("create review: %w", err)
	}
	s.metrics.ReviewCreated()
	s.log.Info().Uint64(logging.RESERVATION, res.ID).Int("rating", rv.Rating).Msg("review created")
	return rv, nil
}
