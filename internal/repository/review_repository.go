package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/wedding-marketplace/internal/model"
)

// ReviewRepo writes reviews and keeps the rating aggregates of
// vendor_profiles in step with them.
type ReviewRepo struct {
	db *sql.DB
}

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// Create inserts rv and recomputes average_rating and total_reviews of its
// vendor profile in the same transaction.  A second review of the same
// reservation yields ErrDuplicate and leaves the aggregates untouched.
func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC().Truncate(time.Second)
	res, err := tx.ExecContext(ctx,
		`INSERT INTO reviews (reservation_id, couple_id, vendor_profile_id, rating, comment, images, is_verified, created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		rv.ReservationID, rv.CoupleID, rv.VendorProfileID, rv.Rating, rv.Comment, rv.Images, rv.IsVerified, now, now)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE vendor_profiles SET
		     average_rating = (SELECT COALESCE(ROUND(AVG(rating), 2), 0) FROM reviews WHERE vendor_profile_id = ?),
		     total_reviews  = (SELECT COUNT(*) FROM reviews WHERE vendor_profile_id = ?)
		 WHERE id = ?`,
		rv.VendorProfileID, rv.VendorProfileID, rv.VendorProfileID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	rv.ID = uint64(id)
	rv.CreatedAt, rv.UpdatedAt = now, now
	return nil
}

// LatestForVendor returns up to limit reviews of a vendor matching scopes,
// newest first, with the reviewing couple.
func (r *ReviewRepo) LatestForVendor(ctx context.Context, vendorID uint64, limit int, scopes ...Scope[model.Review]) ([]model.Review, error) {
	cond, args := Where(scopes...)
	q := `SELECT rv.id, rv.reservation_id, rv.couple_id, rv.vendor_profile_id, rv.rating, rv.comment, rv.images,
	             rv.is_verified, rv.created_at, rv.updated_at,
	             cu.id, cu.name, cu.email, cu.phone, cu.location
	      FROM reviews rv
	      JOIN users cu ON cu.id = rv.couple_id
	      WHERE rv.vendor_profile_id = ? AND ` + cond + `
	      ORDER BY rv.created_at DESC, rv.id DESC
	      LIMIT ?`
	qargs := append([]any{vendorID}, args...)
	rows, err := r.db.QueryContext(ctx, q, append(qargs, limit)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Review{}
	for rows.Next() {
		var (
			rv     model.Review
			couple model.UserSummary
		)
		if err := rows.Scan(&rv.ID, &rv.ReservationID, &rv.CoupleID, &rv.VendorProfileID, &rv.Rating, &rv.Comment, &rv.Images,
			&rv.IsVerified, &rv.CreatedAt, &rv.UpdatedAt,
			&couple.ID, &couple.Name, &couple.Email, &couple.Phone, &couple.Location); err != nil {
			return nil, err
		}
		rv.Couple = &couple
		out = append(out, rv)
	}
	return out, rows.Err()
}
