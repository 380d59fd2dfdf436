package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/wedding-marketplace/internal/model"
)

// AvailabilityRepo reads and writes vendor_availability.  Slots are
// informational and never checked against reservations.
type AvailabilityRepo struct {
	db *sql.DB
}

func NewAvailabilityRepo(db *sql.DB) *AvailabilityRepo { return &AvailabilityRepo{db: db} }

// Create inserts a and fills in its ID.
func (r *AvailabilityRepo) Create(ctx context.Context, a *model.VendorAvailability) error {
	now := time.Now().UTC().Truncate(time.Second)
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO vendor_availability (vendor_profile_id, date, start_time, end_time, is_available, notes, created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?,?)`,
		a.VendorProfileID, a.Date, a.StartTime, a.EndTime, a.IsAvailable, a.Notes, now, now)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	a.CreatedAt, a.UpdatedAt = now, now
	return nil
}

// ListForVendor returns the slots of a vendor dated within [from, to]
// matching scopes, in calendar order.
func (r *AvailabilityRepo) ListForVendor(ctx context.Context, vendorID uint64, from, to model.Date, scopes ...Scope[model.VendorAvailability]) ([]model.VendorAvailability, error) {
	cond, args := Where(scopes...)
	q := `SELECT va.id, va.vendor_profile_id, va.date, va.start_time, va.end_time, va.is_available, va.notes,
	             va.created_at, va.updated_at
	      FROM vendor_availability va
	      WHERE va.vendor_profile_id = ? AND va.date BETWEEN ? AND ? AND ` + cond + `
	      ORDER BY va.date, va.start_time, va.id`
	rows, err := r.db.QueryContext(ctx, q, append([]any{vendorID, from, to}, args...)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.VendorAvailability{}
	for rows.Next() {
		var a model.VendorAvailability
		if err := rows.Scan(&a.ID, &a.VendorProfileID, &a.Date, &a.StartTime, &a.EndTime, &a.IsAvailable, &a.Notes,
			&a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
