package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/wedding-marketplace/internal/model"
)

// ReservationRepo reads and writes reservations.  Reads return the
// reservation joined with its vendor profile (category and owner), the
// booked service, the couple and the review, if any.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `r.id, r.couple_id, r.vendor_profile_id, r.service_id, r.event_date, r.start_time, r.end_time,
       r.status, r.total_price, r.notes, r.vendor_notes, r.confirmed_at, r.created_at, r.updated_at`

const reservationFrom = `FROM reservations r
JOIN vendor_profiles vp ON vp.id = r.vendor_profile_id
` + vendorJoins + `
JOIN services s ON s.id = r.service_id
JOIN users cu ON cu.id = r.couple_id
LEFT JOIN reviews rv ON rv.reservation_id = r.id`

const reservationSelect = "SELECT " + reservationColumns + ",\n       " + vendorColumns + ",\n       " + serviceColumns + `,
       cu.id, cu.name, cu.email, cu.phone, cu.location,
       rv.id, rv.rating, rv.comment, rv.is_verified, rv.created_at
` + reservationFrom

func scanReservation(sc rowScanner) (model.Reservation, error) {
	var (
		res       model.Reservation
		status    string
		vendor    model.VendorProfile
		cat       model.VendorCategory
		owner     model.UserSummary
		svc       model.Service
		priceType string
		couple    model.UserSummary
		rvID      sql.NullInt64
		rvRating  sql.NullInt64
		rvComment sql.NullString
		rvVerify  sql.NullBool
		rvCreated sql.NullTime
	)
	dest := []any{
		&res.ID, &res.CoupleID, &res.VendorProfileID, &res.ServiceID, &res.EventDate, &res.StartTime, &res.EndTime,
		&status, &res.TotalPrice, &res.Notes, &res.VendorNotes, &res.ConfirmedAt, &res.CreatedAt, &res.UpdatedAt,
	}
	dest = append(dest, vendorDest(&vendor, &cat, &owner)...)
	dest = append(dest, serviceDest(&svc, &priceType)...)
	dest = append(dest,
		&couple.ID, &couple.Name, &couple.Email, &couple.Phone, &couple.Location,
		&rvID, &rvRating, &rvComment, &rvVerify, &rvCreated,
	)
	if err := sc.Scan(dest...); err != nil {
		return model.Reservation{}, err
	}
	res.Status = model.ReservationStatus(status)
	vendor.Category = &cat
	vendor.User = &owner
	svc.PriceType = model.PriceType(priceType)
	res.Vendor = &vendor
	res.Service = &svc
	res.Couple = &couple
	if rvID.Valid {
		rv := &model.Review{
			ID:              uint64(rvID.Int64),
			ReservationID:   res.ID,
			CoupleID:        res.CoupleID,
			VendorProfileID: res.VendorProfileID,
			Rating:          int(rvRating.Int64),
			IsVerified:      rvVerify.Bool,
			CreatedAt:       rvCreated.Time,
		}
		if rvComment.Valid {
			c := rvComment.String
			rv.Comment = &c
		}
		res.Review = rv
	}
	return res, nil
}

// Create inserts res and fills in its ID and timestamps.  The caller sets
// the status.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	now := time.Now().UTC().Truncate(time.Second)
	if res.CreatedAt.IsZero() {
		res.CreatedAt = now
	}
	res.UpdatedAt = res.CreatedAt
	const q = `INSERT INTO reservations (couple_id, vendor_profile_id, service_id, event_date, start_time, end_time,
	                                     status, total_price, notes, vendor_notes, confirmed_at, created_at, updated_at)
	           VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`
	result, err := r.db.ExecContext(ctx, q,
		res.CoupleID, res.VendorProfileID, res.ServiceID, res.EventDate, res.StartTime, res.EndTime,
		string(res.Status), res.TotalPrice, res.Notes, res.VendorNotes, res.ConfirmedAt, res.CreatedAt, res.UpdatedAt)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	return nil
}

// GetByID returns the joined reservation or ErrNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	res, err := scanReservation(r.db.QueryRowContext(ctx, reservationSelect+"\nWHERE r.id = ? LIMIT 1", id))
	if err != nil {
		return nil, notFound(err)
	}
	return &res, nil
}

// List returns one page of the reservations matching scopes, newest first.
func (r *ReservationRepo) List(ctx context.Context, page Page, scopes ...Scope[model.Reservation]) (Paginated[model.Reservation], error) {
	cond, args := Where(scopes...)

	var total int
	countQ := "SELECT COUNT(*) FROM reservations r JOIN vendor_profiles vp ON vp.id = r.vendor_profile_id WHERE " + cond
	if err := r.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return Paginated[model.Reservation]{}, err
	}
	if total == 0 {
		return NewPaginated[model.Reservation](nil, page, 0), nil
	}

	q := reservationSelect + "\nWHERE " + cond + " ORDER BY r.created_at DESC, r.id DESC LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, q, append(args, page.Size, page.Offset())...)
	if err != nil {
		return Paginated[model.Reservation]{}, err
	}
	defer rows.Close()
	items := []model.Reservation{}
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return Paginated[model.Reservation]{}, err
		}
		items = append(items, res)
	}
	if err := rows.Err(); err != nil {
		return Paginated[model.Reservation]{}, err
	}
	return NewPaginated(items, page, total), nil
}

// StatusChange describes a status transition applied by TransitionStatus.
type StatusChange struct {
	ID   uint64
	To   model.ReservationStatus
	From []model.ReservationStatus // allowed current statuses; defaults to model.SourcesFor(To)
	At   time.Time                 // defaults to now

	// VendorNotes replaces the stored notes when SetVendorNotes is true.
	VendorNotes    *string
	SetVendorNotes bool
}

// TransitionStatus moves a reservation to ch.To in a single conditional
// UPDATE.  Confirming stamps confirmed_at, rejecting clears it and other
// targets leave it alone.  It returns ErrNotFound for an unknown id and
// ErrConflict when the reservation is not in one of ch.From.  Concurrent
// calls are last-writer-wins among the allowed transitions.
func (r *ReservationRepo) TransitionStatus(ctx context.Context, ch StatusChange) error {
	from := ch.From
	if len(from) == 0 {
		from = model.SourcesFor(ch.To)
	}
	if len(from) == 0 {
		return ErrConflict
	}
	at := ch.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	sets := []string{"status = ?", "updated_at = ?"}
	args := []any{string(ch.To), at}
	switch ch.To {
	case model.StatusConfirmed:
		sets = append(sets, "confirmed_at = ?")
		args = append(args, at)
	case model.StatusRejected:
		sets = append(sets, "confirmed_at = NULL")
	}
	if ch.SetVendorNotes {
		sets = append(sets, "vendor_notes = ?")
		args = append(args, ch.VendorNotes)
	}
	args = append(args, ch.ID)
	for _, s := range from {
		args = append(args, string(s))
	}
	q := "UPDATE reservations SET " + strings.Join(sets, ", ") +
		" WHERE id = ? AND status IN (" + strings.TrimSuffix(strings.Repeat("?,", len(from)), ",") + ")"

	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var status string
	if err := r.db.QueryRowContext(ctx, "SELECT status FROM reservations WHERE id = ?", ch.ID).Scan(&status); err != nil {
		return notFound(err)
	}
	return ErrConflict
}
