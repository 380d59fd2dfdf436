package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/wedding-marketplace/internal/model"
)

// ServiceRepo reads and writes services.
type ServiceRepo struct {
	db *sql.DB
}

func NewServiceRepo(db *sql.DB) *ServiceRepo { return &ServiceRepo{db: db} }

const serviceColumns = `s.id, s.vendor_profile_id, s.name, s.description, s.price, s.price_type, s.duration_hours,
       s.images, s.is_available, s.created_at, s.updated_at`

const serviceSelect = "SELECT " + serviceColumns + "\nFROM services s"

// serviceDest returns scan destinations matching serviceColumns.  The
// price type is scanned into priceType and converted by the caller.
func serviceDest(s *model.Service, priceType *string) []any {
	return []any{&s.ID, &s.VendorProfileID, &s.Name, &s.Description, &s.Price, priceType, &s.DurationHours,
		&s.Images, &s.IsAvailable, &s.CreatedAt, &s.UpdatedAt}
}

func scanService(sc rowScanner) (model.Service, error) {
	var (
		s         model.Service
		priceType string
	)
	if err := sc.Scan(serviceDest(&s, &priceType)...); err != nil {
		return model.Service{}, err
	}
	s.PriceType = model.PriceType(priceType)
	return s, nil
}

// GetByID returns a service or ErrNotFound.
func (r *ServiceRepo) GetByID(ctx context.Context, id uint64) (*model.Service, error) {
	s, err := scanService(r.db.QueryRowContext(ctx, serviceSelect+" WHERE s.id = ? LIMIT 1", id))
	if err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

// ListForVendor returns the services of one vendor matching scopes.
func (r *ServiceRepo) ListForVendor(ctx context.Context, vendorID uint64, scopes ...Scope[model.Service]) ([]model.Service, error) {
	cond, args := Where(scopes...)
	rows, err := r.db.QueryContext(ctx,
		serviceSelect+" WHERE s.vendor_profile_id = ? AND "+cond+" ORDER BY s.id",
		append([]any{vendorID}, args...)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Service{}
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Create inserts s and fills in its ID.
func (r *ServiceRepo) Create(ctx context.Context, s *model.Service) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO services (vendor_profile_id, name, description, price, price_type, duration_hours, images, is_available)
		 VALUES (?,?,?,?,?,?,?,?)`,
		s.VendorProfileID, s.Name, s.Description, s.Price, string(s.PriceType), s.DurationHours, s.Images, s.IsAvailable)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}
