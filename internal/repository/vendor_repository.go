package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/wedding-marketplace/internal/model"
)

// VendorRepo reads and writes vendor_profiles.  Reads join the category
// and the owning user so that directory pages need no follow-up queries.
type VendorRepo struct {
	db *sql.DB
}

func NewVendorRepo(db *sql.DB) *VendorRepo { return &VendorRepo{db: db} }

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

const vendorColumns = `vp.id, vp.user_id, vp.vendor_category_id, vp.business_name, vp.description, vp.website, vp.images,
       vp.average_rating, vp.total_reviews, vp.is_verified, vp.is_active, vp.created_at, vp.updated_at,
       vc.id, vc.name, vc.slug, vc.description, vc.icon, vc.is_active, vc.created_at, vc.updated_at,
       u.id, u.name, u.email, u.phone, u.location`

const vendorJoins = `JOIN vendor_categories vc ON vc.id = vp.vendor_category_id
JOIN users u ON u.id = vp.user_id`

const vendorSelect = "SELECT " + vendorColumns + "\nFROM vendor_profiles vp\n" + vendorJoins

// vendorDest returns scan destinations matching vendorColumns.
func vendorDest(v *model.VendorProfile, cat *model.VendorCategory, usr *model.UserSummary) []any {
	return []any{
		&v.ID, &v.UserID, &v.VendorCategoryID, &v.BusinessName, &v.Description, &v.Website, &v.Images,
		&v.AverageRating, &v.TotalReviews, &v.IsVerified, &v.IsActive, &v.CreatedAt, &v.UpdatedAt,
		&cat.ID, &cat.Name, &cat.Slug, &cat.Description, &cat.Icon, &cat.IsActive, &cat.CreatedAt, &cat.UpdatedAt,
		&usr.ID, &usr.Name, &usr.Email, &usr.Phone, &usr.Location,
	}
}

func scanVendor(sc rowScanner) (model.VendorProfile, error) {
	var (
		v   model.VendorProfile
		cat model.VendorCategory
		usr model.UserSummary
	)
	if err := sc.Scan(vendorDest(&v, &cat, &usr)...); err != nil {
		return model.VendorProfile{}, err
	}
	v.Category = &cat
	v.User = &usr
	return v, nil
}

// List returns one page of the vendor profiles matching scopes, highest
// rated first, each with its available services.
func (r *VendorRepo) List(ctx context.Context, page Page, scopes ...Scope[model.VendorProfile]) (Paginated[model.VendorProfile], error) {
	cond, args := Where(scopes...)

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM vendor_profiles vp WHERE "+cond, args...).Scan(&total); err != nil {
		return Paginated[model.VendorProfile]{}, err
	}
	if total == 0 {
		return NewPaginated[model.VendorProfile](nil, page, 0), nil
	}

	q := vendorSelect + " WHERE " + cond + " ORDER BY vp.average_rating DESC, vp.id ASC LIMIT ? OFFSET ?"
	items, err := r.query(ctx, q, append(args, page.Size, page.Offset())...)
	if err != nil {
		return Paginated[model.VendorProfile]{}, err
	}
	if err := attachServices(ctx, r.db, items); err != nil {
		return Paginated[model.VendorProfile]{}, err
	}
	return NewPaginated(items, page, total), nil
}

// Top returns at most limit vendor profiles matching scopes, highest rated
// first.  Services are not loaded.
func (r *VendorRepo) Top(ctx context.Context, limit int, scopes ...Scope[model.VendorProfile]) ([]model.VendorProfile, error) {
	cond, args := Where(scopes...)
	q := vendorSelect + " WHERE " + cond + " ORDER BY vp.average_rating DESC, vp.id ASC LIMIT ?"
	return r.query(ctx, q, append(args, limit)...)
}

// GetByID returns the profile with its category and user, or ErrNotFound.
func (r *VendorRepo) GetByID(ctx context.Context, id uint64) (*model.VendorProfile, error) {
	v, err := scanVendor(r.db.QueryRowContext(ctx, vendorSelect+" WHERE vp.id = ? LIMIT 1", id))
	if err != nil {
		return nil, notFound(err)
	}
	return &v, nil
}

// GetByUserID returns the profile owned by a vendor user, or ErrNotFound.
func (r *VendorRepo) GetByUserID(ctx context.Context, userID uint64) (*model.VendorProfile, error) {
	v, err := scanVendor(r.db.QueryRowContext(ctx, vendorSelect+" WHERE vp.user_id = ? LIMIT 1", userID))
	if err != nil {
		return nil, notFound(err)
	}
	return &v, nil
}

// Create inserts v and fills in its ID.  A user owns at most one profile;
// a second one yields ErrDuplicate.
func (r *VendorRepo) Create(ctx context.Context, v *model.VendorProfile) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO vendor_profiles (user_id, vendor_category_id, business_name, description, website, images,
		                              average_rating, total_reviews, is_verified, is_active)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		v.UserID, v.VendorCategoryID, v.BusinessName, v.Description, v.Website, v.Images,
		v.AverageRating, v.TotalReviews, v.IsVerified, v.IsActive)
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
	v.ID = uint64(id)
	return nil
}

// SetActive lists or unlists a profile in the directory.
func (r *VendorRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	res, err := r.db.ExecContext(ctx, "UPDATE vendor_profiles SET is_active = ? WHERE id = ?", active, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *VendorRepo) query(ctx context.Context, q string, args ...any) ([]model.VendorProfile, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.VendorProfile{}
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// attachServices loads the services of every vendor in one query and
// assigns them in place.
func attachServices(ctx context.Context, db *sql.DB, vendors []model.VendorProfile, scopes ...Scope[model.Service]) error {
	if len(vendors) == 0 {
		return nil
	}
	index := make(map[uint64]int, len(vendors))
	ids := make([]any, 0, len(vendors))
	for i := range vendors {
		index[vendors[i].ID] = i
		vendors[i].Services = []model.Service{}
		ids = append(ids, vendors[i].ID)
	}
	cond, args := Where(scopes...)
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	q := serviceSelect + " WHERE s.vendor_profile_id IN (" + placeholders + ") AND " + cond + " ORDER BY s.vendor_profile_id, s.id"
	rows, err := db.QueryContext(ctx, q, append(ids, args...)...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return err
		}
		if i, ok := index[s.VendorProfileID]; ok {
			vendors[i].Services = append(vendors[i].Services, s)
		}
	}
	return rows.Err()
}
