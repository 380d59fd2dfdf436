package repository

import (
	"context"
	"database/sql"

	"github.com/gosimple/slug"

	"github.com/iliyamo/wedding-marketplace/internal/model"
)

// CategoryRepo reads and writes vendor_categories.
type CategoryRepo struct {
	db *sql.DB
}

func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{db: db} }

const categoryColumns = "vc.id, vc.name, vc.slug, vc.description, vc.icon, vc.is_active, vc.created_at, vc.updated_at"

// ListWithCounts returns the categories matching scopes ordered by name,
// each with the number of vendor profiles filed under it.  The count
// includes inactive profiles.
func (r *CategoryRepo) ListWithCounts(ctx context.Context, scopes ...Scope[model.VendorCategory]) ([]model.CategoryWithCount, error) {
	cond, args := Where(scopes...)
	q := `SELECT ` + categoryColumns + `,
	             (SELECT COUNT(*) FROM vendor_profiles vp WHERE vp.vendor_category_id = vc.id) AS vendor_profiles_count
	      FROM vendor_categories vc
	      WHERE ` + cond + `
	      ORDER BY vc.name ASC, vc.id ASC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.CategoryWithCount{}
	for rows.Next() {
		var c model.CategoryWithCount
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Icon, &c.IsActive, &c.CreatedAt, &c.UpdatedAt, &c.VendorProfilesCount); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetBySlug returns the category with the given slug regardless of its
// active flag, or ErrNotFound.
func (r *CategoryRepo) GetBySlug(ctx context.Context, slug string) (*model.VendorCategory, error) {
	var c model.VendorCategory
	err := r.db.QueryRowContext(ctx,
		"SELECT "+categoryColumns+" FROM vendor_categories vc WHERE vc.slug = ? LIMIT 1", slug).
		Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Icon, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// Create inserts c and fills in its ID.  An empty slug is derived from the
// name.  A taken slug yields ErrDuplicate.
func (r *CategoryRepo) Create(ctx context.Context, c *model.VendorCategory) error {
	if c.Slug == "" {
		c.Slug = slug.Make(c.Name)
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO vendor_categories (name, slug, description, icon, is_active) VALUES (?,?,?,?,?)",
		c.Name, c.Slug, c.Description, c.Icon, c.IsActive)
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
	c.ID = uint64(id)
	return nil
}
