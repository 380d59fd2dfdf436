package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/wedding-marketplace/internal/model"
	"github.com/iliyamo/wedding-marketplace/internal/utils"
)

// CategorySeed is one of the directory categories every installation starts with.
type CategorySeed struct {
	Name        string
	Slug        string
	Description string
	Icon        string
}

// Categories are upserted by slug, so re-seeding refreshes their copy.
var Categories = []CategorySeed{
	{"Photographers", "photographers", "Professional wedding photographers to capture your special moments", "📷"},
	{"Caterers", "caterers", "Delicious catering services for your wedding reception and events", "🍽️"},
	{"Venues", "venues", "Beautiful wedding venues for your ceremony and reception", "🏛️"},
	{"Florists", "florists", "Stunning floral arrangements and decorations for your wedding", "🌸"},
	{"Gift Shops", "gift-shops", "Unique wedding gifts and favors for your guests", "🎁"},
	{"Musicians", "musicians", "Live music and entertainment for your wedding celebration", "🎵"},
	{"Wedding Planners", "wedding-planners", "Professional wedding planning and coordination services", "📋"},
	{"Transportation", "transportation", "Luxury transportation services for your wedding day", "🚗"},
}

// UserSeed is a sample account.
type UserSeed struct {
	Name  string
	Email string
	Role  model.Role
}

// SampleUsers share SamplePassword.
var SampleUsers = []UserSeed{
	{"Test Couple", "couple@example.com", model.RoleCouple},
	{"Test Vendor", "vendor@example.com", model.RoleVendor},
}

const SamplePassword = "password"

// SeedOptions selects what Seed writes.
type SeedOptions struct {
	BcryptCost int
	Demo       bool // also give the sample vendor a profile with services
}

// Seed writes the categories and sample users.  Existing users are left
// untouched.
func Seed(ctx context.Context, db *sql.DB, opts SeedOptions) error {
	for _, c := range Categories {
		_, err := db.ExecContext(ctx,
			`INSERT INTO vendor_categories (name, slug, description, icon, is_active) VALUES (?,?,?,?,1)
			 ON DUPLICATE KEY UPDATE name=VALUES(name), description=VALUES(description), icon=VALUES(icon)`,
			c.Name, c.Slug, c.Description, c.Icon)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", c.Slug, err)
		}
	}

	hash, err := utils.HashPassword(SamplePassword, opts.BcryptCost)
	if err != nil {
		return err
	}
	for _, u := range SampleUsers {
		if _, err := db.ExecContext(ctx,
			"INSERT IGNORE INTO users (name, email, password_hash, role) VALUES (?,?,?,?)",
			u.Name, u.Email, hash, string(u.Role)); err != nil {
			return fmt.Errorf("seed user %s: %w", u.Email, err)
		}
	}

	if opts.Demo {
		return seedDemoVendor(ctx, db)
	}
	return nil
}

// seedDemoVendor files the sample vendor under Photographers with a few
// services.  It does nothing when the vendor already has a profile.
func seedDemoVendor(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var userID, categoryID uint64
	if err := tx.QueryRowContext(ctx, "SELECT id FROM users WHERE email=?", SampleUsers[1].Email).Scan(&userID); err != nil {
		return fmt.Errorf("seed demo: vendor user: %w", err)
	}
	if err := tx.QueryRowContext(ctx, "SELECT id FROM vendor_categories WHERE slug=?", "photographers").Scan(&categoryID); err != nil {
		return fmt.Errorf("seed demo: category: %w", err)
	}
	res, err := tx.ExecContext(ctx,
		`INSERT IGNORE INTO vendor_profiles (user_id, vendor_category_id, business_name, description, is_verified, is_active)
		 VALUES (?,?,?,?,1,1)`,
		userID, categoryID, "Golden Hour Studio", "Documentary wedding photography from getting ready to the last dance.")
	if err != nil {
		return fmt.Errorf("seed demo: profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return tx.Commit()
	}
	profileID, err := res.LastInsertId()
	if err != nil {
		return err
	}
	services := []struct {
		name, desc string
		price      float64
		priceType  model.PriceType
		hours      any
	}{
		{"Full Day Coverage", "Ceremony, portraits and reception.", 2800, model.PriceFixed, 10},
		{"Hourly Coverage", "Book exactly the hours you need.", 250, model.PricePerHour, nil},
		{"Engagement Session", "Two hour session at a location of your choice.", 450, model.PriceCustom, 2},
	}
	for _, s := range services {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO services (vendor_profile_id, name, description, price, price_type, duration_hours, is_available)
			 VALUES (?,?,?,?,?,?,1)`,
			profileID, s.name, s.desc, s.price, string(s.priceType), s.hours); err != nil {
			return fmt.Errorf("seed demo: service %s: %w", s.name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
