package model

import "time"

// VendorCategory groups vendor profiles (photographers, caterers, ...).
// Slug is the external identifier used in routes.
type VendorCategory struct {
    ID          uint64    `json:"id"`
    Name        string    `json:"name"`
    Slug        string    `json:"slug"`
    Description *string   `json:"description"`
    Icon        *string   `json:"icon"`
    IsActive    bool      `json:"is_active"`
    CreatedAt   time.Time `json:"created_at"`
    UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryWithCount is a category together with the number of vendor
// profiles filed under it, as shown on the landing page.
type CategoryWithCount struct {
    VendorCategory
    VendorProfilesCount int `json:"vendor_profiles_count"`
}

// VendorProfile is the business-facing record a vendor user manages.
// AverageRating (0-5, two decimals) and TotalReviews are aggregates kept in
// step with the reviews table by the review repository.
type VendorProfile struct {
    ID               uint64     `json:"id"`
    UserID           uint64     `json:"user_id"`
    VendorCategoryID uint64     `json:"vendor_category_id"`
    BusinessName     string     `json:"business_name"`
    Description      string     `json:"description"`
    Website          *string    `json:"website"`
    Images           StringList `json:"images"`
    AverageRating    float64    `json:"average_rating"`
    TotalReviews     int        `json:"total_reviews"`
    IsVerified       bool       `json:"is_verified"`
    IsActive         bool       `json:"is_active"`
    CreatedAt        time.Time  `json:"created_at"`
    UpdatedAt        time.Time  `json:"updated_at"`

    Category *VendorCategory `json:"category,omitempty"`
    User     *UserSummary    `json:"user,omitempty"`
    Services []Service       `json:"services,omitempty"`
    Reviews  []Review        `json:"reviews,omitempty"`
}

// VendorAvailability declares an open (or blocked) slot of a vendor.
type VendorAvailability struct {
    ID              uint64    `json:"id"`
    VendorProfileID uint64    `json:"vendor_profile_id"`
    Date            Date      `json:"date"`
    StartTime       string    `json:"start_time"`
    EndTime         string    `json:"end_time"`
    IsAvailable     bool      `json:"is_available"`
    Notes           *string   `json:"notes"`
    CreatedAt       time.Time `json:"created_at"`
    UpdatedAt       time.Time `json:"updated_at"`
}

// Review is the single rating a couple leaves for one reservation.
type Review struct {
    ID              uint64     `json:"id"`
    ReservationID   uint64     `json:"reservation_id"`
    CoupleID        uint64     `json:"couple_id"`
    VendorProfileID uint64     `json:"vendor_profile_id"`
    Rating          int        `json:"rating"`
    Comment         *string    `json:"comment"`
    Images          StringList `json:"images"`
    IsVerified      bool       `json:"is_verified"`
    CreatedAt       time.Time  `json:"created_at"`
    UpdatedAt       time.Time  `json:"updated_at"`

    Couple *UserSummary `json:"couple,omitempty"`
}
