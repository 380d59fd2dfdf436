package model

import "time"

// Role classifies a user account.  The set is closed: every behaviour that
// differs between couples and vendors switches on one of these two values.
type Role string

const (
    RoleCouple Role = "couple" // books services
    RoleVendor Role = "vendor" // owns exactly one VendorProfile
)

// ParseRole converts a raw role string (for example a JWT claim) into a Role.
// The second return value is false for anything outside the closed set.
func ParseRole(s string) (Role, bool) {
    r := Role(s)
    return r, r.Valid()
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
    return r == RoleCouple || r == RoleVendor
}

// User mirrors a row of the `users` table.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name.
//  Email        – unique, lower-cased email address.
//  PasswordHash – bcrypt hash; never serialized.
//  Role         – couple or vendor; immutable after registration.
//  Phone, Bio, Location – optional profile details.
type User struct {
    ID           uint64    `json:"id"`
    Name         string    `json:"name"`
    Email        string    `json:"email"`
    PasswordHash string    `json:"-"`
    Role         Role      `json:"role"`
    Phone        *string   `json:"phone"`
    Bio          *string   `json:"bio"`
    Location     *string   `json:"location"`
    CreatedAt    time.Time `json:"created_at"`
    UpdatedAt    time.Time `json:"updated_at"`
}

// Summary returns the public projection of the user.
func (u User) Summary() UserSummary {
    return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, Location: u.Location}
}

// UserSummary is the subset of a user embedded in vendor, reservation and
// review payloads.
type UserSummary struct {
    ID       uint64  `json:"id"`
    Name     string  `json:"name"`
    Email    string  `json:"email"`
    Phone    *string `json:"phone"`
    Location *string `json:"location"`
}
