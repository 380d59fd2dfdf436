package model

import (
    "encoding/json"
    "time"

    "golang.org/x/text/language"
    "golang.org/x/text/message"
)

// PriceType tells how a service price is to be read.
type PriceType string

const (
    PriceFixed    PriceType = "fixed"
    PricePerHour  PriceType = "per_hour"
    PricePerDay   PriceType = "per_day"
    PricePerGuest PriceType = "per_guest"
    PriceCustom   PriceType = "custom" // starting price, quoted on request
)

// PriceTypes lists every price type.
var PriceTypes = []PriceType{PriceFixed, PricePerHour, PricePerDay, PricePerGuest, PriceCustom}

// Valid reports whether p is a known price type.
func (p PriceType) Valid() bool {
    for _, v := range PriceTypes {
        if v == p {
            return true
        }
    }
    return false
}

// Suffix is appended to a formatted price.
func (p PriceType) Suffix() string {
    switch p {
    case PricePerHour:
        return "/hour"
    case PricePerDay:
        return "/day"
    case PricePerGuest:
        return "/guest"
    case PriceCustom:
        return "+"
    }
    return ""
}

// Service is a bookable offering of a vendor profile.
type Service struct {
    ID              uint64     `json:"id"`
    VendorProfileID uint64     `json:"vendor_profile_id"`
    Name            string     `json:"name"`
    Description     string     `json:"description"`
    Price           float64    `json:"price"`
    PriceType       PriceType  `json:"price_type"`
    DurationHours   *int       `json:"duration_hours"`
    Images          StringList `json:"images"`
    IsAvailable     bool       `json:"is_available"`
    CreatedAt       time.Time  `json:"created_at"`
    UpdatedAt       time.Time  `json:"updated_at"`
}

// DisplayPrice renders the price in US dollars followed by the price type
// suffix, e.g. "$1,500.00/day".
func (s Service) DisplayPrice() string {
    p := message.NewPrinter(language.AmericanEnglish)
    return p.Sprintf("$%.2f", s.Price) + s.PriceType.Suffix()
}

type serviceFields Service

// MarshalJSON adds display_price to the stored fields.
func (s Service) MarshalJSON() ([]byte, error) {
    return json.Marshal(struct {
        serviceFields
        DisplayPrice string `json:"display_price"`
    }{serviceFields(s), s.DisplayPrice()})
}
