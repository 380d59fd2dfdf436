package service

import (
	"context"
	"fmt"
	"time"

	"github.com/iliyamo/wedding-marketplace/internal/model"
	"github.com/iliyamo/wedding-marketplace/internal/repository"
)

// Directory page sizes.
const (
	FeaturedVendors     = 6
	FeaturedMinRating   = 4.0
	VendorsPerPage      = 12
	VendorPageReviews   = 10
	AvailabilityHorizon = 30 // days
)

// Landing is the content of the welcome page.
type Landing struct {
	Categories      []model.CategoryWithCount `json:"categories"`
	FeaturedVendors []model.VendorProfile     `json:"featured_vendors"`
}

// CategoryPage is a category with one page of its active vendors.
type CategoryPage struct {
	Category *model.VendorCategory                     `json:"category"`
	Vendors  repository.Paginated[model.VendorProfile] `json:"vendors"`
}

// VendorPage is a vendor profile with its services, latest reviews and the
// open slots of the coming days.
type VendorPage struct {
	Vendor       *model.VendorProfile       `json:"vendor"`
	Availability []model.VendorAvailability `json:"availability"`
}

// DirectoryService serves the public browsing pages.
type DirectoryService struct {
	categories   CategoryStore
	vendors      VendorStore
	services     ServiceStore
	reviews      ReviewStore
	availability AvailabilityStore

	Now func() time.Time
}

func NewDirectoryService(categories CategoryStore, vendors VendorStore, services ServiceStore,
	reviews ReviewStore, availability AvailabilityStore) *DirectoryService {
	return &DirectoryService{
		categories:   categories,
		vendors:      vendors,
		services:     services,
		reviews:      reviews,
		availability: availability,
		Now:          time.Now,
	}
}

// Landing lists the active categories by name with their vendor counts and
// the best rated active vendors.
func (s *DirectoryService) Landing(ctx context.Context) (*Landing, error) {
	cats, err := s.categories.ListWithCounts(ctx, repository.ActiveCategories())
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	featured, err := s.vendors.Top(ctx, FeaturedVendors,
		repository.ActiveVendors(), repository.VendorsRatedAtLeast(FeaturedMinRating))
	if err != nil {
		return nil, fmt.Errorf("featured vendors: %w", err)
	}
	return &Landing{Categories: cats, FeaturedVendors: featured}, nil
}

// Category returns the category with the given slug and one page of its
// active vendors, highest rated first.  An unknown slug yields ErrNotFound.
func (s *DirectoryService) Category(ctx context.Context, slug string, page int) (*CategoryPage, error) {
	cat, err := s.categories.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	vendors, err := s.vendors.List(ctx, repository.NewPage(page, VendorsPerPage),
		repository.VendorsInCategory(cat.ID), repository.ActiveVendors())
	if err != nil {
		return nil, fmt.Errorf("list vendors of %s: %w", slug, err)
	}
	return &CategoryPage{Category: cat, Vendors: vendors}, nil
}

// Vendor returns the profile page of a vendor.
func (s *DirectoryService) Vendor(ctx context.Context, id uint64) (*VendorPage, error) {
	vendor, err := s.vendors.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if vendor.Services, err = s.services.ListForVendor(ctx, id, repository.AvailableServices()); err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	if vendor.Reviews, err = s.reviews.LatestForVendor(ctx, id, VendorPageReviews); err != nil {
		return nil, fmt.Errorf("latest reviews: %w", err)
	}
	from := model.DateOf(s.Now())
	slots, err := s.availability.ListForVendor(ctx, id, from, from.AddDays(AvailabilityHorizon), repository.AvailableSlots())
	if err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	return &VendorPage{Vendor: vendor, Availability: slots}, nil
}

