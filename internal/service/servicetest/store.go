// Package servicetest provides in-memory implementations of the service
// stores.  Filters are applied through the predicate half of each
// repository.Scope, so behaviour matches the SQL repositories.
package servicetest

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/wedding-marketplace/internal/model"
	"github.com/iliyamo/wedding-marketplace/internal/queue"
	"github.com/iliyamo/wedding-marketplace/internal/repository"
)

// Store holds every table in memory.  The typed views returned by
// Reservations, Vendors and friends share it.
type Store struct {
	mu      sync.Mutex
	lastID  uint64
	clock   time.Time
	users   []model.User
	cats    []model.VendorCategory
	vendors []model.VendorProfile
	svcs    []model.Service
	res     []model.Reservation
	reviews []model.Review
	slots   []model.VendorAvailability
	tokens  map[string]*refreshToken
}

// New returns an empty store whose timestamps start at start and advance by
// one second per write.
func New(start time.Time) *Store {
	return &Store{clock: start.UTC().Truncate(time.Second)}
}

func (s *Store) id() uint64 { s.lastID++; return s.lastID }

func (s *Store) tick() time.Time { s.clock = s.clock.Add(time.Second); return s.clock }

// AddUser seeds a user.
func (s *Store) AddUser(name, email string, role model.Role) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.tick()
	u := model.User{ID: s.id(), Name: name, Email: email, Role: role, CreatedAt: now, UpdatedAt: now}
	s.users = append(s.users, u)
	return u
}

// AddCategory seeds a category.
func (s *Store) AddCategory(name, slug string, active bool) model.VendorCategory {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.tick()
	c := model.VendorCategory{ID: s.id(), Name: name, Slug: slug, IsActive: active, CreatedAt: now, UpdatedAt: now}
	s.cats = append(s.cats, c)
	return c
}

// AddVendor seeds a vendor profile.
func (s *Store) AddVendor(v model.VendorProfile) model.VendorProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	v.ID = s.id()
	v.CreatedAt = s.tick()
	v.UpdatedAt = v.CreatedAt
	s.vendors = append(s.vendors, v)
	return v
}

// AddService seeds a service.
func (s *Store) AddService(svc model.Service) model.Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc.ID = s.id()
	svc.CreatedAt = s.tick()
	svc.UpdatedAt = svc.CreatedAt
	s.svcs = append(s.svcs, svc)
	return svc
}

// AddSlot seeds an availability slot.
func (s *Store) AddSlot(a model.VendorAvailability) model.VendorAvailability {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.id()
	a.CreatedAt = s.tick()
	a.UpdatedAt = a.CreatedAt
	s.slots = append(s.slots, a)
	return a
}

// SetStatus overwrites the status of a stored reservation.
func (s *Store) SetStatus(id uint64, status model.ReservationStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.res {
		if s.res[i].ID == id {
			s.res[i].Status = status
		}
	}
}

// SetVendorActive toggles is_active of a vendor profile.
func (s *Store) SetVendorActive(id uint64, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.vendors {
		if s.vendors[i].ID == id {
			s.vendors[i].IsActive = active
		}
	}
}

// Vendor returns the stored profile without relations.
func (s *Store) Vendor(id uint64) (model.VendorProfile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.vendors {
		if v.ID == id {
			return v, true
		}
	}
	return model.VendorProfile{}, false
}

func (s *Store) Reservations() *Reservations { return &Reservations{s} }
func (s *Store) Vendors() *Vendors { return &Vendors{s} }
func (s *Store) Services() *Services { return &Services{s} }
func (s *Store) Categories() *Categories { return &Categories{s} }
func (s *Store) Reviews() *Reviews { return &Reviews{s} }
func (s *Store) Availability() *Availability { return &Availability{s} }

func (s *Store) summary(userID uint64) *model.UserSummary {
	for _, u := range s.users {
		if u.ID == userID {
			sum := u.Summary()
			return &sum
		}
	}
	return nil
}

func (s *Store) category(id uint64) *model.VendorCategory {
	for _, c := range s.cats {
		if c.ID == id {
			c := c
			return &c
		}
	}
	return nil
}

func (s *Store) vendor(id uint64) *model.VendorProfile {
	for _, v := range s.vendors {
		if v.ID == id {
			v := v
			v.Category = s.category(v.VendorCategoryID)
			v.User = s.summary(v.UserID)
			return &v
		}
	}
	return nil
}

func (s *Store) service(id uint64) *model.Service {
	for _, svc := range s.svcs {
		if svc.ID == id {
			svc := svc
			return &svc
		}
	}
	return nil
}

func (s *Store) reservation(r model.Reservation) model.Reservation {
	r.Vendor = s.vendor(r.VendorProfileID)
	r.Service = s.service(r.ServiceID)
	r.Couple = s.summary(r.CoupleID)
	for _, rv := range s.reviews {
		if rv.ReservationID == r.ID {
			rv := rv
			r.Review = &rv
		}
	}
	return r
}

// Reservations implements service.ReservationStore.
type Reservations struct{ s *Store }

func (r *Reservations) Create(_ context.Context, res *model.Reservation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	res.ID = r.s.id()
	if res.CreatedAt.IsZero() {
		res.CreatedAt = r.s.tick()
	}
	res.UpdatedAt = res.CreatedAt
	stored := *res
	stored.Vendor, stored.Service, stored.Couple, stored.Review = nil, nil, nil, nil
	r.s.res = append(r.s.res, stored)
	return nil
}

func (r *Reservations) GetByID(_ context.Context, id uint64) (*model.Reservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, res := range r.s.res {
		if res.ID == id {
			out := r.s.reservation(res)
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *Reservations) List(_ context.Context, page repository.Page, scopes ...repository.Scope[model.Reservation]) (repository.Paginated[model.Reservation], error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := make([]model.Reservation, 0, len(r.s.res))
	for _, res := range r.s.res {
		all = append(all, r.s.reservation(res))
	}
	all = repository.Filter(all, scopes...)
	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})
	return repository.Paginate(all, page), nil
}

func (r *Reservations) TransitionStatus(_ context.Context, ch repository.StatusChange) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	from := ch.From
	if len(from) == 0 {
		from = model.SourcesFor(ch.To)
	}
	for i := range r.s.res {
		res := &r.s.res[i]
		if res.ID != ch.ID {
			continue
		}
		allowed := false
		for _, f := range from {
			allowed = allowed || f == res.Status
		}
		if !allowed {
			return repository.ErrConflict
		}
		at := ch.At
		if at.IsZero() {
			at = r.s.tick()
		}
		res.Status = ch.To
		res.UpdatedAt = at
		switch ch.To {
		case model.StatusConfirmed:
			res.ConfirmedAt = &at
		case model.StatusRejected:
			res.ConfirmedAt = nil
		}
		if ch.SetVendorNotes {
			res.VendorNotes = ch.VendorNotes
		}
		return nil
	}
	return repository.ErrNotFound
}

// Vendors implements service.VendorStore.
type Vendors struct{ s *Store }

func (v *Vendors) sorted(scopes []repository.Scope[model.VendorProfile]) []model.VendorProfile {
	all := repository.Filter(v.s.vendors, scopes...)
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].AverageRating != all[j].AverageRating {
			return all[i].AverageRating > all[j].AverageRating
		}
		return all[i].ID < all[j].ID
	})
	for i := range all {
		all[i] = *v.s.vendor(all[i].ID)
	}
	return all
}

func (v *Vendors) List(_ context.Context, page repository.Page, scopes ...repository.Scope[model.VendorProfile]) (repository.Paginated[model.VendorProfile], error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	out := repository.Paginate(v.sorted(scopes), page)
	for i := range out.Data {
		out.Data[i].Services = v.s.servicesOf(out.Data[i].ID)
	}
	return out, nil
}

func (v *Vendors) Top(_ context.Context, limit int, scopes ...repository.Scope[model.VendorProfile]) ([]model.VendorProfile, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	all := v.sorted(scopes)
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (v *Vendors) GetByID(_ context.Context, id uint64) (*model.VendorProfile, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if p := v.s.vendor(id); p != nil {
		return p, nil
	}
	return nil, repository.ErrNotFound
}

func (v *Vendors) GetByUserID(_ context.Context, userID uint64) (*model.VendorProfile, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	for _, p := range v.s.vendors {
		if p.UserID == userID {
			return v.s.vendor(p.ID), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) servicesOf(vendorID uint64, scopes ...repository.Scope[model.Service]) []model.Service {
	out := []model.Service{}
	for _, svc := range repository.Filter(s.svcs, scopes...) {
		if svc.VendorProfileID == vendorID {
			out = append(out, svc)
		}
	}
	return out
}

// Services implements service.ServiceStore.
type Services struct{ s *Store }

func (sv *Services) GetByID(_ context.Context, id uint64) (*model.Service, error) {
	sv.s.mu.Lock()
	defer sv.s.mu.Unlock()
	if svc := sv.s.service(id); svc != nil {
		return svc, nil
	}
	return nil, repository.ErrNotFound
}

func (sv *Services) ListForVendor(_ context.Context, vendorID uint64, scopes ...repository.Scope[model.Service]) ([]model.Service, error) {
	sv.s.mu.Lock()
	defer sv.s.mu.Unlock()
	return sv.s.servicesOf(vendorID, scopes...), nil
}

// Categories implements service.CategoryStore.
type Categories struct{ s *Store }

func (c *Categories) ListWithCounts(_ context.Context, scopes ...repository.Scope[model.VendorCategory]) ([]model.CategoryWithCount, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	cats := repository.Filter(c.s.cats, scopes...)
	sort.SliceStable(cats, func(i, j int) bool { return cats[i].Name < cats[j].Name })
	out := make([]model.CategoryWithCount, 0, len(cats))
	for _, cat := range cats {
		n := 0
		for _, v := range c.s.vendors {
			if v.VendorCategoryID == cat.ID {
				n++
			}
		}
		out = append(out, model.CategoryWithCount{VendorCategory: cat, VendorProfilesCount: n})
	}
	return out, nil
}

func (c *Categories) GetBySlug(_ context.Context, slug string) (*model.VendorCategory, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	for _, cat := range c.s.cats {
		if cat.Slug == slug {
			cat := cat
			return &cat, nil
		}
	}
	return nil, repository.ErrNotFound
}

// Reviews implements service.ReviewStore.
type Reviews struct{ s *Store }

func (r *Reviews) Create(_ context.Context, rv *model.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.reviews {
		if existing.ReservationID == rv.ReservationID {
			return repository.ErrDuplicate
		}
	}
	rv.ID = r.s.id()
	rv.CreatedAt = r.s.tick()
	rv.UpdatedAt = rv.CreatedAt
	r.s.reviews = append(r.s.reviews, *rv)

	sum, n := 0, 0
	for _, x := range r.s.reviews {
		if x.VendorProfileID == rv.VendorProfileID {
			sum += x.Rating
			n++
		}
	}
	for i := range r.s.vendors {
		if r.s.vendors[i].ID == rv.VendorProfileID {
			r.s.vendors[i].TotalReviews = n
			r.s.vendors[i].AverageRating = math.Round(float64(sum)/float64(n)*100) / 100
		}
	}
	return nil
}

func (r *Reviews) LatestForVendor(_ context.Context, vendorID uint64, limit int, scopes ...repository.Scope[model.Review]) ([]model.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.Review{}
	for _, rv := range repository.Filter(r.s.reviews, scopes...) {
		if rv.VendorProfileID == vendorID {
			rv.Couple = r.s.summary(rv.CoupleID)
			out = append(out, rv)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Availability implements service.AvailabilityStore.
type Availability struct{ s *Store }

func (a *Availability) Create(_ context.Context, slot *model.VendorAvailability) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	slot.ID = a.s.id()
	slot.CreatedAt = a.s.tick()
	slot.UpdatedAt = slot.CreatedAt
	a.s.slots = append(a.s.slots, *slot)
	return nil
}

func (a *Availability) ListForVendor(_ context.Context, vendorID uint64, from, to model.Date, scopes ...repository.Scope[model.VendorAvailability]) ([]model.VendorAvailability, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	out := []model.VendorAvailability{}
	for _, slot := range repository.Filter(a.s.slots, scopes...) {
		if slot.VendorProfileID == vendorID && !slot.Date.Before(from) && !to.Before(slot.Date) {
			out = append(out, slot)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

// Events records published reservation events.  When Err is set Publish
// fails with it instead.
type Events struct {
	mu     sync.Mutex
	Err    error
	events []queue.ReservationEvent
}

func (e *Events) Publish(_ context.Context, ev queue.ReservationEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return e.Err
	}
	e.events = append(e.events, ev)
	return nil
}

// Published returns the events published so far.
func (e *Events) Published() []queue.ReservationEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]queue.ReservationEvent(nil), e.events...)
}
