package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"immoportal/internal/models/db_models"
	"immoportal/internal/repositories"
	mem "immoportal/pkg/memcache"
)

var errBoom = errors.New("boom")

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr[T any](v T) *T { return &v }

// ---- accounts ----

type fakeAccounts struct {
	mu          sync.Mutex
	identities  map[uuid.UUID]*db_models.Identity
	profiles    map[uuid.UUID]*db_models.Profile
	profileErr  error
	provisioned []repositories.AccountBundle
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{
		identities: make(map[uuid.UUID]*db_models.Identity),
		profiles:   make(map[uuid.UUID]*db_models.Profile),
	}
}

func (f *fakeAccounts) add(role db_models.Role, email, name string) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.identities[id] = &db_models.Identity{BaseModel: db_models.BaseModel{ID: id}, Email: email}
	f.profiles[id] = &db_models.Profile{BaseModel: db_models.BaseModel{ID: id, CreatedAt: time.Now()}, Role: role, FullName: ptr(name)}
	return id
}

func (f *fakeAccounts) FindByEmail(_ context.Context, email string) (*db_models.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, i := range f.identities {
		if i.Email == email {
			c := *i
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeAccounts) FindById(_ context.Context, id uuid.UUID) (*db_models.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i, ok := f.identities[id]; ok {
		c := *i
		return &c, nil
	}
	return nil, nil
}

func (f *fakeAccounts) FindProfile(_ context.Context, id uuid.UUID) (*db_models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	if p, ok := f.profiles[id]; ok {
		c := *p
		return &c, nil
	}
	return nil, nil
}

func (f *fakeAccounts) FindProfiles(_ context.Context, ids []uuid.UUID) ([]db_models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db_models.Profile
	for _, id := range ids {
		if p, ok := f.profiles[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeAccounts) ListProfilesByRole(_ context.Context, role db_models.Role, limit int) ([]db_models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db_models.Profile
	for _, p := range f.profiles {
		if p.Role == role {
			out = append(out, *p)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeAccounts) Provision(_ context.Context, bundle repositories.AccountBundle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, i := range f.identities {
		if i.Email == bundle.Identity.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if bundle.Identity.ID == uuid.Nil {
		bundle.Identity.ID = uuid.New()
	}
	id := bundle.Identity.ID
	bundle.Profile.ID = id
	f.identities[id] = bundle.Identity
	f.profiles[id] = bundle.Profile
	if bundle.Subscription != nil {
		bundle.Subscription.ClientID = id
	}
	if bundle.Criteria != nil {
		bundle.Criteria.ClientID = id
	}
	f.provisioned = append(f.provisioned, bundle)
	return nil
}

// ---- properties ----

type fakeProperties struct {
	mu       sync.Mutex
	props    map[uuid.UUID]*db_models.Property
	images   []db_models.PropertyImage
	imageErr error
	seq      int
}

func newFakeProperties() *fakeProperties {
	return &fakeProperties{props: make(map[uuid.UUID]*db_models.Property)}
}

// add stores a property; later additions are newer.
func (f *fakeProperties) add(p db_models.Property) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = db_models.PropertyActive
	}
	f.seq++
	p.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(f.seq) * time.Minute)
	f.props[p.ID] = &p
	return p.ID
}

func (f *fakeProperties) Create(_ context.Context, p *db_models.Property) (uuid.UUID, error) {
	id := f.add(*p)
	p.ID = id
	return id, nil
}

func (f *fakeProperties) Update(_ context.Context, p *db_models.Property) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.props[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	c := *p
	f.props[p.ID] = &c
	return nil
}

func (f *fakeProperties) UpdateStatus(_ context.Context, id uuid.UUID, status db_models.PropertyStatus) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.props[id]
	if !ok {
		return 0, nil
	}
	p.Status = status
	return 1, nil
}

func (f *fakeProperties) FindByID(_ context.Context, id uuid.UUID) (*db_models.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.props[id]
	if !ok {
		return nil, nil
	}
	c := *p
	for _, img := range f.images {
		if img.PropertyID == id {
			c.Images = append(c.Images, img)
		}
	}
	sort.Slice(c.Images, func(i, j int) bool { return c.Images[i].OrderIndex < c.Images[j].OrderIndex })
	return &c, nil
}

func (f *fakeProperties) AddImage(_ context.Context, img *db_models.PropertyImage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.imageErr != nil {
		return f.imageErr
	}
	img.ID = uuid.New()
	f.images = append(f.images, *img)
	return nil
}

func (f *fakeProperties) CoverPaths(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[uuid.UUID]string)
	best := make(map[uuid.UUID]int)
	for _, id := range ids {
		for _, img := range f.images {
			if img.PropertyID != id {
				continue
			}
			if cur, ok := best[id]; !ok || img.OrderIndex < cur {
				best[id] = img.OrderIndex
				out[id] = img.Path
			}
		}
	}
	return out, nil
}

func publicOf(p *db_models.Property) db_models.PublicProperty {
	return db_models.PublicProperty{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		City:        p.City,
		Zip:         p.Zip,
		Price:       p.Price,
		Surface:     p.Surface,
		Rooms:       p.Rooms,
		Type:        p.Type,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (f *fakeProperties) ListPublic(_ context.Context, filter repositories.PublicFilter) ([]db_models.PublicProperty, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db_models.PublicProperty
	for _, p := range f.props {
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		out = append(out, publicOf(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeProperties) FindPublicByID(_ context.Context, id uuid.UUID) (*db_models.PublicProperty, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.props[id]
	if !ok {
		return nil, nil
	}
	pub := publicOf(p)
	return &pub, nil
}

func (f *fakeProperties) FindPublicByIDs(_ context.Context, ids []uuid.UUID) ([]db_models.PublicProperty, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db_models.PublicProperty
	for _, id := range ids {
		if p, ok := f.props[id]; ok {
			out = append(out, publicOf(p))
		}
	}
	return out, nil
}

// ---- contact requests ----

type fakeRequests struct {
	mu       sync.Mutex
	rows     []*db_models.ContactRequest
	props    *fakeProperties
	seq      int
	decideFn func(id uuid.UUID) // runs before a conditional decide, for races
	findErr  error
}

func newFakeRequests(props *fakeProperties) *fakeRequests {
	return &fakeRequests{props: props}
}

func (f *fakeRequests) Create(_ context.Context, r *db_models.ContactRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.rows {
		if existing.ClientID == r.ClientID && existing.PropertyID == r.PropertyID {
			return gorm.ErrDuplicatedKey
		}
	}
	r.ID = uuid.New()
	f.seq++
	r.CreatedAt = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(f.seq) * time.Minute)
	c := *r
	f.rows = append(f.rows, &c)
	return nil
}

func (f *fakeRequests) Decide(_ context.Context, id uuid.UUID, status db_models.ContactRequestStatus, by uuid.UUID, at time.Time) (int64, error) {
	if f.decideFn != nil {
		f.decideFn(id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ID == id && r.Status == db_models.RequestPending {
			r.Status = status
			r.DecidedBy = &by
			r.DecidedAt = &at
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeRequests) FindByID(_ context.Context, id uuid.UUID) (*db_models.ContactRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, r := range f.rows {
		if r.ID == id {
			c := *r
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeRequests) sorted(keep func(*db_models.ContactRequest) bool, limit int) []db_models.ContactRequest {
	var out []db_models.ContactRequest
	for _, r := range f.rows {
		if keep(r) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (f *fakeRequests) ListByClient(_ context.Context, clientID uuid.UUID, limit int) ([]db_models.ContactRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(func(r *db_models.ContactRequest) bool { return r.ClientID == clientID }, limit), nil
}

func (f *fakeRequests) ListRecent(_ context.Context, limit int) ([]db_models.ContactRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(func(*db_models.ContactRequest) bool { return true }, limit), nil
}

// ApprovedContacts behaves like the approved_owner_contacts view.
func (f *fakeRequests) ApprovedContacts(_ context.Context, clientID uuid.UUID) ([]db_models.ApprovedOwnerContact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db_models.ApprovedOwnerContact
	for _, r := range f.rows {
		if r.ClientID != clientID || r.Status != db_models.RequestApproved {
			continue
		}
		f.props.mu.Lock()
		p, ok := f.props.props[r.PropertyID]
		f.props.mu.Unlock()
		if !ok {
			continue
		}
		out = append(out, db_models.ApprovedOwnerContact{
			ClientID:   r.ClientID,
			PropertyID: r.PropertyID,
			OwnerName:  p.OwnerName,
			OwnerPhone: p.OwnerPhone,
			OwnerEmail: p.OwnerEmail,
		})
	}
	return out, nil
}

// ---- subscriptions ----

type fakeSubs struct {
	mu   sync.Mutex
	rows []*db_models.Subscription
	err  error
}

func (f *fakeSubs) Latest(_ context.Context, clientID uuid.UUID) (*db_models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].ClientID == clientID {
			c := *f.rows[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeSubs) ListByClient(_ context.Context, clientID uuid.UUID, limit int) ([]db_models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db_models.Subscription
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].ClientID == clientID {
			out = append(out, *f.rows[i])
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeSubs) Create(_ context.Context, s *db_models.Subscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.ID = uuid.New()
	c := *s
	f.rows = append(f.rows, &c)
	return nil
}

func (f *fakeSubs) grant(clientID uuid.UUID, status db_models.SubscriptionStatus, endsAt string) {
	sub := &db_models.Subscription{ClientID: clientID, Status: status, StartsAt: datatypes.Date(day("2025-01-01"))}
	if endsAt != "" {
		d := datatypes.Date(day(endsAt))
		sub.EndsAt = &d
	}
	_ = f.Create(context.Background(), sub)
}

// ---- criteria ----

type fakeCriteria struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*db_models.SearchCriteria
}

func newFakeCriteria() *fakeCriteria {
	return &fakeCriteria{rows: make(map[uuid.UUID]*db_models.SearchCriteria)}
}

func (f *fakeCriteria) FindByClientID(_ context.Context, clientID uuid.UUID) (*db_models.SearchCriteria, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.rows[clientID]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeCriteria) Upsert(_ context.Context, c *db_models.SearchCriteria) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *c
	f.rows[c.ClientID] = &cp
	return nil
}

// ---- object store ----

type fakeStore struct {
	mu       sync.Mutex
	uploaded map[string]string
	failOn   map[string]bool // upload body -> fail
	signErr  error
	signs    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{uploaded: make(map[string]string), failOn: make(map[string]bool)}
}

func (s *fakeStore) Upload(_ context.Context, path string, r io.Reader, contentType string) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn[string(b)] {
		return fmt.Errorf("store rejected %s", path)
	}
	s.uploaded[path] = contentType
	return nil
}

func (s *fakeStore) SignURL(_ context.Context, path string, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signs++
	if s.signErr != nil {
		return "", s.signErr
	}
	return "https://cdn.test/" + path + "?ttl=" + ttl.String(), nil
}

func upload(name, contentType, body string) ImageUpload {
	return ImageUpload{
		Filename:    name,
		ContentType: contentType,
		Size:        int64(len(body)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(body)), nil
		},
	}
}

// ---- mail ----

type sentNotice struct {
	to       string
	name     string
	title    string
	decision db_models.ContactRequestStatus
}

type fakeMailer struct {
	sent chan sentNotice
	err  error
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{sent: make(chan sentNotice, 8)}
}

func (m *fakeMailer) SendDecisionNotice(to, name, title string, decision db_models.ContactRequestStatus) error {
	m.sent <- sentNotice{to: to, name: name, title: title, decision: decision}
	return m.err
}

// ---- wiring ----

type portal struct {
	clock    fixedClock
	accounts *fakeAccounts
	props    *fakeProperties
	requests *fakeRequests
	subs     *fakeSubs
	criteria *fakeCriteria
	store    *fakeStore
	mail     *fakeMailer

	subscription SubscriptionServiceInterface
	images       ImageServiceInterface
	listings     ListingServiceInterface
	matcher      CriteriaServiceInterface
	contact      ContactRequestServiceInterface
	clients      ClientServiceInterface
}

func newPortal(today string) *portal {
	log := zap.NewNop()
	p := &portal{
		clock:    fixedClock{t: day(today).Add(15 * time.Hour)},
		accounts: newFakeAccounts(),
		props:    newFakeProperties(),
		subs:     &fakeSubs{},
		criteria: newFakeCriteria(),
		store:    newFakeStore(),
		mail:     newFakeMailer(),
	}
	p.requests = newFakeRequests(p.props)
	p.subscription = NewSubscriptionService(p.subs, p.accounts, p.clock, log)
	p.images = NewImageService(p.store, p.props, mem.NewTTLCache(), time.Hour, log)
	p.listings = NewListingService(p.props, p.images, log)
	p.matcher = NewCriteriaService(p.criteria, p.props, p.accounts, p.subscription, p.images, log)
	p.contact = NewContactRequestService(p.requests, p.props, p.accounts, p.subscription, p.mail, p.clock, log)
	p.clients = NewClientService(p.accounts, p.criteria, p.subs, p.requests, p.props, p.subscription,
		ProvisioningTerms{Months: 5, AmountEUR: 210}, p.clock, log)
	return p
}

func (p *portal) principal(id uuid.UUID) Principal {
	prof, _ := p.accounts.FindProfile(context.Background(), id)
	if prof == nil {
		return Principal{ID: id}
	}
	return Principal{ID: id, Role: prof.Role}
}

func (p *portal) activeClient(name string) Principal {
	id := p.accounts.add(db_models.RoleClient, strings.ToLower(name)+"@example.com", name)
	p.subs.grant(id, db_models.SubStatusActive, "")
	return p.principal(id)
}

func (p *portal) agent() Principal {
	id := p.accounts.add(db_models.RoleAgent, "agent-"+uuid.NewString()[:8]+"@agency.test", "Agent")
	return p.principal(id)
}
