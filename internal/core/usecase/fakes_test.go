package usecase

import (
	"context"
	"errors"
	"offplan-service/internal/core/domain"
	"sort"
	"strings"
	"sync"
)

type fakeFetcher struct {
	mu          sync.Mutex
	pages       map[int][]domain.PropertySummary
	records     map[int64]*domain.PropertyRecord
	catalog     *domain.FilterCatalog
	pageCalls   []int
	detailCalls []int64
	block       chan struct{} // если задан, FetchPage ждет закрытия канала
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		pages:   map[int][]domain.PropertySummary{},
		records: map[int64]*domain.PropertyRecord{},
	}
}

func (f *fakeFetcher) FetchPage(ctx context.Context, page int) []domain.PropertySummary {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pageCalls = append(f.pageCalls, page)
	return f.pages[page]
}

func (f *fakeFetcher) FetchProperty(ctx context.Context, id int64) *domain.PropertyRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailCalls = append(f.detailCalls, id)
	rec, ok := f.records[id]
	if !ok {
		return nil
	}
	copied := *rec
	return &copied
}

func (f *fakeFetcher) FetchFilters(ctx context.Context) *domain.FilterCatalog {
	return f.catalog
}

type fakeStorage struct {
	mu          sync.Mutex
	properties  map[int64]*domain.Property
	saved       []int64
	saveOpts    []domain.SaveOptions
	statusCalls map[int64]domain.LookupRef
	getErr      error
	saveErr     map[int64]error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		properties:  map[int64]*domain.Property{},
		statusCalls: map[int64]domain.LookupRef{},
		saveErr:     map[int64]error{},
	}
}

func (s *fakeStorage) GetByID(ctx context.Context, id int64) (*domain.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	p, ok := s.properties[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *fakeStorage) Save(ctx context.Context, record *domain.PropertyRecord, opts domain.SaveOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.saveErr[record.ID]; err != nil {
		return err
	}
	p := record.Property
	p.PropertyLinks = record.Links()
	s.properties[record.ID] = &p
	s.saved = append(s.saved, record.ID)
	s.saveOpts = append(s.saveOpts, opts)
	return nil
}

func (s *fakeStorage) UpdateStatus(ctx context.Context, propertyID int64, status domain.LookupRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statusCalls[propertyID] = status
	if p, ok := s.properties[propertyID]; ok {
		id := status.ID
		p.PropertyStatusID = &id
	}
	return nil
}

func (s *fakeStorage) ListIDs(ctx context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0, len(s.properties))
	for id := range s.properties {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *fakeStorage) FindPage(ctx context.Context, filter domain.PropertyFilter, page, pageSize int) (*domain.PropertyPage, error) {
	return &domain.PropertyPage{CurrentPage: page, PageSize: pageSize}, nil
}

func (s *fakeStorage) GetDetails(ctx context.Context, id int64) (*domain.PropertyDetails, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.PropertyDetails{Property: *p}, nil
}

func (s *fakeStorage) CountByStatusIDs(ctx context.Context, readyID, offPlanID int64) (*domain.StatusCounts, error) {
	return &domain.StatusCounts{}, nil
}

func (s *fakeStorage) CountByCity(ctx context.Context, statusID *int64) ([]domain.CityCount, error) {
	return []domain.CityCount{{PropertyCount: 3}}, nil
}

type fakeLookups struct {
	saved    *domain.FilterCatalog
	statuses map[string]domain.Lookup
}

func (l *fakeLookups) SaveCatalog(ctx context.Context, catalog *domain.FilterCatalog) (*domain.CatalogSaveStats, error) {
	l.saved = catalog
	return &domain.CatalogSaveStats{Saved: map[domain.LookupKind]int{
		domain.LookupCity:     len(catalog.Cities),
		domain.LookupDistrict: len(catalog.Districts),
	}}, nil
}

func (l *fakeLookups) ListCities(ctx context.Context) ([]domain.Lookup, error) {
	return nil, nil
}

func (l *fakeLookups) FindStatusByName(ctx context.Context, name string) (*domain.Lookup, error) {
	for k, v := range l.statuses {
		if strings.EqualFold(k, name) {
			found := v
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

type fakeEvents struct {
	mu         sync.Mutex
	properties []int64
	posts      []string
	err        error
}

func (e *fakeEvents) PropertyCreated(ctx context.Context, record *domain.PropertyRecord) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.properties = append(e.properties, record.ID)
	return e.err
}

func (e *fakeEvents) BlogPostCreated(ctx context.Context, post *domain.BlogPost) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.posts = append(e.posts, post.Slug)
	return e.err
}

type fakeReporter struct {
	mu    sync.Mutex
	stats []*domain.SyncStats
}

func (r *fakeReporter) ReportSyncResults(ctx context.Context, stats *domain.SyncStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats = append(r.stats, stats)
	return nil
}

func (r *fakeReporter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stats)
}

type fakeAgentRepo struct {
	nextID int64
	agents map[int64]*domain.Agent
}

func newFakeAgentRepo() *fakeAgentRepo {
	return &fakeAgentRepo{agents: map[int64]*domain.Agent{}}
}

func (r *fakeAgentRepo) Create(ctx context.Context, agent *domain.Agent) error {
	for _, a := range r.agents {
		if a.Username == agent.Username {
			return domain.NewFieldError("username", "agent with this username already exists.")
		}
	}
	r.nextID++
	agent.ID = r.nextID
	copied := *agent
	r.agents[agent.ID] = &copied
	return nil
}

func (r *fakeAgentRepo) Update(ctx context.Context, agent *domain.Agent) error {
	if _, ok := r.agents[agent.ID]; !ok {
		return domain.ErrNotFound
	}
	copied := *agent
	r.agents[agent.ID] = &copied
	return nil
}

func (r *fakeAgentRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.agents[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.agents, id)
	return nil
}

func (r *fakeAgentRepo) GetByID(ctx context.Context, id int64) (*domain.Agent, error) {
	a, ok := r.agents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAgentRepo) GetByUsername(ctx context.Context, username string) (*domain.Agent, error) {
	for _, a := range r.agents {
		if a.Username == username {
			copied := *a
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeAgentRepo) List(ctx context.Context) ([]domain.Agent, error) {
	out := make([]domain.Agent, 0, len(r.agents))
	for _, a := range r.agents {
		out = append(out, *a)
	}
	return out, nil
}

type fakeBlogRepo struct {
	posts []domain.BlogPost
}

func (r *fakeBlogRepo) Create(ctx context.Context, post *domain.BlogPost) error {
	for _, p := range r.posts {
		if p.Slug == post.Slug {
			return domain.NewFieldError("slug", "blog post with this slug already exists.")
		}
	}
	post.ID = int64(len(r.posts) + 1)
	r.posts = append(r.posts, *post)
	return nil
}

func (r *fakeBlogRepo) GetBySlug(ctx context.Context, slug string) (*domain.BlogPost, error) {
	for _, p := range r.posts {
		if p.Slug == slug {
			found := p
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeBlogRepo) List(ctx context.Context) ([]domain.BlogPost, error) {
	return r.posts, nil
}

var errStorageDown = errors.New("connection refused")

func int64Ptr(v int64) *int64 { return &v }

// record строит внешнюю запись с заголовком и городом
func record(id int64, title string) *domain.PropertyRecord {
	r := &domain.PropertyRecord{
		Property: domain.Property{ID: id, PropertyFields: domain.PropertyFields{Title: title}},
		City:     &domain.LookupRef{ID: 1, Name: "Dubai", Detailed: true},
	}
	r.PropertyLinks = r.Links()
	return r
}

// localFrom возвращает локальную копию внешней записи, как после записи в БД
func localFrom(r *domain.PropertyRecord) *domain.Property {
	p := r.Property
	p.PropertyLinks = r.Links()
	return &p
}

func summaries(ids ...int64) []domain.PropertySummary {
	out := make([]domain.PropertySummary, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.PropertySummary{ID: int64Ptr(id)})
	}
	return out
}
