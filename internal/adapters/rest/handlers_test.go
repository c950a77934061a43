package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"offplan-service/internal/contextkeys"
	"offplan-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProperties struct {
	page       *domain.PropertyPage
	lastFilter domain.PropertyFilter
	lastPage   int
	details    map[int64]*domain.PropertyDetails
	cityCounts map[string][]domain.CityCount
}

func (f *fakeProperties) Execute(ctx context.Context, filter domain.PropertyFilter, page int) (*domain.PropertyPage, error) {
	f.lastFilter, f.lastPage = filter, page
	result := *f.page
	result.CurrentPage = page
	return &result, nil
}

type fakeDetails struct{ f *fakeProperties }

func (d fakeDetails) Execute(ctx context.Context, id int64) (*domain.PropertyDetails, error) {
	if p, ok := d.f.details[id]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

type fakeStatusCounts struct{}

func (fakeStatusCounts) Execute(ctx context.Context) (*domain.StatusCounts, error) {
	return &domain.StatusCounts{Ready: 4, OffPlan: 9}, nil
}

type fakeCityCounts struct{ f *fakeProperties }

func (c fakeCityCounts) Execute(ctx context.Context, status string) ([]domain.CityCount, error) {
	counts, ok := c.f.cityCounts[strings.ToLower(status)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return counts, nil
}

type fakeCities struct{}

func (fakeCities) Execute(ctx context.Context) ([]domain.Lookup, error) {
	return []domain.Lookup{{ID: 2, Name: "Abu Dhabi"}, {ID: 1, Name: "Dubai"}}, nil
}

type fakeAgents struct {
	byUsername map[string]*domain.Agent
	nextID     int64
}

func (f *fakeAgents) Execute(ctx context.Context, changes domain.AgentChanges) (*domain.Agent, bool, error) {
	if changes.Username == nil || *changes.Username == "" {
		return nil, false, domain.NewFieldError("username", "This field is required.")
	}
	if a, ok := f.byUsername[*changes.Username]; ok {
		changes.Apply(a)
		return a, false, nil
	}
	f.nextID++
	a := &domain.Agent{ID: f.nextID}
	changes.Apply(a)
	f.byUsername[a.Username] = a
	return a, true, nil
}

func (f *fakeAgents) ByID(ctx context.Context, id int64) (*domain.Agent, error) {
	for _, a := range f.byUsername {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAgents) ByUsername(ctx context.Context, username string) (*domain.Agent, error) {
	if a, ok := f.byUsername[username]; ok {
		return a, nil
	}
	return nil, domain.ErrNotFound
}

type fakeUpdateAgent struct{ f *fakeAgents }

func (u fakeUpdateAgent) Execute(ctx context.Context, id int64, changes domain.AgentChanges) (*domain.Agent, error) {
	a, err := u.f.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	changes.Apply(a)
	return a, nil
}

type fakeDeleteAgent struct{ f *fakeAgents }

func (d fakeDeleteAgent) Execute(ctx context.Context, id int64) error {
	a, err := d.f.ByID(ctx, id)
	if err != nil {
		return err
	}
	delete(d.f.byUsername, a.Username)
	return nil
}

type fakeListAgents struct{ f *fakeAgents }

func (l fakeListAgents) Execute(ctx context.Context) ([]domain.Agent, error) {
	agents := []domain.Agent{}
	for _, a := range l.f.byUsername {
		agents = append(agents, *a)
	}
	return agents, nil
}

type fakeBlog struct {
	posts map[string]*domain.BlogPost
}

func (f *fakeBlog) Execute(ctx context.Context, post domain.BlogPost) (*domain.BlogPost, error) {
	if post.Title == "" {
		return nil, domain.NewFieldError("title", "This field is required.")
	}
	if post.Slug == "" {
		post.Slug = "generated"
	}
	if _, ok := f.posts[post.Slug]; ok {
		return nil, domain.NewFieldError("slug", "blog post with this slug already exists.")
	}
	post.ID = int64(len(f.posts) + 1)
	f.posts[post.Slug] = &post
	return &post, nil
}

type fakeGetBlog struct{ f *fakeBlog }

func (g fakeGetBlog) Execute(ctx context.Context, slug string) (*domain.BlogPost, error) {
	if p, ok := g.f.posts[slug]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

type fakeListBlog struct{}

func (fakeListBlog) Execute(ctx context.Context) ([]domain.BlogPost, error) {
	return []domain.BlogPost{}, nil
}

type fakeRunSync struct {
	busy bool
	last *domain.SyncStats
}

func (f *fakeRunSync) Execute(ctx context.Context, mode domain.SyncMode) (*domain.SyncStats, error) {
	return nil, nil
}

func (f *fakeRunSync) Start(ctx context.Context, mode domain.SyncMode) (uuid.UUID, error) {
	if f.busy {
		return uuid.Nil, domain.ErrSyncInProgress
	}
	f.busy = true
	return uuid.MustParse("6f1c1f3e-9a7b-4c55-9a6e-1f2d3c4b5a69"), nil
}

func (f *fakeRunSync) LastRun() *domain.SyncStats { return f.last }

type testAPI struct {
	handler http.Handler
	props   *fakeProperties
	agents  *fakeAgents
	sync    *fakeRunSync
}

func newTestAPI() *testAPI {
	props := &fakeProperties{
		page: &domain.PropertyPage{
			Items:      []domain.PropertyListItem{{ID: 1, Title: "Creek Views"}},
			TotalCount: 30,
			PageSize:   domain.PropertiesPageSize,
		},
		details: map[int64]*domain.PropertyDetails{
			5: {
				Property:   domain.Property{ID: 5, PropertyFields: domain.PropertyFields{Title: "Sobha One", DownPayment: 20}},
				City:       &domain.Lookup{ID: 1, Name: "Dubai"},
				Facilities: []domain.Lookup{{ID: 3, Name: "Gym"}},
			},
		},
		cityCounts: map[string][]domain.CityCount{
			"total": {{PropertyCount: 12, FilterStatus: domain.TotalStatus}},
			"ready": {{PropertyCount: 4, FilterStatus: "Ready"}},
		},
	}
	agents := &fakeAgents{byUsername: map[string]*domain.Agent{}}
	blog := &fakeBlog{posts: map[string]*domain.BlogPost{}}
	runSync := &fakeRunSync{}

	h := NewHandlers(UseCases{
		FindProperties:     props,
		GetPropertyDetails: fakeDetails{props},
		GetStatusCounts:    fakeStatusCounts{},
		GetCityCounts:      fakeCityCounts{props},
		ListCities:         fakeCities{},
		RegisterAgent:      agents,
		UpdateAgent:        fakeUpdateAgent{agents},
		DeleteAgent:        fakeDeleteAgent{agents},
		GetAgent:           agents,
		ListAgents:         fakeListAgents{agents},
		ListBlogPosts:      fakeListBlog{},
		GetBlogPost:        fakeGetBlog{blog},
		CreateBlogPost:     blog,
		RunSync:            runSync,
	})
	return &testAPI{
		handler: NewRouter(h, contextkeys.NoopLogger(), []string{"https://offplan.ae"}),
		props:   props,
		agents:  agents,
		sync:    runSync,
	}
}

func (api *testAPI) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	}
	return rec, decoded
}

func TestListPropertiesPagination(t *testing.T) {
	api := newTestAPI()

	rec, body := api.do(t, http.MethodGet, "/api/v1/properties?page=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["status"])

	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(30), data["count"])
	assert.Equal(t, float64(2), data["current_page"])
	assert.Equal(t, "http://example.com/api/v1/properties?page=3", data["next_page_url"])
	assert.Equal(t, "http://example.com/api/v1/properties?page=1", data["previous_page_url"])
	assert.Len(t, data["results"], 1)

	_, body = api.do(t, http.MethodGet, "/api/v1/properties?page=3", "")
	data = body["data"].(map[string]interface{})
	assert.Nil(t, data["next_page_url"])
}

func TestFilterProperties(t *testing.T) {
	api := newTestAPI()

	rec, _ := api.do(t, http.MethodPost, "/api/v1/properties/filter",
		`{"city":"dubai","area":"marina","min_price":0,"max_price":2000000,"property_status":"off plan"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	f := api.props.lastFilter
	assert.Equal(t, "dubai", f.City)
	assert.Equal(t, "marina", f.Area)
	assert.Equal(t, "off plan", f.PropertyStatus)
	assert.Nil(t, f.MinPrice, "zero bound is ignored")
	require.NotNil(t, f.MaxPrice)
	assert.Equal(t, int64(2000000), *f.MaxPrice)
	assert.Equal(t, 1, api.props.lastPage)

	rec, _ = api.do(t, http.MethodPost, "/api/v1/properties/filter", `{"city":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPropertyDetails(t *testing.T) {
	api := newTestAPI()

	rec, body := api.do(t, http.MethodGet, "/api/v1/properties/5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	property := body["property"].(map[string]interface{})
	assert.Equal(t, "Sobha One", property["title"])
	assert.Equal(t, float64(20), property["downPayment"])
	assert.Equal(t, "Dubai", property["city"].(map[string]interface{})["name"])
	assert.Len(t, property["facilities"], 1)

	for _, path := range []string{"/api/v1/properties/404", "/api/v1/properties/abc"} {
		rec, body = api.do(t, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Nil(t, body["property"])
		assert.Equal(t, "not_found", body["error"].(map[string]interface{})["code"])
	}
}

func TestCountsAndCities(t *testing.T) {
	api := newTestAPI()

	rec, body := api.do(t, http.MethodGet, "/api/v1/properties/status-counts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]interface{}{"ready": float64(4), "offplan": float64(9)}, body["data"])

	rec, body = api.do(t, http.MethodGet, "/api/v1/properties/city-counts", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["status"])

	rec, body = api.do(t, http.MethodGet, "/api/v1/properties/city-counts?status=Total", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "All properties grouped by city (Total)", body["message"])

	rec, body = api.do(t, http.MethodGet, "/api/v1/properties/city-counts?status=Sold%20Out", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No matching PropertyStatus for 'Sold Out'", body["message"])

	rec, body = api.do(t, http.MethodGet, "/api/v1/cities", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["data"], 2)
}

func TestAgentEndpoints(t *testing.T) {
	api := newTestAPI()

	rec, body := api.do(t, http.MethodPost, "/api/v1/agents/register", `{"name":"No Username"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, map[string]interface{}{"username": []interface{}{"This field is required."}}, body["errors"])

	rec, body = api.do(t, http.MethodPost, "/api/v1/agents/register", `{"username":"sara","name":"Sara"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Agent registered successfully", body["message"])

	rec, body = api.do(t, http.MethodPost, "/api/v1/agents/register", `{"username":"sara","email":"sara@offplan.ae"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Agent updated successfully", body["message"])
	assert.Equal(t, "Sara", body["data"].(map[string]interface{})["name"])

	rec, _ = api.do(t, http.MethodPut, "/api/v1/agents/1", `{"years_of_experience":7}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, api.agents.byUsername["sara"].YearsOfExperience)

	rec, _ = api.do(t, http.MethodGet, "/api/v1/agents/by-username/sara", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body = api.do(t, http.MethodGet, "/api/v1/agents/by-username/ghost", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, body["status"])

	rec, _ = api.do(t, http.MethodDelete, "/api/v1/agents/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = api.do(t, http.MethodGet, "/api/v1/agents/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, body = api.do(t, http.MethodGet, "/api/v1/agents", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{}, body["data"])
}

func TestBlogEndpoints(t *testing.T) {
	api := newTestAPI()

	rec, _ := api.do(t, http.MethodPost, "/api/v1/blogs", `{"slug":"hello","title":"Hello"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body := api.do(t, http.MethodPost, "/api/v1/blogs", `{"slug":"hello","title":"Again"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["errors"], "slug")

	rec, _ = api.do(t, http.MethodGet, "/api/v1/blogs/hello", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = api.do(t, http.MethodGet, "/api/v1/blogs/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, body = api.do(t, http.MethodGet, "/api/v1/blogs", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{}, body["data"])
}

func TestSyncEndpoints(t *testing.T) {
	api := newTestAPI()

	rec, _ := api.do(t, http.MethodGet, "/api/v1/sync/last", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, body := api.do(t, http.MethodPost, "/api/v1/sync/properties", "")
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "6f1c1f3e-9a7b-4c55-9a6e-1f2d3c4b5a69", body["data"].(map[string]interface{})["run_id"])

	rec, _ = api.do(t, http.MethodPost, "/api/v1/sync/filters", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = api.do(t, http.MethodPost, "/api/v1/sync/everything", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	api.sync.last = &domain.SyncStats{Mode: domain.SyncProperties, Updated: 2, StopReason: domain.StopStreak}
	rec, body = api.do(t, http.MethodGet, "/api/v1/sync/last", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.StopStreak, body["data"].(map[string]interface{})["stop_reason"])
}

func TestMiddleware(t *testing.T) {
	api := newTestAPI()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cities", nil)
	req.Header.Set("X-Trace-ID", "trace-7")
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	assert.Equal(t, "trace-7", rec.Header().Get("X-Trace-ID"))

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/cities", nil)
	req.Header.Set("Origin", "https://offplan.ae")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec = httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	assert.Equal(t, "https://offplan.ae", rec.Header().Get("Access-Control-Allow-Origin"))
}
